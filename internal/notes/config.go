package notes

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"budget-reconciler/internal/domain"
)

var (
	// ErrUnknownConfiguration is returned for tag values no job understands.
	ErrUnknownConfiguration = errors.New("unknown configuration")
	// ErrMissingValue is returned when a required tag is absent.
	ErrMissingValue = errors.New("missing required tag")
	// ErrInvalidValue is returned when a tag value cannot be parsed.
	ErrInvalidValue = errors.New("invalid tag value")
)

// ConfigError describes a problem with one tag of an account note.
type ConfigError struct {
	Tag   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("note tag %s: %v", e.Tag, e.Err)
	}
	return fmt.Sprintf("note tag %s=%q: %v", e.Tag, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

const (
	TagStatementClose    = "statementClose"
	TagSync              = "sync"
	TagKBBType           = "kbbType"
	TagKBBVehicleID      = "kbbVehicleid"
	TagKBBZipcode        = "kbbZipcode"
	TagKBBCondition      = "kbbCondition"
	TagKBBMileage        = "kbbMileage"
	TagKBBDailyMileage   = "kbbDailyMileage"
	TagKBBMileageUpdated = "kbbMileageUpdated"
	TagKBBOptions        = "kbbOptions"
	TagKBBMake           = "kbbMake"
	TagKBBModel          = "kbbModel"
	TagKBBYear           = "kbbYear"
	TagKBBPriceType      = "kbbPriceType"
)

// StatementConfig is the credit-card cycle configuration of an account.
type StatementConfig struct {
	CloseOffsetDays int
}

// DefaultCloseOffsetDays is the gap between statement close and payment.
const DefaultCloseOffsetDays = 15

// ParseStatementConfig reads statementClose, defaulting to 15 days.
func ParseStatementConfig(note string) (StatementConfig, error) {
	raw := Get(note, TagStatementClose, strconv.Itoa(DefaultCloseOffsetDays))
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return StatementConfig{}, &ConfigError{Tag: TagStatementClose, Value: raw, Err: ErrInvalidValue}
	}
	return StatementConfig{CloseOffsetDays: days}, nil
}

// SyncConfig marks an account for bank balance sync.
type SyncConfig struct {
	Kind string
}

// ParseSyncConfig returns the sync kind and whether the account opted in.
// The kind is free-form; it labels the account in logs.
func ParseSyncConfig(note string) (SyncConfig, bool) {
	kind, ok := Lookup(note, TagSync)
	if !ok || kind == "" {
		return SyncConfig{}, false
	}
	return SyncConfig{Kind: kind}, true
}

// VehicleKind selects the valuation source.
type VehicleKind string

const (
	VehicleCar        VehicleKind = "car"
	VehicleMotorcycle VehicleKind = "motorcycle"
)

// VehicleConfig is the KBB valuation configuration of an account.
type VehicleConfig struct {
	Kind      VehicleKind
	VehicleID string
	Zipcode   string
	Condition string
	Options   string
	PriceType string

	Mileage         int
	HasMileage      bool
	DailyMileage    int
	MileageUpdated  time.Time
	HasUpdatedStamp bool

	Make  string
	Model string
	Year  string
}

const (
	defaultZipcode   = "46237"
	defaultCondition = "good"
)

// ParseVehicleConfig validates the kbb* tags of note. ok is false when the
// account carries no kbbType at all.
func ParseVehicleConfig(note string) (cfg VehicleConfig, ok bool, err error) {
	t := Parse(note)
	kind, present := t.Lookup(TagKBBType)
	if !present {
		return VehicleConfig{}, false, nil
	}

	cfg = VehicleConfig{
		Kind:      VehicleKind(kind),
		PriceType: t.Get(TagKBBPriceType, ""),
	}

	switch cfg.Kind {
	case VehicleCar:
		cfg.VehicleID = t.Get(TagKBBVehicleID, "")
		if cfg.VehicleID == "" {
			return cfg, true, &ConfigError{Tag: TagKBBVehicleID, Err: ErrMissingValue}
		}
		cfg.Zipcode = t.Get(TagKBBZipcode, defaultZipcode)
		cfg.Condition = t.Get(TagKBBCondition, defaultCondition)
		cfg.Options = t.Get(TagKBBOptions, "")

		if raw, ok := t.Lookup(TagKBBMileage); ok {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return cfg, true, &ConfigError{Tag: TagKBBMileage, Value: raw, Err: ErrInvalidValue}
			}
			cfg.Mileage, cfg.HasMileage = n, true
		}
		if raw, ok := t.Lookup(TagKBBDailyMileage); ok {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return cfg, true, &ConfigError{Tag: TagKBBDailyMileage, Value: raw, Err: ErrInvalidValue}
			}
			cfg.DailyMileage = n
		}
		if raw, ok := t.Lookup(TagKBBMileageUpdated); ok {
			d, err := domain.ParseDate(raw)
			if err != nil {
				return cfg, true, &ConfigError{Tag: TagKBBMileageUpdated, Value: raw, Err: ErrInvalidValue}
			}
			cfg.MileageUpdated, cfg.HasUpdatedStamp = d, true
		}
	case VehicleMotorcycle:
		cfg.Make = t.Get(TagKBBMake, "")
		cfg.Model = t.Get(TagKBBModel, "")
		cfg.Year = t.Get(TagKBBYear, "")
		required := []struct{ tag, value string }{
			{TagKBBMake, cfg.Make},
			{TagKBBModel, cfg.Model},
			{TagKBBYear, cfg.Year},
		}
		for _, r := range required {
			if r.value == "" {
				return cfg, true, &ConfigError{Tag: r.tag, Err: ErrMissingValue}
			}
		}
	default:
		return cfg, true, &ConfigError{Tag: TagKBBType, Value: kind, Err: ErrUnknownConfiguration}
	}
	return cfg, true, nil
}
