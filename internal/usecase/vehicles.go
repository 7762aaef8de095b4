package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/notes"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VehicleUseCase tracks vehicle accounts at their estimated resale value.
type VehicleUseCase struct {
	base
	ledger   Ledger
	notes    NoteStore
	pricer   VehiclePricer
	balances *BalanceUseCase
	delay    time.Duration
}

// NewVehicleUseCase creates a new instance of the usecase. delay spaces out
// valuation requests.
func NewVehicleUseCase(ledger Ledger, store NoteStore, pricer VehiclePricer, balances *BalanceUseCase, delay time.Duration, options ...Option) *VehicleUseCase {
	return &VehicleUseCase{base: newBase(options), ledger: ledger, notes: store, pricer: pricer, balances: balances, delay: delay}
}

// TrackVehicles revalues every account whose note carries kbb* tags.
func (uc *VehicleUseCase) TrackVehicles(ctx context.Context, accounts []domain.Account) (*domain.RunReport, error) {
	report := &domain.RunReport{ID: uuid.NewString(), Job: "trackKBB", StartedAt: uc.now().UTC()}
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome, fetched := uc.trackAccount(ctx, account)
		if outcome.Status == domain.StatusFailed {
			uc.accountLog(account).WithField("error", outcome.Reason).Error("vehicle valuation failed")
		}
		report.Add(outcome)
		if fetched {
			if err := sleepCtx(ctx, uc.delay); err != nil {
				return report, err
			}
		}
	}
	report.FinishedAt = uc.now().UTC()
	return report, nil
}

func (uc *VehicleUseCase) trackAccount(ctx context.Context, account domain.Account) (domain.AccountOutcome, bool) {
	note, err := uc.notes.Note(ctx, account.NoteID())
	if err != nil {
		return domain.Failed(account, fmt.Errorf("could not get account note: %w", err)), false
	}
	if note == "" {
		return domain.Skipped(account, "no note"), false
	}
	cfg, ok, err := notes.ParseVehicleConfig(note)
	if !ok {
		return domain.Skipped(account, "no kbb tags"), false
	}
	if err != nil {
		return domain.Failed(account, err), false
	}

	if cfg.Kind == notes.VehicleCar && cfg.HasMileage && cfg.DailyMileage > 0 {
		cfg, err = uc.rollMileage(ctx, account, note, cfg)
		if err != nil {
			return domain.Failed(account, err), false
		}
	}

	uc.accountLog(account).Info("fetching kbb value")
	price, err := uc.pricer.Price(ctx, cfg)
	if err != nil {
		return domain.Failed(account, fmt.Errorf("could not fetch kbb value: %w", err)), true
	}

	text := fmt.Sprintf("Update KBB to %d", price)
	if cfg.HasMileage {
		text += fmt.Sprintf(" (%d miles)", cfg.Mileage)
	}
	diff, err := uc.balances.UpdateAccountBalance(ctx, BalanceUpdate{
		Account:    account,
		NewBalance: decimal.NewFromInt(price),
		Payee:      "KBB",
		Note:       text,
	})
	if err != nil {
		return domain.Failed(account, err), true
	}
	outcome := domain.Updated(account)
	outcome.Adjustment = &diff
	return outcome, true
}

// rollMileage advances kbbMileage by kbbDailyMileage for every day since
// kbbMileageUpdated and persists the rewritten note. An account without an
// update stamp is stamped with the date of its last transaction.
func (uc *VehicleUseCase) rollMileage(ctx context.Context, account domain.Account, note string, cfg notes.VehicleConfig) (notes.VehicleConfig, error) {
	tags := notes.Parse(note)
	if !cfg.HasUpdatedStamp {
		last, err := uc.ledger.Transactions(ctx, domain.TransactionFilter{AccountID: account.ID, Limit: 1, Descending: true})
		if err != nil {
			return cfg, fmt.Errorf("could not get last transaction: %w", err)
		}
		if len(last) == 0 {
			return cfg, nil
		}
		cfg.MileageUpdated, cfg.HasUpdatedStamp = domain.Day(last[0].Date), true
		tags.Set(notes.TagKBBMileageUpdated, domain.FormatDate(cfg.MileageUpdated))
	}

	today := uc.today()
	if days := domain.DaysBetween(cfg.MileageUpdated, today); days > 0 {
		cfg.Mileage += days * cfg.DailyMileage
		cfg.MileageUpdated = today
		tags.Set(notes.TagKBBMileage, strconv.Itoa(cfg.Mileage))
		tags.Set(notes.TagKBBMileageUpdated, domain.FormatDate(today))
	}

	if tags.Note() != note {
		if err := uc.notes.SetNote(ctx, account.NoteID(), tags.Note()); err != nil {
			return cfg, fmt.Errorf("could not save account note: %w", err)
		}
	}
	return cfg, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
