// Package config loads reconciler settings from defaults, an optional config
// file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	CacheDir  string `mapstructure:"cache_dir"`
	Ledger    LedgerConfig
	Payments  PaymentsConfig
	SimpleFIN SimpleFINConfig `mapstructure:"simplefin"`
	KBB       KBBConfig       `mapstructure:"kbb"`
	Crypto    CryptoConfig
	Schedule  ScheduleConfig
	Server    ServerConfig
	Report    ReportConfig
	Log       LogConfig
}

// LedgerConfig selects and configures the ledger backend.
type LedgerConfig struct {
	Kind         string
	URL          string
	APIKey       string `mapstructure:"api_key"`
	FilePassword string `mapstructure:"file_password"`
	SyncID       string `mapstructure:"sync_id"`
	Path         string
}

// PaymentsConfig configures statement due prediction.
type PaymentsConfig struct {
	CategoryName      string `mapstructure:"category_name"`
	CategoryGroup     string `mapstructure:"category_group"`
	LinkedAccountID   string `mapstructure:"linked_account_id"`
	LookbackDays      int    `mapstructure:"lookback_days"`
	StaleDays         int    `mapstructure:"stale_days"`
	PaymentHistory    int    `mapstructure:"payment_history"`
	ApproximateWindow int    `mapstructure:"approximate_window"`
}

type SimpleFINConfig struct {
	URL         string
	Credentials string
	CacheKey    string        `mapstructure:"cache_key"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type KBBConfig struct {
	APIKey string `mapstructure:"api_key"`
	Delay  time.Duration
}

type CryptoConfig struct {
	ConsensusHost string `mapstructure:"consensus_host"`
	ExecutionHost string `mapstructure:"execution_host"`
	KrakenURL     string `mapstructure:"kraken_url"`
}

// ScheduleConfig holds the cron specs of the daemon jobs.
type ScheduleConfig struct {
	TrackCrypto string `mapstructure:"track_crypto"`
	SyncBalance string `mapstructure:"sync_balance"`
	TrackKBB    string `mapstructure:"track_kbb"`
}

// ServerConfig holds the status server address. Empty disables the server.
type ServerConfig struct {
	Addr string
}

type ReportConfig struct {
	Sink string
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	LedgerHTTP   = "http"
	LedgerSQLite = "sqlite"
)

// legacyEnv maps config keys to the environment names the scripts used.
var legacyEnv = map[string]string{
	"ledger.url":            "ACTUAL_SERVER_URL",
	"ledger.api_key":        "ACTUAL_SERVER_PASSWORD",
	"ledger.file_password":  "ACTUAL_FILE_PASSWORD",
	"ledger.sync_id":        "ACTUAL_SYNC_ID",
	"cache_dir":             "ACTUAL_CACHE_DIR",
	"simplefin.credentials": "SIMPLEFIN_CREDENTIALS",
	"kbb.api_key":           "KBB_API_KEY",
	"crypto.consensus_host": "CONSENSUS_HOST",
	"crypto.execution_host": "EXECUTION_HOST",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache_dir", "./cache")
	v.SetDefault("ledger.kind", LedgerHTTP)
	v.SetDefault("ledger.url", "")
	v.SetDefault("ledger.api_key", "")
	v.SetDefault("ledger.file_password", "")
	v.SetDefault("ledger.sync_id", "")
	v.SetDefault("ledger.path", "")

	v.SetDefault("payments.category_name", "💳 Credit Card Payment")
	v.SetDefault("payments.category_group", "Transfers")
	v.SetDefault("payments.linked_account_id", "")
	v.SetDefault("payments.lookback_days", 90)
	v.SetDefault("payments.stale_days", 30)
	v.SetDefault("payments.payment_history", 6)
	v.SetDefault("payments.approximate_window", 0)

	v.SetDefault("simplefin.url", "https://beta-bridge.simplefin.org/simplefin")
	v.SetDefault("simplefin.credentials", "")
	v.SetDefault("simplefin.cache_key", "")
	v.SetDefault("simplefin.cache_ttl", time.Hour)

	v.SetDefault("kbb.api_key", "")
	v.SetDefault("kbb.delay", 1324*time.Millisecond)

	v.SetDefault("crypto.consensus_host", "")
	v.SetDefault("crypto.execution_host", "")
	v.SetDefault("crypto.kraken_url", "https://api.kraken.com/0/public/Ticker")

	v.SetDefault("schedule.track_crypto", "*/30 * * * *")
	v.SetDefault("schedule.sync_balance", "0 */8 * * *")
	v.SetDefault("schedule.track_kbb", "0 12 * * *")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("report.sink", "none")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration. A .env file in the working directory is loaded
// into the environment first without overriding variables already set. Env
// overrides use prefix RECONCILER_, with the legacy names honoured as well.
// path may be empty, in which case RECONCILER_CONFIG is consulted.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv("RECONCILER_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("RECONCILER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "RECONCILER_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = filepath.Join(c.CacheDir, "ledger.db")
	}
	return c, nil
}

// ValidateLedger reports missing ledger settings.
func (c Config) ValidateLedger() error {
	switch c.Ledger.Kind {
	case LedgerHTTP:
		var errs []error
		if c.Ledger.URL == "" {
			errs = append(errs, errors.New("ledger.url (ACTUAL_SERVER_URL) is required"))
		}
		if c.Ledger.SyncID == "" {
			errs = append(errs, errors.New("ledger.sync_id (ACTUAL_SYNC_ID) is required"))
		}
		return errors.Join(errs...)
	case LedgerSQLite:
		if c.Ledger.Path == "" {
			return errors.New("ledger.path is required")
		}
		return nil
	}
	return fmt.Errorf("unknown ledger.kind %q", c.Ledger.Kind)
}

// Validate reports missing settings the jobs cannot run without.
func (c Config) Validate() error {
	errs := []error{c.ValidateLedger()}
	if c.Payments.LinkedAccountID == "" {
		errs = append(errs, errors.New("payments.linked_account_id is required"))
	}
	if c.Payments.LookbackDays <= 0 {
		errs = append(errs, errors.New("payments.lookback_days must be positive"))
	}
	if c.Payments.StaleDays < 0 {
		errs = append(errs, errors.New("payments.stale_days must not be negative"))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// NewLogger builds the root logger from the log settings.
func (c Config) NewLogger() *logrus.Logger {
	l := logrus.New()
	if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
		l.SetLevel(level)
	}
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}
