package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation/core"
)

// Environment variable names.
const (
	EnvDatabaseURL                   = "DATABASE_URL"
	EnvDatabaseAdapter               = "DATABASE_ADAPTER"
	EnvFineRatePercent               = "FINE_RATE_PERCENT"
	EnvDefaultBorrowDays             = "DEFAULT_BORROW_DAYS"
	EnvDefaultMaxBooks               = "DEFAULT_MAX_BOOKS"
	EnvMinimumDeposit                = "MINIMUM_DEPOSIT"
	EnvBlockExtensionWithUnpaidFines = "BLOCK_EXTENSION_WITH_UNPAID_FINES"
	EnvOverdueSweepSchedule          = "OVERDUE_SWEEP_SCHEDULE"
	EnvLogLevel                      = "LOG_LEVEL"
	EnvLogFormat                     = "LOG_FORMAT"
)

// Supported database adapters.
const (
	AdapterPGX  = "pgx"
	AdapterSQL  = "sql"
	AdapterSQLX = "sqlx"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultOverdueSweepSchedule is the cron spec of the overdue sweep when none is configured.
const DefaultOverdueSweepSchedule = "@every 15m"

// DefaultEnvFile is read by Load when no file is given.
const DefaultEnvFile = ".env"

// ErrInvalidConfig is returned for any configuration value that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	DatabaseURL          string
	DatabaseAdapter      string
	Policy               core.Policy
	OverdueSweepSchedule string
	LogLevel             slog.Level
	LogFormat            string
}

// LookupFunc looks up one configuration value, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads the given env files (DefaultEnvFile when none are given) and then the process
// environment, which takes precedence. Missing files are skipped. The process environment is not modified.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}

	fileValues := make(map[string]string)
	for _, file := range envFiles {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			return Config{}, errors.Join(ErrInvalidConfig, fmt.Errorf("reading %s: %w", file, err))
		}

		for key, value := range values {
			fileValues[key] = value
		}
	}

	return FromLookup(func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}

		value, ok := fileValues[key]

		return value, ok
	})
}

// FromLookup builds a Config from lookup, starting from the defaults.
// A set but unparsable value is an error, it never falls back to the default.
func FromLookup(lookup LookupFunc) (Config, error) {
	cfg := Config{
		DatabaseAdapter:      AdapterPGX,
		Policy:               core.DefaultPolicy(),
		OverdueSweepSchedule: DefaultOverdueSweepSchedule,
		LogLevel:             slog.LevelInfo,
		LogFormat:            LogFormatText,
	}

	var errs []error
	get := func(key string) (string, bool) {
		value, ok := lookup(key)
		value = strings.TrimSpace(value)

		return value, ok && value != ""
	}

	if value, ok := get(EnvDatabaseURL); ok {
		cfg.DatabaseURL = value
	}

	if value, ok := get(EnvDatabaseAdapter); ok {
		switch value {
		case AdapterPGX, AdapterSQL, AdapterSQLX:
			cfg.DatabaseAdapter = value
		default:
			errs = append(errs, invalid(EnvDatabaseAdapter, value))
		}
	}

	if value, ok := get(EnvFineRatePercent); ok {
		if rate, err := decimal.NewFromString(value); err == nil {
			cfg.Policy.FineRatePercent = rate
		} else {
			errs = append(errs, invalid(EnvFineRatePercent, value))
		}
	}

	if value, ok := get(EnvDefaultBorrowDays); ok {
		if days, err := strconv.Atoi(value); err == nil {
			cfg.Policy.DefaultBorrowDays = days
		} else {
			errs = append(errs, invalid(EnvDefaultBorrowDays, value))
		}
	}

	if value, ok := get(EnvDefaultMaxBooks); ok {
		if books, err := strconv.Atoi(value); err == nil {
			cfg.Policy.DefaultMaxBooks = books
		} else {
			errs = append(errs, invalid(EnvDefaultMaxBooks, value))
		}
	}

	if value, ok := get(EnvMinimumDeposit); ok {
		if deposit, err := decimal.NewFromString(value); err == nil {
			cfg.Policy.MinimumDeposit = deposit
		} else {
			errs = append(errs, invalid(EnvMinimumDeposit, value))
		}
	}

	if value, ok := get(EnvBlockExtensionWithUnpaidFines); ok {
		if block, err := strconv.ParseBool(value); err == nil {
			cfg.Policy.BlockExtensionWithUnpaidFines = block
		} else {
			errs = append(errs, invalid(EnvBlockExtensionWithUnpaidFines, value))
		}
	}

	if value, ok := get(EnvOverdueSweepSchedule); ok {
		cfg.OverdueSweepSchedule = value
	}

	if value, ok := get(EnvLogLevel); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(value)); err != nil {
			errs = append(errs, invalid(EnvLogLevel, value))
		}
	}

	if value, ok := get(EnvLogFormat); ok {
		switch value {
		case LogFormatText, LogFormatJSON:
			cfg.LogFormat = value
		default:
			errs = append(errs, invalid(EnvLogFormat, value))
		}
	}

	if err := cfg.Policy.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}

	return cfg, nil
}

func invalid(key, value string) error {
	return fmt.Errorf("%s: cannot use %q", key, value)
}
