// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the reconciler service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	DBMaxConns  int // connection pool ceiling; batches are sequential, keep it small

	// Engine tuning. Defaults are documented in reconcile.DefaultSettings.
	FreshnessWindowDays int     // calculated-expiry window for jobs without an explicit date
	GuardActiveFloor    int     // guard arms only above this many active jobs
	GuardMinFound       int     // below this found count the guard trips
	GuardMinRatio       float64 // found/active ratio below which the guard trips
	MinCompleteLength   int     // minimum chars for a description to count as complete

	SweepIntervalHours int // how often the standalone expiration sweep fires
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("RECONCILER_PORT")
	if port == "" {
		port = "8083"
	}

	cfg := &Config{
		Port:                port,
		DatabaseURL:         dbURL,
		RedisURL:            redisURL,
		DBMaxConns:          8,
		FreshnessWindowDays: 30,
		GuardActiveFloor:    10,
		GuardMinFound:       10,
		GuardMinRatio:       0.30,
		MinCompleteLength:   500,
		SweepIntervalHours:  6,
	}

	if err := overrideInt(&cfg.DBMaxConns, "DB_MAX_CONNS"); err != nil {
		return nil, err
	}
	if err := overrideInt(&cfg.FreshnessWindowDays, "FRESHNESS_WINDOW_DAYS"); err != nil {
		return nil, err
	}
	if err := overrideInt(&cfg.GuardActiveFloor, "SAFETY_GUARD_ACTIVE_FLOOR"); err != nil {
		return nil, err
	}
	if err := overrideInt(&cfg.GuardMinFound, "SAFETY_GUARD_MIN_FOUND"); err != nil {
		return nil, err
	}
	if err := overrideInt(&cfg.MinCompleteLength, "MIN_COMPLETE_LENGTH"); err != nil {
		return nil, err
	}
	if err := overrideInt(&cfg.SweepIntervalHours, "SWEEP_INTERVAL_HOURS"); err != nil {
		return nil, err
	}

	if s := os.Getenv("SAFETY_GUARD_MIN_RATIO"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 || v > 1 {
			return nil, fmt.Errorf("SAFETY_GUARD_MIN_RATIO must be in (0, 1], got %q", s)
		}
		cfg.GuardMinRatio = v
	}

	return cfg, nil
}

// overrideInt replaces *dst with the value of the env var when set.
// Values must be positive integers.
func overrideInt(dst *int, key string) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	*dst = v
	return nil
}
