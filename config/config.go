// Package config loads service configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	App   AppConfig
	Rules RulesConfig
	Sweep SweepConfig
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Port   int
	DBPath string
}

// RulesConfig holds the ledger's tunable windows. The defaults are the
// trial-period values; production deployments set ATTENDANCE_* to the
// agreed shift length.
type RulesConfig struct {
	DuplicateCheckInWindow time.Duration
	AutoCheckoutThreshold  time.Duration
}

// SweepConfig controls the background sweep timer.
type SweepConfig struct {
	Interval time.Duration
	Enabled  bool
}

// Load reads configuration from the environment. A .env file is honored
// when present and silently skipped otherwise.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	dupWindow, err := getDuration("ATTENDANCE_DUPLICATE_WINDOW", time.Hour)
	if err != nil {
		return nil, err
	}
	threshold, err := getDuration("ATTENDANCE_AUTO_CHECKOUT_THRESHOLD", time.Hour)
	if err != nil {
		return nil, err
	}
	interval, err := getDuration("SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	return &Config{
		App: AppConfig{
			Port:   port,
			DBPath: getEnv("DB_PATH", "attendance.db"),
		},
		Rules: RulesConfig{
			DuplicateCheckInWindow: dupWindow,
			AutoCheckoutThreshold:  threshold,
		},
		Sweep: SweepConfig{
			Interval: interval,
			Enabled:  getEnv("SWEEP_ENABLED", "true") != "false",
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
