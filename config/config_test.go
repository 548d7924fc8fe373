package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "attendance.db", cfg.App.DBPath)
	assert.Equal(t, time.Hour, cfg.Rules.DuplicateCheckInWindow)
	assert.Equal(t, time.Hour, cfg.Rules.AutoCheckoutThreshold)
	assert.Equal(t, time.Minute, cfg.Sweep.Interval)
	assert.True(t, cfg.Sweep.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ATTENDANCE_DUPLICATE_WINDOW", "8h")
	t.Setenv("ATTENDANCE_AUTO_CHECKOUT_THRESHOLD", "8h")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("SWEEP_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 8*time.Hour, cfg.Rules.DuplicateCheckInWindow)
	assert.Equal(t, 8*time.Hour, cfg.Rules.AutoCheckoutThreshold)
	assert.Equal(t, 30*time.Second, cfg.Sweep.Interval)
	assert.False(t, cfg.Sweep.Enabled)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("ATTENDANCE_DUPLICATE_WINDOW", "eight hours")

	_, err := Load()
	assert.Error(t, err)
}
