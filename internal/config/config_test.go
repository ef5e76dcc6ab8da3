package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/practiz/internal/selection"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDB, EnvDailyTarget, EnvTimezone, EnvListen, EnvLogLevel, EnvLogFormat} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10, cfg.DailyTarget)
	assert.Equal(t, selection.WeightsVersion, cfg.Weights.Version)
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "practiz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
daily_target: 20
timezone: Asia/Kolkata
log:
  level: debug
  format: json
jobs:
  session_idle_timeout: 30m
weights:
  max_jitter: 0
`), 0o644))

	t.Setenv(EnvListen, "127.0.0.1:9999")
	t.Setenv(EnvDailyTarget, "15")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.DailyTarget, "env overrides file")
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)
	assert.Equal(t, "127.0.0.1:9999", cfg.Listen)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 30*time.Minute, cfg.Jobs.SessionIdleTimeout)
	assert.Equal(t, time.Hour, cfg.Jobs.ReapInterval, "unset keys keep defaults")
	assert.Equal(t, 0.0, cfg.Weights.MaxJitter)
	assert.Equal(t, selection.NeverSeenUrgency, cfg.Weights.NeverSeenUrgency)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set, even empty.
	os.Unsetenv(EnvLogFormat)
	require.NoError(t, os.WriteFile(DotEnvFile, []byte("PRACTIZ_LOG_FORMAT=json\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"target too high", map[string]string{EnvDailyTarget: "500"}},
		{"target not a number", map[string]string{EnvDailyTarget: "ten"}},
		{"unknown timezone", map[string]string{EnvTimezone: "Mars/Olympus"}},
		{"unknown log level", map[string]string{EnvLogLevel: "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
