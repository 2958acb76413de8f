package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points config discovery at an empty directory so a developer's
// own config file cannot leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "json", cfg.Server.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout())
	assert.Equal(t, 2, cfg.Server.EventWorkers)
	assert.Equal(t, 256, cfg.Server.EventQueueSize)

	s := cfg.Scheduler
	assert.Empty(t, s.Timezone)
	assert.Equal(t, StageConfig{AgainMins: 1, HardMins: 10, GoodDays: 1, EasyDays: 3}, s.Stage1)
	assert.Equal(t, StageConfig{AgainMins: 5, HardMins: 30, GoodDays: 3, EasyDays: 5}, s.Stage2)
	assert.Equal(t, IntervalConfig{Hard: 1.2, Good: 2.0, Easy: 3.0}, s.Intervals)
	assert.Equal(t, TimingConfig{FastMs: 3000, SlowMs: 12000, ClampMin: 0.8, ClampMax: 1.2}, s.Timing)
	assert.Equal(t, MultiplierConfig{Hard: 0.8, Good: 0.85, Easy: 0.9}, s.Penalties.L1)
	assert.Equal(t, MultiplierConfig{Hard: 0.6, Good: 0.7, Easy: 0.8}, s.Penalties.L2Plus)
	assert.Equal(t, 10, s.Penalties.Day3AgainMins)
	assert.Equal(t, 3, s.Penalties.MaxLevel)
	assert.False(t, s.Penalties.CompoundAfterL1)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	isolate(t)

	t.Setenv("CADENCE_SERVER_PORT", "9090")
	t.Setenv("CADENCE_SERVER_LOG_LEVEL", "debug")
	t.Setenv("CADENCE_SCHEDULER_TIMEZONE", "America/New_York")
	t.Setenv("CADENCE_SCHEDULER_INTERVALS_GOOD", "2.5")
	t.Setenv("CADENCE_SCHEDULER_PENALTIES_MAX_LEVEL", "5")
	t.Setenv("CADENCE_SCHEDULER_PENALTIES_COMPOUND_AFTER_L1", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "America/New_York", cfg.Scheduler.Timezone)
	assert.InDelta(t, 2.5, cfg.Scheduler.Intervals.Good, 1e-9)
	assert.Equal(t, 5, cfg.Scheduler.Penalties.MaxLevel)
	assert.True(t, cfg.Scheduler.Penalties.CompoundAfterL1)
}

func TestLoad_ConfigFileDiscovered(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "config.yaml", `
server:
  port: 7070
scheduler:
  timezone: UTC
  stage1:
    easy_days: 4
  timing:
    fast_ms: 2000
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "UTC", cfg.Scheduler.Timezone)
	assert.Equal(t, 4, cfg.Scheduler.Stage1.EasyDays)
	assert.Equal(t, 1, cfg.Scheduler.Stage1.GoodDays, "unset keys keep their defaults")
	assert.Equal(t, int64(2000), cfg.Scheduler.Timing.FastMs)
}

func TestLoad_EnvironmentBeatsFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "config.yaml", "server:\n  port: 7070\n")
	t.Setenv("CADENCE_SERVER_PORT", "6060")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
}

func TestLoadFrom_TOML(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "cadence.toml", `
[scheduler.penalties]
day3_again_mins = 15

[scheduler.penalties.l1]
good = 0.9
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Scheduler.Penalties.Day3AgainMins)
	assert.InDelta(t, 0.9, cfg.Scheduler.Penalties.L1.Good, 1e-9)
	assert.InDelta(t, 0.8, cfg.Scheduler.Penalties.L1.Hard, 1e-9)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	dir := isolate(t)

	_, err := LoadFrom(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{
			name:  "port out of range",
			env:   map[string]string{"CADENCE_SERVER_PORT": "70000"},
			field: "Port",
		},
		{
			name:  "unknown log level",
			env:   map[string]string{"CADENCE_SERVER_LOG_LEVEL": "verbose"},
			field: "LogLevel",
		},
		{
			name:  "unknown log format",
			env:   map[string]string{"CADENCE_SERVER_LOG_FORMAT": "xml"},
			field: "LogFormat",
		},
		{
			name:  "no event workers",
			env:   map[string]string{"CADENCE_SERVER_EVENT_WORKERS": "0"},
			field: "EventWorkers",
		},
		{
			name:  "unknown timezone",
			env:   map[string]string{"CADENCE_SCHEDULER_TIMEZONE": "Mars/Olympus"},
			field: "Timezone",
		},
		{
			name:  "good not above hard",
			env:   map[string]string{"CADENCE_SCHEDULER_INTERVALS_GOOD": "1.1"},
			field: "Good",
		},
		{
			name:  "easy not above good",
			env:   map[string]string{"CADENCE_SCHEDULER_INTERVALS_EASY": "1.5"},
			field: "Easy",
		},
		{
			name:  "slow threshold below fast",
			env:   map[string]string{"CADENCE_SCHEDULER_TIMING_SLOW_MS": "1000"},
			field: "SlowMs",
		},
		{
			name:  "negative stage minutes",
			env:   map[string]string{"CADENCE_SCHEDULER_STAGE2_AGAIN_MINS": "-1"},
			field: "AgainMins",
		},
		{
			name:  "zero max level",
			env:   map[string]string{"CADENCE_SCHEDULER_PENALTIES_MAX_LEVEL": "0"},
			field: "MaxLevel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "validation failed")
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestSchedulerConfig_Params(t *testing.T) {
	isolate(t)
	t.Setenv("CADENCE_SCHEDULER_TIMEZONE", "Europe/Berlin")
	t.Setenv("CADENCE_SCHEDULER_TIMING_CLAMP_MAX", "1.5")

	cfg, err := Load()
	require.NoError(t, err)

	params, err := cfg.Scheduler.Params()
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", params.Location.String())
	assert.InDelta(t, 1.5, params.Timing.ClampMax, 1e-9)
	assert.Equal(t, 3, params.Stage1.EasyDays)
	assert.InDelta(t, 0.7, params.Penalties.L2Plus.Good, 1e-9)
	assert.Equal(t, 3, params.Penalties.MaxLevel)
}

func TestSchedulerConfig_Location(t *testing.T) {
	t.Parallel() // Enable parallel execution

	loc, err := SchedulerConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	_, err = SchedulerConfig{Timezone: "Nowhere/Special"}.Location()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nowhere/Special")
}
