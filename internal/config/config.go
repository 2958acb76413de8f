package config

import (
	"fmt"
	"time"

	"github.com/phrazzld/cadence/internal/domain/srs"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	LogFormat              string `mapstructure:"log_format"               validate:"required,oneof=json text"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`

	// Review events are delivered off the request path by a worker pool
	EventWorkers   int `mapstructure:"event_workers"    validate:"gt=0,lte=64"`
	EventQueueSize int `mapstructure:"event_queue_size" validate:"gt=0"`
}

// SchedulerConfig contains the default scheduling parameters. Requests may
// still override individual knobs per call.
type SchedulerConfig struct {
	// Timezone is an IANA name used for calendar date keys; empty means the
	// system's local zone.
	Timezone  string         `mapstructure:"timezone"  validate:"omitempty,timezone"`
	Stage1    StageConfig    `mapstructure:"stage1"`
	Stage2    StageConfig    `mapstructure:"stage2"`
	Intervals IntervalConfig `mapstructure:"intervals"`
	Timing    TimingConfig   `mapstructure:"timing"`
	Penalties PenaltyConfig  `mapstructure:"penalties"`
}

// StageConfig holds the fixed durations of an early grading stage.
type StageConfig struct {
	AgainMins int `mapstructure:"again_mins" validate:"gt=0"`
	HardMins  int `mapstructure:"hard_mins"  validate:"gt=0"`
	GoodDays  int `mapstructure:"good_days"  validate:"gt=0"`
	EasyDays  int `mapstructure:"easy_days"  validate:"gt=0"`
}

// IntervalConfig holds the mature-stage growth multipliers.
// They must rank easy > good > hard.
type IntervalConfig struct {
	Hard float64 `mapstructure:"hard" validate:"gt=0"`
	Good float64 `mapstructure:"good" validate:"gtfield=Hard"`
	Easy float64 `mapstructure:"easy" validate:"gtfield=Good"`
}

// TimingConfig holds the latency sensitivity knobs.
type TimingConfig struct {
	FastMs   int64   `mapstructure:"fast_ms"   validate:"gt=0"`
	SlowMs   int64   `mapstructure:"slow_ms"   validate:"gtfield=FastMs"`
	ClampMin float64 `mapstructure:"clamp_min" validate:"gt=0"`
	ClampMax float64 `mapstructure:"clamp_max" validate:"gtefield=ClampMin"`
}

// PenaltyConfig holds the same-day failure penalty knobs.
type PenaltyConfig struct {
	L1              MultiplierConfig `mapstructure:"l1"`
	L2Plus          MultiplierConfig `mapstructure:"l2plus"`
	Day3AgainMins   int              `mapstructure:"day3_again_mins"   validate:"gt=0"`
	MaxLevel        int              `mapstructure:"max_level"         validate:"gt=0,lte=10"`
	CompoundAfterL1 bool             `mapstructure:"compound_after_l1"`
}

// MultiplierConfig holds one multiplier per successful grade.
type MultiplierConfig struct {
	Hard float64 `mapstructure:"hard" validate:"gt=0"`
	Good float64 `mapstructure:"good" validate:"gt=0"`
	Easy float64 `mapstructure:"easy" validate:"gt=0"`
}

// ShutdownTimeout returns the graceful shutdown budget as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Location resolves the configured timezone.
func (c SchedulerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Params converts the configuration into scheduler parameters.
func (c SchedulerConfig) Params() (*srs.Params, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}

	return &srs.Params{
		Stage1: stageParams(c.Stage1),
		Stage2: stageParams(c.Stage2),
		Intervals: srs.GradeMultipliers{
			Hard: c.Intervals.Hard,
			Good: c.Intervals.Good,
			Easy: c.Intervals.Easy,
		},
		Timing: srs.TimingParams{
			FastMs:   c.Timing.FastMs,
			SlowMs:   c.Timing.SlowMs,
			ClampMin: c.Timing.ClampMin,
			ClampMax: c.Timing.ClampMax,
		},
		Penalties: srs.PenaltyParams{
			L1:              multipliers(c.Penalties.L1),
			L2Plus:          multipliers(c.Penalties.L2Plus),
			Day3AgainMins:   c.Penalties.Day3AgainMins,
			MaxLevel:        c.Penalties.MaxLevel,
			CompoundAfterL1: c.Penalties.CompoundAfterL1,
		},
		Location: loc,
	}, nil
}

func stageParams(c StageConfig) srs.StageParams {
	return srs.StageParams{
		AgainMins: c.AgainMins,
		HardMins:  c.HardMins,
		GoodDays:  c.GoodDays,
		EasyDays:  c.EasyDays,
	}
}

func multipliers(c MultiplierConfig) srs.GradeMultipliers {
	return srs.GradeMultipliers{Hard: c.Hard, Good: c.Good, Easy: c.Easy}
}
