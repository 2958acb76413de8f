package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/phrazzld/cadence/internal/domain/srs"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. CADENCE_SERVER_PORT or CADENCE_SCHEDULER_INTERVALS_GOOD.
const EnvPrefix = "CADENCE"

// Load configuration from environment variables and optionally a config file
// named config.{yaml,toml,json} in the working directory or the XDG config
// directory. Environment variables take precedence over values from config
// files. Returns a populated Config struct or an error if loading/validation
// fails.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom behaves like Load but reads the given config file instead of
// searching for one. A missing explicit file is an error.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdgConfigHome(), "cadence"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers a default for every key. Viper only resolves
// environment variables for keys it knows about, so this also makes every
// knob settable from the environment.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("server.event_workers", 2)
	v.SetDefault("server.event_queue_size", 256)

	def := srs.NewDefaultParams()
	v.SetDefault("scheduler.timezone", "")

	for name, stage := range map[string]srs.StageParams{"stage1": def.Stage1, "stage2": def.Stage2} {
		v.SetDefault("scheduler."+name+".again_mins", stage.AgainMins)
		v.SetDefault("scheduler."+name+".hard_mins", stage.HardMins)
		v.SetDefault("scheduler."+name+".good_days", stage.GoodDays)
		v.SetDefault("scheduler."+name+".easy_days", stage.EasyDays)
	}

	setMultiplierDefaults(v, "scheduler.intervals", def.Intervals)

	v.SetDefault("scheduler.timing.fast_ms", def.Timing.FastMs)
	v.SetDefault("scheduler.timing.slow_ms", def.Timing.SlowMs)
	v.SetDefault("scheduler.timing.clamp_min", def.Timing.ClampMin)
	v.SetDefault("scheduler.timing.clamp_max", def.Timing.ClampMax)

	setMultiplierDefaults(v, "scheduler.penalties.l1", def.Penalties.L1)
	setMultiplierDefaults(v, "scheduler.penalties.l2plus", def.Penalties.L2Plus)
	v.SetDefault("scheduler.penalties.day3_again_mins", def.Penalties.Day3AgainMins)
	v.SetDefault("scheduler.penalties.max_level", def.Penalties.MaxLevel)
	v.SetDefault("scheduler.penalties.compound_after_l1", def.Penalties.CompoundAfterL1)
}

func setMultiplierDefaults(v *viper.Viper, prefix string, m srs.GradeMultipliers) {
	v.SetDefault(prefix+".hard", m.Hard)
	v.SetDefault(prefix+".good", m.Good)
	v.SetDefault(prefix+".easy", m.Easy)
}

// xdgConfigHome returns the XDG config home or a default fallback.
func xdgConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}
