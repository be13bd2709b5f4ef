// Package config loads self-play settings from an optional YAML file, then
// from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"gambit/clock"
	"gambit/meta"
	"gambit/registry"
)

var ErrInvalidConfig = errors.New("invalid config")

// Engines are the side kinds a config can seat.
var Engines = []string{"random", "dragontooth"}

type Config struct {
	Variant     string            `yaml:"variant" env:"GAMBIT_VARIANT"`
	Chess960    bool              `yaml:"chess960" env:"GAMBIT_CHESS960"`
	TimeControl clock.TimeControl `yaml:"time_control" env:"GAMBIT_TIME_CONTROL"`
	White       string            `yaml:"white" env:"GAMBIT_WHITE"`
	Black       string            `yaml:"black" env:"GAMBIT_BLACK"`
	Seed        uint64            `yaml:"seed" env:"GAMBIT_SEED"`
	Tick        time.Duration     `yaml:"tick" env:"GAMBIT_TICK"`
	MaxPlies    int               `yaml:"max_plies" env:"GAMBIT_MAX_PLIES"`
	StatsDir    string            `yaml:"stats_dir" env:"GAMBIT_STATS_DIR"`
	SQLite      string            `yaml:"sqlite" env:"GAMBIT_SQLITE"`
	LogLevel    string            `yaml:"log_level" env:"LOG_LEVEL"`
	LogPretty   bool              `yaml:"log_pretty" env:"LOG_PRETTY"`
}

func Default() Config {
	tc, err := clock.ParseTimeControl(meta.TIME_CONTROL)
	if err != nil {
		panic(err)
	}
	return Config{
		Variant:     meta.VARIANT,
		TimeControl: tc,
		White:       "dragontooth",
		Black:       "random",
		Seed:        1,
		Tick:        meta.TICK,
		MaxPlies:    meta.MAX_PLIES,
		StatsDir:    meta.STATS_DIR,
		LogLevel:    "info",
	}
}

// Load starts from Default, applies the file at path unless path is empty,
// then the environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := registry.ParseKey(c.Variant); err != nil {
		return fmt.Errorf("%w: variant: %w", ErrInvalidConfig, err)
	}
	for _, e := range []string{c.White, c.Black} {
		if !slices.Contains(Engines, e) {
			return fmt.Errorf("%w: unknown engine %q", ErrInvalidConfig, e)
		}
	}
	if c.Tick <= 0 {
		return fmt.Errorf("%w: tick must be positive", ErrInvalidConfig)
	}
	if c.MaxPlies < 0 {
		return fmt.Errorf("%w: max_plies must not be negative", ErrInvalidConfig)
	}
	if c.TimeControl.Initial <= 0 {
		return fmt.Errorf("%w: time control without time", ErrInvalidConfig)
	}
	return nil
}
