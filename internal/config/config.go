package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
)

type Config struct {
	World   WorldConfig   `toml:"world"`
	Run     RunConfig     `toml:"run"`
	Logging LoggingConfig `toml:"logging"`
	Profile ProfileConfig `toml:"profile"`
}

type WorldConfig struct {
	MaxEntities int  `toml:"max_entities"`
	Backfill    bool `toml:"backfill"` // evaluate existing entities when a system registers
}

type RunConfig struct {
	Duration time.Duration `toml:"duration"`
	TickRate time.Duration `toml:"tick_rate"` // 0 steps as fast as possible
	Entities int           `toml:"entities"`  // spawned before the first step
	Seed     int64         `toml:"seed"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ProfileConfig struct {
	Mode string `toml:"mode"` // "", "cpu", "mem", "allocs", "block", "mutex", "trace"
	Path string `toml:"path"`
}

// Load reads the TOML file at path. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read config %s", path)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			MaxEntities: 10000,
			Backfill:    true,
		},
		Run: RunConfig{
			Duration: 10 * time.Second,
			TickRate: 0,
			Entities: 5000,
			Seed:     1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Profile: ProfileConfig{
			Path: ".",
		},
	}
}

// Validate rejects values the stress tool cannot run with.
func (c *Config) Validate() error {
	if c.World.MaxEntities <= 0 {
		return eris.Errorf("world.max_entities must be positive, got %d", c.World.MaxEntities)
	}
	if c.Run.Entities < 0 || c.Run.Entities > c.World.MaxEntities {
		return eris.Errorf("run.entities must be between 0 and world.max_entities (%d), got %d",
			c.World.MaxEntities, c.Run.Entities)
	}
	if c.Run.Duration <= 0 {
		return eris.Errorf("run.duration must be positive, got %s", c.Run.Duration)
	}
	if c.Run.TickRate < 0 {
		return eris.Errorf("run.tick_rate must not be negative, got %s", c.Run.TickRate)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return eris.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem", "allocs", "block", "mutex", "trace":
	default:
		return eris.Errorf("unknown profile.mode %q", c.Profile.Mode)
	}
	return nil
}
