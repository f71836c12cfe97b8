package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/plus3/rigidtris/board"
)

type Config struct {
	Board    board.Config   `toml:"board" yaml:"board"`
	Physics  PhysicsConfig  `toml:"physics" yaml:"physics"`
	Controls ControlsConfig `toml:"controls" yaml:"controls"`
	Display  DisplayConfig  `toml:"display" yaml:"display"`
	Sound    SoundConfig    `toml:"sound" yaml:"sound"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`

	// Seed for piece selection; 0 picks one from the clock
	Seed uint64 `toml:"seed" yaml:"seed"`
}

type PhysicsConfig struct {
	Gravity        float64 `toml:"gravity" yaml:"gravity"`
	SleepTime      float64 `toml:"sleep_time" yaml:"sleep_time"` // seconds idle before a body sleeps
	Friction       float64 `toml:"friction" yaml:"friction"`
	LinearDamping  float64 `toml:"linear_damping" yaml:"linear_damping"`
	AngularDamping float64 `toml:"angular_damping" yaml:"angular_damping"`
	Timestep       float64 `toml:"timestep" yaml:"timestep"` // seconds per tick
}

type ControlsConfig struct {
	MovementForce float64 `toml:"movement_force" yaml:"movement_force"`
	Torque        float64 `toml:"torque" yaml:"torque"`
}

type DisplayConfig struct {
	BlockPx int  `toml:"block_px" yaml:"block_px"`
	Width   int  `toml:"width" yaml:"width"`
	Height  int  `toml:"height" yaml:"height"`
	Debug   bool `toml:"debug" yaml:"debug"`
}

type SoundConfig struct {
	Enabled bool    `toml:"enabled" yaml:"enabled"`
	Volume  float64 `toml:"volume" yaml:"volume"` // 0.0-1.0
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// Defaults returns the configuration used when no file is given
func Defaults() *Config {
	return &Config{
		Board: board.Default(),
		Physics: PhysicsConfig{
			Gravity:        -9.81,
			SleepTime:      0.5,
			Friction:       0.5,
			LinearDamping:  3,
			AngularDamping: 0,
			Timestep:       1.0 / 60,
		},
		Controls: ControlsConfig{
			MovementForce: 20,
			Torque:        20,
		},
		Display: DisplayConfig{
			BlockPx: 30,
			Width:   1280,
			Height:  720,
		},
		Sound: SoundConfig{
			Enabled: true,
			Volume:  0.5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a TOML or YAML file over the defaults. YAML is picked by a
// .yaml or .yml extension. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var ErrInvalid = errors.New("invalid config")

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error
	if err := c.Board.Validate(); err != nil {
		errs = append(errs, err)
	}

	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Physics.SleepTime > 0, "physics.sleep_time must be positive, got %v", c.Physics.SleepTime)
	check(c.Physics.Friction >= 0, "physics.friction must not be negative, got %v", c.Physics.Friction)
	check(c.Physics.LinearDamping > 0, "physics.linear_damping must be positive, got %v", c.Physics.LinearDamping)
	check(c.Physics.AngularDamping >= 0, "physics.angular_damping must not be negative, got %v", c.Physics.AngularDamping)
	check(c.Physics.Timestep > 0 && c.Physics.Timestep <= 0.1, "physics.timestep must be in (0, 0.1], got %v", c.Physics.Timestep)
	check(c.Controls.MovementForce > 0, "controls.movement_force must be positive, got %v", c.Controls.MovementForce)
	check(c.Controls.Torque > 0, "controls.torque must be positive, got %v", c.Controls.Torque)
	check(c.Display.BlockPx > 0, "display.block_px must be positive, got %d", c.Display.BlockPx)
	check(c.Display.Width > 0 && c.Display.Height > 0, "display size must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	check(c.Sound.Volume >= 0 && c.Sound.Volume <= 1, "sound.volume must be in [0, 1], got %v", c.Sound.Volume)

	switch c.Logging.Format {
	case "json", "console":
	default:
		check(false, "logging.format must be json or console, got %q", c.Logging.Format)
	}

	return errors.Join(errs...)
}
