package config

import (
	"time"

	"go.uber.org/zap"

	"github.com/plus3/rigidtris/game"
	"github.com/plus3/rigidtris/physics/chipmunk"
)

// GameOptions maps the config onto game.Options
func (c *Config) GameOptions(logger *zap.Logger) game.Options {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return game.Options{
		Board:          c.Board,
		MovementForce:  c.Controls.MovementForce,
		Torque:         c.Controls.Torque,
		LinearDamping:  c.Physics.LinearDamping,
		AngularDamping: c.Physics.AngularDamping,
		ViewportBottom: game.ViewportBottomFor(float64(c.Display.Height), float64(c.Display.BlockPx)),
		Seed:           seed,
		Logger:         logger,
	}
}

// ChipmunkOptions maps the physics section onto the Chipmunk world
func (c *Config) ChipmunkOptions() chipmunk.Options {
	return chipmunk.Options{
		Gravity:   c.Physics.Gravity,
		SleepTime: c.Physics.SleepTime,
		Friction:  c.Physics.Friction,
	}
}
