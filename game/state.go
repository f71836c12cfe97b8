package game

import (
	"go.uber.org/zap"

	"github.com/plus3/rigidtris/board"
	"github.com/plus3/rigidtris/ecs"
	"github.com/plus3/rigidtris/physics"
	"github.com/plus3/rigidtris/tetromino"
)

// ActivePiece is the falling piece. It is empty between a piece coming to
// rest and the next spawn, and stays empty once the game is over.
type ActivePiece struct {
	Kind   tetromino.Kind
	Blocks map[ecs.EntityId]struct{}
	Joints []ecs.EntityId
}

// Empty reports whether there is no falling piece
func (p *ActivePiece) Empty() bool {
	return len(p.Blocks) == 0
}

// Contains reports whether id is one of the falling blocks
func (p *ActivePiece) Contains(id ecs.EntityId) bool {
	_, ok := p.Blocks[id]
	return ok
}

func (p *ActivePiece) clear() {
	p.Blocks = nil
	p.Joints = nil
}

// Controls is the player input for the current tick
type Controls struct {
	Left, Right             bool
	RotateLeft, RotateRight bool
}

func axis(positive, negative bool) float64 {
	var v float64
	if positive {
		v++
	}
	if negative {
		v--
	}
	return v
}

// Movement is -1, 0 or 1 along x
func (c Controls) Movement() float64 {
	return axis(c.Right, c.Left)
}

// Torque is -1, 0 or 1, counter-clockwise positive
func (c Controls) Torque() float64 {
	return axis(c.RotateLeft, c.RotateRight)
}

// Viewport is the visible area in board units
type Viewport struct {
	Bottom float64
}

// lostBelow is how far under the viewport a block may fall before it is lost
const lostBelow = 2

// LostY is the height below which blocks are lost
func (v Viewport) LostY() float64 {
	return v.Bottom - lostBelow
}

// Tuning holds the constants the systems read every tick
type Tuning struct {
	Board           board.Config
	MovementForce   float64
	Torque          float64
	LinearDamping   float64
	AngularDamping  float64
	BlockHalfExtent float64
}

// Runtime carries the collaborators shared by every system
type Runtime struct {
	World  physics.World
	Random tetromino.Source
	Log    *zap.Logger
}

// Session tracks whether the game-over transition has been reported
type Session struct {
	Over bool
}
