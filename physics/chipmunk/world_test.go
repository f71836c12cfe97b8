package chipmunk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/rigidtris/physics"
	"github.com/plus3/rigidtris/physics/chipmunk"
)

const dt = 1.0 / 60

func newWorldWithFloor(t *testing.T) (*chipmunk.World, physics.BodyID) {
	t.Helper()
	w := chipmunk.New(chipmunk.DefaultOptions())
	floor := w.CreateStaticBody(physics.BodyDef{
		Position:    physics.Vec{X: 0, Y: -11},
		HalfExtents: physics.Vec{X: 5, Y: 1},
	})
	require.NotZero(t, floor)
	return w, floor
}

func block(x, y float64) physics.BodyDef {
	return physics.BodyDef{
		Position:      physics.Vec{X: x, Y: y},
		HalfExtents:   physics.Vec{X: 0.5, Y: 0.5},
		LinearDamping: 3,
		SyncVisual:    true,
	}
}

func TestBodyFallsAndSleeps(t *testing.T) {
	w, floor := newWorldWithFloor(t)
	id := w.CreateDynamicBody(block(0, 0))

	start, ok := w.Transform(id)
	require.True(t, ok)
	assert.Equal(t, 0.0, start.Position.Y)

	asleep := false
	for i := 0; i < 60*30 && !asleep; i++ {
		w.Step(dt)
		asleep, ok = w.IsSleeping(id)
		require.True(t, ok)
	}
	require.True(t, asleep, "block never came to rest")

	rest, _ := w.Transform(id)
	assert.InDelta(t, -9.5, rest.Position.Y, 0.2)

	floorAsleep, ok := w.IsSleeping(floor)
	assert.True(t, ok)
	assert.True(t, floorAsleep)
}

func TestPinnedBodiesStayTogether(t *testing.T) {
	w, _ := newWorldWithFloor(t)
	a := w.CreateDynamicBody(block(-0.5, 0))
	b := w.CreateDynamicBody(block(0.5, 0))

	joint, ok := w.CreatePinJoint(a, b, physics.Vec{X: 0.5}, physics.Vec{X: -0.5})
	require.True(t, ok)
	assert.Equal(t, 1, w.JointCount())

	for i := 0; i < 120; i++ {
		w.Step(dt)
	}

	ta, _ := w.Transform(a)
	tb, _ := w.Transform(b)
	gap := tb.Position.Sub(ta.Position)
	assert.InDelta(t, 1.0, gap.X*gap.X+gap.Y*gap.Y, 0.05)

	assert.True(t, w.DestroyJoint(joint))
	assert.False(t, w.DestroyJoint(joint))
	assert.Equal(t, 0, w.JointCount())
}

func TestDestroyBodyDropsJoints(t *testing.T) {
	w, _ := newWorldWithFloor(t)
	a := w.CreateDynamicBody(block(-0.5, 0))
	b := w.CreateDynamicBody(block(0.5, 0))
	c := w.CreateDynamicBody(block(1.5, 0))

	ab, ok := w.CreatePinJoint(a, b, physics.Vec{X: 0.5}, physics.Vec{X: -0.5})
	require.True(t, ok)
	_, ok = w.CreatePinJoint(b, c, physics.Vec{X: 0.5}, physics.Vec{X: -0.5})
	require.True(t, ok)

	assert.True(t, w.DestroyBody(b))
	assert.Equal(t, 0, w.JointCount())
	assert.False(t, w.DestroyJoint(ab))
	assert.Equal(t, 3, w.BodyCount())

	// Stepping after removal is fine
	w.Step(dt)
}

func TestMissingHandles(t *testing.T) {
	w, floor := newWorldWithFloor(t)
	id := w.CreateDynamicBody(block(0, 0))
	require.True(t, w.DestroyBody(id))

	assert.False(t, w.DestroyBody(id))
	assert.False(t, w.SetForce(id, physics.Vec{X: 1}))
	assert.False(t, w.SetTorque(id, 1))

	_, ok := w.IsSleeping(id)
	assert.False(t, ok)
	_, ok = w.Transform(id)
	assert.False(t, ok)

	_, ok = w.CreatePinJoint(id, floor, physics.Vec{}, physics.Vec{})
	assert.False(t, ok)

	// Static bodies do not take forces
	assert.False(t, w.SetForce(floor, physics.Vec{X: 1}))
}

func TestForcePushesBody(t *testing.T) {
	w := chipmunk.New(chipmunk.Options{Gravity: 0, SleepTime: 0.5})
	id := w.CreateDynamicBody(block(0, 0))

	for i := 0; i < 30; i++ {
		require.True(t, w.SetForce(id, physics.Vec{X: 20}))
		w.Step(dt)
	}
	pushed, _ := w.Transform(id)
	assert.Greater(t, pushed.Position.X, 0.0)

	// Without a fresh SetForce the body only coasts and damping slows it
	before := pushed.Position.X
	for i := 0; i < 600; i++ {
		w.Step(dt)
	}
	after, _ := w.Transform(id)
	assert.Greater(t, after.Position.X, before)
	assert.Less(t, after.Position.X-before, 5.0)
}

func TestPinnedPieceSleeps(t *testing.T) {
	w, _ := newWorldWithFloor(t)

	// A T piece dropped from the top of a 20 row board
	positions := []physics.Vec{{X: -0.5, Y: 9.5}, {X: 0.5, Y: 9.5}, {X: 1.5, Y: 9.5}, {X: 0.5, Y: 8.5}}
	pairs := [][2]int{{0, 1}, {1, 2}, {1, 3}}

	bodies := make([]physics.BodyID, len(positions))
	for i, pos := range positions {
		bodies[i] = w.CreateDynamicBody(block(pos.X, pos.Y))
	}
	for _, pair := range pairs {
		half := positions[pair[1]].Sub(positions[pair[0]]).Scale(0.5)
		_, ok := w.CreatePinJoint(bodies[pair[0]], bodies[pair[1]], half, half.Scale(-1))
		require.True(t, ok)
	}

	allAsleep := func() bool {
		for _, id := range bodies {
			asleep, ok := w.IsSleeping(id)
			require.True(t, ok)
			if !asleep {
				return false
			}
		}
		return true
	}

	ticks := 0
	for ; ticks < 60*60 && !allAsleep(); ticks++ {
		w.Step(dt)
	}
	require.True(t, allAsleep(), "piece never came to rest")

	for _, id := range bodies {
		rest, _ := w.Transform(id)
		assert.Less(t, rest.Position.Y, -7.0)
		assert.Greater(t, rest.Position.Y, -10.0)
	}
}

func TestAngularDampingIsSeparateFromLinear(t *testing.T) {
	spin := func(angular float64) float64 {
		w := chipmunk.New(chipmunk.Options{Gravity: 0, SleepTime: 0.5})
		def := block(0, 0)
		def.AngularDamping = angular
		id := w.CreateDynamicBody(def)

		for i := 0; i < 30; i++ {
			require.True(t, w.SetTorque(id, 5))
			w.Step(dt)
		}
		before, _ := w.Transform(id)
		for i := 0; i < 300; i++ {
			w.Step(dt)
		}
		after, _ := w.Transform(id)
		return after.Angle - before.Angle
	}

	free := spin(0)
	damped := spin(3)
	assert.Greater(t, damped, 0.0)
	assert.Greater(t, free, 5*damped)
}
