// Package physicstest provides a scripted physics.World for tests.
//
// Bodies never move on their own: tests place them with SetPosition and
// decide when they rest with SetSleeping. Forces, torques and steps are
// recorded so tests can assert on what the game asked for.
package physicstest

import (
	"maps"
	"slices"

	"github.com/plus3/rigidtris/physics"
)

// Body is the recorded state of one body
type Body struct {
	Def       physics.BodyDef
	Static    bool
	Transform physics.Transform
	Asleep    bool
	Force     physics.Vec
	Torque    float64
}

// Joint is the recorded state of one joint
type Joint struct {
	A, B             physics.BodyID
	AnchorA, AnchorB physics.Vec
}

// World is a physics.World whose state is driven entirely by the test
type World struct {
	Bodies map[physics.BodyID]*Body
	Joints map[physics.JointID]*Joint

	// Steps holds the dt of every Step call
	Steps []float64

	// Forces and Torques accumulate every non-zero push, keyed by body
	Forces  map[physics.BodyID][]physics.Vec
	Torques map[physics.BodyID][]float64

	// OnStep, if set, runs at the end of every Step
	OnStep func(w *World)

	nextBody  physics.BodyID
	nextJoint physics.JointID
}

var _ physics.World = (*World)(nil)

// New returns an empty world
func New() *World {
	return &World{
		Bodies:  make(map[physics.BodyID]*Body),
		Joints:  make(map[physics.JointID]*Joint),
		Forces:  make(map[physics.BodyID][]physics.Vec),
		Torques: make(map[physics.BodyID][]float64),
	}
}

func (w *World) add(def physics.BodyDef, static bool) physics.BodyID {
	w.nextBody++
	w.Bodies[w.nextBody] = &Body{
		Def:       def,
		Static:    static,
		Transform: physics.Transform{Position: def.Position},
		Asleep:    static,
	}
	return w.nextBody
}

func (w *World) CreateDynamicBody(def physics.BodyDef) physics.BodyID {
	return w.add(def, false)
}

func (w *World) CreateStaticBody(def physics.BodyDef) physics.BodyID {
	return w.add(def, true)
}

func (w *World) CreatePinJoint(a, b physics.BodyID, anchorA, anchorB physics.Vec) (physics.JointID, bool) {
	if w.Bodies[a] == nil || w.Bodies[b] == nil {
		return 0, false
	}
	w.nextJoint++
	w.Joints[w.nextJoint] = &Joint{A: a, B: b, AnchorA: anchorA, AnchorB: anchorB}
	return w.nextJoint, true
}

func (w *World) DestroyJoint(id physics.JointID) bool {
	if w.Joints[id] == nil {
		return false
	}
	delete(w.Joints, id)
	return true
}

func (w *World) DestroyBody(id physics.BodyID) bool {
	if w.Bodies[id] == nil {
		return false
	}
	for jid, j := range w.Joints {
		if j.A == id || j.B == id {
			delete(w.Joints, jid)
		}
	}
	delete(w.Bodies, id)
	return true
}

func (w *World) SetForce(id physics.BodyID, force physics.Vec) bool {
	b := w.Bodies[id]
	if b == nil || b.Static {
		return false
	}
	b.Force = force
	w.Forces[id] = append(w.Forces[id], force)
	return true
}

func (w *World) SetTorque(id physics.BodyID, torque float64) bool {
	b := w.Bodies[id]
	if b == nil || b.Static {
		return false
	}
	b.Torque = torque
	w.Torques[id] = append(w.Torques[id], torque)
	return true
}

func (w *World) IsSleeping(id physics.BodyID) (bool, bool) {
	b := w.Bodies[id]
	if b == nil {
		return false, false
	}
	return b.Asleep, true
}

func (w *World) Transform(id physics.BodyID) (physics.Transform, bool) {
	b := w.Bodies[id]
	if b == nil {
		return physics.Transform{}, false
	}
	return b.Transform, true
}

// Step records dt and clears pending forces the way a real solver consumes them
func (w *World) Step(dt float64) {
	w.Steps = append(w.Steps, dt)
	for _, b := range w.Bodies {
		b.Force = physics.Vec{}
		b.Torque = 0
	}
	if w.OnStep != nil {
		w.OnStep(w)
	}
}

// SetPosition moves a body. Missing ids are ignored.
func (w *World) SetPosition(id physics.BodyID, x, y float64) {
	if b := w.Bodies[id]; b != nil {
		b.Transform.Position = physics.Vec{X: x, Y: y}
	}
}

// SetSleeping sets the rest flag of a body. Missing ids are ignored.
func (w *World) SetSleeping(id physics.BodyID, asleep bool) {
	if b := w.Bodies[id]; b != nil {
		b.Asleep = asleep
	}
}

// DynamicBodies returns the ids of every dynamic body in creation order
func (w *World) DynamicBodies() []physics.BodyID {
	var ids []physics.BodyID
	for _, id := range slices.Sorted(maps.Keys(w.Bodies)) {
		if !w.Bodies[id].Static {
			ids = append(ids, id)
		}
	}
	return ids
}
