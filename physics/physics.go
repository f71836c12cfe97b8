// Package physics describes the rigid body capability the game is built on.
//
// The solver itself lives behind World; the game only creates bodies and
// joints, pushes forces and reads back positions and sleep state. Handles are
// plain integers and every lookup on a handle that no longer exists reports
// ok=false instead of panicking.
package physics

// BodyID names a rigid body inside a World. Zero is never a valid id.
type BodyID uint64

// JointID names a joint inside a World. Zero is never a valid id.
type JointID uint64

// Vec is a 2D vector in world units
type Vec struct {
	X, Y float64
}

// Add returns v+o
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Transform is a body's world position and rotation in radians
type Transform struct {
	Position Vec
	Angle    float64
}

// BodyDef describes a body to create. Damping and Mass are ignored for static bodies.
type BodyDef struct {
	Position       Vec
	HalfExtents    Vec
	Mass           float64
	LinearDamping  float64
	AngularDamping float64
	Friction       float64

	// SyncVisual marks bodies whose transform is drawn every frame
	SyncVisual bool
}

// World is a physics space holding bodies and joints
type World interface {
	CreateDynamicBody(def BodyDef) BodyID
	CreateStaticBody(def BodyDef) BodyID

	// CreatePinJoint pins a and b together at the given body-local anchors.
	// Returns false if either body does not exist.
	CreatePinJoint(a, b BodyID, anchorA, anchorB Vec) (JointID, bool)
	DestroyJoint(id JointID) bool

	// DestroyBody removes the body and every joint attached to it
	DestroyBody(id BodyID) bool

	// SetForce and SetTorque replace whatever was applied since the last Step.
	// The world clears both after consuming them.
	SetForce(id BodyID, force Vec) bool
	SetTorque(id BodyID, torque float64) bool

	IsSleeping(id BodyID) (asleep, ok bool)
	Transform(id BodyID) (Transform, bool)

	Step(dt float64)
}
