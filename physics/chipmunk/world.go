// Package chipmunk implements physics.World on top of the Chipmunk2D port
// github.com/jakecoffman/cp.
package chipmunk

import (
	"github.com/jakecoffman/cp"
	"github.com/kamstrup/intmap"

	"github.com/plus3/rigidtris/physics"
)

// Options configures the space
type Options struct {
	Gravity   float64
	SleepTime float64
	Friction  float64

	// Iterations is the solver iteration count; zero keeps the cp default
	Iterations uint
}

// DefaultOptions matches the tuning the game was balanced for
func DefaultOptions() Options {
	return Options{
		Gravity:   -9.81,
		SleepTime: 0.5,
		Friction:  0.5,
	}
}

type bodyEntry struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

// World is a cp.Space with integer handles for bodies and joints
type World struct {
	space    *cp.Space
	friction float64

	bodies *intmap.Map[physics.BodyID, *bodyEntry]
	joints *intmap.Map[physics.JointID, *cp.Constraint]

	// jointIDs maps constraints back to handles when a body takes its joints with it
	jointIDs map[*cp.Constraint]physics.JointID

	nextBody  physics.BodyID
	nextJoint physics.JointID
}

var _ physics.World = (*World)(nil)

// New creates an empty world
func New(opts Options) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: 0, Y: opts.Gravity})
	space.SleepTimeThreshold = opts.SleepTime
	if opts.Iterations > 0 {
		space.Iterations = opts.Iterations
	}

	return &World{
		space:    space,
		friction: opts.Friction,
		bodies:   intmap.New[physics.BodyID, *bodyEntry](256),
		joints:   intmap.New[physics.JointID, *cp.Constraint](256),
		jointIDs: make(map[*cp.Constraint]physics.JointID),
	}
}

func toVector(v physics.Vec) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func fromVector(v cp.Vector) physics.Vec {
	return physics.Vec{X: v.X, Y: v.Y}
}

func (w *World) friction0(def physics.BodyDef) float64 {
	if def.Friction > 0 {
		return def.Friction
	}
	return w.friction
}

func (w *World) addBody(body *cp.Body, def physics.BodyDef, static bool) physics.BodyID {
	body.SetPosition(toVector(def.Position))
	w.space.AddBody(body)

	shape := cp.NewBox(body, def.HalfExtents.X*2, def.HalfExtents.Y*2, 0)
	shape.SetFriction(w.friction0(def))
	w.space.AddShape(shape)

	w.nextBody++
	id := w.nextBody
	w.bodies.Put(id, &bodyEntry{body: body, shape: shape, static: static})
	return id
}

// CreateDynamicBody adds a box body. Mass defaults to 1.
func (w *World) CreateDynamicBody(def physics.BodyDef) physics.BodyID {
	mass := def.Mass
	if mass <= 0 {
		mass = 1
	}

	body := cp.NewBody(mass, cp.MomentForBox(mass, def.HalfExtents.X*2, def.HalfExtents.Y*2))
	if def.LinearDamping > 0 || def.AngularDamping > 0 {
		body.SetVelocityUpdateFunc(dampedVelocity(def.LinearDamping, def.AngularDamping))
	}

	return w.addBody(body, def, false)
}

// CreateStaticBody adds an immovable box
func (w *World) CreateStaticBody(def physics.BodyDef) physics.BodyID {
	return w.addBody(cp.NewStaticBody(), def, true)
}

// dampedVelocity applies per-body damping the same way for any timestep:
// v *= 1/(1+dt*damping). Linear damping goes through the integrator's own
// damping factor, which also scales the angular velocity. The velocity
// setters wake the body, so the angular part is only corrected while its
// energy is above the space's idle threshold, m*(|g|*dt)^2. Below that the body
// is coming to rest anyway and must be left alone to fall asleep.
func dampedVelocity(linear, angular float64) cp.BodyVelocityFunc {
	return func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		w, torque := body.AngularVelocity(), body.Torque()
		cp.BodyUpdateVelocity(body, gravity, damping/(1+dt*linear), dt)
		if linear == angular || body.Moment() <= 0 {
			return
		}

		want := w*damping/(1+dt*angular) + torque/body.Moment()*dt
		idle := body.Mass() * gravity.LengthSq() * dt * dt
		if body.Moment()*want*want <= idle {
			return
		}
		body.SetAngularVelocity(want)
	}
}

// CreatePinJoint pins the anchor points of a and b together
func (w *World) CreatePinJoint(a, b physics.BodyID, anchorA, anchorB physics.Vec) (physics.JointID, bool) {
	ea, ok := w.bodies.Get(a)
	if !ok {
		return 0, false
	}
	eb, ok := w.bodies.Get(b)
	if !ok {
		return 0, false
	}

	joint := cp.NewPivotJoint2(ea.body, eb.body, toVector(anchorA), toVector(anchorB))
	joint.SetCollideBodies(false)
	w.space.AddConstraint(joint)

	w.nextJoint++
	id := w.nextJoint
	w.joints.Put(id, joint)
	w.jointIDs[joint] = id
	return id, true
}

// DestroyJoint removes a joint. Returns false if it was already gone.
func (w *World) DestroyJoint(id physics.JointID) bool {
	joint, ok := w.joints.Get(id)
	if !ok {
		return false
	}
	w.space.RemoveConstraint(joint)
	w.joints.Del(id)
	delete(w.jointIDs, joint)
	return true
}

// DestroyBody removes a body, its collider and every joint attached to it
func (w *World) DestroyBody(id physics.BodyID) bool {
	entry, ok := w.bodies.Get(id)
	if !ok {
		return false
	}

	var attached []*cp.Constraint
	entry.body.EachConstraint(func(c *cp.Constraint) {
		attached = append(attached, c)
	})
	for _, c := range attached {
		if jointID, ok := w.jointIDs[c]; ok {
			w.joints.Del(jointID)
			delete(w.jointIDs, c)
		}
		w.space.RemoveConstraint(c)
	}

	w.space.RemoveShape(entry.shape)
	w.space.RemoveBody(entry.body)
	w.bodies.Del(id)
	return true
}

func (w *World) dynamic(id physics.BodyID) (*cp.Body, bool) {
	entry, ok := w.bodies.Get(id)
	if !ok || entry.static {
		return nil, false
	}
	return entry.body, true
}

// SetForce replaces the force on a dynamic body for the next step
func (w *World) SetForce(id physics.BodyID, force physics.Vec) bool {
	body, ok := w.dynamic(id)
	if !ok {
		return false
	}
	body.SetForce(toVector(force))
	return true
}

// SetTorque replaces the torque on a dynamic body for the next step
func (w *World) SetTorque(id physics.BodyID, torque float64) bool {
	body, ok := w.dynamic(id)
	if !ok {
		return false
	}
	body.SetTorque(torque)
	return true
}

// IsSleeping reports whether the solver has put the body to sleep.
// Static bodies are always at rest.
func (w *World) IsSleeping(id physics.BodyID) (bool, bool) {
	entry, ok := w.bodies.Get(id)
	if !ok {
		return false, false
	}
	if entry.static {
		return true, true
	}
	return entry.body.IsSleeping(), true
}

// Transform returns the body's position and angle
func (w *World) Transform(id physics.BodyID) (physics.Transform, bool) {
	entry, ok := w.bodies.Get(id)
	if !ok {
		return physics.Transform{}, false
	}
	return physics.Transform{
		Position: fromVector(entry.body.Position()),
		Angle:    entry.body.Angle(),
	}, true
}

// Step advances the simulation. Forces and torques are cleared by the
// velocity integrator as it consumes them.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.space.Step(dt)
}

// BodyCount returns the number of live bodies, static ones included
func (w *World) BodyCount() int {
	return w.bodies.Len()
}

// JointCount returns the number of live joints
func (w *World) JointCount() int {
	return w.joints.Len()
}
