package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// StandardGravity matches the usual earth gravity in metres per second squared.
var StandardGravity = mgl32.Vec3{0, -9.82, 0}

// Velocities under this magnitude after a bounce are treated as resting.
const restingSpeed = 0.05

type World struct {
	Gravity      mgl32.Vec3
	HasGround    bool
	GroundHeight float32

	bodies []*Body
	steps  uint64
}

func NewWorld(gravity mgl32.Vec3) *World {
	return &World{Gravity: gravity}
}

// SetGround enables the infinite ground plane at height y.
func (w *World) SetGround(y float32) {
	w.HasGround = true
	w.GroundHeight = y
}

func (w *World) AddBody(b *Body) {
	w.bodies = append(w.bodies, b)
}

func (w *World) Bodies() []*Body {
	return w.bodies
}

// Steps is the number of completed Step calls.
func (w *World) Steps() uint64 {
	return w.steps
}

// Step advances the simulation by dt seconds. Non-positive dt is ignored.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		w.integrate(b, dt)
		if w.HasGround && !b.IsKinematic() {
			w.resolveGround(b)
		}
		b.clearForces()
	}
	w.steps++
}

func (w *World) integrate(b *Body, dt float32) {
	if !b.IsKinematic() {
		accel := w.Gravity.Add(b.force.Mul(b.invMass))
		b.Velocity = b.Velocity.Add(accel.Mul(dt))
		b.Velocity = b.Velocity.Mul(dampingFactor(b.LinearDamping, dt))
		b.AngularVelocity = b.AngularVelocity.Mul(dampingFactor(b.AngularDamping, dt))
	}

	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	if b.AngularVelocity.LenSqr() > 0 {
		if b.Quaternion == (mgl32.Quat{}) {
			b.Quaternion = mgl32.QuatIdent()
		}
		// q' = q + dt/2 * w * q
		spin := mgl32.Quat{W: 0, V: b.AngularVelocity}.Mul(b.Quaternion).Scale(0.5 * dt)
		b.Quaternion = b.Quaternion.Add(spin).Normalize()
	}
}

func (w *World) resolveGround(b *Body) {
	penetration := w.GroundHeight - b.Bottom()
	if penetration <= 0 {
		return
	}
	b.Position[1] += penetration

	if b.Velocity.Y() < 0 {
		b.Velocity[1] = -b.Velocity.Y() * b.Restitution
		if b.Velocity.Y() < restingSpeed {
			b.Velocity[1] = 0
		}
	}
	keep := 1 - mgl32.Clamp(b.Friction, 0, 1)
	b.Velocity[0] *= keep
	b.Velocity[2] *= keep
	b.AngularVelocity = b.AngularVelocity.Mul(keep)
}

func dampingFactor(damping, dt float32) float32 {
	if damping <= 0 {
		return 1
	}
	return float32(math.Pow(float64(1-mgl32.Clamp(damping, 0, 1)), float64(dt)))
}
