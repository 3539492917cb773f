// Package physics is the rigid-body world the scene steps every frame.
// Bodies are boxes described by half extents; the only collider is an optional ground plane.
package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultLinearDamping  = 0.01
	DefaultAngularDamping = 0.01
	DefaultRestitution    = 0.2
	DefaultFriction       = 0.3
)

type Body struct {
	// HOT DATA - integrated every step
	Position        mgl32.Vec3 // Centre of mass in world space
	Quaternion      mgl32.Quat // Orientation
	Velocity        mgl32.Vec3 // Linear velocity
	AngularVelocity mgl32.Vec3 // Angular velocity, radians per second around each axis

	// Mass of 0 makes the body kinematic: forces and gravity are ignored
	// but Position and Velocity are still honoured.
	// Call UpdateMassProperties after changing it.
	Mass float32

	// COLD DATA - shape and material
	HalfExtents    mgl32.Vec3
	LinearDamping  float32
	AngularDamping float32
	Restitution    float32
	Friction       float32

	invMass float32
	force   mgl32.Vec3
}

// NewBody creates a body at position with the default material.
func NewBody(mass float32, position, halfExtents mgl32.Vec3) *Body {
	b := &Body{
		Position:       position,
		Quaternion:     mgl32.QuatIdent(),
		Mass:           mass,
		HalfExtents:    halfExtents,
		LinearDamping:  DefaultLinearDamping,
		AngularDamping: DefaultAngularDamping,
		Restitution:    DefaultRestitution,
		Friction:       DefaultFriction,
	}
	b.UpdateMassProperties()
	return b
}

// UpdateMassProperties recomputes derived mass data from Mass.
func (b *Body) UpdateMassProperties() {
	if b.Mass > 0 {
		b.invMass = 1 / b.Mass
	} else {
		b.invMass = 0
	}
}

func (b *Body) InverseMass() float32 {
	return b.invMass
}

// IsKinematic reports whether forces currently have no effect on the body.
func (b *Body) IsKinematic() bool {
	return b.invMass == 0
}

// ApplyForce accumulates a world-space force for the next step.
func (b *Body) ApplyForce(f mgl32.Vec3) {
	b.force = b.force.Add(f)
}

// Stop zeroes linear and angular velocity.
func (b *Body) Stop() {
	b.Velocity = mgl32.Vec3{}
	b.AngularVelocity = mgl32.Vec3{}
}

func (b *Body) clearForces() {
	b.force = mgl32.Vec3{}
}

// Bottom is the lowest Y of the axis aligned box, ignoring rotation.
func (b *Body) Bottom() float32 {
	return b.Position.Y() - b.HalfExtents.Y()
}
