package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewBodyMassProperties(t *testing.T) {
	b := NewBody(4, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})

	if b.InverseMass() != 0.25 {
		t.Errorf("Expected inverse mass 0.25, got %v", b.InverseMass())
	}
	if b.IsKinematic() {
		t.Error("Body with positive mass should not be kinematic")
	}
	if b.Quaternion != mgl32.QuatIdent() {
		t.Error("New body should start with identity orientation")
	}
}

func TestZeroMassIsKinematic(t *testing.T) {
	b := NewBody(6, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	b.Mass = 0
	b.UpdateMassProperties()

	if !b.IsKinematic() {
		t.Fatal("Zero mass body should be kinematic")
	}

	b.Mass = 6
	b.UpdateMassProperties()
	if b.IsKinematic() {
		t.Error("Restoring mass should make the body dynamic again")
	}
}

func TestStepAppliesGravity(t *testing.T) {
	w := NewWorld(mgl32.Vec3{0, -10, 0})
	b := NewBody(1, mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0.5, 0.5, 0.5})
	b.LinearDamping = 0
	w.AddBody(b)

	w.Step(0.5)

	if b.Velocity.Y() != -5 {
		t.Errorf("Expected velocity -5 after half a second, got %v", b.Velocity.Y())
	}
	if b.Position.Y() >= 10 {
		t.Errorf("Body should have fallen, y=%v", b.Position.Y())
	}
	if w.Steps() != 1 {
		t.Errorf("Expected 1 step, got %d", w.Steps())
	}
}

func TestKinematicBodyIgnoresGravityAndForces(t *testing.T) {
	w := NewWorld(StandardGravity)
	b := NewBody(0, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1})
	b.ApplyForce(mgl32.Vec3{100, 100, 100})
	w.AddBody(b)

	for i := 0; i < 60; i++ {
		w.Step(1.0 / 60.0)
	}

	if b.Position != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Kinematic body should not move, got %v", b.Position)
	}
}

func TestKinematicBodyFollowsVelocity(t *testing.T) {
	w := NewWorld(StandardGravity)
	b := NewBody(0, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	b.Velocity = mgl32.Vec3{2, 0, 0}
	w.AddBody(b)

	w.Step(0.5)

	if b.Position.X() != 1 {
		t.Errorf("Expected x=1, got %v", b.Position.X())
	}
}

func TestStepIgnoresNonPositiveDelta(t *testing.T) {
	w := NewWorld(StandardGravity)
	b := NewBody(1, mgl32.Vec3{0, 5, 0}, mgl32.Vec3{1, 1, 1})
	w.AddBody(b)

	w.Step(0)
	w.Step(-1)

	if b.Position.Y() != 5 || w.Steps() != 0 {
		t.Error("Non-positive dt should not advance the world")
	}
}

func TestGroundStopsFallingBody(t *testing.T) {
	w := NewWorld(StandardGravity)
	w.SetGround(0)
	b := NewBody(2, mgl32.Vec3{0, 3, 0}, mgl32.Vec3{0.5, 0.5, 0.5})
	w.AddBody(b)

	for i := 0; i < 600; i++ {
		w.Step(1.0 / 60.0)
	}

	if math.Abs(float64(b.Bottom())) > 1e-3 {
		t.Errorf("Body should rest on the ground, bottom=%v", b.Bottom())
	}
}

func TestAngularVelocityRotatesBody(t *testing.T) {
	w := NewWorld(mgl32.Vec3{})
	b := NewBody(1, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	b.AngularDamping = 0
	b.AngularVelocity = mgl32.Vec3{0, 1, 0}
	w.AddBody(b)

	w.Step(0.1)

	if b.Quaternion.ApproxEqual(mgl32.QuatIdent()) {
		t.Error("Orientation should change under angular velocity")
	}
	if l := b.Quaternion.Len(); math.Abs(float64(l)-1) > 1e-5 {
		t.Errorf("Orientation should stay normalized, len=%v", l)
	}
}
