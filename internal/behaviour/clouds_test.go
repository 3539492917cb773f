package behaviour

import (
	"testing"

	"Playground3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

func cloudAt(x, y, z float32) *renderer.Model {
	m := renderer.CreateModel([]mgl32.Vec3{{-1, 0, 0}, {1, 0, 0}}, nil)
	m.SetPosition(x, y, z)
	return m
}

func TestCloudDriftMovesAndWraps(t *testing.T) {
	cloud := cloudAt(9.5, 20, -4)
	drift := NewCloudDrift([]*renderer.Model{cloud}, 1, -10, 10, 0, 1)

	drift.Start()
	drift.Update(0.25)
	if cloud.X() != 9.75 {
		t.Errorf("Expected x 9.75, got %v", cloud.X())
	}

	drift.Update(1)
	if cloud.X() != -9.25 {
		t.Errorf("Expected cloud to wrap to -9.25, got %v", cloud.X())
	}
	if cloud.Y() != 20 || cloud.Z() != -4 {
		t.Errorf("Without bobbing y and z should stay put, got %v", cloud.Position)
	}
}

func TestCloudDriftBobbingIsSeeded(t *testing.T) {
	first := cloudAt(0, 10, 0)
	second := cloudAt(0, 10, 0)
	a := NewCloudDrift([]*renderer.Model{first}, 0, -10, 10, 1.5, 42)
	b := NewCloudDrift([]*renderer.Model{second}, 0, -10, 10, 1.5, 42)

	a.Start()
	b.Start()
	for i := 0; i < 30; i++ {
		a.Update(0.1)
		b.Update(0.1)
		if first.Y() != second.Y() {
			t.Fatalf("Same seed should bob identically, step %d: %v vs %v", i, first.Y(), second.Y())
		}
	}
	if first.X() != 0 {
		t.Errorf("Zero speed should not move the cloud, got x %v", first.X())
	}
}

func TestCloudDriftAcceptsLateClouds(t *testing.T) {
	drift := NewCloudDrift(nil, 2, -10, 10, 0, 1)
	drift.Start()

	late := cloudAt(0, 3, 0)
	drift.Clouds = append(drift.Clouds, late)
	drift.Update(1)

	if late.X() != 2 || late.Y() != 3 {
		t.Errorf("Expected (2,3), got %v", late.Position)
	}
}
