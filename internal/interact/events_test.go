package interact

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		expect mgl32.Vec2
	}{
		{"top left", 0, 0, mgl32.Vec2{-1, 1}},
		{"centre", 400, 300, mgl32.Vec2{0, 0}},
		{"bottom right", 800, 600, mgl32.Vec2{1, -1}},
		{"quarter", 200, 450, mgl32.Vec2{-0.5, -0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.x, tt.y, 800, 600); got != tt.expect {
				t.Errorf("Normalize(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

func TestNormalizeZeroWindow(t *testing.T) {
	if got := Normalize(10, 10, 0, 600); got != (mgl32.Vec2{}) {
		t.Errorf("Zero width should map to the origin, got %v", got)
	}
}

func TestEventBuilders(t *testing.T) {
	var ev PointerEvent = PressAt(400, 300, 800, 600)
	if p, ok := ev.(Press); !ok || p.X != 0 || p.Y != 0 {
		t.Errorf("Unexpected press %#v", ev)
	}

	ev = MoveTo(800, 0, 800, 600)
	if m, ok := ev.(Move); !ok || m.X != 1 || m.Y != 1 {
		t.Errorf("Unexpected move %#v", ev)
	}
}
