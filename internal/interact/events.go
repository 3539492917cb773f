// Package interact turns pointer input into drags of registered scene entries.
package interact

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PointerEvent is one of Press, Move or Release. Coordinates are normalized
// device coordinates in [-1, 1] with y pointing up.
type PointerEvent interface {
	pointerEvent()
}

type Press struct {
	X, Y float32
}

type Move struct {
	X, Y float32
}

type Release struct{}

func (Press) pointerEvent()   {}
func (Move) pointerEvent()    {}
func (Release) pointerEvent() {}

// Normalize maps window pixel coordinates (origin top left) to normalized
// device coordinates. Points outside the window map outside [-1, 1].
func Normalize(screenX, screenY float64, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		float32(2*screenX/float64(width) - 1),
		float32(1 - 2*screenY/float64(height)),
	}
}

// PressAt builds a Press from window pixels.
func PressAt(screenX, screenY float64, width, height int) Press {
	p := Normalize(screenX, screenY, width, height)
	return Press{X: p.X(), Y: p.Y()}
}

// MoveTo builds a Move from window pixels.
func MoveTo(screenX, screenY float64, width, height int) Move {
	p := Normalize(screenX, screenY, width, height)
	return Move{X: p.X(), Y: p.Y()}
}
