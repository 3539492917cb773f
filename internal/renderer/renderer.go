package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

type LightType int

const (
	STATIC_LIGHT LightType = iota
	DYNAMIC_LIGHT
)

type Light struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
	Ambient   float32
	Type      LightType
}

// DefaultLight is a white light above and in front of the origin.
func DefaultLight() *Light {
	return &Light{
		Position:  mgl32.Vec3{10, 20, 10},
		Color:     mgl32.Vec3{1, 1, 1},
		Intensity: 1.0,
		Ambient:   0.2,
		Type:      STATIC_LIGHT,
	}
}

// Render is the backend the frame loop submits the scene to.
type Render interface {
	Init(width, height int32) error
	Render(camera Camera, light *Light)
	AddModel(model *Model)
	RemoveModel(model *Model)
	UpdateViewport(width, height int32)
	Cleanup()
}
