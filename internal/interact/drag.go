package interact

import (
	"Playground3D/internal/logger"
	"Playground3D/internal/renderer"
	"Playground3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DefaultSensitivity scales pointer travel in NDC to world units.
const DefaultSensitivity = 5

// PointerState is the drag in progress, or the zero value when idle.
type PointerState struct {
	Active        bool
	Target        *scene.Entry
	GrabOffset    mgl32.Vec2 // Pointer position at press
	StartPosition mgl32.Vec3 // Target model position at press
}

// DragController picks an entry on press, moves it with the pointer and
// restores its physics on release. While dragging the target's body has zero
// mass so the world leaves it where the pointer puts it.
type DragController struct {
	scene       *scene.Scene
	sensitivity float32
	state       PointerState
}

func NewDragController(s *scene.Scene, sensitivity float32) *DragController {
	if sensitivity <= 0 {
		sensitivity = DefaultSensitivity
	}
	return &DragController{scene: s, sensitivity: sensitivity}
}

func (d *DragController) State() PointerState {
	return d.state
}

func (d *DragController) Dragging() bool {
	return d.state.Active
}

func (d *DragController) Sensitivity() float32 {
	return d.sensitivity
}

// SetSensitivity changes the scale for subsequent moves. Non-positive values are ignored.
func (d *DragController) SetSensitivity(s float32) {
	if s > 0 {
		d.sensitivity = s
	}
}

// Handle applies one pointer event.
func (d *DragController) Handle(ev PointerEvent) {
	switch e := ev.(type) {
	case Press:
		d.press(mgl32.Vec2{e.X, e.Y})
	case Move:
		d.move(mgl32.Vec2{e.X, e.Y})
	case Release:
		d.release()
	}
}

func (d *DragController) press(pointer mgl32.Vec2) {
	if d.state.Active {
		return
	}
	target := d.Pick(pointer)
	if target == nil {
		return
	}

	d.state = PointerState{
		Active:        true,
		Target:        target,
		GrabOffset:    pointer,
		StartPosition: target.Model.Position,
	}

	body := target.Body
	body.Mass = 0
	body.UpdateMassProperties()
	body.Stop()

	logger.Log.Debug("Drag started", zap.String("target", target.Name), zap.Float32("mass", target.Mass))
}

func (d *DragController) move(pointer mgl32.Vec2) {
	if !d.state.Active {
		return
	}
	delta := pointer.Sub(d.state.GrabOffset).Mul(d.sensitivity)
	position := d.state.StartPosition.Add(mgl32.Vec3{delta.X(), delta.Y(), 0})

	target := d.state.Target
	target.Model.SetPositionVec(position)
	target.Body.Position = position
}

func (d *DragController) release() {
	if !d.state.Active {
		return
	}
	target := d.state.Target
	target.Body.Mass = target.Mass
	target.Body.UpdateMassProperties()
	d.state = PointerState{}

	logger.Log.Debug("Drag ended", zap.String("target", target.Name), zap.Float32("mass", target.Mass))
}

// Pick returns the registered entry nearest along the camera ray through
// pointer, or nil. On equal distance the earlier registration wins.
func (d *DragController) Pick(pointer mgl32.Vec2) *scene.Entry {
	ray := d.scene.Camera.RayFromNDC(pointer)

	var best *scene.Entry
	var bestDist float32
	d.scene.Registry.ForEach(func(e *scene.Entry) {
		hit, dist, _ := renderer.RayIntersectModel(ray, e.Model)
		if hit && (best == nil || dist < bestDist) {
			best, bestDist = e, dist
		}
	})
	return best
}
