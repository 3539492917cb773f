package scene

import (
	"fmt"
	"math"

	"Playground3D/internal/physics"
	"Playground3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene is the context object handed to the frame loop and the drag
// controller. Independent scenes share nothing.
type Scene struct {
	Camera   *renderer.Camera
	Light    *renderer.Light
	World    *physics.World
	Registry *Registry

	// Decorations are rendered but never synchronised with physics.
	Decorations []*renderer.Model

	// OnModelAdded, when set, is told about every model entering the scene
	// so a renderer can upload it.
	OnModelAdded func(*renderer.Model)
}

func New(camera *renderer.Camera, world *physics.World) *Scene {
	return &Scene{
		Camera:   camera,
		Light:    renderer.DefaultLight(),
		World:    world,
		Registry: NewRegistry(),
	}
}

// EntitySpec describes how a loaded model is placed and simulated.
type EntitySpec struct {
	Name        string
	Kind        Kind
	Position    mgl32.Vec3
	Rotation    mgl32.Vec3 // Euler degrees
	Scale       mgl32.Vec3
	Mass        float32
	HalfExtents mgl32.Vec3 // Zero derives the box from the model's bounding sphere
}

// Spawn places model per spec, creates its body in the world and registers it.
func (s *Scene) Spawn(spec EntitySpec, model *renderer.Model) (*Entry, error) {
	if model == nil {
		return nil, ErrIncompleteEntry
	}
	if !ValidMass(spec.Mass) {
		return nil, fmt.Errorf("spawn %s: %w", spec.Name, ErrNonPositiveMass)
	}

	scale := spec.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	model.SetScaleVec(scale)
	model.SetRotationQuat(mgl32.QuatIdent())
	model.Rotate(spec.Rotation.X(), spec.Rotation.Y(), spec.Rotation.Z())
	model.SetPositionVec(spec.Position)
	if spec.Name != "" {
		model.Name = spec.Name
	}

	halfExtents := spec.HalfExtents
	if halfExtents == (mgl32.Vec3{}) {
		halfExtents = boundsHalfExtents(model)
	}

	body := physics.NewBody(spec.Mass, spec.Position, halfExtents)
	body.Quaternion = model.Rotation

	entry, err := s.Registry.Register(model, body, spec.Mass)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", spec.Name, err)
	}
	if spec.Kind != "" {
		entry.Kind = spec.Kind
	}
	s.World.AddBody(body)
	s.notify(model)
	return entry, nil
}

// boundsHalfExtents derives a box around the model origin from its world
// bounding sphere. The box bottom sits at the lowest point of the sphere even
// when the mesh is not centred on its origin.
func boundsHalfExtents(model *renderer.Model) mgl32.Vec3 {
	center, radius := model.WorldBoundingSphere()
	offset := center.Sub(model.Position)
	return mgl32.Vec3{
		radius + float32(math.Abs(float64(offset.X()))),
		float32(math.Max(float64(radius-offset.Y()), 0)),
		radius + float32(math.Abs(float64(offset.Z()))),
	}
}

// AddDecoration adds a model that is drawn but has no physics.
func (s *Scene) AddDecoration(model *renderer.Model) {
	s.Decorations = append(s.Decorations, model)
	s.notify(model)
}

func (s *Scene) notify(model *renderer.Model) {
	if s.OnModelAdded != nil {
		s.OnModelAdded(model)
	}
}
