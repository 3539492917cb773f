package behaviour

import (
	"fmt"

	"Playground3D/internal/loader"
	"Playground3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultJiggleStiffness = 120
	DefaultJiggleDamping   = 8
	DefaultJiggleMaxOffset = 0.5
)

// Jiggle gives named bones springy secondary motion: when the host model
// moves the bones lag behind and then oscillate back to rest.
type Jiggle struct {
	Stiffness float32
	Damping   float32
	MaxOffset float32

	model    *renderer.Model
	bones    []int
	velocity []mgl32.Vec3
	last     mgl32.Vec3
}

// NewJiggle binds to bones of model's skeleton. It fails with
// loader.ErrMissingSkeleton when the model has no rig or lacks a bone.
func NewJiggle(model *renderer.Model, bones []string, stiffness, damping float32) (*Jiggle, error) {
	if model == nil || model.Skeleton == nil {
		return nil, fmt.Errorf("jiggle %s: %w", modelName(model), loader.ErrMissingSkeleton)
	}
	if stiffness <= 0 {
		stiffness = DefaultJiggleStiffness
	}
	if damping < 0 {
		damping = DefaultJiggleDamping
	}

	j := &Jiggle{
		Stiffness: stiffness,
		Damping:   damping,
		MaxOffset: DefaultJiggleMaxOffset,
		model:     model,
	}
	for _, name := range bones {
		idx := model.Skeleton.Find(name)
		if idx < 0 {
			return nil, fmt.Errorf("jiggle %s: bone %q: %w", modelName(model), name, loader.ErrMissingSkeleton)
		}
		j.bones = append(j.bones, idx)
	}
	j.velocity = make([]mgl32.Vec3, len(j.bones))
	return j, nil
}

func modelName(model *renderer.Model) string {
	if model == nil {
		return "<nil>"
	}
	return model.Name
}

func (j *Jiggle) Start() {
	j.last = j.model.Position
}

func (j *Jiggle) Update(dt float32) {
	if dt <= 0 {
		return
	}
	motion := j.model.Position.Sub(j.last)
	j.last = j.model.Position

	skeleton := j.model.Skeleton
	for i, idx := range j.bones {
		bone := &skeleton.Bones[idx]

		// Inertia: the bone stays where it was while the body moves.
		pose := bone.Pose.Sub(motion)

		accel := pose.Mul(-j.Stiffness).Sub(j.velocity[i].Mul(j.Damping))
		j.velocity[i] = j.velocity[i].Add(accel.Mul(dt))
		pose = pose.Add(j.velocity[i].Mul(dt))

		if l := pose.Len(); j.MaxOffset > 0 && l > j.MaxOffset {
			pose = pose.Mul(j.MaxOffset / l)
		}
		bone.Pose = pose
	}
}

// Offset returns the current displacement of the i-th jiggling bone.
func (j *Jiggle) Offset(i int) mgl32.Vec3 {
	return j.model.Skeleton.Bones[j.bones[i]].Pose
}
