// Package scene holds the explicit per-scene context: camera, light, physics
// world and the registry that keeps renderables in step with their bodies.
package scene

import (
	"errors"
	"math"

	"Playground3D/internal/physics"
	"Playground3D/internal/renderer"
)

var (
	ErrNonPositiveMass   = errors.New("mass must be positive and finite")
	ErrAlreadyRegistered = errors.New("model already registered")
	ErrIncompleteEntry   = errors.New("model and body are required")
)

// ValidMass reports whether mass can be restored after a drag. NaN, zero,
// negative and infinite masses are rejected; an infinite mass would leave the
// body kinematic.
func ValidMass(mass float32) bool {
	return mass > 0 && !math.IsInf(float64(mass), 1)
}

// Kind distinguishes what an entry represents in the scene.
type Kind string

const (
	KindPlayer Kind = "player"
	KindWeapon Kind = "weapon"
	KindProp   Kind = "prop"
)

// Entry pairs a renderable with its physics body and the mass it was
// registered with. Mass is the value restored after a kinematic override.
type Entry struct {
	Name  string
	Kind  Kind
	Model *renderer.Model
	Body  *physics.Body
	Mass  float32
}

// Registry is the ordered set of synchronised entries. Entries live as long as
// the scene; there is no removal.
type Registry struct {
	entries []*Entry
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an entry for model and body and sets the body's mass.
func (r *Registry) Register(model *renderer.Model, body *physics.Body, mass float32) (*Entry, error) {
	if model == nil || body == nil {
		return nil, ErrIncompleteEntry
	}
	if !ValidMass(mass) {
		return nil, ErrNonPositiveMass
	}
	for _, e := range r.entries {
		if e.Model == model || e.Body == body {
			return nil, ErrAlreadyRegistered
		}
	}

	body.Mass = mass
	body.UpdateMassProperties()

	entry := &Entry{Name: model.Name, Kind: KindProp, Model: model, Body: body, Mass: mass}
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// ForEach yields entries in insertion order.
func (r *Registry) ForEach(fn func(*Entry)) {
	for _, e := range r.entries {
		fn(e)
	}
}

// Find returns the first entry with the given name.
func (r *Registry) Find(name string) *Entry {
	for _, e := range r.entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Sync copies every body's position and orientation onto its model.
// Physics state is only read.
func (r *Registry) Sync() {
	for _, e := range r.entries {
		e.Model.Position = e.Body.Position
		e.Model.SetRotationQuat(e.Body.Quaternion)
	}
}
