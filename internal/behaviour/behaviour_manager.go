// Package behaviour runs cosmetic animation on top of the simulated scene.
// Nothing here reads or writes physics state.
package behaviour

// Animator is a cosmetic effect advanced once per frame.
type Animator interface {
	Start()
	Update(dt float32)
}

type animatorWrapper struct {
	animator Animator
	started  bool
}

type Manager struct {
	animators []animatorWrapper
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Add(a Animator) {
	m.animators = append(m.animators, animatorWrapper{animator: a})
}

// Clear removes all animators
func (m *Manager) Clear() {
	m.animators = m.animators[:0]
}

func (m *Manager) Len() int {
	return len(m.animators)
}

// UpdateAll starts new animators and then advances every animator by dt, in insertion order.
func (m *Manager) UpdateAll(dt float32) {
	for i := range m.animators {
		if !m.animators[i].started {
			m.animators[i].animator.Start()
			m.animators[i].started = true
		}
		m.animators[i].animator.Update(dt)
	}
}
