// Package session holds the short-lived interaction state machines that sit
// between pointer/keyboard input and the scene store: dragging a shape,
// drawing a new one, and the transform gizmo.
package session

import (
	"log/slog"

	"github.com/inamate/drawer/internal/geometry"
	"github.com/inamate/drawer/internal/grid"
	"github.com/inamate/drawer/internal/scene"
)

// Movement drags one shape at a time. The pointer-to-shape offset is
// captured at Start so the shape does not jump under the pointer.
type Movement struct {
	grid   grid.Grid
	shape  *scene.Shape
	offset geometry.Point

	unsubscribe func()
}

// NewMovement creates an idle movement session. It watches st so that a
// drag ends when its shape is deleted or the canvas is cleared.
func NewMovement(st *scene.Store, g grid.Grid) *Movement {
	m := &Movement{grid: g}
	m.unsubscribe = st.Subscribe(m.observe)
	return m
}

func (m *Movement) observe(ev scene.Event) {
	if m.shape == nil {
		return
	}
	switch ev.Kind {
	case scene.EventCleared:
		m.Stop()
	case scene.EventShapeRemoved:
		if ev.Shape == m.shape {
			m.Stop()
		}
	}
}

// Start begins dragging s from pointer p. An active drag is silently
// retargeted.
func (m *Movement) Start(p geometry.Point, s *scene.Shape) {
	if s == nil {
		return
	}
	if m.shape != nil && m.shape != s {
		slog.Debug("drag retargeted", "from", m.shape.ID, "to", s.ID)
	}
	m.shape = s
	m.offset = p.Sub(geometry.Point{X: s.X, Y: s.Y})
}

// Update moves the dragged shape to the snapped pointer position minus the
// captured offset. It returns the moved shape, or nil when idle.
func (m *Movement) Update(p geometry.Point) *scene.Shape {
	if m.shape == nil {
		return nil
	}
	m.shape.X, m.shape.Y = m.grid.SnapPoint(p.X-m.offset.X, p.Y-m.offset.Y)
	return m.shape
}

// Stop ends the drag and releases the shape.
func (m *Movement) Stop() {
	m.shape = nil
	m.offset = geometry.Point{}
}

// Active reports whether a drag is in progress.
func (m *Movement) Active() bool {
	return m.shape != nil
}

// Shape returns the dragged shape or nil.
func (m *Movement) Shape() *scene.Shape {
	return m.shape
}

// Close detaches the session from its store.
func (m *Movement) Close() {
	m.Stop()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}
