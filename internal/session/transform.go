package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/inamate/drawer/internal/geometry"
	"github.com/inamate/drawer/internal/scene"
	"github.com/inamate/drawer/internal/typeid"
)

var ErrNoTargets = errors.New("transform has no targets")

// Handle is an attached transform gizmo.
type Handle struct {
	ID      string
	Layer   *scene.Layer
	Targets []*scene.Shape
}

// Transform manages at most one active Handle. The handle is torn down when
// the selection is cleared or moves off its targets, when its layer is
// deleted, when its last target is removed, and when the canvas is cleared.
type Transform struct {
	store  *scene.Store
	handle *Handle

	unsubscribe func()
}

// NewTransform creates a detached transform session bound to st.
func NewTransform(st *scene.Store) *Transform {
	t := &Transform{store: st}
	t.unsubscribe = st.Subscribe(t.observe)
	return t
}

func (t *Transform) observe(ev scene.Event) {
	h := t.handle
	if h == nil {
		return
	}
	switch ev.Kind {
	case scene.EventCleared:
		t.Stop()
	case scene.EventLayerRemoved:
		if ev.Layer == h.Layer {
			t.Stop()
		}
	case scene.EventShapeRemoved:
		h.Targets = slices.DeleteFunc(h.Targets, func(s *scene.Shape) bool { return s == ev.Shape })
		if len(h.Targets) == 0 {
			t.Stop()
		}
	case scene.EventSelectionChanged:
		if ev.Shape == nil || !slices.Contains(h.Targets, ev.Shape) {
			t.Stop()
		}
	}
}

// Attach binds a new handle to targets in layer l, replacing any active
// one. Targets not in the store are dropped; ErrNoTargets is returned when
// none remain, and in that case no handle exists afterwards.
func (t *Transform) Attach(l *scene.Layer, targets []*scene.Shape) (*Handle, error) {
	t.Stop()

	live := make([]*scene.Shape, 0, len(targets))
	for _, s := range targets {
		if t.store.Contains(s) && !slices.Contains(live, s) {
			live = append(live, s)
		}
	}
	if len(live) == 0 {
		return nil, fmt.Errorf("attach transform: %w", ErrNoTargets)
	}

	t.handle = &Handle{
		ID:      typeid.NewTransformID(),
		Layer:   l,
		Targets: live,
	}
	slog.Debug("transform attached", "handle", t.handle.ID, "targets", len(live))
	return t.handle, nil
}

// Stop destroys the active handle. It is a no-op when detached.
func (t *Transform) Stop() {
	if t.handle == nil {
		return
	}
	slog.Debug("transform detached", "handle", t.handle.ID)
	t.handle = nil
}

// Active reports whether a handle is attached.
func (t *Transform) Active() bool {
	return t.handle != nil
}

// Handle returns the active handle or nil.
func (t *Transform) Handle() *Handle {
	return t.handle
}

// Apply multiplies every target's scale by (sx, sy) and adds rotation
// degrees.
func (t *Transform) Apply(sx, sy, rotation float64) error {
	if t.handle == nil {
		return fmt.Errorf("apply transform: %w", ErrNoTargets)
	}
	if sx == 0 || sy == 0 {
		return fmt.Errorf("apply transform: %w: zero scale", scene.ErrInvalidAttributes)
	}
	for _, s := range t.handle.Targets {
		s.ScaleX *= sx
		s.ScaleY *= sy
		s.Rotation += rotation
	}
	return nil
}

// Bounds returns the union of the targets' canvas bounds.
func (t *Transform) Bounds() (geometry.Rect, bool) {
	if t.handle == nil {
		return geometry.Rect{}, false
	}
	var r geometry.Rect
	for i, s := range t.handle.Targets {
		if i == 0 {
			r = s.Bounds()
			continue
		}
		r = r.Union(s.Bounds())
	}
	return r, true
}

// Close detaches the session from its store.
func (t *Transform) Close() {
	t.Stop()
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}
