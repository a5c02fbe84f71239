package session

import (
	"math"

	"github.com/inamate/drawer/internal/scene"
)

// Draw tracks the shape under construction between pointer-down and
// pointer-up. Coordinates are expected to be snapped already.
//
// The zero value is usable but does not follow a store; NewDraw returns one
// that drops its draft when the store is cleared.
type Draw struct {
	shape          *scene.Shape
	startX, startY float64

	unsubscribe func()
}

// NewDraw returns a draw session observing st.
func NewDraw(st *scene.Store) *Draw {
	d := &Draw{}
	d.unsubscribe = st.Subscribe(d.observe)
	return d
}

func (d *Draw) observe(ev scene.Event) {
	if d.shape != nil && ev.Kind == scene.EventCleared {
		d.Cancel()
	}
}

// Close drops the draft and stops observing the store.
func (d *Draw) Close() {
	d.Cancel()
	if d.unsubscribe != nil {
		d.unsubscribe()
		d.unsubscribe = nil
	}
}

// Drawable reports whether kind can be built by dragging out its extent.
func Drawable(kind scene.Kind) bool {
	switch kind {
	case scene.KindRectangle, scene.KindCircle, scene.KindTriangle, scene.KindLine:
		return true
	}
	return false
}

// Start creates a zero-extent skeleton of kind at (x, y). It returns nil
// for kinds that cannot be dragged out. A draft already in progress is
// discarded.
func (d *Draw) Start(kind scene.Kind, x, y float64, fill string) *scene.Shape {
	d.Cancel()
	if !Drawable(kind) {
		return nil
	}
	s := scene.NewShape(kind)
	s.X, s.Y = x, y
	s.Fill = fill
	if kind == scene.KindLine {
		s.Points = []float64{0, 0, 0, 0}
	}
	d.shape = s
	d.startX, d.startY = x, y
	return s
}

// Update recomputes the draft's extent from the start point to (x, y):
// signed width/height for rectangles, Euclidean distance for radii, and the
// end point for lines. It returns the draft, or nil when idle.
func (d *Draw) Update(x, y float64) *scene.Shape {
	s := d.shape
	if s == nil {
		return nil
	}
	dx, dy := x-d.startX, y-d.startY
	switch s.Kind {
	case scene.KindRectangle:
		s.Width, s.Height = dx, dy
	case scene.KindCircle, scene.KindTriangle:
		s.Radius = math.Hypot(dx, dy)
	case scene.KindLine:
		s.Points[2], s.Points[3] = dx, dy
	}
	return s
}

// Commit promotes the draft into st when it has a drawable extent.
// Rectangles are normalized to positive width and height first. A
// degenerate draft is discarded and Commit returns nil, false.
func (d *Draw) Commit(st *scene.Store) (*scene.Shape, bool) {
	s := d.shape
	d.shape = nil
	if s == nil || s.Degenerate() {
		return nil, false
	}
	if s.Kind == scene.KindRectangle {
		if s.Width < 0 {
			s.X += s.Width
			s.Width = -s.Width
		}
		if s.Height < 0 {
			s.Y += s.Height
			s.Height = -s.Height
		}
	}
	st.AddShape(s)
	return s, true
}

// Cancel drops the draft without committing it.
func (d *Draw) Cancel() {
	d.shape = nil
}

// Active reports whether a draft is in progress.
func (d *Draw) Active() bool {
	return d.shape != nil
}

// Shape returns the draft or nil.
func (d *Draw) Shape() *scene.Shape {
	return d.shape
}
