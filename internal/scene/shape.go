package scene

import (
	"slices"

	"github.com/inamate/drawer/internal/geometry"
)

// Kind tags the shape variant.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindTriangle  Kind = "triangle"
	KindLine      Kind = "line"
	KindText      Kind = "text"
)

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindRectangle, KindCircle, KindTriangle, KindLine, KindText:
		return true
	}
	return false
}

// ZUnset asks the store to stack the shape on top of its layer.
const ZUnset = -1

const (
	defaultFontSize   = 20
	defaultLineStroke = 2
	lineHitTolerance  = 3
	textAdvanceRatio  = 0.6
)

// Shape is a single drawable primitive.
//
// X, Y is the top-left corner for rectangles and text, the center for
// circles and triangles, and the origin of Points for lines.
type Shape struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width,omitempty"`
	Height float64   `json:"height,omitempty"`
	Radius float64   `json:"radius,omitempty"`
	Points []float64 `json:"points,omitempty"`

	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Opacity     float64 `json:"opacity"`

	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Hidden   bool    `json:"hidden,omitempty"`

	// Z is the stacking position inside the owning layer.
	Z int `json:"z"`

	Hovered  bool `json:"isHovered"`
	Selected bool `json:"isSelected"`

	layer *Layer
}

// NewShape returns a zero-extent shape of the given kind with neutral
// styling, ready to be sized and added to a store.
func NewShape(kind Kind) *Shape {
	s := &Shape{
		Kind:    kind,
		Opacity: 1,
		ScaleX:  1,
		ScaleY:  1,
		Z:       ZUnset,
	}
	switch kind {
	case KindLine:
		s.Stroke = "#000000"
		s.StrokeWidth = defaultLineStroke
	case KindText:
		s.FontSize = defaultFontSize
	}
	return s
}

// Clone returns a detached deep copy with the transient flags cleared.
func (s *Shape) Clone() *Shape {
	c := *s
	c.Points = slices.Clone(s.Points)
	c.Hovered = false
	c.Selected = false
	c.layer = nil
	return &c
}

// Layer returns the owning layer, or nil when the shape is not in a store.
func (s *Shape) Layer() *Layer {
	return s.layer
}

// Placement maps local shape space to canvas space.
func (s *Shape) Placement() geometry.Matrix2D {
	return geometry.Placement(s.X, s.Y, nonZero(s.ScaleX), nonZero(s.ScaleY), s.Rotation)
}

// LocalBounds is the shape's box in its own coordinate space.
func (s *Shape) LocalBounds() geometry.Rect {
	switch s.Kind {
	case KindRectangle:
		return geometry.Rect{Width: s.Width, Height: s.Height}.Normalize()
	case KindCircle, KindTriangle:
		return geometry.Rect{X: -s.Radius, Y: -s.Radius, Width: 2 * s.Radius, Height: 2 * s.Radius}
	case KindLine:
		b := geometry.PolylineBounds(s.Points)
		pad := s.StrokeWidth / 2
		return geometry.Rect{X: b.X - pad, Y: b.Y - pad, Width: b.Width + 2*pad, Height: b.Height + 2*pad}
	case KindText:
		w, h := s.TextBox()
		return geometry.Rect{Width: w, Height: h}
	}
	return geometry.Rect{}
}

// Bounds is the axis-aligned box of the shape in canvas space.
func (s *Shape) Bounds() geometry.Rect {
	return s.Placement().Bounds(s.LocalBounds())
}

// TextBox returns the text extent: the explicit Width/Height when set,
// otherwise an estimate from the glyph count and font size.
func (s *Shape) TextBox() (float64, float64) {
	if s.Width > 0 && s.Height > 0 {
		return s.Width, s.Height
	}
	size := s.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	return float64(len([]rune(s.Text))) * size * textAdvanceRatio, size
}

// Degenerate reports whether the shape has no drawable extent.
func (s *Shape) Degenerate() bool {
	switch s.Kind {
	case KindRectangle:
		return s.Width == 0 || s.Height == 0
	case KindCircle, KindTriangle:
		return s.Radius <= 0
	case KindLine:
		b := geometry.PolylineBounds(s.Points)
		return len(s.Points) < 4 || (b.Width == 0 && b.Height == 0)
	case KindText:
		return s.Text == ""
	}
	return true
}

// HitTest reports whether canvas point (px, py) falls on the shape.
func HitTest(s *Shape, px, py float64) bool {
	if s == nil || s.Hidden {
		return false
	}
	lx, ly := s.Placement().Invert().Apply(px, py)

	switch s.Kind {
	case KindRectangle:
		return geometry.InBox(s.Width, s.Height, lx, ly)
	case KindCircle:
		return geometry.InCircle(s.Radius, lx, ly)
	case KindTriangle:
		return geometry.InTriangle(s.Radius, lx, ly)
	case KindLine:
		return geometry.NearPolyline(s.Points, max(s.StrokeWidth/2, lineHitTolerance), lx, ly)
	case KindText:
		w, h := s.TextBox()
		return geometry.InBox(w, h, lx, ly)
	}
	return false
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
