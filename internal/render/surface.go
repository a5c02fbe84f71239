// Package render paints a scene onto a Surface. A Surface is anything that
// can clear, draw guide lines, and fill or stroke a shape primitive: a
// command buffer shipped to a browser canvas, or a gg raster for PNG export.
package render

import (
	"github.com/inamate/drawer/internal/geometry"
	"github.com/inamate/drawer/internal/scene"
)

// Surface is the paint capability the renderer needs. Surfaces are
// write-only; Repaint never reads pixels back.
type Surface interface {
	Size() (width, height float64)
	ClearRect(x, y, width, height float64)
	DrawLine(x1, y1, x2, y2 float64, color string, width float64)
	FillShape(p Primitive, fill string)
	StrokeShape(p Primitive, stroke Stroke)
}

// Stroke styles an outline. An empty Dash draws a solid line.
type Stroke struct {
	Color string
	Width float64
	Dash  []float64
}

// Primitive is a shape's geometry in its local space plus the transform
// placing it on the canvas.
type Primitive struct {
	ID        string
	Kind      scene.Kind
	Transform geometry.Matrix2D

	Width    float64
	Height   float64
	Radius   float64
	Points   []float64
	Text     string
	FontSize float64
	Opacity  float64
}

// PrimitiveOf captures the drawable geometry of s.
func PrimitiveOf(s *scene.Shape) Primitive {
	p := Primitive{
		ID:        s.ID,
		Kind:      s.Kind,
		Transform: s.Placement(),
		Width:     s.Width,
		Height:    s.Height,
		Radius:    s.Radius,
		Points:    s.Points,
		Text:      s.Text,
		FontSize:  s.FontSize,
		Opacity:   s.Opacity,
	}
	if s.Kind == scene.KindText {
		p.Width, p.Height = s.TextBox()
	}
	return p
}

// RectPrimitive is an untransformed rectangle in canvas space.
func RectPrimitive(r geometry.Rect) Primitive {
	return Primitive{
		Kind:      scene.KindRectangle,
		Transform: geometry.Placement(r.X, r.Y, 1, 1, 0),
		Width:     r.Width,
		Height:    r.Height,
		Opacity:   1,
	}
}
