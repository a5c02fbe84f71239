package render

import (
	"github.com/inamate/drawer/internal/geometry"
	"github.com/inamate/drawer/internal/grid"
	"github.com/inamate/drawer/internal/scene"
)

var (
	highlight = Stroke{Color: "black", Width: 3}
	gizmo     = Stroke{Color: "#00a1ff", Width: 1, Dash: []float64{4, 4}}
)

// Frame is everything one repaint draws.
type Frame struct {
	Store *scene.Store
	Grid  grid.Grid

	// Draft is the shape being drawn, not yet in Store.
	Draft *scene.Shape
	// Gizmo is the transform handle outline, when one is attached.
	Gizmo *geometry.Rect

	// Committed paints stored shapes only, without highlights, draft or
	// gizmo. Exports use it.
	Committed bool
}

// Repaint redraws the whole surface: clear, grid, shapes bottom to top with
// a highlight outline on hovered or selected ones, the draft, then the
// transform gizmo.
func Repaint(sf Surface, f Frame) {
	w, h := sf.Size()
	sf.ClearRect(0, 0, w, h)
	f.Grid.Draw(sf, w, h)

	if f.Store != nil {
		for _, l := range f.Store.Layers() {
			if !l.Visible {
				continue
			}
			for _, s := range l.Shapes() {
				if s.Hidden {
					continue
				}
				paintShape(sf, s, !f.Committed)
			}
		}
	}

	if f.Draft != nil && !f.Committed {
		paintShape(sf, f.Draft, true)
	}

	if f.Gizmo != nil && !f.Committed {
		sf.StrokeShape(RectPrimitive(*f.Gizmo), gizmo)
	}

	logger().Debug("repaint", "width", w, "height", h)
}

func paintShape(sf Surface, s *scene.Shape, highlighted bool) {
	p := PrimitiveOf(s)
	if s.Kind != scene.KindLine && s.Fill != "" {
		sf.FillShape(p, s.Fill)
	}
	if s.Stroke != "" && s.StrokeWidth > 0 {
		sf.StrokeShape(p, Stroke{Color: s.Stroke, Width: s.StrokeWidth})
	}
	if highlighted && (s.Hovered || s.Selected) {
		sf.StrokeShape(p, highlight)
	}
}
