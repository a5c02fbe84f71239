package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"

	"github.com/inamate/drawer/internal/geometry"
	"github.com/inamate/drawer/internal/scene"
)

// Raster is a Surface backed by a gg software context.
type Raster struct {
	dc      *gg.Context
	hasFont bool
}

// NewRaster creates a white width x height raster.
func NewRaster(width, height int) *Raster {
	dc := gg.NewContext(width, height)
	dc.ClearWithColor(gg.White)
	return &Raster{dc: dc}
}

// LoadFont sets the face used for text shapes. Without one, text shapes are
// skipped and only their outlines are stroked.
func (r *Raster) LoadFont(path string, points float64) error {
	if err := r.dc.LoadFontFace(path, points); err != nil {
		return fmt.Errorf("load font %s: %w", path, err)
	}
	r.hasFont = true
	return nil
}

func (r *Raster) Size() (float64, float64) {
	return float64(r.dc.Width()), float64(r.dc.Height())
}

func (r *Raster) ClearRect(x, y, width, height float64) {
	if x <= 0 && y <= 0 && width >= float64(r.dc.Width()) && height >= float64(r.dc.Height()) {
		r.dc.ClearWithColor(gg.White)
		return
	}
	r.dc.SetColor(color.White)
	r.dc.DrawRectangle(x, y, width, height)
	r.fill("clear")
}

func (r *Raster) DrawLine(x1, y1, x2, y2 float64, c string, width float64) {
	if !r.setColor(c, 1) {
		return
	}
	r.dc.SetLineWidth(width)
	r.dc.SetDash()
	r.dc.DrawLine(x1, y1, x2, y2)
	r.stroke("line")
}

func (r *Raster) FillShape(p Primitive, fill string) {
	if !r.setColor(fill, p.Opacity) {
		return
	}
	r.dc.Push()
	defer r.dc.Pop()
	r.dc.Transform(ggMatrix(p.Transform))

	if p.Kind == scene.KindText {
		if r.hasFont && p.Text != "" {
			r.dc.DrawString(p.Text, 0, p.Height)
		}
		return
	}
	r.path(p)
	r.fill(p.ID)
}

func (r *Raster) StrokeShape(p Primitive, s Stroke) {
	if !r.setColor(s.Color, p.Opacity) {
		return
	}
	r.dc.Push()
	defer r.dc.Pop()
	r.dc.Transform(ggMatrix(p.Transform))
	r.dc.SetLineWidth(s.Width)
	r.dc.SetDash(s.Dash...)

	if p.Kind == scene.KindText {
		r.dc.DrawRectangle(0, 0, p.Width, p.Height)
	} else {
		r.path(p)
	}
	r.stroke(p.ID)
}

func (r *Raster) path(p Primitive) {
	switch p.Kind {
	case scene.KindRectangle:
		n := geometry.Rect{Width: p.Width, Height: p.Height}.Normalize()
		r.dc.DrawRectangle(n.X, n.Y, n.Width, n.Height)
	case scene.KindCircle:
		r.dc.DrawCircle(0, 0, p.Radius)
	case scene.KindTriangle:
		v := geometry.TriangleVertices(p.Radius)
		r.dc.MoveTo(v[0].X, v[0].Y)
		r.dc.LineTo(v[1].X, v[1].Y)
		r.dc.LineTo(v[2].X, v[2].Y)
		r.dc.ClosePath()
	case scene.KindLine:
		for i := 0; i+1 < len(p.Points); i += 2 {
			if i == 0 {
				r.dc.MoveTo(p.Points[0], p.Points[1])
				continue
			}
			r.dc.LineTo(p.Points[i], p.Points[i+1])
		}
	}
}

func (r *Raster) setColor(c string, opacity float64) bool {
	rgba, ok := scene.ParseColor(c)
	if !ok {
		logger().Warn("unknown color", "color", c)
		return false
	}
	n := color.NRGBAModel.Convert(rgba).(color.NRGBA)
	if opacity < 1 {
		n.A = uint8(float64(n.A) * opacity)
	}
	r.dc.SetColor(n)
	return true
}

func (r *Raster) fill(id string) {
	if err := r.dc.Fill(); err != nil {
		logger().Warn("fill", "shape", id, "error", err)
	}
}

func (r *Raster) stroke(id string) {
	if err := r.dc.Stroke(); err != nil {
		logger().Warn("stroke", "shape", id, "error", err)
	}
}

// Image returns the rendered image.
func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

// EncodePNG writes the raster as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Close releases the underlying context.
func (r *Raster) Close() error {
	return r.dc.Close()
}

func ggMatrix(m geometry.Matrix2D) gg.Matrix {
	return gg.Matrix{
		A: m[0], B: m[2], C: m[4],
		D: m[1], E: m[3], F: m[5],
	}
}
