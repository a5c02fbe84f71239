// Package grid quantizes canvas coordinates to a fixed cell size and paints
// the matching guide lines.
package grid

import "math"

const (
	// DefaultSize is the cell size used when none is configured.
	DefaultSize = 20

	guideColor = "#e0e0e0"
	guideWidth = 0.5

	// MaxLines caps the guide lines drawn per axis.
	MaxLines = 4096
)

// LinePainter is the slice of a render surface the grid needs.
type LinePainter interface {
	DrawLine(x1, y1, x2, y2 float64, color string, width float64)
}

// Grid snaps values to multiples of Size.
type Grid struct {
	Size float64
}

// New returns a grid with the given cell size, falling back to DefaultSize
// for non-positive values.
func New(size float64) Grid {
	if size <= 0 {
		size = DefaultSize
	}
	return Grid{Size: size}
}

// Snap rounds v to the nearest multiple of the cell size. Halves round
// toward positive infinity.
func (g Grid) Snap(v float64) float64 {
	s := g.size()
	q := math.Floor(v/s+0.5) * s
	if q == 0 {
		return 0 // no negative zero
	}
	return q
}

// SnapPoint snaps both coordinates.
func (g Grid) SnapPoint(x, y float64) (float64, float64) {
	return g.Snap(x), g.Snap(y)
}

// Draw issues one vertical and one horizontal guide line at every multiple
// of the cell size across a width x height area, at most MaxLines per axis.
func (g Grid) Draw(p LinePainter, width, height float64) {
	s := g.size()
	for i := range lineCount(width, s) {
		x := float64(i) * s
		p.DrawLine(x, 0, x, height, guideColor, guideWidth)
	}
	for i := range lineCount(height, s) {
		y := float64(i) * s
		p.DrawLine(0, y, width, y, guideColor, guideWidth)
	}
}

// lineCount returns how many multiples of s lie in [0, extent].
func lineCount(extent, s float64) int {
	if !(extent >= 0) || math.IsInf(extent, 0) {
		return 0
	}
	n := math.Floor(extent/s) + 1
	if n > MaxLines {
		return MaxLines
	}
	return int(n)
}

func (g Grid) size() float64 {
	if g.Size <= 0 {
		return DefaultSize
	}
	return g.Size
}
