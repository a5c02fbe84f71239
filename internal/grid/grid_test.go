package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type lineRecorder struct {
	lines [][4]float64
}

func (r *lineRecorder) DrawLine(x1, y1, x2, y2 float64, color string, width float64) {
	r.lines = append(r.lines, [4]float64{x1, y1, x2, y2})
}

func TestSnap(t *testing.T) {
	g := New(20)
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{9.9, 0},
		{10, 20},
		{37, 40},
		{52, 60},
		{-9, 0},
		{-10, 0},
		{-11, -20},
		{123.4, 120},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Snap(tt.in), "Snap(%v)", tt.in)
	}
}

func TestSnapIsIdempotentAndAligned(t *testing.T) {
	g := New(20)
	for v := -500.0; v <= 500; v += 0.7 {
		s := g.Snap(v)
		assert.Equal(t, s, g.Snap(s), "Snap(Snap(%v))", v)
		assert.Zero(t, math.Mod(s, 20), "Snap(%v) = %v", v, s)
	}
}

func TestNewFallsBackToDefault(t *testing.T) {
	assert.Equal(t, float64(DefaultSize), New(0).Size)
	assert.Equal(t, float64(DefaultSize), New(-5).Size)
	assert.Equal(t, 40.0, Grid{}.Snap(30))
}

func TestDrawCoversArea(t *testing.T) {
	var rec lineRecorder
	New(20).Draw(&rec, 100, 60)

	// 0..100 step 20 -> 6 verticals, 0..60 -> 4 horizontals
	assert.Len(t, rec.lines, 10)
	assert.Equal(t, [4]float64{0, 0, 0, 60}, rec.lines[0])
	assert.Equal(t, [4]float64{100, 0, 100, 60}, rec.lines[5])
	assert.Equal(t, [4]float64{0, 60, 100, 60}, rec.lines[9])
}

func TestDrawBoundsLineCount(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		want          int
	}{
		{"huge width", 1e300, 10, MaxLines + 1},
		{"both capped", 1e9, 1e9, 2 * MaxLines},
		{"infinite", math.Inf(1), 10, 1},
		{"nan", math.NaN(), math.NaN(), 0},
		{"negative", -40, 20, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec lineRecorder
			New(20).Draw(&rec, tt.width, tt.height)
			assert.Len(t, rec.lines, tt.want)
		})
	}
}

func TestDrawPositionsAreMultiples(t *testing.T) {
	var rec lineRecorder
	New(0.1).Draw(&rec, 1, 0)

	// verticals only: 0, 0.1 ... 1.0 computed as i*size, plus the y=0 line
	assert.Len(t, rec.lines, 12)
	assert.Equal(t, 3*0.1, rec.lines[3][0])
	assert.Equal(t, 1.0, rec.lines[10][0])
}
