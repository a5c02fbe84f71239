package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInBoxIsStrict(t *testing.T) {
	tests := []struct {
		name   string
		w, h   float64
		px, py float64
		want   bool
	}{
		{"interior", 100, 50, 10, 10, true},
		{"left edge", 100, 50, 0, 10, false},
		{"right edge", 100, 50, 100, 10, false},
		{"bottom edge", 100, 50, 10, 50, false},
		{"outside", 100, 50, 120, 10, false},
		{"negative extents", -100, -50, -10, -10, true},
		{"zero width", 0, 50, 0, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InBox(tt.w, tt.h, tt.px, tt.py))
		})
	}
}

func TestInCircleIncludesBoundary(t *testing.T) {
	assert.True(t, InCircle(50, 30, 40))
	assert.True(t, InCircle(50, 0, 0))
	assert.False(t, InCircle(50, 30, 41))
}

func TestInTriangle(t *testing.T) {
	assert.True(t, InTriangle(50, 0, 0))
	assert.True(t, InTriangle(50, 0, -49))
	assert.False(t, InTriangle(50, 0, -51))
	assert.False(t, InTriangle(50, 45, -20))
	assert.False(t, InTriangle(0, 0, 0))
}

func TestNearPolyline(t *testing.T) {
	pts := []float64{0, 0, 100, 0, 100, 100}
	assert.True(t, NearPolyline(pts, 3, 50, 2))
	assert.True(t, NearPolyline(pts, 3, 102, 50))
	assert.False(t, NearPolyline(pts, 3, 50, 10))
	assert.False(t, NearPolyline(nil, 3, 0, 0))
	assert.True(t, NearPolyline([]float64{5, 5}, 3, 6, 6))
}

func TestPlacementInvertRoundTrip(t *testing.T) {
	m := Placement(40, 60, 2, 0.5, 30)
	x, y := m.Apply(10, -20)
	bx, by := m.Invert().Apply(x, y)
	assert.InDelta(t, 10, bx, 1e-9)
	assert.InDelta(t, -20, by, 1e-9)
	assert.True(t, Placement(0, 0, 1, 1, 0).IsIdentity())
}

func TestPlacementRotation(t *testing.T) {
	m := Placement(0, 0, 1, 1, 90)
	x, y := m.Apply(1, 0)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 1, y, 1e-9)
}

func TestBoundsOfRotatedSquare(t *testing.T) {
	m := Placement(0, 0, 1, 1, 45)
	b := m.Bounds(Rect{Width: 10, Height: 10})
	assert.InDelta(t, 10*math.Sqrt2, b.Width, 1e-9)
	assert.InDelta(t, 10*math.Sqrt2, b.Height, 1e-9)
}

func TestRectUnionAndNormalize(t *testing.T) {
	a := Rect{X: 10, Y: 10, Width: -10, Height: 20}
	assert.Equal(t, Rect{X: 0, Y: 10, Width: 10, Height: 20}, a.Normalize())

	u := Rect{X: 0, Y: 0, Width: 10, Height: 10}.Union(Rect{X: 20, Y: 5, Width: 5, Height: 10})
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 25, Height: 15}, u)
	assert.Equal(t, u, Rect{}.Union(u))
}
