package scene

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHitTestRectangle(t *testing.T) {
	s := rect(10, 10, 40, 20)
	assert.True(t, HitTest(s, 30, 20))
	assert.False(t, HitTest(s, 10, 10), "edge is outside")
	assert.False(t, HitTest(s, 50, 20))

	// negative extents hit the same box
	neg := rect(50, 30, -40, -20)
	assert.True(t, HitTest(neg, 30, 20))
}

func TestHitTestCircleBoundary(t *testing.T) {
	s := circle(100, 100, 50)
	assert.True(t, HitTest(s, 130, 140))
	assert.True(t, HitTest(s, 150, 100))
	assert.False(t, HitTest(s, 151, 100))
}

func TestHitTestTriangle(t *testing.T) {
	s := NewShape(KindTriangle)
	s.X, s.Y, s.Radius = 100, 100, 50
	assert.True(t, HitTest(s, 100, 100))
	assert.True(t, HitTest(s, 100, 60))
	assert.False(t, HitTest(s, 60, 60))
	assert.False(t, HitTest(s, 100, 130))
}

func TestHitTestLine(t *testing.T) {
	s := NewShape(KindLine)
	s.X, s.Y = 20, 20
	s.Points = []float64{0, 0, 100, 0}
	assert.True(t, HitTest(s, 70, 22))
	assert.False(t, HitTest(s, 70, 25))
	assert.False(t, HitTest(s, 125, 20))

	s.StrokeWidth = 20
	assert.True(t, HitTest(s, 70, 29))
}

func TestHitTestText(t *testing.T) {
	s := NewShape(KindText)
	s.X, s.Y, s.Text = 20, 20, "Text"
	w, h := s.TextBox()
	assert.InDelta(t, 48.0, w, 1e-9)
	assert.Equal(t, 20.0, h)
	assert.True(t, HitTest(s, 30, 30))
	assert.False(t, HitTest(s, 70, 30))
}

func TestHitTestRotatedAndScaled(t *testing.T) {
	s := rect(100, 100, 40, 10)
	s.Rotation = 90
	// rotated about the top-left corner, the bar now hangs below-left of it
	assert.True(t, HitTest(s, 95, 120))
	assert.False(t, HitTest(s, 120, 105))

	s.Rotation = 0
	s.ScaleX = 2
	assert.True(t, HitTest(s, 170, 105))
}

func TestHitTestHidden(t *testing.T) {
	s := rect(0, 0, 10, 10)
	s.Hidden = true
	assert.False(t, HitTest(s, 5, 5))
	assert.False(t, HitTest(nil, 5, 5))
}

func TestBounds(t *testing.T) {
	assert.Equal(t, 100.0, circle(100, 100, 50).Bounds().Width)

	r := rect(10, 20, 30, 40)
	b := r.Bounds()
	assert.InDelta(t, 10, b.X, 1e-9)
	assert.InDelta(t, 20, b.Y, 1e-9)
	assert.InDelta(t, 30, b.Width, 1e-9)
	assert.InDelta(t, 40, b.Height, 1e-9)
}

func TestDegenerate(t *testing.T) {
	assert.True(t, rect(0, 0, 0, 10).Degenerate())
	assert.False(t, rect(0, 0, -5, 10).Degenerate())
	assert.True(t, circle(0, 0, 0).Degenerate())

	l := NewShape(KindLine)
	l.Points = []float64{1, 1, 1, 1}
	assert.True(t, l.Degenerate())
	l.Points = []float64{0, 0, 5, 0}
	assert.False(t, l.Degenerate())

	assert.True(t, NewShape(KindText).Degenerate())
}

func TestCloneIsDetached(t *testing.T) {
	st := NewStore()
	s := NewShape(KindLine)
	s.Points = []float64{0, 0, 10, 10}
	st.AddShape(s)
	st.SelectShape(s)

	c := s.Clone()
	c.Points[0] = 99
	assert.Equal(t, 0.0, s.Points[0])
	assert.Nil(t, c.Layer())
	assert.False(t, c.Selected)
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]color.RGBA{
		"#fff":        {255, 255, 255, 255},
		"#00a1ff":     {0, 161, 255, 255},
		"#00000080":   {0, 0, 0, 128},
		"red":         {255, 0, 0, 255},
		" Tomato ":    {255, 99, 71, 255},
		"transparent": {},
	} {
		got, ok := ParseColor(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "#ff", "#gggggg", "rgb(1,2,3)"} {
		_, ok := ParseColor(in)
		assert.False(t, ok, in)
	}
}

func TestKindValid(t *testing.T) {
	assert.True(t, KindTriangle.Valid())
	assert.False(t, Kind("hexagon").Valid())
}
