package scene

import (
	"fmt"
	"slices"
)

// Attributes is the complete editable attribute set of a shape, as read and
// written by a properties editor.
type Attributes struct {
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Radius float64   `json:"radius"`
	Points []float64 `json:"points,omitempty"`

	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`

	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`

	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Visible  bool    `json:"visible"`
}

// AttributesOf snapshots a shape's attributes.
func AttributesOf(s *Shape) Attributes {
	return Attributes{
		X:           s.X,
		Y:           s.Y,
		Width:       s.Width,
		Height:      s.Height,
		Radius:      s.Radius,
		Points:      slices.Clone(s.Points),
		Text:        s.Text,
		FontSize:    s.FontSize,
		Fill:        s.Fill,
		Stroke:      s.Stroke,
		StrokeWidth: s.StrokeWidth,
		Opacity:     s.Opacity,
		Rotation:    s.Rotation,
		ScaleX:      s.ScaleX,
		ScaleY:      s.ScaleY,
		Visible:     !s.Hidden,
	}
}

// Validate checks the whole set without touching any shape.
func (a Attributes) Validate() error {
	switch {
	case a.Width < 0 || a.Height < 0:
		return fmt.Errorf("%w: negative size %vx%v", ErrInvalidAttributes, a.Width, a.Height)
	case a.Radius < 0:
		return fmt.Errorf("%w: negative radius %v", ErrInvalidAttributes, a.Radius)
	case len(a.Points)%2 != 0:
		return fmt.Errorf("%w: odd point count %d", ErrInvalidAttributes, len(a.Points))
	case a.FontSize < 0:
		return fmt.Errorf("%w: negative font size %v", ErrInvalidAttributes, a.FontSize)
	case a.StrokeWidth < 0:
		return fmt.Errorf("%w: negative stroke width %v", ErrInvalidAttributes, a.StrokeWidth)
	case a.Opacity < 0 || a.Opacity > 1:
		return fmt.Errorf("%w: opacity %v outside [0,1]", ErrInvalidAttributes, a.Opacity)
	case a.ScaleX == 0 || a.ScaleY == 0:
		return fmt.Errorf("%w: zero scale", ErrInvalidAttributes)
	}
	for _, c := range []string{a.Fill, a.Stroke} {
		if c == "" {
			continue
		}
		if _, ok := ParseColor(c); !ok {
			return fmt.Errorf("%w: unknown color %q", ErrInvalidAttributes, c)
		}
	}
	return nil
}

func (a Attributes) applyTo(s *Shape) {
	s.X = a.X
	s.Y = a.Y
	s.Width = a.Width
	s.Height = a.Height
	s.Radius = a.Radius
	s.Points = slices.Clone(a.Points)
	s.Text = a.Text
	s.FontSize = a.FontSize
	s.Fill = a.Fill
	s.Stroke = a.Stroke
	s.StrokeWidth = a.StrokeWidth
	s.Opacity = a.Opacity
	s.Rotation = a.Rotation
	s.ScaleX = a.ScaleX
	s.ScaleY = a.ScaleY
	s.Hidden = !a.Visible
}
