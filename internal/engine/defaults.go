package engine

import (
	"fmt"

	"github.com/inamate/drawer/internal/scene"
)

// defaultShape builds the shape an "add" button materializes immediately.
func defaultShape(kind scene.Kind) (*scene.Shape, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("add shape %q: %w", kind, ErrUnknownKind)
	}
	s := scene.NewShape(kind)
	switch kind {
	case scene.KindRectangle:
		s.X, s.Y, s.Width, s.Height = 20, 20, 100, 100
	case scene.KindCircle, scene.KindTriangle:
		s.X, s.Y, s.Radius = 100, 100, 50
	case scene.KindLine:
		s.X, s.Y = 20, 20
		s.Points = []float64{0, 0, 100, 0}
	case scene.KindText:
		s.X, s.Y = 20, 20
		s.Text = "Text"
	}
	return s, nil
}
