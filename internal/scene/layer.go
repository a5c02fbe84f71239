package scene

import (
	"cmp"
	"slices"
)

// Layer is an ordered, named container of shapes. Shapes later in the list
// are drawn on top.
type Layer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`

	shapes []*Shape
}

// Shapes returns the layer's shapes in draw order.
func (l *Layer) Shapes() []*Shape {
	return slices.Clone(l.shapes)
}

// Len returns the number of shapes in the layer.
func (l *Layer) Len() int {
	return len(l.shapes)
}

func (l *Layer) indexOf(s *Shape) int {
	return slices.Index(l.shapes, s)
}

// restack sorts by Z, keeping insertion order for ties, then renumbers Z
// to match list position.
func (l *Layer) restack() {
	slices.SortStableFunc(l.shapes, func(a, b *Shape) int {
		return cmp.Compare(a.Z, b.Z)
	})
	for i, s := range l.shapes {
		s.Z = i
	}
}

func (l *Layer) remove(i int) *Shape {
	s := l.shapes[i]
	l.shapes = slices.Delete(l.shapes, i, i+1)
	s.layer = nil
	return s
}
