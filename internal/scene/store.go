// Package scene holds the authoritative in-memory scene: layers, shapes,
// selection and hover state. Everything the renderer draws is read from a
// Store, and every mutation goes through one.
//
// A Store is not safe for concurrent use; callers serialize access.
package scene

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/inamate/drawer/internal/typeid"
)

// Store owns the layer -> shape mapping, shape identity and selection.
type Store struct {
	layers   []*Layer
	active   *Layer
	selected *Shape

	ids      *idAllocator
	layerSeq int

	observers map[int]Observer
	nextObs   int
}

// NewStore creates an empty store with no layers.
func NewStore() *Store {
	return &Store{
		ids:       newIDAllocator(),
		observers: make(map[int]Observer),
	}
}

// Subscribe registers fn for store events and returns a function that
// removes it.
func (st *Store) Subscribe(fn Observer) func() {
	id := st.nextObs
	st.nextObs++
	st.observers[id] = fn
	return func() { delete(st.observers, id) }
}

func (st *Store) emit(ev Event) {
	keys := make([]int, 0, len(st.observers))
	for k := range st.observers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if fn, ok := st.observers[k]; ok {
			fn(ev)
		}
	}
}

// --- Layers ---

// AddLayer creates an empty visible layer named "Layer N", appends it on top
// and makes it the active layer.
func (st *Store) AddLayer() *Layer {
	st.layerSeq++
	l := &Layer{
		ID:      typeid.NewLayerID(),
		Name:    fmt.Sprintf("Layer %d", st.layerSeq),
		Visible: true,
	}
	st.layers = append(st.layers, l)
	st.active = l

	slog.Debug("layer added", "layer", l.ID, "name", l.Name)
	return l
}

// DeleteLayer destroys a layer and all of its shapes. Unknown layers are
// ignored.
func (st *Store) DeleteLayer(l *Layer) {
	i := slices.Index(st.layers, l)
	if i < 0 {
		return
	}
	st.layers = slices.Delete(st.layers, i, i+1)

	if st.active == l {
		st.active = nil
		if n := len(st.layers); n > 0 {
			st.active = st.layers[n-1]
		}
	}

	if st.selected != nil && st.selected.layer == l {
		st.setSelected(nil)
	}

	removed := l.shapes
	l.shapes = nil
	for _, s := range removed {
		s.layer = nil
		s.Hovered = false
		st.ids.release(s.ID)
		st.emit(Event{Kind: EventShapeRemoved, Shape: s, Layer: l})
	}
	st.emit(Event{Kind: EventLayerRemoved, Layer: l})

	slog.Debug("layer deleted", "layer", l.ID, "shapes", len(removed))
}

// Layers returns the layers bottom to top.
func (st *Store) Layers() []*Layer {
	return slices.Clone(st.layers)
}

// Layer looks up a layer by id.
func (st *Store) Layer(id string) *Layer {
	for _, l := range st.layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// ActiveLayer is the layer new shapes go into. It is nil only when the store
// has no layers.
func (st *Store) ActiveLayer() *Layer {
	return st.active
}

// SetActiveLayer switches the target of AddShape. Unknown layers are ignored.
func (st *Store) SetActiveLayer(l *Layer) {
	if slices.Contains(st.layers, l) {
		st.active = l
	}
}

// SetLayerVisible shows or hides a layer. Hidden layers are neither drawn
// nor hit, so their shapes lose hover immediately.
func (st *Store) SetLayerVisible(l *Layer, visible bool) {
	if !slices.Contains(st.layers, l) {
		return
	}
	l.Visible = visible
	if !visible {
		for _, s := range l.shapes {
			s.Hovered = false
		}
	}
}

// ToggleLayer flips a layer's visibility.
func (st *Store) ToggleLayer(l *Layer) {
	if l != nil {
		st.SetLayerVisible(l, !l.Visible)
	}
}

// --- Shapes ---

// AddShape stacks s on top of the active layer. With no layer present one is
// created first, so the call always succeeds. A missing id is allocated from
// the per-kind counters. Adding a shape that is already in the store is a
// no-op.
func (st *Store) AddShape(s *Shape) {
	if s == nil || s.layer != nil {
		return
	}
	if err := st.AddShapeTo(st.active, s); err != nil {
		slog.Warn("add shape", "error", err, "shape", s.ID)
		st.AddLayer()
		_ = st.AddShapeTo(st.active, s)
	}
}

// AddShapeTo stacks s on top of layer l. It returns ErrNoLayer when l is not
// part of the store.
func (st *Store) AddShapeTo(l *Layer, s *Shape) error {
	if l == nil || !slices.Contains(st.layers, l) {
		return ErrNoLayer
	}
	if s == nil || s.layer != nil {
		return nil
	}
	if s.ID == "" || st.ids.taken(s.ID) {
		s.ID = st.ids.next(s.Kind)
	}
	st.ids.reserve(s.ID)

	if s.Z == ZUnset {
		s.Z = len(l.shapes)
	}
	s.Selected = false
	s.layer = l
	l.shapes = append(l.shapes, s)
	l.restack()

	slog.Debug("shape added", "shape", s.ID, "layer", l.ID, "z", s.Z)
	return nil
}

// Shape looks up a shape by id.
func (st *Store) Shape(id string) *Shape {
	for _, l := range st.layers {
		for _, s := range l.shapes {
			if s.ID == id {
				return s
			}
		}
	}
	return nil
}

// Contains reports whether s is currently in the store.
func (st *Store) Contains(s *Shape) bool {
	return s != nil && s.layer != nil && slices.Contains(st.layers, s.layer)
}

// Shapes returns every shape in draw order: layers bottom to top, then
// ascending Z.
func (st *Store) Shapes() []*Shape {
	var out []*Shape
	for _, l := range st.layers {
		out = append(out, l.shapes...)
	}
	return out
}

// Len returns the number of shapes across all layers.
func (st *Store) Len() int {
	n := 0
	for _, l := range st.layers {
		n += len(l.shapes)
	}
	return n
}

// UpdateShapes replaces the shape collection in bulk. Shapes keep their
// identity and their layer; shapes that belong to no layer of this store go
// to the active layer. Shapes missing from the new collection are removed.
func (st *Store) UpdateShapes(shapes []*Shape) {
	keep := make(map[*Shape]bool, len(shapes))
	for _, s := range shapes {
		if s != nil {
			keep[s] = true
		}
	}
	for _, s := range st.Shapes() {
		if !keep[s] {
			st.DeleteShape(s)
		}
	}

	for _, l := range st.layers {
		l.shapes = l.shapes[:0]
	}
	for _, s := range shapes {
		if s == nil {
			continue
		}
		l := s.layer
		if l == nil || !slices.Contains(st.layers, l) {
			if st.active == nil {
				st.AddLayer()
			}
			l = st.active
			s.layer = nil
		}
		if s.layer == nil {
			if s.ID == "" || st.ids.taken(s.ID) {
				s.ID = st.ids.next(s.Kind)
			}
			st.ids.reserve(s.ID)
			if s.Z == ZUnset {
				s.Z = math.MaxInt
			}
			s.layer = l
		}
		if !slices.Contains(l.shapes, s) {
			l.shapes = append(l.shapes, s)
		}
	}
	for _, l := range st.layers {
		l.restack()
	}

	st.normalizeSelection()
}

// normalizeSelection re-establishes the single-selection invariant after a
// bulk replace: the current selection wins, otherwise the first flagged shape.
func (st *Store) normalizeSelection() {
	want := st.selected
	if !st.Contains(want) {
		want = nil
		for _, s := range st.Shapes() {
			if s.Selected {
				want = s
				break
			}
		}
	}
	if want != st.selected {
		st.setSelected(want)
		return
	}
	for _, s := range st.Shapes() {
		s.Selected = s == want
	}
}

// DeleteShape removes s by identity. Absent shapes are ignored.
func (st *Store) DeleteShape(s *Shape) {
	if !st.Contains(s) {
		return
	}
	l := s.layer
	i := l.indexOf(s)
	if i < 0 {
		return
	}

	if st.selected == s {
		st.setSelected(nil)
	}
	l.remove(i)
	l.restack()
	s.Hovered = false
	st.ids.release(s.ID)

	st.emit(Event{Kind: EventShapeRemoved, Shape: s, Layer: l})
	slog.Debug("shape deleted", "shape", s.ID, "layer", l.ID)
}

// ClearShapes empties every layer and clears the selection. Layers survive.
func (st *Store) ClearShapes() {
	if st.selected != nil {
		st.setSelected(nil)
	}
	for _, l := range st.layers {
		for _, s := range l.shapes {
			s.layer = nil
			s.Hovered = false
			st.ids.release(s.ID)
		}
		l.shapes = nil
	}
	st.emit(Event{Kind: EventCleared})
	slog.Debug("canvas cleared")
}

// CopyShape duplicates s into layer l, offset by (+10, +10), with id
// "<id>-copy". The duplicate is stacked on top and starts unselected.
// It returns nil when either l or s is not in the store.
func (st *Store) CopyShape(l *Layer, s *Shape) *Shape {
	if !slices.Contains(st.layers, l) || !st.Contains(s) {
		return nil
	}
	c := s.Clone()
	c.ID = st.ids.copyOf(s.ID)
	c.X += copyOffset
	c.Y += copyOffset
	c.Z = ZUnset

	if err := st.AddShapeTo(l, c); err != nil {
		return nil
	}
	return c
}

const copyOffset = 10

// --- Selection ---

// SelectShape marks exactly s as selected. nil clears the selection. Shapes
// not in the store are ignored.
func (st *Store) SelectShape(s *Shape) {
	if s != nil && !st.Contains(s) {
		return
	}
	if s == st.selected {
		return
	}
	st.setSelected(s)
}

// SelectedShape returns the selected shape or nil.
func (st *Store) SelectedShape() *Shape {
	return st.selected
}

func (st *Store) setSelected(s *Shape) {
	prev := st.selected
	st.selected = s
	for _, sh := range st.Shapes() {
		sh.Selected = sh == s
	}
	if prev != nil {
		prev.Selected = prev == s
	}
	st.emit(Event{Kind: EventSelectionChanged, Shape: s, Previous: prev})
}

// --- Hover ---

// UpdateHover recomputes the hover flag of every shape for pointer (px, py)
// and returns the topmost hovered shape, or nil.
func (st *Store) UpdateHover(px, py float64) *Shape {
	var top *Shape
	for _, l := range st.layers {
		for _, s := range l.shapes {
			s.Hovered = l.Visible && HitTest(s, px, py)
			if s.Hovered {
				top = s
			}
		}
	}
	return top
}

// HoveredShape returns the topmost hovered shape from the last UpdateHover.
func (st *Store) HoveredShape() *Shape {
	var top *Shape
	for _, l := range st.layers {
		if !l.Visible {
			continue
		}
		for _, s := range l.shapes {
			if s.Hovered {
				top = s
			}
		}
	}
	return top
}

// ClearHover drops every hover flag, e.g. when the pointer leaves the canvas.
func (st *Store) ClearHover() {
	for _, s := range st.Shapes() {
		s.Hovered = false
	}
}

// --- Z-order ---

// MoveUp swaps s with the shape directly above it in its layer.
func (st *Store) MoveUp(s *Shape) bool {
	return st.reorder(s, func(i, n int) int { return min(i+1, n-1) })
}

// MoveDown swaps s with the shape directly below it in its layer.
func (st *Store) MoveDown(s *Shape) bool {
	return st.reorder(s, func(i, n int) int { return max(i-1, 0) })
}

// MoveToTop stacks s above every other shape in its layer.
func (st *Store) MoveToTop(s *Shape) bool {
	return st.reorder(s, func(_, n int) int { return n - 1 })
}

// MoveToBottom stacks s below every other shape in its layer.
func (st *Store) MoveToBottom(s *Shape) bool {
	return st.reorder(s, func(int, int) int { return 0 })
}

func (st *Store) reorder(s *Shape, target func(i, n int) int) bool {
	if !st.Contains(s) {
		return false
	}
	l := s.layer
	i := l.indexOf(s)
	j := target(i, len(l.shapes))
	if i == j {
		return false
	}
	l.shapes = slices.Delete(l.shapes, i, i+1)
	l.shapes = slices.Insert(l.shapes, j, s)
	for k, sh := range l.shapes {
		sh.Z = k
	}
	return true
}

// --- Attributes ---

// Attributes returns the attribute set of s, or false when s is not in the
// store.
func (st *Store) Attributes(s *Shape) (Attributes, bool) {
	if !st.Contains(s) {
		return Attributes{}, false
	}
	return AttributesOf(s), true
}

// SetAttributes validates attrs and applies the whole set to s, or nothing
// at all. Shapes not in the store are ignored.
func (st *Store) SetAttributes(s *Shape, attrs Attributes) error {
	if !st.Contains(s) {
		return nil
	}
	if err := attrs.Validate(); err != nil {
		return fmt.Errorf("set attributes %s: %w", s.ID, err)
	}
	attrs.applyTo(s)
	if s.Hidden {
		s.Hovered = false
	}
	return nil
}
