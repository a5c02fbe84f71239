package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/inamate/drawer/internal/geometry"
	"github.com/inamate/drawer/internal/grid"
	"github.com/inamate/drawer/internal/render"
	"github.com/inamate/drawer/internal/scene"
	"github.com/inamate/drawer/internal/session"
)

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	GridSize     float64
	Width        float64
	Height       float64
	TransformKey string
	DetachKey    string

	// MaxSize caps the canvas width and height.
	MaxSize float64

	// RandomFill picks the fill of new shapes. Defaults to a random #rrggbb.
	RandomFill func() string
}

const (
	defaultWidth        = 1280
	defaultHeight       = 720
	defaultTransformKey = "t"
	defaultDetachKey    = "Enter"
	defaultMaxSize      = 8192
)

// Engine is the drawing controller that owns the scene store and the
// interaction sessions. It processes pointer, keyboard and command input
// from the frontend and answers render and state queries.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	store     *scene.Store
	grid      grid.Grid
	movement  *session.Movement
	draw      *session.Draw
	transform *session.Transform

	// Surface bounding rectangle in client coordinates
	bounds geometry.Rect

	// Pending add-shape intent, consumed by the next pointer-down
	intent scene.Kind

	maxSize float64

	keys         map[string]bool
	transformKey string
	detachKey    string
	randomFill   func() string
}

// NewEngine creates a new engine instance with an empty canvas.
func NewEngine(opts Options) *Engine {
	if opts.MaxSize <= 0 {
		opts.MaxSize = defaultMaxSize
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	opts.Width = min(opts.Width, opts.MaxSize)
	opts.Height = min(opts.Height, opts.MaxSize)
	if opts.TransformKey == "" {
		opts.TransformKey = defaultTransformKey
	}
	if opts.DetachKey == "" {
		opts.DetachKey = defaultDetachKey
	}
	if opts.RandomFill == nil {
		opts.RandomFill = randomFill
	}

	st := scene.NewStore()
	g := grid.New(opts.GridSize)
	return &Engine{
		store:        st,
		grid:         g,
		movement:     session.NewMovement(st, g),
		draw:         session.NewDraw(st),
		transform:    session.NewTransform(st),
		bounds:       geometry.Rect{Width: opts.Width, Height: opts.Height},
		maxSize:      opts.MaxSize,
		keys:         make(map[string]bool),
		transformKey: opts.TransformKey,
		detachKey:    opts.DetachKey,
		randomFill:   opts.RandomFill,
	}
}

func randomFill() string {
	return fmt.Sprintf("#%06x", rand.IntN(0x1000000))
}

// Store exposes the scene store.
func (e *Engine) Store() *scene.Store {
	return e.store
}

// Grid returns the snapping grid.
func (e *Engine) Grid() grid.Grid {
	return e.grid
}

// Close detaches the sessions from the store.
func (e *Engine) Close() {
	e.movement.Close()
	e.draw.Close()
	e.transform.Close()
}

// --- Commands (frontend → backend) ---

// SetBounds sets the surface's bounding rectangle in client coordinates.
// Pointer positions are made relative to its origin and its size is the
// canvas size. Non-finite or empty bounds are rejected with
// ErrInvalidBounds; sizes above the configured maximum are clamped.
func (e *Engine) SetBounds(r geometry.Rect) error {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("set bounds %v: %w: not finite", r, ErrInvalidBounds)
		}
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("set bounds %vx%v: %w: empty", r.Width, r.Height, ErrInvalidBounds)
	}
	if r.Width > e.maxSize || r.Height > e.maxSize {
		slog.Warn("canvas bounds clamped", "width", r.Width, "height", r.Height, "max", e.maxSize)
		r.Width = min(r.Width, e.maxSize)
		r.Height = min(r.Height, e.maxSize)
	}
	e.bounds = r
	return nil
}

// MaxSize is the largest canvas width or height the engine accepts.
func (e *Engine) MaxSize() float64 {
	return e.maxSize
}

// Bounds returns the surface's bounding rectangle.
func (e *Engine) Bounds() geometry.Rect {
	return e.bounds
}

// SetIntent arms an add-shape intent: the next pointer-down starts drawing
// a shape of that kind. An empty kind disarms it.
func (e *Engine) SetIntent(kind scene.Kind) error {
	if kind != "" && !kind.Valid() {
		return fmt.Errorf("set intent %q: %w", kind, ErrUnknownKind)
	}
	e.intent = kind
	return nil
}

// Intent returns the armed add-shape intent, or "".
func (e *Engine) Intent() scene.Kind {
	return e.intent
}

func (e *Engine) canvasPoint(clientX, clientY float64) geometry.Point {
	return geometry.Point{X: clientX - e.bounds.X, Y: clientY - e.bounds.Y}
}

// PointerDown starts a draw when an intent is armed, otherwise selects the
// hovered shape and starts dragging it.
func (e *Engine) PointerDown(clientX, clientY float64) {
	p := e.canvasPoint(clientX, clientY)
	hovered := e.store.UpdateHover(p.X, p.Y)

	if e.intent != "" {
		x, y := e.grid.SnapPoint(p.X, p.Y)
		if e.draw.Start(e.intent, x, y, e.randomFill()) != nil {
			e.movement.Stop()
			return
		}
		// Kinds without a drag-out extent materialize at the pointer.
		if s, err := e.AddShape(e.intent); err == nil {
			s.X, s.Y = x, y
		}
		e.intent = ""
		return
	}

	if hovered != nil {
		e.store.SelectShape(hovered)
		e.movement.Start(p, hovered)
	}
}

// PointerMove refreshes hover flags, then applies the pointer to the draft
// or the dragged shape.
func (e *Engine) PointerMove(clientX, clientY float64) {
	p := e.canvasPoint(clientX, clientY)
	e.store.UpdateHover(p.X, p.Y)

	if e.draw.Active() {
		e.draw.Update(e.grid.SnapPoint(p.X, p.Y))
		return
	}
	e.movement.Update(p)
}

// PointerUp commits the draft, if it has an extent, and ends any drag.
func (e *Engine) PointerUp(clientX, clientY float64) {
	if e.draw.Active() {
		p := e.canvasPoint(clientX, clientY)
		e.draw.Update(e.grid.SnapPoint(p.X, p.Y))
		if s, ok := e.draw.Commit(e.store); ok {
			slog.Debug("shape drawn", "shape", s.ID, "kind", s.Kind)
		}
		e.intent = ""
	}
	e.movement.Stop()
}

// PointerLeave discards the draft along with its intent, ends any drag and
// drops hover.
func (e *Engine) PointerLeave() {
	if e.draw.Active() {
		e.draw.Cancel()
		e.intent = ""
	}
	e.movement.Stop()
	e.store.ClearHover()
}

// KeyDown handles reserved keys. It fires once per press: repeats while
// the key is held are ignored until KeyUp.
func (e *Engine) KeyDown(key string) {
	k := normalizeKey(key)
	if e.keys[k] {
		return
	}
	e.keys[k] = true

	switch {
	case k == normalizeKey(e.transformKey):
		_ = e.AttachTransform()
	case k == normalizeKey(e.detachKey):
		e.DetachTransform()
	case k == "delete" || k == "backspace":
		e.DeleteSelected()
	case k == "escape":
		e.draw.Cancel()
		e.intent = ""
		e.store.SelectShape(nil)
	}
}

// KeyUp re-arms key.
func (e *Engine) KeyUp(key string) {
	delete(e.keys, normalizeKey(key))
}

// ResetKeys re-arms every held key, for when the key-up events will never
// arrive.
func (e *Engine) ResetKeys() {
	clear(e.keys)
}

func normalizeKey(key string) string {
	return strings.ToLower(key)
}

// AddShape materializes a shape of kind with default geometry and a random
// fill on the active layer.
func (e *Engine) AddShape(kind scene.Kind) (*scene.Shape, error) {
	s, err := defaultShape(kind)
	if err != nil {
		return nil, err
	}
	s.Fill = e.randomFill()
	e.store.AddShape(s)
	return s, nil
}

// Select selects the shape with id. An empty id clears the selection.
// Unknown ids are ignored.
func (e *Engine) Select(id string) {
	if id == "" {
		e.store.SelectShape(nil)
		return
	}
	if s := e.store.Shape(id); s != nil {
		e.store.SelectShape(s)
	}
}

// ToggleSelect deselects the shape when it is selected and selects it
// otherwise.
func (e *Engine) ToggleSelect(id string) {
	s := e.store.Shape(id)
	if s == nil {
		return
	}
	if e.store.SelectedShape() == s {
		e.store.SelectShape(nil)
		return
	}
	e.store.SelectShape(s)
}

// DeleteShape removes the shape with id.
func (e *Engine) DeleteShape(id string) {
	e.store.DeleteShape(e.store.Shape(id))
}

// DeleteSelected removes the selected shape. It reports whether anything
// was deleted.
func (e *Engine) DeleteSelected() bool {
	s := e.store.SelectedShape()
	if s == nil {
		return false
	}
	e.store.DeleteShape(s)
	return true
}

// AttachTransform binds the transform gizmo to the selected shape.
func (e *Engine) AttachTransform() error {
	s := e.store.SelectedShape()
	if s == nil {
		slog.Warn("attach transform", "error", scene.ErrNoSelection)
		return fmt.Errorf("attach transform: %w", scene.ErrNoSelection)
	}
	if _, err := e.transform.Attach(s.Layer(), []*scene.Shape{s}); err != nil {
		slog.Warn("attach transform", "shape", s.ID, "error", err)
		return err
	}
	return nil
}

// DetachTransform removes the transform gizmo, if any.
func (e *Engine) DetachTransform() {
	e.transform.Stop()
}

// TransformActive reports whether the transform gizmo is attached.
func (e *Engine) TransformActive() bool {
	return e.transform.Active()
}

// ApplyTransform scales and rotates the gizmo's targets.
func (e *Engine) ApplyTransform(scaleX, scaleY, rotation float64) error {
	return e.transform.Apply(scaleX, scaleY, rotation)
}

// SetAttributes pushes a complete attribute set onto the shape with id.
// The position is snapped to the grid. Unknown ids are ignored.
func (e *Engine) SetAttributes(id string, attrs scene.Attributes) error {
	attrs.X, attrs.Y = e.grid.SnapPoint(attrs.X, attrs.Y)
	return e.store.SetAttributes(e.store.Shape(id), attrs)
}

// Attributes returns the attribute set of the shape with id.
func (e *Engine) Attributes(id string) (scene.Attributes, bool) {
	return e.store.Attributes(e.store.Shape(id))
}

// Clear removes every shape and ends all sessions.
func (e *Engine) Clear() {
	e.draw.Cancel()
	e.intent = ""
	e.store.ClearShapes()
}

// --- Layers ---

// AddLayer creates a new layer and makes it active.
func (e *Engine) AddLayer() *scene.Layer {
	return e.store.AddLayer()
}

// DeleteLayer destroys the layer with id and its shapes.
func (e *Engine) DeleteLayer(id string) {
	if l := e.store.Layer(id); l != nil {
		e.store.DeleteLayer(l)
	}
}

// SetLayerVisible shows or hides the layer with id.
func (e *Engine) SetLayerVisible(id string, visible bool) {
	if l := e.store.Layer(id); l != nil {
		e.store.SetLayerVisible(l, visible)
	}
}

// ToggleLayer flips the visibility of the layer with id.
func (e *Engine) ToggleLayer(id string) {
	e.store.ToggleLayer(e.store.Layer(id))
}

// SetActiveLayer makes the layer with id the target of new shapes.
func (e *Engine) SetActiveLayer(id string) {
	if l := e.store.Layer(id); l != nil {
		e.store.SetActiveLayer(l)
	}
}

// --- Queries (frontend ← backend) ---

// Frame captures what a repaint draws right now.
func (e *Engine) Frame() render.Frame {
	f := render.Frame{
		Store: e.store,
		Grid:  e.grid,
		Draft: e.draw.Shape(),
	}
	if r, ok := e.transform.Bounds(); ok {
		f.Gizmo = &r
	}
	return f
}

// Render repaints the whole canvas onto sf.
func (e *Engine) Render(sf render.Surface) {
	render.Repaint(sf, e.Frame())
}

// RenderCommitted repaints the stored shapes onto sf, leaving out the
// draft, the gizmo and hover or selection outlines.
func (e *Engine) RenderCommitted(sf render.Surface) {
	render.Repaint(sf, render.Frame{Store: e.store, Grid: e.grid, Committed: true})
}

// Commands repaints into a fresh command buffer sized to the bounds.
func (e *Engine) Commands() []render.DrawCommand {
	buf := render.NewCommandBuffer(e.bounds.Width, e.bounds.Height)
	e.Render(buf)
	return buf.Commands()
}

// RenderJSON returns the draw commands as JSON.
func (e *Engine) RenderJSON() string {
	result, _ := render.DrawCommandsToJSON(e.Commands())
	return result
}

// Selection returns the selected shape's id and attributes, or nil.
func (e *Engine) Selection() *SelectionState {
	s := e.store.SelectedShape()
	if s == nil {
		return nil
	}
	return &SelectionState{
		ID:         s.ID,
		Kind:       s.Kind,
		Attributes: scene.AttributesOf(s),
		Transform:  e.transform.Active(),
	}
}

// SelectionState is what a properties editor needs about the selection.
type SelectionState struct {
	ID         string           `json:"id"`
	Kind       scene.Kind       `json:"kind"`
	Attributes scene.Attributes `json:"attributes"`
	Transform  bool             `json:"transform"`
}

// GetSelection returns the current selection as JSON ("null" when empty).
func (e *Engine) GetSelection() string {
	data, _ := json.Marshal(e.Selection())
	return string(data)
}

// LayerState summarizes one layer for a layer explorer.
type LayerState struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Visible bool     `json:"visible"`
	Active  bool     `json:"active"`
	Shapes  []string `json:"shapes"`
}

// Layers lists the layers bottom to top.
func (e *Engine) Layers() []LayerState {
	active := e.store.ActiveLayer()
	layers := e.store.Layers()
	out := make([]LayerState, 0, len(layers))
	for _, l := range layers {
		ids := make([]string, 0, l.Len())
		for _, s := range l.Shapes() {
			ids = append(ids, s.ID)
		}
		out = append(out, LayerState{
			ID:      l.ID,
			Name:    l.Name,
			Visible: l.Visible,
			Active:  l == active,
			Shapes:  ids,
		})
	}
	return out
}

// GetLayers returns the layers as JSON.
func (e *Engine) GetLayers() string {
	data, _ := json.Marshal(e.Layers())
	return string(data)
}

// HitTest returns the id of the topmost visible shape at canvas point
// (x, y), or "".
func (e *Engine) HitTest(x, y float64) string {
	var hit string
	for _, l := range e.store.Layers() {
		if !l.Visible {
			continue
		}
		for _, s := range l.Shapes() {
			if scene.HitTest(s, x, y) {
				hit = s.ID
			}
		}
	}
	return hit
}
