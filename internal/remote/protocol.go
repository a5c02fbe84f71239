package remote

import (
	"encoding/json"

	"github.com/inamate/drawer/internal/engine"
	"github.com/inamate/drawer/internal/render"
	"github.com/inamate/drawer/internal/scene"
)

type Message struct {
	Type     string          `json:"type"`
	CanvasID string          `json:"canvasId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Input
	TypeBoundsSet = "bounds.set"

	TypePointerDown  = "pointer.down"
	TypePointerMove  = "pointer.move"
	TypePointerUp    = "pointer.up"
	TypePointerLeave = "pointer.leave"

	TypeKeyDown = "key.down"
	TypeKeyUp   = "key.up"

	TypeIntentSet   = "intent.set"
	TypeShapeAdd    = "shape.add"
	TypeShapeSelect = "shape.select"
	TypeShapeDelete = "shape.delete"
	TypeShapeAttrs  = "shape.attrs"
	TypeShapeAction = "shape.action"

	TypeLayerAdd        = "layer.add"
	TypeLayerDelete     = "layer.delete"
	TypeLayerVisibility = "layer.visibility"
	TypeLayerActivate   = "layer.activate"

	TypeTransformApply = "transform.apply"
	TypeCanvasClear    = "canvas.clear"

	// Output
	TypeWelcome   = "welcome"
	TypeRender    = "render"
	TypeSelection = "selection"
	TypeLayers    = "layers"
	TypeError     = "error"
)

// --- Input payloads ---

type BoundsPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PointerPayload carries client coordinates.
type PointerPayload struct {
	X float64 `json:"clientX"`
	Y float64 `json:"clientY"`
}

type KeyPayload struct {
	Key string `json:"key"`
}

type KindPayload struct {
	Kind scene.Kind `json:"kind"`
}

type ShapeSelectPayload struct {
	ID     string `json:"id"`
	Toggle bool   `json:"toggle,omitempty"`
}

type ShapeRefPayload struct {
	ID string `json:"id"`
}

type ShapeAttrsPayload struct {
	ID         string           `json:"id"`
	Attributes scene.Attributes `json:"attributes"`
}

// ShapeActionPayload runs Action on the selected shape. A non-empty ID
// selects that shape first.
type ShapeActionPayload struct {
	ID     string        `json:"id,omitempty"`
	Action engine.Action `json:"action"`
}

type LayerRefPayload struct {
	ID string `json:"id"`
}

// LayerVisibilityPayload sets visibility; a missing Visible toggles it.
type LayerVisibilityPayload struct {
	ID      string `json:"id"`
	Visible *bool  `json:"visible,omitempty"`
}

type TransformApplyPayload struct {
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"`
}

// --- Output payloads ---

type WelcomePayload struct {
	CanvasID string  `json:"canvasId"`
	ClientID string  `json:"clientId"`
	UserID   string  `json:"userId"`
	GridSize float64 `json:"gridSize"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

type RenderPayload struct {
	Commands []render.DrawCommand `json:"commands"`
}

type ErrorPayload struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

func newMessage(msgType, canvasID string, payload any) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: msgType, CanvasID: canvasID, Payload: data}
}
