package remote

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/drawer/internal/engine"
	"github.com/inamate/drawer/internal/geometry"
)

var ErrUnknownMessage = errors.New("unknown message type")

// Update says which views a client must refresh after a message.
type Update uint8

const (
	UpdateRender Update = 1 << iota
	UpdateSelection
	UpdateLayers

	UpdateAll = UpdateRender | UpdateSelection | UpdateLayers
)

// Apply runs one inbound message against eng.
func Apply(eng *engine.Engine, msg *Message) (Update, error) {
	switch msg.Type {
	case TypeBoundsSet:
		var p BoundsPayload
		if err := decode(msg, &p); err != nil {
			return 0, err
		}
		if err := eng.SetBounds(geometry.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}); err != nil {
			return 0, err
		}
		return UpdateRender, nil

	case TypePointerDown, TypePointerMove, TypePointerUp:
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return 0, err
		}
		switch msg.Type {
		case TypePointerDown:
			eng.PointerDown(p.X, p.Y)
		case TypePointerMove:
			eng.PointerMove(p.X, p.Y)
		case TypePointerUp:
			eng.PointerUp(p.X, p.Y)
			return UpdateAll, nil
		}
		return UpdateRender | UpdateSelection, nil

	case TypePointerLeave:
		eng.PointerLeave()
		return UpdateRender, nil

	case TypeKeyDown, TypeKeyUp:
		var p KeyPayload
		if err := decode(msg, &p); err != nil {
			return 0, err
		}
		if msg.Type == TypeKeyUp {
			eng.KeyUp(p.Key)
			return 0, nil
		}
		eng.KeyDown(p.Key)
		return UpdateAll, nil

	case TypeIntentSet:
		var p KindPayload
		if err := decode(msg, &p); err != nil {
			return 0, err
		}
		return 0, eng.SetIntent(p.Kind)

	case TypeShapeAdd:
		var p KindPayload
		if err := decode(msg, &p); err != nil {
			return 0, err
		}
		if _, err := eng.AddShape(p.Kind); err != nil {
			return 0, err
		}
		return UpdateRender | UpdateLayers, nil

	case TypeShapeSelect:
		var p ShapeSelectPayload
		if err := decode(msg, &p); err != nil {
			return 0, err
		}
		if p.Toggle {
			eng.ToggleSelect(p.ID)
		} else {
			eng.Select(p.ID)
		}
		return UpdateRender | UpdateSelection, nil

	case TypeShapeDelete:
		var p ShapeRefPayload
		if err := decode(msg, &p); err != nil {
			return 0, err
		}
		eng.DeleteShape(p.ID)
		return UpdateAll, nil

	case TypeShapeAttrs:
		var p ShapeAttrsPayload
		if err := decode(msg, &p); err != nil {
			return 0, err
		}
		if err := eng.SetAttributes(p.ID, p.Attributes); err != nil {
			return UpdateSelection, err
		}
		return UpdateRender | UpdateSelection, nil

	case TypeShapeAction:
		var p ShapeActionPayload
		if err := decode(msg, &p); err != nil {
			return 0, err
		}
		if p.ID != "" {
			eng.Select(p.ID)
		}
		return UpdateAll, eng.ApplyAction(p.Action)

	case TypeLayerAdd:
		eng.AddLayer()
		return UpdateLayers, nil

	case TypeLayerDelete, TypeLayerActivate:
		var p LayerRefPayload
		if err := decode(msg, &p); err != nil {
			return 0, err
		}
		if msg.Type == TypeLayerActivate {
			eng.SetActiveLayer(p.ID)
			return UpdateLayers, nil
		}
		eng.DeleteLayer(p.ID)
		return UpdateAll, nil

	case TypeLayerVisibility:
		var p LayerVisibilityPayload
		if err := decode(msg, &p); err != nil {
			return 0, err
		}
		if p.Visible == nil {
			eng.ToggleLayer(p.ID)
		} else {
			eng.SetLayerVisible(p.ID, *p.Visible)
		}
		return UpdateRender | UpdateLayers, nil

	case TypeTransformApply:
		var p TransformApplyPayload
		if err := decode(msg, &p); err != nil {
			return 0, err
		}
		if err := eng.ApplyTransform(p.ScaleX, p.ScaleY, p.Rotation); err != nil {
			return 0, err
		}
		return UpdateRender | UpdateSelection, nil

	case TypeCanvasClear:
		eng.Clear()
		return UpdateAll, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("decode %s: empty payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("decode %s: %w", msg.Type, err)
	}
	return nil
}

// Replies builds the outbound messages for u.
func Replies(eng *engine.Engine, canvasID string, u Update) []*Message {
	var out []*Message
	if u&UpdateRender != 0 {
		out = append(out, newMessage(TypeRender, canvasID, RenderPayload{Commands: eng.Commands()}))
	}
	if u&UpdateSelection != 0 {
		out = append(out, newMessage(TypeSelection, canvasID, eng.Selection()))
	}
	if u&UpdateLayers != 0 {
		out = append(out, newMessage(TypeLayers, canvasID, eng.Layers()))
	}
	return out
}

func errorMessage(canvasID, msgType string, err error) *Message {
	return newMessage(TypeError, canvasID, ErrorPayload{Type: msgType, Message: err.Error()})
}
