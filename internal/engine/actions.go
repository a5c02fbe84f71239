package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/inamate/drawer/internal/scene"
)

var (
	ErrUnknownKind   = errors.New("unknown shape kind")
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidBounds = errors.New("invalid canvas bounds")
)

// Action is a context-menu action on the selected shape.
type Action string

const (
	ActionTransform    Action = "transform"
	ActionDelete       Action = "delete"
	ActionMoveUp       Action = "moveUp"
	ActionMoveDown     Action = "moveDown"
	ActionMoveToTop    Action = "moveToTop"
	ActionMoveToBottom Action = "moveToBottom"
	ActionCopy         Action = "copy"
)

// ApplyAction runs a on the selected shape. Without a selection it logs
// the missing precondition and changes nothing.
func (e *Engine) ApplyAction(a Action) error {
	switch a {
	case ActionTransform, ActionDelete, ActionMoveUp, ActionMoveDown,
		ActionMoveToTop, ActionMoveToBottom, ActionCopy:
	default:
		return fmt.Errorf("apply %q: %w", a, ErrUnknownAction)
	}

	s := e.store.SelectedShape()
	if s == nil {
		slog.Warn("apply action", "action", a, "error", scene.ErrNoSelection)
		return fmt.Errorf("apply %s: %w", a, scene.ErrNoSelection)
	}

	switch a {
	case ActionTransform:
		return e.AttachTransform()
	case ActionDelete:
		e.store.DeleteShape(s)
	case ActionMoveUp:
		e.store.MoveUp(s)
	case ActionMoveDown:
		e.store.MoveDown(s)
	case ActionMoveToTop:
		e.store.MoveToTop(s)
	case ActionMoveToBottom:
		e.store.MoveToBottom(s)
	case ActionCopy:
		if c := e.store.CopyShape(s.Layer(), s); c != nil {
			slog.Debug("shape copied", "from", s.ID, "to", c.ID)
		}
	}
	return nil
}
