package scene

// EventKind identifies a store notification.
type EventKind int

const (
	// EventSelectionChanged fires when the selected shape changes, including
	// to nil.
	EventSelectionChanged EventKind = iota
	// EventShapeRemoved fires once per shape leaving the store, whether by
	// deleteShape or deleteLayer.
	EventShapeRemoved
	// EventLayerRemoved fires after a layer and its shapes are gone.
	EventLayerRemoved
	// EventCleared fires after clearShapes.
	EventCleared
)

func (k EventKind) String() string {
	switch k {
	case EventSelectionChanged:
		return "selection.changed"
	case EventShapeRemoved:
		return "shape.removed"
	case EventLayerRemoved:
		return "layer.removed"
	case EventCleared:
		return "canvas.cleared"
	default:
		return "unknown"
	}
}

// Event is delivered synchronously to subscribers after the mutation that
// caused it has completed.
type Event struct {
	Kind     EventKind
	Shape    *Shape // selected shape, or the removed shape
	Previous *Shape // previous selection for EventSelectionChanged
	Layer    *Layer
}

// Observer receives store events.
type Observer func(Event)
