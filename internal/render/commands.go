package render

import (
	"encoding/json"
	"slices"

	"github.com/inamate/drawer/internal/scene"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string     `json:"op"`                    // Operation: "clear", "line", "fill", "stroke"
	ObjectID    string     `json:"objectId,omitempty"`    // Shape id, empty for grid and gizmo
	Kind        scene.Kind `json:"kind,omitempty"`        // Primitive kind for fill/stroke
	Transform   []float64  `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	X           float64    `json:"x,omitempty"`           // Clear rect origin
	Y           float64    `json:"y,omitempty"`           // Clear rect origin
	Width       float64    `json:"width,omitempty"`       // Rect / text box width
	Height      float64    `json:"height,omitempty"`      // Rect / text box height
	Radius      float64    `json:"radius,omitempty"`      // Circle / triangle radius
	Points      []float64  `json:"points,omitempty"`      // Line points, or x1,y1,x2,y2 for "line"
	Text        string     `json:"text,omitempty"`        // Text content
	FontSize    float64    `json:"fontSize,omitempty"`    // Text size
	Fill        string     `json:"fill,omitempty"`        // Fill color
	Stroke      string     `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64    `json:"strokeWidth,omitempty"` // Stroke width
	Dash        []float64  `json:"dash,omitempty"`        // Dash pattern
	Opacity     float64    `json:"opacity,omitempty"`     // Global alpha
}

// CommandBuffer is a Surface that records draw commands in painter's order
// (back to front) instead of rasterizing them.
type CommandBuffer struct {
	width, height float64
	commands      []DrawCommand
}

// NewCommandBuffer creates an empty buffer for a width x height surface.
func NewCommandBuffer(width, height float64) *CommandBuffer {
	return &CommandBuffer{width: width, height: height}
}

func (b *CommandBuffer) Size() (float64, float64) {
	return b.width, b.height
}

func (b *CommandBuffer) ClearRect(x, y, width, height float64) {
	b.commands = append(b.commands, DrawCommand{Op: "clear", X: x, Y: y, Width: width, Height: height})
}

func (b *CommandBuffer) DrawLine(x1, y1, x2, y2 float64, color string, width float64) {
	b.commands = append(b.commands, DrawCommand{
		Op:          "line",
		Points:      []float64{x1, y1, x2, y2},
		Stroke:      color,
		StrokeWidth: width,
	})
}

func (b *CommandBuffer) FillShape(p Primitive, fill string) {
	cmd := primitiveCommand("fill", p)
	cmd.Fill = fill
	b.commands = append(b.commands, cmd)
}

func (b *CommandBuffer) StrokeShape(p Primitive, stroke Stroke) {
	cmd := primitiveCommand("stroke", p)
	cmd.Stroke = stroke.Color
	cmd.StrokeWidth = stroke.Width
	cmd.Dash = slices.Clone(stroke.Dash)
	b.commands = append(b.commands, cmd)
}

func primitiveCommand(op string, p Primitive) DrawCommand {
	return DrawCommand{
		Op:        op,
		ObjectID:  p.ID,
		Kind:      p.Kind,
		Transform: p.Transform.ToSlice(),
		Width:     p.Width,
		Height:    p.Height,
		Radius:    p.Radius,
		Points:    slices.Clone(p.Points),
		Text:      p.Text,
		FontSize:  p.FontSize,
		Opacity:   p.Opacity,
	}
}

// Commands returns the recorded commands.
func (b *CommandBuffer) Commands() []DrawCommand {
	return b.commands
}

// Reset drops the recorded commands, keeping the size.
func (b *CommandBuffer) Reset() {
	b.commands = b.commands[:0]
}

// Resize changes the surface size reported to Repaint.
func (b *CommandBuffer) Resize(width, height float64) {
	b.width, b.height = width, height
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
