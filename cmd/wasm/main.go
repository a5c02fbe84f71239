//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/drawer/internal/engine"
	"github.com/inamate/drawer/internal/geometry"
	"github.com/inamate/drawer/internal/scene"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(engine.Options{GridSize: 20})

	// Create the engine API object
	drawer := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	drawer.Set("setBounds", js.FuncOf(setBounds))
	drawer.Set("pointerDown", js.FuncOf(pointerDown))
	drawer.Set("pointerMove", js.FuncOf(pointerMove))
	drawer.Set("pointerUp", js.FuncOf(pointerUp))
	drawer.Set("pointerLeave", js.FuncOf(pointerLeave))
	drawer.Set("keyDown", js.FuncOf(keyDown))
	drawer.Set("keyUp", js.FuncOf(keyUp))
	drawer.Set("setIntent", js.FuncOf(setIntent))
	drawer.Set("addShape", js.FuncOf(addShape))
	drawer.Set("select", js.FuncOf(selectShape))
	drawer.Set("toggleSelect", js.FuncOf(toggleSelect))
	drawer.Set("deleteShape", js.FuncOf(deleteShape))
	drawer.Set("setAttributes", js.FuncOf(setAttributes))
	drawer.Set("applyAction", js.FuncOf(applyAction))
	drawer.Set("applyTransform", js.FuncOf(applyTransform))
	drawer.Set("addLayer", js.FuncOf(addLayer))
	drawer.Set("deleteLayer", js.FuncOf(deleteLayer))
	drawer.Set("toggleLayer", js.FuncOf(toggleLayer))
	drawer.Set("setActiveLayer", js.FuncOf(setActiveLayer))
	drawer.Set("clear", js.FuncOf(clearCanvas))

	// --- Queries (frontend ← backend) ---
	drawer.Set("render", js.FuncOf(render))
	drawer.Set("hitTest", js.FuncOf(hitTest))
	drawer.Set("getSelection", js.FuncOf(getSelection))
	drawer.Set("getLayers", js.FuncOf(getLayers))

	// Register on global scope
	js.Global().Set("drawerEngine", drawer)

	// Signal that WASM is ready
	js.Global().Set("drawerWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) interface{} {
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func stringArg(args []js.Value) string {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return ""
	}
	return args[0].String()
}

// --- Command Handlers ---

func setBounds(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return js.ValueOf(map[string]interface{}{"error": "missing x, y, width or height"})
	}
	return result(eng.SetBounds(geometry.Rect{
		X:      args[0].Float(),
		Y:      args[1].Float(),
		Width:  args[2].Float(),
		Height: args[3].Float(),
	}))
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.PointerDown(args[0].Float(), args[1].Float())
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.PointerMove(args[0].Float(), args[1].Float())
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.PointerUp(args[0].Float(), args[1].Float())
	return nil
}

func pointerLeave(this js.Value, args []js.Value) interface{} {
	eng.PointerLeave()
	return nil
}

func keyDown(this js.Value, args []js.Value) interface{} {
	eng.KeyDown(stringArg(args))
	return nil
}

func keyUp(this js.Value, args []js.Value) interface{} {
	eng.KeyUp(stringArg(args))
	return nil
}

func setIntent(this js.Value, args []js.Value) interface{} {
	return result(eng.SetIntent(scene.Kind(stringArg(args))))
}

func addShape(this js.Value, args []js.Value) interface{} {
	s, err := eng.AddShape(scene.Kind(stringArg(args)))
	if err != nil {
		return result(err)
	}
	return js.ValueOf(s.ID)
}

func selectShape(this js.Value, args []js.Value) interface{} {
	eng.Select(stringArg(args))
	return nil
}

func toggleSelect(this js.Value, args []js.Value) interface{} {
	eng.ToggleSelect(stringArg(args))
	return nil
}

func deleteShape(this js.Value, args []js.Value) interface{} {
	eng.DeleteShape(stringArg(args))
	return nil
}

func setAttributes(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "missing id or attributes JSON"})
	}
	var attrs scene.Attributes
	if err := json.Unmarshal([]byte(args[1].String()), &attrs); err != nil {
		return result(err)
	}
	return result(eng.SetAttributes(args[0].String(), attrs))
}

func applyAction(this js.Value, args []js.Value) interface{} {
	return result(eng.ApplyAction(engine.Action(stringArg(args))))
}

func applyTransform(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(map[string]interface{}{"error": "missing scaleX, scaleY or rotation"})
	}
	return result(eng.ApplyTransform(args[0].Float(), args[1].Float(), args[2].Float()))
}

func addLayer(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.AddLayer().ID)
}

func deleteLayer(this js.Value, args []js.Value) interface{} {
	eng.DeleteLayer(stringArg(args))
	return nil
}

func toggleLayer(this js.Value, args []js.Value) interface{} {
	eng.ToggleLayer(stringArg(args))
	return nil
}

func setActiveLayer(this js.Value, args []js.Value) interface{} {
	eng.SetActiveLayer(stringArg(args))
	return nil
}

func clearCanvas(this js.Value, args []js.Value) interface{} {
	eng.Clear()
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.RenderJSON())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelection())
}

func getLayers(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetLayers())
}
