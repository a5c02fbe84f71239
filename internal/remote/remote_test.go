package remote

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/drawer/internal/engine"
	"github.com/inamate/drawer/internal/scene"
)

func msg(t *testing.T, msgType string, payload any) *Message {
	t.Helper()
	m := &Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		m.Payload = data
	}
	return m
}

func frame(t *testing.T, msgType string, payload any) []byte {
	t.Helper()
	data, err := json.Marshal(msg(t, msgType, payload))
	require.NoError(t, err)
	return data
}

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng := engine.NewEngine(engine.Options{GridSize: 20, Width: 400, Height: 300})
	t.Cleanup(eng.Close)
	return eng
}

func TestApplyDragScenario(t *testing.T) {
	eng := newTestEngine(t)

	_, err := Apply(eng, msg(t, TypeBoundsSet, BoundsPayload{X: 10, Y: 10, Width: 400, Height: 300}))
	require.NoError(t, err)
	_, err = Apply(eng, msg(t, TypeShapeAdd, KindPayload{Kind: scene.KindRectangle}))
	require.NoError(t, err)

	s := eng.Store().Shape("rect-1")
	require.NotNil(t, s)
	s.X, s.Y = 0, 0

	u, err := Apply(eng, msg(t, TypePointerDown, PointerPayload{X: 20, Y: 20}))
	require.NoError(t, err)
	assert.Equal(t, UpdateRender|UpdateSelection, u)

	_, err = Apply(eng, msg(t, TypePointerMove, PointerPayload{X: 57, Y: 72}))
	require.NoError(t, err)
	u, err = Apply(eng, msg(t, TypePointerUp, PointerPayload{X: 57, Y: 72}))
	require.NoError(t, err)
	assert.Equal(t, UpdateAll, u)

	assert.Equal(t, 40.0, s.X)
	assert.Equal(t, 60.0, s.Y)
	assert.Same(t, s, eng.Store().SelectedShape())
}

func TestApplyShapeMessages(t *testing.T) {
	eng := newTestEngine(t)
	_, err := Apply(eng, msg(t, TypeShapeAdd, KindPayload{Kind: scene.KindCircle}))
	require.NoError(t, err)

	_, err = Apply(eng, msg(t, TypeShapeSelect, ShapeSelectPayload{ID: "circle-1"}))
	require.NoError(t, err)
	require.NotNil(t, eng.Selection())

	_, err = Apply(eng, msg(t, TypeShapeSelect, ShapeSelectPayload{ID: "circle-1", Toggle: true}))
	require.NoError(t, err)
	assert.Nil(t, eng.Selection())

	_, err = Apply(eng, msg(t, TypeShapeAction, ShapeActionPayload{Action: engine.ActionCopy}))
	assert.ErrorIs(t, err, scene.ErrNoSelection)

	_, err = Apply(eng, msg(t, TypeShapeAction, ShapeActionPayload{ID: "circle-1", Action: engine.ActionCopy}))
	require.NoError(t, err)
	assert.NotNil(t, eng.Store().Shape("circle-1-copy"))

	attrs, ok := eng.Attributes("circle-1")
	require.True(t, ok)
	attrs.Radius = 80
	_, err = Apply(eng, msg(t, TypeShapeAttrs, ShapeAttrsPayload{ID: "circle-1", Attributes: attrs}))
	require.NoError(t, err)
	assert.Equal(t, 80.0, eng.Store().Shape("circle-1").Radius)

	attrs.Radius = -1
	_, err = Apply(eng, msg(t, TypeShapeAttrs, ShapeAttrsPayload{ID: "circle-1", Attributes: attrs}))
	assert.ErrorIs(t, err, scene.ErrInvalidAttributes)

	_, err = Apply(eng, msg(t, TypeShapeDelete, ShapeRefPayload{ID: "circle-1"}))
	require.NoError(t, err)
	assert.Nil(t, eng.Store().Shape("circle-1"))
}

func TestApplyKeysAndTransform(t *testing.T) {
	eng := newTestEngine(t)
	_, err := Apply(eng, msg(t, TypeShapeAdd, KindPayload{Kind: scene.KindRectangle}))
	require.NoError(t, err)

	_, err = Apply(eng, msg(t, TypeTransformApply, TransformApplyPayload{ScaleX: 2, ScaleY: 2}))
	assert.Error(t, err)

	eng.Select("rect-1")
	_, err = Apply(eng, msg(t, TypeKeyDown, KeyPayload{Key: "t"}))
	require.NoError(t, err)
	require.True(t, eng.TransformActive())

	_, err = Apply(eng, msg(t, TypeTransformApply, TransformApplyPayload{ScaleX: 1, ScaleY: 1, Rotation: 45}))
	require.NoError(t, err)
	assert.Equal(t, 45.0, eng.Store().Shape("rect-1").Rotation)

	_, err = Apply(eng, msg(t, TypeKeyUp, KeyPayload{Key: "t"}))
	require.NoError(t, err)
	_, err = Apply(eng, msg(t, TypeKeyDown, KeyPayload{Key: "Enter"}))
	require.NoError(t, err)
	assert.False(t, eng.TransformActive())
}

func TestApplyLayers(t *testing.T) {
	eng := newTestEngine(t)
	_, err := Apply(eng, msg(t, TypeLayerAdd, nil))
	require.NoError(t, err)
	_, err = Apply(eng, msg(t, TypeLayerAdd, nil))
	require.NoError(t, err)

	layers := eng.Layers()
	require.Len(t, layers, 2)
	first := layers[0].ID

	_, err = Apply(eng, msg(t, TypeLayerActivate, LayerRefPayload{ID: first}))
	require.NoError(t, err)
	assert.True(t, eng.Layers()[0].Active)

	_, err = Apply(eng, msg(t, TypeLayerVisibility, LayerVisibilityPayload{ID: first}))
	require.NoError(t, err)
	assert.False(t, eng.Layers()[0].Visible)

	visible := true
	_, err = Apply(eng, msg(t, TypeLayerVisibility, LayerVisibilityPayload{ID: first, Visible: &visible}))
	require.NoError(t, err)
	assert.True(t, eng.Layers()[0].Visible)

	_, err = Apply(eng, msg(t, TypeLayerDelete, LayerRefPayload{ID: first}))
	require.NoError(t, err)
	assert.Len(t, eng.Layers(), 1)
}

func TestApplyRejectsBadInput(t *testing.T) {
	eng := newTestEngine(t)

	_, err := Apply(eng, msg(t, "shape.explode", nil))
	assert.ErrorIs(t, err, ErrUnknownMessage)

	_, err = Apply(eng, msg(t, TypePointerDown, nil))
	assert.Error(t, err)

	_, err = Apply(eng, &Message{Type: TypeShapeAdd, Payload: json.RawMessage(`{"kind":`)})
	assert.Error(t, err)

	_, err = Apply(eng, msg(t, TypeIntentSet, KindPayload{Kind: "blob"}))
	assert.ErrorIs(t, err, engine.ErrUnknownKind)
}

func TestApplyClear(t *testing.T) {
	eng := newTestEngine(t)
	_, _ = eng.AddShape(scene.KindRectangle)
	eng.Select("rect-1")
	eng.PointerDown(50, 50)

	u, err := Apply(eng, msg(t, TypeCanvasClear, nil))
	require.NoError(t, err)
	assert.Equal(t, UpdateAll, u)
	assert.Zero(t, eng.Store().Len())
	assert.Nil(t, eng.Selection())
}

func TestReplies(t *testing.T) {
	eng := newTestEngine(t)
	_, _ = eng.AddShape(scene.KindRectangle)

	out := Replies(eng, "canvas_1", UpdateAll)
	require.Len(t, out, 3)
	assert.Equal(t, TypeRender, out[0].Type)
	assert.Equal(t, TypeSelection, out[1].Type)
	assert.Equal(t, TypeLayers, out[2].Type)
	assert.JSONEq(t, "null", string(out[1].Payload))

	var rp RenderPayload
	require.NoError(t, json.Unmarshal(out[0].Payload, &rp))
	assert.NotEmpty(t, rp.Commands)

	assert.Empty(t, Replies(eng, "canvas_1", 0))
}

func drain(c *Client) []*Message {
	var out []*Message
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			var m Message
			if err := json.Unmarshal(data, &m); err == nil {
				out = append(out, &m)
			}
		default:
			return out
		}
	}
}

func TestHubSingleClientPerCanvas(t *testing.T) {
	hub := NewHub(engine.Options{}, ConnOptions{})
	first := NewClient(hub, nil, "anon-1", "canvas_a", "c1")
	second := NewClient(hub, nil, "anon-2", "canvas_a", "c2")

	canvas, err := hub.Claim("canvas_a", first)
	require.NoError(t, err)
	_, err = hub.Claim("canvas_a", second)
	assert.ErrorIs(t, err, ErrCanvasBusy)

	other := NewClient(hub, nil, "anon-3", "canvas_b", "c3")
	_, err = hub.Claim("canvas_b", other)
	assert.NoError(t, err)

	hub.Release(canvas, second)
	_, err = hub.Claim("canvas_a", second)
	assert.ErrorIs(t, err, ErrCanvasBusy)

	hub.Release(canvas, first)
	_, err = hub.Claim("canvas_a", second)
	assert.NoError(t, err)
}

func TestHubWelcomeAndMessages(t *testing.T) {
	hub := NewHub(engine.Options{GridSize: 20, Width: 400, Height: 300}, ConnOptions{})
	client := NewClient(hub, nil, "anon-1", "canvas_a", "c1")
	_, err := hub.Claim("canvas_a", client)
	require.NoError(t, err)

	hub.addClient(client)
	out := drain(client)
	require.Len(t, out, 4)
	assert.Equal(t, TypeWelcome, out[0].Type)
	var welcome WelcomePayload
	require.NoError(t, json.Unmarshal(out[0].Payload, &welcome))
	assert.Equal(t, 20.0, welcome.GridSize)
	assert.Equal(t, 400.0, welcome.Width)

	require.NoError(t, client.handle(frame(t, TypeShapeAdd, KindPayload{Kind: scene.KindTriangle})))
	out = drain(client)
	require.Len(t, out, 2)
	assert.Equal(t, TypeRender, out[0].Type)
	assert.Equal(t, TypeLayers, out[1].Type)

	require.NoError(t, client.handle(frame(t, TypeShapeAction, ShapeActionPayload{Action: engine.ActionDelete})))
	out = drain(client)
	require.NotEmpty(t, out)
	assert.Equal(t, TypeError, out[0].Type)
	var ep ErrorPayload
	require.NoError(t, json.Unmarshal(out[0].Payload, &ep))
	assert.Equal(t, TypeShapeAction, ep.Type)

	canvas, ok := hub.Canvas("canvas_a")
	require.True(t, ok)
	canvas.Do(func(eng *engine.Engine) {
		assert.Equal(t, 1, eng.Store().Len())
	})

	hub.removeClient(client)
	_, ok = <-client.send
	assert.False(t, ok)

	// the canvas outlives its client
	canvas, ok = hub.Canvas("canvas_a")
	require.True(t, ok)
	canvas.Do(func(eng *engine.Engine) {
		assert.Equal(t, 1, eng.Store().Len())
	})
}

func TestDecodeScript(t *testing.T) {
	array := `[
		{"type":"shape.add","payload":{"kind":"rectangle"}},
		{"type":"shape.select","payload":{"id":"rect-1"}}
	]`
	stream := `{"type":"shape.add","payload":{"kind":"rectangle"}}
{"type":"shape.select","payload":{"id":"rect-1"}}
`
	for name, script := range map[string]string{"array": array, "stream": stream} {
		t.Run(name, func(t *testing.T) {
			msgs, err := DecodeScript([]byte(script))
			require.NoError(t, err)
			require.Len(t, msgs, 2)
			assert.Equal(t, TypeShapeAdd, msgs[0].Type)
			assert.Equal(t, TypeShapeSelect, msgs[1].Type)
		})
	}

	msgs, err := DecodeScript([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, msgs)

	_, err = DecodeScript([]byte(`{"type":"shape.add"} {"type":`))
	assert.Error(t, err)
}

func TestReplay(t *testing.T) {
	eng := newTestEngine(t)
	msgs, err := DecodeScript([]byte(`
{"type":"intent.set","payload":{"kind":"circle"}}
{"type":"pointer.down","payload":{"clientX":100,"clientY":100}}
{"type":"pointer.move","payload":{"clientX":160,"clientY":180}}
{"type":"pointer.up","payload":{"clientX":160,"clientY":180}}
{"type":"bogus"}
{"type":"shape.select","payload":{"id":"circle-1"}}
`))
	require.NoError(t, err)

	assert.Equal(t, 1, Replay(eng, msgs))
	s := eng.Store().Shape("circle-1")
	require.NotNil(t, s)
	assert.Equal(t, 100.0, s.Radius)
	assert.Same(t, s, eng.Store().SelectedShape())
}

func TestHubRunRegistersAndStops(t *testing.T) {
	hub := NewHub(engine.Options{}, ConnOptions{})
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	client := NewClient(hub, nil, "anon-1", "canvas_a", "c1")
	_, err := hub.Claim("canvas_a", client)
	require.NoError(t, err)

	hub.Register(client)
	hub.Unregister(client)
	hub.Stop()
	<-done

	// welcome and initial state were queued before the channel closed
	out := drain(client)
	assert.Len(t, out, 4)
	_, open := <-client.send
	assert.False(t, open)

	// calls after Stop do not block
	hub.Register(client)
}

func TestApplyBoundsRejectsAndClamps(t *testing.T) {
	eng := newTestEngine(t)

	_, err := Apply(eng, &Message{Type: TypeBoundsSet, Payload: json.RawMessage(`{"x":0,"y":0,"width":0,"height":100}`)})
	assert.ErrorIs(t, err, engine.ErrInvalidBounds)

	u, err := Apply(eng, msg(t, TypeBoundsSet, BoundsPayload{Width: 1e300, Height: 300}))
	require.NoError(t, err)
	assert.Equal(t, eng.MaxSize(), eng.Bounds().Width)

	out := Replies(eng, "canvas_1", u)
	require.Len(t, out, 1)
	assert.Equal(t, TypeRender, out[0].Type)
}

func TestClientClosesAfterRejectedRun(t *testing.T) {
	hub := NewHub(engine.Options{}, ConnOptions{MaxRejected: 3})
	client := NewClient(hub, nil, "anon-1", "canvas_a", "c1")
	_, err := hub.Claim("canvas_a", client)
	require.NoError(t, err)

	assert.NoError(t, client.handle(frame(t, "bogus", nil)))
	assert.NoError(t, client.handle([]byte(`{"type":`)))
	out := drain(client)
	require.Len(t, out, 2)
	assert.Equal(t, TypeError, out[0].Type)
	assert.Equal(t, TypeError, out[1].Type)

	// an accepted message resets the run
	assert.NoError(t, client.handle(frame(t, TypeShapeAdd, KindPayload{Kind: scene.KindCircle})))
	assert.NoError(t, client.handle(frame(t, "bogus", nil)))
	assert.NoError(t, client.handle(frame(t, "bogus", nil)))

	err = client.handle(frame(t, "bogus", nil))
	var ce *closeError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, websocket.StatusPolicyViolation, ce.status)
	drain(client)
}

func TestClientHandleRequiresClaim(t *testing.T) {
	hub := NewHub(engine.Options{}, ConnOptions{})
	client := NewClient(hub, nil, "anon-1", "canvas_a", "c1")

	var ce *closeError
	require.ErrorAs(t, client.handle(frame(t, TypeShapeAdd, KindPayload{Kind: scene.KindCircle})), &ce)
	assert.Equal(t, websocket.StatusPolicyViolation, ce.status)
	_, ok := hub.Canvas("canvas_a")
	assert.False(t, ok)
}

func TestReleaseRearmsKeys(t *testing.T) {
	hub := NewHub(engine.Options{}, ConnOptions{})
	first := NewClient(hub, nil, "anon-1", "canvas_a", "c1")
	canvas, err := hub.Claim("canvas_a", first)
	require.NoError(t, err)

	require.NoError(t, first.handle(frame(t, TypeShapeAdd, KindPayload{Kind: scene.KindRectangle})))
	canvas.Do(func(eng *engine.Engine) {
		eng.Select(eng.Store().ActiveLayer().Shapes()[0].ID)
		eng.KeyDown("t")
		eng.DetachTransform()
	})
	// the key-up never arrives
	hub.Release(canvas, first)

	second := NewClient(hub, nil, "anon-2", "canvas_a", "c2")
	_, err = hub.Claim("canvas_a", second)
	require.NoError(t, err)
	canvas.Do(func(eng *engine.Engine) {
		eng.KeyDown("t")
		assert.True(t, eng.TransformActive())
	})
}

func TestDefaultConnOptions(t *testing.T) {
	o := ConnOptions{WriteWait: time.Second}.withDefaults()
	assert.Equal(t, time.Second, o.WriteWait)
	assert.Equal(t, 30*time.Second, o.PingPeriod)
	assert.Equal(t, int64(64*1024), o.MaxMessageSize)
	assert.Equal(t, 256, o.SendBuffer)
	assert.Equal(t, 16, o.MaxRejected)
}
