// Package remote hosts canvases over websockets: one engine per canvas,
// driven by a single connected client.
package remote

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/inamate/drawer/internal/engine"
)

var ErrCanvasBusy = errors.New("canvas already has a client")

// Canvas is one hosted engine. Its engine outlives client connections so
// the canvas can still be exported after the client leaves.
type Canvas struct {
	ID string

	mu     sync.Mutex
	engine *engine.Engine
	client *Client
}

// Do runs fn with exclusive access to the canvas engine.
func (c *Canvas) Do(fn func(eng *engine.Engine)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.engine)
}

type Hub struct {
	mu         sync.RWMutex
	canvases   map[string]*Canvas // canvasID -> canvas
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	opts       engine.Options
	conn       ConnOptions
}

// NewHub hosts canvases built with opts. conn tunes client connections.
func NewHub(opts engine.Options, conn ConnOptions) *Hub {
	return &Hub{
		canvases:   make(map[string]*Canvas),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		opts:       opts,
		conn:       conn.withDefaults(),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Stop ends Run.
func (h *Hub) Stop() {
	close(h.done)
}

// Claim reserves canvasID for client, creating the canvas on first use.
// It returns ErrCanvasBusy when another client holds it.
func (h *Hub) Claim(canvasID string, client *Client) (*Canvas, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	canvas, ok := h.canvases[canvasID]
	if !ok {
		canvas = &Canvas{ID: canvasID, engine: engine.NewEngine(h.opts)}
		h.canvases[canvasID] = canvas
		slog.Info("canvas created", "canvas", canvasID)
	}

	canvas.mu.Lock()
	defer canvas.mu.Unlock()
	if canvas.client != nil && canvas.client != client {
		return nil, ErrCanvasBusy
	}
	canvas.client = client
	client.canvas = canvas
	return canvas, nil
}

// Release frees canvas when client holds it. Any gesture the client left
// in progress is cancelled and keys it held are re-armed.
func (h *Hub) Release(canvas *Canvas, client *Client) {
	canvas.mu.Lock()
	defer canvas.mu.Unlock()
	if canvas.client == client {
		canvas.client = nil
		canvas.engine.PointerLeave()
		canvas.engine.ResetKeys()
	}
}

// Canvas looks up a hosted canvas.
func (h *Hub) Canvas(canvasID string) (*Canvas, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.canvases[canvasID]
	return c, ok
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	canvas := client.canvas
	if canvas == nil {
		return
	}

	var replies []*Message
	canvas.Do(func(eng *engine.Engine) {
		b := eng.Bounds()
		replies = append(replies, newMessage(TypeWelcome, canvas.ID, WelcomePayload{
			CanvasID: canvas.ID,
			ClientID: client.ClientID,
			UserID:   client.UserID,
			GridSize: eng.Grid().Size,
			Width:    b.Width,
			Height:   b.Height,
		}))
		replies = append(replies, Replies(eng, canvas.ID, UpdateAll)...)
	})
	for _, msg := range replies {
		client.Send(msg)
	}

	slog.Info("client joined", "user", client.UserID, "canvas", client.CanvasID)
}

func (h *Hub) removeClient(client *Client) {
	if client.canvas == nil {
		return
	}

	h.Release(client.canvas, client)
	close(client.send)

	slog.Info("client left", "user", client.UserID, "canvas", client.CanvasID)
}
