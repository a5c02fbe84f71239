package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/inamate/drawer/internal/engine"
)

// ConnOptions tunes the websocket side of a hub. Zero fields take defaults.
type ConnOptions struct {
	PingPeriod     time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
	SendBuffer     int
	// MaxRejected is how many rejected messages in a row a client may send
	// before it is disconnected.
	MaxRejected int
}

func (o ConnOptions) withDefaults() ConnOptions {
	if o.PingPeriod <= 0 {
		o.PingPeriod = 30 * time.Second
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = 64 * 1024
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 256
	}
	if o.MaxRejected <= 0 {
		o.MaxRejected = 16
	}
	return o
}

// closeError ends a connection with a websocket close status.
type closeError struct {
	status websocket.StatusCode
	reason string
}

func (e *closeError) Error() string {
	return fmt.Sprintf("close %d: %s", e.status, e.reason)
}

// Client is the one connection driving a canvas. Its read pump applies
// messages to the canvas engine directly and queues the replies.
type Client struct {
	hub    *Hub
	canvas *Canvas
	conn   *websocket.Conn
	send   chan []byte

	// rejected counts consecutive messages the engine refused.
	rejected int

	UserID   string
	CanvasID string
	ClientID string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, canvasID, clientID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, hub.conn.SendBuffer),
		UserID:   userID,
		CanvasID: canvasID,
		ClientID: clientID,
	}
}

// Attach sets the connection of a client created before the upgrade.
func (c *Client) Attach(conn *websocket.Conn) {
	c.conn = conn
}

// ReadPump runs until the connection ends. Binary frames and runs of
// rejected messages close it with a matching status.
func (c *Client) ReadPump(ctx context.Context) {
	status, reason := websocket.StatusNormalClosure, ""
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(status, reason)
	}()

	c.conn.SetReadLimit(c.hub.conn.MaxMessageSize)

	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				slog.Debug("read error", "error", err, "user", c.UserID)
			}
			return
		}

		if typ != websocket.MessageText {
			err = &closeError{status: websocket.StatusUnsupportedData, reason: "text frames only"}
		} else {
			err = c.handle(data)
		}

		var ce *closeError
		if errors.As(err, &ce) {
			slog.Warn("closing client", "user", c.UserID, "canvas", c.CanvasID, "status", ce.status, "reason", ce.reason)
			status, reason = ce.status, ce.reason
			return
		}
	}
}

// handle decodes one frame, applies it under the canvas lock and queues
// the replies. A rejected message is answered with an error message; it
// returns a *closeError once too many were rejected in a row.
func (c *Client) handle(data []byte) error {
	if c.canvas == nil {
		return &closeError{status: websocket.StatusPolicyViolation, reason: "canvas not claimed"}
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return c.reject(&msg, fmt.Errorf("decode message: %w", err))
	}
	msg.ClientID = c.ClientID
	msg.CanvasID = c.CanvasID

	var (
		replies []*Message
		err     error
	)
	c.canvas.Do(func(eng *engine.Engine) {
		var u Update
		u, err = Apply(eng, &msg)
		replies = Replies(eng, c.canvas.ID, u)
	})

	var closeErr error
	if err != nil {
		closeErr = c.reject(&msg, err)
	} else {
		c.rejected = 0
	}
	for _, reply := range replies {
		c.Send(reply)
	}
	return closeErr
}

func (c *Client) reject(msg *Message, err error) error {
	if errors.Is(err, ErrUnknownMessage) {
		slog.Warn("unknown message type", "type", msg.Type, "user", c.UserID)
	} else {
		slog.Debug("message rejected", "type", msg.Type, "error", err, "user", c.UserID)
	}
	c.Send(errorMessage(c.canvas.ID, msg.Type, err))

	c.rejected++
	if c.rejected >= c.hub.conn.MaxRejected {
		return &closeError{status: websocket.StatusPolicyViolation, reason: "too many rejected messages"}
	}
	return nil
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(c.hub.conn.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, c.hub.conn.WriteWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "user", c.UserID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, c.hub.conn.WriteWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				slog.Debug("ping failed", "error", err, "user", c.UserID)
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues msg without blocking. When the buffer is full the message is
// dropped; the next render reply carries the full state again.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "user", c.UserID, "type", msg.Type)
	}
}
