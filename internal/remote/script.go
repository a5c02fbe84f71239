package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/inamate/drawer/internal/engine"
)

// DecodeScript reads a recorded message script: either one JSON array of
// messages or a stream of messages, one after another.
func DecodeScript(data []byte) ([]*Message, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var msgs []*Message
		if err := json.Unmarshal(trimmed, &msgs); err != nil {
			return nil, fmt.Errorf("decode script: %w", err)
		}
		return msgs, nil
	}

	var msgs []*Message
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	for {
		var m Message
		err := dec.Decode(&m)
		if errors.Is(err, io.EOF) {
			return msgs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode script message %d: %w", len(msgs)+1, err)
		}
		msgs = append(msgs, &m)
	}
}

// Replay applies msgs to eng in order. Rejected messages are logged and
// skipped; the count of rejected messages is returned.
func Replay(eng *engine.Engine, msgs []*Message) int {
	rejected := 0
	for i, m := range msgs {
		if _, err := Apply(eng, m); err != nil {
			rejected++
			slog.Warn("replay message rejected", "index", i, "type", m.Type, "error", err)
		}
	}
	return rejected
}
