// Package stream decodes the assistant backend's Server-Sent-Events response
// into typed protocol events.
package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/tmaxmax/go-sse"

	"rag-chat/frontend/internal/model"
)

// EventType is the `type` discriminator of a payload.
type EventType string

const (
	EventRAGContext EventType = "rag_context"
	EventToolCall   EventType = "tool_call"
	EventContent    EventType = "content"
	EventError      EventType = "error"
	EventDone       EventType = "done"
)

func (t EventType) known() bool {
	switch t {
	case EventRAGContext, EventToolCall, EventContent, EventError, EventDone:
		return true
	}
	return false
}

// Event is a single decoded protocol record.
type Event struct {
	Type       EventType         `json:"type"`
	Content    string            `json:"content,omitempty"`
	ToolCall   *model.ToolCall   `json:"toolCall,omitempty"`
	RAGContext *model.RAGContext `json:"ragContext,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// DefaultMaxEventSize bounds a single record. Content events carry the whole
// answer so far, so this is larger than go-sse's own default.
const DefaultMaxEventSize = 1 << 20

// Decoder turns an SSE byte stream into Events.
type Decoder struct {
	maxEventSize int
}

// NewDecoder returns a Decoder. A non-positive maxEventSize selects DefaultMaxEventSize.
func NewDecoder(maxEventSize int) *Decoder {
	if maxEventSize <= 0 {
		maxEventSize = DefaultMaxEventSize
	}
	return &Decoder{maxEventSize: maxEventSize}
}

// Events yields the protocol events of r in arrival order. Iteration stops
// right after a done event or when r is exhausted. A read failure is yielded
// once as a non-nil error and ends the sequence; malformed payloads and
// unknown event types are logged and skipped.
func (d *Decoder) Events(r io.Reader) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		cfg := &sse.ReadConfig{MaxEventSize: d.maxEventSize}
		for record, err := range sse.Read(r, cfg) {
			if err != nil {
				if errors.Is(err, sse.ErrUnexpectedEOF) {
					// The stream closed in the middle of a record; drop it.
					return
				}
				yield(Event{}, fmt.Errorf("could not read event stream: %w", err))
				return
			}

			for _, ev := range decodePayloads(record.Data) {
				if !ev.Type.known() {
					slog.Debug("Ignoring stream event of unknown type", "type", ev.Type)
					continue
				}
				if !yield(ev, nil) {
					return
				}
				if ev.Type == EventDone {
					return
				}
			}
		}
	}
}

// decodePayloads parses each data line of one record as its own payload.
// Malformed lines are logged and dropped without affecting their neighbours.
func decodePayloads(data string) []Event {
	var events []Event
	for line := range strings.SplitSeq(data, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			slog.Warn("Dropping malformed stream payload", "error", err, "payload", preview(line))
			continue
		}
		events = append(events, ev)
	}
	return events
}

func preview(s string) string {
	const n = 200
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
