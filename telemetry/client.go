package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/colorfulnotion/intcode/log"
)

// Client stamps events with sequential ids and fans them out to the active
// span and the structured telemetry log.
type Client struct {
	sender      string
	nextEventID uint64
	eventIDMu   sync.Mutex
	disabled    bool
}

// NewNoOpClient creates a disabled client that does nothing.
func NewNoOpClient() *Client {
	return &Client{disabled: true}
}

// NewClient builds a client whose log lines carry sender as sender_id.
func NewClient(sender string) *Client {
	return &Client{sender: sender}
}

// GetEventID returns a new unique event ID. IDs start at 0.
func (c *Client) GetEventID() uint64 {
	c.eventIDMu.Lock()
	defer c.eventIDMu.Unlock()
	id := c.nextEventID
	c.nextEventID++
	return id
}

// Emit records one event and returns its id.
func (c *Client) Emit(ctx context.Context, code uint8, msg interface{}, attrs ...attribute.KeyValue) uint64 {
	if c == nil || c.disabled {
		return 0
	}
	id := c.GetEventID()
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		attrs = append(attrs, attribute.Int64("event_id", int64(id)))
		span.AddEvent(EventName(code), trace.WithAttributes(attrs...))
	}
	log.Telemetry(code, c.sender, msg, "metadata", EventName(code))
	return id
}
