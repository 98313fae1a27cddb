// Package pubsub fans analysis updates out to web subscribers over a
// single event stream. Watch mode publishes a status event when a
// re-run starts or fails and a report event when results change; a
// subscriber that connects late is brought up to date by replaying the
// most recent event.
package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Event is one update on the stream.
type Event struct {
	Type string          `json:"type"` // "status" or "report"
	Seq  int             `json:"seq"`  // monotonically increasing
	Data json.RawMessage `json:"data"`
}

// BatchStatus describes the state of an analysis run for subscribers.
type BatchStatus struct {
	RunID   string `json:"runId"`
	State   string `json:"state"`   // loading, complete, failed
	Message string `json:"message"` // human-readable status
	Cases   int    `json:"cases"`   // SUT files analyzed
}

// Broker delivers events to all current subscribers. Publishing never
// blocks: a subscriber whose buffer is full misses the event, which is
// not redelivered. Each event carries the full state of its type, so
// the next event of the same type brings that subscriber up to date.
type Broker struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	last   *Event
	seq    int
	closed bool
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a client. The most recent event, if any, is
// replayed immediately. The returned channel closes when ctx is
// canceled or the broker shuts down.
func (b *Broker) Subscribe(ctx context.Context) (<-chan Event, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, errors.New("broker is closed")
	}
	ch := make(chan Event, 16)
	if b.last != nil {
		ch <- *b.last
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(ch)
	}()
	return ch, nil
}

func (b *Broker) unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// Publish marshals data and delivers it to every subscriber, recording
// it as the replay event for future subscribers.
func (b *Broker) Publish(eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("broker is closed")
	}
	b.seq++
	event := Event{Type: eventType, Seq: b.seq, Data: payload}
	b.last = &event
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			slog.Warn("dropping event for slow subscriber", "type", eventType, "seq", event.Seq)
		}
	}
	return nil
}

// Close shuts down the broker and closes all subscriber channels.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	b.subs = make(map[chan Event]struct{})
}

// WriteSSE frames an event for a text/event-stream response, naming
// the SSE event after the event type so clients can listen per type.
func WriteSSE(w io.Writer, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, payload)
	return err
}
