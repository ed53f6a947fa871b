package events

import (
	"sync"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/model"
)

// Level indicates the severity/type of a log entry.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns a short label for the level.
func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "debug"
	case LevelWarning:
		return "warn"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "ok"
	default:
		return "info"
	}
}

// Kind classifies bus entries.
type Kind string

const (
	// KindLog is a discrete log message.
	KindLog Kind = "log"

	// KindQueue carries a full queue snapshot after a state change.
	KindQueue Kind = "queue"

	// KindHeartbeat is a periodic liveness signal during long waits.
	KindHeartbeat Kind = "heartbeat"
)

// Event is a sequenced payload consumed by UI subscribers.
type Event struct {
	Seq       int64             `json:"seq"`
	Timestamp time.Time         `json:"timestamp"`
	Kind      Kind              `json:"kind"`
	Level     Level             `json:"level,omitempty"`
	Message   string            `json:"message,omitempty"`
	Queue     *model.QueueState `json:"queue,omitempty"`
}

// Bus stores recent events and provides incremental reads plus an
// optional synchronous subscriber callback.
type Bus struct {
	mu        sync.RWMutex
	nextSeq   int64
	maxEvents int
	events    []Event
	onEvent   func(Event)
}

// NewBus creates a bounded in-memory event buffer.
func NewBus(maxEvents int) *Bus {
	if maxEvents <= 0 {
		maxEvents = 500
	}

	return &Bus{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
}

// Subscribe registers a callback invoked synchronously for every
// published event. Only one subscriber is supported; the surrounding UI
// fans out further if it needs to.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onEvent = fn
}

// Publish appends one event and assigns sequence and timestamp.
func (b *Bus) Publish(event Event) Event {
	b.mu.Lock()

	b.nextSeq++
	event.Seq = b.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.events = append(b.events, event)
	if len(b.events) > b.maxEvents {
		trim := len(b.events) - b.maxEvents
		b.events = append([]Event(nil), b.events[trim:]...)
	}

	fn := b.onEvent
	b.mu.Unlock()

	if fn != nil {
		fn(event)
	}
	return event
}

// Log publishes a log entry at the given level.
func (b *Bus) Log(level Level, message string) {
	b.Publish(Event{Kind: KindLog, Level: level, Message: message})
}

// Queue publishes a queue snapshot broadcast.
func (b *Bus) Queue(state *model.QueueState) {
	b.Publish(Event{Kind: KindQueue, Queue: state})
}

// Heartbeat publishes a liveness signal.
func (b *Bus) Heartbeat() {
	b.Publish(Event{Kind: KindHeartbeat})
}

// Since returns events with sequence strictly greater than seq.
func (b *Bus) Since(seq int64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.events) == 0 {
		return nil
	}

	out := make([]Event, 0, len(b.events))
	for _, event := range b.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}
