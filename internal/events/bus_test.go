package events

import (
	"testing"

	"github.com/gemchajang/suno-batch-generator/internal/model"
)

func TestBusSequencesAndTimestamps(t *testing.T) {
	bus := NewBus(10)

	first := bus.Publish(Event{Kind: KindLog, Message: "one"})
	second := bus.Publish(Event{Kind: KindLog, Message: "two"})

	if first.Seq != 1 || second.Seq != 2 {
		t.Errorf("sequences = %d, %d, want 1, 2", first.Seq, second.Seq)
	}
	if first.Timestamp.IsZero() {
		t.Error("timestamp should be assigned on publish")
	}
}

func TestBusSince(t *testing.T) {
	bus := NewBus(10)
	bus.Log(LevelInfo, "a")
	bus.Log(LevelWarning, "b")
	bus.Log(LevelError, "c")

	got := bus.Since(1)
	if len(got) != 2 {
		t.Fatalf("Since(1) returned %d events, want 2", len(got))
	}
	if got[0].Message != "b" || got[1].Message != "c" {
		t.Errorf("Since(1) = %q, %q", got[0].Message, got[1].Message)
	}
}

func TestBusBounded(t *testing.T) {
	bus := NewBus(3)
	for i := 0; i < 5; i++ {
		bus.Log(LevelInfo, "m")
	}

	got := bus.Since(0)
	if len(got) != 3 {
		t.Errorf("buffer holds %d events, want 3", len(got))
	}
	if got[0].Seq != 3 {
		t.Errorf("oldest kept seq = %d, want 3", got[0].Seq)
	}
}

func TestBusSubscriber(t *testing.T) {
	bus := NewBus(10)

	var seen []Event
	bus.Subscribe(func(e Event) { seen = append(seen, e) })

	bus.Queue(&model.QueueState{Running: true})
	bus.Heartbeat()

	if len(seen) != 2 {
		t.Fatalf("subscriber saw %d events, want 2", len(seen))
	}
	if seen[0].Kind != KindQueue || seen[0].Queue == nil || !seen[0].Queue.Running {
		t.Errorf("first event = %+v, want running queue snapshot", seen[0])
	}
	if seen[1].Kind != KindHeartbeat {
		t.Errorf("second event kind = %s, want heartbeat", seen[1].Kind)
	}
}
