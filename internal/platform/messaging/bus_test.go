package messaging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	eventsv1 "flightsurety/contracts/gen/events/v1"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishDeliversToTopicSubscribers(t *testing.T) {
	bus := NewBus([]string{"localhost:9092"}, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())

	var (
		mu       sync.Mutex
		received []string
	)
	got := make(chan struct{}, 4)
	handler := func(_ context.Context, event eventsv1.Envelope) error {
		mu.Lock()
		received = append(received, event.EventID)
		mu.Unlock()
		got <- struct{}{}
		return nil
	}
	if err := bus.Subscribe(ctx, "participant.funded", "observer", handler); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if err := bus.Publish(ctx, "participant.funded", eventsv1.Envelope{EventID: "evt-1", EventType: "participant.funded"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := bus.Publish(ctx, "funds.contributed", eventsv1.Envelope{EventID: "evt-2"}); err != nil {
		t.Fatalf("publish to empty topic failed: %v", err)
	}

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
	cancel()
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 || received[0] != "evt-1" {
		t.Fatalf("unexpected deliveries: %v", received)
	}
}

func TestHandlerErrorDoesNotStopSubscriber(t *testing.T) {
	bus := NewBus(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		bus.Wait()
	}()

	calls := make(chan string, 2)
	if err := bus.Subscribe(ctx, "participant.registered", "observer", func(_ context.Context, event eventsv1.Envelope) error {
		calls <- event.EventID
		return errors.New("handler failed")
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	for _, id := range []string{"evt-1", "evt-2"} {
		if err := bus.Publish(ctx, "participant.registered", eventsv1.Envelope{EventID: id}); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected 2 handler calls, got %d", i)
		}
	}
}

func TestSubscriberRemovedAfterCancel(t *testing.T) {
	bus := NewBus(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	if err := bus.Subscribe(ctx, "t", "g", func(context.Context, eventsv1.Envelope) error { return nil }); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	cancel()
	bus.Wait()

	bus.mu.RLock()
	defer bus.mu.RUnlock()
	if len(bus.subscribers["t"]) != 0 {
		t.Fatalf("expected subscriber removed, got %d", len(bus.subscribers["t"]))
	}
}

func TestBrokersReturnsCopy(t *testing.T) {
	bus := NewBus([]string{"a:9092"}, nil)
	brokers := bus.Brokers()
	brokers[0] = "mutated"
	if bus.Brokers()[0] != "a:9092" {
		t.Fatal("brokers slice aliased")
	}
}
