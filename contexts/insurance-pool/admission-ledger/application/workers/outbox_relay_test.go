package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"flightsurety/contexts/insurance-pool/admission-ledger/adapters/memory"
	"flightsurety/contexts/insurance-pool/admission-ledger/application/commands"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type capturePublisher struct {
	mu     sync.Mutex
	topics []string
	events []ports.EventEnvelope
	failAt int
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAt > 0 && len(p.events)+1 == p.failAt {
		return errors.New("bus unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore("owner", "app")
	ledger := commands.LedgerUseCase{Repo: store, Clock: store, IDGen: store}
	if _, err := ledger.RegisterFirst(context.Background(), commands.SeedCommand{OwnerID: "owner", AirlineID: "A0", Name: "Seed Air"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := ledger.Fund(context.Background(), commands.FundCommand{CallerID: "app", AirlineID: "A0", AmountWei: 1}); err != nil {
		t.Fatalf("fund failed: %v", err)
	}
	if err := ledger.SetOperational(context.Background(), commands.SetOperationalCommand{OwnerID: "owner", Operational: false}); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	return store
}

func TestRunOncePublishesInCommitOrder(t *testing.T) {
	store := seededStore(t)
	publisher := &capturePublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	published, err := relay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if published != 3 {
		t.Fatalf("expected 3 published, got %d", published)
	}
	want := []string{
		commands.EventParticipantRegistered,
		commands.EventFundsContributed,
		commands.EventOperationalChanged,
	}
	for i, topic := range want {
		if publisher.topics[i] != topic {
			t.Fatalf("topic %d: expected %s, got %s", i, topic, publisher.topics[i])
		}
	}
	if publisher.events[0].PartitionKey != "A0" || publisher.events[0].SourceService != "admission-ledger" {
		t.Fatalf("unexpected envelope: %+v", publisher.events[0])
	}

	again, err := relay.RunOnce(context.Background())
	if err != nil || again != 0 {
		t.Fatalf("expected nothing left, got %d err=%v", again, err)
	}
}

func TestRunOnceStopsAtFirstPublishFailure(t *testing.T) {
	store := seededStore(t)
	publisher := &capturePublisher{failAt: 2}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	published, err := relay.RunOnce(context.Background())
	if err == nil {
		t.Fatal("expected publish failure")
	}
	if published != 1 {
		t.Fatalf("expected 1 published before failure, got %d", published)
	}
	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 2 {
		t.Fatalf("expected 2 rows left pending, got %d", len(pending))
	}

	publisher.failAt = 0
	published, err = relay.RunOnce(context.Background())
	if err != nil || published != 2 {
		t.Fatalf("expected retry to drain 2 rows, got %d err=%v", published, err)
	}
}

func TestRunOnceHonoursBatchSize(t *testing.T) {
	store := seededStore(t)
	publisher := &capturePublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, BatchSize: 2}

	published, err := relay.RunOnce(context.Background())
	if err != nil || published != 2 {
		t.Fatalf("expected a batch of 2, got %d err=%v", published, err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store := seededStore(t)
	publisher := &capturePublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Interval: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- relay.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for publisher.count() < 3 {
		select {
		case <-deadline:
			cancel()
			t.Fatalf("relay did not drain outbox, published %d", publisher.count())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}

type topicSubscriber struct {
	handlers map[string]func(context.Context, ports.EventEnvelope) error
}

func (s *topicSubscriber) Subscribe(_ context.Context, topic string, _ string, handler func(context.Context, ports.EventEnvelope) error) error {
	if s.handlers == nil {
		s.handlers = make(map[string]func(context.Context, ports.EventEnvelope) error)
	}
	s.handlers[topic] = handler
	return nil
}

func TestNotificationConsumerSubscribesAndDecodes(t *testing.T) {
	subscriber := &topicSubscriber{}
	consumer := NotificationConsumer{Subscriber: subscriber}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	for _, topic := range NotificationTopics {
		if subscriber.handlers[topic] == nil {
			t.Fatalf("expected subscription to %s", topic)
		}
	}

	handler := subscriber.handlers["participant.funded"]
	good := ports.EventEnvelope{EventID: "evt-1", EventType: "participant.funded", Data: []byte(`{"airline_id":"A0","name":"Seed Air"}`)}
	if err := handler(context.Background(), good); err != nil {
		t.Fatalf("expected decode to succeed, got %v", err)
	}
	bad := ports.EventEnvelope{EventID: "evt-2", EventType: "participant.funded", Data: []byte(`not json`)}
	if err := handler(context.Background(), bad); err == nil {
		t.Fatal("expected decode error for malformed data")
	}
}
