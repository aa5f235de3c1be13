package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	application "flightsurety/contexts/insurance-pool/admission-ledger/application"
	"flightsurety/contexts/insurance-pool/admission-ledger/application/commands"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"
)

const defaultNotificationCG = "admission-ledger-notifications-cg"

// NotificationTopics are the airline state changes observers care about.
var NotificationTopics = []string{
	commands.EventParticipantRegistered,
	commands.EventParticipantFunded,
	commands.EventFundsContributed,
}

// NotificationConsumer subscribes to airline notifications and records each
// one in the process log, which is where operators watch admissions and
// funding progress.
type NotificationConsumer struct {
	Subscriber    ports.EventSubscriber
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c NotificationConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultNotificationCG
	}
	for _, topic := range NotificationTopics {
		if err := c.Subscriber.Subscribe(ctx, topic, group, c.handle); err != nil {
			logger.Error("notification consumer subscribe failed",
				"event", "admission_ledger_notification_subscribe_failed",
				"module", application.ModuleName,
				"layer", "worker",
				"topic", topic,
				"consumer_group", group,
				"error", err.Error(),
			)
			return err
		}
	}
	logger.Info("notification consumer subscriptions active",
		"event", "admission_ledger_notification_consumer_started",
		"module", application.ModuleName,
		"layer", "worker",
		"consumer_group", group,
	)
	return nil
}

func (c NotificationConsumer) handle(ctx context.Context, event ports.EventEnvelope) error {
	var data map[string]any
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return err
	}
	attrs := []any{
		"event", "admission_ledger_notification",
		"module", application.ModuleName,
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"airline_id", event.PartitionKey,
	}
	for _, key := range []string{"name", "via", "amount_wei", "cumulative_wei", "amount_funded_wei"} {
		if value, ok := data[key]; ok {
			attrs = append(attrs, key, value)
		}
	}
	application.ResolveLogger(c.Logger).InfoContext(ctx, "airline notification", attrs...)
	return nil
}
