// Package notify is the boundary to the external notification channel. The
// engine decides that and to whom a notification is owed; delivery (SMS,
// email) happens downstream of the events published here.
package notify

import (
	"context"
	"encoding/json"

	"bookhaus/pkg/kafka"
	"bookhaus/pkg/logger"
	"bookhaus/pkg/model"
)

type Notifier interface {
	Notify(ctx context.Context, events []model.NotificationEvent) error
}

// KafkaNotifier publishes notification events keyed by customer so per-
// customer ordering is preserved across partitions.
type KafkaNotifier struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, log: log}
}

func (n *KafkaNotifier) Notify(ctx context.Context, events []model.NotificationEvent) error {
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if err := n.producer.Publish(ctx, ev.CustomerID, payload); err != nil {
			n.log.Error("Failed to publish notification event",
				"customer_id", ev.CustomerID,
				"entry_id", ev.EntryID,
				"error", err,
			)
			return err
		}
		n.log.Info("Notification event published",
			"customer_id", ev.CustomerID,
			"entry_id", ev.EntryID,
			"date", ev.Date,
			"start_time", ev.StartTime,
		)
	}
	return nil
}

// LogNotifier only records events. Used in tests and when no broker is
// configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, events []model.NotificationEvent) error {
	for _, ev := range events {
		n.log.Info("Notification event (log only)",
			"customer_id", ev.CustomerID,
			"entry_id", ev.EntryID,
			"date", ev.Date,
			"start_time", ev.StartTime,
		)
	}
	return nil
}
