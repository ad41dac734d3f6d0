package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/flicky/toolstore/internal/metrics"
	"github.com/flicky/toolstore/internal/model"
)

var errDeliveriesClosed = errors.New("order events delivery channel closed")

// HistoryRecorder stores one status change per event id.
type HistoryRecorder interface {
	AppendHistory(ctx context.Context, change *model.OrderStatusChange) (bool, error)
}

// OrderEventWorker consumes order events and records them as order status
// history. Malformed events and store failures are dead-lettered; events
// whose idempotency state cannot be read are requeued.
type OrderEventWorker struct {
	channel  *amqp.Channel
	recorder HistoryRecorder
	store    IdempotencyStore
	log      *slog.Logger
	metrics  *metrics.Metrics
}

func NewOrderEventWorker(
	ch *amqp.Channel,
	recorder HistoryRecorder,
	store IdempotencyStore,
	log *slog.Logger,
	m *metrics.Metrics,
) *OrderEventWorker {
	return &OrderEventWorker{
		channel:  ch,
		recorder: recorder,
		store:    store,
		log:      log,
		metrics:  m,
	}
}

// Run consumes until ctx is cancelled or the broker closes the channel.
func (w *OrderEventWorker) Run(ctx context.Context) error {
	if err := w.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	msgs, err := w.channel.Consume(OrderEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	w.log.Info("order event worker started", "queue", OrderEventsQueue)
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			w.processMessage(ctx, msg)
		case <-ctx.Done():
			w.log.Info("order event worker stopped")
			return nil
		}
	}
}

func idempotencyKey(eventID uuid.UUID) string {
	return "order_event:" + eventID.String()
}

func (w *OrderEventWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	start := time.Now()

	var event model.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil || !validEvent(event) {
		w.log.Error("malformed order event", "message_id", msg.MessageId, "error", err)
		_ = msg.Nack(false, false)
		w.metrics.ObserveEvent("unknown", "malformed", start)
		return
	}

	log := w.log.With(
		"event_id", event.ID,
		"event_type", event.Type,
		"order_id", event.OrderID,
	)
	key := idempotencyKey(event.ID)

	seen, err := w.store.Seen(ctx, key)
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		w.metrics.ObserveEvent(string(event.Type), "requeued", start)
		return
	}
	if seen {
		log.Info("order event already handled, skipping")
		_ = msg.Ack(false)
		w.metrics.ObserveEvent(string(event.Type), "duplicate", start)
		return
	}

	changedAt := event.OccurredAt
	if changedAt.IsZero() {
		changedAt = time.Now()
	}
	inserted, err := w.recorder.AppendHistory(ctx, &model.OrderStatusChange{
		OrderID:        event.OrderID,
		EventID:        event.ID,
		Status:         event.Status,
		TrackingNumber: event.TrackingNumber,
		ChangedAt:      changedAt,
	})
	if err != nil {
		log.Error("record order history failed", "error", err)
		_ = msg.Nack(false, false)
		w.metrics.ObserveEvent(string(event.Type), "failed", start)
		return
	}

	if err := w.store.Mark(ctx, key); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
	w.metrics.ObserveEvent(string(event.Type), "recorded", start)
	log.Info("order event recorded", "inserted", inserted)
}

func validEvent(e model.OrderEvent) bool {
	if e.ID == uuid.Nil || e.OrderID < 1 || !e.Status.Valid() {
		return false
	}
	return e.Type == model.OrderEventPlaced || e.Type == model.OrderEventStatusChanged
}
