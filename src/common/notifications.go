package common

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gogonoten/johotel/src/config"
	"github.com/gogonoten/johotel/src/lib"
	"go.uber.org/zap"
)

const notifyTimeout = 30 * time.Second

type Notifier interface {
	Notify(ctx context.Context, event ReservationEvent) error
}

// Notifiers delivers to every member and joins their errors.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, event ReservationEvent) error {
	var errs []error
	for _, n := range ns {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifyAsync delivers in the background. Failures are logged and never
// reach the caller.
func NotifyAsync(n Notifier, event ReservationEvent, logger *zap.Logger) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := n.Notify(ctx, event); err != nil {
			logger.Warn("notification failed",
				zap.String("event_id", event.ID), zap.String("type", string(event.Type)),
				zap.Uint("reservation_id", event.ReservationID), zap.Error(err))
		}
	}()
}

// Producer writes one encoded event to a topic or queue.
type Producer func(ctx context.Context, topic string, body []byte) error

func KafkaProducer(clientId string) Producer {
	return func(_ context.Context, topic string, body []byte) error {
		return lib.KafkaProduceMessage(clientId, topic, json.RawMessage(body))
	}
}

func SQSProducer() Producer {
	return func(ctx context.Context, queue string, body []byte) error {
		return lib.SQSProduceMessage(ctx, queue, string(body))
	}
}

// EventPublisher emits reservation events as JSON.
type EventPublisher struct {
	topic   string
	produce Producer
}

// NewEventPublisher targets Kafka locally and SQS everywhere else.
func NewEventPublisher(topic string) *EventPublisher {
	if config.IsLocal() {
		return NewEventPublisherWith(topic, KafkaProducer("reservations"))
	}
	return NewEventPublisherWith(topic, SQSProducer())
}

func NewEventPublisherWith(topic string, produce Producer) *EventPublisher {
	return &EventPublisher{topic: topic, produce: produce}
}

func (p *EventPublisher) Notify(ctx context.Context, event ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.produce(ctx, p.topic, body)
}
