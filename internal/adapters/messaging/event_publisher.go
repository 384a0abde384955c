package messaging

import (
	"context"
	"time"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	amqp "github.com/rabbitmq/amqp091-go"
)

var _ ports.EventPublisher = (*RabbitMQBroker)(nil)

// Publish sends payload to the event queue. Consumers route on the
// message Type, which carries eventType.
func (rmq *RabbitMQBroker) Publish(ctx context.Context, eventType string, payload []byte) error {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return ctx.Err()
	}

	_, err := rmq.cb.Execute(func() (interface{}, error) {
		return nil, rmq.ch.PublishWithContext(
			ctx,
			"",            // default exchange
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			newPublishing(eventType, payload, time.Now()),
		)
	})
	return err
}

func newPublishing(eventType string, payload []byte, now time.Time) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         eventType,
		Timestamp:    now.UTC(),
		Body:         payload,
	}
}
