package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cinereview/internal/logger"
	"github.com/iliyamo/cinereview/internal/metrics"
)

// Publisher sends activity events to RabbitMQ.  A connection is opened per
// publish; event volume is a handful per user action, and the dial is
// bounded so a missing broker costs at most a couple of seconds.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// Publish sends ev to the activity queue as a persistent message.  Errors
// are logged and returned so callers can ignore them.
func (p *Publisher) Publish(ctx context.Context, ev ActivityEvent) error {
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	err := p.publish(ctx, ev)
	result := "ok"
	if err != nil {
		result = "error"
		logger.Warn(ctx).Err(err).Str("type", ev.Type).Msg("rabbitmq: publish failed")
	}
	metrics.EventsPublished.WithLabelValues(ev.Type, result).Inc()
	return err
}

func (p *Publisher) publish(ctx context.Context, ev ActivityEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(2 * time.Second)})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(ActivityQueue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"",            // default exchange
		ActivityQueue, // routing key = queue name
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Type:         ev.Type,
			Body:         body,
		},
	)
}
