// Package service holds outbound integrations used by handlers.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/marketplace-backend/internal/config"
	"github.com/iliyamo/marketplace-backend/internal/queue"
)

// Publisher sends order events to RabbitMQ, dialing per publish.  A nil
// *Publisher, or one built from a disabled config, drops events.
type Publisher struct {
	url     string
	enabled bool
	log     *zap.Logger
}

func NewPublisher(cfg config.EventsConfig, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{url: cfg.URL, enabled: cfg.Enabled, log: log.Named("publisher")}
}

// PublishOrderEvent publishes ev as a persistent message on the order
// events queue.  Errors are logged and returned; callers ignore them.
func (p *Publisher) PublishOrderEvent(ctx context.Context, ev queue.OrderEvent) error {
	if p == nil || !p.enabled {
		return nil
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(2 * time.Second)})
	if err != nil {
		p.log.Warn("dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.OrderEventsQueue, true, false, false, false, nil); err != nil {
		p.log.Warn("queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.OrderEventsQueue, false, false, pub); err != nil {
		p.log.Warn("publish failed", zap.String("type", ev.Type), zap.Uint64("order_id", ev.OrderID), zap.Error(err))
		return err
	}
	return nil
}
