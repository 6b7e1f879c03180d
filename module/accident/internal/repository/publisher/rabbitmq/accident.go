package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bhavisha4779/accident-relay/module/accident/domain"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/repository/publisher"
)

var _ publisher.AccidentPublisher = (*AccidentPublisher)(nil)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type AccidentPublisher struct {
	ch channel
}

func NewAccidentPublisher(conn *amqp.Connection) (*AccidentPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(domain.EventExchange, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(domain.EventQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(domain.EventQueue, "", domain.EventExchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &AccidentPublisher{ch: ch}, nil
}

func (p *AccidentPublisher) PublishAccident(ctx context.Context, a *domain.Accident) error {
	body, err := json.Marshal(domain.NewAccidentEvent(a))
	if err != nil {
		return fmt.Errorf("marshal accident: %w", err)
	}

	return p.ch.PublishWithContext(ctx, domain.EventExchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    a.ID,
		Body:         body,
	})
}
