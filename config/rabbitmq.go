package config

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

func NewRabbitMQ(cfg *Config) (*amqp.Connection, error) {
	if !cfg.RabbitMQ.Enabled {
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connect: %w", err)
	}
	return conn, nil
}
