package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bhavisha4779/accident-relay/config"
	"github.com/bhavisha4779/accident-relay/module/accident/domain"
)

func decodeAlert(body []byte) (domain.AccidentEvent, error) {
	var ev domain.AccidentEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("decode accident alert: %w", err)
	}
	if ev.Hospital == "" {
		ev.Hospital = domain.UnsetHospital
	}
	return ev, nil
}

func logAlert(log *slog.Logger, d amqp.Delivery) {
	ev, err := decodeAlert(d.Body)
	if err != nil {
		log.Warn("skipping accident alert", slog.String("message_id", d.MessageId), slog.Any("error", err))
		return
	}

	log.Info("accident alert",
		slog.String("accident_id", ev.ID),
		slog.String("device_id", ev.DeviceID),
		slog.Float64("lat", ev.Latitude),
		slog.Float64("lon", ev.Longitude),
		slog.String("hospital", ev.Hospital),
		slog.Float64("distance_km", ev.DistanceKm),
		slog.Int64("timestamp", ev.Timestamp),
	)
}

func run(log *slog.Logger, url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(domain.EventExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(domain.EventQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(domain.EventQueue, "", domain.EventExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := ch.Consume(domain.EventQueue, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	log.Info("waiting for accident alerts", slog.String("queue", domain.EventQueue))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			logAlert(log, d)
		case <-sig:
			log.Info("shutting down")
			return nil
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(log, cfg.RabbitMQ.URL); err != nil {
		log.Error("event listener", slog.Any("error", err))
		os.Exit(1)
	}
}
