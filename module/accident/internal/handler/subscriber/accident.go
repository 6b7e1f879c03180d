package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-playground/validator/v10"

	"github.com/bhavisha4779/accident-relay/module/accident/domain"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/metrics"
)

type accidentService interface {
	Report(ctx context.Context, ev *domain.LocationEvent) *domain.Accident
}

// accidentMessage uses pointers so a missing coordinate is told apart from 0.
type accidentMessage struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

type AccidentSubscriber struct {
	topic       string
	qos         byte
	accidentSvc accidentService
	validate    *validator.Validate
	log         *slog.Logger
	now         func() time.Time
}

func NewAccidentSubscriber(topic string, qos byte, accidentSvc accidentService, log *slog.Logger) *AccidentSubscriber {
	return &AccidentSubscriber{
		topic:       topic,
		qos:         qos,
		accidentSvc: accidentSvc,
		validate:    validator.New(),
		log:         log,
		now:         time.Now,
	}
}

func (s *AccidentSubscriber) Subscribe(client mqtt.Client) error {
	token := client.Subscribe(s.topic, s.qos, s.handleMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.topic, err)
	}
	s.log.Info("subscribed", slog.String("topic", s.topic), slog.Int("qos", int(s.qos)))
	return nil
}

func (s *AccidentSubscriber) OnConnect(client mqtt.Client) {
	if err := s.Subscribe(client); err != nil {
		s.log.Error("mqtt subscribe", slog.Any("error", err))
	}
}

func (s *AccidentSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	metrics.EventsReceived.Inc()

	ev, err := s.decode(msg)
	if err != nil {
		s.log.Warn("dropping accident message",
			slog.String("topic", msg.Topic()),
			slog.Any("error", err),
		)
		return
	}

	s.accidentSvc.Report(context.Background(), ev)
}

func (s *AccidentSubscriber) decode(msg mqtt.Message) (*domain.LocationEvent, error) {
	var raw accidentMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		metrics.EventsRejected.WithLabelValues(metrics.ReasonDecode).Inc()
		return nil, fmt.Errorf("invalid accident message: %w", err)
	}

	if err := s.validate.Struct(&raw); err != nil {
		metrics.EventsRejected.WithLabelValues(metrics.ReasonValidation).Inc()
		return nil, fmt.Errorf("validation error: %w", err)
	}

	return &domain.LocationEvent{
		DeviceID:   deviceFromTopic(msg.Topic()),
		Lat:        *raw.Latitude,
		Lon:        *raw.Longitude,
		ReceivedAt: s.now(),
	}, nil
}

// deviceFromTopic takes the last topic level, e.g. accidents/alerts/bike_001.
func deviceFromTopic(topic string) string {
	topic = strings.TrimSuffix(topic, "/")
	if i := strings.LastIndex(topic, "/"); i >= 0 {
		return topic[i+1:]
	}
	return topic
}
