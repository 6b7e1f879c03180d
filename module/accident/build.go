package accident

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bhavisha4779/accident-relay/config"
	"github.com/bhavisha4779/accident-relay/module/accident/domain"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/alarm"
	handler "github.com/bhavisha4779/accident-relay/module/accident/internal/handler/http"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/handler/subscriber"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/metrics"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/repository/database"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/repository/database/postgres"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/repository/memory"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/repository/publisher"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/repository/publisher/rabbitmq"
	"github.com/bhavisha4779/accident-relay/module/accident/service"
)

type Module struct {
	AccidentSvc *service.AccidentService
	State       *memory.AlertStore
	dispatcher  *alarm.Dispatcher
	handler     *handler.DashboardHandler
	subscriber  *subscriber.AccidentSubscriber
}

// Build wires the accident module. db and amqpConn may be nil when history
// or fanout is disabled.
func Build(ctx context.Context, cfg *config.Config, db *sql.DB, amqpConn *amqp.Connection, log *slog.Logger) (*Module, error) {
	resolver, err := service.NewResolver(toHospitals(cfg.Hospitals))
	if err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}

	var history database.AccidentRepository
	if db != nil {
		repo := postgres.NewAccidentRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		history = repo
	}

	var pub publisher.AccidentPublisher
	if amqpConn != nil {
		p, err := rabbitmq.NewAccidentPublisher(amqpConn)
		if err != nil {
			return nil, fmt.Errorf("accident publisher: %w", err)
		}
		pub = p
	}

	var signaler alarm.Signaler
	if cfg.Buzzer.Enabled {
		signaler = alarm.OpenBuzzer(cfg.Buzzer.Pin, log)
	} else {
		log.Warn("buzzer disabled by config")
		signaler = alarm.NewNoop(log)
	}

	state := memory.NewAlertStore()
	dispatcher := alarm.NewDispatcher(signaler, cfg.Buzzer.Duration, cfg.Alert.QueueSize, log)
	accidentSvc := service.NewAccidentService(resolver, state, dispatcher, history, pub, service.RecordOptions{
		QueueSize: cfg.Record.QueueSize,
		Timeout:   cfg.Record.Timeout,
	}, log)

	return &Module{
		AccidentSvc: accidentSvc,
		State:       state,
		dispatcher:  dispatcher,
		handler:     handler.NewDashboardHandler(state, accidentSvc, cfg.Dashboard.PollInterval),
		subscriber:  subscriber.NewAccidentSubscriber(cfg.MQTT.Topic, cfg.MQTT.QoS, accidentSvc, log),
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func (m *Module) OnConnect(client mqtt.Client) {
	m.subscriber.OnConnect(client)
}

// Run drives the buzzer and record queues until ctx is done.
func (m *Module) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.dispatcher.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		m.AccidentSvc.Run(ctx)
	}()
	wg.Wait()
}

func toHospitals(in []config.HospitalConfig) []domain.Hospital {
	out := make([]domain.Hospital, len(in))
	for i, h := range in {
		out[i] = domain.Hospital{Name: h.Name, Lat: h.Latitude, Lon: h.Longitude}
	}
	return out
}
