package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bhavisha4779/accident-relay/module/accident/domain"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/metrics"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/repository/database"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/repository/publisher"
)

var ErrHistoryDisabled = errors.New("accident history is disabled")

type alertStore interface {
	Set(state domain.AlertState)
}

type alertDispatcher interface {
	Dispatch(a *domain.Accident) bool
}

type RecordOptions struct {
	QueueSize int
	Timeout   time.Duration
}

type AccidentService struct {
	resolver  *Resolver
	state     alertStore
	alerts    alertDispatcher
	history   database.AccidentRepository
	publisher publisher.AccidentPublisher
	log       *slog.Logger

	records       chan *domain.Accident
	recordTimeout time.Duration

	now func() time.Time
}

func NewAccidentService(
	resolver *Resolver,
	state alertStore,
	alerts alertDispatcher,
	history database.AccidentRepository,
	pub publisher.AccidentPublisher,
	opts RecordOptions,
	log *slog.Logger,
) *AccidentService {
	return &AccidentService{
		resolver:      resolver,
		state:         state,
		alerts:        alerts,
		history:       history,
		publisher:     pub,
		log:           log,
		records:       make(chan *domain.Accident, opts.QueueSize),
		recordTimeout: opts.Timeout,
		now:           time.Now,
	}
}

// Report resolves the nearest hospital, replaces the dashboard state and
// queues the buzzer. History and fanout are queued for Run and never block
// the caller; a full queue drops them.
func (s *AccidentService) Report(_ context.Context, ev *domain.LocationEvent) *domain.Accident {
	hospital, dist := s.resolver.Nearest(ev.Lat, ev.Lon)

	occurredAt := ev.ReceivedAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}

	a := &domain.Accident{
		ID:         uuid.NewString(),
		DeviceID:   ev.DeviceID,
		Lat:        ev.Lat,
		Lon:        ev.Lon,
		Hospital:   hospital.Name,
		DistanceKm: dist,
		OccurredAt: occurredAt,
	}

	s.state.Set(a.State())
	metrics.AccidentsResolved.Inc()
	s.alerts.Dispatch(a)

	s.log.Info("accident resolved",
		slog.String("accident_id", a.ID),
		slog.String("device_id", a.DeviceID),
		slog.Float64("lat", a.Lat),
		slog.Float64("lon", a.Lon),
		slog.String("hospital", a.Hospital),
		slog.Float64("distance_km", a.DistanceKm),
	)

	if s.history == nil && s.publisher == nil {
		return a
	}

	select {
	case s.records <- a:
	default:
		metrics.RecordsDropped.Inc()
		s.log.Warn("record queue full, skipping history and fanout", slog.String("accident_id", a.ID))
	}

	return a
}

// Run saves and publishes queued accidents until ctx is done.
func (s *AccidentService) Run(ctx context.Context) {
	for {
		select {
		case a := <-s.records:
			s.record(ctx, a)
		case <-ctx.Done():
			return
		}
	}
}

func (s *AccidentService) record(ctx context.Context, a *domain.Accident) {
	if s.history != nil {
		hctx, cancel := context.WithTimeout(ctx, s.recordTimeout)
		err := s.history.Insert(hctx, a)
		cancel()
		if err != nil {
			metrics.HistoryFailures.Inc()
			s.log.Error("save accident", slog.String("accident_id", a.ID), slog.Any("error", err))
		}
	}

	if s.publisher != nil {
		pctx, cancel := context.WithTimeout(ctx, s.recordTimeout)
		err := s.publisher.PublishAccident(pctx, a)
		cancel()
		if err != nil {
			metrics.PublishFailures.Inc()
			s.log.Error("publish accident", slog.String("accident_id", a.ID), slog.Any("error", err))
		}
	}
}

func (s *AccidentService) ListRecent(ctx context.Context, limit int) ([]domain.Accident, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.ListRecent(ctx, limit)
}

func (s *AccidentService) Hospitals() []domain.Hospital {
	return s.resolver.Hospitals()
}
