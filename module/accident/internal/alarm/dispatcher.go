package alarm

import (
	"context"
	"log/slog"
	"time"

	"github.com/bhavisha4779/accident-relay/module/accident/domain"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/metrics"
)

type Signaler interface {
	Signal(ctx context.Context, d time.Duration) error
}

type task struct {
	accidentID string
	hospital   string
}

// Dispatcher feeds a single buzzer worker. A full queue drops the alert.
type Dispatcher struct {
	ch       chan task
	signaler Signaler
	duration time.Duration
	log      *slog.Logger
}

func NewDispatcher(signaler Signaler, duration time.Duration, queueSize int, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		ch:       make(chan task, queueSize),
		signaler: signaler,
		duration: duration,
		log:      log,
	}
}

func (d *Dispatcher) Dispatch(a *domain.Accident) bool {
	t := task{accidentID: a.ID, hospital: a.Hospital}

	select {
	case d.ch <- t:
		metrics.AlertsDispatched.Inc()
		return true
	default:
		metrics.AlertsDropped.Inc()
		d.log.Warn("alert queue full, dropping alert", slog.String("accident_id", a.ID))
		return false
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case t := <-d.ch:
			d.sound(ctx, t)
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) sound(ctx context.Context, t task) {
	if err := d.signaler.Signal(ctx, d.duration); err != nil {
		metrics.AlertsFailed.Inc()
		d.log.Error("alert failed",
			slog.String("accident_id", t.accidentID),
			slog.Any("error", err),
		)
		return
	}
	d.log.Debug("alert sounded",
		slog.String("accident_id", t.accidentID),
		slog.String("hospital", t.hospital),
	)
}
