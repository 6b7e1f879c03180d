package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "accident_relay"

var (
	EventsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_received_total",
		Help:      "Accident messages delivered by the broker.",
	})

	EventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_rejected_total",
		Help:      "Accident messages dropped before resolution, by reason.",
	}, []string{"reason"})

	AccidentsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accidents_resolved_total",
		Help:      "Accidents matched to a hospital.",
	})

	AlertsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_dispatched_total",
		Help:      "Buzzer alerts queued.",
	})

	AlertsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_dropped_total",
		Help:      "Buzzer alerts dropped because the queue was full.",
	})

	AlertsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_failed_total",
		Help:      "Buzzer alerts that returned an error.",
	})

	RecordsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_dropped_total",
		Help:      "Accidents skipped for history and fanout because the record queue was full.",
	})

	HistoryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_write_failures_total",
		Help:      "Accident history inserts that failed.",
	})

	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fanout_publish_failures_total",
		Help:      "Accident fanout publishes that failed.",
	})
)

const (
	ReasonDecode     = "decode"
	ReasonValidation = "validation"
)

func Handler() http.Handler {
	return promhttp.Handler()
}
