// Package metrics exposes ledger activity as Prometheus metrics on a
// private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors. Registry is exported for the /metrics handler.
type Metrics struct {
	Registry *prometheus.Registry

	events          *prometheus.CounterVec
	volume          *prometheus.CounterVec
	balance         *prometheus.GaugeVec
	rejections      *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ account.Listener = (*Metrics)(nil)

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_account_events_total",
				Help: "Balance changes by event type and account kind.",
			},
			[]string{"type", "kind"},
		),
		volume: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_event_volume_total",
				Help: "Absolute amount moved by event type.",
			},
			[]string{"type"},
		),
		balance: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ledger_account_balance",
				Help: "Latest known balance per account.",
			},
			[]string{"account_id", "kind"},
		),
		rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operation_rejections_total",
				Help: "Operations refused by the ledger, by operation and reason.",
			},
			[]string{"operation", "reason"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "HTTP request duration by route and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// OnAccountEvent counts the event and tracks the resulting balance.
func (m *Metrics) OnAccountEvent(acc account.Account, e account.Event) error {
	kind := string(acc.Kind())
	m.events.WithLabelValues(string(e.Type), kind).Inc()
	m.volume.WithLabelValues(string(e.Type)).Add(e.Amount.Abs().InexactFloat64())
	m.balance.WithLabelValues(e.AccountID, kind).Set(e.Balance.InexactFloat64())
	return nil
}

// Rejected counts an operation refused with reason.
func (m *Metrics) Rejected(operation, reason string) {
	m.rejections.WithLabelValues(operation, reason).Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
