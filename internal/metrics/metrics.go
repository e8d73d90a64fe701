// Package metrics collects and exposes Prometheus metrics for the lounge
// server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector is what the services record into.
type MetricsCollector interface {
	RecordDecision(code string, granted bool)
	RecordExtraction(outcome string, d time.Duration)
	RecordDistance(distance float64)
	RecordBooking(paid bool)
	RecordAuditFailure()
}

type Collector struct {
	decisions     *prometheus.CounterVec
	extraction    *prometheus.HistogramVec
	distance      prometheus.Histogram
	bookings      *prometheus.CounterVec
	auditFailures prometheus.Counter
}

var _ MetricsCollector = (*Collector)(nil)

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "luxe_gate_decisions_total",
			Help: "Gate decisions by outcome and rule code.",
		}, []string{"outcome", "code"}),
		extraction: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "luxe_face_extraction_seconds",
			Help:    "Face signature extraction latency.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
		}, []string{"outcome"}),
		distance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "luxe_face_distance",
			Help:    "Cosine distance between live and enrolled signatures.",
			Buckets: []float64{.05, .1, .15, .2, .25, .3, .4, .5, .75, 1, 1.5, 2},
		}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "luxe_bookings_total",
			Help: "Bookings created, by payment state.",
		}, []string{"paid"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "luxe_entry_log_write_failures_total",
			Help: "Gate decisions whose audit row could not be written.",
		}),
	}

	reg.MustRegister(
		c.decisions,
		c.extraction,
		c.distance,
		c.bookings,
		c.auditFailures,
	)
	return c
}

func (c *Collector) RecordDecision(code string, granted bool) {
	outcome := "denied"
	if granted {
		outcome = "granted"
	}
	c.decisions.WithLabelValues(outcome, code).Inc()
}

func (c *Collector) RecordExtraction(outcome string, d time.Duration) {
	c.extraction.WithLabelValues(outcome).Observe(d.Seconds())
}

func (c *Collector) RecordDistance(distance float64) {
	c.distance.Observe(distance)
}

func (c *Collector) RecordBooking(paid bool) {
	c.bookings.WithLabelValues(strconv.FormatBool(paid)).Inc()
}

func (c *Collector) RecordAuditFailure() {
	c.auditFailures.Inc()
}

// Handler serves the registry for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used when no registry is configured.
type Nop struct{}

func (Nop) RecordDecision(string, bool)            {}
func (Nop) RecordExtraction(string, time.Duration) {}
func (Nop) RecordDistance(float64)                 {}
func (Nop) RecordBooking(bool)                     {}
func (Nop) RecordAuditFailure()                    {}
