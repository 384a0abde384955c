// Package metrics exposes Prometheus collectors for the booking service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	BookingCreated  = "created"
	BookingConflict = "conflict"
	BookingFailed   = "failed"
)

// Recorder is what services and middleware report to.
type Recorder interface {
	RecordBooking(outcome string)
	RecordPayment(price float64)
	RecordTokenIssue(granted bool)
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

type Collector struct {
	bookings      *prometheus.CounterVec
	payments      prometheus.Counter
	paymentAmount prometheus.Counter
	tokens        *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector registers the service metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "doctors_portal_bookings_total",
			Help: "Booking submissions by outcome.",
		}, []string{"outcome"}),
		payments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "doctors_portal_payments_total",
			Help: "Payments recorded.",
		}),
		paymentAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "doctors_portal_payment_amount_total",
			Help: "Sum of recorded payment prices.",
		}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "doctors_portal_token_requests_total",
			Help: "Access token requests by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "doctors_portal_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "doctors_portal_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.bookings,
		c.payments,
		c.paymentAmount,
		c.tokens,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

func (c *Collector) RecordBooking(outcome string) {
	c.bookings.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordPayment(price float64) {
	c.payments.Inc()
	if price > 0 {
		c.paymentAmount.Add(price)
	}
}

func (c *Collector) RecordTokenIssue(granted bool) {
	result := "denied"
	if granted {
		result = "granted"
	}
	c.tokens.WithLabelValues(result).Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used where metrics are not wired, e.g. tests.
type Nop struct{}

func (Nop) RecordBooking(string) {}
func (Nop) RecordPayment(float64) {}
func (Nop) RecordTokenIssue(bool) {}
func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
