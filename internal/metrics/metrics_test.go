package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBooking(BookingCreated)
	c.RecordBooking(BookingConflict)
	c.RecordBooking(BookingConflict)
	c.RecordPayment(99)
	c.RecordPayment(0)
	c.RecordTokenIssue(true)
	c.RecordTokenIssue(false)
	c.RecordHTTPRequest("POST", "/booking", 200, 15*time.Millisecond)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"created bookings", testutil.ToFloat64(c.bookings.WithLabelValues(BookingCreated)), 1},
		{"conflicting bookings", testutil.ToFloat64(c.bookings.WithLabelValues(BookingConflict)), 2},
		{"payments", testutil.ToFloat64(c.payments), 2},
		{"payment amount", testutil.ToFloat64(c.paymentAmount), 99},
		{"granted tokens", testutil.ToFloat64(c.tokens.WithLabelValues("granted")), 1},
		{"denied tokens", testutil.ToFloat64(c.tokens.WithLabelValues("denied")), 1},
		{"http requests", testutil.ToFloat64(c.httpRequests.WithLabelValues("POST", "/booking", "200")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, tt.got)
		}
	}

	if n := testutil.CollectAndCount(c.httpLatency); n != 1 {
		t.Errorf("expected one latency series, got %d", n)
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordBooking(BookingCreated)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `doctors_portal_bookings_total{outcome="created"} 1`) {
		t.Errorf("expected booking counter in scrape output, got:\n%s", body)
	}
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordBooking(BookingFailed)
	r.RecordPayment(1)
	r.RecordTokenIssue(true)
	r.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
}
