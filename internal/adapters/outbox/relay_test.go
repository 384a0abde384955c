package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AchilleasB/doctors-portal/booking-service/test/mocks"
	"go.uber.org/zap"
)

func newTestRelay(publisher *mocks.MockEventPublisher) *Relay {
	return NewRelay(nil, "", publisher, zap.NewNop())
}

func TestRelay_InitialHealth(t *testing.T) {
	relay := newTestRelay(mocks.NewMockEventPublisher())

	if !relay.IsHealthy() {
		t.Error("expected new relay to be healthy")
	}
	if !relay.IsReady() {
		t.Error("expected new relay to be ready")
	}
}

func TestRelay_NotReadyWhenStale(t *testing.T) {
	relay := newTestRelay(mocks.NewMockEventPublisher())
	relay.lastProcessed = time.Now().Add(-healthCheckStaleThreshold - time.Minute)

	if relay.IsReady() {
		t.Error("expected stale relay to be not ready")
	}
	if !relay.IsHealthy() {
		t.Error("staleness should not affect liveness")
	}
}

func TestRelay_MarkUnhealthyThenProcessed(t *testing.T) {
	relay := newTestRelay(mocks.NewMockEventPublisher())

	relay.markUnhealthy()
	if relay.IsHealthy() || relay.IsReady() {
		t.Fatal("expected relay to be unhealthy and unready")
	}

	relay.markProcessed()
	if !relay.IsHealthy() || !relay.IsReady() {
		t.Error("expected relay to recover after processing")
	}
}

func TestRelay_PublishForwardsTypeAndPayload(t *testing.T) {
	publisher := mocks.NewMockEventPublisher()
	relay := newTestRelay(publisher)

	rec := record{
		ID:        "evt-1",
		EventType: "payment.recorded",
		Payload:   []byte(`{"paymentId":"p-1","transactionId":"tx_1"}`),
	}
	if err := relay.publish(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events := publisher.GetPublishedEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != "payment.recorded" {
		t.Errorf("expected type 'payment.recorded', got %q", events[0].Type)
	}
	if string(events[0].Payload) != string(rec.Payload) {
		t.Errorf("expected payload %s, got %s", rec.Payload, events[0].Payload)
	}
}

func TestRelay_PublishRejectsMalformedPayload(t *testing.T) {
	publisher := mocks.NewMockEventPublisher()
	relay := newTestRelay(publisher)

	err := relay.publish(context.Background(), record{ID: "evt-1", EventType: "booking.created", Payload: []byte("{not json")})
	if !errors.Is(err, errMalformedPayload) {
		t.Errorf("expected errMalformedPayload, got %v", err)
	}
	if publisher.GetPublishCount() != 0 {
		t.Error("malformed payload must not reach the broker")
	}
}

func TestRelay_PublishBatch(t *testing.T) {
	records := []record{
		{ID: "evt-1", EventType: "booking.created", Payload: []byte(`{"bookingId":"b-1"}`)},
		{ID: "evt-2", EventType: "booking.created", Payload: []byte(`garbage`)},
		{ID: "evt-3", EventType: "payment.recorded", Payload: []byte(`{"paymentId":"p-1"}`)},
	}

	tests := []struct {
		name         string
		publishError error
		wantDone     []string
		wantCalls    int
	}{
		{
			name:      "broker up publishes valid and retires malformed",
			wantDone:  []string{"evt-1", "evt-2", "evt-3"},
			wantCalls: 2,
		},
		{
			name:         "broker down only retires malformed",
			publishError: errors.New("connection refused"),
			wantDone:     []string{"evt-2"},
			wantCalls:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := mocks.NewMockEventPublisher()
			publisher.PublishError = tt.publishError
			relay := newTestRelay(publisher)

			done := relay.publishBatch(context.Background(), records)

			if len(done) != len(tt.wantDone) {
				t.Fatalf("expected done %v, got %v", tt.wantDone, done)
			}
			for i := range done {
				if done[i] != tt.wantDone[i] {
					t.Errorf("expected done[%d] = %q, got %q", i, tt.wantDone[i], done[i])
				}
			}
			if publisher.GetPublishCount() != tt.wantCalls {
				t.Errorf("expected %d publish calls, got %d", tt.wantCalls, publisher.GetPublishCount())
			}
		})
	}
}
