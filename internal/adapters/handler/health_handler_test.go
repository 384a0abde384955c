package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AchilleasB/doctors-portal/booking-service/test/mocks"
)

type failingPinger struct{}

func (failingPinger) PingContext(ctx context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	h := NewHealthHandler(nil, nil, "")

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.Status != "UP" || resp.Version != "unknown" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		db         DBPinger
		redis      RedisPinger
		wantStatus int
		wantDown   []string
	}{
		{
			name:       "all up",
			db:         okPinger{},
			redis:      mocks.NewMockRedisClient(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "database down",
			db:         failingPinger{},
			redis:      mocks.NewMockRedisClient(),
			wantStatus: http.StatusServiceUnavailable,
			wantDown:   []string{"database"},
		},
		{
			name:       "nothing configured",
			wantStatus: http.StatusServiceUnavailable,
			wantDown:   []string{"database", "redis"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.redis, "1.0.0")

			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			for _, name := range tt.wantDown {
				if resp.Checks[name].Status != "DOWN" {
					t.Errorf("expected %s DOWN, got %+v", name, resp.Checks[name])
				}
			}
		})
	}
}
