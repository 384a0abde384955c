package handler

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/adapters/middleware"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/services"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/metrics"
	"github.com/AchilleasB/doctors-portal/booking-service/test/mocks"
	"go.uber.org/zap"
)

type testServer struct {
	handler   http.Handler
	users     *mocks.MockUserRepository
	bookings  *mocks.MockBookingRepository
	payments  *mocks.MockPaymentRepository
	options   *mocks.MockAppointmentOptionRepository
	processor *mocks.MockPaymentProcessor
	auth      *services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	logger := zap.NewNop()
	rec := metrics.Nop{}

	ts := &testServer{
		users:    mocks.NewMockUserRepository(),
		bookings: mocks.NewMockBookingRepository(),
		options: mocks.NewMockAppointmentOptionRepository(
			domain.AppointmentOption{ID: "opt-1", Name: "Braces", Slots: []string{"9AM", "10AM"}, Price: 99},
			domain.AppointmentOption{ID: "opt-2", Name: "Teeth Cleaning", Slots: []string{"9AM"}, Price: 99},
		),
		processor: mocks.NewMockPaymentProcessor("pi_123_secret_456"),
	}
	ts.payments = mocks.NewMockPaymentRepository(ts.bookings)
	ts.auth = services.NewAuthService(ts.users, privateKey, rec, logger)

	userService := services.NewUserService(ts.users, logger)

	ts.handler = NewRouter(&RouterDeps{
		Logger:             logger,
		Metrics:            rec,
		CORSAllowedOrigins: []string{"*"},
		Auth:               middleware.NewAuthMiddleware(&privateKey.PublicKey, userService, logger),
		CatalogService:     services.NewCatalogService(ts.options, ts.bookings, logger),
		BookingService:     services.NewBookingService(ts.bookings, mocks.NewMockBookingLocker(), rec, logger),
		PaymentService:     services.NewPaymentService(ts.payments, ts.processor, rec, logger),
		AuthService:        ts.auth,
		UserService:        userService,
		DoctorService:      services.NewDoctorService(mocks.NewMockDoctorRepository(), logger),
		Health:             NewHealthHandler(okPinger{}, nil, "test"),
	})

	ts.users.SeedUser(&domain.User{ID: "u-pat", Name: "Pat", Email: "pat@example.com"})
	ts.users.SeedUser(&domain.User{ID: "u-admin", Name: "Ada", Email: "admin@example.com", Role: domain.RoleAdmin})

	return ts
}

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

func (ts *testServer) token(t *testing.T, email string) string {
	t.Helper()
	token, err := ts.auth.IssueToken(context.Background(), email)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

var bracesBooking = map[string]any{
	"appoinmentDate": "2024-01-01",
	"treatmentName":  "Braces",
	"patient":        "Pat",
	"slot":           "9AM",
	"email":          "pat@example.com",
	"phone":          "555-0100",
	"price":          99,
}

func TestBanner(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/", nil, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != banner {
		t.Errorf("expected %q, got %q", banner, rec.Body.String())
	}
}

func TestBookingThenAvailability(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/booking", bracesBooking, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[domain.MutationResult](t, rec)
	if !created.Acknowledged || created.InsertedID == "" {
		t.Fatalf("expected acknowledged insert, got %+v", created)
	}

	rec = ts.do(t, http.MethodGet, "/appointmentOptions?date=2024-01-01", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	options := decode[[]domain.AppointmentOption](t, rec)
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
	if got := options[0].Slots; len(got) != 1 || got[0] != "10AM" {
		t.Errorf("expected Braces slots [10AM], got %v", got)
	}
	if got := options[1].Slots; len(got) != 1 || got[0] != "9AM" {
		t.Errorf("expected Teeth Cleaning untouched, got %v", got)
	}

	rec = ts.do(t, http.MethodGet, "/appointmentOptions?date=2024-01-02", nil, "")
	options = decode[[]domain.AppointmentOption](t, rec)
	if got := options[0].Slots; len(got) != 2 {
		t.Errorf("expected other dates unaffected, got %v", got)
	}
}

func TestBooking_Conflict(t *testing.T) {
	ts := newTestServer(t)

	if rec := ts.do(t, http.MethodPost, "/booking", bracesBooking, ""); rec.Code != http.StatusOK {
		t.Fatalf("first booking: expected 200, got %d", rec.Code)
	}

	again := map[string]any{}
	for k, v := range bracesBooking {
		again[k] = v
	}
	again["slot"] = "10AM"

	rec := ts.do(t, http.MethodPost, "/booking", again, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := decode[domain.MutationResult](t, rec)
	if result.Acknowledged {
		t.Error("expected unacknowledged result")
	}
	if result.Message != "you already have a booking on 2024-01-01" {
		t.Errorf("unexpected message %q", result.Message)
	}
}

func TestBooking_InvalidBody(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/booking", map[string]any{"treatmentName": "Braces"}, "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestBooking_BodyTooLarge(t *testing.T) {
	ts := newTestServer(t)

	body := `{"treatmentName":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/booking", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
	if ts.bookings.CreateCalls != 0 {
		t.Error("oversized body must not reach the store")
	}
}

func TestListBookings_Access(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/booking", bracesBooking, "")

	tests := []struct {
		name       string
		query      string
		token      string
		wantStatus int
	}{
		{"no token", "pat@example.com", "", http.StatusUnauthorized},
		{"invalid token", "pat@example.com", "not-a-jwt", http.StatusForbidden},
		{"email mismatch", "admin@example.com", ts.token(t, "pat@example.com"), http.StatusForbidden},
		{"own bookings", "pat@example.com", ts.token(t, "pat@example.com"), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/bookings?email="+tt.query, nil, tt.token)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusOK {
				bookings := decode[[]domain.Booking](t, rec)
				if len(bookings) != 1 || bookings[0].Email != "pat@example.com" {
					t.Errorf("expected one booking for pat, got %+v", bookings)
				}
			}
		})
	}
}

func TestGetBooking(t *testing.T) {
	ts := newTestServer(t)
	ts.bookings.SeedBooking(domain.Booking{ID: "b-1", AppointmentDate: "2024-01-01", TreatmentName: "Braces", Slot: "9AM", Email: "pat@example.com"})

	rec := ts.do(t, http.MethodGet, "/bookings/b-1", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[domain.Booking](t, rec); got.ID != "b-1" {
		t.Errorf("expected booking b-1, got %q", got.ID)
	}

	rec = ts.do(t, http.MethodGet, "/bookings/missing", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestJWT(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/jwt?email=pat@example.com", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[TokenResponse](t, rec); got.AccessToken == "" {
		t.Error("expected a token")
	}

	rec = ts.do(t, http.MethodGet, "/jwt?email=stranger@example.com", nil, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := decode[TokenResponse](t, rec); got.AccessToken != "" {
		t.Errorf("expected empty token, got %q", got.AccessToken)
	}
}

func TestPayments(t *testing.T) {
	ts := newTestServer(t)
	ts.bookings.SeedBooking(domain.Booking{ID: "b-1", AppointmentDate: "2024-01-01", TreatmentName: "Braces", Slot: "9AM", Email: "pat@example.com"})

	rec := ts.do(t, http.MethodPost, "/create-payment-intent", map[string]any{"price": 99.99}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[paymentIntentResponse](t, rec); got.ClientSecret != "pi_123_secret_456" {
		t.Errorf("unexpected client secret %q", got.ClientSecret)
	}
	if ts.processor.Amounts[0] != 9999 {
		t.Errorf("expected 9999 minor units, got %d", ts.processor.Amounts[0])
	}

	rec = ts.do(t, http.MethodPost, "/payments", map[string]any{
		"bookingId":     "b-1",
		"transactionId": "tx_1",
		"price":         99.99,
		"email":         "pat@example.com",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[domain.MutationResult](t, rec); !got.Acknowledged || got.InsertedID == "" {
		t.Errorf("expected acknowledged insert, got %+v", got)
	}

	booking, err := ts.bookings.FindByID(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !booking.Paid || booking.TransactionID != "tx_1" {
		t.Errorf("expected booking paid with tx_1, got %+v", booking)
	}
}

func TestCreatePaymentIntent_Errors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/create-payment-intent", map[string]any{"price": 0}, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero price, got %d", rec.Code)
	}

	ts.processor.Error = errors.New("stripe unavailable")
	rec = ts.do(t, http.MethodPost, "/create-payment-intent", map[string]any{"price": 10}, "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if got := decode[messageResponse](t, rec); got.Message != "internal server error" {
		t.Errorf("expected generic message, got %q", got.Message)
	}
}

func TestUsers(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/users", map[string]any{"name": "Sam", "email": "sam@example.com", "role": "admin"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[domain.MutationResult](t, rec); !got.Acknowledged {
		t.Errorf("expected acknowledged, got %+v", got)
	}

	rec = ts.do(t, http.MethodGet, "/users/admin/sam@example.com", nil, "")
	if got := decode[adminStatusResponse](t, rec); got.IsAdmin {
		t.Error("role in the request body must be ignored")
	}

	rec = ts.do(t, http.MethodPost, "/users", map[string]any{"name": "Sam", "email": "sam@example.com"}, "")
	if got := decode[domain.MutationResult](t, rec); got.Acknowledged || got.Message != "user already exists" {
		t.Errorf("expected duplicate rejection, got %+v", got)
	}

	rec = ts.do(t, http.MethodGet, "/users", nil, "")
	if got := decode[[]domain.User](t, rec); len(got) != 3 {
		t.Errorf("expected 3 users, got %d", len(got))
	}

	rec = ts.do(t, http.MethodGet, "/users/admin/admin@example.com", nil, "")
	if got := decode[adminStatusResponse](t, rec); !got.IsAdmin {
		t.Error("expected admin@example.com to be admin")
	}
}

func TestPromoteToAdmin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/users/admin/u-pat", nil, ts.token(t, "pat@example.com"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non admin: expected 403, got %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPut, "/users/admin/u-pat", nil, ts.token(t, "admin@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := decode[domain.MutationResult](t, rec)
	if result.MatchedCount == nil || *result.MatchedCount != 1 || *result.ModifiedCount != 1 {
		t.Errorf("expected matched=1 modified=1, got %+v", result)
	}

	rec = ts.do(t, http.MethodGet, "/users/admin/pat@example.com", nil, "")
	if got := decode[adminStatusResponse](t, rec); !got.IsAdmin {
		t.Error("expected pat to be admin after promotion")
	}
}

func TestDoctors(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, "admin@example.com")

	rec := ts.do(t, http.MethodGet, "/doctors", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/doctors", nil, ts.token(t, "pat@example.com"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non admin, got %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/doctors", map[string]any{"name": "Dr. Who", "email": "who@example.com", "specialty": "Braces"}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	id := decode[domain.MutationResult](t, rec).InsertedID

	rec = ts.do(t, http.MethodGet, "/doctors", nil, admin)
	if got := decode[[]domain.Doctor](t, rec); len(got) != 1 || got[0].Name != "Dr. Who" {
		t.Errorf("expected one doctor, got %+v", got)
	}

	rec = ts.do(t, http.MethodDelete, "/doctors/"+id, nil, admin)
	result := decode[domain.MutationResult](t, rec)
	if result.DeletedCount == nil || *result.DeletedCount != 1 {
		t.Errorf("expected deletedCount 1, got %+v", result)
	}
}

func TestSetPrice(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/appointmentOptions/price", map[string]any{"price": 120}, ts.token(t, "admin@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/appointmentOptions", nil, "")
	for _, o := range decode[[]domain.AppointmentOption](t, rec) {
		if o.Price != 120 {
			t.Errorf("expected price 120 on %s, got %v", o.Name, o.Price)
		}
	}
}

func TestSpecialties(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/appointmentSpecialty", nil, "")
	got := decode[[]domain.Specialty](t, rec)
	if len(got) != 2 || got[0].Name != "Braces" {
		t.Errorf("unexpected specialties %+v", got)
	}
}

type panickingCatalog struct {
	ports.CatalogService
}

func (panickingCatalog) Specialties(context.Context) ([]domain.Specialty, error) {
	panic("catalog exploded")
}

type requestLog struct {
	metrics.Nop
	mu      sync.Mutex
	entries []string
}

func (l *requestLog) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, method+" "+route+" "+http.StatusText(status))
}

func TestRouter_PanicIsRecordedAs500(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	log := &requestLog{}
	handler := NewRouter(&RouterDeps{
		Logger:         zap.NewNop(),
		Metrics:        log,
		Auth:           middleware.NewAuthMiddleware(&key.PublicKey, nil, zap.NewNop()),
		CatalogService: panickingCatalog{},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointmentSpecialty", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	want := "GET /appointmentSpecialty Internal Server Error"
	if len(log.entries) != 1 || log.entries[0] != want {
		t.Errorf("expected %q recorded, got %v", want, log.entries)
	}
}
