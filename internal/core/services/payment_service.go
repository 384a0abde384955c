package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService struct {
	paymentRepo ports.PaymentRepository
	processor   ports.PaymentProcessor
	metrics     metrics.Recorder
	logger      *zap.Logger
}

var _ ports.PaymentService = (*PaymentService)(nil)

func NewPaymentService(
	paymentRepo ports.PaymentRepository,
	processor ports.PaymentProcessor,
	recorder metrics.Recorder,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		processor:   processor,
		metrics:     recorder,
		logger:      logger,
	}
}

// CreateIntent asks the payment processor for an intent covering price
// and returns the client secret the browser completes the payment with.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return "", fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}

	amount := domain.MinorUnits(price)
	secret, err := s.processor.CreateIntent(ctx, amount, domain.PaymentCurrency)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return secret, nil
}

// Reconcile records a completed payment and flags the referenced booking
// as paid. An unknown booking id leaves the payment recorded.
func (s *PaymentService) Reconcile(ctx context.Context, req domain.PaymentRequest) (*domain.MutationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payment := domain.Payment{
		ID:            uuid.NewString(),
		BookingID:     req.BookingID,
		TransactionID: req.TransactionID,
		Price:         req.Price,
		Email:         req.Email,
		CreatedAt:     time.Now().UTC(),
	}

	event := ports.PaymentRecordedEvent{
		PaymentID:     payment.ID,
		BookingID:     payment.BookingID,
		TransactionID: payment.TransactionID,
		Price:         payment.Price,
		Email:         payment.Email,
	}

	if err := s.paymentRepo.Reconcile(ctx, payment, event); err != nil {
		return nil, fmt.Errorf("reconcile payment: %w", err)
	}

	s.metrics.RecordPayment(payment.Price)
	s.logger.Info("payment recorded",
		zap.String("payment_id", payment.ID),
		zap.String("booking_id", payment.BookingID),
		zap.String("transaction_id", payment.TransactionID),
	)

	return domain.Inserted(payment.ID), nil
}
