package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
)

// PublishedEvent is one captured call to Publish.
type PublishedEvent struct {
	Type    string
	Payload []byte
}

// MockEventPublisher implements ports.EventPublisher for testing the outbox
// relay without a RabbitMQ connection.
type MockEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents []PublishedEvent

	// Error injection for testing error scenarios
	PublishError error

	PublishCallCount int
}

var _ ports.EventPublisher = (*MockEventPublisher)(nil)

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		PublishedEvents: make([]PublishedEvent, 0),
	}
}

func (m *MockEventPublisher) Publish(ctx context.Context, eventType string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++

	if m.PublishError != nil {
		return m.PublishError
	}

	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Type: eventType, Payload: payload})
	return nil
}

// GetPublishedEvents returns a copy of everything published so far.
func (m *MockEventPublisher) GetPublishedEvents() []PublishedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]PublishedEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockEventPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}
