package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/config"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/lib/pq"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

// errMalformedPayload marks events that can never be published.
var errMalformedPayload = errors.New("malformed outbox payload")

type record struct {
	ID        string
	EventType string
	Payload   []byte
}

// Relay listens for PostgreSQL NOTIFY signals on the outbox channel and
// forwards the stored booking and payment events to the broker.
type Relay struct {
	db        *sql.DB
	dbURL     string
	publisher ports.EventPublisher
	listener  *pq.Listener
	dbCB      *gobreaker.CircuitBreaker
	logger    *zap.Logger

	mu            sync.RWMutex
	lastProcessed time.Time
	healthy       bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.EventPublisher, logger *zap.Logger) *Relay {
	return &Relay{
		db:            db,
		dbURL:         dbURL,
		publisher:     publisher,
		dbCB:          config.NewCircuitBreaker(config.BreakerRelayPostgres),
		logger:        logger,
		lastProcessed: time.Now(),
		healthy:       true,
	}
}

// IsHealthy is the liveness signal. An open breaker does not make the
// relay unhealthy, only unready.
func (r *Relay) IsHealthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.healthy
}

// IsReady reports whether the relay can currently move events.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy
}

func (r *Relay) markProcessed() {
	r.mu.Lock()
	r.lastProcessed = time.Now()
	r.healthy = true
	r.mu.Unlock()
}

func (r *Relay) markUnhealthy() {
	r.mu.Lock()
	r.healthy = false
	r.mu.Unlock()
}

// Start blocks until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.logger.Warn("outbox listener error", zap.Error(err))
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}

	r.logger.Info("outbox relay listening", zap.String("channel", outboxChannelName))

	// Catch up on anything written while the relay was down.
	if err := r.processUnprocessedEvents(ctx); err != nil {
		r.logger.Error("processing startup backlog", zap.Error(err))
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay shutting down")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				// pq sends nil after a reconnect
				r.logger.Warn("outbox listener reconnected")
				r.markUnhealthy()
				if err := r.processUnprocessedEvents(ctx); err == nil {
					r.markProcessed()
				}
				continue
			}

			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				r.logger.Error("processing outbox event",
					zap.String("event_id", notification.Extra),
					zap.Error(err),
				)
			} else {
				r.markProcessed()
			}

		case <-ticker.C:
			go r.listener.Ping()

			if err := r.processUnprocessedEvents(ctx); err != nil {
				r.logger.Error("periodic outbox processing", zap.Error(err))
			} else {
				r.markProcessed()
			}
		}
	}
}

// publish forwards one stored event. Malformed payloads are reported with
// errMalformedPayload so the caller can retire them.
func (r *Relay) publish(ctx context.Context, rec record) error {
	if !json.Valid(rec.Payload) {
		return errMalformedPayload
	}
	return r.publisher.Publish(ctx, rec.EventType, rec.Payload)
}

func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var rec record
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&rec.ID, &rec.EventType, &rec.Payload)
		if errors.Is(err, sql.ErrNoRows) {
			// already handled, or locked by the batch pass
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.publish(ctx, rec); err != nil {
			if !errors.Is(err, errMalformedPayload) {
				return nil, err
			}
			r.logger.Error("dropping malformed outbox event", zap.String("event_id", rec.ID))
		}

		if err := markDone(ctx, tx, rec.ID); err != nil {
			return nil, err
		}

		r.logger.Debug("outbox event published",
			zap.String("event_id", rec.ID),
			zap.String("event_type", rec.EventType),
		)
		return nil, tx.Commit()
	})
	return err
}

func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				rows.Close()
				return nil, err
			}
			records = append(records, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		done := r.publishBatch(ctx, records)
		for _, id := range done {
			if err := markDone(ctx, tx, id); err != nil {
				return nil, err
			}
		}

		if len(done) > 0 {
			r.logger.Info("outbox batch published",
				zap.Int("published", len(done)),
				zap.Int("pending", len(records)-len(done)),
			)
		}
		return nil, tx.Commit()
	})
	return err
}

// publishBatch publishes records in order and returns the ids that can be
// marked processed. A failed publish leaves the record for the next pass.
func (r *Relay) publishBatch(ctx context.Context, records []record) []string {
	done := make([]string, 0, len(records))
	for _, rec := range records {
		err := r.publish(ctx, rec)
		switch {
		case errors.Is(err, errMalformedPayload):
			r.logger.Error("dropping malformed outbox event", zap.String("event_id", rec.ID))
		case err != nil:
			r.logger.Warn("publishing outbox event",
				zap.String("event_id", rec.ID),
				zap.String("event_type", rec.EventType),
				zap.Error(err),
			)
			continue
		}
		done = append(done, rec.ID)
	}
	return done
}

func markDone(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, "UPDATE outbox_events SET processed_at = NOW() WHERE id = $1", id)
	return err
}
