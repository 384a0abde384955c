package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// RelayConfig holds configuration for the outbox relay service.
// This is a minimal config that only includes what the relay needs.
type RelayConfig struct {
	Environment    string `envconfig:"ENV" default:"development"`
	DatabaseURL    string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	RabbitMQURL    string `envconfig:"RABBITMQ_URL" required:"true"`
	EventQueueName string `envconfig:"EVENT_QUEUE_NAME" default:"doctors_portal_events"`
	HealthPort     string `envconfig:"RELAY_HEALTH_PORT" default:"8090"`
}

func LoadRelayConfig() (*RelayConfig, error) {
	var cfg RelayConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}
