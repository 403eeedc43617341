package messaging

import "context"

// Producer publishes domain events to the configured message broker.
// Implementations exist for NATS and Kafka; the backend is chosen in config.
type Producer interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}
