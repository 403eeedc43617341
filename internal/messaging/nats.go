package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

type NATSProducer struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

func NewNATSProducer(url string, subject string, logger *slog.Logger) (*NATSProducer, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	logger.Info("NATS producer initialized", "url", url, "subject", subject)

	return &NATSProducer{
		conn:    nc,
		subject: subject,
		logger:  logger,
	}, nil
}

func (p *NATSProducer) Publish(ctx context.Context, key string, value interface{}) error {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	if err := p.conn.Publish(p.subject, valueBytes); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event to NATS", "error", err)
		return err
	}

	p.logger.InfoContext(ctx, "event published to NATS", "subject", p.subject, "key", key)
	return nil
}

func (p *NATSProducer) Close() error {
	p.conn.Close()
	return nil
}
