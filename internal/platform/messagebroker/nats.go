package messagebroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher sends raw payloads to a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// NatsClient wraps a NATS connection.
type NatsClient struct {
	Conn   *nats.Conn
	Logger *slog.Logger
}

// NewNatsClient connects to NATS with infinite reconnects.
// natsURL example: "nats://localhost:4222"
func NewNatsClient(natsURL string, appName string, logger *slog.Logger) (*NatsClient, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name(appName),
		nats.Timeout(5*time.Second),
		nats.PingInterval(20*time.Second),
		nats.MaxPingsOutstanding(3),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NatsClient{Conn: nc, Logger: logger}, nil
}

// Publish sends data on subject. ctx is checked before the (non-blocking) publish.
func (c *NatsClient) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.Conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (c *NatsClient) Close() {
	if c.Conn != nil && !c.Conn.IsClosed() {
		if err := c.Conn.Drain(); err != nil {
			c.Logger.Warn("NATS drain failed", "error", err)
			c.Conn.Close()
		}
	}
}

// NoopPublisher drops every message. Used when NATS is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte) error { return nil }

// EventPublisher JSON-encodes domain events. Failures are logged, never returned:
// events are notifications for other back-end services and must not fail the caller.
type EventPublisher struct {
	publisher Publisher
	logger    *slog.Logger
}

func NewEventPublisher(publisher Publisher, logger *slog.Logger) *EventPublisher {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &EventPublisher{publisher: publisher, logger: logger.With("component", "event_publisher")}
}

// PublishEvent marshals event and publishes it on subject.
func (p *EventPublisher) PublishEvent(ctx context.Context, subject string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to marshal event", "subject", subject, "error", err)
		return
	}
	if err := p.publisher.Publish(ctx, subject, data); err != nil {
		p.logger.WarnContext(ctx, "Failed to publish event", "subject", subject, "error", err)
		return
	}
	p.logger.DebugContext(ctx, "Event published", "subject", subject)
}
