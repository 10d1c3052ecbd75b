package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes presence on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

func NewNATSPublisher(url, token, subject string) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("encore-presence"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.Timeout(5 * time.Second),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, p Presence) error {
	data, err := p.marshal()
	if err != nil {
		return err
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil
	}
	return n.conn.FlushWithContext(ctx)
}

func (n *NATSPublisher) Close() error {
	return n.conn.Drain()
}
