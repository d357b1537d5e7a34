// Package notify publishes build-completed events so downstream systems
// (cache purgers, deploy hooks, search indexers) can react to a new build.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
	"github.com/vividigit/sitebuilder/internal/logfields"
)

// Event describes one finished language build.
type Event struct {
	BuildID     string    `json:"build_id"`
	Site        string    `json:"site"`
	Lang        string    `json:"lang"`
	Outcome     string    `json:"outcome"`
	Pages       int       `json:"pages"`
	Rendered    int       `json:"rendered"`
	Exported    int       `json:"exported"`
	BrokenLinks int       `json:"broken_links"`
	DurationMS  int64     `json:"duration_ms"`
	Revision    string    `json:"revision,omitempty"`
	OutputDir   string    `json:"output_dir"`
	Timestamp   time.Time `json:"timestamp"`
}

// Subject returns the subject an event is published on: <base>.<site>.<lang>.
func (e Event) Subject(base string) string {
	return base + "." + e.Site + "." + e.Lang
}

// Publisher delivers build events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop discards events.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// NATSPublisher publishes events on core NATS.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewNATSPublisher connects to url. Events go to <subject>.<site>.<lang>.
func NewNATSPublisher(url, subject string, timeout time.Duration, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name("sitebuilder"),
		nats.Timeout(timeout),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotify, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}
	logger.Info("NATS publisher connected", logfields.URL(url), logfields.Subject(subject))
	return &NATSPublisher{conn: conn, subject: subject, logger: logger}, nil
}

// Publish sends e and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal build event").Build()
	}
	subject := e.Subject(p.subject)
	if err := p.conn.Publish(subject, data); err != nil {
		return errors.WrapError(err, errors.CategoryNotify, "failed to publish build event").
			WithContext("subject", subject).
			Build()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryNotify, "failed to flush build event").
			WithContext("subject", subject).
			Build()
	}
	p.logger.Debug("Published build event", logfields.Subject(subject), logfields.BuildID(e.BuildID))
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
