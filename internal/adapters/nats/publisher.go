// Package natsadapter ships query telemetry (plan-journey and isochrone
// request events) to a NATS JetStream stream for downstream analytics.
// Publishing is fire-and-forget: a broker hiccup never slows down or fails
// the query that triggered it.
package natsadapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/bilbopass/internal/core/ports"
)

// Publisher implements ports.QueryEventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	log  *slog.Logger
}

var _ ports.QueryEventPublisher = (*Publisher)(nil)

// NewPublisher connects to NATS and ensures the query-event stream exists.
func NewPublisher(url string, log *slog.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      "ROUTING_QUERIES",
		Subjects:  []string{"routing.query.>"},
		Retention: nats.WorkQueuePolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		if _, err := js.UpdateStream(cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	if log == nil {
		log = slog.Default()
	}
	return &Publisher{conn: conn, js: js, log: log}, nil
}

// PublishJourneyQuery publishes a completed plan-journey request.
func (p *Publisher) PublishJourneyQuery(event ports.JourneyQueryEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("marshal journey query event", "error", err)
		return
	}
	if _, err := p.js.Publish("routing.query.journey", data); err != nil {
		p.log.Warn("publish journey query event", "error", err)
	}
}

// PublishIsochroneQuery publishes a completed isochrone request.
func (p *Publisher) PublishIsochroneQuery(event ports.IsochroneQueryEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("marshal isochrone query event", "error", err)
		return
	}
	if _, err := p.js.Publish("routing.query.isochrone", data); err != nil {
		p.log.Warn("publish isochrone query event", "error", err)
	}
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// noopPublisher discards every event; cmd/transit falls back to it when the
// NATS publisher cannot be created.
type noopPublisher struct{}

var _ ports.QueryEventPublisher = noopPublisher{}

func (noopPublisher) PublishJourneyQuery(ports.JourneyQueryEvent)     {}
func (noopPublisher) PublishIsochroneQuery(ports.IsochroneQueryEvent) {}

// Noop returns a ports.QueryEventPublisher that discards every event.
func Noop() ports.QueryEventPublisher { return noopPublisher{} }
