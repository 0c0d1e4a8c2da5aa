// Package notify publishes generation events to NATS when a nats_url is
// configured, so external automation can react to finished runs.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/giovifav/ssg/internal/logfields"
	"github.com/giovifav/ssg/internal/site"
)

// Subject is the NATS subject generation events are published on.
const Subject = "ssg.generations"

// Event is the wire form of one finished generation run.
type Event struct {
	RunID     string    `json:"run_id"`
	SiteName  string    `json:"site_name"`
	Outcome   string    `json:"outcome"`
	Pages     int       `json:"pages"`
	Warnings  int       `json:"warnings"`
	Errors    int       `json:"errors"`
	Duration  string    `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes generation events on a NATS connection.
type Publisher struct {
	conn     *nats.Conn
	siteName string
}

// Connect dials the NATS server at url.
func Connect(url, siteName string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	slog.Info("Connected to NATS", logfields.Site(siteName), slog.String("url", url))
	return &Publisher{conn: conn, siteName: siteName}, nil
}

// PublishReport publishes the event for a finished run. Failures are returned
// for logging; generation outcome never depends on publishing.
func (p *Publisher) PublishReport(report *site.Report) error {
	event := Event{
		RunID:     report.RunID,
		SiteName:  p.siteName,
		Outcome:   string(report.Outcome),
		Pages:     report.Pages,
		Warnings:  len(report.Warnings),
		Errors:    len(report.Errors),
		Duration:  report.Duration().String(),
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal generation event: %w", err)
	}
	if err := p.conn.Publish(Subject, data); err != nil {
		return fmt.Errorf("publish generation event: %w", err)
	}
	slog.Debug("Published generation event",
		logfields.RunID(report.RunID), slog.String("outcome", event.Outcome))
	return nil
}

// Close flushes and closes the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		_ = p.conn.Flush()
		p.conn.Close()
	}
}
