// Package feed distributes research artifacts over NATS so downstream
// consumers (equity-curve rendering, monitoring) can subscribe to signal
// and trade streams instead of polling CSV files.
package feed

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"

	"github.com/nketiah1717/openminerals/pkg/backtest"
	"github.com/nketiah1717/openminerals/pkg/signal"
)

// Publisher publishes signal rows and trades as JSON messages.
// Subjects follow signals.{A}.{B} and trades.{A}.{B}.
type Publisher struct {
	conn *nats.Conn
	a    string
	b    string
}

// NewPublisher connects to NATS and returns a publisher for one pair
func NewPublisher(addr, a, b string) (*Publisher, error) {
	nc, err := nats.Connect(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Printf("[Feed] Connected to NATS at %s", addr)

	return &Publisher{conn: nc, a: a, b: b}, nil
}

// PublishSignals publishes every row of a signal feed
func (p *Publisher) PublishSignals(feed *signal.Feed) error {
	subject := fmt.Sprintf("signals.%s.%s", p.a, p.b)

	for i := range feed.Rows {
		data, err := json.Marshal(&feed.Rows[i])
		if err != nil {
			return fmt.Errorf("failed to marshal signal row: %w", err)
		}
		if err := p.conn.Publish(subject, data); err != nil {
			return fmt.Errorf("failed to publish signal row: %w", err)
		}
	}

	log.Printf("[Feed] Published %d signal rows to %s", len(feed.Rows), subject)
	return nil
}

// PublishTrades publishes the completed trade ledger
func (p *Publisher) PublishTrades(result *backtest.Result) error {
	subject := fmt.Sprintf("trades.%s.%s", p.a, p.b)

	for i := range result.Trades {
		data, err := json.Marshal(&result.Trades[i])
		if err != nil {
			return fmt.Errorf("failed to marshal trade: %w", err)
		}
		if err := p.conn.Publish(subject, data); err != nil {
			return fmt.Errorf("failed to publish trade: %w", err)
		}
	}

	log.Printf("[Feed] Published %d trades to %s", len(result.Trades), subject)
	return nil
}

// Close flushes pending messages and closes the connection
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Flush()
	p.conn.Close()
	return err
}
