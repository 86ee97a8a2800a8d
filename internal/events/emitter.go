// Package events carries notable engine events out to whatever delivers
// them (Discord webhooks, dashboards). Delivery is best effort: a failed
// publish never rolls back a settled wager.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/retry"
	"github.com/nats-io/nats.go"
)

// Sink is the contract the surrounding delivery layers implement.
type Sink interface {
	Publish(category enum.EventCategory, payload any) error
	Close()
}

type Event struct {
	Category  enum.EventCategory `json:"category"`
	Data      any                `json:"data"`
	Timestamp int64              `json:"timestamp"`
}

type natsEmitter struct {
	conn          *nats.Conn
	subjectPrefix string
}

// NewNATSEmitter publishes events as JSON to <prefix>.<category>.
func NewNATSEmitter(conn *nats.Conn, subjectPrefix string) Sink {
	return &natsEmitter{
		conn:          conn,
		subjectPrefix: subjectPrefix,
	}
}

func (e *natsEmitter) Publish(category enum.EventCategory, payload any) error {
	data, err := json.Marshal(Event{
		Category:  category,
		Data:      payload,
		Timestamp: time.Now().UTC().Unix(),
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s.%s", e.subjectPrefix, category)
	return retry.Constant(func() error {
		return e.conn.Publish(subject, data)
	}, retry.DefaultInterval, retry.DefaultMaxAttempts)
}

func (e *natsEmitter) Close() {
	if e.conn != nil {
		e.conn.Close()
	}
}

// NopSink swallows events; used by tests and the offline CLI.
type NopSink struct{}

func (NopSink) Publish(enum.EventCategory, any) error { return nil }
func (NopSink) Close()                                {}
