// Package notify fans order/station lifecycle events out to connected clients.
// Delivery is best-effort and unordered: consumers must treat every event as a
// hint to re-fetch authoritative state, never as the state itself.
package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Channel is the single logical pub/sub channel all clients subscribe to.
const Channel = "canteenpos:events"

// Event names carried on the channel.
const (
	EventOrderPlaced    = "OrderPlaced"
	EventOrderReleased  = "OrderReleased"
	EventStationClaimed = "StationClaimed"
)

// OrderPlaced announces a new pending order at a station.
type OrderPlaced struct {
	Station   int    `json:"station"`
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id,omitempty"`
}

// OrderReleased announces that an order left the pending state
// (confirmed or cancelled) and its station is free again.
type OrderReleased struct {
	Station int    `json:"station"`
	OrderID string `json:"order_id"`
}

// StationClaimed announces that a session took a station lock.
type StationClaimed struct {
	Station   int    `json:"station"`
	SessionID string `json:"session_id"`
}

// envelope is the wire shape: {"event": "...", "payload": {...}}.
type envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Bridge publishes lifecycle events. Implementations must be safe for
// concurrent use; callers log and swallow any returned error.
type Bridge interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

// RedisBridge publishes events on a Redis pub/sub channel.
type RedisBridge struct {
	rdb *redis.Client
}

func NewRedisBridge(rdb *redis.Client) *RedisBridge {
	return &RedisBridge{rdb: rdb}
}

func (b *RedisBridge) Publish(ctx context.Context, event string, payload interface{}) error {
	data, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, Channel, data).Err()
}

// Nop discards all events. Used in tests and when Redis is unavailable.
type Nop struct{}

func (Nop) Publish(context.Context, string, interface{}) error { return nil }
