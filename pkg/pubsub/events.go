package pubsub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StockEvent is the wire payload published after a committed stock mutation.
// NewStock is the authoritative on-hand quantity after the change, not a delta,
// so consumers can apply events idempotently and out of order.
type StockEvent struct {
	ProductID  uuid.UUID `json:"product_id"`
	NewStock   int       `json:"new_stock"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EncodeStockEvent marshals the event for publishing.
func EncodeStockEvent(ev StockEvent) ([]byte, error) {
	if ev.ProductID == uuid.Nil {
		return nil, fmt.Errorf("stock event requires a product id")
	}
	return json.Marshal(ev)
}

// DecodeStockEvent parses a received payload, rejecting malformed input.
func DecodeStockEvent(data []byte) (StockEvent, error) {
	var ev StockEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return StockEvent{}, fmt.Errorf("decoding stock event: %w", err)
	}
	if ev.ProductID == uuid.Nil {
		return StockEvent{}, fmt.Errorf("stock event missing product id")
	}
	return ev, nil
}
