package pubsub

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEncodeDecodeStockEvent(t *testing.T) {
	ev := StockEvent{
		ProductID:  uuid.New(),
		NewStock:   7,
		OccurredAt: time.Now().UTC().Truncate(time.Second),
	}

	data, err := EncodeStockEvent(ev)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := DecodeStockEvent(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ProductID != ev.ProductID || got.NewStock != ev.NewStock {
		t.Fatalf("roundtrip mismatch: %+v vs %+v", got, ev)
	}
}

func TestEncodeStockEventRequiresProductID(t *testing.T) {
	if _, err := EncodeStockEvent(StockEvent{NewStock: 3}); err == nil {
		t.Fatal("expected error for missing product id")
	}
}

func TestDecodeStockEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeStockEvent([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
	if _, err := DecodeStockEvent([]byte(`{"new_stock":4}`)); err == nil {
		t.Fatal("expected error for missing product id")
	}
}
