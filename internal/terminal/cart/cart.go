// Package cart implements the persisted terminal carts. Each cart context
// (register sale vs. store order) lives under its own storage key; every
// handle on the same storage sees every mutation, and local listeners are
// signaled through the notify hub after each durable write.
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camachodev/puntoventa-backend/pkg/kvstore"
	"github.com/camachodev/puntoventa-backend/pkg/notify"
)

// Item is one cart line. Price is the unit price quoted when the line was
// added; the commit gateway sends it as-is and the server re-checks stock,
// never price.
type Item struct {
	ProductID uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Store is a persisted cart bound to one storage key.
type Store struct {
	key string
	kv  kvstore.Store
	hub *notify.Hub
}

// NewStore binds a cart to its storage key. The hub may be nil when nothing
// local reacts to cart changes.
func NewStore(key string, kv kvstore.Store, hub *notify.Hub) (*Store, error) {
	if key == "" {
		return nil, fmt.Errorf("cart storage key required")
	}
	if kv == nil {
		return nil, fmt.Errorf("kv store required")
	}
	return &Store{key: key, kv: kv, hub: hub}, nil
}

// Key returns the storage key backing this cart.
func (s *Store) Key() string {
	return s.key
}

// Topic returns the notify topic fired after every mutation of this cart.
func (s *Store) Topic() string {
	return "cart:" + s.key
}

// Items reads the current cart from storage. A missing or corrupt payload is
// an empty cart: storage is owned by whoever wrote last, so the reader
// normalizes instead of failing.
func (s *Store) Items(ctx context.Context) ([]Item, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("reading cart %q: %w", s.key, err)
	}
	if !ok || raw == "" {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []Item{}, nil
	}
	return sanitize(items), nil
}

// Add merges the item into the cart: an existing line for the same product
// gains the added quantity, a new product appends a line. Quantities below
// one are bumped to one.
func (s *Store) Add(ctx context.Context, item Item) error {
	if item.ProductID == uuid.Nil {
		return fmt.Errorf("cart item requires a product id")
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	items, err := s.Items(ctx)
	if err != nil {
		return err
	}

	merged := false
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}

	return s.write(ctx, items)
}

// UpdateQuantity sets the line quantity, flooring at one. Dropping a line is
// an explicit Remove, never a zero quantity.
func (s *Store) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	items, err := s.Items(ctx)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return s.write(ctx, items)
		}
	}
	return fmt.Errorf("product %s not in cart", productID)
}

// Remove drops the line for the product. Removing an absent product is a no-op.
func (s *Store) Remove(ctx context.Context, productID uuid.UUID) error {
	items, err := s.Items(ctx)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return s.write(ctx, kept)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	return s.write(ctx, []Item{})
}

// Total sums price×quantity across lines.
func (s *Store) Total(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}

// Quantity returns the quantity held for one product, zero when absent.
func (s *Store) Quantity(ctx context.Context, productID uuid.UUID) (int, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		if item.ProductID == productID {
			return item.Quantity, nil
		}
	}
	return 0, nil
}

func (s *Store) write(ctx context.Context, items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart %q: %w", s.key, err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.Notify(s.Topic())
	}
	return nil
}

// sanitize drops lines a foreign writer may have corrupted and floors the
// quantity invariant.
func sanitize(items []Item) []Item {
	out := items[:0]
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			continue
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		out = append(out, item)
	}
	return out
}
