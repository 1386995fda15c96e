// Package reservation derives client-side stock reservations from the
// persisted carts and resolves what is still available to sell. Reservations
// are never stored; they are recomputed from cart contents on every ask, so
// they can never drift from the carts they describe.
package reservation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/camachodev/puntoventa-backend/internal/terminal/cart"
	"github.com/camachodev/puntoventa-backend/internal/terminal/catalog"
)

// UnmanagedStock is the availability reported for products that do not track
// stock. Large enough that quantity controls never hit it in practice.
const UnmanagedStock = 9999

// Aggregator sums held quantities across every cart context on the terminal.
type Aggregator struct {
	carts []*cart.Store
}

// NewAggregator builds an aggregator over the terminal's carts.
func NewAggregator(carts ...*cart.Store) (*Aggregator, error) {
	if len(carts) == 0 {
		return nil, fmt.Errorf("at least one cart required")
	}
	for _, c := range carts {
		if c == nil {
			return nil, fmt.Errorf("nil cart")
		}
	}
	return &Aggregator{carts: carts}, nil
}

// Reserved returns the total quantity of one product held across all carts.
func (a *Aggregator) Reserved(ctx context.Context, productID uuid.UUID) (int, error) {
	total := 0
	for _, c := range a.carts {
		qty, err := c.Quantity(ctx, productID)
		if err != nil {
			return 0, err
		}
		total += qty
	}
	return total, nil
}

// ReservedAll returns held quantities for every product present in any cart.
func (a *Aggregator) ReservedAll(ctx context.Context) (map[uuid.UUID]int, error) {
	totals := make(map[uuid.UUID]int)
	for _, c := range a.carts {
		items, err := c.Items(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			totals[item.ProductID] += item.Quantity
		}
	}
	return totals, nil
}

// Resolver answers "how many can still be added" from the catalog snapshot
// minus cross-cart reservations.
type Resolver struct {
	agg     *Aggregator
	catalog *catalog.Cache
}

// NewResolver wires the resolver to its inputs.
func NewResolver(agg *Aggregator, cache *catalog.Cache) (*Resolver, error) {
	if agg == nil {
		return nil, fmt.Errorf("aggregator required")
	}
	if cache == nil {
		return nil, fmt.Errorf("catalog cache required")
	}
	return &Resolver{agg: agg, catalog: cache}, nil
}

// Available returns the sellable quantity for a product. Unmanaged products
// report the UnmanagedStock sentinel; managed products report on-hand minus
// reservations, floored at zero.
func (r *Resolver) Available(ctx context.Context, productID uuid.UUID) (int, error) {
	product, err := r.catalog.Product(ctx, productID)
	if err != nil {
		return 0, err
	}
	if !product.ManageStock {
		return UnmanagedStock, nil
	}

	reserved, err := r.agg.Reserved(ctx, productID)
	if err != nil {
		return 0, err
	}

	available := product.Stock - reserved
	if available < 0 {
		available = 0
	}
	return available, nil
}
