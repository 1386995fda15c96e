// Package catalog holds the terminal's read-through product snapshot. The
// cache is never patched in place: any sign of remote change throws the whole
// snapshot away and the next read refetches. Stale math is impossible because
// stale entries are impossible.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
	"github.com/camachodev/puntoventa-backend/pkg/metrics"
)

// Product is the catalog snapshot entry the terminal works from. Stock is the
// authoritative on-hand count as of the last fetch; availability math layers
// local reservations on top of it.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Barcode     *string         `json:"barcode,omitempty"`
	Category    *string         `json:"category,omitempty"`
	ManageStock bool            `json:"manage_stock"`
	Stock       int             `json:"stock"`
}

// Source fetches the full catalog from the authoritative store.
type Source interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]Product, error)

func (f SourceFunc) FetchProducts(ctx context.Context) ([]Product, error) {
	return f(ctx)
}

// Cache is the invalidate-don't-patch snapshot holder.
type Cache struct {
	source  Source
	metrics *metrics.TerminalMetrics

	mu     sync.Mutex
	loaded bool
	list   []Product
	byID   map[uuid.UUID]Product
}

// NewCache builds an empty cache over the source. Metrics may be nil.
func NewCache(source Source, m *metrics.TerminalMetrics) (*Cache, error) {
	if source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	return &Cache{source: source, metrics: m}, nil
}

// Products returns the snapshot, fetching it on first use or after an
// invalidation.
func (c *Cache) Products(ctx context.Context) ([]Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	out := make([]Product, len(c.list))
	copy(out, c.list)
	return out, nil
}

// Product returns one snapshot entry.
func (c *Cache) Product(ctx context.Context, id uuid.UUID) (*Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	p, ok := c.byID[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in catalog")
	}
	return &p, nil
}

// Invalidate discards the whole snapshot. The next read refetches everything.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.list = nil
	c.byID = nil
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.IncCacheInvalidation()
	}
}

func (c *Cache) ensureLoadedLocked(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	rows, err := c.source.FetchProducts(ctx)
	if err != nil {
		return fmt.Errorf("fetching catalog: %w", err)
	}
	c.list = rows
	c.byID = make(map[uuid.UUID]Product, len(rows))
	for _, p := range rows {
		c.byID[p.ID] = p
	}
	c.loaded = true
	return nil
}
