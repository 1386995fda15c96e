// Package checkout turns a terminal cart into a committed sale. The gateway
// owns the commit lifecycle on the terminal side: it refuses overlapping
// commits, clears the cart only after the backend confirms, and leaves the
// cart untouched on any failure so the cashier can retry or amend it.
package checkout

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/camachodev/puntoventa-backend/internal/sales"
	"github.com/camachodev/puntoventa-backend/internal/terminal/cart"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
	"github.com/camachodev/puntoventa-backend/pkg/metrics"
)

// Committer persists a sale. In production this is the sales service; the
// terminal daemon may also satisfy it with an HTTP client to the backend.
type Committer interface {
	CommitSale(ctx context.Context, orgID uuid.UUID, input sales.CommitSaleInput) (*sales.SaleDTO, error)
}

// Invalidator discards the local catalog snapshot after a committed sale.
type Invalidator interface {
	Invalidate()
}

// Request carries the commit parameters beyond the cart contents.
type Request struct {
	BranchID      *uuid.UUID
	ProfileID     *uuid.UUID
	CustomerID    *uuid.UUID
	CustomerName  *string
	PaymentMethod enums.PaymentMethod
}

// Gateway commits one cart at a time against the sales backend.
type Gateway struct {
	orgID     uuid.UUID
	cart      *cart.Store
	committer Committer
	cache     Invalidator
	metrics   *metrics.TerminalMetrics
	logg      *logger.Logger

	inFlight atomic.Bool
}

// NewGateway wires a commit gateway for one cart. Metrics may be nil.
func NewGateway(orgID uuid.UUID, cartStore *cart.Store, committer Committer, cache Invalidator, m *metrics.TerminalMetrics, logg *logger.Logger) (*Gateway, error) {
	if orgID == uuid.Nil {
		return nil, fmt.Errorf("organization id required")
	}
	if cartStore == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if committer == nil {
		return nil, fmt.Errorf("committer required")
	}
	if cache == nil {
		return nil, fmt.Errorf("catalog invalidator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Gateway{
		orgID:     orgID,
		cart:      cartStore,
		committer: committer,
		cache:     cache,
		metrics:   m,
		logg:      logg,
	}, nil
}

// Commit sends the current cart to the backend. The cart survives every
// failure path; it is cleared only once the backend has accepted the sale.
func (g *Gateway) Commit(ctx context.Context, req Request) (*sales.SaleDTO, error) {
	if !g.inFlight.CompareAndSwap(false, true) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "commit already in progress")
	}
	defer g.inFlight.Store(false)

	items, err := g.cart.Items(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	input := sales.CommitSaleInput{
		BranchID:      req.BranchID,
		ProfileID:     req.ProfileID,
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		PaymentMethod: req.PaymentMethod,
		Items:         make([]sales.CommitSaleItem, len(items)),
	}
	for i, item := range items {
		input.Items[i] = sales.CommitSaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	started := time.Now()
	sale, err := g.committer.CommitSale(ctx, g.orgID, input)
	if err != nil {
		g.metrics.ObserveSaleCommit("failed", time.Since(started))
		// A rejection means the local stock snapshot was stale; drop it so
		// the next availability read reflects the backend.
		g.cache.Invalidate()
		g.logg.Error(ctx, "sale commit failed", err)
		return nil, err
	}
	g.metrics.ObserveSaleCommit("completed", time.Since(started))

	if clearErr := g.cart.Clear(ctx); clearErr != nil {
		// The sale is committed; a stuck cart is recoverable, a lost sale is not.
		g.logg.Error(ctx, "clearing cart after committed sale", clearErr)
	}
	g.cache.Invalidate()

	g.logg.Info(g.logg.WithField(ctx, "sale_id", sale.ID.String()), "sale committed")
	return sale, nil
}
