package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camachodev/puntoventa-backend/internal/sales"
	"github.com/camachodev/puntoventa-backend/internal/terminal/cart"
	"github.com/camachodev/puntoventa-backend/internal/terminal/catalog"
	"github.com/camachodev/puntoventa-backend/internal/terminal/checkout"
	"github.com/camachodev/puntoventa-backend/internal/terminal/reservation"
	"github.com/camachodev/puntoventa-backend/pkg/kvstore"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
	"github.com/camachodev/puntoventa-backend/pkg/types"
)

type fakeCommitter struct {
	err   error
	calls int
}

func (f *fakeCommitter) CommitSale(_ context.Context, _ uuid.UUID, _ sales.CommitSaleInput) (*sales.SaleDTO, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &sales.SaleDTO{ID: uuid.New()}, nil
}

type serverFixture struct {
	handler   http.Handler
	posCart   *cart.Store
	storeCart *cart.Store
	committer *fakeCommitter
	managed   uuid.UUID
	unmanaged uuid.UUID
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	managedID := uuid.New()
	unmanagedID := uuid.New()
	source := catalog.SourceFunc(func(ctx context.Context) ([]catalog.Product, error) {
		return []catalog.Product{
			{ID: managedID, Name: "Coffee 500g", Price: decimal.NewFromFloat(9.50), ManageStock: true, Stock: 5},
			{ID: unmanagedID, Name: "Gift Wrap", Price: decimal.NewFromFloat(1.00), ManageStock: false},
		}, nil
	})

	kv := kvstore.NewMemory()
	posCart, err := cart.NewStore("pos-cart", kv, nil)
	require.NoError(t, err)
	storeCart, err := cart.NewStore("store-cart", kv, nil)
	require.NoError(t, err)

	cache, err := catalog.NewCache(source, nil)
	require.NoError(t, err)
	agg, err := reservation.NewAggregator(posCart, storeCart)
	require.NoError(t, err)
	resolver, err := reservation.NewResolver(agg, cache)
	require.NoError(t, err)

	logg := logger.New(logger.Options{ServiceName: "terminal-test", Level: zerolog.ErrorLevel, Output: io.Discard})

	committer := &fakeCommitter{}
	orgID := uuid.New()
	posGateway, err := checkout.NewGateway(orgID, posCart, committer, cache, nil, logg)
	require.NoError(t, err)
	storeGateway, err := checkout.NewGateway(orgID, storeCart, committer, cache, nil, logg)
	require.NoError(t, err)

	srv, err := New(posCart, storeCart, cache, resolver, posGateway, storeGateway, nil, logg)
	require.NoError(t, err)

	return &serverFixture{
		handler:   srv.Routes(),
		posCart:   posCart,
		storeCart: storeCart,
		committer: committer,
		managed:   managedID,
		unmanaged: unmanagedID,
	}
}

func (fx *serverFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	fx.handler.ServeHTTP(rec, req)
	return rec
}

func TestAvailabilityEndpoint(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodGet, "/availability/"+fx.managed.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data availabilityResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Data.Available)

	rec = fx.do(t, http.MethodGet, "/availability/"+fx.unmanaged.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, reservation.UnmanagedStock, body.Data.Available)
}

func TestCartAddGateBlocksOverReservation(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodPost, "/carts/pos/items",
		`{"product_id":"`+fx.managed.String()+`","quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// 3 of 5 reserved on the register; the storefront can take at most 2.
	rec = fx.do(t, http.MethodPost, "/carts/store/items",
		`{"product_id":"`+fx.managed.String()+`","quantity":3}`)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = fx.do(t, http.MethodPost, "/carts/store/items",
		`{"product_id":"`+fx.managed.String()+`","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = fx.do(t, http.MethodGet, "/availability/"+fx.managed.String(), "")
	var body struct {
		Data availabilityResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Zero(t, body.Data.Available)
}

func TestCartUpdateGateAllowsShrinking(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodPost, "/carts/pos/items",
		`{"product_id":"`+fx.managed.String()+`","quantity":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Shrinking never needs headroom even at zero availability.
	rec = fx.do(t, http.MethodPatch, "/carts/pos/items/"+fx.managed.String(), `{"quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Growing past the remaining stock is blocked.
	rec = fx.do(t, http.MethodPatch, "/carts/pos/items/"+fx.managed.String(), `{"quantity":9}`)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestCartUpdateFloorsAtOne(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodPost, "/carts/pos/items",
		`{"product_id":"`+fx.managed.String()+`","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(t, http.MethodPatch, "/carts/pos/items/"+fx.managed.String(), `{"quantity":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	qty, err := fx.posCart.Quantity(context.Background(), fx.managed)
	require.NoError(t, err)
	assert.Equal(t, 1, qty)
}

func TestUnmanagedProductNeverBlocked(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodPost, "/carts/pos/items",
		`{"product_id":"`+fx.unmanaged.String()+`","quantity":500}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCheckoutEndpoint(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodPost, "/carts/pos/items",
		`{"product_id":"`+fx.managed.String()+`","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(t, http.MethodPost, "/carts/pos/checkout", `{"payment_method":"cash"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, fx.committer.calls)

	items, err := fx.posCart.Items(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCheckoutCommitsStoreCart(t *testing.T) {
	fx := newServerFixture(t)
	ctx := context.Background()

	rec := fx.do(t, http.MethodPost, "/carts/pos/items",
		`{"product_id":"`+fx.managed.String()+`","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = fx.do(t, http.MethodPost, "/carts/store/items",
		`{"product_id":"`+fx.managed.String()+`","quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Checking out the store order commits that cart and leaves the
	// register sale in progress.
	rec = fx.do(t, http.MethodPost, "/carts/store/checkout", `{"payment_method":"card"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, fx.committer.calls)

	storeItems, err := fx.storeCart.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, storeItems)

	posItems, err := fx.posCart.Items(ctx)
	require.NoError(t, err)
	require.Len(t, posItems, 1)
	assert.Equal(t, 2, posItems[0].Quantity)
}

func TestCheckoutUnknownCartContext(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodPost, "/carts/warehouse/checkout", `{"payment_method":"cash"}`)
	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	assert.Zero(t, fx.committer.calls)
}

func TestUnknownCartContext(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodGet, "/carts/warehouse/", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}
