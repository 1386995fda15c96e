// Package server exposes the terminal daemon's local HTTP surface. Every cart
// mutation is gated on resolved availability before it touches storage, so the
// cashier can never reserve more than the catalog currently supports.
package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	apimw "github.com/camachodev/puntoventa-backend/api/middleware"
	"github.com/camachodev/puntoventa-backend/api/responses"
	"github.com/camachodev/puntoventa-backend/api/validators"
	"github.com/camachodev/puntoventa-backend/internal/terminal/cart"
	"github.com/camachodev/puntoventa-backend/internal/terminal/catalog"
	"github.com/camachodev/puntoventa-backend/internal/terminal/checkout"
	"github.com/camachodev/puntoventa-backend/internal/terminal/reservation"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
	"github.com/camachodev/puntoventa-backend/pkg/metrics"
)

// Cart contexts served by the daemon.
const (
	ContextPOS   = "pos"
	ContextStore = "store"
)

// Server routes terminal UI requests onto the availability core. Each cart
// context carries its own checkout gateway so a register sale and a store
// order commit their own carts.
type Server struct {
	carts    map[string]*cart.Store
	gateways map[string]*checkout.Gateway
	cache    *catalog.Cache
	resolver *reservation.Resolver
	metrics  *metrics.TerminalMetrics
	logg     *logger.Logger
}

// New wires the terminal surface. Gateways may be nil when the daemon runs
// without a backend connection; checkout then reports a dependency error.
func New(
	posCart, storeCart *cart.Store,
	cache *catalog.Cache,
	resolver *reservation.Resolver,
	posGateway, storeGateway *checkout.Gateway,
	m *metrics.TerminalMetrics,
	logg *logger.Logger,
) (*Server, error) {
	if posCart == nil || storeCart == nil {
		return nil, fmt.Errorf("both cart stores required")
	}
	if cache == nil {
		return nil, fmt.Errorf("catalog cache required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("availability resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Server{
		carts: map[string]*cart.Store{
			ContextPOS:   posCart,
			ContextStore: storeCart,
		},
		gateways: map[string]*checkout.Gateway{
			ContextPOS:   posGateway,
			ContextStore: storeGateway,
		},
		cache:    cache,
		resolver: resolver,
		metrics:  m,
		logg:     logg,
	}, nil
}

// Routes builds the chi handler for the daemon.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		apimw.Recoverer(s.logg),
		apimw.RequestID(s.logg),
		apimw.Logging(s.logg),
	)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/catalog", s.handleCatalog)
	r.Get("/availability/{productID}", s.handleAvailability)

	r.Route("/carts/{cartContext}", func(r chi.Router) {
		r.Get("/", s.handleCartFetch)
		r.Delete("/", s.handleCartClear)
		r.Post("/items", s.handleCartAdd)
		r.Patch("/items/{productID}", s.handleCartUpdate)
		r.Delete("/items/{productID}", s.handleCartRemove)
		r.Post("/checkout", s.handleCheckout)
	})

	return r
}

func (s *Server) cartFor(r *http.Request) (*cart.Store, string, error) {
	name := chi.URLParam(r, "cartContext")
	store, ok := s.carts[name]
	if !ok {
		return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "unknown cart context")
	}
	return store, name, nil
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	products, err := s.cache.Products(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	responses.WriteSuccess(w, products)
}

type availabilityResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Available int       `json:"available"`
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productID"), "productID")
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}

	available, err := s.resolver.Available(r.Context(), productID)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	responses.WriteSuccess(w, availabilityResponse{ProductID: productID, Available: available})
}

type cartResponse struct {
	Items []cart.Item     `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func (s *Server) writeCart(w http.ResponseWriter, r *http.Request, store *cart.Store) {
	items, err := store.Items(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	total, err := store.Total(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	responses.WriteSuccess(w, cartResponse{Items: items, Total: total})
}

func (s *Server) handleCartFetch(w http.ResponseWriter, r *http.Request) {
	store, _, err := s.cartFor(r)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	s.writeCart(w, r, store)
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	store, _, err := s.cartFor(r)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	if err := store.Clear(r.Context()); err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	s.writeCart(w, r, store)
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	store, name, err := s.cartFor(r)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}

	var payload addItemRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	productID, err := uuid.Parse(payload.ProductID)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
		return
	}
	quantity := payload.Quantity
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.cache.Product(r.Context(), productID)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}

	available, err := s.resolver.Available(r.Context(), productID)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	if available < quantity {
		s.metrics.IncBlockedAdd(name)
		responses.WriteError(r.Context(), s.logg, w,
			pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("only %d available", available)))
		return
	}

	if err := store.Add(r.Context(), cart.Item{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
	}); err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	s.writeCart(w, r, store)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	store, name, err := s.cartFor(r)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productID"), "productID")
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}

	var payload updateQuantityRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	quantity := payload.Quantity
	if quantity < 1 {
		quantity = 1
	}

	current, err := store.Quantity(r.Context(), productID)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	if current == 0 {
		responses.WriteError(r.Context(), s.logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart"))
		return
	}

	// Available already subtracts this line's reservation, so growing the
	// line by delta only needs that much headroom.
	if delta := quantity - current; delta > 0 {
		available, availErr := s.resolver.Available(r.Context(), productID)
		if availErr != nil {
			responses.WriteError(r.Context(), s.logg, w, availErr)
			return
		}
		if available < delta {
			s.metrics.IncBlockedAdd(name)
			responses.WriteError(r.Context(), s.logg, w,
				pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("only %d more available", available)))
			return
		}
	}

	if err := store.UpdateQuantity(r.Context(), productID, quantity); err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	s.writeCart(w, r, store)
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	store, _, err := s.cartFor(r)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productID"), "productID")
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}

	if err := store.Remove(r.Context(), productID); err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	s.writeCart(w, r, store)
}

type checkoutRequest struct {
	CustomerID    *string `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	CustomerName  *string `json:"customer_name,omitempty"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "cartContext")
	gateway, ok := s.gateways[name]
	if !ok {
		responses.WriteError(r.Context(), s.logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown cart context"))
		return
	}
	if gateway == nil {
		responses.WriteError(r.Context(), s.logg, w, pkgerrors.New(pkgerrors.CodeDependency, "sale backend not configured"))
		return
	}

	var payload checkoutRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}

	method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
		return
	}

	req := checkout.Request{
		CustomerName:  payload.CustomerName,
		PaymentMethod: method,
	}
	if payload.CustomerID != nil {
		customerID, parseErr := uuid.Parse(*payload.CustomerID)
		if parseErr != nil {
			responses.WriteError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid customer id"))
			return
		}
		req.CustomerID = &customerID
	}

	sale, err := gateway.Commit(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, sale)
}
