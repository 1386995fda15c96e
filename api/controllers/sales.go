package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camachodev/puntoventa-backend/api/middleware"
	"github.com/camachodev/puntoventa-backend/api/responses"
	"github.com/camachodev/puntoventa-backend/api/validators"
	"github.com/camachodev/puntoventa-backend/internal/sales"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
)

type commitSaleRequest struct {
	CustomerID    *string           `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	CustomerName  *string           `json:"customer_name,omitempty"`
	PaymentMethod string            `json:"payment_method" validate:"required"`
	Items         []commitSaleLine  `json:"items" validate:"required,min=1,dive"`
}

type commitSaleLine struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Price     decimal.Decimal `json:"price" validate:"required"`
}

// CommitSale atomically records a sale and decrements managed stock. Any
// insufficiency fails the whole request with a conflict.
func CommitSale(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profileID, err := profileIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload commitSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(strings.TrimSpace(payload.PaymentMethod))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		input := sales.CommitSaleInput{
			ProfileID:     &profileID,
			CustomerName:  payload.CustomerName,
			PaymentMethod: method,
			Items:         make([]sales.CommitSaleItem, 0, len(payload.Items)),
		}
		if raw := middleware.BranchIDFromContext(r.Context()); raw != "" {
			if branchID, parseErr := uuid.Parse(raw); parseErr == nil {
				input.BranchID = &branchID
			}
		}
		if payload.CustomerID != nil {
			customerID, parseErr := uuid.Parse(*payload.CustomerID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid customer id"))
				return
			}
			input.CustomerID = &customerID
		}
		for _, line := range payload.Items {
			productID, parseErr := uuid.Parse(line.ProductID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid product id"))
				return
			}
			input.Items = append(input.Items, sales.CommitSaleItem{
				ProductID: productID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			})
		}

		sale, err := svc.CommitSale(r.Context(), orgID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}

// GetSale returns one sale with its lines.
func GetSale(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saleID, err := validators.ParseUUIDParam(chi.URLParam(r, "saleID"), "saleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.GetSale(r.Context(), orgID, saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}

// ListSales returns sales newest first, filtered by date range and status.
func ListSales(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := sales.ListFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
			from, parseErr := time.Parse(time.RFC3339, raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid from timestamp"))
				return
			}
			filters.From = &from
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
			to, parseErr := time.Parse(time.RFC3339, raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid to timestamp"))
				return
			}
			filters.To = &to
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseSaleStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			filters.Status = &status
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Limit = limit
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1000000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Offset = offset

		rows, err := svc.ListSales(r.Context(), orgID, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// RefundSale marks a sale refunded and restores managed stock.
func RefundSale(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saleID, err := validators.ParseUUIDParam(chi.URLParam(r, "saleID"), "saleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.RefundSale(r.Context(), orgID, saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}
