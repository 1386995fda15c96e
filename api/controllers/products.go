package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camachodev/puntoventa-backend/api/responses"
	"github.com/camachodev/puntoventa-backend/api/validators"
	productsvc "github.com/camachodev/puntoventa-backend/internal/products"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
)

// ListProducts returns the organization's catalog, optionally filtered.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := productsvc.ListFilters{
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
			LowStock: r.URL.Query().Get("low_stock") == "true",
		}
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			filters.Category = &category
		}

		products, err := svc.ListProducts(r.Context(), orgID, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// GetProduct returns one product by id.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), orgID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// GetProductByBarcode resolves a scanned barcode to a product.
func GetProductByBarcode(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		barcode := strings.TrimSpace(chi.URLParam(r, "barcode"))
		if barcode == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "barcode required"))
			return
		}

		product, err := svc.GetProductByBarcode(r.Context(), orgID, barcode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Name          string           `json:"name" validate:"required"`
	Description   *string          `json:"description,omitempty"`
	SKU           *string          `json:"sku,omitempty"`
	Barcode       *string          `json:"barcode,omitempty"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Tags          []string         `json:"tags,omitempty" validate:"omitempty,dive,required"`
	ImageURL      *string          `json:"image_url,omitempty"`
	ManageStock   bool             `json:"manage_stock"`
	Stock         int              `json:"stock" validate:"min=0"`
	MinStockAlert int              `json:"min_stock_alert" validate:"min=0"`
}

func (req createProductRequest) toInput() productsvc.CreateProductInput {
	cost := decimal.Zero
	if req.Cost != nil {
		cost = *req.Cost
	}
	return productsvc.CreateProductInput{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		SKU:           req.SKU,
		Barcode:       req.Barcode,
		Price:         req.Price,
		Cost:          cost,
		Category:      req.Category,
		Tags:          req.Tags,
		ImageURL:      req.ImageURL,
		ManageStock:   req.ManageStock,
		Stock:         req.Stock,
		MinStockAlert: req.MinStockAlert,
	}
}

// CreateProduct adds a product to the catalog.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), orgID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	SKU           *string          `json:"sku,omitempty"`
	Barcode       *string          `json:"barcode,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Tags          *[]string        `json:"tags,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	ManageStock   *bool            `json:"manage_stock,omitempty"`
	Stock         *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	MinStockAlert *int             `json:"min_stock_alert,omitempty" validate:"omitempty,min=0"`
}

// UpdateProduct applies a partial catalog update.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), orgID, productID, productsvc.UpdateProductInput{
			Name:          payload.Name,
			Description:   payload.Description,
			SKU:           payload.SKU,
			Barcode:       payload.Barcode,
			Price:         payload.Price,
			Cost:          payload.Cost,
			Category:      payload.Category,
			Tags:          payload.Tags,
			ImageURL:      payload.ImageURL,
			ManageStock:   payload.ManageStock,
			Stock:         payload.Stock,
			MinStockAlert: payload.MinStockAlert,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a product from the catalog.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), orgID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

type stockAdjustmentRequest struct {
	Adjustments []stockAdjustmentLine `json:"adjustments" validate:"required,min=1,dive"`
}

type stockAdjustmentLine struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Delta     int    `json:"delta" validate:"required"`
}

// AdjustStock applies a batch of signed stock deltas atomically.
func AdjustStock(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload stockAdjustmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := make([]productsvc.StockAdjustmentInput, 0, len(payload.Adjustments))
		for _, line := range payload.Adjustments {
			productID, err := uuid.Parse(line.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			input = append(input, productsvc.StockAdjustmentInput{ProductID: productID, Delta: line.Delta})
		}

		applied, err := svc.AdjustStockBatch(r.Context(), orgID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, applied)
	}
}
