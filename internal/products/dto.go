package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camachodev/puntoventa-backend/pkg/db/models"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	SKU           *string         `json:"sku,omitempty"`
	Barcode       *string         `json:"barcode,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	Category      *string         `json:"category,omitempty"`
	Tags          []string        `json:"tags"`
	ImageURL      *string         `json:"image_url,omitempty"`
	ManageStock   bool            `json:"manage_stock"`
	Stock         int             `json:"stock"`
	MinStockAlert int             `json:"min_stock_alert"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		SKU:           product.SKU,
		Barcode:       product.Barcode,
		Price:         product.Price,
		Cost:          product.Cost,
		Category:      product.Category,
		Tags:          append([]string{}, product.Tags...),
		ImageURL:      product.ImageURL,
		ManageStock:   product.ManageStock,
		Stock:         product.Stock,
		MinStockAlert: product.MinStockAlert,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

// NewProductDTOs maps catalog rows in order.
func NewProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, len(rows))
	for i := range rows {
		out[i] = *NewProductDTO(&rows[i])
	}
	return out
}

// StockAdjustmentDTO reports one applied batch adjustment.
type StockAdjustmentDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	NewStock  int       `json:"new_stock"`
}
