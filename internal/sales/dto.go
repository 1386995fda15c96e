package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camachodev/puntoventa-backend/pkg/db/models"
)

// SaleDTO is the committed sale payload returned to clients.
type SaleDTO struct {
	ID            uuid.UUID     `json:"id"`
	BranchID      *uuid.UUID    `json:"branch_id,omitempty"`
	ProfileID     *uuid.UUID    `json:"profile_id,omitempty"`
	CustomerID    *uuid.UUID    `json:"customer_id,omitempty"`
	CustomerName  *string       `json:"customer_name,omitempty"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string        `json:"payment_method"`
	Status        string        `json:"status"`
	Items         []SaleItemDTO `json:"items"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SaleItemDTO is one committed line.
type SaleItemDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// NewSaleDTO maps the persisted model.
func NewSaleDTO(sale *models.Sale) *SaleDTO {
	dto := &SaleDTO{
		ID:            sale.ID,
		BranchID:      sale.BranchID,
		ProfileID:     sale.ProfileID,
		CustomerID:    sale.CustomerID,
		CustomerName:  sale.CustomerName,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod.String(),
		Status:        sale.Status.String(),
		CreatedAt:     sale.CreatedAt,
	}
	dto.Items = make([]SaleItemDTO, len(sale.Items))
	for i, item := range sale.Items {
		dto.Items[i] = SaleItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
		}
	}
	return dto
}

// NewSaleDTOs maps sale rows in order.
func NewSaleDTOs(rows []models.Sale) []SaleDTO {
	out := make([]SaleDTO, len(rows))
	for i := range rows {
		out[i] = *NewSaleDTO(&rows[i])
	}
	return out
}
