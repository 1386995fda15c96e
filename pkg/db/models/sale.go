package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camachodev/puntoventa-backend/pkg/enums"
)

// Sale is a committed checkout. Rows are written only by the commit
// transaction so that the stock decrement and the sale record land together.
type Sale struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID           `gorm:"column:organization_id;type:uuid;not null"`
	BranchID       *uuid.UUID          `gorm:"column:branch_id;type:uuid"`
	ProfileID      *uuid.UUID          `gorm:"column:profile_id;type:uuid"`
	CustomerID     *uuid.UUID          `gorm:"column:customer_id;type:uuid"`
	CustomerName   *string             `gorm:"column:customer_name"`
	Total          decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Status         enums.SaleStatus    `gorm:"column:status;not null;default:completed"`
	Items          []SaleItem          `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// SaleItem is one product line of a sale, denormalized so the sale record
// survives later product edits or deletions.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID      uuid.UUID       `gorm:"column:sale_id;type:uuid;not null"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Total       decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
}
