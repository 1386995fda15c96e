package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is the canonical catalog entry. Stock is the authoritative
// committed count, mutated only by the sale commit transaction and manual
// inventory adjustments.
type Product struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID       `gorm:"column:organization_id;type:uuid;not null"`
	Name           string          `gorm:"column:name;not null"`
	Description    *string         `gorm:"column:description"`
	SKU            *string         `gorm:"column:sku"`
	Barcode        *string         `gorm:"column:barcode"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Cost           decimal.Decimal `gorm:"column:cost;type:numeric(10,2);not null"`
	Category       *string         `gorm:"column:category"`
	Tags           pq.StringArray  `gorm:"column:tags;type:text[];default:ARRAY[]::text[]"`
	ImageURL       *string         `gorm:"column:image_url"`
	ManageStock    bool            `gorm:"column:manage_stock;not null;default:true"`
	Stock          int             `gorm:"column:stock;not null;default:0"`
	MinStockAlert  int             `gorm:"column:min_stock_alert;not null;default:5"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
