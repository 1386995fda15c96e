package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the top-level tenant owning products, employees, and sales.
type Organization struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null"`
	LogoURL   *string   `gorm:"column:logo_url"`
	Address   *string   `gorm:"column:address"`
	Phone     *string   `gorm:"column:phone"`
	Website   *string   `gorm:"column:website"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Branch is a physical location of an organization. Inventory is not
// partitioned per branch; the column exists for reporting only.
type Branch struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	Address        *string   `gorm:"column:address"`
	Phone          *string   `gorm:"column:phone"`
	IsMain         bool      `gorm:"column:is_main;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
