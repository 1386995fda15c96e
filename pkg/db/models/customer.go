package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an optional buyer record attached to sales.
type Customer struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	Email          *string   `gorm:"column:email"`
	Phone          *string   `gorm:"column:phone"`
	Address        *string   `gorm:"column:address"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
