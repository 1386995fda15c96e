package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/camachodev/puntoventa-backend/pkg/enums"
)

// Profile is an employee account scoped to one organization.
type Profile struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID      `gorm:"column:organization_id;type:uuid;not null"`
	BranchID       *uuid.UUID     `gorm:"column:branch_id;type:uuid"`
	Name           string         `gorm:"column:name;not null"`
	AvatarURL      *string        `gorm:"column:avatar_url"`
	Role           enums.UserRole `gorm:"column:role;not null;default:seller"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	PINHash        *string        `gorm:"column:pin_hash"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
}
