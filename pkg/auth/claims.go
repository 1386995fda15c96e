package auth

import (
	"github.com/camachodev/puntoventa-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ProfileID      uuid.UUID
	OrganizationID uuid.UUID
	BranchID       *uuid.UUID
	Role           enums.UserRole
	JTI            string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	ProfileID      uuid.UUID      `json:"profile_id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	BranchID       *uuid.UUID     `json:"branch_id,omitempty"`
	Role           enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
