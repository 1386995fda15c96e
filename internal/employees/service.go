package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camachodev/puntoventa-backend/pkg/config"
	"github.com/camachodev/puntoventa-backend/pkg/db/models"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
	"github.com/camachodev/puntoventa-backend/pkg/security"
)

// Service exposes employee management and terminal PIN login.
type Service interface {
	ListEmployees(ctx context.Context, orgID uuid.UUID) ([]ProfileDTO, error)
	GetEmployee(ctx context.Context, orgID, profileID uuid.UUID) (*ProfileDTO, error)
	CreateEmployee(ctx context.Context, orgID uuid.UUID, input CreateEmployeeInput) (*ProfileDTO, error)
	UpdateEmployee(ctx context.Context, orgID, profileID uuid.UUID, input UpdateEmployeeInput) (*ProfileDTO, error)
	DeactivateEmployee(ctx context.Context, orgID, profileID uuid.UUID) error
	VerifyPIN(ctx context.Context, orgID, profileID uuid.UUID, pin string) (*ProfileDTO, error)
	Login(ctx context.Context, profileID uuid.UUID, pin string) (*ProfileDTO, error)
}

// ProfileDTO is the employee payload returned to clients. The PIN hash never
// leaves the service.
type ProfileDTO struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	BranchID       *uuid.UUID `json:"branch_id,omitempty"`
	Name           string     `json:"name"`
	AvatarURL      *string    `json:"avatar_url,omitempty"`
	Role           string     `json:"role"`
	IsActive       bool       `json:"is_active"`
	HasPIN         bool       `json:"has_pin"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreateEmployeeInput holds the validated payload to create an employee.
type CreateEmployeeInput struct {
	Name      string
	BranchID  *uuid.UUID
	AvatarURL *string
	Role      enums.UserRole
	PIN       string
}

// UpdateEmployeeInput holds optional mutation values for an employee.
type UpdateEmployeeInput struct {
	Name      *string
	BranchID  *uuid.UUID
	AvatarURL *string
	Role      *enums.UserRole
	IsActive  *bool
	PIN       *string
}

type service struct {
	repo   *Repository
	pinCfg config.PINConfig
}

// NewService constructs an employee service.
func NewService(repo *Repository, pinCfg config.PINConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employee repository required")
	}
	return &service{repo: repo, pinCfg: pinCfg}, nil
}

func (s *service) ListEmployees(ctx context.Context, orgID uuid.UUID) ([]ProfileDTO, error) {
	rows, err := s.repo.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing employees")
	}
	out := make([]ProfileDTO, len(rows))
	for i := range rows {
		out[i] = newProfileDTO(&rows[i])
	}
	return out, nil
}

func (s *service) GetEmployee(ctx context.Context, orgID, profileID uuid.UUID) (*ProfileDTO, error) {
	row, err := s.loadOwned(ctx, orgID, profileID)
	if err != nil {
		return nil, err
	}
	dto := newProfileDTO(row)
	return &dto, nil
}

func (s *service) CreateEmployee(ctx context.Context, orgID uuid.UUID, input CreateEmployeeInput) (*ProfileDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee name is required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid role %q", input.Role))
	}

	row := &models.Profile{
		OrganizationID: orgID,
		BranchID:       input.BranchID,
		Name:           name,
		AvatarURL:      input.AvatarURL,
		Role:           input.Role,
		IsActive:       true,
	}
	if pin := strings.TrimSpace(input.PIN); pin != "" {
		hash, err := security.HashPIN(pin, s.pinCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing pin")
		}
		row.PINHash = &hash
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating employee")
	}
	dto := newProfileDTO(created)
	return &dto, nil
}

func (s *service) UpdateEmployee(ctx context.Context, orgID, profileID uuid.UUID, input UpdateEmployeeInput) (*ProfileDTO, error) {
	row, err := s.loadOwned(ctx, orgID, profileID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee name is required")
		}
		row.Name = name
	}
	if input.BranchID != nil {
		row.BranchID = input.BranchID
	}
	if input.AvatarURL != nil {
		row.AvatarURL = input.AvatarURL
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("invalid role %q", *input.Role))
		}
		row.Role = *input.Role
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	if input.PIN != nil {
		pin := strings.TrimSpace(*input.PIN)
		if pin == "" {
			row.PINHash = nil
		} else {
			hash, err := security.HashPIN(pin, s.pinCfg)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing pin")
			}
			row.PINHash = &hash
		}
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating employee")
	}
	dto := newProfileDTO(updated)
	return &dto, nil
}

func (s *service) DeactivateEmployee(ctx context.Context, orgID, profileID uuid.UUID) error {
	row, err := s.loadOwned(ctx, orgID, profileID)
	if err != nil {
		return err
	}
	if !row.IsActive {
		return nil
	}
	row.IsActive = false
	if _, err := s.repo.Update(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivating employee")
	}
	return nil
}

// VerifyPIN checks the terminal PIN for an active employee. Wrong PIN, missing
// PIN, and inactive account all return the same unauthorized error.
func (s *service) VerifyPIN(ctx context.Context, orgID, profileID uuid.UUID, pin string) (*ProfileDTO, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pin is required")
	}

	row, err := s.loadOwned(ctx, orgID, profileID)
	if err != nil {
		return nil, err
	}
	if !row.IsActive || row.PINHash == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPIN(pin, *row.PINHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying pin")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	dto := newProfileDTO(row)
	return &dto, nil
}

// Login verifies a PIN with only the profile id, for the session endpoint
// where no authenticated organization exists yet. Unknown profile, wrong PIN,
// missing PIN, and inactive account all look identical to the caller.
func (s *service) Login(ctx context.Context, profileID uuid.UUID, pin string) (*ProfileDTO, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pin is required")
	}

	row, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading employee")
	}
	if !row.IsActive || row.PINHash == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPIN(pin, *row.PINHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying pin")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	dto := newProfileDTO(row)
	return &dto, nil
}

func (s *service) loadOwned(ctx context.Context, orgID, profileID uuid.UUID) (*models.Profile, error) {
	row, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading employee")
	}
	if row.OrganizationID != orgID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
	}
	return row, nil
}

func newProfileDTO(row *models.Profile) ProfileDTO {
	return ProfileDTO{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		BranchID:       row.BranchID,
		Name:           row.Name,
		AvatarURL:      row.AvatarURL,
		Role:           row.Role.String(),
		IsActive:       row.IsActive,
		HasPIN:         row.PINHash != nil,
		CreatedAt:      row.CreatedAt,
	}
}
