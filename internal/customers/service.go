package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camachodev/puntoventa-backend/pkg/db/models"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
)

// Service exposes customer book operations.
type Service interface {
	ListCustomers(ctx context.Context, orgID uuid.UUID, query string) ([]CustomerDTO, error)
	GetCustomer(ctx context.Context, orgID, customerID uuid.UUID) (*CustomerDTO, error)
	CreateCustomer(ctx context.Context, orgID uuid.UUID, input CustomerInput) (*CustomerDTO, error)
	UpdateCustomer(ctx context.Context, orgID, customerID uuid.UUID, input CustomerInput) (*CustomerDTO, error)
	DeleteCustomer(ctx context.Context, orgID, customerID uuid.UUID) error
}

// CustomerDTO is the customer payload returned to clients.
type CustomerDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerInput holds the validated customer payload.
type CustomerInput struct {
	Name    string
	Email   *string
	Phone   *string
	Address *string
}

type service struct {
	repo *Repository
}

// NewService constructs a customer service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCustomers(ctx context.Context, orgID uuid.UUID, query string) ([]CustomerDTO, error) {
	rows, err := s.repo.ListByOrganization(ctx, orgID, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing customers")
	}
	out := make([]CustomerDTO, len(rows))
	for i := range rows {
		out[i] = newCustomerDTO(&rows[i])
	}
	return out, nil
}

func (s *service) GetCustomer(ctx context.Context, orgID, customerID uuid.UUID) (*CustomerDTO, error) {
	row, err := s.loadOwned(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	dto := newCustomerDTO(row)
	return &dto, nil
}

func (s *service) CreateCustomer(ctx context.Context, orgID uuid.UUID, input CustomerInput) (*CustomerDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	created, err := s.repo.Create(ctx, &models.Customer{
		OrganizationID: orgID,
		Name:           name,
		Email:          input.Email,
		Phone:          input.Phone,
		Address:        input.Address,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating customer")
	}
	dto := newCustomerDTO(created)
	return &dto, nil
}

func (s *service) UpdateCustomer(ctx context.Context, orgID, customerID uuid.UUID, input CustomerInput) (*CustomerDTO, error) {
	row, err := s.loadOwned(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	row.Name = name
	row.Email = input.Email
	row.Phone = input.Phone
	row.Address = input.Address

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating customer")
	}
	dto := newCustomerDTO(updated)
	return &dto, nil
}

func (s *service) DeleteCustomer(ctx context.Context, orgID, customerID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, orgID, customerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, customerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting customer")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, orgID, customerID uuid.UUID) (*models.Customer, error) {
	row, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer")
	}
	if row.OrganizationID != orgID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return row, nil
}

func newCustomerDTO(row *models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		Address:   row.Address,
		CreatedAt: row.CreatedAt,
	}
}
