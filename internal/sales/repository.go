package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camachodev/puntoventa-backend/pkg/db/models"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
)

// Repository wires together sale persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the sale and its items in one statement batch.
func (r *Repository) Create(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

// FindByID loads a sale with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListFilters narrows the sales listing.
type ListFilters struct {
	From   *time.Time
	To     *time.Time
	Status *enums.SaleStatus
	Limit  int
	Offset int
}

// ListByOrganization returns sales newest first with items preloaded.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID, filters ListFilters) ([]models.Sale, error) {
	qb := r.db.WithContext(ctx).
		Preload("Items").
		Where("organization_id = ?", orgID)

	if filters.From != nil {
		qb = qb.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		qb = qb.Where("created_at < ?", *filters.To)
	}
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}

	limit := filters.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	qb = qb.Order("created_at DESC").Limit(limit)
	if filters.Offset > 0 {
		qb = qb.Offset(filters.Offset)
	}

	var rows []models.Sale
	err := qb.Find(&rows).Error
	return rows, err
}

// UpdateStatus flips the sale status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SaleStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}
