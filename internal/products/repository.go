package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/camachodev/puntoventa-backend/pkg/db/models"
)

// Repository wires together product persistence helpers.
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

// FindByID loads a product by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate loads a product with a row lock for the commit transaction.
// SQLite has no FOR UPDATE; its single-writer model makes the lock redundant.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	qb := r.db.WithContext(ctx)
	if qb.Dialector.Name() == "postgres" {
		qb = qb.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	if err := qb.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListFilters narrows the catalog listing.
type ListFilters struct {
	Query    string
	Category *string
	LowStock bool
}

// ListByOrganization returns catalog rows for an organization, newest first.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID, filters ListFilters) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).Where("organization_id = ?", orgID)

	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR barcode = ?)", pattern, pattern, search)
	}
	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.LowStock {
		qb = qb.Where("manage_stock = ? AND stock <= min_stock_alert", true)
	}

	var rows []models.Product
	err := qb.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// FindByBarcode resolves a product by exact barcode within an organization.
func (r *Repository) FindByBarcode(ctx context.Context, orgID uuid.UUID, barcode string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		First(&product, "organization_id = ? AND barcode = ?", orgID, barcode).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves an existing product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// SetStock writes the authoritative on-hand count for a product.
func (r *Repository) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", stock).
		Error
}
