package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/camachodev/puntoventa-backend/pkg/db"
	"github.com/camachodev/puntoventa-backend/pkg/db/models"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
	"github.com/camachodev/puntoventa-backend/pkg/pubsub"
)

// Service exposes catalog and inventory management operations.
type Service interface {
	ListProducts(ctx context.Context, orgID uuid.UUID, filters ListFilters) ([]ProductDTO, error)
	GetProduct(ctx context.Context, orgID, productID uuid.UUID) (*ProductDTO, error)
	GetProductByBarcode(ctx context.Context, orgID uuid.UUID, barcode string) (*ProductDTO, error)
	CreateProduct(ctx context.Context, orgID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, orgID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, orgID, productID uuid.UUID) error
	AdjustStockBatch(ctx context.Context, orgID uuid.UUID, input []StockAdjustmentInput) ([]StockAdjustmentDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Description   *string
	SKU           *string
	Barcode       *string
	Price         decimal.Decimal
	Cost          decimal.Decimal
	Category      *string
	Tags          []string
	ImageURL      *string
	ManageStock   bool
	Stock         int
	MinStockAlert int
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	SKU           *string
	Barcode       *string
	Price         *decimal.Decimal
	Cost          *decimal.Decimal
	Category      *string
	Tags          *[]string
	ImageURL      *string
	ManageStock   *bool
	Stock         *int
	MinStockAlert *int
}

// StockAdjustmentInput applies a signed delta to one product's on-hand count.
type StockAdjustmentInput struct {
	ProductID uuid.UUID
	Delta     int
}

// StockEventPublisher emits authoritative stock counts after committed mutations.
type StockEventPublisher interface {
	PublishStockChange(ctx context.Context, ev pubsub.StockEvent) error
}

type service struct {
	repo      *Repository
	dbClient  *db.Client
	publisher StockEventPublisher
	logg      *logger.Logger
}

// NewService constructs a product service. The publisher may be nil when no
// stock feed is configured.
func NewService(repo *Repository, dbClient *db.Client, publisher StockEventPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, publisher: publisher, logg: logg}, nil
}

func (s *service) ListProducts(ctx context.Context, orgID uuid.UUID, filters ListFilters) ([]ProductDTO, error) {
	rows, err := s.repo.ListByOrganization(ctx, orgID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}
	return NewProductDTOs(rows), nil
}

func (s *service) GetProduct(ctx context.Context, orgID, productID uuid.UUID) (*ProductDTO, error) {
	row, err := s.loadOwned(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(row), nil
}

func (s *service) GetProductByBarcode(ctx context.Context, orgID uuid.UUID, barcode string) (*ProductDTO, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	row, err := s.repo.FindByBarcode(ctx, orgID, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up barcode")
	}
	return NewProductDTO(row), nil
}

func (s *service) CreateProduct(ctx context.Context, orgID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() || input.Cost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price and cost must not be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	row := &models.Product{
		OrganizationID: orgID,
		Name:           name,
		Description:    input.Description,
		SKU:            input.SKU,
		Barcode:        input.Barcode,
		Price:          input.Price,
		Cost:           input.Cost,
		Category:       input.Category,
		Tags:           cloneTags(input.Tags),
		ImageURL:       input.ImageURL,
		ManageStock:    input.ManageStock,
		Stock:          input.Stock,
		MinStockAlert:  input.MinStockAlert,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	return NewProductDTO(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, orgID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	row, err := s.loadOwned(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}

	stockChanged := false

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		row.Name = name
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.SKU != nil {
		row.SKU = input.SKU
	}
	if input.Barcode != nil {
		row.Barcode = input.Barcode
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		row.Price = *input.Price
	}
	if input.Cost != nil {
		if input.Cost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost must not be negative")
		}
		row.Cost = *input.Cost
	}
	if input.Category != nil {
		row.Category = input.Category
	}
	if input.Tags != nil {
		row.Tags = cloneTags(*input.Tags)
	}
	if input.ImageURL != nil {
		row.ImageURL = input.ImageURL
	}
	if input.ManageStock != nil {
		row.ManageStock = *input.ManageStock
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
		}
		if row.Stock != *input.Stock {
			stockChanged = true
		}
		row.Stock = *input.Stock
	}
	if input.MinStockAlert != nil {
		row.MinStockAlert = *input.MinStockAlert
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}

	if stockChanged {
		s.publishStock(ctx, updated.ID, updated.Stock)
	}

	return NewProductDTO(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, orgID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, orgID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
	}
	return nil
}

// AdjustStockBatch applies signed deltas inside one transaction. Results are
// clamped at zero: an oversized decrement empties the shelf, it never goes
// negative. Stock events go out only after the transaction commits.
func (s *service) AdjustStockBatch(ctx context.Context, orgID uuid.UUID, input []StockAdjustmentInput) ([]StockAdjustmentDTO, error) {
	if len(input) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one adjustment is required")
	}

	applied := make([]StockAdjustmentDTO, 0, len(input))
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for _, adj := range input {
			row, err := txRepo.FindByIDForUpdate(ctx, adj.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("product %s not found", adj.ProductID))
				}
				return err
			}
			if row.OrganizationID != orgID {
				return pkgerrors.New(pkgerrors.CodeNotFound,
					fmt.Sprintf("product %s not found", adj.ProductID))
			}

			newStock := row.Stock + adj.Delta
			if newStock < 0 {
				newStock = 0
			}
			if err := txRepo.SetStock(ctx, row.ID, newStock); err != nil {
				return err
			}
			applied = append(applied, StockAdjustmentDTO{ProductID: row.ID, NewStock: newStock})
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjusting stock")
	}

	for _, adj := range applied {
		s.publishStock(ctx, adj.ProductID, adj.NewStock)
	}
	return applied, nil
}

func cloneTags(value []string) pq.StringArray {
	if len(value) == 0 {
		return pq.StringArray{}
	}
	res := make(pq.StringArray, len(value))
	copy(res, value)
	return res
}

func (s *service) loadOwned(ctx context.Context, orgID, productID uuid.UUID) (*models.Product, error) {
	row, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if row.OrganizationID != orgID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return row, nil
}

// publishStock pushes the authoritative count to the stock feed. Failures are
// logged, not returned: the DB write already committed.
func (s *service) publishStock(ctx context.Context, productID uuid.UUID, stock int) {
	if s.publisher == nil {
		return
	}
	ev := pubsub.StockEvent{ProductID: productID, NewStock: stock, OccurredAt: time.Now().UTC()}
	if err := s.publisher.PublishStockChange(ctx, ev); err != nil {
		s.logg.Error(ctx, "publishing stock change", err)
	}
}
