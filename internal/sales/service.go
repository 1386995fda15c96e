package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	product "github.com/camachodev/puntoventa-backend/internal/products"
	"github.com/camachodev/puntoventa-backend/pkg/db"
	"github.com/camachodev/puntoventa-backend/pkg/db/models"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
	"github.com/camachodev/puntoventa-backend/pkg/pubsub"
)

// Service exposes sale commit and reporting operations.
type Service interface {
	CommitSale(ctx context.Context, orgID uuid.UUID, input CommitSaleInput) (*SaleDTO, error)
	GetSale(ctx context.Context, orgID, saleID uuid.UUID) (*SaleDTO, error)
	ListSales(ctx context.Context, orgID uuid.UUID, filters ListFilters) ([]SaleDTO, error)
	RefundSale(ctx context.Context, orgID, saleID uuid.UUID) (*SaleDTO, error)
}

// CommitSaleInput is the validated checkout payload. Prices are the ones the
// terminal quoted; stock is the only field the server re-derives.
type CommitSaleInput struct {
	BranchID      *uuid.UUID
	ProfileID     *uuid.UUID
	CustomerID    *uuid.UUID
	CustomerName  *string
	PaymentMethod enums.PaymentMethod
	Items         []CommitSaleItem
}

// CommitSaleItem is one requested line.
type CommitSaleItem struct {
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
}

type service struct {
	repo        *Repository
	productRepo *product.Repository
	dbClient    *db.Client
	publisher   product.StockEventPublisher
	logg        *logger.Logger
}

// NewService constructs a sales service. The publisher may be nil when no
// stock feed is configured.
func NewService(repo *Repository, productRepo *product.Repository, dbClient *db.Client, publisher product.StockEventPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		productRepo: productRepo,
		dbClient:    dbClient,
		publisher:   publisher,
		logg:        logg,
	}, nil
}

// CommitSale atomically validates stock, decrements it, and records the sale.
// Managed products whose on-hand count cannot cover the requested quantity
// fail the whole transaction with a conflict; nothing is partially applied.
func (s *service) CommitSale(ctx context.Context, orgID uuid.UUID, input CommitSaleInput) (*SaleDTO, error) {
	if err := validateCommitInput(input); err != nil {
		return nil, err
	}

	var (
		sale       *models.Sale
		stockAfter []pubsub.StockEvent
	)

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txProducts := s.productRepo.WithTx(tx)
		txSales := s.repo.WithTx(tx)

		items := make([]models.SaleItem, 0, len(input.Items))
		total := decimal.Zero
		stockAfter = stockAfter[:0]

		for _, line := range input.Items {
			row, err := txProducts.FindByIDForUpdate(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("product %s not found", line.ProductID))
				}
				return err
			}
			if row.OrganizationID != orgID {
				return pkgerrors.New(pkgerrors.CodeNotFound,
					fmt.Sprintf("product %s not found", line.ProductID))
			}

			if row.ManageStock {
				if row.Stock < line.Quantity {
					return pkgerrors.New(pkgerrors.CodeConflict,
						fmt.Sprintf("insufficient stock for %q: have %d, want %d", row.Name, row.Stock, line.Quantity))
				}
				newStock := row.Stock - line.Quantity
				if err := txProducts.SetStock(ctx, row.ID, newStock); err != nil {
					return err
				}
				stockAfter = append(stockAfter, pubsub.StockEvent{
					ProductID: row.ID,
					NewStock:  newStock,
				})
			}

			lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			items = append(items, models.SaleItem{
				ID:          uuid.New(),
				ProductID:   row.ID,
				ProductName: row.Name,
				Quantity:    line.Quantity,
				Price:       line.Price,
				Total:       lineTotal,
			})
		}

		created, err := txSales.Create(ctx, &models.Sale{
			ID:             uuid.New(),
			OrganizationID: orgID,
			BranchID:       input.BranchID,
			ProfileID:      input.ProfileID,
			CustomerID:     input.CustomerID,
			CustomerName:   input.CustomerName,
			Total:          total,
			PaymentMethod:  input.PaymentMethod,
			Status:         enums.SaleStatusCompleted,
			Items:          items,
		})
		if err != nil {
			return err
		}
		sale = created
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "committing sale")
	}

	s.publishStockEvents(ctx, stockAfter)
	return NewSaleDTO(sale), nil
}

func (s *service) GetSale(ctx context.Context, orgID, saleID uuid.UUID) (*SaleDTO, error) {
	sale, err := s.loadOwned(ctx, orgID, saleID)
	if err != nil {
		return nil, err
	}
	return NewSaleDTO(sale), nil
}

func (s *service) ListSales(ctx context.Context, orgID uuid.UUID, filters ListFilters) ([]SaleDTO, error) {
	rows, err := s.repo.ListByOrganization(ctx, orgID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing sales")
	}
	return NewSaleDTOs(rows), nil
}

// RefundSale marks the sale refunded and returns its managed quantities to
// stock. Refunding twice is a conflict.
func (s *service) RefundSale(ctx context.Context, orgID, saleID uuid.UUID) (*SaleDTO, error) {
	var stockAfter []pubsub.StockEvent

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txProducts := s.productRepo.WithTx(tx)
		txSales := s.repo.WithTx(tx)

		sale, err := txSales.FindByID(ctx, saleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
			}
			return err
		}
		if sale.OrganizationID != orgID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		if sale.Status == enums.SaleStatusRefunded {
			return pkgerrors.New(pkgerrors.CodeConflict, "sale already refunded")
		}

		for _, item := range sale.Items {
			row, err := txProducts.FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				// The product may have been deleted since the sale; the
				// refund still goes through, there is no shelf to restock.
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			if !row.ManageStock {
				continue
			}
			newStock := row.Stock + item.Quantity
			if err := txProducts.SetStock(ctx, row.ID, newStock); err != nil {
				return err
			}
			stockAfter = append(stockAfter, pubsub.StockEvent{ProductID: row.ID, NewStock: newStock})
		}

		return txSales.UpdateStatus(ctx, saleID, enums.SaleStatusRefunded)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refunding sale")
	}

	s.publishStockEvents(ctx, stockAfter)

	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading sale")
	}
	return NewSaleDTO(sale), nil
}

func (s *service) loadOwned(ctx context.Context, orgID, saleID uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading sale")
	}
	if sale.OrganizationID != orgID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}
	return sale, nil
}

func (s *service) publishStockEvents(ctx context.Context, events []pubsub.StockEvent) {
	if s.publisher == nil {
		return
	}
	now := time.Now().UTC()
	for _, ev := range events {
		ev.OccurredAt = now
		if err := s.publisher.PublishStockChange(ctx, ev); err != nil {
			s.logg.Error(ctx, "publishing stock change", err)
		}
	}
}

func validateCommitInput(input CommitSaleInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale requires at least one item")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}
	for _, line := range input.Items {
		if line.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "item product id is required")
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if line.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item price must not be negative")
		}
	}
	if input.CustomerName != nil && strings.TrimSpace(*input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name must not be blank")
	}
	return nil
}
