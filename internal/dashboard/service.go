package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/camachodev/puntoventa-backend/pkg/db/models"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
)

// Service exposes the admin dashboard read models.
type Service interface {
	GetSummary(ctx context.Context, orgID uuid.UUID, now time.Time) (*SummaryDTO, error)
	GetTopProducts(ctx context.Context, orgID uuid.UUID, since time.Time, limit int) ([]TopProductDTO, error)
	GetLowStock(ctx context.Context, orgID uuid.UUID) ([]LowStockDTO, error)
}

// SummaryDTO aggregates today's completed sales.
type SummaryDTO struct {
	TodayRevenue decimal.Decimal `json:"today_revenue"`
	TodaySales   int64           `json:"today_sales"`
}

// TopProductDTO is one best-seller row.
type TopProductDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitsSold   int64           `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// LowStockDTO is a managed product at or below its alert threshold.
type LowStockDTO struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Stock         int       `json:"stock"`
	MinStockAlert int       `json:"min_stock_alert"`
}

type service struct {
	db *gorm.DB
}

// NewService constructs a dashboard service over the operational database.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: db}, nil
}

// GetSummary totals today's completed sales in the server's local day.
func (s *service) GetSummary(ctx context.Context, orgID uuid.UUID, now time.Time) (*SummaryDTO, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	type row struct {
		Revenue decimal.Decimal
		Count   int64
	}
	var result row
	err := s.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS count").
		Where("organization_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			orgID, enums.SaleStatusCompleted, dayStart, dayEnd).
		Scan(&result).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "computing daily summary")
	}

	return &SummaryDTO{TodayRevenue: result.Revenue, TodaySales: result.Count}, nil
}

func (s *service) GetTopProducts(ctx context.Context, orgID uuid.UUID, since time.Time, limit int) ([]TopProductDTO, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var rows []TopProductDTO
	err := s.db.WithContext(ctx).
		Table("sale_items si").
		Select("si.product_id, si.product_name, SUM(si.quantity) AS units_sold, COALESCE(SUM(si.total), 0) AS revenue").
		Joins("JOIN sales s ON s.id = si.sale_id").
		Where("s.organization_id = ? AND s.status = ? AND s.created_at >= ?",
			orgID, enums.SaleStatusCompleted, since).
		Group("si.product_id, si.product_name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "computing top products")
	}
	return rows, nil
}

func (s *service) GetLowStock(ctx context.Context, orgID uuid.UUID) ([]LowStockDTO, error) {
	var rows []LowStockDTO
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id AS product_id, name AS product_name, stock, min_stock_alert").
		Where("organization_id = ? AND manage_stock = ? AND stock <= min_stock_alert", orgID, true).
		Order("stock ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing low stock")
	}
	return rows, nil
}
