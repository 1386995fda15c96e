package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/camachodev/puntoventa-backend/pkg/db/models"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
)

const dashboardSchema = `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  organization_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT, sku TEXT, barcode TEXT,
  price NUMERIC NOT NULL, cost NUMERIC NOT NULL,
  category TEXT, tags TEXT, image_url TEXT,
  manage_stock INTEGER NOT NULL DEFAULT 1,
  stock INTEGER NOT NULL DEFAULT 0,
  min_stock_alert INTEGER NOT NULL DEFAULT 5,
  created_at DATETIME, updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  organization_id TEXT NOT NULL,
  branch_id TEXT, profile_id TEXT, customer_id TEXT, customer_name TEXT,
  total NUMERIC NOT NULL,
  payment_method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'completed',
  created_at DATETIME
);
CREATE TABLE IF NOT EXISTS sale_items (
  id TEXT PRIMARY KEY,
  sale_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  total NUMERIC NOT NULL
);`

type dashFixture struct {
	svc   Service
	conn  *gorm.DB
	orgID uuid.UUID
}

func newDashFixture(t *testing.T) *dashFixture {
	t.Helper()
	dsn := "file:dashboard_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(dashboardSchema).Error)

	svc, err := NewService(conn)
	require.NoError(t, err)
	return &dashFixture{svc: svc, conn: conn, orgID: uuid.New()}
}

func (f *dashFixture) seedSale(t *testing.T, total int64, status enums.SaleStatus, at time.Time, items ...models.SaleItem) {
	t.Helper()
	sale := &models.Sale{
		ID:             uuid.New(),
		OrganizationID: f.orgID,
		Total:          decimal.NewFromInt(total),
		PaymentMethod:  enums.PaymentMethodCash,
		Status:         status,
		CreatedAt:      at,
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].SaleID = sale.ID
	}
	sale.Items = items
	require.NoError(t, f.conn.Create(sale).Error)
}

func TestGetSummaryCountsOnlyTodayCompleted(t *testing.T) {
	f := newDashFixture(t)
	ctx := context.Background()
	now := time.Now()

	f.seedSale(t, 100, enums.SaleStatusCompleted, now)
	f.seedSale(t, 50, enums.SaleStatusCompleted, now)
	f.seedSale(t, 30, enums.SaleStatusRefunded, now)
	f.seedSale(t, 999, enums.SaleStatusCompleted, now.Add(-48*time.Hour))

	summary, err := f.svc.GetSummary(ctx, f.orgID, now)
	require.NoError(t, err)
	assert.True(t, summary.TodayRevenue.Equal(decimal.NewFromInt(150)),
		"got revenue %s", summary.TodayRevenue)
	assert.EqualValues(t, 2, summary.TodaySales)
}

func TestGetTopProductsOrdersByUnits(t *testing.T) {
	f := newDashFixture(t)
	ctx := context.Background()
	now := time.Now()

	coffeeID := uuid.New()
	teaID := uuid.New()
	f.seedSale(t, 100, enums.SaleStatusCompleted, now,
		models.SaleItem{ProductID: coffeeID, ProductName: "Café", Quantity: 5, Price: decimal.NewFromInt(10), Total: decimal.NewFromInt(50)},
		models.SaleItem{ProductID: teaID, ProductName: "Té", Quantity: 2, Price: decimal.NewFromInt(25), Total: decimal.NewFromInt(50)},
	)
	f.seedSale(t, 30, enums.SaleStatusCompleted, now,
		models.SaleItem{ProductID: teaID, ProductName: "Té", Quantity: 1, Price: decimal.NewFromInt(30), Total: decimal.NewFromInt(30)},
	)

	top, err := f.svc.GetTopProducts(ctx, f.orgID, now.Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, coffeeID, top[0].ProductID)
	assert.EqualValues(t, 5, top[0].UnitsSold)
	assert.EqualValues(t, 3, top[1].UnitsSold)
}

func TestGetLowStockListsManagedOnly(t *testing.T) {
	f := newDashFixture(t)
	ctx := context.Background()

	seed := func(name string, stock, alert int, managed bool) {
		require.NoError(t, f.conn.Create(&models.Product{
			ID:             uuid.New(),
			OrganizationID: f.orgID,
			Name:           name,
			Price:          decimal.NewFromInt(1),
			Cost:           decimal.NewFromInt(1),
			ManageStock:    managed,
			Stock:          stock,
			MinStockAlert:  alert,
		}).Error)
	}
	seed("Critical", 0, 5, true)
	seed("Fine", 50, 5, true)
	seed("Unmanaged", 0, 5, false)

	rows, err := f.svc.GetLowStock(ctx, f.orgID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Critical", rows[0].ProductName)
}
