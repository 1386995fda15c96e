package product

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/camachodev/puntoventa-backend/pkg/config"
	"github.com/camachodev/puntoventa-backend/pkg/db"
	"github.com/camachodev/puntoventa-backend/pkg/db/models"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
)

const productsSchema = `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  organization_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  sku TEXT,
  barcode TEXT,
  price NUMERIC NOT NULL,
  cost NUMERIC NOT NULL,
  category TEXT,
  tags TEXT,
  image_url TEXT,
  manage_stock INTEGER NOT NULL DEFAULT 1,
  stock INTEGER NOT NULL DEFAULT 0,
  min_stock_alert INTEGER NOT NULL DEFAULT 5,
  created_at DATETIME,
  updated_at DATETIME
);`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(productsSchema).Error)
	return conn
}

func newTestClient(t *testing.T, conn *gorm.DB) *db.Client {
	t.Helper()
	// Reuse the same shared-cache database so the schema is visible.
	dsn, ok := conn.Dialector.(*sqlite.Dialector)
	require.True(t, ok)
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn.DSN}, nil)
	require.NoError(t, err)
	return client
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "products-test", Level: zerolog.ErrorLevel})
}

func mustCreateTestProduct(t *testing.T, conn *gorm.DB, orgID uuid.UUID, stock int, manageStock bool) *models.Product {
	t.Helper()
	sku := fmt.Sprintf("SKU-%s", uuid.NewString())
	row := &models.Product{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           "Test Product",
		SKU:            &sku,
		Price:          decimal.NewFromFloat(25.50),
		Cost:           decimal.NewFromFloat(12.00),
		ManageStock:    manageStock,
		Stock:          stock,
		MinStockAlert:  5,
	}
	require.NoError(t, conn.Create(row).Error)
	return row
}
