package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/camachodev/puntoventa-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestProductsMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_products_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"manage_stock BOOLEAN NOT NULL DEFAULT true",
		"CONSTRAINT products_stock_non_negative CHECK (stock >= 0)",
		"CREATE INDEX IF NOT EXISTS idx_products_barcode",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSalesMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_sales_tables.sql")

	checks := []string{
		"CREATE TYPE payment_method AS ENUM ('cash', 'card')",
		"CREATE TYPE sale_status AS ENUM ('completed', 'refunded')",
		"CREATE TABLE IF NOT EXISTS sales",
		"CREATE TABLE IF NOT EXISTS sale_items",
		"quantity INTEGER NOT NULL CHECK (quantity > 0)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matches %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
