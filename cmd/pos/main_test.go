package main

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	productsvc "github.com/camachodev/puntoventa-backend/internal/products"
)

type stubCatalogService struct {
	rows []productsvc.ProductDTO
}

func (s *stubCatalogService) ListProducts(ctx context.Context, orgID uuid.UUID, filters productsvc.ListFilters) ([]productsvc.ProductDTO, error) {
	return s.rows, nil
}

func (s *stubCatalogService) GetProduct(ctx context.Context, orgID, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubCatalogService) GetProductByBarcode(ctx context.Context, orgID uuid.UUID, barcode string) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, orgID uuid.UUID, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubCatalogService) UpdateProduct(ctx context.Context, orgID, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubCatalogService) DeleteProduct(ctx context.Context, orgID, productID uuid.UUID) error {
	panic("unimplemented")
}

func (s *stubCatalogService) AdjustStockBatch(ctx context.Context, orgID uuid.UUID, input []productsvc.StockAdjustmentInput) ([]productsvc.StockAdjustmentDTO, error) {
	panic("unimplemented")
}

func TestCatalogSourceMapsProducts(t *testing.T) {
	barcode := "7501000123456"
	category := "bebidas"
	managedID := uuid.New()
	bareID := uuid.New()

	svc := &stubCatalogService{rows: []productsvc.ProductDTO{
		{
			ID:          managedID,
			Name:        "Café de Olla",
			Price:       decimal.NewFromFloat(45.00),
			Barcode:     &barcode,
			Category:    &category,
			ManageStock: true,
			Stock:       12,
		},
		{
			ID:    bareID,
			Name:  "Envoltura",
			Price: decimal.NewFromInt(10),
		},
	}}

	products, err := catalogSource(svc, uuid.New())(context.Background())
	if err != nil {
		t.Fatalf("catalogSource: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	managed := products[0]
	if managed.ID != managedID || managed.Name != "Café de Olla" {
		t.Fatalf("unexpected mapped product: %+v", managed)
	}
	if managed.Barcode == nil || *managed.Barcode != barcode {
		t.Fatalf("barcode not carried through: %+v", managed.Barcode)
	}
	if managed.Category == nil || *managed.Category != category {
		t.Fatalf("category not carried through: %+v", managed.Category)
	}
	if !managed.ManageStock || managed.Stock != 12 {
		t.Fatalf("stock fields not carried through: %+v", managed)
	}

	bare := products[1]
	if bare.Barcode != nil || bare.Category != nil {
		t.Fatalf("absent optional fields must stay nil: %+v", bare)
	}
	if bare.ManageStock {
		t.Fatalf("unmanaged product mapped as managed: %+v", bare)
	}
}
