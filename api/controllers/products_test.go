package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/camachodev/puntoventa-backend/api/middleware"
	productsvc "github.com/camachodev/puntoventa-backend/internal/products"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
)

func testControllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error"), Output: io.Discard})
}

func identityContext(ctx context.Context, orgID uuid.UUID) context.Context {
	return middleware.WithIdentity(ctx, uuid.NewString(), orgID.String(), "", "admin")
}

func TestGetProduct(t *testing.T) {
	logg := testControllerLogger()
	orgID := uuid.New()
	productID := uuid.New()

	makeRequest := func(ctx context.Context, param string) *httptest.ResponseRecorder {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("productID", param)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+param, nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		GetProduct(&stubProductService{}, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing organization", func(t *testing.T) {
		rec := makeRequest(context.Background(), productID.String())
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without org context, got %d", rec.Code)
		}
	})

	t.Run("invalid product id", func(t *testing.T) {
		rec := makeRequest(identityContext(context.Background(), orgID), "not-a-uuid")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		rec := makeRequest(identityContext(context.Background(), orgID), productID.String())
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"data"`) {
			t.Fatalf("expected enveloped payload, got %s", rec.Body.String())
		}
	})
}

func TestCreateProductValidatesBody(t *testing.T) {
	logg := testControllerLogger()
	orgID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"price":"9.50"}`))
	req = req.WithContext(identityContext(req.Context(), orgID))
	rec := httptest.NewRecorder()
	CreateProduct(&stubProductService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rec.Code)
	}
}

func TestCreateProductSuccess(t *testing.T) {
	logg := testControllerLogger()
	orgID := uuid.New()
	stub := &stubProductService{}

	body := `{"name":"Coffee 500g","price":"9.50","manage_stock":true,"stock":12}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req = req.WithContext(identityContext(req.Context(), orgID))
	rec := httptest.NewRecorder()
	CreateProduct(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.createdWith == nil {
		t.Fatal("expected CreateProduct to be invoked")
	}
	if stub.createdWith.Name != "Coffee 500g" {
		t.Fatalf("unexpected name %q", stub.createdWith.Name)
	}
	if !stub.createdWith.ManageStock || stub.createdWith.Stock != 12 {
		t.Fatalf("unexpected stock input %+v", stub.createdWith)
	}
}

type stubProductService struct {
	createdWith *productsvc.CreateProductInput
}

func (s *stubProductService) ListProducts(ctx context.Context, orgID uuid.UUID, filters productsvc.ListFilters) ([]productsvc.ProductDTO, error) {
	return []productsvc.ProductDTO{}, nil
}

func (s *stubProductService) GetProduct(ctx context.Context, orgID, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: productID, Name: "Coffee 500g"}, nil
}

func (s *stubProductService) GetProductByBarcode(ctx context.Context, orgID uuid.UUID, barcode string) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: uuid.New(), Name: "Coffee 500g"}, nil
}

func (s *stubProductService) CreateProduct(ctx context.Context, orgID uuid.UUID, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	s.createdWith = &input
	return &productsvc.ProductDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubProductService) UpdateProduct(ctx context.Context, orgID, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubProductService) DeleteProduct(ctx context.Context, orgID, productID uuid.UUID) error {
	return nil
}

func (s *stubProductService) AdjustStockBatch(ctx context.Context, orgID uuid.UUID, input []productsvc.StockAdjustmentInput) ([]productsvc.StockAdjustmentDTO, error) {
	panic("unimplemented")
}
