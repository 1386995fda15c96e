package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/camachodev/puntoventa-backend/api/controllers"
	"github.com/camachodev/puntoventa-backend/api/middleware"
	"github.com/camachodev/puntoventa-backend/internal/customers"
	"github.com/camachodev/puntoventa-backend/internal/dashboard"
	"github.com/camachodev/puntoventa-backend/internal/employees"
	productsvc "github.com/camachodev/puntoventa-backend/internal/products"
	"github.com/camachodev/puntoventa-backend/internal/sales"
	"github.com/camachodev/puntoventa-backend/pkg/config"
	"github.com/camachodev/puntoventa-backend/pkg/db"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
	"github.com/camachodev/puntoventa-backend/pkg/redis"
)

// NewRouter wires the backend HTTP surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	productService productsvc.Service,
	salesService sales.Service,
	employeeService employees.Service,
	customerService customers.Service,
	dashboardService dashboard.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.LoginRateLimit(cfg.AuthRateLimit, redisClient, logg)).
			Post("/login", controllers.Login(employeeService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Get("/barcode/{barcode}", controllers.GetProductByBarcode(productService, logg))
			r.Get("/{productID}", controllers.GetProduct(productService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireInventoryAccess(logg))
				r.Post("/", controllers.CreateProduct(productService, logg))
				r.Patch("/{productID}", controllers.UpdateProduct(productService, logg))
				r.Delete("/{productID}", controllers.DeleteProduct(productService, logg))
				r.Post("/stock-adjustments", controllers.AdjustStock(productService, logg))
			})
		})

		r.Route("/sales", func(r chi.Router) {
			r.Use(middleware.RequireSellAccess(logg))
			r.Post("/", controllers.CommitSale(salesService, logg))
			r.Get("/", controllers.ListSales(salesService, logg))
			r.Get("/{saleID}", controllers.GetSale(salesService, logg))
			r.Post("/{saleID}/refund", controllers.RefundSale(salesService, logg))
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", controllers.ListEmployees(employeeService, logg))
			r.Get("/{profileID}", controllers.GetEmployee(employeeService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleManager))
				r.Post("/", controllers.CreateEmployee(employeeService, logg))
				r.Patch("/{profileID}", controllers.UpdateEmployee(employeeService, logg))
				r.Post("/{profileID}/deactivate", controllers.DeactivateEmployee(employeeService, logg))
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(customerService, logg))
			r.Post("/", controllers.CreateCustomer(customerService, logg))
			r.Get("/{customerID}", controllers.GetCustomer(customerService, logg))
			r.Put("/{customerID}", controllers.UpdateCustomer(customerService, logg))
			r.Delete("/{customerID}", controllers.DeleteCustomer(customerService, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", controllers.DashboardSummary(dashboardService, logg))
			r.Get("/top-products", controllers.DashboardTopProducts(dashboardService, logg))
			r.Get("/low-stock", controllers.DashboardLowStock(dashboardService, logg))
		})
	})

	return r
}
