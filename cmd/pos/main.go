// The pos daemon hosts one terminal's availability core: the persisted carts,
// the reservation-aware stock resolver, the push-invalidated product cache,
// and the checkout gateway, behind a small HTTP surface for the terminal UI.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	productsvc "github.com/camachodev/puntoventa-backend/internal/products"
	"github.com/camachodev/puntoventa-backend/internal/sales"
	"github.com/camachodev/puntoventa-backend/internal/terminal/cart"
	"github.com/camachodev/puntoventa-backend/internal/terminal/catalog"
	"github.com/camachodev/puntoventa-backend/internal/terminal/checkout"
	"github.com/camachodev/puntoventa-backend/internal/terminal/reservation"
	"github.com/camachodev/puntoventa-backend/internal/terminal/server"
	"github.com/camachodev/puntoventa-backend/internal/terminal/stockfeed"
	"github.com/camachodev/puntoventa-backend/pkg/config"
	"github.com/camachodev/puntoventa-backend/pkg/db"
	"github.com/camachodev/puntoventa-backend/pkg/kvstore"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
	"github.com/camachodev/puntoventa-backend/pkg/metrics"
	"github.com/camachodev/puntoventa-backend/pkg/notify"
	"github.com/camachodev/puntoventa-backend/pkg/pubsub"
	"github.com/camachodev/puntoventa-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "pos"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pos",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	orgID, err := uuid.Parse(strings.TrimSpace(cfg.Terminal.OrganizationID))
	if err != nil || orgID == uuid.Nil {
		logg.Error(context.Background(), "terminal organization id is required", err)
		os.Exit(1)
	}

	ctx := logg.WithTerminal(context.Background(), cfg.Terminal.Name)

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cart storage: memory keeps carts process-local, redis shares them
	// across every terminal process on the host.
	var kv kvstore.Store
	switch strings.ToLower(cfg.Terminal.StorageBackend) {
	case "redis":
		redisClient, redisErr := redis.New(context.Background(), cfg.Redis, logg)
		if redisErr != nil {
			logg.Error(ctx, "failed to bootstrap redis cart storage", redisErr)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}()
		kv, err = kvstore.NewRedis(redisClient)
	default:
		kv = kvstore.NewMemory()
	}
	if err != nil {
		logg.Error(ctx, "failed to bootstrap cart storage", err)
		os.Exit(1)
	}

	hub := notify.NewHub()
	posCart, err := cart.NewStore(cfg.Terminal.POSCartKey, kv, hub)
	if err != nil {
		logg.Error(ctx, "failed to create pos cart", err)
		os.Exit(1)
	}
	storeCart, err := cart.NewStore(cfg.Terminal.StoreCartKey, kv, hub)
	if err != nil {
		logg.Error(ctx, "failed to create store cart", err)
		os.Exit(1)
	}

	// Foreign writers to shared storage surface as local notifications, so
	// every process converges on the same cart state.
	watch, err := kv.Watch(runCtx)
	if err != nil {
		logg.Error(ctx, "failed to watch cart storage", err)
		os.Exit(1)
	}
	go func() {
		for ev := range watch {
			hub.Notify("cart:" + ev.Key)
		}
	}()

	terminalMetrics := metrics.NewTerminalMetrics(prometheus.DefaultRegisterer)

	productRepo := productsvc.NewRepository(dbClient.DB())
	productService, err := productsvc.NewService(productRepo, dbClient, nil, logg)
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}
	salesService, err := sales.NewService(sales.NewRepository(dbClient.DB()), productRepo, dbClient, nil, logg)
	if err != nil {
		logg.Error(ctx, "failed to create sales service", err)
		os.Exit(1)
	}
	cache, err := catalog.NewCache(catalogSource(productService, orgID), terminalMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create catalog cache", err)
		os.Exit(1)
	}
	agg, err := reservation.NewAggregator(posCart, storeCart)
	if err != nil {
		logg.Error(ctx, "failed to create reservation aggregator", err)
		os.Exit(1)
	}
	resolver, err := reservation.NewResolver(agg, cache)
	if err != nil {
		logg.Error(ctx, "failed to create availability resolver", err)
		os.Exit(1)
	}
	posGateway, err := checkout.NewGateway(orgID, posCart, salesService, cache, terminalMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to create pos checkout gateway", err)
		os.Exit(1)
	}
	storeGateway, err := checkout.NewGateway(orgID, storeCart, salesService, cache, terminalMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to create store checkout gateway", err)
		os.Exit(1)
	}

	// Stock feed: optional outside production, the cache then refreshes only
	// on restart or explicit invalidation.
	if pubsubClient, psErr := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg); psErr != nil {
		if cfg.App.IsProd() {
			logg.Error(ctx, "failed to bootstrap pubsub", psErr)
			os.Exit(1)
		}
		logg.Warn(ctx, "pubsub unavailable, stock push invalidation disabled: "+psErr.Error())
	} else {
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(ctx, "error closing pubsub", err)
			}
		}()
		handler, handlerErr := stockfeed.NewHandler(cache, hub, terminalMetrics, logg)
		if handlerErr != nil {
			logg.Error(ctx, "failed to create stock feed handler", handlerErr)
			os.Exit(1)
		}
		subscriber, subErr := stockfeed.NewSubscriber(pubsubClient.StockSubscription(), handler, logg)
		if subErr != nil {
			logg.Error(ctx, "failed to create stock feed subscriber", subErr)
			os.Exit(1)
		}
		go func() {
			if err := subscriber.Run(runCtx); err != nil {
				logg.Error(ctx, "stock feed subscriber stopped", err)
			}
		}()
	}

	srv, err := server.New(posCart, storeCart, cache, resolver, posGateway, storeGateway, terminalMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to create terminal server", err)
		os.Exit(1)
	}

	addr := ":" + cfg.Terminal.Port
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})
	logg.Info(ctx, "starting terminal daemon")

	httpServer := &http.Server{Addr: addr, Handler: srv.Routes()}
	go func() {
		<-runCtx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "error draining terminal server", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "terminal daemon stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "terminal daemon stopped")
}

// catalogSource adapts the product service to the terminal catalog contract.
func catalogSource(svc productsvc.Service, orgID uuid.UUID) catalog.SourceFunc {
	return func(ctx context.Context) ([]catalog.Product, error) {
		rows, err := svc.ListProducts(ctx, orgID, productsvc.ListFilters{})
		if err != nil {
			return nil, err
		}
		out := make([]catalog.Product, len(rows))
		for i, row := range rows {
			out[i] = catalog.Product{
				ID:          row.ID,
				Name:        row.Name,
				Price:       row.Price,
				Barcode:     row.Barcode,
				Category:    row.Category,
				ManageStock: row.ManageStock,
				Stock:       row.Stock,
			}
		}
		return out, nil
	}
}
