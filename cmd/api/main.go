package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caribay-backend/config"
	"caribay-backend/internal/delivery/http/middleware"
	v1 "caribay-backend/internal/delivery/http/v1"
	"caribay-backend/internal/infrastructure/cache"
	"caribay-backend/internal/repository/postgres"
	"caribay-backend/internal/usecase"
	"caribay-backend/pkg/logger"
	"caribay-backend/pkg/storage"
	"caribay-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	pgxPool, err := postgres.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgxPool.Close()
	log.Info().Msg("Connected to PostgreSQL, migrations applied")

	// Repositories
	userRepo := postgres.NewUserRepository(pgxPool)
	grantRepo := postgres.NewGrantRepository(pgxPool)
	shippingRepo := postgres.NewShippingRepository(pgxPool)
	orderRepo := postgres.NewOrderRepository(pgxPool)
	categoryRepo := postgres.NewCategoryRepository(pgxPool)
	productRepo := postgres.NewProductRepository(pgxPool)
	bankRepo := postgres.NewBankAccountRepository(pgxPool)

	// In-memory cache, shared by admin verdicts and dashboard stats.
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Object storage (payment proofs in a private prefix, product
	// images public).
	r2Storage, err := storage.NewR2Storage(
		context.Background(),
		cfg.R2AccountID,
		cfg.R2AccessKeyID,
		cfg.R2AccessKeySecret,
		cfg.R2BucketName,
		cfg.R2PublicURL,
		cfg.R2UploadTimeout,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize R2 storage")
	}

	mux := http.NewServeMux()

	// Auth Module
	authUC := usecase.NewAuthUsecase(
		userRepo,
		grantRepo,
		memCache,
		cfg.AdminCacheTTL,
		cfg.AccessTokenExpiry,
		cfg.RefreshTokenExpiry,
	)
	authHandler := v1.NewAuthHandler(authUC)

	// Shipping Module
	shippingUC := usecase.NewShippingUsecase(shippingRepo)
	shippingHandler := v1.NewShippingHandler(shippingUC)

	// Order Module
	orderUC := usecase.NewOrderUsecase(orderRepo, r2Storage, cfg.ProofURLExpiry)
	orderHandler := v1.NewOrderHandler(orderUC)

	// Catalog Module
	catalogUC := usecase.NewCatalogUsecase(categoryRepo, productRepo, r2Storage, cfg.LowStockThreshold)
	catalogHandler := v1.NewCatalogHandler(catalogUC)

	// Bank Accounts
	bankUC := usecase.NewBankAccountUsecase(bankRepo)
	bankHandler := v1.NewBankHandler(bankUC)

	// Stats Module
	statsUC := usecase.NewStatsUsecase(orderRepo, productRepo, categoryRepo, memCache, cfg.StatsCacheTTL, cfg.LowStockThreshold)
	statsHandler := v1.NewStatsHandler(statsUC)

	// Uploads
	uploadHandler := v1.NewUploadHandler(r2Storage)

	// Public
	mux.HandleFunc("GET /api/v1/shipping/quote", shippingHandler.Quote)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/v1/auth/me", middleware.AuthMiddleware(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /api/v1/auth/check", middleware.AuthMiddleware(http.HandlerFunc(authHandler.Check)))

	// Admin (Protected)
	adminMw := middleware.NewAdminMiddleware(authUC)
	adminMiddleware := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(adminMw(h))
	}

	// Admin Shipping Rules
	mux.Handle("GET /api/v1/admin/shipping/rules", adminMiddleware(shippingHandler.ListRules))
	mux.Handle("GET /api/v1/admin/shipping/rules/{id}", adminMiddleware(shippingHandler.GetRule))
	mux.Handle("POST /api/v1/admin/shipping/rules", adminMiddleware(shippingHandler.CreateRule))
	mux.Handle("PUT /api/v1/admin/shipping/rules/{id}", adminMiddleware(shippingHandler.UpdateRule))
	mux.Handle("PATCH /api/v1/admin/shipping/rules/{id}/cost", adminMiddleware(shippingHandler.UpdateRuleCost))
	mux.Handle("PATCH /api/v1/admin/shipping/rules/{id}/status", adminMiddleware(shippingHandler.ToggleRule))
	mux.Handle("DELETE /api/v1/admin/shipping/rules/{id}", adminMiddleware(shippingHandler.DeleteRule))

	// Admin Orders
	mux.Handle("GET /api/v1/admin/orders", adminMiddleware(orderHandler.List))
	mux.Handle("GET /api/v1/admin/orders/{id}", adminMiddleware(orderHandler.Get))
	mux.Handle("PATCH /api/v1/admin/orders/{id}/status", adminMiddleware(orderHandler.UpdateStatus))
	mux.Handle("GET /api/v1/admin/orders/{id}/payment-proof", adminMiddleware(orderHandler.PaymentProofURL))
	mux.Handle("POST /api/v1/admin/orders/{id}/payment-proof", adminMiddleware(orderHandler.UploadPaymentProof))

	// Admin Categories
	mux.Handle("GET /api/v1/admin/categories", adminMiddleware(catalogHandler.ListCategories))
	mux.Handle("POST /api/v1/admin/categories", adminMiddleware(catalogHandler.CreateCategory))
	mux.Handle("PUT /api/v1/admin/categories/{id}", adminMiddleware(catalogHandler.UpdateCategory))
	mux.Handle("DELETE /api/v1/admin/categories/{id}", adminMiddleware(catalogHandler.DeleteCategory))

	// Admin Products & Inventory
	mux.Handle("GET /api/v1/admin/products", adminMiddleware(catalogHandler.ListProducts))
	mux.Handle("GET /api/v1/admin/products/{id}", adminMiddleware(catalogHandler.GetProduct))
	mux.Handle("POST /api/v1/admin/products", adminMiddleware(catalogHandler.CreateProduct))
	mux.Handle("PUT /api/v1/admin/products/{id}", adminMiddleware(catalogHandler.UpdateProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}", adminMiddleware(catalogHandler.DeleteProduct))
	mux.Handle("POST /api/v1/admin/products/{id}/stock", adminMiddleware(catalogHandler.AdjustStock))
	mux.Handle("GET /api/v1/admin/products/{id}/stock/logs", adminMiddleware(catalogHandler.StockAdjustments))
	mux.Handle("GET /api/v1/admin/inventory/low-stock", adminMiddleware(catalogHandler.LowStockProducts))

	// Admin Bank Accounts
	mux.Handle("GET /api/v1/admin/bank-accounts", adminMiddleware(bankHandler.List))
	mux.Handle("POST /api/v1/admin/bank-accounts", adminMiddleware(bankHandler.Create))
	mux.Handle("PUT /api/v1/admin/bank-accounts/{id}", adminMiddleware(bankHandler.Update))
	mux.Handle("PATCH /api/v1/admin/bank-accounts/{id}/status", adminMiddleware(bankHandler.SetActive))
	mux.Handle("DELETE /api/v1/admin/bank-accounts/{id}", adminMiddleware(bankHandler.Delete))

	// Admin Stats
	mux.Handle("GET /api/v1/admin/stats/overview", adminMiddleware(statsHandler.Overview))

	// Admin Uploads
	mux.Handle("POST /api/v1/admin/upload", adminMiddleware(uploadHandler.UploadImage))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler)

	addr := fmt.Sprintf(":%s", cfg.Port)

	// 50 req/s, burst 100, cleanup every minute, client TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,
		100,
		time.Minute,
		3*time.Minute,
	)

	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server listening on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
