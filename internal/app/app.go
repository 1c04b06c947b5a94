package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"estatehub_backend/database"
	"estatehub_backend/internal/auth"
	"estatehub_backend/internal/cache"
	"estatehub_backend/internal/config"
	"estatehub_backend/internal/email"
	"estatehub_backend/internal/handlers"
	"estatehub_backend/internal/imageprocessor"
	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/middleware"
	"estatehub_backend/internal/payments"
	"estatehub_backend/internal/repositories"
	"estatehub_backend/internal/routes"
	"estatehub_backend/internal/search"
	"estatehub_backend/internal/services"
	"estatehub_backend/internal/storage"
	"estatehub_backend/internal/validator"
	"estatehub_backend/internal/workers"
	"estatehub_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	shutdownTimeout = 10 * time.Second
	jobTimeout      = 2 * time.Minute
)

// App owns every long-lived dependency of the server.
type App struct {
	Config   *config.Config
	Mongo    *mongo.Client
	DB       *mongo.Database
	Redis    *redis.Client
	Index    search.Index
	Services *services.ServiceContainer
	Hub      *ws.WebSocketManager
	Limiter  *middleware.RateLimiter
	Router   *gin.Engine

	store storage.Storage
}

// New connects to MongoDB (required) and Redis (optional), then builds the
// services and the router. Nothing is started until Serve.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	client, db, err := database.Connect(ctx, cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Mongo:  client,
		DB:     db,
		Index:  search.NewClient(cfg.Search.Host, cfg.Search.APIKey, cfg.Search.Index),
		Hub:    ws.NewWebSocketManager(),
	}

	var revoker auth.Revoker = auth.NoopRevoker{}
	if cfg.Redis.URL != "" {
		rdb, err := auth.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn("Redis unavailable, token revocation disabled", "error", err.Error())
		} else {
			a.Redis = rdb
			revoker = auth.NewRevoker(rdb)
		}
	}

	a.store, err = storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	a.Services = a.initializeServices(tokens, revoker)
	a.Limiter = middleware.NewRateLimiter(cfg.Payments.RateLimitPerMinute, time.Minute)

	authenticator := middleware.NewAuthenticator(tokens, revoker)
	a.Router = a.initializeGinRouter()
	routes.RegisterRoutes(a.Router, a.initializeHandlers(authenticator), ws.NewWebSocketHandler(a.Hub, a.allowedOrigins()))

	return a, nil
}

func (a *App) initializeServices(tokens *auth.TokenManager, revoker auth.Revoker) *services.ServiceContainer {
	cfg := a.Config

	mailer := email.NewSender(email.Config{
		SMTPHost:  cfg.Email.SMTPHost,
		SMTPPort:  cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		SiteURL:   cfg.Server.SiteOrigin,
	})
	if _, ok := mailer.(email.NoopSender); ok {
		logger.Warn("SMTP is not configured, emails will only be logged")
	}

	// --- Repositories ---
	categoryRepo := repositories.NewCategoryRepository(a.DB)
	subcategoryRepo := repositories.NewSubcategoryRepository(a.DB)
	propertyRepo := repositories.NewPropertyRepository(a.DB)
	userRepo := repositories.NewUserRepository(a.DB)
	chatRepo := repositories.NewChatRepository(a.DB)
	transactionRepo := repositories.NewTransactionRepository(a.DB)
	packageRepo := repositories.NewPackageRepository(a.DB)
	bannerRepo := repositories.NewBannerRepository(a.DB)

	// --- Gateways ---
	razorpay := payments.NewRazorpayClient(
		cfg.Payments.Razorpay.KeyID,
		cfg.Payments.Razorpay.KeySecret,
		cfg.Payments.Currency,
		cfg.Payments.HTTPTimeout,
	)
	phonepe := payments.NewPhonePeClient(payments.PhonePeConfig{
		MerchantID: cfg.Payments.PhonePe.MerchantID,
		SaltKey:    cfg.Payments.PhonePe.SaltKey,
		SaltIndex:  cfg.Payments.PhonePe.SaltIndex,
		BaseURL:    cfg.Payments.PhonePe.BaseURL,
	}, cfg.Payments.HTTPTimeout)

	// --- Services ---
	categoryCache := cache.NewCategoryCache(categoryRepo, cfg.Cache.CategoryTTL, nil)
	lookup := services.NewLookupService(categoryRepo, subcategoryRepo, categoryCache)
	property := services.NewPropertyService(propertyRepo, lookup, a.Index, a.store, imageprocessor.NewProcessor(cfg.Upload.ImageQuality))

	return &services.ServiceContainer{
		Category: services.NewCategoryService(categoryRepo, subcategoryRepo, categoryCache),
		Lookup:   lookup,
		Property: property,
		Auth:     services.NewAuthService(userRepo, tokens, revoker, mailer, cfg.Server.SiteOrigin),
		User:     services.NewUserService(userRepo),
		Chat:     services.NewChatService(chatRepo, propertyRepo, a.Hub),
		Payment: services.NewPaymentService(
			transactionRepo, packageRepo, propertyRepo, userRepo,
			property, razorpay, phonepe, mailer,
			services.PaymentOptions{
				Currency:    cfg.Payments.Currency,
				SiteURL:     cfg.Server.SiteOrigin,
				CallbackURL: cfg.PhonePeCallbackURL(),
				RedirectURL: cfg.PhonePeRedirectURL,
			},
		),
		Catalog: services.NewCatalogService(packageRepo, bannerRepo),
	}
}

func (a *App) initializeHandlers(authenticator *middleware.Authenticator) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New(), authenticator)
	svc := a.Services

	checks := map[string]handlers.HealthCheck{
		"mongo": func(ctx context.Context) error { return database.Ping(ctx, a.Mongo) },
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}

	return &handlers.AppHandlers{
		HealthHandler:   handlers.NewHealthHandler(checks),
		AuthHandler:     handlers.NewAuthHandler(base, svc.Auth),
		UserHandler:     handlers.NewUserHandler(base, svc.User),
		CategoryHandler: handlers.NewCategoryHandler(base, svc.Category, svc.Lookup),
		PropertyHandler: handlers.NewPropertyHandler(base, svc.Property, a.Config.UploadPolicy()),
		ChatHandler:     handlers.NewChatHandler(base, svc.Chat),
		PaymentHandler:  handlers.NewPaymentHandler(base, svc.Payment, a.Limiter),
		CatalogHandler:  handlers.NewCatalogHandler(base, svc.Catalog),
	}
}

func (a *App) initializeGinRouter() *gin.Engine {
	if !a.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(a.allowedOrigins()))
	router.MaxMultipartMemory = a.Config.Upload.MaxSize

	if local, ok := a.store.(*storage.LocalStorage); ok && a.Config.Storage.BaseURL != "" {
		router.Static(a.Config.Storage.BaseURL, local.BasePath())
	}
	return router
}

func (a *App) allowedOrigins() []string {
	if len(a.Config.Server.CORSOrigins) > 0 {
		return a.Config.Server.CORSOrigins
	}
	return []string{a.Config.Server.SiteOrigin}
}

// ============================================
// Lifecycle
// ============================================

// Serve ensures indexes, starts the background workers and the HTTP server,
// and blocks until ctx is cancelled. In-flight requests get shutdownTimeout.
func (a *App) Serve(ctx context.Context) error {
	if err := database.EnsureIndexes(ctx, a.DB); err != nil {
		return err
	}
	if a.Index.Enabled() {
		if err := a.Index.Init(ctx); err != nil {
			logger.Warn("Search index init failed", "error", err.Error())
		}
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	go a.Hub.Run(bgCtx)
	go a.Limiter.Run(bgCtx)

	scheduler, err := a.startWorkers()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", server.Addr, "env", a.Config.Server.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	stopBackground()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exited")
	return runErr
}

func (a *App) startWorkers() (*workers.Scheduler, error) {
	wc := a.Config.Workers
	if !wc.Enabled {
		logger.Info("Background workers disabled")
		return nil, nil
	}

	scheduler := workers.NewScheduler(jobTimeout)
	if err := scheduler.Add(wc.ReconcileSchedule, workers.NewPaymentWorker(a.Services.Payment, wc.ReconcileMinAge)); err != nil {
		return nil, err
	}
	if err := scheduler.Add(wc.PromotionSchedule, workers.NewPromotionWorker(a.Services.Property)); err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}

// Close releases the database connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Warn("redis close failed", "error", err.Error())
		}
	}
	database.Disconnect(a.Mongo)
}
