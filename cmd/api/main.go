package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rakurank/rakurank_api/internal/cache"
	"github.com/rakurank/rakurank_api/internal/catalog"
	"github.com/rakurank/rakurank_api/internal/config"
	"github.com/rakurank/rakurank_api/internal/database"
	"github.com/rakurank/rakurank_api/internal/handler"
	"github.com/rakurank/rakurank_api/internal/middleware"
	"github.com/rakurank/rakurank_api/internal/repository"
	"github.com/rakurank/rakurank_api/internal/service"
	"github.com/rakurank/rakurank_api/internal/worker"
	"github.com/rakurank/rakurank_api/pkg/rakuten"
)

// main is the application entrypoint for the RakuRank API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting rakurank api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis; fall back to the in-memory state store so the
	// catalog stays readable when Redis is down. State then does not survive
	// restarts, which matches a client with storage disabled.
	var stateStore cache.Store
	var redisClient *cache.RedisClient
	redisClient, err = cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis connection failed, using in-memory state store")
		redisClient = nil
		stateStore = cache.NewMemoryStore()
	} else {
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")
		stateStore = redisClient
	}
	stateCache := cache.NewStateCache(stateStore)

	// 4. Initialize catalog store and seed it
	store := catalog.NewStore()
	if cfg.Catalog.DataFile != "" {
		if err := store.LoadFile(cfg.Catalog.DataFile); err != nil {
			log.Warn().Err(err).Str("file", cfg.Catalog.DataFile).Msg("catalog seed file not loaded")
		}
	}

	// 5. Initialize repositories and the Ichiba client
	rankingRepo := repository.NewRankingRepository(db)
	rakutenClient := rakuten.NewClient(rakuten.Config{
		ApplicationID: cfg.Rakuten.ApplicationID,
		AffiliateID:   cfg.Rakuten.AffiliateID,
		MinInterval:   cfg.Rakuten.MinInterval,
		MaxRetries:    cfg.Rakuten.MaxRetries,
	})

	// 6. Initialize services
	pipelineSvc := service.NewPipelineService(store)
	stateSvc := service.NewStateService(stateCache)
	compareSvc := service.NewCompareService(stateCache, store)
	structuredSvc := service.NewStructuredDataService(store, cfg.Site.Title, cfg.Site.Description, cfg.Site.BaseURL)
	analyticsSvc := service.NewAnalyticsService()
	syncSvc := service.NewSyncService(rakutenClient, rankingRepo, store, cfg.Rakuten.GenreName, cfg.Rakuten.TopN)
	adminAuthSvc := service.NewAdminAuthService(cfg.Admin)

	// 6a. Seed from snapshots when the file gave us nothing
	if store.Len() == 0 {
		if err := syncSvc.RefreshCatalog(context.Background()); err != nil {
			log.Warn().Err(err).Msg("catalog not seeded from snapshots")
		}
	}

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:     handler.NewHealthHandler(store, redisClient, syncSvc),
		Product:    handler.NewProductHandler(pipelineSvc, stateSvc),
		Structured: handler.NewStructuredHandler(structuredSvc),
		State:      handler.NewStateHandler(stateSvc),
		Compare:    handler.NewCompareHandler(compareSvc),
		Event:      handler.NewEventHandler(analyticsSvc),
		Auth:       handler.NewAuthHandler(adminAuthSvc, middleware.NewInvalidAuthRateLimiter()),
		Admin:      handler.NewAdminHandler(syncSvc, rankingRepo),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers. Without an application ID there is nothing to
	// collect; the service then serves the seeded catalog only.
	if cfg.Rakuten.ApplicationID != "" {
		go worker.NewSyncWorker(syncSvc, cfg.Worker.SyncInterval).Start(ctx)
		go worker.NewDetailRefreshWorker(
			syncSvc,
			cfg.Worker.DetailRefreshInterval,
			cfg.Worker.DetailStaleAfter,
			cfg.Worker.DetailRefreshCap,
		).Start(ctx)
	} else {
		log.Warn().Msg("RAKUTEN_APP_ID not set, ranking collection disabled")
	}

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health     *handler.HealthHandler
	Product    *handler.ProductHandler
	Structured *handler.StructuredHandler
	State      *handler.StateHandler
	Compare    *handler.CompareHandler
	Event      *handler.EventHandler
	Auth       *handler.AuthHandler
	Admin      *handler.AdminHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Catalog routes
	products := router.Group("/v1/products")
	{
		products.GET("", handlers.Product.GetProducts)
		products.GET("/top-picks", handlers.Product.GetTopPicks)
		products.GET("/chart", handlers.Product.GetChart)
		products.GET("/structured", handlers.Structured.GetStructuredData)
		products.GET("/guides/:type", handlers.Product.GetGuide)
	}

	// Per-profile state routes
	profiles := router.Group("/v1/profiles/:profileId")
	{
		profiles.GET("/state", handlers.State.GetState)
		profiles.PUT("/state", handlers.State.PutState)
		profiles.PUT("/theme", handlers.State.PutTheme)
		profiles.GET("/favorites", handlers.State.GetFavorites)
		profiles.POST("/favorites/:itemId/toggle", handlers.State.ToggleFavorite)

		profiles.GET("/compare", handlers.Compare.GetItems)
		profiles.POST("/compare/:itemId", handlers.Compare.AddItem)
		profiles.DELETE("/compare/:itemId", handlers.Compare.RemoveItem)
		profiles.DELETE("/compare", handlers.Compare.ClearItems)
		profiles.GET("/compare-table", handlers.Compare.GetTable)
	}

	// Interaction events
	router.POST("/v1/events", handlers.Event.PostEvent)

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	admin.Use(jwtMiddleware.Handle())
	{
		admin.POST("/sync", handlers.Admin.TriggerSync)
		admin.POST("/catalog/reload", handlers.Admin.ReloadCatalog)
		admin.GET("/genres", handlers.Admin.ListGenres)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
