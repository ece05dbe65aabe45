package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"affiliate-order-sync/internal/cache"
	"affiliate-order-sync/internal/config"
	"affiliate-order-sync/internal/eflow"
	"affiliate-order-sync/internal/handler"
	"affiliate-order-sync/internal/middleware"
	"affiliate-order-sync/internal/repository"
	"affiliate-order-sync/internal/router"
	"affiliate-order-sync/internal/service"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting affiliate-order-sync...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Configuration errors are fatal before any network call is made.
	if cfg.Eflow.APIKey == "" {
		log.Fatal("EFLOW_API_KEY is not set")
	}

	// Initialize order repository based on config
	var orderRepo repository.OrderRepository
	switch cfg.OrderDB.Type {
	case "sqlite":
		sqliteRepo, err := repository.NewSQLiteOrderRepository(cfg.OrderDB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		orderRepo = sqliteRepo
		log.Println("SQLite order repository initialized")
	default: // mysql
		if cfg.Database.Name == "" {
			log.Fatal("DB_NAME is not set: no database connection string")
		}

		db, err := sql.Open("mysql", cfg.Database.DSN())
		if err != nil {
			log.Fatalf("Failed to open MySQL connection: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.Ping(); err != nil {
			log.Fatalf("MySQL ping failed: %v", err)
		}

		mysqlRepo, err := repository.NewMySQLOrderRepository(db)
		if err != nil {
			log.Fatalf("Failed to initialize MySQL repository: %v", err)
		}
		orderRepo = mysqlRepo
		log.Println("MySQL order repository initialized")
	}
	defer orderRepo.Close()

	// Initialize run-status cache (Redis in production, memory otherwise)
	var statusCache cache.Cache
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, using memory cache: %v", err)
		} else {
			statusCache = redisCache
			log.Println("Redis run-status cache initialized")
		}
	}
	if statusCache == nil {
		statusCache = cache.NewMemoryCache()
	}
	defer statusCache.Close()

	// Process-wide HTTP client, created once and reused across pages.
	httpClient := &http.Client{Timeout: cfg.Eflow.RequestTimeout}
	fetcher := eflow.NewClient(httpClient, cfg.Eflow)

	// Initialize services
	ingestService := service.NewIngestService(fetcher, orderRepo, statusCache, cfg.Cache.TTL, cfg.Ingest.MaxPages)

	// Scheduled runs (optional)
	if cfg.Ingest.Schedule != "" {
		scheduler, err := service.NewScheduler(cfg.Ingest.Schedule, ingestService, cfg.Ingest.RunTimeout)
		if err != nil {
			log.Fatalf("Invalid ingest schedule %q: %v", cfg.Ingest.Schedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("Scheduled ingestion enabled: %s", cfg.Ingest.Schedule)
	}

	// Initialize handlers
	healthHandler := handler.New(orderRepo)
	ingestHandler := handler.NewIngestHandler(ingestService)

	// Create auth middleware with injected configuration
	authMiddleware := middleware.NewAuthMiddleware(middleware.AuthConfig{
		TriggerKey: cfg.Ingest.TriggerKey,
	})

	// Create router
	r := router.New(router.Config{
		Handler:        healthHandler,
		IngestHandler:  ingestHandler,
		AuthMiddleware: authMiddleware,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
