package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/furniture-store-api/modules/api"
	"github.com/example/furniture-store-api/modules/auth"
	"github.com/example/furniture-store-api/modules/catalog"
	"github.com/example/furniture-store-api/modules/ratelimit"
	"github.com/example/furniture-store-api/store"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Furniture Store API ===")

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	db, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	apiModule := api.NewModule(cfg.HTTPPort)

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	if cfg.RedisAddr != "" {
		rateLimitModule := ratelimit.NewModule(cfg.RedisAddr, cfg.RateLimit)
		apiModule.SetRateLimitModule(rateLimitModule)
		app.Register(rateLimitModule)
	}
	app.Register(auth.NewModule(db, cfg.Auth))
	app.Register(catalog.NewModule(db, cfg.QueryTimeout))
	app.Register(apiModule) // Depends on auth and catalog

	if err := startOrClose(context.Background(), app, db); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				if err := app.Stop(ctx); err != nil {
					return err
				}
				return store.Close(db)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// startOrClose starts app and releases the database when startup fails.
func startOrClose(ctx context.Context, app interface{ Start(context.Context) error }, db *gorm.DB) error {
	if err := app.Start(ctx); err != nil {
		if closeErr := store.Close(db); closeErr != nil {
			log.Printf("Failed to close database: %v", closeErr)
		}
		return err
	}
	return nil
}

func printStartupInfo(cfg Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("Database: %s", cfg.Store.Path)
	if cfg.RedisAddr != "" {
		log.Printf("Rate limit: %d requests per %s on auth routes (Redis %s)",
			cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowSize, cfg.RedisAddr)
	} else {
		log.Println("Rate limit: disabled (REDIS_ADDR not set)")
	}
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", cfg.HTTPPort)
	log.Println("")
	log.Println("  Catalog:")
	log.Println("  GET    /api/products            - List products")
	log.Println("  GET    /api/all-products        - List all products")
	log.Println("  GET    /api/category/:category  - Products in a category")
	log.Println("  GET    /api/product/:id         - Product details")
	log.Println("  GET    /api/search?query=       - Search products by name")
	log.Println("")
	log.Println("  Auth:")
	log.Println("  POST   /api/signup              - Create an account")
	log.Println("  POST   /api/signin              - Sign in and get a token")
	log.Println("  GET    /api/protected           - Requires Bearer token")
	log.Println("")
	log.Println("  GET    /health                  - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
