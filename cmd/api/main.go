package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docstore/docs"
	"docstore/internal/config"
	"docstore/internal/database"
	"docstore/internal/database/migration"
	handlers "docstore/internal/http/handler"
	"docstore/internal/http/middleware"
	"docstore/internal/otel"
	"docstore/internal/repository/postgres"
	"docstore/internal/service"
	"docstore/internal/storage"
)

// @title Document Storage API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Initialize OTLP tracing (no-op when the SDK is disabled or misconfigured)
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		_ = shutdownTracing(context.Background())
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Bootstrap the documents schema on first run
	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize the blob store backend (local disk by default)
	blobStore, err := newBlobStore(cfg)
	if err != nil {
		log.Fatalf("failed to initialize blob store: %v", err)
	}

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	docSvc := service.NewDocumentService(blobStore, docRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Room for a full batch: 10 files of 5 MiB plus multipart framing.
		BodyLimit: 64 << 20,
	})

	// Register global middleware
	// Permissive CORS for browser clients
	app.Use(cors.New())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	// HTTP spans for every request
	app.Use(otelfiber.Middleware())

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register prometheus metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, blobStore, docSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// newBlobStore selects the blob store backend from configuration.
func newBlobStore(cfg *config.AppConfig) (storage.BlobStore, error) {
	switch cfg.Storage.Backend {
	case "local":
		return storage.NewLocal(cfg.Storage.UploadsRoot)
	case "s3":
		return storage.NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
