package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/foxxcyber/meal-cart/internal/config"
	"github.com/foxxcyber/meal-cart/internal/database"
	"github.com/foxxcyber/meal-cart/internal/handlers"
	"github.com/foxxcyber/meal-cart/internal/logging"
	"github.com/foxxcyber/meal-cart/internal/middleware"
	"github.com/foxxcyber/meal-cart/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	cfg := config.Load()

	zlog, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	if err := database.EnsureOwnerUser(ctx, db, cfg); err != nil {
		zlog.Warn("could not ensure owner user", zap.Error(err))
	}

	generator := services.NewShoppingListGenerator(db, db, zlog.Named("generator"))

	// Snapshot export is optional
	var exporter handlers.ListExporter
	if cfg.S3Enabled {
		archive, err := services.NewListArchive(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL, cfg.S3LinkExpiry,
		)
		if err != nil {
			zlog.Warn("failed to initialize list archive", zap.Error(err))
		} else if err := archive.EnsureBucket(ctx); err != nil {
			zlog.Warn("failed to ensure S3 bucket exists", zap.Error(err))
		} else {
			exporter = archive
			zlog.Info("list archive initialized", zap.String("bucket", cfg.S3Bucket))
		}
	}

	h := handlers.New(db, db, generator, exporter, cfg, zlog.Named("http"))

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", middleware.AuthRequired(cfg))

	// Ingredient catalogue
	ingredients := api.Group("/ingredients")
	ingredients.Get("/", h.ListIngredients)
	ingredients.Get("/:id", h.GetIngredient)
	ingredients.Post("/", middleware.OwnerRequired(), h.CreateIngredient)

	// Shopping list routes
	lists := api.Group("/lists")
	lists.Get("/", h.ListShoppingLists)
	lists.Post("/generate", h.GenerateShoppingList)
	lists.Get("/:id", h.GetShoppingList)
	lists.Delete("/:id", h.DeleteShoppingList)
	lists.Post("/:id/items", h.AddItemToList)
	lists.Put("/:id/items/:item_id", h.UpdateListItem)
	lists.Post("/:id/export", h.ExportShoppingList)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zlog.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			zlog.Error("shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
