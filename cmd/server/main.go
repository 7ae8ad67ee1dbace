package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	"github.com/curiokeep/curiokeep/internal/config"
	"github.com/curiokeep/curiokeep/internal/database"
	"github.com/curiokeep/curiokeep/internal/handlers"
	"github.com/curiokeep/curiokeep/internal/middleware"
	"github.com/curiokeep/curiokeep/internal/services"

	_ "github.com/curiokeep/curiokeep/docs/api" // Swagger docs
)

// @title CurioKeep API
// @version 1.0.0
// @description Personal collection manager: accounts, collections, items, search, analytics and CSV export

// @contact.name API Support
// @contact.url https://github.com/curiokeep/curiokeep

// @license.name MIT

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey SessionAuth
// @in cookie
// @name user_session

func main() {
	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("curiokeep")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Server-side sessions keyed by the user_session cookie
	sessions := session.New(session.Config{
		Expiration:     time.Duration(cfg.SessionExpiryHours) * time.Hour,
		KeyLookup:      "cookie:user_session",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: "Lax",
	})

	// Logged-out session ids stay rejected until process restart
	revoked := services.NewMemoryTokenStore()

	app.Use(middleware.Version())

	// Health endpoint for probes
	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// Create handlers
	authHandler := &handlers.AuthHandler{DB: db, Sessions: sessions, Revoked: revoked}
	collectionHandler := &handlers.CollectionHandler{DB: db}
	itemHandler := &handlers.ItemHandler{DB: db}
	insightsHandler := &handlers.InsightsHandler{DB: db}

	// Auth routes (no session required except logout, which tolerates none)
	auth := app.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Get("/logout", authHandler.Logout)
	auth.Post("/request-reset", authHandler.RequestReset)
	auth.Post("/confirm-reset", authHandler.ConfirmReset)

	// Collection routes (all session-gated)
	collection := app.Group("/collection", middleware.RequireUser(sessions, revoked))
	collection.Get("/", itemHandler.GetItems)
	collection.Get("/unassigned", itemHandler.GetUnassignedItems)
	collection.Get("/collections", collectionHandler.GetCollections)
	collection.Get("/collections-list", collectionHandler.GetCollectionsList)
	collection.Post("/create", collectionHandler.CreateCollection)
	collection.Put("/edit/:id", collectionHandler.EditCollection)
	collection.Delete("/delete/:id", collectionHandler.DeleteCollection)
	collection.Post("/add", itemHandler.AddItem)
	collection.Put("/item/update/:id", itemHandler.UpdateItem)
	collection.Delete("/item/delete/:id", itemHandler.DeleteItem)
	collection.Post("/assign", itemHandler.AssignItems)
	collection.Get("/search", insightsHandler.Search)
	collection.Get("/analytics", insightsHandler.Analytics)
	collection.Get("/export/:collection_name", insightsHandler.Export)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Resource not found",
			"details": c.OriginalURL(),
		})
	})

	// Graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-ch
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler converts uncaught errors to the standard envelope
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   message,
		"details": err.Error(),
	})
}
