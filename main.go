package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"marketspace/internal/backend"
	"marketspace/internal/handlers"
	"marketspace/internal/middleware"
	"marketspace/internal/repositories"
	"marketspace/internal/services"
	"marketspace/pkg/rabbitmq"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables
	viper.SetDefault("APP_PORT", ":3030")
	viper.SetDefault("BACKEND_URL", "http://localhost:3333")
	viper.SetDefault("BACKEND_TIMEOUT", "20s")
	viper.SetDefault("SESSION_DB_DRIVER", "sqlite")
	viper.SetDefault("SESSION_DB_DSN", "marketspace.db")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables ad events
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	backendURL := viper.GetString("BACKEND_URL")
	backendTimeout := viper.GetDuration("BACKEND_TIMEOUT")
	if backendTimeout <= 0 {
		backendTimeout = 20 * time.Second
	}

	// --- Initialize the session store ---
	// The local analog of the app's on-device storage: it only ever holds
	// the signed-in user and token.
	db, err := repositories.OpenSessionDB(
		viper.GetString("SESSION_DB_DRIVER"),
		viper.GetString("SESSION_DB_DSN"),
	)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	sessionRepo := repositories.NewGORMSessionRepository(db)

	// --- Initialize the backend client ---
	// All persistence, authentication and image storage lives behind the
	// remote marketplace REST service.
	api := backend.NewClient(backendURL, backendTimeout)

	// --- Initialize the optional ad event publisher ---
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
	} else {
		log.Println("RABBITMQ_URL not set, ad events disabled.")
	}

	// --- Initialize Services ---
	sessionService := services.NewSessionService(api, sessionRepo)
	adService := services.NewAdService(api, sessionService, mqClient)
	listingService := services.NewListingService(api, sessionService)

	// Restore a previously persisted session, if any. An expired token is
	// discarded and the gateway starts signed out.
	if err := sessionService.Restore(); err != nil {
		log.Printf("Warning: could not restore session: %v", err)
	}

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(sessionService, api)
	adHandler := handlers.NewAdHandler(adService, listingService, api)
	listingHandler := handlers.NewListingHandler(listingService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		BodyLimit: 4 * services.MaxAdImages * services.MaxImageBytes,
	})

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Sign-in and sign-up are reachable while signed out
	authHandler.RegisterPublicRoutes(apiV1)

	// Everything else requires an established session
	protectedRoutes := apiV1.Group("", middleware.SignedInRequired(sessionService))
	authHandler.RegisterRoutes(protectedRoutes)
	adHandler.RegisterRoutes(protectedRoutes)
	listingHandler.RegisterRoutes(protectedRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"time":    time.Now().Format(time.RFC3339),
			"backend": backendURL,
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting gateway on port %s (backend %s)", appPort, backendURL)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down gateway...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Gateway gracefully stopped")
}
