package main

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"plotpilot/internal/handlers"
	"plotpilot/internal/middleware"
	"plotpilot/internal/models"
	"plotpilot/internal/repositories"
	"plotpilot/internal/services"
	"plotpilot/pkg/openai"
	"plotpilot/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Load .env if present, then read settings from the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_PATH", "plotpilot.db")
	viper.SetDefault("SESSION_MAX_AGE", 86400)
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")
	sessionSecret := resolveSessionSecret()
	sessionMaxAge := time.Duration(viper.GetInt("SESSION_MAX_AGE")) * time.Second

	// --- Initialize Database (GORM) ---
	// SQLite file by default; PostgreSQL when DATABASE_DSN is set.
	var dialector gorm.Dialector
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(viper.GetString("DATABASE_PATH"))
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Story{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	// Story events are only published when a broker URL is configured.
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
	} else {
		log.Println("RABBITMQ_URL not set, story events will not be published")
	}

	// --- Initialize Generation Client ---
	apiKey := viper.GetString("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set, story generation will fail")
	}
	generator := openai.NewClient(openai.Config{
		APIKey:  apiKey,
		BaseURL: viper.GetString("OPENAI_BASE_URL"),
		Model:   viper.GetString("OPENAI_MODEL"),
	})

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	storyRepo := repositories.NewGORMStoryRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, sessionSecret, sessionMaxAge)
	storyService := services.NewStoryService(storyRepo, generator, mqClient)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	storyHandler := handlers.NewStoryHandler(storyService)

	// --- Initialize Fiber App ---
	// The error handler is the last-resort boundary: anything that escapes a
	// handler is flattened into the standard failure envelope.
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   "Something went wrong. Please try again.",
			})
		},
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New()) // Request logger

	// --- Static Shell ---
	// Anonymous visitors get the login page; authenticated ones the app.
	app.Get("/", func(c *fiber.Ctx) error {
		if !hasValidSession(c, authService) {
			return c.SendFile("./static/login.html")
		}
		return c.SendFile("./static/index.html")
	})
	app.Get("/index.html", func(c *fiber.Ctx) error {
		if !hasValidSession(c, authService) {
			return c.Redirect("/login.html")
		}
		return c.SendFile("./static/index.html")
	})
	app.Static("/", "./static")

	// --- API Routes ---
	api := app.Group("/api")

	// Authentication routes (public)
	authHandler.RegisterRoutes(api)

	// Protected routes (require an active session)
	protected := api.Group("", middleware.AuthRequired(authService))
	storyHandler.RegisterRoutes(protected)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

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
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// resolveSessionSecret returns the configured session signing secret. In
// production the secret must be supplied explicitly; in development a random
// one is generated, which invalidates all sessions on restart.
func resolveSessionSecret() string {
	secret := viper.GetString("SECRET_KEY")
	if secret != "" {
		return secret
	}

	if viper.GetString("APP_ENV") == "production" {
		log.Fatal("SECRET_KEY must be set in production: sessions signed with a generated secret do not survive a restart")
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate session secret: %v", err)
	}
	log.Println("Warning: SECRET_KEY not set, using a random secret; sessions will not survive a restart")
	return hex.EncodeToString(buf)
}

// hasValidSession reports whether the request carries a valid session cookie.
func hasValidSession(c *fiber.Ctx, authService *services.AuthService) bool {
	tokenString := c.Cookies(middleware.SessionCookieName)
	if tokenString == "" {
		return false
	}
	_, _, err := authService.ValidateSessionToken(tokenString)
	return err == nil
}
