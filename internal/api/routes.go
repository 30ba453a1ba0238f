package api

import (
	"path/filepath"
	"time"

	"github.com/bilgisen/peacenet/internal/config"
	"github.com/bilgisen/peacenet/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// UnlockAttempts is the number of failed admin unlocks allowed per IP per window
const (
	UnlockAttempts = 5
	UnlockWindow   = 15 * time.Minute
)

// pages are the client-side routes served by the SPA index
var pages = []string{"/", "/browse", "/submit", "/admin", "/about", "/auth"}

// NewApp creates the Fiber app with the error handler every route relies on
func NewApp(cfg *config.Config) *fiber.App {
	bodyLimit := 4 * 1024 * 1024
	if limit := int(cfg.MaxFileSize) + 1024*1024; limit > bodyLimit {
		bodyLimit = limit
	}

	return fiber.New(fiber.Config{
		AppName:      "peacenet",
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    bodyLimit,
		ErrorHandler: middleware.ErrorHandler,
	})
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, cfg *config.Config, svc Services) {
	handlers := NewHandlers(cfg, svc)

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	requireUser := middleware.NewAuth(middleware.AuthConfig{
		Authenticate: svc.Auth.Authenticate,
	})
	adminOnly := middleware.AdminOnly(svc.Gate)

	// API group with versioning
	api := app.Group("/api/v1")

	api.Get("/health", handlers.HealthCheck)

	// Public browse endpoints
	api.Get("/stories", handlers.ListStories)
	api.Get("/stories/:id", handlers.GetStory)
	api.Get("/stats", handlers.GetStats)
	api.Get("/categories", handlers.ListCategories)

	// Accounts
	authGroup := api.Group("/auth")
	{
		authGroup.Post("/register", handlers.Register)
		authGroup.Post("/login", handlers.Login)
		authGroup.Post("/google", handlers.LoginWithGoogle)
		authGroup.Get("/me", requireUser, handlers.Me)
	}

	// Signed-in users
	api.Post("/stories", requireUser, handlers.SubmitStory)
	api.Get("/me/stories", requireUser, handlers.MyStories)
	api.Post("/uploads", requireUser, handlers.UploadFile)

	// Admin endpoints
	admin := api.Group("/admin")
	{
		admin.Post("/session", limiter.New(limiter.Config{
			Max:                    UnlockAttempts,
			Expiration:             UnlockWindow,
			SkipSuccessfulRequests: true,
			KeyGenerator: func(c *fiber.Ctx) string {
				return "admin-unlock:" + c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "too many attempts, try again later",
				})
			},
		}), handlers.UnlockAdmin)
		admin.Delete("/session", adminOnly, handlers.LockAdmin)

		stories := admin.Group("/stories", adminOnly)
		stories.Get("", handlers.AdminListStories)
		stories.Get("/counts", handlers.AdminCounts)
		stories.Post("/:id/approve", handlers.ApproveStory)
		stories.Post("/:id/reject", handlers.RejectStory)
		stories.Delete("/:id", handlers.DeleteStory)
	}

	// Single-page client
	if cfg.StaticDir != "" {
		index := filepath.Join(cfg.StaticDir, "index.html")
		for _, page := range pages {
			app.Get(page, func(c *fiber.Ctx) error {
				return c.SendFile(index)
			})
		}
		app.Static("/", cfg.StaticDir)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
