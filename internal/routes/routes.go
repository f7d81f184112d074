package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/taskhive/taskhive-backend/internal/config"
	"github.com/taskhive/taskhive-backend/internal/handlers"
	"github.com/taskhive/taskhive-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	taskHandler *handlers.TaskHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api/v1")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public auth endpoints, stricter rate limit: 10 req/min per IP
	public := api.Group("", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	public.Post("/register", authHandler.Register)
	public.Post("/register/admin", middleware.AdminSignupGuard(cfg), authHandler.RegisterAdmin)
	public.Post("/token", authHandler.CreateToken)
	public.Post("/token/refresh", authHandler.Refresh)

	// Everything below requires a valid access token and a resolvable principal.
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.LoadPrincipal(db))
	protected.Post("/logout", authHandler.Logout)

	protected.Get("/user", userHandler.GetProfile)
	protected.Patch("/user", userHandler.UpdateProfile)

	protected.Get("/task", taskHandler.List)
	protected.Post("/task", taskHandler.Create)
	protected.Patch("/task/:id/completed", taskHandler.Complete)
	protected.Get("/task/:id", taskHandler.Get)
	protected.Put("/task/:id", taskHandler.Replace)
	protected.Patch("/task/:id", taskHandler.Update)
	protected.Delete("/task/:id", taskHandler.Delete)
}
