package routes

import (
	"time"

	"github.com/aeroguide/aeroguide-api/internal/config"
	"github.com/aeroguide/aeroguide-api/internal/dto"
	"github.com/aeroguide/aeroguide-api/internal/handlers"
	"github.com/aeroguide/aeroguide-api/internal/metrics"
	"github.com/aeroguide/aeroguide-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	School  *handlers.SchoolHandler
	Review  *handlers.ReviewHandler
	Inquiry *handlers.InquiryHandler
	Contact *handlers.ContactHandler
	Admin   *handlers.AdminHandler
	Health  *handlers.HealthHandler
}

func Setup(app *fiber.App, cfg *config.Config, sessionSecret []byte, h Handlers, m *metrics.Metrics) {
	requireAuth := middleware.RequireAuth(sessionSecret)
	optionalAuth := middleware.OptionalAuth(sessionSecret)
	requireAdmin := middleware.RequireAdmin()

	app.Get("/metrics", m.Handler())

	api := app.Group("/api")
	if l := rateLimit(cfg.RateLimitPerMinute); l != nil {
		api.Use(l)
	}

	api.Get("/health", h.Health.Check)

	// Auth: stricter per-IP limit
	auth := api.Group("/auth")
	if l := rateLimit(cfg.AuthRateLimitPerMinute); l != nil {
		auth.Use(l)
	}
	auth.Post("/google", h.Auth.GoogleSignIn)
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Get("/me", requireAuth, h.Auth.Me)

	// Schools
	api.Get("/schools", optionalAuth, h.School.List)
	api.Post("/schools", requireAuth, requireAdmin, h.School.Create)
	api.Get("/schools/:id", optionalAuth, h.School.Get)
	api.Put("/schools/:id", requireAuth, requireAdmin, h.School.Update)
	api.Delete("/schools/:id", requireAuth, requireAdmin, h.School.Delete)

	api.Get("/schools/:id/reviews", optionalAuth, h.Review.ListForSchool)
	api.Post("/schools/:id/reviews", requireAuth, h.Review.Create)
	api.Get("/schools/:id/inquiries", requireAuth, h.Inquiry.ListForSchool)
	api.Post("/schools/:id/inquiries", optionalAuth, h.Inquiry.Create)

	// Review moderation
	api.Get("/reviews", requireAuth, requireAdmin, h.Review.List)
	api.Patch("/reviews/:id", requireAuth, requireAdmin, h.Review.UpdateStatus)
	api.Delete("/reviews/:id", requireAuth, requireAdmin, h.Review.Delete)

	api.Patch("/inquiries/:id", requireAuth, requireAdmin, h.Inquiry.UpdateStatus)

	// Contact form
	api.Post("/contact", h.Contact.Create)
	api.Patch("/contact/:id", requireAuth, requireAdmin, h.Contact.UpdateStatus)

	// Admin portal
	admin := api.Group("/admin", requireAuth, requireAdmin)
	admin.Get("/stats", h.Admin.Stats)
	admin.Get("/inquiries", h.Inquiry.List)
	admin.Get("/messages", h.Contact.List)
	admin.Get("/users", h.Admin.ListUsers)
	admin.Patch("/users/:id/role", h.Admin.UpdateUserRole)
}

// rateLimit returns a per-IP sliding-window limiter, or nil when perMinute is 0.
func rateLimit(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return nil
	}
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: "Too many requests, please try again later",
			})
		},
	})
}
