package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-center/internal/api/http/handlers"
	"github.com/spec-kit/member-center/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Members        *handlers.MembersHandler
	Benefits       *handlers.BenefitsHandler
	Enrollments    *handlers.EnrollmentsHandler
	Chat           *handlers.ChatHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/members/register", cfg.Members.Register)
	authGroup.Post("/members/login", cfg.Members.Login)

	api := app.Group("/api")

	// Catalog reads are public.
	api.Get("/benefits", cfg.Benefits.ListBenefits)
	api.Get("/benefits/:id", cfg.Benefits.GetBenefit)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/members/:id", cfg.Members.GetMember)
	protected.Get("/members/:id/dashboard", cfg.Members.Dashboard)
	protected.Get("/members/:id/benefits", cfg.Benefits.ListForMember)
	protected.Get("/members/:id/enrollments", cfg.Enrollments.ListEnrollments)
	protected.Post("/members/:id/enrollments", cfg.Enrollments.CreateEnrollment)
	protected.Delete("/members/:id/enrollments/:enrollmentID", cfg.Enrollments.CancelEnrollment)
	protected.Post("/chat", cfg.Chat.Chat)
}
