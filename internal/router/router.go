package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillchain/skillchain-api/internal/config"
	"github.com/skillchain/skillchain-api/internal/handler"
	"github.com/skillchain/skillchain-api/internal/middleware"
	"github.com/skillchain/skillchain-api/internal/models"
	"github.com/skillchain/skillchain-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	SkillHandler      *handler.SkillHandler
	SubmissionHandler *handler.SubmissionHandler
	CredentialHandler *handler.CredentialHandler
	AdminHandler      *handler.AdminHandler
	EmployerHandler   *handler.EmployerHandler
	VerifyHandler     *handler.VerifyHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)
	}

	if deps.SkillHandler != nil {
		skills := api.Group("/skills")
		deps.SkillHandler.Register(skills, jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware, middleware.RequireRole(models.RoleStudent, models.RoleAdmin))
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.CredentialHandler != nil {
		credentials := api.Group("/credentials", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
		deps.CredentialHandler.Register(credentials)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.AdminHandler.Register(admin)
	}

	if deps.EmployerHandler != nil {
		employer := api.Group("/employer", jwtMiddleware, middleware.RequireRole(models.RoleEmployer))
		deps.EmployerHandler.Register(employer)
	}

	// Verification is public: anyone holding a credential id may re-check it.
	if deps.VerifyHandler != nil {
		verify := api.Group("/verify")
		deps.VerifyHandler.Register(verify)
	}
}
