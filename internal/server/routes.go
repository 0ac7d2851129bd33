package server

import (
	"time"

	"github.com/danuarta/portfolio/internal/auth"
	"github.com/danuarta/portfolio/internal/contact"
	"github.com/danuarta/portfolio/internal/dashboard"
	"github.com/danuarta/portfolio/internal/media"
	"github.com/danuarta/portfolio/internal/offering"
	"github.com/danuarta/portfolio/internal/profile"
	"github.com/danuarta/portfolio/internal/project"
	"github.com/danuarta/portfolio/internal/security"
	"github.com/danuarta/portfolio/internal/settings"
	"github.com/danuarta/portfolio/internal/skill"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Portfolio API is running",
		})
	})

	api := app.Group("/api")

	// ==========================================
	// PUBLIC SITE CONTENT
	// ==========================================
	api.Get("/profile", profile.GetProfileHandler)
	api.Get("/projects", project.ListProjectsHandler)
	api.Get("/projects/:slug", project.GetProjectHandler)
	api.Get("/skills", skill.ListSkillsHandler)
	api.Get("/services", offering.ListServicesHandler)
	api.Get("/settings", settings.ListSettingsHandler)
	api.Post("/contact", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
	}), contact.SubmitMessageHandler)

	// ==========================================
	// AUTH (No authentication required)
	// ==========================================
	authGroup := api.Group("/auth")
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.LoginHandler)
	authGroup.Get("/google/login", auth.GoogleLogin)
	authGroup.Get("/google/callback", auth.GoogleCallback)
	authGroup.Post("/forgot-password", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
	}), auth.ForgotPasswordHandler)
	authGroup.Post("/reset-password", auth.ResetPasswordHandler)
	authGroup.Get("/reset-password", auth.VerifyResetTokenHandler)
	authGroup.Post("/refresh", limiter.New(limiter.Config{
		Max:        3,
		Expiration: 5 * time.Minute,
	}), auth.RefreshHandler)
	authGroup.Post("/logout", auth.JWTProtected(), auth.LogoutHandler)
	authGroup.Post("/change-password", auth.JWTProtected(), auth.ChangePasswordHandler)

	// ==========================================
	// ADMIN DASHBOARD
	// ==========================================
	admin := api.Group("/admin")
	admin.Use(auth.JWTProtected())
	admin.Use(auth.AdminOnly())

	admin.Get("/dashboard/stats", dashboard.StatsHandler)

	admin.Post("/projects", project.CreateProjectHandler)
	admin.Put("/projects/:id", project.UpdateProjectHandler)
	admin.Delete("/projects/:id", project.DeleteProjectHandler)

	admin.Post("/skills", skill.CreateSkillHandler)
	admin.Put("/skills/:id", skill.UpdateSkillHandler)
	admin.Delete("/skills/:id", skill.DeleteSkillHandler)

	admin.Post("/services", offering.CreateServiceHandler)
	admin.Put("/services/:id", offering.UpdateServiceHandler)
	admin.Delete("/services/:id", offering.DeleteServiceHandler)

	admin.Put("/profile", profile.UpdateProfileHandler)

	admin.Put("/settings", settings.UpsertSettingsHandler)
	admin.Delete("/settings/:key", settings.DeleteSettingHandler)

	admin.Get("/messages", contact.ListMessagesHandler)
	admin.Put("/messages/:id/read", contact.MarkReadHandler)
	admin.Delete("/messages/:id", contact.DeleteMessageHandler)

	admin.Post("/media/upload", media.UploadHandler)
	admin.Delete("/media", media.DeleteHandler)

	// Security dashboard
	admin.Get("/security/locked-accounts", security.LockedAccountsHandler)
	admin.Post("/security/unlock", security.UnlockAccountHandler)
	admin.Get("/security/lockout-stats", security.LockoutStatsHandler)
	admin.Get("/security/audit-logs", security.AuditLogsHandler)
	admin.Get("/security/audit-stats", security.AuditStatsHandler)
}
