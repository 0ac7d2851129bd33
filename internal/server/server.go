package server

import (
	"github.com/danuarta/portfolio/internal/auth"
	"github.com/danuarta/portfolio/internal/config"
	"github.com/danuarta/portfolio/internal/contact"
	"github.com/danuarta/portfolio/internal/dashboard"
	"github.com/danuarta/portfolio/internal/mailer"
	"github.com/danuarta/portfolio/internal/profile"
	"github.com/danuarta/portfolio/internal/security"
	"github.com/danuarta/portfolio/internal/settings"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// New wires the security services into the handler packages and builds the
// fiber app. Pass a non-nil mail collaborator to override SMTP (tests do).
func New(db *gorm.DB, cfg *config.Config, mail security.Mailer) *fiber.App {
	if mail == nil {
		mail = mailer.New(cfg.SMTP)
	}

	auditSvc := security.NewAuditService(db)
	lockoutSvc := security.NewLockoutService(db, cfg.Security, auditSvc)
	resetSvc := security.NewPasswordResetService(db, cfg.Security, auditSvc, mail, cfg.SiteURL)

	auth.Setup(lockoutSvc, auditSvc, resetSvc)
	security.SetupHandlers(lockoutSvc, auditSvc)
	dashboard.Setup(lockoutSvc, auditSvc)
	profile.Setup(auditSvc)
	settings.Setup(auditSvc)
	contact.Setup(mail, cfg.SMTP.From)

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024,
	})

	app.Static("/uploads", "./uploads", fiber.Static{
		Compress:  true,
		ByteRange: true,
		Browse:    false,
		MaxAge:    3600,
	})

	SetupRoutes(app)

	return app
}
