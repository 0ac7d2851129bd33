package security

import (
	"github.com/danuarta/portfolio/internal/response"
	"github.com/gofiber/fiber/v2"
)

var (
	lockoutSvc *LockoutService
	auditSvc   *AuditService
)

func SetupHandlers(lockout *LockoutService, audit *AuditService) {
	lockoutSvc = lockout
	auditSvc = audit
}

// LockedAccountsHandler shows full lock detail (email, attempt count, exact
// remaining time). Admin-only by routing; end users never see this.
func LockedAccountsHandler(c *fiber.Ctx) error {
	return response.Success(c, lockoutSvc.GetLockedAccounts(), "")
}

func UnlockAccountHandler(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Email == "" {
		return response.ValidationError(c, map[string]string{
			"email": "email is required",
		})
	}

	if !lockoutSvc.UnlockAccount(body.Email, c.IP(), c.Get("User-Agent")) {
		return response.NotFound(c, "Lockout record")
	}

	if adminID, ok := c.Locals("user_id").(uint); ok {
		auditSvc.LogAdminUnlock(&adminID, body.Email, c.IP(), c.Get("User-Agent"))
	}

	return response.Success(c, nil, "Account unlocked")
}

func LockoutStatsHandler(c *fiber.Ctx) error {
	return response.Success(c, lockoutSvc.GetLockoutStats(), "")
}

func AuditLogsHandler(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	action := c.Query("action")
	email := c.Query("email")

	if email != "" {
		return response.Success(c, auditSvc.GetUserAuditLogs(email, c.QueryInt("limit", 50)), "")
	}
	return response.Success(c, auditSvc.GetAllAuditLogs(limit, action), "")
}

func AuditStatsHandler(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	return response.Success(c, auditSvc.GetAuditStats(days), "")
}
