package auth

import (
	"fmt"

	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/security"
	"github.com/danuarta/portfolio/internal/utils"
)

// Package-level collaborators, wired once by server.New via Setup.
var (
	Lockout *security.LockoutService
	Audit   *security.AuditService
	Reset   *security.PasswordResetService
)

func Setup(lockout *security.LockoutService, audit *security.AuditService, reset *security.PasswordResetService) {
	Lockout = lockout
	Audit = audit
	Reset = reset
}

var ErrAccountLocked = fmt.Errorf("account temporarily locked")
var ErrInvalidCredentials = fmt.Errorf("invalid credentials")

// LoginUser runs the full login sequence: lockout check first (a locked
// account is rejected before the credential check, so correct credentials do
// not shortcut the lock), then credential verification, then counter
// bookkeeping and an audit event for the outcome.
func LoginUser(email, password, ipAddress, userAgent string) (string, string, security.LockoutStatus, error) {
	email = security.NormalizeEmail(email)

	status := Lockout.CheckLockoutStatus(email)
	if status.IsLocked {
		Audit.LogLoginFailed(email, ipAddress, userAgent, "account_locked")
		return "", "", status, ErrAccountLocked
	}

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		status = Lockout.RecordFailedAttempt(email, ipAddress, userAgent)
		Audit.LogLoginFailed(email, ipAddress, userAgent, "unknown_email")
		return "", "", status, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		status = Lockout.RecordFailedAttempt(email, ipAddress, userAgent)
		Audit.LogLoginFailed(email, ipAddress, userAgent, "invalid_password")
		if status.IsLocked {
			return "", "", status, ErrAccountLocked
		}
		return "", "", status, ErrInvalidCredentials
	}

	Lockout.ResetFailedAttempts(email)
	Audit.LogLoginSuccess(&user.ID, email, ipAddress, userAgent)

	accessToken, err := utils.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return "", "", status, err
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", status, err
	}

	return accessToken, refreshToken, security.LockoutStatus{}, nil
}

// ChangePassword verifies the current credential before writing the new one.
func ChangePassword(userID uint, currentPassword, newPassword, ipAddress, userAgent string) error {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return fmt.Errorf("user not found")
	}

	if !utils.CheckPasswordHash(currentPassword, user.Password) {
		return ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := database.DB.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("password", hash).Error; err != nil {
		return err
	}

	if revoked := utils.RevokeRefreshTokens(user.ID); revoked > 0 {
		Audit.LogSessionRevoked(&user.ID, user.Email, ipAddress, userAgent)
	}
	Audit.LogPasswordChange(&user.ID, user.Email, ipAddress, userAgent)

	return nil
}
