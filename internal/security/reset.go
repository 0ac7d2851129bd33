package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/danuarta/portfolio/internal/config"
	"github.com/danuarta/portfolio/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// resetBcryptCost is deliberately above bcrypt.DefaultCost: the reset path
// writes the credential that guards the whole admin area.
const resetBcryptCost = 12

// GenericResetMessage is returned whether or not the account exists.
// Enumeration resistance depends on this never varying.
const GenericResetMessage = "If an account with that email exists, you will receive a password reset link."

var ErrUserNotFound = fmt.Errorf("user not found")
var ErrInvalidToken = fmt.Errorf("invalid or expired reset token")

// Mailer is the email delivery collaborator. Production uses net/smtp,
// tests capture sends.
type Mailer interface {
	Send(to, subject, html, text string) error
}

type PasswordResetService struct {
	db     *gorm.DB
	cfg    config.SecurityConfig
	audit  *AuditService
	mailer Mailer
	// Base URL the emailed reset link points at.
	siteURL string
}

func NewPasswordResetService(db *gorm.DB, cfg config.SecurityConfig, audit *AuditService, mailer Mailer, siteURL string) *PasswordResetService {
	return &PasswordResetService{db: db, cfg: cfg, audit: audit, mailer: mailer, siteURL: siteURL}
}

// CreateToken issues a fresh reset token for an existing user. All prior
// valid tokens for the email are marked used first, so at most one valid
// token exists per email. Callers at the HTTP boundary must not surface the
// user-not-found error to the client.
func (s *PasswordResetService) CreateToken(email string) (string, error) {
	email = NormalizeEmail(email)

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrUserNotFound
		}
		return "", err
	}

	token, err := generateResetToken()
	if err != nil {
		return "", err
	}

	// Invalidate-then-insert, in one transaction so a reader never sees two
	// valid tokens for the same email.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PasswordResetToken{}).
			Where("email = ? AND used = ? AND expires_at > ?", email, false, time.Now()).
			Update("used", true).Error; err != nil {
			return err
		}

		return tx.Create(&models.PasswordResetToken{
			Email:     email,
			Token:     token,
			ExpiresAt: time.Now().Add(s.cfg.ResetTokenTTL),
		}).Error
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// VerifyToken returns the email a token belongs to, or "" when the token is
// unknown, already used, or expired. Read-only; consumption is a separate step.
func (s *PasswordResetService) VerifyToken(token string) string {
	if token == "" {
		return ""
	}

	var row models.PasswordResetToken
	if err := s.db.Where("token = ?", token).First(&row).Error; err != nil {
		return ""
	}
	if row.Used || row.ExpiresAt.Before(time.Now()) {
		return ""
	}
	return row.Email
}

// ConsumeToken burns a token. Call only after the password update it guards
// has been persisted; a crash between update and consume leaves the token
// valid for retry, which is the safe direction.
func (s *PasswordResetService) ConsumeToken(token string) error {
	return s.db.Model(&models.PasswordResetToken{}).
		Where("token = ?", token).
		Update("used", true).Error
}

// CleanupExpiredTokens purges expired and used rows. Pure maintenance.
func (s *PasswordResetService) CleanupExpiredTokens() int64 {
	res := s.db.
		Where("expires_at < ? OR used = ?", time.Now(), true).
		Delete(&models.PasswordResetToken{})
	if res.Error != nil {
		log.Printf("⚠️  Reset: token cleanup failed: %v", res.Error)
		return 0
	}
	return res.RowsAffected
}

// RequestPasswordReset is the orchestration entry for the forgot-password
// flow. The returned message is identical whether or not the account exists.
func (s *PasswordResetService) RequestPasswordReset(email, ipAddress, userAgent string) (string, error) {
	email = NormalizeEmail(email)

	token, err := s.CreateToken(email)
	if err != nil {
		if err == ErrUserNotFound {
			// Same envelope as the found case. Do not log the miss at a
			// level that changes response timing or shape.
			return GenericResetMessage, nil
		}
		return "", err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.siteURL, token)
	html := fmt.Sprintf(`<p>A password reset was requested for your account.</p>
<p><a href="%s">Reset your password</a> (link expires in %d minutes).</p>
<p>If you did not request this, you can ignore this email.</p>`,
		resetURL, int(s.cfg.ResetTokenTTL.Minutes()))
	text := fmt.Sprintf("Reset your password: %s (expires in %d minutes)",
		resetURL, int(s.cfg.ResetTokenTTL.Minutes()))

	if err := s.mailer.Send(email, "Password Reset", html, text); err != nil {
		// Delivery failure is indistinguishable from success at the API
		// boundary; log it for the operator.
		log.Printf("⚠️  Reset: failed to send email to %s: %v", email, err)
	}

	s.audit.LogPasswordResetRequest(email, ipAddress, userAgent)

	return GenericResetMessage, nil
}

// ResetPassword verifies the token, writes the new bcrypt hash and only then
// consumes the token.
func (s *PasswordResetService) ResetPassword(token, newPassword, ipAddress, userAgent string) error {
	email := s.VerifyToken(token)
	if email == "" {
		return ErrInvalidToken
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), resetBcryptCost)
	if err != nil {
		return err
	}

	if err := s.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("password", string(hash)).Error; err != nil {
		return err
	}

	if err := s.ConsumeToken(token); err != nil {
		log.Printf("⚠️  Reset: failed to consume token for %s: %v", email, err)
	}

	s.audit.LogPasswordResetComplete(&user.ID, email, ipAddress, userAgent)

	return nil
}

type TokenCheck struct {
	Valid       bool   `json:"valid"`
	MaskedEmail string `json:"email,omitempty"`
}

// CheckToken backs the "is this link still good" probe. The email is masked:
// whoever holds only the token should not learn the full address.
func (s *PasswordResetService) CheckToken(token string) TokenCheck {
	email := s.VerifyToken(token)
	if email == "" {
		return TokenCheck{Valid: false}
	}
	return TokenCheck{Valid: true, MaskedEmail: MaskEmail(email)}
}

// MaskEmail renders ab***@domain.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at+1:]
	visible := 2
	if len(local) < visible {
		visible = len(local)
	}
	return local[:visible] + "***@" + domain
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
