package models

import (
	"time"

	"gorm.io/datatypes"
)

// AccountLockout tracks failed login attempts per email. One row per email,
// created on the first failure and reset (not deleted) on success or unlock.
type AccountLockout struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	FailedAttempts int        `gorm:"default:0" json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
	LastAttempt    time.Time  `gorm:"index" json:"last_attempt"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Audit actions. Closed set; AuditLog.Action only ever holds one of these.
const (
	ActionLoginSuccess          = "login_success"
	ActionLoginFailed           = "login_failed"
	ActionLogout                = "logout"
	ActionPasswordChange        = "password_change"
	ActionPasswordResetRequest  = "password_reset_request"
	ActionPasswordResetComplete = "password_reset_complete"
	ActionSessionRevoked        = "session_revoked"
	ActionAccountLocked         = "account_locked"
	ActionAccountUnlocked       = "account_unlocked"
	ActionAdminUnlock           = "admin_unlock"
	ActionProfileUpdated        = "profile_updated"
	ActionSettingsChanged       = "settings_changed"
)

// AuditLog is append-only. Rows are never updated; deletion happens only
// through retention cleanup.
type AuditLog struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id,omitempty"`
	Email     *string        `gorm:"index;size:100" json:"email,omitempty"`
	Action    string         `gorm:"index;size:50;not null" json:"action"`
	IPAddress *string        `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent *string        `gorm:"size:255" json:"user_agent,omitempty"`
	Details   datatypes.JSON `json:"details,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

// PasswordResetToken rows are keyed by the token string itself. At most one
// valid (unused, unexpired) token exists per email; issuing a new one marks
// the previous ones used.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"index;size:100;not null" json:"email"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}
