package security

import (
	"log"
	"math"
	"strings"
	"time"

	"github.com/danuarta/portfolio/internal/config"
	"github.com/danuarta/portfolio/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockoutService implements brute-force protection per email. Storage errors
// never propagate out of the check/record paths: a broken lockout table must
// not turn into a login outage, so those paths fall back to the zero status
// and the caller proceeds to normal credential checking.
type LockoutService struct {
	db    *gorm.DB
	cfg   config.SecurityConfig
	audit *AuditService
}

func NewLockoutService(db *gorm.DB, cfg config.SecurityConfig, audit *AuditService) *LockoutService {
	return &LockoutService{db: db, cfg: cfg, audit: audit}
}

type LockoutStatus struct {
	IsLocked       bool       `json:"is_locked"`
	FailedAttempts int        `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
	RemainingTime  int        `json:"remaining_time,omitempty"` // whole minutes, ceiling
}

type LockedAccount struct {
	Email          string     `json:"email"`
	FailedAttempts int        `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
	LastAttempt    time.Time  `json:"last_attempt"`
	RemainingTime  int        `json:"remaining_time,omitempty"`
}

type LockoutStats struct {
	TotalLocked    int64 `json:"total_locked"`
	TotalAttempts  int64 `json:"total_attempts"`
	RecentLockouts int64 `json:"recent_lockouts"`
}

// NormalizeEmail is the single normalization point for every store
// interaction keyed by email. Callers that skip it create shadow rows.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RecordFailedAttempt upserts the lockout row, increments the counter and
// sets the lock once the threshold is reached. Soft-fails to the zero status
// on storage errors.
func (s *LockoutService) RecordFailedAttempt(email, ipAddress, userAgent string) LockoutStatus {
	email = NormalizeEmail(email)
	now := time.Now()

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"failed_attempts": gorm.Expr("failed_attempts + 1"),
			"last_attempt":    now,
			"updated_at":      now,
		}),
	}).Create(&models.AccountLockout{
		Email:          email,
		FailedAttempts: 1,
		LastAttempt:    now,
	}).Error
	if err != nil {
		log.Printf("⚠️  Lockout: failed to record attempt for %s: %v", email, err)
		return LockoutStatus{}
	}

	var row models.AccountLockout
	if err := s.db.Where("email = ?", email).First(&row).Error; err != nil {
		log.Printf("⚠️  Lockout: failed to reload row for %s: %v", email, err)
		return LockoutStatus{}
	}

	alreadyLocked := row.LockedUntil != nil && row.LockedUntil.After(now)
	if row.FailedAttempts >= s.cfg.MaxAttempts && !alreadyLocked {
		until := now.Add(s.cfg.LockoutDuration)
		if err := s.db.Model(&models.AccountLockout{}).
			Where("email = ?", email).
			Update("locked_until", until).Error; err != nil {
			log.Printf("⚠️  Lockout: failed to set lock for %s: %v", email, err)
			return LockoutStatus{}
		}
		row.LockedUntil = &until

		s.audit.LogAccountLocked(email, ipAddress, userAgent, row.FailedAttempts)
	}

	return statusFromRow(&row, s.cfg.MaxAttempts, now)
}

// CheckLockoutStatus is read-only. No row means no failures yet.
func (s *LockoutService) CheckLockoutStatus(email string) LockoutStatus {
	email = NormalizeEmail(email)

	var row models.AccountLockout
	err := s.db.Where("email = ?", email).First(&row).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("⚠️  Lockout: status check failed for %s: %v", email, err)
		}
		return LockoutStatus{}
	}

	return statusFromRow(&row, s.cfg.MaxAttempts, time.Now())
}

// ResetFailedAttempts zeroes the counters after a successful login.
// Idempotent; errors are swallowed to the log.
func (s *LockoutService) ResetFailedAttempts(email string) {
	email = NormalizeEmail(email)

	err := s.db.Model(&models.AccountLockout{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"failed_attempts": 0,
			"locked_until":    nil,
		}).Error
	if err != nil {
		log.Printf("⚠️  Lockout: failed to reset attempts for %s: %v", email, err)
	}
}

// UnlockAccount is the administrative override. Returns false when there is
// no lockout row to unlock.
func (s *LockoutService) UnlockAccount(email, ipAddress, userAgent string) bool {
	email = NormalizeEmail(email)

	var row models.AccountLockout
	if err := s.db.Where("email = ?", email).First(&row).Error; err != nil {
		return false
	}

	err := s.db.Model(&models.AccountLockout{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"failed_attempts": 0,
			"locked_until":    nil,
		}).Error
	if err != nil {
		log.Printf("⚠️  Lockout: failed to unlock %s: %v", email, err)
		return false
	}

	s.audit.LogAccountUnlocked(email, ipAddress, userAgent, "manual")
	return true
}

// GetLockedAccounts lists rows that are explicitly locked or at/over the
// threshold, most recent attempt first.
func (s *LockoutService) GetLockedAccounts() []LockedAccount {
	now := time.Now()

	var rows []models.AccountLockout
	err := s.db.
		Where("locked_until > ? OR failed_attempts >= ?", now, s.cfg.MaxAttempts).
		Order("last_attempt DESC").
		Find(&rows).Error
	if err != nil {
		log.Printf("⚠️  Lockout: failed to list locked accounts: %v", err)
		return []LockedAccount{}
	}

	accounts := make([]LockedAccount, 0, len(rows))
	for _, row := range rows {
		acc := LockedAccount{
			Email:          row.Email,
			FailedAttempts: row.FailedAttempts,
			LockedUntil:    row.LockedUntil,
			LastAttempt:    row.LastAttempt,
		}
		if row.LockedUntil != nil {
			acc.RemainingTime = remainingMinutes(*row.LockedUntil, now)
		}
		accounts = append(accounts, acc)
	}
	return accounts
}

// CleanupExpiredLockouts sweeps in two phases: auto-unlock naturally expired
// locks (with an audit event each), then hard-delete stale clean rows.
// Returns total rows affected. Meant for an external periodic trigger.
func (s *LockoutService) CleanupExpiredLockouts() int {
	now := time.Now()
	affected := 0

	var expired []models.AccountLockout
	err := s.db.
		Where("locked_until < ? AND failed_attempts >= ?", now, s.cfg.MaxAttempts).
		Find(&expired).Error
	if err != nil {
		log.Printf("⚠️  Lockout: cleanup scan failed: %v", err)
		return 0
	}

	for _, row := range expired {
		s.audit.LogAccountUnlocked(row.Email, "", "", "auto")
	}
	affected += len(expired)

	if err := s.db.Model(&models.AccountLockout{}).
		Where("locked_until < ?", now).
		Updates(map[string]interface{}{
			"failed_attempts": 0,
			"locked_until":    nil,
		}).Error; err != nil {
		log.Printf("⚠️  Lockout: cleanup reset failed: %v", err)
	}

	cutoff := now.AddDate(0, 0, -s.cfg.CleanupAfterDays)
	res := s.db.
		Where("last_attempt < ? AND failed_attempts = 0", cutoff).
		Delete(&models.AccountLockout{})
	if res.Error != nil {
		log.Printf("⚠️  Lockout: cleanup delete failed: %v", res.Error)
	} else {
		affected += int(res.RowsAffected)
	}

	return affected
}

func (s *LockoutService) GetLockoutStats() LockoutStats {
	now := time.Now()
	stats := LockoutStats{}

	if err := s.db.Model(&models.AccountLockout{}).
		Where("locked_until > ?", now).
		Count(&stats.TotalLocked).Error; err != nil {
		log.Printf("⚠️  Lockout: stats query failed: %v", err)
		return LockoutStats{}
	}

	var total struct{ Total int64 }
	if err := s.db.Model(&models.AccountLockout{}).
		Select("COALESCE(SUM(failed_attempts), 0) AS total").
		Scan(&total).Error; err != nil {
		log.Printf("⚠️  Lockout: stats query failed: %v", err)
		return LockoutStats{}
	}
	stats.TotalAttempts = total.Total

	if err := s.db.Model(&models.AccountLockout{}).
		Where("last_attempt > ?", now.Add(-24*time.Hour)).
		Count(&stats.RecentLockouts).Error; err != nil {
		log.Printf("⚠️  Lockout: stats query failed: %v", err)
		return LockoutStats{}
	}

	return stats
}

// statusFromRow is the shared lock calculator. LockedUntil is authoritative
// once set; a counter at or over the threshold counts as locked even before
// the lock timestamp lands (two concurrent failures can race the lock-set).
func statusFromRow(row *models.AccountLockout, maxAttempts int, now time.Time) LockoutStatus {
	status := LockoutStatus{
		FailedAttempts: row.FailedAttempts,
		LockedUntil:    row.LockedUntil,
	}

	if row.LockedUntil != nil && row.LockedUntil.After(now) {
		status.IsLocked = true
		status.RemainingTime = remainingMinutes(*row.LockedUntil, now)
		return status
	}

	if row.FailedAttempts >= maxAttempts {
		status.IsLocked = true
	}
	return status
}

// remainingMinutes reports ceiling-rounded whole minutes, clamped to >= 0.
// "14 minutes 1 second left" reports as 15, never 0 while active.
func remainingMinutes(until, now time.Time) int {
	remaining := until.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Minutes()))
}
