package security_test

import (
	"testing"
	"time"

	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/security"
	"github.com/danuarta/portfolio/internal/testutils"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupLockout(t *testing.T) (*gorm.DB, *security.LockoutService, *security.AuditService) {
	db := testutils.TestDB(t)
	audit := security.NewAuditService(db)
	lockout := security.NewLockoutService(db, testutils.TestConfig().Security, audit)
	return db, lockout, audit
}

func TestRecordFailedAttempt(t *testing.T) {
	db, lockout, _ := setupLockout(t)

	t.Run("Counter increments per failure", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			status := lockout.RecordFailedAttempt("user@example.com", "10.0.0.1", "test-agent")
			assert.Equal(t, i, status.FailedAttempts)
			assert.False(t, status.IsLocked)
		}
	})

	t.Run("Locks at threshold with audit event", func(t *testing.T) {
		lockout.RecordFailedAttempt("user@example.com", "10.0.0.1", "test-agent")
		status := lockout.RecordFailedAttempt("user@example.com", "10.0.0.1", "test-agent")

		assert.True(t, status.IsLocked)
		assert.Equal(t, 5, status.FailedAttempts)
		assert.NotNil(t, status.LockedUntil)
		assert.GreaterOrEqual(t, status.RemainingTime, 1)
		assert.LessOrEqual(t, status.RemainingTime, 15)

		var events []models.AuditLog
		db.Where("action = ?", models.ActionAccountLocked).Find(&events)
		assert.Len(t, events, 1)
		assert.Equal(t, "user@example.com", *events[0].Email)
	})

	t.Run("Email is normalized before storage", func(t *testing.T) {
		lockout.RecordFailedAttempt("  MixedCase@Example.COM ", "", "")
		lockout.RecordFailedAttempt("mixedcase@example.com", "", "")

		var rows []models.AccountLockout
		db.Where("email LIKE ?", "%mixedcase%").Find(&rows)
		assert.Len(t, rows, 1)
		assert.Equal(t, "mixedcase@example.com", rows[0].Email)
		assert.Equal(t, 2, rows[0].FailedAttempts)
	})
}

func TestCheckLockoutStatus(t *testing.T) {
	db, lockout, _ := setupLockout(t)

	t.Run("Unknown email is not locked", func(t *testing.T) {
		status := lockout.CheckLockoutStatus("nobody@example.com")
		assert.False(t, status.IsLocked)
		assert.Equal(t, 0, status.FailedAttempts)
	})

	t.Run("Locked after threshold failures", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			lockout.RecordFailedAttempt("locked@example.com", "", "")
		}

		status := lockout.CheckLockoutStatus("locked@example.com")
		assert.True(t, status.IsLocked)
		assert.LessOrEqual(t, status.RemainingTime, 15)
	})

	t.Run("Remaining time is ceiling rounded", func(t *testing.T) {
		until := time.Now().Add(14*time.Minute + 1*time.Second)
		db.Create(&models.AccountLockout{
			Email:          "ceiling@example.com",
			FailedAttempts: 5,
			LockedUntil:    &until,
			LastAttempt:    time.Now(),
		})

		status := lockout.CheckLockoutStatus("ceiling@example.com")
		assert.True(t, status.IsLocked)
		assert.Equal(t, 15, status.RemainingTime)
	})

	t.Run("Threshold reached without explicit lock still counts as locked", func(t *testing.T) {
		db.Create(&models.AccountLockout{
			Email:          "race@example.com",
			FailedAttempts: 5,
			LastAttempt:    time.Now(),
		})

		status := lockout.CheckLockoutStatus("race@example.com")
		assert.True(t, status.IsLocked)
		assert.Zero(t, status.RemainingTime)
	})

	t.Run("Expired lock is no longer locked", func(t *testing.T) {
		past := time.Now().Add(-1 * time.Minute)
		db.Create(&models.AccountLockout{
			Email:          "expired@example.com",
			FailedAttempts: 3,
			LockedUntil:    &past,
			LastAttempt:    time.Now().Add(-20 * time.Minute),
		})

		status := lockout.CheckLockoutStatus("expired@example.com")
		assert.False(t, status.IsLocked)
	})
}

func TestResetFailedAttempts(t *testing.T) {
	_, lockout, _ := setupLockout(t)

	for i := 0; i < 5; i++ {
		lockout.RecordFailedAttempt("reset@example.com", "", "")
	}
	assert.True(t, lockout.CheckLockoutStatus("reset@example.com").IsLocked)

	lockout.ResetFailedAttempts("reset@example.com")

	status := lockout.CheckLockoutStatus("reset@example.com")
	assert.False(t, status.IsLocked)
	assert.Equal(t, 0, status.FailedAttempts)

	// Idempotent, including for emails with no row at all.
	lockout.ResetFailedAttempts("reset@example.com")
	lockout.ResetFailedAttempts("norow@example.com")
}

func TestUnlockAccount(t *testing.T) {
	db, lockout, _ := setupLockout(t)

	t.Run("No lockout row returns false", func(t *testing.T) {
		assert.False(t, lockout.UnlockAccount("ghost@example.com", "", ""))
	})

	t.Run("Manual unlock resets and audits", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			lockout.RecordFailedAttempt("victim@example.com", "", "")
		}

		assert.True(t, lockout.UnlockAccount("victim@example.com", "10.0.0.2", "admin-ui"))
		assert.False(t, lockout.CheckLockoutStatus("victim@example.com").IsLocked)

		var events []models.AuditLog
		db.Where("action = ? AND email = ?", models.ActionAccountUnlocked, "victim@example.com").Find(&events)
		assert.Len(t, events, 1)
		assert.Contains(t, string(events[0].Details), `"method":"manual"`)
	})
}

func TestGetLockedAccounts(t *testing.T) {
	db, lockout, _ := setupLockout(t)

	until := time.Now().Add(10 * time.Minute)
	db.Create(&models.AccountLockout{
		Email: "older@example.com", FailedAttempts: 5,
		LockedUntil: &until, LastAttempt: time.Now().Add(-2 * time.Hour),
	})
	db.Create(&models.AccountLockout{
		Email: "newer@example.com", FailedAttempts: 6,
		LastAttempt: time.Now(),
	})
	db.Create(&models.AccountLockout{
		Email: "clean@example.com", FailedAttempts: 1,
		LastAttempt: time.Now(),
	})

	accounts := lockout.GetLockedAccounts()
	assert.Len(t, accounts, 2)
	assert.Equal(t, "newer@example.com", accounts[0].Email)
	assert.Equal(t, "older@example.com", accounts[1].Email)
	assert.Zero(t, accounts[0].RemainingTime)
	assert.Greater(t, accounts[1].RemainingTime, 0)
}

func TestCleanupExpiredLockouts(t *testing.T) {
	db, lockout, _ := setupLockout(t)

	t.Run("Expired lock is auto unlocked with one audit event", func(t *testing.T) {
		past := time.Now().Add(-1 * time.Minute)
		db.Create(&models.AccountLockout{
			Email:          "autoun@example.com",
			FailedAttempts: 5,
			LockedUntil:    &past,
			LastAttempt:    time.Now().Add(-16 * time.Minute),
		})

		affected := lockout.CleanupExpiredLockouts()
		assert.Equal(t, 1, affected)

		var row models.AccountLockout
		db.Where("email = ?", "autoun@example.com").First(&row)
		assert.Equal(t, 0, row.FailedAttempts)
		assert.Nil(t, row.LockedUntil)

		var events []models.AuditLog
		db.Where("action = ? AND email = ?", models.ActionAccountUnlocked, "autoun@example.com").Find(&events)
		assert.Len(t, events, 1)
		assert.Contains(t, string(events[0].Details), `"method":"auto"`)
	})

	t.Run("Stale clean rows are deleted, flagged rows kept", func(t *testing.T) {
		db.Create(&models.AccountLockout{
			Email: "stale@example.com", FailedAttempts: 0,
			LastAttempt: time.Now().AddDate(0, 0, -45),
		})
		db.Create(&models.AccountLockout{
			Email: "stale-flagged@example.com", FailedAttempts: 3,
			LastAttempt: time.Now().AddDate(0, 0, -45),
		})

		affected := lockout.CleanupExpiredLockouts()
		assert.Equal(t, 1, affected)

		var count int64
		db.Model(&models.AccountLockout{}).Where("email = ?", "stale@example.com").Count(&count)
		assert.Equal(t, int64(0), count)
		db.Model(&models.AccountLockout{}).Where("email = ?", "stale-flagged@example.com").Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestGetLockoutStats(t *testing.T) {
	db, lockout, _ := setupLockout(t)

	until := time.Now().Add(10 * time.Minute)
	db.Create(&models.AccountLockout{
		Email: "a@example.com", FailedAttempts: 5,
		LockedUntil: &until, LastAttempt: time.Now(),
	})
	db.Create(&models.AccountLockout{
		Email: "b@example.com", FailedAttempts: 2,
		LastAttempt: time.Now(),
	})
	db.Create(&models.AccountLockout{
		Email: "c@example.com", FailedAttempts: 7,
		LastAttempt: time.Now().AddDate(0, 0, -2),
	})

	stats := lockout.GetLockoutStats()
	assert.Equal(t, int64(1), stats.TotalLocked)
	assert.Equal(t, int64(14), stats.TotalAttempts)
	assert.Equal(t, int64(2), stats.RecentLockouts)

	var atThreshold int64
	db.Model(&models.AccountLockout{}).Where("failed_attempts >= ?", 5).Count(&atThreshold)
	assert.LessOrEqual(t, stats.TotalLocked, atThreshold)
}
