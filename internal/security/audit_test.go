package security_test

import (
	"testing"
	"time"

	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/security"
	"github.com/danuarta/portfolio/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func TestAuditLog(t *testing.T) {
	db := testutils.TestDB(t)
	audit := security.NewAuditService(db)

	t.Run("Typed wrappers write rows with details timestamp", func(t *testing.T) {
		userID := uint(7)
		audit.LogLoginSuccess(&userID, "Admin@Example.com", "10.0.0.1", "test-agent")
		audit.LogLoginFailed("admin@example.com", "10.0.0.1", "test-agent", "invalid_password")

		var rows []models.AuditLog
		db.Order("created_at ASC").Find(&rows)
		assert.Len(t, rows, 2)

		assert.Equal(t, models.ActionLoginSuccess, rows[0].Action)
		assert.Equal(t, uint(7), *rows[0].UserID)
		assert.Equal(t, "admin@example.com", *rows[0].Email) // normalized
		assert.NotEmpty(t, rows[0].ID)
		assert.Contains(t, string(rows[0].Details), `"timestamp"`)

		assert.Equal(t, models.ActionLoginFailed, rows[1].Action)
		assert.Nil(t, rows[1].UserID)
		assert.Contains(t, string(rows[1].Details), `"reason":"invalid_password"`)
	})

	t.Run("Write failure does not panic or propagate", func(t *testing.T) {
		broken := testutils.TestDB(t)
		assert.NoError(t, broken.Migrator().DropTable(&models.AuditLog{}))

		svc := security.NewAuditService(broken)
		assert.NotPanics(t, func() {
			svc.LogLoginFailed("x@example.com", "", "", "storage_down")
		})
	})
}

func TestGetUserAuditLogs(t *testing.T) {
	db := testutils.TestDB(t)
	audit := security.NewAuditService(db)

	db.Create(&models.User{Name: "Site Owner", Email: "owner@example.com", Role: "admin", Status: "active"})

	for i := 0; i < 3; i++ {
		audit.LogLoginFailed("owner@example.com", "", "", "invalid_password")
	}
	audit.LogLoginFailed("other@example.com", "", "", "unknown_email")

	logs := audit.GetUserAuditLogs("Owner@Example.com", 50)
	assert.Len(t, logs, 3)
	for _, entry := range logs {
		assert.Equal(t, "Site Owner", entry.UserName)
	}

	limited := audit.GetUserAuditLogs("owner@example.com", 2)
	assert.Len(t, limited, 2)
}

func TestGetAllAuditLogs(t *testing.T) {
	db := testutils.TestDB(t)
	audit := security.NewAuditService(db)

	audit.LogLoginFailed("a@example.com", "", "", "invalid_password")
	audit.LogAccountLocked("a@example.com", "", "", 5)
	audit.LogLoginFailed("b@example.com", "", "", "unknown_email")

	all := audit.GetAllAuditLogs(100, "")
	assert.Len(t, all, 3)

	locked := audit.GetAllAuditLogs(100, models.ActionAccountLocked)
	assert.Len(t, locked, 1)
	assert.Equal(t, models.ActionAccountLocked, locked[0].Action)
}

func TestGetAuditStats(t *testing.T) {
	db := testutils.TestDB(t)
	audit := security.NewAuditService(db)

	userID := uint(1)
	audit.LogLoginSuccess(&userID, "owner@example.com", "", "")
	audit.LogLoginFailed("owner@example.com", "", "", "invalid_password")
	audit.LogLoginFailed("owner@example.com", "", "", "invalid_password")
	audit.LogAccountLocked("owner@example.com", "", "", 5)
	audit.LogPasswordChange(&userID, "owner@example.com", "", "")

	// An event outside the 30-day window: excluded from counts but still a
	// candidate for the recent-events sample.
	old := models.AuditLog{
		ID: "old-event", Action: models.ActionLogout,
		CreatedAt: time.Now().AddDate(0, 0, -60),
	}
	db.Create(&old)

	stats := audit.GetAuditStats(30)
	assert.Equal(t, int64(5), stats.TotalEvents)
	assert.Equal(t, int64(3), stats.LoginAttempts)
	assert.Equal(t, int64(2), stats.FailedLogins)
	assert.Equal(t, int64(1), stats.PasswordChanges)
	assert.Equal(t, int64(1), stats.AccountLockouts)
	// Recent events are not windowed.
	assert.Len(t, stats.RecentEvents, 6)
}

func TestCleanupOldLogs(t *testing.T) {
	db := testutils.TestDB(t)
	audit := security.NewAuditService(db)

	audit.LogLoginFailed("keep@example.com", "", "", "invalid_password")
	db.Create(&models.AuditLog{
		ID: "ancient", Action: models.ActionLogout,
		CreatedAt: time.Now().AddDate(-2, 0, 0),
	})

	deleted := audit.CleanupOldLogs(365)
	assert.Equal(t, int64(1), deleted)

	var count int64
	db.Model(&models.AuditLog{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
