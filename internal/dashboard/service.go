package dashboard

import (
	"log"

	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/security"
)

var (
	lockoutSvc *security.LockoutService
	auditSvc   *security.AuditService
)

func Setup(lockout *security.LockoutService, audit *security.AuditService) {
	lockoutSvc = lockout
	auditSvc = audit
}

type ContentStats struct {
	Projects       int64 `json:"projects"`
	Skills         int64 `json:"skills"`
	Services       int64 `json:"services"`
	Messages       int64 `json:"messages"`
	UnreadMessages int64 `json:"unread_messages"`
}

type Stats struct {
	Content  ContentStats          `json:"content"`
	Security security.LockoutStats `json:"security"`
	Audit    security.AuditStats   `json:"audit"`
}

// GetStats aggregates the dashboard payload. Count failures degrade to zero
// so the dashboard always renders.
func GetStats(auditDays int) Stats {
	stats := Stats{}

	counts := []struct {
		dest  *int64
		model interface{}
	}{
		{&stats.Content.Projects, &models.Project{}},
		{&stats.Content.Skills, &models.Skill{}},
		{&stats.Content.Services, &models.Service{}},
		{&stats.Content.Messages, &models.ContactMessage{}},
	}
	for _, cnt := range counts {
		if err := database.DB.Model(cnt.model).Count(cnt.dest).Error; err != nil {
			log.Printf("⚠️  Dashboard: count failed: %v", err)
		}
	}
	if err := database.DB.Model(&models.ContactMessage{}).
		Where("read = ?", false).
		Count(&stats.Content.UnreadMessages).Error; err != nil {
		log.Printf("⚠️  Dashboard: count failed: %v", err)
	}

	stats.Security = lockoutSvc.GetLockoutStats()
	stats.Audit = auditSvc.GetAuditStats(auditDays)

	return stats
}
