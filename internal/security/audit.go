package security

import (
	"encoding/json"
	"log"
	"time"

	"github.com/danuarta/portfolio/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditService writes the append-only security event log. Log never returns
// an error: a failed audit write must not abort the operation it documents,
// so failures fall back to a console line. Read paths degrade to empty
// defaults for the same reason.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

type AuditEntry struct {
	UserID    *uint
	Email     string
	Action    string
	IPAddress string
	UserAgent string
	Details   map[string]interface{}
}

type AuditLogView struct {
	models.AuditLog
	UserName string `json:"user_name,omitempty"`
}

type AuditStats struct {
	TotalEvents     int64             `json:"total_events"`
	LoginAttempts   int64             `json:"login_attempts"`
	FailedLogins    int64             `json:"failed_logins"`
	PasswordChanges int64             `json:"password_changes"`
	AccountLockouts int64             `json:"account_lockouts"`
	RecentEvents    []models.AuditLog `json:"recent_events"`
}

// Log writes one audit row. Best-effort by contract.
func (s *AuditService) Log(entry AuditEntry) {
	if entry.Details == nil {
		entry.Details = map[string]interface{}{}
	}
	// details carries its own ISO timestamp alongside created_at, for
	// consumers that only ever see the payload.
	entry.Details["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.Marshal(entry.Details)
	if err != nil {
		log.Printf("⚠️  Audit: failed to encode details for %s: %v", entry.Action, err)
		payload = []byte("{}")
	}

	row := models.AuditLog{
		ID:        uuid.New().String(),
		UserID:    entry.UserID,
		Action:    entry.Action,
		Details:   datatypes.JSON(payload),
		CreatedAt: time.Now(),
	}
	if entry.Email != "" {
		email := NormalizeEmail(entry.Email)
		row.Email = &email
	}
	if entry.IPAddress != "" {
		row.IPAddress = &entry.IPAddress
	}
	if entry.UserAgent != "" {
		row.UserAgent = &entry.UserAgent
	}

	if err := s.db.Create(&row).Error; err != nil {
		log.Printf("⚠️  Audit: write failed, dropping event %s (email=%s): %v",
			entry.Action, entry.Email, err)
	}
}

func (s *AuditService) LogLoginSuccess(userID *uint, email, ip, ua string) {
	s.Log(AuditEntry{UserID: userID, Email: email, Action: models.ActionLoginSuccess,
		IPAddress: ip, UserAgent: ua})
}

func (s *AuditService) LogLoginFailed(email, ip, ua, reason string) {
	s.Log(AuditEntry{Email: email, Action: models.ActionLoginFailed,
		IPAddress: ip, UserAgent: ua,
		Details: map[string]interface{}{"reason": reason}})
}

func (s *AuditService) LogLogout(userID *uint, email, ip, ua string) {
	s.Log(AuditEntry{UserID: userID, Email: email, Action: models.ActionLogout,
		IPAddress: ip, UserAgent: ua})
}

func (s *AuditService) LogPasswordChange(userID *uint, email, ip, ua string) {
	s.Log(AuditEntry{UserID: userID, Email: email, Action: models.ActionPasswordChange,
		IPAddress: ip, UserAgent: ua})
}

func (s *AuditService) LogPasswordResetRequest(email, ip, ua string) {
	s.Log(AuditEntry{Email: email, Action: models.ActionPasswordResetRequest,
		IPAddress: ip, UserAgent: ua})
}

func (s *AuditService) LogPasswordResetComplete(userID *uint, email, ip, ua string) {
	s.Log(AuditEntry{UserID: userID, Email: email, Action: models.ActionPasswordResetComplete,
		IPAddress: ip, UserAgent: ua})
}

func (s *AuditService) LogSessionRevoked(userID *uint, email, ip, ua string) {
	s.Log(AuditEntry{UserID: userID, Email: email, Action: models.ActionSessionRevoked,
		IPAddress: ip, UserAgent: ua})
}

func (s *AuditService) LogAccountLocked(email, ip, ua string, failedAttempts int) {
	s.Log(AuditEntry{Email: email, Action: models.ActionAccountLocked,
		IPAddress: ip, UserAgent: ua,
		Details: map[string]interface{}{"failedAttempts": failedAttempts}})
}

func (s *AuditService) LogAccountUnlocked(email, ip, ua, method string) {
	s.Log(AuditEntry{Email: email, Action: models.ActionAccountUnlocked,
		IPAddress: ip, UserAgent: ua,
		Details: map[string]interface{}{"method": method}})
}

func (s *AuditService) LogAdminUnlock(adminID *uint, targetEmail, ip, ua string) {
	s.Log(AuditEntry{UserID: adminID, Email: targetEmail, Action: models.ActionAdminUnlock,
		IPAddress: ip, UserAgent: ua,
		Details: map[string]interface{}{"method": "manual"}})
}

func (s *AuditService) LogProfileUpdated(userID *uint, email, ip, ua string) {
	s.Log(AuditEntry{UserID: userID, Email: email, Action: models.ActionProfileUpdated,
		IPAddress: ip, UserAgent: ua})
}

func (s *AuditService) LogSettingsChanged(userID *uint, email, ip, ua string, keys []string) {
	s.Log(AuditEntry{UserID: userID, Email: email, Action: models.ActionSettingsChanged,
		IPAddress: ip, UserAgent: ua,
		Details: map[string]interface{}{"keys": keys}})
}

// GetUserAuditLogs returns the most recent events for one identity, with the
// resolved user name where a user row still exists.
func (s *AuditService) GetUserAuditLogs(email string, limit int) []AuditLogView {
	if limit <= 0 {
		limit = 50
	}
	email = NormalizeEmail(email)

	var rows []models.AuditLog
	err := s.db.
		Where("email = ?", email).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		log.Printf("⚠️  Audit: failed to load logs for %s: %v", email, err)
		return []AuditLogView{}
	}

	var user models.User
	userName := ""
	if err := s.db.Where("email = ?", email).First(&user).Error; err == nil {
		userName = user.Name
	}

	views := make([]AuditLogView, 0, len(rows))
	for _, row := range rows {
		views = append(views, AuditLogView{AuditLog: row, UserName: userName})
	}
	return views
}

func (s *AuditService) GetAllAuditLogs(limit int, action string) []models.AuditLog {
	if limit <= 0 {
		limit = 100
	}

	query := s.db.Order("created_at DESC").Limit(limit)
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var rows []models.AuditLog
	if err := query.Find(&rows).Error; err != nil {
		log.Printf("⚠️  Audit: failed to load logs: %v", err)
		return []models.AuditLog{}
	}
	return rows
}

// GetAuditStats counts over the trailing window. RecentEvents is the overall
// latest 10 and deliberately not windowed; the dashboard shows it as
// "latest activity" even when the window is quiet.
func (s *AuditService) GetAuditStats(days int) AuditStats {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	stats := AuditStats{RecentEvents: []models.AuditLog{}}

	counts := []struct {
		dest    *int64
		actions []string
	}{
		{&stats.TotalEvents, nil},
		{&stats.LoginAttempts, []string{models.ActionLoginSuccess, models.ActionLoginFailed}},
		{&stats.FailedLogins, []string{models.ActionLoginFailed}},
		{&stats.PasswordChanges, []string{models.ActionPasswordChange, models.ActionPasswordResetComplete}},
		{&stats.AccountLockouts, []string{models.ActionAccountLocked}},
	}
	for _, cnt := range counts {
		query := s.db.Model(&models.AuditLog{}).Where("created_at > ?", since)
		if cnt.actions != nil {
			query = query.Where("action IN ?", cnt.actions)
		}
		if err := query.Count(cnt.dest).Error; err != nil {
			log.Printf("⚠️  Audit: stats query failed: %v", err)
			return AuditStats{RecentEvents: []models.AuditLog{}}
		}
	}

	if err := s.db.Order("created_at DESC").Limit(10).
		Find(&stats.RecentEvents).Error; err != nil {
		log.Printf("⚠️  Audit: recent events query failed: %v", err)
		stats.RecentEvents = []models.AuditLog{}
	}

	return stats
}

// CleanupOldLogs hard-deletes rows past the retention cutoff. The only path
// that ever removes audit rows.
func (s *AuditService) CleanupOldLogs(daysToKeep int) int64 {
	if daysToKeep <= 0 {
		daysToKeep = 365
	}
	cutoff := time.Now().AddDate(0, 0, -daysToKeep)

	res := s.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if res.Error != nil {
		log.Printf("⚠️  Audit: retention cleanup failed: %v", res.Error)
		return 0
	}
	return res.RowsAffected
}
