package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danuarta/portfolio/internal/config"
	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/server"
	"github.com/danuarta/portfolio/internal/utils"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err, "Failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.AccountLockout{},
		&models.AuditLog{},
		&models.PasswordResetToken{},
		&models.Project{},
		&models.Skill{},
		&models.Service{},
		&models.Profile{},
		&models.SiteSetting{},
		&models.ContactMessage{},
	)
	assert.NoError(t, err, "Failed to migrate test database")

	return db
}

func TestConfig() *config.Config {
	return &config.Config{
		SiteURL: "http://localhost:3000",
		SMTP: config.SMTPConfig{
			From: "owner@example.com",
		},
		Security: config.SecurityConfig{
			MaxAttempts:        5,
			LockoutDuration:    15 * time.Minute,
			CleanupAfterDays:   30,
			ResetTokenTTL:      time.Hour,
			AuditRetentionDays: 365,
		},
	}
}

// FakeMailer captures sends instead of talking SMTP.
type FakeMailer struct {
	mu    sync.Mutex
	Sends []SentMail
}

type SentMail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

func (m *FakeMailer) Send(to, subject, html, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sends = append(m.Sends, SentMail{To: to, Subject: subject, HTML: html, Text: text})
	return nil
}

func (m *FakeMailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sends)
}

func (m *FakeMailer) Last() *SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sends) == 0 {
		return nil
	}
	return &m.Sends[len(m.Sends)-1]
}

func SetupTestApp(t *testing.T) (*fiber.App, *FakeMailer) {
	db := TestDB(t)
	database.DB = db

	mail := &FakeMailer{}
	app := server.New(db, TestConfig(), mail)
	return app, mail
}

func CreateTestAdmin(t *testing.T, db *gorm.DB, email, password string) *models.User {
	hashedPassword, err := utils.HashPassword(password)
	assert.NoError(t, err, "Failed to hash password")

	user := &models.User{
		Name:     "Test Admin",
		Email:    email,
		Password: hashedPassword,
		Role:     "admin",
		Status:   "active",
	}

	err = db.Create(user).Error
	assert.NoError(t, err, "Failed to create test user")

	return user
}

func GetAuthToken(t *testing.T, userID uint) string {
	token, err := utils.GenerateJWT(userID, "admin")
	assert.NoError(t, err, "Failed to generate test token")
	return token
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode

	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.NewDecoder(resp.Body).Decode(v)
	if err != nil && err != io.EOF {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type StandardResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data"`
	Error   *ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedCode string) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	assert.NotNil(t, result.Error, "Expected error object")
	if result.Error != nil {
		assert.Equal(t, expectedCode, result.Error.Code, "Error code mismatch")
	}
}
