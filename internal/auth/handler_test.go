package auth_test

import (
	"regexp"
	"testing"

	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func TestLoginHandler(t *testing.T) {
	app, _ := testutils.SetupTestApp(t)
	testutils.CreateTestAdmin(t, database.DB, "admin@example.com", "Password123")

	t.Run("Success - Valid credentials", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "admin@example.com",
			"password": "Password123",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/login", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.True(t, result.Success)

		data := result.Data.(map[string]interface{})
		assert.NotEmpty(t, data["access_token"])
		assert.NotEmpty(t, data["refresh_token"])
	})

	t.Run("Success is audited", func(t *testing.T) {
		var events []models.AuditLog
		database.DB.Where("action = ?", models.ActionLoginSuccess).Find(&events)
		assert.Len(t, events, 1)
	})

	t.Run("Error - Invalid credentials", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "admin@example.com",
			"password": "wrongpassword",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/login", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)

		testutils.AssertError(t, resp, "UNAUTHORIZED")

		var events []models.AuditLog
		database.DB.Where("action = ?", models.ActionLoginFailed).Find(&events)
		assert.Len(t, events, 1)
	})

	t.Run("Error - Missing fields", func(t *testing.T) {
		body := map[string]interface{}{
			"email": "admin@example.com",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/login", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)

		testutils.AssertError(t, resp, "VALIDATION_ERROR")
	})
}

func TestLoginLockout(t *testing.T) {
	app, _ := testutils.SetupTestApp(t)
	testutils.CreateTestAdmin(t, database.DB, "admin@example.com", "Password123")

	wrong := map[string]interface{}{
		"email":    "admin@example.com",
		"password": "wrongpassword",
	}

	for i := 0; i < 5; i++ {
		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/login", wrong, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	}

	t.Run("Correct credentials are rejected while locked", func(t *testing.T) {
		body := map[string]interface{}{
			"email":    "admin@example.com",
			"password": "Password123",
		}

		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/login", body, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Equal(t, "ACCOUNT_LOCKED", result.Error.Code)

		details := result.Error.Details.(map[string]interface{})
		remaining := details["remaining_time"].(float64)
		assert.GreaterOrEqual(t, remaining, float64(1))
		assert.LessOrEqual(t, remaining, float64(15))
	})

	t.Run("Lock event was audited once", func(t *testing.T) {
		var events []models.AuditLog
		database.DB.Where("action = ?", models.ActionAccountLocked).Find(&events)
		assert.Len(t, events, 1)
	})
}

func TestForgotPasswordHandler(t *testing.T) {
	app, mail := testutils.SetupTestApp(t)
	testutils.CreateTestAdmin(t, database.DB, "admin@example.com", "Password123")

	t.Run("Identical response for existing and unknown email", func(t *testing.T) {
		existing, err := testutils.MakeRequest(app, "POST", "/api/auth/forgot-password",
			map[string]interface{}{"email": "admin@example.com"}, "")
		assert.NoError(t, err)
		unknown, err := testutils.MakeRequest(app, "POST", "/api/auth/forgot-password",
			map[string]interface{}{"email": "stranger@example.com"}, "")
		assert.NoError(t, err)

		assert.Equal(t, 200, existing.Code)
		assert.Equal(t, existing.Code, unknown.Code)

		var r1, r2 testutils.StandardResponse
		testutils.ParseResponse(t, existing, &r1)
		testutils.ParseResponse(t, unknown, &r2)
		assert.Equal(t, r1.Success, r2.Success)
		assert.Equal(t, r1.Message, r2.Message)
	})

	t.Run("Email sent only to the real account", func(t *testing.T) {
		assert.Equal(t, 1, mail.Count())
		assert.Equal(t, "admin@example.com", mail.Last().To)
	})

	t.Run("Error - Malformed email", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/forgot-password",
			map[string]interface{}{"email": "not-an-email"}, "")
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)

		testutils.AssertError(t, resp, "BAD_REQUEST")
	})
}

var tokenPattern = regexp.MustCompile(`token=([0-9a-f]{64})`)

func TestResetPasswordFlow(t *testing.T) {
	app, mail := testutils.SetupTestApp(t)
	testutils.CreateTestAdmin(t, database.DB, "admin@example.com", "Password123")

	resp, err := testutils.MakeRequest(app, "POST", "/api/auth/forgot-password",
		map[string]interface{}{"email": "admin@example.com"}, "")
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)

	match := tokenPattern.FindStringSubmatch(mail.Last().Text)
	assert.Len(t, match, 2, "reset email should carry a 64-hex token")
	token := match[1]

	t.Run("Probe reports valid with masked email", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/auth/reset-password?token="+token, nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, true, data["valid"])
		assert.Equal(t, "ad***@example.com", data["email"])
	})

	t.Run("Probe without token errors", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/auth/reset-password", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Probe with bogus token is 200 valid:false", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/auth/reset-password?token=bogus", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, false, data["valid"])
	})

	t.Run("Weak password is rejected", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/reset-password",
			map[string]interface{}{"token": token, "password": "short"}, "")
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Reset succeeds and token is single-use", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/reset-password",
			map[string]interface{}{"token": token, "password": "NewPass123"}, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		testutils.AssertSuccess(t, resp)

		again, err := testutils.MakeRequest(app, "POST", "/api/auth/reset-password",
			map[string]interface{}{"token": token, "password": "NewPass456"}, "")
		assert.NoError(t, err)
		assert.Equal(t, 400, again.Code)
		testutils.AssertError(t, again, "BAD_REQUEST")
	})

	t.Run("Login works with the new password", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/login",
			map[string]interface{}{"email": "admin@example.com", "password": "NewPass123"}, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})
}

func TestChangePasswordHandler(t *testing.T) {
	app, _ := testutils.SetupTestApp(t)
	admin := testutils.CreateTestAdmin(t, database.DB, "admin@example.com", "Password123")
	token := testutils.GetAuthToken(t, admin.ID)

	t.Run("Error - Wrong current password", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/change-password",
			map[string]interface{}{"current_password": "nope", "new_password": "NewPass123"}, token)
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})

	t.Run("Error - Weak new password", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/change-password",
			map[string]interface{}{"current_password": "Password123", "new_password": "weak"}, token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Success", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/change-password",
			map[string]interface{}{"current_password": "Password123", "new_password": "NewPass123"}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var events []models.AuditLog
		database.DB.Where("action = ?", models.ActionPasswordChange).Find(&events)
		assert.Len(t, events, 1)
	})

	t.Run("Error - No auth token", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/change-password",
			map[string]interface{}{"current_password": "NewPass123", "new_password": "OtherPass123"}, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})
}
