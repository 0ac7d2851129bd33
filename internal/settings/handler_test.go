package settings_test

import (
	"testing"

	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func TestSettingsHandlers(t *testing.T) {
	app, _ := testutils.SetupTestApp(t)
	admin := testutils.CreateTestAdmin(t, database.DB, "admin@example.com", "Password123")
	token := testutils.GetAuthToken(t, admin.ID)

	t.Run("Upsert writes values and audits the changed keys", func(t *testing.T) {
		body := map[string]interface{}{
			"group": "seo",
			"values": map[string]string{
				"site_title":       "Danu Arta — Portfolio",
				"meta_description": "Projects and services",
			},
		}

		resp, err := testutils.MakeRequest(app, "PUT", "/api/admin/settings", body, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var events []models.AuditLog
		database.DB.Where("action = ?", models.ActionSettingsChanged).Find(&events)
		assert.Len(t, events, 1)
		assert.Contains(t, string(events[0].Details), "site_title")
	})

	t.Run("Upsert overwrites an existing key", func(t *testing.T) {
		body := map[string]interface{}{
			"group":  "seo",
			"values": map[string]string{"site_title": "Updated Title"},
		}
		resp, err := testutils.MakeRequest(app, "PUT", "/api/admin/settings", body, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var row models.SiteSetting
		database.DB.Where("key = ?", "site_title").First(&row)
		assert.Equal(t, "Updated Title", row.Value)

		var count int64
		database.DB.Model(&models.SiteSetting{}).Count(&count)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Public settings are readable without auth", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/settings?group=seo", nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		items := result.Data.([]interface{})
		assert.Len(t, items, 2)
	})

	t.Run("Delete removes a key", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/api/admin/settings/meta_description", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 204, resp.Code)

		var count int64
		database.DB.Model(&models.SiteSetting{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}
