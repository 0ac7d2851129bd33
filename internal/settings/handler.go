package settings

import (
	"github.com/danuarta/portfolio/internal/response"
	"github.com/gofiber/fiber/v2"
)

func ListSettingsHandler(c *fiber.Ctx) error {
	rows, err := ListSettings(c.Query("group"))
	if err != nil {
		return response.InternalError(c, "Failed to load settings")
	}
	return response.Success(c, rows, "")
}

func UpsertSettingsHandler(c *fiber.Ctx) error {
	var body struct {
		Group  string            `json:"group"`
		Values map[string]string `json:"values"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if len(body.Values) == 0 {
		return response.ValidationError(c, map[string]string{
			"values": "at least one setting is required",
		})
	}

	keys, err := UpsertSettings(body.Group, body.Values)
	if err != nil {
		return response.InternalError(c, "Failed to save settings")
	}

	if userID, ok := c.Locals("user_id").(uint); ok {
		email, _ := c.Locals("user_email").(string)
		audit.LogSettingsChanged(&userID, email, c.IP(), c.Get("User-Agent"), keys)
	}

	return response.Success(c, fiber.Map{"updated": keys}, "Settings saved")
}

func DeleteSettingHandler(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return response.BadRequest(c, "Setting key is required", nil)
	}

	if err := DeleteSetting(key); err != nil {
		return response.InternalError(c, "Failed to delete setting")
	}
	return response.NoContent(c)
}
