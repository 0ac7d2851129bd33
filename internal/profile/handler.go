package profile

import (
	"github.com/danuarta/portfolio/internal/response"
	"github.com/gofiber/fiber/v2"
)

func GetProfileHandler(c *fiber.Ctx) error {
	p, err := GetProfile()
	if err != nil {
		return response.InternalError(c, "Failed to load profile")
	}
	return response.Success(c, p, "")
}

func UpdateProfileHandler(c *fiber.Ctx) error {
	var in ProfileInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	p, err := UpdateProfile(in)
	if err != nil {
		return response.InternalError(c, "Failed to update profile")
	}

	if userID, ok := c.Locals("user_id").(uint); ok {
		email, _ := c.Locals("user_email").(string)
		audit.LogProfileUpdated(&userID, email, c.IP(), c.Get("User-Agent"))
	}

	return response.Success(c, p, "Profile updated")
}
