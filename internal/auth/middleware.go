package auth

import (
	"strings"

	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/response"
	"github.com/danuarta/portfolio/internal/utils"

	"github.com/gofiber/fiber/v2"
)

func JWTProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization token", nil)
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return response.Error(c, fiber.StatusUnauthorized, "INVALID_TOKEN_FORMAT", "Invalid token format", nil)
		}

		userID, err := utils.ParseJWT(tokenParts[1])
		if err != nil {
			return response.Error(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token", nil)
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

// AdminOnly guards the dashboard routes. The portfolio has a single admin
// role, so this replaces a full role/permission matrix.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uint)
		if !ok {
			return response.Unauthorized(c, "User not authenticated")
		}

		var u models.User
		if err := database.DB.First(&u, userID).Error; err != nil {
			return response.Unauthorized(c, "User not found")
		}

		if u.Role != "admin" || u.Status != "active" {
			return response.Forbidden(c, "Admin access required")
		}

		c.Locals("user_email", u.Email)
		return c.Next()
	}
}
