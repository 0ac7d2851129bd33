package auth

import (
	"log"

	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/response"
	"github.com/danuarta/portfolio/internal/security"
	"github.com/danuarta/portfolio/internal/utils"
	"github.com/gofiber/fiber/v2"
)

func LoginHandler(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Email == "" || body.Password == "" {
		return response.ValidationError(c, map[string]string{
			"email":    "email is required",
			"password": "password is required",
		})
	}

	accessToken, refreshToken, status, err := LoginUser(body.Email, body.Password, c.IP(), c.Get("User-Agent"))
	if err == ErrAccountLocked {
		return response.Locked(c, "Too many failed attempts. Account temporarily locked.", fiber.Map{
			"remaining_time": status.RemainingTime,
		})
	}
	if err != nil {
		return response.Unauthorized(c, "Invalid email or password")
	}

	return response.Success(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    900,
	}, "Login successful")
}

func RefreshHandler(c *fiber.Ctx) error {
	var body struct {
		UserID       uint   `json:"user_id"`
		RefreshToken string `json:"refresh_token"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.UserID == 0 || body.RefreshToken == "" {
		return response.ValidationError(c, map[string]string{
			"user_id":       "user_id is required",
			"refresh_token": "refresh_token is required",
		})
	}

	accessToken, newRefreshToken, err := utils.RefreshTokenPair(body.UserID, body.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, err.Error())
	}

	return response.Success(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
		"expires_in":    900,
	}, "Token refreshed successfully")
}

func LogoutHandler(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err == nil {
		utils.RevokeRefreshTokens(userID)
		Audit.LogLogout(&userID, user.Email, c.IP(), c.Get("User-Agent"))
	}
	log.Printf("User %d logged out", userID)

	return response.Success(c, fiber.Map{"user_id": userID}, "Logout successful")
}

// ForgotPasswordHandler responds identically for existing and unknown
// accounts. Only malformed email syntax gets a 400.
func ForgotPasswordHandler(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if !utils.ValidEmail(body.Email) {
		return response.BadRequest(c, "Invalid email address", map[string]string{
			"email": "a valid email address is required",
		})
	}

	message, err := Reset.RequestPasswordReset(body.Email, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return response.InternalError(c, "Failed to process request")
	}

	return response.Success(c, nil, message)
}

func ResetPasswordHandler(c *fiber.Ctx) error {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.Token == "" {
		return response.BadRequest(c, "Token is required", nil)
	}
	if errs := utils.ValidatePassword(body.Password); errs != nil {
		return response.BadRequest(c, "Password does not meet requirements", errs)
	}

	if err := Reset.ResetPassword(body.Token, body.Password, c.IP(), c.Get("User-Agent")); err != nil {
		if err == security.ErrInvalidToken {
			return response.BadRequest(c, "Invalid or expired reset token", nil)
		}
		return response.InternalError(c, "Failed to reset password")
	}

	return response.Success(c, nil, "Password reset successful")
}

// VerifyResetTokenHandler is the link-validity probe. An invalid token is a
// 200 with valid:false; only a missing token parameter errors.
func VerifyResetTokenHandler(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return response.BadRequest(c, "Token is required", nil)
	}

	check := Reset.CheckToken(token)
	return response.Success(c, check, "")
}

func ChangePasswordHandler(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.CurrentPassword == "" {
		return response.ValidationError(c, map[string]string{
			"current_password": "current_password is required",
		})
	}
	if errs := utils.ValidatePassword(body.NewPassword); errs != nil {
		return response.BadRequest(c, "Password does not meet requirements", errs)
	}

	if err := ChangePassword(userID, body.CurrentPassword, body.NewPassword, c.IP(), c.Get("User-Agent")); err != nil {
		if err == ErrInvalidCredentials {
			return response.Unauthorized(c, "Current password is incorrect")
		}
		return response.InternalError(c, "Failed to change password")
	}

	return response.Success(c, nil, "Password changed successfully")
}
