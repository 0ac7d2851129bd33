package dashboard

import (
	"github.com/danuarta/portfolio/internal/response"
	"github.com/gofiber/fiber/v2"
)

func StatsHandler(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	return response.Success(c, GetStats(days), "")
}
