package offering

import (
	"strconv"

	"github.com/danuarta/portfolio/internal/response"
	"github.com/gofiber/fiber/v2"
)

func ListServicesHandler(c *fiber.Ctx) error {
	services, err := ListServices()
	if err != nil {
		return response.InternalError(c, "Failed to load services")
	}
	return response.Success(c, services, "")
}

func CreateServiceHandler(c *fiber.Ctx) error {
	var in ServiceInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if in.Title == "" {
		return response.ValidationError(c, map[string]string{
			"title": "title is required",
		})
	}

	s, err := CreateService(in)
	if err != nil {
		return response.InternalError(c, "Failed to create service")
	}
	return response.Created(c, s, "Service created")
}

func UpdateServiceHandler(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid service id", nil)
	}

	var in ServiceInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	s, err := UpdateService(uint(id), in)
	if err != nil {
		return response.NotFound(c, "Service")
	}
	return response.Success(c, s, "Service updated")
}

func DeleteServiceHandler(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid service id", nil)
	}

	if err := DeleteService(uint(id)); err != nil {
		return response.NotFound(c, "Service")
	}
	return response.NoContent(c)
}
