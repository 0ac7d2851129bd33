package project

import (
	"strconv"

	"github.com/danuarta/portfolio/internal/response"
	"github.com/gofiber/fiber/v2"
)

func ListProjectsHandler(c *fiber.Ctx) error {
	featured := c.Query("featured") == "true"

	projects, err := ListProjects(featured)
	if err != nil {
		return response.InternalError(c, "Failed to load projects")
	}
	return response.Success(c, projects, "")
}

func GetProjectHandler(c *fiber.Ctx) error {
	p, err := GetProjectBySlug(c.Params("slug"))
	if err != nil {
		return response.NotFound(c, "Project")
	}
	return response.Success(c, p, "")
}

func CreateProjectHandler(c *fiber.Ctx) error {
	var in ProjectInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if in.Title == "" {
		return response.ValidationError(c, map[string]string{
			"title": "title is required",
		})
	}

	p, err := CreateProject(in)
	if err != nil {
		if err.Error() == "slug already in use" {
			return response.Conflict(c, err.Error())
		}
		return response.InternalError(c, "Failed to create project")
	}
	return response.Created(c, p, "Project created")
}

func UpdateProjectHandler(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid project id", nil)
	}

	var in ProjectInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	p, err := UpdateProject(uint(id), in)
	if err != nil {
		if err.Error() == "slug already in use" {
			return response.Conflict(c, err.Error())
		}
		return response.NotFound(c, "Project")
	}
	return response.Success(c, p, "Project updated")
}

func DeleteProjectHandler(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid project id", nil)
	}

	if err := DeleteProject(uint(id)); err != nil {
		return response.NotFound(c, "Project")
	}
	return response.NoContent(c)
}
