package skill

import (
	"strconv"

	"github.com/danuarta/portfolio/internal/response"
	"github.com/gofiber/fiber/v2"
)

func ListSkillsHandler(c *fiber.Ctx) error {
	skills, err := ListSkills(c.Query("category"))
	if err != nil {
		return response.InternalError(c, "Failed to load skills")
	}
	return response.Success(c, skills, "")
}

func CreateSkillHandler(c *fiber.Ctx) error {
	var in SkillInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if in.Name == "" {
		return response.ValidationError(c, map[string]string{
			"name": "name is required",
		})
	}

	s, err := CreateSkill(in)
	if err != nil {
		return response.BadRequest(c, err.Error(), nil)
	}
	return response.Created(c, s, "Skill created")
}

func UpdateSkillHandler(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid skill id", nil)
	}

	var in SkillInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	s, err := UpdateSkill(uint(id), in)
	if err != nil {
		return response.NotFound(c, "Skill")
	}
	return response.Success(c, s, "Skill updated")
}

func DeleteSkillHandler(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid skill id", nil)
	}

	if err := DeleteSkill(uint(id)); err != nil {
		return response.NotFound(c, "Skill")
	}
	return response.NoContent(c)
}
