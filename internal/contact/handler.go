package contact

import (
	"strconv"

	"github.com/danuarta/portfolio/internal/response"
	"github.com/danuarta/portfolio/internal/utils"
	"github.com/gofiber/fiber/v2"
)

func SubmitMessageHandler(c *fiber.Ctx) error {
	var in MessageInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	errs := map[string]string{}
	if in.Name == "" {
		errs["name"] = "name is required"
	}
	if !utils.ValidEmail(in.Email) {
		errs["email"] = "a valid email address is required"
	}
	if in.Message == "" {
		errs["message"] = "message is required"
	}
	if len(errs) > 0 {
		return response.ValidationError(c, errs)
	}

	msg, err := SubmitMessage(in)
	if err != nil {
		return response.InternalError(c, "Failed to submit message")
	}
	return response.Created(c, fiber.Map{"id": msg.ID}, "Message sent")
}

func ListMessagesHandler(c *fiber.Ctx) error {
	unread := c.Query("unread") == "true"
	limit := c.QueryInt("limit", 100)

	messages, err := ListMessages(unread, limit)
	if err != nil {
		return response.InternalError(c, "Failed to load messages")
	}
	return response.Success(c, messages, "")
}

func MarkReadHandler(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid message id", nil)
	}

	if err := MarkRead(uint(id)); err != nil {
		return response.NotFound(c, "Message")
	}
	return response.Success(c, nil, "Message marked as read")
}

func DeleteMessageHandler(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid message id", nil)
	}

	if err := DeleteMessage(uint(id)); err != nil {
		return response.NotFound(c, "Message")
	}
	return response.NoContent(c)
}
