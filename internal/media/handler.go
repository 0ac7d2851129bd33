package media

import (
	"strings"

	"github.com/danuarta/portfolio/internal/response"
	"github.com/danuarta/portfolio/internal/utils"
	"github.com/gofiber/fiber/v2"
)

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true, // resume
}

// UploadHandler stores a portfolio asset and returns its URL. Storage backend
// (local disk or S3) is decided at startup.
func UploadHandler(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "No file provided", nil)
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedTypes[strings.ToLower(contentType)] {
		return response.BadRequest(c, "Unsupported file type", map[string]string{
			"file": "only images and PDF are allowed",
		})
	}

	if file.Size > 10*1024*1024 {
		return response.BadRequest(c, "File too large", map[string]string{
			"file": "maximum size is 10MB",
		})
	}

	url, err := utils.UploadImage(file)
	if err != nil {
		return response.InternalError(c, "Failed to store file")
	}

	return response.Created(c, fiber.Map{
		"url":          url,
		"storage_mode": utils.GetStorageMode(),
	}, "File uploaded")
}

func DeleteHandler(c *fiber.Ctx) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.URL == "" {
		return response.ValidationError(c, map[string]string{
			"url": "url is required",
		})
	}

	if err := utils.DeleteUpload(body.URL); err != nil {
		return response.NotFound(c, "File")
	}
	return response.NoContent(c)
}
