package contact

import (
	"fmt"
	"log"

	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/security"
)

var (
	mailer     security.Mailer
	notifyAddr string
)

func Setup(m security.Mailer, notifyTo string) {
	mailer = m
	notifyAddr = notifyTo
}

type MessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitMessage stores the message and best-effort notifies the site owner.
// Delivery failure must not fail the submission.
func SubmitMessage(in MessageInput) (*models.ContactMessage, error) {
	msg := models.ContactMessage{
		Name:    in.Name,
		Email:   security.NormalizeEmail(in.Email),
		Subject: in.Subject,
		Message: in.Message,
	}

	if err := database.DB.Create(&msg).Error; err != nil {
		return nil, err
	}

	if notifyAddr != "" {
		subject := fmt.Sprintf("New contact message from %s", in.Name)
		html := fmt.Sprintf("<p><b>%s</b> (%s) wrote:</p><p>%s</p>", in.Name, in.Email, in.Message)
		if err := mailer.Send(notifyAddr, subject, html, in.Message); err != nil {
			log.Printf("⚠️  Contact: failed to send notification: %v", err)
		}
	}

	return &msg, nil
}

func ListMessages(unreadOnly bool, limit int) ([]models.ContactMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var messages []models.ContactMessage
	query := database.DB.Order("created_at DESC").Limit(limit)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func MarkRead(id uint) error {
	res := database.DB.Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("message not found")
	}
	return nil
}

func DeleteMessage(id uint) error {
	res := database.DB.Delete(&models.ContactMessage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("message not found")
	}
	return nil
}
