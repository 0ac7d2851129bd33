package mailer

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/danuarta/portfolio/internal/config"
)

// SMTPMailer delivers mail through a plain SMTP relay. When no host is
// configured it logs and drops the message, which keeps local development
// working without a relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, html, text string) error {
	if m.cfg.Host == "" {
		log.Printf("📭 SMTP not configured, dropping email to %s (%s)", to, subject)
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.cfg.From, to, subject, html,
	)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}
