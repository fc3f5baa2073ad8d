// Package notify sends transactional emails. Delivery is always best effort:
// callers fire and forget, failures are logged and recorded but never
// propagate into the request that triggered them.
package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"net/smtp"

	"github.com/pesanort/tallergo/internal/config"
	"github.com/pesanort/tallergo/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Mailer delivers a single HTML email
type Mailer interface {
	Send(to, subject, html string) error
}

// SMTPMailer delivers via a plain SMTP relay
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer builds a mailer from config. Returns nil when no host is
// configured, which the Service treats as log-only mode.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	if cfg.Host == "" {
		return nil
	}
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr: cfg.Host + ":" + cfg.Port,
		from: cfg.From,
		auth: auth,
	}
}

// Send delivers one HTML message
func (m *SMTPMailer) Send(to, subject, html string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.from, to, subject, html,
	)
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}

// Service wraps a Mailer with the email_logs outbox trail
type Service struct {
	db     *gorm.DB
	mailer Mailer
}

// NewService creates a notification service. mailer may be nil (log-only).
func NewService(db *gorm.DB, mailer Mailer) *Service {
	return &Service{db: db, mailer: mailer}
}

// Send attempts delivery and records the outcome. It never returns an error:
// mutations that trigger notifications must not roll back on email failure.
func (s *Service) Send(to, subject, html string) {
	entry := models.EmailLog{To: to, Subject: subject}

	if payload, err := json.Marshal(map[string]string{"to": to, "subject": subject}); err == nil {
		entry.Payload = datatypes.JSON(payload)
	}

	if s.mailer == nil {
		log.Printf("📭 Mail (not configured, skipped): %q to %s", subject, to)
	} else if err := s.mailer.Send(to, subject, html); err != nil {
		log.Printf("⚠️  Mail delivery failed: %q to %s: %v", subject, to, err)
		entry.Error = err.Error()
	} else {
		log.Printf("📧 Mail sent: %q to %s", subject, to)
	}

	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("⚠️  Could not record email log: %v", err)
	}
}
