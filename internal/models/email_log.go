package models

import (
	"time"

	"gorm.io/datatypes"
)

// EmailLog is the outbox audit trail. Every attempted send gets a row,
// whether or not the SMTP delivery succeeded.
type EmailLog struct {
	ID      string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	To      string         `gorm:"not null;index" json:"to"`
	Subject string         `gorm:"not null" json:"subject"`
	Payload datatypes.JSON `json:"payload,omitempty"`
	Error   string         `json:"error,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for EmailLog model
func (EmailLog) TableName() string {
	return "email_logs"
}
