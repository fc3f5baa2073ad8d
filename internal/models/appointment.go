package models

import (
	"time"
)

// AppointmentStatus defines possible appointment statuses
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "PENDIENTE"  // Awaiting customer confirmation
	AppointmentConfirmed AppointmentStatus = "CONFIRMADA" // Confirmed via token link
	AppointmentCanceled  AppointmentStatus = "CANCELADA"  // Canceled by staff
)

// ConfirmationWindow is how long a confirmation token stays valid.
const ConfirmationWindow = 48 * time.Hour

// Appointment is a public service request. The confirmation token is single
// use: once the status leaves PENDIENTE it can never go back.
type Appointment struct {
	ID          string            `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CustomerID  *string           `gorm:"index" json:"customerId,omitempty"`
	Name        string            `gorm:"not null" json:"name"`
	Email       string            `gorm:"not null" json:"email"`
	Phone       string            `gorm:"not null" json:"phone"`
	Description string            `gorm:"type:text" json:"description"`
	Date        time.Time         `gorm:"not null" json:"date"`
	Token       string            `gorm:"uniqueIndex;not null" json:"-"`
	Status      AppointmentStatus `gorm:"default:'PENDIENTE';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName specifies the table name for Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// ConfirmableAt reports whether the token is still inside its 48h window
func (a *Appointment) ConfirmableAt(now time.Time) bool {
	return now.Sub(a.CreatedAt) <= ConfirmationWindow
}
