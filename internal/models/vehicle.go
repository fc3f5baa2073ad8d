package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Vehicle belongs to a customer. The plate is globally unique and stored
// normalized (uppercase, no surrounding whitespace).
type Vehicle struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CustomerID string `gorm:"not null;index" json:"customerId"`
	Brand      string `gorm:"not null" json:"brand"`
	Model      string `gorm:"not null" json:"model"`
	Plate      string `gorm:"uniqueIndex;not null" json:"plate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName specifies the table name for Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}

// BeforeSave normalizes the plate before any write
func (v *Vehicle) BeforeSave(tx *gorm.DB) error {
	v.Plate = NormalizePlate(v.Plate)
	return nil
}

// NormalizePlate uppercases and trims a license plate
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
