package models

import (
	"time"
)

// Customer owns vehicles and service orders. Created either by staff at the
// front desk or automatically when a public appointment request arrives with
// an email nobody has used before.
type Customer struct {
	ID      string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name    string `gorm:"not null;index" json:"name"`
	Email   string `gorm:"index" json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Vehicles      []Vehicle      `gorm:"foreignKey:CustomerID" json:"vehicles,omitempty"`
	ServiceOrders []ServiceOrder `gorm:"foreignKey:CustomerID" json:"serviceOrders,omitempty"`
}

// TableName specifies the table name for Customer model
func (Customer) TableName() string {
	return "customers"
}
