package models

import (
	"time"
)

// LowStockThreshold triggers the admin alert after a dispatch.
const LowStockThreshold = 5

// Part is an inventory item. Stock is mutated only by adjust-stock and
// dispatch operations and never goes negative.
type Part struct {
	ID          string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Code        string  `gorm:"uniqueIndex;not null" json:"code"`
	Name        string  `gorm:"not null;index" json:"name"`
	Description string  `gorm:"type:text" json:"description,omitempty"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	Price       float64 `gorm:"not null" json:"price"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Part model
func (Part) TableName() string {
	return "parts"
}

// LowStock reports whether the part is at or below the alert threshold
func (p *Part) LowStock() bool {
	return p.Stock <= LowStockThreshold
}
