package models

import (
	"time"
)

// OrderStatus defines possible service order statuses
type OrderStatus string

const (
	OrderInProgress OrderStatus = "EN_PROCESO" // Being worked on
	OrderPaused     OrderStatus = "PAUSADO"    // Waiting on customer or parts
	OrderCompleted  OrderStatus = "COMPLETADO" // Ready for invoicing and pickup
)

// ValidOrderStatus reports whether s is one of the three order statuses
func ValidOrderStatus(s OrderStatus) bool {
	return s == OrderInProgress || s == OrderPaused || s == OrderCompleted
}

// ServiceOrder tracks one repair job for one vehicle. Status transitions are
// free among the three states until an invoice exists; after that the order
// is frozen in COMPLETADO.
type ServiceOrder struct {
	ID          string      `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null" json:"orderNumber"`
	CustomerID  string      `gorm:"not null;index" json:"customerId"`
	VehicleID   string      `gorm:"not null;index" json:"vehicleId"`
	UserID      string      `gorm:"not null;index" json:"userId"`
	Diagnosis   string      `gorm:"type:text" json:"diagnosis,omitempty"`
	Cost        float64     `gorm:"default:0" json:"cost"`
	Status      OrderStatus `gorm:"default:'EN_PROCESO';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Customer     *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Vehicle      *Vehicle      `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PartRequests []PartRequest `gorm:"foreignKey:ServiceOrderID" json:"partRequests,omitempty"`
	Invoice      *Invoice      `gorm:"foreignKey:ServiceOrderID" json:"invoice,omitempty"`
}

// TableName specifies the table name for ServiceOrder model
func (ServiceOrder) TableName() string {
	return "service_orders"
}

// PartRequest records that an order needs a quantity of a part. Dispatched
// flips exactly once, when stock is decremented for this line.
type PartRequest struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ServiceOrderID string `gorm:"not null;index" json:"serviceOrderId"`
	PartID         string `gorm:"not null;index" json:"partId"`
	Quantity       int    `gorm:"not null" json:"quantity"`
	Reason         string `json:"reason,omitempty"`
	Dispatched     bool   `gorm:"default:false;index" json:"dispatched"`

	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Part *Part `gorm:"foreignKey:PartID" json:"part,omitempty"`
}

// TableName specifies the table name for PartRequest model
func (PartRequest) TableName() string {
	return "part_requests"
}
