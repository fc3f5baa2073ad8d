package models

import (
	"math"
	"time"
)

// IGVRate is the Peruvian sales tax applied to every invoice.
const IGVRate = 0.18

// PaymentMethod defines accepted payment methods
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "EFECTIVO"
	PaymentCard     PaymentMethod = "TARJETA"
	PaymentTransfer PaymentMethod = "TRANSFERENCIA"
)

// ValidPaymentMethod reports whether m is an accepted method
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentTransfer
}

// PaymentState is the derived settlement state of an invoice
type PaymentState string

const (
	PaymentPending PaymentState = "PENDING"
	PaymentPartial PaymentState = "PARTIAL"
	PaymentPaid    PaymentState = "PAID"
)

// Invoice is generated exactly once per completed service order and is
// immutable after creation. Totals are recomputed server side from the
// order's labor cost and part lines.
type Invoice struct {
	ID             string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	InvoiceNumber  string  `gorm:"uniqueIndex;not null" json:"invoiceNumber"`
	ServiceOrderID string  `gorm:"uniqueIndex;not null" json:"serviceOrderId"`
	CustomerID     string  `gorm:"not null;index" json:"customerId"`
	UserID         string  `gorm:"not null" json:"userId"`
	DNI            string  `gorm:"column:dni;not null" json:"dni"`
	BusinessName   string  `gorm:"not null" json:"businessName"`
	Subtotal       float64 `gorm:"not null" json:"subtotal"`
	IGV            float64 `gorm:"column:igv;not null" json:"igv"`
	Total          float64 `gorm:"not null" json:"total"`

	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Customer     *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ServiceOrder *ServiceOrder `gorm:"foreignKey:ServiceOrderID" json:"serviceOrder,omitempty"`
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Payments     []Payment     `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// TableName specifies the table name for Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// Payment is an append-only partial payment against an invoice. The sum of
// payments never exceeds the invoice total.
type Payment struct {
	ID            string        `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	InvoiceID     string        `gorm:"not null;index" json:"invoiceId"`
	UserID        string        `gorm:"not null" json:"userId"`
	Amount        float64       `gorm:"not null" json:"amount"`
	PaymentMethod PaymentMethod `gorm:"not null" json:"paymentMethod"`

	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Invoice *Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for Payment model
func (Payment) TableName() string {
	return "payments"
}

// ComputeInvoiceTotals derives the authoritative invoice figures from an
// order's labor cost and its part request lines.
func ComputeInvoiceTotals(cost float64, requests []PartRequest) (subtotal, igv, total float64) {
	subtotal = cost
	for _, pr := range requests {
		if pr.Part != nil {
			subtotal += pr.Part.Price * float64(pr.Quantity)
		}
	}
	subtotal = Round2(subtotal)
	igv = Round2(subtotal * IGVRate)
	total = Round2(subtotal + igv)
	return subtotal, igv, total
}

// TotalPaid sums the loaded payments
func (i *Invoice) TotalPaid() float64 {
	var paid float64
	for _, p := range i.Payments {
		paid += p.Amount
	}
	return paid
}

// PaymentStatus derives the settlement state from the loaded payments
func (i *Invoice) PaymentStatus() PaymentState {
	paid := i.TotalPaid()
	switch {
	case paid <= 0:
		return PaymentPending
	case paid < i.Total:
		return PaymentPartial
	default:
		return PaymentPaid
	}
}

// Round2 rounds to two decimal places (currency)
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
