package handlers

import (
	"errors"
	"net/http"

	"github.com/pesanort/tallergo/internal/middleware"
	"github.com/pesanort/tallergo/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordPaymentRequest registers a payment against an invoice
type RecordPaymentRequest struct {
	InvoiceID     string               `json:"invoiceId" validate:"required"`
	Amount        float64              `json:"amount" validate:"required,gt=0"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"required"`
}

var errOverpayment = errors.New("payment exceeds balance")

// listPayments returns payments, optionally for one invoice
func (r *Router) listPayments(w http.ResponseWriter, req *http.Request) {
	query := r.db.
		Preload("Invoice").
		Preload("Invoice.ServiceOrder").
		Order("created_at DESC")

	if invoiceID := req.URL.Query().Get("invoiceId"); invoiceID != "" {
		query = query.Where("invoice_id = ?", invoiceID)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch payments")
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

// recordPayment registers a payment. The invoice row is locked while the
// running balance is checked so two simultaneous payments cannot overshoot
// the total.
func (r *Router) recordPayment(w http.ResponseWriter, req *http.Request) {
	user := middleware.UserFrom(req.Context())

	var body RecordPaymentRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !models.ValidPaymentMethod(body.PaymentMethod) {
		respondError(w, http.StatusBadRequest, "Invalid payment method")
		return
	}

	var payment models.Payment
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&invoice, "id = ?", body.InvoiceID).Error; err != nil {
			return err
		}

		var paid float64
		if err := tx.Model(&models.Payment{}).Where("invoice_id = ?", invoice.ID).
			Select("COALESCE(SUM(amount), 0)").Scan(&paid).Error; err != nil {
			return err
		}

		balance := models.Round2(invoice.Total - paid)
		if models.Round2(body.Amount) > balance {
			return errOverpayment
		}

		payment = models.Payment{
			InvoiceID:     invoice.ID,
			UserID:        user.ID,
			Amount:        models.Round2(body.Amount),
			PaymentMethod: body.PaymentMethod,
		}
		return tx.Create(&payment).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(w, http.StatusNotFound, "Invoice not found")
	case errors.Is(err, errOverpayment):
		respondError(w, http.StatusBadRequest, "Payment exceeds the remaining balance")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to record payment")
	default:
		respondJSON(w, http.StatusCreated, payment)
	}
}
