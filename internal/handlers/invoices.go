package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pesanort/tallergo/internal/middleware"
	"github.com/pesanort/tallergo/internal/models"
	"github.com/pesanort/tallergo/internal/services/printer"
	"github.com/pesanort/tallergo/internal/utils"
	"gorm.io/gorm"
)

// CreateInvoiceRequest issues an invoice for a completed order. The client
// sends its displayed figures only so the server can cross-check them; the
// stored totals are always recomputed here.
type CreateInvoiceRequest struct {
	ServiceOrderID string  `json:"serviceOrderId" validate:"required"`
	BusinessName   string  `json:"businessName" validate:"required,min=2"`
	DNI            string  `json:"dni" validate:"required,min=8"`
	Subtotal       float64 `json:"subtotal" validate:"min=0"`
	IGV            float64 `json:"igv" validate:"min=0"`
	Total          float64 `json:"total" validate:"min=0"`
}

// invoiceResponse decorates an invoice with its derived payment state
type invoiceResponse struct {
	models.Invoice
	PaymentStatus models.PaymentState `json:"paymentStatus"`
	TotalPaid     float64             `json:"totalPaid"`
}

func toInvoiceResponse(inv models.Invoice) invoiceResponse {
	return invoiceResponse{
		Invoice:       inv,
		PaymentStatus: inv.PaymentStatus(),
		TotalPaid:     inv.TotalPaid(),
	}
}

// listInvoices returns invoices with payments, newest first
func (r *Router) listInvoices(w http.ResponseWriter, req *http.Request) {
	query := r.db.
		Preload("ServiceOrder").
		Preload("ServiceOrder.Customer").
		Preload("ServiceOrder.Vehicle").
		Preload("Payments").
		Order("created_at DESC")

	if customerID := req.URL.Query().Get("customerId"); customerID != "" {
		query = query.Joins("JOIN service_orders ON service_orders.id = invoices.service_order_id").
			Where("service_orders.customer_id = ?", customerID)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch invoices")
		return
	}

	out := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = toInvoiceResponse(inv)
	}
	respondJSON(w, http.StatusOK, out)
}

// createInvoice issues the invoice for a COMPLETADO order. Totals are
// recomputed from the order's labor cost and part lines; client figures that
// drift more than a cent from the recomputation are rejected.
func (r *Router) createInvoice(w http.ResponseWriter, req *http.Request) {
	user := middleware.UserFrom(req.Context())

	var body CreateInvoiceRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var order models.ServiceOrder
	err := r.db.
		Preload("PartRequests").
		Preload("PartRequests.Part").
		First(&order, "id = ?", body.ServiceOrderID).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	if order.Status != models.OrderCompleted {
		respondError(w, http.StatusBadRequest, "Only completed orders can be invoiced")
		return
	}

	var existing int64
	if err := r.db.Model(&models.Invoice{}).Where("service_order_id = ?", order.ID).Count(&existing).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create invoice")
		return
	}
	if existing > 0 {
		respondError(w, http.StatusConflict, "Order already has an invoice")
		return
	}

	subtotal, igv, total := models.ComputeInvoiceTotals(order.Cost, order.PartRequests)
	if math.Abs(subtotal-body.Subtotal) > 0.01 ||
		math.Abs(igv-body.IGV) > 0.01 ||
		math.Abs(total-body.Total) > 0.01 {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("Totals do not match the order: expected subtotal %.2f, IGV %.2f, total %.2f", subtotal, igv, total))
		return
	}

	invoice := models.Invoice{
		ServiceOrderID: order.ID,
		CustomerID:     order.CustomerID,
		UserID:         user.ID,
		BusinessName:   body.BusinessName,
		DNI:            body.DNI,
		Subtotal:       subtotal,
		IGV:            igv,
		Total:          total,
	}

	// The invoice_number unique index arbitrates number collisions; a
	// duplicated key that survives the retries means the service_order_id
	// index fired, so a racing request invoiced this order first.
	err = retryOnDuplicate(5, func() error {
		invoice.InvoiceNumber = utils.GenerateInvoiceNumber()
		return r.db.Create(&invoice).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		respondError(w, http.StatusConflict, "Order already has an invoice")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	r.db.
		Preload("ServiceOrder").
		Preload("ServiceOrder.Customer").
		Preload("ServiceOrder.Vehicle").
		Preload("Payments").
		First(&invoice, "id = ?", invoice.ID)

	respondJSON(w, http.StatusCreated, toInvoiceResponse(invoice))
}

// getInvoice returns one invoice with order, line and payment detail
func (r *Router) getInvoice(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var invoice models.Invoice
	err := r.db.
		Preload("ServiceOrder").
		Preload("ServiceOrder.Customer").
		Preload("ServiceOrder.Vehicle").
		Preload("ServiceOrder.PartRequests").
		Preload("ServiceOrder.PartRequests.Part").
		Preload("Payments").
		First(&invoice, "id = ?", vars["id"]).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusNotFound, "Invoice not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch invoice")
		return
	}

	respondJSON(w, http.StatusOK, toInvoiceResponse(invoice))
}

// invoicePDF renders the invoice as a printable PDF
func (r *Router) invoicePDF(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var invoice models.Invoice
	err := r.db.
		Preload("ServiceOrder").
		Preload("ServiceOrder.Customer").
		Preload("ServiceOrder.Vehicle").
		Preload("ServiceOrder.PartRequests").
		Preload("ServiceOrder.PartRequests.Part").
		First(&invoice, "id = ?", vars["id"]).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "Invoice not found")
		return
	}

	verifyURL := r.cfg.AppURL + "/facturas/" + invoice.ID
	pdfBytes, err := printer.GenerateInvoicePDF(&invoice, verifyURL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", invoice.InvoiceNumber))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
