package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/pesanort/tallergo/internal/middleware"
	"github.com/pesanort/tallergo/internal/models"
)

// analyticsRevenue returns collected revenue per month for the last 12
// months. Revenue is what was actually paid, not what was invoiced.
func (r *Router) analyticsRevenue(w http.ResponseWriter, req *http.Request) {
	type monthRevenue struct {
		Month    string  `json:"month"`
		Revenue  float64 `json:"revenue"`
		Payments int64   `json:"payments"`
	}

	now := time.Now()
	out := make([]monthRevenue, 0, 12)

	for i := 11; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		var row struct {
			Revenue  float64
			Payments int64
		}
		err := r.db.Model(&models.Payment{}).
			Select("COALESCE(SUM(amount), 0) AS revenue, COUNT(*) AS payments").
			Where("created_at >= ? AND created_at < ?", start, end).
			Scan(&row).Error
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to compute revenue")
			return
		}

		out = append(out, monthRevenue{
			Month:    start.Format("2006-01"),
			Revenue:  models.Round2(row.Revenue),
			Payments: row.Payments,
		})
	}

	respondJSON(w, http.StatusOK, out)
}

// analyticsOrdersStatus returns the count of service orders per status
func (r *Router) analyticsOrdersStatus(w http.ResponseWriter, req *http.Request) {
	var rows []struct {
		Status models.OrderStatus `json:"status"`
		Count  int64              `json:"count"`
	}
	err := r.db.Model(&models.ServiceOrder{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute order statuses")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// periodStart maps the period query param to a cutoff; the zero time means
// no cutoff at all.
func periodStart(period string, now time.Time) time.Time {
	switch period {
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case "year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

// analyticsTopParts ranks parts by dispatched quantity, top 10
func (r *Router) analyticsTopParts(w http.ResponseWriter, req *http.Request) {
	query := r.db.Model(&models.PartRequest{}).Where("dispatched = true")
	if start := periodStart(req.URL.Query().Get("period"), time.Now()); !start.IsZero() {
		query = query.Where("part_requests.created_at >= ?", start)
	}

	var rows []struct {
		PartID   string  `json:"partId"`
		Code     string  `json:"code"`
		Name     string  `json:"name"`
		Quantity int64   `json:"quantity"`
		Value    float64 `json:"value"`
	}
	err := query.
		Select("parts.id AS part_id, parts.code, parts.name, SUM(part_requests.quantity) AS quantity, SUM(part_requests.quantity * parts.price) AS value").
		Joins("JOIN parts ON parts.id = part_requests.part_id").
		Group("parts.id, parts.code, parts.name").
		Order("quantity DESC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute top parts")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// analyticsTopCustomers ranks customers by invoiced amount, top 10
func (r *Router) analyticsTopCustomers(w http.ResponseWriter, req *http.Request) {
	var rows []struct {
		CustomerID string  `json:"customerId"`
		Name       string  `json:"name"`
		Invoiced   float64 `json:"invoiced"`
		Orders     int64   `json:"orders"`
	}
	err := r.db.Model(&models.Invoice{}).
		Select("customers.id AS customer_id, customers.name, SUM(invoices.total) AS invoiced, COUNT(invoices.id) AS orders").
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Group("customers.id, customers.name").
		Order("invoiced DESC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute top customers")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// analyticsAppointmentsConversion reports how many appointment requests end
// up confirmed.
func (r *Router) analyticsAppointmentsConversion(w http.ResponseWriter, req *http.Request) {
	var rows []struct {
		Status models.AppointmentStatus
		Count  int64
	}
	err := r.db.Model(&models.Appointment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute appointment conversion")
		return
	}

	var total, confirmed, pending, canceled int64
	for _, row := range rows {
		total += row.Count
		switch row.Status {
		case models.AppointmentConfirmed:
			confirmed = row.Count
		case models.AppointmentPending:
			pending = row.Count
		case models.AppointmentCanceled:
			canceled = row.Count
		}
	}

	rate := 0.0
	if total > 0 {
		rate = models.Round2(float64(confirmed) / float64(total) * 100)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total":          total,
		"confirmed":      confirmed,
		"pending":        pending,
		"canceled":       canceled,
		"conversionRate": rate,
	})
}

// analyticsPaymentsAnalysis breaks payments down by method and reports how
// many invoices sit in each settlement state.
func (r *Router) analyticsPaymentsAnalysis(w http.ResponseWriter, req *http.Request) {
	var byMethod []struct {
		PaymentMethod models.PaymentMethod `json:"paymentMethod"`
		Amount        float64              `json:"amount"`
		Count         int64                `json:"count"`
	}
	err := r.db.Model(&models.Payment{}).
		Select("payment_method, SUM(amount) AS amount, COUNT(*) AS count").
		Group("payment_method").
		Scan(&byMethod).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute payment analysis")
		return
	}
	sort.Slice(byMethod, func(i, j int) bool { return byMethod[i].Amount > byMethod[j].Amount })

	// Settlement states are derived per invoice, so load them with payments
	var invoices []models.Invoice
	if err := r.db.Preload("Payments").Find(&invoices).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute payment analysis")
		return
	}

	states := map[models.PaymentState]int64{
		models.PaymentPending: 0,
		models.PaymentPartial: 0,
		models.PaymentPaid:    0,
	}
	var outstanding float64
	for i := range invoices {
		states[invoices[i].PaymentStatus()]++
		outstanding += invoices[i].Total - invoices[i].TotalPaid()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"byMethod":    byMethod,
		"invoices":    states,
		"outstanding": models.Round2(outstanding),
	})
}

// analyticsMechanicOrders returns the signed-in user's order counts per
// status. Mechanics see their own workload, which is why this endpoint is
// open to the whole workshop.
func (r *Router) analyticsMechanicOrders(w http.ResponseWriter, req *http.Request) {
	user := middleware.UserFrom(req.Context())

	var rows []struct {
		Status models.OrderStatus `json:"status"`
		Count  int64              `json:"count"`
	}
	err := r.db.Model(&models.ServiceOrder{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", user.ID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute mechanic workload")
		return
	}

	var total int64
	for _, row := range rows {
		total += row.Count
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"userId":   user.ID,
		"total":    total,
		"byStatus": rows,
	})
}
