package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pesanort/tallergo/internal/models"
	"github.com/pesanort/tallergo/internal/notify"
	"github.com/pesanort/tallergo/internal/utils"
	"github.com/pesanort/tallergo/internal/websocket"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppointmentRequest is the public appointment intake form
type AppointmentRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,min=6"`
	Description string `json:"description" validate:"required,min=10"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
}

var errConfirmBlocked = errors.New("appointment not confirmable")

// shouldCreateCustomer classifies a customer lookup result: create on a
// definitive not-found, fail on any other error.
func shouldCreateCustomer(err error) (create, fail bool) {
	switch {
	case err == nil:
		return false, false
	case errors.Is(err, gorm.ErrRecordNotFound):
		return true, false
	default:
		return false, true
	}
}

// confirmBlocked reports what stops a confirmation, as an HTTP status and
// message; a zero code means the appointment can be confirmed.
func confirmBlocked(a *models.Appointment, now time.Time) (int, string) {
	if a.Status != models.AppointmentPending {
		return http.StatusConflict, "This appointment has already been confirmed or canceled"
	}
	if !a.ConfirmableAt(now) {
		return http.StatusBadRequest, "The confirmation link has expired. Please request a new appointment"
	}
	return 0, ""
}

// requestAppointment handles a public appointment request: finds or creates
// the customer by email, issues a confirmation token and sends the
// confirmation email (best effort).
func (r *Router) requestAppointment(w http.ResponseWriter, req *http.Request) {
	var body AppointmentRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date")
		return
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		respondError(w, http.StatusBadRequest, "Date must be today or later")
		return
	}

	token, err := utils.GenerateConfirmationToken()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	// Find or create the customer by email. Only a definitive not-found
	// mints a new record; a transient lookup error must not duplicate one.
	var customer models.Customer
	err = r.db.Where("email = ?", body.Email).First(&customer).Error
	create, fail := shouldCreateCustomer(err)
	if fail {
		respondError(w, http.StatusInternalServerError, "Failed to create appointment")
		return
	}
	if create {
		customer = models.Customer{
			Name:  body.Name,
			Email: body.Email,
			Phone: body.Phone,
		}
		if err := r.db.Create(&customer).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to create appointment")
			return
		}
	}

	appointment := models.Appointment{
		CustomerID:  &customer.ID,
		Name:        body.Name,
		Email:       body.Email,
		Phone:       body.Phone,
		Description: body.Description,
		Date:        date,
		Token:       token,
		Status:      models.AppointmentPending,
	}
	if err := r.db.Create(&appointment).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	// Confirmation email with link and QR; never blocks the creation
	confirmURL := r.cfg.AppURL + "/confirmar-cita/" + token
	qrPNG, err := qrcode.Encode(confirmURL, qrcode.Medium, 256)
	if err != nil {
		log.Printf("⚠️  Could not render confirmation QR: %v", err)
		qrPNG = nil
	}
	subject, html := notify.AppointmentConfirmationEmail(&appointment, confirmURL, qrPNG)
	r.mail.Send(appointment.Email, subject, html)

	respondJSON(w, http.StatusCreated, appointment)
}

// confirmAppointment consumes a confirmation token. The token is single use:
// once the appointment leaves PENDIENTE this endpoint reports a conflict. The
// guard and the save run under a row lock so two concurrent confirms of the
// same token cannot both succeed.
func (r *Router) confirmAppointment(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var appointment models.Appointment
	var blockedCode int
	var blockedMsg string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", vars["token"]).First(&appointment).Error; err != nil {
			return err
		}

		if code, msg := confirmBlocked(&appointment, time.Now()); code != 0 {
			blockedCode, blockedMsg = code, msg
			return errConfirmBlocked
		}

		appointment.Status = models.AppointmentConfirmed
		return tx.Save(&appointment).Error
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(w, http.StatusNotFound, "Appointment not found or invalid token")
		return
	case errors.Is(err, errConfirmBlocked):
		respondError(w, blockedCode, blockedMsg)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to confirm appointment")
		return
	}

	// Staff notification, best effort
	var admin models.User
	err = r.db.Where("role IN ? AND is_active = true", []models.Role{models.RoleAdmin, models.RoleAsesor}).
		First(&admin).Error
	if err == nil && admin.Email != "" {
		subject, html := notify.AppointmentConfirmedNotificationEmail(&appointment)
		r.mail.Send(admin.Email, subject, html)
	}

	r.hub.Broadcast(websocket.EventAppointmentConfirmed, map[string]string{
		"appointmentId": appointment.ID,
		"name":          appointment.Name,
		"date":          appointment.Date.Format("2006-01-02"),
	})

	respondJSON(w, http.StatusOK, appointment)
}

// listAppointments returns appointments for staff, optionally by status
func (r *Router) listAppointments(w http.ResponseWriter, req *http.Request) {
	query := r.db.Preload("Customer").Order("created_at DESC")
	if status := req.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch appointments")
		return
	}
	respondJSON(w, http.StatusOK, appointments)
}

// cancelAppointment moves a pending appointment to CANCELADA
func (r *Router) cancelAppointment(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var appointment models.Appointment
	if err := r.db.First(&appointment, "id = ?", vars["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "Appointment not found")
		return
	}

	if appointment.Status != models.AppointmentPending {
		respondError(w, http.StatusConflict, "Only pending appointments can be canceled")
		return
	}

	appointment.Status = models.AppointmentCanceled
	if err := r.db.Save(&appointment).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to cancel appointment")
		return
	}

	respondJSON(w, http.StatusOK, appointment)
}
