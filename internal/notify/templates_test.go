package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/pesanort/tallergo/internal/models"
)

func TestServiceOrderStatusEmail(t *testing.T) {
	order := &models.ServiceOrder{
		OrderNumber: "123456789",
		Status:      models.OrderCompleted,
		Customer:    &models.Customer{Name: "Juan Pérez"},
		Vehicle:     &models.Vehicle{Brand: "Toyota", Model: "Hilux", Plate: "ABC-123"},
	}

	subject, html := ServiceOrderStatusEmail(order)
	if subject != "PESANORT - Su vehículo está listo" {
		t.Errorf("Unexpected subject: %q", subject)
	}
	for _, want := range []string{"Juan Pérez", "#123456789", "Toyota Hilux", "ABC-123", "COMPLETADO"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML should contain %q", want)
		}
	}
}

func TestAppointmentConfirmationEmail(t *testing.T) {
	appt := &models.Appointment{
		Name:        "María García",
		Email:       "maria@example.com",
		Phone:       "987654321",
		Description: "Cambio de aceite y revisión de frenos",
		Date:        time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	}

	url := "http://localhost:3001/confirmar-cita/abc123"
	subject, html := AppointmentConfirmationEmail(appt, url, nil)
	if subject != "PESANORT - Confirma tu cita" {
		t.Errorf("Unexpected subject: %q", subject)
	}
	if !strings.Contains(html, url) {
		t.Error("HTML should contain the confirmation URL")
	}
	if !strings.Contains(html, "15/09/2026") {
		t.Error("HTML should contain the formatted date")
	}
	if strings.Contains(html, "data:image/png") {
		t.Error("HTML should not embed a QR when none is given")
	}

	_, withQR := AppointmentConfirmationEmail(appt, url, []byte{0x89, 0x50})
	if !strings.Contains(withQR, "data:image/png;base64,") {
		t.Error("HTML should embed the QR image when given")
	}
}

func TestLowStockAlertEmail(t *testing.T) {
	part := &models.Part{Name: "Filtro de aire", Code: "REP-001", Stock: 3}

	subject, html := LowStockAlertEmail(part)
	if !strings.Contains(subject, "Filtro de aire") {
		t.Errorf("Subject should name the part, got %q", subject)
	}
	if !strings.Contains(html, "REP-001") || !strings.Contains(html, "3 unidades") {
		t.Error("HTML should contain code and stock level")
	}
}
