package models

import (
	"testing"
	"time"
)

func TestAppointmentConfirmableWindow(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	appt := &Appointment{CreatedAt: created, Status: AppointmentPending}

	if !appt.ConfirmableAt(created.Add(1 * time.Hour)) {
		t.Error("Token should be valid 1 hour after creation")
	}
	if !appt.ConfirmableAt(created.Add(48 * time.Hour)) {
		t.Error("Token should still be valid at exactly 48 hours")
	}
	if appt.ConfirmableAt(created.Add(49 * time.Hour)) {
		t.Error("Token should be expired 49 hours after creation")
	}
}

func TestNormalizePlate(t *testing.T) {
	if got := NormalizePlate("  abc-123 "); got != "ABC-123" {
		t.Errorf("Expected ABC-123, got %q", got)
	}
	if got := NormalizePlate("XYZ-999"); got != "XYZ-999" {
		t.Errorf("Normalization should be idempotent, got %q", got)
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{OrderInProgress, OrderPaused, OrderCompleted} {
		if !ValidOrderStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	if ValidOrderStatus("ENTREGADO") {
		t.Error("Unknown status should not be valid")
	}
}
