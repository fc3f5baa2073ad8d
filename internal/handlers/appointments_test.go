package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/pesanort/tallergo/internal/models"
	"gorm.io/gorm"
)

func TestConfirmBlocked(t *testing.T) {
	now := time.Now()

	pending := &models.Appointment{
		Status:    models.AppointmentPending,
		CreatedAt: now.Add(-time.Hour),
	}
	if code, _ := confirmBlocked(pending, now); code != 0 {
		t.Errorf("pending appointment inside the window should be confirmable, got %d", code)
	}

	confirmed := &models.Appointment{
		Status:    models.AppointmentConfirmed,
		CreatedAt: now.Add(-time.Hour),
	}
	if code, _ := confirmBlocked(confirmed, now); code != http.StatusConflict {
		t.Errorf("already confirmed should block with 409, got %d", code)
	}

	canceled := &models.Appointment{
		Status:    models.AppointmentCanceled,
		CreatedAt: now.Add(-time.Hour),
	}
	if code, _ := confirmBlocked(canceled, now); code != http.StatusConflict {
		t.Errorf("canceled should block with 409, got %d", code)
	}

	expired := &models.Appointment{
		Status:    models.AppointmentPending,
		CreatedAt: now.Add(-models.ConfirmationWindow - time.Hour),
	}
	if code, _ := confirmBlocked(expired, now); code != http.StatusBadRequest {
		t.Errorf("expired token should block with 400, got %d", code)
	}
}

func TestShouldCreateCustomer(t *testing.T) {
	if create, fail := shouldCreateCustomer(nil); create || fail {
		t.Errorf("existing customer: create=%v fail=%v", create, fail)
	}
	if create, fail := shouldCreateCustomer(gorm.ErrRecordNotFound); !create || fail {
		t.Errorf("not found should create: create=%v fail=%v", create, fail)
	}
	if create, fail := shouldCreateCustomer(errors.New("connection reset")); create || !fail {
		t.Errorf("transient error must not mint a customer: create=%v fail=%v", create, fail)
	}
}
