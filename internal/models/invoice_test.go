package models

import (
	"testing"
)

func TestComputeInvoiceTotals(t *testing.T) {
	// Labor 50 + one part at 100 x2 = 250, IGV 18% = 45, total 295
	part := &Part{Price: 100}
	requests := []PartRequest{
		{Part: part, Quantity: 2},
	}

	subtotal, igv, total := ComputeInvoiceTotals(50, requests)
	if subtotal != 250 {
		t.Errorf("Expected subtotal 250, got %v", subtotal)
	}
	if igv != 45 {
		t.Errorf("Expected IGV 45, got %v", igv)
	}
	if total != 295 {
		t.Errorf("Expected total 295, got %v", total)
	}
}

func TestComputeInvoiceTotalsRounding(t *testing.T) {
	part := &Part{Price: 33.33}
	requests := []PartRequest{
		{Part: part, Quantity: 1},
	}

	subtotal, igv, total := ComputeInvoiceTotals(0, requests)
	if subtotal != 33.33 {
		t.Errorf("Expected subtotal 33.33, got %v", subtotal)
	}
	// 33.33 * 0.18 = 5.9994 -> 6.00
	if igv != 6.00 {
		t.Errorf("Expected IGV 6.00, got %v", igv)
	}
	if total != 39.33 {
		t.Errorf("Expected total 39.33, got %v", total)
	}
}

func TestComputeInvoiceTotalsLaborOnly(t *testing.T) {
	subtotal, igv, total := ComputeInvoiceTotals(100, nil)
	if subtotal != 100 || igv != 18 || total != 118 {
		t.Errorf("Expected 100/18/118, got %v/%v/%v", subtotal, igv, total)
	}
}

func TestPaymentStatus(t *testing.T) {
	inv := &Invoice{Total: 295}

	if got := inv.PaymentStatus(); got != PaymentPending {
		t.Errorf("Expected PENDING with no payments, got %s", got)
	}

	inv.Payments = append(inv.Payments, Payment{Amount: 200})
	if got := inv.PaymentStatus(); got != PaymentPartial {
		t.Errorf("Expected PARTIAL at 200/295, got %s", got)
	}

	inv.Payments = append(inv.Payments, Payment{Amount: 95})
	if got := inv.PaymentStatus(); got != PaymentPaid {
		t.Errorf("Expected PAID at 295/295, got %s", got)
	}
	if paid := inv.TotalPaid(); paid != 295 {
		t.Errorf("Expected total paid 295, got %v", paid)
	}
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentCash, PaymentCard, PaymentTransfer} {
		if !ValidPaymentMethod(m) {
			t.Errorf("%s should be valid", m)
		}
	}
	if ValidPaymentMethod("BITCOIN") {
		t.Error("Unknown method should not be valid")
	}
}
