package models

import "testing"

func TestLowStock(t *testing.T) {
	p := Part{
		Code:        "FLT-001",
		Name:        "Filtro de aceite",
		Description: "Filtro de aceite para motores 1.6L",
		Stock:       LowStockThreshold,
		Price:       35.50,
	}
	if !p.LowStock() {
		t.Errorf("stock %d should be at the alert threshold", p.Stock)
	}

	p.Stock = LowStockThreshold + 1
	if p.LowStock() {
		t.Errorf("stock %d should be above the alert threshold", p.Stock)
	}

	p.Stock = 0
	if !p.LowStock() {
		t.Error("empty stock should be low")
	}
}
