package handlers

import (
	"strings"
	"testing"

	"github.com/pesanort/tallergo/internal/models"
)

func part(id, name string, stock int) *models.Part {
	return &models.Part{ID: id, Name: name, Stock: stock}
}

func TestPlanDispatchRejectsShortfall(t *testing.T) {
	requests := []models.PartRequest{
		{ID: "pr1", PartID: "p1", Quantity: 5, Part: part("p1", "Filtro de aceite", 3)},
	}

	ready, shortfalls := planDispatch(requests)
	if len(ready) != 0 {
		t.Fatalf("expected no dispatchable lines, got %d", len(ready))
	}
	if len(shortfalls) != 1 {
		t.Fatalf("expected 1 shortfall, got %d", len(shortfalls))
	}
	msg := shortfalls[0].String()
	if !strings.Contains(msg, "Filtro de aceite") || !strings.Contains(msg, "requiere 5") || !strings.Contains(msg, "disponible 3") {
		t.Errorf("unexpected shortfall message: %s", msg)
	}
}

func TestPlanDispatchCumulativeStock(t *testing.T) {
	// Two lines for the same part: 4 + 4 against stock 6. The first line
	// fits, the second must see the remaining 2, not the original 6.
	p := part("p1", "Pastillas de freno", 6)
	requests := []models.PartRequest{
		{ID: "pr1", PartID: "p1", Quantity: 4, Part: p},
		{ID: "pr2", PartID: "p1", Quantity: 4, Part: p},
	}

	ready, shortfalls := planDispatch(requests)
	if len(ready) != 1 || ready[0].ID != "pr1" {
		t.Fatalf("expected only pr1 dispatchable, got %v", ready)
	}
	if len(shortfalls) != 1 {
		t.Fatalf("expected 1 shortfall, got %d", len(shortfalls))
	}
	if shortfalls[0].Available != 2 {
		t.Errorf("expected remaining stock 2 in shortfall, got %d", shortfalls[0].Available)
	}
}

func TestPlanDispatchAllServed(t *testing.T) {
	requests := []models.PartRequest{
		{ID: "pr1", PartID: "p1", Quantity: 2, Part: part("p1", "Bujía", 10)},
		{ID: "pr2", PartID: "p2", Quantity: 1, Part: part("p2", "Correa", 1)},
	}

	ready, shortfalls := planDispatch(requests)
	if len(shortfalls) != 0 {
		t.Fatalf("expected no shortfalls, got %v", shortfalls)
	}
	if len(ready) != 2 {
		t.Fatalf("expected 2 dispatchable lines, got %d", len(ready))
	}
}

func TestPlanDispatchSkipsDispatchedAndUnknown(t *testing.T) {
	requests := []models.PartRequest{
		{ID: "pr1", PartID: "p1", Quantity: 2, Part: part("p1", "Bujía", 10), Dispatched: true},
		{ID: "pr2", PartID: "missing", Quantity: 1, Part: nil},
	}

	ready, shortfalls := planDispatch(requests)
	if len(ready) != 0 || len(shortfalls) != 0 {
		t.Errorf("expected both lines skipped, got ready=%d shortfalls=%d", len(ready), len(shortfalls))
	}
}
