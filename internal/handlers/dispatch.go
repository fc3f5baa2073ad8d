package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pesanort/tallergo/internal/models"
	"github.com/pesanort/tallergo/internal/notify"
	"github.com/pesanort/tallergo/internal/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DispatchRequest names the part request lines to dispatch
type DispatchRequest struct {
	PartRequestIDs []string `json:"partRequestIds" validate:"required,min=1"`
}

// shortfall is one line that cannot be served from stock
type shortfall struct {
	PartName  string
	Requested int
	Available int
}

func (s shortfall) String() string {
	return fmt.Sprintf("%s (requiere %d, disponible %d)", s.PartName, s.Requested, s.Available)
}

// planDispatch validates every line against stock before anything mutates.
// Lines are consumed in order against a running balance, so several requests
// for the same part count cumulatively. Requests without a loaded Part and
// already dispatched lines are skipped.
func planDispatch(requests []models.PartRequest) (ready []models.PartRequest, shortfalls []shortfall) {
	remaining := make(map[string]int)

	for _, pr := range requests {
		if pr.Part == nil || pr.Dispatched {
			continue
		}
		if _, ok := remaining[pr.PartID]; !ok {
			remaining[pr.PartID] = pr.Part.Stock
		}
		if remaining[pr.PartID] < pr.Quantity {
			shortfalls = append(shortfalls, shortfall{
				PartName:  pr.Part.Name,
				Requested: pr.Quantity,
				Available: remaining[pr.PartID],
			})
			continue
		}
		remaining[pr.PartID] -= pr.Quantity
		ready = append(ready, pr)
	}

	return ready, shortfalls
}

var errInsufficientStock = errors.New("insufficient stock")

// dispatchParts decrements inventory for the named part requests. The whole
// batch runs in one transaction with the part rows locked: either every line
// is served or none is, and the response lists every shortfall.
func (r *Router) dispatchParts(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	orderID := vars["id"]

	var body DispatchRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Part request ids are required")
		return
	}

	var order models.ServiceOrder
	if err := r.db.First(&order, "id = ?", orderID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	var shortfalls []shortfall
	var dispatchedParts []models.Part

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Unknown ids are skipped, matching the original front-desk flow
		var requests []models.PartRequest
		if err := tx.Where("id IN ? AND service_order_id = ?", body.PartRequestIDs, orderID).
			Find(&requests).Error; err != nil {
			return err
		}

		partIDs := make([]string, 0, len(requests))
		for _, pr := range requests {
			partIDs = append(partIDs, pr.PartID)
		}
		if len(partIDs) == 0 {
			return nil
		}

		// Lock the inventory rows for the whole check-then-mutate sequence
		var parts []models.Part
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", partIDs).Find(&parts).Error; err != nil {
			return err
		}
		byID := make(map[string]*models.Part, len(parts))
		for i := range parts {
			byID[parts[i].ID] = &parts[i]
		}
		for i := range requests {
			requests[i].Part = byID[requests[i].PartID]
		}

		ready, short := planDispatch(requests)
		if len(short) > 0 {
			shortfalls = short
			return errInsufficientStock
		}

		for _, pr := range ready {
			if err := tx.Model(&models.Part{}).Where("id = ?", pr.PartID).
				UpdateColumn("stock", gorm.Expr("stock - ?", pr.Quantity)).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.PartRequest{}).Where("id = ?", pr.ID).
				Update("dispatched", true).Error; err != nil {
				return err
			}
		}

		// Reload for post-commit low-stock alerts
		return tx.Where("id IN ?", partIDs).Find(&dispatchedParts).Error
	})

	if errors.Is(err, errInsufficientStock) {
		details := make([]string, len(shortfalls))
		for i, s := range shortfalls {
			details[i] = s.String()
		}
		respondErrorDetails(w, http.StatusBadRequest, "Insufficient stock", details)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to dispatch parts")
		return
	}

	// Low-stock alerts, best effort
	lowStock := 0
	for i := range dispatchedParts {
		part := &dispatchedParts[i]
		if !part.LowStock() {
			continue
		}
		lowStock++

		var admin models.User
		if err := r.db.Where("role = ? AND is_active = true", models.RoleAdmin).First(&admin).Error; err == nil && admin.Email != "" {
			subject, html := notify.LowStockAlertEmail(part)
			r.mail.Send(admin.Email, subject, html)
		}

		r.hub.Broadcast(websocket.EventLowStock, map[string]interface{}{
			"partId": part.ID,
			"code":   part.Code,
			"name":   part.Name,
			"stock":  part.Stock,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Parts dispatched successfully",
		"lowStockAlerts": lowStock,
	})
}
