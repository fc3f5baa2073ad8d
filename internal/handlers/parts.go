package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pesanort/tallergo/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PartRequestBody creates a catalog part
type PartRequestBody struct {
	Code        string  `json:"code" validate:"required,min=2"`
	Name        string  `json:"name" validate:"required,min=2"`
	Description string  `json:"description"`
	Stock       int     `json:"stock" validate:"min=0"`
	Price       float64 `json:"price" validate:"required,gt=0"`
}

// UpdatePartRequest patches a catalog part
type UpdatePartRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=2"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
}

// AdjustStockRequest is a manual inventory correction
type AdjustStockRequest struct {
	Operation string `json:"operation" validate:"required,oneof=ADD SUBTRACT"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// listParts returns the catalog, optionally filtered by code or name
func (r *Router) listParts(w http.ResponseWriter, req *http.Request) {
	query := r.db.Order("code ASC")
	if q := req.URL.Query().Get("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", like, like)
	}
	if req.URL.Query().Get("lowStock") == "true" {
		query = query.Where("stock <= ?", models.LowStockThreshold)
	}

	var parts []models.Part
	if err := query.Find(&parts).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch parts")
		return
	}
	respondJSON(w, http.StatusOK, parts)
}

// createPart adds a part to the catalog; codes are unique
func (r *Router) createPart(w http.ResponseWriter, req *http.Request) {
	var body PartRequestBody
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(body.Code))
	var count int64
	if err := r.db.Model(&models.Part{}).Where("code = ?", code).Count(&count).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create part")
		return
	}
	if count > 0 {
		respondError(w, http.StatusConflict, "A part with this code already exists")
		return
	}

	partRecord := models.Part{
		Code:        code,
		Name:        body.Name,
		Description: body.Description,
		Stock:       body.Stock,
		Price:       body.Price,
	}
	if err := r.db.Create(&partRecord).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create part")
		return
	}

	respondJSON(w, http.StatusCreated, partRecord)
}

// getPart returns one catalog part
func (r *Router) getPart(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var partRecord models.Part
	if err := r.db.First(&partRecord, "id = ?", vars["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "Part not found")
		return
	}
	respondJSON(w, http.StatusOK, partRecord)
}

// updatePart patches name, description and price. Stock only moves through
// adjustStock or dispatch.
func (r *Router) updatePart(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var partRecord models.Part
	if err := r.db.First(&partRecord, "id = ?", vars["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "Part not found")
		return
	}

	var body UpdatePartRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if body.Name != nil {
		partRecord.Name = *body.Name
	}
	if body.Description != nil {
		partRecord.Description = *body.Description
	}
	if body.Price != nil {
		partRecord.Price = *body.Price
	}

	if err := r.db.Save(&partRecord).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update part")
		return
	}
	respondJSON(w, http.StatusOK, partRecord)
}

// deletePart removes a part that no order line references
func (r *Router) deletePart(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var partRecord models.Part
	if err := r.db.First(&partRecord, "id = ?", vars["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "Part not found")
		return
	}

	var refs int64
	if err := r.db.Model(&models.PartRequest{}).Where("part_id = ?", partRecord.ID).Count(&refs).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete part")
		return
	}
	if refs > 0 {
		respondError(w, http.StatusConflict, "Part is referenced by service orders and cannot be deleted")
		return
	}

	if err := r.db.Delete(&partRecord).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete part")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Part deleted successfully"})
}

// adjustStock applies a manual ADD/SUBTRACT correction under a row lock so
// concurrent dispatches cannot push stock negative.
func (r *Router) adjustStock(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var body AdjustStockRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var partRecord models.Part
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&partRecord, "id = ?", vars["id"]).Error; err != nil {
			return err
		}

		newStock := partRecord.Stock
		switch body.Operation {
		case "ADD":
			newStock += body.Quantity
		case "SUBTRACT":
			newStock -= body.Quantity
		}
		if newStock < 0 {
			return errInsufficientStock
		}

		partRecord.Stock = newStock
		return tx.Save(&partRecord).Error
	})

	switch {
	case err == gorm.ErrRecordNotFound:
		respondError(w, http.StatusNotFound, "Part not found")
	case err == errInsufficientStock:
		respondError(w, http.StatusBadRequest, "Stock cannot go below zero")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to adjust stock")
	default:
		respondJSON(w, http.StatusOK, partRecord)
	}
}
