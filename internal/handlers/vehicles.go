package handlers

import (
	"net/http"

	"github.com/pesanort/tallergo/internal/models"
)

// VehicleRequest registers a vehicle for a customer
type VehicleRequest struct {
	CustomerID string `json:"customerId" validate:"required"`
	Brand      string `json:"brand" validate:"required,min=2"`
	Model      string `json:"model" validate:"required"`
	Plate      string `json:"plate" validate:"required,min=5"`
}

// listVehicles returns vehicles, optionally for one customer
func (r *Router) listVehicles(w http.ResponseWriter, req *http.Request) {
	query := r.db.Preload("Customer").Order("created_at DESC")
	if customerID := req.URL.Query().Get("customerId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var vehicles []models.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch vehicles")
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

// createVehicle registers a vehicle; the plate must be globally unique
func (r *Router) createVehicle(w http.ResponseWriter, req *http.Request) {
	var body VehicleRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var customer models.Customer
	if err := r.db.First(&customer, "id = ?", body.CustomerID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Customer not found")
		return
	}

	plate := models.NormalizePlate(body.Plate)
	var count int64
	if err := r.db.Model(&models.Vehicle{}).Where("plate = ?", plate).Count(&count).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}
	if count > 0 {
		respondError(w, http.StatusConflict, "A vehicle with this plate already exists")
		return
	}

	vehicle := models.Vehicle{
		CustomerID: body.CustomerID,
		Brand:      body.Brand,
		Model:      body.Model,
		Plate:      plate,
	}
	if err := r.db.Create(&vehicle).Error; err != nil {
		respondError(w, http.StatusConflict, "Failed to create vehicle (plate might exist)")
		return
	}

	respondJSON(w, http.StatusCreated, vehicle)
}
