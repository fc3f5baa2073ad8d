package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pesanort/tallergo/internal/models"
)

// CustomerRequest is the front-desk customer form
type CustomerRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,min=6"`
	Address string `json:"address"`
}

// UpdateCustomerRequest patches individual customer fields
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,min=6"`
	Address *string `json:"address,omitempty"`
}

// listCustomers returns customers, optionally filtered by a search term
func (r *Router) listCustomers(w http.ResponseWriter, req *http.Request) {
	query := r.db.Order("created_at DESC")
	if q := req.URL.Query().Get("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch customers")
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

// createCustomer registers a customer manually
func (r *Router) createCustomer(w http.ResponseWriter, req *http.Request) {
	var body CustomerRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	customer := models.Customer{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Address: body.Address,
	}
	if err := r.db.Create(&customer).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	respondJSON(w, http.StatusCreated, customer)
}

// getCustomer returns one customer with vehicles and service orders
func (r *Router) getCustomer(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var customer models.Customer
	err := r.db.
		Preload("Vehicles").
		Preload("ServiceOrders").
		Preload("ServiceOrders.Vehicle").
		First(&customer, "id = ?", vars["id"]).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "Customer not found")
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

// updateCustomer patches a customer
func (r *Router) updateCustomer(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var customer models.Customer
	if err := r.db.First(&customer, "id = ?", vars["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "Customer not found")
		return
	}

	var body UpdateCustomerRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if body.Name != nil {
		customer.Name = *body.Name
	}
	if body.Email != nil {
		customer.Email = *body.Email
	}
	if body.Phone != nil {
		customer.Phone = *body.Phone
	}
	if body.Address != nil {
		customer.Address = *body.Address
	}

	if err := r.db.Save(&customer).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

// deleteCustomer removes a customer that owns no service orders
func (r *Router) deleteCustomer(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var customer models.Customer
	if err := r.db.First(&customer, "id = ?", vars["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "Customer not found")
		return
	}

	var orders int64
	if err := r.db.Model(&models.ServiceOrder{}).Where("customer_id = ?", customer.ID).Count(&orders).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	if orders > 0 {
		respondError(w, http.StatusConflict, "Customer has service orders and cannot be deleted")
		return
	}

	if err := r.db.Where("customer_id = ?", customer.ID).Delete(&models.Vehicle{}).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	if err := r.db.Delete(&customer).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Customer deleted successfully",
	})
}
