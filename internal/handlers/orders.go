package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pesanort/tallergo/internal/middleware"
	"github.com/pesanort/tallergo/internal/models"
	"github.com/pesanort/tallergo/internal/notify"
	"github.com/pesanort/tallergo/internal/utils"
	"github.com/pesanort/tallergo/internal/websocket"
)

// PartRequestInput is one requested part line
type PartRequestInput struct {
	PartID   string `json:"partId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Reason   string `json:"reason"`
}

// CreateOrderRequest opens a service order at reception
type CreateOrderRequest struct {
	CustomerID   string             `json:"customerId" validate:"required"`
	VehicleID    string             `json:"vehicleId" validate:"required"`
	Diagnosis    string             `json:"diagnosis"`
	Cost         float64            `json:"cost" validate:"min=0"`
	PartRequests []PartRequestInput `json:"partRequests" validate:"omitempty,dive"`
}

// UpdateOrderRequest is the revision step: diagnosis and labor cost
type UpdateOrderRequest struct {
	Diagnosis *string  `json:"diagnosis,omitempty"`
	Cost      *float64 `json:"cost,omitempty" validate:"omitempty,min=0"`
}

// ChangeStatusRequest moves an order between statuses
type ChangeStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// AddPartsRequest appends part request lines to an existing order
type AddPartsRequest struct {
	PartRequests []PartRequestInput `json:"partRequests" validate:"required,min=1,dive"`
}

// listOrders returns service orders with optional status/customer filters
func (r *Router) listOrders(w http.ResponseWriter, req *http.Request) {
	query := r.db.
		Preload("Customer").
		Preload("Vehicle").
		Preload("User").
		Preload("PartRequests").
		Preload("PartRequests.Part").
		Order("created_at DESC")

	if status := req.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := req.URL.Query().Get("customerId"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var orders []models.ServiceOrder
	if err := query.Find(&orders).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// getOrder returns one order with every relation loaded
func (r *Router) getOrder(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var order models.ServiceOrder
	err := r.db.
		Preload("Customer").
		Preload("Vehicle").
		Preload("User").
		Preload("PartRequests").
		Preload("PartRequests.Part").
		Preload("Invoice").
		First(&order, "id = ?", vars["id"]).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// createOrder opens a service order with a fresh unique order number
func (r *Router) createOrder(w http.ResponseWriter, req *http.Request) {
	user := middleware.UserFrom(req.Context())

	var body CreateOrderRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var vehicle models.Vehicle
	if err := r.db.First(&vehicle, "id = ?", body.VehicleID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	if vehicle.CustomerID != body.CustomerID {
		respondError(w, http.StatusBadRequest, "Vehicle does not belong to this customer")
		return
	}

	order := models.ServiceOrder{
		CustomerID: body.CustomerID,
		VehicleID:  body.VehicleID,
		UserID:     user.ID,
		Diagnosis:  body.Diagnosis,
		Cost:       body.Cost,
		Status:     models.OrderInProgress,
	}
	for _, pr := range body.PartRequests {
		order.PartRequests = append(order.PartRequests, models.PartRequest{
			PartID:   pr.PartID,
			Quantity: pr.Quantity,
			Reason:   pr.Reason,
		})
	}

	// The order_number unique index arbitrates concurrent collisions
	err := retryOnDuplicate(5, func() error {
		order.OrderNumber = utils.GenerateOrderNumber()
		return r.db.Create(&order).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	r.db.
		Preload("Customer").
		Preload("Vehicle").
		Preload("User").
		Preload("PartRequests").
		Preload("PartRequests.Part").
		First(&order, "id = ?", order.ID)

	respondJSON(w, http.StatusCreated, order)
}

// updateOrder records the revision: diagnosis and labor cost
func (r *Router) updateOrder(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var order models.ServiceOrder
	if err := r.db.First(&order, "id = ?", vars["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	var body UpdateOrderRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if body.Diagnosis != nil {
		order.Diagnosis = *body.Diagnosis
	}
	if body.Cost != nil {
		order.Cost = *body.Cost
	}

	if err := r.db.Save(&order).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// changeOrderStatus moves the order between the three statuses. An order
// that already has an invoice is frozen in COMPLETADO.
func (r *Router) changeOrderStatus(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var body ChangeStatusRequest
	if err := r.decode(req, &body); err != nil || !models.ValidOrderStatus(body.Status) {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	var order models.ServiceOrder
	err := r.db.
		Preload("Customer").
		Preload("Vehicle").
		Preload("Invoice").
		First(&order, "id = ?", vars["id"]).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	if order.Invoice != nil {
		respondError(w, http.StatusConflict, "Order has been invoiced and its status is final")
		return
	}

	order.Status = body.Status
	if err := r.db.Save(&order).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to change status")
		return
	}

	// Customer notification, best effort
	if order.Customer != nil && order.Customer.Email != "" {
		subject, html := notify.ServiceOrderStatusEmail(&order)
		r.mail.Send(order.Customer.Email, subject, html)
	}

	r.hub.Broadcast(websocket.EventOrderStatus, map[string]string{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"status":      string(order.Status),
	})

	respondJSON(w, http.StatusOK, order)
}

// addPartRequests appends part lines to an existing order
func (r *Router) addPartRequests(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var body AddPartsRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var order models.ServiceOrder
	if err := r.db.First(&order, "id = ?", vars["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	created := make([]models.PartRequest, 0, len(body.PartRequests))
	for _, pr := range body.PartRequests {
		line := models.PartRequest{
			ServiceOrderID: order.ID,
			PartID:         pr.PartID,
			Quantity:       pr.Quantity,
			Reason:         pr.Reason,
		}
		if err := r.db.Create(&line).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to add part requests")
			return
		}
		r.db.Preload("Part").First(&line, "id = ?", line.ID)
		created = append(created, line)
	}

	respondJSON(w, http.StatusCreated, created)
}
