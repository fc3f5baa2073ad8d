package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pesanort/tallergo/internal/config"
	"github.com/pesanort/tallergo/internal/database"
	"github.com/pesanort/tallergo/internal/middleware"
	"github.com/pesanort/tallergo/internal/models"
	"github.com/pesanort/tallergo/internal/notify"
	"github.com/pesanort/tallergo/internal/websocket"
	"gorm.io/gorm"
)

// Role sets used across routes
var (
	adminOnly = []models.Role{models.RoleAdmin}
	frontDesk = []models.Role{models.RoleAdmin, models.RoleAsesor}
	workshop  = []models.Role{models.RoleAdmin, models.RoleAsesor, models.RoleMecanico}
)

// Router wraps the mux router with everything the handlers need
type Router struct {
	*mux.Router
	db       *database.DB
	cfg      *config.Config
	mail     *notify.Service
	hub      *websocket.Hub
	validate *validator.Validate
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, mail *notify.Service, hub *websocket.Hub) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		db:       db,
		cfg:      cfg,
		mail:     mail,
		hub:      hub,
		validate: validator.New(),
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")

	// Public appointment intake (no authentication)
	r.HandleFunc("/api/appointments", r.requestAppointment).Methods("POST")
	r.HandleFunc("/api/appointments/confirm/{token}", r.confirmAppointment).Methods("POST")

	// Protected API routes: identity is resolved once here and injected into
	// the request context; per-route role gates do the rest.
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(db.DB, cfg.JWTSecret))

	// Appointments (staff side)
	api.Handle("/appointments", r.gate(r.listAppointments, frontDesk)).Methods("GET")
	api.Handle("/appointments/{id}/cancel", r.gate(r.cancelAppointment, frontDesk)).Methods("POST")

	// Customers
	api.Handle("/customers", r.gate(r.listCustomers, frontDesk)).Methods("GET")
	api.Handle("/customers", r.gate(r.createCustomer, frontDesk)).Methods("POST")
	api.Handle("/customers/{id}", r.gate(r.getCustomer, frontDesk)).Methods("GET")
	api.Handle("/customers/{id}", r.gate(r.updateCustomer, frontDesk)).Methods("PATCH")
	api.Handle("/customers/{id}", r.gate(r.deleteCustomer, adminOnly)).Methods("DELETE")

	// Vehicles
	api.Handle("/vehicles", r.gate(r.listVehicles, frontDesk)).Methods("GET")
	api.Handle("/vehicles", r.gate(r.createVehicle, frontDesk)).Methods("POST")

	// Service orders
	api.Handle("/service-orders", r.gate(r.listOrders, workshop)).Methods("GET")
	api.Handle("/service-orders", r.gate(r.createOrder, frontDesk)).Methods("POST")
	api.Handle("/service-orders/{id}", r.gate(r.getOrder, workshop)).Methods("GET")
	api.Handle("/service-orders/{id}", r.gate(r.updateOrder, workshop)).Methods("PATCH")
	api.Handle("/service-orders/{id}/change-status", r.gate(r.changeOrderStatus, frontDesk)).Methods("POST")
	api.Handle("/service-orders/{id}/add-parts", r.gate(r.addPartRequests, workshop)).Methods("POST")
	api.Handle("/service-orders/{id}/dispatch-parts", r.gate(r.dispatchParts, frontDesk)).Methods("POST")

	// Parts inventory
	api.Handle("/parts", r.gate(r.listParts, workshop)).Methods("GET")
	api.Handle("/parts", r.gate(r.createPart, frontDesk)).Methods("POST")
	api.Handle("/parts/{id}", r.gate(r.getPart, workshop)).Methods("GET")
	api.Handle("/parts/{id}", r.gate(r.updatePart, frontDesk)).Methods("PATCH")
	api.Handle("/parts/{id}", r.gate(r.deletePart, adminOnly)).Methods("DELETE")
	api.Handle("/parts/{id}/adjust-stock", r.gate(r.adjustStock, frontDesk)).Methods("POST")

	// Invoices and payments
	api.Handle("/invoices", r.gate(r.listInvoices, frontDesk)).Methods("GET")
	api.Handle("/invoices", r.gate(r.createInvoice, frontDesk)).Methods("POST")
	api.Handle("/invoices/{id}", r.gate(r.getInvoice, frontDesk)).Methods("GET")
	api.Handle("/invoices/{id}/pdf", r.gate(r.invoicePDF, frontDesk)).Methods("GET")
	api.Handle("/payments", r.gate(r.listPayments, frontDesk)).Methods("GET")
	api.Handle("/payments", r.gate(r.recordPayment, frontDesk)).Methods("POST")

	// Users (admin)
	api.Handle("/users", r.gate(r.listUsers, adminOnly)).Methods("GET")
	api.Handle("/users", r.gate(r.createUser, adminOnly)).Methods("POST")
	api.Handle("/users/{id}", r.gate(r.updateUser, adminOnly)).Methods("PATCH")
	api.Handle("/users/{id}", r.gate(r.deactivateUser, adminOnly)).Methods("DELETE")

	// Analytics
	api.Handle("/analytics/revenue", r.gate(r.analyticsRevenue, adminOnly)).Methods("GET")
	api.Handle("/analytics/orders-status", r.gate(r.analyticsOrdersStatus, adminOnly)).Methods("GET")
	api.Handle("/analytics/top-parts", r.gate(r.analyticsTopParts, adminOnly)).Methods("GET")
	api.Handle("/analytics/top-customers", r.gate(r.analyticsTopCustomers, adminOnly)).Methods("GET")
	api.Handle("/analytics/appointments-conversion", r.gate(r.analyticsAppointmentsConversion, adminOnly)).Methods("GET")
	api.Handle("/analytics/payments-analysis", r.gate(r.analyticsPaymentsAnalysis, adminOnly)).Methods("GET")
	api.Handle("/analytics/mechanic-orders", r.gate(r.analyticsMechanicOrders, workshop)).Methods("GET")

	// Dashboard event feed
	api.Handle("/ws", r.gate(r.serveWs, workshop)).Methods("GET")

	return r
}

// gate wires a handler behind a role check
func (r *Router) gate(h http.HandlerFunc, roles []models.Role) http.Handler {
	return middleware.RequireRole(roles...)(h)
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// serveWs upgrades the request into the dashboard event feed
func (r *Router) serveWs(w http.ResponseWriter, req *http.Request) {
	websocket.ServeWs(r.hub, w, req)
}

// decode parses the JSON body into dst and runs struct validation
func (r *Router) decode(req *http.Request, dst interface{}) error {
	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request payload")
	}
	if err := r.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

// retryOnDuplicate runs fn until it stops failing with a unique-key
// violation, for at most attempts tries. Generated numbers collide rarely,
// so the insert itself is the uniqueness check.
func retryOnDuplicate(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondErrorDetails sends an error response with per-line details
func respondErrorDetails(w http.ResponseWriter, status int, message string, details []string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   message,
		"details": details,
	})
}
