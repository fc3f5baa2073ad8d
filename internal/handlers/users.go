package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pesanort/tallergo/internal/models"
	"github.com/pesanort/tallergo/internal/utils"
)

// CreateUserRequest is an admin-side account creation
type CreateUserRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Name     string      `json:"name" validate:"required,min=2"`
	Role     models.Role `json:"role" validate:"required,oneof=ADMIN ASESOR MECANICO"`
	Password string      `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest patches role, name or the soft-delete flag
type UpdateUserRequest struct {
	Name     *string      `json:"name,omitempty" validate:"omitempty,min=2"`
	Role     *models.Role `json:"role,omitempty" validate:"omitempty,oneof=ADMIN ASESOR MECANICO"`
	IsActive *bool        `json:"isActive,omitempty"`
}

// listUsers returns all staff accounts
func (r *Router) listUsers(w http.ResponseWriter, req *http.Request) {
	var users []models.User
	if err := r.db.Order("created_at DESC").Find(&users).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// createUser creates a staff account with an assigned role
func (r *Router) createUser(w http.ResponseWriter, req *http.Request) {
	var body CreateUserRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	hashed, err := utils.HashPassword(body.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Email:    body.Email,
		Name:     body.Name,
		Role:     body.Role,
		Password: hashed,
		IsActive: true,
	}
	if err := r.db.Create(&user).Error; err != nil {
		respondError(w, http.StatusConflict, "Failed to create user (email might exist)")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// updateUser patches a staff account
func (r *Router) updateUser(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var user models.User
	if err := r.db.First(&user, "id = ?", vars["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	var body UpdateUserRequest
	if err := r.decode(req, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if body.Name != nil {
		user.Name = *body.Name
	}
	if body.Role != nil {
		user.Role = *body.Role
	}
	if body.IsActive != nil {
		user.IsActive = *body.IsActive
	}

	if err := r.db.Save(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// deactivateUser soft-deletes an account (isActive=false)
func (r *Router) deactivateUser(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var user models.User
	if err := r.db.First(&user, "id = ?", vars["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	user.IsActive = false
	if err := r.db.Save(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to deactivate user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "User deactivated successfully",
	})
}
