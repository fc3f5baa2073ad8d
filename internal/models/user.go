package models

import (
	"time"
)

// Role defines the staff roles that gate every mutating operation
type Role string

const (
	RoleAdmin    Role = "ADMIN"    // Full access, user management, analytics
	RoleAsesor   Role = "ASESOR"   // Front desk: reception, billing, dispatch
	RoleMecanico Role = "MECANICO" // Workshop: revision and part requests
)

// User represents a staff member.
// Standardized: Go (PascalCase) -> DB (snake_case) -> JSON (camelCase)
type User struct {
	ID        string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Name      string     `gorm:"not null" json:"name"`
	Role      Role       `gorm:"default:'MECANICO'" json:"role"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user holds one of the given roles
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
