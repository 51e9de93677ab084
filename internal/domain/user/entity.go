package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system
type Role string

const (
	RoleStudent    Role = "student"
	RoleHotelOwner Role = "hotel_owner"
	RoleAdmin      Role = "admin"
)

// User represents an account (matches users table)
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// IsStudent returns true if user is a student
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsHotelOwner returns true if user owns a hotel
func (u *User) IsHotelOwner() bool {
	return u.Role == RoleHotelOwner
}

// IsAdmin returns true if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRoles returns list of valid roles for registration
func ValidRoles() []Role {
	return []Role{RoleStudent, RoleHotelOwner}
}

// IsValidRole checks if role is valid for registration
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if string(r) == role {
			return true
		}
	}
	return false
}
