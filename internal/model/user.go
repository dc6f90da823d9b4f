package model

import "time"

// Role is the access role attached to a user profile at signup.
// It is immutable in normal flow; there is no API to change one's own role.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleReceptionist Role = "receptionist"
	RolePatient      Role = "patient"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleReceptionist, RolePatient:
		return true
	}
	return false
}

// UserProfile is the profile document stored in the users collection,
// keyed by the auth subject's UID.
type UserProfile struct {
	UID          string    `json:"uid"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	ProfileImage string    `json:"profileImage,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=admin doctor receptionist patient"`
}

type UpdateUserRequest struct {
	Name         *string `json:"name"`
	ProfileImage *string `json:"profileImage"`
}
