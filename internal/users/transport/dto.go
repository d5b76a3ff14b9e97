package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateUserRequest is the admin-only request body for provisioning a user.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,oneof=Admin Sales"`
}

// UpdateUserStatusRequest toggles whether an account may act.
type UpdateUserStatusRequest struct {
	IsActive bool `json:"isActive"`
}

// UserResponse is the API representation of a user. The password hash never
// leaves the repository layer.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
