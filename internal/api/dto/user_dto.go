package dto

import (
	"time"

	"github.com/spec-kit/inspection-service/internal/domain"
)

// CreateUserRequest payload. The password is write-only.
type CreateUserRequest struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Role        domain.UserRole `json:"role"`
	Department  *string         `json:"department"`
	Expertise   []string        `json:"expertise"`
	PhoneNumber *string         `json:"phoneNumber"`
	Avatar      *string         `json:"avatar"`
	Password    string          `json:"password"`
}

// UpdateUserRequest payload; only supplied fields are overwritten. A password
// field in the body is dropped — it cannot be changed through this path.
type UpdateUserRequest struct {
	Name        *string          `json:"name"`
	Email       *string          `json:"email"`
	Role        *domain.UserRole `json:"role"`
	Department  *string          `json:"department"`
	Expertise   *[]string        `json:"expertise"`
	PhoneNumber *string          `json:"phoneNumber"`
	Avatar      *string          `json:"avatar"`
	IsActive    *bool            `json:"isActive"`
}

// UpdateUserStatusRequest payload.
type UpdateUserStatusRequest struct {
	IsActive bool `json:"isActive"`
}

// UserResponse is the account document with the password redacted.
type UserResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Role        domain.UserRole `json:"role"`
	Department  *string         `json:"department"`
	Expertise   []string        `json:"expertise"`
	PhoneNumber *string         `json:"phoneNumber"`
	Avatar      *string         `json:"avatar"`
	IsActive    bool            `json:"isActive"`
	LastActive  *time.Time      `json:"lastActive"`
	CreatedAt   time.Time       `json:"createdAt"`
}
