package auth

import (
	"fmt"
)

// RegisterRequest represents the request payload for registering a user
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=255"`
	LegalName string `json:"legal_name" validate:"required,min=1,max=255"`
	Phone     string `json:"phone" validate:"required,phone"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

func (r RegisterRequest) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if r.LegalName == "" {
		return fmt.Errorf("legal_name is required")
	}
	if r.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// LoginRequest represents the request payload for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
