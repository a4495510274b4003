package user

import domain "clinic-service/internal/domain/user"

// SignupRequest represents the signup form.
type SignupRequest struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"role" validate:"required,oneof=patient doctor"`
}

// SignupResponse represents the result of a successful signup.
type SignupResponse struct {
	ID int64
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// LoginResponse carries the issued session token and the identity it resolves to.
type LoginResponse struct {
	Token    string
	Identity *domain.Identity
}
