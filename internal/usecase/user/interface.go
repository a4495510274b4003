package user

import "context"

// Usecase defines account operations: signup, login and logout.
type Usecase interface {
	Signup(ctx context.Context, in SignupRequest) (*SignupResponse, error)
	Login(ctx context.Context, in LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
}
