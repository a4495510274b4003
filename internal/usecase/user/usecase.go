package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "clinic-service/internal/domain/user"
	"clinic-service/internal/usecase"
	pkgerrors "clinic-service/pkg/errors"
	"clinic-service/pkg/security"
)

// Repository defines the user data access needed for accounts.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)          // Create a new user
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // nil, nil when absent
}

// SessionRegistry issues and revokes session tokens.
type SessionRegistry interface {
	Create(ctx context.Context, identity *domain.Identity) (string, error)
	Destroy(ctx context.Context, token string) error
}

// Service implements Usecase.
type Service struct {
	repo     Repository
	sessions SessionRegistry
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new account service.
func New(r Repository, sessions SessionRegistry, log *zap.Logger) *Service {
	return &Service{
		repo:     r,
		sessions: sessions,
		log:      log,
		validate: usecase.NewValidator(),
	}
}

// Signup registers a new user after checking that the email is not taken.
func (s *Service) Signup(ctx context.Context, in SignupRequest) (*SignupResponse, error) {
	s.log.Info("signing up user", zap.String("email", in.Email), zap.String("role", in.Role))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("signup validation failed", zap.Error(err))
		return nil, usecase.FormatValidationError(err)
	}

	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, fmt.Errorf("failed to validate email uniqueness: %w", err)
	}
	if existing != nil {
		s.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, pkgerrors.ErrEmailTaken
	}

	id, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: security.HashPassword(in.Password),
		Role:         domain.Role(in.Role),
	})
	if err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, pkgerrors.ErrEmailTaken) {
			return nil, err
		}
		s.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	return &SignupResponse{ID: id}, nil
}

// Login checks the credentials and opens a session for the user.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("login validation failed", zap.Error(err))
		return nil, usecase.FormatValidationError(err)
	}

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to load user for login", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	if u == nil || !security.CheckPassword(u.PasswordHash, in.Password) {
		s.log.Warn("invalid login attempt", zap.String("email", in.Email))
		return nil, pkgerrors.ErrInvalidLogin
	}

	identity := u.Identity()
	token, err := s.sessions.Create(ctx, identity)
	if err != nil {
		s.log.Error("failed to create session", zap.Int64("user_id", u.ID), zap.Error(err))
		return nil, err
	}

	s.log.Info("user logged in", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))
	return &LoginResponse{Token: token, Identity: identity}, nil
}

// Logout revokes the session token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		s.log.Error("failed to destroy session", zap.Error(err))
		return err
	}
	s.log.Info("user logged out")
	return nil
}
