package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "clinic-service/internal/domain/user"
)

// CookieName is the cookie carrying the session token.
const CookieName = "session"

// Registry issues, resolves and revokes session tokens on top of a Store.
type Registry struct {
	store    Store
	log      *zap.Logger
	newToken func() string
}

// NewRegistry creates a Registry backed by store.
func NewRegistry(store Store, log *zap.Logger) *Registry {
	return &Registry{
		store:    store,
		log:      log,
		newToken: func() string { return uuid.New().String() },
	}
}

// Create stores identity under a fresh random token and returns the token.
func (r *Registry) Create(ctx context.Context, identity *domain.Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity cannot be nil")
	}

	token := r.newToken()
	if err := r.store.Put(ctx, token, identity); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	r.log.Info("session created", zap.Int64("user_id", identity.ID), zap.String("role", string(identity.Role)))
	return token, nil
}

// Resolve returns the identity bound to token, or nil when the caller is anonymous.
func (r *Registry) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, nil
	}
	return r.store.Get(ctx, token)
}

// Destroy removes the association for token.
func (r *Registry) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := r.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
