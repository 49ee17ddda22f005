package config

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/samirwankhede/hotel-insights/internal/store/users"
)

// AdminStore is the part of the admin user repository needed for bootstrapping.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	Create(ctx context.Context, user *users.User) (*users.User, error)
}

// CreateDefaultAdmin inserts the configured admin account unless it already
// exists. It reports whether a user was created.
func CreateDefaultAdmin(ctx context.Context, cfg *Config, store AdminStore) (bool, error) {
	existing, err := store.GetByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		return false, fmt.Errorf("failed to check existing admin: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = store.Create(ctx, &users.User{
		Name:         "Hotel Administrator",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hashedPassword),
		Role:         users.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	return true, nil
}
