// Package store defines the persistence interfaces consumed by the auth,
// catalog, and cart services. Implementations live in subpackages: mongo for
// production, memory for tests and local development.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/shopcore/backend/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned by UserStore.Create when the normalized
	// email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore persists user accounts. Emails are case-normalized on both write
// and lookup; callers should pass them through NormalizeEmail first.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, user *model.User) (*model.User, error)
	UpdateCart(ctx context.Context, userID string, items []model.CartItem) error
}

// ProductStore persists catalog entries.
type ProductStore interface {
	All(ctx context.Context) ([]model.Product, error)
	Featured(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	Insert(ctx context.Context, product *model.Product) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

// NormalizeEmail lowercases and trims an email address so that lookups and
// uniqueness checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
