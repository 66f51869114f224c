// Package memory provides in-memory store implementations used by tests and
// local development. All types are safe for concurrent use.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/model"
	"github.com/shopcore/backend/internal/store"
)

// UserStore is an in-memory store.UserStore.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]*model.User
	byEmail map[string]string
}

// NewUserStore returns an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]string),
	}
}

// FindByEmail implements store.UserStore.
func (s *UserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[store.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneUser(s.byID[id]), nil
}

// FindByID implements store.UserStore.
func (s *UserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneUser(user), nil
}

// Create implements store.UserStore.
func (s *UserStore) Create(_ context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := store.NormalizeEmail(user.Email)
	if _, exists := s.byEmail[email]; exists {
		return nil, store.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	created := cloneUser(user)
	created.ID = uuid.NewString()
	created.Email = email
	created.CreatedAt = now
	created.UpdatedAt = now

	s.byID[created.ID] = created
	s.byEmail[email] = created.ID

	return cloneUser(created), nil
}

// UpdateCart implements store.UserStore.
func (s *UserStore) UpdateCart(_ context.Context, userID string, items []model.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.CartItems = append([]model.CartItem(nil), items...)
	user.UpdatedAt = time.Now().UTC()
	return nil
}

// SetRole changes a user's role in place. Role promotion has no API
// surface, so only the in-memory store offers it, for tests and local
// seeding.
func (s *UserStore) SetRole(_ context.Context, userID string, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.CartItems = append([]model.CartItem(nil), u.CartItems...)
	return &clone
}

// ProductStore is an in-memory store.ProductStore.
type ProductStore struct {
	mu   sync.RWMutex
	byID map[string]*model.Product
}

// NewProductStore returns an empty ProductStore.
func NewProductStore() *ProductStore {
	return &ProductStore{byID: make(map[string]*model.Product)}
}

// All implements store.ProductStore.
func (s *ProductStore) All(_ context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]model.Product, 0, len(s.byID))
	for _, p := range s.byID {
		products = append(products, *p)
	}
	return products, nil
}

// Featured implements store.ProductStore.
func (s *ProductStore) Featured(_ context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var products []model.Product
	for _, p := range s.byID {
		if p.IsFeatured {
			products = append(products, *p)
		}
	}
	return products, nil
}

// FindByID implements store.ProductStore.
func (s *ProductStore) FindByID(_ context.Context, id string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

// FindByIDs implements store.ProductStore. Unknown IDs are skipped.
func (s *ProductStore) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.byID[id]; ok {
			products = append(products, *p)
		}
	}
	return products, nil
}

// Insert implements store.ProductStore.
func (s *ProductStore) Insert(_ context.Context, product *model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	created := *product
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now

	s.byID[created.ID] = &created
	clone := created
	return &clone, nil
}

// Delete implements store.ProductStore.
func (s *ProductStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}
