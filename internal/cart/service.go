// Package cart manages the per-user shopping cart. The cart lives on the
// user record as a list of product references with quantities; reads join
// it against the catalog so removed products silently drop out.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopcore/backend/internal/model"
	"github.com/shopcore/backend/internal/store"
)

// ErrNotInCart is returned when an operation targets a product the user
// has not added.
var ErrNotInCart = errors.New("cart: product not in cart")

// ErrUnknownProduct is returned when the referenced product does not
// exist in the catalog.
var ErrUnknownProduct = errors.New("cart: unknown product")

// Item is a catalog entry joined with its cart quantity.
type Item struct {
	model.Product
	Quantity int `json:"quantity"`
}

// Service is the cart flow controller.
type Service struct {
	users    store.UserStore
	products store.ProductStore
	log      *slog.Logger
}

func NewService(users store.UserStore, products store.ProductStore, log *slog.Logger) *Service {
	return &Service{users: users, products: products, log: log}
}

// Items resolves the user's cart against the catalog. Entries whose
// product has been deleted are skipped rather than surfaced as errors.
func (s *Service) Items(ctx context.Context, user *model.User) ([]Item, error) {
	if len(user.CartItems) == 0 {
		return []Item{}, nil
	}

	ids := make([]string, 0, len(user.CartItems))
	for _, entry := range user.CartItems {
		ids = append(ids, entry.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]Item, 0, len(user.CartItems))
	for _, entry := range user.CartItems {
		p, ok := byID[entry.ProductID]
		if !ok {
			continue
		}
		items = append(items, Item{Product: p, Quantity: entry.Quantity})
	}
	return items, nil
}

// Add puts one unit of the product in the user's cart, incrementing the
// quantity when it is already there.
func (s *Service) Add(ctx context.Context, user *model.User, productID string) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownProduct
		}
		return fmt.Errorf("look up product: %w", err)
	}

	items := cloneItems(user.CartItems)
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, model.CartItem{ProductID: productID, Quantity: 1})
	}
	return s.save(ctx, user, items)
}

// Remove deletes the product from the cart entirely. An empty productID
// clears the whole cart. Removing something absent is a no-op.
func (s *Service) Remove(ctx context.Context, user *model.User, productID string) error {
	if productID == "" {
		return s.save(ctx, user, []model.CartItem{})
	}

	items := make([]model.CartItem, 0, len(user.CartItems))
	for _, entry := range user.CartItems {
		if entry.ProductID != productID {
			items = append(items, entry)
		}
	}
	return s.save(ctx, user, items)
}

// SetQuantity pins the quantity of a cart entry. Zero removes the entry.
func (s *Service) SetQuantity(ctx context.Context, user *model.User, productID string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("cart: negative quantity %d", quantity)
	}
	if quantity == 0 {
		for _, entry := range user.CartItems {
			if entry.ProductID == productID {
				return s.Remove(ctx, user, productID)
			}
		}
		return ErrNotInCart
	}

	items := cloneItems(user.CartItems)
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return s.save(ctx, user, items)
		}
	}
	return ErrNotInCart
}

func (s *Service) save(ctx context.Context, user *model.User, items []model.CartItem) error {
	if err := s.users.UpdateCart(ctx, user.ID, items); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	user.CartItems = items
	return nil
}

func cloneItems(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items))
	copy(out, items)
	return out
}
