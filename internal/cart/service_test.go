package cart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopcore/backend/internal/model"
	"github.com/shopcore/backend/internal/store/memory"
)

func newCartTest(t *testing.T) (*Service, *model.User, []string) {
	t.Helper()

	ctx := context.Background()
	users := memory.NewUserStore()
	products := memory.NewProductStore()

	user, err := users.Create(ctx, &model.User{
		Name:         "Ada",
		Email:        "ada@x.com",
		PasswordHash: "irrelevant",
		Role:         model.RoleUser,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	var ids []string
	for _, name := range []string{"lamp", "mug", "rug"} {
		p, err := products.Insert(ctx, &model.Product{Name: name, Price: 5, Image: "x"})
		if err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
		ids = append(ids, p.ID)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(users, products, log), user, ids
}

func TestAddIncrementsExistingEntry(t *testing.T) {
	svc, user, ids := newCartTest(t)
	ctx := context.Background()

	if err := svc.Add(ctx, user, ids[0]); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := svc.Add(ctx, user, ids[0]); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if err := svc.Add(ctx, user, ids[1]); err != nil {
		t.Fatalf("add other: %v", err)
	}

	items, err := svc.Items(ctx, user)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("cart has %d entries, want 2", len(items))
	}
	if items[0].Product.ID != ids[0] || items[0].Quantity != 2 {
		t.Fatalf("first entry = %s x%d, want %s x2", items[0].Product.ID, items[0].Quantity, ids[0])
	}
	if items[1].Quantity != 1 {
		t.Fatalf("second entry quantity = %d, want 1", items[1].Quantity)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	svc, user, _ := newCartTest(t)

	if err := svc.Add(context.Background(), user, "no-such-product"); !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("add unknown: got %v, want ErrUnknownProduct", err)
	}
}

func TestRemoveSingleAndAll(t *testing.T) {
	svc, user, ids := newCartTest(t)
	ctx := context.Background()

	for _, id := range ids {
		if err := svc.Add(ctx, user, id); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}

	if err := svc.Remove(ctx, user, ids[1]); err != nil {
		t.Fatalf("remove one: %v", err)
	}
	items, err := svc.Items(ctx, user)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("cart has %d entries after single remove, want 2", len(items))
	}

	// Absent product is a no-op, not an error.
	if err := svc.Remove(ctx, user, "no-such-product"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}

	if err := svc.Remove(ctx, user, ""); err != nil {
		t.Fatalf("clear cart: %v", err)
	}
	items, err = svc.Items(ctx, user)
	if err != nil {
		t.Fatalf("items after clear: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("cart has %d entries after clear, want 0", len(items))
	}
}

func TestSetQuantity(t *testing.T) {
	svc, user, ids := newCartTest(t)
	ctx := context.Background()

	if err := svc.Add(ctx, user, ids[0]); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.SetQuantity(ctx, user, ids[0], 5); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	items, _ := svc.Items(ctx, user)
	if len(items) != 1 || items[0].Quantity != 5 {
		t.Fatalf("items = %+v, want one entry x5", items)
	}

	if err := svc.SetQuantity(ctx, user, ids[0], 0); err != nil {
		t.Fatalf("set quantity to zero: %v", err)
	}
	items, _ = svc.Items(ctx, user)
	if len(items) != 0 {
		t.Fatalf("zero quantity left %d entries", len(items))
	}

	if err := svc.SetQuantity(ctx, user, ids[1], 3); !errors.Is(err, ErrNotInCart) {
		t.Fatalf("set quantity on absent entry: got %v, want ErrNotInCart", err)
	}
	if err := svc.SetQuantity(ctx, user, ids[0], -1); err == nil {
		t.Fatal("negative quantity accepted")
	}
}

func TestItemsSkipDeletedProducts(t *testing.T) {
	svc, user, ids := newCartTest(t)
	ctx := context.Background()

	if err := svc.Add(ctx, user, ids[0]); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Add(ctx, user, ids[1]); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.products.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	items, err := svc.Items(ctx, user)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 1 || items[0].Product.ID != ids[1] {
		t.Fatalf("items = %+v, want only the surviving product", items)
	}
}
