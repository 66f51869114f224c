package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/shopcore/backend/internal/blob"
	"github.com/shopcore/backend/internal/model"
	"github.com/shopcore/backend/internal/store/memory"
)

func newCatalogTest(t *testing.T) (*Service, *memory.ProductStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	products := memory.NewProductStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(products, rdb, blob.NewPassthroughUploader(), nil, log), products, mr
}

func seedProduct(t *testing.T, svc *Service, name string, featured bool) string {
	t.Helper()
	created, err := svc.Create(context.Background(), CreateInput{
		Name:     name,
		Price:    9.99,
		Image:    "https://cdn.example.com/" + name + ".jpg",
		Category: "misc",

		IsFeatured: featured,
	})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return created.ID
}

func TestFeaturedCachesResult(t *testing.T) {
	svc, products, mr := newCatalogTest(t)
	ctx := context.Background()

	seedProduct(t, svc, "lamp", true)
	seedProduct(t, svc, "mug", false)

	first, err := svc.Featured(ctx)
	if err != nil {
		t.Fatalf("featured (miss): %v", err)
	}
	if len(first) != 1 || first[0].Name != "lamp" {
		t.Fatalf("featured = %+v, want just the lamp", first)
	}
	if !mr.Exists("featured_products") {
		t.Fatal("featured key not written after miss")
	}

	// Mutate the store behind the cache; a warm read must not see it.
	if _, err := products.Insert(ctx, &model.Product{Name: "poster", Price: 4.5, Image: "x", IsFeatured: true}); err != nil {
		t.Fatalf("direct insert: %v", err)
	}
	second, err := svc.Featured(ctx)
	if err != nil {
		t.Fatalf("featured (hit): %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("warm read returned %d products, want cached 1", len(second))
	}

	mr.FastForward(6 * time.Minute)
	third, err := svc.Featured(ctx)
	if err != nil {
		t.Fatalf("featured (after ttl): %v", err)
	}
	if len(third) != 2 {
		t.Fatalf("post-expiry read returned %d products, want 2", len(third))
	}
}

func TestFeaturedEmptyIsNotCached(t *testing.T) {
	svc, _, mr := newCatalogTest(t)
	ctx := context.Background()

	if _, err := svc.Featured(ctx); !errors.Is(err, ErrNoneFeatured) {
		t.Fatalf("featured on empty catalog: got %v, want ErrNoneFeatured", err)
	}
	if mr.Exists("featured_products") {
		t.Fatal("empty result must not be cached")
	}

	seedProduct(t, svc, "lamp", true)
	if _, err := svc.Featured(ctx); err != nil {
		t.Fatalf("featured after seeding: %v", err)
	}
}

func TestCreateAndDeleteInvalidateFeaturedCache(t *testing.T) {
	svc, _, mr := newCatalogTest(t)
	ctx := context.Background()

	seedProduct(t, svc, "lamp", true)
	if _, err := svc.Featured(ctx); err != nil {
		t.Fatalf("warm the cache: %v", err)
	}

	id := seedProduct(t, svc, "rug", true)
	if mr.Exists("featured_products") {
		t.Fatal("create must drop the featured key")
	}

	if _, err := svc.Featured(ctx); err != nil {
		t.Fatalf("rewarm the cache: %v", err)
	}
	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("featured_products") {
		t.Fatal("delete must drop the featured key")
	}

	got, err := svc.Featured(ctx)
	if err != nil {
		t.Fatalf("featured after delete: %v", err)
	}
	if len(got) != 1 || got[0].Name != "lamp" {
		t.Fatalf("featured after delete = %+v", got)
	}
}

func TestDeleteUnknownProduct(t *testing.T) {
	svc, _, _ := newCatalogTest(t)

	if err := svc.Delete(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete unknown: got %v, want ErrNotFound", err)
	}
}

func TestFeaturedSurvivesCacheOutage(t *testing.T) {
	svc, _, mr := newCatalogTest(t)
	ctx := context.Background()

	seedProduct(t, svc, "lamp", true)
	mr.SetError("connection refused")
	defer mr.SetError("")

	got, err := svc.Featured(ctx)
	if err != nil {
		t.Fatalf("featured during outage: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("featured during outage = %+v", got)
	}
}

func TestCreateRejectsEmptyImage(t *testing.T) {
	svc, _, _ := newCatalogTest(t)

	_, err := svc.Create(context.Background(), CreateInput{Name: "ghost", Price: 1})
	if !errors.Is(err, blob.ErrEmptyImage) {
		t.Fatalf("create without image: got %v, want ErrEmptyImage", err)
	}
}
