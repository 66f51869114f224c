// Package catalog serves the product listing, with a Redis cache in front
// of the featured-products query. The cache is read-through: a miss falls
// back to the store and repopulates the key, and any write to the catalog
// drops it so the next read sees fresh data.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopcore/backend/internal/blob"
	"github.com/shopcore/backend/internal/metrics"
	"github.com/shopcore/backend/internal/model"
	"github.com/shopcore/backend/internal/store"
)

const (
	featuredKey = "featured_products"
	featuredTTL = 5 * time.Minute
)

var (
	// ErrNotFound is returned when the referenced product does not exist.
	ErrNotFound = errors.New("catalog: product not found")
	// ErrNoneFeatured is returned by Featured when no product is flagged.
	ErrNoneFeatured = errors.New("catalog: no featured products")
)

// CreateInput carries the fields for a new product. Image is the raw
// payload handed to the blob uploader, not the final URL.
type CreateInput struct {
	Name        string
	Description string
	Price       float64
	Image       string
	Category    string
	IsFeatured  bool
}

// Service is the catalog flow controller.
type Service struct {
	products store.ProductStore
	cache    redis.UniversalClient
	uploader blob.Uploader
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewService(products store.ProductStore, cache redis.UniversalClient, uploader blob.Uploader, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{products: products, cache: cache, uploader: uploader, metrics: m, log: log}
}

// All returns every product, uncached.
func (s *Service) All(ctx context.Context) ([]model.Product, error) {
	return s.products.All(ctx)
}

// Featured returns the featured products, serving from cache when the key
// is warm. A cache outage degrades to a direct store read rather than
// failing the request. An empty result is reported as ErrNoneFeatured and
// is never cached, so a product featured moments later shows up at once.
func (s *Service) Featured(ctx context.Context) ([]model.Product, error) {
	if cached, err := s.cache.Get(ctx, featuredKey).Result(); err == nil {
		var products []model.Product
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			s.metrics.IncCatalogCacheHit()
			return products, nil
		}
		s.log.Warn("dropping corrupt featured cache entry", "error", err)
		s.cache.Del(ctx, featuredKey)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn("featured cache read failed, falling back to store", "error", err)
	}
	s.metrics.IncCatalogCacheMiss()

	products, err := s.products.Featured(ctx)
	if err != nil {
		return nil, fmt.Errorf("load featured products: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrNoneFeatured
	}

	if payload, err := json.Marshal(products); err == nil {
		if err := s.cache.Set(ctx, featuredKey, payload, featuredTTL).Err(); err != nil {
			s.log.Warn("featured cache write failed", "error", err)
		}
	}
	return products, nil
}

// Create uploads the image, persists the product, and invalidates the
// featured cache.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Product, error) {
	url, err := s.uploader.Upload(ctx, in.Image)
	if err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}

	created, err := s.products.Insert(ctx, &model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       url,
		Category:    in.Category,
		IsFeatured:  in.IsFeatured,
	})
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	s.invalidateFeatured(ctx)
	s.log.Info("product created", "product_id", created.ID, "name", created.Name)
	return created, nil
}

// Delete removes a product and invalidates the featured cache.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}

	s.invalidateFeatured(ctx)
	s.log.Info("product deleted", "product_id", id)
	return nil
}

func (s *Service) invalidateFeatured(ctx context.Context) {
	if err := s.cache.Del(ctx, featuredKey).Err(); err != nil {
		// Stale entries age out with the TTL, so a failed invalidation is
		// logged rather than surfaced.
		s.log.Warn("featured cache invalidation failed", "error", err)
	}
}
