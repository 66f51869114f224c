package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/shopcore/backend/internal/model"
	"github.com/shopcore/backend/internal/store"
)

type productDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Name        string        `bson:"name"`
	Description string        `bson:"description"`
	Price       float64       `bson:"price"`
	Image       string        `bson:"image"`
	Category    string        `bson:"category"`
	IsFeatured  bool          `bson:"isFeatured"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

func (d *productDoc) toModel() model.Product {
	return model.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Image:       d.Image,
		Category:    d.Category,
		IsFeatured:  d.IsFeatured,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ProductStore implements store.ProductStore on the products collection.
type ProductStore struct {
	collection *mongo.Collection
}

// All implements store.ProductStore.
func (s *ProductStore) All(ctx context.Context) ([]model.Product, error) {
	return s.find(ctx, bson.M{})
}

// Featured implements store.ProductStore.
func (s *ProductStore) Featured(ctx context.Context) ([]model.Product, error) {
	return s.find(ctx, bson.M{"isFeatured": true})
}

// FindByID implements store.ProductStore.
func (s *ProductStore) FindByID(ctx context.Context, id string) (*model.Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc productDoc
	if err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapFindError(err)
	}
	product := doc.toModel()
	return &product, nil
}

// FindByIDs implements store.ProductStore. Unknown IDs are skipped.
func (s *ProductStore) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	oids := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := parseObjectID(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return []model.Product{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

// Insert implements store.ProductStore.
func (s *ProductStore) Insert(ctx context.Context, product *model.Product) (*model.Product, error) {
	now := time.Now().UTC()
	doc := productDoc{
		ID:          bson.NewObjectID(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Image:       product.Image,
		Category:    product.Category,
		IsFeatured:  product.IsFeatured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("mongo insert product: %w", err)
	}

	created := doc.toModel()
	return &created, nil
}

// Delete implements store.ProductStore.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ProductStore) find(ctx context.Context, filter bson.M) ([]model.Product, error) {
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongo find products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode products: %w", err)
	}

	products := make([]model.Product, 0, len(docs))
	for i := range docs {
		products = append(products, docs[i].toModel())
	}
	return products, nil
}
