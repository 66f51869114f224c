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

// userDoc is the collection-local document shape; the domain model stays
// free of driver types.
type userDoc struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Name         string        `bson:"name"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"passwordHash"`
	Role         string        `bson:"role"`
	CartItems    []cartItemDoc `bson:"cartItems"`
	CreatedAt    time.Time     `bson:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt"`
}

type cartItemDoc struct {
	ProductID bson.ObjectID `bson:"productId"`
	Quantity  int           `bson:"quantity"`
}

func (d *userDoc) toModel() *model.User {
	items := make([]model.CartItem, 0, len(d.CartItems))
	for _, item := range d.CartItems {
		items = append(items, model.CartItem{
			ProductID: item.ProductID.Hex(),
			Quantity:  item.Quantity,
		})
	}
	return &model.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         model.Role(d.Role),
		CartItems:    items,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// UserStore implements store.UserStore on the users collection.
type UserStore struct {
	collection *mongo.Collection
}

// FindByEmail implements store.UserStore.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var doc userDoc
	err := s.collection.FindOne(ctx, bson.M{"email": store.NormalizeEmail(email)}).Decode(&doc)
	if err != nil {
		return nil, mapFindError(err)
	}
	return doc.toModel(), nil
}

// FindByID implements store.UserStore.
func (s *UserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	if err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapFindError(err)
	}
	return doc.toModel(), nil
}

// Create implements store.UserStore. The unique email index surfaces
// concurrent duplicate signups as store.ErrDuplicateEmail.
func (s *UserStore) Create(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now().UTC()
	doc := userDoc{
		ID:           bson.NewObjectID(),
		Name:         user.Name,
		Email:        store.NormalizeEmail(user.Email),
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CartItems:    []cartItemDoc{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("mongo insert user: %w", err)
	}

	return doc.toModel(), nil
}

// UpdateCart implements store.UserStore.
func (s *UserStore) UpdateCart(ctx context.Context, userID string, items []model.CartItem) error {
	oid, err := parseObjectID(userID)
	if err != nil {
		return err
	}

	docs := make([]cartItemDoc, 0, len(items))
	for _, item := range items {
		pid, err := parseObjectID(item.ProductID)
		if err != nil {
			return err
		}
		docs = append(docs, cartItemDoc{ProductID: pid, Quantity: item.Quantity})
	}

	result, err := s.collection.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"cartItems": docs,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("mongo update cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
