// Package mongo implements the store interfaces on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shopcore/backend/internal/store"
)

const (
	usersCollection    = "users"
	productsCollection = "products"
)

// Client wraps the driver client with the database handle the stores share.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri, database string) (*Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Client{client: client, database: client.Database(database)}, nil
}

// EnsureIndexes creates the unique email index backing the duplicate-signup
// check.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	_, err := c.database.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Users returns the Mongo-backed store.UserStore.
func (c *Client) Users() *UserStore {
	return &UserStore{collection: c.database.Collection(usersCollection)}
}

// Products returns the Mongo-backed store.ProductStore.
func (c *Client) Products() *ProductStore {
	return &ProductStore{collection: c.database.Collection(productsCollection)}
}

func parseObjectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, store.ErrNotFound
	}
	return oid, nil
}

func mapFindError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return fmt.Errorf("mongo: %w", err)
}
