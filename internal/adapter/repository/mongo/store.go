package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iho/societyledger/internal/domain"
)

// Collection names.
const (
	TransactionsCollection = domain.CollectionTransactions
	FlatsCollection        = domain.CollectionFlats
	BillsCollection        = domain.CollectionBills
)

// DataStore is the subset of *mongo.Collection the repositories use.
type DataStore interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// CollectionProvider hands out collections by name.
type CollectionProvider interface {
	Collection(name string) DataStore
}

// Provider adapts a *mongo.Database to CollectionProvider.
type Provider struct {
	db *mongo.Database
}

// NewProvider creates a new Provider.
func NewProvider(db *mongo.Database) *Provider {
	return &Provider{db: db}
}

// Collection returns a DataStore for the given collection name.
func (p *Provider) Collection(name string) DataStore {
	return p.db.Collection(name)
}

// EnsureIndexes creates the indexes the repositories query by.
func (p *Provider) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		TransactionsCollection: {
			{Keys: bson.D{{Key: "society", Value: 1}, {Key: "date", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		FlatsCollection: {
			{Keys: bson.D{{Key: "society", Value: 1}, {Key: "wing", Value: 1}, {Key: "position", Value: 1}}},
		},
		BillsCollection: {
			{Keys: bson.D{{Key: "society", Value: 1}, {Key: "start_date", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := p.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, mapError(err))
		}
	}
	return nil
}

// mapError translates driver errors into the domain taxonomy. Lookup misses are
// handled by the callers since each knows which not-found error applies.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrRemoteFailure, err)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func malformed(collection string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrMalformedRecord, collection, err)
}
