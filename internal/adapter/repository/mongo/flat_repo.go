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

// FlatRepository implements usecase.FlatRepository.
type FlatRepository struct {
	provider CollectionProvider
}

// NewFlatRepository creates a new FlatRepository.
func NewFlatRepository(provider CollectionProvider) *FlatRepository {
	return &FlatRepository{provider: provider}
}

// Get returns one flat.
func (r *FlatRepository) Get(ctx context.Context, key domain.FlatKey) (*domain.Flat, error) {
	res := r.provider.Collection(FlatsCollection).FindOne(ctx, bson.M{"_id": key.ID()})
	if err := res.Err(); err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFlatNotFound, key.ID())
		}
		return nil, mapError(err)
	}

	var doc flatDoc
	if err := res.Decode(&doc); err != nil {
		return nil, malformed(FlatsCollection, err)
	}
	return doc.toDomain()
}

// ListByWing returns the flats of a wing in layout order.
func (r *FlatRepository) ListByWing(ctx context.Context, society, wing string) ([]*domain.Flat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.provider.Collection(FlatsCollection).Find(ctx, bson.M{"society": society, "wing": wing}, opts)
	if err != nil {
		return nil, mapError(err)
	}
	defer cursor.Close(ctx)

	flats := make([]*domain.Flat, 0)
	for cursor.Next(ctx) {
		var doc flatDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, malformed(FlatsCollection, err)
		}
		flat, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		flats = append(flats, flat)
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError(err)
	}

	return flats, nil
}

// CreateMany inserts freshly laid out flats. Laying out a flat that already exists
// fails with ErrLayoutCollision and leaves the wing as it was.
func (r *FlatRepository) CreateMany(ctx context.Context, flats []*domain.Flat) error {
	if len(flats) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(flats))
	ids := make([]string, 0, len(flats))
	for i, f := range flats {
		doc, err := newFlatDoc(f, i)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		ids = append(ids, doc.ID)
	}

	coll := r.provider.Collection(FlatsCollection)
	collision := fmt.Errorf("%w: wing %s already has flats", domain.ErrLayoutCollision, flats[0].Key.Wing)

	err := coll.FindOne(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return collision
	}
	if !isNoDocuments(err) {
		return mapError(err)
	}

	_, err = coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if !mongo.IsDuplicateKeyError(err) {
		return mapError(err)
	}

	// Lost a race with another layout. Ordered inserts stop at the first failure, so
	// everything before it is ours to remove.
	if inserted := failedIndex(err); inserted > 0 {
		if _, delErr := coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids[:inserted]}}); delErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", collision, mapError(delErr))
		}
	}
	return collision
}

// failedIndex returns the position of the first rejected document of a bulk insert,
// or 0 when the error does not say.
func failedIndex(err error) int {
	var bulk mongo.BulkWriteException
	if errors.As(err, &bulk) && len(bulk.WriteErrors) > 0 {
		return bulk.WriteErrors[0].Index
	}
	return 0
}

// UpdateFields sets only the named fields, guarded by the flat's version.
func (r *FlatRepository) UpdateFields(ctx context.Context, flat *domain.Flat, fields []domain.FlatField) error {
	if len(fields) == 0 {
		return nil
	}

	set := bson.M{"updated_at": flat.UpdatedAt}
	for _, field := range fields {
		value, err := fieldValue(flat, field)
		if err != nil {
			return err
		}
		set[string(field)] = value
	}

	filter := bson.M{"_id": flat.Key.ID(), "version": flat.Version}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}

	coll := r.provider.Collection(FlatsCollection)
	res, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return mapError(err)
	}

	if res.MatchedCount == 0 {
		// Either the flat is gone or someone else bumped the version.
		err := coll.FindOne(ctx, bson.M{"_id": flat.Key.ID()}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
		if isNoDocuments(err) {
			return fmt.Errorf("%w: %s", domain.ErrFlatNotFound, flat.Key.ID())
		}
		if err != nil {
			return mapError(err)
		}
		return domain.ErrVersionConflict
	}

	flat.Version++
	return nil
}
