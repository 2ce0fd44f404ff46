package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeDataStore is a DataStore driven by per-method functions.
type fakeDataStore struct {
	findFunc       func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	findOneFunc    func(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	insertOneFunc  func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	insertManyFunc func(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	updateOneFunc  func(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	deleteManyFunc func(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

func (f *fakeDataStore) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	if f.findFunc != nil {
		return f.findFunc(ctx, filter, opts...)
	}
	return mongo.NewCursorFromDocuments(nil, nil, nil)
}

func (f *fakeDataStore) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	if f.findOneFunc != nil {
		return f.findOneFunc(ctx, filter, opts...)
	}
	return notFound()
}

func (f *fakeDataStore) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if f.insertOneFunc != nil {
		return f.insertOneFunc(ctx, document, opts...)
	}
	return &mongo.InsertOneResult{}, nil
}

func (f *fakeDataStore) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	if f.insertManyFunc != nil {
		return f.insertManyFunc(ctx, documents, opts...)
	}
	return &mongo.InsertManyResult{}, nil
}

func (f *fakeDataStore) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	if f.updateOneFunc != nil {
		return f.updateOneFunc(ctx, filter, update, opts...)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeDataStore) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	if f.deleteManyFunc != nil {
		return f.deleteManyFunc(ctx, filter, opts...)
	}
	return &mongo.DeleteResult{}, nil
}

// fakeProvider hands out one DataStore per collection name.
type fakeProvider map[string]*fakeDataStore

func (p fakeProvider) Collection(name string) DataStore {
	if ds, ok := p[name]; ok {
		return ds
	}
	return &fakeDataStore{}
}

func cursorOf(docs ...interface{}) func(context.Context, interface{}, ...*options.FindOptions) (*mongo.Cursor, error) {
	return func(context.Context, interface{}, ...*options.FindOptions) (*mongo.Cursor, error) {
		return mongo.NewCursorFromDocuments(docs, nil, nil)
	}
}

func singleResult(doc interface{}) *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(doc, nil, nil)
}

func notFound() *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(struct{}{}, mongo.ErrNoDocuments, nil)
}

func duplicateKey() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
}
