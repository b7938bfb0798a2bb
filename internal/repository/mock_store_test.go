package repository

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mockStore implements DocumentStore with per-method hooks.
type mockStore struct {
	insertOneFn      func(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	findFn           func(ctx context.Context, filter interface{}) (*mongo.Cursor, error)
	updateOneFn      func(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error)
	deleteOneFn      func(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error)
	aggregateFn      func(ctx context.Context, pipeline interface{}) (*mongo.Cursor, error)
	countDocumentsFn func(ctx context.Context, filter interface{}) (int64, error)
}

func (m *mockStore) InsertOne(ctx context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return m.insertOneFn(ctx, document)
}

func (m *mockStore) Find(ctx context.Context, filter interface{}, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	return m.findFn(ctx, filter)
}

func (m *mockStore) UpdateOne(ctx context.Context, filter interface{}, update interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return m.updateOneFn(ctx, filter, update)
}

func (m *mockStore) DeleteOne(ctx context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return m.deleteOneFn(ctx, filter)
}

func (m *mockStore) Aggregate(ctx context.Context, pipeline interface{}, _ ...*options.AggregateOptions) (*mongo.Cursor, error) {
	return m.aggregateFn(ctx, pipeline)
}

func (m *mockStore) CountDocuments(ctx context.Context, filter interface{}, _ ...*options.CountOptions) (int64, error) {
	return m.countDocumentsFn(ctx, filter)
}

func cursorOf(t *testing.T, docs ...interface{}) *mongo.Cursor {
	t.Helper()
	cursor, err := mongo.NewCursorFromDocuments(docs, nil, nil)
	if err != nil {
		t.Fatalf("failed to build cursor: %v", err)
	}
	return cursor
}
