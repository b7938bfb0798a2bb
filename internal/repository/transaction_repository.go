package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eaglebank/ledger-service/shared/apperrors"
	"github.com/eaglebank/ledger-service/shared/models"
)

// TransactionWriteRepository handles all state-mutating operations for
// transactions. Every mutation filters on the owner so that the ownership
// check and the write are a single atomic document operation.
type TransactionWriteRepository struct {
	coll DocumentStore
}

func NewTransactionWriteRepository(coll DocumentStore) *TransactionWriteRepository {
	return &TransactionWriteRepository{coll: coll}
}

// Create inserts t and returns the id assigned by the store.
func (r *TransactionWriteRepository) Create(ctx context.Context, t *models.Transaction) (primitive.ObjectID, error) {
	result, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "failed to create transaction")
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	t.ID = oid
	return oid, nil
}

// Update sets the supplied fields and updated_at on the owner's transaction.
func (r *TransactionWriteRepository) Update(ctx context.Context, id, owner string, patch models.TransactionPatch, updatedAt time.Time) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	set := bson.M{"updated_at": updatedAt}
	for field, value := range patch.Fields() {
		set[field] = value
	}

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "user": owner},
		bson.M{"$set": set},
	)
	if err != nil {
		return errors.Wrap(err, "failed to update transaction")
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes the owner's transaction.
func (r *TransactionWriteRepository) Delete(ctx context.Context, id, owner string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user": owner})
	if err != nil {
		return errors.Wrap(err, "failed to delete transaction")
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
