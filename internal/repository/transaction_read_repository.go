package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/eaglebank/ledger-service/shared/models"
)

// TransactionReadRepository serves the read side: per-owner listings and the
// aggregation pipelines behind summaries and admin stats.
type TransactionReadRepository struct {
	coll DocumentStore
}

func NewTransactionReadRepository(coll DocumentStore) *TransactionReadRepository {
	return &TransactionReadRepository{coll: coll}
}

// ListByOwner returns the owner's transactions in natural store order.
func (r *TransactionReadRepository) ListByOwner(ctx context.Context, owner string) ([]models.Transaction, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user": owner})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}
	defer cursor.Close(ctx)

	transactions := []models.Transaction{}
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, errors.Wrap(err, "failed to decode transactions")
	}
	return transactions, nil
}

type typeTotal struct {
	Type  string  `bson:"_id"`
	Total float64 `bson:"total"`
	Count int64   `bson:"count"`
}

// SummaryByOwner groups the owner's transactions by type.
func (r *TransactionReadRepository) SummaryByOwner(ctx context.Context, owner string) (models.Summary, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{"user": owner}},
		bson.M{"$group": bson.M{
			"_id":   "$type",
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
		}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate summary")
	}
	defer cursor.Close(ctx)

	var rows []typeTotal
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to decode summary")
	}

	summary := make(models.Summary, len(rows))
	for _, row := range rows {
		summary[row.Type] = models.SummaryEntry{Total: row.Total, Count: row.Count}
	}
	return summary, nil
}

// CountAll counts transactions across every owner.
func (r *TransactionReadRepository) CountAll(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count transactions")
	}
	return n, nil
}

type dayCount struct {
	Date  string `bson:"_id"`
	Count int64  `bson:"count"`
}

// DailyCounts counts transactions created at or after since, bucketed by
// UTC calendar day and ordered by day.
func (r *TransactionReadRepository) DailyCounts(ctx context.Context, since time.Time) ([]models.DailyCount, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{"timestamp": bson.M{"$gte": since}}},
		bson.M{"$group": bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m-%d",
				"date":     "$timestamp",
				"timezone": "UTC",
			}},
			"count": bson.M{"$sum": 1},
		}},
		bson.M{"$sort": bson.M{"_id": 1}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate daily stats")
	}
	defer cursor.Close(ctx)

	var rows []dayCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to decode daily stats")
	}

	stats := make([]models.DailyCount, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, models.DailyCount{Date: row.Date, Count: row.Count})
	}
	return stats, nil
}
