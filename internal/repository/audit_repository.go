package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	// postgres driver
	_ "github.com/lib/pq"

	"github.com/eaglebank/ledger-service/shared/models"
)

// Inserter is the subset of *mongo.Collection used for append-only writes.
type Inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoAuditRepository appends audit records to the audit_logs collection.
type MongoAuditRepository struct {
	coll Inserter
}

func NewMongoAuditRepository(coll Inserter) *MongoAuditRepository {
	return &MongoAuditRepository{coll: coll}
}

func (r *MongoAuditRepository) Append(ctx context.Context, record models.AuditRecord) error {
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return errors.Wrap(err, "failed to insert audit record")
	}
	return nil
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresAuditRepository appends audit records to an audit_logs table:
//
//	CREATE TABLE audit_logs (
//	    id             BIGSERIAL PRIMARY KEY,
//	    service        TEXT NOT NULL,
//	    action         TEXT NOT NULL,
//	    user_id        TEXT NOT NULL,
//	    transaction_id TEXT NOT NULL,
//	    changes        JSONB NOT NULL,
//	    created_at     TIMESTAMPTZ NOT NULL
//	);
type PostgresAuditRepository struct {
	db sq.BaseRunner
}

func NewPostgresAuditRepository(db sq.BaseRunner) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db}
}

// OpenPostgres opens and pings the audit database.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to audit database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "cannot connect to audit database")
	}
	return db, nil
}

func (r *PostgresAuditRepository) Append(ctx context.Context, record models.AuditRecord) error {
	changes, err := json.Marshal(record.Changes)
	if err != nil {
		return errors.Wrap(err, "marshal audit changes")
	}

	query := psql.Insert("audit_logs").
		Columns("service", "action", "user_id", "transaction_id", "changes", "created_at").
		Values(record.Service, record.Action, record.User, record.TransactionID, string(changes), record.Timestamp)

	_, err = query.RunWith(r.db).ExecContext(ctx)
	return errors.Wrap(err, "insert audit record")
}
