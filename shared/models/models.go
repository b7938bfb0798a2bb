package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction is the stored form of a ledger entry in the transactions
// collection. Owner is the gateway-supplied identity and never changes.
type Transaction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Owner       string             `bson:"user"`
	Amount      float64            `bson:"amount"`
	Type        string             `bson:"type"`
	Description string             `bson:"desc"`
	CreatedAt   time.Time          `bson:"timestamp"`
	UpdatedAt   *time.Time         `bson:"updated_at,omitempty"`
}

// TransactionPatch carries the fields supplied to an update. Nil means
// "leave unchanged".
type TransactionPatch struct {
	Amount      *float64
	Type        *string
	Description *string
}

// Fields returns the supplied fields keyed by their stored names.
func (p TransactionPatch) Fields() map[string]any {
	fields := map[string]any{}
	if p.Amount != nil {
		fields["amount"] = *p.Amount
	}
	if p.Type != nil {
		fields["type"] = *p.Type
	}
	if p.Description != nil {
		fields["desc"] = *p.Description
	}
	return fields
}

// Audit actions.
const (
	AuditCreate = "CREATE"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
)

// AuditRecord is an append-only entry in the audit_logs collection.
type AuditRecord struct {
	Service       string         `bson:"service" json:"service"`
	Action        string         `bson:"action" json:"action"`
	User          string         `bson:"user" json:"user"`
	TransactionID string         `bson:"transaction_id" json:"transactionId"`
	Changes       map[string]any `bson:"changes" json:"changes"`
	Timestamp     time.Time      `bson:"timestamp" json:"timestamp"`
}
