package cqrs

import "github.com/eaglebank/ledger-service/shared/models"

type CreateTransactionCommand struct {
	UserID      string
	Amount      *float64
	Type        string
	Description string
}

// UpdateTransactionCommand merges Patch into the transaction, provided
// UserID owns it.
type UpdateTransactionCommand struct {
	TransactionID string
	UserID        string
	Patch         models.TransactionPatch
}

type DeleteTransactionCommand struct {
	TransactionID string
	UserID        string
}
