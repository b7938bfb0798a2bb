package models

import "time"

// TimestampLayout is the display format for timestamps in API responses.
const TimestampLayout = time.RFC3339Nano

// TransactionView is the API projection of a transaction. Identifiers and
// timestamps are rendered as strings.
type TransactionView struct {
	ID          string  `json:"id"`
	Owner       string  `json:"user"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Description string  `json:"desc"`
	CreatedAt   string  `json:"timestamp"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// NewTransactionView converts the stored document to its API projection.
func NewTransactionView(t Transaction) TransactionView {
	view := TransactionView{
		ID:          t.ID.Hex(),
		Owner:       t.Owner,
		Amount:      t.Amount,
		Type:        t.Type,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.UTC().Format(TimestampLayout),
	}
	if t.UpdatedAt != nil {
		view.UpdatedAt = t.UpdatedAt.UTC().Format(TimestampLayout)
	}
	return view
}

// SummaryEntry aggregates one transaction type for one owner.
type SummaryEntry struct {
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// Summary maps a transaction type to its aggregate. Types with no
// transactions are absent.
type Summary map[string]SummaryEntry

// DailyCount is the number of transactions created on one UTC day.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AdminStats is the cross-owner rollup served to admin callers.
type AdminStats struct {
	TotalTransactions int64        `json:"total_transactions"`
	DailyStats        []DailyCount `json:"daily_stats"`
}
