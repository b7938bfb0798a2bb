package cqrs

import "time"

// ListTransactionsQuery fetches all transactions belonging to a user.
type ListTransactionsQuery struct {
	UserID string
}

// SummaryQuery groups a user's transactions by type.
type SummaryQuery struct {
	UserID string
}

// AdminStatsQuery rolls up transactions across all users. Now anchors the
// trailing daily window; the zero value means the current time.
type AdminStatsQuery struct {
	Now time.Time
}
