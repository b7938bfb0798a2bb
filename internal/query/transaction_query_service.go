package query

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eaglebank/ledger-service/shared/apperrors"
	"github.com/eaglebank/ledger-service/shared/cqrs"
	"github.com/eaglebank/ledger-service/shared/models"
)

// StatsWindow is the trailing window covered by AdminStats daily counts.
const StatsWindow = 7 * 24 * time.Hour

// TransactionReader is the read store.
type TransactionReader interface {
	ListByOwner(ctx context.Context, owner string) ([]models.Transaction, error)
	SummaryByOwner(ctx context.Context, owner string) (models.Summary, error)
	CountAll(ctx context.Context) (int64, error)
	DailyCounts(ctx context.Context, since time.Time) ([]models.DailyCount, error)
}

// SummaryCache holds per-owner summaries between writes. Entries are keyed
// by the owner's generation, which every write moves forward.
type SummaryCache interface {
	Generation(ctx context.Context, owner string) (int64, bool)
	Get(ctx context.Context, owner string, gen int64) (*models.Summary, bool)
	Set(ctx context.Context, owner string, gen int64, summary *models.Summary)
}

// TransactionQueryService serves ledger reads. Per-owner reads are always
// filtered on the caller's identity.
type TransactionQueryService struct {
	readRepo  TransactionReader
	summaries SummaryCache
}

func NewTransactionQueryService(readRepo TransactionReader, summaries SummaryCache) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo, summaries: summaries}
}

func (s *TransactionQueryService) ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	if q.UserID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	transactions, err := s.readRepo.ListByOwner(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	views := make([]models.TransactionView, len(transactions))
	for i, t := range transactions {
		views[i] = models.NewTransactionView(t)
	}
	return views, nil
}

// Summary groups the caller's transactions by type, serving from the cache
// when an entry exists for the owner's current generation. The generation is
// read before aggregating, so a summary that races a write is stored under a
// generation no later reader asks for.
func (s *TransactionQueryService) Summary(ctx context.Context, q cqrs.SummaryQuery) (models.Summary, error) {
	if q.UserID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	var (
		gen       int64
		cacheable bool
	)
	if s.summaries != nil {
		gen, cacheable = s.summaries.Generation(ctx, q.UserID)
	}
	if cacheable {
		if cached, ok := s.summaries.Get(ctx, q.UserID, gen); ok && *cached != nil {
			return *cached, nil
		}
	}

	summary, err := s.readRepo.SummaryByOwner(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.summaries.Set(ctx, q.UserID, gen, &summary)
	}
	return summary, nil
}

// AdminStats counts every transaction and those created per UTC day over the
// trailing StatsWindow. Role checks happen before this is called.
func (s *TransactionQueryService) AdminStats(ctx context.Context, q cqrs.AdminStatsQuery) (*models.AdminStats, error) {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	since := now.UTC().Add(-StatsWindow)

	stats := &models.AdminStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.readRepo.CountAll(gctx)
		stats.TotalTransactions = n
		return err
	})
	g.Go(func() error {
		daily, err := s.readRepo.DailyCounts(gctx, since)
		stats.DailyStats = daily
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if stats.DailyStats == nil {
		stats.DailyStats = []models.DailyCount{}
	}
	return stats, nil
}
