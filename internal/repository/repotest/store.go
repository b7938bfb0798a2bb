// Package repotest provides an in-memory ledger store with the same ownership
// semantics as the MongoDB repositories, for use in service tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eaglebank/ledger-service/shared/apperrors"
	"github.com/eaglebank/ledger-service/shared/models"
)

type Store struct {
	mu    sync.Mutex
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]models.Transaction

	// Err, when set, is returned by every operation.
	Err error
}

func NewStore() *Store {
	return &Store{docs: map[primitive.ObjectID]models.Transaction{}}
}

func (s *Store) Create(_ context.Context, t *models.Transaction) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return primitive.NilObjectID, s.Err
	}
	t.ID = primitive.NewObjectID()
	s.docs[t.ID] = *t
	s.order = append(s.order, t.ID)
	return t.ID, nil
}

func (s *Store) Update(_ context.Context, id, owner string, patch models.TransactionPatch, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	oid, doc, err := s.owned(id, owner)
	if err != nil {
		return err
	}
	if patch.Amount != nil {
		doc.Amount = *patch.Amount
	}
	if patch.Type != nil {
		doc.Type = *patch.Type
	}
	if patch.Description != nil {
		doc.Description = *patch.Description
	}
	doc.UpdatedAt = &updatedAt
	s.docs[oid] = doc
	return nil
}

func (s *Store) Delete(_ context.Context, id, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	oid, _, err := s.owned(id, owner)
	if err != nil {
		return err
	}
	delete(s.docs, oid)
	for i, o := range s.order {
		if o == oid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) owned(id, owner string) (primitive.ObjectID, models.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return oid, models.Transaction{}, errors.Wrapf(apperrors.ErrNotFound, "invalid transaction id %q", id)
	}
	doc, ok := s.docs[oid]
	if !ok || doc.Owner != owner {
		return oid, models.Transaction{}, apperrors.ErrNotFound
	}
	return oid, doc, nil
}

func (s *Store) ListByOwner(_ context.Context, owner string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Transaction{}
	for _, oid := range s.order {
		if doc := s.docs[oid]; doc.Owner == owner {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *Store) SummaryByOwner(_ context.Context, owner string) (models.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	summary := models.Summary{}
	for _, doc := range s.docs {
		if doc.Owner != owner {
			continue
		}
		entry := summary[doc.Type]
		entry.Total += doc.Amount
		entry.Count++
		summary[doc.Type] = entry
	}
	return summary, nil
}

func (s *Store) CountAll(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.docs)), nil
}

func (s *Store) DailyCounts(_ context.Context, since time.Time) ([]models.DailyCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	counts := map[string]int64{}
	for _, doc := range s.docs {
		if doc.CreatedAt.Before(since) {
			continue
		}
		counts[doc.CreatedAt.UTC().Format("2006-01-02")]++
	}
	out := make([]models.DailyCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, models.DailyCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// Get returns the stored document regardless of owner.
func (s *Store) Get(id string) (models.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Transaction{}, false
	}
	doc, ok := s.docs[oid]
	return doc, ok
}

// Len reports the number of stored documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
