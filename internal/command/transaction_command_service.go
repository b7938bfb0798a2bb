package command

import (
	"context"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/eaglebank/ledger-service/shared/apperrors"
	"github.com/eaglebank/ledger-service/shared/cqrs"
	"github.com/eaglebank/ledger-service/shared/events"
	"github.com/eaglebank/ledger-service/shared/logger"
	"github.com/eaglebank/ledger-service/shared/models"
)

// TransactionWriter is the write store.
type TransactionWriter interface {
	Create(ctx context.Context, t *models.Transaction) (primitive.ObjectID, error)
	Update(ctx context.Context, id, owner string, patch models.TransactionPatch, updatedAt time.Time) error
	Delete(ctx context.Context, id, owner string) error
}

// SummaryInvalidator retires an owner's cached summary.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context, owner string)
}

// invalidateTimeout bounds cache invalidation, which outlives the request.
const invalidateTimeout = 2 * time.Second

// AuditRecorder schedules an audit write without waiting for it.
type AuditRecorder interface {
	Record(action, user, transactionID string, changes map[string]any)
}

// TransactionCommandService owns every mutation of the ledger. After a
// successful write it invalidates the owner's summary, publishes a domain
// event and records an audit entry; none of those can fail the mutation.
type TransactionCommandService struct {
	writeRepo TransactionWriter
	summaries SummaryInvalidator
	publisher events.Publisher
	auditor   AuditRecorder
	now       func() time.Time
}

func NewTransactionCommandService(
	writeRepo TransactionWriter,
	summaries SummaryInvalidator,
	publisher events.Publisher,
	auditor AuditRecorder,
) *TransactionCommandService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TransactionCommandService{
		writeRepo: writeRepo,
		summaries: summaries,
		publisher: publisher,
		auditor:   auditor,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateTransaction validates and stores a new transaction, returning its id.
func (s *TransactionCommandService) CreateTransaction(ctx context.Context, cmd cqrs.CreateTransactionCommand) (string, error) {
	if cmd.UserID == "" {
		return "", apperrors.ErrUnauthenticated
	}
	if cmd.Amount == nil || strings.TrimSpace(cmd.Type) == "" {
		return "", apperrors.Validation("Amount and type are required")
	}
	if err := validateAmount(*cmd.Amount); err != nil {
		return "", err
	}

	transaction := &models.Transaction{
		Owner:       cmd.UserID,
		Amount:      *cmd.Amount,
		Type:        cmd.Type,
		Description: cmd.Description,
		CreatedAt:   s.now(),
	}
	oid, err := s.writeRepo.Create(ctx, transaction)
	if err != nil {
		return "", err
	}
	id := oid.Hex()

	s.afterWrite(ctx, cmd.UserID)
	s.publish(ctx, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: id,
		UserID:        cmd.UserID,
		Amount:        transaction.Amount,
		Type:          transaction.Type,
	})
	s.audit(models.AuditCreate, cmd.UserID, id, map[string]any{
		"amount": transaction.Amount,
		"type":   transaction.Type,
		"desc":   transaction.Description,
	})
	return id, nil
}

// UpdateTransaction merges the supplied fields into the caller's transaction
// and stamps updated_at, even when no field was supplied.
func (s *TransactionCommandService) UpdateTransaction(ctx context.Context, cmd cqrs.UpdateTransactionCommand) error {
	if cmd.UserID == "" {
		return apperrors.ErrUnauthenticated
	}
	if cmd.Patch.Amount != nil {
		if err := validateAmount(*cmd.Patch.Amount); err != nil {
			return err
		}
	}
	if cmd.Patch.Type != nil && strings.TrimSpace(*cmd.Patch.Type) == "" {
		return apperrors.Validation("Type must not be empty")
	}

	if err := s.writeRepo.Update(ctx, cmd.TransactionID, cmd.UserID, cmd.Patch, s.now()); err != nil {
		return err
	}

	changes := cmd.Patch.Fields()
	s.afterWrite(ctx, cmd.UserID)
	s.publish(ctx, events.TransactionUpdated, events.TransactionUpdatedEvent{
		TransactionID: cmd.TransactionID,
		UserID:        cmd.UserID,
		Changes:       changes,
	})
	s.audit(models.AuditUpdate, cmd.UserID, cmd.TransactionID, changes)
	return nil
}

// DeleteTransaction removes the caller's transaction.
func (s *TransactionCommandService) DeleteTransaction(ctx context.Context, cmd cqrs.DeleteTransactionCommand) error {
	if cmd.UserID == "" {
		return apperrors.ErrUnauthenticated
	}
	if err := s.writeRepo.Delete(ctx, cmd.TransactionID, cmd.UserID); err != nil {
		return err
	}

	s.afterWrite(ctx, cmd.UserID)
	s.publish(ctx, events.TransactionDeleted, events.TransactionDeletedEvent{
		TransactionID: cmd.TransactionID,
		UserID:        cmd.UserID,
	})
	s.audit(models.AuditDelete, cmd.UserID, cmd.TransactionID, nil)
	return nil
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return apperrors.Validation("Amount must be a finite number")
	}
	if amount == 0 {
		return apperrors.Validation("Amount must not be zero")
	}
	return nil
}

// afterWrite runs once the store has committed, so it must not be cut short
// by the caller going away.
func (s *TransactionCommandService) afterWrite(ctx context.Context, owner string) {
	if s.summaries == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	defer cancel()
	s.summaries.Invalidate(ctx, owner)
}

func (s *TransactionCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, eventType, data); err != nil {
		logger.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}

func (s *TransactionCommandService) audit(action, user, transactionID string, changes map[string]any) {
	if s.auditor != nil {
		s.auditor.Record(action, user, transactionID, changes)
	}
}
