// Package audit writes the best-effort audit trail for mutating transaction
// operations. Writes run in the background and their failures never reach
// the caller of Record.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/eaglebank/ledger-service/shared/logger"
	"github.com/eaglebank/ledger-service/shared/models"
)

var auditWrites = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "ledger",
		Subsystem: "audit",
		Name:      "writes_total",
	},
	[]string{"action", "result"},
)

// Sink persists audit records.
type Sink interface {
	Append(ctx context.Context, record models.AuditRecord) error
}

type Auditor struct {
	sink    Sink
	service string
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

// New returns an Auditor writing to sink. A nil sink disables auditing.
func New(sink Sink, service string, timeout time.Duration) *Auditor {
	return &Auditor{
		sink:    sink,
		service: service,
		timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Record schedules an audit write and returns immediately.
func (a *Auditor) Record(action, user, transactionID string, changes map[string]any) {
	if a == nil || a.sink == nil {
		return
	}
	if changes == nil {
		changes = map[string]any{}
	}
	record := models.AuditRecord{
		Service:       a.service,
		Action:        action,
		User:          user,
		TransactionID: transactionID,
		Changes:       changes,
		Timestamp:     a.now(),
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.write(record)
	}()
}

func (a *Auditor) write(record models.AuditRecord) {
	defer func() {
		if r := recover(); r != nil {
			auditWrites.WithLabelValues(record.Action, "panic").Inc()
			logger.Error("audit write panicked",
				zap.String("action", record.Action),
				zap.String("transaction_id", record.TransactionID),
				zap.String("panic", fmt.Sprint(r)))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.sink.Append(ctx, record); err != nil {
		auditWrites.WithLabelValues(record.Action, "error").Inc()
		logger.Warn("audit write failed",
			zap.String("action", record.Action),
			zap.String("transaction_id", record.TransactionID),
			zap.Error(err))
		return
	}
	auditWrites.WithLabelValues(record.Action, "ok").Inc()
}

// Close waits for in-flight writes or until ctx is done.
func (a *Auditor) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
