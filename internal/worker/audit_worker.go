// Package worker consumes invoice mutation events and persists the
// operator-facing audit trail.
package worker

import (
	"context"
	"fmt"

	"invodash/internal/amqp"
	"invodash/internal/log"
)

// AuditStore is the slice of the storage layer the worker needs.
type AuditStore interface {
	RecordAudit(ctx context.Context, invoiceID, action, detail string) error
}

type AuditWorker struct {
	store  AuditStore
	logger *log.Logger
}

func NewAuditWorker(store AuditStore, logger *log.Logger) *AuditWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &AuditWorker{
		store:  store,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent processes one mutation event. A returned error makes the
// consumer nack-and-requeue, so the trail catches up once the store is
// reachable again.
func (w *AuditWorker) HandleEvent(ctx context.Context, event *amqp.InvoiceEvent) error {
	if err := event.Validate(); err != nil {
		// Bad actions are dropped, not requeued: they will never
		// become valid.
		w.logger.WarnContext(ctx, "dropping event with unknown action",
			log.FieldInvoiceID, event.InvoiceID,
			log.FieldAction, event.Action)
		return nil
	}

	if err := w.store.RecordAudit(ctx, event.InvoiceID, event.Action, event.Detail); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}

	w.logger.InfoContext(ctx, "audit entry recorded",
		log.FieldInvoiceID, event.InvoiceID,
		log.FieldAction, event.Action)
	return nil
}
