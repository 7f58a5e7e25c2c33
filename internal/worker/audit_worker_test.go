package worker

import (
	"context"
	"errors"
	"testing"

	"invodash/internal/amqp"
)

type fakeAuditStore struct {
	entries []string
	fail    bool
}

func (f *fakeAuditStore) RecordAudit(ctx context.Context, invoiceID, action, detail string) error {
	if f.fail {
		return errors.New("store unreachable")
	}
	f.entries = append(f.entries, invoiceID+"/"+action)
	return nil
}

func TestHandleEventRecordsAudit(t *testing.T) {
	store := &fakeAuditStore{}
	w := NewAuditWorker(store, nil)

	event := amqp.NewInvoiceEvent("inv-1", amqp.ActionDeleted, "delete confirmed")
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.entries) != 1 || store.entries[0] != "inv-1/deleted" {
		t.Fatalf("unexpected entries: %v", store.entries)
	}
}

func TestHandleEventStoreFailureRequeues(t *testing.T) {
	store := &fakeAuditStore{fail: true}
	w := NewAuditWorker(store, nil)

	event := amqp.NewInvoiceEvent("inv-1", amqp.ActionUpdated, "")
	if err := w.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("store failure must propagate so the event is requeued")
	}
}

func TestHandleEventDropsUnknownAction(t *testing.T) {
	store := &fakeAuditStore{}
	w := NewAuditWorker(store, nil)

	event := amqp.NewInvoiceEvent("inv-1", "exploded", "")
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unknown actions are dropped, not requeued: %v", err)
	}
	if len(store.entries) != 0 {
		t.Fatalf("nothing should be recorded: %v", store.entries)
	}
}
