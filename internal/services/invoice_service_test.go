package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"invodash/internal/amqp"
	"invodash/internal/core"
)

const testInvoiceID = "3958dc9e-712f-4377-85e9-fec4b6a6442a"
const testCustomerID = "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa"

type fakeStore struct {
	revenue   []core.Revenue
	latest    []core.LatestInvoice
	cards     *core.CardSummary
	rows      []core.InvoiceRow
	pages     int
	form      *core.InvoiceForm
	customers []core.CustomerField
	summaries []core.CustomerSummary

	failOp string // operation name that should fail

	calls atomic.Int32
}

func (f *fakeStore) err(op string) error {
	if f.failOp == op {
		return core.NewDataAccessError(op, "Failed.", errors.New("boom"))
	}
	return nil
}

func (f *fakeStore) FetchRevenue(ctx context.Context) ([]core.Revenue, error) {
	f.calls.Add(1)
	return f.revenue, f.err("revenue")
}

func (f *fakeStore) FetchLatestInvoices(ctx context.Context) ([]core.LatestInvoice, error) {
	f.calls.Add(1)
	return f.latest, f.err("latest")
}

func (f *fakeStore) FetchCardData(ctx context.Context) (*core.CardSummary, error) {
	f.calls.Add(1)
	return f.cards, f.err("cards")
}

func (f *fakeStore) FetchFilteredInvoices(ctx context.Context, query string, page int) ([]core.InvoiceRow, error) {
	f.calls.Add(1)
	return f.rows, f.err("filtered")
}

func (f *fakeStore) FetchInvoicesPages(ctx context.Context, query string) (int, error) {
	f.calls.Add(1)
	return f.pages, f.err("pages")
}

func (f *fakeStore) FetchInvoiceByID(ctx context.Context, id string) (*core.InvoiceForm, error) {
	f.calls.Add(1)
	return f.form, f.err("by_id")
}

func (f *fakeStore) FetchCustomers(ctx context.Context) ([]core.CustomerField, error) {
	f.calls.Add(1)
	return f.customers, f.err("customers")
}

func (f *fakeStore) FetchFilteredCustomers(ctx context.Context, query string) ([]core.CustomerSummary, error) {
	f.calls.Add(1)
	return f.summaries, f.err("filtered_customers")
}

func (f *fakeStore) UpdateInvoice(ctx context.Context, id string, update core.InvoiceUpdate) error {
	f.calls.Add(1)
	return f.err("update")
}

func (f *fakeStore) DeleteInvoice(ctx context.Context, id string) error {
	f.calls.Add(1)
	return f.err("delete")
}

type fakePublisher struct {
	events []*amqp.InvoiceEvent
	fail   bool
}

func (p *fakePublisher) PublishInvoiceEvent(ctx context.Context, event *amqp.InvoiceEvent) error {
	if p.fail {
		return errors.New("broker unreachable")
	}
	p.events = append(p.events, event)
	return nil
}

func TestDashboardFanOut(t *testing.T) {
	store := &fakeStore{
		revenue: []core.Revenue{{Month: "Jun", Revenue: core.Money{Cents: 200000}}},
		latest:  []core.LatestInvoice{{ID: testInvoiceID, Amount: "$6.66"}},
		cards:   &core.CardSummary{NumberOfInvoices: 1, NumberOfCustomers: 1, TotalPaid: "$0.00", TotalPending: "$6.66"},
	}
	svc := NewInvoiceService(store, nil, nil)

	data, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(data.Revenue) != 1 || len(data.LatestInvoices) != 1 || data.Cards == nil {
		t.Fatalf("fan-out incomplete: %+v", data)
	}
	if got := store.calls.Load(); got != 3 {
		t.Fatalf("expected 3 store calls, got %d", got)
	}
}

func TestDashboardPropagatesFailure(t *testing.T) {
	store := &fakeStore{failOp: "cards"}
	svc := NewInvoiceService(store, nil, nil)

	_, err := svc.Dashboard(context.Background())
	if !core.IsDataAccess(err) {
		t.Fatalf("expected DataAccessError, got %v", err)
	}
}

func TestInvoicesCombinesRowsAndPages(t *testing.T) {
	store := &fakeStore{
		rows:  []core.InvoiceRow{{ID: testInvoiceID}},
		pages: 3,
	}
	svc := NewInvoiceService(store, nil, nil)

	page, err := svc.Invoices(context.Background(), "acme", 2)
	if err != nil {
		t.Fatalf("invoices: %v", err)
	}
	if page.Query != "acme" || page.Page != 2 || page.TotalPages != 3 || len(page.Invoices) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestInvoicesRejectsBadPageBeforeStore(t *testing.T) {
	store := &fakeStore{}
	svc := NewInvoiceService(store, nil, nil)

	_, err := svc.Invoices(context.Background(), "", 0)
	if !core.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if store.calls.Load() != 0 {
		t.Fatal("store must not be queried for invalid pages")
	}
}

func TestEditForm(t *testing.T) {
	store := &fakeStore{
		form:      &core.InvoiceForm{ID: testInvoiceID, CustomerID: testCustomerID, Amount: 6.66, Status: core.StatusPending},
		customers: []core.CustomerField{{ID: testCustomerID, Name: "Acme Corp"}},
	}
	svc := NewInvoiceService(store, nil, nil)

	form, err := svc.EditForm(context.Background(), testInvoiceID)
	if err != nil {
		t.Fatalf("edit form: %v", err)
	}
	if form.Invoice.Amount != 6.66 || len(form.Customers) != 1 {
		t.Fatalf("unexpected form: %+v", form)
	}
	if got := store.calls.Load(); got != 2 {
		t.Fatalf("expected 2 store calls, got %d", got)
	}
}

func TestEditFormMissingInvoice(t *testing.T) {
	store := &fakeStore{form: nil}
	svc := NewInvoiceService(store, nil, nil)

	form, err := svc.EditForm(context.Background(), testInvoiceID)
	if err != nil {
		t.Fatalf("absence is not an error: %v", err)
	}
	if form != nil {
		t.Fatalf("expected nil form, got %+v", form)
	}
}

func TestEditFormRejectsBadID(t *testing.T) {
	store := &fakeStore{}
	svc := NewInvoiceService(store, nil, nil)

	_, err := svc.EditForm(context.Background(), "42")
	if !core.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if store.calls.Load() != 0 {
		t.Fatal("store must not be queried for malformed ids")
	}
}

func TestUpdateInvoicePublishesEvent(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewInvoiceService(store, pub, nil)

	update := core.InvoiceUpdate{CustomerID: testCustomerID, Amount: 12.34, Status: core.StatusPaid}
	if err := svc.UpdateInvoice(context.Background(), testInvoiceID, update); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0].Action != amqp.ActionUpdated || pub.events[0].InvoiceID != testInvoiceID {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
}

func TestUpdateInvoiceStoreFailureSuppressesEvent(t *testing.T) {
	store := &fakeStore{failOp: "update"}
	pub := &fakePublisher{}
	svc := NewInvoiceService(store, pub, nil)

	err := svc.UpdateInvoice(context.Background(), testInvoiceID, core.InvoiceUpdate{})
	if !core.IsDataAccess(err) {
		t.Fatalf("expected DataAccessError, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatal("no event must be published when the store write fails")
	}
}

func TestDeleteInvoicePublishFailureIsNonFatal(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{fail: true}
	svc := NewInvoiceService(store, pub, nil)

	if err := svc.DeleteInvoice(context.Background(), testInvoiceID); err != nil {
		t.Fatalf("publish failure must not fail the mutation: %v", err)
	}
}

func TestDeleteInvoiceWithoutPublisher(t *testing.T) {
	store := &fakeStore{}
	svc := NewInvoiceService(store, nil, nil)

	if err := svc.DeleteInvoice(context.Background(), testInvoiceID); err != nil {
		t.Fatalf("nil publisher must be tolerated: %v", err)
	}
}
