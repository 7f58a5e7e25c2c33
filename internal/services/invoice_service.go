// Package services orchestrates page-level data loading and mutations
// on top of the storage layer. Independent fetches for one page render
// are fanned out concurrently and joined before returning.
package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"invodash/internal/amqp"
	"invodash/internal/core"
	"invodash/internal/log"
	"invodash/internal/storage"
)

// Store is the injected data-access handle. The concrete SQLite
// repository satisfies it; tests substitute a fake.
type Store interface {
	FetchRevenue(ctx context.Context) ([]core.Revenue, error)
	FetchLatestInvoices(ctx context.Context) ([]core.LatestInvoice, error)
	FetchCardData(ctx context.Context) (*core.CardSummary, error)
	FetchFilteredInvoices(ctx context.Context, query string, page int) ([]core.InvoiceRow, error)
	FetchInvoicesPages(ctx context.Context, query string) (int, error)
	FetchInvoiceByID(ctx context.Context, id string) (*core.InvoiceForm, error)
	FetchCustomers(ctx context.Context) ([]core.CustomerField, error)
	FetchFilteredCustomers(ctx context.Context, query string) ([]core.CustomerSummary, error)
	UpdateInvoice(ctx context.Context, id string, update core.InvoiceUpdate) error
	DeleteInvoice(ctx context.Context, id string) error
}

var _ Store = (*storage.SQLiteRepository)(nil)

// Publisher emits invoice mutation events for downstream consumers.
type Publisher interface {
	PublishInvoiceEvent(ctx context.Context, event *amqp.InvoiceEvent) error
}

type InvoiceService struct {
	store     Store
	publisher Publisher
	logger    *log.Logger
}

// NewInvoiceService wires the service. A nil publisher disables event
// emission; mutations then only touch the store.
func NewInvoiceService(store Store, publisher Publisher, logger *log.Logger) *InvoiceService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &InvoiceService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentService),
	}
}

// DashboardData is everything the dashboard page renders.
type DashboardData struct {
	Revenue        []core.Revenue
	LatestInvoices []core.LatestInvoice
	Cards          *core.CardSummary
}

// InvoicesPage is one page of the searchable invoice listing.
type InvoicesPage struct {
	Query      string
	Page       int
	Invoices   []core.InvoiceRow
	TotalPages int
}

// EditForm is the data backing the invoice edit form.
type EditForm struct {
	Invoice   *core.InvoiceForm
	Customers []core.CustomerField
}

// Dashboard loads revenue, latest invoices and card aggregates
// concurrently.
func (s *InvoiceService) Dashboard(ctx context.Context) (*DashboardData, error) {
	var data DashboardData

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.Revenue, err = s.store.FetchRevenue(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.LatestInvoices, err = s.store.FetchLatestInvoices(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.Cards, err = s.store.FetchCardData(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Invoices loads one listing page and the total page count for the
// same query concurrently.
func (s *InvoiceService) Invoices(ctx context.Context, query string, page int) (*InvoicesPage, error) {
	if err := core.ValidatePage(page); err != nil {
		return nil, core.NewValidationError("page", err)
	}

	result := InvoicesPage{Query: query, Page: page}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result.Invoices, err = s.store.FetchFilteredInvoices(ctx, query, page)
		return err
	})
	g.Go(func() error {
		var err error
		result.TotalPages, err = s.store.FetchInvoicesPages(ctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}

// EditForm loads the invoice and the customer list concurrently. A
// missing invoice yields (nil, nil); the caller decides how to present
// absence.
func (s *InvoiceService) EditForm(ctx context.Context, id string) (*EditForm, error) {
	if err := core.ValidateID(id); err != nil {
		return nil, core.NewValidationError("id", err)
	}

	var form EditForm

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		form.Invoice, err = s.store.FetchInvoiceByID(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		form.Customers, err = s.store.FetchCustomers(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if form.Invoice == nil {
		return nil, nil
	}
	return &form, nil
}

// Revenue returns the pre-aggregated revenue series on its own, for
// partial refreshes of the chart.
func (s *InvoiceService) Revenue(ctx context.Context) ([]core.Revenue, error) {
	return s.store.FetchRevenue(ctx)
}

// Invoice returns the edit-form view of a single invoice, nil when it
// does not exist.
func (s *InvoiceService) Invoice(ctx context.Context, id string) (*core.InvoiceForm, error) {
	if err := core.ValidateID(id); err != nil {
		return nil, core.NewValidationError("id", err)
	}
	return s.store.FetchInvoiceByID(ctx, id)
}

// Customers returns the filtered customer table.
func (s *InvoiceService) Customers(ctx context.Context, query string) ([]core.CustomerSummary, error) {
	return s.store.FetchFilteredCustomers(ctx, query)
}

// UpdateInvoice persists the edit and emits an event. Event emission is
// best effort; the local write is authoritative.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id string, update core.InvoiceUpdate) error {
	if err := s.store.UpdateInvoice(ctx, id, update); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewInvoiceEvent(id, amqp.ActionUpdated, "edit form"))
	return nil
}

// DeleteInvoice removes the invoice and emits an event. Deleting an
// absent invoice is an idempotent success.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	if err := s.store.DeleteInvoice(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.NewInvoiceEvent(id, amqp.ActionDeleted, "delete confirmed"))
	return nil
}

func (s *InvoiceService) publish(ctx context.Context, event *amqp.InvoiceEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishInvoiceEvent(ctx, event); err != nil {
		// The mutation already succeeded locally; losing the event only
		// delays the audit trail.
		s.logger.ErrorContext(ctx, "failed to publish invoice event",
			log.FieldInvoiceID, event.InvoiceID,
			log.FieldAction, event.Action,
			log.FieldError, err.Error())
	}
}
