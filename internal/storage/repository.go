// Package storage implements the data-access layer against SQLite.
//
// Every operation takes a context, returns typed domain rows and
// collapses any underlying failure into a core.DataAccessError with a
// user-safe message, after logging exactly one diagnostic entry with
// the operation name and the raw cause. Lookup misses are represented
// as nil results, not errors.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"invodash/internal/core"
	"invodash/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

// AuditEntry is a stored audit-trail row written by the worker.
type AuditEntry struct {
	ID         int64
	InvoiceID  string
	Action     string
	Detail     string
	OccurredAt time.Time
}

// NewSQLiteRepository opens (creating if necessary) the database at
// dbPath, runs migrations and returns a ready repository. The handle is
// injected into every consumer; nothing in the codebase reaches for an
// ambient database client.
func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// fail logs the single diagnostic entry for a failed operation and
// returns the generic domain error. The raw cause stays in the log;
// callers and users only ever see the safe message.
func (r *SQLiteRepository) fail(ctx context.Context, op, message string, err error) error {
	r.logger.ErrorContext(ctx, "database error",
		log.FieldOperation, op,
		log.FieldError, err.Error())
	return core.NewDataAccessError(op, message, err)
}

// FetchRevenue returns the pre-aggregated revenue points in stored
// order.
func (r *SQLiteRepository) FetchRevenue(ctx context.Context) ([]core.Revenue, error) {
	rows, err := r.db.QueryContext(ctx, qRevenue)
	if err != nil {
		return nil, r.fail(ctx, log.OpFetchRevenue, "Failed to fetch revenue data.", err)
	}
	defer rows.Close()

	var revenue []core.Revenue
	for rows.Next() {
		var p core.Revenue
		if err := rows.Scan(&p.Month, &p.Revenue.Cents); err != nil {
			return nil, r.fail(ctx, log.OpFetchRevenue, "Failed to fetch revenue data.", err)
		}
		revenue = append(revenue, p)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(ctx, log.OpFetchRevenue, "Failed to fetch revenue data.", err)
	}
	return revenue, nil
}

// FetchLatestInvoices returns the five most recent invoices joined with
// their customer, amounts formatted for display at the boundary.
func (r *SQLiteRepository) FetchLatestInvoices(ctx context.Context) ([]core.LatestInvoice, error) {
	rows, err := r.db.QueryContext(ctx, qLatestInvoices)
	if err != nil {
		return nil, r.fail(ctx, log.OpFetchLatestInvoices, "Failed to fetch the latest invoices.", err)
	}
	defer rows.Close()

	var latest []core.LatestInvoice
	for rows.Next() {
		var (
			inv   core.LatestInvoice
			cents int64
		)
		if err := rows.Scan(&inv.ID, &cents, &inv.Name, &inv.Email, &inv.ImageURL); err != nil {
			return nil, r.fail(ctx, log.OpFetchLatestInvoices, "Failed to fetch the latest invoices.", err)
		}
		inv.Amount = core.FormatCurrency(cents)
		latest = append(latest, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(ctx, log.OpFetchLatestInvoices, "Failed to fetch the latest invoices.", err)
	}
	return latest, nil
}

// FetchCardData returns the dashboard card aggregate. NULL sums (no
// invoices at all, or none in a status) coerce to zero before
// formatting.
func (r *SQLiteRepository) FetchCardData(ctx context.Context) (*core.CardSummary, error) {
	var (
		summary   core.CardSummary
		paidCents int64
		pendCents int64
	)
	err := r.db.QueryRowContext(ctx, qCardData).Scan(
		&summary.NumberOfInvoices,
		&summary.NumberOfCustomers,
		&paidCents,
		&pendCents)
	if err != nil {
		return nil, r.fail(ctx, log.OpFetchCardData, "Failed to fetch card data.", err)
	}
	summary.TotalPaid = core.FormatCurrency(paidCents)
	summary.TotalPending = core.FormatCurrency(pendCents)
	return &summary, nil
}

// FetchFilteredInvoices returns at most core.PageSize invoices matching
// the search predicate, ordered by date descending, offset by the
// 1-based page number. An empty query matches every row.
func (r *SQLiteRepository) FetchFilteredInvoices(ctx context.Context, query string, page int) ([]core.InvoiceRow, error) {
	if err := core.ValidatePage(page); err != nil {
		return nil, core.NewValidationError("page", err)
	}

	like := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, qFilteredInvoices,
		like, like, like, like, like,
		core.PageSize, core.Offset(page))
	if err != nil {
		return nil, r.fail(ctx, log.OpFetchFilteredInvoices, "Failed to fetch invoices.", err)
	}
	defer rows.Close()

	var invoices []core.InvoiceRow
	for rows.Next() {
		var (
			inv  core.InvoiceRow
			date string
		)
		if err := rows.Scan(&inv.ID, &inv.Amount.Cents, &date, &inv.Status,
			&inv.Name, &inv.Email, &inv.ImageURL); err != nil {
			return nil, r.fail(ctx, log.OpFetchFilteredInvoices, "Failed to fetch invoices.", err)
		}
		if err := inv.Status.Validate(); err != nil {
			return nil, r.fail(ctx, log.OpFetchFilteredInvoices, "Failed to fetch invoices.",
				fmt.Errorf("invoice %s: %w", inv.ID, err))
		}
		if inv.Date, err = core.ParseDate(date); err != nil {
			return nil, r.fail(ctx, log.OpFetchFilteredInvoices, "Failed to fetch invoices.",
				fmt.Errorf("invoice %s: %w", inv.ID, err))
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(ctx, log.OpFetchFilteredInvoices, "Failed to fetch invoices.", err)
	}
	return invoices, nil
}

// FetchInvoicesPages returns the total page count for the search
// predicate: ceil(matching / PageSize), zero when nothing matches.
func (r *SQLiteRepository) FetchInvoicesPages(ctx context.Context, query string) (int, error) {
	like := "%" + query + "%"
	var count int
	err := r.db.QueryRowContext(ctx, qInvoicesCount, like, like, like, like, like).Scan(&count)
	if err != nil {
		return 0, r.fail(ctx, log.OpFetchInvoicesPages, "Failed to fetch total number of invoices.", err)
	}
	return core.TotalPages(count), nil
}

// FetchInvoiceByID returns the edit-form view of one invoice, with the
// amount converted to major units. A missing row yields (nil, nil);
// absence is for the caller to judge, not an error.
func (r *SQLiteRepository) FetchInvoiceByID(ctx context.Context, id string) (*core.InvoiceForm, error) {
	var (
		form  core.InvoiceForm
		cents int64
	)
	err := r.db.QueryRowContext(ctx, qInvoiceByID, id).Scan(
		&form.ID, &form.CustomerID, &cents, &form.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.fail(ctx, log.OpFetchInvoiceByID, "Failed to fetch invoice.", err)
	}
	if err := form.Status.Validate(); err != nil {
		return nil, r.fail(ctx, log.OpFetchInvoiceByID, "Failed to fetch invoice.",
			fmt.Errorf("invoice %s: %w", form.ID, err))
	}
	form.Amount = core.MinorToMajor(cents)
	return &form, nil
}

// FetchCustomers returns all customers' id and name, ordered by name.
func (r *SQLiteRepository) FetchCustomers(ctx context.Context) ([]core.CustomerField, error) {
	rows, err := r.db.QueryContext(ctx, qCustomers)
	if err != nil {
		return nil, r.fail(ctx, log.OpFetchCustomers, "Failed to fetch all customers.", err)
	}
	defer rows.Close()

	var customers []core.CustomerField
	for rows.Next() {
		var c core.CustomerField
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, r.fail(ctx, log.OpFetchCustomers, "Failed to fetch all customers.", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(ctx, log.OpFetchCustomers, "Failed to fetch all customers.", err)
	}
	return customers, nil
}

// FetchFilteredCustomers returns customers whose name or email contains
// the query, augmented with invoice aggregates. A customer with no
// invoices contributes zero totals via the outer join.
func (r *SQLiteRepository) FetchFilteredCustomers(ctx context.Context, query string) ([]core.CustomerSummary, error) {
	like := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, qFilteredCustomers, like, like)
	if err != nil {
		return nil, r.fail(ctx, log.OpFetchFilteredCustomers, "Failed to fetch customer table.", err)
	}
	defer rows.Close()

	var customers []core.CustomerSummary
	for rows.Next() {
		var (
			c       core.CustomerSummary
			pending int64
			paid    int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.ImageURL,
			&c.TotalInvoices, &pending, &paid); err != nil {
			return nil, r.fail(ctx, log.OpFetchFilteredCustomers, "Failed to fetch customer table.", err)
		}
		c.TotalPending = core.FormatCurrency(pending)
		c.TotalPaid = core.FormatCurrency(paid)
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(ctx, log.OpFetchFilteredCustomers, "Failed to fetch customer table.", err)
	}
	return customers, nil
}

// UpdateInvoice persists the editable fields of an invoice. The amount
// arrives in major units and is converted to minor units here, exactly
// once. Inputs violating the documented constraints are rejected before
// any query runs. Updates are last-write-wins; there is no optimistic
// concurrency check.
func (r *SQLiteRepository) UpdateInvoice(ctx context.Context, id string, update core.InvoiceUpdate) error {
	if err := core.ValidateID(id); err != nil {
		return core.NewValidationError("id", err)
	}
	if err := update.Validate(); err != nil {
		return core.NewValidationError("invoice", err)
	}

	cents := core.MajorToMinor(update.Amount)
	_, err := r.db.ExecContext(ctx, qUpdateInvoice, update.CustomerID, cents, update.Status, id)
	if err != nil {
		return r.fail(ctx, log.OpUpdateInvoice, "Failed to update invoice.", err)
	}
	return nil
}

// DeleteInvoice removes the invoice with the given id. Deleting an
// absent invoice succeeds idempotently; "not found" is never disguised
// as a DataAccessError.
func (r *SQLiteRepository) DeleteInvoice(ctx context.Context, id string) error {
	if err := core.ValidateID(id); err != nil {
		return core.NewValidationError("id", err)
	}
	if _, err := r.db.ExecContext(ctx, qDeleteInvoice, id); err != nil {
		return r.fail(ctx, log.OpDeleteInvoice, "Failed to delete invoice.", err)
	}
	return nil
}

// RecordAudit appends one row to the mutation audit trail.
func (r *SQLiteRepository) RecordAudit(ctx context.Context, invoiceID, action, detail string) error {
	if _, err := r.db.ExecContext(ctx, qInsertAudit, invoiceID, action, detail); err != nil {
		return r.fail(ctx, log.OpRecordAudit, "Failed to record audit entry.", err)
	}
	return nil
}

// RecentAuditEntries returns the newest audit rows, most recent first.
func (r *SQLiteRepository) RecentAuditEntries(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, qRecentAudit, limit)
	if err != nil {
		return nil, r.fail(ctx, log.OpRecordAudit, "Failed to fetch audit entries.", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.InvoiceID, &e.Action, &e.Detail, &e.OccurredAt); err != nil {
			return nil, r.fail(ctx, log.OpRecordAudit, "Failed to fetch audit entries.", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(ctx, log.OpRecordAudit, "Failed to fetch audit entries.", err)
	}
	return entries, nil
}
