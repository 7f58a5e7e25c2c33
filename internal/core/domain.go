package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
)

// PageSize is the fixed number of invoice rows per paginated request.
const PageSize = 6

type (
	InvoiceStatus string

	Date struct {
		time.Time
	}

	// Invoice is a stored invoice row. Amount is kept in minor units.
	Invoice struct {
		ID         string
		CustomerID string
		Amount     Money
		Status     InvoiceStatus
		Date       Date
	}

	// InvoiceRow is an invoice joined with its customer for the listing table.
	InvoiceRow struct {
		ID       string
		Amount   Money
		Date     Date
		Status   InvoiceStatus
		Name     string
		Email    string
		ImageURL string
	}

	// LatestInvoice is a dashboard row with the amount already formatted
	// for display.
	LatestInvoice struct {
		ID       string
		Name     string
		Email    string
		ImageURL string
		Amount   string
	}

	// InvoiceForm is the edit-form view of an invoice. Amount is in major
	// units (e.g. dollars), converted from storage exactly once.
	InvoiceForm struct {
		ID         string
		CustomerID string
		Amount     float64
		Status     InvoiceStatus
	}

	// InvoiceUpdate carries the editable fields of an invoice. Amount is
	// in major units and converted back to minor units at the storage
	// boundary.
	InvoiceUpdate struct {
		CustomerID string
		Amount     float64
		Status     InvoiceStatus
	}

	Customer struct {
		ID       string
		Name     string
		Email    string
		ImageURL string
	}

	// CustomerField is the minimal customer projection for select inputs.
	CustomerField struct {
		ID   string
		Name string
	}

	// CustomerSummary augments a customer with invoice aggregates. The
	// monetary sums are formatted for display; a customer without
	// invoices contributes zeroes, never NULLs.
	CustomerSummary struct {
		ID            string
		Name          string
		Email         string
		ImageURL      string
		TotalInvoices int64
		TotalPending  string
		TotalPaid     string
	}

	// Revenue is a pre-aggregated revenue point for one labeled period.
	Revenue struct {
		Month   string
		Revenue Money
	}

	// CardSummary is the dashboard card aggregate. NULL sums from the
	// store are coerced to zero before formatting.
	CardSummary struct {
		NumberOfInvoices  int64
		NumberOfCustomers int64
		TotalPaid         string
		TotalPending      string
	}
)

var (
	ErrInvalidStatus = errors.New("invalid invoice status")
	ErrInvalidPage   = errors.New("page number must be at least 1")
	ErrInvalidID     = errors.New("invalid identifier")
	ErrEmptyCustomer = errors.New("empty customer id")
	ErrInvalidDate   = errors.New("invalid date")
)

// Validate reports whether the status is one of the closed set
// {pending, paid}. Any other stored value is a data-integrity problem
// and must be surfaced, never coerced.
func (s InvoiceStatus) Validate() error {
	switch s {
	case StatusPending, StatusPaid:
		return nil
	default:
		return ErrInvalidStatus
	}
}

// ValidateID checks that an identifier is a well-formed UUID string.
func ValidateID(id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return ErrInvalidID
	}
	return nil
}

// ValidatePage checks the 1-based page number of a paginated request.
func ValidatePage(page int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	return nil
}

// Offset converts a 1-based page number into a row offset.
func Offset(page int) int {
	return (page - 1) * PageSize
}

// TotalPages returns ceil(matching / PageSize). Zero matching rows
// yield zero pages.
func TotalPages(matching int) int {
	return (matching + PageSize - 1) / PageSize
}

func (u InvoiceUpdate) Validate() error {
	if strings.TrimSpace(u.CustomerID) == "" {
		return ErrEmptyCustomer
	}
	if err := u.Status.Validate(); err != nil {
		return err
	}
	if u.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// String renders the date in its stored YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}
