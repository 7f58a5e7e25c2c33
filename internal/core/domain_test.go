package core

import (
	"errors"
	"testing"
)

func TestInvoiceStatusValidate(t *testing.T) {
	if err := StatusPending.Validate(); err != nil {
		t.Fatalf("pending should be valid: %v", err)
	}
	if err := StatusPaid.Validate(); err != nil {
		t.Fatalf("paid should be valid: %v", err)
	}
	for _, s := range []InvoiceStatus{"", "overdue", "PAID", "Pending"} {
		if err := s.Validate(); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("%q should be rejected, got %v", s, err)
		}
	}
}

func TestValidatePage(t *testing.T) {
	for _, p := range []int{1, 2, 100} {
		if err := ValidatePage(p); err != nil {
			t.Fatalf("page %d should be valid: %v", p, err)
		}
	}
	for _, p := range []int{0, -1} {
		if err := ValidatePage(p); !errors.Is(err, ErrInvalidPage) {
			t.Fatalf("page %d should be rejected, got %v", p, err)
		}
	}
}

func TestOffset(t *testing.T) {
	cases := []struct{ page, offset int }{
		{1, 0},
		{2, 6},
		{5, 24},
	}
	for _, tc := range cases {
		if got := Offset(tc.page); got != tc.offset {
			t.Fatalf("Offset(%d) = %d, want %d", tc.page, got, tc.offset)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ matching, pages int }{
		{0, 0},
		{1, 1},
		{6, 1},
		{7, 2},
		{12, 2},
		{13, 3},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.matching); got != tc.pages {
			t.Fatalf("TotalPages(%d) = %d, want %d", tc.matching, got, tc.pages)
		}
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID("3958dc9e-712f-4377-85e9-fec4b6a6442a"); err != nil {
		t.Fatalf("uuid should be valid: %v", err)
	}
	for _, id := range []string{"", "42", "not-a-uuid", "'; DROP TABLE invoices;--"} {
		if err := ValidateID(id); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("%q should be rejected, got %v", id, err)
		}
	}
}

func TestInvoiceUpdateValidate(t *testing.T) {
	valid := InvoiceUpdate{
		CustomerID: "3958dc9e-712f-4377-85e9-fec4b6a6442a",
		Amount:     105.99,
		Status:     StatusPaid,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid update rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*InvoiceUpdate)
		want   error
	}{
		{"empty customer", func(u *InvoiceUpdate) { u.CustomerID = " " }, ErrEmptyCustomer},
		{"bad status", func(u *InvoiceUpdate) { u.Status = "overdue" }, ErrInvalidStatus},
		{"zero amount", func(u *InvoiceUpdate) { u.Amount = 0 }, ErrInvalidAmount},
		{"negative amount", func(u *InvoiceUpdate) { u.Amount = -3 }, ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := valid
			tc.mutate(&u)
			if err := u.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-15")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if d.String() != "2024-06-15" {
		t.Fatalf("date did not round trip: %q", d.String())
	}
	if _, err := ParseDate("15/06/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("connection refused")
	dae := NewDataAccessError("fetch_revenue", "Failed to fetch revenue.", cause)
	if dae.Error() != "Failed to fetch revenue." {
		t.Fatalf("user-facing message leaked detail: %q", dae.Error())
	}
	if !errors.Is(dae, cause) {
		t.Fatal("cause should be reachable via Unwrap")
	}
	if !IsDataAccess(dae) || IsValidation(dae) {
		t.Fatal("taxonomy misclassified DataAccessError")
	}

	ve := NewValidationError("status", ErrInvalidStatus)
	if !IsValidation(ve) || IsDataAccess(ve) {
		t.Fatal("taxonomy misclassified ValidationError")
	}
	if !errors.Is(ve, ErrInvalidStatus) {
		t.Fatal("validation reason should be reachable via Unwrap")
	}
}
