package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"invodash/internal/core"
	"invodash/internal/modal"
)

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	data, err := s.service.Invoices(r.Context(), queryParam(r), page)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "invoices.html", data)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.service.EditForm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if form == nil {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, "invoice_edit.html", form)
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	update, err := parseInvoiceUpdate(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	if err := s.service.UpdateInvoice(r.Context(), id, update); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/invoices", http.StatusSeeOther)
}

// deletePrompt is the data backing the confirmation overlay.
type deletePrompt struct {
	Invoice  *core.InvoiceForm
	ReturnTo string
}

func (s *Server) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	invoice, err := s.service.Invoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if invoice == nil {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, "invoice_delete.html", deletePrompt{
		Invoice:  invoice,
		ReturnTo: dismissTarget(r),
	})
}

// handleDeleteConfirm drives the overlay through its confirmed
// lifecycle. The dismissal callback owns the redirect back to the view
// the overlay was opened from.
func (s *Server) handleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	target := dismissTarget(r)

	m := modal.New(func() {
		http.Redirect(w, r, target, http.StatusSeeOther)
	})
	if err := runSteps(m.Show, m.Confirm); err != nil {
		s.renderError(w, r, err)
		return
	}
	if err := s.service.DeleteInvoice(r.Context(), id); err != nil {
		s.renderError(w, r, err)
		return
	}
	if err := runSteps(m.Complete, m.Dismiss); err != nil {
		s.renderError(w, r, err)
	}
}

func (s *Server) handleDeleteCancel(w http.ResponseWriter, r *http.Request) {
	target := dismissTarget(r)

	m := modal.New(func() {
		http.Redirect(w, r, target, http.StatusSeeOther)
	})
	if err := runSteps(m.Show, m.Cancel, m.Dismiss); err != nil {
		s.renderError(w, r, err)
	}
}

func runSteps(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// parseInvoiceUpdate extracts the editable fields from the submitted
// form. The amount arrives as a decimal string and is normalized
// through minor units so 666.12 stores as exactly 66612 cents.
func parseInvoiceUpdate(r *http.Request) (core.InvoiceUpdate, error) {
	if err := r.ParseForm(); err != nil {
		return core.InvoiceUpdate{}, core.NewValidationError("form", err)
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.PostFormValue("amount")))
	if err != nil {
		return core.InvoiceUpdate{}, core.NewValidationError("amount", err)
	}

	update := core.InvoiceUpdate{
		CustomerID: strings.TrimSpace(r.PostFormValue("customer_id")),
		Amount:     core.MinorToMajor(cents),
		Status:     core.InvoiceStatus(r.PostFormValue("status")),
	}
	if err := update.Validate(); err != nil {
		return core.InvoiceUpdate{}, core.NewValidationError("invoice", err)
	}
	return update, nil
}
