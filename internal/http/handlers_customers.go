package http

import (
	"net/http"

	"invodash/internal/core"
)

// customersPage carries the table rows plus the active filter so the
// search box can echo it back.
type customersPage struct {
	Query     string
	Customers []core.CustomerSummary
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	query := queryParam(r)
	customers, err := s.service.Customers(r.Context(), query)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "customers.html", customersPage{Query: query, Customers: customers})
}
