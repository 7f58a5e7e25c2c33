package http

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"invodash/internal/core"
	"invodash/internal/log"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"currency": func(m core.Money) string { return core.FormatCurrency(m.Cents) },
		"date":     func(d core.Date) string { return d.String() },
		"add":      func(a, b int) int { return a + b },
	}
}

// render executes a named template, falling back to a plain 500 when
// execution itself fails mid-write.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "template execution failed",
			log.FieldPath, r.URL.Path,
			log.FieldError, err.Error())
	}
}

// renderError maps the error taxonomy onto HTTP statuses. Validation
// problems are the caller's fault; data-access failures surface only
// their user-safe message, never the underlying cause.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		http.Error(w, ve.Error(), http.StatusBadRequest)
		return
	}
	var dae *core.DataAccessError
	if errors.As(err, &dae) {
		http.Error(w, dae.Message, http.StatusInternalServerError)
		return
	}
	log.FromContext(r.Context()).ErrorContext(r.Context(), "unclassified handler error",
		log.FieldPath, r.URL.Path,
		log.FieldError, err.Error())
	http.Error(w, "Something went wrong.", http.StatusInternalServerError)
}

// pageParam reads the 1-based page query parameter, defaulting to 1
// when absent. A non-numeric value is reported as a validation problem
// rather than silently coerced.
func pageParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.NewValidationError("page", core.ErrInvalidPage)
	}
	return page, nil
}

func queryParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("query"))
}

// dismissTarget decides where a closed overlay returns to. Only local
// paths are honored so the redirect cannot leave the site.
func dismissTarget(r *http.Request) string {
	for _, candidate := range []string{r.FormValue("return_to"), r.Referer()} {
		if strings.HasPrefix(candidate, "/") && !strings.HasPrefix(candidate, "//") {
			return candidate
		}
	}
	return "/invoices"
}
