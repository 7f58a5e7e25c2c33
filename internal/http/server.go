// Package http serves the rendered dashboard pages and wires the
// request middleware chain.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"invodash/internal/cache"
	"invodash/internal/core"
	"invodash/internal/log"
	"invodash/internal/middleware/security"
	"invodash/internal/services"
	"invodash/web"
)

// Service is the page-level data source. The invoice service satisfies
// it; handler tests substitute a fake.
type Service interface {
	Dashboard(ctx context.Context) (*services.DashboardData, error)
	Invoices(ctx context.Context, query string, page int) (*services.InvoicesPage, error)
	EditForm(ctx context.Context, id string) (*services.EditForm, error)
	Invoice(ctx context.Context, id string) (*core.InvoiceForm, error)
	Revenue(ctx context.Context) ([]core.Revenue, error)
	Customers(ctx context.Context, query string) ([]core.CustomerSummary, error)
	UpdateInvoice(ctx context.Context, id string, update core.InvoiceUpdate) error
	DeleteInvoice(ctx context.Context, id string) error
}

var _ Service = (*services.InvoiceService)(nil)

const revenueCacheKey = "revenue"

type Server struct {
	http.Server

	service   Service
	templates *template.Template
	logger    *log.Logger

	// The revenue series is pre-aggregated and changes rarely, so the
	// chart partial is served from a short-lived cache.
	revenueCache *cache.LRUCache[[]core.Revenue]
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(addr string, service Service, logger *log.Logger, revenueTTL time.Duration) (*Server, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		service:      service,
		templates:    t,
		logger:       logger.WithComponent(log.ComponentHTTP),
		revenueCache: cache.NewLRUCache[[]core.Revenue](4, revenueTTL),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(log.Middleware(s.logger))
	r.Use(security.Middleware(security.DefaultHeadersConfig()))

	r.Get("/", s.handleDashboard)
	r.Get("/dashboard", s.handleDashboard)
	r.Get("/dashboard/revenue-chart", s.handleRevenueChart)
	r.Get("/invoices", s.handleInvoices)
	r.Get("/invoices/{id}/edit", s.handleEditForm)
	r.Post("/invoices/{id}/edit", s.handleUpdateInvoice)
	r.Get("/invoices/{id}/delete", s.handleDeletePrompt)
	r.Post("/invoices/{id}/delete", s.handleDeleteConfirm)
	r.Post("/invoices/{id}/delete/cancel", s.handleDeleteCancel)
	r.Get("/customers", s.handleCustomers)
	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	if sub, err := fs.Sub(web.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, req)
		})
	} else {
		s.logger.Warn("failed to mount embedded static assets", log.FieldError, err.Error())
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s, nil
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// handleReady reports readiness by running the cheapest query path.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.service.Revenue(ctx); err != nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready\n"))
}
