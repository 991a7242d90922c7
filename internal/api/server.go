package api

import (
	"log/slog"
	"net/http"

	"github.com/blauwers/receiptd/internal/config"
	"github.com/blauwers/receiptd/internal/ledger"
	"github.com/blauwers/receiptd/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for receiptd.
type Server struct {
	router   chi.Router
	spooler  *pipeline.Spooler
	printers []config.Printer
	ledger   *ledger.Ledger
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. led is nil when the
// ledger is disabled; the history endpoint then answers 503.
func NewServer(sp *pipeline.Spooler, printers []config.Printer, led *ledger.Ledger, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		spooler:  sp,
		printers: printers,
		ledger:   led,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/print", s.handlePrint)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Post("/api/preview", s.handlePreview)

		r.Get("/api/printers", s.handleListPrinters)
		r.Get("/api/actions", s.handleListActions)
		r.Get("/api/history", s.handleHistory)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
