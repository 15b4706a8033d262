package server

import (
	"log/slog"
	"net/http"

	"github.com/precinctlabs/impact/internal/gate"
	"github.com/precinctlabs/impact/internal/handler"
	"github.com/precinctlabs/impact/internal/limiter"
	"github.com/precinctlabs/impact/internal/metrics"
	"github.com/precinctlabs/impact/internal/middleware"
	"github.com/precinctlabs/impact/internal/storage"
	"github.com/precinctlabs/impact/internal/store"
)

type Server struct {
	marketingH *handler.MarketingHandler
	reportH    *handler.ReportHandler
	logger     *slog.Logger
}

// New wires the authorization gate and handlers. audit may be nil when
// the audit database is disabled.
func New(reports *storage.Store, lim limiter.Limiter, audit *store.AccessEventStore, secureCookies bool, logger *slog.Logger) *Server {
	var auditStore gate.AuditStore
	if audit != nil {
		auditStore = audit
	}
	g := gate.New(reports, lim, auditStore, logger.With("component", "gate"))

	return &Server{
		marketingH: handler.NewMarketingHandler(logger.With("component", "marketing")),
		reportH:    handler.NewReportHandler(g, secureCookies, logger.With("component", "report")),
		logger:     logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.marketingH.Landing)
	mux.HandleFunc("GET /health", s.marketingH.Health)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	// JSON actions used by the report pages
	mux.HandleFunc("POST /api/impact/verify", s.reportH.Verify)
	mux.HandleFunc("POST /api/impact/document-link", s.reportH.DocumentLink)

	// Document proxy, used where signed URLs are unavailable
	mux.HandleFunc("GET /api/pdf/{org}/{id}", s.reportH.ProxyPDF)

	// Report viewer. The literal routes above are more specific and
	// take precedence over the wildcard segments.
	mux.HandleFunc("GET /{org}/{id}", s.reportH.ViewPage)

	var h http.Handler = mux
	h = metrics.Instrument(h)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}
