package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	applog "receita/internal/log"
	"receita/internal/middleware/ratelimit"
	"receita/internal/middleware/security"
	"receita/internal/middleware/trace"
	"receita/internal/report"
	appweb "receita/web"
)

// ReportProvider is the read side the handlers depend on.
type ReportProvider interface {
	Ready() bool
	Options() (report.FilterOptions, error)
	DefaultCriteria() (report.Criteria, error)
	Report(ctx context.Context, c report.Criteria) (report.Report, bool, error)
}

// Config holds the HTTP server settings.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	// TrustProxy rewrites RemoteAddr from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
	Logger     *applog.Logger
}

type Server struct {
	http.Server
	templates *template.Template
	reports   ReportProvider
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	logger    *applog.Logger
}

// NewServer parses the embedded templates and mounts every route.
func NewServer(cfg Config, reports ReportProvider) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	s := &Server{
		templates: t,
		reports:   reports,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		tracer:    trace.NewMiddleware(logger, clientIP),
		logger:    logger,
	}

	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.tracer.Handler)
	r.Use(middleware.Recoverer)
	r.Use(security.Headers(security.DefaultHeadersConfig()))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	r.With(security.StaticAssetMiddleware(3600)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleIndex)
	r.Get("/ui/report", s.handleReportPartial)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware(clientIP, func(w http.ResponseWriter, r *http.Request) {
			applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).
				WarnContext(r.Context(), "Rate limit exceeded", applog.FieldClientIP, clientIP(r))
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
		}))
		r.Get("/report", s.handleAPIReport)
		r.Get("/options", s.handleAPIOptions)
	})

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// RunMaintenance prunes rate limiter state until ctx is done.
func (s *Server) RunMaintenance(ctx context.Context) {
	s.limiter.Run(ctx)
}

// Metrics returns the request and rate limiting counters.
func (s *Server) Metrics() (trace.Metrics, ratelimit.Metrics) {
	return s.tracer.GetMetrics(), s.limiter.GetMetrics()
}

// clientIP returns the host part of RemoteAddr. Behind a trusted proxy
// middleware.RealIP has already replaced it with the forwarded address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
