package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/toolshed/pkg/observability"
	"github.com/aretw0/toolshed/pkg/ports"
	"github.com/aretw0/toolshed/pkg/registry"
	"github.com/aretw0/toolshed/pkg/seo"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultMaxBodyBytes caps request bodies unless WithMaxBodyBytes says otherwise.
const DefaultMaxBodyBytes = 1 << 20

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Server serves the tool pages and the JSON tool API.
type Server struct {
	tools   ports.ToolInvoker
	logger  *slog.Logger
	site    seo.Site
	version string

	limiter       ports.RateLimiter
	metrics       *observability.Metrics
	maxBody       int64
	canonicalHost string
	trustProxy    bool
	checks        map[string]HealthCheck
	now           func() time.Time

	openapi []byte
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithSite sets the name and base URL used for page metadata and the sitemap.
func WithSite(site seo.Site) Option {
	return func(s *Server) { s.site = site }
}

// WithVersion sets the version reported by /info and the OpenAPI document.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = strings.TrimSpace(v) }
}

// WithLimiter rate limits tool invocations per client address.
func WithLimiter(l ports.RateLimiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithMaxBodyBytes caps request bodies. Non-positive values keep the default.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithSubdomainRedirects redirects {slug}.host to the tool page on the base URL.
func WithSubdomainRedirects(host string) Option {
	return func(s *Server) { s.canonicalHost = strings.TrimSpace(host) }
}

// WithTrustProxy takes the client address from X-Forwarded-For and X-Real-IP.
func WithTrustProxy(trust bool) Option {
	return func(s *Server) { s.trustProxy = trust }
}

// WithHealthCheck adds a named check to /health.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(s *Server) { s.checks[name] = check }
}

// WithClock overrides the time source used for Retry-After.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer builds the router over tools.
func NewServer(tools ports.ToolInvoker, opts ...Option) (*Server, error) {
	s := &Server{
		tools:   tools,
		logger:  slog.Default(),
		site:    seo.Site{Name: "toolshed", BaseURL: "http://localhost:8080", Locale: "en_US"},
		version: "dev",
		maxBody: DefaultMaxBodyBytes,
		checks:  make(map[string]HealthCheck),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.site.Locale == "" {
		s.site.Locale = "en_US"
	}

	doc, err := json.Marshal(OpenAPI(tools.Tools(), s.version))
	if err != nil {
		return nil, fmt.Errorf("build openapi document: %w", err)
	}
	s.openapi = doc
	s.router = s.routes()
	return s, nil
}

// NewHandler is NewServer for callers that only need the http.Handler.
func NewHandler(tools ports.ToolInvoker, opts ...Option) (http.Handler, error) {
	return NewServer(tools, opts...)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.trustProxy {
		r.Use(middleware.RealIP)
	}
	if s.metrics != nil {
		r.Use(s.metrics.Middleware(routePattern))
	}
	if s.canonicalHost != "" {
		r.Use(s.redirectSubdomains)
	}
	r.Use(s.limitBody)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/robots.txt", s.handleRobots)
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Get("/openapi.json", s.handleOpenAPI)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(enableCORS)
		r.Get("/tools", s.ListTools)
		r.Get("/tools/{name}", s.DescribeTool)
		r.Get("/whoami", s.WhoAmI)
		r.Group(func(r chi.Router) {
			s.useLimiter(r)
			r.Post("/tools/{name}", s.InvokeTool)
		})
	})

	r.Get("/{slug}", s.handleToolPage)
	r.Group(func(r chi.Router) {
		s.useLimiter(r)
		r.Post("/{slug}", s.handleToolSubmit)
	})
	return r
}

func (s *Server) useLimiter(r chi.Router) {
	if s.limiter != nil {
		r.Use(s.rateLimit)
	}
}

// GetHealth runs every registered check. Any failure turns the response into a 503.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]any{"status": "ok"}
	if len(s.checks) > 0 {
		results := make(map[string]string, len(s.checks))
		for name, check := range s.checks {
			if err := check(r.Context()); err != nil {
				s.logger.WarnContext(r.Context(), "health check failed", "check", name, "error", err)
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				continue
			}
			results[name] = "ok"
		}
		body["checks"] = results
	}
	writeJSON(w, status, body)
}

// GetInfo reports the build and API versions.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":         "toolshed",
		"version":     s.version,
		"api_version": "v1",
		"tools":       len(s.tools.Tools()),
	})
}

// ListTools returns every tool descriptor.
func (s *Server) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.tools.Tools()})
}

// DescribeTool returns one tool descriptor.
func (s *Server) DescribeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tool, ok := s.tools.Lookup(name)
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: %s", registry.ErrToolNotFound, name))
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

// InvokeTool runs a tool with the JSON object in the request body as arguments.
// An empty body means no arguments.
func (s *Server) InvokeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var args map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil && err != io.EOF {
		s.writeError(w, r, badBody(err))
		return
	}

	result, err := s.tools.Invoke(r.Context(), name, args)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tool": name, "result": result})
}

// WhoAmI echoes the caller's address and user agent.
func (s *Server) WhoAmI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ip":         clientIP(r),
		"user_agent": r.UserAgent(),
	})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.openapi)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	b, err := seo.Sitemap(s.site, s.tools.Tools(), time.Time{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(b)
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, seo.Robots(s.site))
}
