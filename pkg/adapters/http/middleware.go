package http

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/toolshed/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// enableCORS opens the JSON API to browser clients on other origins.
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Expose-Headers", "Retry-After, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// redirectSubdomains sends {slug}.{host} to {base}/{slug}. Unknown
// subdomains land on the index. Requests for host itself pass through.
func (s *Server) redirectSubdomains(next http.Handler) http.Handler {
	suffix := "." + strings.ToLower(s.canonicalHost)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		host := strings.ToLower(r.Host)
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		label, ok := strings.CutSuffix(host, suffix)
		if !ok || label == "" || label == "www" || strings.Contains(label, ".") {
			next.ServeHTTP(w, r)
			return
		}

		target := strings.TrimRight(s.site.BaseURL, "/") + "/"
		if tool, found := s.tools.LookupSlug(label); found {
			target += tool.Slug
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})
}

// rateLimit enforces the configured quota per client address. Limiter
// failures are logged and the request is let through.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, err := s.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			s.logger.WarnContext(r.Context(), "rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
		if !d.Allowed {
			h.Set("Retry-After", strconv.Itoa(int(d.RetryAfter(s.now()).Seconds())))
			s.writeError(w, r, ports.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody caps request bodies at s.maxBody bytes.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
		}
		next.ServeHTTP(w, r)
	})
}

// routePattern reports the chi pattern matched for r, used as a metrics label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

// clientIP returns the caller address. X-Forwarded-For and X-Real-IP are
// honoured only when the server is configured behind a proxy, in which case
// chi's RealIP middleware has already rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
