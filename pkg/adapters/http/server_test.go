package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/toolshed"
	httpAdapter "github.com/aretw0/toolshed/pkg/adapters/http"
	"github.com/aretw0/toolshed/pkg/adapters/memory"
	"github.com/aretw0/toolshed/pkg/observability"
	"github.com/aretw0/toolshed/pkg/ports"
	"github.com/aretw0/toolshed/pkg/seo"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSite = seo.Site{Name: "Toolshed", BaseURL: "https://tools.example", Description: "Small tools.", Locale: "en_US"}

func newHandler(t *testing.T, opts ...httpAdapter.Option) http.Handler {
	t.Helper()
	opts = append([]httpAdapter.Option{httpAdapter.WithSite(testSite), httpAdapter.WithVersion("1.2.3")}, opts...)
	h, err := httpAdapter.NewHandler(toolshed.New(), opts...)
	require.NoError(t, err)
	return h
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httpAdapter.ErrorDetail {
	t.Helper()
	var body httpAdapter.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Error
}

func TestInvokeTool(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodPost, "/api/tools/base64-encode", `{"text":"hi??"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Tool   string `json:"tool"`
		Result string `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "base64-encode", body.Tool)
	assert.Equal(t, "aGk/Pw==", body.Result)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestInvokeTool_NumbersBindToIntegers(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodPost, "/api/tools/uuid", `{"version":"nil","count":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Result []string `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{
		"00000000-0000-0000-0000-000000000000",
		"00000000-0000-0000-0000-000000000000",
	}, body.Result)
}

func TestInvokeTool_Errors(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name   string
		target string
		body   string
		status int
		kind   string
	}{
		{"parse error", "/api/tools/json-format", `{"text":"{\"a\":}"}`, http.StatusUnprocessableEntity, "parse"},
		{"decode error", "/api/tools/base64-decode", `{"text":"@@@"}`, http.StatusUnprocessableEntity, "decode"},
		{"missing argument", "/api/tools/base64-encode", `{}`, http.StatusUnprocessableEntity, "config"},
		{"unknown argument", "/api/tools/base64-encode", `{"text":"a","bogus":1}`, http.StatusUnprocessableEntity, "config"},
		{"unknown tool", "/api/tools/nope", `{}`, http.StatusNotFound, "not_found"},
		{"malformed body", "/api/tools/base64-encode", `{"text":`, http.StatusBadRequest, "request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			d := decodeError(t, w)
			assert.Equal(t, tt.kind, d.Kind)
			assert.NotEmpty(t, d.Message)
		})
	}
}

func TestInvokeTool_ParseErrorPosition(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodPost, "/api/tools/json-format", `{"text":"{\"a\":}"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	d := decodeError(t, w)
	require.NotNil(t, d.Offset)
	assert.Equal(t, 5, *d.Offset)
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 6, d.Column)
}

func TestInvokeTool_ConfigErrorField(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodPost, "/api/tools/base64-encode", `{}`)
	d := decodeError(t, w)
	assert.Equal(t, "text", d.Field)
}

func TestInvokeTool_BodyTooLarge(t *testing.T) {
	h := newHandler(t, httpAdapter.WithMaxBodyBytes(16))

	w := do(h, http.MethodPost, "/api/tools/base64-encode", `{"text":"`+strings.Repeat("a", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "request", decodeError(t, w).Kind)
}

func TestInvokeTool_RateLimited(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	limiter := memory.NewLimiter(ports.Quota{Limit: 1, Window: time.Minute}, memory.WithClock(clock))
	h := newHandler(t, httpAdapter.WithLimiter(limiter), httpAdapter.WithClock(clock))

	first := do(h, http.MethodPost, "/api/tools/base64-encode", `{"text":"a"}`)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := do(h, http.MethodPost, "/api/tools/base64-encode", `{"text":"a"}`)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decodeError(t, second).Kind)

	// Reads are not limited.
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/tools", "").Code)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ports.Decision, error) {
	return ports.Decision{}, errors.New("backend down")
}

func TestInvokeTool_LimiterFailureLetsRequestsThrough(t *testing.T) {
	h := newHandler(t, httpAdapter.WithLimiter(failingLimiter{}))

	w := do(h, http.MethodPost, "/api/tools/base64-encode", `{"text":"a"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListAndDescribeTools(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodGet, "/api/tools", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Tools []struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Tools, 26)

	w = do(h, http.MethodGet, "/api/tools/slugify", "")
	require.Equal(t, http.StatusOK, w.Code)
	var tool struct {
		Slug   string `json:"slug"`
		Params []struct {
			Name string `json:"name"`
		} `json:"params"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tool))
	assert.Equal(t, "slug-generator", tool.Slug)
	assert.NotEmpty(t, tool.Params)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/tools/nope", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodOptions, "/api/tools/base64-encode", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestToolPage(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodGet, "/base64-encoder", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "<title>Base64 Encoder | Toolshed</title>")
	assert.Contains(t, body, `<link rel="canonical" href="https://tools.example/base64-encoder">`)
	assert.Contains(t, body, `<script type="application/ld+json">{"@context":"https://schema.org"`)
	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, `name="text"`)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/no-such-tool", "").Code)
}

func TestToolPageSubmit(t *testing.T) {
	h := newHandler(t)

	submit := func(slug string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/"+slug, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := submit("base64-encoder", url.Values{"text": {"hi??"}, "variant": {"std"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<pre id="result">aGk/Pw==</pre>`)

	w = submit("json-formatter", url.Values{"text": {"{"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `class="error"`)

	w = submit("markdown-to-html", url.Values{"text": {"# Hi <script>x</script>"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<div class="preview"><h1>Hi`)
	assert.NotContains(t, w.Body.String(), "<script>x")
}

func TestIndexPage(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<h2>Encoders &amp; Decoders</h2>")
	assert.Contains(t, body, "<h2>Date &amp; Time</h2>")
	assert.Contains(t, body, `<a href="/word-counter">Word Counter</a>`)
	assert.Less(t, strings.Index(body, "Encoders &amp; Decoders"), strings.Index(body, "<h2>Text</h2>"))
}

func TestSitemapAndRobots(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodGet, "/sitemap.xml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<loc>https://tools.example/base64-encoder</loc>")

	w = do(h, http.MethodGet, "/robots.txt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sitemap: https://tools.example/sitemap.xml")
}

func TestSubdomainRedirects(t *testing.T) {
	h := newHandler(t, httpAdapter.WithSubdomainRedirects("tools.example"))

	tests := []struct {
		host     string
		location string
	}{
		{"base64-encoder.tools.example", "https://tools.example/base64-encoder"},
		{"Word-Counter.tools.example:8080", "https://tools.example/word-counter"},
		{"unknown.tools.example", "https://tools.example/"},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, http.StatusMovedPermanently, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}

	for _, host := range []string{"tools.example", "www.tools.example", "other.example"} {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Host = host
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, host)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	h := newHandler(t)

	w := do(h, http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, w.Code)

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(w.Body.Bytes())
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	assert.Equal(t, "1.2.3", doc.Info.Version)
	item := doc.Paths.Find("/api/tools/json-format")
	require.NotNil(t, item)
	require.NotNil(t, item.Post)
	schema := item.Post.RequestBody.Value.Content.Get("application/json").Schema.Value
	assert.Contains(t, schema.Required, "text")
	assert.Contains(t, schema.Properties, "sort_keys")
}

func TestOpenAPI_ValidatesForCatalog(t *testing.T) {
	doc := httpAdapter.OpenAPI(toolshed.New().Tools(), "0.0.0")
	require.NoError(t, doc.Validate(context.Background()))
	assert.Equal(t, 28, doc.Paths.Len())
}

func TestHealthAndInfo(t *testing.T) {
	h := newHandler(t)
	w := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(h, http.MethodGet, "/info", "")
	assert.JSONEq(t, `{"app":"toolshed","version":"1.2.3","api_version":"v1","tools":26}`, w.Body.String())

	h = newHandler(t, httpAdapter.WithHealthCheck("redis", func(context.Context) error {
		return errors.New("connection refused")
	}))
	w = do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"redis":"connection refused"}}`, w.Body.String())
}

func TestWhoAmI(t *testing.T) {
	h := newHandler(t, httpAdapter.WithTrustProxy(true))

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "curl/8.0")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ip":"203.0.113.7","user_agent":"curl/8.0"}`, w.Body.String())

	// Without a trusted proxy the header is ignored.
	h = newHandler(t)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.JSONEq(t, `{"ip":"192.0.2.1","user_agent":"curl/8.0"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	m := observability.NewMetrics()
	h, err := httpAdapter.NewHandler(toolshed.New(toolshed.WithMetrics(m)), httpAdapter.WithMetrics(m))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/tools/base64-encode", `{"text":"a"}`).Code)

	w := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `toolshed_http_requests_total{code="200",method="POST",route="/api/tools/{name}"} 1`)
	assert.Contains(t, body, `toolshed_tool_invocations_total{outcome="ok",tool="base64-encode"} 1`)
}
