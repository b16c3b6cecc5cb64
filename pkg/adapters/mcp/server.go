package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/aretw0/toolshed/pkg/ports"
	"github.com/aretw0/toolshed/pkg/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogURI is the resource listing every tool descriptor.
const CatalogURI = "toolshed://catalog"

// nonIdempotent tools produce fresh output on every call.
var nonIdempotent = map[string]bool{"uuid": true, "password": true, "lorem": true}

// Server exposes every tool of a ToolInvoker as an MCP tool.
type Server struct {
	tools     ports.ToolInvoker
	logger    *slog.Logger
	version   string
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. It must not write to stdout when serving stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithVersion sets the version announced during initialization.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = strings.TrimSpace(v) }
}

// NewServer creates a new MCP Server instance.
func NewServer(tools ports.ToolInvoker, opts ...Option) *Server {
	s := &Server{
		tools:   tools,
		logger:  slog.Default(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("toolshed", s.version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithInstructions("Deterministic developer utilities. Binary data is exchanged as base64 text."),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))
	return s.serve(ctx, addr, "sse", mux)
}

// ServeStreamableHTTP serves the streamable HTTP transport on addr under /mcp until ctx is done.
func (s *Server) ServeStreamableHTTP(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", corsMiddleware(server.NewStreamableHTTPServer(s.mcpServer)))
	return s.serve(ctx, addr, "http", mux)
}

func (s *Server) serve(ctx context.Context, addr, transport string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening", "transport", transport, "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id, Mcp-Protocol-Version")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	for _, tool := range s.tools.Tools() {
		s.mcpServer.AddTool(Tool(tool), s.handler(tool.Name))
	}
}

// Tool builds the MCP tool definition for a catalog tool.
func Tool(t domain.Tool) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(t.Description),
		mcp.WithTitleAnnotation(t.Title),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(!nonIdempotent[t.Name]),
		mcp.WithOpenWorldHintAnnotation(false),
	}
	for _, p := range t.Params {
		opts = append(opts, param(p))
	}
	return mcp.NewTool(t.Name, opts...)
}

func param(p domain.Param) mcp.ToolOption {
	props := []mcp.PropertyOption{mcp.Description(p.Description)}
	if p.Required {
		props = append(props, mcp.Required())
	}

	switch p.Type {
	case domain.ParamInteger:
		if n, ok := toFloat(p.Default); ok {
			props = append(props, mcp.DefaultNumber(n))
		}
		return mcp.WithNumber(p.Name, props...)
	case domain.ParamBoolean:
		if b, ok := p.Default.(bool); ok {
			props = append(props, mcp.DefaultBool(b))
		}
		return mcp.WithBoolean(p.Name, props...)
	default:
		if len(p.Enum) > 0 {
			props = append(props, mcp.Enum(p.Enum...))
		}
		if str, ok := p.Default.(string); ok {
			props = append(props, mcp.DefaultString(str))
		}
		return mcp.WithString(p.Name, props...)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// handler invokes the named tool. Input errors become tool results with
// IsError set so the model can correct its call; anything else is a protocol error.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.tools.Invoke(ctx, name, request.GetArguments())
		if err != nil {
			if domain.Kind(err) != "" || errors.Is(err, registry.ErrToolNotFound) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			s.logger.ErrorContext(ctx, "MCP tool call failed", "tool", name, "error", err)
			return nil, err
		}
		text, err := ResultText(result)
		if err != nil {
			return nil, fmt.Errorf("%s: encode result: %w", name, err)
		}
		return mcp.NewToolResultText(text), nil
	}
}

// ResultText renders a tool result as MCP text content. Strings and
// Stringers are used as they are; everything else is indented JSON.
func ResultText(result any) (string, error) {
	switch v := result.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Tool catalog",
		mcp.WithResourceDescription("Every tool with its parameters."),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.tools.Tools())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
