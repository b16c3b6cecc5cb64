package ports

import (
	"context"

	"github.com/aretw0/toolshed/pkg/domain"
)

// ToolInvoker is the interface the front-end adapters (HTTP, MCP, CLI) depend on.
type ToolInvoker interface {
	// Invoke validates args against the named tool's parameters and runs it.
	Invoke(ctx context.Context, name string, args map[string]any) (any, error)

	// Tools lists every tool in display order.
	Tools() []domain.Tool

	// Lookup finds a tool by registry name.
	Lookup(name string) (domain.Tool, bool)

	// LookupSlug finds a tool by its page slug.
	LookupSlug(slug string) (domain.Tool, bool)
}
