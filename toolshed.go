package toolshed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/toolshed/pkg/catalog"
	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/aretw0/toolshed/pkg/registry"
)

// Toolbox is the high-level entry point for the toolshed library.
// It owns a registry holding every catalog tool and wraps each invocation
// with logging and lifecycle hooks.
type Toolbox struct {
	registry *registry.Registry
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
	extra    []catalog.Definition
}

// Option defines a functional option for configuring the Toolbox.
type Option func(*Toolbox)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Toolbox) {
		t.logger = logger
	}
}

// WithHooks registers observability hooks. Repeated calls are merged in order.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Toolbox) {
		t.hooks = t.hooks.Merge(hooks)
	}
}

// HookProvider is anything that exposes lifecycle hooks, such as observability.Metrics.
type HookProvider interface {
	Hooks() domain.LifecycleHooks
}

// WithMetrics records every invocation with m.
func WithMetrics(m HookProvider) Option {
	return func(t *Toolbox) {
		t.hooks = t.hooks.Merge(m.Hooks())
	}
}

// WithTool registers an additional tool next to the catalog. It replaces a
// catalog tool of the same name.
func WithTool(tool domain.Tool, fn registry.ToolFunction) Option {
	return func(t *Toolbox) {
		t.extra = append(t.extra, catalog.Definition{Tool: tool, Fn: fn})
	}
}

// WithClock overrides the time source used for event timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(t *Toolbox) {
		t.now = now
	}
}

// New builds a Toolbox with every catalog tool registered.
func New(opts ...Option) *Toolbox {
	t := &Toolbox{
		registry: registry.NewRegistry(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	catalog.Register(t.registry)
	for _, d := range t.extra {
		t.registry.Register(d.Tool, d.Fn)
	}
	return t
}

// Invoke runs the named tool with args. Arguments are validated against the
// tool's parameters and defaults are applied before the tool runs.
func (t *Toolbox) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := t.now()
	if t.hooks.OnToolCall != nil {
		t.hooks.OnToolCall(ctx, &domain.ToolEvent{
			Timestamp: start,
			Type:      domain.EventToolCall,
			ToolName:  name,
		})
	}

	result, err := t.registry.Execute(ctx, name, args)

	elapsed := t.now().Sub(start)
	evt := &domain.ToolEvent{
		Timestamp: start.Add(elapsed),
		Type:      domain.EventToolReturn,
		ToolName:  name,
		Duration:  elapsed,
		IsError:   err != nil,
		ErrorKind: errorKind(err),
	}
	if t.hooks.OnToolReturn != nil {
		t.hooks.OnToolReturn(ctx, evt)
	}

	if err != nil {
		t.logger.WarnContext(ctx, "tool failed", "tool", name, "kind", evt.ErrorKind, "duration", elapsed, "error", err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	t.logger.DebugContext(ctx, "tool invoked", "tool", name, "duration", elapsed)
	return result, nil
}

// errorKind extends domain.Kind with the failures the registry itself reports.
func errorKind(err error) string {
	if err == nil {
		return ""
	}
	if k := domain.Kind(err); k != "" {
		return k
	}
	switch {
	case errors.Is(err, registry.ErrToolNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "internal"
}

// Tools lists every registered tool ordered by category, then name.
func (t *Toolbox) Tools() []domain.Tool {
	return t.registry.List()
}

// Lookup returns the tool registered under name.
func (t *Toolbox) Lookup(name string) (domain.Tool, bool) {
	return t.registry.Lookup(name)
}

// LookupSlug returns the tool whose page slug is slug.
func (t *Toolbox) LookupSlug(slug string) (domain.Tool, bool) {
	return t.registry.LookupSlug(slug)
}

// Registry exposes the underlying registry for adapters.
func (t *Toolbox) Registry() *registry.Registry {
	return t.registry
}

// Logger returns the logger the Toolbox was configured with.
func (t *Toolbox) Logger() *slog.Logger {
	return t.logger
}
