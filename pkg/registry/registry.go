package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/toolshed/pkg/domain"
)

// ErrToolNotFound is returned by Execute for names that were never registered.
var ErrToolNotFound = errors.New("tool not found")

// ToolFunction defines the signature for a tool implementation.
// It receives a context and a map of arguments, and returns a result or error.
type ToolFunction func(ctx context.Context, args map[string]any) (any, error)

type entry struct {
	tool domain.Tool
	fn   ToolFunction
}

// Registry manages the available tools.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]entry
	bySlug map[string]string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:  make(map[string]entry),
		bySlug: make(map[string]string),
	}
}

// Register adds a tool to the registry.
// If a tool with the same name exists, it is overwritten. An empty slug defaults to the name.
func (r *Registry) Register(tool domain.Tool, fn ToolFunction) {
	if tool.Slug == "" {
		tool.Slug = tool.Name
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.tools[tool.Name]; ok {
		delete(r.bySlug, old.tool.Slug)
	}
	r.tools[tool.Name] = entry{tool: tool, fn: fn}
	r.bySlug[tool.Slug] = tool.Name
}

// Execute looks up a tool by name, validates args against its parameters,
// fills defaults and runs it.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	e, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	args, err := Prepare(e.tool, args)
	if err != nil {
		return nil, err
	}
	return e.fn(ctx, args)
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (domain.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	return e.tool, ok
}

// LookupSlug returns the descriptor whose page slug is slug.
func (r *Registry) LookupSlug(slug string) (domain.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.bySlug[slug]
	if !ok {
		return domain.Tool{}, false
	}
	return r.tools[name].tool, true
}

// List returns every descriptor ordered by category, then name.
func (r *Registry) List() []domain.Tool {
	r.mu.RLock()
	out := make([]domain.Tool, 0, len(r.tools))
	for _, e := range r.tools {
		out = append(out, e.tool)
	}
	r.mu.RUnlock()

	order := map[domain.Category]int{}
	for i, c := range domain.Categories() {
		order[c] = i
	}
	slices.SortFunc(out, func(a, b domain.Tool) int {
		if d := rank(order, a.Category) - rank(order, b.Category); d != 0 {
			return d
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func rank(order map[domain.Category]int, c domain.Category) int {
	if i, ok := order[c]; ok {
		return i
	}
	return len(order)
}

// Prepare checks args against tool.Params and returns a copy with defaults applied.
// Unknown names, missing required values and values outside an enum are config errors.
func Prepare(tool domain.Tool, args map[string]any) (map[string]any, error) {
	known := make(map[string]domain.Param, len(tool.Params))
	for _, p := range tool.Params {
		known[p.Name] = p
	}
	out := make(map[string]any, len(tool.Params))
	for k, v := range args {
		if _, ok := known[k]; !ok {
			return nil, domain.NewConfigError(k, "unknown parameter for tool %s", tool.Name)
		}
		out[k] = v
	}
	for _, p := range tool.Params {
		v, present := out[p.Name]
		if !present || v == nil {
			if p.Required {
				return nil, domain.NewConfigError(p.Name, "is required")
			}
			if p.Default != nil {
				out[p.Name] = p.Default
			}
			continue
		}
		if len(p.Enum) > 0 {
			s, ok := v.(string)
			if !ok || !slices.Contains(p.Enum, s) {
				return nil, domain.NewConfigError(p.Name, "must be one of %s, got %v", strings.Join(p.Enum, ", "), v)
			}
		}
	}
	return out, nil
}

// Bind decodes args into the struct pointed to by out using mapstructure tags.
// Input is weakly typed so JSON numbers and query-string values both bind to ints and bools.
func Bind(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	if err := dec.Decode(args); err != nil {
		var me *mapstructure.Error
		if errors.As(err, &me) && len(me.Errors) > 0 {
			return domain.NewConfigError("", "%s", me.Errors[0])
		}
		return domain.NewConfigError("", "%s", err.Error())
	}
	return nil
}
