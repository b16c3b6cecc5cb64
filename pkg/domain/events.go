package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventToolCall   EventType = "tool_call"
	EventToolReturn EventType = "tool_return"
)

// ToolEvent represents one tool invocation.
type ToolEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	ToolName  string        `json:"tool_name"`
	Duration  time.Duration `json:"duration,omitempty"`
	IsError   bool          `json:"is_error,omitempty"`
	ErrorKind string        `json:"error_kind,omitempty"`
}

// LifecycleHooks defines callbacks for invocation observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnToolCall   func(context.Context, *ToolEvent)
	OnToolReturn func(context.Context, *ToolEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnToolCall:   chain(h.OnToolCall, other.OnToolCall),
		OnToolReturn: chain(h.OnToolReturn, other.OnToolReturn),
	}
}

func chain(a, b func(context.Context, *ToolEvent)) func(context.Context, *ToolEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *ToolEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
