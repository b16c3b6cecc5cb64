package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/aretw0/toolshed/pkg/ports"
	"github.com/aretw0/toolshed/pkg/registry"
)

// ErrorBody is the JSON error envelope of the tool API.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure. Position fields are set for parse and decode errors.
type ErrorDetail struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	Offset   *int   `json:"offset,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Expected string `json:"expected,omitempty"`
	Found    string `json:"found,omitempty"`
}

// errBadRequest marks request bodies that could not be read as tool arguments.
var errBadRequest = errors.New("bad request")

func badBody(err error) error {
	return fmt.Errorf("%w: %w", errBadRequest, err)
}

// statusFor maps an invocation error onto an HTTP status code.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrToolNotFound):
		return http.StatusNotFound
	case errors.Is(err, ports.ErrRateLimited):
		return http.StatusTooManyRequests
	case domain.Kind(err) != "":
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// detailFor builds the error envelope contents for err.
func detailFor(err error) ErrorDetail {
	d := ErrorDetail{Kind: domain.Kind(err), Message: err.Error()}

	var (
		parseErr  *domain.ParseError
		decodeErr *domain.DecodeError
		configErr *domain.ConfigError
		tooLarge  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &parseErr):
		d.Line, d.Column = parseErr.Line, parseErr.Column
		d.Expected, d.Found = parseErr.Expected, parseErr.Found
		if parseErr.Offset >= 0 {
			d.Offset = &parseErr.Offset
		}
	case errors.As(err, &decodeErr):
		if decodeErr.Offset >= 0 {
			d.Offset = &decodeErr.Offset
		}
	case errors.As(err, &configErr):
		d.Field = configErr.Field
	case errors.As(err, &tooLarge):
		d.Kind = "request"
	}

	if d.Kind == "" {
		switch statusFor(err) {
		case http.StatusBadRequest:
			d.Kind = "request"
		case http.StatusNotFound:
			d.Kind = "not_found"
		case http.StatusTooManyRequests:
			d.Kind = "rate_limited"
		case http.StatusServiceUnavailable:
			d.Kind = "canceled"
		default:
			d.Kind = "internal"
			d.Message = "internal error"
		}
	}
	return d
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.DebugContext(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, ErrorBody{Error: detailFor(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
