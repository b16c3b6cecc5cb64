package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error categories. Every typed error below reports true for errors.Is
// against exactly one of these.
var (
	ErrDecode = errors.New("decode error")
	ErrParse  = errors.New("parse error")
	ErrConfig = errors.New("config error")
	ErrRange  = errors.New("range error")
)

// Decode kinds carried by DecodeError.
var (
	// ErrInvalidEncoding is returned for characters outside an alphabet or bad padding.
	ErrInvalidEncoding = errors.New("invalid encoding")
	// ErrInvalidStream is returned for corrupt, truncated or oversized compressed streams.
	ErrInvalidStream = errors.New("invalid stream")
	// ErrInvalidEscape is returned for malformed percent sequences or unknown entity/escape names.
	ErrInvalidEscape = errors.New("invalid escape")
)

// DecodeError reports malformed encoded input.
type DecodeError struct {
	Kind   error // one of ErrInvalidEncoding, ErrInvalidStream, ErrInvalidEscape
	Offset int   // byte offset into the input, -1 when unknown
	Err    error // underlying library error, if any
}

// NewDecodeError builds a DecodeError for kind at offset.
func NewDecodeError(kind error, offset int, err error) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Err: err}
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Offset >= 0 {
		b.WriteString(" at offset ")
		b.WriteString(strconv.Itoa(e.Offset))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ParseError reports malformed structured text.
// Offset is a byte offset; Line and Column are 1-based (Column counts bytes).
type ParseError struct {
	Offset   int
	Line     int
	Column   int
	Expected string
	Found    string
	Msg      string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d, column %d", e.Line, e.Column)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Expected != "" {
		b.WriteString(": expected ")
		b.WriteString(e.Expected)
		if e.Found != "" {
			b.WriteString(", found ")
			b.WriteString(e.Found)
		}
	}
	return b.String()
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ConfigError reports an invalid option value.
type ConfigError struct {
	Field  string
	Reason string
}

// NewConfigError builds a ConfigError.
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "invalid config: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// RangeError reports a numeric value outside representable bounds.
type RangeError struct {
	Value int64
	Min   int64
	Max   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %d out of range [%d, %d]", e.Value, e.Min, e.Max)
}

func (e *RangeError) Is(target error) bool { return target == ErrRange }

// Kind returns a short, stable name for the category of err
// ("decode", "parse", "config", "range") or "" when err is not a domain error.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, ErrRange):
		return "range"
	}
	return ""
}
