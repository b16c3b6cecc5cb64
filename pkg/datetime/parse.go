package datetime

import (
	"strings"
	"time"

	"github.com/aretw0/toolshed/pkg/domain"
)

// layouts accepted by ParseDateTime, most specific first.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseDateTime parses an RFC 3339 timestamp, or a date with optional time
// interpreted in loc when it carries no offset.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &domain.ParseError{
		Offset:   -1,
		Expected: "date (YYYY-MM-DD) or date-time (RFC 3339)",
		Found:    "\"" + s + "\"",
	}
}

// FormatDateTime renders t as RFC 3339 with seconds precision.
func FormatDateTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
