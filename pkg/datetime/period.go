package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/toolshed/pkg/domain"
)

// Period is a calendar duration. Fields may be negative.
type Period struct {
	Years   int `json:"years,omitempty" mapstructure:"years"`
	Months  int `json:"months,omitempty" mapstructure:"months"`
	Weeks   int `json:"weeks,omitempty" mapstructure:"weeks"`
	Days    int `json:"days,omitempty" mapstructure:"days"`
	Hours   int `json:"hours,omitempty" mapstructure:"hours"`
	Minutes int `json:"minutes,omitempty" mapstructure:"minutes"`
	Seconds int `json:"seconds,omitempty" mapstructure:"seconds"`
}

// Negate flips the sign of every field.
func (p Period) Negate() Period {
	return Period{-p.Years, -p.Months, -p.Weeks, -p.Days, -p.Hours, -p.Minutes, -p.Seconds}
}

// IsZero reports whether every field is zero.
func (p Period) IsZero() bool { return p == Period{} }

// String renders p as an ISO 8601 duration ("P1Y2M3DT4H").
func (p Period) String() string {
	if p.IsZero() {
		return "PT0S"
	}
	var b strings.Builder
	b.WriteByte('P')
	for _, f := range []struct {
		n    int
		unit byte
	}{{p.Years, 'Y'}, {p.Months, 'M'}, {p.Weeks, 'W'}, {p.Days, 'D'}} {
		if f.n != 0 {
			fmt.Fprintf(&b, "%d%c", f.n, f.unit)
		}
	}
	if p.Hours != 0 || p.Minutes != 0 || p.Seconds != 0 {
		b.WriteByte('T')
		for _, f := range []struct {
			n    int
			unit byte
		}{{p.Hours, 'H'}, {p.Minutes, 'M'}, {p.Seconds, 'S'}} {
			if f.n != 0 {
				fmt.Fprintf(&b, "%d%c", f.n, f.unit)
			}
		}
	}
	return b.String()
}

// Shortest length of each Period field in seconds. A field longer than the
// supported span on its own cannot produce a representable result.
var fieldSeconds = [7]int64{365 * 86400, 28 * 86400, 7 * 86400, 86400, 3600, 60, 1}

// check rejects fields whose magnitude alone exceeds MaxUnix-MinUnix.
func (p Period) check() error {
	span := MaxUnix - MinUnix
	for i, n := range [7]int{p.Years, p.Months, p.Weeks, p.Days, p.Hours, p.Minutes, p.Seconds} {
		limit := span / fieldSeconds[i]
		if v := int64(n); v > limit || v < -limit {
			return &domain.RangeError{Value: v, Min: -limit, Max: limit}
		}
	}
	return nil
}

// AddPeriod applies years and months first with end-of-month clamping
// (2024-01-31 + 1 month = 2024-02-29), then days and weeks on the calendar,
// then the clock fields as elapsed seconds. A field too large for the
// supported range is a RangeError.
func AddPeriod(t time.Time, p Period) (time.Time, error) {
	if err := p.check(); err != nil {
		return time.Time{}, err
	}
	t = addMonths(t, p.Years*12+p.Months)
	t = t.AddDate(0, 0, p.Weeks*7+p.Days)
	clock := int64(p.Hours)*3600 + int64(p.Minutes)*60 + int64(p.Seconds)
	return time.Unix(t.Unix()+clock, int64(t.Nanosecond())).In(t.Location()), nil
}

// SubtractPeriod is AddPeriod with p negated, so 2024-03-31 - 1 month = 2024-02-29.
func SubtractPeriod(t time.Time, p Period) (time.Time, error) {
	return AddPeriod(t, p.Negate())
}

var isoPeriod = regexp.MustCompile(`^([+-])?P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParsePeriod parses an ISO 8601 duration such as "P1Y2M10DT2H30M" or "-P3D".
func ParsePeriod(s string) (Period, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	m := isoPeriod.FindStringSubmatch(s)
	if m == nil || s == "P" || strings.HasSuffix(s, "T") {
		return Period{}, domain.NewConfigError("period", "%q is not an ISO 8601 duration", s)
	}
	vals := make([]int, 7)
	for i := range vals {
		if m[i+2] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+2])
		if err != nil {
			return Period{}, domain.NewConfigError("period", "component %q is too large", m[i+2])
		}
		vals[i] = n
	}
	p := Period{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6]}
	if m[1] == "-" {
		p = p.Negate()
	}
	return p, nil
}
