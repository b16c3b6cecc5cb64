package datetime

import (
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/toolshed/pkg/domain"
)

// Supported instants are 0001-01-01T00:00:00Z through 9999-12-31T23:59:59Z.
const (
	MinUnix int64 = -62135596800
	MaxUnix int64 = 253402300799
)

// TimestampUnit is the resolution of a Unix timestamp.
type TimestampUnit string

const (
	UnitSeconds      TimestampUnit = "s"
	UnitMilliseconds TimestampUnit = "ms"
	// UnitAuto treats magnitudes above autoMillisThreshold as milliseconds.
	UnitAuto TimestampUnit = "auto"
)

// autoMillisThreshold is about the year 5138 in seconds and March 1973 in milliseconds.
const autoMillisThreshold = 99_999_999_999

// TimestampToDate converts Unix seconds to a UTC time.
func TimestampToDate(unixSeconds int64) (time.Time, error) {
	if unixSeconds < MinUnix || unixSeconds > MaxUnix {
		return time.Time{}, &domain.RangeError{Value: unixSeconds, Min: MinUnix, Max: MaxUnix}
	}
	return time.Unix(unixSeconds, 0).UTC(), nil
}

// TimestampMillisToDate converts Unix milliseconds to a UTC time.
func TimestampMillisToDate(unixMillis int64) (time.Time, error) {
	if unixMillis < MinUnix*1000 || unixMillis > MaxUnix*1000+999 {
		return time.Time{}, &domain.RangeError{Value: unixMillis, Min: MinUnix * 1000, Max: MaxUnix*1000 + 999}
	}
	return time.UnixMilli(unixMillis).UTC(), nil
}

// DateToTimestamp returns the Unix seconds of t, truncating sub-second precision.
func DateToTimestamp(t time.Time) (int64, error) {
	s := t.Unix()
	if s < MinUnix || s > MaxUnix {
		return 0, &domain.RangeError{Value: s, Min: MinUnix, Max: MaxUnix}
	}
	return s, nil
}

// DateToTimestampMillis returns the Unix milliseconds of t.
func DateToTimestampMillis(t time.Time) (int64, error) {
	if _, err := DateToTimestamp(t); err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// ParseTimestamp parses a decimal timestamp in unit and returns the time in UTC
// together with the unit actually applied.
func ParseTimestamp(s string, unit TimestampUnit) (time.Time, TimestampUnit, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, "", domain.NewConfigError("timestamp", "%q is not an integer", s)
	}
	if unit == "" || unit == UnitAuto {
		unit = UnitSeconds
		if v > autoMillisThreshold || v < -autoMillisThreshold {
			unit = UnitMilliseconds
		}
	}
	var t time.Time
	switch unit {
	case UnitSeconds:
		t, err = TimestampToDate(v)
	case UnitMilliseconds:
		t, err = TimestampMillisToDate(v)
	default:
		return time.Time{}, "", domain.NewConfigError("unit", "unknown timestamp unit %q (want s, ms or auto)", unit)
	}
	return t, unit, err
}
