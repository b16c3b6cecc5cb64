package datetime

import "time"

// Difference is the calendar distance between two instants.
// Calendar fields share one sign: all are <= 0 when end is before start.
type Difference struct {
	Years   int `json:"years"`
	Months  int `json:"months"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
	// TotalDays counts whole elapsed days, signed.
	TotalDays int `json:"total_days"`
	// ElapsedSeconds is the absolute number of seconds between the instants.
	ElapsedSeconds int64 `json:"elapsed_seconds"`
	Negative       bool  `json:"negative"`
}

// DateDifference measures start to end in years, months and days using
// month-add semantics: a month is added with end-of-month clamping, so
// 2024-01-31 plus one month is 2024-02-29. end is interpreted in start's location.
func DateDifference(start, end time.Time) Difference {
	end = end.In(start.Location())
	neg := end.Before(start)
	a, b := start, end
	if neg {
		a, b = end, start
	}

	months := (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
	if months > 0 && addMonths(a, months).After(b) {
		months--
	}
	cursor := addMonths(a, months)
	days := wholeDays(cursor, b)
	cursor = cursor.AddDate(0, 0, days)
	rem := b.Sub(cursor)

	d := Difference{
		Years:          months / 12,
		Months:         months % 12,
		Days:           days,
		Hours:          int(rem / time.Hour),
		Minutes:        int(rem % time.Hour / time.Minute),
		Seconds:        int(rem % time.Minute / time.Second),
		TotalDays:      wholeDays(a, b),
		ElapsedSeconds: elapsedSeconds(a, b),
		Negative:       neg,
	}
	if neg {
		d.Years, d.Months, d.Days = -d.Years, -d.Months, -d.Days
		d.Hours, d.Minutes, d.Seconds = -d.Hours, -d.Minutes, -d.Seconds
		d.TotalDays = -d.TotalDays
	}
	return d
}

// elapsedSeconds avoids time.Duration, which saturates after about 292 years.
func elapsedSeconds(a, b time.Time) int64 {
	s := b.Unix() - a.Unix()
	if b.Nanosecond() < a.Nanosecond() {
		s--
	}
	return s
}

// wholeDays counts calendar days from a to b (a <= b) that fit completely.
func wholeDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	n := int((time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC).Unix() - time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).Unix()) / 86400)
	if n > 0 && a.AddDate(0, 0, n).After(b) {
		n--
	}
	return n
}

// addMonths moves t by n months, clamping the day to the target month's length.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	first := time.Date(y, m+time.Month(n), 1, hh, mm, ss, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
