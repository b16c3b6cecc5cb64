package datetime_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/toolshed/pkg/datetime"
	"github.com/aretw0/toolshed/pkg/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateDifference(t *testing.T) {
	tests := []struct {
		name                string
		start, end          time.Time
		years, months, days int
		totalDays           int
	}{
		{"leap february", date(2024, 1, 31), date(2024, 3, 2), 0, 1, 2, 31},
		{"common february", date(2023, 1, 31), date(2023, 3, 1), 0, 1, 1, 29},
		{"leap day anniversary", date(2020, 2, 29), date(2021, 2, 28), 1, 0, 0, 365},
		{"same day", date(2024, 5, 5), date(2024, 5, 5), 0, 0, 0, 0},
		{"decade", date(2010, 6, 15), date(2020, 8, 20), 10, 2, 5, 3719},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := datetime.DateDifference(tt.start, tt.end)
			assert.Equal(t, tt.years, d.Years)
			assert.Equal(t, tt.months, d.Months)
			assert.Equal(t, tt.days, d.Days)
			assert.Equal(t, tt.totalDays, d.TotalDays)
			assert.Equal(t, int64(tt.totalDays)*86400, d.ElapsedSeconds)
			assert.False(t, d.Negative)
		})
	}
}

func TestDateDifference_Negative(t *testing.T) {
	d := datetime.DateDifference(date(2024, 3, 2), date(2024, 1, 31))
	assert.True(t, d.Negative)
	assert.Equal(t, -1, d.Months)
	assert.Equal(t, -2, d.Days)
	assert.Equal(t, -31, d.TotalDays)
	assert.Equal(t, int64(31*86400), d.ElapsedSeconds)
}

func TestDateDifference_Clock(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 9, 30, 15, 0, time.UTC)
	d := datetime.DateDifference(start, end)
	assert.Equal(t, 0, d.Days)
	assert.Equal(t, 23, d.Hours)
	assert.Equal(t, 30, d.Minutes)
	assert.Equal(t, 15, d.Seconds)
	assert.Equal(t, int64(23*3600+30*60+15), d.ElapsedSeconds)
}

func TestDateDifference_FullRange(t *testing.T) {
	d := datetime.DateDifference(date(1, 1, 1), date(9999, 12, 31))
	assert.Equal(t, 9998, d.Years)
	assert.Equal(t, 11, d.Months)
	assert.Equal(t, 30, d.Days)
	assert.Equal(t, datetime.MaxUnix-datetime.MinUnix-86399, d.ElapsedSeconds)
}

func TestAddPeriod(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		p     datetime.Period
		want  time.Time
	}{
		{"clamp to leap day", date(2024, 1, 31), datetime.Period{Months: 1}, date(2024, 2, 29)},
		{"clamp to common february", date(2023, 1, 31), datetime.Period{Months: 1}, date(2023, 2, 28)},
		{"year from leap day", date(2024, 2, 29), datetime.Period{Years: 1}, date(2025, 2, 28)},
		{"months then days", date(2024, 1, 31), datetime.Period{Months: 1, Days: 1}, date(2024, 3, 1)},
		{"weeks", date(2024, 12, 25), datetime.Period{Weeks: 2}, date(2025, 1, 8)},
		{"clock", date(2024, 1, 1), datetime.Period{Hours: 25, Minutes: 30}, time.Date(2024, 1, 2, 1, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := datetime.AddPeriod(tt.start, tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddPeriod_LargeClockFields(t *testing.T) {
	got, err := datetime.AddPeriod(date(2000, 1, 1), datetime.Period{Hours: 3_000_000})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2342, 3, 29, 0, 0, 0, 0, time.UTC), got)

	got, err = datetime.AddPeriod(date(2000, 1, 1), datetime.Period{Seconds: 300_000_000_000})
	require.NoError(t, err)
	assert.Equal(t, 11506, got.Year())

	p, err := datetime.ParsePeriod("PT3000000H")
	require.NoError(t, err)
	got, err = datetime.SubtractPeriod(date(2342, 3, 29), p)
	require.NoError(t, err)
	assert.Equal(t, date(2000, 1, 1), got)
}

func TestAddPeriod_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		p    datetime.Period
	}{
		{"years", datetime.Period{Years: 20_000}},
		{"months", datetime.Period{Months: 1 << 40}},
		{"days", datetime.Period{Days: -10_000_000}},
		{"hours", datetime.Period{Hours: 1 << 50}},
		{"seconds", datetime.Period{Seconds: 1 << 62}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := datetime.AddPeriod(date(2000, 1, 1), tt.p)
			var re *domain.RangeError
			require.ErrorAs(t, err, &re)
			assert.ErrorIs(t, err, domain.ErrRange)
		})
	}
}

func TestSubtractPeriod(t *testing.T) {
	got, err := datetime.SubtractPeriod(date(2024, 3, 31), datetime.Period{Months: 1})
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 29), got)
	got, err = datetime.SubtractPeriod(date(2024, 1, 1), datetime.Period{Days: 1})
	require.NoError(t, err)
	assert.Equal(t, date(2023, 12, 31), got)
}

func TestParsePeriod(t *testing.T) {
	p, err := datetime.ParsePeriod("P1Y2M3W4DT5H6M7S")
	require.NoError(t, err)
	assert.Equal(t, datetime.Period{Years: 1, Months: 2, Weeks: 3, Days: 4, Hours: 5, Minutes: 6, Seconds: 7}, p)
	assert.Equal(t, "P1Y2M3W4DT5H6M7S", p.String())

	p, err = datetime.ParsePeriod("-p3d")
	require.NoError(t, err)
	assert.Equal(t, datetime.Period{Days: -3}, p)

	assert.Equal(t, "PT0S", datetime.Period{}.String())

	for _, bad := range []string{"", "P", "PT", "1D", "P1H", "P-1D"} {
		_, err := datetime.ParsePeriod(bad)
		assert.ErrorIs(t, err, domain.ErrConfig, "input %q", bad)
	}
}

func TestConvertTimezone(t *testing.T) {
	tests := []struct {
		name     string
		wall     time.Time
		from, to string
		want     string
	}{
		{"summer", time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC), "America/New_York", "Europe/London", "2024-07-01T17:00:00+01:00"},
		{"winter", time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), "America/New_York", "Europe/London", "2024-01-15T17:00:00Z"},
		{"between transitions", time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), "America/New_York", "Europe/London", "2024-03-15T16:00:00Z"},
		{"half hour zone", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "UTC", "Asia/Kolkata", "2024-01-01T05:30:00+05:30"},
		{"fixed offset", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), "+02:00", "UTC-3", "2024-01-01T07:00:00-03:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := datetime.ConvertTimezone(tt.wall, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, datetime.FormatDateTime(got))
		})
	}
}

func TestConvertTimezone_UnknownZone(t *testing.T) {
	for _, zone := range []string{"Mars/Olympus", "Local", "", "+15:00"} {
		_, err := datetime.ConvertTimezone(time.Now(), zone, "UTC")
		var ce *domain.ConfigError
		assert.ErrorAs(t, err, &ce, "zone %q", zone)
	}
}

func TestZoneInfo(t *testing.T) {
	info, err := datetime.ZoneInfo("America/New_York", date(2024, 7, 1))
	require.NoError(t, err)
	assert.Equal(t, "EDT", info.Abbreviation)
	assert.Equal(t, -4*3600, info.OffsetSeconds)
	assert.Equal(t, "-04:00", info.Offset)
	assert.True(t, info.DST)

	info, err = datetime.ZoneInfo("America/New_York", date(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, "EST", info.Abbreviation)
	assert.False(t, info.DST)
}

func TestLoadZones_DedupesSortsAndIgnoresComments(t *testing.T) {
	zones, err := datetime.LoadZones(strings.NewReader("\n# Comment\nEurope/Paris\nAmerica/New_York\nEurope/Paris\n\nUTC\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"America/New_York", "Europe/Paris", "UTC"}, zones)
}

func TestListZones(t *testing.T) {
	zones, err := datetime.ListZones()
	require.NoError(t, err)
	assert.Greater(t, len(zones), 300)
	for _, z := range []string{"America/New_York", "Europe/Paris", "Asia/Tokyo", "UTC"} {
		assert.Contains(t, zones, z)
	}
	for _, z := range zones {
		_, err := datetime.LoadZone(z)
		require.NoError(t, err, "zone %s", z)
	}

	zones[0] = "mutated"
	again, err := datetime.ListZones()
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0])
}

func TestSearchZones(t *testing.T) {
	zones := []string{"x/a/b", "a/b", "a/b/c", "c/d"}
	assert.Equal(t, []string{"a/b", "a/b/c", "x/a/b"}, datetime.SearchZones(zones, "A/B", 0))
	assert.Equal(t, []string{"a/b"}, datetime.SearchZones(zones, "a/b", 1))
	assert.Nil(t, datetime.SearchZones(zones, "  ", 10))

	all, err := datetime.ListZones()
	require.NoError(t, err)
	got := datetime.SearchZones(all, "new york", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "America/New_York", got[0])
}

func TestTimestamp_RoundTrip(t *testing.T) {
	for _, ts := range []int64{datetime.MinUnix, -1, 0, 1, 1_000_000_000, 1_700_000_000, datetime.MaxUnix} {
		d, err := datetime.TimestampToDate(ts)
		require.NoError(t, err)
		back, err := datetime.DateToTimestamp(d)
		require.NoError(t, err)
		assert.Equal(t, ts, back)
	}

	d, err := datetime.TimestampToDate(datetime.MinUnix)
	require.NoError(t, err)
	assert.Equal(t, "0001-01-01T00:00:00Z", datetime.FormatDateTime(d))
	d, err = datetime.TimestampToDate(datetime.MaxUnix)
	require.NoError(t, err)
	assert.Equal(t, "9999-12-31T23:59:59Z", datetime.FormatDateTime(d))
}

func TestTimestamp_OutOfRange(t *testing.T) {
	for _, ts := range []int64{datetime.MinUnix - 1, datetime.MaxUnix + 1} {
		_, err := datetime.TimestampToDate(ts)
		var re *domain.RangeError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, ts, re.Value)
	}

	_, err := datetime.DateToTimestamp(time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrRange)
}

func TestParseTimestamp(t *testing.T) {
	got, unit, err := datetime.ParseTimestamp("1700000000", datetime.UnitAuto)
	require.NoError(t, err)
	assert.Equal(t, datetime.UnitSeconds, unit)
	assert.Equal(t, "2023-11-14T22:13:20Z", datetime.FormatDateTime(got))

	got, unit, err = datetime.ParseTimestamp("1700000000123", datetime.UnitAuto)
	require.NoError(t, err)
	assert.Equal(t, datetime.UnitMilliseconds, unit)
	assert.Equal(t, 123*time.Millisecond, time.Duration(got.Nanosecond()))

	_, _, err = datetime.ParseTimestamp("soon", datetime.UnitSeconds)
	assert.ErrorIs(t, err, domain.ErrConfig)

	_, _, err = datetime.ParseTimestamp("1", "ns")
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestParseDateTime(t *testing.T) {
	got, err := datetime.ParseDateTime("2024-01-31", nil)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 31), got)

	paris, err := datetime.LoadZone("Europe/Paris")
	require.NoError(t, err)
	got, err = datetime.ParseDateTime("2024-07-01 12:00", paris)
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01T12:00:00+02:00", datetime.FormatDateTime(got))

	got, err = datetime.ParseDateTime("2024-07-01T12:00:00-03:00", paris)
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01T15:00:00Z", datetime.FormatDateTime(got.UTC()))

	_, err = datetime.ParseDateTime("31/01/2024", nil)
	assert.ErrorIs(t, err, domain.ErrParse)
}
