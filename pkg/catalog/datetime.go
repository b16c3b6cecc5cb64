package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/aretw0/toolshed/pkg/datetime"
	"github.com/aretw0/toolshed/pkg/domain"
)

type dateDiffInput struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
	Zone  string `mapstructure:"zone"`
}

type dateAddInput struct {
	Date     string `mapstructure:"date"`
	Period   string `mapstructure:"period"`
	Subtract bool   `mapstructure:"subtract"`
	Zone     string `mapstructure:"zone"`
}

type convertInput struct {
	DateTime string `mapstructure:"datetime"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

type zoneListInput struct {
	Query string `mapstructure:"query"`
	Limit int    `mapstructure:"limit"`
}

type timestampInput struct {
	Timestamp string `mapstructure:"timestamp"`
	Unit      string `mapstructure:"unit"`
	Zone      string `mapstructure:"zone"`
}

type dateInput struct {
	Date string `mapstructure:"date"`
	Zone string `mapstructure:"zone"`
}

// Conversion is the timezone-convert result.
type Conversion struct {
	Result string               `json:"result"`
	From   datetime.ZoneDetails `json:"from"`
	To     datetime.ZoneDetails `json:"to"`
}

func (c Conversion) String() string { return c.Result }

// Date is the timestamp-to-date result.
type Date struct {
	UTC   string `json:"utc"`
	Local string `json:"local"`
	Zone  string `json:"zone"`
	Unit  string `json:"unit"`
}

func (d Date) String() string { return d.Local }

// Timestamp is the date-to-timestamp result.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Millis  int64 `json:"milliseconds"`
}

var zoneParam = domain.Param{
	Name: "zone", Type: domain.ParamString, Default: "UTC",
	Description: "IANA zone or fixed offset used for inputs without an offset.",
}

func dateTimeTools() []Definition {
	return []Definition{
		{
			Tool: domain.Tool{
				Name: "date-diff", Slug: "date-difference-calculator", Title: "Date Difference Calculator",
				Description: "Measure the years, months, days and time between two dates.",
				Category:    domain.CategoryDateTime,
				Keywords:    []string{"date", "difference", "duration", "age", "days between"},
				Params: []domain.Param{
					{Name: "start", Type: domain.ParamString, Required: true, Description: "Start date or date-time."},
					{Name: "end", Type: domain.ParamString, Required: true, Description: "End date or date-time."},
					zoneParam,
				},
			},
			Fn: handler(func(_ context.Context, in dateDiffInput) (any, error) {
				loc, err := datetime.LoadZone(in.Zone)
				if err != nil {
					return nil, err
				}
				start, err := datetime.ParseDateTime(in.Start, loc)
				if err != nil {
					return nil, err
				}
				end, err := datetime.ParseDateTime(in.End, loc)
				if err != nil {
					return nil, err
				}
				return datetime.DateDifference(start, end), nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "date-add", Slug: "date-calculator", Title: "Date Calculator",
				Description: "Add or subtract an ISO 8601 period such as P1M2D to a date.",
				Category:    domain.CategoryDateTime,
				Keywords:    []string{"date", "add", "subtract", "period"},
				Params: []domain.Param{
					{Name: "date", Type: domain.ParamString, Required: true, Description: "Date or date-time."},
					{Name: "period", Type: domain.ParamString, Required: true, Description: "ISO 8601 duration, e.g. P1Y2M10DT2H."},
					{Name: "subtract", Type: domain.ParamBoolean, Default: false, Description: "Subtract instead of add."},
					zoneParam,
				},
			},
			Fn: handler(func(_ context.Context, in dateAddInput) (any, error) {
				loc, err := datetime.LoadZone(in.Zone)
				if err != nil {
					return nil, err
				}
				t, err := datetime.ParseDateTime(in.Date, loc)
				if err != nil {
					return nil, err
				}
				p, err := datetime.ParsePeriod(in.Period)
				if err != nil {
					return nil, err
				}
				if in.Subtract {
					t, err = datetime.SubtractPeriod(t, p)
				} else {
					t, err = datetime.AddPeriod(t, p)
				}
				if err != nil {
					return nil, err
				}
				if _, err := datetime.DateToTimestamp(t); err != nil {
					return nil, err
				}
				return datetime.FormatDateTime(t), nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "timezone-convert", Slug: "timezone-converter", Title: "Time Zone Converter",
				Description: "Convert a wall-clock time from one time zone to another, DST included.",
				Category:    domain.CategoryDateTime,
				Keywords:    []string{"timezone", "convert", "utc", "dst"},
				Params: []domain.Param{
					{Name: "datetime", Type: domain.ParamString, Required: true, Description: "Wall-clock date-time in the source zone."},
					{Name: "from", Type: domain.ParamString, Required: true, Description: "Source zone."},
					{Name: "to", Type: domain.ParamString, Required: true, Description: "Target zone."},
				},
			},
			Fn: handler(func(_ context.Context, in convertInput) (any, error) {
				// The offset, if any, is dropped: the wall clock is read in the source zone.
				wall, err := datetime.ParseDateTime(in.DateTime, time.UTC)
				if err != nil {
					return nil, err
				}
				out, err := datetime.ConvertTimezone(wall, in.From, in.To)
				if err != nil {
					return nil, err
				}
				from, err := datetime.ZoneInfo(in.From, out)
				if err != nil {
					return nil, err
				}
				to, err := datetime.ZoneInfo(in.To, out)
				if err != nil {
					return nil, err
				}
				return Conversion{Result: datetime.FormatDateTime(out), From: from, To: to}, nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "timezone-list", Slug: "timezone-list", Title: "Time Zone List",
				Description: "Search the IANA time zone database.",
				Category:    domain.CategoryDateTime,
				Keywords:    []string{"timezone", "iana", "tz database"},
				Params: []domain.Param{
					{Name: "query", Type: domain.ParamString, Description: "Case-insensitive filter; empty lists every zone."},
					{Name: "limit", Type: domain.ParamInteger, Default: 0, Description: "Maximum results; 0 means no limit."},
				},
			},
			Fn: handler(func(_ context.Context, in zoneListInput) (any, error) {
				zones, err := datetime.ListZones()
				if err != nil {
					return nil, err
				}
				if strings.TrimSpace(in.Query) == "" {
					if in.Limit > 0 && in.Limit < len(zones) {
						zones = zones[:in.Limit]
					}
					return Lines(zones), nil
				}
				return Lines(datetime.SearchZones(zones, in.Query, in.Limit)), nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "timestamp-to-date", Slug: "unix-timestamp-converter", Title: "Unix Timestamp Converter",
				Description: "Convert a Unix timestamp in seconds or milliseconds to a date.",
				Category:    domain.CategoryDateTime,
				Keywords:    []string{"unix", "epoch", "timestamp", "date"},
				Params: []domain.Param{
					{Name: "timestamp", Type: domain.ParamString, Required: true, Description: "Integer timestamp."},
					{Name: "unit", Type: domain.ParamString, Default: "auto", Description: "Resolution; auto picks milliseconds for large magnitudes.", Enum: []string{"s", "ms", "auto"}},
					zoneParam,
				},
			},
			Fn: handler(func(_ context.Context, in timestampInput) (any, error) {
				loc, err := datetime.LoadZone(in.Zone)
				if err != nil {
					return nil, err
				}
				t, unit, err := datetime.ParseTimestamp(in.Timestamp, datetime.TimestampUnit(in.Unit))
				if err != nil {
					return nil, err
				}
				return Date{
					UTC:   datetime.FormatDateTime(t),
					Local: datetime.FormatDateTime(t.In(loc)),
					Zone:  loc.String(),
					Unit:  string(unit),
				}, nil
			}),
		},
		{
			Tool: domain.Tool{
				Name: "date-to-timestamp", Slug: "date-to-unix-timestamp", Title: "Date to Unix Timestamp",
				Description: "Convert a date or date-time to Unix seconds and milliseconds.",
				Category:    domain.CategoryDateTime,
				Keywords:    []string{"unix", "epoch", "timestamp", "date"},
				Params: []domain.Param{
					{Name: "date", Type: domain.ParamString, Required: true, Description: "Date or date-time."},
					zoneParam,
				},
			},
			Fn: handler(func(_ context.Context, in dateInput) (any, error) {
				loc, err := datetime.LoadZone(in.Zone)
				if err != nil {
					return nil, err
				}
				t, err := datetime.ParseDateTime(in.Date, loc)
				if err != nil {
					return nil, err
				}
				sec, err := datetime.DateToTimestamp(t)
				if err != nil {
					return nil, err
				}
				ms, err := datetime.DateToTimestampMillis(t)
				if err != nil {
					return nil, err
				}
				return Timestamp{Seconds: sec, Millis: ms}, nil
			}),
		},
	}
}
