package datetime

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	// Zone rules ship with the binary so conversions do not depend on the host.
	_ "time/tzdata"

	"github.com/aretw0/toolshed/pkg/domain"
)

//go:embed data/zones.txt
var dataFS embed.FS

const zonesPath = "data/zones.txt"

var (
	zonesOnce sync.Once
	zones     []string
	zonesErr  error
)

// ListZones returns the embedded canonical IANA zone names, sorted.
func ListZones() ([]string, error) {
	zonesOnce.Do(func() {
		f, err := dataFS.Open(zonesPath)
		if err != nil {
			zonesErr = err
			return
		}
		defer func() { _ = f.Close() }()
		zones, zonesErr = LoadZones(f)
	})
	if zonesErr != nil {
		return nil, zonesErr
	}
	return append([]string{}, zones...), nil
}

// LoadZones reads one zone per line, skipping blanks, comments and duplicates.
func LoadZones(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("timezones: missing reader")
	}
	scanner := bufio.NewScanner(r)
	out := make([]string, 0, 512)
	seen := map[string]struct{}{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// SearchZones matches query case-insensitively anywhere in the zone name.
// Prefix matches sort first. limit <= 0 means no limit; an empty query matches nothing.
func SearchZones(zones []string, query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	// "new york" finds America/New_York.
	q = strings.ReplaceAll(q, " ", "_")

	type match struct {
		name   string
		prefix bool
	}
	var matches []match
	for _, z := range zones {
		lower := strings.ToLower(z)
		if !strings.Contains(lower, q) {
			continue
		}
		city := lower[strings.LastIndexByte(lower, '/')+1:]
		matches = append(matches, match{name: z, prefix: strings.HasPrefix(lower, q) || strings.HasPrefix(city, q)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].prefix != matches[j].prefix {
			return matches[i].prefix
		}
		return matches[i].name < matches[j].name
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

var fixedOffset = regexp.MustCompile(`^(?:UTC|GMT)?([+-])(\d{1,2})(?::?(\d{2}))?$`)

// LoadZone resolves an IANA name ("Europe/Paris"), "UTC", or a fixed
// offset ("+05:30", "UTC-3"). "Local" is rejected so results never depend on the host.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	switch strings.ToUpper(name) {
	case "", "LOCAL":
		return nil, domain.NewConfigError("zone", "a named zone or offset is required, got %q", name)
	case "UTC", "GMT", "Z":
		return time.UTC, nil
	}
	if m := fixedOffset.FindStringSubmatch(strings.ToUpper(name)); m != nil {
		h, _ := strconv.Atoi(m[2])
		mins := 0
		if m[3] != "" {
			mins, _ = strconv.Atoi(m[3])
		}
		if h > 14 || mins > 59 {
			return nil, domain.NewConfigError("zone", "offset %q out of range", name)
		}
		secs := h*3600 + mins*60
		if m[1] == "-" {
			secs = -secs
		}
		return time.FixedZone(formatOffset(secs), secs), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, domain.NewConfigError("zone", "unknown time zone %q", name)
	}
	return loc, nil
}

// ConvertTimezone reads the wall clock of instant as a time in fromZone and
// returns the same moment in toZone. Offsets, including DST, are those in
// effect at that moment. Wall times that a DST change skips or repeats
// resolve the way time.Date resolves them.
func ConvertTimezone(instant time.Time, fromZone, toZone string) (time.Time, error) {
	from, err := LoadZone(fromZone)
	if err != nil {
		return time.Time{}, err
	}
	to, err := LoadZone(toZone)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := instant.Date()
	h, mi, s := instant.Clock()
	return time.Date(y, mo, d, h, mi, s, instant.Nanosecond(), from).In(to), nil
}

// ZoneDetails describes a zone at a particular moment.
type ZoneDetails struct {
	Name          string `json:"name"`
	Abbreviation  string `json:"abbreviation"`
	OffsetSeconds int    `json:"offset_seconds"`
	Offset        string `json:"offset"`
	DST           bool   `json:"dst"`
}

// ZoneInfo reports the abbreviation, offset and DST flag of zone at instant.
func ZoneInfo(zone string, instant time.Time) (ZoneDetails, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return ZoneDetails{}, err
	}
	t := instant.In(loc)
	abbr, off := t.Zone()
	return ZoneDetails{
		Name:          loc.String(),
		Abbreviation:  abbr,
		OffsetSeconds: off,
		Offset:        formatOffset(off),
		DST:           t.IsDST(),
	}, nil
}

func formatOffset(secs int) string {
	sign := '+'
	if secs < 0 {
		sign, secs = '-', -secs
	}
	return fmt.Sprintf("%c%02d:%02d", sign, secs/3600, secs%3600/60)
}
