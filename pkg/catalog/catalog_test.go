package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/toolshed/pkg/catalog"
	"github.com/aretw0/toolshed/pkg/codec"
	"github.com/aretw0/toolshed/pkg/datetime"
	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/aretw0/toolshed/pkg/generate"
	"github.com/aretw0/toolshed/pkg/registry"
	"github.com/aretw0/toolshed/pkg/text"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.NewRegistry()
	catalog.Register(r)
	return r
}

func run(t *testing.T, r *registry.Registry, name string, args map[string]any) any {
	t.Helper()
	out, err := r.Execute(context.Background(), name, args)
	require.NoError(t, err, name)
	return out
}

func TestAll_Descriptors(t *testing.T) {
	names := map[string]bool{}
	slugs := map[string]bool{}
	for _, d := range catalog.All() {
		tool := d.Tool
		assert.NotEmpty(t, tool.Title, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
		assert.Contains(t, domain.Categories(), tool.Category, tool.Name)
		assert.Equal(t, text.Slugify(tool.Slug), tool.Slug, "slug of %s is already slugified", tool.Name)
		assert.False(t, names[tool.Name], "duplicate name %s", tool.Name)
		assert.False(t, slugs[tool.Slug], "duplicate slug %s", tool.Slug)
		names[tool.Name], slugs[tool.Slug] = true, true
		require.NotNil(t, d.Fn, tool.Name)

		for _, p := range tool.Params {
			if p.Enum != nil && p.Default != nil {
				assert.Contains(t, p.Enum, p.Default, "%s.%s default is in enum", tool.Name, p.Name)
			}
		}
	}
	assert.Len(t, names, 26)
}

func TestCodecTools(t *testing.T) {
	r := newRegistry(t)

	assert.Equal(t, "aGk/Pw==", run(t, r, "base64-encode", map[string]any{"text": "hi??"}))
	assert.Equal(t, "aGk_Pw", run(t, r, "base64-encode", map[string]any{"text": "hi??", "variant": "raw-url"}))

	got := run(t, r, "base64-decode", map[string]any{"text": "aGk/Pw=="}).(catalog.Bytes)
	assert.Equal(t, catalog.Bytes{Encoding: "utf-8", Data: "hi??", Size: 4}, got)

	got = run(t, r, "base64-decode", map[string]any{"text": "/w=="}).(catalog.Bytes)
	assert.Equal(t, catalog.Bytes{Encoding: "hex", Data: "ff", Size: 1}, got)

	packed := run(t, r, "gzip-compress", map[string]any{"text": "hello hello hello", "level": float64(9)}).(string)
	raw, err := codec.Base64Decode(packed)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])
	unpacked := run(t, r, "gzip-decompress", map[string]any{"data": packed}).(catalog.Bytes)
	assert.Equal(t, "hello hello hello", unpacked.String())

	assert.Equal(t, "a%20b%26c", run(t, r, "url-encode", map[string]any{"text": "a b&c"}))
	assert.Equal(t, "a+b%26c", run(t, r, "url-encode", map[string]any{"text": "a b&c", "mode": "form"}))
	assert.Equal(t, "a b&c", run(t, r, "url-decode", map[string]any{"text": "a%20b%26c"}))

	assert.Equal(t, `say \"hi\"`, run(t, r, "escape", map[string]any{"text": `say "hi"`}))
	assert.Equal(t, "&lt;b&gt;", run(t, r, "escape", map[string]any{"text": "<b>", "format": "html"}))
	assert.Equal(t, "<b>", run(t, r, "unescape", map[string]any{"text": "&lt;b&gt;", "format": "xml"}))
}

func TestCodecTools_Errors(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	_, err := r.Execute(ctx, "base64-decode", map[string]any{"text": "@@@"})
	assert.ErrorIs(t, err, domain.ErrDecode)

	_, err = r.Execute(ctx, "gzip-decompress", map[string]any{"data": "aGVsbG8="})
	assert.ErrorIs(t, err, domain.ErrInvalidStream)

	_, err = r.Execute(ctx, "gzip-compress", map[string]any{"text": "x", "level": 12})
	assert.ErrorIs(t, err, domain.ErrConfig)

	_, err = r.Execute(ctx, "escape", map[string]any{"text": "x", "format": "yaml"})
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestFormatTools(t *testing.T) {
	r := newRegistry(t)

	assert.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ]\n}", run(t, r, "json-format", map[string]any{"text": `{"a":[1,2]}`}))
	assert.Equal(t, `{"a":1,"b":2}`, run(t, r, "json-format", map[string]any{"text": `{"b":2, "a":1}`, "indent": 0, "sort_keys": true}))

	v := run(t, r, "json-validate", map[string]any{"text": `{"a":1,}`}).(catalog.Validation)
	assert.False(t, v.Valid)
	assert.Equal(t, 1, v.Line)
	assert.Equal(t, 7, v.Column)
	assert.Equal(t, 6, v.Offset)
	assert.NotEmpty(t, v.Error)

	v = run(t, r, "json-validate", map[string]any{"text": `[true]`}).(catalog.Validation)
	assert.Equal(t, catalog.Validation{Valid: true}, v)

	assert.Equal(t, "<a>\n  <b>x</b>\n</a>", run(t, r, "xml-format", map[string]any{"text": "<a><b>x</b></a>"}))

	y := run(t, r, "json-to-yaml", map[string]any{"text": `{"name":"x","n":[1,2]}`}).(string)
	assert.Contains(t, y, "name: x")
	j := run(t, r, "yaml-to-json", map[string]any{"text": y, "indent": 0}).(string)
	assert.Equal(t, `{"name":"x","n":[1,2]}`, j)
}

func TestFormatTools_Errors(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	_, err := r.Execute(ctx, "json-format", map[string]any{"text": `{"a":`})
	assert.ErrorIs(t, err, domain.ErrParse)

	_, err = r.Execute(ctx, "xml-format", map[string]any{"text": "<a><b></a>"})
	assert.ErrorIs(t, err, domain.ErrParse)

	_, err = r.Execute(ctx, "json-format", map[string]any{"text": "{}", "indent": 40})
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestGeneratorTools(t *testing.T) {
	r := newRegistry(t)

	ids := run(t, r, "uuid", map[string]any{"count": 3, "version": "v7", "upper": true}).(catalog.Lines)
	require.Len(t, ids, 3)
	for _, id := range ids {
		info, err := generate.ParseUUID(id)
		require.NoError(t, err)
		assert.Equal(t, 7, info.Version)
		assert.Equal(t, strings.ToUpper(id), id)
	}

	pw := run(t, r, "password", map[string]any{"length": 24, "classes": "digits, lowercase"}).(catalog.Password)
	assert.Len(t, pw.Password, 24)
	assert.Regexp(t, `^[a-z0-9]+$`, pw.Password)
	assert.Regexp(t, `[0-9]`, pw.Password)
	assert.InDelta(t, 24*5.17, pw.EntropyBits, 0.1)

	seeded := map[string]any{"count": 12, "unit": "words", "seed": 7, "start_with_lorem": false}
	a := run(t, r, "lorem", seeded)
	b := run(t, r, "lorem", seeded)
	assert.Equal(t, a, b)
	assert.Len(t, strings.Fields(a.(string)), 12)

	classic := run(t, r, "lorem", map[string]any{}).(string)
	assert.True(t, strings.HasPrefix(classic, "Lorem ipsum dolor sit amet"), classic)
}

func TestGeneratorTools_Errors(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	_, err := r.Execute(ctx, "uuid", map[string]any{"version": "v3"})
	assert.ErrorIs(t, err, domain.ErrConfig)

	_, err = r.Execute(ctx, "password", map[string]any{"classes": "emoji"})
	assert.ErrorIs(t, err, domain.ErrConfig)

	_, err = r.Execute(ctx, "lorem", map[string]any{"count": 0})
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestDateTimeTools(t *testing.T) {
	r := newRegistry(t)

	d := run(t, r, "date-diff", map[string]any{"start": "2024-01-31", "end": "2024-03-01"}).(datetime.Difference)
	assert.Equal(t, 1, d.Months)
	assert.Equal(t, 1, d.Days)
	assert.Equal(t, 30, d.TotalDays)

	assert.Equal(t, "2024-02-29T00:00:00Z", run(t, r, "date-add", map[string]any{"date": "2024-01-31", "period": "P1M"}))
	assert.Equal(t, "2023-12-31T00:00:00Z", run(t, r, "date-add", map[string]any{"date": "2024-01-31", "period": "P1M", "subtract": true}))

	c := run(t, r, "timezone-convert", map[string]any{
		"datetime": "2024-07-01T12:00:00", "from": "America/New_York", "to": "Europe/London",
	}).(catalog.Conversion)
	assert.Equal(t, "2024-07-01T17:00:00+01:00", c.Result)
	assert.True(t, c.From.DST)
	assert.Equal(t, "-04:00", c.From.Offset)
	assert.Equal(t, "BST", c.To.Abbreviation)

	zones := run(t, r, "timezone-list", map[string]any{"query": "london"}).(catalog.Lines)
	assert.Equal(t, catalog.Lines{"Europe/London"}, zones)
	zones = run(t, r, "timezone-list", map[string]any{"limit": 3}).(catalog.Lines)
	assert.Len(t, zones, 3)

	date := run(t, r, "timestamp-to-date", map[string]any{"timestamp": "1700000000000", "zone": "Asia/Tokyo"}).(catalog.Date)
	assert.Equal(t, "2023-11-14T22:13:20Z", date.UTC)
	assert.Equal(t, "2023-11-15T07:13:20+09:00", date.Local)
	assert.Equal(t, "ms", date.Unit)

	ts := run(t, r, "date-to-timestamp", map[string]any{"date": "2023-11-14T22:13:20Z"}).(catalog.Timestamp)
	assert.Equal(t, catalog.Timestamp{Seconds: 1700000000, Millis: 1700000000000}, ts)
}

func TestDateTimeTools_Errors(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	_, err := r.Execute(ctx, "date-diff", map[string]any{"start": "yesterday", "end": "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrParse)

	_, err = r.Execute(ctx, "timezone-convert", map[string]any{"datetime": "2024-01-01", "from": "Mars/Olympus", "to": "UTC"})
	assert.ErrorIs(t, err, domain.ErrConfig)

	_, err = r.Execute(ctx, "date-add", map[string]any{"date": "9999-12-31", "period": "P1D"})
	assert.ErrorIs(t, err, domain.ErrRange)
	_, err = r.Execute(ctx, "date-add", map[string]any{"date": "2000-01-01", "period": "PT9999999999999H"})
	assert.ErrorIs(t, err, domain.ErrRange)
}

func TestTextTools(t *testing.T) {
	r := newRegistry(t)

	assert.Equal(t, "helloWorld", run(t, r, "text-case", map[string]any{"text": "Hello world", "case": "camel"}))
	st := run(t, r, "text-stats", map[string]any{"text": "one two three"}).(text.Stats)
	assert.Equal(t, 3, st.Words)
	assert.Equal(t, "creme_brulee", run(t, r, "slugify", map[string]any{"text": "Crème Brûlée", "separator": "_"}))
	html := run(t, r, "markdown-html", map[string]any{"text": "# Hi", "heading_ids": true}).(string)
	assert.Contains(t, html, `<h1 id="hi">Hi</h1>`)

	_, err := r.Execute(context.Background(), "text-case", map[string]any{"text": "x", "case": "zigzag"})
	assert.ErrorIs(t, err, domain.ErrConfig)
}
