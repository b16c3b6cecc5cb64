package toolshed_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/toolshed"
)

func decodeResponses(t *testing.T, out string) []toolshed.Response {
	t.Helper()
	var rs []toolshed.Response
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var r toolshed.Response
		require.NoError(t, dec.Decode(&r))
		rs = append(rs, r)
	}
	return rs
}

func TestRunner_Run(t *testing.T) {
	in := strings.NewReader(`# comment
{"id":"1","tool":"text-case","args":{"text":"hello world","case":"pascal"}}

{"id":"2","tool":"base64-decode","args":{"text":"***"}}
not json
{"id":"4"}
`)
	var out bytes.Buffer

	failed, err := toolshed.NewRunner(in, &out).Run(context.Background(), toolshed.New())
	require.NoError(t, err)
	assert.Equal(t, 3, failed)

	rs := decodeResponses(t, out.String())
	require.Len(t, rs, 4)
	assert.Equal(t, "HelloWorld", rs[0].Result)
	assert.Empty(t, rs[0].Error)
	assert.Equal(t, "decode", rs[1].Kind)
	assert.Equal(t, "request", rs[2].Kind)
	assert.Contains(t, rs[2].Error, "line 5")
	assert.Equal(t, "4", rs[3].ID)
	assert.Contains(t, rs[3].Error, "missing tool")
}

func TestRunner_StopOnError(t *testing.T) {
	in := strings.NewReader("{\"tool\":\"nope\"}\n{\"tool\":\"uuid\"}\n")
	var out bytes.Buffer
	r := toolshed.NewRunner(in, &out)
	r.StopOnError = true

	failed, err := r.Run(context.Background(), toolshed.New())
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	rs := decodeResponses(t, out.String())
	require.Len(t, rs, 1)
	assert.Equal(t, "not_found", rs[0].Kind)
}

func TestRunner_RequiresIO(t *testing.T) {
	_, err := (&toolshed.Runner{}).Run(context.Background(), toolshed.New())
	assert.Error(t, err)
}
