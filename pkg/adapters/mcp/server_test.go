package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/toolshed"
	mcpAdapter "github.com/aretw0/toolshed/pkg/adapters/mcp"
	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcResult struct {
	Result struct {
		Tools []struct {
			Name        string         `json:"name"`
			InputSchema map[string]any `json:"inputSchema"`
		} `json:"tools"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Contents []struct {
			URI      string `json:"uri"`
			MIMEType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"contents"`
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(t *testing.T, srv *mcpAdapter.Server, msg string) rpcResult {
	t.Helper()
	ctx := context.Background()
	hello := `{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`
	srv.MCPServer().HandleMessage(ctx, json.RawMessage(hello))

	resp := srv.MCPServer().HandleMessage(ctx, json.RawMessage(msg))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var out rpcResult
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func newServer() *mcpAdapter.Server {
	return mcpAdapter.NewServer(toolshed.New(), mcpAdapter.WithVersion("1.0.0"))
}

func TestListTools(t *testing.T) {
	out := call(t, newServer(), `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	require.Nil(t, out.Error)
	assert.Len(t, out.Result.Tools, 26)

	var names []string
	for _, tool := range out.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "json-format")
	assert.Contains(t, names, "timezone-convert")
}

func TestCallTool(t *testing.T) {
	srv := newServer()

	out := call(t, srv, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"base64-encode","arguments":{"text":"hi??"}}}`)
	require.Nil(t, out.Error)
	require.Len(t, out.Result.Content, 1)
	assert.False(t, out.Result.IsError)
	assert.Equal(t, "text", out.Result.Content[0].Type)
	assert.Equal(t, "aGk/Pw==", out.Result.Content[0].Text)

	// Numbers arrive as JSON floats and still bind to integer parameters.
	out = call(t, srv, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"uuid","arguments":{"version":"nil","count":2}}}`)
	require.Nil(t, out.Error)
	assert.Equal(t, "00000000-0000-0000-0000-000000000000\n00000000-0000-0000-0000-000000000000", out.Result.Content[0].Text)

	out = call(t, srv, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"date-to-timestamp","arguments":{"date":"2023-11-14T22:13:20Z"}}}`)
	require.Nil(t, out.Error)
	assert.JSONEq(t, `{"seconds":1700000000,"milliseconds":1700000000000}`, out.Result.Content[0].Text)
}

func TestCallTool_DomainErrorIsToolError(t *testing.T) {
	out := call(t, newServer(), `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"json-format","arguments":{"text":"{"}}}`)
	require.Nil(t, out.Error)
	assert.True(t, out.Result.IsError)
	require.Len(t, out.Result.Content, 1)
	assert.Contains(t, out.Result.Content[0].Text, "parse error")
}

func TestReadCatalogResource(t *testing.T) {
	out := call(t, newServer(), `{"jsonrpc":"2.0","id":6,"method":"resources/read","params":{"uri":"toolshed://catalog"}}`)
	require.Nil(t, out.Error)
	require.Len(t, out.Result.Contents, 1)
	assert.Equal(t, "application/json", out.Result.Contents[0].MIMEType)

	var tools []domain.Tool
	require.NoError(t, json.Unmarshal([]byte(out.Result.Contents[0].Text), &tools))
	assert.Len(t, tools, 26)
}

func TestToolSchema(t *testing.T) {
	tool := mcpAdapter.Tool(domain.Tool{
		Name:        "demo",
		Title:       "Demo",
		Description: "A demo tool.",
		Params: []domain.Param{
			{Name: "text", Type: domain.ParamString, Required: true, Description: "Input."},
			{Name: "mode", Type: domain.ParamString, Default: "a", Enum: []string{"a", "b"}},
			{Name: "count", Type: domain.ParamInteger, Default: 3},
			{Name: "upper", Type: domain.ParamBoolean, Default: true},
		},
	})

	assert.Equal(t, "demo", tool.Name)
	assert.Equal(t, []string{"text"}, tool.InputSchema.Required)

	mode := tool.InputSchema.Properties["mode"].(map[string]any)
	assert.Equal(t, "string", mode["type"])
	assert.Equal(t, []string{"a", "b"}, mode["enum"])
	assert.Equal(t, "a", mode["default"])

	count := tool.InputSchema.Properties["count"].(map[string]any)
	assert.Equal(t, "number", count["type"])
	assert.Equal(t, 3.0, count["default"])

	upper := tool.InputSchema.Properties["upper"].(map[string]any)
	assert.Equal(t, "boolean", upper["type"])
	assert.Equal(t, true, upper["default"])
}

func TestResultText(t *testing.T) {
	s, err := mcpAdapter.ResultText("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", s)

	s, err = mcpAdapter.ResultText(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", s)
}
