package toolshed

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Request is one line of batch input.
type Request struct {
	ID   string         `json:"id,omitempty"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// Response is one line of batch output. Exactly one of Result and Error is set.
type Response struct {
	ID     string `json:"id,omitempty"`
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// Runner executes newline-delimited JSON requests against a Toolbox.
// This allows for scripting and easy testing without a server.
type Runner struct {
	Input  io.Reader
	Output io.Writer
	// StopOnError ends the run at the first failing request.
	StopOnError bool
}

// NewRunner creates a Runner over in and out.
func NewRunner(in io.Reader, out io.Writer) *Runner {
	return &Runner{Input: in, Output: out}
}

// Run reads requests until EOF and writes one response per request.
// Blank lines and lines starting with '#' are skipped. It returns the number
// of failed requests; a non-nil error means the run itself could not continue.
func (r *Runner) Run(ctx context.Context, tb *Toolbox) (int, error) {
	if r.Input == nil {
		return 0, fmt.Errorf("input reader must be set")
	}
	if r.Output == nil {
		return 0, fmt.Errorf("output writer must be set")
	}

	sc := bufio.NewScanner(r.Input)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	enc := json.NewEncoder(r.Output)
	enc.SetEscapeHTML(false)

	failed := 0
	for line := 1; sc.Scan(); line++ {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		resp := r.handle(ctx, tb, text, line)
		if resp.Error != "" {
			failed++
		}
		if err := enc.Encode(resp); err != nil {
			return failed, fmt.Errorf("write response: %w", err)
		}
		if resp.Error != "" && r.StopOnError {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return failed, fmt.Errorf("read input: %w", err)
	}
	return failed, nil
}

func (r *Runner) handle(ctx context.Context, tb *Toolbox, text string, line int) Response {
	var req Request
	if err := json.Unmarshal([]byte(text), &req); err != nil {
		return Response{Error: fmt.Sprintf("line %d: invalid request: %v", line, err), Kind: "request"}
	}
	if req.Tool == "" {
		return Response{ID: req.ID, Error: fmt.Sprintf("line %d: missing tool", line), Kind: "request"}
	}

	result, err := tb.Invoke(ctx, req.Tool, req.Args)
	if err != nil {
		return Response{ID: req.ID, Tool: req.Tool, Error: err.Error(), Kind: errorKind(err)}
	}
	return Response{ID: req.ID, Tool: req.Tool, Result: result}
}
