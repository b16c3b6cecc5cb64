package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/muesli/termenv"
)

// Printer writes command results to Out and diagnostics to Err.
type Printer struct {
	Out  io.Writer
	Err  io.Writer
	JSON bool

	out *termenv.Output
	err *termenv.Output
}

// NewPrinter detects the colour support of each writer.
func NewPrinter(out, errOut io.Writer, jsonMode bool, opts ...termenv.OutputOption) *Printer {
	return &Printer{
		Out:  out,
		Err:  errOut,
		JSON: jsonMode,
		out:  termenv.NewOutput(out, opts...),
		err:  termenv.NewOutput(errOut, opts...),
	}
}

// Result prints a tool result. In JSON mode every result is encoded as
// JSON; otherwise strings and Stringers print as text.
func (p *Printer) Result(result any) error {
	if p.JSON {
		enc := json.NewEncoder(p.Out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	var text string
	switch v := result.(type) {
	case string:
		text = v
	case fmt.Stringer:
		text = v.String()
	default:
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		text = string(b)
	}
	_, err := fmt.Fprintln(p.Out, text)
	return err
}

// Error prints err in red, prefixed by its kind when it is a domain error.
func (p *Printer) Error(err error) {
	if p.JSON {
		p.jsonError(err)
		return
	}
	label := "error"
	if k := domain.Kind(err); k != "" {
		label = k + " error"
	}
	prefix := p.err.String(label + ":").Foreground(p.err.Color("1")).Bold()
	fmt.Fprintf(p.Err, "%s %v\n", prefix, err)

	var pe *domain.ParseError
	if errors.As(err, &pe) && pe.Line > 0 {
		hint := p.err.String(fmt.Sprintf("  at line %d, column %d", pe.Line, pe.Column)).Faint()
		fmt.Fprintln(p.Err, hint)
	}
}

func (p *Printer) jsonError(err error) {
	body := map[string]string{"error": err.Error()}
	if k := domain.Kind(err); k != "" {
		body["kind"] = k
	}
	enc := json.NewEncoder(p.Err)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(body)
}

// Success prints a green confirmation line to Err.
func (p *Printer) Success(format string, args ...any) {
	msg := p.err.String(fmt.Sprintf(format, args...)).Foreground(p.err.Color("2"))
	fmt.Fprintln(p.Err, msg)
}

// Heading returns s styled for section titles on Out.
func (p *Printer) Heading(s string) string {
	return p.out.String(s).Bold().String()
}
