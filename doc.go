/*
Package toolshed is a catalog of small, pure developer utilities: encoders and decoders,
JSON/XML/YAML formatters, generators, date and time arithmetic and text helpers.

Every tool is a deterministic function over its inputs (generators aside) with a typed error taxonomy,
so the same catalog can back a website, a JSON API, an MCP server and a CLI.

# Concept

Each tool is registered under a stable name with a descriptor (slug, title, parameters). The Toolbox
validates loosely typed arguments against the descriptor, applies defaults, runs the tool and reports
the invocation through lifecycle hooks. Adapters (HTTP, MCP, CLI) only talk to the Toolbox.

# Usage

	tb := toolshed.New(toolshed.WithLogger(logger))

	out, err := tb.Invoke(ctx, "json-format", map[string]any{
		"text":   `{"a":[1,2]}`,
		"indent": 2,
	})
	if err != nil {
		var pe *domain.ParseError
		if errors.As(err, &pe) {
			log.Printf("line %d, column %d", pe.Line, pe.Column)
		}
	}

The pure functions are also importable directly from pkg/codec, pkg/format, pkg/generate,
pkg/datetime and pkg/text.
*/
package toolshed
