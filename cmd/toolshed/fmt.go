package main

import (
	"fmt"
	"os"

	"github.com/aretw0/toolshed/internal/cli"
	"github.com/spf13/cobra"
)

// formatTools maps --lang values to catalog tools.
var formatTools = map[string]string{
	"json":         "json-format",
	"xml":          "xml-format",
	"json-to-yaml": "json-to-yaml",
	"yaml-to-json": "yaml-to-json",
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [text]",
	Short: "Pretty-print or convert JSON, XML and YAML",
	Example: `  echo '{"b":1,"a":[]}' | toolshed fmt --sort-keys
  toolshed fmt --lang xml -f feed.xml
  toolshed fmt --lang json-to-yaml -f config.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("lang")
		tool, ok := formatTools[lang]
		if !ok {
			return fmt.Errorf("unknown --lang %q: use json, xml, json-to-yaml or yaml-to-json", lang)
		}
		text, err := readText(cmd, args)
		if err != nil {
			return err
		}

		indent, _ := cmd.Flags().GetInt("indent")
		if minify, _ := cmd.Flags().GetBool("minify"); minify {
			indent = 0
		}
		toolArgs := map[string]any{"text": text, "indent": indent}
		if tool == "json-format" {
			toolArgs["sort_keys"], _ = cmd.Flags().GetBool("sort-keys")
			toolArgs["tabs"], _ = cmd.Flags().GetBool("tabs")
		}
		return invoke(cmd, tool, toolArgs)
	},
}

var mdCmd = &cobra.Command{
	Use:   "md [text]",
	Short: "Convert Markdown to sanitized HTML, or render it in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(cmd, args)
		if err != nil {
			return err
		}

		if render, _ := cmd.Flags().GetBool("render"); render {
			style, _ := cmd.Flags().GetString("style")
			if style == "" && !cli.IsTerminal(os.Stdout) {
				style = "notty"
			}
			width, _ := cmd.Flags().GetInt("width")
			renderer, err := cli.NewMarkdownRenderer(style, width)
			if err != nil {
				return err
			}
			out, err := renderer(text)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		}

		hardWraps, _ := cmd.Flags().GetBool("hard-wraps")
		headingIDs, _ := cmd.Flags().GetBool("heading-ids")
		return invoke(cmd, "markdown-html", map[string]any{
			"text":        text,
			"hard_wraps":  hardWraps,
			"heading_ids": headingIDs,
		})
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd, mdCmd)

	fmtCmd.Flags().StringP("file", "f", "", "Read input from a file, - for stdin")
	fmtCmd.Flags().StringP("lang", "l", "json", "json, xml, json-to-yaml or yaml-to-json")
	fmtCmd.Flags().IntP("indent", "i", 2, "Spaces per nesting level")
	fmtCmd.Flags().Bool("minify", false, "Remove insignificant whitespace")
	fmtCmd.Flags().Bool("sort-keys", false, "Order JSON object members by key")
	fmtCmd.Flags().Bool("tabs", false, "Indent JSON with tabs")

	mdCmd.Flags().StringP("file", "f", "", "Read input from a file, - for stdin")
	mdCmd.Flags().Bool("render", false, "Render for the terminal instead of converting to HTML")
	mdCmd.Flags().String("style", "", "Glamour style for --render (auto, dark, light, notty)")
	mdCmd.Flags().Int("width", 80, "Word wrap width for --render")
	mdCmd.Flags().Bool("hard-wraps", false, "Render single newlines as line breaks")
	mdCmd.Flags().Bool("heading-ids", false, "Add id attributes to headings")
}
