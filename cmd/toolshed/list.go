package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/toolshed"
	"github.com/aretw0/toolshed/pkg/domain"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tool",
	RunE: func(cmd *cobra.Command, args []string) error {
		tools := toolshed.New().Tools()

		p := printer(cmd)
		if p.JSON {
			return p.Result(tools)
		}

		verbose, _ := cmd.Flags().GetBool("params")
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		var current domain.Category
		for _, t := range tools {
			if t.Category != current {
				if current != "" {
					fmt.Fprintln(w)
				}
				current = t.Category
				fmt.Fprintln(w, p.Heading(current.Label()))
			}
			fmt.Fprintf(w, "  %s\t%s\n", t.Name, t.Description)
			if verbose {
				for _, param := range t.Params {
					req := ""
					if param.Required {
						req = " (required)"
					}
					fmt.Fprintf(w, "    --%s\t%s %s%s\n", param.Name, param.Type, param.Description, req)
				}
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("params", false, "Show each tool's parameters")
}
