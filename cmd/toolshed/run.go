package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/toolshed"
	"github.com/aretw0/toolshed/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <tool> [key=value ...]",
	Short: "Run any tool by name",
	Long: `Runs a tool with key=value arguments. A value of @path reads the file, @- reads stdin.

With --batch, reads newline-delimited JSON requests such as
  {"id":"1","tool":"base64-encode","args":{"text":"hi"}}
from --file or stdin and writes one JSON response per line.`,
	Example: `  toolshed run json-format text=@data.json indent=4
  toolshed run uuid version=v7 count=3
  toolshed run --batch --file requests.jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, _ := cmd.Flags().GetBool("batch")
		if batch {
			return runBatch(cmd)
		}
		if len(args) == 0 {
			return fmt.Errorf("missing tool name; see 'toolshed list'")
		}

		toolArgs, err := cli.ParseArgs(args[1:], cmd.InOrStdin())
		if err != nil {
			return err
		}
		if raw, _ := cmd.Flags().GetString("args"); raw != "" {
			var extra map[string]any
			if err := json.Unmarshal([]byte(raw), &extra); err != nil {
				return fmt.Errorf("error parsing --args JSON: %w", err)
			}
			for k, v := range extra {
				toolArgs[k] = v
			}
		}
		return invoke(cmd, args[0], toolArgs)
	},
}

func runBatch(cmd *cobra.Command) error {
	logger, err := commandLogger(cmd)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if file, _ := cmd.Flags().GetString("file"); file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open batch input: %w", err)
		}
		defer f.Close()
		in = f
	}

	runner := toolshed.NewRunner(in, cmd.OutOrStdout())
	runner.StopOnError, _ = cmd.Flags().GetBool("stop-on-error")

	failed, err := runner.Run(cmd.Context(), toolshed.New(toolshed.WithLogger(logger)))
	if err != nil {
		return err
	}
	if failed > 0 {
		return exitError{code: 2, err: fmt.Errorf("%d request(s) failed", failed)}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("args", "", "Tool arguments as a JSON object")
	runCmd.Flags().Bool("batch", false, "Read JSONL requests and write JSONL responses")
	runCmd.Flags().StringP("file", "f", "", "Batch input file (default stdin)")
	runCmd.Flags().Bool("stop-on-error", false, "Stop the batch at the first failing request")
}
