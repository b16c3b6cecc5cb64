package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/aretw0/toolshed"
	"github.com/aretw0/toolshed/internal/cli"
	"github.com/aretw0/toolshed/internal/config"
	"github.com/aretw0/toolshed/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "toolshed",
	Short: "Developer utilities on the command line, over HTTP and over MCP",
	Long: `Toolshed bundles encoders, formatters, generators, date and text tools.
Run them directly, serve them as web pages and a JSON API, or expose them to AI agents over MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	sc := cli.NewSignalContext(context.Background())
	defer sc.Cancel()

	if err := rootCmd.ExecuteContext(sc); err != nil {
		jsonMode, _ := rootCmd.PersistentFlags().GetBool("json")
		cli.NewPrinter(os.Stdout, os.Stderr, jsonMode).Error(err)
		if code := sc.ExitCode(); code != 0 {
			os.Exit(code)
		}
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("json", false, "Print results and errors as JSON")
}

// exitError carries a process exit code other than 1.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) Unwrap() error { return e.err }

// loadConfig reads the config file and applies the --log-level flag.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		if _, err := logging.ParseLevel(level); err != nil {
			return cfg, err
		}
		cfg.Log.Level = level
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg, writing to stderr.
func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(level, cfg.Log.Format, os.Stderr)
}

// commandLogger is silent unless --log-level was given. One-shot commands
// already report failures through the printer.
func commandLogger(cmd *cobra.Command) (*slog.Logger, error) {
	if !cmd.Flags().Changed("log-level") {
		return logging.NewNop(), nil
	}
	level, _ := cmd.Flags().GetString("log-level")
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

func printer(cmd *cobra.Command) *cli.Printer {
	jsonMode, _ := cmd.Flags().GetBool("json")
	return cli.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), jsonMode)
}

// invoke runs one tool and prints its result.
func invoke(cmd *cobra.Command, tool string, args map[string]any) error {
	logger, err := commandLogger(cmd)
	if err != nil {
		return err
	}
	tb := toolshed.New(toolshed.WithLogger(logger))
	result, err := tb.Invoke(cmd.Context(), tool, args)
	if err != nil {
		return err
	}
	return printer(cmd).Result(result)
}

// readText acquires the text argument of a command from args, --file or stdin.
func readText(cmd *cobra.Command, args []string) (string, error) {
	file, _ := cmd.Flags().GetString("file")
	return cli.Input{Args: args, File: file, Stdin: cmd.InOrStdin()}.Read()
}
