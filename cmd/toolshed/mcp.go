package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/toolshed"
	"github.com/aretw0/toolshed/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes every toolshed tool to AI agents as an MCP tool.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.
- http: Uses the streamable HTTP transport on /mcp.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")
		baseURL, _ := cmd.Flags().GetString("base-url")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		tb := toolshed.New(toolshed.WithLogger(logger))
		srv := mcp.NewServer(tb, mcp.WithLogger(logger), mcp.WithVersion(toolshed.Version))

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting toolshed MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			if baseURL == "" {
				baseURL = "http://localhost" + addr
			}
			return ignoreClosed(srv.ServeSSE(cmd.Context(), addr, baseURL))
		case "http":
			return ignoreClosed(srv.ServeStreamableHTTP(cmd.Context(), addr))
		}
		return fmt.Errorf("unknown transport %q: use stdio, sse or http", transport)
	},
}

// ignoreClosed drops the error a listener reports after a requested shutdown.
func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio, sse or http")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on for the sse and http transports")
	mcpCmd.Flags().String("base-url", "", "Public base URL of the SSE endpoint")
}
