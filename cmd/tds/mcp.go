package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/tds/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes scoring, zone lookup and prompt building as MCP tools so AI agents can call them.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, logger, cleanup, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		srv := mcp.NewServer(engine, logger)

		switch transport {
		case "stdio":
			logger.Info("starting tds MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting tds MCP server (sse)", "port", port)
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ServeSSE(ctx, port); err != nil && err != http.ErrServerClosed {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport %q: supported stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
