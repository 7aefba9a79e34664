package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dusk-indust/shipgraph/internal/importgraph"
	"github.com/dusk-indust/shipgraph/internal/mcptools"
)

func newServeCmd(logger *log.Logger) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Run the import graph tools as an MCP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := mcptools.NewTraceService(importgraph.NewTracer(nil))
			logger.Info("serving MCP tools", "addr", addr)
			return mcptools.RunMCPServer(cmd.Context(), svc, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7341", "listen address for the MCP HTTP server")
	return cmd
}
