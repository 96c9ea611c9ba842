package main

import (
	"github.com/spf13/cobra"

	"github.com/dusk-indust/catmerge/internal/logging"
	"github.com/dusk-indust/catmerge/internal/mcptools"
)

func newServeMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the merge, remap and check tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := mcptools.NewCatalogMCPServer(a.options())
			logging.New("mcp").Info("starting catmerge MCP server over stdio")
			return mcptools.RunStdio(cmd.Context(), server)
		},
	}
}
