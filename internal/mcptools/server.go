package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/catmerge/internal/orchestrator"
)

// version is set by the linker at build time.
var version = "dev"

// NewCatalogMCPServer creates an MCP server with the 4 catalog tools registered:
// merge_artifacts, merge_runs, remap_files and check_integrity.
func NewCatalogMCPServer(opts orchestrator.Options) *mcp.Server {
	svc := NewCatalogService(opts)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "catmerge",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge_artifacts",
		Description: "Merge two catalog artifacts (engines, feature tree, engine-dependent or engine-independent tests) or two directories holding them. Records of the newer side win; the result is written as merged-<name>.",
	}, svc.MergeArtifacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge_runs",
		Description: "Concatenate the engine-dependent tests of every run directory below a root into root/tests-engine-dependent.json and gather their files into root/files.",
	}, svc.MergeRuns)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remap_files",
		Description: "Rewrite the file references of a test artifact into the canonical files/ layout and copy the files there. A second call on the same artifact is a no-op.",
	}, svc.RemapFiles)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_integrity",
		Description: "Cross-check the four catalog artifacts of a directory: unused engines, untested features, duplicate tests, undeclared engines and missing files. Writes one text report per check.",
	}, svc.CheckIntegrity)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
