package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewTraceMCPServer creates an MCP server with the import graph tools
// registered.
func NewTraceMCPServer(svc *TraceService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "shipgraph-trace",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "trace_package",
		Description: "Trace the transitive closure of source files reachable from a package's declared public surface (exports map, bin scripts, main/module fields). Returns entries, files, and structured resolution errors.",
	}, svc.TracePackage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "trace_entries",
		Description: "Trace the import graph from explicit entry specifiers instead of a package manifest. Resolution and exclusion behave exactly as for trace_package.",
	}, svc.TraceEntries)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "shippable_files",
		Description: "Compute the files a publish would actually ship: the traced closure narrowed by the manifest files allowlist, with test and spec files excluded.",
	}, svc.ShippableFiles)

	return server
}

// RunMCPServer starts an HTTP server exposing the import graph MCP tools.
func RunMCPServer(ctx context.Context, svc *TraceService, addr string) error {
	server := NewTraceMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
