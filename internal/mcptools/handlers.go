package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/shipgraph/internal/importgraph"
	"github.com/dusk-indust/shipgraph/internal/manifest"
	"github.com/dusk-indust/shipgraph/internal/pipeline"
)

// TraceService holds the tracer used by MCP tool handlers.
type TraceService struct {
	tracer *importgraph.Tracer
}

// NewTraceService creates a TraceService around the given tracer.
func NewTraceService(tracer *importgraph.Tracer) *TraceService {
	return &TraceService{tracer: tracer}
}

// TracePackage traces a package manifest's public surface.
func (s *TraceService) TracePackage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TracePackageInput,
) (*mcp.CallToolResult, TraceOutput, error) {
	if input.ManifestPath == "" {
		return nil, TraceOutput{}, fmt.Errorf("manifestPath is required")
	}

	res, err := s.tracer.TraceFromPackageExports(ctx, input.ManifestPath, importgraph.Options{})
	if err != nil {
		return nil, TraceOutput{}, err
	}
	return nil, traceOutput(res), nil
}

// TraceEntries traces explicit entry specifiers.
func (s *TraceService) TraceEntries(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TraceEntriesInput,
) (*mcp.CallToolResult, TraceOutput, error) {
	if len(input.Entries) == 0 {
		return nil, TraceOutput{}, fmt.Errorf("entries is required")
	}

	res, err := s.tracer.TraceFromEntries(ctx, input.Entries, importgraph.Options{Root: input.Root})
	if err != nil {
		return nil, TraceOutput{}, err
	}
	return nil, traceOutput(res), nil
}

// ShippableFiles traces a manifest and narrows the closure by its "files"
// allowlist, returning exactly what a publish would ship.
func (s *TraceService) ShippableFiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ShippableFilesInput,
) (*mcp.CallToolResult, ShippableFilesOutput, error) {
	if input.ManifestPath == "" {
		return nil, ShippableFilesOutput{}, fmt.Errorf("manifestPath is required")
	}

	m, err := manifest.Load(input.ManifestPath)
	if err != nil {
		return nil, ShippableFilesOutput{}, fmt.Errorf("load manifest: %w", err)
	}

	res, err := s.tracer.TraceFromPackageExports(ctx, input.ManifestPath, importgraph.Options{})
	if err != nil {
		return nil, ShippableFilesOutput{}, err
	}

	packer := &pipeline.Packer{Manifest: m}
	return nil, ShippableFilesOutput{Files: packer.Select(res.Files)}, nil
}

func traceOutput(res *importgraph.Result) TraceOutput {
	return TraceOutput{
		Entries: res.Entries,
		Files:   res.Files,
		Errors:  res.Errors,
	}
}
