package mcptools

import "github.com/dusk-indust/shipgraph/internal/importgraph"

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// TracePackageInput is the input for the trace_package MCP tool.
type TracePackageInput struct {
	ManifestPath string `json:"manifestPath" jsonschema:"the absolute path to the package.json whose public surface to trace"`
}

// TraceEntriesInput is the input for the trace_entries MCP tool.
type TraceEntriesInput struct {
	Root    string   `json:"root" jsonschema:"the directory relative entry specifiers are resolved against"`
	Entries []string `json:"entries" jsonschema:"entry specifiers to trace from (e.g. ./src/index.ts)"`
}

// TraceOutput is the result of the trace_package and trace_entries tools.
type TraceOutput struct {
	Entries []string                   `json:"entries"`
	Files   []string                   `json:"files"`
	Errors  []importgraph.ResolveError `json:"errors"`
}

// ShippableFilesInput is the input for the shippable_files MCP tool.
type ShippableFilesInput struct {
	ManifestPath string `json:"manifestPath" jsonschema:"the absolute path to the package.json to compute shippable files for"`
}

// ShippableFilesOutput is the result of the shippable_files MCP tool.
type ShippableFilesOutput struct {
	Files []string `json:"files"`
}
