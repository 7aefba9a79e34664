package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/dusk-indust/shipgraph/internal/importgraph"
)

// TraceExport is the top-level JSON export structure for a traced graph.
type TraceExport struct {
	Package    string                     `json:"package,omitempty"`
	ExportedAt string                     `json:"exportedAt"`
	Entries    []string                   `json:"entries"`
	Files      []string                   `json:"files"`
	Edges      []importgraph.ImportEdge   `json:"edges,omitempty"`
	Errors     []importgraph.ResolveError `json:"errors"`
	Stats      TraceStats                 `json:"stats"`
}

// TraceStats summarizes a trace for reporting.
type TraceStats struct {
	EntryCount int `json:"entryCount"`
	FileCount  int `json:"fileCount"`
	EdgeCount  int `json:"edgeCount"`
	ErrorCount int `json:"errorCount"`
}

// BuildTraceExport assembles a TraceExport from a trace result.
func BuildTraceExport(pkgName string, res *importgraph.Result) *TraceExport {
	return &TraceExport{
		Package:    pkgName,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    res.Entries,
		Files:      res.Files,
		Edges:      res.Edges,
		Errors:     res.Errors,
		Stats: TraceStats{
			EntryCount: len(res.Entries),
			FileCount:  len(res.Files),
			EdgeCount:  len(res.Edges),
			ErrorCount: len(res.Errors),
		},
	}
}

// WriteJSON writes the export as indented JSON.
func WriteJSON(w io.Writer, ex *TraceExport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ex)
}
