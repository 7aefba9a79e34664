package importgraph

import "fmt"

// --- Errors ---

// ErrorKind discriminates resolution failures.
type ErrorKind string

const (
	// ErrManifestNotFound means the package manifest was missing or unreadable.
	ErrManifestNotFound ErrorKind = "package_json_not_found"
	// ErrEntryNotFound means a declared entry specifier resolved to no file.
	ErrEntryNotFound ErrorKind = "entry_not_found"
	// ErrResolveFailed means a local specifier inside a reachable file
	// resolved to no file.
	ErrResolveFailed ErrorKind = "resolve_failed"
)

// ResolveError is a structured resolution failure. Failures are data carried
// in Result.Errors, never panics: callers decide which kinds are fatal.
type ResolveError struct {
	Kind         ErrorKind `json:"kind"`
	Specifier    string    `json:"specifier"`
	ReferencedBy string    `json:"referencedBy,omitempty"` // set for resolve_failed only
}

func (e ResolveError) Error() string {
	if e.ReferencedBy != "" {
		return fmt.Sprintf("%s: %q (imported by %s)", e.Kind, e.Specifier, e.ReferencedBy)
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Specifier)
}

// --- Models ---

// FileNode represents a source file in the traced graph.
type FileNode struct {
	Path string `json:"path"`
	Ext  string `json:"ext"`
	LOC  int    `json:"loc"`
}

// ImportEdge is a resolved file-to-file import observed during traversal.
type ImportEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Stats summarizes a stored import graph.
type Stats struct {
	FileCount int `json:"fileCount"`
	EdgeCount int `json:"edgeCount"`
}

// ImpactResult describes the blast radius of changing a set of files.
type ImpactResult struct {
	DirectlyAffected     []string `json:"directlyAffected"`     // files that import changed files
	TransitivelyAffected []string `json:"transitivelyAffected"` // full upstream closure
	RiskScore            float64  `json:"riskScore"`            // 0.0-1.0, based on fan-out
}

// --- Result ---

// Result is the output of a single trace: the reachability closure of the
// package's public surface. It is constructed once per call and shares no
// state with other traces.
type Result struct {
	// Entries are the resolved starting points, one per successfully
	// resolved entry specifier, in input order.
	Entries []string `json:"entries"`

	// Files is the deduplicated set of reachable source files, in
	// first-visit order. Excluded files and declaration files never appear.
	Files []string `json:"files"`

	// Edges are the resolved imports observed between files in the graph.
	Edges []ImportEdge `json:"edges,omitempty"`

	// Errors holds every resolution failure, in the order encountered.
	Errors []ResolveError `json:"errors"`
}

// HasFile reports whether path is part of the traced closure.
func (r *Result) HasFile(path string) bool {
	for _, f := range r.Files {
		if f == path {
			return true
		}
	}
	return false
}

// ErrorsOfKind returns the subset of Errors matching kind.
func (r *Result) ErrorsOfKind(kind ErrorKind) []ResolveError {
	var out []ResolveError
	for _, e := range r.Errors {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
