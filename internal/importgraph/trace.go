// Package importgraph computes the transitive closure of source files
// reachable from a package's declared public surface. The closure is the
// filtering oracle for the rest of the build: it decides which hand-written
// declaration files ship when rollup is unavailable and keeps test code out
// of published output.
package importgraph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dusk-indust/shipgraph/internal/manifest"
)

// defaultMaxVisits bounds the number of paths a single trace will visit.
// Canonicalization already defuses ordinary symlink cycles; the ceiling
// guarantees termination even against a caller-crafted link farm.
const defaultMaxVisits = 100000

// Options configure a single trace.
type Options struct {
	// Root is the directory relative entry specifiers are resolved
	// against. TraceFromPackageExports defaults it to the manifest's
	// directory; TraceFromEntries defaults it to the working directory.
	Root string

	// MaxVisits overrides the traversal safety ceiling. Zero means the
	// default.
	MaxVisits int
}

// Tracer computes reachability closures over local module imports. It holds
// only the specifier scanner: every trace owns its own visited set and
// work-list, so one Tracer may be reused across packages without cross-call
// contamination.
type Tracer struct {
	scanner Scanner
}

// NewTracer returns a Tracer using the given scanner, or the tree-sitter
// scanner when nil.
func NewTracer(scanner Scanner) *Tracer {
	if scanner == nil {
		scanner = NewTreeSitterScanner()
	}
	return &Tracer{scanner: scanner}
}

// TraceFromPackageExports extracts entry specifiers from a package manifest
// and traces the graph from them. A missing or unparsable manifest is
// reported as a package_json_not_found value with empty entries and files,
// not as a Go error: the error return carries environment failures only.
func (t *Tracer) TraceFromPackageExports(ctx context.Context, manifestPath string, opts Options) (*Result, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return &Result{
			Errors: []ResolveError{{Kind: ErrManifestNotFound, Specifier: manifestPath}},
		}, nil
	}

	if opts.Root == "" {
		opts.Root = m.Dir
	}
	return t.TraceFromEntries(ctx, m.EntrySpecifiers(), opts)
}

// TraceFromEntries resolves each entry specifier and computes the
// reachability closure. Unresolvable entries and specifiers become error
// values; only genuine I/O failures (an unreadable file that exists) abort
// the trace.
func (t *Tracer) TraceFromEntries(ctx context.Context, specifiers []string, opts Options) (*Result, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	maxVisits := opts.MaxVisits
	if maxVisits <= 0 {
		maxVisits = defaultMaxVisits
	}

	res := &Result{}
	var queue []string

	for _, spec := range specifiers {
		base := spec
		if !filepath.IsAbs(base) {
			base = filepath.Join(absRoot, spec)
		}
		resolved, ok := resolveFile(base)
		if !ok {
			res.Errors = append(res.Errors, ResolveError{Kind: ErrEntryNotFound, Specifier: spec})
			continue
		}
		canon := canonicalPath(resolved)
		res.Entries = append(res.Entries, canon)
		queue = append(queue, canon)
	}

	visited := make(map[string]bool)
	edgeSeen := make(map[ImportEdge]bool)

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if visited[path] {
			continue
		}
		if len(visited) >= maxVisits {
			break
		}
		visited[path] = true

		// Excluded files are dead ends: they represent non-public code
		// whose internal dependencies are irrelevant to the public graph.
		if Excluded(path) {
			continue
		}
		res.Files = append(res.Files, path)

		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		specs, err := t.scanner.Scan(ctx, path, source)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}

		dir := filepath.Dir(path)
		for _, spec := range specs {
			if !isLocalSpecifier(spec) {
				continue // bare package or external reference: graph boundary
			}
			resolved, ok := resolveFile(filepath.Join(dir, spec))
			if !ok {
				res.Errors = append(res.Errors, ResolveError{
					Kind:         ErrResolveFailed,
					Specifier:    spec,
					ReferencedBy: path,
				})
				continue
			}
			canon := canonicalPath(resolved)
			// Excluded targets never join Files, so an edge to one would
			// dangle in every consumer of the edge list.
			if !Excluded(canon) {
				edge := ImportEdge{From: path, To: canon}
				if !edgeSeen[edge] {
					edgeSeen[edge] = true
					res.Edges = append(res.Edges, edge)
				}
			}
			if !visited[canon] {
				queue = append(queue, canon)
			}
		}
	}

	return res, nil
}

// TraceFromPackageExports traces a manifest's public surface with a freshly
// constructed default Tracer.
func TraceFromPackageExports(ctx context.Context, manifestPath string, opts Options) (*Result, error) {
	return NewTracer(nil).TraceFromPackageExports(ctx, manifestPath, opts)
}

// TraceFromEntries traces explicit entry specifiers with a freshly
// constructed default Tracer.
func TraceFromEntries(ctx context.Context, specifiers []string, opts Options) (*Result, error) {
	return NewTracer(nil).TraceFromEntries(ctx, specifiers, opts)
}

// FileNodes materializes store nodes for every file in the result, reading
// each file once to count lines.
func (r *Result) FileNodes() ([]FileNode, error) {
	nodes := make([]FileNode, 0, len(r.Files))
	for _, f := range r.Files {
		source, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		nodes = append(nodes, FileNode{
			Path: f,
			Ext:  filepath.Ext(f),
			LOC:  countLOC(source),
		})
	}
	return nodes, nil
}
