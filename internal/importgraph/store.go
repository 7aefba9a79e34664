package importgraph

import (
	"context"
	"io"
	"math"
	"sort"
)

// Store is the interface for persisted import graph backends.
// Implementations: KuzuStore (cgo builds), MemStore (tests and default runs).
type Store interface {
	io.Closer

	// Schema setup, called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// Write operations.
	AddFile(ctx context.Context, node FileNode) error
	AddEdge(ctx context.Context, edge ImportEdge) error

	// Read operations.
	GetFile(ctx context.Context, path string) (*FileNode, error)
	Files(ctx context.Context) ([]FileNode, error)
	Edges(ctx context.Context) ([]ImportEdge, error)

	// Dependents returns the files that import path, directly or
	// transitively, following reverse import edges up to maxDepth hops.
	Dependents(ctx context.Context, path string, maxDepth int) ([]string, error)

	// Stats.
	Stats(ctx context.Context) (*Stats, error)
}

// PopulateStore writes a trace result into a store: one File node per graph
// file and one IMPORTS edge per resolved import.
func PopulateStore(ctx context.Context, store Store, res *Result) error {
	if err := store.InitSchema(ctx); err != nil {
		return err
	}
	nodes, err := res.FileNodes()
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if err := store.AddFile(ctx, n); err != nil {
			return err
		}
	}
	for _, e := range res.Edges {
		if err := store.AddEdge(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// AssessImpact computes the blast radius of changing a set of files: the
// direct importers, the full upstream closure, and a risk score from the
// fan-out ratio against the whole graph.
func AssessImpact(ctx context.Context, store Store, changed []string) (*ImpactResult, error) {
	stats, err := store.Stats(ctx)
	if err != nil {
		return nil, err
	}

	changedSet := make(map[string]bool, len(changed))
	for _, f := range changed {
		changedSet[f] = true
	}

	directSet := make(map[string]bool)
	transitiveSet := make(map[string]bool)

	for _, f := range changed {
		direct, err := store.Dependents(ctx, f, 1)
		if err != nil {
			return nil, err
		}
		for _, d := range direct {
			directSet[d] = true
		}

		transitive, err := store.Dependents(ctx, f, 10)
		if err != nil {
			return nil, err
		}
		for _, d := range transitive {
			transitiveSet[d] = true
		}
	}

	direct := filterKeys(directSet, changedSet)
	transitive := filterKeys(transitiveSet, changedSet)

	risk := 0.0
	if stats.FileCount > 0 {
		risk = math.Min(1.0, float64(len(transitive))/float64(stats.FileCount))
	}

	return &ImpactResult{
		DirectlyAffected:     direct,
		TransitivelyAffected: transitive,
		RiskScore:            risk,
	}, nil
}

// filterKeys returns keys from set that are not in exclude, sorted.
func filterKeys(set, exclude map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if !exclude[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
