//go:build cgo

package importgraph

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a fresh in-memory KuzuStore with an initialized schema.
// It registers a cleanup function to close the store when the test finishes.
func newTestStore(t *testing.T) *KuzuStore {
	t.Helper()
	s, err := NewKuzuStore()
	require.NoError(t, err, "NewKuzuStore should not fail")
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.InitSchema(ctx), "InitSchema should not fail")
	return s
}

// sorted returns a sorted copy of the given string slice so that assertions
// are deterministic regardless of result ordering.
func sorted(ss []string) []string {
	out := make([]string, len(ss))
	copy(out, ss)
	sort.Strings(out)
	return out
}

func TestKuzuStore_InitSchema(t *testing.T) {
	s, err := NewKuzuStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()

	// First call creates the tables.
	require.NoError(t, s.InitSchema(ctx))

	// Second call should be idempotent (IF NOT EXISTS).
	require.NoError(t, s.InitSchema(ctx))
}

func TestKuzuStore_FileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	file := FileNode{
		Path: "src/service.ts",
		Ext:  ".ts",
		LOC:  420,
	}

	require.NoError(t, s.AddFile(ctx, file))

	got, err := s.GetFile(ctx, file.Path)
	require.NoError(t, err)
	require.NotNil(t, got, "GetFile should return a non-nil result")

	assert.Equal(t, file.Path, got.Path)
	assert.Equal(t, file.Ext, got.Ext)
	assert.Equal(t, file.LOC, got.LOC)
}

func TestKuzuStore_GetFile_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetFile(ctx, "nonexistent.ts")
	require.NoError(t, err)
	assert.Nil(t, got, "GetFile should return nil for a missing file")
}

func TestKuzuStore_FilesAndEdges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	files := []FileNode{
		{Path: "a.ts", Ext: ".ts", LOC: 10},
		{Path: "b.ts", Ext: ".ts", LOC: 20},
	}
	for _, f := range files {
		require.NoError(t, s.AddFile(ctx, f))
	}
	require.NoError(t, s.AddEdge(ctx, ImportEdge{From: "a.ts", To: "b.ts"}))

	gotFiles, err := s.Files(ctx)
	require.NoError(t, err)
	assert.Len(t, gotFiles, 2)

	gotEdges, err := s.Edges(ctx)
	require.NoError(t, err)
	require.Len(t, gotEdges, 1)
	assert.Equal(t, ImportEdge{From: "a.ts", To: "b.ts"}, gotEdges[0])
}

func TestKuzuStore_Dependents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A imports B, B imports C. Dependents of C walk the edges backward.
	files := []FileNode{
		{Path: "a.ts", Ext: ".ts", LOC: 10},
		{Path: "b.ts", Ext: ".ts", LOC: 20},
		{Path: "c.ts", Ext: ".ts", LOC: 30},
	}
	for _, f := range files {
		require.NoError(t, s.AddFile(ctx, f))
	}
	require.NoError(t, s.AddEdge(ctx, ImportEdge{From: "a.ts", To: "b.ts"}))
	require.NoError(t, s.AddEdge(ctx, ImportEdge{From: "b.ts", To: "c.ts"}))

	t.Run("depth 1", func(t *testing.T) {
		deps, err := s.Dependents(ctx, "c.ts", 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"b.ts"}, deps)
	})

	t.Run("depth 10", func(t *testing.T) {
		deps, err := s.Dependents(ctx, "c.ts", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"b.ts", "a.ts"}, deps)
	})

	t.Run("root has no dependents", func(t *testing.T) {
		deps, err := s.Dependents(ctx, "a.ts", 10)
		require.NoError(t, err)
		assert.Empty(t, deps)
	})
}

func TestKuzuStore_Dependents_DiamondGraph(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Diamond: A imports B, A imports C, B imports D, C imports D.
	//   A
	//  / \
	// B   C
	//  \ /
	//   D
	files := []FileNode{
		{Path: "a.ts", Ext: ".ts", LOC: 10},
		{Path: "b.ts", Ext: ".ts", LOC: 10},
		{Path: "c.ts", Ext: ".ts", LOC: 10},
		{Path: "d.ts", Ext: ".ts", LOC: 10},
	}
	for _, f := range files {
		require.NoError(t, s.AddFile(ctx, f))
	}
	require.NoError(t, s.AddEdge(ctx, ImportEdge{From: "a.ts", To: "b.ts"}))
	require.NoError(t, s.AddEdge(ctx, ImportEdge{From: "a.ts", To: "c.ts"}))
	require.NoError(t, s.AddEdge(ctx, ImportEdge{From: "b.ts", To: "d.ts"}))
	require.NoError(t, s.AddEdge(ctx, ImportEdge{From: "c.ts", To: "d.ts"}))

	// A is reached only once despite two upstream paths.
	deps, err := s.Dependents(ctx, "d.ts", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts", "b.ts", "c.ts"}, sorted(deps))
}

func TestKuzuStore_AssessImpact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A imports B, C imports B, B imports D. Change D:
	//   direct dependents: B
	//   transitive dependents: B, A, C
	files := []FileNode{
		{Path: "a.ts", Ext: ".ts", LOC: 10},
		{Path: "b.ts", Ext: ".ts", LOC: 20},
		{Path: "c.ts", Ext: ".ts", LOC: 30},
		{Path: "d.ts", Ext: ".ts", LOC: 40},
	}
	for _, f := range files {
		require.NoError(t, s.AddFile(ctx, f))
	}
	require.NoError(t, s.AddEdge(ctx, ImportEdge{From: "a.ts", To: "b.ts"}))
	require.NoError(t, s.AddEdge(ctx, ImportEdge{From: "c.ts", To: "b.ts"}))
	require.NoError(t, s.AddEdge(ctx, ImportEdge{From: "b.ts", To: "d.ts"}))

	result, err := AssessImpact(ctx, s, []string{"d.ts"})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, []string{"b.ts"}, result.DirectlyAffected)
	assert.Equal(t, []string{"a.ts", "b.ts", "c.ts"}, result.TransitivelyAffected)

	// RiskScore = len(transitive) / totalFiles = 3/4 = 0.75.
	assert.InDelta(t, 0.75, result.RiskScore, 0.01)
}

func TestKuzuStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Start with an empty graph.
	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FileCount)
	assert.Equal(t, 0, stats.EdgeCount)

	require.NoError(t, s.AddFile(ctx, FileNode{Path: "x.ts", Ext: ".ts", LOC: 100}))
	require.NoError(t, s.AddFile(ctx, FileNode{Path: "y.ts", Ext: ".ts", LOC: 200}))
	require.NoError(t, s.AddEdge(ctx, ImportEdge{From: "x.ts", To: "y.ts"}))

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FileCount)
	assert.Equal(t, 1, stats.EdgeCount)
}

func TestKuzuStore_FileBacked(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "graphs", "pkg.kuzu")

	s, err := NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.InitSchema(ctx))
	require.NoError(t, s.AddFile(ctx, FileNode{Path: "index.ts", Ext: ".ts", LOC: 12}))

	got, err := s.GetFile(ctx, "index.ts")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 12, got.LOC)
}

func TestKuzuStore_Close(t *testing.T) {
	s, err := NewKuzuStore()
	require.NoError(t, err)

	// Close should succeed without error.
	require.NoError(t, s.Close())
}
