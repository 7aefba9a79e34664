package mcptools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/shipgraph/internal/importgraph"
)

// fixtureManifest returns the absolute path to the ts_package fixture's
// package.json. Tests run from internal/mcptools/, so the relative path is
// ../../testdata/fixtures/ts_package.
func fixtureManifest(t *testing.T) string {
	t.Helper()
	abs, err := filepath.Abs("../../testdata/fixtures/ts_package/package.json")
	require.NoError(t, err)
	return abs
}

func newTestService() *TraceService {
	return NewTraceService(importgraph.NewTracer(nil))
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func TestTracePackage(t *testing.T) {
	svc := newTestService()

	_, out, err := svc.TracePackage(context.Background(), nil, TracePackageInput{
		ManifestPath: fixtureManifest(t),
	})
	require.NoError(t, err)

	assert.Len(t, out.Entries, 3)
	assert.Equal(t,
		[]string{"index.ts", "index.ts", "cli.ts", "helper.ts", "types.ts", "math.ts"},
		baseNames(out.Files))
	assert.Empty(t, out.Errors)
	assert.NotContains(t, baseNames(out.Files), "helper.test.ts")
}

func TestTracePackage_MissingInput(t *testing.T) {
	svc := newTestService()

	_, _, err := svc.TracePackage(context.Background(), nil, TracePackageInput{})
	require.Error(t, err)
}

func TestTracePackage_MissingManifest(t *testing.T) {
	svc := newTestService()

	_, out, err := svc.TracePackage(context.Background(), nil, TracePackageInput{
		ManifestPath: filepath.Join(t.TempDir(), "package.json"),
	})
	require.NoError(t, err, "a missing manifest is reported in the output, not as a Go error")
	require.Len(t, out.Errors, 1)
	assert.Equal(t, importgraph.ErrManifestNotFound, out.Errors[0].Kind)
}

func TestTraceEntries(t *testing.T) {
	svc := newTestService()
	root := filepath.Dir(fixtureManifest(t))

	_, out, err := svc.TraceEntries(context.Background(), nil, TraceEntriesInput{
		Entries: []string{"./src/util/index.ts"},
		Root:    root,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"index.ts", "math.ts"}, baseNames(out.Files))
	assert.Empty(t, out.Errors)
}

func TestTraceEntries_MissingInput(t *testing.T) {
	svc := newTestService()

	_, _, err := svc.TraceEntries(context.Background(), nil, TraceEntriesInput{})
	require.Error(t, err)
}

func TestShippableFiles(t *testing.T) {
	svc := newTestService()

	_, out, err := svc.ShippableFiles(context.Background(), nil, ShippableFilesInput{
		ManifestPath: fixtureManifest(t),
	})
	require.NoError(t, err)

	// Everything traced lives under src/, which the manifest "files" field
	// allows, so the whole closure ships.
	assert.Len(t, out.Files, 6)
	for _, f := range out.Files {
		assert.True(t, filepath.IsAbs(f), "shippable paths are absolute: %s", f)
	}
}

func TestShippableFiles_MissingManifest(t *testing.T) {
	svc := newTestService()

	_, _, err := svc.ShippableFiles(context.Background(), nil, ShippableFilesInput{
		ManifestPath: filepath.Join(t.TempDir(), "package.json"),
	})
	require.Error(t, err, "shippable_files needs the manifest itself, so absence is an error")
}
