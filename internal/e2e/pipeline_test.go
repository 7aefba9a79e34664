//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/shipgraph/internal/export"
	"github.com/dusk-indust/shipgraph/internal/importgraph"
	"github.com/dusk-indust/shipgraph/internal/manifest"
	"github.com/dusk-indust/shipgraph/internal/pipeline"
)

func fixtureManifest(t *testing.T) string {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("..", "..", "testdata", "fixtures", "ts_package", "package.json"))
	require.NoError(t, err)
	return abs
}

// TestPipeline_E2E_FullBuild runs trace, bundle, declaration fallback, and
// packaging against the ts_package fixture, with the bundler stubbed by a
// shell command that records its invocation.
func TestPipeline_E2E_FullBuild(t *testing.T) {
	outputDir := t.TempDir()
	marker := filepath.Join(outputDir, "bundled.txt")

	p := &pipeline.Pipeline{
		Tracer:  importgraph.NewTracer(nil),
		Bundler: &pipeline.ExecBundler{Command: []string{"sh", "-c", `echo "$SHIPGRAPH_TARGET" > ` + marker}},
		Logger:  log.New(io.Discard),
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	targets := []pipeline.Target{{Name: "dist", OutDir: filepath.Join(outputDir, "dist")}}
	report, err := p.Run(ctx, fixtureManifest(t), targets)
	require.NoError(t, err)

	// --- Trace: full public closure, tests excluded ---
	require.Len(t, report.Trace.Entries, 3)
	assert.Len(t, report.Trace.Files, 6)
	assert.Empty(t, report.Trace.Errors)
	for _, f := range report.Trace.Files {
		assert.NotContains(t, filepath.Base(f), ".test.")
	}

	// --- Bundler ran ---
	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "dist\n", string(data))

	// --- Declarations: the fixture keeps hand-written siblings for two files ---
	tr := report.Targets[0]
	assert.False(t, tr.RolledUp)
	declNames := make([]string, len(tr.Declarations))
	for i, d := range tr.Declarations {
		declNames[i] = filepath.Base(d)
	}
	assert.ElementsMatch(t, []string{"index.d.ts", "helper.d.ts"}, declNames)

	// --- Packaging: closure narrowed by the files allowlist, copied intact ---
	m, err := manifest.Load(fixtureManifest(t))
	require.NoError(t, err)

	packer := &pipeline.Packer{Manifest: m}
	selected := packer.Select(report.Trace.Files)
	assert.Len(t, selected, 6)

	packDir := filepath.Join(outputDir, "dist")
	require.NoError(t, packer.CopyTo(packDir, selected))
	assert.FileExists(t, filepath.Join(packDir, "package.json"))
	assert.FileExists(t, filepath.Join(packDir, "src", "index.ts"))
	assert.FileExists(t, filepath.Join(packDir, "src", "util", "math.ts"))

	// --- Status: the packaged target is visible to the status scan ---
	statuses := pipeline.ScanTargets(outputDir, []string{"dist"})
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Packaged)

	// --- Export: the traced graph serializes and renders ---
	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, export.BuildTraceExport(m.Name, report.Trace)))
	assert.Contains(t, buf.String(), `"@fixtures/widgets"`)

	mermaid := export.GenerateMermaid(report.Trace, m.Dir)
	assert.Contains(t, mermaid, `["src/index.ts"]`)
}
