// Package pipeline drives a full library build off the traced import graph:
// bundling, declaration emission, documentation linting, and publish
// packaging, fanned out per publish target.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/shipgraph/internal/importgraph"
)

// BundleRequest describes one bundler invocation.
type BundleRequest struct {
	// Entries are the traced, validated entry files, in manifest order.
	Entries []string

	// OutDir is where the target's artifacts land.
	OutDir string

	// Target names the publish target being built.
	Target string
}

// Bundler turns resolved entry files into JS artifacts.
type Bundler interface {
	Bundle(ctx context.Context, req BundleRequest) error
}

// DeclarationRollup invokes the automated declaration rollup tool.
type DeclarationRollup interface {
	Rollup(ctx context.Context, entries []string, outDir string) error
}

// DocLinter checks documentation tags on the public surface.
type DocLinter interface {
	Lint(ctx context.Context, files []string) error
}

// Target is one publish destination.
type Target struct {
	Name   string
	OutDir string
}

// TargetReport holds the outcome of building a single target.
type TargetReport struct {
	Target string

	// RolledUp is true when the automated declaration rollup succeeded.
	RolledUp bool

	// Declarations lists the hand-written declaration files selected by
	// the fallback path when rollup was unavailable or failed.
	Declarations []string

	// MissingDeclarations lists graph files with no declaration sibling.
	MissingDeclarations []string
}

// BuildReport is the outcome of a full pipeline run.
type BuildReport struct {
	Trace   *importgraph.Result
	Targets []TargetReport
}

// Pipeline wires the import graph into the build collaborators. The rollup
// and linter are optional; a nil rollup always takes the declaration
// fallback path.
type Pipeline struct {
	Tracer  *importgraph.Tracer
	Bundler Bundler
	Rollup  DeclarationRollup
	Linter  DocLinter

	// Entries overrides manifest entry extraction with explicit specifiers,
	// resolved against the manifest's directory.
	Entries []string

	// DeclarationsDir is where pre-generated declaration files mirror the
	// source tree. Empty means declarations sit next to their sources.
	DeclarationsDir string

	Logger *log.Logger
}

// Run traces the package's public surface and builds every target in
// parallel. Resolution errors are reported, not fatal, except a missing
// manifest or an empty entry set, which leave nothing to build.
func (p *Pipeline) Run(ctx context.Context, manifestPath string, targets []Target) (*BuildReport, error) {
	res, err := p.trace(ctx, manifestPath)
	if err != nil {
		return nil, err
	}
	p.reportTrace(res)

	if len(res.ErrorsOfKind(importgraph.ErrManifestNotFound)) > 0 {
		return &BuildReport{Trace: res}, fmt.Errorf("manifest not found: %s", manifestPath)
	}
	if len(res.Entries) == 0 {
		return &BuildReport{Trace: res}, fmt.Errorf("no resolvable entry points in %s", manifestPath)
	}

	report := &BuildReport{
		Trace:   res,
		Targets: make([]TargetReport, len(targets)),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, tgt := range targets {
		g.Go(func() error {
			tr, err := p.buildTarget(gctx, res, tgt)
			if err != nil {
				return fmt.Errorf("target %s: %w", tgt.Name, err)
			}
			report.Targets[i] = *tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

// trace resolves the closure to build from, honoring the explicit entry
// override when one is configured.
func (p *Pipeline) trace(ctx context.Context, manifestPath string) (*importgraph.Result, error) {
	if len(p.Entries) > 0 {
		return p.Tracer.TraceFromEntries(ctx, p.Entries, importgraph.Options{
			Root: filepath.Dir(manifestPath),
		})
	}
	return p.Tracer.TraceFromPackageExports(ctx, manifestPath, importgraph.Options{})
}

// buildTarget runs bundle, declarations, and lint for one target.
func (p *Pipeline) buildTarget(ctx context.Context, res *importgraph.Result, tgt Target) (*TargetReport, error) {
	tr := &TargetReport{Target: tgt.Name}

	p.Logger.Info("bundling", "target", tgt.Name, "entries", len(res.Entries))
	if err := p.Bundler.Bundle(ctx, BundleRequest{
		Entries: res.Entries,
		OutDir:  tgt.OutDir,
		Target:  tgt.Name,
	}); err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}

	if err := p.emitDeclarations(ctx, res, tgt, tr); err != nil {
		return nil, err
	}

	if p.Linter != nil {
		p.Logger.Info("linting docs", "target", tgt.Name, "files", len(res.Files))
		if err := p.Linter.Lint(ctx, res.Files); err != nil {
			return nil, fmt.Errorf("doc lint: %w", err)
		}
	}

	return tr, nil
}

// emitDeclarations tries the automated rollup first and falls back to
// selecting hand-written declaration files off the graph. Because the graph
// already excludes test code, the fallback can never ship a test
// declaration.
func (p *Pipeline) emitDeclarations(ctx context.Context, res *importgraph.Result, tgt Target, tr *TargetReport) error {
	if p.Rollup != nil {
		err := p.Rollup.Rollup(ctx, res.Entries, tgt.OutDir)
		if err == nil {
			tr.RolledUp = true
			return nil
		}
		p.Logger.Warn("declaration rollup failed, falling back to hand-written declarations",
			"target", tgt.Name, "err", err)
	}

	srcRoot := commonDir(res.Files)
	present, missing := DeclarationFallback(res.Files, srcRoot, p.DeclarationsDir)
	tr.Declarations = present
	tr.MissingDeclarations = missing
	for _, m := range missing {
		p.Logger.Warn("no declaration file for source", "target", tgt.Name, "file", m)
	}
	return nil
}

// reportTrace surfaces resolution errors as diagnostics. Fatality is the
// pipeline's decision, not the graph's.
func (p *Pipeline) reportTrace(res *importgraph.Result) {
	p.Logger.Debug("traced public surface",
		"entries", len(res.Entries), "files", len(res.Files), "errors", len(res.Errors))
	for _, e := range res.Errors {
		switch e.Kind {
		case importgraph.ErrResolveFailed:
			p.Logger.Warn("unresolved import", "specifier", e.Specifier, "file", e.ReferencedBy)
		case importgraph.ErrEntryNotFound:
			p.Logger.Error("entry point not found", "specifier", e.Specifier)
		case importgraph.ErrManifestNotFound:
			p.Logger.Error("package manifest not found", "path", e.Specifier)
		}
	}
}
