package main

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dusk-indust/shipgraph/internal/config"
	"github.com/dusk-indust/shipgraph/internal/importgraph"
	"github.com/dusk-indust/shipgraph/internal/manifest"
	"github.com/dusk-indust/shipgraph/internal/pipeline"
)

func newBuildCmd(logger *log.Logger) *cobra.Command {
	var (
		projectRoot  string
		manifestPath string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Bundle, emit declarations, lint, and package every publish target",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(projectRoot)
			if err != nil {
				return err
			}
			if cfg.Verbose {
				logger.SetLevel(log.DebugLevel)
			}

			if manifestPath == "" {
				manifestPath = filepath.Join(projectRoot, "package.json")
			}
			outputDir := cfg.OutputDir
			if outputDir == "" {
				outputDir = filepath.Join(projectRoot, "dist")
			}

			p := &pipeline.Pipeline{
				Tracer:          importgraph.NewTracer(nil),
				Bundler:         &pipeline.ExecBundler{Command: cfg.BundleCommand},
				Entries:         cfg.Entries,
				DeclarationsDir: cfg.DeclarationsDir,
				Logger:          logger,
			}
			if len(cfg.DeclarationCommand) > 0 {
				p.Rollup = &pipeline.ExecRollup{Command: cfg.DeclarationCommand}
			}
			if len(cfg.LintCommand) > 0 {
				p.Linter = &pipeline.ExecLinter{Command: cfg.LintCommand}
			}

			var targets []pipeline.Target
			for _, name := range cfg.TargetNames() {
				targets = append(targets, pipeline.Target{
					Name:   name,
					OutDir: filepath.Join(outputDir, name),
				})
			}

			report, err := p.Run(cmd.Context(), manifestPath, targets)
			if err != nil {
				return err
			}

			m, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}
			if _, err := m.SemVer(); err != nil {
				logger.Warn("manifest version is not valid semver", "err", err)
			}

			packer := &pipeline.Packer{Manifest: m, Excludes: cfg.PackExcludes}
			shippable := packer.Select(report.Trace.Files)
			for _, tgt := range targets {
				if err := packer.CopyTo(tgt.OutDir, shippable); err != nil {
					return err
				}
			}

			logger.Info("build complete",
				"targets", len(targets),
				"entries", len(report.Trace.Entries),
				"shipped", len(shippable))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRoot, "project-root", ".", "path to the package to build")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "path to the package manifest (default <project-root>/package.json)")
	return cmd
}
