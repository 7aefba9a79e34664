package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/shipgraph/internal/config"
	"github.com/dusk-indust/shipgraph/internal/pipeline"
)

func newStatusCmd() *cobra.Command {
	var projectRoot string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which publish targets have packaged output",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(projectRoot)
			if err != nil {
				return err
			}
			outputDir := cfg.OutputDir
			if outputDir == "" {
				outputDir = filepath.Join(projectRoot, "dist")
			}

			for _, st := range pipeline.ScanTargets(outputDir, cfg.TargetNames()) {
				marker := " "
				if st.Packaged {
					marker = "x"
				}
				fmt.Printf("  [%s] %-12s %4d files  %s\n", marker, st.Target, st.FileCount, st.OutDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRoot, "project-root", ".", "path to the package")
	return cmd
}
