package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dusk-indust/shipgraph/internal/export"
	"github.com/dusk-indust/shipgraph/internal/importgraph"
	"github.com/dusk-indust/shipgraph/internal/manifest"
)

func newExportCmd(logger *log.Logger) *cobra.Command {
	var (
		manifestPath string
		outPath      string
		dbPath       string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the traced import graph as JSON or into a graph database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			res, err := importgraph.TraceFromPackageExports(ctx, manifestPath, importgraph.Options{})
			if err != nil {
				return err
			}
			for _, e := range res.Errors {
				logger.Warn(e.Error())
			}

			if dbPath != "" {
				return exportToDB(ctx, logger, res, dbPath)
			}

			var pkgName string
			if m, merr := manifest.Load(manifestPath); merr == nil {
				pkgName = m.Name
			}

			w := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return export.WriteJSON(w, export.BuildTraceExport(pkgName, res))
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "package.json", "path to the package manifest")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write JSON to a file instead of stdout")
	cmd.Flags().StringVar(&dbPath, "db", "", "persist the graph into a KuzuDB database at this path")
	return cmd
}
