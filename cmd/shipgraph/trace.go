package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dusk-indust/shipgraph/internal/export"
	"github.com/dusk-indust/shipgraph/internal/importgraph"
	"github.com/dusk-indust/shipgraph/internal/manifest"
)

func newTraceCmd(logger *log.Logger) *cobra.Command {
	var (
		manifestPath string
		entries      []string
		root         string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Trace the public import graph of a package",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var (
				res     *importgraph.Result
				err     error
				pkgName string
				pkgRoot string
			)
			if len(entries) > 0 {
				res, err = importgraph.TraceFromEntries(ctx, entries, importgraph.Options{Root: root})
				pkgRoot = root
			} else {
				res, err = importgraph.TraceFromPackageExports(ctx, manifestPath, importgraph.Options{Root: root})
				if m, merr := manifest.Load(manifestPath); merr == nil {
					pkgName = m.Name
					pkgRoot = m.Dir
				}
			}
			if err != nil {
				return err
			}

			for _, e := range res.Errors {
				logger.Warn(e.Error())
			}

			switch format {
			case "json":
				return export.WriteJSON(os.Stdout, export.BuildTraceExport(pkgName, res))
			case "mermaid":
				fmt.Print(export.GenerateMermaid(res, pkgRoot))
				return nil
			case "list":
				for _, f := range res.Files {
					fmt.Println(f)
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q (want json, mermaid, or list)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "package.json", "path to the package manifest")
	cmd.Flags().StringSliceVarP(&entries, "entry", "e", nil, "trace from explicit entry specifiers instead of the manifest")
	cmd.Flags().StringVar(&root, "root", "", "resolution root for entry specifiers")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, mermaid, or list")
	return cmd
}
