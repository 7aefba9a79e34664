package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dusk-indust/shipgraph/internal/importgraph"
)

func newImpactCmd(logger *log.Logger) *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "impact [file...]",
		Short: "Show which public files are affected by changing the given sources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			res, err := importgraph.TraceFromPackageExports(ctx, manifestPath, importgraph.Options{})
			if err != nil {
				return err
			}
			for _, e := range res.Errors {
				logger.Warn(e.Error())
			}

			store := importgraph.NewMemStore()
			if err := importgraph.PopulateStore(ctx, store, res); err != nil {
				return err
			}

			changed := make([]string, 0, len(args))
			for _, a := range args {
				abs, err := filepath.Abs(a)
				if err != nil {
					return err
				}
				changed = append(changed, abs)
			}

			impact, err := importgraph.AssessImpact(ctx, store, changed)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(impact)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "package.json", "path to the package manifest")
	return cmd
}
