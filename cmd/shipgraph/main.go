package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "shipgraph",
	})

	var verbose bool

	root := &cobra.Command{
		Use:   "shipgraph",
		Short: "Library build orchestrator driven by a traced import graph",
		Long: `Shipgraph traces the source files reachable from a package's declared
public surface (its export map, bin scripts, and main/module fields) and uses
that graph to drive bundling, declaration emission, documentation linting,
and publish packaging.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newTraceCmd(logger),
		newBuildCmd(logger),
		newExportCmd(logger),
		newImpactCmd(logger),
		newStatusCmd(),
		newInitCmd(),
		newServeCmd(logger),
	)
	return root
}
