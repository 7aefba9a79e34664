package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// mcpConfig represents the structure of a .mcp.json file.
type mcpConfig struct {
	MCPServers map[string]json.RawMessage `json:"mcpServers"`
}

// shipgraphMCPEntry is the MCP server configuration for the shipgraph binary.
var shipgraphMCPEntry = json.RawMessage(`{
  "type": "stdio",
  "command": "shipgraph",
  "args": ["serve-mcp"]
}`)

// starterConfig is written as shipgraph.yml for new projects.
var starterConfig = []byte(`# shipgraph project configuration
#
# outputDir: dist
# targets:
#   - npm
# bundleCommand: ["esbuild", "--bundle"]
# declarationCommand: ["api-extractor", "run"]
# lintCommand: ["api-documenter", "check"]
# declarationsDir: types
# packExcludes:
#   - "**/__fixtures__/**"
`)

func newInitCmd() *cobra.Command {
	var (
		projectRoot string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold shipgraph.yml and register the MCP server for a project",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(projectRoot, force)
		},
	}

	cmd.Flags().StringVar(&projectRoot, "project-root", ".", "path to the package")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

// runInit writes a starter config and MCP registration into the target
// project directory.
func runInit(projectRoot string, force bool) error {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	cfgPath := filepath.Join(abs, "shipgraph.yml")
	if _, err := os.Stat(cfgPath); err == nil && !force {
		fmt.Printf("  skipped shipgraph.yml (exists, use --force to overwrite)\n")
	} else {
		if err := os.WriteFile(cfgPath, starterConfig, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", cfgPath, err)
		}
		fmt.Printf("  created shipgraph.yml\n")
	}

	if err := mergeMCPConfig(filepath.Join(abs, ".mcp.json"), force); err != nil {
		return err
	}

	fmt.Println("\nSetup complete.")
	return nil
}

// mergeMCPConfig creates or merges the shipgraph entry into .mcp.json.
func mergeMCPConfig(mcpPath string, force bool) error {
	var cfg mcpConfig

	data, err := os.ReadFile(mcpPath)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", mcpPath, err)
		}
	}

	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]json.RawMessage)
	}

	if _, exists := cfg.MCPServers["shipgraph"]; exists && !force {
		fmt.Printf("  skipped .mcp.json shipgraph entry (exists, use --force to overwrite)\n")
		return nil
	}

	cfg.MCPServers["shipgraph"] = shipgraphMCPEntry

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling .mcp.json: %w", err)
	}

	if err := os.WriteFile(mcpPath, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mcpPath, err)
	}

	action := "created"
	if data != nil {
		action = "updated"
	}
	fmt.Printf("  %s .mcp.json with shipgraph MCP server\n", action)
	return nil
}
