package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from shipgraph.yml.
type ProjectConfig struct {
	// Entries overrides manifest entry extraction with explicit specifiers.
	Entries []string `yaml:"entries,omitempty"`

	OutputDir string   `yaml:"outputDir,omitempty"`
	Targets   []string `yaml:"targets,omitempty"`

	// External collaborator commands, argv-style.
	BundleCommand      []string `yaml:"bundleCommand,omitempty"`
	DeclarationCommand []string `yaml:"declarationCommand,omitempty"`
	LintCommand        []string `yaml:"lintCommand,omitempty"`

	// DeclarationsDir is where pre-generated declaration files mirror the
	// source tree, for the rollup fallback path.
	DeclarationsDir string `yaml:"declarationsDir,omitempty"`

	// PackExcludes are doublestar patterns dropped from packaged output.
	PackExcludes []string `yaml:"packExcludes,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`
}

// Load attempts to read shipgraph.yml or shipgraph.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"shipgraph.yml", "shipgraph.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// TargetNames returns the configured targets, defaulting to a single "dist"
// target.
func (c *ProjectConfig) TargetNames() []string {
	if len(c.Targets) > 0 {
		return c.Targets
	}
	return []string{"dist"}
}
