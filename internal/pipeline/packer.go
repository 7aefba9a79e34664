package pipeline

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dusk-indust/shipgraph/internal/importgraph"
	"github.com/dusk-indust/shipgraph/internal/manifest"
)

// Packer assembles the shippable file set for a publish target: the traced
// graph files narrowed by the manifest "files" allowlist and the configured
// exclude patterns.
type Packer struct {
	Manifest *manifest.Manifest

	// Excludes are doublestar patterns, relative to the package root, for
	// files that must never ship even when traced.
	Excludes []string
}

// Select filters traced files down to what ships. Files outside the package
// root are dropped, as is anything the graph exclusion policy bars; the
// "files" allowlist applies only when the manifest declares one.
func (p *Packer) Select(files []string) []string {
	var out []string
	for _, f := range files {
		rel, err := filepath.Rel(p.Manifest.Dir, f)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)

		if importgraph.Excluded(rel) {
			continue
		}
		if len(p.Manifest.Files) > 0 && !matchAny(p.Manifest.Files, rel) {
			continue
		}
		if matchAny(p.Excludes, rel) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// CopyTo copies the selected files into destDir, preserving package-relative
// layout, and writes the manifest alongside them.
func (p *Packer) CopyTo(destDir string, files []string) error {
	for _, f := range files {
		rel, err := filepath.Rel(p.Manifest.Dir, f)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", f, err)
		}
		if err := copyFile(f, filepath.Join(destDir, rel)); err != nil {
			return err
		}
	}
	return copyFile(p.Manifest.Path, filepath.Join(destDir, "package.json"))
}

// matchAny matches rel against each pattern. Bare directory patterns, as npm
// treats the "files" field, match everything beneath them.
func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		pat = strings.TrimPrefix(pat, "./")
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(path.Join(pat, "**"), rel); err == nil && ok {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}
