package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// DeclarationFallback selects the hand-written declaration files to ship
// when automated rollup is unavailable. For every traced source file it
// derives the sibling declaration path (module.ts -> module.d.ts), looked up
// under declDir mirroring srcRoot when declDir is non-empty, and keeps the
// ones that exist on disk. Sources with no declaration are returned in
// missing so the caller can decide whether that is fatal.
func DeclarationFallback(files []string, srcRoot, declDir string) (present, missing []string) {
	for _, f := range files {
		decl := declarationPath(f, srcRoot, declDir)
		if decl == "" {
			continue
		}
		if fi, err := os.Stat(decl); err == nil && !fi.IsDir() {
			present = append(present, decl)
		} else {
			missing = append(missing, f)
		}
	}
	return present, missing
}

// declarationPath maps a source file to its expected declaration file.
func declarationPath(file, srcRoot, declDir string) string {
	ext := filepath.Ext(file)
	base := strings.TrimSuffix(file, ext) + ".d.ts"
	if declDir == "" {
		return base
	}
	rel, err := filepath.Rel(srcRoot, base)
	if err != nil || strings.HasPrefix(rel, "..") {
		return base
	}
	return filepath.Join(declDir, rel)
}

// commonDir returns the deepest directory containing every path, or "." for
// an empty set.
func commonDir(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	common := filepath.Dir(paths[0])
	for _, p := range paths[1:] {
		dir := filepath.Dir(p)
		for !strings.HasPrefix(dir+string(filepath.Separator), common+string(filepath.Separator)) {
			parent := filepath.Dir(common)
			if parent == common {
				return common
			}
			common = parent
		}
	}
	return common
}
