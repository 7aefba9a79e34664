package importgraph

import (
	"os"
	"path/filepath"
	"strings"
)

// sourceExtensions is the probe order of the resolution policy. Typed
// extensions take precedence over plain-script ones.
var sourceExtensions = []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}

// declarationSuffixes mark declaration-only files. They are never valid
// resolution targets: the graph traces source, not type artifacts.
var declarationSuffixes = []string{".d.ts", ".d.mts", ".d.cts"}

// IsDeclarationPath reports whether path names a declaration-only file.
func IsDeclarationPath(path string) bool {
	for _, suffix := range declarationSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// isLocalSpecifier reports whether spec is a relative path into the local
// source tree. Bare package names, absolute URLs, and protocol-prefixed
// specifiers are graph boundaries, not resolution candidates.
func isLocalSpecifier(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// resolveFile applies the resolution policy to an extensionless or partial
// path: the path as given if it names an existing file, then each source
// extension appended, then the conventional index file if the path is a
// directory. The first existing match wins.
func resolveFile(path string) (string, bool) {
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		if IsDeclarationPath(path) {
			return "", false
		}
		return path, true
	}
	if resolved, ok := probeExtensions(path); ok {
		return resolved, true
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return probeExtensions(filepath.Join(path, "index"))
	}
	return "", false
}

// probeExtensions tries base with each source extension appended. A base
// like "types.d" would produce declaration candidates ("types.d.ts"), which
// are never valid targets, so those are skipped.
func probeExtensions(base string) (string, bool) {
	for _, ext := range sourceExtensions {
		candidate := base + ext
		if IsDeclarationPath(candidate) {
			continue
		}
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// canonicalPath returns the symlink-resolved absolute path. The visited set
// is keyed by canonical paths so a symlink cycle cannot produce two keys for
// the same file. Falls back to the cleaned absolute path when the link target
// cannot be resolved.
func canonicalPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
