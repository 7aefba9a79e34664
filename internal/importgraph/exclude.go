package importgraph

import (
	"path/filepath"
	"strings"
)

// Excluded reports whether a file is barred from the shippable graph. A file
// whose name carries a ".test." or ".spec." infix is testing code: it is
// still marked visited so traversal never reprocesses it, but it contributes
// nothing to the file set and is not scanned for further imports.
func Excluded(path string) bool {
	base := filepath.Base(path)
	return strings.Contains(base, ".test.") || strings.Contains(base, ".spec.")
}
