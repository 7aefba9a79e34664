package importgraph

import (
	"bytes"
	"context"
)

// Scanner extracts module specifiers from a single source file.
// Implementations: TreeSitterScanner (production), stub scanners (testing).
// The extraction strategy is isolated here so it can vary (syntax-tree walk
// vs. pattern scan) without touching the traversal algorithm.
type Scanner interface {
	// Scan returns the raw specifiers referenced by the file, in source
	// order. source is the file content.
	Scan(ctx context.Context, path string, source []byte) ([]string, error)

	// Close releases scanner resources.
	Close() error
}

// countLOC counts the number of lines in source by counting newline bytes
// and adding one for the final line if the source is non-empty.
func countLOC(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	return bytes.Count(source, []byte{'\n'}) + 1
}
