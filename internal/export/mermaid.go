package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/shipgraph/internal/importgraph"
)

// GenerateMermaid produces a Mermaid graph TD diagram of a traced import
// graph. Node labels are package-relative when root is non-empty; entry
// files carry the entry class.
func GenerateMermaid(res *importgraph.Result, root string) string {
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(path string) string {
		if id, ok := nodeIDs[path]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[path] = id
		return id
	}

	label := func(path string) string {
		if root != "" {
			if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		}
		return path
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, f := range res.Files {
		sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", getID(f), label(f)))
	}
	for _, e := range res.Edges {
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", getID(e.From), getID(e.To)))
	}

	sb.WriteString("  classDef entry stroke-width:3px\n")
	for _, entry := range res.Entries {
		sb.WriteString(fmt.Sprintf("  class %s entry\n", getID(entry)))
	}

	return sb.String()
}
