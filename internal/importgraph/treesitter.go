package importgraph

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// TreeSitterScanner implements Scanner using the tree-sitter TypeScript
// grammars. It collects static import and re-export sources plus dynamic
// import() and require() arguments. A new tree-sitter parser is created per
// Scan call, so this type is safe for sequential reuse across traces.
type TreeSitterScanner struct {
	ts  *tree_sitter.Language // .ts, .mts, .cts and plain-script files
	tsx *tree_sitter.Language // .tsx, .jsx
}

// NewTreeSitterScanner creates a scanner with both TypeScript grammar
// flavors registered.
func NewTreeSitterScanner() *TreeSitterScanner {
	return &TreeSitterScanner{
		ts:  tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		tsx: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
	}
}

// languageFor picks the grammar flavor by extension. JSX syntax requires the
// TSX grammar; everything else parses with the plain TypeScript grammar.
func (s *TreeSitterScanner) languageFor(path string) *tree_sitter.Language {
	switch filepath.Ext(path) {
	case ".tsx", ".jsx":
		return s.tsx
	default:
		return s.ts
	}
}

// Scan parses the file and returns every module specifier it references.
func (s *TreeSitterScanner) Scan(_ context.Context, path string, source []byte) ([]string, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(s.languageFor(path)); err != nil {
		return nil, fmt.Errorf("set language for %s: %w", path, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	cursor := tree.RootNode().Walk()
	defer cursor.Close()

	var specs []string
	collectSpecifiers(cursor, source, &specs)
	return specs, nil
}

// Close is a no-op because parsers are created per Scan call.
func (s *TreeSitterScanner) Close() error {
	return nil
}

// collectSpecifiers walks the syntax tree accumulating import-like specifiers.
func collectSpecifiers(cursor *tree_sitter.TreeCursor, source []byte, out *[]string) {
	node := cursor.Node()

	switch node.Kind() {
	case "import_statement":
		if spec := importSource(node, source); spec != "" {
			*out = append(*out, spec)
		}

	case "export_statement":
		// Only re-exports ("export ... from '...'") carry a source.
		if sourceNode := node.ChildByFieldName("source"); sourceNode != nil {
			if spec := trimQuotes(sourceNode.Utf8Text(source)); spec != "" {
				*out = append(*out, spec)
			}
		}

	case "call_expression":
		if spec := callSpecifier(node, source); spec != "" {
			*out = append(*out, spec)
		}
	}

	if cursor.GotoFirstChild() {
		collectSpecifiers(cursor, source, out)
		for cursor.GotoNextSibling() {
			collectSpecifiers(cursor, source, out)
		}
		cursor.GotoParent()
	}
}

// importSource extracts the source string from an import_statement.
func importSource(node *tree_sitter.Node, source []byte) string {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		// Fall back: look for a string child.
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child != nil && child.Kind() == "string" {
				sourceNode = child
				break
			}
		}
	}
	if sourceNode == nil {
		return ""
	}
	return trimQuotes(sourceNode.Utf8Text(source))
}

// callSpecifier extracts the string argument of a dynamic import() or a
// require() call. Non-literal arguments are skipped.
func callSpecifier(node *tree_sitter.Node, source []byte) string {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return ""
	}

	switch fnNode.Kind() {
	case "import":
		// dynamic import("...")
	case "identifier":
		if fnNode.Utf8Text(source) != "require" {
			return ""
		}
	default:
		return ""
	}

	args := node.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		child := args.Child(i)
		if child != nil && child.Kind() == "string" {
			return trimQuotes(child.Utf8Text(source))
		}
	}
	return ""
}

func trimQuotes(s string) string {
	return strings.Trim(s, "\"'`")
}
