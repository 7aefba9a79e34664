//go:build cgo

package importgraph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph
// backend. It requires CGO because the go-kuzu driver wraps KuzuDB's C
// library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given path. KuzuDB creates the leaf directory itself for new databases;
// existing databases must contain valid KuzuDB files. This lets a traced
// graph survive across invocations for impact queries.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ddlStatements defines the Cypher DDL executed by InitSchema. The node
// table must precede the relationship table.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS File(
		path STRING,
		ext STRING,
		loc INT64,
		PRIMARY KEY(path)
	)`,
	`CREATE REL TABLE IF NOT EXISTS IMPORTS(FROM File TO File)`,
}

// InitSchema creates the node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// AddFile inserts a File node.
func (s *KuzuStore) AddFile(_ context.Context, node FileNode) error {
	return s.exec(
		"CREATE (f:File {path: $path, ext: $ext, loc: $loc})",
		map[string]any{
			"path": node.Path,
			"ext":  node.Ext,
			"loc":  int64(node.LOC),
		},
	)
}

// AddEdge inserts an IMPORTS relationship between two files.
func (s *KuzuStore) AddEdge(_ context.Context, edge ImportEdge) error {
	return s.exec(
		`MATCH (a:File {path: $src}), (b:File {path: $dst})
		 CREATE (a)-[:IMPORTS]->(b)`,
		map[string]any{
			"src": edge.From,
			"dst": edge.To,
		},
	)
}

// GetFile retrieves a single File node by path, or returns nil if not found.
func (s *KuzuStore) GetFile(_ context.Context, path string) (*FileNode, error) {
	rows, err := s.query(
		"MATCH (f:File {path: $path}) RETURN f.path, f.ext, f.loc",
		map[string]any{"path": path},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToFile(rows[0]), nil
}

// Files returns all File nodes.
func (s *KuzuStore) Files(_ context.Context) ([]FileNode, error) {
	rows, err := s.query("MATCH (f:File) RETURN f.path, f.ext, f.loc", nil)
	if err != nil {
		return nil, err
	}
	out := make([]FileNode, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToFile(r))
	}
	return out, nil
}

// Edges returns all IMPORTS edges.
func (s *KuzuStore) Edges(_ context.Context) ([]ImportEdge, error) {
	rows, err := s.query("MATCH (a:File)-[:IMPORTS]->(b:File) RETURN a.path, b.path", nil)
	if err != nil {
		return nil, err
	}
	out := make([]ImportEdge, 0, len(rows))
	for _, r := range rows {
		out = append(out, ImportEdge{From: toString(r[0]), To: toString(r[1])})
	}
	return out, nil
}

// Dependents walks reverse IMPORTS edges breadth-first from path.
func (s *KuzuStore) Dependents(_ context.Context, path string, maxDepth int) ([]string, error) {
	if maxDepth <= 0 {
		maxDepth = 10
	}

	type bfsEntry struct {
		path  string
		depth int
	}
	visited := map[string]bool{path: true}
	queue := []bfsEntry{{path: path, depth: 0}}
	var out []string

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		importers, err := s.importers(cur.path)
		if err != nil {
			return nil, err
		}
		for _, dep := range importers {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			out = append(out, dep)
			queue = append(queue, bfsEntry{path: dep, depth: cur.depth + 1})
		}
	}
	return out, nil
}

// importers returns the immediate importers of a file.
func (s *KuzuStore) importers(path string) ([]string, error) {
	rows, err := s.query(
		"MATCH (a:File)-[:IMPORTS]->(b:File {path: $path}) RETURN a.path",
		map[string]any{"path": path},
	)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return out, nil
}

// Stats returns counts of the File and IMPORTS tables.
func (s *KuzuStore) Stats(_ context.Context) (*Stats, error) {
	files, err := s.countRows("MATCH (n:File) RETURN count(n)")
	if err != nil {
		return nil, err
	}
	edges, err := s.countRows("MATCH ()-[r:IMPORTS]->() RETURN count(r)")
	if err != nil {
		return nil, err
	}
	return &Stats{FileCount: files, EdgeCount: edges}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func (s *KuzuStore) countRows(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// rowToFile converts a 3-column result row into a FileNode.
// Column order: path, ext, loc.
func rowToFile(r []any) *FileNode {
	return &FileNode{
		Path: toString(r[0]),
		Ext:  toString(r[1]),
		LOC:  toInt(r[2]),
	}
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).
// These helpers safely coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
