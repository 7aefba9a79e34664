package importgraph

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates a file (and its parent dirs) under root.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

// --- Resolution policy ---

func TestResolveFile_LiteralPath(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "src/service.ts", "export {}\n")

	got, ok := resolveFile(filepath.Join(dir, "src/service.ts"))
	if !ok {
		t.Fatal("expected literal path to resolve")
	}
	if got != want {
		t.Errorf("resolved = %q, want %q", got, want)
	}
}

func TestResolveFile_ExtensionPrecedence(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "src/service.ts", "export {}\n")
	writeFile(t, dir, "src/service.js", "module.exports = {}\n")

	got, ok := resolveFile(filepath.Join(dir, "src/service"))
	if !ok {
		t.Fatal("expected extension probe to resolve")
	}
	if got != want {
		t.Errorf("resolved = %q, want the .ts file %q", got, want)
	}
}

func TestResolveFile_PlainScriptFallback(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "src/legacy.js", "module.exports = {}\n")

	got, ok := resolveFile(filepath.Join(dir, "src/legacy"))
	if !ok {
		t.Fatal("expected .js probe to resolve")
	}
	if got != want {
		t.Errorf("resolved = %q, want %q", got, want)
	}
}

func TestResolveFile_DirectoryIndex(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "src/components/index.ts", "export {}\n")

	got, ok := resolveFile(filepath.Join(dir, "src/components"))
	if !ok {
		t.Fatal("expected directory to resolve to its index file")
	}
	if got != want {
		t.Errorf("resolved = %q, want %q", got, want)
	}
}

func TestResolveFile_DeclarationNeverResolves(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/types.d.ts", "export declare const x: number\n")

	if _, ok := resolveFile(filepath.Join(dir, "src/types.d.ts")); ok {
		t.Error("literal declaration path should not resolve")
	}
	if _, ok := resolveFile(filepath.Join(dir, "src/types.d")); ok {
		t.Error("declaration file should not satisfy an extension probe")
	}
}

func TestResolveFile_NotFound(t *testing.T) {
	dir := t.TempDir()
	if _, ok := resolveFile(filepath.Join(dir, "nonexistent")); ok {
		t.Error("expected resolution to fail")
	}
}

// --- Specifier classification ---

func TestIsLocalSpecifier(t *testing.T) {
	tests := []struct {
		spec string
		want bool
	}{
		{"./helper", true},
		{"../shared/types", true},
		{".", true},
		{"..", true},
		{"lodash", false},
		{"@scope/pkg", false},
		{"node:path", false},
		{"https://example.com/mod.ts", false},
		{"/etc/passwd", false},
	}
	for _, tt := range tests {
		if got := isLocalSpecifier(tt.spec); got != tt.want {
			t.Errorf("isLocalSpecifier(%q) = %v, want %v", tt.spec, got, tt.want)
		}
	}
}

func TestIsDeclarationPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/index.d.ts", true},
		{"src/index.d.mts", true},
		{"src/index.d.cts", true},
		{"src/index.ts", false},
		{"src/d.ts.ts", false},
	}
	for _, tt := range tests {
		if got := IsDeclarationPath(tt.path); got != tt.want {
			t.Errorf("IsDeclarationPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// --- Exclusion policy ---

func TestExcluded(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/helper.test.ts", true},
		{"src/helper.spec.ts", true},
		{"src/helper.test.tsx", true},
		{"src/deep/nested.spec.js", true},
		{"src/helper.ts", false},
		{"src/testing.ts", false},
		{"src/spec.ts", false},
		// Directory names do not trigger exclusion, only file names do.
		{"src/test.files/helper.ts", false},
	}
	for _, tt := range tests {
		if got := Excluded(tt.path); got != tt.want {
			t.Errorf("Excluded(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
