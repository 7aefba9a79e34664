// Package manifest reads the subset of package.json that shipgraph needs:
// the package identity, the declared public surface (exports, bin, main,
// module), and the publish allowlist (files).
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Manifest is a parsed package manifest.
type Manifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Private bool     `json:"private"`
	Main    string   `json:"main"`
	Module  string   `json:"module"`
	Types   string   `json:"types"`
	Files   []string `json:"files"`

	// Path is the absolute manifest path; Dir is its directory, the
	// resolution root for every specifier the manifest declares.
	Path string `json:"-"`
	Dir  string `json:"-"`

	raw []byte
}

// Load reads and parses a package.json. A missing or unparsable file is an
// error; callers that must not fail convert it into a structured
// package_json_not_found value.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest path: %w", err)
	}

	m.Path = abs
	m.Dir = filepath.Dir(abs)
	m.raw = data
	return &m, nil
}

// SemVer parses the version field. The zero version field is an error; npm
// requires one for publishable packages.
func (m *Manifest) SemVer() (*semver.Version, error) {
	v, err := semver.NewVersion(m.Version)
	if err != nil {
		return nil, fmt.Errorf("manifest version %q: %w", m.Version, err)
	}
	return v, nil
}

// EntrySpecifiers returns the candidate entry file specifiers declared by the
// package's public surface: every branch of the conditional export map, every
// bin script, and the main/module fields. Order follows the manifest document
// and duplicates collapse to their first occurrence. Declaration files and
// subpath patterns (targets containing "*") name no concrete source entry and
// are skipped.
func (m *Manifest) EntrySpecifiers() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		if strings.Contains(s, "*") || isDeclaration(s) {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	dec := json.NewDecoder(bytes.NewReader(m.raw))
	if _, err := dec.Token(); err != nil { // consume '{'
		return nil
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			break
		}
		key, ok := keyTok.(string)
		if !ok {
			break
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			break
		}

		switch key {
		case "main", "module":
			var s string
			if json.Unmarshal(value, &s) == nil {
				add(s)
			}
		case "exports", "bin":
			collectStrings(value, add)
		}
	}
	return out
}

// collectStrings walks an exports-shaped JSON value in document order,
// calling add for every string leaf. Objects are condition or subpath maps
// (all branches are flattened); arrays are fallback lists; null targets and
// other scalars are ignored.
func collectStrings(raw json.RawMessage, add func(string)) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return
	}

	switch raw[0] {
	case '"':
		var s string
		if json.Unmarshal(raw, &s) == nil {
			add(s)
		}

	case '[':
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) == nil {
			for _, item := range items {
				collectStrings(item, add)
			}
		}

	case '{':
		dec := json.NewDecoder(bytes.NewReader(raw))
		if _, err := dec.Token(); err != nil {
			return
		}
		for dec.More() {
			if _, err := dec.Token(); err != nil {
				return
			}
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return
			}
			collectStrings(value, add)
		}
	}
}

var declarationSuffixes = []string{".d.ts", ".d.mts", ".d.cts"}

func isDeclaration(s string) bool {
	for _, suffix := range declarationSuffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
