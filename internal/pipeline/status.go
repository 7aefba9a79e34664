package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
)

// TargetStatus describes whether a publish target has packaged output.
type TargetStatus struct {
	Target    string
	OutDir    string
	Packaged  bool // a manifest was written into the target dir
	FileCount int
}

// ScanTargets inspects the output directory for per-target package output.
// A target counts as packaged once its directory holds a package.json.
func ScanTargets(outputDir string, targets []string) []TargetStatus {
	statuses := make([]TargetStatus, 0, len(targets))
	for _, name := range targets {
		dir := filepath.Join(outputDir, name)
		st := TargetStatus{Target: name, OutDir: dir}

		if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
			st.Packaged = true
		}
		st.FileCount = countFiles(dir)

		statuses = append(statuses, st)
	}
	return statuses
}

func countFiles(dir string) int {
	count := 0
	filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	return count
}
