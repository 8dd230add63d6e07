package exporter

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListArtifacts returns the names of files in dir whose extension is one
// of exts (dot included, e.g. ".html"), sorted for deterministic output.
// A missing or unreadable directory yields an empty list, not an error:
// artifact listing is best-effort diagnostics, never a failure cause.
func ListArtifacts(dir string, exts ...string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}

	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}

	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if allowed[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files
}
