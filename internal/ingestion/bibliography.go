// Package ingestion turns bibliography documents (local folders or a Google
// Drive folder) into plain text ready for chunking and embedding.
package ingestion

import (
	"io/fs"
	"path/filepath"
	"strings"
)

var allowedExt = map[string]bool{
	".pdf": true, ".txt": true, ".md": true,
	".png": true, ".jpg": true, ".jpeg": true,
}

// ListBibliography walks root and returns every supported document path.
func ListBibliography(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if allowedExt[strings.ToLower(filepath.Ext(path))] {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

// SourceLabel is the human-readable citation label for a file: its base name
// without extension, as used in chunk metadata and generated references.
func SourceLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
