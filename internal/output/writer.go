// Package output writes generated sections to disk as markdown and renders
// HTML previews for the server.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Divas-Gupta30/marco-agent/internal/model"
)

// Writer persists generated content under Dir, one markdown file per section.
type Writer struct {
	Dir string
}

// Filename maps a section number to its markdown file name, "2.1" -> "2_1.md".
// Sections without numbering fall back to a slug of the title.
func Filename(section model.Section) string {
	if section.Number != "" {
		return strings.ReplaceAll(section.Number, ".", "_") + ".md"
	}
	slug := strings.ToLower(strings.Join(strings.Fields(section.Title), "_"))
	return slug + ".md"
}

// WriteSection writes one finished piece with a metadata header. An existing
// file for the same section is replaced.
func (w *Writer) WriteSection(section model.Section, piece model.ContentPiece) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", section.Number, section.Title)
	fmt.Fprintf(&b, "*Generado: %s*\n\n", time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "*Palabras: %d | Fuentes: %d | Calidad: %.2f*\n\n",
		piece.WordCount, piece.SourcesCount, piece.QualityScore)
	b.WriteString("---\n\n")
	b.WriteString(piece.Content)
	b.WriteString("\n")

	if len(piece.Sources) > 0 {
		b.WriteString("\n## Fuentes consultadas\n\n")
		for _, s := range piece.Sources {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	path := filepath.Join(w.Dir, Filename(section))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write section file: %w", err)
	}
	return path, nil
}

// List returns the markdown files currently present in the output directory,
// sorted by name.
func (w *Writer) List() ([]string, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Read returns the raw markdown of one output file. The name is restricted to
// a bare file name so handlers cannot escape the output directory.
func (w *Writer) Read(name string) ([]byte, error) {
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".md") {
		return nil, fmt.Errorf("invalid output name %q", name)
	}
	return os.ReadFile(filepath.Join(w.Dir, name))
}

// Clear removes every markdown file in the output directory.
func (w *Writer) Clear() (int, error) {
	names, err := w.List()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, n := range names {
		if err := os.Remove(filepath.Join(w.Dir, n)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
