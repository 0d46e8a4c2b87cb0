// Package outline parses the numbered index file that fixes the structure of
// the theoretical framework before any generation runs.
package outline

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Divas-Gupta30/marco-agent/internal/model"
)

var numbering = regexp.MustCompile(`^(\d+(?:\.\d+)*)\s+(.+)$`)

// Parse reads an outline file with lines like "2.1 Definiciones" and builds
// the ordered section list. Level is the dot count plus one; the parent is
// the nearest preceding section one level up.
func Parse(path string) ([]model.Section, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading outline: %w", err)
	}
	return ParseText(string(b))
}

func ParseText(text string) ([]model.Section, error) {
	var sections []model.Section
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := numbering.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		number, title := m[1], strings.TrimSpace(m[2])
		level := strings.Count(number, ".") + 1
		sec := model.Section{
			ID:       fmt.Sprintf("section_%d", i+1),
			Number:   number,
			Title:    title,
			Level:    level,
			ParentID: findParent(sections, level),
		}
		sections = append(sections, sec)
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("outline contains no numbered sections")
	}
	return sections, nil
}

// findParent scans backwards for the last section one level shallower.
func findParent(sections []model.Section, level int) string {
	if level <= 1 {
		return ""
	}
	for i := len(sections) - 1; i >= 0; i-- {
		if sections[i].Level == level-1 {
			return sections[i].ID
		}
	}
	return ""
}

// Range returns the section numbered target plus all of its descendants, in
// document order. Used by `agent generate -s 2.1` to scope a run.
func Range(sections []model.Section, target string) ([]model.Section, error) {
	start := -1
	for i, s := range sections {
		if s.Number == target {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("section %q not found in outline", target)
	}
	out := []model.Section{sections[start]}
	prefix := target + "."
	for _, s := range sections[start+1:] {
		if strings.HasPrefix(s.Number, prefix) {
			out = append(out, s)
			continue
		}
		break
	}
	return out, nil
}

// ByNumber looks a single section up.
func ByNumber(sections []model.Section, number string) (model.Section, bool) {
	for _, s := range sections {
		if s.Number == number {
			return s, true
		}
	}
	return model.Section{}, false
}
