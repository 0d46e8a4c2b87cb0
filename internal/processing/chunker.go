package processing

import (
	"regexp"
	"strings"
)

var paragraphSep = regexp.MustCompile(`\n{2,}`)

// ChunkText splits text into paragraph chunks, further splitting any
// paragraph longer than max into overlapping windows.
func ChunkText(text string, max, overlap int) []string {
	if max <= 0 {
		max = 1000
	}
	if overlap < 0 || overlap >= max {
		overlap = max / 5
	}
	var out []string
	for _, p := range paragraphSep.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, splitLong(p, max, overlap)...)
	}
	return out
}

func splitLong(s string, max, overlap int) []string {
	if len(s) <= max {
		return []string{s}
	}
	var res []string
	for i := 0; i < len(s); i += max - overlap {
		end := i + max
		if end > len(s) {
			end = len(s)
		}
		res = append(res, strings.TrimSpace(s[i:end]))
		if end == len(s) {
			break
		}
	}
	return res
}
