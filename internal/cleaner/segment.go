package cleaner

import (
	"regexp"
	"strings"
)

// sentenceBoundary splits on the common Latin and CJK sentence/clause
// punctuation marks plus newlines.
var sentenceBoundary = regexp.MustCompile(`[.!?;,。，；、！？\n]+`)

// segment splits raw input into semantic chunks by sentence boundary
// and punctuation, dropping empty/whitespace-only fragments.
func segment(input string) []string {
	parts := sentenceBoundary.Split(input, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
