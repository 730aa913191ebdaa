package cleaner

import "github.com/sovereign-systems/acsa/internal/dictionary"

// applyRewrites replaces every dictionary-recognised dangerous term in
// text with its safe rewrite, and reports each substitution made. The
// technical pattern is already longest-match-ordered, so
// nested/overlapping keys resolve correctly.
func applyRewrites(text string, dict *dictionary.Dictionary) (string, []Rewrite) {
	pattern := technicalPattern(dict)
	if pattern == nil {
		return text, nil
	}
	var applied []Rewrite
	out := pattern.ReplaceAllStringFunc(text, func(match string) string {
		key := normalizeForMatching(match)
		if value, ok := dict.TechnicalRewrites[key]; ok {
			applied = append(applied, Rewrite{From: match, To: value})
			return value
		}
		return match
	})
	return out, applied
}

// countUnrewrittenDangerous scans the fully-composed output for any
// dictionary key that survived verbatim. Classification tags every
// chunk holding a key as Technical, so a survivor comes from a match
// whose folded form has no rewrite entry, or from a key that appears
// inside a rewrite value or a compliance anchor.
func countUnrewrittenDangerous(text string, dict *dictionary.Dictionary) int {
	pattern := technicalPattern(dict)
	if pattern == nil {
		return 0
	}
	return len(pattern.FindAllString(text, -1))
}
