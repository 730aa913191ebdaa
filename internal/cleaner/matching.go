package cleaner

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sovereign-systems/acsa/internal/dictionary"
)

// normalizeForMatching folds case-insensitively for Latin scripts while
// leaving CJK (caseless) text untouched, after NFKC normalisation so
// visually-identical compatibility forms compare equal.
func normalizeForMatching(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

// buildAlternation compiles a case-insensitive regex matching any of
// terms, ordered longest-first (equal lengths in lexical order) so the
// alternation's natural first-match-wins behaviour implements
// longest-match-wins.
func buildAlternation(terms []string) *regexp.Regexp {
	if len(terms) == 0 {
		return nil
	}
	sorted := append([]string(nil), terms...)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})

	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile("(?i)" + strings.Join(quoted, "|"))
}

func emotionalPattern(dict *dictionary.Dictionary) *regexp.Regexp {
	return buildAlternation(dict.EmotionalWords)
}

func technicalPattern(dict *dictionary.Dictionary) *regexp.Regexp {
	keys := make([]string, 0, len(dict.TechnicalRewrites))
	for k := range dict.TechnicalRewrites {
		keys = append(keys, k)
	}
	return buildAlternation(keys)
}
