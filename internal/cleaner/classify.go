package cleaner

import (
	"regexp"
	"strings"

	"github.com/sovereign-systems/acsa/internal/dictionary"
)

// fillerWords is the small rule set that separates Neutral filler
// chunks from substantive Context chunks. Not dictionary-driven: these
// are structural connectives, not a vocabulary concern.
var fillerWords = map[string]bool{
	"please": true, "thanks": true, "thank you": true, "ok": true,
	"okay": true, "also": true, "just": true, "well": true,
	"好的": true, "谢谢": true, "请": true, "嗯": true,
}

func classifyAll(chunks []string, dict *dictionary.Dictionary) []Chunk {
	emotional := emotionalPattern(dict)
	technical := technicalPattern(dict)

	out := make([]Chunk, 0, len(chunks))
	for _, text := range chunks {
		out = append(out, Chunk{Text: text, Tag: classify(text, emotional, technical)})
	}
	return out
}

func classify(text string, emotional, technical *regexp.Regexp) Tag {
	switch {
	case emotional != nil && emotional.MatchString(text):
		return TagEmotional
	case technical != nil && technical.MatchString(text):
		return TagTechnical
	case fillerWords[strings.ToLower(strings.TrimSpace(text))]:
		return TagNeutral
	default:
		return TagContext
	}
}
