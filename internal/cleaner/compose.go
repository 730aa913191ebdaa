package cleaner

import (
	"strings"

	"github.com/sovereign-systems/acsa/internal/dictionary"
)

// sections holds the fixed-heading structure the cleaner reconstructs
// the input under: Background (compliance anchors), Technical
// Objectives (rewritten technical chunks), Context (everything else,
// preserved verbatim).
type sections struct {
	Background          []string
	TechnicalObjectives []string
	Context             []string
}

func reorder(chunks []Chunk) sections {
	var s sections
	for _, c := range chunks {
		switch c.Tag {
		case TagTechnical:
			s.TechnicalObjectives = append(s.TechnicalObjectives, c.Rewritten)
		default:
			s.Context = append(s.Context, c.Rewritten)
		}
	}
	return s
}

// injectAnchors fills the Background section with compliance templates
// in configured order, deduplicated, and returns the anchors added.
func injectAnchors(s *sections, dict *dictionary.Dictionary, cfg Config) []string {
	order := cfg.AnchorOrder
	if len(order) == 0 {
		order = dict.ComplianceTemplates
	}

	seen := make(map[string]bool)
	var anchors []string
	for _, anchor := range order {
		if anchor == "" || seen[anchor] {
			continue
		}
		seen[anchor] = true
		s.Background = append(s.Background, anchor)
		anchors = append(anchors, anchor)
	}
	return anchors
}

func render(s sections) string {
	var b strings.Builder

	writeSection := func(heading string, lines []string) {
		if len(lines) == 0 {
			return
		}
		b.WriteString(heading)
		b.WriteString("\n")
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeSection("Background", s.Background)
	writeSection("Technical Objectives", s.TechnicalObjectives)
	writeSection("Context", s.Context)

	return strings.TrimRight(b.String(), "\n")
}
