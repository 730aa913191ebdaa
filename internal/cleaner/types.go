// Package cleaner implements the deterministic rewrite pipeline that
// sits in front of the router: segment, classify, drop/rewrite,
// reorder, inject compliance anchors, score.
package cleaner

import "github.com/sovereign-systems/acsa/internal/dictionary"

// Tag is the classification a chunk receives in step 2 of the pipeline.
type Tag int

const (
	TagEmotional Tag = iota
	TagTechnical
	TagContext
	TagNeutral
)

func (t Tag) String() string {
	switch t {
	case TagEmotional:
		return "emotional"
	case TagTechnical:
		return "technical"
	case TagContext:
		return "context"
	case TagNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// Chunk is one semantic unit of the segmented input.
type Chunk struct {
	Text      string
	Tag       Tag
	Rewritten string
}

// Rewrite is one technical_rewrites substitution applied during
// compose, kept so a caller can trace exactly what the cleaner changed
// rather than just how many changes it made.
type Rewrite struct {
	From string
	To   string
}

// Result is the output of a single Clean invocation.
type Result struct {
	Original      string
	CompliantText string
	Chunks        []Chunk

	// DroppedSegments holds the verbatim text of every Emotional chunk
	// the pipeline discarded. DroppedEmotional is len(DroppedSegments).
	DroppedSegments []string
	// RewritesApplied holds every technical_rewrites substitution made,
	// in application order. AnchorsInjected counts len(ComplianceAnchors).
	RewritesApplied []Rewrite
	// ComplianceAnchors holds the actual anchor text injected into the
	// Background section, in render order.
	ComplianceAnchors []string

	DroppedEmotional     int
	AnchorsInjected      int
	UnrewrittenDangerous int
	SafetyScore          int
	Warning              string
}

// Config tunes the pipeline. AnchorOrder, when non-empty, is injected
// as the compliance anchors in its own order, in place of the
// dictionary's templates; an empty slice means "inject every configured
// template, in dictionary order".
type Config struct {
	AnchorOrder []string
}

// Clean runs the full pipeline against a dictionary snapshot. It never
// fails: on an input it cannot segment meaningfully it returns the
// input unchanged with SafetyScore 0 and a Warning set.
func Clean(input string, dict *dictionary.Dictionary, cfg Config) Result {
	if dict == nil {
		dict = dictionary.New()
	}

	chunks := segment(input)
	if len(chunks) == 0 {
		return Result{
			Original:      input,
			CompliantText: input,
			SafetyScore:   0,
			Warning:       "input could not be segmented into any semantic chunk",
		}
	}

	tagged := classifyAll(chunks, dict)

	var kept []Chunk
	var droppedSegments []string
	var rewritesApplied []Rewrite
	for _, c := range tagged {
		if c.Tag == TagEmotional {
			droppedSegments = append(droppedSegments, c.Text)
			continue
		}
		if c.Tag == TagTechnical {
			rewritten, applied := applyRewrites(c.Text, dict)
			c.Rewritten = rewritten
			rewritesApplied = append(rewritesApplied, applied...)
		} else {
			c.Rewritten = c.Text
		}
		kept = append(kept, c)
	}

	sections := reorder(kept)
	anchors := injectAnchors(&sections, dict, cfg)
	compliant := render(sections)

	unrewritten := countUnrewrittenDangerous(compliant, dict)
	score := safetyScore(len(droppedSegments), unrewritten, len(anchors))

	return Result{
		Original:             input,
		CompliantText:        compliant,
		Chunks:               kept,
		DroppedSegments:      droppedSegments,
		RewritesApplied:      rewritesApplied,
		ComplianceAnchors:    anchors,
		DroppedEmotional:     len(droppedSegments),
		AnchorsInjected:      len(anchors),
		UnrewrittenDangerous: unrewritten,
		SafetyScore:          score,
	}
}
