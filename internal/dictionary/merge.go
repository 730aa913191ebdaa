package dictionary

// Merge folds src into dst in place, deduplicating emotional words and
// compliance templates by exact text and overwriting technical rewrite
// keys on conflict (the most recently imported file wins).
func Merge(dst, src *Dictionary) {
	if src == nil {
		return
	}
	for _, word := range src.EmotionalWords {
		if !containsString(dst.EmotionalWords, word) {
			dst.EmotionalWords = append(dst.EmotionalWords, word)
		}
	}
	for k, v := range src.TechnicalRewrites {
		dst.TechnicalRewrites[k] = v
	}
	for _, anchor := range src.ComplianceTemplates {
		if !containsString(dst.ComplianceTemplates, anchor) {
			dst.ComplianceTemplates = append(dst.ComplianceTemplates, anchor)
		}
	}
}
