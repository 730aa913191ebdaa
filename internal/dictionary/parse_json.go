package dictionary

import (
	"bytes"
	"encoding/json"
)

// jsonDictionary mirrors the §6 JSON grammar exactly; DisallowUnknownFields
// rejects anything beyond the three documented keys.
type jsonDictionary struct {
	EmotionalWords      []string          `json:"emotional_words,omitempty"`
	TechnicalRewrites   map[string]string `json:"technical_rewrites,omitempty"`
	ComplianceTemplates []string          `json:"compliance_templates,omitempty"`
}

func parseJSON(path string, content []byte) (*Dictionary, error) {
	var raw jsonDictionary
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, &ParseError{File: path, Code: "invalid_json", Msg: err.Error()}
	}

	if len(raw.EmotionalWords) > MaxEntriesPerMapping {
		return nil, &ParseError{File: path, Code: "bounds_exceeded", Msg: "emotional_words exceeds max entries per mapping"}
	}
	if len(raw.TechnicalRewrites) > MaxEntriesPerMapping {
		return nil, &ParseError{File: path, Code: "bounds_exceeded", Msg: "technical_rewrites exceeds max entries per mapping"}
	}
	if len(raw.ComplianceTemplates) > MaxEntriesPerMapping {
		return nil, &ParseError{File: path, Code: "bounds_exceeded", Msg: "compliance_templates exceeds max entries per mapping"}
	}

	out := New()
	out.EmotionalWords = raw.EmotionalWords
	for k, v := range raw.TechnicalRewrites {
		out.TechnicalRewrites[normalizeKey(k)] = v
	}
	out.ComplianceTemplates = raw.ComplianceTemplates
	return out, nil
}
