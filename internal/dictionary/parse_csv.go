package dictionary

import (
	"encoding/csv"
	"strings"
)

var (
	emotionalAliases  = map[string]bool{"emotional": true, "emotion": true, "black": true, "blacklist": true}
	technicalAliases  = map[string]bool{"technical": true, "rewrite": true}
	complianceAliases = map[string]bool{"compliance": true, "anchor": true, "template": true}
)

// parseCSV implements the §6 CSV grammar: either typed rows
// (type,content,replacement) or a plain two-column file treated
// entirely as technical rewrites. A header row is auto-detected when
// the first row contains "type" or "dangerous" case-insensitively.
func parseCSV(path string, content []byte) (*Dictionary, error) {
	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{File: path, Code: "invalid_csv", Msg: err.Error()}
	}

	out := New()
	start := 0
	if len(records) > 0 && looksLikeHeader(records[0]) {
		start = 1
	}

	for i := start; i < len(records); i++ {
		lineNo := i + 1
		fields := trimAll(records[i])
		if len(fields) == 0 || (len(fields) == 1 && fields[0] == "") {
			continue
		}

		if len(fields) < 2 {
			return nil, &ParseError{File: path, Line: lineNo, Code: "too_few_columns", Msg: "csv row needs at least two columns"}
		}

		kind := strings.ToLower(fields[0])
		switch {
		case emotionalAliases[kind]:
			if err := appendEmotional(out, fields[1], path, lineNo); err != nil {
				return nil, err
			}
		case technicalAliases[kind]:
			if len(fields) < 3 {
				continue
			}
			if err := putTechnical(out, fields[1], fields[2], path, lineNo); err != nil {
				return nil, err
			}
		case complianceAliases[kind]:
			if err := appendCompliance(out, fields[1], path, lineNo); err != nil {
				return nil, err
			}
		default:
			// Simple two-column form: dangerous term, safe rewrite.
			if err := putTechnical(out, fields[0], fields[1], path, lineNo); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func looksLikeHeader(row []string) bool {
	for _, field := range row {
		lower := strings.ToLower(field)
		if strings.Contains(lower, "type") || strings.Contains(lower, "dangerous") {
			return true
		}
	}
	return false
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

func appendEmotional(d *Dictionary, word, path string, line int) error {
	if len(d.EmotionalWords) >= MaxEntriesPerMapping {
		return &ParseError{File: path, Line: line, Code: "bounds_exceeded", Msg: "emotional_words exceeds max entries per mapping"}
	}
	d.EmotionalWords = append(d.EmotionalWords, word)
	return nil
}

func putTechnical(d *Dictionary, key, value, path string, line int) error {
	if _, exists := d.TechnicalRewrites[normalizeKey(key)]; !exists && len(d.TechnicalRewrites) >= MaxEntriesPerMapping {
		return &ParseError{File: path, Line: line, Code: "bounds_exceeded", Msg: "technical_rewrites exceeds max entries per mapping"}
	}
	d.TechnicalRewrites[normalizeKey(key)] = value
	return nil
}

func appendCompliance(d *Dictionary, template, path string, line int) error {
	if len(d.ComplianceTemplates) >= MaxEntriesPerMapping {
		return &ParseError{File: path, Line: line, Code: "bounds_exceeded", Msg: "compliance_templates exceeds max entries per mapping"}
	}
	d.ComplianceTemplates = append(d.ComplianceTemplates, template)
	return nil
}
