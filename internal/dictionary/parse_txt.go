package dictionary

import (
	"bufio"
	"strings"
)

// parseTxt implements the §6 text grammar: "#"/"//" comment lines,
// blank lines skipped, mapping lines of the form
// "key (-> | => | =) value", and every other non-empty line treated as
// an emotional-word entry.
func parseTxt(path string, content []byte) (*Dictionary, error) {
	out := New()
	scanner := bufio.NewScanner(strings.NewReader(string(content)))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		sep := ""
		switch {
		case strings.Contains(line, "->"):
			sep = "->"
		case strings.Contains(line, "=>"):
			sep = "=>"
		case strings.Contains(line, "="):
			sep = "="
		}

		if sep != "" {
			parts := strings.SplitN(line, sep, 2)
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if key == "" || value == "" {
				return nil, &ParseError{File: path, Line: lineNo, Code: "empty_mapping", Msg: "mapping line has an empty key or value"}
			}
			if len(out.TechnicalRewrites) >= MaxEntriesPerMapping {
				return nil, &ParseError{File: path, Line: lineNo, Code: "bounds_exceeded", Msg: "technical_rewrites exceeds max entries per mapping"}
			}
			out.TechnicalRewrites[normalizeKey(key)] = value
			continue
		}

		if len(out.EmotionalWords) >= MaxEntriesPerMapping {
			return nil, &ParseError{File: path, Line: lineNo, Code: "bounds_exceeded", Msg: "emotional_words exceeds max entries per mapping"}
		}
		out.EmotionalWords = append(out.EmotionalWords, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{File: path, Code: "scan_failed", Msg: err.Error()}
	}
	return out, nil
}

// parseDic implements the §6 key-value grammar: "key=value" per line,
// comments introduced by "#" or ";".
func parseDic(path string, content []byte) (*Dictionary, error) {
	out := New()
	scanner := bufio.NewScanner(strings.NewReader(string(content)))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		idx := strings.Index(line, "=")
		if idx < 0 {
			return nil, &ParseError{File: path, Line: lineNo, Code: "missing_separator", Msg: "expected key=value"}
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" || value == "" {
			return nil, &ParseError{File: path, Line: lineNo, Code: "empty_mapping", Msg: "mapping line has an empty key or value"}
		}
		if len(out.TechnicalRewrites) >= MaxEntriesPerMapping {
			return nil, &ParseError{File: path, Line: lineNo, Code: "bounds_exceeded", Msg: "technical_rewrites exceeds max entries per mapping"}
		}
		out.TechnicalRewrites[normalizeKey(key)] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{File: path, Code: "scan_failed", Msg: err.Error()}
	}
	return out, nil
}
