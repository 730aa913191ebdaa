package dictionary

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// ImportResult is the per-file outcome of an import, shaped to feed a
// DictionaryImport audit entry directly ({file, sha256, counts, when}).
type ImportResult struct {
	File       string
	SHA256     string
	Emotional  int
	Technical  int
	Compliance int
	When       time.Time
}

// ImportFile detects the format from the extension, parses the file,
// and reports its size/hash. It does not merge into any existing
// dictionary; call Merge with the result to do that.
func ImportFile(path string) (*Dictionary, ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ImportResult{}, &ParseError{File: path, Code: "stat_failed", Msg: err.Error()}
	}
	if info.Size() > MaxFileBytes {
		return nil, ImportResult{}, &ParseError{File: path, Code: "bounds_exceeded", Msg: fmt.Sprintf("file size %d exceeds max %d bytes", info.Size(), MaxFileBytes)}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, ImportResult{}, &ParseError{File: path, Code: "read_failed", Msg: err.Error()}
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, ImportResult{}, err
	}

	var dict *Dictionary
	switch format {
	case FormatTxt:
		dict, err = parseTxt(path, content)
	case FormatDic:
		dict, err = parseDic(path, content)
	case FormatJSON:
		dict, err = parseJSON(path, content)
	case FormatCSV:
		dict, err = parseCSV(path, content)
	default:
		return nil, ImportResult{}, &ParseError{File: path, Code: "unsupported_format", Msg: "no parser for detected format"}
	}
	if err != nil {
		return nil, ImportResult{}, err
	}

	sum := sha256.Sum256(content)
	emotional, technical, compliance := dict.Counts()
	return dict, ImportResult{
		File:       path,
		SHA256:     hex.EncodeToString(sum[:]),
		Emotional:  emotional,
		Technical:  technical,
		Compliance: compliance,
		When:       time.Now(),
	}, nil
}

// ImportFiles imports a batch of dictionary files in isolation from one
// another: one bad file never aborts the rest. Successful imports are
// merged, in order, into a single dictionary; failures are aggregated.
func ImportFiles(paths []string) (*Dictionary, []ImportResult, error) {
	out := New()
	var results []ImportResult
	var failures []error

	for _, path := range paths {
		dict, result, err := ImportFile(path)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		Merge(out, dict)
		results = append(results, result)
	}

	if len(failures) > 0 {
		return out, results, &ImportError{Failures: failures}
	}
	return out, results, nil
}
