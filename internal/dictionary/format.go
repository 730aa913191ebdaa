package dictionary

import (
	"path/filepath"
	"strings"
)

// Format is the on-disk dictionary encoding, detected by extension.
type Format int

const (
	FormatUnknown Format = iota
	FormatTxt
	FormatJSON
	FormatDic
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatTxt:
		return "txt"
	case FormatJSON:
		return "json"
	case FormatDic:
		return "dic"
	case FormatCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// DetectFormat maps a file extension onto a Format. xls/xlsx are
// accepted but parsed with the same delimited-text reader as csv: the
// pack carries no spreadsheet-binary library, and the format this was
// distilled from treats them identically (a plain comma-split reader).
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt":
		return FormatTxt, nil
	case ".json":
		return FormatJSON, nil
	case ".dic", ".dict":
		return FormatDic, nil
	case ".csv", ".xls", ".xlsx":
		return FormatCSV, nil
	default:
		return FormatUnknown, &ParseError{File: path, Code: "unsupported_format", Msg: "unable to determine dictionary format from extension " + ext}
	}
}
