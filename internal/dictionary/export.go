package dictionary

import (
	"encoding/json"
	"os"
)

// Emit renders a dictionary as its canonical JSON form.
func Emit(d *Dictionary) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Parse decodes a dictionary from its canonical JSON form.
func Parse(data []byte) (*Dictionary, error) {
	return parseJSON("<memory>", data)
}

// ExportFile writes a dictionary's canonical JSON form to path.
func ExportFile(d *Dictionary, path string) error {
	data, err := Emit(d)
	if err != nil {
		return &ParseError{File: path, Code: "marshal_failed", Msg: err.Error()}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ParseError{File: path, Code: "write_failed", Msg: err.Error()}
	}
	return nil
}
