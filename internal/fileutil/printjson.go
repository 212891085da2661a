package fileutil

import (
	"bytes"
	"encoding/json"
	"io"
)

func WriteJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(value)
}

// MarshalIndent encodes value the way the data files are stored on disk:
// two-space indent, no HTML escaping, trailing newline.
func MarshalIndent(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
