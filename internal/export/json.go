// Package export writes planner output as JSON documents and xlsx workbooks.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteJSONFile writes v to path, or to stdout when path is empty or "-".
func WriteJSONFile(path string, v any, stdout io.Writer) error {
	if path == "" || path == "-" {
		return WriteJSON(stdout, v)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteJSON(f, v); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
