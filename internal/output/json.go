package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter writes a record as JSON. An empty indent produces a single
// compact line (JSONL).
type JSONWriter struct {
	w      *bufio.Writer
	indent string
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		indent: indent,
	}
}

// Write encodes data followed by a newline and flushes.
func (w *JSONWriter) Write(data any) error {
	enc := json.NewEncoder(w.w)
	enc.SetEscapeHTML(false)
	if w.indent != "" {
		enc.SetIndent("", w.indent)
	}
	if err := enc.Encode(data); err != nil {
		return err
	}
	return w.w.Flush()
}
