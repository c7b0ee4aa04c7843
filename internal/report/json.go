package report

import (
	"encoding/json"
	"io"
)

// JSONWriter outputs summaries as JSON, one document per call.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *JSONWriter) WriteComminution(c *Comminution) (int, error) {
	return w.writeJSON(c)
}

func (w *JSONWriter) WriteMixing(m *Mixing) (int, error) {
	return w.writeJSON(m)
}

func (w *JSONWriter) WriteBatch(entries []Entry) (int, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return w.writeJSON(entries)
}

func (w *JSONWriter) writeJSON(v interface{}) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
