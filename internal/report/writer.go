package report

import "io"

// Writer renders summaries in one output format.
type Writer interface {
	WriteComminution(c *Comminution) (int, error)
	WriteMixing(m *Mixing) (int, error)
	WriteBatch(entries []Entry) (int, error)
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Format names an output format on the command line.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// NewWriter returns the writer for format, or false for an unknown format.
func NewWriter(format Format, output io.Writer) (Writer, bool) {
	switch format {
	case FormatMarkdown, "markdown":
		return NewMarkdownWriter(output), true
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), true
	default:
		return nil, false
	}
}
