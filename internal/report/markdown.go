package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"mastication-analyzer/internal/models"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs summaries as Markdown tables.
type MarkdownWriter struct {
	baseWriter
}

func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteComminution writes the size statistics and the size range table.
func (w *MarkdownWriter) WriteComminution(c *Comminution) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Comminution Analysis")
	md.PlainText("")
	w.writeSource(md, c.Source)

	md.Table(markdown.TableSet{
		Header: []string{"Statistic", "Value"},
		Rows: [][]string{
			{"Disk", formatCircle(c.Disk)},
			{"Particles", strconv.Itoa(c.Particles)},
			{"D10", formatArea(c.D10)},
			{"D50", formatArea(c.D50)},
			{"D90", formatArea(c.D90)},
			{"KDE bandwidth", fmt.Sprintf("%.4f", c.Bandwidth)},
		},
	})
	md.PlainText("")

	if len(c.Markers) > 0 {
		md.H2("Density Markers")
		md.PlainText("")
		rows := make([][]string, len(c.Markers))
		for i, m := range c.Markers {
			rows[i] = []string{m.Label, formatArea(m.Value), fmt.Sprintf("%.4f", m.Density)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Marker", "Area", "Density"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	md.H2("Size Ranges")
	md.PlainText("")
	if len(c.SizeRanges) == 0 {
		md.PlainText("No particles measured.")
	} else {
		rows := make([][]string, len(c.SizeRanges))
		for i, r := range c.SizeRanges {
			rows[i] = []string{
				fmt.Sprintf("%.2f - %.2f", r.Lower, r.Upper),
				strconv.Itoa(r.Count),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Range (mm²)", "Particles"},
			Rows:   rows,
		})
	}
	md.PlainText("")

	return len(md.String()), md.Build()
}

// WriteMixing writes the hue dispersion summary.
func (w *MarkdownWriter) WriteMixing(m *Mixing) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Mixing Analysis")
	md.PlainText("")
	w.writeSource(md, m.Source)

	disk := "not found, full frame analyzed"
	if m.DiskFound {
		disk = formatCircle(m.Disk)
	}

	rows := [][]string{
		{"Disk", disk},
		{"Segmented pixels", strconv.Itoa(m.Pixels)},
		{"VOH", fmt.Sprintf("%.2f", m.VOH)},
		{"SDHue", fmt.Sprintf("%.2f", m.SDHue)},
	}
	if bin, share, ok := dominantBin(m.Histograms.Hue); ok {
		rows = append(rows, []string{"Dominant hue bin", fmt.Sprintf("%d (%.1f%%)", bin, share*100)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Statistic", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if !m.DiskFound {
		md.Note("Sample disk was not located; statistics cover the whole frame.")
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

// WriteBatch writes one table row per analyzed file.
func (w *MarkdownWriter) WriteBatch(entries []Entry) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Batch Analysis")
	md.PlainText("")

	var comminutionRows, mixingRows, failures [][]string
	for _, e := range entries {
		name := filepath.Base(e.Path)
		switch {
		case e.Error != "":
			failures = append(failures, []string{name, e.Error})
		case e.Comminution != nil:
			c := e.Comminution
			comminutionRows = append(comminutionRows, []string{
				name, strconv.Itoa(c.Particles), formatArea(c.D10), formatArea(c.D50), formatArea(c.D90),
			})
		case e.Mixing != nil:
			m := e.Mixing
			mixingRows = append(mixingRows, []string{
				name, strconv.FormatBool(m.DiskFound), strconv.Itoa(m.Pixels),
				fmt.Sprintf("%.2f", m.VOH), fmt.Sprintf("%.2f", m.SDHue),
			})
		}
	}

	if len(comminutionRows) > 0 {
		md.H2("Comminution")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"File", "Particles", "D10", "D50", "D90"},
			Rows:   comminutionRows,
		})
		md.PlainText("")
	}
	if len(mixingRows) > 0 {
		md.H2("Mixing")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"File", "Disk found", "Pixels", "VOH", "SDHue"},
			Rows:   mixingRows,
		})
		md.PlainText("")
	}
	if len(failures) > 0 {
		md.H2("Failures")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"File", "Error"},
			Rows:   failures,
		})
		md.PlainText("")
	}
	if len(entries) == 0 {
		md.PlainText("No files analyzed.")
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSource(md *markdown.Markdown, source string) {
	if source == "" {
		return
	}
	md.PlainText("Source: `" + source + "`")
	md.PlainText("")
}

func formatArea(v float64) string {
	return fmt.Sprintf("%.2f mm²", v)
}

func formatCircle(c models.Circle) string {
	return fmt.Sprintf("center (%d, %d), radius %d px", c.X, c.Y, c.Radius)
}

// dominantBin returns the fullest bin of a normalized histogram and its share.
func dominantBin(hist []float64) (int, float64, bool) {
	best := -1
	for i, v := range hist {
		if v > 0 && (best < 0 || v > hist[best]) {
			best = i
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, hist[best], true
}
