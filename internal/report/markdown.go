package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/campuscrawl/internal/model"
)

// MarkdownWriter outputs the snapshot in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the snapshot in Markdown format.
func (w *MarkdownWriter) Write(snap *model.Snapshot) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, snap)
	w.writeWords(md, snap)
	w.writeSubdomains(md, snap)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, snap *model.Snapshot) {
	md.H1("Crawl Report")
	md.PlainText("")

	longest := "none"
	if snap.LongestURL != "" {
		longest = "`" + snap.LongestURL + "` (" + strconv.Itoa(snap.LongestWordCount) + " words)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Unique pages", strconv.Itoa(snap.UniquePages)},
			{"URLs discovered", strconv.Itoa(snap.TotalDiscovered)},
			{"URLs completed", strconv.Itoa(snap.TotalCompleted)},
			{"Longest page", longest},
			{"Started", snap.Started.Format("2006-01-02 15:04:05 MST")},
			{"Finished", snap.Finished.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")
}

// writeWords writes the word frequency table.
func (w *MarkdownWriter) writeWords(md *markdown.Markdown, snap *model.Snapshot) {
	md.H2("Most Common Words")
	md.PlainText("")

	if len(snap.TopWords) == 0 {
		md.PlainText("No words collected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(snap.TopWords))
	for i, wc := range snap.TopWords {
		rows = append(rows, []string{
			strconv.Itoa(i + 1), wc.Word, strconv.Itoa(wc.Count),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Word", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSubdomains writes the subdomain table with a page distribution
// pie chart.
func (w *MarkdownWriter) writeSubdomains(md *markdown.Markdown, snap *model.Snapshot) {
	md.H2("Subdomains")
	md.PlainText("")

	if len(snap.Subdomains) == 0 {
		md.PlainText("No subdomains collected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(snap.Subdomains))
	for _, sc := range snap.Subdomains {
		rows = append(rows, []string{"`" + sc.Subdomain + "`", strconv.Itoa(sc.Count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Subdomain", "Pages"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pages per Subdomain"),
		piechart.WithShowData(true),
	)
	for _, sc := range snap.Subdomains {
		chart.LabelAndIntValue(sc.Subdomain, uint64(sc.Count))
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
