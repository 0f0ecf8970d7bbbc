package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/campuscrawl/internal/model"
)

// TextWriter outputs human-readable text reports.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
//  1. It works in all terminals without compatibility issues
//  2. It's easier to pipe to files or other tools
//  3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// verbose enables the crawl timing footer.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables verbose output with timing details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the snapshot in human-readable format.
func (w *TextWriter) Write(snap *model.Snapshot) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb)
	w.writePages(&sb, snap)
	w.writeWords(&sb, snap)
	w.writeSubdomains(&sb, snap)
	if w.verbose {
		w.writeFooter(&sb, snap)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report banner.
func (w *TextWriter) writeHeader(sb *strings.Builder) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

// writePages writes the page-level statistics.
func (w *TextWriter) writePages(sb *strings.Builder, snap *model.Snapshot) {
	fmt.Fprintf(sb, "1. Number of unique pages: %d\n", snap.UniquePages)
	fmt.Fprintf(sb, "   (discovered %d urls, completed %d)\n\n", snap.TotalDiscovered, snap.TotalCompleted)

	if snap.LongestURL != "" {
		fmt.Fprintf(sb, "2. Longest page: %s (%d words)\n\n", snap.LongestURL, snap.LongestWordCount)
	} else {
		sb.WriteString("2. Longest page: none\n\n")
	}
}

// writeWords writes the word frequency table.
func (w *TextWriter) writeWords(sb *strings.Builder, snap *model.Snapshot) {
	fmt.Fprintf(sb, "3. %d most common words:\n", len(snap.TopWords))
	for _, wc := range snap.TopWords {
		fmt.Fprintf(sb, "   %s -> %d\n", wc.Word, wc.Count)
	}
	sb.WriteString("\n")
}

// writeSubdomains writes the subdomain table.
func (w *TextWriter) writeSubdomains(sb *strings.Builder, snap *model.Snapshot) {
	fmt.Fprintf(sb, "4. Number of subdomains: %d\n", len(snap.Subdomains))
	for _, sc := range snap.Subdomains {
		fmt.Fprintf(sb, "   %s, %d\n", sc.Subdomain, sc.Count)
	}
	sb.WriteString("\n")
}

// writeFooter writes the crawl timing line.
func (w *TextWriter) writeFooter(sb *strings.Builder, snap *model.Snapshot) {
	fmt.Fprintf(sb, "Started:  %s\n", snap.Started.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Finished: %s\n", snap.Finished.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Elapsed:  %s\n", snap.Finished.Sub(snap.Started).Round(time.Second))
}
