package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"remap/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	gutterColor  = color.New(color.FgBlue)
	noteColor    = color.New(color.FgCyan)
)

// Renderer turns diagnostics into terminal output. The structured data is
// complete on its own; the renderer only needs the FileSet to resolve spans
// back to lines.
type Renderer struct {
	Files *source.FileSet
	Color bool
}

func NewRenderer(files *source.FileSet, colorize bool) *Renderer {
	return &Renderer{Files: files, Color: colorize}
}

// Render writes one diagnostic in the multi-line caret format.
func (r *Renderer) Render(w io.Writer, d *Diagnostic) {
	header := fmt.Sprintf("%s[%s]: %s", strings.ToLower(d.Severity.String()), d.Code.ID(), d.Message)
	fmt.Fprintln(w, r.paint(severityPainter(d.Severity), header))

	for _, l := range d.Labels {
		r.renderLabel(w, l)
	}
	for _, n := range d.Notes {
		msg := n.Message
		if n.URL != "" {
			msg += ": " + n.URL
		}
		fmt.Fprintf(w, "  %s %s\n", r.paint(noteColor, "note:"), msg)
	}
}

// RenderBag writes every diagnostic in span order followed by a summary
// line.
func (r *Renderer) RenderBag(w io.Writer, b *Bag) {
	items := b.Items()
	for i := range items {
		r.Render(w, &items[i])
		fmt.Fprintln(w)
	}
	if n := len(items); n > 0 {
		fmt.Fprintf(w, "%d diagnostic(s)\n", n)
	}
}

func (r *Renderer) renderLabel(w io.Writer, l Label) {
	pos := r.Files.Position(l.Span.File, l.Span.Start)
	file := r.Files.Get(l.Span.File)
	path := "<unknown>"
	if file != nil {
		path = file.Path
	}
	fmt.Fprintf(w, "  %s %s:%d:%d\n", r.paint(gutterColor, "-->"), path, pos.Line, pos.Col)

	line := r.Files.Line(l.Span.File, pos.Line)
	if line == nil {
		return
	}
	gutter := fmt.Sprintf("%4d | ", pos.Line)
	fmt.Fprintf(w, "%s%s\n", r.paint(gutterColor, gutter), string(line))

	// Caret underline aligned with the display width of the prefix.
	prefix := runewidth.StringWidth(string(line[:min(int(pos.Col)-1, len(line))]))
	width := runewidth.StringWidth(string(r.Files.SpanText(l.Span)))
	if width < 1 {
		width = 1
	}
	marker := strings.Repeat("-", width)
	painter := noteColor
	if l.Primary {
		marker = strings.Repeat("^", width)
		painter = errorColor
	}
	fmt.Fprintf(w, "%s%s%s %s\n",
		r.paint(gutterColor, "     | "),
		strings.Repeat(" ", prefix),
		r.paint(painter, marker),
		l.Message)
}

func (r *Renderer) paint(c *color.Color, s string) string {
	if !r.Color {
		return s
	}
	return c.Sprint(s)
}

func severityPainter(s Severity) *color.Color {
	switch s {
	case SevWarning:
		return warningColor
	case SevInfo:
		return infoColor
	default:
		return errorColor
	}
}
