package diag

import (
	"fmt"
	"strings"

	"remap/internal/source"
)

// Label ties a message to the span it talks about. Every diagnostic has
// exactly one primary label (the violation itself); context labels suggest
// where to fix it.
type Label struct {
	Message string
	Span    source.Span
	Primary bool
}

// Primary constructs the violation label.
func Primary(msg string, sp source.Span) Label {
	return Label{Message: msg, Span: sp, Primary: true}
}

// Context constructs a remediation-hint label.
func Context(msg string, sp source.Span) Label {
	return Label{Message: msg, Span: sp}
}

// Note is free-form guidance attached to a diagnostic, optionally linking
// into external documentation.
type Note struct {
	Message string
	URL     string
}

// NoteText constructs a plain note.
func NoteText(msg string) Note {
	return Note{Message: msg}
}

// NoteSeeDocs links a topic to a documentation URL.
func NoteSeeDocs(topic, url string) Note {
	return Note{Message: "see documentation about " + topic, URL: url}
}

// NoteSeeCodeDocs links the diagnostic's own error-code page.
func NoteSeeCodeDocs(code Code) Note {
	return Note{Message: "learn more about error code " + code.ID(), URL: code.DocURL()}
}

// Diagnostic is a structured compile-time error. Diagnostics originate only
// from expression construction; runtime failures never produce one.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Labels   []Label
	Notes    []Note
}

// PrimarySpan returns the span of the primary label.
func (d *Diagnostic) PrimarySpan() source.Span {
	for _, l := range d.Labels {
		if l.Primary {
			return l.Span
		}
	}
	if len(d.Labels) > 0 {
		return d.Labels[0].Span
	}
	return source.Span{}
}

// Error makes a Diagnostic usable as a Go error at the constructor
// boundary.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", d.Severity, d.Code.ID(), d.Message)
	return b.String()
}
