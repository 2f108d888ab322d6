package diag

import "remap/internal/source"

// New constructs a diagnostic with its primary label in one call.
func New(sev Severity, code Code, msg string, primary Label) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Labels:   []Label{primary},
	}
}

// NewError is a shortcut for SevError diagnostics; the message defaults to
// the code's registered title.
func NewError(code Code, primary Label) *Diagnostic {
	return New(SevError, code, code.Title(), primary)
}

func (d *Diagnostic) WithLabel(l Label) *Diagnostic {
	d.Labels = append(d.Labels, l)
	return d
}

func (d *Diagnostic) WithContext(msg string, sp source.Span) *Diagnostic {
	return d.WithLabel(Context(msg, sp))
}

func (d *Diagnostic) WithNote(n Note) *Diagnostic {
	d.Notes = append(d.Notes, n)
	return d
}
