package diag

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/cooklang/pkg/span"
)

// Severity of a diagnostic.
type Severity int

const (
	// SeverityError prevents a pass from producing usable output.
	SeverityError Severity = iota
	// SeverityWarning signals degraded but usable output.
	SeverityWarning
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// MarshalText renders the severity by name in JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Label points at a span of source with an optional message.
type Label struct {
	Span    span.Span `json:"span" yaml:"span"`
	Message string    `json:"message,omitempty" yaml:"message,omitempty"`
}

// Diagnostic is a span-tagged error or warning produced by a pass over the
// source. The first label is the primary location.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Code     string   `json:"code" yaml:"code"`
	Message  string   `json:"message" yaml:"message"`
	Labels   []Label  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Help     string   `json:"help,omitempty" yaml:"help,omitempty"`
	Note     string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// NewError creates an error diagnostic.
func NewError(code, message string, labels ...Label) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Message: message, Labels: labels}
}

// NewWarning creates a warning diagnostic.
func NewWarning(code, message string, labels ...Label) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Labels: labels}
}

// At is a shorthand for a label with an optional message.
func At(s span.Span, message ...string) Label {
	return Label{Span: s, Message: strings.Join(message, " ")}
}

// WithHelp returns d with help text.
func (d Diagnostic) WithHelp(format string, args ...any) Diagnostic {
	d.Help = fmt.Sprintf(format, args...)
	return d
}

// WithNote returns d with a note.
func (d Diagnostic) WithNote(format string, args ...any) Diagnostic {
	d.Note = fmt.Sprintf(format, args...)
	return d
}

// WithLabel returns d with an additional label.
func (d Diagnostic) WithLabel(l Label) Diagnostic {
	d.Labels = append(append([]Label(nil), d.Labels...), l)
	return d
}

// Span is the primary location, or an empty span when there are no labels.
func (d Diagnostic) Span() span.Span {
	if len(d.Labels) == 0 {
		return span.Span{}
	}
	return d.Labels[0].Span
}

// IsWarning reports whether d is a warning.
func (d Diagnostic) IsWarning() bool {
	return d.Severity == SeverityWarning
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s[%s]: %s", d.Severity, d.Code, d.Message)
}
