package diag

import (
	"fmt"
	"strings"
)

// Report collects the errors and warnings of one or more passes.
type Report struct {
	Errors   []Diagnostic `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []Diagnostic `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Add appends d to the errors or warnings depending on its severity.
func (r *Report) Add(d Diagnostic) {
	if d.IsWarning() {
		r.Warnings = append(r.Warnings, d)
	} else {
		r.Errors = append(r.Errors, d)
	}
}

// AddError records an error diagnostic. The severity of d is forced to error.
func (r *Report) AddError(d Diagnostic) {
	d.Severity = SeverityError
	r.Errors = append(r.Errors, d)
}

// Warn records a warning diagnostic. The severity of d is forced to warning.
func (r *Report) Warn(d Diagnostic) {
	d.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, d)
}

// Append moves all diagnostics of other into r.
func (r *Report) Append(other Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// HasErrors reports whether at least one error was recorded.
func (r Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether at least one warning was recorded.
func (r Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// IsEmpty reports whether no diagnostics were recorded.
func (r Report) IsEmpty() bool {
	return len(r.Errors) == 0 && len(r.Warnings) == 0
}

// Codes returns the codes of all errors followed by all warnings.
func (r Report) Codes() []string {
	out := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, d := range r.Errors {
		out = append(out, d.Code)
	}
	for _, d := range r.Warnings {
		out = append(out, d.Code)
	}
	return out
}

// Error implements the error interface so a Report can be returned as the
// error of a failed pass.
func (r *Report) Error() string {
	switch {
	case len(r.Errors) == 1:
		return r.Errors[0].Error()
	case len(r.Errors) == 0 && len(r.Warnings) == 1:
		return r.Warnings[0].Error()
	case r.IsEmpty():
		return "unknown error"
	}

	var sb strings.Builder
	if len(r.Errors) > 0 {
		fmt.Fprintf(&sb, "multiple errors (%d)", len(r.Errors))
	} else {
		fmt.Fprintf(&sb, "multiple warnings (%d)", len(r.Warnings))
	}
	for _, d := range r.Errors {
		sb.WriteString("; ")
		sb.WriteString(d.Error())
	}
	for _, d := range r.Warnings {
		sb.WriteString("; ")
		sb.WriteString(d.Error())
	}
	return sb.String()
}

// PassResult is the output of a pass together with everything it reported.
// Output may be set even when there are errors; such output is only useful
// for tooling and must not be treated as a valid result.
type PassResult[T any] struct {
	Output *T
	Report Report
}

// Finish creates a PassResult.
func Finish[T any](output *T, report Report) PassResult[T] {
	return PassResult[T]{Output: output, Report: report}
}

// Invalid reports whether the pass failed: it has errors or no output.
func (p PassResult[T]) Invalid() bool {
	return p.Report.HasErrors() || p.Output == nil
}

// IntoResult converts the pass into Go's value/error convention. When the
// pass is invalid the returned error is a *Report with every diagnostic.
func (p PassResult[T]) IntoResult() (*T, Report, error) {
	if p.Invalid() {
		r := p.Report
		return nil, r, &r
	}
	return p.Output, p.Report, nil
}

// StrictResult is IntoResult with warnings promoted to errors.
func (p PassResult[T]) StrictResult() (*T, Report, error) {
	if p.Report.HasWarnings() {
		r := p.Report
		for _, w := range r.Warnings {
			w.Severity = SeverityError
			r.Errors = append(r.Errors, w)
		}
		r.Warnings = nil
		return nil, r, &r
	}
	return p.IntoResult()
}

// Merge prepends the diagnostics of an earlier pass.
func (p PassResult[T]) Merge(earlier Report) PassResult[T] {
	r := earlier
	r.Append(p.Report)
	p.Report = r
	return p
}

// Discard drops the output, keeping the diagnostics, and changes the type.
func Discard[U, T any](p PassResult[T]) PassResult[U] {
	return PassResult[U]{Report: p.Report}
}

// Map transforms the output if present.
func Map[T, U any](p PassResult[T], f func(*T) *U) PassResult[U] {
	out := PassResult[U]{Report: p.Report}
	if p.Output != nil {
		out.Output = f(p.Output)
	}
	return out
}
