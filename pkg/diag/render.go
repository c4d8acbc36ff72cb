package diag

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// RenderOptions controls how a Report is written.
type RenderOptions struct {
	// HideWarnings skips warnings.
	HideWarnings bool
	// Color enables ANSI styling.
	Color bool
}

type styles struct {
	err, warn, help, gutter, marker lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain}
	}
	return styles{
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		help:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		gutter: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		marker: lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	}
}

// Write renders every diagnostic of r against src. Warnings come first, as
// errors are usually what the reader wants to see last in a terminal.
func (r Report) Write(w io.Writer, fileName, src string, opts RenderOptions) error {
	st := newStyles(opts.Color)
	idx := newLineIndex(src)
	if !opts.HideWarnings {
		for _, d := range r.Warnings {
			if err := writeDiagnostic(w, d, fileName, src, idx, st); err != nil {
				return err
			}
		}
	}
	for _, d := range r.Errors {
		if err := writeDiagnostic(w, d, fileName, src, idx, st); err != nil {
			return err
		}
	}
	return nil
}

// String renders the report without color.
func (r Report) String(fileName, src string) string {
	var sb strings.Builder
	_ = r.Write(&sb, fileName, src, RenderOptions{})
	return sb.String()
}

func writeDiagnostic(w io.Writer, d Diagnostic, fileName, src string, idx lineIndex, st styles) error {
	head := st.err
	if d.IsWarning() {
		head = st.warn
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", head.Render(fmt.Sprintf("%s[%s]", d.Severity, d.Code)), d.Message)

	if len(d.Labels) > 0 {
		primary := d.Labels[0].Span
		line, col := idx.position(src, primary.Start)
		fmt.Fprintf(&sb, "  %s %s:%d:%d\n", st.gutter.Render("-->"), fileName, line, col)
		for _, l := range d.Labels {
			ln, c := idx.position(src, l.Span.Start)
			text := idx.line(src, ln)
			width := utf8.RuneCountInString(l.Span.Slice(src))
			if width == 0 {
				width = 1
			}
			if rest := utf8.RuneCountInString(text) - (c - 1); width > rest && rest > 0 {
				width = rest
			}
			num := fmt.Sprintf("%4d", ln)
			fmt.Fprintf(&sb, "%s %s %s\n", st.gutter.Render(num), st.gutter.Render("|"), text)
			marker := strings.Repeat(" ", c-1) + strings.Repeat("^", width)
			if l.Message != "" {
				marker += " " + l.Message
			}
			fmt.Fprintf(&sb, "     %s %s\n", st.gutter.Render("|"), st.marker.Render(marker))
		}
	}
	if d.Help != "" {
		fmt.Fprintf(&sb, "     %s %s\n", st.help.Render("= help:"), d.Help)
	}
	if d.Note != "" {
		fmt.Fprintf(&sb, "     %s %s\n", st.help.Render("= note:"), d.Note)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// lineIndex stores the byte offset of the start of every line.
type lineIndex []int

func newLineIndex(src string) lineIndex {
	idx := lineIndex{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// position returns the 1-based line and rune column of a byte offset.
func (idx lineIndex) position(src string, offset int) (int, int) {
	offset = min(max(offset, 0), len(src))
	line := 0
	for line+1 < len(idx) && idx[line+1] <= offset {
		line++
	}
	return line + 1, utf8.RuneCountInString(src[idx[line]:offset]) + 1
}

func (idx lineIndex) line(src string, n int) string {
	start := idx[n-1]
	end := len(src)
	if n < len(idx) {
		end = idx[n] - 1
	}
	return strings.TrimRight(src[start:end], "\r")
}
