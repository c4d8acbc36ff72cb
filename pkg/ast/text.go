package ast

import (
	"encoding/json"
	"strings"

	"github.com/NVIDIA/cooklang/pkg/span"
)

// FragmentKind tells what a text fragment is.
type FragmentKind int

const (
	// FragmentText is regular text.
	FragmentText FragmentKind = iota
	// FragmentLineComment is a "--" comment.
	FragmentLineComment
	// FragmentBlockComment is a "[- -]" comment.
	FragmentBlockComment
)

// Fragment is a piece of source text at Offset.
type Fragment struct {
	Text   string
	Offset int
	Kind   FragmentKind
}

// Span of the fragment in the source.
func (f Fragment) Span() span.Span {
	return span.New(f.Offset, f.Offset+len(f.Text))
}

// Text is a logical string built from source fragments. Escapes and comments
// split it in several fragments; comments are kept for their location but do
// not contribute to the text.
type Text struct {
	offset    int
	fragments []Fragment
}

// NewText returns an empty text at offset.
func NewText(offset int) Text {
	return Text{offset: offset}
}

// TextFrom returns a text with a single fragment.
func TextFrom(s string, offset int) Text {
	t := NewText(offset)
	t.Push(Fragment{Text: s, Offset: offset})
	return t
}

// Push appends a fragment. Empty fragments are dropped.
func (t *Text) Push(f Fragment) {
	if f.Text == "" {
		return
	}
	t.fragments = append(t.fragments, f)
}

// Fragments returns all fragments, comments included.
func (t Text) Fragments() []Fragment {
	return t.fragments
}

// Span covers from the text offset to the end of the last fragment.
func (t Text) Span() span.Span {
	if len(t.fragments) == 0 {
		return span.Pos(t.offset)
	}
	return span.New(t.offset, t.fragments[len(t.fragments)-1].Span().End)
}

// Raw is the text without comments and escape backslashes, untrimmed.
func (t Text) Raw() string {
	var only string
	n := 0
	for _, f := range t.fragments {
		if f.Kind == FragmentText {
			only = f.Text
			n++
		}
	}
	if n <= 1 {
		return only
	}

	var sb strings.Builder
	for _, f := range t.fragments {
		if f.Kind == FragmentText {
			sb.WriteString(f.Text)
		}
	}
	return sb.String()
}

// String is the trimmed text.
func (t Text) String() string {
	return strings.TrimSpace(t.Raw())
}

// IsEmpty reports whether the text has nothing but whitespace.
func (t Text) IsEmpty() bool {
	for _, f := range t.fragments {
		if f.Kind == FragmentText && strings.TrimSpace(f.Text) != "" {
			return false
		}
	}
	return true
}

// Located returns the trimmed text with the text span.
func (t Text) Located() span.Located[string] {
	return span.Locate(t.String(), t.Span())
}

// Equal compares the fragments of two texts, ignoring offsets.
func (t Text) Equal(o Text) bool {
	if len(t.fragments) != len(o.fragments) {
		return false
	}
	for i := range t.fragments {
		a, b := t.fragments[i], o.fragments[i]
		if a.Kind != b.Kind || a.Text != b.Text {
			return false
		}
	}
	return true
}

type textJSON struct {
	Text string    `json:"text"`
	Span span.Span `json:"span"`
}

// MarshalJSON encodes the trimmed text and its span.
func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(textJSON{Text: t.String(), Span: t.Span()})
}

func (Text) isItem() {}
