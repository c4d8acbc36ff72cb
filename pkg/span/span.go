package span

import "fmt"

// Span is a half-open byte range [Start, End) into the original source text.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// New creates a span. It panics when end is before start, which is always a
// programming error in the lexer or parser.
func New(start, end int) Span {
	if end < start {
		panic(fmt.Sprintf("invalid span: end %d before start %d", end, start))
	}
	return Span{Start: start, End: end}
}

// Pos returns an empty span at offset.
func Pos(offset int) Span {
	return Span{Start: offset, End: offset}
}

// Len is the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Contains reports whether offset is inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Slice returns the text covered by the span. Out of range spans are clamped.
func (s Span) Slice(src string) string {
	start := min(max(s.Start, 0), len(src))
	end := min(max(s.End, start), len(src))
	return src[start:end]
}

// String implements fmt.Stringer.
func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Located pairs a value with the span it was parsed from.
type Located[T any] struct {
	Value T    `json:"value" yaml:"value"`
	Span  Span `json:"span" yaml:"span"`
}

// Locate wraps v with span s.
func Locate[T any](v T, s Span) Located[T] {
	return Located[T]{Value: v, Span: s}
}

// Map transforms the value of l keeping its span.
func Map[T, U any](l Located[T], f func(T) U) Located[U] {
	return Located[U]{Value: f(l.Value), Span: l.Span}
}
