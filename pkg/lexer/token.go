package lexer

import (
	"fmt"

	"github.com/NVIDIA/cooklang/pkg/span"
)

// TokenKind classifies a lexed token.
type TokenKind int

const (
	// MetadataStart is ">>".
	MetadataStart TokenKind = iota
	// TextStep is ">".
	TextStep
	// Colon is ":".
	Colon
	// At is "@".
	At
	// Hash is "#".
	Hash
	// Tilde is "~".
	Tilde
	// Question is "?".
	Question
	// Plus is "+".
	Plus
	// Minus is "-".
	Minus
	// Slash is "/".
	Slash
	// Star is "*".
	Star
	// And is "&".
	And
	// Or is "|".
	Or
	// Eq is "=".
	Eq
	// Percent is "%".
	Percent
	OpenBrace
	CloseBrace
	OpenParen
	CloseParen
	OpenSquare
	CloseSquare

	// Int is "14" or "0", but not "014".
	Int
	// Float is "3.14" or ".14", but not "14.".
	Float
	// Word is everything else.
	Word
	// Escaped is a backslash followed by any character.
	Escaped

	// Whitespace is a run of spaces and tabs.
	Whitespace
	// Newline is "\n" or "\r\n".
	Newline
	// LineComment is "--" until the end of the line.
	LineComment
	// BlockComment is "[-" until "-]" or the end of input.
	BlockComment

	// Eof marks the end of input.
	Eof
)

var kindNames = [...]string{
	MetadataStart: ">>",
	TextStep:      ">",
	Colon:         ":",
	At:            "@",
	Hash:          "#",
	Tilde:         "~",
	Question:      "?",
	Plus:          "+",
	Minus:         "-",
	Slash:         "/",
	Star:          "*",
	And:           "&",
	Or:            "|",
	Eq:            "=",
	Percent:       "%",
	OpenBrace:     "{",
	CloseBrace:    "}",
	OpenParen:     "(",
	CloseParen:    ")",
	OpenSquare:    "[",
	CloseSquare:   "]",
	Int:           "int",
	Float:         "float",
	Word:          "word",
	Escaped:       "escaped",
	Whitespace:    "whitespace",
	Newline:       "newline",
	LineComment:   "line comment",
	BlockComment:  "block comment",
	Eof:           "eof",
}

// String implements fmt.Stringer.
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// IsTrivia reports whether the kind carries no meaning for the grammar
// besides separating other tokens.
func (k TokenKind) IsTrivia() bool {
	return k == Whitespace || k == LineComment || k == BlockComment
}

// IsComment reports whether the kind is a line or block comment.
func (k TokenKind) IsComment() bool {
	return k == LineComment || k == BlockComment
}

// Token is a lexed token with its location in the source.
type Token struct {
	Kind TokenKind
	Span span.Span
}

// Len is the token length in bytes.
func (t Token) Len() int {
	return t.Span.Len()
}

// Text returns the source text of the token.
func (t Token) Text(src string) string {
	return t.Span.Slice(src)
}

// Is reports whether the token is any of kinds.
func (t Token) Is(kinds ...TokenKind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (t Token) String() string {
	return fmt.Sprintf("%s@%s", t.Kind, t.Span)
}
