package lexer

import (
	"iter"
	"unicode"
	"unicode/utf8"

	"github.com/NVIDIA/cooklang/pkg/span"
)

const eofChar rune = 0

// Lexer turns recipe text into tokens. It never fails: any character that is
// not part of another token becomes a one character Word.
//
// A Lexer is a single forward cursor and cannot be restarted.
type Lexer struct {
	src   string
	pos   int
	start int
	prev  rune
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src, prev: eofChar}
}

// Tokenize returns a lazy sequence of all tokens in src, not including the
// final Eof token.
func Tokenize(src string) iter.Seq[Token] {
	l := New(src)
	return func(yield func(Token) bool) {
		for {
			tok := l.Next()
			if tok.Kind == Eof || !yield(tok) {
				return
			}
		}
	}
}

// Next returns the next token. Once the input is exhausted it keeps returning
// an empty Eof token at the end of the input.
func (l *Lexer) Next() Token {
	prev := l.prev
	l.start = l.pos

	c, ok := l.bump()
	if !ok {
		return Token{Kind: Eof, Span: span.Pos(l.pos)}
	}

	var kind TokenKind
	switch {
	case c == '\\':
		l.bump()
		kind = Escaped
	case c == '>' && l.first() == '>':
		l.bump()
		kind = MetadataStart
	case c == '-' && l.first() == '-':
		kind = l.lineComment()
	case c == '[' && l.first() == '-':
		kind = l.blockComment()
	case isWhitespace(c):
		kind = l.whitespace()
	case isNewline(c, l.first()):
		if c == '\r' {
			l.bump()
		}
		kind = Newline
	case isASCIIDigit(c):
		kind = l.number(c)
	case c == '.' && isASCIIDigit(l.first()) && (!isWordChar(prev) || prev == eofChar):
		kind = l.number(c)
	default:
		if k, single := punctuation(c); single {
			kind = k
		} else if isWordChar(c) {
			l.eatWhile(isWordChar)
			kind = Word
		} else {
			kind = Word
		}
	}

	return Token{Kind: kind, Span: span.New(l.start, l.pos)}
}

func (l *Lexer) lineComment() TokenKind {
	l.eatWhile(func(c rune) bool { return c != '\n' })
	return LineComment
}

func (l *Lexer) blockComment() TokenKind {
	l.bump() // '-'
	for {
		c, ok := l.bump()
		if !ok {
			break
		}
		if c == '-' && l.first() == ']' {
			l.bump()
			break
		}
	}
	return BlockComment
}

func (l *Lexer) whitespace() TokenKind {
	l.eatWhile(isWhitespace)
	return Whitespace
}

// number lexes number-like runs:
//
//	0          int
//	01         word
//	0.         word
//	0.[0-9]+   float
//	[1-9][0-9]* int
func (l *Lexer) number(c rune) TokenKind {
	if c == '.' {
		if l.eatDigits() {
			return Float
		}
		return Word
	}

	hasInt := l.eatDigits() || isASCIIDigit(c)
	leadingZero := c == '0' && l.pos-l.start > 1
	hasDivider := l.first() == '.'
	hasFrac := false
	if hasDivider {
		l.bump()
		hasFrac = l.eatDigits()
	}

	switch {
	case leadingZero:
		return Word
	case hasInt && !hasDivider && !hasFrac:
		return Int
	case hasDivider && hasFrac:
		return Float
	default:
		return Word
	}
}

func (l *Lexer) eatDigits() bool {
	has := false
	for isASCIIDigit(l.first()) {
		has = true
		l.bump()
	}
	return has
}

func (l *Lexer) eatWhile(pred func(rune) bool) {
	for l.pos < len(l.src) && pred(l.first()) {
		l.bump()
	}
}

func (l *Lexer) bump() (rune, bool) {
	if l.pos >= len(l.src) {
		return eofChar, false
	}
	c, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	l.prev = c
	return c, true
}

func (l *Lexer) first() rune {
	if l.pos >= len(l.src) {
		return eofChar
	}
	c, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return c
}

func punctuation(c rune) (TokenKind, bool) {
	switch c {
	case '>':
		return TextStep, true
	case ':':
		return Colon, true
	case '@':
		return At, true
	case '#':
		return Hash, true
	case '~':
		return Tilde, true
	case '?':
		return Question, true
	case '+':
		return Plus, true
	case '-':
		return Minus, true
	case '/':
		return Slash, true
	case '*':
		return Star, true
	case '&':
		return And, true
	case '|':
		return Or, true
	case '%':
		return Percent, true
	case '=':
		return Eq, true
	case '{':
		return OpenBrace, true
	case '}':
		return CloseBrace, true
	case '(':
		return OpenParen, true
	case ')':
		return CloseParen, true
	case '[':
		return OpenSquare, true
	case ']':
		return CloseSquare, true
	}
	return 0, false
}

func isNewline(c, next rune) bool {
	return c == '\n' || (c == '\r' && next == '\n')
}

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\t'
}

func isASCIIDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isSpecial(c rune) bool {
	_, ok := punctuation(c)
	return ok
}

func isWordChar(c rune) bool {
	return !isWhitespace(c) && c != '\n' && c != '\r' && !isSpecial(c) && !unicode.IsPunct(c)
}
