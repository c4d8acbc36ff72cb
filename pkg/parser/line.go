package parser

import (
	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/diag"
	"github.com/NVIDIA/cooklang/pkg/extensions"
	"github.com/NVIDIA/cooklang/pkg/lexer"
	"github.com/NVIDIA/cooklang/pkg/span"
)

// lineParser is a cursor over the tokens of a single line.
type lineParser struct {
	src    string
	base   int
	tokens []lexer.Token
	cur    int
	ext    extensions.Extensions
	report *diag.Report
}

func newLineParser(src string, base int, tokens []lexer.Token, ext extensions.Extensions, report *diag.Report) *lineParser {
	return &lineParser{src: src, base: base, tokens: tokens, ext: ext, report: report}
}

// attempt runs f and, if it fails, restores the cursor and drops the
// diagnostics f reported.
func attempt[T any](p *lineParser, f func(*lineParser) (T, bool)) (T, bool) {
	saved := p.cur
	errs, warns := len(p.report.Errors), len(p.report.Warnings)
	v, ok := f(p)
	if !ok {
		p.cur = saved
		p.report.Errors = p.report.Errors[:errs]
		p.report.Warnings = p.report.Warnings[:warns]
	}
	return v, ok
}

func (p *lineParser) has(ext extensions.Extensions) bool {
	return p.ext.Has(ext)
}

func (p *lineParser) error(d diag.Diagnostic) {
	p.report.AddError(d)
}

func (p *lineParser) warn(d diag.Diagnostic) {
	p.report.Warn(d)
}

func (p *lineParser) str(t lexer.Token) string {
	return t.Text(p.src)
}

func (p *lineParser) parsed() []lexer.Token {
	return p.tokens[:p.cur]
}

func (p *lineParser) rest() []lexer.Token {
	return p.tokens[p.cur:]
}

// offset is the end of the last consumed token.
func (p *lineParser) offset() int {
	if p.cur == 0 {
		return p.base
	}
	return p.tokens[p.cur-1].Span.End
}

func (p *lineParser) peek() lexer.TokenKind {
	if p.cur >= len(p.tokens) {
		return lexer.Eof
	}
	return p.tokens[p.cur].Kind
}

func (p *lineParser) bump() lexer.Token {
	t := p.tokens[p.cur]
	p.cur++
	return t
}

func (p *lineParser) consume(kind lexer.TokenKind) (lexer.Token, bool) {
	if p.peek() != kind {
		return lexer.Token{}, false
	}
	return p.bump(), true
}

func (p *lineParser) consumeRest() []lexer.Token {
	r := p.rest()
	p.cur = len(p.tokens)
	return r
}

// until consumes tokens up to the first one matching stop, which is left
// unconsumed. It fails if no token matches.
func (p *lineParser) until(stop func(lexer.TokenKind) bool) ([]lexer.Token, bool) {
	rest := p.rest()
	for i, t := range rest {
		if stop(t.Kind) {
			p.cur += i
			return rest[:i], true
		}
	}
	return nil, false
}

func (p *lineParser) consumeWhile(pred func(lexer.TokenKind) bool) []lexer.Token {
	rest := p.rest()
	i := 0
	for i < len(rest) && pred(rest[i].Kind) {
		i++
	}
	p.cur += i
	return rest[:i]
}

func (p *lineParser) wsComments() []lexer.Token {
	return p.consumeWhile(func(k lexer.TokenKind) bool {
		return k == lexer.Whitespace || k.IsComment()
	})
}

// text builds a Text from adjacent tokens. Comments become comment
// fragments and escaped characters lose their backslash.
func (p *lineParser) text(offset int, tokens []lexer.Token) ast.Text {
	t := ast.NewText(offset)
	if len(tokens) == 0 {
		return t
	}

	start := tokens[0].Span.Start
	end := start
	flush := func() {
		t.Push(ast.Fragment{Text: p.src[start:end], Offset: start})
	}
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.LineComment, lexer.BlockComment:
			flush()
			kind := ast.FragmentLineComment
			if tok.Kind == lexer.BlockComment {
				kind = ast.FragmentBlockComment
			}
			t.Push(ast.Fragment{Text: p.str(tok), Offset: tok.Span.Start, Kind: kind})
			start, end = tok.Span.End, tok.Span.End
		case lexer.Escaped:
			flush()
			start, end = tok.Span.Start+1, tok.Span.End
		default:
			end = tok.Span.End
		}
	}
	flush()
	return t
}

func tokensSpan(tokens []lexer.Token) span.Span {
	if len(tokens) == 0 {
		return span.Span{}
	}
	return span.New(tokens[0].Span.Start, tokens[len(tokens)-1].Span.End)
}

func containsKind(tokens []lexer.Token, kinds ...lexer.TokenKind) bool {
	for _, t := range tokens {
		if t.Is(kinds...) {
			return true
		}
	}
	return false
}
