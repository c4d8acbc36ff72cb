package parser

import (
	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/lexer"
)

func isEq(k lexer.TokenKind) bool { return k == lexer.Eq }

// section parses "== name ==". Any token after the closing signs makes the
// line a regular step.
func section(p *lineParser) (*ast.Section, bool) {
	if _, ok := p.consume(lexer.Eq); !ok {
		return nil, false
	}
	p.consumeWhile(isEq)
	namePos := p.offset()
	name := p.text(namePos, p.consumeWhile(func(k lexer.TokenKind) bool { return k != lexer.Eq }))
	p.consumeWhile(isEq)

	if len(p.rest()) > 0 {
		return nil, false
	}
	if name.IsEmpty() {
		return &ast.Section{}, true
	}
	return &ast.Section{Name: &name}, true
}
