package parser

import (
	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/diag"
	"github.com/NVIDIA/cooklang/pkg/lexer"
)

// metadataEntry parses ">> key: value". Without a colon the line is not
// metadata.
func metadataEntry(p *lineParser) (*ast.Metadata, bool) {
	if _, ok := p.consume(lexer.MetadataStart); !ok {
		return nil, false
	}
	keyPos := p.offset()
	keyTokens, ok := p.until(func(k lexer.TokenKind) bool { return k == lexer.Colon })
	if !ok {
		return nil, false
	}
	key := p.text(keyPos, keyTokens)
	p.bump()
	valuePos := p.offset()
	value := p.text(valuePos, p.consumeRest())

	switch {
	case key.IsEmpty():
		p.error(partInvalid(CodeEmptyMetadataKey, "metadata entry", "key", "is empty",
			diag.At(key.Span(), "this cannot be empty")))
	case value.IsEmpty():
		p.warn(diag.NewWarning(CodeEmptyMetadataValue,
			"Empty metadata value for key: "+key.String(), diag.At(key.Span())))
	}

	return &ast.Metadata{Key: key, Value: value}, true
}
