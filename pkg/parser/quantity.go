package parser

import (
	"strconv"

	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/diag"
	"github.com/NVIDIA/cooklang/pkg/extensions"
	"github.com/NVIDIA/cooklang/pkg/lexer"
	"github.com/NVIDIA/cooklang/pkg/quantity"
	"github.com/NVIDIA/cooklang/pkg/span"
)

// parseQuantity parses the non empty tokens between a component's braces.
func parseQuantity(parent *lineParser, tokens []lexer.Token) ast.Quantity {
	p := newLineParser(parent.src, tokens[0].Span.Start, tokens, parent.ext, parent.report)
	whole := tokensSpan(tokens)

	if p.has(extensions.AdvancedUnits) && !containsKind(tokens, lexer.Or, lexer.Star, lexer.Percent) {
		if q, ok := attempt(p, spaceSeparatedUnit); ok {
			q.Span = whole
			return q
		}
	}

	value := manyValues(p)
	out := ast.Quantity{Span: whole}

	switch p.peek() {
	case lexer.Percent:
		sep := p.bump()
		out.UnitSeparator = &sep.Span
		unitTokens := p.consumeRest()
		if !containsOther(unitTokens, lexer.Whitespace, lexer.BlockComment) {
			at := span.Pos(sep.Span.End)
			if len(unitTokens) > 0 {
				at = span.New(sep.Span.Start, unitTokens[len(unitTokens)-1].Span.End)
			}
			p.error(partInvalid(CodeEmptyUnit, "quantity", "unit", "is empty",
				diag.At(sep.Span, "remove this"), diag.At(at, "or add unit here")))
		} else {
			unit := p.text(sep.Span.End, unitTokens)
			out.Unit = &unit
		}
	case lexer.Eof:
	default:
		p.consumeRest()
		text := p.text(tokens[0].Span.Start, tokens)
		value = ast.QuantityValue{Values: []span.Located[quantity.Value]{
			span.Locate(quantity.Text(text.String()), text.Span()),
		}}
	}

	out.Value = value
	return out
}

// spaceSeparatedUnit parses "<number> <unit>".
func spaceSeparatedUnit(p *lineParser) (ast.Quantity, bool) {
	start := p.offset()
	v, ok := numericValue(p)
	if !ok {
		return ast.Quantity{}, false
	}
	end := p.offset()
	if len(p.wsComments()) == 0 {
		return ast.Quantity{}, false
	}
	unitTokens := p.consumeRest()
	if len(unitTokens) == 0 {
		return ast.Quantity{}, false
	}
	unit := p.text(unitTokens[0].Span.Start, unitTokens)
	return ast.Quantity{
		Value: ast.QuantityValue{Values: []span.Located[quantity.Value]{span.Locate(v, span.New(start, end))}},
		Unit:  &unit,
	}, true
}

func manyValues(p *lineParser) ast.QuantityValue {
	var out ast.QuantityValue
	for {
		out.Values = append(out.Values, parseValue(p))
		if p.peek() == lexer.Or {
			p.bump()
			continue
		}
		if p.peek() == lexer.Star {
			tok := p.bump()
			out.AutoScale = &tok.Span
		}
		break
	}

	if out.IsMany() && out.AutoScale != nil {
		p.error(partInvalid(CodeInvalidQuantity, "quantity", "value",
			"auto scale is not compatible with multiple values",
			diag.At(*out.AutoScale, "remove this")))
	}
	return out
}

func parseValue(p *lineParser) span.Located[quantity.Value] {
	start := p.offset()
	v, ok := attempt(p, numericValue)
	if !ok {
		offset := p.offset()
		tokens := p.consumeWhile(func(k lexer.TokenKind) bool {
			return k != lexer.Or && k != lexer.Star && k != lexer.Percent
		})
		text := p.text(offset, tokens)
		if text.IsEmpty() {
			p.error(partInvalid(CodeEmptyTextValue, "quantity", "value", "is empty",
				diag.At(text.Span(), "empty value here")))
		}
		v = quantity.Text(text.String())
	}
	p.wsComments()
	return span.Locate(v, span.New(start, p.offset()))
}

func numericValue(p *lineParser) (quantity.Value, bool) {
	p.wsComments()
	switch p.peek() {
	case lexer.Int:
		if f, ok := attempt(p, mixedNumber); ok {
			return quantity.Number(f), true
		}
		if f, ok := attempt(p, fraction); ok {
			return quantity.Number(f), true
		}
		if r, ok := attempt(p, numberRange); ok {
			return r, true
		}
		f, _ := integer(p)
		return quantity.Number(f), true
	case lexer.Float:
		if r, ok := attempt(p, numberRange); ok {
			return r, true
		}
		f, _ := float(p)
		return quantity.Number(f), true
	case lexer.Word:
		if r, ok := attempt(p, numberRange); ok {
			return r, true
		}
		if f, ok := attempt(p, vulgar); ok {
			return quantity.Number(f), true
		}
	}
	return quantity.Value{}, false
}

// mixedNumber is "1 1/2", "1 ½" or "1½".
func mixedNumber(p *lineParser) (float64, bool) {
	a, ok := integer(p)
	if !ok {
		return 0, false
	}
	if f, ok := attempt(p, vulgar); ok {
		return a + f, true
	}
	p.wsComments()
	if f, ok := attempt(p, vulgar); ok {
		return a + f, true
	}
	f, ok := fraction(p)
	if !ok {
		return 0, false
	}
	return a + f, true
}

func fraction(p *lineParser) (float64, bool) {
	a, ok := integer(p)
	if !ok {
		return 0, false
	}
	p.wsComments()
	if _, ok := p.consume(lexer.Slash); !ok {
		return 0, false
	}
	p.wsComments()
	startB := p.offset()
	b, ok := integer(p)
	if !ok {
		return 0, false
	}
	if b == 0 {
		p.error(diag.NewError(CodeDivisionByZero, "Division by zero",
			diag.At(span.New(startB, p.offset()))).
			WithHelp("Change this please, we don't want an infinite amount of anything"))
		return 1, true
	}
	return a / b, true
}

func numberRange(p *lineParser) (quantity.Value, bool) {
	start, ok := number(p)
	if !ok {
		return quantity.Value{}, false
	}
	p.wsComments()
	if _, ok := p.consume(lexer.Minus); !ok {
		return quantity.Value{}, false
	}
	p.wsComments()
	end, ok := number(p)
	if !ok {
		return quantity.Value{}, false
	}
	return quantity.Range(start, end), true
}

func number(p *lineParser) (float64, bool) {
	switch p.peek() {
	case lexer.Int:
		return integer(p)
	case lexer.Float:
		return float(p)
	case lexer.Word:
		return vulgar(p)
	}
	return 0, false
}

func integer(p *lineParser) (float64, bool) {
	tok, ok := p.consume(lexer.Int)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(p.str(tok), 10, 32)
	if err != nil {
		p.error(diag.NewError(CodeParseInt, "Error parsing integer number", diag.At(tok.Span)).
			WithNote("%v", err))
		return 0, true
	}
	return float64(n), true
}

func float(p *lineParser) (float64, bool) {
	tok, ok := p.consume(lexer.Float)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(p.str(tok), 64)
	if err != nil {
		p.error(diag.NewError(CodeParseFloat, "Error parsing decimal number", diag.At(tok.Span)).
			WithNote("%v", err))
		return 0, true
	}
	return f, true
}

var vulgarFractions = map[string]float64{
	"½": 1.0 / 2, "⅓": 1.0 / 3, "⅔": 2.0 / 3,
	"¼": 1.0 / 4, "¾": 3.0 / 4,
	"⅕": 1.0 / 5, "⅖": 2.0 / 5, "⅗": 3.0 / 5, "⅘": 4.0 / 5,
	"⅙": 1.0 / 6, "⅚": 5.0 / 6, "⅐": 1.0 / 7,
	"⅛": 1.0 / 8, "⅜": 3.0 / 8, "⅝": 5.0 / 8, "⅞": 7.0 / 8,
	"⅑": 1.0 / 9, "⅒": 1.0 / 10,
}

func vulgar(p *lineParser) (float64, bool) {
	if p.peek() != lexer.Word {
		return 0, false
	}
	f, ok := vulgarFractions[p.str(p.tokens[p.cur])]
	if !ok {
		return 0, false
	}
	p.bump()
	return f, true
}

// containsOther reports whether any token is not of the given kinds.
func containsOther(tokens []lexer.Token, kinds ...lexer.TokenKind) bool {
	for _, t := range tokens {
		if !t.Is(kinds...) {
			return true
		}
	}
	return false
}
