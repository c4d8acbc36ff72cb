package parser

import (
	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/diag"
	"github.com/NVIDIA/cooklang/pkg/extensions"
	"github.com/NVIDIA/cooklang/pkg/lexer"
	"github.com/NVIDIA/cooklang/pkg/quantity"
	"github.com/NVIDIA/cooklang/pkg/span"
)

func isSigil(k lexer.TokenKind) bool {
	return k == lexer.At || k == lexer.Hash || k == lexer.Tilde
}

func isModifier(k lexer.TokenKind) bool {
	switch k {
	case lexer.At, lexer.And, lexer.Question, lexer.Plus, lexer.Minus:
		return true
	}
	return false
}

// step parses the rest of the line as a step. With forceText, or when the
// line starts with ">" and text steps are enabled, the whole line is text.
func step(p *lineParser, forceText bool) *ast.Step {
	isText := false
	if p.has(extensions.TextSteps) {
		_, isText = p.consume(lexer.TextStep)
	}

	if isText || forceText {
		start := p.offset()
		return &ast.Step{IsText: isText, Items: []ast.Item{p.text(start, p.consumeRest())}}
	}

	var items []ast.Item
	for len(p.rest()) > 0 {
		start := p.offset()

		var (
			comp ast.Component
			ok   bool
		)
		switch p.peek() {
		case lexer.At:
			comp, ok = attempt(p, ingredient)
		case lexer.Hash:
			comp, ok = attempt(p, cookware)
		case lexer.Tilde:
			comp, ok = attempt(p, timer)
		}
		if ok {
			items = append(items, &ast.ComponentItem{Component: comp, Span: span.New(start, p.offset())})
			continue
		}

		from := p.cur
		p.bump()
		p.consumeWhile(func(k lexer.TokenKind) bool { return !isSigil(k) })
		items = append(items, p.text(start, p.tokens[from:p.cur]))
	}
	return &ast.Step{Items: items}
}

type componentBody struct {
	name []lexer.Token
	// open is the "{" token, when the long form was used.
	open *lexer.Token
	// quantity is nil when the braces are empty.
	quantity []lexer.Token
}

func compBody(p *lineParser) (componentBody, bool) {
	if b, ok := attempt(p, longBody); ok {
		return b, true
	}
	return attempt(p, func(p *lineParser) (componentBody, bool) {
		if _, ok := p.consume(lexer.Word); !ok {
			return componentBody{}, false
		}
		return componentBody{name: p.tokens[p.cur-1 : p.cur]}, true
	})
}

func longBody(p *lineParser) (componentBody, bool) {
	name, ok := p.until(func(k lexer.TokenKind) bool { return k == lexer.OpenBrace || isSigil(k) })
	if !ok {
		return componentBody{}, false
	}
	open, ok := p.consume(lexer.OpenBrace)
	if !ok {
		return componentBody{}, false
	}
	q, ok := p.until(func(k lexer.TokenKind) bool { return k == lexer.CloseBrace })
	if !ok {
		return componentBody{}, false
	}
	p.bump()

	b := componentBody{name: name, open: &open}
	for _, t := range q {
		if t.Kind != lexer.Whitespace && t.Kind != lexer.BlockComment {
			b.quantity = q
			break
		}
	}
	return b, true
}

func ingredient(p *lineParser) (ast.Component, bool) {
	if _, ok := p.consume(lexer.At); !ok {
		return nil, false
	}
	modPos := p.offset()
	modTokens := p.consumeWhile(isModifier)
	nameOffset := p.offset()
	body, ok := compBody(p)
	if !ok {
		return nil, false
	}

	var note *ast.Text
	if p.has(extensions.IngredientNote) {
		if n, ok := attempt(p, parseNote); ok {
			note = &n
		}
	}

	nameTokens := body.name
	var alias *ast.Text
	if sep := aliasSeparator(nameTokens); sep >= 0 && p.has(extensions.IngredientAlias) {
		alias = parseAlias(p, nameTokens[sep], nameTokens[sep+1:])
		nameTokens = nameTokens[:sep]
	}
	name := p.text(nameOffset, nameTokens)
	if name.IsEmpty() {
		p.error(partInvalid(CodeEmptyName, ingredientKind, "name", "is empty",
			diag.At(name.Span(), "add a name here")))
	}

	ing := &ast.Ingredient{
		Modifiers: parseModifiers(p, modPos, modTokens),
		Name:      name,
		Alias:     alias,
		Note:      note,
	}
	if body.quantity != nil {
		q := parseQuantity(p, body.quantity)
		ing.Quantity = &q
	}
	return ing, true
}

func parseNote(p *lineParser) (ast.Text, bool) {
	if _, ok := p.consume(lexer.OpenParen); !ok {
		return ast.Text{}, false
	}
	offset := p.offset()
	tokens, ok := p.until(func(k lexer.TokenKind) bool { return k == lexer.CloseParen })
	if !ok {
		return ast.Text{}, false
	}
	p.bump()
	return p.text(offset, tokens), true
}

func aliasSeparator(tokens []lexer.Token) int {
	for i, t := range tokens {
		if t.Kind == lexer.Or {
			return i
		}
	}
	return -1
}

func parseAlias(p *lineParser, sep lexer.Token, tokens []lexer.Token) *ast.Text {
	alias := p.text(sep.Span.End, tokens)
	switch {
	case containsKind(tokens, lexer.Or):
		bad := span.New(sep.Span.Start, tokens[len(tokens)-1].Span.End)
		p.error(partInvalid(CodeComponentPartInvalid, ingredientKind, "alias", "multiple aliases",
			diag.At(bad, "more than one alias defined here")).
			WithHelp("An ingredient can only have one alias. Remove the extra '|'."))
		return nil
	case alias.IsEmpty():
		p.error(partInvalid(CodeComponentPartInvalid, ingredientKind, "alias", "is empty",
			diag.At(sep.Span, "remove this"), diag.At(alias.Span(), "or add something here")))
		return nil
	}
	return &alias
}

func parseModifiers(p *lineParser, pos int, tokens []lexer.Token) span.Located[ast.Modifiers] {
	if len(tokens) == 0 {
		return span.Locate(ast.Modifiers(0), span.Pos(pos))
	}
	at := tokensSpan(tokens)
	if !p.has(extensions.IngredientModifiers) {
		p.error(extensionNotEnabled(at, "ingredient modifiers"))
		return span.Locate(ast.Modifiers(0), at)
	}

	var mods ast.Modifiers
	for _, t := range tokens {
		c := []rune(p.str(t))[0]
		m, _ := ast.ModifierFromRune(c)
		if mods.Has(m) {
			p.error(invalidModifiers(at, "duplicate modifier '"+string(c)+"'",
				"Modifier order does not matter, but duplicates are not allowed"))
			return span.Locate(ast.Modifiers(0), at)
		}
		mods |= m
	}

	if mods.Has(ast.ModRef) && mods.Any(ast.ModNew|ast.ModHidden|ast.ModOpt) {
		p.error(invalidModifiers(at, "unsupported combination with reference",
			"Reference ('&') modifier can only be combined with recipe ('@')"))
		mods = 0
	}
	return span.Locate(mods, at)
}

func cookware(p *lineParser) (ast.Component, bool) {
	if _, ok := p.consume(lexer.Hash); !ok {
		return nil, false
	}
	modTokens := p.consumeWhile(isModifier)
	nameOffset := p.offset()
	body, ok := compBody(p)
	if !ok {
		return nil, false
	}

	checkNotIngredient(p, cookwareKind, modTokens, body.name)

	name := p.text(nameOffset, body.name)
	if name.IsEmpty() {
		p.error(partInvalid(CodeEmptyName, cookwareKind, "name", "is empty",
			diag.At(name.Span(), "add a name here")))
	}

	cw := &ast.Cookware{Name: name}
	if body.quantity != nil {
		q := parseQuantity(p, body.quantity)
		if q.Unit != nil {
			remove := q.Unit.Span()
			if q.UnitSeparator != nil {
				remove = q.UnitSeparator.Join(remove)
			}
			p.error(partNotAllowed(cookwareKind, "unit in quantity", remove,
				"Cookware quantity can't have an unit."))
		}
		if as := q.Value.AutoScale; as != nil {
			p.error(partNotAllowed(cookwareKind, "auto scale marker", *as,
				"Cookware quantity can't be auto scaled."))
		}
		cw.Quantity = &q.Value
	}
	return cw, true
}

func timer(p *lineParser) (ast.Component, bool) {
	if _, ok := p.consume(lexer.Tilde); !ok {
		return nil, false
	}
	modTokens := p.consumeWhile(isModifier)
	nameOffset := p.offset()
	body, ok := compBody(p)
	if !ok {
		return nil, false
	}

	checkNotIngredient(p, timerKind, modTokens, body.name)

	name := p.text(nameOffset, body.name)
	tm := &ast.Timer{}
	if !name.IsEmpty() {
		tm.Name = &name
	}

	if body.quantity == nil {
		at := span.Pos(name.Span().End)
		if body.open != nil {
			at = span.Pos(body.open.Span.End)
		}
		p.error(partMissing(timerKind, "quantity", at))
		tm.Quantity = recoveredQuantity(at)
		return tm, true
	}

	q := parseQuantity(p, body.quantity)
	if as := q.Value.AutoScale; as != nil {
		p.error(partNotAllowed(timerKind, "auto scale marker", *as,
			"Timer quantity can't be auto scaled."))
	}
	if q.Unit == nil {
		p.error(partMissing(timerKind, "quantity unit", span.Pos(q.Value.Span().End)))
	}
	tm.Quantity = q
	return tm, true
}

// checkNotIngredient reports the parts only ingredients can have.
func checkNotIngredient(p *lineParser, container string, modTokens, nameTokens []lexer.Token) {
	if len(modTokens) > 0 {
		p.error(partNotAllowed(container, "modifiers", tokensSpan(modTokens),
			"Modifiers are only available in ingredients"))
	}
	if sep := aliasSeparator(nameTokens); sep >= 0 {
		remove := span.New(nameTokens[sep].Span.Start, nameTokens[len(nameTokens)-1].Span.End)
		p.error(partNotAllowed(container, "alias", remove,
			"Aliases are only available in ingredients"))
	}
	if !p.has(extensions.IngredientNote) || p.peek() != lexer.OpenParen {
		return
	}
	// The note is left in place so it becomes step text.
	rest := p.rest()
	for _, t := range rest[1:] {
		if t.Kind == lexer.CloseParen {
			p.warn(partIgnored(container, "note", span.New(rest[0].Span.Start, t.Span.End),
				"Notes are only available in ingredients"))
			return
		}
	}
}

func recoveredQuantity(at span.Span) ast.Quantity {
	return ast.Quantity{
		Value: ast.QuantityValue{Values: []span.Located[quantity.Value]{span.Locate(quantity.Number(1), at)}},
		Span:  at,
	}
}
