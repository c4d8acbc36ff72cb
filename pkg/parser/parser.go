package parser

import (
	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/diag"
	"github.com/NVIDIA/cooklang/pkg/extensions"
	"github.com/NVIDIA/cooklang/pkg/lexer"
)

// Parse parses src into an Ast. It never stops at the first problem: the
// returned PassResult holds every error and warning found, and an Ast is
// always produced, even if invalid.
func Parse(src string, ext extensions.Extensions) diag.PassResult[ast.Ast] {
	var report diag.Report
	lines := newLineReader(src)
	tree := &ast.Ast{}

	lastLineEmpty := true
	for {
		tokens, start, ok := lines.next()
		if !ok {
			break
		}
		if isBlank(tokens) {
			lastLineEmpty = true
			continue
		}

		p := newLineParser(src, start, tokens, ext, &report)

		var line ast.Line
		switch p.peek() {
		case lexer.MetadataStart:
			if entry, ok := attempt(p, metadataEntry); ok {
				line = entry
			}
		case lexer.Eq:
			if ext.Has(extensions.Sections) {
				if sect, ok := attempt(p, section); ok {
					line = sect
				}
			}
		}

		if line == nil {
			prev, isStep := last(tree.Lines).(*ast.Step)
			if isStep && !lastLineEmpty && ext.Has(extensions.MultilineSteps) {
				cont := step(p, prev.IsText)
				cont.IsText = prev.IsText
				tree.Lines = append(tree.Lines, ast.SoftBreak{})
				line = cont
			} else {
				line = step(p, false)
			}
		}

		tree.Lines = append(tree.Lines, line)
		lastLineEmpty = false
	}

	return diag.Finish(tree, report)
}

func last(lines []ast.Line) ast.Line {
	if len(lines) == 0 {
		return nil
	}
	return lines[len(lines)-1]
}

func isBlank(tokens []lexer.Token) bool {
	for _, t := range tokens {
		if t.Kind != lexer.Whitespace && !t.Kind.IsComment() {
			return false
		}
	}
	return true
}

// lineReader splits the token stream in lines, terminators excluded.
type lineReader struct {
	lex    *lexer.Lexer
	offset int
	done   bool
	buf    []lexer.Token
}

func newLineReader(src string) *lineReader {
	return &lineReader{lex: lexer.New(src)}
}

// next returns the tokens of the next line and the offset where it starts.
// The returned slice is only valid until the following call.
func (r *lineReader) next() ([]lexer.Token, int, bool) {
	if r.done {
		return nil, 0, false
	}
	r.buf = r.buf[:0]
	start := r.offset
	for {
		tok := r.lex.Next()
		r.offset = tok.Span.End
		if tok.Kind == lexer.Eof {
			r.done = true
			return r.buf, start, true
		}
		if tok.Kind == lexer.Newline {
			return r.buf, start, true
		}
		r.buf = append(r.buf, tok)
	}
}
