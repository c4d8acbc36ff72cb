// Package parser turns recipe text into an ast.Ast.
//
// The parser works one line at a time. A line is either a metadata entry
// (">> key: value"), a section ("= name ="), or a step made of text and
// components:
//
//	@ingredient, @multi word ingredient{2%kg}(note), @name|alias{}
//	#cookware, #big pot{}
//	~{10%minutes}, ~named timer{1 hour}
//
// Inside a line it is recursive descent with backtracking: a rule that does
// not match restores the cursor and the line falls back to a simpler rule,
// ultimately plain text. Problems never stop the parse; they are reported as
// diagnostics and a placeholder value is used instead.
//
// Optional grammar is gated by extensions.Extensions, passed explicitly to
// Parse.
package parser
