// Package ast defines the syntax tree produced by the parser.
//
// The tree is line oriented: every meaningful source line is a Line, and a
// step line holds a sequence of Items that are either Text or components
// (ingredients, cookware and timers). All nodes keep the span of the source
// they were parsed from so later passes can point diagnostics at it.
//
// Text is not a plain string. Comments and escape sequences split it into
// fragments; String returns the trimmed logical text and Span its location.
package ast
