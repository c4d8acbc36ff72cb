// Package span provides byte offset ranges into recipe source text.
//
// Every token, AST node and diagnostic carries a Span so errors can be rendered
// against the original input. Located wraps any value with the span it was
// parsed from.
package span
