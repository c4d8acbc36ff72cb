// Package diag provides span-tagged diagnostics shared by the parser and the
// analyzer.
//
// Passes never stop at the first problem. They record every error and warning
// in a Report and return a PassResult that may still carry recovered output:
//
//	res := parser.Parse(src, extensions.All)
//	ast, warnings, err := res.IntoResult()
//	if err != nil {
//		res.Report.Write(os.Stderr, "recipe.cook", src, diag.RenderOptions{Color: true})
//	}
//
// Every Diagnostic has a stable machine readable Code, a message, optional
// help and note text and one or more labelled spans.
package diag
