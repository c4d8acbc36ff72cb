// Package analysis turns a parsed Ast into a model.Recipe.
//
// The analyzer applies the [define], [duplicate] and [auto scale] special
// metadata keys, resolves ingredient references by case insensitive name,
// validates timer units, detects temperatures in step text and joins
// multiline steps. Like the parser it records every problem in a diag.Report
// and keeps going.
//
// References are stored as indexes: a reference has ReferencesTo set to its
// definition, and the definition lists every reference in ReferencedFrom.
package analysis
