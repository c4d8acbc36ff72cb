package analysis

import (
	"regexp"

	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/convert"
	"github.com/NVIDIA/cooklang/pkg/diag"
	"github.com/NVIDIA/cooklang/pkg/extensions"
	"github.com/NVIDIA/cooklang/pkg/model"
	"github.com/NVIDIA/cooklang/pkg/quantity"
	"github.com/NVIDIA/cooklang/pkg/span"
)

// RecipeRefChecker reports whether a recipe referenced with "@@name" exists.
type RecipeRefChecker func(name string) bool

// Options configures an analysis.
type Options struct {
	Extensions extensions.Extensions
	// Converter resolves units. The bundled converter is used when nil.
	Converter *convert.Converter
	// RecipeRefChecker is optional.
	RecipeRefChecker RecipeRefChecker
}

type defineMode int

const (
	defineAll defineMode = iota
	defineComponents
	defineSteps
	defineText
)

type duplicateMode int

const (
	duplicateNew duplicateMode = iota
	duplicateReference
)

type autoScale int

const (
	autoScaleUnset autoScale = iota
	autoScaleOn
	autoScaleOff
)

type ingredientLocation struct {
	component span.Span
	quantity  *span.Span
}

type walker struct {
	ext     extensions.Extensions
	conv    *convert.Converter
	checker RecipeRefChecker
	report  diag.Report

	content model.Recipe
	current model.Section

	define    defineMode
	duplicate duplicateMode
	autoScale autoScale

	continueLastStep bool
	servingsSpan     *span.Span
	tempRe           *regexp.Regexp

	ingredientLocs []ingredientLocation
	// backRefs collects the references to each definition. They are copied
	// into ReferencedFrom once the walk is done.
	backRefs map[int][]int
}

// Analyze walks the AST and builds the recipe. Like the parser it never
// stops at the first problem; the output is set even when there are errors.
func Analyze(a *ast.Ast, opts Options) diag.PassResult[model.Recipe] {
	w := &walker{
		ext:      opts.Extensions,
		conv:     opts.Converter,
		checker:  opts.RecipeRefChecker,
		backRefs: map[int][]int{},
	}
	if w.conv == nil {
		w.conv = convert.Default()
	}
	if w.ext.Has(extensions.Temperature) {
		if re, err := w.conv.TemperatureRegexp(); err == nil {
			w.tempRe = re
		}
	}

	w.lines(a.Lines)
	w.finish()
	return diag.Finish(&w.content, w.report)
}

func (w *walker) lines(lines []ast.Line) {
	for _, line := range lines {
		switch l := line.(type) {
		case *ast.Metadata:
			w.metadata(l)
		case *ast.Section:
			if !w.current.IsEmpty() {
				w.content.Sections = append(w.content.Sections, w.current)
			}
			w.current = model.Section{}
			if l.Name != nil {
				name := l.Name.String()
				w.current.Name = &name
			}
			w.continueLastStep = false
		case ast.SoftBreak:
			if w.ext.Has(extensions.MultilineSteps) {
				w.continueLastStep = true
			}
		case *ast.Step:
			// A step left empty, like a text step made only of components,
			// is still kept.
			step := w.step(l)
			if w.define != defineComponents {
				if n := len(w.current.Steps); w.continueLastStep && n > 0 {
					if len(step.Items) > 0 {
						last := &w.current.Steps[n-1]
						last.Items = append(last.Items, model.TextItem(" "))
						last.Items = append(last.Items, step.Items...)
					}
				} else {
					w.current.Steps = append(w.current.Steps, step)
				}
			}
			w.continueLastStep = false
		}
	}
}

func (w *walker) finish() {
	if !w.current.IsEmpty() {
		w.content.Sections = append(w.content.Sections, w.current)
	}
	for target, refs := range w.backRefs {
		w.content.Ingredients[target].ReferencedFrom = refs
	}

	if w.content.Sections == nil {
		w.content.Sections = []model.Section{}
	}
	if w.content.Ingredients == nil {
		w.content.Ingredients = []model.Ingredient{}
	}
	if w.content.Cookware == nil {
		w.content.Cookware = []model.Cookware{}
	}
	if w.content.InlineQuantities == nil {
		w.content.InlineQuantities = []quantity.Quantity{}
	}
	if w.content.Timers == nil {
		w.content.Timers = []model.Timer{}
	}
}
