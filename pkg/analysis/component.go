package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/convert"
	"github.com/NVIDIA/cooklang/pkg/diag"
	"github.com/NVIDIA/cooklang/pkg/extensions"
	"github.com/NVIDIA/cooklang/pkg/model"
	"github.com/NVIDIA/cooklang/pkg/quantity"
	"github.com/NVIDIA/cooklang/pkg/span"
)

func (w *walker) ingredient(item *ast.ComponentItem, in *ast.Ingredient) int {
	idx := len(w.content.Ingredients)
	mods := in.Modifiers.Value
	ing := model.Ingredient{
		Name:          in.Name.String(),
		Alias:         textPtr(in.Alias),
		Note:          textPtr(in.Note),
		Modifiers:     mods,
		DefinedInStep: w.define != defineComponents,
	}
	loc := ingredientLocation{component: item.Span}
	if in.Quantity != nil {
		q := w.quantity(in.Quantity, true)
		ing.Quantity = &q
		qs := in.Quantity.Span
		loc.quantity = &qs
	}

	if ing.IsRecipe() && w.checker != nil && !w.checker(ing.Name) {
		help := "Names must match exactly except for upper and lower case"
		if strings.ContainsAny(ing.Name, `/\`) {
			help = "This is treated as a path relative to the base directory"
		}
		w.report.Warn(diag.NewWarning(CodeRecipeNotFound,
			fmt.Sprintf("Referenced recipe not found: '%s'", ing.Name),
			diag.At(in.Name.Span())).WithHelp("%s", help))
	}

	target, found := w.definition(ing.Name)

	if w.duplicate == duplicateReference && mods.Has(ast.ModRef) {
		w.report.Warn(diag.NewWarning(CodeRedundantReferenceModifier,
			"Redundant reference (&) modifier",
			diag.At(in.Modifiers.Span, "remove this")).
			WithHelp("Every ingredient with the same name is already a reference in duplicate reference mode"))
	}

	asReference := (mods.Has(ast.ModRef) || w.define == defineSteps || (found && w.duplicate == duplicateReference)) &&
		!mods.Has(ast.ModNew)

	if asReference {
		ing.Modifiers |= ast.ModRef
		if found {
			w.checkReference(target, &ing, loc)
			ing.ReferencesTo = &target
			w.backRefs[target] = append(w.backRefs[target], idx)
		} else {
			d := diag.NewError(CodeReferenceNotFound,
				"Reference not found: "+ing.Name,
				diag.At(item.Span, "expected this to be a reference")).
				WithHelp("A non reference ingredient with the same name defined before cannot be found")
			if similar := w.similarDefinition(ing.Name); similar != "" {
				d = d.WithNote("Did you mean '%s'?", similar)
			}
			w.report.AddError(d)
		}
		if ing.Quantity != nil && ing.Quantity.Value.ContainsText() {
			w.report.Warn(diag.NewWarning(CodeTextValueInReference,
				"Text value in reference prevents calculating total amount",
				diag.At(*loc.quantity)).
				WithHelp("Use numeric values so they can be added"))
		}
	}

	w.content.Ingredients = append(w.content.Ingredients, ing)
	w.ingredientLocs = append(w.ingredientLocs, loc)
	return idx
}

func (w *walker) checkReference(target int, ing *model.Ingredient, loc ingredientLocation) {
	def := w.content.Ingredients[target]
	defLoc := w.ingredientLocs[target]
	if ing.Quantity == nil {
		return
	}

	if def.Quantity != nil && !def.DefinedInStep {
		w.report.AddError(diag.NewError(CodeConflictingReferenceQuantities,
			"Conflicting ingredient reference quantities: "+ing.Name,
			diag.At(defLoc.component, "defined outside step here"),
			diag.At(quantitySpan(loc), "referenced here")).
			WithHelp("If the ingredient is not defined in a step and has a quantity, its references cannot have a quantity"))
	}

	if !w.ext.Has(extensions.AdvancedUnits) {
		return
	}
	others := []int{target}
	others = append(others, w.backRefs[target]...)
	for _, o := range others {
		q := w.content.Ingredients[o].Quantity
		if q == nil {
			continue
		}
		if _, err := q.Compatible(*ing.Quantity, w.conv); err != nil {
			at := w.ingredientLocs[o].component
			if l := w.ingredientLocs[o].quantity; l != nil {
				at = *l
			}
			w.report.Warn(diag.NewWarning(CodeIncompatibleUnits,
				"Incompatible units in reference prevent calculating total amount",
				diag.At(at, "this one"), diag.At(quantitySpan(loc), "is incompatible with this")).
				WithHelp("The quantities are listed separately").
				WithNote("%s", err.Error()))
		}
	}
}

func quantitySpan(loc ingredientLocation) span.Span {
	if loc.quantity != nil {
		return *loc.quantity
	}
	return loc.component
}

// definition finds the last non reference ingredient named name, ignoring
// case.
func (w *walker) definition(name string) (int, bool) {
	key := model.FoldName(name)
	for i := len(w.content.Ingredients) - 1; i >= 0; i-- {
		ing := w.content.Ingredients[i]
		if !ing.Modifiers.Has(ast.ModRef) && model.FoldName(ing.Name) == key {
			return i, true
		}
	}
	return 0, false
}

func (w *walker) similarDefinition(name string) string {
	var names []string
	for _, ing := range w.content.Ingredients {
		if !ing.Modifiers.Has(ast.ModRef) {
			names = append(names, ing.Name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	if ranks := fuzzy.RankFindFold(name, names); len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", 3
	for _, n := range names {
		if d := fuzzy.LevenshteinDistance(model.FoldName(name), model.FoldName(n)); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

func (w *walker) cookware(c *ast.Cookware) int {
	cw := model.Cookware{Name: c.Name.String()}
	if c.Quantity != nil {
		v := w.value(*c.Quantity, false)
		cw.Quantity = &v
	}
	w.content.Cookware = append(w.content.Cookware, cw)
	return len(w.content.Cookware) - 1
}

func (w *walker) timer(t *ast.Timer) int {
	tm := model.Timer{Name: textPtr(t.Name), Quantity: w.quantity(&t.Quantity, false)}

	if w.ext.Has(extensions.AdvancedUnits) && t.Quantity.Unit != nil {
		unit := tm.Quantity.Unit
		at := t.Quantity.Unit.Span()
		if u, ok := w.conv.Find(unit); ok {
			if u.PhysicalQuantity != convert.Time {
				w.report.AddError(diag.NewError(CodeBadTimerUnit,
					fmt.Sprintf("Bad timer unit. Expecting time, got: %s", u.PhysicalQuantity),
					diag.At(at)).
					WithHelp("Timers must use a time unit like min or h"))
			}
		} else {
			d := diag.NewError(CodeUnknownTimerUnit,
				"Unknown timer unit: "+unit,
				diag.At(at)).
				WithHelp("With the ADVANCED_UNITS extensions, timers are required to have a time unit")
			if similar := w.conv.Similar(unit); similar != "" {
				d = d.WithNote("Did you mean '%s'?", similar)
			}
			w.report.AddError(d)
		}
	}

	w.content.Timers = append(w.content.Timers, tm)
	return len(w.content.Timers) - 1
}

func (w *walker) quantity(q *ast.Quantity, ingredient bool) quantity.Quantity {
	unit := ""
	if q.Unit != nil {
		unit = q.Unit.String()
	}
	return quantity.New(w.value(q.Value, ingredient), unit)
}

// value resolves the scaling mode. Ingredients scale linearly unless the
// [auto scale] key is false and the value is not marked with "*". Cookware
// and timers only scale when written as a list of values.
func (w *walker) value(v ast.QuantityValue, ingredient bool) quantity.ScalableValue {
	values := v.Plain()
	if v.IsMany() {
		w.checkMany(v)
		return quantity.NewByServings(values...)
	}

	if v.AutoScale != nil {
		if ingredient && w.autoScale == autoScaleOn {
			w.report.Warn(diag.NewWarning(CodeRedundantAutoScaleMarker,
				"Redundant auto scale marker",
				diag.At(*v.AutoScale, "remove this")).
				WithHelp("Be careful as every ingredient is already marked to auto scale"))
		}
		return quantity.NewLinear(values[0])
	}
	if ingredient && w.autoScale != autoScaleOff {
		return quantity.NewLinear(values[0])
	}
	return quantity.NewFixed(values[0])
}

func (w *walker) checkMany(v ast.QuantityValue) {
	servings := w.content.Metadata.Servings
	n := len(v.Values)
	switch {
	case servings == nil:
		w.report.AddError(diag.NewError(CodeScalableValueManyConflict,
			fmt.Sprintf("no servings defined but %d values in quantity", n),
			diag.At(v.Span())).
			WithHelp("Define the servings with '>> servings: 2|4' or use a single value"))
	case len(servings) != n:
		d := diag.NewError(CodeScalableValueManyConflict,
			fmt.Sprintf("%d servings defined but %d values in the quantity", len(servings), n))
		if w.servingsSpan != nil {
			d = d.WithLabel(diag.At(*w.servingsSpan, fmt.Sprintf("%d servings", len(servings))))
		}
		w.report.AddError(d.WithLabel(diag.At(v.Span(), fmt.Sprintf("%d values", n))))
	}
}

func textPtr(t *ast.Text) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
