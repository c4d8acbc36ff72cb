package analysis

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/diag"
	"github.com/NVIDIA/cooklang/pkg/model"
	"github.com/NVIDIA/cooklang/pkg/quantity"
)

func (w *walker) step(s *ast.Step) model.Step {
	items := []model.Item{}
	for _, it := range s.Items {
		switch v := it.(type) {
		case ast.Text:
			if w.define == defineComponents {
				if strings.IndexFunc(v.Raw(), func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
					w.report.Warn(diag.NewWarning(CodeTextDefiningIngredients,
						"Ignoring text in define ingredients mode",
						diag.At(v.Span())).
						WithHelp("Write it as a regular step or remove the [define] mode"))
				}
				continue
			}
			items = w.text(items, v.Raw())
		case *ast.ComponentItem:
			if w.define == defineText {
				w.report.Warn(diag.NewWarning(CodeComponentInTextMode,
					"Component found in text mode",
					diag.At(v.Span, "this will be ignored")).
					WithHelp("Components are not parsed in text mode"))
				continue
			}
			switch c := v.Component.(type) {
			case *ast.Ingredient:
				items = append(items, model.Item{Kind: model.ItemIngredient, Index: w.ingredient(v, c)})
			case *ast.Cookware:
				items = append(items, model.Item{Kind: model.ItemCookware, Index: w.cookware(c)})
			case *ast.Timer:
				items = append(items, model.Item{Kind: model.ItemTimer, Index: w.timer(c)})
			}
		}
	}
	return model.Step{Items: items, IsText: s.IsText || w.define == defineText}
}

// text appends t, splitting out the temperatures it contains as inline
// quantities.
func (w *walker) text(items []model.Item, t string) []model.Item {
	if w.tempRe == nil {
		return append(items, model.TextItem(t))
	}
	rest := t
	for {
		m := w.tempRe.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		n, err := strconv.ParseFloat(strings.ReplaceAll(rest[m[2]:m[3]], ",", "."), 64)
		if err != nil {
			break
		}
		if before := rest[:m[0]]; before != "" {
			items = append(items, model.TextItem(before))
		}
		idx := len(w.content.InlineQuantities)
		w.content.InlineQuantities = append(w.content.InlineQuantities,
			quantity.New(quantity.NewFixed(quantity.Number(n)), rest[m[4]:m[5]]))
		items = append(items, model.Item{Kind: model.ItemInlineQuantity, Index: idx})
		rest = rest[m[1]:]
	}
	if rest != "" {
		items = append(items, model.TextItem(rest))
	}
	return items
}
