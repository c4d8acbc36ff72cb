// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scale

import (
	"fmt"
	"slices"

	"github.com/NVIDIA/cooklang/pkg/convert"
	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
	"github.com/NVIDIA/cooklang/pkg/model"
	"github.com/NVIDIA/cooklang/pkg/quantity"
)

// Data records how each component was scaled. The outcome slices are
// aligned with the ingredients, cookware and timers of the recipe.
type Data struct {
	Target      Target    `json:"-" yaml:"-"`
	Servings    int       `json:"servings" yaml:"servings"`
	Ingredients []Outcome `json:"ingredients" yaml:"ingredients"`
	Cookware    []Outcome `json:"cookware" yaml:"cookware"`
	Timers      []Outcome `json:"timers" yaml:"timers"`
}

// Recipe is a recipe with every value resolved to a fixed value. Scaling is
// nil when the recipe was scaled to its default servings.
type Recipe struct {
	model.Recipe `yaml:",inline"`
	Scaling      *Data `json:"scaling,omitempty" yaml:"scaling,omitempty"`
}

// BaseServings is the first declared serving count, or 1.
func BaseServings(r *model.Recipe) int {
	if len(r.Metadata.Servings) > 0 {
		return r.Metadata.Servings[0]
	}
	return 1
}

// ScaleTo scales r to target servings.
func ScaleTo(r *model.Recipe, servings int, c *convert.Converter) *Recipe {
	return Scale(r, NewTarget(BaseServings(r), servings, r.Metadata.Servings), c)
}

// Scale scales a copy of r. Targeting the base serving count is the same as
// DefaultScale. Each component is scaled on its own: an error in
// one is recorded in its outcome and does not stop the others.
func Scale(r *model.Recipe, t Target, c *convert.Converter) *Recipe {
	if t.IsIdentity() {
		return DefaultScale(r)
	}

	out := clone(r)
	data := &Data{
		Target:      t,
		Servings:    t.TargetServings(),
		Ingredients: make([]Outcome, len(out.Ingredients)),
		Cookware:    make([]Outcome, len(out.Cookware)),
		Timers:      make([]Outcome, len(out.Timers)),
	}

	for i := range out.Ingredients {
		ing := &out.Ingredients[i]
		if ing.Quantity == nil {
			data.Ingredients[i] = Outcome{Kind: NoQuantity}
			continue
		}
		v, o := scaleValue(ing.Quantity.Value, t)
		ing.Quantity.Value = v
		if o.Kind == Scaled {
			*ing.Quantity = ing.Quantity.Fit(c)
		}
		data.Ingredients[i] = o
	}
	for i := range out.Cookware {
		cw := &out.Cookware[i]
		if cw.Quantity == nil {
			data.Cookware[i] = Outcome{Kind: NoQuantity}
			continue
		}
		v, o := scaleValue(*cw.Quantity, t)
		*cw.Quantity = v
		data.Cookware[i] = o
	}
	for i := range out.Timers {
		tm := &out.Timers[i]
		v, o := scaleValue(tm.Quantity.Value, t)
		tm.Quantity.Value = v
		data.Timers[i] = o
	}

	return &Recipe{Recipe: out, Scaling: data}
}

// DefaultScale resolves every value for the declared servings without
// scaling: linear values become fixed and "a|b|c" values take their first
// entry.
func DefaultScale(r *model.Recipe) *Recipe {
	out := clone(r)
	for i := range out.Ingredients {
		if q := out.Ingredients[i].Quantity; q != nil {
			q.Value = defaultValue(q.Value)
		}
	}
	for i := range out.Cookware {
		if q := out.Cookware[i].Quantity; q != nil {
			*q = defaultValue(*q)
		}
	}
	for i := range out.Timers {
		out.Timers[i].Quantity.Value = defaultValue(out.Timers[i].Quantity.Value)
	}
	return &Recipe{Recipe: out}
}

func defaultValue(v quantity.ScalableValue) quantity.ScalableValue {
	return quantity.NewFixed(v.First())
}

func scaleValue(v quantity.ScalableValue, t Target) (quantity.ScalableValue, Outcome) {
	switch v.Mode {
	case quantity.Linear:
		scaled, err := v.First().Scale(t.Factor())
		if err != nil {
			return v, Outcome{Kind: Error, Err: err}
		}
		return quantity.NewFixed(scaled), Outcome{Kind: Scaled}
	case quantity.ByServings:
		i, ok := t.Index()
		if !ok {
			return v, Outcome{Kind: Error, Err: cerrors.NewWithContext(cerrors.ErrCodeNotScalable,
				"tried to scale a value linearly when it has the scaling defined",
				map[string]any{"value": v.String(), "servings": t.TargetServings()})}
		}
		if i >= len(v.Values) {
			return v, Outcome{Kind: Error, Err: cerrors.NewWithContext(cerrors.ErrCodeNotScalable,
				fmt.Sprintf("value not defined for target servings %d", t.TargetServings()),
				map[string]any{"value": v.String(), "index": i})}
		}
		return quantity.NewFixed(v.Values[i]), Outcome{Kind: Scaled}
	}
	return v, Outcome{Kind: Fixed}
}

// clone copies r deeply enough that scaling the copy leaves r untouched.
func clone(r *model.Recipe) model.Recipe {
	out := *r
	out.Ingredients = slices.Clone(r.Ingredients)
	for i := range out.Ingredients {
		if q := out.Ingredients[i].Quantity; q != nil {
			cp := cloneQuantity(*q)
			out.Ingredients[i].Quantity = &cp
		}
	}
	out.Cookware = slices.Clone(r.Cookware)
	for i := range out.Cookware {
		if v := out.Cookware[i].Quantity; v != nil {
			cp := cloneValue(*v)
			out.Cookware[i].Quantity = &cp
		}
	}
	out.Timers = slices.Clone(r.Timers)
	for i := range out.Timers {
		out.Timers[i].Quantity = cloneQuantity(out.Timers[i].Quantity)
	}
	return out
}

func cloneQuantity(q quantity.Quantity) quantity.Quantity {
	q.Value = cloneValue(q.Value)
	return q
}

func cloneValue(v quantity.ScalableValue) quantity.ScalableValue {
	v.Values = slices.Clone(v.Values)
	return v
}
