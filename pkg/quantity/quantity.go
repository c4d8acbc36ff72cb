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

package quantity

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/cooklang/pkg/convert"
	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
)

// Quantity is a value with an optional unit. Unit is the text as written in
// the recipe; it is resolved against a Converter when needed.
type Quantity struct {
	Value ScalableValue `json:"value" yaml:"value"`
	Unit  string        `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// New returns a quantity. An empty unit means no unit.
func New(value ScalableValue, unit string) Quantity {
	return Quantity{Value: value, Unit: unit}
}

// HasUnit reports whether the quantity has a unit.
func (q Quantity) HasUnit() bool {
	return q.Unit != ""
}

// UnitInfo resolves the unit with c. It returns false for quantities with no
// unit or an unknown one.
func (q Quantity) UnitInfo(c *convert.Converter) (*convert.Unit, bool) {
	if !q.HasUnit() || c == nil {
		return nil, false
	}
	return c.Find(q.Unit)
}

func (q Quantity) String() string {
	if !q.HasUnit() {
		return q.Value.String()
	}
	return q.Value.String() + " " + q.Unit
}

// Compatible checks whether q and rhs can be added. When both units are
// known the common unit, the one of q, is returned. Two unknown units are
// compatible only if their text is the same.
func (q Quantity) Compatible(rhs Quantity, c *convert.Converter) (*convert.Unit, error) {
	switch {
	case !q.HasUnit() && !rhs.HasUnit():
		return nil, nil
	case !q.HasUnit() || !rhs.HasUnit():
		found := q.Unit + rhs.Unit
		return nil, cerrors.NewWithContext(cerrors.ErrCodeIncompatibleUnits,
			fmt.Sprintf("missing unit: one unit is '%s' but the other quantity is missing an unit", found),
			map[string]any{"reason": "missing_unit", "unit": found})
	}

	a, aok := q.UnitInfo(c)
	b, bok := rhs.UnitInfo(c)
	if aok && bok {
		if a.PhysicalQuantity != b.PhysicalQuantity {
			return nil, cerrors.NewWithContext(cerrors.ErrCodeIncompatibleUnits,
				fmt.Sprintf("different physical quantity: '%s' '%s'", a.PhysicalQuantity, b.PhysicalQuantity),
				map[string]any{"reason": "different_physical_quantities", "a": q.Unit, "b": rhs.Unit})
		}
		return a, nil
	}
	if q.Unit != rhs.Unit {
		return nil, cerrors.NewWithContext(cerrors.ErrCodeIncompatibleUnits,
			fmt.Sprintf("unknown units differ: '%s' '%s'", q.Unit, rhs.Unit),
			map[string]any{"reason": "unknown_different_units", "a": q.Unit, "b": rhs.Unit})
	}
	return nil, nil
}

// TryAdd sums two quantities with Fixed values. rhs is converted to the unit
// of q first and the result keeps the unit text of q.
func (q Quantity) TryAdd(rhs Quantity, c *convert.Converter) (Quantity, error) {
	common, err := q.Compatible(rhs, c)
	if err != nil {
		return Quantity{}, err
	}
	if common != nil {
		if rhs, err = rhs.Convert(c, convert.ToUnit(q.Unit)); err != nil {
			return Quantity{}, err
		}
	}
	sum, err := q.Value.TryAdd(rhs.Value)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: sum, Unit: q.Unit}, nil
}

// Convert converts every value of q to target. The unit of the result is
// the symbol of the selected unit.
func (q Quantity) Convert(c *convert.Converter, target convert.Target) (Quantity, error) {
	if !q.HasUnit() {
		return Quantity{}, cerrors.New(cerrors.ErrCodeInvalidValue, "cannot convert a quantity without unit")
	}
	if c == nil {
		return Quantity{}, cerrors.New(cerrors.ErrCodeUnknownUnit, "no converter available")
	}
	from, err := c.Get(q.Unit)
	if err != nil {
		return Quantity{}, err
	}
	if q.Value.ContainsText() {
		return Quantity{}, cerrors.NewWithContext(cerrors.ErrCodeInvalidValue,
			"cannot convert a text value", map[string]any{"value": q.Value.String()})
	}

	// Best unit selection for several values is decided by the first one so
	// that all of them end up in the same unit.
	first, to, err := c.ConvertFrom(toConvertValue(q.Value.First()), from, target)
	if err != nil {
		return Quantity{}, err
	}
	out := ScalableValue{Mode: q.Value.Mode, Values: make([]Value, len(q.Value.Values))}
	out.Values[0] = fromConvertValue(first)
	for i := 1; i < len(q.Value.Values); i++ {
		cv, _, err := c.ConvertFrom(toConvertValue(q.Value.Values[i]), from, convert.ToUnit(to.Symbol()))
		if err != nil {
			return Quantity{}, err
		}
		out.Values[i] = fromConvertValue(cv)
	}
	return Quantity{Value: out, Unit: to.Symbol()}, nil
}

// Fit converts q to the best unit of its own system. Quantities that cannot
// be converted are returned unchanged.
func (q Quantity) Fit(c *convert.Converter) Quantity {
	if _, ok := q.UnitInfo(c); !ok || q.Value.ContainsText() {
		return q
	}
	fitted, err := q.Convert(c, convert.ToSameSystem())
	if err != nil {
		return q
	}
	return fitted
}

func toConvertValue(v Value) convert.Value {
	if v.Kind == KindRange {
		return convert.Range(v.Start, v.End)
	}
	return convert.Number(v.Start)
}

func fromConvertValue(v convert.Value) Value {
	if v.IsRange {
		return Range(v.Start, v.End)
	}
	return Number(v.Start)
}

// Group accumulates quantities, adding together the compatible ones.
type Group struct {
	quantities []Quantity
}

// Add merges q into the first compatible quantity of the group, or appends
// it when there is none.
func (g *Group) Add(q Quantity, c *convert.Converter) {
	for i, existing := range g.quantities {
		if _, err := existing.Compatible(q, c); err != nil {
			continue
		}
		if sum, err := existing.TryAdd(q, c); err == nil {
			g.quantities[i] = sum
			return
		}
	}
	g.quantities = append(g.quantities, q)
}

// Fit applies Quantity.Fit to every quantity.
func (g *Group) Fit(c *convert.Converter) {
	for i, q := range g.quantities {
		g.quantities[i] = q.Fit(c)
	}
}

// Quantities returns the accumulated quantities.
func (g Group) Quantities() []Quantity {
	return g.quantities
}

// IsEmpty reports whether nothing was added.
func (g Group) IsEmpty() bool {
	return len(g.quantities) == 0
}

func (g Group) String() string {
	parts := make([]string, len(g.quantities))
	for i, q := range g.quantities {
		parts[i] = q.String()
	}
	return strings.Join(parts, ", ")
}
