package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/convert"
	"github.com/NVIDIA/cooklang/pkg/metadata"
	"github.com/NVIDIA/cooklang/pkg/quantity"
)

// Recipe is the analyzed recipe. Steps refer to components by their index in
// Ingredients, Cookware, Timers and InlineQuantities.
type Recipe struct {
	Name             string              `json:"name,omitempty" yaml:"name,omitempty"`
	Metadata         metadata.Metadata   `json:"metadata" yaml:"metadata"`
	Sections         []Section           `json:"sections" yaml:"sections"`
	Ingredients      []Ingredient        `json:"ingredients" yaml:"ingredients"`
	Cookware         []Cookware          `json:"cookware" yaml:"cookware"`
	Timers           []Timer             `json:"timers" yaml:"timers"`
	InlineQuantities []quantity.Quantity `json:"inline_quantities" yaml:"inline_quantities"`
}

// Section groups steps under an optional name.
type Section struct {
	Name  *string `json:"name,omitempty" yaml:"name,omitempty"`
	Steps []Step  `json:"steps" yaml:"steps"`
}

// IsEmpty reports whether the section has no name and no steps.
func (s Section) IsEmpty() bool {
	return s.Name == nil && len(s.Steps) == 0
}

// Step is a paragraph of the recipe.
type Step struct {
	Items []Item `json:"items" yaml:"items"`
	// IsText steps are plain text, not instructions.
	IsText bool `json:"is_text" yaml:"is_text"`
}

// ItemKind is the kind of a step Item.
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemIngredient
	ItemCookware
	ItemTimer
	ItemInlineQuantity
)

var itemKindNames = [...]string{
	ItemText:           "text",
	ItemIngredient:     "ingredient",
	ItemCookware:       "cookware",
	ItemTimer:          "timer",
	ItemInlineQuantity: "inline_quantity",
}

func (k ItemKind) String() string {
	if k >= 0 && int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return fmt.Sprintf("ItemKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ItemKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ItemKind) UnmarshalText(text []byte) error {
	for i, n := range itemKindNames {
		if n == string(text) {
			*k = ItemKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown item kind %q", text)
}

// Item is text or a reference to a component by index.
type Item struct {
	Kind  ItemKind `json:"type" yaml:"type"`
	Text  string   `json:"value,omitempty" yaml:"value,omitempty"`
	Index int      `json:"index" yaml:"index"`
}

// TextItem returns a text Item.
func TextItem(s string) Item {
	return Item{Kind: ItemText, Text: s}
}

// MarshalJSON writes text items without index and components without value.
func (it Item) MarshalJSON() ([]byte, error) {
	if it.Kind == ItemText {
		return json.Marshal(struct {
			Kind  ItemKind `json:"type"`
			Value string   `json:"value"`
		}{it.Kind, it.Text})
	}
	return json.Marshal(struct {
		Kind  ItemKind `json:"type"`
		Index int      `json:"index"`
	}{it.Kind, it.Index})
}

// Ingredient is an analyzed ingredient. References point to their
// definition with ReferencesTo; the definition lists them in ReferencedFrom.
type Ingredient struct {
	Name           string             `json:"name" yaml:"name"`
	Alias          *string            `json:"alias,omitempty" yaml:"alias,omitempty"`
	Quantity       *quantity.Quantity `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Note           *string            `json:"note,omitempty" yaml:"note,omitempty"`
	Modifiers      ast.Modifiers      `json:"modifiers" yaml:"modifiers"`
	ReferencesTo   *int               `json:"references_to,omitempty" yaml:"references_to,omitempty"`
	ReferencedFrom []int              `json:"referenced_from,omitempty" yaml:"referenced_from,omitempty"`
	DefinedInStep  bool               `json:"defined_in_step" yaml:"defined_in_step"`
}

// DisplayName is the alias, or the name. For recipe references only the last
// path element of the name is used.
func (i Ingredient) DisplayName() string {
	if i.Alias != nil {
		return *i.Alias
	}
	if i.IsRecipe() {
		if idx := strings.LastIndexAny(i.Name, `/\`); idx >= 0 {
			return i.Name[idx+1:]
		}
	}
	return i.Name
}

// IsHidden reports the "-" modifier.
func (i Ingredient) IsHidden() bool { return i.Modifiers.Has(ast.ModHidden) }

// IsOptional reports the "?" modifier.
func (i Ingredient) IsOptional() bool { return i.Modifiers.Has(ast.ModOpt) }

// IsRecipe reports the "@" modifier.
func (i Ingredient) IsRecipe() bool { return i.Modifiers.Has(ast.ModRecipe) }

// IsReference reports whether the ingredient refers to an earlier one.
func (i Ingredient) IsReference() bool { return i.ReferencesTo != nil }

// Cookware is an analyzed cookware item.
type Cookware struct {
	Name     string                  `json:"name" yaml:"name"`
	Quantity *quantity.ScalableValue `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

// Timer is an analyzed timer.
type Timer struct {
	Name     *string           `json:"name,omitempty" yaml:"name,omitempty"`
	Quantity quantity.Quantity `json:"quantity" yaml:"quantity"`
}

// AllQuantities returns the quantity of ingredient i followed by the ones of
// every reference to it.
func (r *Recipe) AllQuantities(i int) []quantity.Quantity {
	var out []quantity.Quantity
	ing := r.Ingredients[i]
	if ing.Quantity != nil {
		out = append(out, *ing.Quantity)
	}
	for _, ref := range ing.ReferencedFrom {
		if q := r.Ingredients[ref].Quantity; q != nil {
			out = append(out, *q)
		}
	}
	return out
}

// TotalQuantity adds every quantity of ingredient i and fits the result. It
// returns nil when there is no quantity at all. Values must be fixed, as
// they are after scaling.
func (r *Recipe) TotalQuantity(i int, c *convert.Converter) (*quantity.Quantity, error) {
	all := r.AllQuantities(i)
	if len(all) == 0 {
		return nil, nil
	}
	total := all[0]
	for _, q := range all[1:] {
		sum, err := total.TryAdd(q, c)
		if err != nil {
			return nil, err
		}
		total = sum
	}
	total = total.Fit(c)
	return &total, nil
}

// Convert converts every quantity with a known unit to the best unit of
// system. Quantities without unit, with an unknown unit or with text values
// are left as they are. Conversion errors are joined.
func (r *Recipe) Convert(system convert.System, c *convert.Converter) error {
	var errs []error
	conv := func(q *quantity.Quantity) {
		if _, ok := q.UnitInfo(c); !ok || q.Value.ContainsText() {
			return
		}
		out, err := q.Convert(c, convert.ToBest(system))
		if err != nil {
			errs = append(errs, err)
			return
		}
		*q = out
	}
	for i := range r.Ingredients {
		if r.Ingredients[i].Quantity != nil {
			conv(r.Ingredients[i].Quantity)
		}
	}
	for i := range r.Timers {
		conv(&r.Timers[i].Quantity)
	}
	for i := range r.InlineQuantities {
		conv(&r.InlineQuantities[i])
	}
	return errors.Join(errs...)
}
