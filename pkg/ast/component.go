package ast

import (
	"strings"

	"github.com/NVIDIA/cooklang/pkg/quantity"
	"github.com/NVIDIA/cooklang/pkg/span"
)

// Modifiers is the set of ingredient modifiers.
type Modifiers uint8

const (
	// ModRecipe "@" marks an ingredient that is another recipe.
	ModRecipe Modifiers = 1 << iota
	// ModRef "&" references an earlier definition.
	ModRef
	// ModHidden "-" hides the ingredient from the list.
	ModHidden
	// ModOpt "?" marks an optional ingredient.
	ModOpt
	// ModNew "+" forces a new definition.
	ModNew
)

var modifierChars = []struct {
	mod Modifiers
	c   rune
}{
	{ModRecipe, '@'},
	{ModRef, '&'},
	{ModHidden, '-'},
	{ModOpt, '?'},
	{ModNew, '+'},
}

// ModifierFromRune maps a modifier character to its flag.
func ModifierFromRune(c rune) (Modifiers, bool) {
	for _, m := range modifierChars {
		if m.c == c {
			return m.mod, true
		}
	}
	return 0, false
}

// Has reports whether all of flags are set.
func (m Modifiers) Has(flags Modifiers) bool {
	return m&flags == flags
}

// Any reports whether at least one of flags is set.
func (m Modifiers) Any(flags Modifiers) bool {
	return m&flags != 0
}

// IsEmpty reports whether no modifier is set.
func (m Modifiers) IsEmpty() bool {
	return m == 0
}

// String returns the modifier characters in canonical order.
func (m Modifiers) String() string {
	var sb strings.Builder
	for _, mc := range modifierChars {
		if m.Has(mc.mod) {
			sb.WriteRune(mc.c)
		}
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler.
func (m Modifiers) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// QuantityValue is one value, optionally marked with "*", or many values
// separated by "|".
type QuantityValue struct {
	Values    []span.Located[quantity.Value] `json:"values"`
	AutoScale *span.Span                     `json:"auto_scale,omitempty"`
}

// IsMany reports whether the value was written as "a|b|...".
func (v QuantityValue) IsMany() bool {
	return len(v.Values) > 1
}

// Span covers every value and the auto scale marker.
func (v QuantityValue) Span() span.Span {
	if len(v.Values) == 0 {
		return span.Span{}
	}
	s := v.Values[0].Span.Join(v.Values[len(v.Values)-1].Span)
	if v.AutoScale != nil {
		s = s.Join(*v.AutoScale)
	}
	return s
}

// Plain returns the values without their spans.
func (v QuantityValue) Plain() []quantity.Value {
	out := make([]quantity.Value, len(v.Values))
	for i, l := range v.Values {
		out[i] = l.Value
	}
	return out
}

// Quantity is the content of a component's braces.
type Quantity struct {
	Value         QuantityValue `json:"value"`
	UnitSeparator *span.Span    `json:"unit_separator,omitempty"`
	Unit          *Text         `json:"unit,omitempty"`
	// Span is the region between the braces.
	Span span.Span `json:"span"`
}

// Component is an Ingredient, a Cookware or a Timer.
type Component interface {
	isComponent()
	// Kind names the component.
	Kind() string
}

// Ingredient is "@[mods]name[|alias]{quantity}(note)".
type Ingredient struct {
	Modifiers span.Located[Modifiers] `json:"modifiers"`
	Name      Text                    `json:"name"`
	Alias     *Text                   `json:"alias,omitempty"`
	Quantity  *Quantity               `json:"quantity,omitempty"`
	Note      *Text                   `json:"note,omitempty"`
}

// Cookware is "#name{quantity}". It cannot have a unit.
type Cookware struct {
	Name     Text           `json:"name"`
	Quantity *QuantityValue `json:"quantity,omitempty"`
}

// Timer is "~name{quantity}". The quantity must have a unit.
type Timer struct {
	Name     *Text    `json:"name,omitempty"`
	Quantity Quantity `json:"quantity"`
}

func (*Ingredient) isComponent() {}
func (*Cookware) isComponent()   {}
func (*Timer) isComponent()      {}

// Kind implements Component.
func (*Ingredient) Kind() string { return "ingredient" }

// Kind implements Component.
func (*Cookware) Kind() string { return "cookware" }

// Kind implements Component.
func (*Timer) Kind() string { return "timer" }
