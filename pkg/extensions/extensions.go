// Package extensions defines the optional grammar features of the recipe
// language. Every parsing and analysis function receives an Extensions value
// explicitly; there is no global extension state.
package extensions

import (
	"fmt"
	"sort"
	"strings"
)

// Extensions is a bit-set of enabled language extensions.
type Extensions uint32

const (
	// MultilineSteps joins consecutive non-empty lines into one step.
	MultilineSteps Extensions = 1 << iota
	// IngredientModifiers enables the @&?+- component modifiers.
	IngredientModifiers
	// IngredientNote enables the (note) suffix on ingredients.
	IngredientNote
	// IngredientAlias enables the name|alias form.
	IngredientAlias
	// Sections enables "= section =" lines.
	Sections
	// AdvancedUnits enables space separated units and unit validation.
	AdvancedUnits
	// Modes enables the [define], [duplicate] and [auto scale] special keys.
	Modes
	// Temperature detects temperatures in step text.
	Temperature
	// TextSteps enables "> text" steps.
	TextSteps

	// IngredientAll enables modifiers, notes and aliases.
	IngredientAll = IngredientModifiers | IngredientNote | IngredientAlias

	// None disables every extension.
	None Extensions = 0
	// All enables every extension.
	All = MultilineSteps | IngredientAll | Sections | AdvancedUnits | Modes | Temperature | TextSteps
)

var names = map[string]Extensions{
	"multiline_steps":      MultilineSteps,
	"ingredient_modifiers": IngredientModifiers,
	"ingredient_note":      IngredientNote,
	"ingredient_alias":     IngredientAlias,
	"sections":             Sections,
	"advanced_units":       AdvancedUnits,
	"modes":                Modes,
	"temperature":          Temperature,
	"text_steps":           TextSteps,
}

// Default returns the extensions enabled when none are configured.
func Default() Extensions {
	return All
}

// Has reports whether every extension in other is enabled.
func (e Extensions) Has(other Extensions) bool {
	return e&other == other
}

// With returns e with other enabled.
func (e Extensions) With(other Extensions) Extensions {
	return e | other
}

// Without returns e with other disabled.
func (e Extensions) Without(other Extensions) Extensions {
	return e &^ other
}

// Names returns the sorted names of the enabled extensions.
func (e Extensions) Names() []string {
	out := make([]string, 0, len(names))
	for name, ext := range names {
		if e.Has(ext) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// String implements fmt.Stringer.
func (e Extensions) String() string {
	switch e {
	case None:
		return "none"
	case All:
		return "all"
	}
	return strings.Join(e.Names(), ",")
}

// SupportedNames returns the names accepted by Parse, sorted.
func SupportedNames() []string {
	return All.Names()
}

// Parse reads a comma separated list of extension names. The special values
// "all" and "none" are accepted as well, and names may use '-' or '_'.
func Parse(s string) (Extensions, error) {
	var out Extensions
	for _, part := range strings.Split(s, ",") {
		name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(part)), "-", "_")
		switch name {
		case "":
			continue
		case "all":
			out |= All
			continue
		case "none":
			continue
		case "ingredient_all":
			out |= IngredientAll
			continue
		}
		ext, ok := names[name]
		if !ok {
			return None, fmt.Errorf("unknown extension %q (supported: %s)", part, strings.Join(SupportedNames(), ", "))
		}
		out |= ext
	}
	return out, nil
}
