package model

import (
	"golang.org/x/text/cases"

	"github.com/NVIDIA/cooklang/pkg/convert"
	"github.com/NVIDIA/cooklang/pkg/quantity"
)

var folder = cases.Fold()

// FoldName is the key under which ingredient names are compared.
func FoldName(name string) string {
	return folder.String(name)
}

// ListEntry is one line of an ingredient list.
type ListEntry struct {
	// Index of the first definition with this name.
	Index   int    `json:"index" yaml:"index"`
	Name    string `json:"name" yaml:"name"`
	Indexes []int  `json:"indexes" yaml:"indexes"`
	// Quantities are the merged quantities, fitted to their best unit.
	Quantities []quantity.Quantity `json:"quantities,omitempty" yaml:"quantities,omitempty"`
}

// IngredientList groups the visible definitions by display name, ignoring
// case, and merges their quantities and the ones of their references.
// Quantities that cannot be added stay separate in the group.
func (r *Recipe) IngredientList(c *convert.Converter) []ListEntry {
	var (
		out    []ListEntry
		groups []quantity.Group
	)
	pos := map[string]int{}
	for i, ing := range r.Ingredients {
		if ing.IsReference() || ing.IsHidden() {
			continue
		}
		key := FoldName(ing.DisplayName())
		at, ok := pos[key]
		if !ok {
			at = len(out)
			pos[key] = at
			out = append(out, ListEntry{Index: i, Name: ing.DisplayName()})
			groups = append(groups, quantity.Group{})
		}
		out[at].Indexes = append(out[at].Indexes, i)
		for _, q := range r.AllQuantities(i) {
			groups[at].Add(q, c)
		}
	}
	for i := range out {
		groups[i].Fit(c)
		out[i].Quantities = groups[i].Quantities()
	}
	return out
}
