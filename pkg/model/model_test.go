package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/convert"
	"github.com/NVIDIA/cooklang/pkg/quantity"
)

func ptr[T any](v T) *T { return &v }

func fixed(n float64, unit string) *quantity.Quantity {
	q := quantity.New(quantity.NewFixed(quantity.Number(n)), unit)
	return &q
}

func TestIngredient_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		ing  Ingredient
		want string
	}{
		{"name", Ingredient{Name: "flour"}, "flour"},
		{"alias", Ingredient{Name: "flour", Alias: ptr("00 flour")}, "00 flour"},
		{"recipe path", Ingredient{Name: "./sauces/tomato", Modifiers: ast.ModRecipe}, "tomato"},
		{"recipe name", Ingredient{Name: "pizza dough", Modifiers: ast.ModRecipe}, "pizza dough"},
		{"path without recipe", Ingredient{Name: "a/b"}, "a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ing.DisplayName())
		})
	}
}

func TestIngredient_Flags(t *testing.T) {
	ing := Ingredient{Modifiers: ast.ModHidden | ast.ModOpt, ReferencesTo: ptr(0)}
	assert.True(t, ing.IsHidden())
	assert.True(t, ing.IsOptional())
	assert.False(t, ing.IsRecipe())
	assert.True(t, ing.IsReference())
}

func TestRecipe_TotalQuantity(t *testing.T) {
	c := convert.Default()
	r := &Recipe{Ingredients: []Ingredient{
		{Name: "flour", Quantity: fixed(100, "g"), ReferencedFrom: []int{1, 2}},
		{Name: "flour", Quantity: fixed(0.5, "kg"), ReferencesTo: ptr(0)},
		{Name: "flour", ReferencesTo: ptr(0)},
		{Name: "salt"},
		{Name: "oil", Quantity: fixed(1, "tbsp"), ReferencedFrom: []int{5}},
		{Name: "oil", Quantity: fixed(10, "g"), ReferencesTo: ptr(4)},
	}}

	assert.Len(t, r.AllQuantities(0), 2)

	total, err := r.TotalQuantity(0, c)
	require.NoError(t, err)
	require.NotNil(t, total)
	assert.Equal(t, "g", total.Unit)
	assert.InDelta(t, 600, total.Value.First().Start, 1e-9)

	total, err = r.TotalQuantity(3, c)
	require.NoError(t, err)
	assert.Nil(t, total)

	_, err = r.TotalQuantity(4, c)
	assert.Error(t, err)
}

func TestRecipe_IngredientList(t *testing.T) {
	c := convert.Default()
	r := &Recipe{Ingredients: []Ingredient{
		{Name: "flour", Quantity: fixed(100, "g"), ReferencedFrom: []int{3}},
		{Name: "Flour", Quantity: fixed(200, "g")},
		{Name: "salt", Modifiers: ast.ModHidden},
		{Name: "flour", Quantity: fixed(1, "kg"), ReferencesTo: ptr(0), Modifiers: ast.ModRef},
		{Name: "water", Alias: ptr("cold water"), Quantity: fixed(1, "l")},
		{Name: "pepper"},
	}}

	list := r.IngredientList(c)
	require.Len(t, list, 3)

	assert.Equal(t, "flour", list[0].Name)
	assert.Equal(t, []int{0, 1}, list[0].Indexes)
	require.Len(t, list[0].Quantities, 1)
	assert.Equal(t, "kg", list[0].Quantities[0].Unit)
	assert.InDelta(t, 1.3, list[0].Quantities[0].Value.First().Start, 1e-9)

	assert.Equal(t, "cold water", list[1].Name)
	assert.Equal(t, 4, list[1].Index)
	require.Len(t, list[1].Quantities, 1)
	assert.Equal(t, "l", list[1].Quantities[0].Unit)

	assert.Equal(t, "pepper", list[2].Name)
	assert.Empty(t, list[2].Quantities)
}

func TestRecipe_IngredientListKeepsIncompatible(t *testing.T) {
	r := &Recipe{Ingredients: []Ingredient{
		{Name: "sugar", Quantity: fixed(1, "cup"), ReferencedFrom: []int{1}},
		{Name: "sugar", Quantity: fixed(50, "g"), ReferencesTo: ptr(0)},
	}}
	list := r.IngredientList(convert.Default())
	require.Len(t, list, 1)
	assert.Len(t, list[0].Quantities, 2)
}

func TestRecipe_Convert(t *testing.T) {
	c := convert.Default()
	linear := quantity.New(quantity.NewLinear(quantity.Number(1)), "cup")
	r := &Recipe{
		Ingredients: []Ingredient{
			{Name: "milk", Quantity: &linear},
			{Name: "eggs", Quantity: fixed(2, "")},
			{Name: "salt", Quantity: fixed(1, "pinch")},
			{Name: "water"},
		},
		Timers: []Timer{{Quantity: *fixed(90, "min")}},
	}

	require.NoError(t, r.Convert(convert.Metric, c))

	milk := r.Ingredients[0].Quantity
	assert.Equal(t, "ml", milk.Unit)
	assert.Equal(t, quantity.Linear, milk.Value.Mode)
	assert.InDelta(t, 236.588, milk.Value.First().Start, 1e-3)
	assert.Equal(t, fixed(2, ""), r.Ingredients[1].Quantity)
	assert.Equal(t, fixed(1, "pinch"), r.Ingredients[2].Quantity)

	assert.Equal(t, "h", r.Timers[0].Quantity.Unit)
	assert.InDelta(t, 1.5, r.Timers[0].Quantity.Value.First().Start, 1e-9)
}

func TestItem_JSON(t *testing.T) {
	data, err := json.Marshal([]Item{TextItem("Add "), {Kind: ItemIngredient, Index: 0}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"text","value":"Add "},{"type":"ingredient","index":0}]`, string(data))
}

func TestSection_IsEmpty(t *testing.T) {
	assert.True(t, Section{}.IsEmpty())
	assert.False(t, Section{Name: ptr("x")}.IsEmpty())
	assert.False(t, Section{Steps: []Step{{}}}.IsEmpty())
}
