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

package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
	"github.com/NVIDIA/cooklang/pkg/serializer"
)

const massYAML = `
si:
  prefixes: {kilo: [kilo], hecto: [hecto], deca: [deca], deci: [deci], centi: [centi], milli: [milli]}
  symbol_prefixes: {kilo: [k], hecto: [h], deca: [da], deci: [d], centi: [c], milli: [m]}
quantity:
  - quantity: mass
    best:
      metric: [g, kg]
      imperial: [oz, lb]
    units:
      metric:
        - names: [gram, grams]
          symbols: [g]
          ratio: 1
          expand_si: true
      imperial:
        - names: [ounce]
          symbols: [oz]
          ratio: 28.349523125
        - names: [pound]
          symbols: [lb]
          ratio: 453.59237
`

// otherQuantities provides best units for every quantity but mass.
const otherQuantities = `
quantity:
  - quantity: volume
    best: [l]
    units: [{names: [litre], symbols: [l], ratio: 1}]
  - quantity: length
    best: [m]
    units: [{names: [metre], symbols: [m], ratio: 1}]
  - quantity: temperature
    best: [K]
    units: [{names: [kelvin], symbols: [K], ratio: 1}]
  - quantity: time
    best: [s]
    units: [{names: [second], symbols: [s], ratio: 1}]
`

func yamlDoc(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := ParseDocument([]byte(src), serializer.FormatYAML)
	require.NoError(t, err)
	return doc
}

func massConverter(t *testing.T, extra ...string) *Converter {
	t.Helper()
	docs := []*Document{yamlDoc(t, massYAML), yamlDoc(t, otherQuantities)}
	for _, e := range extra {
		docs = append(docs, yamlDoc(t, e))
	}
	c, err := New(docs...)
	require.NoError(t, err)
	return c
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NotNil(t, c)
	assert.Same(t, c, Default())
	assert.Equal(t, Metric, c.DefaultSystem())

	for _, key := range []string{"g", "kg", "gram", "kilogram", "ml", "millilitre", "tbsp", "cup", "°C", "F", "min", "h", "kgs", "mls", "dal", "cm"} {
		_, ok := c.Find(key)
		assert.True(t, ok, "unit %q should be known", key)
	}

	count := c.Count()
	assert.Equal(t, c.UnitCount(), count.All)
	assert.Greater(t, count.BySystem[Metric], 0)
	assert.Greater(t, count.BySystem[Imperial], 0)
	assert.Equal(t, 4, count.ByQuantity[Time])
}

func TestConvert_Identity(t *testing.T) {
	c := Default()
	for _, u := range c.Units() {
		for _, x := range []float64{0, 1, 2.5, -40, 1234.5678} {
			got, unit, err := c.ConvertFrom(Number(x), u, ToUnit(u.Symbol()))
			require.NoError(t, err)
			assert.Same(t, u, unit)
			assert.Equal(t, x, got.Start, "unit %s", u)
		}
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	c := Default()
	for _, q := range PhysicalQuantities() {
		units := c.QuantityUnits(q)
		for _, a := range units {
			for _, b := range units {
				for _, x := range []float64{1, 3.75, 250} {
					there, _, err := c.ConvertFrom(Number(x), a, ToUnit(b.Symbol()))
					require.NoError(t, err)
					back, _, err := c.ConvertFrom(there, b, ToUnit(a.Symbol()))
					require.NoError(t, err)
					assert.InEpsilon(t, x, back.Start, 1e-9, "%s -> %s -> %s", a, b, a)
				}
			}
		}
	}
}

func TestConvert_BestUnit(t *testing.T) {
	c := massConverter(t)

	tests := []struct {
		name  string
		value float64
		unit  string
		to    Target
		want  float64
		sym   string
	}{
		{"small stays grams", 500, "g", ToBest(Metric), 500, "g"},
		{"large becomes kilograms", 1500, "g", ToBest(Metric), 1.5, "kg"},
		{"below every threshold uses smallest", 0.5, "g", ToBest(Metric), 0.5, "g"},
		{"negative uses magnitude", -2000, "g", ToBest(Metric), -2, "kg"},
		{"same system", 2000, "g", ToSameSystem(), 2, "kg"},
		{"to imperial", 1000, "g", ToBest(Imperial), 2.2046226218, "lb"},
		{"imperial same system", 8, "oz", ToSameSystem(), 8, "oz"},
		{"explicit unit", 1, "kg", ToUnit("g"), 1000, "g"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unit, err := c.Convert(Number(tt.value), tt.unit, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.sym, unit.Symbol())
			assert.InDelta(t, tt.want, got.Start, 1e-6)
		})
	}
}

func TestConvert_Range(t *testing.T) {
	got, unit, err := Default().Convert(Range(1, 2), "kg", ToUnit("g"))
	require.NoError(t, err)
	assert.Equal(t, "g", unit.Symbol())
	assert.True(t, got.IsRange)
	assert.InDelta(t, 1000, got.Start, 1e-9)
	assert.InDelta(t, 2000, got.End, 1e-9)
}

func TestConvert_Temperature(t *testing.T) {
	got, unit, err := Default().Convert(Number(100), "°C", ToUnit("°F"))
	require.NoError(t, err)
	assert.Equal(t, "°F", unit.Symbol())
	assert.InDelta(t, 212, got.Start, 1e-9)

	got, _, err = Default().Convert(Number(0), "°C", ToUnit("K"))
	require.NoError(t, err)
	assert.InDelta(t, 273.15, got.Start, 1e-9)
}

func TestConvert_Errors(t *testing.T) {
	c := Default()

	_, _, err := c.Convert(Number(1), "kg", ToUnit("ml"))
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeIncompatibleUnits, cerrors.CodeOf(err))

	_, _, err = c.Convert(Number(1), "tbps", ToUnit("ml"))
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeUnknownUnit, cerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "did you mean")

	_, _, err = c.Convert(Number(1), "g", ToUnit("nope"))
	assert.Equal(t, cerrors.ErrCodeUnknownUnit, cerrors.CodeOf(err))
}

func TestConverter_IsBestUnit(t *testing.T) {
	c := Default()
	tests := map[string]bool{
		"kg":    true,
		"g":     true,
		"hg":    false,
		"tsp":   true,
		"fl oz": false,
		"K":     false,
		"min":   true,
	}
	for key, want := range tests {
		u, ok := c.Find(key)
		require.True(t, ok, key)
		assert.Equal(t, want, c.IsBestUnit(u), key)
	}
	assert.False(t, c.IsBestUnit(nil))
}

func TestConverter_TemperatureRegexp(t *testing.T) {
	re, err := Default().TemperatureRegexp()
	require.NoError(t, err)

	m := re.FindStringSubmatch("Preheat the oven to 180°C please")
	require.Len(t, m, 3)
	assert.Equal(t, "180", m[1])
	assert.Equal(t, "°C", m[2])

	m = re.FindStringSubmatch("bake at 350 F")
	require.Len(t, m, 3)
	assert.Equal(t, "F", m[2])

	assert.False(t, re.MatchString("add 2 Cups of flour"))
}

func TestParseTarget(t *testing.T) {
	assert.Equal(t, ToSameSystem(), ParseTarget("best"))
	assert.Equal(t, ToBest(Metric), ParseTarget("Metric"))
	assert.Equal(t, ToBest(Imperial), ParseTarget("imperial"))
	assert.Equal(t, ToUnit("kg"), ParseTarget(" kg "))
	assert.Equal(t, "kg", ParseTarget("kg").String())
}

func TestUnit_Format(t *testing.T) {
	u, ok := Default().Find("tbsp")
	require.True(t, ok)
	assert.Equal(t, "tbsp", u.String())
	assert.Equal(t, "tablespoon", u.Name())
	assert.Equal(t, "tablespoon", fmtPlus(u))
}

func fmtPlus(u *Unit) string {
	return sprintf("%+v", u)
}

func TestConvertFloat_SameUnit(t *testing.T) {
	u := &Unit{Ratio: 3, Difference: 1}
	assert.Equal(t, math.Pi, convertFloat(math.Pi, u, u))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in      string
		want    Value
		wantErr bool
	}{
		{"2", Number(2), false},
		{" 1.5 ", Number(1.5), false},
		{"-4", Number(-4), false},
		{"1/2", Number(0.5), false},
		{"1-2", Range(1, 2), false},
		{"1/2-3/4", Range(0.5, 0.75), false},
		{"", Value{}, true},
		{"abc", Value{}, true},
		{"1/0", Value{}, true},
		{"1-", Value{}, true},
		{"inf", Value{}, true},
		{"NaN", Value{}, true},
		{"inf/1", Value{}, true},
		{"nan/2", Value{}, true},
		{"3/Inf", Value{}, true},
		{"1e308/0.5", Value{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeInvalidValue))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConverter_List(t *testing.T) {
	c := Default()

	all, err := c.List(Filter{})
	require.NoError(t, err)
	assert.Len(t, all, c.UnitCount())

	metricMass, err := c.List(Filter{Quantity: "Mass", System: "metric"})
	require.NoError(t, err)
	require.NotEmpty(t, metricMass)
	var best []string
	for _, u := range metricMass {
		assert.Equal(t, "mass", u.Quantity)
		assert.Equal(t, "metric", u.System)
		if u.Best {
			best = append(best, u.Name)
		}
	}
	assert.Contains(t, best, "gram")

	_, err = c.List(Filter{Quantity: "speed"})
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeInvalidRequest))
	_, err = c.List(Filter{System: "nautical"})
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeInvalidRequest))
}
