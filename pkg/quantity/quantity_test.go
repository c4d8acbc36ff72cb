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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/cooklang/pkg/convert"
	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"integer", Number(2), "2"},
		{"rounded", Number(1.0 / 3), "0.333"},
		{"negative zero", Number(-0.0001), "0"},
		{"range", Range(1.5, 2), "1.5-2"},
		{"text", Text("a pinch"), "a pinch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestValue_TryAdd(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Value
		want    Value
		wantErr bool
	}{
		{"numbers", Number(1), Number(2), Number(3), false},
		{"number and range", Number(1), Range(2, 3), Range(3, 4), false},
		{"range and number", Range(2, 3), Number(1), Range(3, 4), false},
		{"ranges", Range(1, 2), Range(3, 4), Range(4, 6), false},
		{"text", Text("some"), Number(1), Value{}, true},
		{"text rhs", Number(1), Text("some"), Value{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.TryAdd(tt.b)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeInvalidValue))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestValue_JSON(t *testing.T) {
	for _, v := range []Value{Number(1.5), Range(1, 2), Text("x")} {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		var back Value
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, v.Equal(back), "%s", data)
	}

	data, err := json.Marshal(Range(1, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"range","value":{"start":1,"end":2}}`, string(data))

	var v Value
	assert.Error(t, json.Unmarshal([]byte(`{"type":"blob","value":1}`), &v))
}

func TestScalableValue(t *testing.T) {
	s := NewByServings(Number(1), Number(2), Text("lots"))
	assert.Equal(t, "1|2|lots", s.String())
	assert.True(t, s.ContainsText())

	_, err := s.Extract()
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeInvalidValue))
	_, err = NewLinear(Number(1)).TryAdd(NewFixed(Number(1)))
	assert.Error(t, err)

	sum, err := NewFixed(Number(1)).TryAdd(NewFixed(Range(1, 2)))
	require.NoError(t, err)
	assert.True(t, sum.Equal(NewFixed(Range(2, 3))))

	var m ScaleMode
	require.NoError(t, m.UnmarshalText([]byte("by_servings")))
	assert.Equal(t, ByServings, m)
	assert.Error(t, m.UnmarshalText([]byte("sometimes")))
}

func fixed(n float64, unit string) Quantity {
	return New(NewFixed(Number(n)), unit)
}

func TestQuantity_Compatible(t *testing.T) {
	c := convert.Default()
	tests := []struct {
		name     string
		a, b     Quantity
		wantUnit string
		wantErr  string
	}{
		{"no units", fixed(1, ""), fixed(2, ""), "", ""},
		{"missing unit", fixed(1, "g"), fixed(2, ""), "", "missing unit"},
		{"different quantities", fixed(1, "g"), fixed(2, "ml"), "", "different physical quantity"},
		{"known units", fixed(1, "kg"), fixed(2, "g"), "kg", ""},
		{"same unknown", fixed(1, "handful"), fixed(2, "handful"), "", ""},
		{"different unknown", fixed(1, "handful"), fixed(2, "pinch"), "", "unknown units differ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := tt.a.Compatible(tt.b, c)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, cerrors.ErrCodeIncompatibleUnits, cerrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			if tt.wantUnit == "" {
				assert.Nil(t, u)
			} else {
				require.NotNil(t, u)
				assert.Equal(t, tt.wantUnit, u.Symbol())
			}
		})
	}
}

func TestQuantity_TryAdd(t *testing.T) {
	c := convert.Default()

	sum, err := fixed(1, "kg").TryAdd(fixed(500, "g"), c)
	require.NoError(t, err)
	assert.Equal(t, "kg", sum.Unit)
	assert.InDelta(t, 1.5, sum.Value.First().Start, 1e-9)

	sum, err = fixed(1, "handful").TryAdd(fixed(2, "handful"), c)
	require.NoError(t, err)
	assert.Equal(t, "3 handful", sum.String())

	_, err = New(NewLinear(Number(1)), "g").TryAdd(fixed(1, "g"), c)
	assert.Error(t, err)
}

func TestQuantity_ConvertAndFit(t *testing.T) {
	c := convert.Default()

	got, err := fixed(1500, "g").Convert(c, convert.ToBest(convert.Metric))
	require.NoError(t, err)
	assert.Equal(t, "kg", got.Unit)
	assert.InDelta(t, 1.5, got.Value.First().Start, 1e-9)

	fitted := fixed(1000, "ml").Fit(c)
	assert.Equal(t, "l", fitted.Unit)

	multi := New(NewByServings(Number(1000), Number(2000)), "g")
	got, err = multi.Convert(c, convert.ToSameSystem())
	require.NoError(t, err)
	assert.Equal(t, "kg", got.Unit)
	assert.Equal(t, ByServings, got.Value.Mode)
	assert.InDelta(t, 2, got.Value.Values[1].Start, 1e-9)

	_, err = fixed(1, "").Convert(c, convert.ToSameSystem())
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeInvalidValue))
	_, err = fixed(1, "handful").Convert(c, convert.ToSameSystem())
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeUnknownUnit))
	_, err = New(NewFixed(Text("some")), "g").Convert(c, convert.ToSameSystem())
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeInvalidValue))

	unknown := fixed(3, "handful")
	assert.Equal(t, unknown, unknown.Fit(c))
}

func TestGroup(t *testing.T) {
	c := convert.Default()
	var g Group
	assert.True(t, g.IsEmpty())
	g.Add(fixed(500, "g"), c)
	g.Add(fixed(1, "cup"), c)
	g.Add(fixed(600, "g"), c)
	g.Add(New(NewFixed(Text("some")), ""), c)
	g.Fit(c)

	qs := g.Quantities()
	require.Len(t, qs, 3)
	assert.Equal(t, "kg", qs[0].Unit)
	assert.InDelta(t, 1.1, qs[0].Value.First().Start, 1e-9)
	assert.Equal(t, "c", qs[1].Unit)
	assert.Equal(t, "1.1 kg, 1 c, some", g.String())
}
