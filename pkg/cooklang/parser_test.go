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

package cooklang

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/cooklang/pkg/convert"
	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
	"github.com/NVIDIA/cooklang/pkg/extensions"
	"github.com/NVIDIA/cooklang/pkg/serializer"
)

const soup = `>> servings: 2
>> tags: soup, quick

Heat @oil{1%tbsp} in a #pot{}.
Add @onion{1} and cook for ~{5%min}.
`

func TestParser_Parse(t *testing.T) {
	p := New()
	res := p.Parse("recipes/soup.cook", soup)
	r, rep, err := res.IntoResult()
	require.NoError(t, err, rep.String("soup.cook", soup))

	assert.Equal(t, "soup", r.Name)
	assert.Equal(t, []int{2}, r.Metadata.Servings)
	assert.Equal(t, []string{"soup", "quick"}, r.Metadata.Tags)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "oil", r.Ingredients[0].Name)
	require.Len(t, r.Cookware, 1)
	require.Len(t, r.Timers, 1)
}

func TestParser_ParseErrorSkipsAnalysis(t *testing.T) {
	res := New().Parse("x", "Add @salt{1/0%g} and @&pepper{}.")
	assert.True(t, res.Invalid())
	assert.Nil(t, res.Output)
	assert.Equal(t, []string{"DivisionByZero"}, res.Report.Codes())
}

func TestParser_Options(t *testing.T) {
	called := ""
	p := New(
		WithExtensions(extensions.All.Without(extensions.Temperature)),
		WithRecipeRefChecker(func(name string) bool {
			called = name
			return true
		}),
		WithConcurrency(2),
	)
	assert.False(t, p.Extensions().Has(extensions.Temperature))
	assert.NotNil(t, p.Converter())

	res := p.Parse("x", "Serve with @@sauces/pesto{}.")
	require.False(t, res.Invalid(), res.Report.Error())
	assert.Equal(t, "sauces/pesto", called)
	assert.Empty(t, res.Output.InlineQuantities)
}

func TestRecipeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"soup.cook", "soup"},
		{"a/b/Pasta al pesto.cook", "Pasta al pesto"},
		{`c:\recipes\bread.cook`, "bread"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RecipeName(tt.in))
		})
	}
}

func TestParser_ParseAll(t *testing.T) {
	sources := map[string]string{}
	for i := range 20 {
		sources[fmt.Sprintf("r%02d.cook", i)] = fmt.Sprintf("Add @salt{%d%%g}.", i+1)
	}
	sources["broken.cook"] = "Add @&pepper{}."

	results, err := New(WithConcurrency(3)).ParseAll(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, results, 21)

	assert.Equal(t, "broken.cook", results[0].Name)
	assert.False(t, results[0].Valid())
	assert.Nil(t, results[0].Recipe)

	for _, r := range results[1:] {
		assert.True(t, r.Valid(), r.Name)
		assert.Equal(t, RecipeName(r.Name), r.Recipe.Name)
	}
}

func TestParser_ParseAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().ParseAll(ctx, map[string]string{"a": "Step."})
	require.ErrorIs(t, err, context.Canceled)
}

func TestParser_SelfTest(t *testing.T) {
	require.NoError(t, New().SelfTest(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New().SelfTest(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, cerrors.ErrCodeUnavailable, cerrors.CodeOf(err))

	doc, err := convert.ParseDocument([]byte(`{"quantity":[{"quantity":"time","best":["s"],
		"units":[{"names":["second"],"symbols":["s"],"ratio":1}]}]}`), serializer.FormatJSON)
	require.NoError(t, err)
	b := convert.NewBuilder()
	require.NoError(t, b.AddDocument(doc))
	timeOnly, err := b.Finish()
	require.NoError(t, err)

	err = New(WithConverter(timeOnly)).SelfTest(context.Background())
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeUnavailable, cerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "conversion failed")
}
