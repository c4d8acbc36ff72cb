/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/cooklang/pkg/convert"
)

const soupRecipe = `>> servings: 2

Chop @onion{1} and heat @oil{1%tbsp} in a #pot{}.
Simmer for ~{20%min}.
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.Writer = &stdout
	cmd.ErrWriter = &stderr
	err := cmd.Run(context.Background(), append([]string{name}, args...))
	return stdout.String(), stderr.String(), err
}

func writeRecipe(t *testing.T, dir, file, src string) string {
	t.Helper()
	p := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(p, []byte(src), 0o600))
	return p
}

func TestRecipeRead(t *testing.T) {
	path := writeRecipe(t, t.TempDir(), "soup.cook", soupRecipe)

	out, _, err := run(t, "recipe", "read", path, "--format", "json", "--scale", "4")
	require.NoError(t, err)

	var got struct {
		Name        string `json:"name"`
		Ingredients []struct {
			Name     string `json:"name"`
			Quantity struct {
				Value struct {
					Mode   string `json:"mode"`
					Values []struct {
						Value float64 `json:"value"`
					} `json:"values"`
				} `json:"value"`
			} `json:"quantity"`
		} `json:"ingredients"`
		Scaling struct {
			Servings    int `json:"servings"`
			Ingredients []struct {
				Type string `json:"type"`
			} `json:"ingredients"`
		} `json:"scaling"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)

	assert.Equal(t, "soup", got.Name)
	assert.Equal(t, 4, got.Scaling.Servings)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "onion", got.Ingredients[0].Name)
	require.Len(t, got.Ingredients[0].Quantity.Value.Values, 1)
	assert.InDelta(t, 2.0, got.Ingredients[0].Quantity.Value.Values[0].Value, 1e-9)
	require.Len(t, got.Scaling.Ingredients, 2)
	assert.Equal(t, "scaled", got.Scaling.Ingredients[0].Type)
}

func TestRecipeRead_IngredientList(t *testing.T) {
	path := writeRecipe(t, t.TempDir(), "salad.cook", "Add @salt{1%g}.\nAdd more @salt{2%g}.")

	out, _, err := run(t, "recipe", "read", path, "--ingredients", "--format", "json")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	require.Len(t, got, 1)
	assert.Equal(t, "salt", got[0]["name"])
}

func TestRecipeRead_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr string
		stderr  string
	}{
		{
			name:    "no file",
			args:    []string{"recipe", "read"},
			wantErr: "expected exactly one recipe",
		},
		{
			name:    "missing file",
			args:    []string{"recipe", "read", filepath.Join(dir, "missing.cook")},
			wantErr: "failed to open recipe",
		},
		{
			name:    "invalid recipe",
			args:    []string{"recipe", "read", writeRecipe(t, dir, "bad.cook", "Add @&pepper{}.")},
			wantErr: "failed to parse recipe",
			stderr:  "error[ReferenceNotFound]",
		},
		{
			name:    "strict warnings",
			args:    []string{"recipe", "read", "--strict", writeRecipe(t, dir, "warn.cook", ">> [unknown]: x\nStep.")},
			wantErr: "failed to parse recipe",
		},
		{
			name:    "bad servings",
			args:    []string{"recipe", "read", "--scale", "0", writeRecipe(t, dir, "ok.cook", "Step.")},
			wantErr: "invalid servings",
		},
		{
			name:    "bad format",
			args:    []string{"recipe", "read", "--format", "xml", filepath.Join(dir, "ok.cook")},
			wantErr: "unknown output format",
		},
		{
			name:    "bad extensions",
			args:    []string{"--extensions", "nope", "recipe", "read", filepath.Join(dir, "ok.cook")},
			wantErr: "unknown extension",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.stderr != "" {
				assert.Contains(t, stderr, tt.stderr)
			}
		})
	}
}

func TestRecipeRead_UnitsSystem(t *testing.T) {
	path := writeRecipe(t, t.TempDir(), "milk.cook", "Pour @milk{2%cup}.")

	out, _, err := run(t, "recipe", "read", path, "--units-system", "metric", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "unit: ml")
}

func TestRecipeCheck(t *testing.T) {
	dir := t.TempDir()
	ok := writeRecipe(t, dir, "a.cook", "Add @salt{}.")
	warn := writeRecipe(t, dir, "b.cook", ">> [unknown key]: 1\nStep.")
	bad := writeRecipe(t, dir, "c.cook", "Add @&pepper{}.")

	out, _, err := run(t, "recipe", "check", ok, warn)
	require.NoError(t, err)
	assert.Contains(t, out, ok+": ok\n")
	assert.Contains(t, out, warn+": ok (1 warnings)")

	_, _, err = run(t, "recipe", "check", "--strict", ok, warn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 recipes failed")

	out, stderr, err := run(t, "recipe", "check", ok, bad)
	require.Error(t, err)
	assert.Contains(t, out, bad+": failed (1 errors)")
	assert.Contains(t, stderr, "ReferenceNotFound")

	_, _, err = run(t, "recipe", "check")
	require.Error(t, err)
}

func TestRecipeAst(t *testing.T) {
	path := writeRecipe(t, t.TempDir(), "soup.cook", soupRecipe)

	out, _, err := run(t, "recipe", "ast", path, "--format", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), out)
	assert.Contains(t, out, "onion")
}

func TestRecipeRead_OutputFile(t *testing.T) {
	dir := t.TempDir()
	path := writeRecipe(t, dir, "soup.cook", soupRecipe)
	outPath := filepath.Join(dir, "soup.yaml")

	stdout, _, err := run(t, "recipe", "read", path, "-o", outPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: soup")
}

func TestUnits(t *testing.T) {
	out, _, err := run(t, "units", "--quantity", "mass", "--system", "metric", "--format", "json")
	require.NoError(t, err)

	var units []convert.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &units), out)
	require.NotEmpty(t, units)
	names := make([]string, 0, len(units))
	for _, u := range units {
		assert.Equal(t, "mass", u.Quantity)
		assert.Equal(t, "metric", u.System)
		names = append(names, u.Name)
	}
	assert.Contains(t, names, "gram")

	out, _, err = run(t, "units", "--count", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"all"`)

	_, _, err = run(t, "units", "--quantity", "speed")
	require.Error(t, err)
}

func TestUnits_ExtraDocument(t *testing.T) {
	dir := t.TempDir()
	doc := writeRecipe(t, dir, "extra.yaml", `
extend:
  names:
    g: [grammo]
`)
	out, _, err := run(t, "--units", doc, "convert", "1000", "grammo", "kg")
	require.NoError(t, err)
	assert.Equal(t, "1 kg\n", out)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		args    []string
		want    string
		wantErr bool
	}{
		{args: []string{"1", "kg", "g"}, want: "1000 g\n"},
		{args: []string{"1500", "g", "best"}, want: "1.5 kg\n"},
		{args: []string{"1-2", "kg", "g"}, want: "1000-2000 g\n"},
		{args: []string{"1", "kg", "l"}, wantErr: true},
		{args: []string{"x", "kg", "g"}, wantErr: true},
		{args: []string{"1", "kg"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := run(t, append([]string{"convert"}, tt.args...)...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}
