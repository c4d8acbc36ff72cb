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
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/cooklang/pkg/analysis"
	"github.com/NVIDIA/cooklang/pkg/ast"
	"github.com/NVIDIA/cooklang/pkg/convert"
	"github.com/NVIDIA/cooklang/pkg/defaults"
	"github.com/NVIDIA/cooklang/pkg/diag"
	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
	"github.com/NVIDIA/cooklang/pkg/extensions"
	"github.com/NVIDIA/cooklang/pkg/model"
	"github.com/NVIDIA/cooklang/pkg/parser"
)

// Option configures a Parser.
type Option func(*Parser)

// WithExtensions sets the enabled extensions. Default is extensions.All.
func WithExtensions(ext extensions.Extensions) Option {
	return func(p *Parser) {
		p.ext = ext
	}
}

// WithConverter sets the units converter. Default is the bundled one.
func WithConverter(c *convert.Converter) Option {
	return func(p *Parser) {
		if c != nil {
			p.conv = c
		}
	}
}

// WithRecipeRefChecker sets the function used to check "@@recipe"
// ingredients.
func WithRecipeRefChecker(f analysis.RecipeRefChecker) Option {
	return func(p *Parser) {
		p.checker = f
	}
}

// WithConcurrency bounds how many recipes ParseAll parses at once.
func WithConcurrency(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// Parser parses and analyzes recipes with a fixed configuration. It holds
// no mutable state and can be used from many goroutines.
type Parser struct {
	ext         extensions.Extensions
	conv        *convert.Converter
	checker     analysis.RecipeRefChecker
	concurrency int
}

// New returns a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		ext:         extensions.Default(),
		concurrency: defaults.ParseConcurrency,
	}
	for _, o := range opts {
		o(p)
	}
	if p.conv == nil {
		p.conv = convert.Default()
	}
	return p
}

// Extensions returns the enabled extensions.
func (p *Parser) Extensions() extensions.Extensions {
	return p.ext
}

// Converter returns the units converter.
func (p *Parser) Converter() *convert.Converter {
	return p.conv
}

// ParseAST only parses src.
func (p *Parser) ParseAST(src string) diag.PassResult[ast.Ast] {
	return parser.Parse(src, p.ext)
}

// Parse parses and analyzes src. name becomes the recipe name, without a
// ".cook" suffix. Analysis is skipped when parsing failed.
func (p *Parser) Parse(name, src string) diag.PassResult[model.Recipe] {
	start := time.Now()
	parsed := parser.Parse(src, p.ext)

	var res diag.PassResult[model.Recipe]
	if parsed.Invalid() {
		res = diag.Discard[model.Recipe](parsed)
	} else {
		res = analysis.Analyze(parsed.Output, analysis.Options{
			Extensions:       p.ext,
			Converter:        p.conv,
			RecipeRefChecker: p.checker,
		}).Merge(parsed.Report)
		res.Output.Name = RecipeName(name)
	}

	observeParse(res.Report, time.Since(start))
	slog.Debug("recipe parsed",
		"name", name,
		"bytes", len(src),
		"errors", len(res.Report.Errors),
		"warnings", len(res.Report.Warnings),
		"duration", time.Since(start))
	return res
}

const selfTestRecipe = "Whisk @flour{1%kg} with @water{500%ml}.\n"

// SelfTest parses a built-in recipe and converts one of its quantities. It
// fails when the converter is missing the metric mass units, and serves as
// the service readiness check.
func (p *Parser) SelfTest(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeUnavailable, "self test canceled", err)
	}

	r, _, err := p.Parse("self-test", selfTestRecipe).IntoResult()
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeUnavailable, "self test recipe rejected", err)
	}
	if len(r.Ingredients) != 2 {
		return cerrors.NewWithContext(cerrors.ErrCodeUnavailable, "self test recipe misread",
			map[string]any{"ingredients": len(r.Ingredients)})
	}

	v, _, err := p.conv.Convert(convert.Number(1), "kg", convert.ToUnit("g"))
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeUnavailable, "self test conversion failed", err)
	}
	if v.Start != 1000 {
		return cerrors.NewWithContext(cerrors.ErrCodeUnavailable, "self test conversion is off",
			map[string]any{"grams": v.Start})
	}
	return nil
}

// RecipeName strips the directory and ".cook" extension from a file name.
func RecipeName(file string) string {
	if i := strings.LastIndexAny(file, `/\`); i >= 0 {
		file = file[i+1:]
	}
	return strings.TrimSuffix(file, ".cook")
}

// Result is the outcome of parsing one recipe in a batch.
type Result struct {
	Name   string        `json:"name" yaml:"name"`
	Recipe *model.Recipe `json:"recipe,omitempty" yaml:"recipe,omitempty"`
	Report diag.Report   `json:"report" yaml:"report"`
}

// Valid reports whether the recipe was produced without errors.
func (r Result) Valid() bool {
	return r.Recipe != nil && !r.Report.HasErrors()
}

// ParseAll parses independent recipes concurrently, keyed by name. Results
// are sorted by name. Invalid recipes are reported in their Result, not as
// an error; the error is only set when ctx is done first.
func (p *Parser) ParseAll(ctx context.Context, sources map[string]string) ([]Result, error) {
	names := make([]string, 0, len(sources))
	for n := range sources {
		names = append(names, n)
	}
	slices.Sort(names)

	results := make([]Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := p.Parse(name, sources[name])
			results[i] = Result{Name: name, Report: res.Report}
			if !res.Invalid() {
				results[i].Recipe = res.Output
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
