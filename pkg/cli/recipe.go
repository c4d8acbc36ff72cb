/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cooklang/pkg/convert"
	"github.com/NVIDIA/cooklang/pkg/cooklang"
	"github.com/NVIDIA/cooklang/pkg/model"
	"github.com/NVIDIA/cooklang/pkg/scale"
)

func strictFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "strict",
		Usage: "treat warnings as errors",
	}
}

func hideWarningsFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "hide-warnings",
		Usage: "do not print warnings",
	}
}

func recipeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "recipe",
		EnableShellCompletion: true,
		Usage:                 "Read, check and inspect recipe files",
		Commands: []*cli.Command{
			recipeReadCmd(),
			recipeCheckCmd(),
			recipeAstCmd(),
		},
	}
}

func recipeReadCmd() *cli.Command {
	return &cli.Command{
		Name:      "read",
		Usage:     "Parse a recipe and print it",
		ArgsUsage: "<file|url|->",
		Description: `Parse a single recipe, optionally scale it and convert its quantities,
and print the result.

Diagnostics are printed to stderr. The recipe is printed when there are no
errors, or no warnings either with --strict.

# Examples

Print a recipe as JSON:
  cook recipe read soup.cook --format json

Scale to 6 servings and convert to metric units:
  cook recipe read soup.cook --scale 6 --units-system metric

Only the merged ingredient list:
  cook recipe read soup.cook --ingredients`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "scale",
				Aliases: []string{"s"},
				Usage:   "scale the recipe to this many servings",
			},
			&cli.StringFlag{
				Name:  "units-system",
				Usage: "convert every quantity to the best unit of a system (metric, imperial)",
			},
			&cli.BoolFlag{
				Name:  "ingredients",
				Usage: "only print the ingredient list, equal ingredients merged",
			},
			strictFlag(),
			hideWarningsFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New("expected exactly one recipe")
			}
			path := cmd.Args().First()

			p, err := newParser(cmd)
			if err != nil {
				return err
			}
			r, err := parseRecipe(ctx, cmd, p, path)
			if err != nil {
				return err
			}
			conv := p.Converter()

			var out *scale.Recipe
			if cmd.IsSet("scale") {
				servings := int(cmd.Int("scale"))
				if servings < 1 {
					return fmt.Errorf("invalid servings: %d", servings)
				}
				out = scale.ScaleTo(r, servings, conv)
			} else {
				out = scale.DefaultScale(r)
			}

			if s := cmd.String("units-system"); s != "" {
				system, err := convert.ParseSystem(s)
				if err != nil {
					return err
				}
				if err := out.Convert(system, conv); err != nil {
					slog.Warn("some quantities were not converted", "error", err)
				}
			}

			ser, closeFn, err := newSerializer(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if cmd.Bool("ingredients") {
				return ser.Serialize(ctx, out.IngredientList(conv))
			}
			return ser.Serialize(ctx, out)
		},
	}
}

// parseRecipe reads and parses one recipe, printing its diagnostics.
func parseRecipe(ctx context.Context, cmd *cli.Command, p *cooklang.Parser, path string) (*model.Recipe, error) {
	src, err := readSource(ctx, cmd, path)
	if err != nil {
		return nil, err
	}
	res := p.Parse(path, src)
	writeReport(cmd, path, src, res.Report, cmd.Bool("hide-warnings"))

	var r *model.Recipe
	if cmd.Bool("strict") {
		r, _, err = res.StrictResult()
	} else {
		r, _, err = res.IntoResult()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse recipe %q: %w", path, err)
	}
	return r, nil
}

func recipeCheckCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Report the diagnostics of recipe files",
		ArgsUsage: "<file|url>...",
		Description: `Parse every recipe and print its diagnostics. Exits with a non-zero
status when any recipe has errors, or warnings with --strict.

  cook recipe check recipes/*.cook --strict`,
		Flags: []cli.Flag{
			strictFlag(),
			hideWarningsFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return errors.New("expected at least one recipe")
			}
			p, err := newParser(cmd)
			if err != nil {
				return err
			}

			paths := cmd.Args().Slice()
			sources := make(map[string]string, len(paths))
			for _, path := range paths {
				src, err := readSource(ctx, cmd, path)
				if err != nil {
					return err
				}
				sources[path] = src
			}

			results, err := p.ParseAll(ctx, sources)
			if err != nil {
				return err
			}

			strict := cmd.Bool("strict")
			failed := 0
			w := stdout(cmd)
			for _, res := range results {
				writeReport(cmd, res.Name, sources[res.Name], res.Report, cmd.Bool("hide-warnings"))
				ok := res.Valid() && (!strict || !res.Report.HasWarnings())
				if !ok {
					failed++
				}
				fmt.Fprintf(w, "%s: %s\n", res.Name, checkSummary(ok, len(res.Report.Errors), len(res.Report.Warnings)))
			}

			slog.Info("recipes checked", "count", len(results), "failed", failed, "strict", strict)
			if failed > 0 {
				return fmt.Errorf("%d of %d recipes failed the check", failed, len(results))
			}
			return nil
		},
	}
}

func checkSummary(ok bool, errs, warns int) string {
	status := "ok"
	if !ok {
		status = "failed"
	}
	switch {
	case errs > 0 && warns > 0:
		return fmt.Sprintf("%s (%d errors, %d warnings)", status, errs, warns)
	case errs > 0:
		return fmt.Sprintf("%s (%d errors)", status, errs)
	case warns > 0:
		return fmt.Sprintf("%s (%d warnings)", status, warns)
	}
	return status
}

func recipeAstCmd() *cli.Command {
	return &cli.Command{
		Name:      "ast",
		Usage:     "Print the syntax tree of a recipe",
		ArgsUsage: "<file|url|->",
		Flags: []cli.Flag{
			hideWarningsFlag(),
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New("expected exactly one recipe")
			}
			path := cmd.Args().First()
			p, err := newParser(cmd)
			if err != nil {
				return err
			}
			src, err := readSource(ctx, cmd, path)
			if err != nil {
				return err
			}

			res := p.ParseAST(src)
			writeReport(cmd, path, src, res.Report, cmd.Bool("hide-warnings"))
			tree, _, err := res.IntoResult()
			if err != nil {
				return fmt.Errorf("failed to parse recipe %q: %w", path, err)
			}

			ser, closeFn, err := newSerializer(cmd)
			if err != nil {
				return err
			}
			defer closeFn()
			return ser.Serialize(ctx, tree)
		},
	}
}
