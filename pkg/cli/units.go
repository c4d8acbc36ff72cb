/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cooklang/pkg/convert"
)

func unitsCmd() *cli.Command {
	return &cli.Command{
		Name:  "units",
		Usage: "List the known units",
		Description: `List every unit the converter knows, including the SI prefixed ones, or
only count them with --count.

  cook units --quantity mass --system metric
  cook --units my-units.toml units --count`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "quantity",
				Usage: "only units of a physical quantity (volume, mass, length, temperature, time)",
			},
			&cli.StringFlag{
				Name:  "system",
				Usage: "only units of a system (metric, imperial)",
			},
			&cli.BoolFlag{
				Name:  "count",
				Usage: "print unit counts instead of the units",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			conv, err := newConverter(cmd)
			if err != nil {
				return err
			}

			ser, closeFn, err := newSerializer(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if cmd.Bool("count") {
				return ser.Serialize(ctx, conv.Count())
			}

			out, err := conv.List(convert.Filter{
				Quantity: cmd.String("quantity"),
				System:   cmd.String("system"),
			})
			if err != nil {
				return err
			}
			return ser.Serialize(ctx, out)
		},
	}
}

func convertCmd() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a value between units",
		ArgsUsage: "<value> <from> <to|best|metric|imperial>",
		Description: `Convert a number, fraction or range from one unit to another unit, or to
the best unit of a system.

  cook convert 2 cup ml
  cook convert 1-2 lb metric
  cook convert 1500 g best`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 3 {
				return errors.New("expected <value> <from> <to>")
			}
			args := cmd.Args()
			v, err := convert.ParseValue(args.Get(0))
			if err != nil {
				return err
			}
			conv, err := newConverter(cmd)
			if err != nil {
				return err
			}
			out, unit, err := conv.Convert(v, args.Get(1), convert.ParseTarget(args.Get(2)))
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout(cmd), "%s %s\n", formatValue(out), unit)
			return nil
		},
	}
}

// formatValue rounds to three decimals.
func formatValue(v convert.Value) string {
	if v.IsRange {
		return fmt.Sprintf("%s-%s", formatNumber(v.Start), formatNumber(v.End))
	}
	return formatNumber(v.Start)
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(math.Round(n*1000)/1000, 'f', -1, 64)
}
