/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cooklang/pkg/convert"
	"github.com/NVIDIA/cooklang/pkg/cooklang"
	"github.com/NVIDIA/cooklang/pkg/defaults"
	"github.com/NVIDIA/cooklang/pkg/diag"
	"github.com/NVIDIA/cooklang/pkg/extensions"
	"github.com/NVIDIA/cooklang/pkg/serializer"
)

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "log-level",
		Usage:   "log level (debug, info, warn, error)",
		Value:   "warn",
		Sources: cli.EnvVars("COOK_LOG_LEVEL"),
	}
}

func unitsFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "units",
		Usage:   "units document (yaml, toml or json file or URL) layered over the bundled units, can be repeated",
		Sources: cli.EnvVars("COOK_UNITS"),
	}
}

func noBundledUnitsFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "no-bundled-units",
		Usage:   "only use the units from --units",
		Sources: cli.EnvVars("COOK_NO_BUNDLED_UNITS"),
	}
}

func extensionsFlag() cli.Flag {
	return &cli.StringFlag{
		Name: "extensions",
		Usage: fmt.Sprintf("enabled extensions, comma separated, 'all' or 'none' (supported values: %s)",
			strings.Join(extensions.SupportedNames(), ", ")),
		Value:   "all",
		Sources: cli.EnvVars("COOK_EXTENSIONS"),
	}
}

func colorFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "color",
		Usage:   "colored diagnostics",
		Sources: cli.EnvVars("COOK_COLOR"),
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("output format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Sources: cli.EnvVars("COOK_FORMAT"),
	}
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(cmd.String("format")))
	if f.IsUnknown() || !f.CanWrite() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// newSerializer writes to --output or to the command writer. The returned
// function must be called to close the output file.
func newSerializer(cmd *cli.Command) (*serializer.Writer, func(), error) {
	f, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, nil, err
	}
	var w *serializer.Writer
	if out := cmd.String("output"); out != "" && out != "-" {
		w = serializer.NewFileWriterOrStdout(f, out)
	} else {
		w = serializer.NewWriter(f, stdout(cmd))
	}
	return w, func() {
		if err := w.Close(); err != nil {
			fmt.Fprintf(stderr(cmd), "failed to close output: %v\n", err)
		}
	}, nil
}

func newConverter(cmd *cli.Command) (*convert.Converter, error) {
	paths := cmd.StringSlice("units")
	if len(paths) == 0 && !cmd.Bool("no-bundled-units") {
		return convert.Default(), nil
	}

	docs := make([]*convert.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := convert.ReadDocument(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if cmd.Bool("no-bundled-units") {
		return convert.New(docs...)
	}
	return convert.NewBundled(docs...)
}

func newParser(cmd *cli.Command) (*cooklang.Parser, error) {
	ext, err := extensions.Parse(cmd.String("extensions"))
	if err != nil {
		return nil, err
	}
	conv, err := newConverter(cmd)
	if err != nil {
		return nil, err
	}
	return cooklang.New(
		cooklang.WithExtensions(ext),
		cooklang.WithConverter(conv),
	), nil
}

// readSource reads a recipe from a file, an http(s) URL or stdin ("-").
func readSource(ctx context.Context, cmd *cli.Command, path string) (string, error) {
	if serializer.IsRemote(path) {
		data, err := serializer.NewHttpReader(
			serializer.WithMaxBytes(defaults.MaxRecipeBytes),
		).ReadWithContext(ctx, path)
		if err != nil {
			return "", fmt.Errorf("failed to fetch recipe %q: %w", path, err)
		}
		return string(data), nil
	}

	var r io.Reader
	if path == "-" {
		r = stdin(cmd)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open recipe: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, defaults.MaxRecipeBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read recipe %q: %w", path, err)
	}
	if int64(len(data)) > defaults.MaxRecipeBytes {
		return "", fmt.Errorf("recipe %q is larger than %d bytes", path, defaults.MaxRecipeBytes)
	}
	return string(data), nil
}

// writeReport prints the diagnostics of a recipe to the error writer.
func writeReport(cmd *cli.Command, file, src string, r diag.Report, hideWarnings bool) {
	if r.IsEmpty() {
		return
	}
	_ = r.Write(stderr(cmd), file, src, diag.RenderOptions{
		HideWarnings: hideWarnings,
		Color:        cmd.Bool("color"),
	})
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func stdin(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}
