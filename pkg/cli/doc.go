/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the cook command-line interface for Cooklang recipes.
//
// # Overview
//
// cook parses recipe files, reports their diagnostics, scales them to a number
// of servings and converts their quantities between unit systems. It is a thin
// layer over pkg/cooklang, pkg/scale and pkg/convert.
//
// # Commands
//
// recipe read - Parse a recipe and print it:
//
//	cook recipe read soup.cook [--scale N] [--units-system metric|imperial] [--ingredients]
//
// recipe check - Print diagnostics, fail on errors:
//
//	cook recipe check recipes/*.cook [--strict]
//
// recipe ast - Print the syntax tree:
//
//	cook recipe ast soup.cook --format json
//
// units - List or count the known units:
//
//	cook units [--quantity mass] [--system metric] [--count]
//
// convert - Convert a value:
//
//	cook convert 2 cup ml
//
// # Global Flags
//
//	--units             Extra units document, repeatable (COOK_UNITS)
//	--no-bundled-units  Only use documents given with --units (COOK_NO_BUNDLED_UNITS)
//	--extensions        Enabled syntax extensions (COOK_EXTENSIONS, default: all)
//	--color             Colored diagnostics (COOK_COLOR)
//	--log-level         Logging verbosity (COOK_LOG_LEVEL, default: warn)
//
// Commands that print data also take --output/-o (default: stdout) and
// --format/-t with yaml (default), json or table.
//
// # Environment
//
// A .env file in the working directory, or the file named by COOK_ENV_FILE,
// is loaded before the flags are parsed. Variables already set win.
//
// # Exit Codes
//
//	0  Success
//	1  Invalid arguments, recipe errors or any other failure
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/cooklang/pkg/cli.version=1.0.0'"
package cli
