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

package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/NVIDIA/cooklang/pkg/convert"
	"github.com/NVIDIA/cooklang/pkg/cooklang"
	"github.com/NVIDIA/cooklang/pkg/extensions"
	"github.com/NVIDIA/cooklang/pkg/logging"
	"github.com/NVIDIA/cooklang/pkg/server"
)

const (
	name           = "cookd"
	versionDefault = "dev"

	envFile       = "COOK_ENV_FILE"
	envExtensions = "COOK_EXTENSIONS"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/cooklang/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
// It configures logging, loads the units, sets up routes and handles
// graceful shutdown. Returns an error if the server fails to start or
// encounters a fatal error.
func Serve() error {
	ctx := context.Background()

	if err := loadEnv(os.Getenv(envFile)); err != nil {
		return err
	}

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	cfg := server.NewConfig()

	p, err := newParser(cfg.UnitsFiles, os.Getenv(envExtensions))
	if err != nil {
		slog.Error("failed to initialize parser", "error", err)
		return err
	}

	slog.Debug("parser ready",
		"extensions", p.Extensions().String(),
		"units", p.Converter().UnitCount(),
	)

	s := newServer(cfg, p)
	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// routes maps the application endpoints to the parser handlers.
func newServer(cfg *server.Config, p *cooklang.Parser) *server.Server {
	return server.New(
		server.WithConfig(cfg),
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(routes(p)),
		server.WithReadyCheck("parser", p.SelfTest),
	)
}

func routes(p *cooklang.Parser) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/recipes/parse": p.HandleParse,
		"/v1/recipes/scale": p.HandleScale,
		"/v1/convert":       p.HandleConvert,
		"/v1/units":         p.HandleUnits,
	}
}

// newParser builds the shared parser from the bundled units extended with
// unitsFiles and the comma separated extension list.
func newParser(unitsFiles []string, ext string) (*cooklang.Parser, error) {
	opts := []cooklang.Option{}
	if ext != "" {
		e, err := extensions.Parse(ext)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envExtensions, err)
		}
		opts = append(opts, cooklang.WithExtensions(e))
	}

	if len(unitsFiles) > 0 {
		docs := make([]*convert.Document, 0, len(unitsFiles))
		for _, f := range unitsFiles {
			doc, err := convert.ReadDocument(f)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		conv, err := convert.NewBundled(docs...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cooklang.WithConverter(conv))
	}

	return cooklang.New(opts...), nil
}

// loadEnv reads a dotenv file into the environment without overriding it.
// A missing default .env is fine; a missing explicit file is not.
func loadEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("failed to load env file %q: %w", path, err)
}
