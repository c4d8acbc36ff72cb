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

// Package api provides the HTTP API layer of the cookd recipe service.
//
// This package is a thin wrapper around the reusable pkg/server package:
// it configures structured logging, builds the shared recipe parser and its
// units converter, and registers the parser handlers.
//
// # Usage
//
//	import (
//	    "log"
//	    "github.com/NVIDIA/cooklang/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Endpoints
//
// Application endpoints (with rate limiting):
//   - POST /v1/recipes/parse - Parse and analyze the recipe in the body
//   - POST /v1/recipes/scale - Parse and scale the recipe in the body
//   - GET /v1/convert        - Convert a value between units
//   - GET /v1/units          - List the known units
//
// System endpoints (no rate limiting):
//   - GET /health  - Health check (liveness)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
//
// Example:
//
//	curl -X POST --data-binary @soup.cook \
//	  "http://localhost:8080/v1/recipes/scale?servings=4&system=metric"
//
//	curl "http://localhost:8080/v1/convert?value=2&from=cup&to=ml"
//
// # Configuration
//
// Besides the server variables read by server.NewConfig:
//   - COOK_ENV_FILE: dotenv file loaded first (default .env, if present)
//   - COOK_EXTENSIONS: enabled extensions, "all", "none" or a comma list
//   - COOK_UNITS: units documents (TOML, JSON or YAML, paths or URLs)
//   - LOG_LEVEL: debug, info, warn or error
package api
