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

// Package server provides the HTTP plumbing shared by the cookd service:
// routing, middleware, structured errors, health checks and graceful
// shutdown. It knows nothing about recipes; handlers are supplied by the
// caller.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("cookd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/recipes/parse": parser.HandleParse,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    slog.Error("server exited", "error", err)
//	}
//
// # Middleware
//
// Every application route, "/" included, is wrapped outermost first with:
//
//   - Prometheus metrics labelled by route pattern: cookd_http_requests_total,
//     cookd_http_request_duration_seconds, cookd_http_request_body_bytes,
//     cookd_http_requests_in_flight and cookd_http_requests_rejected_total
//   - Request ID propagation through X-Request-Id (UUIDs only)
//   - Panic recovery
//   - API version negotiation; Accept: application/vnd.cooklang.v9+json with
//     no generic fallback is answered 406
//   - Token bucket rate limiting with Retry-After on 429
//   - Request body limit, 413 when Content-Length exceeds MaxBodyBytes
//   - Debug request logging
//
// /health, /ready and /metrics are registered without middleware. /ready
// runs the checks added with WithReadyCheck. Paths no route matches are
// answered 404 by the default root handler.
//
// # Errors
//
// Handlers report failures with WriteError or WriteErrorFromErr. The latter
// maps a *errors.StructuredError code to its HTTP status:
//
//	{
//	  "code": "UNKNOWN_UNIT",
//	  "message": "unknown unit \"furlong\"",
//	  "details": {"unit": "furlong"},
//	  "requestId": "2f1c...",
//	  "timestamp": "2025-01-01T00:00:00Z",
//	  "retryable": false
//	}
//
// # Configuration
//
// NewConfig reads PORT, SHUTDOWN_TIMEOUT_SECONDS, COOK_RATE_LIMIT (burst is
// twice the limit), COOK_MAX_BODY_BYTES and COOK_UNITS (comma separated
// units documents). Invalid values are logged and ignored.
package server
