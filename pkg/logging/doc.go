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

// Package logging provides structured logging setup for the cook and cookd
// binaries.
//
// It wraps log/slog with a JSON handler writing to stderr, adds module and
// version attributes to every record and reads the level from LOG_LEVEL.
// Debug loggers also record the source location.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: per parse timings and builder details, with source location
//   - INFO: general informational messages (default)
//   - WARN/WARNING: degraded situations, like recipes with warnings
//   - ERROR: failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("cookd", version)
//	    slog.Info("server starting", "port", 8080)
//	}
//
// With an explicit level, still overridden by LOG_LEVEL:
//
//	logging.SetDefaultStructuredLoggerWithLevel("cook", version, cmd.String("log-level"))
//
// For APIs that need a standard library logger:
//
//	srv.ErrorLog = logging.NewLogLogger(slog.LevelError, false)
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "recipe parsed",
//	    "module": "cookd",
//	    "version": "v1.0.0",
//	    "recipe": "soup.cook"
//	}
//
// The lexer, parser, analyzer and scaling packages never log. The units
// builder and the cooklang.Parser log at debug level only.
package logging
