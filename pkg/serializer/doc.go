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

// Package serializer encodes and decodes recipe engine data in multiple formats.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable representation of recipes and diagnostics
//   - Used by the HTTP API and the CLI's --format json
//
// YAML:
//   - Human-readable, the format of the bundled units document
//   - gopkg.in/yaml.v3 package
//
// TOML:
//   - Read-only, accepted for units documents
//   - github.com/BurntSushi/toml package
//
// Table:
//   - Flattened FIELD/VALUE listing for terminals
//   - Write-only
//
// # Usage
//
//	writer := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer writer.Close()
//	if err := writer.Serialize(ctx, recipe); err != nil {
//		return err
//	}
//
// Reading a document with unknown keys rejected:
//
//	reader, err := serializer.NewFileReader(serializer.FormatFromPath(path), path)
//	if err != nil {
//		return err
//	}
//	defer reader.Close()
//	var doc convert.Document
//	err = reader.DeserializeStrict(&doc)
//
// Paths starting with http:// or https:// are fetched with HttpReader.
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
package serializer
