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

// Package convert implements the units database and conversions between
// units of the same physical quantity.
//
// Units are declared in documents (YAML, TOML or JSON) that are layered with
// a Builder. The bundled document covers common metric and imperial volume,
// mass, length, temperature and time units:
//
//	c, err := convert.NewBundled(extra)
//	v, u, err := c.Convert(convert.Number(2), "cup", convert.ToBest(convert.Metric))
//
// A Converter is read-only after Finish and safe for concurrent use.
package convert
