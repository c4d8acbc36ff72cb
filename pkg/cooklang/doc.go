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

// Package cooklang parses Cooklang recipes.
//
// A Parser runs the parser and the analyzer with a fixed set of extensions
// and a shared, read-only units converter:
//
//	p := cooklang.New(cooklang.WithExtensions(extensions.All))
//	res := p.Parse("soup.cook", src)
//	recipe, warnings, err := res.IntoResult()
//
// Scaling and unit conversion work on the returned model.Recipe, see the
// scale and model packages. ParseAll parses many recipes concurrently.
package cooklang
