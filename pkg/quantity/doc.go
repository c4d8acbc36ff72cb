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

// Package quantity holds the values and quantities of an analyzed recipe.
//
// A Value is a number, an inclusive range or free text. A ScalableValue adds
// the scaling behavior: Fixed, Linear, or ByServings with one value per
// declared serving count. A Quantity pairs a ScalableValue with the unit text
// written in the recipe; units are resolved lazily against a convert.Converter
// when quantities are added, converted or fitted to the best unit.
//
// Only Fixed values can be added, so scalable quantities must be scaled first:
//
//	total, err := a.TryAdd(b, convert.Default())
package quantity
