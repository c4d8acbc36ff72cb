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

// Package scale resizes a recipe to a number of servings.
//
// Ingredient values scale linearly by target / base unless they are fixed.
// Values written as "a|b|c" pick the entry for the target when it is one of
// the servings declared in the metadata. Cookware and timers follow the same
// rules, so a single timer value is fixed and never changes.
//
// Every scalable component gets an Outcome in Data, aligned with the
// recipe collections.
package scale
