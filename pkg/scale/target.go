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

package scale

import "slices"

// Target is the serving count a recipe is scaled to.
type Target struct {
	base   int
	target int
	index  int
}

// NewTarget returns a target for scaling from base to target servings.
// declared are the servings written in the recipe; when target is one of
// them its position selects the value of "a|b|c" quantities.
func NewTarget(base, target int, declared []int) Target {
	return Target{base: base, target: target, index: slices.Index(declared, target)}
}

// Factor is target / base.
func (t Target) Factor() float64 {
	if t.base == 0 {
		return float64(t.target)
	}
	return float64(t.target) / float64(t.base)
}

// Index is the position of the target in the declared servings.
func (t Target) Index() (int, bool) {
	return t.index, t.index >= 0
}

// IsIdentity reports whether scaling to t leaves the recipe unchanged: the
// target is the base serving count or the first declared one.
func (t Target) IsIdentity() bool {
	return t.target == t.base || t.index == 0
}

// TargetServings is the requested serving count.
func (t Target) TargetServings() int {
	return t.target
}

// BaseServings is the serving count the recipe is written for.
func (t Target) BaseServings() int {
	return t.base
}
