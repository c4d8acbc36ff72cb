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

import (
	"github.com/NVIDIA/cooklang/pkg/convert"
	"github.com/NVIDIA/cooklang/pkg/model"
)

// ListEntry is an ingredient list line with the outcome of its scaling.
type ListEntry struct {
	model.ListEntry `yaml:",inline"`
	Outcome         *Outcome `json:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// IngredientList is model.Recipe.IngredientList with outcomes. The outcome
// of a line is the first error among its definitions and their references,
// else the first fixed outcome, else the outcome of the first definition.
func (r *Recipe) IngredientList(c *convert.Converter) []ListEntry {
	list := r.Recipe.IngredientList(c)
	out := make([]ListEntry, len(list))
	for i, e := range list {
		out[i] = ListEntry{ListEntry: e}
		if r.Scaling != nil {
			o := r.outcome(e.Indexes)
			out[i].Outcome = &o
		}
	}
	return out
}

func (r *Recipe) outcome(defs []int) Outcome {
	var related []int
	for _, d := range defs {
		related = append(related, d)
		related = append(related, r.Ingredients[d].ReferencedFrom...)
	}

	outcomes := r.Scaling.Ingredients
	for _, i := range related {
		if outcomes[i].Kind == Error {
			return outcomes[i]
		}
	}
	for _, i := range related {
		if outcomes[i].Kind == Fixed {
			return outcomes[i]
		}
	}
	return outcomes[defs[0]]
}
