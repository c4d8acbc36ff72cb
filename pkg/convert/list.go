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

package convert

// Summary is the listing view of a unit.
type Summary struct {
	Name     string   `json:"name" yaml:"name"`
	Symbols  []string `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Aliases  []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Quantity string   `json:"quantity" yaml:"quantity"`
	System   string   `json:"system,omitempty" yaml:"system,omitempty"`
	Best     bool     `json:"best,omitempty" yaml:"best,omitempty"`
}

// Filter selects units by physical quantity and system. Empty fields match
// every unit.
type Filter struct {
	Quantity string
	System   string
}

// List summarizes the units matching f in definition order.
func (c *Converter) List(f Filter) ([]Summary, error) {
	units := c.Units()
	if f.Quantity != "" {
		q, err := ParsePhysicalQuantity(f.Quantity)
		if err != nil {
			return nil, err
		}
		units = c.QuantityUnits(q)
	}

	var system *System
	if f.System != "" {
		s, err := ParseSystem(f.System)
		if err != nil {
			return nil, err
		}
		system = &s
	}

	out := make([]Summary, 0, len(units))
	for _, u := range units {
		if system != nil && u.System != *system {
			continue
		}
		v := Summary{
			Name:     u.Name(),
			Symbols:  u.Symbols,
			Aliases:  u.Aliases,
			Quantity: u.PhysicalQuantity.String(),
			Best:     c.IsBestUnit(u),
		}
		if u.System != Unspecified {
			v.System = u.System.String()
		}
		out = append(out, v)
	}
	return out, nil
}
