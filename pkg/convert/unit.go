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

import "fmt"

// Unit is a known unit. Conversion normalizes a value with
// (v + Difference) * Ratio and denormalizes with v / Ratio - Difference.
type Unit struct {
	Names            []string         `json:"names" yaml:"names"`
	Symbols          []string         `json:"symbols" yaml:"symbols"`
	Aliases          []string         `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Ratio            float64          `json:"ratio" yaml:"ratio"`
	Difference       float64          `json:"difference,omitempty" yaml:"difference,omitempty"`
	PhysicalQuantity PhysicalQuantity `json:"physical_quantity" yaml:"physical_quantity"`
	System           System           `json:"system,omitempty" yaml:"system,omitempty"`

	id       int
	expandSI bool
	// expanded holds the ids of the SI prefixed units, indexed by SIPrefix.
	expanded []int
}

// keys returns every name, symbol and alias of the unit.
func (u *Unit) keys() []string {
	out := make([]string, 0, len(u.Names)+len(u.Symbols)+len(u.Aliases))
	out = append(out, u.Names...)
	out = append(out, u.Symbols...)
	return append(out, u.Aliases...)
}

// Symbol is the first symbol, or else the first name, or else the first alias.
func (u *Unit) Symbol() string {
	switch {
	case len(u.Symbols) > 0:
		return u.Symbols[0]
	case len(u.Names) > 0:
		return u.Names[0]
	case len(u.Aliases) > 0:
		return u.Aliases[0]
	}
	return ""
}

// Name is the first name, falling back to Symbol.
func (u *Unit) Name() string {
	if len(u.Names) > 0 {
		return u.Names[0]
	}
	return u.Symbol()
}

// String implements fmt.Stringer using the symbol.
func (u *Unit) String() string {
	return u.Symbol()
}

// Format implements fmt.Formatter: %+v prints the name, every other verb the
// symbol.
func (u *Unit) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('+') {
		fmt.Fprint(f, u.Name())
		return
	}
	fmt.Fprint(f, u.Symbol())
}

func convertFloat(v float64, from, to *Unit) float64 {
	if from == to {
		return v
	}
	norm := (v + from.Difference) * from.Ratio
	return norm/to.Ratio - to.Difference
}
