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

package quantity

import (
	"fmt"
	"strings"

	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
)

// ScaleMode tells how a value reacts to scaling.
type ScaleMode int

const (
	// Fixed values never change.
	Fixed ScaleMode = iota
	// Linear values are multiplied by the scale factor.
	Linear
	// ByServings values pick one entry per declared serving count.
	ByServings
)

var modeNames = [...]string{
	Fixed:      "fixed",
	Linear:     "linear",
	ByServings: "by_servings",
}

func (m ScaleMode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("ScaleMode(%d)", int(m))
}

// MarshalText renders the mode by name.
func (m ScaleMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a mode name.
func (m *ScaleMode) UnmarshalText(text []byte) error {
	for i, n := range modeNames {
		if n == string(text) {
			*m = ScaleMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown scale mode %q", text)
}

// ScalableValue is a value together with its scaling behavior. Fixed and
// Linear values hold exactly one entry in Values; ByServings holds one per
// declared serving count.
type ScalableValue struct {
	Mode   ScaleMode `json:"mode" yaml:"mode"`
	Values []Value   `json:"values" yaml:"values"`
}

// NewFixed returns a value that is not scaled.
func NewFixed(v Value) ScalableValue {
	return ScalableValue{Mode: Fixed, Values: []Value{v}}
}

// NewLinear returns a value that scales linearly.
func NewLinear(v Value) ScalableValue {
	return ScalableValue{Mode: Linear, Values: []Value{v}}
}

// NewByServings returns a value with one entry per serving count.
func NewByServings(vs ...Value) ScalableValue {
	return ScalableValue{Mode: ByServings, Values: vs}
}

// First returns the first value, the only one for Fixed and Linear.
func (s ScalableValue) First() Value {
	if len(s.Values) == 0 {
		return Value{}
	}
	return s.Values[0]
}

// ContainsText reports whether any of the values is text.
func (s ScalableValue) ContainsText() bool {
	for _, v := range s.Values {
		if v.IsText() {
			return true
		}
	}
	return false
}

// Extract returns the value of a Fixed value. Scalable values must be
// resolved by scaling first.
func (s ScalableValue) Extract() (Value, error) {
	if s.Mode != Fixed || len(s.Values) != 1 {
		return Value{}, cerrors.NewWithContext(cerrors.ErrCodeInvalidValue,
			"tried to operate on a non scaled value: "+s.String(),
			map[string]any{"mode": s.Mode.String()})
	}
	return s.Values[0], nil
}

// TryAdd adds two Fixed values. The result is Fixed.
func (s ScalableValue) TryAdd(rhs ScalableValue) (ScalableValue, error) {
	a, err := s.Extract()
	if err != nil {
		return ScalableValue{}, err
	}
	b, err := rhs.Extract()
	if err != nil {
		return ScalableValue{}, err
	}
	sum, err := a.TryAdd(b)
	if err != nil {
		return ScalableValue{}, err
	}
	return NewFixed(sum), nil
}

// Equal compares mode and values.
func (s ScalableValue) Equal(o ScalableValue) bool {
	if s.Mode != o.Mode || len(s.Values) != len(o.Values) {
		return false
	}
	for i := range s.Values {
		if !s.Values[i].Equal(o.Values[i]) {
			return false
		}
	}
	return true
}

func (s ScalableValue) String() string {
	parts := make([]string, len(s.Values))
	for i, v := range s.Values {
		parts[i] = v.String()
	}
	return strings.Join(parts, "|")
}
