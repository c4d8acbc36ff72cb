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
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
)

// ValueKind is the kind of a Value.
type ValueKind int

const (
	// KindNumber is a single number.
	KindNumber ValueKind = iota
	// KindRange is an inclusive range of numbers.
	KindRange
	// KindText is free text that cannot be operated on.
	KindText
)

var kindNames = [...]string{
	KindNumber: "number",
	KindRange:  "range",
	KindText:   "text",
}

func (k ValueKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Value is a number, an inclusive range or text. For numbers only Start is
// used.
type Value struct {
	Kind  ValueKind
	Start float64
	End   float64
	Text  string
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{Kind: KindNumber, Start: n, End: n}
}

// Range returns an inclusive range value.
func Range(start, end float64) Value {
	return Value{Kind: KindRange, Start: start, End: end}
}

// Text returns a text value.
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// IsText reports whether v is a text value.
func (v Value) IsText() bool {
	return v.Kind == KindText
}

// Equal compares two values by kind and content.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Start == o.Start
	case KindRange:
		return v.Start == o.Start && v.End == o.End
	}
	return v.Text == o.Text
}

// Map applies f to the numeric parts of v. Text is returned unchanged.
func (v Value) Map(f func(float64) float64) Value {
	switch v.Kind {
	case KindNumber:
		return Number(f(v.Start))
	case KindRange:
		return Range(f(v.Start), f(v.End))
	}
	return v
}

// Scale multiplies a numeric value by factor.
func (v Value) Scale(factor float64) (Value, error) {
	if v.IsText() {
		return Value{}, textValueError(v)
	}
	return v.Map(func(f float64) float64 { return f * factor }), nil
}

// TryAdd sums two numeric values. A number plus a range shifts both ends of
// the range.
func (v Value) TryAdd(rhs Value) (Value, error) {
	switch {
	case v.IsText():
		return Value{}, textValueError(v)
	case rhs.IsText():
		return Value{}, textValueError(rhs)
	case v.Kind == KindNumber && rhs.Kind == KindNumber:
		return Number(v.Start + rhs.Start), nil
	case v.Kind == KindNumber:
		return Range(rhs.Start+v.Start, rhs.End+v.Start), nil
	case rhs.Kind == KindNumber:
		return Range(v.Start+rhs.Start, v.End+rhs.Start), nil
	}
	return Range(v.Start+rhs.Start, v.End+rhs.End), nil
}

func textValueError(v Value) error {
	return cerrors.NewWithContext(cerrors.ErrCodeInvalidValue,
		"cannot operate on a text value", map[string]any{"value": v.Text})
}

// String displays numbers rounded to three decimals and ranges as "a-b".
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return formatFloat(v.Start)
	case KindRange:
		return formatFloat(v.Start) + "-" + formatFloat(v.End)
	}
	return v.Text
}

// MarshalText renders the value as in String.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func formatFloat(n float64) string {
	r := math.Round(n*1000) / 1000
	if r == 0 {
		r = 0 // no "-0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

type valueJSON struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type rangeJSON struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// MarshalJSON encodes the value as {"type": kind, "value": ...}.
func (v Value) MarshalJSON() ([]byte, error) {
	var inner any
	switch v.Kind {
	case KindNumber:
		inner = v.Start
	case KindRange:
		inner = rangeJSON{v.Start, v.End}
	default:
		inner = v.Text
	}
	raw, err := json.Marshal(inner)
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueJSON{Type: v.Kind.String(), Value: raw})
}

// UnmarshalJSON decodes the MarshalJSON form.
func (v *Value) UnmarshalJSON(data []byte) error {
	var vj valueJSON
	if err := json.Unmarshal(data, &vj); err != nil {
		return err
	}
	switch strings.ToLower(vj.Type) {
	case "number":
		var n float64
		if err := json.Unmarshal(vj.Value, &n); err != nil {
			return err
		}
		*v = Number(n)
	case "range":
		var r rangeJSON
		if err := json.Unmarshal(vj.Value, &r); err != nil {
			return err
		}
		*v = Range(r.Start, r.End)
	case "text":
		var s string
		if err := json.Unmarshal(vj.Value, &s); err != nil {
			return err
		}
		*v = Text(s)
	default:
		return fmt.Errorf("unknown value type %q", vj.Type)
	}
	return nil
}
