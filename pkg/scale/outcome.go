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
	"encoding/json"
	"fmt"
)

// OutcomeKind classifies what happened to a value when scaling.
type OutcomeKind int

const (
	// Scaled values changed with the target.
	Scaled OutcomeKind = iota
	// Fixed values are not scaled.
	Fixed
	// NoQuantity components have nothing to scale.
	NoQuantity
	// Error values could not be scaled; the original value is kept.
	Error
)

var outcomeNames = [...]string{
	Scaled:     "scaled",
	Fixed:      "fixed",
	NoQuantity: "no_quantity",
	Error:      "error",
}

func (k OutcomeKind) String() string {
	if k >= 0 && int(k) < len(outcomeNames) {
		return outcomeNames[k]
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome is the result of scaling one component.
type Outcome struct {
	Kind OutcomeKind
	Err  error
}

func (o Outcome) String() string {
	if o.Kind == Error && o.Err != nil {
		return "error: " + o.Err.Error()
	}
	return o.Kind.String()
}

type outcomeJSON struct {
	Type  OutcomeKind `json:"type" yaml:"type"`
	Error string      `json:"error,omitempty" yaml:"error,omitempty"`
}

func (o Outcome) encoded() outcomeJSON {
	out := outcomeJSON{Type: o.Kind}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return out
}

// MarshalJSON writes {"type": kind} with the error message for errors.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.encoded())
}

// MarshalYAML is MarshalJSON for YAML.
func (o Outcome) MarshalYAML() (any, error) {
	return o.encoded(), nil
}
