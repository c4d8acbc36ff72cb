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

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
	"github.com/NVIDIA/cooklang/pkg/serializer"
)

// Document is a units definition document. A converter is built from one or
// more documents, later documents adding to or overriding earlier ones.
type Document struct {
	DefaultSystem *System         `json:"default_system,omitempty" yaml:"default_system,omitempty" toml:"default_system,omitempty"`
	SI            *SI             `json:"si,omitempty" yaml:"si,omitempty" toml:"si,omitempty"`
	Extend        *Extend         `json:"extend,omitempty" yaml:"extend,omitempty" toml:"extend,omitempty"`
	Quantity      []QuantityGroup `json:"quantity,omitempty" yaml:"quantity,omitempty" toml:"quantity,omitempty"`
}

// SI configures the prefixes used to expand units with expand_si set.
type SI struct {
	Prefixes       *Prefixes  `json:"prefixes,omitempty" yaml:"prefixes,omitempty" toml:"prefixes,omitempty"`
	SymbolPrefixes *Prefixes  `json:"symbol_prefixes,omitempty" yaml:"symbol_prefixes,omitempty" toml:"symbol_prefixes,omitempty"`
	Precedence     Precedence `json:"precedence,omitempty" yaml:"precedence,omitempty" toml:"precedence,omitempty"`
}

// Prefixes holds the strings prepended to names or symbols for every SI prefix.
type Prefixes struct {
	Kilo  []string `json:"kilo" yaml:"kilo" toml:"kilo"`
	Hecto []string `json:"hecto" yaml:"hecto" toml:"hecto"`
	Deca  []string `json:"deca" yaml:"deca" toml:"deca"`
	Deci  []string `json:"deci" yaml:"deci" toml:"deci"`
	Centi []string `json:"centi" yaml:"centi" toml:"centi"`
	Milli []string `json:"milli" yaml:"milli" toml:"milli"`
}

// Get returns the strings for prefix p.
func (p *Prefixes) Get(prefix SIPrefix) []string {
	switch prefix {
	case Kilo:
		return p.Kilo
	case Hecto:
		return p.Hecto
	case Deca:
		return p.Deca
	case Deci:
		return p.Deci
	case Centi:
		return p.Centi
	case Milli:
		return p.Milli
	}
	return nil
}

func (p *Prefixes) set(prefix SIPrefix, v []string) {
	switch prefix {
	case Kilo:
		p.Kilo = v
	case Hecto:
		p.Hecto = v
	case Deca:
		p.Deca = v
	case Deci:
		p.Deci = v
	case Centi:
		p.Centi = v
	case Milli:
		p.Milli = v
	}
}

// Extend adds names, symbols or aliases to units defined by earlier
// documents. Keys are any existing name, symbol or alias of the unit.
type Extend struct {
	Precedence Precedence          `json:"precedence,omitempty" yaml:"precedence,omitempty" toml:"precedence,omitempty"`
	Names      map[string][]string `json:"names,omitempty" yaml:"names,omitempty" toml:"names,omitempty"`
	Symbols    map[string][]string `json:"symbols,omitempty" yaml:"symbols,omitempty" toml:"symbols,omitempty"`
	Aliases    map[string][]string `json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases,omitempty"`
}

// QuantityGroup declares the units of one physical quantity.
type QuantityGroup struct {
	Quantity PhysicalQuantity `json:"quantity" yaml:"quantity" toml:"quantity"`
	Best     *BestUnits       `json:"best,omitempty" yaml:"best,omitempty" toml:"best,omitempty"`
	Units    Units            `json:"units" yaml:"units" toml:"units"`
}

// BestUnits is either a single list of units or one list per system.
type BestUnits struct {
	BySystem bool
	Unified  []string
	Metric   []string
	Imperial []string
}

type bestUnitsBySystem struct {
	Metric   []string `json:"metric" yaml:"metric"`
	Imperial []string `json:"imperial" yaml:"imperial"`
}

func (b BestUnits) isEmpty() bool {
	if b.BySystem {
		return len(b.Metric) == 0 || len(b.Imperial) == 0
	}
	return len(b.Unified) == 0
}

// UnmarshalJSON accepts a list or a {metric, imperial} object.
func (b *BestUnits) UnmarshalJSON(data []byte) error {
	if isJSONArray(data) {
		*b = BestUnits{}
		return json.Unmarshal(data, &b.Unified)
	}
	var s bestUnitsBySystem
	if err := strictJSON(data, &s); err != nil {
		return err
	}
	*b = BestUnits{BySystem: true, Metric: s.Metric, Imperial: s.Imperial}
	return nil
}

// UnmarshalYAML accepts a sequence or a {metric, imperial} mapping.
func (b *BestUnits) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		*b = BestUnits{}
		return node.Decode(&b.Unified)
	}
	var s bestUnitsBySystem
	if err := node.Decode(&s); err != nil {
		return err
	}
	*b = BestUnits{BySystem: true, Metric: s.Metric, Imperial: s.Imperial}
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler for non strict decoding.
func (b *BestUnits) UnmarshalTOML(v any) error {
	return viaJSON(v, b)
}

// MarshalJSON writes the list or the per system object.
func (b BestUnits) MarshalJSON() ([]byte, error) {
	if b.BySystem {
		return json.Marshal(bestUnitsBySystem{Metric: b.Metric, Imperial: b.Imperial})
	}
	return json.Marshal(b.Unified)
}

// Units is either a single list of entries without a system or the entries
// split by system.
type Units struct {
	BySystem    bool
	Unified     []UnitEntry
	Metric      []UnitEntry
	Imperial    []UnitEntry
	Unspecified []UnitEntry
}

type unitsBySystem struct {
	Metric      []UnitEntry `json:"metric,omitempty" yaml:"metric,omitempty"`
	Imperial    []UnitEntry `json:"imperial,omitempty" yaml:"imperial,omitempty"`
	Unspecified []UnitEntry `json:"unspecified,omitempty" yaml:"unspecified,omitempty"`
}

func (u *Units) fromBySystem(s unitsBySystem) {
	*u = Units{BySystem: true, Metric: s.Metric, Imperial: s.Imperial, Unspecified: s.Unspecified}
}

// UnmarshalJSON accepts a list or a {metric, imperial, unspecified} object.
func (u *Units) UnmarshalJSON(data []byte) error {
	if isJSONArray(data) {
		*u = Units{}
		return strictJSON(data, &u.Unified)
	}
	var s unitsBySystem
	if err := strictJSON(data, &s); err != nil {
		return err
	}
	u.fromBySystem(s)
	return nil
}

// UnmarshalYAML accepts a sequence or a {metric, imperial, unspecified} mapping.
func (u *Units) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		*u = Units{}
		return node.Decode(&u.Unified)
	}
	var s unitsBySystem
	if err := node.Decode(&s); err != nil {
		return err
	}
	u.fromBySystem(s)
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler for non strict decoding.
func (u *Units) UnmarshalTOML(v any) error {
	return viaJSON(v, u)
}

// MarshalJSON writes the list or the per system object.
func (u Units) MarshalJSON() ([]byte, error) {
	if u.BySystem {
		return json.Marshal(unitsBySystem{Metric: u.Metric, Imperial: u.Imperial, Unspecified: u.Unspecified})
	}
	return json.Marshal(u.Unified)
}

// UnitEntry is one unit declaration.
type UnitEntry struct {
	Names      []string `json:"names" yaml:"names" toml:"names"`
	Symbols    []string `json:"symbols" yaml:"symbols" toml:"symbols"`
	Aliases    []string `json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases,omitempty"`
	Ratio      float64  `json:"ratio" yaml:"ratio" toml:"ratio"`
	Difference float64  `json:"difference,omitempty" yaml:"difference,omitempty" toml:"difference,omitempty"`
	ExpandSI   bool     `json:"expand_si,omitempty" yaml:"expand_si,omitempty" toml:"expand_si,omitempty"`
}

func isJSONArray(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("["))
}

func strictJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// viaJSON decodes the generic value handed to a toml.Unmarshaler through the
// JSON decoder, which already knows about the list or object forms.
func viaJSON(v any, target json.Unmarshaler) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return target.UnmarshalJSON(data)
}

// ReadDocument loads a units document from path. The format is chosen by the
// file extension: .toml, .yaml/.yml or .json.
func ReadDocument(path string) (*Document, error) {
	format := serializer.FormatFromPath(path)
	reader, err := serializer.NewFileReader(format, path)
	if err != nil {
		return nil, cerrors.WrapWithContext(cerrors.ErrCodeInvalidUnits, "failed to open units document", err,
			map[string]any{"path": path})
	}
	defer reader.Close()

	doc, err := decodeDocument(reader, format)
	if err != nil {
		return nil, cerrors.WrapWithContext(cerrors.ErrCodeInvalidUnits, "failed to decode units document", err,
			map[string]any{"path": path})
	}
	return doc, nil
}

// ParseDocument decodes a units document in the given format.
func ParseDocument(data []byte, format serializer.Format) (*Document, error) {
	reader, err := serializer.NewReader(format, bytes.NewReader(data))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidUnits, "unsupported units document format", err)
	}
	doc, err := decodeDocument(reader, format)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidUnits, "failed to decode units document", err)
	}
	return doc, nil
}

// decodeDocument rejects unknown keys in every format. The TOML decoder
// leaves every key below a toml.Unmarshaler undecoded, so TOML is read into
// a generic table and decoded strictly as JSON.
func decodeDocument(reader *serializer.Reader, format serializer.Format) (*Document, error) {
	var doc Document
	if format != serializer.FormatTOML {
		if err := reader.DeserializeStrict(&doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}

	var table map[string]any
	if err := reader.Deserialize(&table); err != nil {
		return nil, err
	}
	data, err := json.Marshal(table)
	if err != nil {
		return nil, fmt.Errorf("failed to convert TOML document: %w", err)
	}
	if err := strictJSON(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}
	return &doc, nil
}

// PhysicalQuantity is the category a unit measures. Units only convert
// within the same physical quantity.
type PhysicalQuantity int

const (
	Volume PhysicalQuantity = iota
	Mass
	Length
	Temperature
	Time

	numQuantities = int(Time) + 1
)

var quantityNames = [numQuantities]string{"volume", "mass", "length", "temperature", "time"}

// PhysicalQuantities returns every physical quantity in declaration order.
func PhysicalQuantities() []PhysicalQuantity {
	return []PhysicalQuantity{Volume, Mass, Length, Temperature, Time}
}

func (q PhysicalQuantity) String() string {
	if q < 0 || int(q) >= numQuantities {
		return fmt.Sprintf("PhysicalQuantity(%d)", int(q))
	}
	return quantityNames[q]
}

// MarshalText implements encoding.TextMarshaler.
func (q PhysicalQuantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *PhysicalQuantity) UnmarshalText(text []byte) error {
	v, err := ParsePhysicalQuantity(string(text))
	if err != nil {
		return err
	}
	*q = v
	return nil
}

// ParsePhysicalQuantity parses a physical quantity name.
func ParsePhysicalQuantity(s string) (PhysicalQuantity, error) {
	for i, n := range quantityNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return PhysicalQuantity(i), nil
		}
	}
	return 0, cerrors.New(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("unknown physical quantity %q", s))
}

// System is a unit system. Unspecified units belong to no system.
type System int

const (
	Unspecified System = iota
	Metric
	Imperial
)

func (s System) String() string {
	switch s {
	case Metric:
		return "metric"
	case Imperial:
		return "imperial"
	}
	return "unspecified"
}

// MarshalText implements encoding.TextMarshaler.
func (s System) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *System) UnmarshalText(text []byte) error {
	v, err := ParseSystem(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSystem parses "metric" or "imperial".
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "metric":
		return Metric, nil
	case "imperial":
		return Imperial, nil
	}
	return Unspecified, cerrors.New(cerrors.ErrCodeInvalidRequest,
		fmt.Sprintf("unknown unit system %q, expected metric or imperial", s))
}

// SIPrefix is one of the prefixes used in SI expansion.
type SIPrefix int

const (
	Kilo SIPrefix = iota
	Hecto
	Deca
	Deci
	Centi
	Milli
)

var allPrefixes = [...]SIPrefix{Kilo, Hecto, Deca, Deci, Centi, Milli}

// Ratio is the multiplication factor of the prefix.
func (p SIPrefix) Ratio() float64 {
	switch p {
	case Kilo:
		return 1e3
	case Hecto:
		return 1e2
	case Deca:
		return 1e1
	case Deci:
		return 1e-1
	case Centi:
		return 1e-2
	case Milli:
		return 1e-3
	}
	return 1
}

func (p SIPrefix) String() string {
	return [...]string{"kilo", "hecto", "deca", "deci", "centi", "milli"}[p]
}

// Precedence controls how extension lists are joined with existing ones.
type Precedence int

const (
	// Before puts the new entries first. This is the default.
	Before Precedence = iota
	// After appends the new entries.
	After
	// Override replaces the existing entries.
	Override
)

func (p Precedence) String() string {
	switch p {
	case After:
		return "after"
	case Override:
		return "override"
	}
	return "before"
}

// MarshalText implements encoding.TextMarshaler.
func (p Precedence) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Precedence) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "before", "":
		*p = Before
	case "after":
		*p = After
	case "override":
		*p = Override
	default:
		return fmt.Errorf("unknown precedence %q, expected before, after or override", string(text))
	}
	return nil
}
