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
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
)

type rung struct {
	threshold float64
	id        int
}

// ladder is a best units list sorted by ascending ratio. Thresholds are the
// value of one unit expressed in the first unit.
type ladder []rung

type bestStore struct {
	bySystem bool
	unified  ladder
	metric   ladder
	imperial ladder
}

func (s bestStore) forSystem(system System) ladder {
	if !s.bySystem {
		return s.unified
	}
	if system == Imperial {
		return s.imperial
	}
	return s.metric
}

// Converter holds every known unit and performs conversions between them.
// It is immutable once built and safe for concurrent use.
type Converter struct {
	units         []*Unit
	index         map[string]int
	byQuantity    [numQuantities][]int
	best          [numQuantities]bestStore
	defaultSystem System

	tempOnce sync.Once
	tempRe   *regexp.Regexp
	tempErr  error
}

// Value is a number or an inclusive range to convert.
type Value struct {
	Start   float64 `json:"start" yaml:"start"`
	End     float64 `json:"end" yaml:"end"`
	IsRange bool    `json:"is_range,omitempty" yaml:"is_range,omitempty"`
}

// Number returns a point value.
func Number(n float64) Value {
	return Value{Start: n, End: n}
}

// Range returns an inclusive range value.
func Range(start, end float64) Value {
	return Value{Start: start, End: end, IsRange: true}
}

// ParseValue reads a number, a fraction like "1/2" or a range like "1-2".
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if a, b, ok := strings.Cut(s, "-"); ok && a != "" {
		start, err := parseNumber(a)
		if err != nil {
			return Value{}, err
		}
		end, err := parseNumber(b)
		if err != nil {
			return Value{}, err
		}
		return Range(start, end), nil
	}
	n, err := parseNumber(s)
	if err != nil {
		return Value{}, err
	}
	return Number(n), nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		a, okA := finite(num)
		b, okB := finite(den)
		if !okA || !okB || b == 0 || math.IsInf(a/b, 0) {
			return 0, cerrors.New(cerrors.ErrCodeInvalidValue, fmt.Sprintf("invalid fraction %q", s))
		}
		return a / b, nil
	}
	n, ok := finite(s)
	if !ok {
		return 0, cerrors.New(cerrors.ErrCodeInvalidValue, fmt.Sprintf("invalid number %q", s))
	}
	return n, nil
}

// finite parses s as a float, rejecting NaN and infinities.
func finite(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func (v Value) apply(f func(float64) float64) Value {
	if !v.IsRange {
		return Number(f(v.Start))
	}
	return Range(f(v.Start), f(v.End))
}

func (v Value) String() string {
	if v.IsRange {
		return fmt.Sprintf("%g-%g", v.Start, v.End)
	}
	return fmt.Sprintf("%g", v.Start)
}

type targetKind int

const (
	toUnit targetKind = iota
	toBest
	toSameSystem
)

// Target selects the unit a conversion produces.
type Target struct {
	kind   targetKind
	unit   string
	system System
}

// ToUnit converts to the unit with the given name, symbol or alias.
func ToUnit(key string) Target {
	return Target{kind: toUnit, unit: key}
}

// ToBest converts to the best unit of system for the value.
func ToBest(system System) Target {
	return Target{kind: toBest, system: system}
}

// ToSameSystem converts to the best unit in the unit's own system, or in the
// default system when the unit has none.
func ToSameSystem() Target {
	return Target{kind: toSameSystem}
}

// ParseTarget reads "best", "metric", "imperial" or a unit key.
func ParseTarget(s string) Target {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "best", "fit":
		return ToSameSystem()
	case "metric":
		return ToBest(Metric)
	case "imperial":
		return ToBest(Imperial)
	}
	return ToUnit(strings.TrimSpace(s))
}

func (t Target) String() string {
	switch t.kind {
	case toBest:
		return "best " + t.system.String()
	case toSameSystem:
		return "best"
	}
	return t.unit
}

// DefaultSystem is used for best unit selection of units without a system.
func (c *Converter) DefaultSystem() System {
	return c.defaultSystem
}

// UnitCount is the number of distinct units, SI expansions included.
func (c *Converter) UnitCount() int {
	return len(c.units)
}

// Units returns every known unit.
func (c *Converter) Units() []*Unit {
	return slices.Clone(c.units)
}

// QuantityUnits returns the units of a physical quantity.
func (c *Converter) QuantityUnits(q PhysicalQuantity) []*Unit {
	if q < 0 || int(q) >= numQuantities {
		return nil
	}
	out := make([]*Unit, 0, len(c.byQuantity[q]))
	for _, id := range c.byQuantity[q] {
		out = append(out, c.units[id])
	}
	return out
}

// Find looks up a unit by name, symbol or alias. The match is exact.
func (c *Converter) Find(key string) (*Unit, bool) {
	id, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return c.units[id], true
}

// Get is Find returning an UNKNOWN_UNIT error that suggests a similar key.
func (c *Converter) Get(key string) (*Unit, error) {
	if u, ok := c.Find(key); ok {
		return u, nil
	}
	ctx := map[string]any{"unit": key}
	msg := fmt.Sprintf("unknown unit: '%s'", key)
	if s := c.Similar(key); s != "" {
		ctx["suggestion"] = s
		msg += fmt.Sprintf(", did you mean '%s'?", s)
	}
	return nil, cerrors.NewWithContext(cerrors.ErrCodeUnknownUnit, msg, ctx)
}

// Similar returns the known unit key closest to key, or "" when nothing is
// close enough.
func (c *Converter) Similar(key string) string {
	if key == "" {
		return ""
	}
	keys := make([]string, 0, len(c.index))
	for k := range c.index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if ranks := fuzzy.RankFindFold(key, keys); len(ranks) > 0 {
		sort.Stable(ranks)
		if ranks[0].Distance <= len(key) {
			return ranks[0].Target
		}
	}

	best, bestDist := "", 3
	for _, k := range keys {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(key), strings.ToLower(k)); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

// IsBestUnit reports whether u is in a best units ladder and may be chosen
// by best unit selection.
func (c *Converter) IsBestUnit(u *Unit) bool {
	if u == nil || u.PhysicalQuantity < 0 || int(u.PhysicalQuantity) >= numQuantities {
		return false
	}
	store := c.best[u.PhysicalQuantity]
	l := store.unified
	if store.bySystem {
		switch u.System {
		case Metric:
			l = store.metric
		case Imperial:
			l = store.imperial
		default:
			return false
		}
	}
	return slices.ContainsFunc(l, func(r rung) bool { return c.units[r.id] == u })
}

// Convert converts v expressed in the unit named from.
func (c *Converter) Convert(v Value, from string, to Target) (Value, *Unit, error) {
	unit, err := c.Get(from)
	if err != nil {
		return Value{}, nil, err
	}
	return c.ConvertFrom(v, unit, to)
}

// ConvertFrom converts v expressed in unit from.
func (c *Converter) ConvertFrom(v Value, from *Unit, to Target) (Value, *Unit, error) {
	switch to.kind {
	case toBest:
		out, u := c.toBest(v, from, to.system)
		return out, u, nil
	case toSameSystem:
		system := from.System
		if system == Unspecified {
			system = c.defaultSystem
		}
		out, u := c.toBest(v, from, system)
		return out, u, nil
	}

	target, err := c.Get(to.unit)
	if err != nil {
		return Value{}, nil, err
	}
	if from.PhysicalQuantity != target.PhysicalQuantity {
		return Value{}, nil, cerrors.NewWithContext(cerrors.ErrCodeIncompatibleUnits,
			fmt.Sprintf("mixed physical quantities: %s %s", from.PhysicalQuantity, target.PhysicalQuantity),
			map[string]any{"from": from.Symbol(), "to": target.Symbol()})
	}
	return v.apply(func(f float64) float64 { return convertFloat(f, from, target) }), target, nil
}

// toBest picks the last unit of the ladder whose threshold the magnitude of v,
// expressed in the ladder base unit, reaches. Values below every threshold
// use the smallest unit.
func (c *Converter) toBest(v Value, from *Unit, system System) (Value, *Unit) {
	l := c.best[from.PhysicalQuantity].forSystem(system)
	base := c.units[l[0].id]
	norm := convertFloat(math.Abs(v.Start), from, base)

	best := l[0].id
	for i := len(l) - 1; i >= 0; i-- {
		if norm >= l[i].threshold {
			best = l[i].id
			break
		}
	}
	target := c.units[best]
	return v.apply(func(f float64) float64 { return convertFloat(f, from, target) }), target
}

// TemperatureRegexp matches a number followed by a temperature symbol. The
// first group is the number and the second the symbol.
func (c *Converter) TemperatureRegexp() (*regexp.Regexp, error) {
	c.tempOnce.Do(func() {
		var symbols []string
		for _, u := range c.QuantityUnits(Temperature) {
			for _, s := range u.Symbols {
				symbols = append(symbols, regexp.QuoteMeta(s))
			}
		}
		if len(symbols) == 0 {
			c.tempErr = cerrors.New(cerrors.ErrCodeInvalidUnits, "no temperature symbols defined")
			return
		}
		// longest first so "°F" wins over "F"
		slices.SortStableFunc(symbols, func(a, b string) int { return len(b) - len(a) })
		c.tempRe, c.tempErr = regexp.Compile(`([+-]?\d+(?:[.,]\d+)?)\s*(` + strings.Join(symbols, "|") + `)\b`)
	})
	return c.tempRe, c.tempErr
}

// UnitCount is a detailed count of the known units.
type UnitCount struct {
	All        int                      `json:"all" yaml:"all"`
	BySystem   map[System]int           `json:"by_system" yaml:"by_system"`
	ByQuantity map[PhysicalQuantity]int `json:"by_quantity" yaml:"by_quantity"`
}

// Count returns the detailed unit count.
func (c *Converter) Count() UnitCount {
	out := UnitCount{
		All:        len(c.units),
		BySystem:   map[System]int{Metric: 0, Imperial: 0},
		ByQuantity: make(map[PhysicalQuantity]int, numQuantities),
	}
	for _, u := range c.units {
		if u.System != Unspecified {
			out.BySystem[u.System]++
		}
	}
	for _, q := range PhysicalQuantities() {
		out.ByQuantity[q] = len(c.byQuantity[q])
	}
	return out
}
