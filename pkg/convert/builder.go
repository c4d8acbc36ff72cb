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
	"cmp"
	"log/slog"
	"maps"
	"slices"
	"strings"

	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
)

// Builder accumulates units documents and produces a Converter.
type Builder struct {
	units         []*Unit
	index         map[string]int
	extend        []Extend
	si            SI
	best          [numQuantities]*BestUnits
	defaultSystem System
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// AddDocument adds every unit of doc. Best units of a quantity replace the
// ones of earlier documents; extend blocks and SI prefixes are applied by
// Finish in the order the documents were added.
func (b *Builder) AddDocument(doc *Document) error {
	if doc == nil {
		return cerrors.New(cerrors.ErrCodeInvalidUnits, "nil units document")
	}
	added := 0
	for _, group := range doc.Quantity {
		if group.Quantity < 0 || int(group.Quantity) >= numQuantities {
			return cerrors.NewWithContext(cerrors.ErrCodeInvalidUnits, "unknown physical quantity",
				map[string]any{"quantity": int(group.Quantity)})
		}
		add := func(entries []UnitEntry, system System) error {
			for _, e := range entries {
				u := &Unit{
					Names:            slices.Clone(e.Names),
					Symbols:          slices.Clone(e.Symbols),
					Aliases:          slices.Clone(e.Aliases),
					Ratio:            e.Ratio,
					Difference:       e.Difference,
					PhysicalQuantity: group.Quantity,
					System:           system,
					expandSI:         e.ExpandSI,
				}
				if _, err := b.addUnit(u); err != nil {
					return err
				}
				added++
			}
			return nil
		}
		if group.Units.BySystem {
			if err := add(group.Units.Metric, Metric); err != nil {
				return err
			}
			if err := add(group.Units.Imperial, Imperial); err != nil {
				return err
			}
			if err := add(group.Units.Unspecified, Unspecified); err != nil {
				return err
			}
		} else if err := add(group.Units.Unified, Unspecified); err != nil {
			return err
		}

		if group.Best != nil {
			if group.Best.isEmpty() {
				return cerrors.NewWithContext(cerrors.ErrCodeInvalidUnits, "best units are empty",
					map[string]any{"quantity": group.Quantity.String(), "reason": "empty list of units"})
			}
			best := *group.Best
			b.best[group.Quantity] = &best
		}
	}

	if doc.Extend != nil {
		b.extend = append(b.extend, *doc.Extend)
	}

	if doc.SI != nil {
		b.si.Prefixes = joinPrefixes(b.si.Prefixes, doc.SI.Prefixes, doc.SI.Precedence)
		b.si.SymbolPrefixes = joinPrefixes(b.si.SymbolPrefixes, doc.SI.SymbolPrefixes, doc.SI.Precedence)
		b.si.Precedence = doc.SI.Precedence
	}

	if doc.DefaultSystem != nil {
		b.defaultSystem = *doc.DefaultSystem
	}

	slog.Debug("units document added", "units", added, "total", len(b.units))
	return nil
}

// Finish expands SI units, applies the extend blocks and builds the best
// unit ladders. Every physical quantity needs best units.
func (b *Builder) Finish() (*Converter, error) {
	base := len(b.units)
	for id := 0; id < base; id++ {
		u := b.units[id]
		if !u.expandSI {
			continue
		}
		expanded, err := b.expandSI(u)
		if err != nil {
			return nil, err
		}
		u.expanded = make([]int, len(expanded))
		for i, e := range expanded {
			eid, err := b.addUnit(e)
			if err != nil {
				return nil, err
			}
			u.expanded[i] = eid
		}
	}

	for _, ext := range b.extend {
		for _, field := range []struct {
			values map[string][]string
			get    func(*Unit) *[]string
		}{
			{ext.Aliases, func(u *Unit) *[]string { return &u.Aliases }},
			{ext.Names, func(u *Unit) *[]string { return &u.Names }},
			{ext.Symbols, func(u *Unit) *[]string { return &u.Symbols }},
		} {
			for _, key := range slices.Sorted(maps.Keys(field.values)) {
				if err := b.extendUnit(key, field.values[key], field.get, ext.Precedence); err != nil {
					return nil, err
				}
			}
		}
	}

	c := &Converter{
		units:         b.units,
		index:         b.index,
		defaultSystem: b.defaultSystem,
	}
	if c.defaultSystem == Unspecified {
		c.defaultSystem = Metric
	}

	for _, q := range PhysicalQuantities() {
		best := b.best[q]
		if best == nil {
			return nil, cerrors.NewWithContext(cerrors.ErrCodeInvalidUnits, "best units are empty",
				map[string]any{"quantity": q.String(), "reason": "no best units given"})
		}
		store, err := b.bestStore(best)
		if err != nil {
			return nil, err
		}
		c.best[q] = store
	}

	for id, u := range c.units {
		c.byQuantity[u.PhysicalQuantity] = append(c.byQuantity[u.PhysicalQuantity], id)
	}

	slog.Debug("unit converter built", "units", len(c.units), "keys", len(c.index))
	return c, nil
}

func (b *Builder) addUnit(u *Unit) (int, error) {
	id := len(b.units)
	u.id = id
	if err := b.indexUnit(u); err != nil {
		return 0, err
	}
	b.units = append(b.units, u)
	return id, nil
}

func (b *Builder) indexUnit(u *Unit) error {
	keys := u.keys()
	if len(keys) == 0 {
		return cerrors.NewWithContext(cerrors.ErrCodeInvalidUnits, "unit without names, symbols or aliases",
			map[string]any{"quantity": u.PhysicalQuantity.String()})
	}
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			return cerrors.NewWithContext(cerrors.ErrCodeInvalidUnits, "unit with an empty name, symbol or alias",
				map[string]any{"quantity": u.PhysicalQuantity.String(), "unit": cmp.Or(u.Symbol(), "-")})
		}
		if _, dup := b.index[key]; dup {
			return cerrors.NewWithContext(cerrors.ErrCodeInvalidUnits, "duplicate unit: "+key,
				map[string]any{"name": key})
		}
		b.index[key] = u.id
	}
	return nil
}

// unindex removes the keys of a unit and of its SI expansions.
func (b *Builder) unindex(u *Unit) {
	for _, id := range u.expanded {
		b.unindex(b.units[id])
	}
	for _, key := range u.keys() {
		if b.index[key] == u.id {
			delete(b.index, key)
		}
	}
}

func (b *Builder) extendUnit(key string, values []string, field func(*Unit) *[]string, p Precedence) error {
	id, ok := b.index[key]
	if !ok {
		return b.unknownUnit(key)
	}
	u := b.units[id]
	b.unindex(u)
	joinList(field(u), values, p)

	if u.expandSI && u.expanded != nil {
		expanded, err := b.expandSI(u)
		if err != nil {
			return err
		}
		for i, e := range expanded {
			old := b.units[u.expanded[i]]
			e.id = old.id
			e.Aliases = old.Aliases
			b.units[old.id] = e
		}
		for _, eid := range u.expanded {
			if err := b.indexUnit(b.units[eid]); err != nil {
				return err
			}
		}
	}
	return b.indexUnit(u)
}

func (b *Builder) expandSI(u *Unit) ([]*Unit, error) {
	if b.si.Prefixes == nil || b.si.SymbolPrefixes == nil {
		return nil, cerrors.NewWithContext(cerrors.ErrCodeInvalidUnits, "no SI prefixes found when expanding SI on a unit",
			map[string]any{"unit": u.Symbol()})
	}
	out := make([]*Unit, 0, len(allPrefixes))
	for _, prefix := range allPrefixes {
		e := &Unit{
			Ratio:            u.Ratio * prefix.Ratio(),
			Difference:       u.Difference,
			PhysicalQuantity: u.PhysicalQuantity,
			System:           u.System,
		}
		for _, p := range b.si.Prefixes.Get(prefix) {
			for _, n := range u.Names {
				e.Names = append(e.Names, p+n)
			}
		}
		for _, p := range b.si.SymbolPrefixes.Get(prefix) {
			for _, s := range u.Symbols {
				e.Symbols = append(e.Symbols, p+s)
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (b *Builder) bestStore(best *BestUnits) (bestStore, error) {
	if !best.BySystem {
		l, err := b.ladder(best.Unified, Unspecified)
		return bestStore{unified: l}, err
	}
	metric, err := b.ladder(best.Metric, Metric)
	if err != nil {
		return bestStore{}, err
	}
	imperial, err := b.ladder(best.Imperial, Imperial)
	if err != nil {
		return bestStore{}, err
	}
	return bestStore{bySystem: true, metric: metric, imperial: imperial}, nil
}

// ladder resolves a best units list sorted by ratio. Units without a system
// take the system of the list.
func (b *Builder) ladder(names []string, system System) (ladder, error) {
	ids := make([]int, 0, len(names))
	for _, n := range names {
		id, ok := b.index[n]
		if !ok {
			return nil, b.unknownUnit(n)
		}
		ids = append(ids, id)
	}
	if system != Unspecified {
		for _, id := range ids {
			u := b.units[id]
			switch u.System {
			case Unspecified:
				u.System = system
			case system:
			default:
				return nil, cerrors.NewWithContext(cerrors.ErrCodeInvalidUnits, "best unit has an incorrect system",
					map[string]any{"unit": u.Symbol(), "expected": system.String(), "got": u.System.String()})
			}
		}
	}
	slices.SortStableFunc(ids, func(x, y int) int {
		return cmp.Compare(b.units[x].Ratio, b.units[y].Ratio)
	})

	out := make(ladder, 0, len(ids))
	base := b.units[ids[0]]
	out = append(out, rung{threshold: 1, id: ids[0]})
	for _, id := range ids[1:] {
		out = append(out, rung{threshold: convertFloat(1, b.units[id], base), id: id})
	}
	return out, nil
}

func (b *Builder) unknownUnit(key string) error {
	return cerrors.Wrap(cerrors.ErrCodeInvalidUnits, "units document references an unknown unit",
		cerrors.NewWithContext(cerrors.ErrCodeUnknownUnit, "unknown unit: '"+key+"'", map[string]any{"unit": key}))
}

func joinList(target *[]string, src []string, p Precedence) {
	switch p {
	case Before:
		*target = append(slices.Clone(src), *target...)
	case After:
		*target = append(*target, src...)
	case Override:
		*target = slices.Clone(src)
	}
}

func joinPrefixes(a, b *Prefixes, p Precedence) *Prefixes {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	out := &Prefixes{}
	for _, prefix := range allPrefixes {
		switch p {
		case Before:
			out.set(prefix, append(slices.Clone(b.Get(prefix)), a.Get(prefix)...))
		case After:
			out.set(prefix, append(slices.Clone(a.Get(prefix)), b.Get(prefix)...))
		case Override:
			out.set(prefix, slices.Clone(b.Get(prefix)))
		}
	}
	return out
}
