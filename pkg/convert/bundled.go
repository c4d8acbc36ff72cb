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
	_ "embed"
	"sync"

	"github.com/NVIDIA/cooklang/pkg/serializer"
)

//go:embed units.yaml
var bundledUnits []byte

// Bundled returns the units document shipped with the package: common
// volume, mass, length, temperature and time units in English.
func Bundled() (*Document, error) {
	return ParseDocument(bundledUnits, serializer.FormatYAML)
}

var defaultConverter = sync.OnceValues(func() (*Converter, error) {
	return NewBundled()
})

// Default returns a shared converter built from the bundled units. It panics
// if the bundled document is invalid, which is covered by tests.
func Default() *Converter {
	c, err := defaultConverter()
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a converter from docs in order.
func New(docs ...*Document) (*Converter, error) {
	b := NewBuilder()
	for _, d := range docs {
		if err := b.AddDocument(d); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}

// NewBundled builds a converter from the bundled units followed by extra.
func NewBundled(extra ...*Document) (*Converter, error) {
	doc, err := Bundled()
	if err != nil {
		return nil, err
	}
	return New(append([]*Document{doc}, extra...)...)
}
