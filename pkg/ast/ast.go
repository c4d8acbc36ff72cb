package ast

import (
	"github.com/NVIDIA/cooklang/pkg/span"
)

// Ast is the syntax tree of a recipe, one Line per meaningful source line.
type Ast struct {
	Lines []Line `json:"lines"`
}

// Line is a *Metadata, a *Step, a *Section or a SoftBreak.
type Line interface {
	isLine()
}

// Metadata is ">> key: value".
type Metadata struct {
	Key   Text `json:"key"`
	Value Text `json:"value"`
}

// Step is a paragraph of text and components. Text steps contain a single
// Text item.
type Step struct {
	IsText bool   `json:"is_text"`
	Items  []Item `json:"items"`
}

// Section is "= name". Name is nil for an unnamed section.
type Section struct {
	Name *Text `json:"name,omitempty"`
}

// SoftBreak separates a step from the next line when that line continues it.
type SoftBreak struct{}

func (*Metadata) isLine() {}
func (*Step) isLine()     {}
func (*Section) isLine()  {}
func (SoftBreak) isLine() {}

// Item is a Text or a *ComponentItem.
type Item interface {
	isItem()
}

// ComponentItem is a component with the span from its sigil to its end.
type ComponentItem struct {
	Component Component
	Span      span.Span
}

func (*ComponentItem) isItem() {}

// ItemSpan returns the location of any step item.
func ItemSpan(it Item) span.Span {
	switch v := it.(type) {
	case Text:
		return v.Span()
	case *ComponentItem:
		return v.Span
	}
	return span.Span{}
}
