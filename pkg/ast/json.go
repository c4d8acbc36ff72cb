package ast

import (
	"encoding/json"
	"fmt"

	"github.com/NVIDIA/cooklang/pkg/span"
)

type tagged struct {
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

// MarshalJSON encodes the line as {"type": "metadata", "value": {...}}.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	type plain Metadata
	return json.Marshal(tagged{Type: "metadata", Value: (*plain)(m)})
}

// MarshalJSON encodes the line with its items tagged by kind.
func (s *Step) MarshalJSON() ([]byte, error) {
	items := make([]tagged, 0, len(s.Items))
	for _, it := range s.Items {
		t, err := tagItem(it)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return json.Marshal(tagged{Type: "step", Value: struct {
		IsText bool     `json:"is_text"`
		Items  []tagged `json:"items"`
	}{s.IsText, items}})
}

// MarshalJSON encodes the line as {"type": "section", "value": {...}}.
func (s *Section) MarshalJSON() ([]byte, error) {
	type plain Section
	return json.Marshal(tagged{Type: "section", Value: (*plain)(s)})
}

// MarshalJSON encodes the line as {"type": "soft_break"}.
func (SoftBreak) MarshalJSON() ([]byte, error) {
	return json.Marshal(tagged{Type: "soft_break"})
}

// MarshalJSON encodes the item as {"type": "<kind>", "value": {...}, "span": ...}.
func (c *ComponentItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string    `json:"type"`
		Value Component `json:"value"`
		Span  span.Span `json:"span"`
	}{c.Component.Kind(), c.Component, c.Span})
}

func tagItem(it Item) (tagged, error) {
	switch v := it.(type) {
	case Text:
		return tagged{Type: "text", Value: v}, nil
	case *ComponentItem:
		return tagged{Type: "component", Value: v}, nil
	}
	return tagged{}, fmt.Errorf("unknown step item %T", it)
}

// MarshalYAML renders the tree with the same shape as its JSON encoding.
func (a *Ast) MarshalYAML() (any, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
