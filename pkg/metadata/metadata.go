package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	cerrors "github.com/NVIDIA/cooklang/pkg/errors"
)

// Entry is a single key value pair, as written in the recipe.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Map is an insertion ordered string map. Setting an existing key keeps its
// original position.
type Map struct {
	entries []Entry
}

// Set inserts or replaces key.
func (m *Map) Set(key, value string) {
	for i := range m.entries {
		if m.entries[i].Key == key {
			m.entries[i].Value = value
			return
		}
	}
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Get returns the value of key.
func (m Map) Get(key string) (string, bool) {
	for _, e := range m.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Entries returns the pairs in insertion order.
func (m Map) Entries() []Entry {
	return m.entries
}

// Len is the number of keys.
func (m Map) Len() int {
	return len(m.entries)
}

// MarshalJSON encodes the map as an object keeping the key order.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the map as a mapping node keeping the key order.
func (m Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range m.entries {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Value})
	}
	return node, nil
}

// Metadata of a recipe: every entry in Map plus the well known keys parsed.
type Metadata struct {
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
	Emoji       string      `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Author      *NameAndURL `json:"author,omitempty" yaml:"author,omitempty"`
	Source      *NameAndURL `json:"source,omitempty" yaml:"source,omitempty"`
	Time        *RecipeTime `json:"time,omitempty" yaml:"time,omitempty"`
	Servings    []int       `json:"servings,omitempty" yaml:"servings,omitempty"`
	Map         Map         `json:"map" yaml:"map"`
}

var knownKeys = []string{
	"slug",
	"description",
	"tag",
	"tags",
	"emoji",
	"author",
	"source",
	"time",
	"prep_time",
	"prep time",
	"cook_time",
	"cook time",
	"servings",
}

// Insert stores the entry in the map and, for well known keys, parses the
// value. The entry is kept in the map even if parsing fails.
func (m *Metadata) Insert(key, value string) error {
	m.Map.Set(key, value)

	switch key {
	case "description":
		m.Description = value
	case "tag", "tags":
		tags := strings.Split(value, ",")
		for i, t := range tags {
			tags[i] = strings.TrimSpace(t)
			if !IsValidTag(tags[i]) {
				return invalidValue(key, value, "invalid tag: "+tags[i])
			}
		}
		m.Tags = append(m.Tags, tags...)
	case "emoji":
		if !IsEmoji(value) {
			return invalidValue(key, value, "value is not an emoji: "+value)
		}
		m.Emoji = value
	case "author":
		m.Author = ParseNameAndURL(value)
	case "source":
		m.Source = ParseNameAndURL(value)
	case "time":
		minutes, err := ParseMinutes(value)
		if err != nil {
			return invalidValue(key, value, err.Error())
		}
		m.Time = &RecipeTime{Total: &minutes}
	case "prep_time", "prep time":
		minutes, err := ParseMinutes(value)
		if err != nil {
			return invalidValue(key, value, err.Error())
		}
		m.Time = m.Time.composed()
		m.Time.Prep = &minutes
	case "cook_time", "cook time":
		minutes, err := ParseMinutes(value)
		if err != nil {
			return invalidValue(key, value, err.Error())
		}
		m.Time = m.Time.composed()
		m.Time.Cook = &minutes
	case "servings":
		servings, err := ParseServings(value)
		if err != nil {
			return invalidValue(key, value, err.Error())
		}
		m.Servings = servings
	}
	return nil
}

// MapFiltered returns the entries that are not well known keys.
func (m Metadata) MapFiltered() Map {
	var out Map
	for _, e := range m.Map.entries {
		if !slices.Contains(knownKeys, e.Key) {
			out.entries = append(out.entries, e)
		}
	}
	return out
}

// ParseServings parses "2|4|6" into a sorted list without duplicates.
func ParseServings(s string) ([]int, error) {
	parts := strings.Split(s, "|")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid servings %q: %w", strings.TrimSpace(p), err)
		}
		out = append(out, int(n))
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func invalidValue(key, value, reason string) error {
	return cerrors.NewWithContext(cerrors.ErrCodeInvalidValue, reason,
		map[string]any{"key": key, "value": value})
}
