package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// MetaValue is a metadata value that is either a single string or, when a
// <meta> name repeats on a page, a list of strings.
//
// It marshals to a JSON string when it holds exactly one value and to a
// JSON array otherwise.
type MetaValue struct {
	Values []string
}

// Single returns a MetaValue holding one string.
func Single(v string) MetaValue {
	return MetaValue{Values: []string{v}}
}

// IsList reports whether the value holds more than one string.
func (m MetaValue) IsList() bool {
	return len(m.Values) > 1
}

// First returns the first value, or "" when empty.
func (m MetaValue) First() string {
	if len(m.Values) == 0 {
		return ""
	}
	return m.Values[0]
}

// String renders the value for plain-text output.
func (m MetaValue) String() string {
	if len(m.Values) == 1 {
		return m.Values[0]
	}
	return "[" + strings.Join(m.Values, ", ") + "]"
}

// Append returns a copy of m with v appended.
func (m MetaValue) Append(v string) MetaValue {
	values := make([]string, len(m.Values), len(m.Values)+1)
	copy(values, m.Values)
	return MetaValue{Values: append(values, v)}
}

// MarshalJSON implements json.Marshaler.
func (m MetaValue) MarshalJSON() ([]byte, error) {
	if len(m.Values) == 1 {
		return json.Marshal(m.Values[0])
	}
	if m.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m.Values)
}

// UnmarshalJSON implements json.Unmarshaler. It accepts a string or an array of strings.
func (m *MetaValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		m.Values = []string{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("metadata value must be a string or a list of strings: %w", err)
	}
	m.Values = list
	return nil
}

// Metadata maps a metadata name ("title", "description", "og:image", ...) to its value.
type Metadata map[string]MetaValue

// Keys returns the metadata names in sorted order.
func (md Metadata) Keys() []string {
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Add records value under name. A repeated name turns the value into a list.
func (md Metadata) Add(name, value string) {
	if existing, ok := md[name]; ok {
		md[name] = existing.Append(value)
		return
	}
	md[name] = Single(value)
}
