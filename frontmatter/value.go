package frontmatter

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// Value is one front-matter value: a Scalar, a List or a *Map.
type Value interface {
	fmt.Stringer
	isValue()
}

// Scalar is a leaf value. Numbers and booleans keep their YAML spelling.
type Scalar string

// List is an ordered sequence of values.
type List []Value

// Map is an ordered string-keyed map. The zero value is ready to use.
type Map struct {
	keys   []string
	values map[string]Value
}

func (Scalar) isValue() {}
func (List) isValue()   {}
func (*Map) isValue()   {}

func (s Scalar) String() string { return string(s) }

func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (m *Map) String() string {
	parts := make([]string, 0, m.Len())
	for _, k := range m.Keys() {
		parts = append(parts, k+": "+m.values[k].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Set stores v under key, keeping the position of an existing key.
func (m *Map) Set(key string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// fromYAML converts the loosely typed values produced by yaml.v2 into Values.
func fromYAML(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Scalar("")
	case yaml.MapSlice:
		m := &Map{}
		for _, item := range t {
			m.Set(fmt.Sprint(item.Key), fromYAML(item.Value))
		}
		return m
	case map[interface{}]interface{}:
		keys := make([]string, 0, len(t))
		byKey := make(map[string]interface{}, len(t))
		for k, v := range t {
			ks := fmt.Sprint(k)
			keys = append(keys, ks)
			byKey[ks] = v
		}
		sort.Strings(keys)
		m := &Map{}
		for _, k := range keys {
			m.Set(k, fromYAML(byKey[k]))
		}
		return m
	case []interface{}:
		l := make(List, len(t))
		for i, item := range t {
			l[i] = fromYAML(item)
		}
		return l
	case string:
		return Scalar(t)
	default:
		return Scalar(fmt.Sprint(t))
	}
}

// FromMapSlice converts an ordered yaml.v2 mapping into a Map.
func FromMapSlice(items yaml.MapSlice) *Map {
	if items == nil {
		return &Map{}
	}
	return fromYAML(items).(*Map)
}
