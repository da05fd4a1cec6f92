package sass

import "math"

// Value is a value in the stylesheet language.
//
// The set of implementations is closed: Null, Bool, Number, String, Color,
// List and *Map.
type Value interface {
	// TypeName returns the name reported by type-of().
	TypeName() string
}

// Null is the language's null value. Declarations whose value is null are omitted.
type Null struct{}

// Bool is a boolean value.
type Bool bool

// Number is a number with an optional unit ("px", "%", "em", or "" for unitless).
type Number struct {
	Value float64
	Unit  string
}

// String is a quoted or unquoted string. Identifiers and plain CSS function
// calls are unquoted strings.
type String struct {
	Text   string
	Quoted bool
}

// Separator is the separator between list items.
type Separator int

const (
	// SepSpace separates items with whitespace: "1px solid red".
	SepSpace Separator = iota
	// SepComma separates items with commas: "a, b".
	SepComma
	// SepSlash separates items with slashes: "12px/1.5".
	SepSlash
)

// List is an ordered list of values.
type List struct {
	Items     []Value
	Separator Separator
	Bracketed bool
}

// Map is an ordered associative map. Keys are compared with Equal.
type Map struct {
	keys   []Value
	values []Value
}

func (Null) TypeName() string   { return "null" }
func (Bool) TypeName() string   { return "bool" }
func (Number) TypeName() string { return "number" }
func (String) TypeName() string { return "string" }
func (List) TypeName() string   { return "list" }
func (*Map) TypeName() string   { return "map" }

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{}
}

// Set stores v under key, replacing the value of an equal key in place.
func (m *Map) Set(key, v Value) {
	for i, k := range m.keys {
		if Equal(k, key) {
			m.values[i] = v
			return
		}
	}
	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
}

// Get returns the value stored under key.
func (m *Map) Get(key Value) (Value, bool) {
	for i, k := range m.keys {
		if Equal(k, key) {
			return m.values[i], true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Value {
	return append([]Value(nil), m.keys...)
}

// Values returns the values in insertion order.
func (m *Map) Values() []Value {
	return append([]Value(nil), m.values...)
}

// clone returns a shallow copy so merges never mutate their inputs.
func (m *Map) clone() *Map {
	return &Map{
		keys:   append([]Value(nil), m.keys...),
		values: append([]Value(nil), m.values...),
	}
}

// Equal reports whether two values are equal under the language's == operator.
// Quoted and unquoted strings with the same text are equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av.Unit == bv.Unit && math.Abs(av.Value-bv.Value) < 1e-11
	case String:
		bv, ok := b.(String)
		return ok && av.Text == bv.Text
	case Color:
		bv, ok := b.(Color)
		return ok && av.sameAs(bv)
	case List:
		bv, ok := b.(List)
		if !ok || len(av.Items) != len(bv.Items) || av.Bracketed != bv.Bracketed {
			return false
		}
		if len(av.Items) > 1 && av.Separator != bv.Separator {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i, k := range av.keys {
			other, found := bv.Get(k)
			if !found || !Equal(av.values[i], other) {
				return false
			}
		}
		return true
	}
	return false
}

// truthy reports whether v counts as true in @if and boolean operators.
func truthy(v Value) bool {
	switch t := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(t)
	}
	return true
}

// asList returns the items of v viewed as a list. Maps become lists of
// key/value pairs and any other value is a single-item list.
func asList(v Value) []Value {
	switch t := v.(type) {
	case List:
		return t.Items
	case *Map:
		items := make([]Value, 0, t.Len())
		for i, k := range t.keys {
			items = append(items, List{Items: []Value{k, t.values[i]}, Separator: SepSpace})
		}
		return items
	}
	return []Value{v}
}

// separatorOf returns the separator used when v is treated as a list.
func separatorOf(v Value) Separator {
	switch t := v.(type) {
	case List:
		return t.Separator
	case *Map:
		return SepComma
	}
	return SepSpace
}
