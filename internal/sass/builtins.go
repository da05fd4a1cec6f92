package sass

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"
)

type builtin struct {
	params   []string
	required int
	variadic bool // extra positional arguments are appended
	fn       func(args []Value) (Value, error)
}

// bind matches positional and keyword arguments to parameters. Optional
// parameters that were not passed are nil.
func (b builtin) bind(positional []Value, named map[string]Value) ([]Value, error) {
	args := make([]Value, len(b.params))
	if len(positional) > len(b.params) {
		if !b.variadic {
			return nil, fmt.Errorf("Only %d arguments allowed, but %d were passed.", len(b.params), len(positional))
		}
		args = append(args, positional[len(b.params):]...)
	}
	copy(args, positional)
	for name, v := range named {
		i := -1
		for j, p := range b.params {
			if p == name {
				i = j
			}
		}
		if i < 0 {
			return nil, fmt.Errorf("No argument named $%s.", name)
		}
		args[i] = v
	}
	for i := 0; i < b.required; i++ {
		if args[i] == nil {
			return nil, fmt.Errorf("Missing argument $%s.", b.params[i])
		}
	}
	return args, nil
}

var builtins = map[string]builtin{}

func register(b builtin, names ...string) {
	for _, n := range names {
		builtins[n] = b
	}
}

func init() {
	register(builtin{params: []string{"map", "key"}, required: 2, variadic: true, fn: mapGet}, "map-get", "map.get")
	register(builtin{params: []string{"map", "key"}, required: 2, variadic: true, fn: mapHasKey}, "map-has-key", "map.has-key")
	register(builtin{params: []string{"map"}, required: 1, fn: mapKeys}, "map-keys", "map.keys")
	register(builtin{params: []string{"map"}, required: 1, fn: mapValues}, "map-values", "map.values")
	register(builtin{params: []string{"map1", "map2"}, required: 2, fn: mapMerge}, "map-merge", "map.merge")
	register(builtin{params: []string{"map"}, required: 1, variadic: true, fn: mapRemove}, "map-remove", "map.remove")

	register(builtin{params: []string{"list", "n"}, required: 2, fn: nth}, "nth", "list.nth")
	register(builtin{params: []string{"list"}, required: 1, fn: length}, "length", "list.length")
	register(builtin{params: []string{"list1", "list2", "separator", "bracketed"}, required: 2, fn: join}, "join", "list.join")
	register(builtin{params: []string{"list", "val", "separator"}, required: 2, fn: appendValue}, "append", "list.append")
	register(builtin{params: []string{"list", "value"}, required: 2, fn: index}, "index", "list.index")
	register(builtin{params: []string{"list", "n", "value"}, required: 3, fn: setNth}, "set-nth", "list.set-nth")
	register(builtin{params: []string{"lists"}, variadic: true, fn: zip}, "zip", "list.zip")
	register(builtin{params: []string{"list"}, required: 1, fn: listSeparator}, "list-separator", "list.separator")
	register(builtin{params: []string{"list"}, required: 1, fn: isBracketed}, "is-bracketed", "list.is-bracketed")

	register(builtin{params: []string{"string"}, required: 1, fn: quote}, "quote", "string.quote")
	register(builtin{params: []string{"string"}, required: 1, fn: unquote}, "unquote", "string.unquote")
	register(builtin{params: []string{"string"}, required: 1, fn: strLength}, "str-length", "string.length")
	register(builtin{params: []string{"string"}, required: 1, fn: changeCase(strings.ToUpper)}, "to-upper-case", "string.to-upper-case")
	register(builtin{params: []string{"string"}, required: 1, fn: changeCase(strings.ToLower)}, "to-lower-case", "string.to-lower-case")
	register(builtin{params: []string{"string", "substring"}, required: 2, fn: strIndex}, "str-index", "string.index")
	register(builtin{params: []string{"string", "insert", "index"}, required: 3, fn: strInsert}, "str-insert", "string.insert")
	register(builtin{params: []string{"string", "start-at", "end-at"}, required: 2, fn: strSlice}, "str-slice", "string.slice")

	register(builtin{params: []string{"value"}, required: 1, fn: typeOf}, "type-of", "meta.type-of")
	register(builtin{params: []string{"value"}, required: 1, fn: inspectValue}, "inspect", "meta.inspect")

	register(builtin{params: []string{"number"}, required: 1, fn: unit}, "unit", "math.unit")
	register(builtin{params: []string{"number"}, required: 1, fn: unitless}, "unitless", "math.is-unitless")
	register(builtin{params: []string{"number1", "number2"}, required: 2, fn: compatible}, "comparable", "math.compatible")
	register(builtin{params: []string{"number"}, required: 1, fn: percentage}, "percentage", "math.percentage")
	register(builtin{params: []string{"number"}, required: 1, fn: rounding(math.Round)}, "round", "math.round")
	register(builtin{params: []string{"number"}, required: 1, fn: rounding(math.Ceil)}, "ceil", "math.ceil")
	register(builtin{params: []string{"number"}, required: 1, fn: rounding(math.Floor)}, "floor", "math.floor")
	register(builtin{params: []string{"number"}, required: 1, fn: rounding(math.Abs)}, "abs", "math.abs")
	register(builtin{params: []string{"number1", "number2"}, required: 2, fn: mathDiv}, "math.div")
	register(builtin{params: []string{"number"}, required: 1, variadic: true, fn: extremum(-1)}, "math.min")
	register(builtin{params: []string{"number"}, required: 1, variadic: true, fn: extremum(1)}, "math.max")
}

func mapArg(v Value, name string) (*Map, error) {
	switch t := v.(type) {
	case *Map:
		return t, nil
	case List:
		if len(t.Items) == 0 {
			return NewMap(), nil
		}
	}
	return nil, fmt.Errorf("$%s: %s is not a map.", name, inspect(v))
}

func numberArg(v Value, name string) (Number, error) {
	n, ok := v.(Number)
	if !ok {
		return Number{}, fmt.Errorf("$%s: %s is not a number.", name, inspect(v))
	}
	return n, nil
}

func stringArg(v Value, name string) (String, error) {
	s, ok := v.(String)
	if !ok {
		return String{}, fmt.Errorf("$%s: %s is not a string.", name, inspect(v))
	}
	return s, nil
}

// mapLookup follows keys through nested maps.
func mapLookup(args []Value) (Value, bool, error) {
	m, err := mapArg(args[0], "map")
	if err != nil {
		return nil, false, err
	}
	keys := args[1:]
	for i, k := range keys {
		v, ok := m.Get(k)
		if !ok {
			return nil, false, nil
		}
		if i == len(keys)-1 {
			return v, true, nil
		}
		if m, ok = v.(*Map); !ok {
			return nil, false, nil
		}
	}
	return nil, false, nil
}

func mapGet(args []Value) (Value, error) {
	v, ok, err := mapLookup(args)
	if err != nil || !ok {
		return Null{}, err
	}
	return v, nil
}

func mapHasKey(args []Value) (Value, error) {
	_, ok, err := mapLookup(args)
	return Bool(ok), err
}

func mapKeys(args []Value) (Value, error) {
	m, err := mapArg(args[0], "map")
	if err != nil {
		return nil, err
	}
	return List{Items: m.Keys(), Separator: SepComma}, nil
}

func mapValues(args []Value) (Value, error) {
	m, err := mapArg(args[0], "map")
	if err != nil {
		return nil, err
	}
	return List{Items: m.Values(), Separator: SepComma}, nil
}

func mapMerge(args []Value) (Value, error) {
	m1, err := mapArg(args[0], "map1")
	if err != nil {
		return nil, err
	}
	m2, err := mapArg(args[1], "map2")
	if err != nil {
		return nil, err
	}
	out := m1.clone()
	for i, k := range m2.keys {
		out.Set(k, m2.values[i])
	}
	return out, nil
}

func mapRemove(args []Value) (Value, error) {
	m, err := mapArg(args[0], "map")
	if err != nil {
		return nil, err
	}
	out := NewMap()
	for i, k := range m.keys {
		removed := false
		for _, r := range args[1:] {
			if Equal(k, r) {
				removed = true
				break
			}
		}
		if !removed {
			out.Set(k, m.values[i])
		}
	}
	return out, nil
}

func nth(args []Value) (Value, error) {
	items := asList(args[0])
	i, err := listIndex(args[1], len(items))
	if err != nil {
		return nil, err
	}
	return items[i], nil
}

func length(args []Value) (Value, error) {
	return Number{Value: float64(len(asList(args[0])))}, nil
}

func separatorArg(v Value, fallback Separator) (Separator, error) {
	if v == nil {
		return fallback, nil
	}
	s, err := stringArg(v, "separator")
	if err != nil {
		return 0, err
	}
	switch s.Text {
	case "auto":
		return fallback, nil
	case "comma":
		return SepComma, nil
	case "space":
		return SepSpace, nil
	case "slash":
		return SepSlash, nil
	}
	return 0, fmt.Errorf(`$separator: Must be "space", "comma", "slash", or "auto".`)
}

func join(args []Value) (Value, error) {
	a, b := asList(args[0]), asList(args[1])
	fallback := separatorOf(args[0])
	if len(a) <= 1 && len(b) > 1 {
		fallback = separatorOf(args[1])
	}
	sep, err := separatorArg(args[2], fallback)
	if err != nil {
		return nil, err
	}
	bracketed := false
	if l, ok := args[0].(List); ok {
		bracketed = l.Bracketed
	}
	if args[3] != nil {
		bracketed = truthy(args[3])
	}
	items := append(append([]Value(nil), a...), b...)
	return List{Items: items, Separator: sep, Bracketed: bracketed}, nil
}

func appendValue(args []Value) (Value, error) {
	sep, err := separatorArg(args[2], separatorOf(args[0]))
	if err != nil {
		return nil, err
	}
	bracketed := false
	if l, ok := args[0].(List); ok {
		bracketed = l.Bracketed
	}
	items := append(append([]Value(nil), asList(args[0])...), args[1])
	return List{Items: items, Separator: sep, Bracketed: bracketed}, nil
}

func index(args []Value) (Value, error) {
	for i, item := range asList(args[0]) {
		if Equal(item, args[1]) {
			return Number{Value: float64(i + 1)}, nil
		}
	}
	return Null{}, nil
}

// listIndex converts a 1-based Sass index, negative from the end, to a
// 0-based one.
func listIndex(v Value, n int) (int, error) {
	num, err := numberArg(v, "n")
	if err != nil {
		return 0, err
	}
	i := int(num.Value)
	if float64(i) != num.Value || i == 0 || i > n || -i > n {
		return 0, fmt.Errorf("$n: Invalid index %s for a list with %d elements.", inspect(num), n)
	}
	if i < 0 {
		return n + i, nil
	}
	return i - 1, nil
}

func setNth(args []Value) (Value, error) {
	items := slices.Clone(asList(args[0]))
	i, err := listIndex(args[1], len(items))
	if err != nil {
		return nil, err
	}
	items[i] = args[2]
	bracketed := false
	if l, ok := args[0].(List); ok {
		bracketed = l.Bracketed
	}
	return List{Items: items, Separator: separatorOf(args[0]), Bracketed: bracketed}, nil
}

func zip(args []Value) (Value, error) {
	lists := make([][]Value, 0, len(args))
	shortest := -1
	for _, a := range args {
		if a == nil {
			continue
		}
		items := asList(a)
		lists = append(lists, items)
		if shortest < 0 || len(items) < shortest {
			shortest = len(items)
		}
	}
	out := make([]Value, 0, max(shortest, 0))
	for i := 0; i < shortest; i++ {
		row := make([]Value, len(lists))
		for j, l := range lists {
			row[j] = l[i]
		}
		out = append(out, List{Items: row, Separator: SepSpace})
	}
	return List{Items: out, Separator: SepComma}, nil
}

func listSeparator(args []Value) (Value, error) {
	switch separatorOf(args[0]) {
	case SepComma:
		return String{Text: "comma"}, nil
	case SepSlash:
		return String{Text: "slash"}, nil
	}
	return String{Text: "space"}, nil
}

func isBracketed(args []Value) (Value, error) {
	l, ok := args[0].(List)
	return Bool(ok && l.Bracketed), nil
}

func quote(args []Value) (Value, error) {
	s, err := stringArg(args[0], "string")
	if err != nil {
		return nil, err
	}
	return String{Text: s.Text, Quoted: true}, nil
}

func unquote(args []Value) (Value, error) {
	s, err := stringArg(args[0], "string")
	if err != nil {
		return nil, err
	}
	return String{Text: s.Text}, nil
}

func strLength(args []Value) (Value, error) {
	s, err := stringArg(args[0], "string")
	if err != nil {
		return nil, err
	}
	return Number{Value: float64(utf8.RuneCountInString(s.Text))}, nil
}

// strIndex returns the 1-based rune index of substring, or null.
func strIndex(args []Value) (Value, error) {
	s, err := stringArg(args[0], "string")
	if err != nil {
		return nil, err
	}
	sub, err := stringArg(args[1], "substring")
	if err != nil {
		return nil, err
	}
	i := strings.Index(s.Text, sub.Text)
	if i < 0 {
		return Null{}, nil
	}
	return Number{Value: float64(utf8.RuneCountInString(s.Text[:i]) + 1)}, nil
}

// runeIndex converts a 1-based Sass string index, negative from the end,
// to a rune offset in [0, n].
func runeIndex(v Value, name string, n int) (int, error) {
	num, err := numberArg(v, name)
	if err != nil {
		return 0, err
	}
	if num.Unit != "" {
		return 0, fmt.Errorf("$%s: Expected %s to have no units.", name, inspect(num))
	}
	i := int(num.Value)
	if i < 0 {
		i = n + i + 1
	}
	return i, nil
}

func strSlice(args []Value) (Value, error) {
	s, err := stringArg(args[0], "string")
	if err != nil {
		return nil, err
	}
	runes := []rune(s.Text)
	start, err := runeIndex(args[1], "start-at", len(runes))
	if err != nil {
		return nil, err
	}
	end := len(runes)
	if args[2] != nil {
		if end, err = runeIndex(args[2], "end-at", len(runes)); err != nil {
			return nil, err
		}
	}
	start = max(start, 1)
	end = min(end, len(runes))
	if end < start {
		return String{Quoted: s.Quoted}, nil
	}
	return String{Text: string(runes[start-1 : end]), Quoted: s.Quoted}, nil
}

func strInsert(args []Value) (Value, error) {
	s, err := stringArg(args[0], "string")
	if err != nil {
		return nil, err
	}
	ins, err := stringArg(args[1], "insert")
	if err != nil {
		return nil, err
	}
	runes := []rune(s.Text)
	n, err := numberArg(args[2], "index")
	if err != nil {
		return nil, err
	}
	// Positive indexes insert before the character, negative ones after it.
	i := int(n.Value)
	switch {
	case i > 0:
		i = min(i-1, len(runes))
	case i < 0:
		i = max(len(runes)+i+1, 0)
	}
	text := string(runes[:i]) + ins.Text + string(runes[i:])
	return String{Text: text, Quoted: s.Quoted}, nil
}

func changeCase(fn func(string) string) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		s, err := stringArg(args[0], "string")
		if err != nil {
			return nil, err
		}
		return String{Text: fn(s.Text), Quoted: s.Quoted}, nil
	}
}

func typeOf(args []Value) (Value, error) {
	return String{Text: args[0].TypeName()}, nil
}

func inspectValue(args []Value) (Value, error) {
	return String{Text: inspect(args[0])}, nil
}

func unit(args []Value) (Value, error) {
	n, err := numberArg(args[0], "number")
	if err != nil {
		return nil, err
	}
	return String{Text: n.Unit, Quoted: true}, nil
}

func unitless(args []Value) (Value, error) {
	n, err := numberArg(args[0], "number")
	if err != nil {
		return nil, err
	}
	return Bool(n.Unit == ""), nil
}

func compatible(args []Value) (Value, error) {
	a, err := numberArg(args[0], "number1")
	if err != nil {
		return nil, err
	}
	b, err := numberArg(args[1], "number2")
	if err != nil {
		return nil, err
	}
	_, err = unitResult(a, b)
	return Bool(err == nil), nil
}

func percentage(args []Value) (Value, error) {
	n, err := numberArg(args[0], "number")
	if err != nil {
		return nil, err
	}
	if n.Unit != "" {
		return nil, fmt.Errorf("$number: Expected %s to have no units.", inspect(n))
	}
	return Number{Value: n.Value * 100, Unit: "%"}, nil
}

func rounding(fn func(float64) float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		n, err := numberArg(args[0], "number")
		if err != nil {
			return nil, err
		}
		return Number{Value: fn(n.Value), Unit: n.Unit}, nil
	}
}

func mathDiv(args []Value) (Value, error) {
	return divide(args[0], args[1])
}

// extremum returns math.min (sign -1) or math.max (sign 1).
func extremum(sign float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		var best Number
		for i, a := range args {
			n, err := numberArg(a, "numbers")
			if err != nil {
				return nil, err
			}
			if i > 0 {
				if _, err := unitResult(best, n); err != nil {
					return nil, err
				}
			}
			if i == 0 || (n.Value-best.Value)*sign > 0 {
				best = n
			}
		}
		return best, nil
	}
}
