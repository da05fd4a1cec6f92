package scssbuild

import (
	"math"
	"reflect"
	"slices"

	"github.com/yacobolo/scssbuild/internal/sass"
)

// bridgeValue converts a decoded configuration value into a stylesheet value.
// Strings stay quoted, arrays become bracketed comma lists and tables become
// maps keyed by quoted strings. Values with no stylesheet counterpart are null.
func bridgeValue(v any) sass.Value {
	switch t := v.(type) {
	case nil:
		return sass.Null{}
	case string:
		return sass.String{Text: t, Quoted: true}
	case bool:
		return sass.Bool(t)
	case []any:
		items := make([]sass.Value, len(t))
		for i, item := range t {
			items[i] = bridgeValue(item)
		}
		return sass.List{Items: items, Separator: sass.SepComma, Bracketed: true}
	case map[string]any:
		m := sass.NewMap()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			m.Set(sass.String{Text: k, Quoted: true}, bridgeValue(t[k]))
		}
		return m
	}
	return bridgeNumber(v)
}

// bridgeNumber handles the numeric kinds. NaN and infinities are null.
func bridgeNumber(v any) sass.Value {
	var f float64
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f = rv.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(rv.Uint())
	default:
		return sass.Null{}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sass.Null{}
	}
	return sass.Number{Value: f}
}
