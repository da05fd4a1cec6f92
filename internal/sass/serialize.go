package sass

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// toCSS renders v as a CSS declaration value.
func toCSS(v Value, compressed bool) (string, error) {
	switch t := v.(type) {
	case Null:
		return "", nil
	case Bool:
		if t {
			return "true", nil
		}
		return "false", nil
	case Number:
		return formatNumber(t.Value, compressed) + t.Unit, nil
	case String:
		if t.Quoted {
			return quoteString(t.Text), nil
		}
		return t.Text, nil
	case Color:
		return t.css(compressed), nil
	case List:
		if len(t.Items) == 0 && !t.Bracketed {
			return "", errors.New("() isn't a valid CSS value.")
		}
		parts := make([]string, 0, len(t.Items))
		for _, item := range t.Items {
			if _, ok := item.(Null); ok {
				continue
			}
			s, err := toCSS(item, compressed)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		s := strings.Join(parts, separatorText(t.Separator, compressed))
		if t.Bracketed {
			s = "[" + s + "]"
		}
		return s, nil
	case *Map:
		return "", fmt.Errorf("%s isn't a valid CSS value.", inspect(t))
	}
	return "", fmt.Errorf("unsupported value %T", v)
}

func separatorText(sep Separator, compressed bool) string {
	switch sep {
	case SepComma:
		if compressed {
			return ","
		}
		return ", "
	case SepSlash:
		return "/"
	}
	return " "
}

// formatNumber prints f with at most ten fractional digits and no trailing
// zeros. Compressed output drops the leading zero of fractions.
func formatNumber(f float64, compressed bool) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'f', 10, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		s = "0"
	}
	if compressed {
		switch {
		case strings.HasPrefix(s, "0."):
			s = s[1:]
		case strings.HasPrefix(s, "-0."):
			s = "-" + s[2:]
		}
	}
	return s
}

// quoteString renders text as a CSS string literal, preferring double quotes.
func quoteString(text string) string {
	quote := byte('"')
	if strings.IndexByte(text, '"') >= 0 && strings.IndexByte(text, '\'') < 0 {
		quote = '\''
	}
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte(quote)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == quote || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString("\\a ")
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// interpString renders v for #{} interpolation: strings lose their quotes
// and null becomes empty.
func interpString(v Value) string {
	switch t := v.(type) {
	case Null:
		return ""
	case String:
		return t.Text
	case List:
		parts := make([]string, 0, len(t.Items))
		for _, item := range t.Items {
			if _, ok := item.(Null); ok {
				continue
			}
			parts = append(parts, interpString(item))
		}
		s := strings.Join(parts, separatorText(t.Separator, false))
		if t.Bracketed {
			s = "[" + s + "]"
		}
		return s
	case *Map:
		return inspect(t)
	}
	s, _ := toCSS(v, false)
	return s
}

// inspect renders v the way @debug and inspect() show it.
func inspect(v Value) string {
	switch t := v.(type) {
	case Null:
		return "null"
	case List:
		if len(t.Items) == 0 {
			if t.Bracketed {
				return "[]"
			}
			return "()"
		}
		parts := make([]string, len(t.Items))
		for i, item := range t.Items {
			parts[i] = inspect(item)
		}
		s := strings.Join(parts, separatorText(t.Separator, false))
		if t.Bracketed {
			return "[" + s + "]"
		}
		if len(t.Items) == 1 && t.Separator == SepComma {
			return "(" + s + ",)"
		}
		return s
	case *Map:
		parts := make([]string, t.Len())
		for i, k := range t.keys {
			parts[i] = inspect(k) + ": " + inspect(t.values[i])
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	s, _ := toCSS(v, false)
	return s
}

// messageText renders the argument of @debug, @warn and @error.
func messageText(v Value) string {
	if s, ok := v.(String); ok {
		return s.Text
	}
	return inspect(v)
}
