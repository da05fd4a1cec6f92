package sass

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// errPlainCSS tells the caller to render the call as a plain CSS function,
// as for rgb(var(--c)) or the grayscale() filter.
var errPlainCSS = errors.New("plain CSS function")

func init() {
	register(builtin{params: []string{"red", "green", "blue", "alpha"}, required: 1, fn: rgbFunc}, "rgb", "rgba")
	register(builtin{params: []string{"hue", "saturation", "lightness", "alpha"}, required: 1, fn: hslFunc}, "hsl", "hsla")

	register(builtin{params: []string{"color"}, required: 1, fn: channel(func(c Color) Value { return Number{Value: math.Round(c.R)} })}, "red", "color.red")
	register(builtin{params: []string{"color"}, required: 1, fn: channel(func(c Color) Value { return Number{Value: math.Round(c.G)} })}, "green", "color.green")
	register(builtin{params: []string{"color"}, required: 1, fn: channel(func(c Color) Value { return Number{Value: math.Round(c.B)} })}, "blue", "color.blue")
	register(builtin{params: []string{"color"}, required: 1, fn: channel(func(c Color) Value { h, _, _ := c.hsl(); return Number{Value: h, Unit: "deg"} })}, "hue", "color.hue")
	register(builtin{params: []string{"color"}, required: 1, fn: channel(func(c Color) Value { _, s, _ := c.hsl(); return Number{Value: s, Unit: "%"} })}, "saturation", "color.saturation")
	register(builtin{params: []string{"color"}, required: 1, fn: channel(func(c Color) Value { _, _, l := c.hsl(); return Number{Value: l, Unit: "%"} })}, "lightness", "color.lightness")
	register(builtin{params: []string{"color"}, required: 1, fn: filterOr(channel(func(c Color) Value { return Number{Value: c.Alpha} }))}, "alpha", "opacity", "color.alpha", "color.opacity")

	register(builtin{params: []string{"color", "amount"}, required: 2, fn: hslAdjust("lightness", 1)}, "lighten")
	register(builtin{params: []string{"color", "amount"}, required: 2, fn: hslAdjust("lightness", -1)}, "darken")
	register(builtin{params: []string{"color", "amount"}, required: 1, fn: filterOr(hslAdjust("saturation", 1))}, "saturate")
	register(builtin{params: []string{"color", "amount"}, required: 2, fn: hslAdjust("saturation", -1)}, "desaturate")
	register(builtin{params: []string{"color", "degrees"}, required: 2, fn: adjustHue}, "adjust-hue")
	register(builtin{params: []string{"color"}, required: 1, fn: complement}, "complement", "color.complement")
	register(builtin{params: []string{"color"}, required: 1, fn: filterOr(grayscale)}, "grayscale", "color.grayscale")
	register(builtin{params: []string{"color", "weight"}, required: 1, fn: filterOr(invert)}, "invert", "color.invert")
	register(builtin{params: []string{"color1", "color2", "weight"}, required: 2, fn: mixFunc}, "mix", "color.mix")
	register(builtin{params: []string{"color", "amount"}, required: 2, fn: alphaAdjust(1)}, "opacify", "fade-in")
	register(builtin{params: []string{"color", "amount"}, required: 2, fn: alphaAdjust(-1)}, "transparentize", "fade-out")
	register(builtin{params: colorKeywords, required: 1, fn: adjustColor}, "adjust-color", "color.adjust")
	register(builtin{params: colorKeywords, required: 1, fn: changeColor}, "change-color", "color.change")
	register(builtin{params: colorKeywords, required: 1, fn: scaleColor}, "scale-color", "color.scale")
	register(builtin{params: []string{"color"}, required: 1, fn: ieHexStr}, "ie-hex-str", "color.ie-hex-str")
}

// colorKeywords are the parameters of adjust-color, change-color and
// scale-color; everything after $color is passed by keyword.
var colorKeywords = []string{"color", "red", "green", "blue", "hue", "saturation", "lightness", "alpha"}

func colorArg(v Value, name string) (Color, error) {
	c, ok := v.(Color)
	if !ok {
		return Color{}, fmt.Errorf("$%s: %s is not a color.", name, inspect(v))
	}
	return c, nil
}

// filterOr falls back to the CSS filter function of the same name when the
// first argument is a number.
func filterOr(fn func([]Value) (Value, error)) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		if _, ok := args[0].(Number); ok {
			return nil, errPlainCSS
		}
		return fn(args)
	}
}

func channel(get func(Color) Value) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		c, err := colorArg(args[0], "color")
		if err != nil {
			return nil, err
		}
		return get(c), nil
	}
}

// channelArgs expands rgb(1 2 3 / .5) style single-list arguments.
func channelArgs(args []Value) []Value {
	if args[1] != nil {
		return args
	}
	l, ok := args[0].(List)
	if !ok || l.Bracketed {
		return args
	}
	out := make([]Value, 4)
	items := l.Items
	if l.Separator == SepSlash && len(items) == 2 {
		out[3] = items[1]
		items = asList(items[0])
	}
	if len(items) != 3 {
		return args
	}
	copy(out, items)
	return out
}

// rgbChannel converts a channel argument to [0, 255]; percentages scale.
func rgbChannel(v Value, name string) (float64, error) {
	n, ok := v.(Number)
	if !ok {
		if _, isString := v.(String); isString {
			return 0, errPlainCSS
		}
		return 0, fmt.Errorf("$%s: %s is not a number.", name, inspect(v))
	}
	if n.Unit == "%" {
		return n.Value * 255 / 100, nil
	}
	return n.Value, nil
}

// alphaValue converts an alpha argument to [0, 1]. A missing alpha is opaque.
func alphaValue(v Value) (float64, error) {
	if v == nil {
		return 1, nil
	}
	n, ok := v.(Number)
	if !ok {
		if _, isString := v.(String); isString {
			return 0, errPlainCSS
		}
		return 0, fmt.Errorf("$alpha: %s is not a number.", inspect(v))
	}
	if n.Unit == "%" {
		return n.Value / 100, nil
	}
	return n.Value, nil
}

// special reports whether any argument is a plain string such as var(--c),
// which leaves the call to the browser.
func special(args []Value) bool {
	for _, a := range args {
		if s, ok := a.(String); ok && !s.Quoted {
			return true
		}
	}
	return false
}

func rgbFunc(args []Value) (Value, error) {
	if special(args) {
		return nil, errPlainCSS
	}
	if c, ok := args[0].(Color); ok {
		if args[2] != nil || args[3] != nil {
			return nil, errors.New("Only 2 arguments allowed when passing a color.")
		}
		if args[1] == nil {
			return c, nil
		}
		a, err := alphaValue(args[1])
		if err != nil {
			return nil, err
		}
		return RGBA(c.R, c.G, c.B, a), nil
	}
	args = channelArgs(args)
	var ch [3]float64
	for i, name := range []string{"red", "green", "blue"} {
		if args[i] == nil {
			return nil, fmt.Errorf("Missing argument $%s.", name)
		}
		v, err := rgbChannel(args[i], name)
		if err != nil {
			return nil, err
		}
		ch[i] = v
	}
	a, err := alphaValue(args[3])
	if err != nil {
		return nil, err
	}
	return RGBA(ch[0], ch[1], ch[2], a), nil
}

func hslFunc(args []Value) (Value, error) {
	if special(args) {
		return nil, errPlainCSS
	}
	args = channelArgs(args)
	var ch [3]float64
	for i, name := range []string{"hue", "saturation", "lightness"} {
		if args[i] == nil {
			return nil, fmt.Errorf("Missing argument $%s.", name)
		}
		n, ok := args[i].(Number)
		if !ok {
			if _, isString := args[i].(String); isString {
				return nil, errPlainCSS
			}
			return nil, fmt.Errorf("$%s: %s is not a number.", name, inspect(args[i]))
		}
		ch[i] = n.Value
		if i == 0 {
			ch[i] = degrees(n)
		}
	}
	a, err := alphaValue(args[3])
	if err != nil {
		return nil, err
	}
	return HSLA(ch[0], ch[1], ch[2], a), nil
}

// degrees converts an angle to degrees. Unitless numbers are degrees.
func degrees(n Number) float64 {
	switch n.Unit {
	case "rad":
		return n.Value * 180 / math.Pi
	case "grad":
		return n.Value * 0.9
	case "turn":
		return n.Value * 360
	}
	return n.Value
}

// percentAmount reads an amount given in percent; unitless numbers count
// as percent too.
func percentAmount(v Value, name string) (float64, error) {
	n, err := numberArg(v, name)
	if err != nil {
		return 0, err
	}
	if n.Unit != "" && n.Unit != "%" {
		return 0, fmt.Errorf("$%s: Expected %s to have unit \"%%\" or no units.", name, inspect(n))
	}
	return n.Value, nil
}

// hslAdjust returns lighten, darken, saturate or desaturate.
func hslAdjust(component string, sign float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		c, err := colorArg(args[0], "color")
		if err != nil {
			return nil, err
		}
		if args[1] == nil {
			return nil, errors.New("Missing argument $amount.")
		}
		amount, err := percentAmount(args[1], "amount")
		if err != nil {
			return nil, err
		}
		if amount < 0 || amount > 100 {
			return nil, fmt.Errorf("$amount: Expected %s to be within 0%% and 100%%.", inspect(args[1]))
		}
		h, s, l := c.hsl()
		if component == "lightness" {
			l += sign * amount
		} else {
			s += sign * amount
		}
		return HSLA(h, s, l, c.Alpha), nil
	}
}

func adjustHue(args []Value) (Value, error) {
	c, err := colorArg(args[0], "color")
	if err != nil {
		return nil, err
	}
	n, err := numberArg(args[1], "degrees")
	if err != nil {
		return nil, err
	}
	h, s, l := c.hsl()
	return HSLA(h+degrees(n), s, l, c.Alpha), nil
}

func complement(args []Value) (Value, error) {
	c, err := colorArg(args[0], "color")
	if err != nil {
		return nil, err
	}
	h, s, l := c.hsl()
	return HSLA(h+180, s, l, c.Alpha), nil
}

func grayscale(args []Value) (Value, error) {
	c, err := colorArg(args[0], "color")
	if err != nil {
		return nil, err
	}
	h, _, l := c.hsl()
	return HSLA(h, 0, l, c.Alpha), nil
}

func invert(args []Value) (Value, error) {
	c, err := colorArg(args[0], "color")
	if err != nil {
		return nil, err
	}
	weight := 100.0
	if args[1] != nil {
		if weight, err = percentAmount(args[1], "weight"); err != nil {
			return nil, err
		}
	}
	inverted := RGBA(255-c.R, 255-c.G, 255-c.B, c.Alpha)
	return mix(inverted, c, weight/100), nil
}

func mixFunc(args []Value) (Value, error) {
	a, err := colorArg(args[0], "color1")
	if err != nil {
		return nil, err
	}
	b, err := colorArg(args[1], "color2")
	if err != nil {
		return nil, err
	}
	weight := 50.0
	if args[2] != nil {
		if weight, err = percentAmount(args[2], "weight"); err != nil {
			return nil, err
		}
	}
	return mix(a, b, clamp(weight, 0, 100)/100), nil
}

// alphaAdjust returns opacify (sign 1) or transparentize (sign -1).
func alphaAdjust(sign float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		c, err := colorArg(args[0], "color")
		if err != nil {
			return nil, err
		}
		n, err := numberArg(args[1], "amount")
		if err != nil {
			return nil, err
		}
		amount := n.Value
		if n.Unit == "%" {
			amount /= 100
		}
		return RGBA(c.R, c.G, c.B, c.Alpha+sign*amount), nil
	}
}

// colorChanges holds the keyword arguments of adjust-color and friends.
// Missing keywords are nil.
type colorChanges struct {
	rgb   [3]*Number
	hsl   [3]*Number
	alpha *Number
}

func readChanges(args []Value) (colorChanges, error) {
	var ch colorChanges
	for i, v := range args[1:] {
		if v == nil {
			continue
		}
		n, err := numberArg(v, colorKeywords[i+1])
		if err != nil {
			return ch, err
		}
		switch {
		case i < 3:
			ch.rgb[i] = &n
		case i < 6:
			ch.hsl[i-3] = &n
		default:
			ch.alpha = &n
		}
	}
	if ch.hasRGB() && ch.hasHSL() {
		return ch, errors.New("RGB parameters may not be passed along with HSL parameters.")
	}
	return ch, nil
}

func (ch colorChanges) hasRGB() bool {
	return ch.rgb[0] != nil || ch.rgb[1] != nil || ch.rgb[2] != nil
}

func (ch colorChanges) hasHSL() bool {
	return ch.hsl[0] != nil || ch.hsl[1] != nil || ch.hsl[2] != nil
}

// applyChanges combines each channel with its change through op. The
// channel maxima are 255 for RGB, 360 for hue, 100 for saturation and
// lightness, and 1 for alpha.
func applyChanges(c Color, ch colorChanges, op func(cur float64, n Number, max float64) float64) Color {
	alpha := c.Alpha
	if ch.alpha != nil {
		alpha = op(alpha, *ch.alpha, 1)
	}
	if ch.hasHSL() {
		hsl := [3]float64{}
		hsl[0], hsl[1], hsl[2] = c.hsl()
		for i, n := range ch.hsl {
			if n == nil {
				continue
			}
			max := 100.0
			if i == 0 {
				max = 360
			}
			hsl[i] = op(hsl[i], *n, max)
		}
		return HSLA(hsl[0], hsl[1], hsl[2], alpha)
	}
	rgb := [3]float64{c.R, c.G, c.B}
	for i, n := range ch.rgb {
		if n != nil {
			rgb[i] = op(rgb[i], *n, 255)
		}
	}
	return RGBA(rgb[0], rgb[1], rgb[2], alpha)
}

func colorChange(op func(cur float64, n Number, max float64) float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		c, err := colorArg(args[0], "color")
		if err != nil {
			return nil, err
		}
		ch, err := readChanges(args)
		if err != nil {
			return nil, err
		}
		return applyChanges(c, ch, op), nil
	}
}

var (
	adjustColor = colorChange(func(cur float64, n Number, max float64) float64 {
		if max == 360 {
			return cur + degrees(n)
		}
		return cur + n.Value
	})
	changeColor = colorChange(func(_ float64, n Number, max float64) float64 {
		if max == 360 {
			return degrees(n)
		}
		return n.Value
	})
	scaleColor = colorChange(func(cur float64, n Number, max float64) float64 {
		scale := n.Value / 100
		if scale > 0 {
			return cur + (max-cur)*scale
		}
		return cur + cur*scale
	})
)

func ieHexStr(args []Value) (Value, error) {
	c, err := colorArg(args[0], "color")
	if err != nil {
		return nil, err
	}
	r, g, b := c.channels()
	a := int(math.Round(c.Alpha * 255))
	return String{Text: strings.ToUpper(fmt.Sprintf("#%02x%02x%02x%02x", a, r, g, b))}, nil
}
