package sass

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is an sRGB color. Channels are in [0, 255] and Alpha in [0, 1];
// channels are rounded only when the color is written out.
type Color struct {
	R, G, B float64
	Alpha   float64

	// literal is the source text of a color literal. Expanded output keeps
	// it; colors produced by functions have none.
	literal string
}

func (Color) TypeName() string { return "color" }

// RGBA returns a color with each channel clamped to its range.
func RGBA(r, g, b, alpha float64) Color {
	return Color{R: clamp(r, 0, 255), G: clamp(g, 0, 255), B: clamp(b, 0, 255), Alpha: clamp(alpha, 0, 1)}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// parseHexColor parses #rgb, #rgba, #rrggbb and #rrggbbaa.
func parseHexColor(text string) (Color, bool) {
	if len(text) < 4 || text[0] != '#' {
		return Color{}, false
	}
	digits := text[1:]
	for i := 0; i < len(digits); i++ {
		if !isHex(digits[i]) {
			return Color{}, false
		}
	}
	var ch [4]float64
	ch[3] = 255
	switch len(digits) {
	case 3, 4:
		for i := range digits {
			v, _ := strconv.ParseUint(digits[i:i+1], 16, 8)
			ch[i] = float64(v * 17)
		}
	case 6, 8:
		for i := 0; i < len(digits); i += 2 {
			v, _ := strconv.ParseUint(digits[i:i+2], 16, 8)
			ch[i/2] = float64(v)
		}
	default:
		return Color{}, false
	}
	c := RGBA(ch[0], ch[1], ch[2], ch[3]/255)
	c.literal = text
	return c, true
}

// namedColor returns the color for a CSS color keyword.
func namedColor(name string) (Color, bool) {
	lower := strings.ToLower(name)
	if lower == "transparent" {
		return Color{literal: name}, true
	}
	hex, ok := colorsByName[lower]
	if !ok {
		return Color{}, false
	}
	c := RGBA(float64(hex>>16), float64(hex>>8&0xff), float64(hex&0xff), 1)
	c.literal = name
	return c, true
}

// channels returns the rounded red, green and blue channels.
func (c Color) channels() (int, int, int) {
	return int(math.Round(c.R)), int(math.Round(c.G)), int(math.Round(c.B))
}

func (c Color) opaque() bool {
	return math.Abs(c.Alpha-1) < 1e-11
}

// sameAs compares colors channel by channel after rounding.
func (c Color) sameAs(o Color) bool {
	r1, g1, b1 := c.channels()
	r2, g2, b2 := o.channels()
	return r1 == r2 && g1 == g2 && b1 == b2 && math.Abs(c.Alpha-o.Alpha) < 1e-11
}

// css renders the color. Compressed output picks the shortest of the
// color's name and hex forms; expanded output keeps literals as written.
func (c Color) css(compressed bool) string {
	if !compressed && c.literal != "" {
		return c.literal
	}
	r, g, b := c.channels()
	if c.opaque() {
		hex := fmt.Sprintf("#%02x%02x%02x", r, g, b)
		name, named := namesByColor[uint32(r)<<16|uint32(g)<<8|uint32(b)]
		if !compressed {
			if named {
				return name
			}
			return hex
		}
		if hex[1] == hex[2] && hex[3] == hex[4] && hex[5] == hex[6] {
			hex = "#" + hex[1:2] + hex[3:4] + hex[5:6]
		}
		if named && len(name) <= len(hex) {
			return name
		}
		return hex
	}
	if compressed && c.Alpha == 0 && r == 0 && g == 0 && b == 0 {
		return "transparent"
	}
	sep := separatorText(SepComma, compressed)
	return "rgba(" + strconv.Itoa(r) + sep + strconv.Itoa(g) + sep + strconv.Itoa(b) + sep +
		formatNumber(c.Alpha, compressed) + ")"
}

// hsl returns hue in degrees, and saturation and lightness in percent.
func (c Color) hsl() (h, s, l float64) {
	r, g, b := c.R/255, c.G/255, c.B/255
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	delta := hi - lo

	switch {
	case delta == 0:
		h = 0
	case hi == r:
		h = 60 * (g - b) / delta
	case hi == g:
		h = 60*(b-r)/delta + 120
	default:
		h = 60*(r-g)/delta + 240
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	l = (hi + lo) / 2
	switch {
	case delta == 0:
		s = 0
	case l < 0.5:
		s = delta / (hi + lo)
	default:
		s = delta / (2 - hi - lo)
	}
	return h, s * 100, l * 100
}

// HSLA builds a color from hue in degrees and saturation and lightness in percent.
func HSLA(h, s, l, alpha float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360
	s = clamp(s, 0, 100) / 100
	l = clamp(l, 0, 100) / 100

	var m2 float64
	if l <= 0.5 {
		m2 = l * (s + 1)
	} else {
		m2 = l + s - l*s
	}
	m1 := l*2 - m2
	return RGBA(
		hueToRGB(m1, m2, h+1.0/3)*255,
		hueToRGB(m1, m2, h)*255,
		hueToRGB(m1, m2, h-1.0/3)*255,
		alpha,
	)
}

func hueToRGB(m1, m2, h float64) float64 {
	if h < 0 {
		h++
	}
	if h > 1 {
		h--
	}
	switch {
	case h < 1.0/6:
		return m1 + (m2-m1)*h*6
	case h < 1.0/2:
		return m2
	case h < 2.0/3:
		return m1 + (m2-m1)*(2.0/3-h)*6
	}
	return m1
}

// mix blends two colors the way Sass does, weighting by alpha as well as
// by weight, which is the share of a in [0, 1].
func mix(a, b Color, weight float64) Color {
	w := weight*2 - 1
	da := a.Alpha - b.Alpha
	var w1 float64
	if w*da == -1 {
		w1 = (w + 1) / 2
	} else {
		w1 = ((w+da)/(1+w*da) + 1) / 2
	}
	w2 := 1 - w1
	return RGBA(
		a.R*w1+b.R*w2,
		a.G*w1+b.G*w2,
		a.B*w1+b.B*w2,
		a.Alpha*weight+b.Alpha*(1-weight),
	)
}

var colorsByName = map[string]uint32{
	"aliceblue": 0xf0f8ff, "antiquewhite": 0xfaebd7, "aqua": 0x00ffff, "aquamarine": 0x7fffd4,
	"azure": 0xf0ffff, "beige": 0xf5f5dc, "bisque": 0xffe4c4, "black": 0x000000,
	"blanchedalmond": 0xffebcd, "blue": 0x0000ff, "blueviolet": 0x8a2be2, "brown": 0xa52a2a,
	"burlywood": 0xdeb887, "cadetblue": 0x5f9ea0, "chartreuse": 0x7fff00, "chocolate": 0xd2691e,
	"coral": 0xff7f50, "cornflowerblue": 0x6495ed, "cornsilk": 0xfff8dc, "crimson": 0xdc143c,
	"cyan": 0x00ffff, "darkblue": 0x00008b, "darkcyan": 0x008b8b, "darkgoldenrod": 0xb8860b,
	"darkgray": 0xa9a9a9, "darkgreen": 0x006400, "darkgrey": 0xa9a9a9, "darkkhaki": 0xbdb76b,
	"darkmagenta": 0x8b008b, "darkolivegreen": 0x556b2f, "darkorange": 0xff8c00, "darkorchid": 0x9932cc,
	"darkred": 0x8b0000, "darksalmon": 0xe9967a, "darkseagreen": 0x8fbc8f, "darkslateblue": 0x483d8b,
	"darkslategray": 0x2f4f4f, "darkslategrey": 0x2f4f4f, "darkturquoise": 0x00ced1, "darkviolet": 0x9400d3,
	"deeppink": 0xff1493, "deepskyblue": 0x00bfff, "dimgray": 0x696969, "dimgrey": 0x696969,
	"dodgerblue": 0x1e90ff, "firebrick": 0xb22222, "floralwhite": 0xfffaf0, "forestgreen": 0x228b22,
	"fuchsia": 0xff00ff, "gainsboro": 0xdcdcdc, "ghostwhite": 0xf8f8ff, "gold": 0xffd700,
	"goldenrod": 0xdaa520, "gray": 0x808080, "green": 0x008000, "greenyellow": 0xadff2f,
	"grey": 0x808080, "honeydew": 0xf0fff0, "hotpink": 0xff69b4, "indianred": 0xcd5c5c,
	"indigo": 0x4b0082, "ivory": 0xfffff0, "khaki": 0xf0e68c, "lavender": 0xe6e6fa,
	"lavenderblush": 0xfff0f5, "lawngreen": 0x7cfc00, "lemonchiffon": 0xfffacd, "lightblue": 0xadd8e6,
	"lightcoral": 0xf08080, "lightcyan": 0xe0ffff, "lightgoldenrodyellow": 0xfafad2, "lightgray": 0xd3d3d3,
	"lightgreen": 0x90ee90, "lightgrey": 0xd3d3d3, "lightpink": 0xffb6c1, "lightsalmon": 0xffa07a,
	"lightseagreen": 0x20b2aa, "lightskyblue": 0x87cefa, "lightslategray": 0x778899, "lightslategrey": 0x778899,
	"lightsteelblue": 0xb0c4de, "lightyellow": 0xffffe0, "lime": 0x00ff00, "limegreen": 0x32cd32,
	"linen": 0xfaf0e6, "magenta": 0xff00ff, "maroon": 0x800000, "mediumaquamarine": 0x66cdaa,
	"mediumblue": 0x0000cd, "mediumorchid": 0xba55d3, "mediumpurple": 0x9370db, "mediumseagreen": 0x3cb371,
	"mediumslateblue": 0x7b68ee, "mediumspringgreen": 0x00fa9a, "mediumturquoise": 0x48d1cc, "mediumvioletred": 0xc71585,
	"midnightblue": 0x191970, "mintcream": 0xf5fffa, "mistyrose": 0xffe4e1, "moccasin": 0xffe4b5,
	"navajowhite": 0xffdead, "navy": 0x000080, "oldlace": 0xfdf5e6, "olive": 0x808000,
	"olivedrab": 0x6b8e23, "orange": 0xffa500, "orangered": 0xff4500, "orchid": 0xda70d6,
	"palegoldenrod": 0xeee8aa, "palegreen": 0x98fb98, "paleturquoise": 0xafeeee, "palevioletred": 0xdb7093,
	"papayawhip": 0xffefd5, "peachpuff": 0xffdab9, "peru": 0xcd853f, "pink": 0xffc0cb,
	"plum": 0xdda0dd, "powderblue": 0xb0e0e6, "purple": 0x800080, "rebeccapurple": 0x663399,
	"red": 0xff0000, "rosybrown": 0xbc8f8f, "royalblue": 0x4169e1, "saddlebrown": 0x8b4513,
	"salmon": 0xfa8072, "sandybrown": 0xf4a460, "seagreen": 0x2e8b57, "seashell": 0xfff5ee,
	"sienna": 0xa0522d, "silver": 0xc0c0c0, "skyblue": 0x87ceeb, "slateblue": 0x6a5acd,
	"slategray": 0x708090, "slategrey": 0x708090, "snow": 0xfffafa, "springgreen": 0x00ff7f,
	"steelblue": 0x4682b4, "tan": 0xd2b48c, "teal": 0x008080, "thistle": 0xd8bfd8,
	"tomato": 0xff6347, "turquoise": 0x40e0d0, "violet": 0xee82ee, "wheat": 0xf5deb3,
	"white": 0xffffff, "whitesmoke": 0xf5f5f5, "yellow": 0xffff00, "yellowgreen": 0x9acd32,
}

// namesByColor maps a packed RGB value to its shortest name; ties go to
// the alphabetically first name.
var namesByColor map[uint32]string

func init() {
	names := make(map[uint32]string, len(colorsByName))
	for name, v := range colorsByName {
		if old, ok := names[v]; ok && (len(old) < len(name) || (len(old) == len(name) && old < name)) {
			continue
		}
		names[v] = name
	}
	namesByColor = names
}
