package sass

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in         float64
		compressed bool
		want       string
	}{
		{3, true, "3"},
		{10, true, "10"},
		{0.5, true, ".5"},
		{0.5, false, "0.5"},
		{-0.25, true, "-.25"},
		{1.0 / 3, false, "0.3333333333"},
		{-1e-12, false, "0"},
		{math.Inf(1), true, "Infinity"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.in, tt.compressed), "formatNumber(%v, %v)", tt.in, tt.compressed)
	}
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `"plain"`, quoteString("plain"))
	assert.Equal(t, `"it's"`, quoteString("it's"))
	assert.Equal(t, `'say "hi"'`, quoteString(`say "hi"`))
	assert.Equal(t, `"both \" and '"`, quoteString(`both " and '`))
	assert.Equal(t, `"a\a b"`, quoteString("a\nb"))
}

func TestToCSS(t *testing.T) {
	list := List{Items: []Value{Number{Value: 1, Unit: "px"}, String{Text: "solid"}, Null{}, String{Text: "red"}}, Separator: SepSpace}
	s, err := toCSS(list, true)
	require.NoError(t, err)
	assert.Equal(t, "1px solid red", s)

	bracketed := List{Items: []Value{String{Text: "a", Quoted: true}, Number{Value: 2}}, Separator: SepComma, Bracketed: true}
	s, err = toCSS(bracketed, false)
	require.NoError(t, err)
	assert.Equal(t, `["a", 2]`, s)

	_, err = toCSS(List{}, true)
	require.EqualError(t, err, "() isn't a valid CSS value.")

	m := NewMap()
	m.Set(String{Text: "k"}, Number{Value: 1})
	_, err = toCSS(m, true)
	require.EqualError(t, err, "(k: 1) isn't a valid CSS value.")
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(String{Text: "a", Quoted: true}, String{Text: "a"}))
	assert.True(t, Equal(Number{Value: 1, Unit: "px"}, Number{Value: 1, Unit: "px"}))
	assert.False(t, Equal(Number{Value: 1, Unit: "px"}, Number{Value: 1}))
	assert.True(t, Equal(Null{}, Null{}))
	assert.False(t, Equal(Null{}, Bool(false)))
	assert.True(t, Equal(
		List{Items: []Value{Number{Value: 1}}, Separator: SepComma},
		List{Items: []Value{Number{Value: 1}}, Separator: SepSpace},
	))

	a, b := NewMap(), NewMap()
	a.Set(String{Text: "x"}, Number{Value: 1})
	a.Set(String{Text: "y"}, Number{Value: 2})
	b.Set(String{Text: "y"}, Number{Value: 2})
	b.Set(String{Text: "x"}, Number{Value: 1})
	assert.True(t, Equal(a, b))
}

func TestMapSetReplacesInPlace(t *testing.T) {
	m := NewMap()
	m.Set(String{Text: "a"}, Number{Value: 1})
	m.Set(String{Text: "b"}, Number{Value: 2})
	m.Set(String{Text: "a", Quoted: true}, Number{Value: 3})

	require.Equal(t, 2, m.Len())
	assert.Equal(t, []Value{String{Text: "a"}, String{Text: "b"}}, m.Keys())
	v, ok := m.Get(String{Text: "a"})
	require.True(t, ok)
	assert.Equal(t, Number{Value: 3}, v)
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(Null{}))
	assert.False(t, truthy(Bool(false)))
	assert.True(t, truthy(Number{}))
	assert.True(t, truthy(String{}))
	assert.True(t, truthy(List{}))
}

func TestIndentedToSCSS(t *testing.T) {
	src := ".a,\n.b\n  color: red\n  // note\n    still comment\n  &:hover\n    color: blue\n"
	got := indentedToSCSS(src)
	assert.Equal(t, ".a, .b {\n\ncolor: red;\n\n\n&:hover {\ncolor: blue;}}\n", got)
}

func TestStripLineComments(t *testing.T) {
	src := "a // gone\nb: \"//kept\"; c: url(//cdn.test/x); /* // kept */"
	assert.Equal(t, "a \nb: \"//kept\"; c: url(//cdn.test/x); /* // kept */", stripLineComments(src))
}

func TestParseHexColor(t *testing.T) {
	c, ok := parseHexColor("#FFF")
	require.True(t, ok)
	assert.Equal(t, "#fff", c.css(true))
	assert.Equal(t, "#FFF", c.css(false))

	c, ok = parseHexColor("#00000080")
	require.True(t, ok)
	assert.InDelta(t, 0.5, c.Alpha, 0.01)

	for _, text := range []string{"#ab", "#abcde", "#ggg", "#main"} {
		_, ok := parseHexColor(text)
		assert.False(t, ok, text)
	}
}

func TestColorCSS(t *testing.T) {
	tests := []struct {
		c          Color
		compressed bool
		want       string
	}{
		{RGBA(255, 0, 0, 1), true, "red"},
		{RGBA(255, 0, 0, 1), false, "red"},
		{RGBA(255, 255, 255, 1), true, "#fff"},
		{RGBA(255, 255, 255, 1), false, "white"},
		{RGBA(17, 34, 51, 1), false, "#112233"},
		{RGBA(51, 102, 153, 0.5), true, "rgba(51,102,153,.5)"},
		{RGBA(51, 102, 153, 0.5), false, "rgba(51, 102, 153, 0.5)"},
		{RGBA(0, 0, 0, 0), true, "transparent"},
		{RGBA(300, -4, 127.6, 1), true, "#ff0080"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.css(tt.compressed))
	}
}

func TestColorEqual(t *testing.T) {
	red, _ := namedColor("RED")
	hex, _ := parseHexColor("#f00")
	assert.True(t, Equal(red, hex))
	assert.False(t, Equal(red, String{Text: "red"}))
	assert.True(t, Equal(RGBA(10.2, 0, 0, 1), RGBA(10, 0, 0, 1)))
}
