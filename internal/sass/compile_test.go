package sass

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileString(t *testing.T) {
	tests := []struct {
		name string
		scss string
		want string
	}{
		{
			name: "plain rule",
			scss: `.a { color: red; }`,
			want: `.a{color:red}`,
		},
		{
			name: "variables",
			scss: `$primary: #333; .a { color: $primary; }`,
			want: `.a{color:#333}`,
		},
		{
			name: "nesting splits rules around children",
			scss: `.nav { color: #333; a { color: red; &:hover { color: blue; } } margin: 0; }`,
			want: `.nav{color:#333}.nav a{color:red}.nav a:hover{color:blue}.nav{margin:0}`,
		},
		{
			name: "selector lists multiply",
			scss: `.a, .b { .c, .d { top: 0; } }`,
			want: `.a .c,.a .d,.b .c,.b .d{top:0}`,
		},
		{
			name: "child combinator is compressed",
			scss: `.a { > .b { top: 0; } }`,
			want: `.a>.b{top:0}`,
		},
		{
			name: "suffix with parent selector",
			scss: `.card { &__title { margin: 0; } &--wide { width: 100%; } }`,
			want: `.card__title{margin:0}.card--wide{width:100%}`,
		},
		{
			name: "fractions drop leading zero",
			scss: `.a { opacity: 0.5; }`,
			want: `.a{opacity:.5}`,
		},
		{
			name: "slash between literals is kept",
			scss: `.a { font: 12px/1.5 sans-serif; }`,
			want: `.a{font:12px/1.5 sans-serif}`,
		},
		{
			name: "slash with a variable divides",
			scss: `$w: 100px; .a { width: $w/4; }`,
			want: `.a{width:25px}`,
		},
		{
			name: "arithmetic keeps units",
			scss: `$gap: 4px; .a { margin: $gap * 2 $gap + 1; }`,
			want: `.a{margin:8px 5px}`,
		},
		{
			name: "comma lists",
			scss: `.a { font-family: "Helvetica Neue", Arial, sans-serif; }`,
			want: `.a{font-family:"Helvetica Neue",Arial,sans-serif}`,
		},
		{
			name: "important flag",
			scss: `.a { color: red !important; }`,
			want: `.a{color:red !important}`,
		},
		{
			name: "plain css function",
			scss: `.a { transform: translate(-50%, -50%); }`,
			want: `.a{transform:translate(-50%,-50%)}`,
		},
		{
			name: "calc keeps its text",
			scss: `$gap: 10px; .a { width: calc(100% - #{$gap}); height: calc(100% - $gap); }`,
			want: `.a{width:calc(100% - 10px);height:calc(100% - 10px)}`,
		},
		{
			name: "quoted interpolation",
			scss: `$n: world; .a { content: "hello #{$n}"; }`,
			want: `.a{content:"hello world"}`,
		},
		{
			name: "null declarations are omitted",
			scss: `.a { color: null; margin: 0; }`,
			want: `.a{margin:0}`,
		},
		{
			name: "empty rules are omitted",
			scss: `.a { } .b { color: red; }`,
			want: `.b{color:red}`,
		},
		{
			name: "line comments",
			scss: "// header\n.a { color: red; // trailing\n background: url(http://x.test/a.png); }",
			want: `.a{color:red;background:url(http://x.test/a.png)}`,
		},
		{
			name: "mixin with default argument",
			scss: `@mixin pad($x, $y: 2px) { padding: $y $x; } .b { @include pad(1px); }`,
			want: `.b{padding:2px 1px}`,
		},
		{
			name: "mixin keyword argument",
			scss: `@mixin pad($x, $y: 2px) { padding: $y $x; } .b { @include pad($y: 3px, $x: 1px); }`,
			want: `.b{padding:3px 1px}`,
		},
		{
			name: "mixin content block",
			scss: `@mixin hover { &:hover { @content; } } .a { @include hover { color: red; } }`,
			want: `.a:hover{color:red}`,
		},
		{
			name: "function",
			scss: `@function double($n) { @return $n * 2; } .c { width: double(5px); }`,
			want: `.c{width:10px}`,
		},
		{
			name: "if else chain",
			scss: `$theme: dark; .d { @if $theme == light { color: black; } @else if $theme == dark { color: white; } @else { color: gray; } }`,
			want: `.d{color:#fff}`,
		},
		{
			name: "each over list",
			scss: `@each $c in red, blue { .t-#{$c} { color: $c; } }`,
			want: `.t-red{color:red}.t-blue{color:blue}`,
		},
		{
			name: "each over map",
			scss: `$sizes: (sm: 4px, lg: 8px); @each $name, $size in $sizes { .m-#{$name} { margin: $size; } }`,
			want: `.m-sm{margin:4px}.m-lg{margin:8px}`,
		},
		{
			name: "for through",
			scss: `@for $i from 1 through 3 { .p-#{$i} { padding: $i * 4px; } }`,
			want: `.p-1{padding:4px}.p-2{padding:8px}.p-3{padding:12px}`,
		},
		{
			name: "for to excludes the end",
			scss: `@for $i from 1 to 3 { .p-#{$i} { order: $i; } }`,
			want: `.p-1{order:1}.p-2{order:2}`,
		},
		{
			name: "media query bubbles out of rule",
			scss: `.e { color: red; @media (min-width: 600px) { color: blue; } }`,
			want: `.e{color:red}@media (min-width:600px){.e{color:blue}}`,
		},
		{
			name: "media query with variable",
			scss: `$bp: 600px; @media screen and (max-width: $bp) { .a { top: 0; } }`,
			want: `@media screen and (max-width:600px){.a{top:0}}`,
		},
		{
			name: "font-face declarations",
			scss: `@font-face { font-family: Inter; src: url(inter.woff2); }`,
			want: `@font-face{font-family:Inter;src:url(inter.woff2)}`,
		},
		{
			name: "keyframes",
			scss: `@keyframes spin { from { opacity: 0; } to { opacity: 1; } }`,
			want: `@keyframes spin{from{opacity:0}to{opacity:1}}`,
		},
		{
			name: "placeholder selectors are dropped",
			scss: `%btn { color: red; } .f { color: blue; }`,
			want: `.f{color:blue}`,
		},
		{
			name: "default does not override",
			scss: `$x: 2px; $x: 1px !default; .a { width: $x; }`,
			want: `.a{width:2px}`,
		},
		{
			name: "flow control assigns globals",
			scss: `$n: 1; @if true { $n: 2; } .a { z-index: $n; }`,
			want: `.a{z-index:2}`,
		},
		{
			name: "rule scope shadows globals",
			scss: `$n: 1; .a { $n: 2; } .b { z-index: $n; }`,
			want: `.b{z-index:1}`,
		},
		{
			name: "global flag",
			scss: `$n: 1; .a { $n: 2 !global; } .b { z-index: $n; }`,
			want: `.b{z-index:2}`,
		},
		{
			name: "map functions",
			scss: `$m: (a: 1, b: (c: 2)); .a { x: map-get($m, a); y: map.get($m, b, c); z: map-has-key($m, d); n: length(map-keys($m)); }`,
			want: `.a{x:1;y:2;z:false;n:2}`,
		},
		{
			name: "list functions",
			scss: `$l: 10px 20px 30px; .a { x: nth($l, 2); y: nth($l, -1); z: index($l, 30px); w: length(append($l, 40px)); }`,
			want: `.a{x:20px;y:30px;z:3;w:4}`,
		},
		{
			name: "string functions",
			scss: `.a { x: to-upper-case(abc); y: quote(abc); z: unquote("abc"); w: str-length("hello"); }`,
			want: `.a{x:ABC;y:"abc";z:abc;w:5}`,
		},
		{
			name: "math functions",
			scss: `.a { x: percentage(0.25); y: round(2.6px); z: math.div(10px, 4); w: unit(3em); }`,
			want: `.a{x:25%;y:3px;z:2.5px;w:"em"}`,
		},
		{
			name: "if is lazy",
			scss: `.a { x: if(true, 1px, $undefined); }`,
			want: `.a{x:1px}`,
		},
		{
			name: "type-of",
			scss: `.a { x: type-of(1px); y: type-of((a: 1)); z: type-of("s"); }`,
			want: `.a{x:number;y:map;z:string}`,
		},
		{
			name: "plain css imports pass through",
			scss: `@import "theme.css"; .a { top: 0; }`,
			want: `@import "theme.css";.a{top:0}`,
		},
		{
			name: "at-root",
			scss: `.a { @at-root .b { top: 0; } }`,
			want: `.b{top:0}`,
		},
		{
			name: "charset is dropped",
			scss: `@charset "UTF-8"; .a { top: 0; }`,
			want: `.a{top:0}`,
		},
		{
			name: "operators without spaces",
			scss: `$x: 2px; a { b: $x+1; c: 10px+5px; d: 1-1; e: (4)-1; }`,
			want: `a{b:3px;c:15px;d:0;e:3}`,
		},
		{
			name: "signed number after a space starts a list item",
			scss: `a { margin: 1 -1; padding: 0 -2px; }`,
			want: `a{margin:1 -1;padding:0 -2px}`,
		},
		{
			name: "arithmetic inside interpolation",
			scss: `a { b: #{1+1}px; --x: #{1+2}; }`,
			want: `a{b:2px;--x:3}`,
		},
		{
			name: "color literals are normalized",
			scss: `a { b: #FFF; c: #AbCdEf; d: white; e: #ff0000; f: rgba(0, 0, 0, 0); }`,
			want: `a{b:#fff;c:#abcdef;d:#fff;e:red;f:transparent}`,
		},
		{
			name: "colors compare by value",
			scss: `a { b: red == #f00; c: #FFF == white; d: red == blue; e: red == "red"; }`,
			want: `a{b:true;c:true;d:false;e:false}`,
		},
		{
			name: "rgba with a color",
			scss: `$c: #336699; a { b: rgba($c, .5); c: rgb(51, 102, 153); d: rgba(255, 0, 0, 50%); }`,
			want: `a{b:rgba(51,102,153,.5);c:#369;d:rgba(255,0,0,.5)}`,
		},
		{
			name: "rgb with a css variable stays plain",
			scss: `a { b: rgba(var(--c), .5); c: rgb(var(--r), 0, 0); }`,
			want: `a{b:rgba(var(--c),.5);c:rgb(var(--r),0,0)}`,
		},
		{
			name: "hsl",
			scss: `a { b: hsl(120, 100%, 50%); c: hsla(0, 100%, 50%, .5); }`,
			want: `a{b:lime;c:rgba(255,0,0,.5)}`,
		},
		{
			name: "lighten and darken",
			scss: `a { b: darken(#fff, 10%); c: lighten(#336699, 20%); d: darken(#000, 5%); }`,
			want: `a{b:#e6e6e6;c:#69c;d:#000}`,
		},
		{
			name: "mix",
			scss: `a { b: mix(red, blue); c: mix(#fff, #000, 100%); d: color.mix(#fff, #000, 0%); }`,
			want: `a{b:purple;c:#fff;d:#000}`,
		},
		{
			name: "alpha adjustments",
			scss: `a { b: transparentize(#000, .5); c: opacify(rgba(0, 0, 0, .5), .25); d: fade-out(red, 1); e: alpha(rgba(0, 0, 0, .3)); }`,
			want: `a{b:rgba(0,0,0,.5);c:rgba(0,0,0,.75);d:rgba(255,0,0,0);e:.3}`,
		},
		{
			name: "channels and hsl adjustments",
			scss: `a { r: red(#336699); g: green(#336699); l: lightness(#336699); c: complement(#336699); i: invert(#336699); g2: grayscale(#336699); }`,
			want: `a{r:51;g:102;l:40%;c:#963;i:#c96;g2:#666}`,
		},
		{
			name: "adjust and change color",
			scss: `a { b: adjust-color(#336699, $red: 10); c: change-color(#336699, $alpha: .5); d: color.adjust(#000, $lightness: 100%); }`,
			want: `a{b:#3d6699;c:rgba(51,102,153,.5);d:#fff}`,
		},
		{
			name: "filter functions stay plain",
			scss: `a { filter: grayscale(50%) invert(1) opacity(.5) saturate(2); }`,
			want: `a{filter:grayscale(50%) invert(1) opacity(.5) saturate(2)}`,
		},
		{
			name: "color interpolation keeps the source text",
			scss: `@each $c in Red, #ABC { .t-#{$c} { color: $c; } }`,
			want: `.t-Red{color:red}.t-#ABC{color:#abc}`,
		},
		{
			name: "str-slice and str-index",
			scss: `a { b: str-slice("abcd", 2, 3); c: str-slice("abcd", -2); d: str-slice("abcd", 0, 10); e: str-slice("abcd", 3, 2); f: str-index("abcd", "c"); g: str-index("abcd", "z"); h: str-insert("abcd", "X", 2); }`,
			want: `a{b:"bc";c:"cd";d:"abcd";e:"";f:3;h:"aXbcd"}`,
		},
		{
			name: "list helpers",
			scss: `$l: a b c; a { b: set-nth($l, 2, x); c: list-separator((1, 2)); d: is-bracketed([1]); e: zip(1 2, 3 4); f: comparable(1px, 2em); }`,
			want: `a{b:a x c;c:comma;d:true;e:1 3,2 4;f:false}`,
		},
		{
			name: "existence checks",
			scss: `$x: 1; @mixin m { top: 0; } a { b: variable-exists(x); c: mixin-exists(m); d: function-exists(darken); e: global-variable-exists(nope); }`,
			want: `a{b:true;c:true;d:true;e:false}`,
		},
		{
			name: "nested properties",
			scss: `a { font: { size: 1px; weight: 700; } }`,
			want: `a{font-size:1px;font-weight:700}`,
		},
		{
			name: "nested properties with a value",
			scss: `$w: bold; a { font: 12px { weight: $w; family: { x: y; } } &:hover { top: 0; } }`,
			want: `a{font:12px;font-weight:bold;font-family-x:y}a:hover{top:0}`,
		},
		{
			name: "loud comments survive compression",
			scss: "/*! license */\n/* dropped */\na { /*! keep */ color: red; /* gone */ top: 0; }",
			want: `/*! license */a{/*! keep */color:red;top:0}`,
		},
		{
			name: "comments inside values are dropped",
			scss: `a { margin: 0 /* x */ 1px; }`,
			want: `a{margin:0 1px}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompileString(tt.scss, Options{Fs: afero.NewMemMapFs()})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileStringExpanded(t *testing.T) {
	got, err := CompileString(`.a { color: red; .b { margin: 0 0.5px; } } @media print { .a { display: none; } }`,
		Options{Fs: afero.NewMemMapFs(), Style: Expanded})
	require.NoError(t, err)

	want := ".a {\n  color: red;\n}\n\n" +
		".a .b {\n  margin: 0 0.5px;\n}\n\n" +
		"@media print {\n  .a {\n    display: none;\n  }\n}\n"
	assert.Equal(t, want, got)
}

func TestCompileStringExpandedComments(t *testing.T) {
	got, err := CompileString("/* top */\na {\n  /* inside */\n  color: #FFF;\n}", Options{Fs: afero.NewMemMapFs(), Style: Expanded})
	require.NoError(t, err)
	assert.Equal(t, "/* top */\n\na {\n  /* inside */\n  color: #FFF;\n}\n", got)
}

func TestCompileStringErrors(t *testing.T) {
	tests := []struct {
		name     string
		scss     string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "undefined variable",
			scss:     "\n\n.a {\n  color: $missing;\n}",
			wantLine: 4,
			wantMsg:  "Undefined variable: $missing.",
		},
		{
			name:     "error directive",
			scss:     `@error "boom";`,
			wantLine: 1,
			wantMsg:  "boom",
		},
		{
			name:     "map is not a css value",
			scss:     `.a { x: (a: 1); }`,
			wantLine: 1,
			wantMsg:  "(a: 1) isn't a valid CSS value.",
		},
		{
			name:     "parent selector at top level",
			scss:     `&.a { top: 0; }`,
			wantLine: 1,
			wantMsg:  `Top-level selectors may not contain the parent selector "&".`,
		},
		{
			name:     "extend is rejected",
			scss:     `.a { @extend .b; }`,
			wantLine: 1,
			wantMsg:  "@extend is not supported.",
		},
		{
			name:     "undefined mixin",
			scss:     `.a { @include nope; }`,
			wantLine: 1,
			wantMsg:  "Undefined mixin.",
		},
		{
			name:     "incompatible units",
			scss:     `.a { width: 1px + 1em; }`,
			wantLine: 1,
			wantMsg:  "Incompatible units em and px.",
		},
		{
			name:     "unclosed block",
			scss:     ".a {\n  color: red;\n",
			wantLine: 2,
			wantMsg:  `expected "}".`,
		},
		{
			name:     "unsupported builtin",
			scss:     "a {\n  b: unique-id();\n}",
			wantLine: 2,
			wantMsg:  "unique-id() is not supported.",
		},
		{
			name:     "color function with a bad argument",
			scss:     `a { b: darken(1px, 10%); }`,
			wantLine: 1,
			wantMsg:  "$color: 1px is not a color.",
		},
		{
			name:     "darken amount out of range",
			scss:     `a { b: darken(red, 200%); }`,
			wantLine: 1,
			wantMsg:  "$amount: Expected 200% to be within 0% and 100%.",
		},
		{
			name:     "forward prefix is rejected",
			scss:     `@forward "lib" as btn-*;`,
			wantLine: 1,
			wantMsg:  "@forward with a prefix is not supported.",
		},
		{
			name:     "forward show is rejected",
			scss:     `@forward "lib" show button;`,
			wantLine: 1,
			wantMsg:  "@forward show is not supported.",
		},
		{
			name:     "unknown use clause",
			scss:     `@use "lib" using x;`,
			wantLine: 1,
			wantMsg:  `@use does not support "using".`,
		},
		{
			name:     "too many arguments",
			scss:     `@function f($a) { @return $a; } .a { x: f(1, 2); }`,
			wantLine: 1,
			wantMsg:  "Only 1 arguments allowed, but 2 were passed.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileString(tt.scss, Options{Fs: afero.NewMemMapFs()})
			require.Error(t, err)

			var sassErr *Error
			require.True(t, errors.As(err, &sassErr), "want *Error, got %T", err)
			assert.Equal(t, tt.wantLine, sassErr.Line)
			assert.Equal(t, tt.wantMsg, sassErr.Message)
		})
	}
}

func TestCustomFunctions(t *testing.T) {
	var calls int
	opts := Options{
		Fs: afero.NewMemMapFs(),
		Functions: map[string]Function{
			"site_config": func(args []Value) (Value, error) {
				calls++
				m := NewMap()
				m.Set(String{Text: "title", Quoted: true}, String{Text: "Hi", Quoted: true})
				m.Set(String{Text: "count", Quoted: true}, Number{Value: 3})
				return m, nil
			},
			"count-args": func(args []Value) (Value, error) {
				return Number{Value: float64(len(args))}, nil
			},
		},
	}

	got, err := CompileString(`.a{content:map-get(site-config(),"title");width:map-get(site-config(),"count");n:count-args(1, 2)}`, opts)
	require.NoError(t, err)
	assert.Equal(t, `.a{content:"Hi";width:3;n:2}`, got)
	assert.Equal(t, 2, calls)
}

func TestCustomFunctionError(t *testing.T) {
	opts := Options{
		Fs: afero.NewMemMapFs(),
		Functions: map[string]Function{
			"fail": func(args []Value) (Value, error) {
				return nil, errors.New("no luck")
			},
		},
	}
	_, err := CompileString(".a {\n  x: fail();\n}", opts)

	var sassErr *Error
	require.ErrorAs(t, err, &sassErr)
	assert.Equal(t, 2, sassErr.Line)
	assert.Equal(t, "no luck", sassErr.Message)
}

func TestCompileFileImports(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/src/main.scss":           `@import "vars", "mixins/index"; @use "theme"; .a { color: $c; border-color: theme.$brand; @include box; }`,
		"/src/_vars.scss":          `$c: red;`,
		"/src/mixins/_index.scss":  `@mixin box { display: block; }`,
		"/lib/_theme.scss":         `$brand: teal;`,
		"/src/unused/_ignore.scss": `.never { top: 0; }`,
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	got, err := CompileFile("/src/main.scss", Options{Fs: fs, LoadPaths: []string{"/lib"}})
	require.NoError(t, err)
	assert.Equal(t, `.a{color:red;border-color:teal;display:block}`, got)
}

func TestCompileFileUseLoadsOnce(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/main.scss", []byte(`@use "base"; @use "base"; .a { top: 0; }`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/_base.scss", []byte(`html { margin: 0; }`), 0o644))

	got, err := CompileFile("/src/main.scss", Options{Fs: fs})
	require.NoError(t, err)
	assert.Equal(t, `html{margin:0}.a{top:0}`, got)
}

func TestCompileFileUseWith(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/src/_lib.scss":      `$c: red !default; $pad: 1px !default; .p { color: $c; padding: $pad; }`,
		"/src/main.scss":      `@use "lib" with ($c: blue);`,
		"/src/ns.scss":        `@use "lib" as l with($pad: 2px); .q { color: l.$c; }`,
		"/src/_fwd.scss":      `@forward "lib" with ($c: green !default, $pad: 3px);`,
		"/src/forward.scss":   `@use "fwd" with ($c: teal);`,
		"/src/twice.scss":     `@use "lib"; @use "lib" with ($c: blue);`,
		"/src/duplicate.scss": `@use "lib" with ($c: blue, $c: red);`,
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	got, err := CompileFile("/src/main.scss", Options{Fs: fs})
	require.NoError(t, err)
	assert.Equal(t, `.p{color:blue;padding:1px}`, got)

	got, err = CompileFile("/src/ns.scss", Options{Fs: fs})
	require.NoError(t, err)
	assert.Equal(t, `.p{color:red;padding:2px}.q{color:red}`, got)

	got, err = CompileFile("/src/forward.scss", Options{Fs: fs})
	require.NoError(t, err)
	assert.Equal(t, `.p{color:teal;padding:3px}`, got)

	_, err = CompileFile("/src/twice.scss", Options{Fs: fs})
	require.ErrorContains(t, err, `This module was already loaded, so it can't be configured using "with".`)

	_, err = CompileFile("/src/duplicate.scss", Options{Fs: fs})
	require.ErrorContains(t, err, "The same variable may only be configured once.")
}

func TestCompileFileImportErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/main.scss", []byte("@import \"missing\";"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/loop.scss", []byte("@import \"loop\";"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/bad.scss", []byte("@import \"_broken\";"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/_broken.scss", []byte("\n.a { color: $nope; }"), 0o644))

	_, err := CompileFile("/src/main.scss", Options{Fs: fs})
	require.ErrorContains(t, err, `Can't find stylesheet to import: "missing".`)

	_, err = CompileFile("/src/loop.scss", Options{Fs: fs})
	require.ErrorContains(t, err, "This file is already being loaded.")

	_, err = CompileFile("/src/bad.scss", Options{Fs: fs})
	var sassErr *Error
	require.ErrorAs(t, err, &sassErr)
	assert.Equal(t, "/src/_broken.scss", sassErr.Path)
	assert.Equal(t, 2, sassErr.Line)

	_, err = CompileFile("/src/absent.scss", Options{Fs: fs})
	require.Error(t, err)
}

func TestCompileFileIndented(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := "$c: red\n\n=box\n  display: block\n\n.a\n  color: $c\n  +box\n  .b\n    margin: 0\n"
	require.NoError(t, afero.WriteFile(fs, "/src/site.sass", []byte(src), 0o644))

	got, err := CompileFile("/src/site.sass", Options{Fs: fs})
	require.NoError(t, err)
	assert.Equal(t, `.a{color:red;display:block}.a .b{margin:0}`, got)
}

func TestDebugAndWarnAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	_, err := CompileString("@debug \"checking\";\n@warn \"careful\";", Options{Fs: afero.NewMemMapFs(), Logger: &logger})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"message":"checking"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"line":2`)
}

func TestParseOutputStyle(t *testing.T) {
	style, err := ParseOutputStyle("Expanded")
	require.NoError(t, err)
	assert.Equal(t, Expanded, style)

	style, err = ParseOutputStyle("")
	require.NoError(t, err)
	assert.Equal(t, Compressed, style)
	assert.Equal(t, "compressed", style.String())

	_, err = ParseOutputStyle("nested")
	require.Error(t, err)
}
