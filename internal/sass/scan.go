package sass

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// token is a lexed token with the line it starts on.
type token struct {
	tt   css.TokenType
	text string
	line int
}

func (t token) is(tt css.TokenType, text string) bool {
	return t.tt == tt && t.text == text
}

func (t token) isDelim(c string) bool {
	return t.tt == css.DelimToken && t.text == c
}

// tokenize lexes src into tokens. Line comments are removed beforehand,
// block comments are dropped and adjacent whitespace is merged.
func tokenize(src string, firstLine int) []token {
	return lex(src, firstLine, false)
}

// tokenizeStylesheet is tokenize for a whole stylesheet: block comments
// that start a statement are kept so they can reach the output.
func tokenizeStylesheet(src string) []token {
	return lex(src, 1, true)
}

func lex(src string, firstLine int, keepComments bool) []token {
	src = stripLineComments(src)
	lexer := css.NewLexer(parse.NewInputString(src))
	line := firstLine
	var toks []token
	// interp records for each open brace whether it opened #{}.
	var interp []bool
	atStart := true
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		text := string(data)
		switch {
		case tt == css.CommentToken && keepComments && atStart:
			toks = append(toks, token{tt: tt, text: text, line: line})
		case tt == css.CommentToken || tt == css.CDOToken || tt == css.CDCToken:
			// dropped
		case tt == css.WhitespaceToken && len(toks) > 0 && toks[len(toks)-1].tt == css.WhitespaceToken:
			toks[len(toks)-1].text += text
		default:
			switch tt {
			case css.WhitespaceToken:
			case css.SemicolonToken:
				atStart = true
			case css.LeftBraceToken:
				open := len(toks) > 0 && toks[len(toks)-1].isDelim("#")
				interp = append(interp, open)
				atStart = !open
			case css.RightBraceToken:
				closed := len(interp) > 0 && interp[len(interp)-1]
				if len(interp) > 0 {
					interp = interp[:len(interp)-1]
				}
				atStart = !closed
			default:
				atStart = false
			}
			toks = append(toks, token{tt: tt, text: text, line: line})
		}
		line += strings.Count(text, "\n")
	}
	return toks
}

// stripLineComments removes // comments, leaving strings, url() bodies and
// block comments untouched. Newlines are kept so line numbers stay valid.
func stripLineComments(src string) string {
	if !strings.Contains(src, "//") {
		return src
	}
	var b strings.Builder
	b.Grow(len(src))
	var quote byte
	inBlock, inURL := false, false
	for i := 0; i < len(src); i++ {
		c := src[i]
		next := byte(0)
		if i+1 < len(src) {
			next = src[i+1]
		}
		switch {
		case inBlock:
			if c == '*' && next == '/' {
				inBlock = false
				b.WriteString("*/")
				i++
				continue
			}
		case quote != 0:
			if c == '\\' && next != 0 {
				b.WriteByte(c)
				b.WriteByte(next)
				i++
				continue
			}
			if c == quote || c == '\n' {
				quote = 0
			}
		case inURL:
			if c == ')' {
				inURL = false
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && next == '*':
			inBlock = true
			b.WriteString("/*")
			i++
			continue
		case c == '/' && next == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				b.WriteByte('\n')
			}
			continue
		case (c == 'u' || c == 'U') && len(src)-i >= 4 && strings.EqualFold(src[i:i+4], "url("):
			inURL = true
			b.WriteString(src[i : i+4])
			i += 3
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// trimSpace drops leading and trailing whitespace tokens.
func trimSpace(toks []token) []token {
	for len(toks) > 0 && toks[0].tt == css.WhitespaceToken {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].tt == css.WhitespaceToken {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// opens reports whether t opens a nesting level closed by ')', ']' or '}'.
func opens(t token) bool {
	switch t.tt {
	case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken, css.LeftBraceToken:
		return true
	}
	return false
}

func closes(t token) bool {
	switch t.tt {
	case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
		return true
	}
	return false
}

// matchClose returns the index of the token closing the level opened at
// toks[open], or -1 if the level is never closed.
func matchClose(toks []token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch {
		case opens(toks[i]):
			depth++
		case closes(toks[i]):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// isInterpStart reports whether toks[i] begins a #{ interpolation.
func isInterpStart(toks []token, i int) bool {
	return toks[i].isDelim("#") && i+1 < len(toks) && toks[i+1].tt == css.LeftBraceToken
}

// splitTopLevel splits toks at tokens of type sep that are not nested.
func splitTopLevel(toks []token, sep css.TokenType) [][]token {
	var parts [][]token
	depth, start := 0, 0
	for i, t := range toks {
		switch {
		case opens(t):
			depth++
		case closes(t):
			depth--
		case depth == 0 && t.tt == sep:
			parts = append(parts, toks[start:i])
			start = i + 1
		}
	}
	return append(parts, toks[start:])
}

// indexTopLevel returns the index of the first non-nested token of type tt.
func indexTopLevel(toks []token, tt css.TokenType) int {
	depth := 0
	for i, t := range toks {
		switch {
		case opens(t):
			depth++
		case closes(t):
			depth--
		case depth == 0 && t.tt == tt:
			return i
		}
	}
	return -1
}

// indexIdent returns the index of the first non-nested identifier equal to
// one of names.
func indexIdent(toks []token, names ...string) int {
	depth := 0
	for i, t := range toks {
		switch {
		case opens(t):
			depth++
		case closes(t):
			depth--
		case depth == 0 && t.tt == css.IdentToken:
			for _, n := range names {
				if t.text == n {
					return i
				}
			}
		}
	}
	return -1
}

// tokensText concatenates the source text of toks, collapsing whitespace.
func tokensText(toks []token) string {
	var b strings.Builder
	for _, t := range toks {
		if t.tt == css.WhitespaceToken {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(t.text)
	}
	return b.String()
}

// normalizeName maps underscores to hyphens; the two are interchangeable in
// variable, mixin and function names.
func normalizeName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}
