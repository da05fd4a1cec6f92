package sass

import (
	"strings"
)

type indentedLine struct {
	indent int
	text   string
	line   int // zero-based source line
}

// indentedToSCSS rewrites indented syntax into brace syntax. Output lines
// stay aligned with source lines so error positions remain meaningful.
func indentedToSCSS(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	lines := indentedLines(strings.Split(src, "\n"))

	var b strings.Builder
	var stack []int
	outLine := 0
	for i, l := range lines {
		for len(stack) > 0 && l.indent <= stack[len(stack)-1] {
			b.WriteString("}")
			stack = stack[:len(stack)-1]
		}
		for outLine < l.line {
			b.WriteByte('\n')
			outLine++
		}
		text := expandShorthand(l.text)
		b.WriteString(text)
		outLine += strings.Count(text, "\n")
		if i+1 < len(lines) && lines[i+1].indent > l.indent {
			b.WriteString(" {")
			stack = append(stack, l.indent)
			continue
		}
		b.WriteString(";")
	}
	for range stack {
		b.WriteString("}")
	}
	b.WriteByte('\n')
	return b.String()
}

// indentedLines drops blank lines and comments and joins selector lines
// ending in a comma with the line that follows.
func indentedLines(raw []string) []indentedLine {
	var out []indentedLine
	commentIndent := -1
	for n, s := range raw {
		trimmed := strings.TrimSpace(s)
		indent := indentOf(s)
		if commentIndent >= 0 {
			if trimmed == "" || indent > commentIndent {
				continue
			}
			commentIndent = -1
		}
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") {
			commentIndent = indent
			continue
		}
		if k := len(out) - 1; k >= 0 && strings.HasSuffix(out[k].text, ",") {
			out[k].text += " " + trimmed
			continue
		}
		out = append(out, indentedLine{indent: indent, text: trimmed, line: n})
	}
	return out
}

func indentOf(s string) int {
	n := 0
	for _, c := range s {
		switch c {
		case ' ':
			n++
		case '\t':
			n += 2
		default:
			return n
		}
	}
	return n
}

// expandShorthand rewrites "=name" to "@mixin name" and "+name" to "@include name".
func expandShorthand(text string) string {
	if len(text) < 2 || !isNameStart(text[1]) {
		return text
	}
	switch text[0] {
	case '=':
		return "@mixin " + text[1:]
	case '+':
		return "@include " + text[1:]
	}
	return text
}

func isNameStart(c byte) bool {
	return c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
