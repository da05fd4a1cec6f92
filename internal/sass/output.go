package sass

import (
	"strings"
)

// cssNode is a node of the flattened CSS tree.
type cssNode interface{}

type cssRule struct {
	selectors []string
	decls     []*cssDecl
}

// cssDecl is a declaration, or a comment when comment is set; the
// comment text is kept in value.
type cssDecl struct {
	name, value string
	comment     bool
}

type cssComment struct {
	text string
}

type cssAtRule struct {
	name, prelude string
	block         bool
	body          []cssNode
}

type cssImport struct {
	raw string
}

type chunk struct {
	text string
	decl bool
}

type writer struct {
	compressed bool
}

// render serializes the tree. Empty rules and blocks are omitted.
func render(nodes []cssNode, compressed bool) string {
	w := writer{compressed: compressed}
	chunks := w.nodes(nodes, 0)
	if len(chunks) == 0 {
		return ""
	}
	if compressed {
		return w.join(chunks)
	}
	return w.join(chunks) + "\n"
}

func (w writer) join(chunks []chunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 && !w.compressed {
			b.WriteString("\n")
		}
		b.WriteString(c.text)
		if w.compressed && c.decl && i < len(chunks)-1 {
			b.WriteString(";")
		}
	}
	return b.String()
}

func (w writer) nodes(nodes []cssNode, depth int) []chunk {
	var out []chunk
	var decls []*cssDecl
	flush := func() {
		if len(decls) > 0 {
			out = append(out, chunk{text: w.decls(decls, depth), decl: true})
			decls = nil
		}
	}
	for _, n := range nodes {
		var s string
		switch n := n.(type) {
		case *cssDecl:
			decls = append(decls, n)
			continue
		case *cssRule:
			s = w.rule(n, depth)
		case *cssAtRule:
			s = w.atRule(n, depth)
		case *cssImport:
			s = w.indent(depth) + "@import " + n.raw + ";"
		case *cssComment:
			s = w.indent(depth) + n.text
		}
		flush()
		if s == "" {
			continue
		}
		if !w.compressed && depth == 0 && len(out) > 0 {
			s = "\n" + s
		}
		out = append(out, chunk{text: s})
	}
	flush()
	return out
}

func (w writer) indent(depth int) string {
	if w.compressed {
		return ""
	}
	return strings.Repeat("  ", depth)
}

func (w writer) decls(decls []*cssDecl, depth int) string {
	var b strings.Builder
	for i, d := range decls {
		if w.compressed {
			if i > 0 && !decls[i-1].comment {
				b.WriteString(";")
			}
		} else {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(w.indent(depth))
		}
		switch {
		case d.comment:
			b.WriteString(d.value)
		case w.compressed:
			b.WriteString(d.name + ":" + d.value)
		default:
			b.WriteString(d.name + ": " + d.value + ";")
		}
	}
	return b.String()
}

func (w writer) rule(r *cssRule, depth int) string {
	var sels []string
	for _, s := range r.selectors {
		if isPlaceholder(s) {
			continue
		}
		if w.compressed {
			s = compressSelector(s)
		}
		sels = append(sels, s)
	}
	if len(sels) == 0 || len(r.decls) == 0 {
		return ""
	}
	if w.compressed {
		return strings.Join(sels, ",") + "{" + w.decls(r.decls, 0) + "}"
	}
	ind := w.indent(depth)
	return ind + strings.Join(sels, ",\n"+ind) + " {\n" + w.decls(r.decls, depth+1) + "\n" + ind + "}"
}

func (w writer) atRule(a *cssAtRule, depth int) string {
	head := "@" + a.name
	if a.prelude != "" {
		prelude := a.prelude
		if w.compressed {
			prelude = strings.NewReplacer(": ", ":", ", ", ",").Replace(prelude)
		}
		head += " " + prelude
	}
	if !a.block {
		return w.indent(depth) + head + ";"
	}
	children := w.nodes(a.body, depth+1)
	if len(children) == 0 {
		return ""
	}
	if w.compressed {
		return head + "{" + w.join(children) + "}"
	}
	ind := w.indent(depth)
	return ind + head + " {\n" + w.join(children) + "\n" + ind + "}"
}

// isPlaceholder reports whether a selector contains a %placeholder, which
// only exists to be extended and never reaches the output.
func isPlaceholder(sel string) bool {
	for i := 0; i+1 < len(sel); i++ {
		if sel[i] == '%' && isNameStart(sel[i+1]) {
			return true
		}
	}
	return false
}

// compressSelector drops whitespace around combinators and commas.
func compressSelector(sel string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case ' ', '\t', '\n':
			out := b.String()
			var prev byte
			if len(out) > 0 {
				prev = out[len(out)-1]
			}
			next := nextNonSpace(sel, i)
			if prev == 0 || strings.IndexByte(" >+~,(", prev) >= 0 || (next != 0 && strings.IndexByte(">+~,)", next) >= 0) || next == 0 {
				continue
			}
			c = ' '
		}
		b.WriteByte(c)
	}
	return b.String()
}

func nextNonSpace(s string, i int) byte {
	for ; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' && s[i] != '\n' {
			return s[i]
		}
	}
	return 0
}

// splitSelectorList splits a selector list at top-level commas and
// normalizes whitespace in each selector.
func splitSelectorList(text string) []string {
	var parts []string
	depth, start := 0, 0
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, text[start:])
	out := parts[:0]
	for _, p := range parts {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			out = append(out, p)
		}
	}
	return out
}
