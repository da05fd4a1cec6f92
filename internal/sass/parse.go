package sass

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

type parser struct {
	toks []token
	i    int
	path string
}

// parseStylesheet parses a stylesheet. Files ending in .sass use the
// indented syntax.
func parseStylesheet(src, path string) ([]stmt, error) {
	if strings.EqualFold(filepath.Ext(path), ".sass") {
		src = indentedToSCSS(src)
	}
	p := &parser{toks: tokenizeStylesheet(src), path: path}
	return p.parseBlock(false)
}

func (p *parser) errorf(line int, format string, args ...any) error {
	return &Error{Path: p.path, Line: line, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) lastLine() int {
	if len(p.toks) == 0 {
		return 1
	}
	return p.toks[len(p.toks)-1].line
}

func (p *parser) parseBlock(nested bool) ([]stmt, error) {
	var out []stmt
	for {
		for p.i < len(p.toks) && (p.toks[p.i].tt == css.WhitespaceToken || p.toks[p.i].tt == css.SemicolonToken) {
			p.i++
		}
		if p.i >= len(p.toks) {
			if nested {
				return nil, p.errorf(p.lastLine(), `expected "}".`)
			}
			return out, nil
		}
		t := p.toks[p.i]
		if t.tt == css.RightBraceToken {
			if !nested {
				return nil, p.errorf(t.line, `unmatched "}".`)
			}
			p.i++
			return out, nil
		}
		if t.tt == css.CommentToken {
			out = append(out, &commentStmt{at: position{p.path, t.line}, text: t.text})
			p.i++
			continue
		}
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
}

// scanStatement returns the index of the ';', '{' or '}' ending the
// statement that starts at p.i. Interpolation braces are skipped.
func (p *parser) scanStatement() int {
	depth := 0
	for i := p.i; i < len(p.toks); i++ {
		if isInterpStart(p.toks, i) {
			end := matchClose(p.toks, i+1)
			if end < 0 {
				return len(p.toks)
			}
			i = end
			continue
		}
		switch p.toks[i].tt {
		case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.SemicolonToken, css.LeftBraceToken, css.RightBraceToken:
			if depth == 0 {
				return i
			}
		}
	}
	return len(p.toks)
}

func (p *parser) terminator(end int) css.TokenType {
	if end >= len(p.toks) {
		return css.ErrorToken
	}
	return p.toks[end].tt
}

func (p *parser) parseStatement() ([]stmt, error) {
	t := p.toks[p.i]
	at := position{p.path, t.line}
	switch {
	case t.tt == css.AtKeywordToken:
		return p.parseAtRule()
	case t.isDelim("$") && p.i+1 < len(p.toks) && p.toks[p.i+1].tt == css.IdentToken:
		s, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		return []stmt{s}, nil
	}

	end := p.scanStatement()
	toks := trimSpace(p.toks[p.i:end])
	if p.terminator(end) == css.LeftBraceToken && isNestedProperty(toks) {
		p.i = end + 1
		return p.parseNestedProperty(toks, at)
	}
	if p.terminator(end) == css.LeftBraceToken {
		sel, err := buildInterp(toks, at, false)
		if err != nil {
			return nil, err
		}
		p.i = end + 1
		body, err := p.parseBlock(true)
		if err != nil {
			return nil, err
		}
		return []stmt{&ruleStmt{at: at, selector: sel, body: body}}, nil
	}
	p.i = end
	if p.terminator(end) == css.SemicolonToken {
		p.i++
	}
	s, err := p.parseDeclaration(toks, at)
	if err != nil {
		return nil, err
	}
	return []stmt{s}, nil
}

// isNestedProperty reports whether the tokens before a '{' start a nested
// property ("font: {" or "font: 12px {") rather than a selector such as
// "a:hover {".
func isNestedProperty(toks []token) bool {
	return len(toks) >= 2 && toks[0].tt == css.IdentToken && toks[1].tt == css.ColonToken &&
		(len(toks) == 2 || toks[2].tt == css.WhitespaceToken)
}

func (p *parser) parseNestedProperty(toks []token, at position) ([]stmt, error) {
	s := &propStmt{at: at}
	var err error
	if s.name, err = buildInterp(toks[:1], at, false); err != nil {
		return nil, err
	}
	if value := trimSpace(toks[2:]); len(value) > 0 {
		if s.value, err = parseExpression(value, at); err != nil {
			return nil, err
		}
	}
	if s.body, err = p.parseBlock(true); err != nil {
		return nil, err
	}
	return []stmt{s}, nil
}

func (p *parser) parseDeclaration(toks []token, at position) (stmt, error) {
	colon := indexTopLevel(toks, css.ColonToken)
	if colon < 0 {
		return nil, p.errorf(at.line, `expected ":" after %q.`, tokensText(toks))
	}
	nameToks := trimSpace(toks[:colon])
	valueToks := trimSpace(toks[colon+1:])
	if len(nameToks) == 0 {
		return nil, p.errorf(at.line, "Expected identifier.")
	}
	name, err := buildInterp(nameToks, at, false)
	if err != nil {
		return nil, err
	}
	if nameToks[0].tt == css.CustomPropertyNameToken {
		value, err := buildInterp(valueToks, at, false)
		if err != nil {
			return nil, err
		}
		return &declStmt{at: at, name: name, custom: value}, nil
	}
	value, err := parseExpression(valueToks, at)
	if err != nil {
		return nil, err
	}
	return &declStmt{at: at, name: name, value: value}, nil
}

func (p *parser) parseVariable() (stmt, error) {
	at := position{p.path, p.toks[p.i].line}
	s := &varStmt{at: at, name: normalizeName(p.toks[p.i+1].text)}
	p.i += 2
	for p.i < len(p.toks) && p.toks[p.i].tt == css.WhitespaceToken {
		p.i++
	}
	if p.i >= len(p.toks) || p.toks[p.i].tt != css.ColonToken {
		return nil, p.errorf(at.line, `expected ":".`)
	}
	p.i++
	end := p.scanStatement()
	toks := trimSpace(p.toks[p.i:end])
	if p.terminator(end) == css.LeftBraceToken {
		return nil, p.errorf(at.line, `expected ";".`)
	}
	p.i = end
	if p.terminator(end) == css.SemicolonToken {
		p.i++
	}

flags:
	for {
		n := len(toks)
		if n < 2 || !toks[n-2].isDelim("!") || toks[n-1].tt != css.IdentToken {
			break
		}
		switch toks[n-1].text {
		case "default":
			s.isDefault = true
		case "global":
			s.isGlobal = true
		default:
			break flags
		}
		toks = trimSpace(toks[:n-2])
	}

	value, err := parseExpression(toks, at)
	if err != nil {
		return nil, err
	}
	s.value = value
	return s, nil
}

func (p *parser) parseAtRule() ([]stmt, error) {
	t := p.toks[p.i]
	at := position{p.path, t.line}
	rawName := t.text[1:]
	name := strings.ToLower(rawName)
	p.i++
	end := p.scanStatement()
	prelude := trimSpace(p.toks[p.i:end])
	hasBlock := p.terminator(end) == css.LeftBraceToken
	p.i = end
	if term := p.terminator(end); term == css.SemicolonToken || term == css.LeftBraceToken {
		p.i++
	}
	var body []stmt
	if hasBlock {
		var err error
		if body, err = p.parseBlock(true); err != nil {
			return nil, err
		}
	}

	needBlock := func() error {
		if !hasBlock {
			return p.errorf(at.line, `expected "{".`)
		}
		return nil
	}
	noBlock := func() error {
		if hasBlock {
			return p.errorf(at.line, "@%s may not have a block.", name)
		}
		return nil
	}

	switch name {
	case "import":
		if err := noBlock(); err != nil {
			return nil, err
		}
		return p.parseImports(prelude, at)

	case "use", "forward":
		if len(prelude) == 0 || prelude[0].tt != css.StringToken {
			return nil, p.errorf(at.line, "Expected string.")
		}
		url := unquoteToken(prelude[0].text)
		s := &useStmt{at: at, url: url, forward: name == "forward"}
		if err := p.parseUseClauses(trimSpace(prelude[1:]), s); err != nil {
			return nil, err
		}
		if strings.HasPrefix(url, "sass:") {
			return nil, nil
		}
		return []stmt{s}, nil

	case "mixin", "function":
		if err := needBlock(); err != nil {
			return nil, err
		}
		fname, paramToks, err := p.signature(prelude, at)
		if err != nil {
			return nil, err
		}
		params, err := p.parseParams(paramToks, at)
		if err != nil {
			return nil, err
		}
		return []stmt{&callableStmt{at: at, function: name == "function", name: normalizeName(fname), params: params, body: body}}, nil

	case "include":
		if i := indexIdent(prelude, "using"); i >= 0 {
			prelude = trimSpace(prelude[:i])
		}
		mname, _, err := p.signature(prelude, at)
		if err != nil {
			return nil, err
		}
		s := &includeStmt{at: at, name: normalizeName(mname), content: body, hasContent: hasBlock}
		if open := indexFunction(prelude); open >= 0 {
			ep := &exprParser{toks: prelude[open+1:], at: at}
			if s.args, err = ep.parseArgs(); err != nil {
				return nil, err
			}
		}
		return []stmt{s}, nil

	case "content":
		return []stmt{&contentStmt{at: at}}, nil

	case "return":
		value, err := parseExpression(prelude, at)
		if err != nil {
			return nil, err
		}
		return []stmt{&returnStmt{at: at, value: value}}, nil

	case "if":
		if err := needBlock(); err != nil {
			return nil, err
		}
		cond, err := parseExpression(prelude, at)
		if err != nil {
			return nil, err
		}
		s := &ifStmt{at: at, clauses: []ifClause{{cond: cond, body: body}}}
		if err := p.parseElse(s); err != nil {
			return nil, err
		}
		return []stmt{s}, nil

	case "else":
		return nil, p.errorf(at.line, "@else must come after @if.")

	case "each":
		if err := needBlock(); err != nil {
			return nil, err
		}
		in := indexIdent(prelude, "in")
		if in < 0 {
			return nil, p.errorf(at.line, `expected "in".`)
		}
		s := &eachStmt{at: at, body: body}
		for _, part := range splitTopLevel(trimSpace(prelude[:in]), css.CommaToken) {
			v, err := p.variableName(trimSpace(part), at)
			if err != nil {
				return nil, err
			}
			s.vars = append(s.vars, v)
		}
		list, err := parseExpression(prelude[in+1:], at)
		if err != nil {
			return nil, err
		}
		s.list = list
		return []stmt{s}, nil

	case "for":
		if err := needBlock(); err != nil {
			return nil, err
		}
		return p.parseFor(prelude, body, at)

	case "while":
		if err := needBlock(); err != nil {
			return nil, err
		}
		cond, err := parseExpression(prelude, at)
		if err != nil {
			return nil, err
		}
		return []stmt{&whileStmt{at: at, cond: cond, body: body}}, nil

	case "debug", "warn", "error":
		value, err := parseExpression(prelude, at)
		if err != nil {
			return nil, err
		}
		return []stmt{&messageStmt{at: at, kind: name, value: value}}, nil

	case "at-root":
		if err := needBlock(); err != nil {
			return nil, err
		}
		if len(prelude) > 0 {
			sel, err := buildInterp(prelude, at, false)
			if err != nil {
				return nil, err
			}
			body = []stmt{&ruleStmt{at: at, selector: sel, body: body}}
		}
		return []stmt{&atRootStmt{at: at, body: body}}, nil

	case "extend":
		return []stmt{&extendStmt{at: at}}, nil

	case "charset":
		return nil, nil
	}

	pre, err := buildInterp(prelude, at, true)
	if err != nil {
		return nil, err
	}
	return []stmt{&cssAtStmt{at: at, name: rawName, prelude: pre, body: body, hasBlock: hasBlock}}, nil
}

// parseUseClauses parses the "as", "show", "hide" and "with" clauses that
// follow the URL of @use and @forward. Namespaces are accepted and ignored
// since every module shares the global scope; prefixes and visibility
// filters would change which names exist, so they are rejected.
func (p *parser) parseUseClauses(toks []token, s *useStmt) error {
	rule := "@use"
	if s.forward {
		rule = "@forward"
	}
	for len(toks) > 0 {
		kw := toks[0]
		switch {
		case kw.is(css.FunctionToken, "with("):
			// "with(" without a space lexes as a function token.
			kw = token{tt: css.IdentToken, text: "with"}
		case kw.tt == css.IdentToken:
			toks = trimSpace(toks[1:])
		default:
			return p.errorf(s.at.line, `expected ";".`)
		}
		switch {
		case kw.text == "as":
			if s.forward {
				return p.errorf(s.at.line, "@forward with a prefix is not supported.")
			}
			if len(toks) == 0 || !(toks[0].tt == css.IdentToken || toks[0].isDelim("*")) {
				return p.errorf(s.at.line, "Expected identifier.")
			}
			toks = trimSpace(toks[1:])
		case kw.text == "with":
			if len(toks) == 0 || (toks[0].tt != css.LeftParenthesisToken && toks[0].tt != css.FunctionToken) {
				return p.errorf(s.at.line, `expected "(".`)
			}
			end := matchClose(toks, 0)
			if end < 0 {
				return p.errorf(s.at.line, `expected ")".`)
			}
			with, err := p.parseConfiguration(toks[1:end], s.at)
			if err != nil {
				return err
			}
			s.with = with
			toks = trimSpace(toks[end+1:])
		case s.forward && (kw.text == "show" || kw.text == "hide"):
			return p.errorf(s.at.line, "@forward %s is not supported.", kw.text)
		default:
			return p.errorf(s.at.line, "%s does not support %q.", rule, kw.text)
		}
	}
	return nil
}

// parseConfiguration parses "$name: value [!default], ..." inside with().
func (p *parser) parseConfiguration(toks []token, at position) ([]configVar, error) {
	var out []configVar
	seen := make(map[string]bool)
	for _, part := range splitTopLevel(toks, css.CommaToken) {
		part = trimSpace(part)
		if len(part) == 0 {
			continue
		}
		if len(part) < 2 || !part[0].isDelim("$") || part[1].tt != css.IdentToken {
			return nil, p.errorf(at.line, "Expected variable.")
		}
		cv := configVar{name: normalizeName(part[1].text)}
		rest := trimSpace(part[2:])
		if len(rest) == 0 || rest[0].tt != css.ColonToken {
			return nil, p.errorf(at.line, `expected ":".`)
		}
		rest = trimSpace(rest[1:])
		if n := len(rest); n >= 2 && rest[n-2].isDelim("!") && rest[n-1].is(css.IdentToken, "default") {
			cv.isDefault = true
			rest = trimSpace(rest[:n-2])
		}
		if seen[cv.name] {
			return nil, p.errorf(at.line, "The same variable may only be configured once.")
		}
		seen[cv.name] = true
		value, err := parseExpression(rest, at)
		if err != nil {
			return nil, err
		}
		cv.value = value
		out = append(out, cv)
	}
	return out, nil
}

func (p *parser) parseElse(s *ifStmt) error {
	for {
		j := p.i
		for j < len(p.toks) && (p.toks[j].tt == css.WhitespaceToken || p.toks[j].tt == css.CommentToken) {
			j++
		}
		if j >= len(p.toks) || !p.toks[j].is(css.AtKeywordToken, "@else") {
			return nil
		}
		at := position{p.path, p.toks[j].line}
		p.i = j + 1
		end := p.scanStatement()
		prelude := trimSpace(p.toks[p.i:end])
		if p.terminator(end) != css.LeftBraceToken {
			return p.errorf(at.line, `expected "{".`)
		}
		p.i = end + 1
		body, err := p.parseBlock(true)
		if err != nil {
			return err
		}
		if len(prelude) == 0 {
			s.clauses = append(s.clauses, ifClause{body: body})
			return nil
		}
		if !prelude[0].is(css.IdentToken, "if") {
			return p.errorf(at.line, `expected "{".`)
		}
		cond, err := parseExpression(prelude[1:], at)
		if err != nil {
			return err
		}
		s.clauses = append(s.clauses, ifClause{cond: cond, body: body})
	}
}

func (p *parser) parseFor(prelude []token, body []stmt, at position) ([]stmt, error) {
	from := indexIdent(prelude, "from")
	if from < 0 {
		return nil, p.errorf(at.line, `expected "from".`)
	}
	v, err := p.variableName(trimSpace(prelude[:from]), at)
	if err != nil {
		return nil, err
	}
	rest := prelude[from+1:]
	to := indexIdent(rest, "through", "to")
	if to < 0 {
		return nil, p.errorf(at.line, `expected "to" or "through".`)
	}
	s := &forStmt{at: at, variable: v, inclusive: rest[to].text == "through", body: body}
	if s.from, err = parseExpression(rest[:to], at); err != nil {
		return nil, err
	}
	if s.to, err = parseExpression(rest[to+1:], at); err != nil {
		return nil, err
	}
	return []stmt{s}, nil
}

func (p *parser) variableName(toks []token, at position) (string, error) {
	if len(toks) != 2 || !toks[0].isDelim("$") || toks[1].tt != css.IdentToken {
		return "", p.errorf(at.line, "Expected variable.")
	}
	return normalizeName(toks[1].text), nil
}

// signature splits "name(args)" into the name and the argument tokens.
// Module namespaces ("theme.button") are dropped.
func (p *parser) signature(prelude []token, at position) (string, []token, error) {
	if len(prelude) >= 3 && prelude[0].tt == css.IdentToken && prelude[1].isDelim(".") {
		prelude = prelude[2:]
	}
	if len(prelude) == 0 {
		return "", nil, p.errorf(at.line, "Expected identifier.")
	}
	first := prelude[0]
	switch first.tt {
	case css.IdentToken:
		if len(trimSpace(prelude[1:])) > 0 {
			return "", nil, p.errorf(at.line, `expected "(".`)
		}
		return first.text, nil, nil
	case css.FunctionToken:
		end := matchClose(prelude, 0)
		if end < 0 {
			return "", nil, p.errorf(at.line, `expected ")".`)
		}
		return strings.TrimSuffix(first.text, "("), prelude[1:end], nil
	}
	return "", nil, p.errorf(at.line, "Expected identifier.")
}

// indexFunction returns the index of the function token opening an
// argument list, or -1.
func indexFunction(toks []token) int {
	for i, t := range toks {
		if t.tt == css.FunctionToken {
			return i
		}
	}
	return -1
}

func (p *parser) parseParams(toks []token, at position) ([]param, error) {
	toks = trimSpace(toks)
	if len(toks) == 0 {
		return nil, nil
	}
	var params []param
	for _, part := range splitTopLevel(toks, css.CommaToken) {
		part = trimSpace(part)
		if len(part) == 0 {
			continue
		}
		if len(part) < 2 || !part[0].isDelim("$") || part[1].tt != css.IdentToken {
			return nil, p.errorf(at.line, "Expected variable.")
		}
		pa := param{name: normalizeName(part[1].text)}
		rest := trimSpace(part[2:])
		switch {
		case len(rest) == 3 && rest[0].isDelim(".") && rest[1].isDelim(".") && rest[2].isDelim("."):
			pa.rest = true
		case len(rest) > 0 && rest[0].tt == css.ColonToken:
			def, err := parseExpression(rest[1:], at)
			if err != nil {
				return nil, err
			}
			pa.def = def
		case len(rest) > 0:
			return nil, p.errorf(at.line, `expected ")".`)
		}
		params = append(params, pa)
	}
	return params, nil
}

func (p *parser) parseImports(prelude []token, at position) ([]stmt, error) {
	var out []stmt
	for _, part := range splitTopLevel(prelude, css.CommaToken) {
		part = trimSpace(part)
		if len(part) == 0 {
			return nil, p.errorf(at.line, "Expected string.")
		}
		raw := tokensText(part)
		switch {
		case len(part) == 1 && part[0].tt == css.StringToken:
			url := unquoteToken(part[0].text)
			out = append(out, &importStmt{at: at, url: url, plain: isPlainImport(url), raw: raw})
		case part[0].tt == css.StringToken || part[0].tt == css.URLToken || part[0].tt == css.FunctionToken:
			// url() or media-qualified imports are plain CSS
			out = append(out, &importStmt{at: at, plain: true, raw: raw})
		default:
			return nil, p.errorf(at.line, "Expected string.")
		}
	}
	return out, nil
}

func isPlainImport(url string) bool {
	return strings.HasSuffix(url, ".css") ||
		strings.HasPrefix(url, "http://") ||
		strings.HasPrefix(url, "https://") ||
		strings.HasPrefix(url, "//")
}

func unquoteToken(text string) string {
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		return unescape(text[1 : len(text)-1])
	}
	return text
}
