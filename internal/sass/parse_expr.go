package sass

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// rawFunctions keep their arguments as CSS text; only variables and
// interpolation are substituted.
var rawFunctions = map[string]bool{
	"calc":  true,
	"clamp": true,
	"var":   true,
	"env":   true,
	"min":   true,
	"max":   true,
	"url":   true,
}

// exprParser is a precedence-climbing parser over a token slice. From
// loosest to tightest: comma list, space list, or, and, equality,
// relational, additive, multiplicative, unary, primary.
type exprParser struct {
	toks []token
	i    int
	at   position
}

func parseExpression(toks []token, at position) (expr, error) {
	p := &exprParser{toks: trimSpace(toks), at: at}
	if len(p.toks) == 0 {
		return nil, p.errorf("Expected expression.")
	}
	e, err := p.parseCommaList()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if !p.eof() {
		return nil, p.errorf("expected end of expression, got %q", p.toks[p.i].text)
	}
	return e, nil
}

func (p *exprParser) errorf(format string, args ...any) error {
	line := p.at.line
	if p.i < len(p.toks) {
		line = p.toks[p.i].line
	}
	return &Error{Path: p.at.path, Line: line, Message: fmt.Sprintf(format, args...)}
}

func (p *exprParser) eof() bool {
	return p.i >= len(p.toks)
}

func (p *exprParser) peek() token {
	if p.eof() {
		return token{tt: css.ErrorToken}
	}
	return p.toks[p.i]
}

func (p *exprParser) skipWS() {
	for p.i < len(p.toks) && p.toks[p.i].tt == css.WhitespaceToken {
		p.i++
	}
}

// opAt returns the operator starting at toks[i] and the number of tokens it spans.
func (p *exprParser) opAt(i int) (string, int) {
	if i >= len(p.toks) {
		return "", 0
	}
	t := p.toks[i]
	switch t.tt {
	case css.IdentToken:
		if t.text == "and" || t.text == "or" {
			return t.text, 1
		}
	case css.DelimToken:
		c := t.text
		if i+1 < len(p.toks) && p.toks[i+1].isDelim("=") && strings.Contains("=!<>", c) {
			return c + "=", 2
		}
		return c, 1
	}
	return "", 0
}

func (p *exprParser) parseCommaList() (expr, error) {
	first, err := p.parseSpaceList()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if p.peek().tt != css.CommaToken {
		return first, nil
	}
	items := []expr{first}
	for p.peek().tt == css.CommaToken {
		p.i++
		p.skipWS()
		if p.eof() || closes(p.peek()) {
			break
		}
		item, err := p.parseSpaceList()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipWS()
	}
	return &listExpr{items: items, sep: SepComma}, nil
}

func (p *exprParser) parseSpaceList() (expr, error) {
	first, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	items := []expr{first}
	for {
		save := p.i
		p.skipWS()
		if p.eof() || !p.startsOperand() {
			p.i = save
			break
		}
		item, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 1 {
		return first, nil
	}
	return &listExpr{items: items, sep: SepSpace}, nil
}

// binaryLevels lists operators from loosest to tightest binding.
var binaryLevels = [][]string{
	{"or"},
	{"and"},
	{"==", "!="},
	{"<", ">", "<=", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *exprParser) parseBinary(level int) (expr, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		save := p.i
		p.skipWS()
		op, n := p.opAt(p.i)
		// "1+2" lexes as the numbers 1 and +2; a sign glued to the left
		// operand is an additive operator.
		glued := p.i == save && p.gluedSign()
		if glued {
			op = p.toks[p.i].text[:1]
		}
		if !slices.Contains(binaryLevels[level], op) {
			p.i = save
			return left, nil
		}
		if glued {
			p.unsign()
		} else {
			p.i += n
		}
		p.skipWS()
		if p.eof() {
			return nil, p.errorf("Expected expression.")
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		b := &binaryExpr{op: op, left: left, right: right}
		if op == "/" {
			b.slash = isSlashOperand(left) && isLiteralNumber(right)
		}
		left = b
	}
}

// gluedSign reports whether the current token is a signed number.
func (p *exprParser) gluedSign() bool {
	t := p.peek()
	return isNumeric(t.tt) && len(t.text) > 1 && (t.text[0] == '+' || t.text[0] == '-')
}

// unsign drops the sign of the current token. Tokens are copied first
// because the slice is shared with the statement parser.
func (p *exprParser) unsign() {
	p.toks = slices.Clone(p.toks)
	p.toks[p.i].text = p.toks[p.i].text[1:]
}

func isLiteralNumber(e expr) bool {
	l, ok := e.(*literalExpr)
	if !ok {
		return false
	}
	_, ok = l.val.(Number)
	return ok
}

func isSlashOperand(e expr) bool {
	if b, ok := e.(*binaryExpr); ok {
		return b.slash
	}
	return isLiteralNumber(e)
}

func (p *exprParser) parseUnary() (expr, error) {
	t := p.peek()
	switch {
	case t.is(css.IdentToken, "not") && p.i+1 < len(p.toks) && p.toks[p.i+1].tt == css.WhitespaceToken:
		p.i++
		p.skipWS()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{op: "not", operand: operand}, nil
	case t.isDelim("-") || t.isDelim("+"):
		p.i++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if l, ok := operand.(*literalExpr); ok {
			if n, ok := l.val.(Number); ok {
				if t.text == "-" {
					n.Value = -n.Value
				}
				return &literalExpr{val: n}, nil
			}
		}
		return &unaryExpr{op: t.text, operand: operand}, nil
	}
	return p.parsePrimary()
}

// startsOperand reports whether the current token can begin another item of
// a space-separated list.
func (p *exprParser) startsOperand() bool {
	t := p.toks[p.i]
	switch t.tt {
	case css.NumberToken, css.PercentageToken, css.DimensionToken, css.StringToken,
		css.HashToken, css.URLToken, css.UnicodeRangeToken, css.CustomPropertyNameToken,
		css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
		return true
	case css.IdentToken:
		return t.text != "and" && t.text != "or"
	case css.DelimToken:
		switch t.text {
		case "$", "&":
			return true
		case "#":
			return isInterpStart(p.toks, p.i)
		case "!":
			return p.i+1 < len(p.toks) && p.toks[p.i+1].tt == css.IdentToken
		}
	}
	return false
}

func (p *exprParser) parsePrimary() (expr, error) {
	if p.eof() {
		return nil, p.errorf("Expected expression.")
	}
	t := p.toks[p.i]
	switch t.tt {
	case css.NumberToken, css.PercentageToken, css.DimensionToken:
		p.i++
		n, err := parseNumber(t.text)
		if err != nil {
			return nil, &Error{Path: p.at.path, Line: t.line, Message: err.Error()}
		}
		return &literalExpr{val: n}, nil
	case css.StringToken:
		p.i++
		return p.stringExpr(t)
	case css.BadStringToken:
		return nil, p.errorf("Expected closing quote.")
	case css.URLToken:
		p.i++
		return p.urlExpr(t)
	case css.HashToken:
		p.i++
		if c, ok := parseHexColor(t.text); ok {
			return &literalExpr{val: c}, nil
		}
		return &literalExpr{val: String{Text: t.text}}, nil
	case css.UnicodeRangeToken, css.CustomPropertyNameToken:
		p.i++
		return &literalExpr{val: String{Text: t.text}}, nil
	case css.IdentToken:
		return p.identExpr()
	case css.FunctionToken:
		p.i++
		return p.parseCall(strings.TrimSuffix(t.text, "("))
	case css.LeftParenthesisToken:
		p.i++
		return p.parseParen()
	case css.LeftBracketToken:
		p.i++
		return p.parseBracketed()
	case css.DelimToken:
		switch t.text {
		case "$":
			if p.i+1 < len(p.toks) && p.toks[p.i+1].tt == css.IdentToken {
				p.i += 2
				return &varExpr{name: normalizeName(p.toks[p.i-1].text)}, nil
			}
		case "#":
			if isInterpStart(p.toks, p.i) {
				return p.identExpr()
			}
		case "&":
			p.i++
			return &parentExpr{}, nil
		case "!":
			if p.i+1 < len(p.toks) && p.toks[p.i+1].tt == css.IdentToken {
				p.i += 2
				return &literalExpr{val: String{Text: "!" + p.toks[p.i-1].text}}, nil
			}
		}
	}
	return nil, p.errorf("Expected expression.")
}

// identExpr parses an identifier, a namespaced member (map.get(), cfg.$x) or
// an identifier built from #{} interpolation.
func (p *exprParser) identExpr() (expr, error) {
	t := p.toks[p.i]
	if t.tt == css.IdentToken && p.i+2 < len(p.toks) && p.toks[p.i+1].isDelim(".") {
		next := p.toks[p.i+2]
		switch {
		case next.tt == css.FunctionToken:
			p.i += 3
			return p.parseCall(t.text + "." + strings.TrimSuffix(next.text, "("))
		case next.isDelim("$") && p.i+3 < len(p.toks) && p.toks[p.i+3].tt == css.IdentToken:
			p.i += 4
			return &varExpr{name: normalizeName(p.toks[p.i-1].text)}, nil
		}
	}

	var in interp
	for p.i < len(p.toks) {
		t := p.toks[p.i]
		if isInterpStart(p.toks, p.i) {
			end := matchClose(p.toks, p.i+1)
			if end < 0 {
				return nil, p.errorf(`expected "}".`)
			}
			e, err := parseExpression(p.toks[p.i+2:end], position{p.at.path, t.line})
			if err != nil {
				return nil, err
			}
			in.addExpr(e)
			p.i = end + 1
			continue
		}
		if t.tt == css.IdentToken || (len(in.parts) > 0 && isNumeric(t.tt)) {
			in.addText(t.text)
			p.i++
			continue
		}
		break
	}

	text, ok := in.literal()
	if !ok {
		return &interpExpr{in: in}, nil
	}
	switch text {
	case "true":
		return &literalExpr{val: Bool(true)}, nil
	case "false":
		return &literalExpr{val: Bool(false)}, nil
	case "null":
		return &literalExpr{val: Null{}}, nil
	}
	if c, ok := namedColor(text); ok {
		return &literalExpr{val: c}, nil
	}
	return &literalExpr{val: String{Text: text}}, nil
}

func isNumeric(tt css.TokenType) bool {
	return tt == css.NumberToken || tt == css.DimensionToken || tt == css.PercentageToken
}

// stringExpr parses a quoted string token, which may contain #{} interpolation.
func (p *exprParser) stringExpr(t token) (expr, error) {
	body := t.text
	if len(body) >= 2 && body[len(body)-1] == body[0] {
		body = body[1 : len(body)-1]
	} else {
		body = body[1:]
	}
	if !strings.Contains(body, "#{") {
		return &literalExpr{val: String{Text: unescape(body), Quoted: true}}, nil
	}
	var in interp
	for {
		i := strings.Index(body, "#{")
		if i < 0 {
			in.addText(unescape(body))
			break
		}
		in.addText(unescape(body[:i]))
		end := closingBrace(body, i+2)
		if end < 0 {
			return nil, &Error{Path: p.at.path, Line: t.line, Message: `expected "}".`}
		}
		e, err := parseExpression(tokenize(body[i+2:end], t.line), position{p.at.path, t.line})
		if err != nil {
			return nil, err
		}
		in.addExpr(e)
		body = body[end+1:]
	}
	return &interpExpr{in: in, quoted: true}, nil
}

// urlExpr handles unquoted url() bodies that reference variables.
func (p *exprParser) urlExpr(t token) (expr, error) {
	if !strings.ContainsAny(t.text, "$#") || len(t.text) < 5 {
		return &literalExpr{val: String{Text: t.text}}, nil
	}
	inner := t.text[4 : len(t.text)-1]
	in, err := buildInterp(tokenize(inner, t.line), position{p.at.path, t.line}, true)
	if err != nil {
		return nil, err
	}
	return &callExpr{name: "url", raw: &in}, nil
}

// closingBrace returns the index of the } closing a #{ that ends just before start.
func closingBrace(s string, start int) int {
	depth := 1
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (p *exprParser) parseCall(name string) (expr, error) {
	if rawFunctions[strings.ToLower(name)] {
		end := matchClose(p.toks, p.i-1)
		if end < 0 {
			return nil, p.errorf(`expected ")".`)
		}
		in, err := buildInterp(p.toks[p.i:end], p.at, true)
		if err != nil {
			return nil, err
		}
		p.i = end + 1
		return &callExpr{name: name, raw: &in}, nil
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return &callExpr{name: name, args: args}, nil
}

// parseArgs parses an argument list up to and including the closing parenthesis.
func (p *exprParser) parseArgs() ([]arg, error) {
	var args []arg
	for {
		p.skipWS()
		if p.eof() {
			return nil, p.errorf(`expected ")".`)
		}
		if p.peek().tt == css.RightParenthesisToken {
			p.i++
			return args, nil
		}
		var a arg
		if p.peek().isDelim("$") && p.i+1 < len(p.toks) && p.toks[p.i+1].tt == css.IdentToken {
			j := p.i + 2
			for j < len(p.toks) && p.toks[j].tt == css.WhitespaceToken {
				j++
			}
			if j < len(p.toks) && p.toks[j].tt == css.ColonToken {
				a.name = normalizeName(p.toks[p.i+1].text)
				p.i = j + 1
				p.skipWS()
			}
		}
		v, err := p.parseSpaceList()
		if err != nil {
			return nil, err
		}
		a.value = v
		if p.atEllipsis() {
			p.i += 3
			a.spread = true
		}
		args = append(args, a)
		p.skipWS()
		switch p.peek().tt {
		case css.CommaToken:
			p.i++
		case css.RightParenthesisToken:
		default:
			return nil, p.errorf(`expected ")".`)
		}
	}
}

func (p *exprParser) atEllipsis() bool {
	return p.i+2 < len(p.toks) &&
		p.toks[p.i].isDelim(".") && p.toks[p.i+1].isDelim(".") && p.toks[p.i+2].isDelim(".")
}

// parseParen parses a parenthesized expression, list or map after the "(".
func (p *exprParser) parseParen() (expr, error) {
	p.skipWS()
	if p.peek().tt == css.RightParenthesisToken {
		p.i++
		return &literalExpr{val: List{}}, nil
	}
	first, err := p.parseSpaceList()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if p.peek().tt == css.ColonToken {
		return p.parseMapRest(first)
	}
	e := first
	if p.peek().tt == css.CommaToken {
		items := []expr{first}
		for p.peek().tt == css.CommaToken {
			p.i++
			p.skipWS()
			if p.peek().tt == css.RightParenthesisToken {
				break
			}
			item, err := p.parseSpaceList()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			p.skipWS()
		}
		e = &listExpr{items: items, sep: SepComma}
	}
	if p.peek().tt != css.RightParenthesisToken {
		return nil, p.errorf(`expected ")".`)
	}
	p.i++
	return &parenExpr{inner: e}, nil
}

func (p *exprParser) parseMapRest(firstKey expr) (expr, error) {
	m := &mapExpr{keys: []expr{firstKey}}
	for {
		p.i++ // ':'
		p.skipWS()
		v, err := p.parseSpaceList()
		if err != nil {
			return nil, err
		}
		m.values = append(m.values, v)
		p.skipWS()
		if p.peek().tt != css.CommaToken {
			break
		}
		p.i++
		p.skipWS()
		if p.peek().tt == css.RightParenthesisToken {
			break
		}
		k, err := p.parseSpaceList()
		if err != nil {
			return nil, err
		}
		m.keys = append(m.keys, k)
		p.skipWS()
		if p.peek().tt != css.ColonToken {
			return nil, p.errorf(`expected ":".`)
		}
	}
	if p.peek().tt != css.RightParenthesisToken {
		return nil, p.errorf(`expected ")".`)
	}
	p.i++
	return m, nil
}

func (p *exprParser) parseBracketed() (expr, error) {
	p.skipWS()
	if p.peek().tt == css.RightBracketToken {
		p.i++
		return &literalExpr{val: List{Bracketed: true, Separator: SepSpace}}, nil
	}
	e, err := p.parseCommaList()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if p.peek().tt != css.RightBracketToken {
		return nil, p.errorf(`expected "]".`)
	}
	p.i++
	if l, ok := e.(*listExpr); ok {
		return &listExpr{items: l.items, sep: l.sep, bracketed: true}, nil
	}
	return &listExpr{items: []expr{e}, sep: SepSpace, bracketed: true}, nil
}

// buildInterp turns raw tokens into interpolated text. With vars set,
// $name references are substituted as well.
func buildInterp(toks []token, at position, vars bool) (interp, error) {
	var in interp
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case isInterpStart(toks, i):
			end := matchClose(toks, i+1)
			if end < 0 {
				return interp{}, &Error{Path: at.path, Line: t.line, Message: `expected "}".`}
			}
			e, err := parseExpression(toks[i+2:end], position{at.path, t.line})
			if err != nil {
				return interp{}, err
			}
			in.addExpr(e)
			i = end
		case vars && t.isDelim("$") && i+1 < len(toks) && toks[i+1].tt == css.IdentToken:
			in.addExpr(&varExpr{name: normalizeName(toks[i+1].text)})
			i++
		case t.tt == css.WhitespaceToken:
			in.addText(" ")
		default:
			in.addText(t.text)
		}
	}
	return in, nil
}

// parseNumber splits a numeric token into its value and unit.
func parseNumber(text string) (Number, error) {
	i := 0
	if i < len(text) && (text[i] == '+' || text[i] == '-') {
		i++
	}
	for i < len(text) && (isDigit(text[i]) || text[i] == '.') {
		i++
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		j := i + 1
		if j < len(text) && (text[j] == '+' || text[j] == '-') {
			j++
		}
		if j < len(text) && isDigit(text[j]) {
			for j < len(text) && isDigit(text[j]) {
				j++
			}
			i = j
		}
	}
	f, err := strconv.ParseFloat(text[:i], 64)
	if err != nil {
		return Number{}, fmt.Errorf("invalid number %q", text)
	}
	return Number{Value: f, Unit: text[i:]}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// unescape resolves CSS escapes inside a string body.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch {
		case s[i] == '\n':
		case isHex(s[i]):
			j := i
			for j < len(s) && j-i < 6 && isHex(s[j]) {
				j++
			}
			r, _ := strconv.ParseUint(s[i:j], 16, 32)
			b.WriteRune(rune(r))
			if j < len(s) && s[j] == ' ' {
				j++
			}
			i = j - 1
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
