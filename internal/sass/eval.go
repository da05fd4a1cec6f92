package sass

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const (
	maxCallDepth      = 512
	maxWhileIteration = 100000
)

type callable struct {
	params  []param
	body    []stmt
	closure *scope
}

type contentBlock struct {
	body  []stmt
	scope *scope
	outer *contentBlock
}

// frame is the evaluation context of a block.
type frame struct {
	scope     *scope
	selectors []string   // nil outside style rules
	out       *[]cssNode // nil inside function bodies
	rule      *cssRule   // rule currently receiving declarations
	content   *contentBlock
	function  bool
	atRule    bool   // declarations allowed without a selector (@font-face)
	prefix    string // nested property prefix such as "font-"
	path      string
}

func (f *frame) with(s *scope) *frame {
	child := *f
	child.scope = s
	return &child
}

type compiler struct {
	fs         afero.Fs
	compressed bool
	loadPaths  []string
	custom     map[string]Function
	log        zerolog.Logger

	global    *scope
	mixins    map[string]*callable
	functions map[string]*callable
	parsed    map[string][]stmt
	used      map[string]bool
	loading   []string
	depth     int
	root      []cssNode
}

func newCompiler(opts Options) *compiler {
	c := &compiler{
		fs:         opts.Fs,
		compressed: opts.Style == Compressed,
		loadPaths:  opts.LoadPaths,
		custom:     make(map[string]Function, len(opts.Functions)),
		log:        zerolog.Nop(),
		global:     newScope(nil, false),
		mixins:     make(map[string]*callable),
		functions:  make(map[string]*callable),
		parsed:     make(map[string][]stmt),
		used:       make(map[string]bool),
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if opts.Logger != nil {
		c.log = *opts.Logger
	}
	for name, fn := range opts.Functions {
		c.custom[normalizeName(name)] = fn
	}
	return c
}

// wrap attaches a source position to errors that do not carry one yet.
func wrap(at position, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Path: at.path, Line: at.line, Message: err.Error()}
}

func (c *compiler) evalBlock(stmts []stmt, f *frame) (Value, bool, error) {
	for _, s := range stmts {
		v, returned, err := c.evalStmt(s, f)
		if err != nil {
			return nil, false, wrap(s.pos(), err)
		}
		if returned {
			return v, true, nil
		}
	}
	return nil, false, nil
}

func (c *compiler) evalStmt(s stmt, f *frame) (Value, bool, error) {
	switch s := s.(type) {
	case *varStmt:
		return nil, false, c.assign(s, f)
	case *declStmt:
		return nil, false, c.declare(s, f)
	case *propStmt:
		return nil, false, c.nestedProperty(s, f)
	case *commentStmt:
		c.comment(s, f)
	case *ruleStmt:
		return nil, false, c.rule(s, f)
	case *cssAtStmt:
		return nil, false, c.atRule(s, f)
	case *importStmt:
		return nil, false, c.importFile(s, f)
	case *useStmt:
		return nil, false, c.use(s, f)
	case *callableStmt:
		cb := &callable{params: s.params, body: s.body, closure: f.scope}
		if s.function {
			c.functions[s.name] = cb
		} else {
			c.mixins[s.name] = cb
		}
	case *includeStmt:
		return nil, false, c.include(s, f)
	case *contentStmt:
		return nil, false, c.content(f)
	case *returnStmt:
		if !f.function {
			return nil, false, errors.New("@return may only be used within a function.")
		}
		v, err := c.eval(s.value, f)
		return v, err == nil, err
	case *ifStmt:
		for _, cl := range s.clauses {
			if cl.cond != nil {
				v, err := c.eval(cl.cond, f)
				if err != nil {
					return nil, false, err
				}
				if !truthy(v) {
					continue
				}
			}
			return c.flow(cl.body, newScope(f.scope, true), f)
		}
	case *eachStmt:
		return c.each(s, f)
	case *forStmt:
		return c.forLoop(s, f)
	case *whileStmt:
		return c.while(s, f)
	case *messageStmt:
		return nil, false, c.message(s, f)
	case *atRootStmt:
		if f.out == nil {
			return nil, false, errors.New("@at-root may not be used within a function.")
		}
		child := &frame{scope: newScope(f.scope, false), out: &c.root, content: f.content, path: f.path}
		_, _, err := c.evalBlock(s.body, child)
		return nil, false, err
	case *extendStmt:
		return nil, false, errors.New("@extend is not supported.")
	}
	return nil, false, nil
}

// flow evaluates a control-flow body in sc, keeping the enclosing rule.
func (c *compiler) flow(body []stmt, sc *scope, f *frame) (Value, bool, error) {
	child := f.with(sc)
	v, returned, err := c.evalBlock(body, child)
	f.rule = child.rule
	return v, returned, err
}

func (c *compiler) assign(s *varStmt, f *frame) error {
	if s.isDefault {
		sc := f.scope
		if s.isGlobal {
			sc = sc.global()
		}
		if v, ok := sc.lookup(s.name); ok {
			if _, isNull := v.(Null); !isNull {
				return nil
			}
		}
	}
	v, err := c.eval(s.value, f)
	if err != nil {
		return err
	}
	f.scope.assign(s.name, v, s.isGlobal)
	return nil
}

func (c *compiler) declare(s *declStmt, f *frame) error {
	if f.out == nil || (f.selectors == nil && !f.atRule) {
		return errors.New("Declarations may only be used within style rules.")
	}
	name, err := c.interpolate(s.name, f)
	if err != nil {
		return err
	}
	var value string
	if s.value == nil {
		if value, err = c.interpolate(s.custom, f); err != nil {
			return err
		}
	} else {
		v, err := c.evalDeclValue(s.value, f)
		if err != nil {
			return err
		}
		if isEmptyValue(v) {
			return nil
		}
		if value, err = toCSS(v, c.compressed); err != nil {
			return err
		}
	}
	if value == "" {
		return nil
	}
	c.addDecl(f, &cssDecl{name: f.prefix + strings.TrimSpace(name), value: value})
	return nil
}

// nestedProperty declares the properties of a block such as
// "font: { size: 1px }" as font-size and so on.
func (c *compiler) nestedProperty(s *propStmt, f *frame) error {
	if s.value != nil {
		if err := c.declare(&declStmt{at: s.at, name: s.name, value: s.value}, f); err != nil {
			return err
		}
	}
	name, err := c.interpolate(s.name, f)
	if err != nil {
		return err
	}
	child := f.with(newScope(f.scope, false))
	child.prefix = f.prefix + strings.TrimSpace(name) + "-"
	_, _, err = c.evalBlock(s.body, child)
	f.rule = child.rule
	return err
}

func isEmptyValue(v Value) bool {
	switch t := v.(type) {
	case Null:
		return true
	case List:
		if t.Bracketed {
			return false
		}
		for _, item := range t.Items {
			if !isEmptyValue(item) {
				return false
			}
		}
		return true
	}
	return false
}

// comment copies a /* */ comment to the output. Compressed output keeps
// only /*! */ comments.
func (c *compiler) comment(s *commentStmt, f *frame) {
	if f.out == nil || (c.compressed && !strings.HasPrefix(s.text, "/*!")) {
		return
	}
	if f.selectors == nil && !f.atRule {
		*f.out = append(*f.out, &cssComment{text: s.text})
		return
	}
	c.addDecl(f, &cssDecl{value: s.text, comment: true})
}

// addDecl appends a declaration to the current rule. Declarations that
// follow a nested rule start a new rule with the same selectors.
func (c *compiler) addDecl(f *frame, d *cssDecl) {
	if f.selectors == nil {
		*f.out = append(*f.out, d)
		return
	}
	out := *f.out
	if f.rule == nil || len(out) == 0 || out[len(out)-1] != cssNode(f.rule) {
		f.rule = &cssRule{selectors: f.selectors}
		*f.out = append(*f.out, f.rule)
	}
	f.rule.decls = append(f.rule.decls, d)
}

func (c *compiler) rule(s *ruleStmt, f *frame) error {
	if f.out == nil {
		return errors.New("Style rules may not be used within functions.")
	}
	text, err := c.interpolate(s.selector, f)
	if err != nil {
		return err
	}
	sels, err := resolveSelectors(f.selectors, text)
	if err != nil {
		return err
	}
	child := &frame{
		scope:     newScope(f.scope, false),
		selectors: sels,
		out:       f.out,
		content:   f.content,
		path:      f.path,
	}
	_, _, err = c.evalBlock(s.body, child)
	return err
}

// resolveSelectors combines child selectors with their parents. A child
// containing & has it replaced; any other child becomes a descendant.
func resolveSelectors(parents []string, text string) ([]string, error) {
	children := splitSelectorList(text)
	if len(children) == 0 {
		return nil, errors.New("Expected selector.")
	}
	if parents == nil {
		for _, ch := range children {
			if strings.Contains(ch, "&") {
				return nil, errors.New(`Top-level selectors may not contain the parent selector "&".`)
			}
		}
		return children, nil
	}
	out := make([]string, 0, len(parents)*len(children))
	for _, parent := range parents {
		for _, ch := range children {
			if strings.Contains(ch, "&") {
				out = append(out, strings.ReplaceAll(ch, "&", parent))
				continue
			}
			out = append(out, parent+" "+ch)
		}
	}
	return out, nil
}

func (c *compiler) atRule(s *cssAtStmt, f *frame) error {
	if f.out == nil {
		return fmt.Errorf("@%s may not be used within a function.", s.name)
	}
	prelude, err := c.interpolate(s.prelude, f)
	if err != nil {
		return err
	}
	node := &cssAtRule{name: s.name, prelude: strings.Join(strings.Fields(prelude), " "), block: s.hasBlock}
	*f.out = append(*f.out, node)
	if !s.hasBlock {
		return nil
	}
	child := &frame{
		scope:     newScope(f.scope, false),
		selectors: f.selectors,
		out:       &node.body,
		content:   f.content,
		atRule:    true,
		path:      f.path,
	}
	if strings.HasSuffix(strings.ToLower(s.name), "keyframes") {
		child.selectors = nil
	}
	_, _, err = c.evalBlock(s.body, child)
	return err
}

func (c *compiler) include(s *includeStmt, f *frame) error {
	m, ok := c.mixins[s.name]
	if !ok {
		return errors.New("Undefined mixin.")
	}
	if f.out == nil {
		return errors.New("Mixins may not be included within functions.")
	}
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	sc := newScope(m.closure, false)
	if err := c.bindArgs(sc, m.params, s.args, f); err != nil {
		return err
	}
	child := f.with(sc)
	child.content = nil
	if s.hasContent {
		child.content = &contentBlock{body: s.content, scope: f.scope, outer: f.content}
	}
	_, _, err := c.evalBlock(m.body, child)
	f.rule = child.rule
	return err
}

func (c *compiler) content(f *frame) error {
	if f.content == nil {
		return nil
	}
	child := f.with(newScope(f.content.scope, false))
	child.content = f.content.outer
	_, _, err := c.evalBlock(f.content.body, child)
	f.rule = child.rule
	return err
}

func (c *compiler) enter() error {
	c.depth++
	if c.depth > maxCallDepth {
		return errors.New("Stack depth exceeded.")
	}
	return nil
}

func (c *compiler) leave() {
	c.depth--
}

// bindArgs evaluates call arguments in the caller's frame and binds them to
// params in sc. Defaults are evaluated in sc so they can refer to earlier
// parameters.
func (c *compiler) bindArgs(sc *scope, params []param, args []arg, f *frame) error {
	positional, named, err := c.evalArgs(args, f)
	if err != nil {
		return err
	}
	for i, p := range params {
		if p.rest {
			var rest []Value
			if i < len(positional) {
				rest = positional[i:]
			}
			sc.define(p.name, List{Items: rest, Separator: SepComma})
			positional = positional[:min(i, len(positional))]
			break
		}
		if i < len(positional) {
			sc.define(p.name, positional[i])
			continue
		}
		if v, ok := named[p.name]; ok {
			sc.define(p.name, v)
			delete(named, p.name)
			continue
		}
		if p.def != nil {
			v, err := c.eval(p.def, f.with(sc))
			if err != nil {
				return err
			}
			sc.define(p.name, v)
			continue
		}
		return fmt.Errorf("Missing argument $%s.", p.name)
	}
	if hasRest(params) {
		return nil
	}
	if len(positional) > len(params) {
		return fmt.Errorf("Only %d arguments allowed, but %d were passed.", len(params), len(positional))
	}
	if len(named) > 0 {
		return fmt.Errorf("No argument named $%s.", slices.Sorted(maps.Keys(named))[0])
	}
	return nil
}

func hasRest(params []param) bool {
	return len(params) > 0 && params[len(params)-1].rest
}

func (c *compiler) evalArgs(args []arg, f *frame) ([]Value, map[string]Value, error) {
	var positional []Value
	named := make(map[string]Value)
	for _, a := range args {
		v, err := c.eval(a.value, f)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case a.spread:
			if m, ok := v.(*Map); ok {
				for i, k := range m.keys {
					named[normalizeName(interpString(k))] = m.values[i]
				}
				continue
			}
			positional = append(positional, asList(v)...)
		case a.name != "":
			named[a.name] = v
		default:
			positional = append(positional, v)
		}
	}
	return positional, named, nil
}

func (c *compiler) each(s *eachStmt, f *frame) (Value, bool, error) {
	list, err := c.eval(s.list, f)
	if err != nil {
		return nil, false, err
	}
	for _, item := range asList(list) {
		sc := newScope(f.scope, true)
		if len(s.vars) == 1 {
			sc.define(s.vars[0], item)
		} else {
			parts := asList(item)
			for i, name := range s.vars {
				if i < len(parts) {
					sc.define(name, parts[i])
				} else {
					sc.define(name, Null{})
				}
			}
		}
		if v, returned, err := c.flow(s.body, sc, f); err != nil || returned {
			return v, returned, err
		}
	}
	return nil, false, nil
}

func (c *compiler) forLoop(s *forStmt, f *frame) (Value, bool, error) {
	from, err := c.evalInt(s.from, f)
	if err != nil {
		return nil, false, err
	}
	to, err := c.evalInt(s.to, f)
	if err != nil {
		return nil, false, err
	}
	unit, err := unitResult(from, to)
	if err != nil {
		return nil, false, err
	}
	start, end := int(from.Value), int(to.Value)
	step := 1
	if start > end {
		step = -1
	}
	if !s.inclusive {
		if start == end {
			return nil, false, nil
		}
		end -= step
	}
	for i := start; (step > 0 && i <= end) || (step < 0 && i >= end); i += step {
		sc := newScope(f.scope, true)
		sc.define(s.variable, Number{Value: float64(i), Unit: unit})
		if v, returned, err := c.flow(s.body, sc, f); err != nil || returned {
			return v, returned, err
		}
	}
	return nil, false, nil
}

func (c *compiler) evalInt(e expr, f *frame) (Number, error) {
	v, err := c.eval(e, f)
	if err != nil {
		return Number{}, err
	}
	n, ok := v.(Number)
	if !ok || n.Value != math.Trunc(n.Value) {
		return Number{}, fmt.Errorf("%s is not an int.", inspect(v))
	}
	return n, nil
}

func (c *compiler) while(s *whileStmt, f *frame) (Value, bool, error) {
	for i := 0; ; i++ {
		if i >= maxWhileIteration {
			return nil, false, fmt.Errorf("@while exceeded %d iterations.", maxWhileIteration)
		}
		cond, err := c.eval(s.cond, f)
		if err != nil {
			return nil, false, err
		}
		if !truthy(cond) {
			return nil, false, nil
		}
		if v, returned, err := c.flow(s.body, newScope(f.scope, true), f); err != nil || returned {
			return v, returned, err
		}
	}
}

func (c *compiler) message(s *messageStmt, f *frame) error {
	v, err := c.eval(s.value, f)
	if err != nil {
		return err
	}
	text := messageText(v)
	at := s.pos()
	switch s.kind {
	case "debug":
		c.log.Debug().Str("file", at.path).Int("line", at.line).Msg(text)
	case "warn":
		c.log.Warn().Str("file", at.path).Int("line", at.line).Msg(text)
	default:
		return errors.New(text)
	}
	return nil
}

func (c *compiler) importFile(s *importStmt, f *frame) error {
	if s.plain {
		if f.out == nil {
			return errors.New("This at-rule is not allowed here.")
		}
		*f.out = append(*f.out, &cssImport{raw: s.raw})
		return nil
	}
	path, err := c.resolve(filepath.Dir(f.path), s.url)
	if err != nil {
		return err
	}
	if slices.Contains(c.loading, path) {
		return errors.New("This file is already being loaded.")
	}
	stmts, err := c.load(path)
	if err != nil {
		return err
	}
	c.loading = append(c.loading, path)
	defer func() { c.loading = c.loading[:len(c.loading)-1] }()

	child := f.with(f.scope)
	child.path = path
	_, _, err = c.evalBlock(stmts, child)
	f.rule = child.rule
	return err
}

// use loads a module once and evaluates it at the top level. Its members
// share the global namespace; namespace prefixes are accepted and ignored.
func (c *compiler) use(s *useStmt, f *frame) error {
	path, err := c.resolve(filepath.Dir(f.path), s.url)
	if err != nil {
		return err
	}
	if c.used[path] {
		if len(s.with) > 0 {
			return errors.New(`This module was already loaded, so it can't be configured using "with".`)
		}
		return nil
	}
	if slices.Contains(c.loading, path) {
		return errors.New("Module loop: this module is already being loaded.")
	}
	// Configured values are defined before the module runs, so its
	// !default declarations keep them.
	for _, cv := range s.with {
		if cv.isDefault {
			if v, ok := c.global.vars[cv.name]; ok {
				if _, null := v.(Null); !null {
					continue
				}
			}
		}
		v, err := c.eval(cv.value, f)
		if err != nil {
			return err
		}
		c.global.define(cv.name, v)
	}
	c.used[path] = true
	stmts, err := c.load(path)
	if err != nil {
		return err
	}
	c.loading = append(c.loading, path)
	defer func() { c.loading = c.loading[:len(c.loading)-1] }()

	_, _, err = c.evalBlock(stmts, &frame{scope: c.global, out: &c.root, path: path})
	return err
}

func (c *compiler) interpolate(in interp, f *frame) (string, error) {
	var b strings.Builder
	for _, p := range in.parts {
		if p.expr == nil {
			b.WriteString(p.text)
			continue
		}
		v, err := c.eval(p.expr, f)
		if err != nil {
			return "", err
		}
		b.WriteString(interpString(v))
	}
	return b.String(), nil
}
