package sass

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

func (c *compiler) eval(e expr, f *frame) (Value, error) {
	switch e := e.(type) {
	case *literalExpr:
		return e.val, nil
	case *varExpr:
		if v, ok := f.scope.lookup(e.name); ok {
			return v, nil
		}
		return nil, fmt.Errorf("Undefined variable: $%s.", e.name)
	case *interpExpr:
		s, err := c.interpolate(e.in, f)
		if err != nil {
			return nil, err
		}
		return String{Text: s, Quoted: e.quoted}, nil
	case *listExpr:
		items := make([]Value, len(e.items))
		for i, item := range e.items {
			v, err := c.eval(item, f)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return List{Items: items, Separator: e.sep, Bracketed: e.bracketed}, nil
	case *mapExpr:
		m := NewMap()
		for i := range e.keys {
			k, err := c.eval(e.keys[i], f)
			if err != nil {
				return nil, err
			}
			if _, dup := m.Get(k); dup {
				return nil, errors.New("Duplicate key.")
			}
			v, err := c.eval(e.values[i], f)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case *parenExpr:
		return c.eval(e.inner, f)
	case *unaryExpr:
		return c.unary(e, f)
	case *binaryExpr:
		return c.binary(e, f)
	case *callExpr:
		return c.call(e, f)
	case *parentExpr:
		if len(f.selectors) == 0 {
			return Null{}, nil
		}
		items := make([]Value, len(f.selectors))
		for i, s := range f.selectors {
			items[i] = String{Text: s}
		}
		if len(items) == 1 {
			return items[0], nil
		}
		return List{Items: items, Separator: SepComma}, nil
	}
	return nil, fmt.Errorf("unsupported expression %T", e)
}

// evalDeclValue evaluates a declaration value, where a / between two
// literal numbers ("12px/1.5") is a separator rather than a division.
func (c *compiler) evalDeclValue(e expr, f *frame) (Value, error) {
	switch e := e.(type) {
	case *binaryExpr:
		if !e.slash {
			break
		}
		left, err := c.evalDeclValue(e.left, f)
		if err != nil {
			return nil, err
		}
		right, err := c.eval(e.right, f)
		if err != nil {
			return nil, err
		}
		return List{Items: []Value{left, right}, Separator: SepSlash}, nil
	case *listExpr:
		items := make([]Value, len(e.items))
		for i, item := range e.items {
			v, err := c.evalDeclValue(item, f)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return List{Items: items, Separator: e.sep, Bracketed: e.bracketed}, nil
	}
	return c.eval(e, f)
}

func (c *compiler) unary(e *unaryExpr, f *frame) (Value, error) {
	v, err := c.eval(e.operand, f)
	if err != nil {
		return nil, err
	}
	switch e.op {
	case "not":
		return Bool(!truthy(v)), nil
	case "-":
		if n, ok := v.(Number); ok {
			return Number{Value: -n.Value, Unit: n.Unit}, nil
		}
	case "+":
		if n, ok := v.(Number); ok {
			return n, nil
		}
	}
	return String{Text: e.op + interpString(v)}, nil
}

func (c *compiler) binary(e *binaryExpr, f *frame) (Value, error) {
	left, err := c.eval(e.left, f)
	if err != nil {
		return nil, err
	}
	switch e.op {
	case "and":
		if !truthy(left) {
			return left, nil
		}
		return c.eval(e.right, f)
	case "or":
		if truthy(left) {
			return left, nil
		}
		return c.eval(e.right, f)
	}
	right, err := c.eval(e.right, f)
	if err != nil {
		return nil, err
	}
	switch e.op {
	case "==":
		return Bool(Equal(left, right)), nil
	case "!=":
		return Bool(!Equal(left, right)), nil
	case "<", ">", "<=", ">=":
		return compare(e.op, left, right)
	case "+":
		return add(left, right)
	case "-":
		return subtract(left, right)
	case "*":
		return multiply(left, right)
	case "/":
		return divide(left, right)
	case "%":
		return modulo(left, right)
	}
	return nil, fmt.Errorf("unknown operator %q", e.op)
}

func undefinedOperation(op string, l, r Value) error {
	return fmt.Errorf(`Undefined operation "%s %s %s".`, inspect(l), op, inspect(r))
}

// unitResult returns the unit of an additive operation. Unitless numbers
// adopt the other operand's unit.
func unitResult(a, b Number) (string, error) {
	switch {
	case a.Unit == b.Unit:
		return a.Unit, nil
	case a.Unit == "":
		return b.Unit, nil
	case b.Unit == "":
		return a.Unit, nil
	}
	return "", fmt.Errorf("Incompatible units %s and %s.", b.Unit, a.Unit)
}

func numbers(l, r Value) (Number, Number, bool) {
	ln, lok := l.(Number)
	rn, rok := r.(Number)
	return ln, rn, lok && rok
}

func compare(op string, l, r Value) (Value, error) {
	ln, rn, ok := numbers(l, r)
	if !ok {
		return nil, undefinedOperation(op, l, r)
	}
	if _, err := unitResult(ln, rn); err != nil {
		return nil, err
	}
	switch op {
	case "<":
		return Bool(ln.Value < rn.Value), nil
	case ">":
		return Bool(ln.Value > rn.Value), nil
	case "<=":
		return Bool(ln.Value <= rn.Value), nil
	}
	return Bool(ln.Value >= rn.Value), nil
}

func add(l, r Value) (Value, error) {
	if ln, rn, ok := numbers(l, r); ok {
		unit, err := unitResult(ln, rn)
		if err != nil {
			return nil, err
		}
		return Number{Value: ln.Value + rn.Value, Unit: unit}, nil
	}
	if isMap(l) || isMap(r) {
		return nil, undefinedOperation("+", l, r)
	}
	if ls, ok := l.(String); ok {
		return String{Text: ls.Text + interpString(r), Quoted: ls.Quoted}, nil
	}
	if rs, ok := r.(String); ok {
		return String{Text: interpString(l) + rs.Text, Quoted: rs.Quoted}, nil
	}
	return String{Text: interpString(l) + interpString(r)}, nil
}

func subtract(l, r Value) (Value, error) {
	if ln, rn, ok := numbers(l, r); ok {
		unit, err := unitResult(ln, rn)
		if err != nil {
			return nil, err
		}
		return Number{Value: ln.Value - rn.Value, Unit: unit}, nil
	}
	if isMap(l) || isMap(r) {
		return nil, undefinedOperation("-", l, r)
	}
	return String{Text: interpString(l) + "-" + interpString(r)}, nil
}

func multiply(l, r Value) (Value, error) {
	ln, rn, ok := numbers(l, r)
	if !ok {
		return nil, undefinedOperation("*", l, r)
	}
	if ln.Unit != "" && rn.Unit != "" {
		return nil, fmt.Errorf("%s*%s isn't a valid CSS value.", ln.Unit, rn.Unit)
	}
	return Number{Value: ln.Value * rn.Value, Unit: ln.Unit + rn.Unit}, nil
}

func divide(l, r Value) (Value, error) {
	ln, rn, ok := numbers(l, r)
	if !ok {
		if isMap(l) || isMap(r) {
			return nil, undefinedOperation("/", l, r)
		}
		return String{Text: interpString(l) + "/" + interpString(r)}, nil
	}
	switch {
	case ln.Unit == rn.Unit:
		return Number{Value: ln.Value / rn.Value}, nil
	case rn.Unit == "":
		return Number{Value: ln.Value / rn.Value, Unit: ln.Unit}, nil
	}
	return nil, fmt.Errorf("%s/%s isn't a valid CSS value.", unitLabel(ln.Unit), rn.Unit)
}

func unitLabel(unit string) string {
	if unit == "" {
		return "1"
	}
	return unit
}

func modulo(l, r Value) (Value, error) {
	ln, rn, ok := numbers(l, r)
	if !ok {
		return nil, undefinedOperation("%", l, r)
	}
	unit, err := unitResult(ln, rn)
	if err != nil {
		return nil, err
	}
	m := math.Mod(ln.Value, rn.Value)
	if m != 0 && (m < 0) != (rn.Value < 0) {
		m += rn.Value
	}
	return Number{Value: m, Unit: unit}, nil
}

func isMap(v Value) bool {
	_, ok := v.(*Map)
	return ok
}

func (c *compiler) call(e *callExpr, f *frame) (Value, error) {
	if e.raw != nil {
		s, err := c.interpolate(*e.raw, f)
		if err != nil {
			return nil, err
		}
		return String{Text: e.name + "(" + strings.TrimSpace(s) + ")"}, nil
	}
	name := normalizeName(e.name)
	if name == "if" {
		return c.callIf(e, f)
	}
	if fn, ok := c.functions[name]; ok {
		return c.callFunction(fn, e.args, f)
	}
	if fn, ok := c.custom[name]; ok {
		positional, named, err := c.evalArgs(e.args, f)
		if err != nil {
			return nil, err
		}
		if len(named) > 0 {
			return nil, fmt.Errorf("%s() does not accept keyword arguments.", e.name)
		}
		v, err := fn(positional)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return Null{}, nil
		}
		return v, nil
	}
	if b, ok := builtins[name]; ok {
		positional, named, err := c.evalArgs(e.args, f)
		if err != nil {
			return nil, err
		}
		args, err := b.bind(positional, named)
		if err != nil {
			return nil, err
		}
		v, err := b.fn(args)
		if errors.Is(err, errPlainCSS) {
			return c.plainFunction(e, f)
		}
		return v, err
	}
	if exists, ok := c.existsFunctions()[name]; ok {
		positional, _, err := c.evalArgs(e.args, f)
		if err != nil {
			return nil, err
		}
		if len(positional) != 1 {
			return nil, fmt.Errorf("%s() takes exactly one argument.", e.name)
		}
		s, err := stringArg(positional[0], "name")
		if err != nil {
			return nil, err
		}
		return Bool(exists(normalizeName(s.Text), f)), nil
	}
	if slices.Contains(unsupportedBuiltins, name) {
		return nil, fmt.Errorf("%s() is not supported.", e.name)
	}
	return c.plainFunction(e, f)
}

// unsupportedBuiltins are Sass functions the compiler does not implement.
// Calling one is an error rather than a plain CSS function.
var unsupportedBuiltins = []string{
	"unique-id", "call", "get-function", "feature-exists", "keywords", "random",
	"content-exists", "is-superselector", "simple-selectors", "selector-parse",
	"selector-nest", "selector-append", "selector-extend", "selector-replace",
	"selector-unify", "meta.load-css", "meta.call", "meta.get-function",
	"meta.keywords", "meta.content-exists", "math.random", "string.unique-id",
}

func (c *compiler) existsFunctions() map[string]func(name string, f *frame) bool {
	variable := func(name string, f *frame) bool {
		_, ok := f.scope.lookup(name)
		return ok
	}
	global := func(name string, _ *frame) bool {
		_, ok := c.global.vars[name]
		return ok
	}
	function := func(name string, _ *frame) bool {
		_, user := c.functions[name]
		_, custom := c.custom[name]
		_, builtin := builtins[name]
		return user || custom || builtin
	}
	mixin := func(name string, _ *frame) bool {
		_, ok := c.mixins[name]
		return ok
	}
	return map[string]func(string, *frame) bool{
		"variable-exists": variable, "meta.variable-exists": variable,
		"global-variable-exists": global, "meta.global-variable-exists": global,
		"function-exists": function, "meta.function-exists": function,
		"mixin-exists": mixin, "meta.mixin-exists": mixin,
	}
}

// plainFunction renders a call to a function unknown to the compiler as CSS.
func (c *compiler) plainFunction(e *callExpr, f *frame) (Value, error) {
	parts := make([]string, 0, len(e.args))
	for _, a := range e.args {
		if a.name != "" {
			return nil, errors.New("Plain CSS functions don't support keyword arguments.")
		}
		v, err := c.evalDeclValue(a.value, f)
		if err != nil {
			return nil, err
		}
		s, err := toCSS(v, c.compressed)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return String{Text: e.name + "(" + strings.Join(parts, separatorText(SepComma, c.compressed)) + ")"}, nil
}

func (c *compiler) callFunction(fn *callable, args []arg, f *frame) (Value, error) {
	if err := c.enter(); err != nil {
		return nil, err
	}
	defer c.leave()
	sc := newScope(fn.closure, false)
	if err := c.bindArgs(sc, fn.params, args, f); err != nil {
		return nil, err
	}
	child := &frame{scope: sc, selectors: f.selectors, function: true, path: f.path}
	v, returned, err := c.evalBlock(fn.body, child)
	if err != nil {
		return nil, err
	}
	if !returned {
		return nil, errors.New("Function finished without @return.")
	}
	return v, nil
}

// callIf evaluates only the selected branch of if($condition, $if-true, $if-false).
func (c *compiler) callIf(e *callExpr, f *frame) (Value, error) {
	names := []string{"condition", "if-true", "if-false"}
	exprs := make([]expr, len(names))
	pos := 0
	for _, a := range e.args {
		if a.name == "" {
			if pos >= len(exprs) {
				return nil, fmt.Errorf("Only 3 arguments allowed, but %d were passed.", len(e.args))
			}
			exprs[pos] = a.value
			pos++
			continue
		}
		i := slices.Index(names, a.name)
		if i < 0 {
			return nil, fmt.Errorf("No argument named $%s.", a.name)
		}
		exprs[i] = a.value
	}
	for i, x := range exprs {
		if x == nil {
			return nil, fmt.Errorf("Missing argument $%s.", names[i])
		}
	}
	cond, err := c.eval(exprs[0], f)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return c.eval(exprs[1], f)
	}
	return c.eval(exprs[2], f)
}
