package sass

// scope is a lexical variable scope. Flow scopes (@if, @each, @for,
// @while bodies) can reassign global variables without !global.
type scope struct {
	vars   map[string]Value
	parent *scope
	flow   bool
}

func newScope(parent *scope, flow bool) *scope {
	return &scope{vars: make(map[string]Value), parent: parent, flow: flow}
}

func (s *scope) lookup(name string) (Value, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *scope) global() *scope {
	sc := s
	for sc.parent != nil {
		sc = sc.parent
	}
	return sc
}

func (s *scope) define(name string, v Value) {
	s.vars[name] = v
}

// assign sets a variable. An existing local variable is updated in place. A
// global is only updated from the global scope or through flow scopes;
// otherwise the assignment creates a local.
func (s *scope) assign(name string, v Value, global bool) {
	if global {
		s.global().vars[name] = v
		return
	}
	onlyFlow := true
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.vars[name]; ok && (sc.parent != nil || onlyFlow) {
			sc.vars[name] = v
			return
		}
		onlyFlow = onlyFlow && sc.flow
	}
	s.vars[name] = v
}
