package sass

type position struct {
	path string
	line int
}

// stmt is a parsed statement.
type stmt interface {
	pos() position
}

type (
	ruleStmt struct {
		at       position
		selector interp
		body     []stmt
	}

	declStmt struct {
		at     position
		name   interp
		value  expr   // nil for custom properties
		custom interp // raw value of a custom property
	}

	// propStmt is a nested property such as "font: { size: 1px }". The
	// optional value is declared under the bare name.
	propStmt struct {
		at    position
		name  interp
		value expr
		body  []stmt
	}

	commentStmt struct {
		at   position
		text string
	}

	varStmt struct {
		at        position
		name      string
		value     expr
		isDefault bool
		isGlobal  bool
	}

	importStmt struct {
		at    position
		url   string
		plain bool // emitted as a CSS @import
		raw   string
	}

	useStmt struct {
		at      position
		url     string
		forward bool
		with    []configVar
	}

	// configVar is one "$name: value" entry of a with() configuration.
	configVar struct {
		name      string
		value     expr
		isDefault bool
	}

	callableStmt struct {
		at       position
		function bool
		name     string
		params   []param
		body     []stmt
	}

	includeStmt struct {
		at         position
		name       string
		args       []arg
		content    []stmt
		hasContent bool
	}

	contentStmt struct {
		at position
	}

	returnStmt struct {
		at    position
		value expr
	}

	ifStmt struct {
		at      position
		clauses []ifClause
	}

	eachStmt struct {
		at   position
		vars []string
		list expr
		body []stmt
	}

	forStmt struct {
		at        position
		variable  string
		from, to  expr
		inclusive bool
		body      []stmt
	}

	whileStmt struct {
		at   position
		cond expr
		body []stmt
	}

	messageStmt struct {
		at    position
		kind  string // debug, warn or error
		value expr
	}

	atRootStmt struct {
		at   position
		body []stmt
	}

	extendStmt struct {
		at position
	}

	cssAtStmt struct {
		at       position
		name     string
		prelude  interp
		body     []stmt
		hasBlock bool
	}
)

type ifClause struct {
	cond expr // nil for @else
	body []stmt
}

type param struct {
	name string
	def  expr
	rest bool
}

type arg struct {
	name   string // empty for positional arguments
	value  expr
	spread bool
}

func (s *ruleStmt) pos() position     { return s.at }
func (s *declStmt) pos() position     { return s.at }
func (s *varStmt) pos() position      { return s.at }
func (s *importStmt) pos() position   { return s.at }
func (s *useStmt) pos() position      { return s.at }
func (s *callableStmt) pos() position { return s.at }
func (s *includeStmt) pos() position  { return s.at }
func (s *contentStmt) pos() position  { return s.at }
func (s *returnStmt) pos() position   { return s.at }
func (s *ifStmt) pos() position       { return s.at }
func (s *eachStmt) pos() position     { return s.at }
func (s *forStmt) pos() position      { return s.at }
func (s *whileStmt) pos() position    { return s.at }
func (s *messageStmt) pos() position  { return s.at }
func (s *atRootStmt) pos() position   { return s.at }
func (s *extendStmt) pos() position   { return s.at }
func (s *cssAtStmt) pos() position    { return s.at }
func (s *propStmt) pos() position     { return s.at }
func (s *commentStmt) pos() position  { return s.at }

// expr is a parsed expression.
type expr interface{}

type (
	literalExpr struct {
		val Value
	}

	varExpr struct {
		name string
	}

	// interpExpr is an identifier or string containing #{} interpolation.
	interpExpr struct {
		in     interp
		quoted bool
	}

	listExpr struct {
		items     []expr
		sep       Separator
		bracketed bool
	}

	mapExpr struct {
		keys, values []expr
	}

	parenExpr struct {
		inner expr
	}

	unaryExpr struct {
		op      string
		operand expr
	}

	binaryExpr struct {
		op          string
		left, right expr
		// slash marks a / between two literals, which stays a CSS separator.
		slash bool
	}

	callExpr struct {
		name string
		args []arg
		raw  *interp // calc() and friends keep their argument text
	}

	parentExpr struct{}
)

// interp is text with embedded expressions.
type interp struct {
	parts []interpPart
}

type interpPart struct {
	text string
	expr expr // nil for literal text
}

func (in *interp) addText(s string) {
	if n := len(in.parts); n > 0 && in.parts[n-1].expr == nil {
		in.parts[n-1].text += s
		return
	}
	in.parts = append(in.parts, interpPart{text: s})
}

func (in *interp) addExpr(e expr) {
	in.parts = append(in.parts, interpPart{expr: e})
}

// literal returns the text of an interp without expressions.
func (in interp) literal() (string, bool) {
	s := ""
	for _, p := range in.parts {
		if p.expr != nil {
			return "", false
		}
		s += p.text
	}
	return s, true
}
