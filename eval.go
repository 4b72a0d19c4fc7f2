package calc

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("calc")

// scope provides variable values during evaluation.
type scope interface {
	Lookup(name string) (Value, bool)
}

// eval computes the node's value.
func (n *node) eval(a Arithmetic, vars scope) (Value, error) {
	switch n.kind {
	case nodeNum:
		return a.ParseNumber(n.name, n.base)
	case nodeVar:
		v, ok := vars.Lookup(n.name)
		if !ok {
			return Value{}, &NameError{Name: n.name}
		}
		if f, ok := a.(*fixedArith); ok {
			return f.coerce("$"+n.name, v)
		}
		return v, nil
	case nodeNeg:
		x, err := n.left.eval(a, vars)
		if err != nil {
			return Value{}, err
		}
		zero, err := a.ParseNumber("0", 10)
		if err != nil {
			return Value{}, err
		}
		return a.Sub(zero, x)
	case nodeNop:
		return n.left.eval(a, vars)
	case nodeNot:
		x, err := n.left.eval(a, vars)
		if err != nil {
			return Value{}, err
		}
		return a.Not(x)
	}
	f := binfunc(a, n.kind)
	if f == nil {
		panic("calc: invalid AST node " + n.kind.String())
	}
	l, err := n.left.eval(a, vars)
	if err != nil {
		return Value{}, err
	}
	r, err := n.right.eval(a, vars)
	if err != nil {
		return Value{}, err
	}
	return f(l, r)
}

// binfunc returns the arithmetic operation for a binary node kind, or nil if
// the kind is not binary.
func binfunc(a Arithmetic, kind nodeKind) func(x, y Value) (Value, error) {
	switch kind {
	case nodeAdd:
		return a.Add
	case nodeSub:
		return a.Sub
	case nodeMul:
		return a.Mul
	case nodeDiv:
		return a.Div
	case nodeMod:
		return a.Mod
	case nodePow:
		return a.Exp
	case nodeAnd:
		return a.And
	case nodeOr:
		return a.Or
	case nodeXor:
		return a.Xor
	}
	return nil
}

// Outcome is the result of evaluating one expression in a document.
type Outcome struct {
	// Text is the formatted result. It is empty if the expression was an
	// assignment or contained only directives.
	Text string
	// Value is the computed value. It is the zero Value if nothing was
	// computed.
	Value Value
	// Assigned is the name of the variable assigned by the expression, if
	// any, without the $.
	Assigned string
	// Globals is the settings the expression persisted into the document.
	Globals FuzzySettings
	// Settings is the settings the expression was evaluated under.
	Settings Settings
}

// Persisted reports whether the evaluation changed the document's settings,
// in which case the host should tell the user.
func (o Outcome) Persisted() bool {
	return !o.Globals.Empty()
}

// Evaluate evaluates an expression in the document. On success, settings the
// expression persists are stored, any assigned variable is set, and the
// result is stored in $? and $$. On error, the document is unchanged.
func (s *DocumentState) Evaluate(expr string) (Outcome, error) {
	toks, err := lex(expr)
	if err != nil {
		return Outcome{}, err
	}
	log.Debugf("tokens: %v", toks)
	toks, locals, globals, err := preprocess(toks, s)
	if err != nil {
		return Outcome{}, err
	}
	log.Debugf("preprocessed: %v; locals: %v; globals: %v", toks, locals, globals)
	persisted, eff := resolve(s.settings, locals, globals)
	if err := eff.Validate(); err != nil {
		return Outcome{}, err
	}
	a, err := arithmetic(eff, locals)
	if err != nil {
		return Outcome{}, err
	}
	target, n, err := parse(toks)
	if err != nil {
		return Outcome{}, err
	}
	o := Outcome{Globals: globals, Settings: eff}
	if n == nil {
		s.settings = persisted
		return o, nil
	}
	log.Debugf("parsed %v with %v arithmetic", n, a.Kind())
	v, err := n.eval(a, s)
	if err != nil {
		return Outcome{}, err
	}
	if target == "" {
		o.Text, err = format(a, v, eff)
		if err != nil {
			return Outcome{}, err
		}
	}
	o.Value = v
	o.Assigned = target
	s.settings = persisted
	if target != "" {
		s.vars[target] = v
	}
	s.vars[LastResult] = v
	s.vars[LastResultAlt] = v
	return o, nil
}

// EvaluateAll evaluates several expressions in order, as for multiple
// selections in one document. Later expressions observe variables and
// settings from earlier ones. The error for each expression is at the same
// index as its outcome.
func (s *DocumentState) EvaluateAll(exprs []string) ([]Outcome, []error) {
	outs := make([]Outcome, len(exprs))
	errs := make([]error, len(exprs))
	for i, expr := range exprs {
		outs[i], errs[i] = s.Evaluate(expr)
	}
	return outs, errs
}

// Evaluate evaluates an expression in a document and returns the formatted
// result.
func Evaluate(expr string, state *DocumentState) (string, error) {
	o, err := state.Evaluate(expr)
	if err != nil {
		return "", err
	}
	return o.Text, nil
}

// EvaluateOK is like Evaluate, but reports failure as a boolean.
func EvaluateOK(expr string, state *DocumentState) (string, bool) {
	r, err := Evaluate(expr, state)
	return r, err == nil
}
