package calc

// statement = [ var '=' ] expr
// expr      = additive { ( '&' | '|' | '^' ) additive }
// additive  = term { ( '+' | '-' ) term }
// term      = exponent { ( '*' | '/' | '%' ) exponent }
// exponent  = factor { '**' factor }
// factor    = ( '-' | '+' | '~' ) factor | num | var | '(' expr ')'
//
// All binary operators are left-associative, so 2**3**2 is (2**3)**2.

// parser walks a token list produced by the lexer and preprocessor. The list
// always ends with an EOF token.
type parser struct {
	toks []lexToken
	k    int
}

func (p *parser) peek() lexToken {
	return p.toks[p.k]
}

// next returns the current token and advances, except that it never advances
// past EOF.
func (p *parser) next() lexToken {
	tok := p.toks[p.k]
	if tok.kind != tokenEOF {
		p.k++
	}
	return tok
}

// parse parses a statement. If the statement is an assignment, target is the
// name of the assigned variable. If the input is empty, the node is nil.
func parse(toks []lexToken) (target string, n *node, err error) {
	p := parser{toks: toks}
	if p.peek().kind == tokenEOF {
		return "", nil, nil
	}
	if len(toks) > 2 && toks[0].kind == tokenVar && toks[1].kind == tokenEqual {
		target = toks[0].text
		if target == "?" {
			return "", nil, &SyntaxError{Col: toks[0].pos + 1, Token: "$?", Want: "assignable variable"}
		}
		p.k = 2
	}
	n, err = p.parseterm(exprprec)
	if err != nil {
		return "", nil, err
	}
	switch tok := p.peek(); tok.kind {
	case tokenEOF:
	case tokenClose:
		return "", nil, &BracketError{Col: tok.pos + 1}
	default:
		return "", nil, &SyntaxError{Col: tok.pos + 1, Token: tok.text}
	}
	return target, n, nil
}

// parseterm parses operands joined by binary operators more binding than
// until.
func (p *parser) parseterm(until operator) (*node, error) {
	n, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		prec := binop(tok.kind)
		if prec.op == nodeNone || !prec.moreBinding(until) {
			return n, nil
		}
		p.next()
		rhs, err := p.parseterm(prec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, pos: tok.pos, left: n, right: rhs}
	}
}

// factor parses a literal, a variable, a parenthesized expression, or a unary
// operator applied to a factor.
func (p *parser) factor() (*node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNum, tokenHex, tokenOct, tokenBin, tokenTime:
		return &node{kind: nodeNum, name: tok.text, base: tok.kind.base(), pos: tok.pos}, nil
	case tokenVar:
		return &node{kind: nodeVar, name: tok.text, pos: tok.pos}, nil
	case tokenMinus, tokenPlus, tokenTilde:
		rhs, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &node{kind: unop(tok.kind), pos: tok.pos, left: rhs}, nil
	case tokenOpen:
		n, err := p.parseterm(exprprec)
		if err != nil {
			return nil, err
		}
		switch end := p.next(); end.kind {
		case tokenClose:
			return n, nil
		case tokenEOF:
			return nil, &BracketError{Col: tok.pos + 1, Open: true}
		default:
			return nil, &SyntaxError{Col: end.pos + 1, Token: end.text, Want: `")"`}
		}
	default:
		return nil, &SyntaxError{Col: tok.pos + 1, Token: tok.text, Want: "number, variable, or expression"}
	}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	return p.prec > than.prec
}

// binop gets a binary operator for a token. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(kind tokenKind) operator {
	switch kind {
	case tokenAnd:
		return operator{1, nodeAnd}
	case tokenOr:
		return operator{1, nodeOr}
	case tokenXor:
		return operator{1, nodeXor}
	case tokenPlus:
		return operator{5, nodeAdd}
	case tokenMinus:
		return operator{5, nodeSub}
	case tokenStar:
		return operator{10, nodeMul}
	case tokenSlash:
		return operator{10, nodeDiv}
	case tokenPercent:
		return operator{10, nodeMod}
	case tokenPow:
		return operator{15, nodePow}
	default:
		return operator{}
	}
}

// unop gets the node kind of a prefix operator.
func unop(kind tokenKind) nodeKind {
	switch kind {
	case tokenMinus:
		return nodeNeg
	case tokenPlus:
		return nodeNop
	case tokenTilde:
		return nodeNot
	}
	panic("calc: not a unary operator: " + kind.String())
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, nodeNone}
