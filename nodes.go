package calc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	// name is the literal text of nodeNum or the variable name of nodeVar.
	name string
	// base is the numeral base of nodeNum.
	base int
	// pos is the 0-based offset of the token that produced the node.
	pos int

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum // push parse(name, base)
	nodeVar // push lookup(name)

	nodeNeg // evaluate left, then negate
	nodeNop // evaluate left
	nodeNot // evaluate left, then complement
	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodeMod // evaluate left, mod by right
	nodePow // evaluate left, exp by right
	nodeAnd // evaluate left, and right
	nodeOr  // evaluate left, or right
	nodeXor // evaluate left, xor right
)

var nodeNames = [...]string{
	nodeNone: "None",
	nodeNum:  "Num",
	nodeVar:  "Var",
	nodeNeg:  "Neg",
	nodeNop:  "Nop",
	nodeNot:  "Not",
	nodeAdd:  "Add",
	nodeSub:  "Sub",
	nodeMul:  "Mul",
	nodeDiv:  "Div",
	nodeMod:  "Mod",
	nodePow:  "Pow",
	nodeAnd:  "And",
	nodeOr:   "Or",
	nodeXor:  "Xor",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeNames[k]
}

// binsyms are the operator spellings of binary nodes.
var binsyms = map[nodeKind]string{
	nodeAdd: " + ",
	nodeSub: " - ",
	nodeMul: " * ",
	nodeDiv: " / ",
	nodeMod: " % ",
	nodePow: " ** ",
	nodeAnd: " & ",
	nodeOr:  " | ",
	nodeXor: " ^ ",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the node fully parenthesized.
func (n *node) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('#')
	case nodeNum:
		switch n.base {
		case 16:
			b.WriteString("0x")
		case 8:
			b.WriteString("0o")
		case 2:
			b.WriteString("0b")
		}
		b.WriteString(n.name)
	case nodeVar:
		b.WriteByte('$')
		b.WriteString(n.name)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b)
	case nodeNop:
		b.WriteByte('+')
		n.left.fmt(b)
	case nodeNot:
		b.WriteByte('~')
		n.left.fmt(b)
	default:
		sym, ok := binsyms[n.kind]
		if !ok {
			panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
		}
		n.left.fmt(b)
		b.WriteString(sym)
		n.right.fmt(b)
	}
}
