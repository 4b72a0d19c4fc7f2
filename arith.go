package calc

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Value is a number produced by an Arithmetic. A Value is either an
// arbitrary-precision decimal or a fixed-width unsigned integer; it carries no
// display base, so the same Value can be formatted in any base. Values are
// immutable.
type Value struct {
	d *apd.Decimal
	// bits is the width of a fixed-width value, or 0 for arbitrary precision.
	bits int
}

// Bits returns the width of a fixed-width value, or 0 if v is an
// arbitrary-precision decimal.
func (v Value) Bits() int {
	return v.bits
}

// Decimal returns a copy of the value as a decimal.
func (v Value) Decimal() *apd.Decimal {
	if v.d == nil {
		return new(apd.Decimal)
	}
	return new(apd.Decimal).Set(v.d)
}

// String formats v in plain decimal notation.
func (v Value) String() string {
	if v.d == nil {
		return "0"
	}
	return plain(v.d)
}

// IsInt reports whether v has no fractional part.
func (v Value) IsInt() bool {
	_, ok := integer(v.d)
	return ok
}

// Kind selects an arithmetic model.
type Kind int

const (
	// Arbitrary is arbitrary-precision decimal arithmetic.
	Arbitrary Kind = iota
	// U8 through U128 are fixed-width unsigned integer arithmetic with
	// wraparound.
	U8
	U16
	U32
	U64
	U128
)

var kindNames = [...]string{"arb", "u8", "u16", "u32", "u64", "u128"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Bits returns the width of a fixed-width kind, or 0 for Arbitrary.
func (k Kind) Bits() int {
	switch k {
	case U8:
		return 8
	case U16:
		return 16
	case U32:
		return 32
	case U64:
		return 64
	case U128:
		return 128
	}
	return 0
}

// ParseKind returns the Kind for a name like "arb" or "u32".
func ParseKind(name string) (Kind, bool) {
	for i, s := range kindNames {
		if s == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Arithmetic is an arithmetic model. Every operation returns a new Value and
// leaves its operands unchanged.
type Arithmetic interface {
	// Kind returns the model's kind.
	Kind() Kind
	// ParseNumber parses digits in the given base, 2, 8, 10, or 16. Only base
	// 10 allows a fractional part. The text has no prefix.
	ParseNumber(s string, base int) (Value, error)
	// Format renders v in the given base without a prefix. A negative value
	// has a leading minus sign.
	Format(v Value, base int) (string, error)
	// SetPrecision sets the number of significant decimal digits kept by
	// subsequent operations.
	SetPrecision(prec int) error

	Add(a, b Value) (Value, error)
	Sub(a, b Value) (Value, error)
	Mul(a, b Value) (Value, error)
	Div(a, b Value) (Value, error)
	Mod(a, b Value) (Value, error)
	Exp(a, b Value) (Value, error)
	And(a, b Value) (Value, error)
	Or(a, b Value) (Value, error)
	Xor(a, b Value) (Value, error)
	Not(a Value) (Value, error)
}

// NewArithmetic creates the arithmetic model for a kind. prec is the number of
// significant digits for Arbitrary and is ignored otherwise.
func NewArithmetic(k Kind, prec int) (Arithmetic, error) {
	if k == Arbitrary {
		a := &decimalArith{}
		if err := a.SetPrecision(prec); err != nil {
			return nil, err
		}
		return a, nil
	}
	if k.Bits() == 0 {
		return nil, &EvalError{Op: "arithmetic", Msg: "unknown arithmetic kind " + k.String()}
	}
	return newFixed(k.Bits()), nil
}

// integer returns d as an integer if it has no fractional part.
func integer(d *apd.Decimal) (*big.Int, bool) {
	if d == nil {
		return new(big.Int), true
	}
	if d.Form != apd.Finite {
		return nil, false
	}
	var integ, frac apd.Decimal
	d.Modf(&integ, &frac)
	if !frac.IsZero() {
		return nil, false
	}
	s := integ.Text('f')
	if k := strings.IndexByte(s, '.'); k >= 0 {
		s = s[:k]
	}
	n, ok := new(big.Int).SetString(s, 10)
	return n, ok
}

// fromInt converts an integer to a decimal.
func fromInt(n *big.Int) *apd.Decimal {
	d, _, err := apd.NewFromString(n.String())
	if err != nil {
		// A big.Int always formats as a valid decimal.
		panic("calc: bad integer conversion: " + err.Error())
	}
	return d
}

// plain formats d in positional notation with no trailing fractional zeros.
func plain(d *apd.Decimal) string {
	s := d.Text('f')
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
