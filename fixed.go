package calc

import (
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// fixedArith is unsigned integer arithmetic modulo 2^bits. It performs
// arithmetic with a decimal model wide enough to hold any product of two
// normalized values exactly, then reduces each result into [0, 2^bits).
type fixedArith struct {
	dec  *decimalArith
	bits int
	mod  *big.Int
}

func newFixed(bits int) *fixedArith {
	// 2^(2*bits) has at most ceil(2*bits*log10(2)) digits. The extra digits
	// keep floored quotients exact.
	prec := (2*bits*30103+99999)/100000 + 2
	return &fixedArith{
		dec:  newDecimal(prec),
		bits: bits,
		mod:  new(big.Int).Lsh(big.NewInt(1), uint(bits)),
	}
}

func (a *fixedArith) Kind() Kind {
	switch a.bits {
	case 8:
		return U8
	case 16:
		return U16
	case 32:
		return U32
	case 64:
		return U64
	case 128:
		return U128
	}
	panic("calc: invalid fixed width " + strconv.Itoa(a.bits))
}

func (a *fixedArith) SetPrecision(prec int) error {
	return &EvalError{Op: "pre", Msg: "precision is not supported by " + a.Kind().String() + " arithmetic"}
}

// normalize reduces an integer into [0, 2^bits). Negative integers become
// their two's complement.
func (a *fixedArith) normalize(op string, d *apd.Decimal) (Value, error) {
	n, ok := integer(d)
	if !ok {
		return Value{}, &EvalError{Op: op, Msg: a.Kind().String() + " arithmetic requires integers, not " + plain(d)}
	}
	neg := n.Sign() < 0
	n.Abs(n).Mod(n, a.mod)
	if neg {
		n.SetString(complement(pad(n.Text(2), a.bits)), 2)
		n.Add(n, big.NewInt(1)).Mod(n, a.mod)
	}
	return Value{d: fromInt(n), bits: a.bits}, nil
}

// coerce normalizes an operand, which may have come from a variable computed
// under a different model.
func (a *fixedArith) coerce(op string, v Value) (Value, error) {
	if v.bits == a.bits {
		return v, nil
	}
	return a.normalize(op, v.d)
}

func (a *fixedArith) operands(op string, x, y Value) (Value, Value, error) {
	x, err := a.coerce(op, x)
	if err != nil {
		return Value{}, Value{}, err
	}
	y, err = a.coerce(op, y)
	if err != nil {
		return Value{}, Value{}, err
	}
	return x, y, nil
}

func (a *fixedArith) ParseNumber(s string, base int) (Value, error) {
	v, err := a.dec.ParseNumber(s, base)
	if err != nil {
		return Value{}, err
	}
	return a.normalize("parse", v.d)
}

func (a *fixedArith) Format(v Value, base int) (string, error) {
	v, err := a.coerce("format", v)
	if err != nil {
		return "", err
	}
	return a.dec.Format(v, base)
}

// arith applies a decimal operation to normalized operands and normalizes
// the result.
func (a *fixedArith) arith(op string, f func(x, y Value) (Value, error), x, y Value) (Value, error) {
	x, y, err := a.operands(op, x, y)
	if err != nil {
		return Value{}, err
	}
	r, err := f(x, y)
	if err != nil {
		return Value{}, err
	}
	return a.normalize(op, r.d)
}

func (a *fixedArith) Add(x, y Value) (Value, error) {
	return a.arith("+", a.dec.Add, x, y)
}

func (a *fixedArith) Sub(x, y Value) (Value, error) {
	return a.arith("-", a.dec.Sub, x, y)
}

func (a *fixedArith) Mul(x, y Value) (Value, error) {
	return a.arith("*", a.dec.Mul, x, y)
}

// floored wraps a decimal operation so that its result is rounded down.
func (a *fixedArith) floored(f func(x, y Value) (Value, error)) func(x, y Value) (Value, error) {
	return func(x, y Value) (Value, error) {
		r, err := f(x, y)
		if err != nil {
			return Value{}, err
		}
		d := new(apd.Decimal)
		if _, err := a.dec.ctx.Floor(d, r.d); err != nil {
			return Value{}, &EvalError{Op: "floor", Msg: err.Error()}
		}
		return Value{d: d}, nil
	}
}

func (a *fixedArith) Div(x, y Value) (Value, error) {
	return a.arith("/", a.floored(a.dec.Div), x, y)
}

func (a *fixedArith) Mod(x, y Value) (Value, error) {
	return a.arith("%", a.floored(a.dec.Mod), x, y)
}

// Exp computes x**y mod 2^bits by square-and-multiply so that intermediate
// values never exceed the square of the modulus.
func (a *fixedArith) Exp(x, y Value) (Value, error) {
	x, y, err := a.operands("**", x, y)
	if err != nil {
		return Value{}, err
	}
	e, _ := integer(y.d)
	acc, _ := a.ParseNumber("1", 10)
	sq := x
	for i := 0; i < e.BitLen(); i++ {
		if e.Bit(i) == 1 {
			if acc, err = a.Mul(acc, sq); err != nil {
				return Value{}, err
			}
		}
		if sq, err = a.Mul(sq, sq); err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}

// bitwise combines the zero-padded binary digits of two operands.
func (a *fixedArith) bitwise(op string, x, y Value, t bitop) (Value, error) {
	x, y, err := a.operands(op, x, y)
	if err != nil {
		return Value{}, err
	}
	l, _ := integer(x.d)
	r, _ := integer(y.d)
	s := combine(pad(l.Text(2), a.bits), pad(r.Text(2), a.bits), t, true)
	return a.ParseNumber(s, 2)
}

func (a *fixedArith) And(x, y Value) (Value, error) {
	return a.bitwise("&", x, y, andTable)
}

func (a *fixedArith) Or(x, y Value) (Value, error) {
	return a.bitwise("|", x, y, orTable)
}

func (a *fixedArith) Xor(x, y Value) (Value, error) {
	return a.bitwise("^", x, y, xorTable)
}

// Not flips all bits of the operand.
func (a *fixedArith) Not(x Value) (Value, error) {
	x, err := a.coerce("~", x)
	if err != nil {
		return Value{}, err
	}
	n, _ := integer(x.d)
	return a.ParseNumber(complement(pad(n.Text(2), a.bits)), 2)
}

var _ Arithmetic = (*fixedArith)(nil)
