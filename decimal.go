package calc

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/zephyrtronium/bigfloat"
)

// DefaultPrecision is the default number of significant decimal digits.
const DefaultPrecision = 20

// MaxPrecision is the largest precision an expression may request. It leaves
// room below apd's exponent limit for the guard digits of real powers.
const MaxPrecision = -apd.MinExponent - 2*powGuard

// powGuard is the number of digits beyond the working precision kept when
// converting a real power back to decimal before rounding.
const powGuard = 5

// decimalArith is arbitrary-precision decimal arithmetic.
type decimalArith struct {
	ctx apd.Context
}

func newDecimal(prec int) *decimalArith {
	a := &decimalArith{}
	if err := a.SetPrecision(prec); err != nil {
		panic(err)
	}
	return a
}

func (a *decimalArith) Kind() Kind {
	return Arbitrary
}

func (a *decimalArith) SetPrecision(prec int) error {
	if prec <= 0 || prec > MaxPrecision {
		return &EvalError{Op: "pre", Msg: "precision must be between 1 and " + strconv.Itoa(MaxPrecision) + ", not " + strconv.Itoa(prec)}
	}
	a.ctx = apd.BaseContext
	a.ctx.Precision = uint32(prec)
	a.ctx.Rounding = apd.RoundHalfUp
	return nil
}

func (a *decimalArith) ParseNumber(s string, base int) (Value, error) {
	if base == 10 {
		d, _, err := apd.NewFromString(s)
		if err != nil {
			return Value{}, &EvalError{Op: "parse", Msg: "invalid number " + strconv.Quote(s)}
		}
		return Value{d: d}, nil
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return Value{}, &EvalError{Op: "parse", Msg: "invalid base " + strconv.Itoa(base) + " number " + strconv.Quote(s)}
	}
	return Value{d: fromInt(n)}, nil
}

func (a *decimalArith) Format(v Value, base int) (string, error) {
	if base == 10 {
		return v.String(), nil
	}
	n, ok := integer(v.d)
	if !ok {
		return "", &FormatError{Base: base, Value: v.String()}
	}
	return n.Text(base), nil
}

// op applies a context operation to two values.
func (a *decimalArith) op(name string, f func(d, x, y *apd.Decimal) (apd.Condition, error), x, y Value) (Value, error) {
	d := new(apd.Decimal)
	if _, err := f(d, x.Decimal(), y.Decimal()); err != nil {
		return Value{}, &EvalError{Op: name, Msg: err.Error()}
	}
	return Value{d: d}, nil
}

func (a *decimalArith) Add(x, y Value) (Value, error) {
	return a.op("+", a.ctx.Add, x, y)
}

func (a *decimalArith) Sub(x, y Value) (Value, error) {
	return a.op("-", a.ctx.Sub, x, y)
}

func (a *decimalArith) Mul(x, y Value) (Value, error) {
	return a.op("*", a.ctx.Mul, x, y)
}

func (a *decimalArith) Div(x, y Value) (Value, error) {
	if y.Decimal().IsZero() {
		return Value{}, errDivZero("/")
	}
	return a.op("/", a.ctx.Quo, x, y)
}

func (a *decimalArith) Mod(x, y Value) (Value, error) {
	if y.Decimal().IsZero() {
		return Value{}, errDivZero("%")
	}
	// Integer remainders are exact regardless of how many digits the
	// quotient would need.
	if l, ok := integer(x.d); ok {
		if r, ok := integer(y.d); ok {
			return Value{d: fromInt(l.Rem(l, r))}, nil
		}
	}
	return a.op("%", a.ctx.Rem, x, y)
}

func (a *decimalArith) Exp(x, y Value) (Value, error) {
	if y.Decimal().IsZero() {
		return Value{d: apd.New(1, 0)}, nil
	}
	if x.Decimal().IsZero() && y.Decimal().Sign() < 0 {
		return Value{}, errDivZero("**")
	}
	if y.IsInt() {
		return a.op("**", a.ctx.Pow, x, y)
	}
	// Real powers go through binary floating point at a precision wide
	// enough to round correctly back to the working precision.
	base := x.Decimal()
	switch base.Sign() {
	case -1:
		return Value{}, &EvalError{Op: "**", Msg: "negative base " + x.String() + " with fractional exponent " + y.String()}
	case 0:
		return Value{d: new(apd.Decimal)}, nil
	}
	prec := uint(a.ctx.Precision)*4 + 64
	l, _, err := new(big.Float).SetPrec(prec).Parse(base.Text('e'), 10)
	if err != nil {
		return Value{}, &EvalError{Op: "**", Msg: err.Error()}
	}
	r, _, err := new(big.Float).SetPrec(prec).Parse(y.Decimal().Text('e'), 10)
	if err != nil {
		return Value{}, &EvalError{Op: "**", Msg: err.Error()}
	}
	bigfloat.Pow(l, l, r)
	if l.IsInf() {
		return Value{}, &EvalError{Op: "**", Msg: "result out of range"}
	}
	d, _, err := apd.NewFromString(powText(l, int(a.ctx.Precision)+powGuard))
	if err != nil {
		return Value{}, &EvalError{Op: "**", Msg: err.Error()}
	}
	if _, err := a.ctx.Round(d, d); err != nil {
		return Value{}, &EvalError{Op: "**", Msg: err.Error()}
	}
	return Value{d: d}, nil
}

// powText formats f in scientific notation with up to digits fractional
// digits, fewer if the last digit would fall below apd's smallest exponent.
func powText(f *big.Float, digits int) string {
	s := f.Text('e', digits)
	k := strings.LastIndexByte(s, 'e')
	if k < 0 {
		return s
	}
	e, err := strconv.Atoi(s[k+1:])
	if err != nil || e-digits >= apd.MinExponent {
		return s
	}
	if digits = e - apd.MinExponent; digits < 0 {
		// Too small to represent at all.
		return "0"
	}
	return f.Text('e', digits)
}

// bitwise combines the binary digits of two non-negative integers.
func (a *decimalArith) bitwise(op string, x, y Value, t bitop, keep bool) (Value, error) {
	l, err := unsigned(op, x)
	if err != nil {
		return Value{}, err
	}
	r, err := unsigned(op, y)
	if err != nil {
		return Value{}, err
	}
	s := combine(l.Text(2), r.Text(2), t, keep)
	return a.ParseNumber(s, 2)
}

// unsigned converts v to an integer suitable for bitwise operations.
func unsigned(op string, v Value) (*big.Int, error) {
	n, ok := integer(v.d)
	if !ok {
		return nil, &EvalError{Op: op, Msg: "bitwise operation on fractional value " + v.String()}
	}
	if n.Sign() < 0 {
		return nil, &EvalError{Op: op, Msg: "bitwise operation on negative value " + v.String()}
	}
	return n, nil
}

func (a *decimalArith) And(x, y Value) (Value, error) {
	return a.bitwise("&", x, y, andTable, false)
}

func (a *decimalArith) Or(x, y Value) (Value, error) {
	return a.bitwise("|", x, y, orTable, true)
}

func (a *decimalArith) Xor(x, y Value) (Value, error) {
	return a.bitwise("^", x, y, xorTable, true)
}

func (a *decimalArith) Not(x Value) (Value, error) {
	return Value{}, &EvalError{Op: "~", Msg: "bitwise not requires fixed-width arithmetic (u8, u16, u32, u64, u128)"}
}

func errDivZero(op string) error {
	return &EvalError{Op: op, Msg: "division by zero"}
}

var _ Arithmetic = (*decimalArith)(nil)
