package calc

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"
)

func TestCombine(t *testing.T) {
	cases := []struct {
		a, b string
		t    bitop
		keep bool
		want string
	}{
		{"1100", "1010", andTable, false, "1000"},
		{"1100", "1010", orTable, true, "1110"},
		{"1100", "1010", xorTable, true, "110"},
		{"110101", "11", andTable, false, "1"},
		{"11", "110101", andTable, false, "1"},
		{"110101", "11", orTable, true, "110111"},
		{"110101", "11", xorTable, true, "110110"},
		{"1", "100000", andTable, false, "0"},
		{"0", "0", orTable, true, "0"},
	}
	for _, c := range cases {
		if got := combine(c.a, c.b, c.t, c.keep); got != c.want {
			t.Errorf("combine(%s, %s, %v, %t): want %s, got %s", c.a, c.b, c.t, c.keep, c.want, got)
		}
	}
}

func TestPadComplement(t *testing.T) {
	if got := pad("101", 8); got != "00000101" {
		t.Errorf("pad: got %s", got)
	}
	if got := pad("101", 2); got != "101" {
		t.Errorf("pad shorter width: got %s", got)
	}
	if got := complement("00000101"); got != "11111010" {
		t.Errorf("complement: got %s", got)
	}
}

func TestKinds(t *testing.T) {
	cases := []struct {
		name string
		kind Kind
		bits int
	}{
		{"arb", Arbitrary, 0},
		{"u8", U8, 8},
		{"u16", U16, 16},
		{"u32", U32, 32},
		{"u64", U64, 64},
		{"u128", U128, 128},
	}
	for _, c := range cases {
		k, ok := ParseKind(c.name)
		if !ok || k != c.kind {
			t.Errorf("ParseKind(%q): want %v, got %v %t", c.name, c.kind, k, ok)
		}
		if k.Bits() != c.bits {
			t.Errorf("%v has %d bits, want %d", k, k.Bits(), c.bits)
		}
		if k.String() != c.name {
			t.Errorf("%v has name %q, want %q", k, k.String(), c.name)
		}
		a, err := NewArithmetic(k, DefaultPrecision)
		if err != nil {
			t.Fatal(err)
		}
		if a.Kind() != k {
			t.Errorf("NewArithmetic(%v) has kind %v", k, a.Kind())
		}
	}
	if _, ok := ParseKind("u7"); ok {
		t.Error("ParseKind accepted u7")
	}
}

// mustParse parses a base 10 number or fails the test.
func mustParse(t *testing.T, a Arithmetic, s string) Value {
	t.Helper()
	v, err := a.ParseNumber(s, 10)
	if err != nil {
		t.Fatalf("parsing %s: %v", s, err)
	}
	return v
}

func TestDecimalPrecision(t *testing.T) {
	a := newDecimal(5)
	r, err := a.Div(mustParse(t, a, "2"), mustParse(t, a, "3"))
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "0.66667" {
		t.Errorf("2/3 at 5 digits: got %s", r)
	}
	if err := a.SetPrecision(0); err == nil {
		t.Error("precision 0 accepted")
	}
	if err := a.SetPrecision(MaxPrecision + 1); err == nil {
		t.Error("precision above maximum accepted")
	}
	// Parsing never rounds.
	v := mustParse(t, a, "123456789.123456789")
	if v.String() != "123456789.123456789" {
		t.Errorf("parse rounded to %s", v)
	}
}

func TestDecimalFormat(t *testing.T) {
	a := newDecimal(DefaultPrecision)
	cases := []struct {
		in   string
		base int
		want string
		err  bool
	}{
		{"255", 16, "ff", false},
		{"255", 8, "377", false},
		{"5", 2, "101", false},
		{"-10", 16, "-a", false},
		{"1.50", 10, "1.5", false},
		{"-0", 10, "0", false},
		{"1E+3", 10, "1000", false},
		{"0.5", 16, "", true},
	}
	for _, c := range cases {
		got, err := a.Format(mustParse(t, a, c.in), c.base)
		if c.err {
			var ferr *FormatError
			if !errors.As(err, &ferr) {
				t.Errorf("formatting %s in base %d: want FormatError, got %q %v", c.in, c.base, got, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("formatting %s in base %d: %v", c.in, c.base, err)
			continue
		}
		if got != c.want {
			t.Errorf("formatting %s in base %d: want %s, got %s", c.in, c.base, c.want, got)
		}
	}
}

func TestDecimalBitwiseRejects(t *testing.T) {
	a := newDecimal(DefaultPrecision)
	ops := map[string]func(x, y Value) (Value, error){"&": a.And, "|": a.Or, "^": a.Xor}
	for name, f := range ops {
		for _, pair := range [][2]string{{"-1", "1"}, {"1", "-1"}, {"0.5", "1"}, {"1", "2.25"}} {
			_, err := f(mustParse(t, a, pair[0]), mustParse(t, a, pair[1]))
			var eerr *EvalError
			if !errors.As(err, &eerr) {
				t.Errorf("%s %s %s: want EvalError, got %v", pair[0], name, pair[1], err)
			}
		}
	}
	if _, err := a.Not(mustParse(t, a, "1")); err == nil {
		t.Error("decimal not succeeded")
	}
}

func TestFixedTwosComplement(t *testing.T) {
	for _, bits := range []int{8, 16, 32, 64, 128} {
		a := newFixed(bits)
		mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
		for _, n := range []int64{1, 2, 100, 127, 128, 255, 256, 1000} {
			v := mustParse(t, a, "-"+strconv.FormatInt(n, 10))
			want := new(big.Int).Neg(big.NewInt(n))
			want.Mod(want, mod)
			if v.String() != want.String() {
				t.Errorf("u%d -%d: want %v, got %v", bits, n, want, v)
			}
			if v.Bits() != bits {
				t.Errorf("u%d -%d has %d bits", bits, n, v.Bits())
			}
		}
	}
}

func TestFixedRejects(t *testing.T) {
	a := newFixed(8)
	if _, err := a.ParseNumber("0.5", 10); err == nil {
		t.Error("u8 accepted a fraction")
	}
	if err := a.SetPrecision(10); err == nil {
		t.Error("u8 accepted a precision")
	}
	// A fractional variable from decimal arithmetic cannot be coerced.
	if _, err := a.coerce("$x", Value{d: mustParse(t, newDecimal(5), "2.5").d}); err == nil {
		t.Error("u8 coerced a fraction")
	}
	if _, err := a.Div(mustParse(t, a, "1"), mustParse(t, a, "256")); err == nil {
		t.Error("u8 divided by 256")
	}
}

func TestFixedExp(t *testing.T) {
	a := newFixed(128)
	mod := new(big.Int).Lsh(big.NewInt(1), 128)
	for _, c := range [][2]int64{{3, 200}, {7, 1000}, {2, 127}, {2, 128}, {12345, 67}} {
		r, err := a.Exp(mustParse(t, a, strconv.FormatInt(c[0], 10)), mustParse(t, a, strconv.FormatInt(c[1], 10)))
		if err != nil {
			t.Fatal(err)
		}
		want := new(big.Int).Exp(big.NewInt(c[0]), big.NewInt(c[1]), mod)
		if r.String() != want.String() {
			t.Errorf("u128 %d**%d: want %v, got %v", c[0], c[1], want, r)
		}
	}
}

func TestDecimalRealPowerAtMaxPrecision(t *testing.T) {
	if testing.Short() {
		t.Skip("real powers at maximum precision take several seconds")
	}
	a := newDecimal(MaxPrecision)
	r, err := a.Exp(mustParse(t, a, "2"), mustParse(t, a, "0.5"))
	if err != nil {
		t.Fatalf("2**0.5 at precision %d: %v", MaxPrecision, err)
	}
	if s := r.String(); !strings.HasPrefix(s, "1.41421356237309504880") || len(s) > MaxPrecision+1 {
		t.Errorf("2**0.5 at precision %d: got %.30s... with %d characters", MaxPrecision, s, len(s))
	}
}

func TestPowTextExponentRange(t *testing.T) {
	cases := []struct {
		in     string
		digits int
	}{
		{"1.5", MaxPrecision + powGuard},
		{"0.7", MaxPrecision + powGuard},
		{"1e-99990", 100},
		{"1e-99999", 20},
		{"1e-100005", 20},
	}
	for _, c := range cases {
		f, _, err := new(big.Float).SetPrec(256).Parse(c.in, 10)
		if err != nil {
			t.Fatal(err)
		}
		s := powText(f, c.digits)
		if _, _, err := apd.NewFromString(s); err != nil {
			t.Errorf("powText(%s, %d) = %.40q does not parse: %v", c.in, c.digits, s, err)
		}
	}
}
