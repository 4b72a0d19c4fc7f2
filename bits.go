package calc

import "strings"

// bitop is a truth table for a binary bitwise operation, indexed by the pair
// of bits as a two-bit number: 0b11, 0b10, 0b01, 0b00.
type bitop [4]byte

var (
	andTable = bitop{0b00: '0', 0b01: '0', 0b10: '0', 0b11: '1'}
	orTable  = bitop{0b00: '0', 0b01: '1', 0b10: '1', 0b11: '1'}
	xorTable = bitop{0b00: '0', 0b01: '1', 0b10: '1', 0b11: '0'}
)

func (t bitop) apply(a, b byte) byte {
	return t[int(a-'0')<<1|int(b-'0')]
}

// combine applies t to two unsigned binary digit strings aligned at their
// least significant digits. If keep, the longer operand's extra high digits
// are carried into the result unchanged, which is zero-extension of the
// shorter operand for or and xor; otherwise they are dropped.
func combine(a, b string, t bitop, keep bool) string {
	if len(a) < len(b) {
		a, b = b, a
	}
	extra := len(a) - len(b)
	var r strings.Builder
	r.Grow(len(a))
	if keep {
		r.WriteString(a[:extra])
	}
	for i := 0; i < len(b); i++ {
		r.WriteByte(t.apply(a[extra+i], b[i]))
	}
	s := strings.TrimLeft(r.String(), "0")
	if s == "" {
		return "0"
	}
	return s
}

// pad left-pads binary digits with zeros to width.
func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// complement flips every digit of s.
func complement(s string) string {
	b := []byte(s)
	for i, c := range b {
		b[i] = '0' + '1' - c
	}
	return string(b)
}
