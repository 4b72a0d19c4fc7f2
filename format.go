package calc

import (
	"strconv"
	"strings"
	"time"
)

// prefixes are the numeral prefixes of display bases.
var prefixes = map[int]string{
	16: "0x",
	8:  "0o",
	2:  "0b",
}

// format renders a result under resolved settings.
func format(a Arithmetic, v Value, s Settings) (string, error) {
	digits, err := a.Format(v, s.Base)
	if err != nil {
		return "", err
	}
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if s.Base != 10 {
		return sign + prefixes[s.Base] + digits, nil
	}
	switch {
	case s.Timestamp:
		return timestamp(sign, digits)
	case s.CommaSeparated:
		return sign + group(digits), nil
	}
	return sign + digits, nil
}

// timestamp renders decimal seconds since the epoch as an ISO 8601 UTC time.
// Fractional digits become the sub-second field verbatim.
func timestamp(sign, digits string) (string, error) {
	integ, frac := digits, ""
	if k := strings.IndexByte(digits, '.'); k >= 0 {
		integ, frac = digits[:k], digits[k+1:]
	}
	sec, err := strconv.ParseInt(sign+integ, 10, 64)
	// Keep the millisecond count representable.
	if err != nil || sec > 1<<53/1000 || sec < -(1<<53/1000) {
		return "", &EvalError{Op: "ts", Msg: "timestamp out of range: " + sign + digits}
	}
	if frac == "" {
		frac = "000"
	}
	t := time.UnixMilli(sec * 1000).UTC()
	return t.Format("2006-01-02T15:04:05") + "." + frac + "Z", nil
}

// group inserts commas between groups of three integer digits.
func group(digits string) string {
	integ, frac := digits, ""
	if k := strings.IndexByte(digits, '.'); k >= 0 {
		integ, frac = digits[:k], digits[k:]
	}
	if len(integ) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(integ) % 3
	if lead > 0 {
		b.WriteString(integ[:lead])
	}
	for i := lead; i < len(integ); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(integ[i : i+3])
	}
	b.WriteString(frac)
	return b.String()
}
