package calc

import "strconv"

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input. Its pos is the length of the
	// input.
	tokenEOF
	// tokenNum is a decimal number with grouping commas removed.
	tokenNum
	// tokenHex, tokenOct, and tokenBin are prefixed integers. The text does
	// not include the prefix.
	tokenHex
	tokenOct
	tokenBin
	// tokenTime is a timestamp. The text is the decimal number of seconds
	// since the Unix epoch.
	tokenTime
	// tokenIdent is a bare name: a directive, a unit, or an error.
	tokenIdent
	// tokenVar is $name, $?, or $$. The text does not include the $.
	tokenVar

	tokenPlus    // +
	tokenMinus   // -
	tokenStar    // *
	tokenSlash   // /
	tokenPercent // %
	tokenPow     // **
	tokenAnd     // &
	tokenOr      // |
	tokenXor     // ^
	tokenTilde   // ~
	tokenBang    // !
	tokenOpen    // (
	tokenClose   // )
	tokenEqual   // =
)

var tokenNames = [...]string{
	tokenNone:    "None",
	tokenEOF:     "EOF",
	tokenNum:     "Num",
	tokenHex:     "Hex",
	tokenOct:     "Oct",
	tokenBin:     "Bin",
	tokenTime:    "Time",
	tokenIdent:   "Ident",
	tokenVar:     "Var",
	tokenPlus:    "Plus",
	tokenMinus:   "Minus",
	tokenStar:    "Star",
	tokenSlash:   "Slash",
	tokenPercent: "Percent",
	tokenPow:     "Pow",
	tokenAnd:     "And",
	tokenOr:      "Or",
	tokenXor:     "Xor",
	tokenTilde:   "Tilde",
	tokenBang:    "Bang",
	tokenOpen:    "Open",
	tokenClose:   "Close",
	tokenEqual:   "Equal",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// numeric reports whether the token is a literal or a variable, i.e. something
// a unit suffix can attach to.
func (k tokenKind) numeric() bool {
	switch k {
	case tokenNum, tokenHex, tokenOct, tokenBin, tokenTime, tokenVar:
		return true
	}
	return false
}

// base returns the numeral base of a literal token kind.
func (k tokenKind) base() int {
	switch k {
	case tokenHex:
		return 16
	case tokenOct:
		return 8
	case tokenBin:
		return 2
	}
	return 10
}

var operkinds = map[string]tokenKind{
	"+":  tokenPlus,
	"-":  tokenMinus,
	"*":  tokenStar,
	"/":  tokenSlash,
	"%":  tokenPercent,
	"**": tokenPow,
	"&":  tokenAnd,
	"|":  tokenOr,
	"^":  tokenXor,
	"~":  tokenTilde,
	"!":  tokenBang,
	"(":  tokenOpen,
	")":  tokenClose,
	"=":  tokenEqual,
}
