package calc

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/participle/v2/lexer"
)

// The order of rules is the order of priority at each position. Timestamps
// must come before plain numbers, and prefixed integers before plain numbers,
// so that e.g. 12:30 and 0x10 never lex as a number followed by garbage.
var calcLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Whitespace", Pattern: `\s+`, Action: nil},
		{Name: "DateTime", Pattern: `\d{4}-\d{2}-\d{2}(?:T\d{1,2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:\d{2})?)?`, Action: nil},
		{Name: "Time", Pattern: `\d{1,2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:\d{2})?`, Action: nil},
		{Name: "Hex", Pattern: `0[xX][0-9a-fA-F]+`, Action: nil},
		{Name: "Oct", Pattern: `0[oO][0-7]+`, Action: nil},
		{Name: "Bin", Pattern: `0[bB][01]+`, Action: nil},
		{Name: "Number", Pattern: `\d[\d,]*(?:\.[\d,]*)?|\.\d[\d,]*`, Action: nil},
		{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z0-9_]*`, Action: nil},
		{Name: "Variable", Pattern: `\$(?:[?$]|[a-zA-Z_][a-zA-Z0-9_]*)`, Action: nil},
		{Name: "Operator", Pattern: `\*\*|[-+*/%&|^~!=()]`, Action: nil},
	},
})

// symbols maps participle token types back to rule names.
var symbols = func() map[lexer.TokenType]string {
	m := make(map[lexer.TokenType]string)
	for name, typ := range calcLexer.Symbols() {
		m[typ] = name
	}
	return m
}()

// lex scans the entire input. The result always ends with an EOF token unless
// there is an error.
func lex(src string) ([]lexToken, error) {
	scan, err := calcLexer.Lex("", strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	var toks []lexToken
	// end is the byte offset just past the last scanned token, so that when
	// the lexer rejects the input we know where.
	end := 0
	for {
		tok, err := scan.Next()
		if err != nil {
			return nil, lexerror(src, end)
		}
		if tok.EOF() {
			break
		}
		end = tok.Pos.Offset + len(tok.Value)
		t := lexToken{pos: tok.Pos.Offset}
		switch symbols[tok.Type] {
		case "Whitespace":
			continue
		case "DateTime", "Time":
			s, ok := stamp(tok.Value)
			if !ok {
				return nil, &LexError{Text: tok.Value, Kind: "timestamp", Col: tok.Pos.Offset + 1}
			}
			t.kind, t.text = tokenTime, s
		case "Hex":
			t.kind, t.text = tokenHex, tok.Value[2:]
		case "Oct":
			t.kind, t.text = tokenOct, tok.Value[2:]
		case "Bin":
			t.kind, t.text = tokenBin, tok.Value[2:]
		case "Number":
			s := strings.ReplaceAll(tok.Value, ",", "")
			if s[0] == '.' {
				s = "0" + s
			}
			s = strings.TrimSuffix(s, ".")
			t.kind, t.text = tokenNum, s
		case "Ident":
			t.kind, t.text = tokenIdent, tok.Value
		case "Variable":
			t.kind, t.text = tokenVar, tok.Value[1:]
		case "Operator":
			t.kind, t.text = operkinds[tok.Value], tok.Value
		default:
			panic("calc: unknown lexer symbol " + strconv.Quote(symbols[tok.Type]))
		}
		toks = append(toks, t)
	}
	toks = append(toks, lexToken{kind: tokenEOF, pos: len(src)})
	return toks, nil
}

func lexerror(src string, off int) error {
	text := ""
	if off < len(src) {
		r := []rune(src[off:])
		text = string(r[0])
	}
	return &LexError{Text: text, Col: off + 1}
}

var stampRE = regexp.MustCompile(`^(?:(\d{4})-(\d{2})-(\d{2})T?)?(?:(\d{1,2}):(\d{2})(?::(\d{2})(?:\.(\d+))?)?)?(Z|[+-]\d{2}:\d{2})?$`)

// stamp converts a timestamp to decimal seconds since the Unix epoch. Missing
// date parts default to 1970-01-01, missing seconds to 00, and a missing zone
// to UTC. Fractional seconds are appended to the result verbatim.
func stamp(s string) (string, bool) {
	m := stampRE.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	num := func(s string, def, lo, hi int) (int, bool) {
		if s == "" {
			return def, true
		}
		n, err := strconv.Atoi(s)
		return n, err == nil && lo <= n && n <= hi
	}
	year, ok1 := num(m[1], 1970, 0, 9999)
	month, ok2 := num(m[2], 1, 1, 12)
	day, ok3 := num(m[3], 1, 1, 31)
	hour, ok4 := num(m[4], 0, 0, 23)
	minute, ok5 := num(m[5], 0, 0, 59)
	sec, ok6 := num(m[6], 0, 0, 59)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return "", false
	}
	loc := time.UTC
	if z := m[8]; z != "" && z != "Z" {
		h, _ := strconv.Atoi(z[1:3])
		mm, _ := strconv.Atoi(z[4:6])
		off := h*3600 + mm*60
		if z[0] == '-' {
			off = -off
		}
		loc = time.FixedZone(z, off)
	}
	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, loc)
	if t.Day() != day {
		// e.g. February 30
		return "", false
	}
	r := strconv.FormatInt(t.Unix(), 10)
	if m[7] != "" {
		r += "." + m[7]
	}
	return r, true
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the invalid character, or the whole token if the token was
	// recognized but malformed.
	Text string
	// Kind is the type of token the lexer was scanning. This may be
	// "timestamp" or the empty string.
	Kind string
	// Col is the 1-based byte column of the error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Text == "" {
		return "invalid input at " + pos
	}
	if err.Kind == "" {
		return "invalid character at " + pos + ": " + strconv.Quote(err.Text)
	}
	return "invalid " + err.Kind + " at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
