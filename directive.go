package calc

import "strconv"

// units maps unit suffixes to their multipliers.
var units = map[string]string{
	"k":   "1000",
	"m":   "1000000",
	"g":   "1000000000",
	"b":   "1000000000",
	"q":   "1000000000000",
	"t":   "1000000000000",
	"ki":  "1024",
	"mi":  "1048576",
	"gi":  "1073741824",
	"ti":  "1099511627776",
	"pi":  "1125899906842624",
	"h":   "3600",
	"min": "60",
	"d":   "86400",
}

var bases = map[string]int{
	"dec": 10,
	"hex": 16,
	"oct": 8,
	"bin": 2,
}

// preprocess consumes directives and rewrites unit suffixes, producing the
// token list for the parser along with the settings the directives select.
// locals apply to this evaluation only; globals are to be persisted in the
// document.
func preprocess(in []lexToken, doc *DocumentState) (out []lexToken, locals, globals FuzzySettings, err error) {
	out = make([]lexToken, 0, len(in))
	for i := 0; i < len(in); i++ {
		tok := in[i]
		if tok.kind != tokenIdent {
			out = append(out, tok)
			continue
		}
		// bang consumes a following ! and reports whether there was one.
		bang := func() bool {
			if in[i+1].kind == tokenBang {
				i++
				return true
			}
			return false
		}
		name := tok.text
		switch name {
		case "reset":
			globals = hard()
		case "dec", "hex", "oct", "bin":
			b := bases[name]
			locals.Base = &b
			if bang() {
				globals.Base = &b
			}
		case "cs":
			t := true
			locals.CommaSeparated = &t
			if bang() {
				globals.CommaSeparated = &t
			}
		case "ts":
			t := true
			locals.Timestamp = &t
			if bang() {
				globals.Timestamp = &t
			}
		case "pre":
			persist := bang()
			p := parser{toks: in, k: i + 1}
			prec, err := doc.precision(&p)
			if err != nil {
				return nil, locals, globals, err
			}
			i = p.k - 1
			locals.Precision = &prec
			if bang() || persist {
				globals.Precision = &prec
			}
		default:
			if k, ok := ParseKind(name); ok {
				locals.Arith = &k
				if bang() {
					globals.Arith = &k
				}
				continue
			}
			mult, ok := units[name]
			if !ok {
				// Unknown names are left for the parser to reject.
				out = append(out, tok)
				continue
			}
			out = unit(out, tok, mult)
		}
	}
	return out, locals, globals, nil
}

// unit appends the rewrite of a unit suffix to out. Following a number or
// variable X, it replaces X with (X * mult). Following a close parenthesis,
// it appends * mult. Otherwise the unit stands for its multiplier alone.
func unit(out []lexToken, tok lexToken, mult string) []lexToken {
	num := lexToken{text: mult, kind: tokenNum, pos: tok.pos}
	star := lexToken{text: "*", kind: tokenStar, pos: tok.pos}
	if len(out) == 0 {
		return append(out, num)
	}
	last := len(out) - 1
	prev := out[last]
	switch {
	case prev.kind.numeric():
		open := lexToken{text: "(", kind: tokenOpen, pos: prev.pos}
		end := lexToken{text: ")", kind: tokenClose, pos: tok.pos}
		return append(out[:last], open, prev, star, num, end)
	case prev.kind == tokenClose:
		return append(out, star, num)
	default:
		return append(out, num)
	}
}

// precision parses and evaluates the argument of a pre directive using the
// document's arbitrary-precision arithmetic.
func (s *DocumentState) precision(p *parser) (int, error) {
	n, err := p.factor()
	if err != nil {
		return 0, err
	}
	v, err := n.eval(newDecimal(s.settings.Precision), s)
	if err != nil {
		return 0, err
	}
	k, ok := integer(v.d)
	if !ok || !k.IsInt64() || k.Int64() <= 0 || k.Int64() > MaxPrecision {
		return 0, &EvalError{Op: "pre", Msg: "precision must be an integer between 1 and " + strconv.Itoa(MaxPrecision) + ", not " + v.String()}
	}
	return int(k.Int64()), nil
}
