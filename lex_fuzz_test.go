package calc

import "testing"

func FuzzLex(f *testing.F) {
	f.Add("1,000.5 + 0x1f")
	f.Add("12:30:01.5 - 1970-01-02")
	f.Add("$? ** ~$$")
	f.Add("1\u00d72")
	f.Fuzz(func(t *testing.T, s string) {
		toks, err := lex(s)
		if err != nil {
			return
		}
		if len(toks) == 0 || toks[len(toks)-1].kind != tokenEOF {
			t.Fatalf("no EOF token lexing %q: %v", s, toks)
		}
		for i := 1; i < len(toks); i++ {
			if toks[i].pos < toks[i-1].pos {
				t.Errorf("token positions out of order lexing %q: %v", s, toks)
			}
		}
		// The parser must not panic on anything the lexer accepts.
		parse(toks)
	})
}
