package calc_test

import (
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzEvaluate(f *testing.F) {
	f.Add("1+1")
	f.Add("hex! 10k ki")
	f.Add("u8 ~0 & $? ** 3")
	f.Add("pre 30 2**0.5 cs")
	f.Add("$x = 2024-01-01T00:00:00Z ts")
	f.Fuzz(func(t *testing.T, s string) {
		doc := calc.NewDocumentState(calc.DefaultSettings())
		before := doc.Settings()
		_, err := calc.Evaluate(s, doc)
		if err != nil && doc.Settings() != before {
			t.Errorf("failed evaluation of %q changed settings to %v", s, doc.Settings())
		}
	})
}
