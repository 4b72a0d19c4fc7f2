package calc

import (
	"strconv"
	"strings"
)

// Settings controls how expressions are evaluated and displayed.
type Settings struct {
	// Base is the display base: 2, 8, 10, or 16.
	Base int
	// CommaSeparated groups the integer digits of base 10 results in threes.
	CommaSeparated bool
	// Timestamp displays base 10 results as UTC timestamps.
	Timestamp bool
	// Precision is the number of significant digits for arbitrary-precision
	// arithmetic.
	Precision int
	// Arith is the arithmetic model.
	Arith Kind
}

// DefaultSettings returns the settings used when nothing else is specified.
func DefaultSettings() Settings {
	return Settings{
		Base:      10,
		Precision: DefaultPrecision,
		Arith:     Arbitrary,
	}
}

// Validate reports whether the settings are usable.
func (s Settings) Validate() error {
	switch s.Base {
	case 2, 8, 10, 16:
	default:
		return &EvalError{Op: "settings", Msg: "base must be 2, 8, 10, or 16, not " + strconv.Itoa(s.Base)}
	}
	if s.Precision <= 0 || s.Precision > MaxPrecision {
		return &EvalError{Op: "settings", Msg: "precision must be between 1 and " + strconv.Itoa(MaxPrecision)}
	}
	if s.Arith != Arbitrary && s.Arith.Bits() == 0 {
		return &EvalError{Op: "settings", Msg: "unknown arithmetic kind " + s.Arith.String()}
	}
	return nil
}

func (s Settings) String() string {
	var b strings.Builder
	b.WriteString("base=" + strconv.Itoa(s.Base))
	b.WriteString(" cs=" + strconv.FormatBool(s.CommaSeparated))
	b.WriteString(" ts=" + strconv.FormatBool(s.Timestamp))
	b.WriteString(" pre=" + strconv.Itoa(s.Precision))
	b.WriteString(" arith=" + s.Arith.String())
	return b.String()
}

// FuzzySettings is a partial Settings. A nil field is unset and never
// overrides anything.
type FuzzySettings struct {
	Base           *int
	CommaSeparated *bool
	Timestamp      *bool
	Precision      *int
	Arith          *Kind
}

// Empty reports whether no field is set.
func (f FuzzySettings) Empty() bool {
	return f.Base == nil && f.CommaSeparated == nil && f.Timestamp == nil && f.Precision == nil && f.Arith == nil
}

// Over returns s with every set field of f replacing the corresponding field.
func (f FuzzySettings) Over(s Settings) Settings {
	if f.Base != nil {
		s.Base = *f.Base
	}
	if f.CommaSeparated != nil {
		s.CommaSeparated = *f.CommaSeparated
	}
	if f.Timestamp != nil {
		s.Timestamp = *f.Timestamp
	}
	if f.Precision != nil {
		s.Precision = *f.Precision
	}
	if f.Arith != nil {
		s.Arith = *f.Arith
	}
	return s
}

func (f FuzzySettings) String() string {
	var v []string
	if f.Base != nil {
		v = append(v, "base="+strconv.Itoa(*f.Base))
	}
	if f.CommaSeparated != nil {
		v = append(v, "cs="+strconv.FormatBool(*f.CommaSeparated))
	}
	if f.Timestamp != nil {
		v = append(v, "ts="+strconv.FormatBool(*f.Timestamp))
	}
	if f.Precision != nil {
		v = append(v, "pre="+strconv.Itoa(*f.Precision))
	}
	if f.Arith != nil {
		v = append(v, "arith="+f.Arith.String())
	}
	return strings.Join(v, " ")
}

// hard returns fuzzy settings with every field set to the defaults.
func hard() FuzzySettings {
	d := DefaultSettings()
	return FuzzySettings{
		Base:           &d.Base,
		CommaSeparated: &d.CommaSeparated,
		Timestamp:      &d.Timestamp,
		Precision:      &d.Precision,
		Arith:          &d.Arith,
	}
}

// resolve applies globals to the document's settings, then overlays locals to
// produce the settings for one evaluation. Locals win over globals persisted
// by the same evaluation. The caller stores persisted into the document once
// the evaluation succeeds.
func resolve(doc Settings, locals, globals FuzzySettings) (persisted, effective Settings) {
	persisted = globals.Over(doc)
	return persisted, locals.Over(persisted)
}

// arithmetic creates the arithmetic model for resolved settings. A precision
// given explicitly for this evaluation is an error for fixed-width models.
func arithmetic(s Settings, locals FuzzySettings) (Arithmetic, error) {
	a, err := NewArithmetic(s.Arith, s.Precision)
	if err != nil {
		return nil, err
	}
	if locals.Precision != nil && s.Arith != Arbitrary {
		if err := a.SetPrecision(*locals.Precision); err != nil {
			return nil, err
		}
	}
	return a, nil
}
