package calc

import "strconv"

// SyntaxError is an error indicating a token the parser did not expect. It
// implements InputError.
type SyntaxError struct {
	// Col is the 1-based column of the token.
	Col int
	// Token is the text of the token, or the empty string at the end of
	// input.
	Token string
	// Want describes what the parser expected instead, if anything.
	Want string
}

func (err *SyntaxError) Error() string {
	tok := "end of input"
	if err.Token != "" {
		tok = "token " + strconv.Quote(err.Token)
	}
	msg := "unexpected " + tok
	if err.Want != "" {
		msg += ", expected " + err.Want
	}
	return errpos(err.Col, msg)
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched parentheses in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Open is true if the unmatched parenthesis is an open one.
	Open bool
}

func (err *BracketError) Error() string {
	if err.Open {
		return errpos(err.Col, "open parenthesis with no close parenthesis")
	}
	return errpos(err.Col, "close parenthesis with no open parenthesis")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// EvalError is an error from evaluating a well-formed expression, e.g.
// division by zero or a value the active arithmetic cannot represent.
type EvalError struct {
	// Op is the operator or directive that failed.
	Op string
	// Msg describes the failure.
	Msg string
}

func (err *EvalError) Error() string {
	if err.Op == "" {
		return err.Msg
	}
	return err.Op + ": " + err.Msg
}

// NameError is an error from a lookup for a variable that is not defined in
// the document.
type NameError struct {
	// Name is the name that was missing, without the $.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote("$"+err.Name)
}

// FormatError is an error indicating a result that cannot be displayed in the
// requested base.
type FormatError struct {
	// Base is the requested base.
	Base int
	// Value is the decimal form of the value.
	Value string
}

func (err *FormatError) Error() string {
	return "cannot format non-integer " + err.Value + " in base " + strconv.Itoa(err.Base)
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// malformed input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based column of the start of the token that caused
	// the error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*LexError)(nil)
)
