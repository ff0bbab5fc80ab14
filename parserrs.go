package rdexpr

import "strconv"

// SyntaxError is an error indicating a token that the grammar does not allow
// where it appears. It implements InputError.
type SyntaxError struct {
	// Want is the terminal the parser required.
	Want Symbol
	// Got is the token the parser found instead. At the end of input, Got.Sym
	// is SymEpsilon.
	Got Token
}

func (err *SyntaxError) Error() string {
	var msg string
	switch err.Want {
	case SymCloseParen:
		msg = "expected closing parenthesis, found " + err.Got.describe()
	default:
		msg = "expected " + err.Want.String() + ", found " + err.Got.Sym.String() + " " + err.Got.describe()
	}
	return errpos(err.Got.Pos, msg)
}

func (err *SyntaxError) Pos() int {
	return err.Got.Pos
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based byte column of the input at which the error
	// was detected.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*LexError)(nil)
)
