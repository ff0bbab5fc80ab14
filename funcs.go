package rdexpr

import (
	"errors"
	"math"
	"math/big"
)

var (
	// ErrDivideByZero is the error for division by zero, including raising
	// zero to a negative power.
	ErrDivideByZero = errors.New("division by zero")
	// ErrOverflow is the error for results too large to represent.
	ErrOverflow = errors.New("result out of range")
	// ErrMalformed is the error for syntax trees that no parse could have
	// produced.
	ErrMalformed = errors.New("malformed syntax tree")
	// ErrEmpty is the error for evaluating an empty expression.
	ErrEmpty = errors.New("no expression")
)

// floatfuncs are the float64 implementations of the functions the default
// tokenizer recognizes.
var floatfuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"sqrt": math.Sqrt,
}

// callfunc applies the named function to x. Results that are not finite are
// reported as errors.
func callfunc(name string, x float64) (float64, error) {
	f := floatfuncs[name]
	if f == nil {
		return 0, errUnknownFunc
	}
	r := f(x)
	switch {
	case math.IsNaN(r):
		return 0, DomainError{X: big.NewFloat(x), Func: name}
	case math.IsInf(r, 0):
		return 0, ErrOverflow
	}
	return r, nil
}

var errUnknownFunc = errors.New("unknown function")

// binop applies a binary operator.
func binop(op string, l, r float64) (float64, error) {
	var z float64
	switch op {
	case "+":
		z = l + r
	case "-":
		z = l - r
	case "*":
		z = l * r
	case "/":
		if r == 0 {
			return 0, ErrDivideByZero
		}
		z = l / r
	case "^":
		if l == 0 && r < 0 {
			return 0, ErrDivideByZero
		}
		z = math.Pow(l, r)
		if math.IsNaN(z) {
			// Negative base with a fractional exponent.
			return 0, DomainError{X: big.NewFloat(l), Func: "^"}
		}
	default:
		return 0, errUnknownOp
	}
	if math.IsInf(z, 0) {
		return 0, ErrOverflow
	}
	return z, nil
}

var errUnknownOp = errors.New("unknown operator")

// DomainError is an error returned when a function or operator is applied to
// an argument outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Func is a name identifying the function or operator.
	Func string
}

func (err DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}
