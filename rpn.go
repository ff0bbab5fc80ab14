package rdexpr

import (
	"math"
	"strconv"
	"strings"
)

// EvalRPN evaluates a sequence of tokens in reverse Polish notation, such as
// the result of Node.RPN. Numbers push themselves; + - * / ^ pop two operands;
// RPNNeg and the function names pop one. Arithmetic errors are the same as
// for Eval. Malformed sequences produce an *RPNError.
func EvalRPN(toks []string) (float64, error) {
	if len(toks) == 0 {
		return 0, &EvalError{Err: ErrEmpty}
	}
	stack := make([]float64, 0, len(toks)/2+1)
	for i, tok := range toks {
		switch tok {
		case "+", "-", "*", "/", "^":
			if len(stack) < 2 {
				return 0, &RPNError{Index: i, Token: tok, Msg: "needs two operands"}
			}
			l, r := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			v, err := binop(tok, l, r)
			if err != nil {
				return 0, &EvalError{Op: tok, Err: err}
			}
			stack[len(stack)-1] = v
		case RPNNeg:
			if len(stack) < 1 {
				return 0, &RPNError{Index: i, Token: tok, Msg: "needs an operand"}
			}
			stack[len(stack)-1] = -stack[len(stack)-1]
		default:
			if _, ok := floatfuncs[tok]; ok {
				if len(stack) < 1 {
					return 0, &RPNError{Index: i, Token: tok, Msg: "needs an operand"}
				}
				v, err := callfunc(tok, stack[len(stack)-1])
				if err != nil {
					return 0, &EvalError{Op: tok, Err: err}
				}
				stack[len(stack)-1] = v
				continue
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
				return 0, &RPNError{Index: i, Token: tok, Msg: "not a number, operator, or function"}
			}
			stack = append(stack, v)
		}
	}
	if len(stack) != 1 {
		return 0, &RPNError{Index: len(toks), Msg: strconv.Itoa(len(stack)) + " values left on the stack"}
	}
	return stack[0], nil
}

// EvalRPNString evaluates a whitespace-separated RPN sequence.
func EvalRPNString(src string) (float64, error) {
	return EvalRPN(strings.Fields(src))
}

// RPNError is an error indicating a malformed RPN sequence.
type RPNError struct {
	// Index is the 0-based index of the offending token, or the length of the
	// sequence if the problem was found at the end.
	Index int
	// Token is the offending token, if any.
	Token string
	// Msg describes the problem.
	Msg string
}

func (err *RPNError) Error() string {
	if err.Token == "" {
		return "rpn token " + strconv.Itoa(err.Index) + ": " + err.Msg
	}
	return "rpn token " + strconv.Itoa(err.Index) + " " + strconv.Quote(err.Token) + ": " + err.Msg
}
