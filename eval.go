package rdexpr

import (
	"errors"
	"strconv"
)

// EvalError is an error evaluating a syntax tree. It wraps one of
// ErrDivideByZero, ErrOverflow, ErrMalformed, ErrEmpty, or a DomainError.
type EvalError struct {
	// Op is the operator, function, or grammar symbol being evaluated.
	Op string
	// Col is the column of the token that caused the error, or 0 if there
	// is no such token.
	Col int
	// Err is the underlying error.
	Err error
}

func (err *EvalError) Error() string {
	msg := err.Err.Error()
	if err.Op != "" {
		msg = err.Op + ": " + msg
	}
	if err.Col > 0 {
		return errpos(err.Col, msg)
	}
	return msg
}

func (err *EvalError) Unwrap() error {
	return err.Err
}

// opError wraps err with the position and text of n's token.
func (n *Node) opError(err error) error {
	if n.Tok == nil {
		return &EvalError{Op: n.Sym.String(), Err: err}
	}
	return &EvalError{Op: n.Tok.Text, Col: n.Tok.Pos, Err: err}
}

func malformed(n *Node) error {
	return n.opError(ErrMalformed)
}

// Eval evaluates a syntax tree with float64 arithmetic. Juxtaposed
// expressions under the root are multiplied together. Division by zero,
// results outside a function's domain, and infinite results are errors
// rather than IEEE-754 special values.
func Eval(n *Node) (float64, error) {
	if n == nil {
		return 0, &EvalError{Err: ErrEmpty}
	}
	return n.eval()
}

// EvalString is a shortcut to parse and evaluate an expression.
func EvalString(src string, opts ...ParseOption) (float64, error) {
	n, err := Parse(src, opts...)
	if err != nil {
		return 0, err
	}
	return Eval(n)
}

func (n *Node) eval() (float64, error) {
	switch n.Sym {
	case SymRoot:
		if len(n.Kids) == 0 {
			return 0, &EvalError{Err: ErrEmpty}
		}
		var r float64
		for i, k := range n.Kids {
			if k.Sym != SymExpression {
				return 0, malformed(k)
			}
			v, err := k.eval()
			if err != nil {
				return 0, err
			}
			if i == 0 {
				r = v
				continue
			}
			r, err = binop("*", r, v)
			if err != nil {
				return 0, &EvalError{Op: "*", Err: err}
			}
		}
		return r, nil
	case SymExpression:
		return n.evalTail(SymSignedTerm, SymSumOp)
	case SymTerm:
		return n.evalTail(SymFactor, SymTermOp)
	case SymSignedTerm, SymSignedFactor:
		if len(n.Kids) != 1 {
			return 0, malformed(n)
		}
		v, err := n.Kids[0].eval()
		if err != nil {
			return 0, err
		}
		switch n.op() {
		case "", "+":
			return v, nil
		case "-":
			return -v, nil
		default:
			return 0, malformed(n)
		}
	case SymFactor:
		if len(n.Kids) == 0 || len(n.Kids) > 2 || n.Kids[0].Sym != SymArgument {
			return 0, malformed(n)
		}
		base, err := n.Kids[0].eval()
		if err != nil {
			return 0, err
		}
		if len(n.Kids) == 1 {
			return base, nil
		}
		up := n.Kids[1]
		if up.Sym != SymFactorOp || up.op() != "^" || len(up.Kids) != 1 {
			return 0, malformed(up)
		}
		exp, err := up.Kids[0].eval()
		if err != nil {
			return 0, err
		}
		r, err := binop("^", base, exp)
		if err != nil {
			return 0, up.opError(err)
		}
		return r, nil
	case SymArgument:
		if len(n.Kids) != 1 {
			return 0, malformed(n)
		}
		v, err := n.Kids[0].eval()
		if err != nil {
			return 0, err
		}
		if n.Tok == nil || n.Tok.Sym == SymCloseParen {
			return v, nil
		}
		if n.Tok.Sym != SymFunction {
			return 0, malformed(n)
		}
		r, err := callfunc(n.Tok.Text, v)
		if err != nil {
			if errors.Is(err, errUnknownFunc) {
				return 0, malformed(n)
			}
			return 0, n.opError(err)
		}
		return r, nil
	case SymValue:
		if n.Tok == nil || n.Tok.Sym != SymNumber || len(n.Kids) != 0 {
			return 0, malformed(n)
		}
		v, err := strconv.ParseFloat(n.Tok.Text, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return 0, n.opError(ErrOverflow)
			}
			return 0, malformed(n)
		}
		return v, nil
	default:
		return 0, malformed(n)
	}
}

// evalTail evaluates a node of the form head [tail], where tail is a chain of
// sum_op or term_op nodes folded left to right onto the head's value.
func (n *Node) evalTail(head, tail Symbol) (float64, error) {
	if len(n.Kids) == 0 || len(n.Kids) > 2 || n.Kids[0].Sym != head {
		return 0, malformed(n)
	}
	acc, err := n.Kids[0].eval()
	if err != nil {
		return 0, err
	}
	if len(n.Kids) == 1 {
		return acc, nil
	}
	for t := n.Kids[1]; t != nil; {
		if t.Sym != tail || t.Tok == nil || len(t.Kids) == 0 || len(t.Kids) > 2 {
			return 0, malformed(t)
		}
		v, err := t.Kids[0].eval()
		if err != nil {
			return 0, err
		}
		acc, err = binop(t.Tok.Text, acc, v)
		if err != nil {
			if errors.Is(err, errUnknownOp) {
				return 0, malformed(t)
			}
			return 0, t.opError(err)
		}
		if len(t.Kids) == 1 {
			break
		}
		t = t.Kids[1]
	}
	return acc, nil
}
