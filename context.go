package rdexpr

import (
	"errors"
	"math/big"
	"strings"
)

// Context is a context for evaluating syntax trees with arbitrary-precision
// arithmetic. It is not safe to use a Context concurrently.
type Context struct {
	stack []*big.Float
	nums  map[string]*big.Float
	prec  uint
	res   *big.Float
	err   error
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type precopt uint

func (precopt) ctxOption() {}

// Prec sets the precision of calculations in bits. Zero selects the default
// of 64.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// DefaultPrec is the precision of a context created with no Prec option.
const DefaultPrec = 64

// NewContext creates a new evaluation context.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: DefaultPrec}
	return ctx.Clone(opts...)
}

// Eval evaluates a syntax tree and returns the result. The arithmetic follows
// the same rules as the package-level Eval, but at the context's precision.
// If an error occurs, the result is nil and ctx.Err returns the error.
//
// The returned value belongs to the caller; later evaluations do not modify
// it.
func (ctx *Context) Eval(n *Node) *big.Float {
	ctx.stack = ctx.stack[:0]
	ctx.res, ctx.err = nil, nil
	if n == nil {
		ctx.err = &EvalError{Err: ErrEmpty}
		return nil
	}
	if err := n.evalBig(ctx); err != nil {
		ctx.err = err
		ctx.stack = ctx.stack[:0]
		return nil
	}
	if len(ctx.stack) != 1 {
		panic("rdexpr: inconsistent stack after evaluating " + n.String())
	}
	// Detach the result from the stack so that the next evaluation allocates
	// a fresh value in its place.
	ctx.res = ctx.stack[0]
	ctx.stack[0] = nil
	ctx.stack = ctx.stack[:0]
	return ctx.res
}

// Result returns the result of the last evaluation, or nil if it failed or
// there has been none.
func (ctx *Context) Result() *big.Float {
	return ctx.res
}

// Err returns the error from the last evaluation, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Clone creates a copy of a context and applies options to it. The returned
// context has no result.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]*big.Float, 0, cap(ctx.stack)),
		nums:  make(map[string]*big.Float, len(ctx.nums)),
		prec:  ctx.prec,
	}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil: // do nothing
		case precopt:
			n.prec = uint(opt)
			if n.prec == 0 {
				n.prec = DefaultPrec
			}
			if n.prec > big.MaxPrec {
				n.prec = big.MaxPrec
			}
		default:
			panic("rdexpr: unknown option type")
		}
	}
	// Cached numbers are only reusable at the same precision.
	if n.prec == ctx.prec {
		for k, v := range ctx.nums {
			n.nums[k] = v
		}
	}
	return &n
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float).SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float).SetPrec(ctx.prec))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// num gets a possibly cached number from its text.
func (ctx *Context) num(s string) (*big.Float, error) {
	if r := ctx.nums[s]; r != nil {
		return r, nil
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 10)
	switch {
	case err == nil: // do nothing
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		return nil, ErrOverflow
	default:
		return nil, ErrMalformed
	}
	if ctx.nums == nil {
		ctx.nums = make(map[string]*big.Float)
	}
	ctx.nums[s] = r
	return r, nil
}

// evalBig pushes the node's value to the context's stack.
func (n *Node) evalBig(ctx *Context) error {
	switch n.Sym {
	case SymRoot:
		if len(n.Kids) == 0 {
			return &EvalError{Err: ErrEmpty}
		}
		for i, k := range n.Kids {
			if k.Sym != SymExpression {
				return malformed(k)
			}
			if err := k.evalBig(ctx); err != nil {
				return err
			}
			if i > 0 {
				r := ctx.pop()
				l := ctx.top()
				if err := bigarith("*", l, r); err != nil {
					return &EvalError{Op: "*", Err: err}
				}
			}
		}
	case SymExpression:
		return n.evalBigTail(ctx, SymSignedTerm, SymSumOp)
	case SymTerm:
		return n.evalBigTail(ctx, SymFactor, SymTermOp)
	case SymSignedTerm, SymSignedFactor:
		if len(n.Kids) != 1 {
			return malformed(n)
		}
		if err := n.Kids[0].evalBig(ctx); err != nil {
			return err
		}
		switch n.op() {
		case "", "+": // do nothing
		case "-":
			v := ctx.top()
			v.Neg(v)
		default:
			return malformed(n)
		}
	case SymFactor:
		if len(n.Kids) == 0 || len(n.Kids) > 2 || n.Kids[0].Sym != SymArgument {
			return malformed(n)
		}
		if err := n.Kids[0].evalBig(ctx); err != nil {
			return err
		}
		if len(n.Kids) == 1 {
			return nil
		}
		up := n.Kids[1]
		if up.Sym != SymFactorOp || up.op() != "^" || len(up.Kids) != 1 {
			return malformed(up)
		}
		if err := up.Kids[0].evalBig(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		if err := bigpow(l, l, r); err != nil {
			return up.opError(err)
		}
	case SymArgument:
		if len(n.Kids) != 1 {
			return malformed(n)
		}
		if err := n.Kids[0].evalBig(ctx); err != nil {
			return err
		}
		if n.Tok == nil || n.Tok.Sym == SymCloseParen {
			return nil
		}
		if n.Tok.Sym != SymFunction {
			return malformed(n)
		}
		f := bigfuncs[n.Tok.Text]
		if f == nil {
			return malformed(n)
		}
		v := ctx.top()
		if err := bigcall(n.Tok.Text, f, v, v); err != nil {
			return n.opError(err)
		}
	case SymValue:
		if n.Tok == nil || n.Tok.Sym != SymNumber || len(n.Kids) != 0 {
			return malformed(n)
		}
		v, err := ctx.num(n.Tok.Text)
		if err != nil {
			return n.opError(err)
		}
		ctx.push().Set(v)
	default:
		return malformed(n)
	}
	return nil
}

// evalBigTail is the arbitrary-precision counterpart of evalTail.
func (n *Node) evalBigTail(ctx *Context, head, tail Symbol) error {
	if len(n.Kids) == 0 || len(n.Kids) > 2 || n.Kids[0].Sym != head {
		return malformed(n)
	}
	if err := n.Kids[0].evalBig(ctx); err != nil {
		return err
	}
	if len(n.Kids) == 1 {
		return nil
	}
	for t := n.Kids[1]; t != nil; {
		if t.Sym != tail || t.Tok == nil || len(t.Kids) == 0 || len(t.Kids) > 2 {
			return malformed(t)
		}
		if err := t.Kids[0].evalBig(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		if err := bigarith(t.Tok.Text, l, r); err != nil {
			return t.opError(err)
		}
		if len(t.Kids) == 1 {
			break
		}
		t = t.Kids[1]
	}
	return nil
}

// bigarith sets l to l op r. A result beyond the exponent range of big.Float
// is ErrOverflow.
func bigarith(op string, l, r *big.Float) (err error) {
	defer func() {
		x := recover()
		if x == nil {
			return
		}
		var nan big.ErrNaN
		if e, ok := x.(error); ok && errors.As(e, &nan) {
			err = ErrOverflow
			return
		}
		panic(x)
	}()
	switch op {
	case "+":
		l.Add(l, r)
	case "-":
		l.Sub(l, r)
	case "*":
		l.Mul(l, r)
	case "/":
		if r.Sign() == 0 {
			return ErrDivideByZero
		}
		l.Quo(l, r)
	default:
		return ErrMalformed
	}
	if l.IsInf() {
		return ErrOverflow
	}
	return nil
}

// EvalBig is a shortcut to evaluate a syntax tree in a new context.
func EvalBig(n *Node, opts ...ContextOption) (*big.Float, error) {
	ctx := NewContext(opts...)
	r := ctx.Eval(n)
	return r, ctx.Err()
}
