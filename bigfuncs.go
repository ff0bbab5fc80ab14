package rdexpr

import (
	"errors"
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// bigfunc computes a function of in to the precision of out and stores the
// result in out. out and in may be the same value.
type bigfunc func(out, in *big.Float) error

var bigfuncs = map[string]bigfunc{
	"exp": bigexp,
	"sqrt": func(out, in *big.Float) error {
		if in.Sign() < 0 {
			return DomainError{X: new(big.Float).Copy(in), Func: "sqrt"}
		}
		out.Sqrt(in)
		return nil
	},
	"sin": func(out, in *big.Float) error {
		if !sincos(out, nil, in) {
			return DomainError{X: new(big.Float).Copy(in), Func: "sin"}
		}
		return nil
	},
	"cos": func(out, in *big.Float) error {
		if !sincos(nil, out, in) {
			return DomainError{X: new(big.Float).Copy(in), Func: "cos"}
		}
		return nil
	},
	"tan": func(out, in *big.Float) error {
		var s, c big.Float
		s.SetPrec(out.Prec() + 32)
		c.SetPrec(out.Prec() + 32)
		if !sincos(&s, &c, in) || c.Sign() == 0 {
			return DomainError{X: new(big.Float).Copy(in), Func: "tan"}
		}
		out.Quo(&s, &c)
		return nil
	},
}

// bigcall calls f on a copy of in, converting a big.ErrNaN panic into a
// DomainError.
func bigcall(name string, f bigfunc, out, in *big.Float) (err error) {
	x := new(big.Float).Copy(in)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var nan big.ErrNaN
		if e, ok := r.(error); ok && errors.As(e, &nan) {
			err = DomainError{X: x, Func: name}
			return
		}
		panic(r)
	}()
	return f(out, x)
}

// expbound is the magnitude beyond which exp overflows or underflows the
// exponent range of a big.Float.
var expbound = big.NewFloat(big.MaxExp * math.Ln2)

// bigexp sets out to e^in. bigfloat.Exp does not always write its result into
// out, so the returned value is copied.
func bigexp(out, in *big.Float) error {
	switch {
	case new(big.Float).Abs(in).Cmp(expbound) <= 0:
		// in range
	case in.Sign() > 0:
		return ErrOverflow
	default:
		out.SetInt64(0)
		return nil
	}
	r := bigfloat.Exp(new(big.Float).SetPrec(out.Prec()), in)
	if r.IsInf() {
		return ErrOverflow
	}
	out.Set(r)
	return nil
}

// bigpow sets z to x^y. Negative bases are allowed only with integer
// exponents.
func bigpow(z, x, y *big.Float) error {
	switch {
	case y.Sign() == 0:
		z.SetInt64(1)
		return nil
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return ErrDivideByZero
		}
		z.SetInt64(0)
		return nil
	case x.Sign() > 0:
		return bigcall("^", func(out, in *big.Float) error {
			return bigpowpos(out, in, y)
		}, z, x)
	}
	if !y.IsInt() {
		return DomainError{X: new(big.Float).Copy(x), Func: "^"}
	}
	yi, _ := y.Int(nil)
	odd := yi.Bit(0) == 1
	ax := new(big.Float).Abs(x)
	err := bigcall("^", func(out, in *big.Float) error {
		return bigpowpos(out, in, y)
	}, z, ax)
	if err != nil {
		return err
	}
	if odd {
		z.Neg(z)
	}
	return nil
}

// bigpowpos sets z to x^y for x > 0.
func bigpowpos(z, x, y *big.Float) error {
	if y.Cmp(big.NewFloat(1)) == 0 {
		z.Set(x)
		return nil
	}
	// x^y = e^(y ln x), so the result is representable exactly when
	// y ln x is within expbound. A rough logarithm is enough to tell.
	t := bigfloat.Log(new(big.Float).SetPrec(64), x)
	t.Mul(t, y)
	switch {
	case new(big.Float).Abs(t).Cmp(expbound) <= 0:
		// in range
	case t.Sign() > 0:
		return ErrOverflow
	default:
		z.SetInt64(0)
		return nil
	}
	r := bigfloat.Pow(new(big.Float).SetPrec(z.Prec()), x, y)
	if r.IsInf() {
		return ErrOverflow
	}
	z.Set(r)
	return nil
}

// maxtrigexp is the largest binary exponent of an argument to sin or cos.
// Range reduction needs that many extra bits of pi.
const maxtrigexp = 1 << 12

// sincos sets s to sin(x) and c to cos(x), each to its own precision. Either
// may be nil. x is not modified unless it is also s or c. It reports false
// without computing anything if x is too large to reduce.
func sincos(s, c, x *big.Float) bool {
	var prec uint
	if s != nil {
		prec = s.Prec()
	}
	if c != nil && c.Prec() > prec {
		prec = c.Prec()
	}
	if prec == 0 {
		prec = DefaultPrec
	}
	// Extra working precision covers the cancellation in range reduction and
	// in the alternating series.
	wp := prec + 64
	if e := x.MantExp(nil); e > maxtrigexp {
		return false
	} else if e > 0 {
		wp += uint(e)
	}
	r := reduce(new(big.Float).SetPrec(wp).Set(x), wp)
	if s != nil {
		sinseries(s, r, wp)
	}
	if c != nil {
		cosseries(c, r, wp)
	}
	return true
}

// reduce sets x to the equivalent angle in [-pi, pi] and returns it.
func reduce(x *big.Float, wp uint) *big.Float {
	pi := new(big.Float).SetPrec(wp)
	bigfloat.Pi(pi)
	twopi := new(big.Float).SetPrec(wp).Mul(pi, big.NewFloat(2))
	k := new(big.Float).SetPrec(wp).Quo(x, twopi)
	ki, _ := k.Int(nil)
	k.SetInt(ki)
	x.Sub(x, k.Mul(k, twopi))
	negpi := new(big.Float).Neg(pi)
	switch {
	case x.Cmp(pi) > 0:
		x.Sub(x, twopi)
	case x.Cmp(negpi) < 0:
		x.Add(x, twopi)
	}
	return x
}

// maxterms bounds the number of series terms computed for sin and cos.
const maxterms = 1 << 16

// sinseries sets z to sin(x) for |x| <= pi using its Taylor series.
func sinseries(z, x *big.Float, wp uint) {
	sum := new(big.Float).SetPrec(wp).Set(x)
	term := new(big.Float).SetPrec(wp).Set(x)
	series(sum, term, x, wp, 2)
	z.Set(sum)
}

// cosseries sets z to cos(x) for |x| <= pi using its Taylor series.
func cosseries(z, x *big.Float, wp uint) {
	sum := new(big.Float).SetPrec(wp).SetInt64(1)
	term := new(big.Float).SetPrec(wp).SetInt64(1)
	series(sum, term, x, wp, 1)
	z.Set(sum)
}

// series accumulates the alternating series whose k-th term is the previous
// term times -x^2/(n(n+1)), with n starting at first and increasing by 2.
func series(sum, term, x *big.Float, wp uint, first int64) {
	x2 := new(big.Float).SetPrec(wp).Mul(x, x)
	x2.Neg(x2)
	var d big.Float
	d.SetPrec(wp)
	n := first
	for i := 0; i < maxterms && term.Sign() != 0; i++ {
		term.Mul(term, x2)
		term.Quo(term, d.SetInt64(n*(n+1)))
		sum.Add(sum, term)
		n += 2
		if sum.Sign() != 0 && term.MantExp(nil) < sum.MantExp(nil)-int(wp) {
			break
		}
	}
}
