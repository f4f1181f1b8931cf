package calc

import (
	"errors"
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// EvalBig evaluates an expression to the evaluator's precision. It uses the
// same grammar, precedence, and error classes as Eval. Functions without a
// precise implementation, like the trigonometric functions and any set by
// options, are computed in float64 and converted.
func (e *Evaluator) EvalBig(src string) (*big.Float, error) {
	toks, err := e.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return run[*big.Float](toks, bigArith{e}, e.rightPow)
}

// Prec returns the precision to which EvalBig computes values.
func (e *Evaluator) Prec() uint {
	return e.prec
}

// bigFunc computes a function precisely. It sets z to the result.
type bigFunc func(z, x *big.Float) error

// maxBigFactorial bounds exact factorials so that evaluation time stays
// proportional to the input.
const maxBigFactorial = 10000

var globalbigfuncs = map[string]bigFunc{
	"ln": func(z, x *big.Float) error {
		if x.Sign() <= 0 {
			return DomainError{X: f64(x), Func: "ln"}
		}
		z.Set(bigfloat.Log(z, x))
		return nil
	},
	"log": func(z, x *big.Float) error {
		if x.Sign() <= 0 {
			return DomainError{X: f64(x), Func: "log"}
		}
		z.Set(bigfloat.Log(z, x))
		ten := new(big.Float).SetPrec(z.Prec()).SetInt64(10)
		z.Quo(z, bigfloat.Log(ten, ten))
		return nil
	},
	"sqrt": func(z, x *big.Float) error {
		if x.Sign() < 0 {
			return DomainError{X: f64(x), Func: "sqrt"}
		}
		z.Sqrt(x)
		return nil
	},
	factName: func(z, x *big.Float) error {
		if x.Sign() < 0 || !x.IsInt() {
			return DomainError{X: f64(x), Func: factName}
		}
		n, acc := x.Int64()
		if n > maxBigFactorial || acc != big.Exact {
			return errOverflow
		}
		z.SetInt(new(big.Int).MulRange(1, n))
		return nil
	},
}

// errOverflow is returned by arithmetic helpers that overflow. The caller
// converts it to a NumericOverflowError at the token's position.
var errOverflow = errors.New("overflow")

// bigArith evaluates in *big.Float.
type bigArith struct {
	e *Evaluator
}

func (a bigArith) new() *big.Float {
	return new(big.Float).SetPrec(a.e.prec)
}

func (a bigArith) num(tok Token) (*big.Float, error) {
	r, _, err := a.new().Parse(tok.Text, 10)
	if err != nil || r.IsInf() {
		return nil, &NumericOverflowError{Col: tok.Pos, Op: tok.Text}
	}
	return r, nil
}

func (a bigArith) binary(op Token, l, r *big.Float) (x *big.Float, err error) {
	defer recoverNaN(op, &err)
	x = a.new()
	switch op.Text {
	case "+":
		x.Add(l, r)
	case "-":
		x.Sub(l, r)
	case "*":
		x.Mul(l, r)
	case "/":
		if r.Sign() == 0 {
			return nil, &DivisionByZeroError{Col: op.Pos}
		}
		x.Quo(l, r)
	case "^":
		if err := pow(x, l, r); err != nil {
			return nil, atop(err, op)
		}
	default:
		panic("calc: unknown operator " + op.Text)
	}
	return bigfinite(op, x)
}

func (a bigArith) call(fn Token, x *big.Float) (r *big.Float, err error) {
	defer recoverNaN(fn, &err)
	r = a.new()
	if f := a.e.bigfuncs[fn.Text]; f != nil {
		if err := f(r, x); err != nil {
			return nil, atop(err, fn)
		}
		return bigfinite(fn, r)
	}
	f := a.e.funcs[fn.Text]
	if f == nil {
		panic("calc: unknown function " + fn.Text)
	}
	v := f64(x)
	if math.IsInf(v, 0) {
		return nil, &NumericOverflowError{Col: fn.Pos, Op: fn.Text}
	}
	y, err := f.Call(v)
	if err != nil {
		return nil, atfunc(err, fn)
	}
	if _, err := finite(fn, y); err != nil {
		return nil, err
	}
	r.SetFloat64(y)
	return r, nil
}

// maxIntPow bounds exponents computed by repeated multiplication.
const maxIntPow = 1 << 16

// pow sets z to x^y. Negative bases are allowed only with integer exponents.
func pow(z, x, y *big.Float) error {
	switch {
	case y.Sign() == 0:
		z.SetInt64(1)
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return errOverflow
		}
		z.SetInt64(0)
	case y.IsInt() && new(big.Float).Abs(y).Cmp(big.NewFloat(maxIntPow)) <= 0:
		n, _ := y.Int64()
		powint(z, x, n)
	case x.Sign() < 0:
		if !y.IsInt() {
			return DomainError{X: f64(x), Func: "^"}
		}
		z.Set(bigpow(z.Prec(), new(big.Float).Abs(x), y))
		if odd(y) {
			z.Neg(z)
		}
	default:
		z.Set(bigpow(z.Prec(), x, y))
	}
	return nil
}

// bigpow computes x^y for positive x. For large y*ln(x), bigfloat.Pow
// returns a value other than its receiver, so only the result is used.
func bigpow(prec uint, x, y *big.Float) *big.Float {
	return bigfloat.Pow(new(big.Float).SetPrec(prec), x, y)
}

// powint sets z to x^n by squaring, so that exactly representable powers
// are exact.
func powint(z, x *big.Float, n int64) {
	neg := n < 0
	if neg {
		n = -n
	}
	b := new(big.Float).SetPrec(z.Prec()).Set(x)
	z.SetInt64(1)
	for ; n > 0; n >>= 1 {
		if n&1 != 0 {
			z.Mul(z, b)
		}
		b.Mul(b, b)
	}
	if neg {
		z.Quo(new(big.Float).SetPrec(z.Prec()).SetInt64(1), z)
	}
}

// odd returns whether an integer-valued y is odd.
func odd(y *big.Float) bool {
	n, _ := y.Int(nil)
	return n.Bit(0) == 1
}

func f64(x *big.Float) float64 {
	f, _ := x.Float64()
	return f
}

// bigfinite checks that an intermediate result is finite.
func bigfinite(tok Token, x *big.Float) (*big.Float, error) {
	if x.IsInf() {
		return nil, &NumericOverflowError{Col: tok.Pos, Op: tok.Text}
	}
	return x, nil
}

// atop converts errors from precise helpers into positioned errors.
func atop(err error, tok Token) error {
	if errors.Is(err, errOverflow) {
		return &NumericOverflowError{Col: tok.Pos, Op: tok.Text}
	}
	return atfunc(err, tok)
}

// recoverNaN converts a big.ErrNaN panic, which package big and bigfloat
// use to signal results with no value, into a DomainError.
func recoverNaN(tok Token, err *error) {
	r := recover()
	if r == nil {
		return
	}
	var nan big.ErrNaN
	if e, ok := r.(error); ok && errors.As(e, &nan) {
		*err = DomainError{X: math.NaN(), Func: tok.Text, Col: tok.Pos}
		return
	}
	panic(r)
}
