package calc

import (
	"math"
	"strconv"
)

// Func is a function from reals to reals.
type Func interface {
	// Call evaluates the function at x. x is always finite. If x is outside
	// the function's domain, Call should return a DomainError. A non-finite
	// result is reported to the caller as a NumericOverflowError.
	Call(x float64) (float64, error)
}

// factName is the function that postfix ! calls.
const factName = "fact"

var globalfuncs = map[string]Func{
	"sin":  Monadic(math.Sin),
	"cos":  Monadic(math.Cos),
	"tan":  Monadic(math.Tan),
	"log":  Restricted("log", log10, positive),
	"ln":   Restricted("ln", math.Log, positive),
	"sqrt": Restricted("sqrt", math.Sqrt, nonnegative),

	factName: factorial{},
}

// DefaultFuncs returns the names of the functions available by default.
func DefaultFuncs() []string {
	r := make([]string, 0, len(globalfuncs))
	for k := range globalfuncs {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

type monadic func(float64) float64

func (f monadic) Call(x float64) (float64, error) {
	return f(x), nil
}

// Monadic wraps a function defined on all reals into a Func.
func Monadic(f func(float64) float64) Func {
	return monadic(f)
}

type restricted struct {
	name string
	f    func(float64) float64
	ok   func(float64) bool
}

func (r restricted) Call(x float64) (float64, error) {
	if !r.ok(x) {
		return 0, DomainError{X: x, Func: r.name}
	}
	return r.f(x), nil
}

// Restricted wraps a function into a Func that returns a DomainError naming
// the function whenever ok reports false for its argument.
func Restricted(name string, f func(float64) float64, ok func(float64) bool) Func {
	return restricted{name: name, f: f, ok: ok}
}

// log10 is math.Log10, but exact for integer powers of ten.
func log10(x float64) float64 {
	r := math.Log10(x)
	if n := math.Round(r); n != r && math.Pow(10, n) == x {
		return n
	}
	return r
}

func positive(x float64) bool    { return x > 0 }
func nonnegative(x float64) bool { return x >= 0 }

func isint(x float64) bool {
	return x == math.Trunc(x)
}

// maxFactorial is the largest n for which n! is a finite float64.
const maxFactorial = 170

type factorial struct{}

func (factorial) Call(x float64) (float64, error) {
	if x < 0 || !isint(x) {
		return 0, DomainError{X: x, Func: factName}
	}
	if x > maxFactorial {
		return math.Inf(1), nil
	}
	r := 1.0
	for i := 2.0; i <= x; i++ {
		r *= i
	}
	return r, nil
}

// DomainError is an error returned when a function is called on an argument
// outside its domain. It implements InputError.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Func is a name identifying the function or operator.
	Func string
	// Col is the position of the function or operator, if known.
	Col int
}

func (err DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Col > 0 {
		return errpos(err.Col, r)
	}
	return r
}

func (err DomainError) Pos() int {
	return err.Col
}
