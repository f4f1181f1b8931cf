package calc_test

import (
	"errors"
	"math"
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzEval(f *testing.F) {
	f.Add("2 + 3 * 4")
	f.Add("sqrt(16) - 5!")
	f.Add("1×2÷3")
	f.Add("((-1e308 ^ 2")
	f.Add("fact(1e18)")
	f.Fuzz(func(t *testing.T, s string) {
		r, err := calc.Eval(s)
		if err != nil {
			var ie calc.InputError
			if !errors.As(err, &ie) {
				t.Errorf("%q: %T is not an InputError: %v", s, err, err)
			}
			return
		}
		if math.IsInf(r, 0) || math.IsNaN(r) {
			t.Errorf("%q: non-finite result %g", s, r)
		}
	})
}

func FuzzEvalBig(f *testing.F) {
	f.Add("2 ^ 0.5")
	f.Add("(-2) ^ 3")
	f.Add("log(1e-400)")
	f.Fuzz(func(t *testing.T, s string) {
		// Only checking that nothing panics.
		calc.New(calc.Prec(53)).EvalBig(s)
	})
}
