package calc_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/zephyrtronium/calc"
)

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"num", "1", 1},
		{"decimal", "3.14", 3.14},
		{"neg", "-4", -4},
		{"add", "4+5+6", 4 + 5 + 6},
		{"sub", "4-5-6", 4 - 5 - 6},
		{"mul", "4*5*6", 4 * 5 * 6},
		{"div", "4/5/6", 4.0 / 5.0 / 6.0},
		{"spaced", "3 + 4", 7},
		{"precedence", "2 + 3 * 4", 14},
		{"parens", "(2 + 3) * 4", 20},
		{"nested", "((2))", 2},
		{"pow", "2 ^ 10", 1024},
		{"pow-left", "2 ^ 3 ^ 2", 64},
		{"pow-over-mul", "2 * 3 ^ 2", 18},
		{"pow-neg-literal", "-2 ^ 2", 4},
		{"neg-exponent", "2 ^ -1", 0.5},
		{"neg-base-int", "(-2) ^ 3", -8},
		{"sub-neg", "3 - -5", 8},
		{"paren-neg", "2 * (-3 + 1)", -4},
		{"sqrt", "sqrt(9)", 3},
		{"log", "log(100)", 2},
		{"ln", "ln(1)", 0},
		{"sin", "sin(0)", 0},
		{"cos", "cos(0)", 1},
		{"tan", "tan(0)", 0},
		{"fact", "fact(5)", 120},
		{"fact-zero", "fact(0)", 1},
		{"bang", "5!", 120},
		{"bang-expr", "3! + 1", 7},
		{"fn-arg-expr", "sqrt(3 * 3 + 16)", 5},
		{"fn-nested", "sqrt(sqrt(16))", 2},
		{"fn-in-expr", "1 + sqrt(4) * 3", 7},
		{"fn-pow", "sqrt(4)^3", 8},
		{"square", "(3)^2", 9},
		{"exponent-literal", "1e+21 / 1e21", 1},
		{"times-sign", "6 × 7", 42},
		{"divide-sign", "6 ÷ 4", 1.5},
		{"zero-div-num", "0 / 5", 0},
		{"big-fact", "fact(170) / fact(169)", 170},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src)
			if err != nil {
				t.Fatalf("%q failed: %v", c.src, err)
			}
			if math.Abs(r-c.r) > 1e-12*math.Max(1, math.Abs(c.r)) {
				t.Errorf("%q: want %g, got %g", c.src, c.r, r)
			}
		})
	}
}

func TestEvalRightAssocPow(t *testing.T) {
	e := calc.New(calc.RightAssocPow())
	cases := []struct {
		src string
		r   float64
	}{
		{"2 ^ 3 ^ 2", 512},
		{"2 ^ 2 ^ 2 ^ 2", 65536},
		{"2 * 3 ^ 2", 18},
		{"8 - 2 - 1", 5},
		{"16 / 4 / 2", 2},
	}
	for _, c := range cases {
		r, err := e.Eval(c.src)
		if err != nil {
			t.Errorf("%q failed: %v", c.src, err)
			continue
		}
		if r != c.r {
			t.Errorf("%q: want %g, got %g", c.src, c.r, r)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	var (
		lex      *calc.LexError
		paren    *calc.UnbalancedParenError
		arity    *calc.ArityError
		divzero  *calc.DivisionByZeroError
		overflow *calc.NumericOverflowError
		bad      *calc.MalformedExpressionError
		domain   calc.DomainError
	)
	cases := []struct {
		name   string
		src    string
		target interface{}
		pos    int
	}{
		{"lex", "2 $ 3", &lex, 3},
		{"unknown-func", "foo(2)", &lex, 1},
		{"unclosed", "(2 + 3", &paren, 1},
		{"unopened", "2 + 3)", &paren, 6},
		{"lone-close", ")", &paren, 1},
		{"unclosed-inner", "((2) + 3", &paren, 1},
		{"unclosed-fn", "sqrt(4", &paren, 5},
		// An unclosed paren is reported before operators pending inside it
		// are applied.
		{"unclosed-div-zero", "(1 / 0", &paren, 1},
		{"closed-div-zero", "(1 / 0) + (2", &divzero, 4},
		{"fn-no-arg", "sqrt()", &arity, 1},
		{"div-zero", "5 / 0", &divzero, 3},
		{"div-zero-expr", "1 / (2 - 2)", &divzero, 3},
		{"fact-neg", "fact(-1)", &domain, 1},
		{"fact-frac", "fact(2.5)", &domain, 1},
		{"bang-frac", "2.5!", &domain, 1},
		{"sqrt-neg", "sqrt(-4)", &domain, 1},
		{"log-zero", "log(0)", &domain, 1},
		{"ln-neg", "ln(-1)", &domain, 1},
		{"pow-neg-frac", "(-8) ^ 0.5", &domain, 6},
		{"pow-overflow", "10 ^ 400", &overflow, 4},
		{"mul-overflow", "1e308 * 10", &overflow, 7},
		{"fact-overflow", "fact(171)", &overflow, 1},
		{"fact-huge", "fact(1e18)", &overflow, 1},
		{"literal-overflow", "1e400", &overflow, 1},
		{"zero-neg-pow", "0 ^ -1", &overflow, 3},
		{"empty", "", &bad, 1},
		{"blank", "   ", &bad, 1},
		{"plus", "+", &bad, 1},
		{"trailing-op", "3 +", &bad, 3},
		{"leading-op", "* 3", &bad, 1},
		{"double-op", "3 + * 4", &bad, 5},
		{"op-in-paren", "2 * (+3)", &bad, 6},
		{"op-before-close", "(3 +)", &bad, 4},
		{"minus-paren", "-(3)", &bad, 1},
		{"adjacent-nums", "1 2", &bad, 3},
		{"adjacent-parens", "(1)(2)", &bad, 4},
		{"num-before-fn", "2 sqrt(4)", &bad, 3},
		{"empty-parens", "()", &bad, 1},
		{"fn-no-parens", "sqrt 4", &bad, 6},
		{"fn-alone", "sqrt", &bad, 1},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src)
			if err == nil {
				t.Fatalf("%q: want error, got %g", c.src, r)
			}
			if !errors.As(err, c.target) {
				t.Fatalf("%q: wrong error type %T: %v", c.src, err, err)
			}
			var ie calc.InputError
			if !errors.As(err, &ie) {
				t.Fatalf("%q: %T does not implement InputError", c.src, err)
			}
			if ie.Pos() != c.pos {
				t.Errorf("%q: want error at %d, got %d (%v)", c.src, c.pos, ie.Pos(), err)
			}
		})
	}
}

func TestEvalDomainErrorNames(t *testing.T) {
	cases := []struct {
		src string
		fn  string
		x   float64
	}{
		{"fact(-1)", "fact", -1},
		{"sqrt(-4)", "sqrt", -4},
		{"log(0)", "log", 0},
		{"(-8) ^ 0.5", "^", -8},
	}
	for _, c := range cases {
		_, err := calc.Eval(c.src)
		var de calc.DomainError
		if !errors.As(err, &de) {
			t.Errorf("%q: want DomainError, got %v", c.src, err)
			continue
		}
		if de.Func != c.fn || de.X != c.x {
			t.Errorf("%q: want %s(%g), got %s(%g)", c.src, c.fn, c.x, de.Func, de.X)
		}
	}
}

func TestEvalCustomFuncs(t *testing.T) {
	half := calc.Monadic(func(x float64) float64 { return x / 2 })
	recip := calc.Restricted("recip", func(x float64) float64 { return 1 / x }, func(x float64) bool { return x != 0 })
	e := calc.New(calc.WithFuncs(map[string]calc.Func{"half": half, "recip": recip}))
	if r, err := e.Eval("half(9) + recip(4)"); err != nil || r != 4.75 {
		t.Errorf("want 4.75, got %g, %v", r, err)
	}
	var de calc.DomainError
	if _, err := e.Eval("recip(0)"); !errors.As(err, &de) || de.Func != "recip" {
		t.Errorf("want DomainError from recip, got %v", err)
	}
	// The default evaluator is unaffected.
	var le *calc.LexError
	if _, err := calc.Eval("half(9)"); !errors.As(err, &le) {
		t.Errorf("default evaluator accepted half: %v", err)
	}
	// A function returning a non-finite value overflows.
	e = calc.New(calc.WithFunc("inf", calc.Monadic(func(float64) float64 { return math.Inf(1) })))
	var oe *calc.NumericOverflowError
	if _, err := e.Eval("inf(1)"); !errors.As(err, &oe) {
		t.Errorf("want NumericOverflowError, got %v", err)
	}
}

func TestEvalFuncsList(t *testing.T) {
	want := []string{"cos", "fact", "ln", "log", "sin", "sqrt", "tan"}
	got := calc.DefaultFuncs()
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("want %v, got %v", want, got)
		}
	}
	e := calc.New(calc.DisableDefaultFuncs(), calc.WithFunc("sqrt", calc.Monadic(math.Sqrt)))
	if got := e.Funcs(); len(got) != 1 || got[0] != "sqrt" {
		t.Errorf("want [sqrt], got %v", got)
	}
}

func TestEvalConcurrent(t *testing.T) {
	e := calc.New()
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := e.Eval("(2 + 3) * 4 - sqrt(16)")
			if err != nil {
				errs <- err
				return
			}
			if r != 16 {
				errs <- errors.New("wrong result")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
