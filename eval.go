package calc

import (
	"errors"
	"math"
	"strings"
)

// Evaluator evaluates calculator expressions. An Evaluator is not modified
// after New returns, so it is safe to use concurrently.
type Evaluator struct {
	funcs    map[string]Func
	bigfuncs map[string]bigFunc
	prec     uint
	rightPow bool
}

// New creates an evaluator with the default functions. The given options are
// applied in order.
func New(opts ...Option) *Evaluator {
	e := Evaluator{
		funcs:    make(map[string]Func, len(globalfuncs)),
		bigfuncs: make(map[string]bigFunc, len(globalbigfuncs)),
		prec:     64,
	}
	for k, v := range globalfuncs {
		e.funcs[k] = v
	}
	for k, v := range globalbigfuncs {
		e.bigfuncs[k] = v
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&e)
	}
	return &e
}

func (e *Evaluator) setfunc(name string, fn Func) {
	// An overridden default no longer has a precise counterpart.
	delete(e.bigfuncs, name)
	if fn == nil {
		delete(e.funcs, name)
		return
	}
	e.funcs[name] = fn
}

// Funcs returns the sorted names of the functions the evaluator knows.
func (e *Evaluator) Funcs() []string {
	r := make([]string, 0, len(e.funcs))
	for k := range e.funcs {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// Tokenize converts an expression into tokens. The only error it returns is
// a *LexError.
func (e *Evaluator) Tokenize(src string) ([]Token, error) {
	return tokenize(strings.NewReader(src), e.funcs)
}

// Eval evaluates an expression. The result is always finite. If the
// expression cannot be evaluated, the error is one of *LexError,
// *UnbalancedParenError, *ArityError, *DivisionByZeroError, DomainError,
// *NumericOverflowError, or *MalformedExpressionError.
func (e *Evaluator) Eval(src string) (float64, error) {
	toks, err := e.Tokenize(src)
	if err != nil {
		return 0, err
	}
	return run[float64](toks, floatArith{e}, e.rightPow)
}

var std = New()

// Eval evaluates an expression using the default functions.
func Eval(src string) (float64, error) {
	return std.Eval(src)
}

// Tokenize converts an expression into tokens using the default functions.
func Tokenize(src string) ([]Token, error) {
	return std.Tokenize(src)
}

// arith is the arithmetic that a run of the evaluator is carried out in.
type arith[T any] interface {
	// num converts a number token.
	num(tok Token) (T, error)
	// binary applies a binary operator.
	binary(op Token, l, r T) (T, error)
	// call applies a function.
	call(fn Token, x T) (T, error)
}

// precedence gets the binding strength of a binary operator.
func precedence(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	case "^":
		return 3
	default:
		panic("calc: unknown operator " + op)
	}
}

// operandEnd returns whether a token of kind k can end an operand.
func operandEnd(k TokenKind) bool {
	return k == TokenNum || k == TokenClose
}

// run evaluates a token sequence with the shunting-yard algorithm, applying
// each operator as soon as precedence allows instead of building a tree.
func run[T any](toks []Token, a arith[T], rightPow bool) (T, error) {
	var zero T
	if len(toks) == 0 {
		return zero, &MalformedExpressionError{Col: 1, Reason: "empty expression"}
	}
	values := make(stack[T], 0, len(toks)/2+1)
	ops := make(stack[Token], 0, len(toks)/2+1)
	apply := func(op Token) error {
		if op.Kind == TokenFunc {
			if values.empty() {
				return &ArityError{Col: op.Pos, Op: op.Text, Want: 1, Have: 0}
			}
			r, err := a.call(op, values.pop())
			if err != nil {
				return err
			}
			values.push(r)
			return nil
		}
		if len(values) < 2 {
			return &ArityError{Col: op.Pos, Op: op.Text, Want: 2, Have: len(values)}
		}
		r := values.pop()
		l := values.pop()
		x, err := a.binary(op, l, r)
		if err != nil {
			return err
		}
		values.push(x)
		return nil
	}

	var prev Token
	for i, tok := range toks {
		if prev.Kind == TokenFunc && tok.Kind != TokenOpen {
			return zero, &MalformedExpressionError{Col: tok.Pos, Reason: "function " + prev.Text + " without argument list"}
		}
		switch tok.Kind {
		case TokenNum:
			if operandEnd(prev.Kind) {
				return zero, &MalformedExpressionError{Col: tok.Pos, Reason: "missing operator"}
			}
			v, err := a.num(tok)
			if err != nil {
				return zero, err
			}
			values.push(v)
		case TokenFunc, TokenOpen:
			if operandEnd(prev.Kind) {
				return zero, &MalformedExpressionError{Col: tok.Pos, Reason: "missing operator"}
			}
			ops.push(tok)
		case TokenClose:
			switch prev.Kind {
			case TokenOp:
				return zero, &MalformedExpressionError{Col: prev.Pos, Reason: "operator " + prev.Text + " has no right operand"}
			case TokenOpen:
				if i >= 2 && toks[i-2].Kind == TokenFunc {
					fn := toks[i-2]
					return zero, &ArityError{Col: fn.Pos, Op: fn.Text, Want: 1, Have: 0}
				}
				return zero, &MalformedExpressionError{Col: prev.Pos, Reason: "empty parentheses"}
			}
			for {
				if ops.empty() {
					return zero, &UnbalancedParenError{Col: tok.Pos, Paren: ")"}
				}
				if ops.top().Kind == TokenOpen {
					break
				}
				if err := apply(ops.pop()); err != nil {
					return zero, err
				}
			}
			ops.pop()
			// A function waiting below the paren takes the group as its
			// argument.
			if !ops.empty() && ops.top().Kind == TokenFunc {
				if err := apply(ops.pop()); err != nil {
					return zero, err
				}
			}
		case TokenOp:
			if !operandEnd(prev.Kind) {
				return zero, &MalformedExpressionError{Col: tok.Pos, Reason: "operator " + tok.Text + " has no left operand"}
			}
			p := precedence(tok.Text)
			for !ops.empty() {
				top := ops.top()
				if top.Kind != TokenOp {
					break
				}
				q := precedence(top.Text)
				if q < p || q == p && rightPow && tok.Text == "^" {
					break
				}
				if err := apply(ops.pop()); err != nil {
					return zero, err
				}
			}
			ops.push(tok)
		default:
			panic("calc: unknown token: " + tok.String())
		}
		prev = tok
	}
	switch prev.Kind {
	case TokenOp:
		return zero, &MalformedExpressionError{Col: prev.Pos, Reason: "operator " + prev.Text + " has no right operand"}
	case TokenFunc:
		return zero, &MalformedExpressionError{Col: prev.Pos, Reason: "function " + prev.Text + " without argument list"}
	}
	for _, op := range ops {
		if op.Kind == TokenOpen {
			return zero, &UnbalancedParenError{Col: op.Pos, Paren: "("}
		}
	}
	for !ops.empty() {
		if err := apply(ops.pop()); err != nil {
			return zero, err
		}
	}
	if len(values) != 1 {
		return zero, &MalformedExpressionError{Col: toks[len(toks)-1].Pos, Reason: "operands left without operators"}
	}
	return values[0], nil
}

// floatArith evaluates in float64.
type floatArith struct {
	e *Evaluator
}

func (floatArith) num(tok Token) (float64, error) {
	return finite(tok, tok.Num)
}

func (floatArith) binary(op Token, l, r float64) (float64, error) {
	var x float64
	switch op.Text {
	case "+":
		x = l + r
	case "-":
		x = l - r
	case "*":
		x = l * r
	case "/":
		if r == 0 {
			return 0, &DivisionByZeroError{Col: op.Pos}
		}
		x = l / r
	case "^":
		// Guard against negative bases with fractional exponents, which have
		// no real result.
		if l < 0 && !isint(r) {
			return 0, DomainError{X: l, Func: "^", Col: op.Pos}
		}
		x = math.Pow(l, r)
	default:
		panic("calc: unknown operator " + op.Text)
	}
	return finite(op, x)
}

func (a floatArith) call(fn Token, x float64) (float64, error) {
	f := a.e.funcs[fn.Text]
	if f == nil {
		// The tokenizer only produces names in the table.
		panic("calc: unknown function " + fn.Text)
	}
	r, err := f.Call(x)
	if err != nil {
		return 0, atfunc(err, fn)
	}
	return finite(fn, r)
}

// finite checks that an intermediate result is a finite number.
func finite(tok Token, x float64) (float64, error) {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return 0, &NumericOverflowError{Col: tok.Pos, Op: tok.Text}
	}
	return x, nil
}

// atfunc fills in the position of a DomainError from a function call.
func atfunc(err error, fn Token) error {
	var de DomainError
	if !errors.As(err, &de) {
		return err
	}
	if de.Col == 0 {
		de.Col = fn.Pos
	}
	if de.Func == "" {
		de.Func = fn.Text
	}
	return de
}
