package calc

import (
	"strconv"
	"unicode"
)

// Option is an option used when creating an Evaluator.
type Option interface {
	apply(*Evaluator)
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt map[string]Func
	precopt  uint
	powopt   bool
)

// WithFunc sets a function for tokenizing and evaluating. To disable a
// function, pass nil for fn. Panics if name is not a run of letters.
func WithFunc(name string, fn Func) Option {
	checkname(name)
	return &funcopt{name, fn}
}

func (o *funcopt) apply(e *Evaluator) {
	e.setfunc(o.name, o.fn)
}

// WithFuncs sets a group of functions. To disable any function, set it to nil.
// Panics if any name is not a run of letters.
func WithFuncs(fns map[string]Func) Option {
	m := make(funcsopt, len(fns))
	for k, v := range fns {
		checkname(k)
		m[k] = v
	}
	return m
}

func (o funcsopt) apply(e *Evaluator) {
	for k, v := range o {
		e.setfunc(k, v)
	}
}

// DisableDefaultFuncs disables all default functions. Their names become
// unknown to the tokenizer, and postfix ! stops working unless fact is set
// again by a later option.
func DisableDefaultFuncs() Option {
	m := make(funcsopt, len(globalfuncs))
	for k := range globalfuncs {
		m[k] = nil
	}
	return m
}

// Prec sets the precision in bits of EvalBig. The default is 64.
func Prec(prec uint) Option {
	return precopt(prec)
}

func (o precopt) apply(e *Evaluator) {
	e.prec = uint(o)
}

// RightAssocPow makes ^ right-associative, so that 2^3^2 is 2^(3^2) = 512.
// By default, ^ associates left like the other operators and 2^3^2 is 64.
func RightAssocPow() Option {
	return powopt(true)
}

func (o powopt) apply(e *Evaluator) {
	e.rightPow = bool(o)
}

func checkname(name string) {
	if name == "" {
		panic("calc: empty function name")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			panic("calc: invalid function name " + strconv.Quote(name))
		}
	}
}
