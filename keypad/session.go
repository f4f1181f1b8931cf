package keypad

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/calc"
)

// ErrorDisplay is what a session displays after a failed calculation.
const ErrorDisplay = "Error"

// ErrUnknownKey is returned by Press for labels that are not keys.
var ErrUnknownKey = errors.New("unknown key")

// Session is the state of a calculator keypad: the expression being typed,
// what the display shows, and the last calculation. A Session is not safe for
// concurrent use.
type Session struct {
	ev   *calc.Evaluator
	hist *History

	expr       string
	display    string
	last       string
	calculated bool
}

// NewSession creates a session evaluating with ev and recording calculations
// in hist. If ev is nil, the default evaluator is used. hist may be nil.
func NewSession(ev *calc.Evaluator, hist *History) *Session {
	if ev == nil {
		ev = calc.New()
	}
	s := &Session{ev: ev, hist: hist}
	s.Clear()
	return s
}

// Expression returns the expression typed so far.
func (s *Session) Expression() string {
	return s.expr
}

// Display returns what the display shows.
func (s *Session) Display() string {
	return s.display
}

// Last returns the history entry of the last successful calculation, or the
// empty string if there has been none since the session was cleared.
func (s *Session) Last() string {
	return s.last
}

// History returns the session's history, which may be nil.
func (s *Session) History() *History {
	return s.hist
}

func (s *Session) set(expr string) {
	s.expr = expr
	s.display = expr
}

// start replaces the expression with x if the last key was = or the
// expression is just 0, otherwise appends x.
func (s *Session) start(x string) {
	if s.calculated || s.expr == "0" {
		s.calculated = false
		s.set(x)
		return
	}
	s.set(s.expr + x)
}

// Digit types a digit.
func (s *Session) Digit(d rune) error {
	if d < '0' || d > '9' {
		return fmt.Errorf("%w: %q is not a digit", ErrUnknownKey, d)
	}
	s.start(string(d))
	return nil
}

// Decimal types a decimal point, unless the number being typed already has
// one.
func (s *Session) Decimal() {
	seg := s.expr
	if i := strings.LastIndexAny(seg, calc.Operators+"()"); i >= 0 {
		seg = seg[i+1:]
	}
	if strings.Contains(seg, ".") {
		return
	}
	s.set(s.expr + ".")
}

// Operator types a binary operator. After =, the operator applies to the
// result.
func (s *Session) Operator(op string) error {
	if len(op) != 1 || !strings.Contains("+-*/^", op) {
		return fmt.Errorf("%w: %q is not an operator", ErrUnknownKey, op)
	}
	s.calculated = false
	s.set(s.expr + " " + op + " ")
	return nil
}

// Paren types a parenthesis.
func (s *Session) Paren(p rune) error {
	if p != '(' && p != ')' {
		return fmt.Errorf("%w: %q is not a parenthesis", ErrUnknownKey, p)
	}
	s.start(string(p))
	return nil
}

// Func types the name of a function and its opening parenthesis.
func (s *Session) Func(name string) error {
	for _, f := range s.ev.Funcs() {
		if f == name {
			s.start(name + "(")
			return nil
		}
	}
	return fmt.Errorf("%w: no function %q", ErrUnknownKey, name)
}

// Square wraps the expression so that it is squared.
func (s *Session) Square() {
	s.calculated = false
	s.set("(" + s.expr + ")^2")
}

// Factorial types a postfix !.
func (s *Session) Factorial() {
	s.calculated = false
	s.set(s.expr + "!")
}

// Equals evaluates the expression. On success, the result replaces the
// expression and the calculation is added to history. On failure, the display
// shows ErrorDisplay, the expression resets to 0, and the error is returned.
func (s *Session) Equals() (float64, error) {
	expr := s.expr
	s.calculated = true
	r, err := s.ev.Eval(expr)
	if err != nil {
		log.WithError(err).WithField("expr", expr).Debugf("[keypad]: evaluation failed")
		s.expr = "0"
		s.display = ErrorDisplay
		return 0, err
	}
	entry := calc.Entry(expr, r)
	s.last = entry
	s.set(calc.Format(r))
	if s.hist != nil {
		if err := s.hist.Add(entry); err != nil {
			// The calculation itself succeeded.
			log.WithError(err).WithField("entry", entry).Warnf("[keypad]: failed to save history")
		}
	}
	log.WithFields(logrus.Fields{"expr": expr, "result": r}).Debugf("[keypad]: evaluated")
	return r, nil
}

// Clear resets the session. History is kept.
func (s *Session) Clear() {
	s.set("0")
	s.last = ""
	s.calculated = false
}

// Press presses the key with the given label. The labels are the digits,
// ".", the operators "+ - * / ^" (also "×" and "÷"), "(", ")", function names,
// "√" for sqrt, "!", "x²", "=", and "C". While the display shows an error,
// every key except C only clears it.
func (s *Session) Press(label string) error {
	if s.display == ErrorDisplay && label != "C" {
		s.Clear()
		return nil
	}
	switch label {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return s.Digit(rune(label[0]))
	case ".":
		s.Decimal()
	case "+", "-", "*", "/", "^":
		return s.Operator(label)
	case "×":
		return s.Operator("*")
	case "÷":
		return s.Operator("/")
	case "(", ")":
		return s.Paren(rune(label[0]))
	case "√":
		return s.Func("sqrt")
	case "!":
		s.Factorial()
	case "x²":
		s.Square()
	case "=":
		// Failures are shown on the display.
		s.Equals()
	case "C":
		s.Clear()
	default:
		if err := s.Func(label); err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownKey, label)
		}
	}
	return nil
}

// PressAll presses each key in turn, stopping at the first unknown key.
func (s *Session) PressAll(labels ...string) error {
	for _, l := range labels {
		if err := s.Press(l); err != nil {
			return err
		}
	}
	return nil
}
