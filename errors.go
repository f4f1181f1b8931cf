package calc

import "strconv"

// UnbalancedParenError is an error indicating a paren with no partner. It
// implements InputError.
type UnbalancedParenError struct {
	// Col is the position of the unmatched paren.
	Col int
	// Paren is the unmatched paren, either "(" or ")".
	Paren string
}

func (err *UnbalancedParenError) Error() string {
	if err.Paren == "(" {
		return errpos(err.Col, "open paren with no close paren")
	}
	return errpos(err.Col, "close paren with no open paren")
}

func (err *UnbalancedParenError) Pos() int {
	return err.Col
}

// ArityError is an error indicating an operator or function applied without
// enough operands. It implements InputError.
type ArityError struct {
	// Col is the position of the operator or function.
	Col int
	// Op is the operator or function name.
	Op string
	// Want and Have are the number of operands needed and available.
	Want, Have int
}

func (err *ArityError) Error() string {
	return errpos(err.Col, err.Op+" needs "+strconv.Itoa(err.Want)+" operands but has "+strconv.Itoa(err.Have))
}

func (err *ArityError) Pos() int {
	return err.Col
}

// DivisionByZeroError is an error indicating a division with a zero divisor.
// It implements InputError.
type DivisionByZeroError struct {
	// Col is the position of the division operator.
	Col int
}

func (err *DivisionByZeroError) Error() string {
	return errpos(err.Col, "division by zero")
}

func (err *DivisionByZeroError) Pos() int {
	return err.Col
}

// NumericOverflowError is an error indicating a result that is not a finite
// number. It implements InputError.
type NumericOverflowError struct {
	// Col is the position of the token whose evaluation overflowed.
	Col int
	// Op is the operator, function, or literal that produced the value.
	Op string
}

func (err *NumericOverflowError) Error() string {
	return errpos(err.Col, "result of "+strconv.Quote(err.Op)+" is not finite")
}

func (err *NumericOverflowError) Pos() int {
	return err.Col
}

// MalformedExpressionError is an error indicating an expression that does
// not have the shape of one: empty input, an operator missing an operand,
// operands with no operator between them, and so on. It implements
// InputError.
type MalformedExpressionError struct {
	// Col is the position of the token where the problem was found. It is
	// 1 for empty input.
	Col int
	// Reason describes the problem.
	Reason string
}

func (err *MalformedExpressionError) Error() string {
	return errpos(err.Col, "malformed expression: "+err.Reason)
}

func (err *MalformedExpressionError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the column of the token that
	// caused it, counting from 1.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*UnbalancedParenError)(nil)
	_ InputError = (*ArityError)(nil)
	_ InputError = (*DivisionByZeroError)(nil)
	_ InputError = (*NumericOverflowError)(nil)
	_ InputError = (*MalformedExpressionError)(nil)
	_ InputError = DomainError{}
)
