// Package calc implements the expression evaluator behind a pocket calculator.
//
// Expressions are what a calculator keypad produces: numbers, the binary
// operators + - * / and ^, parentheses, and calls of sin, cos, tan, log (base
// 10), ln, sqrt, and fact. "5!" is shorthand for "fact(5)". A minus sign where
// an operand is expected is part of the number that follows it, so "-2^2" is
// 4 and "3 - -5" is 8.
//
// Whitespace is insignificant except that it separates tokens: "1 2" is two
// numbers with no operator between them, not 12.
//
// Operators bind in the usual order, but every operator associates left,
// including ^: "2^3^2" is 64. The RightAssocPow option changes that.
//
// Evaluation never produces an infinity or NaN. Division by zero, results too
// large to represent, and arguments outside a function's domain are errors of
// distinct types, all of which implement InputError.
package calc
