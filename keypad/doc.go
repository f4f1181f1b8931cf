// Package keypad models the keypad of a pocket calculator on top of package
// calc: a Session turns key presses into an expression and evaluates it on =,
// and a History keeps the calculations, optionally persisted in a Store.
package keypad
