package calc

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format formats a result for a calculator display. Numbers with magnitude in
// [1e-6, 1e21) are written in plain decimal; others use the shortest exponent
// form, e.g. 1e+21 or 1.5e-7. The output of Format for any finite x is an
// expression that evaluates to exactly x.
func Format(x float64) string {
	switch {
	case x == 0:
		// Includes negative zero.
		return "0"
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}
	if a := math.Abs(x); a >= 1e21 || a < 1e-6 {
		return trimexp(strconv.FormatFloat(x, 'e', -1, 64))
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// FormatBig formats a precise result like Format, using the shortest decimal
// that identifies x at its precision.
func FormatBig(x *big.Float) string {
	switch {
	case x.Sign() == 0:
		return "0"
	case x.IsInf() && x.Sign() > 0:
		return "Infinity"
	case x.IsInf():
		return "-Infinity"
	}
	a := new(big.Float).Abs(x)
	if a.Cmp(big.NewFloat(1e21)) >= 0 || a.Cmp(big.NewFloat(1e-6)) < 0 {
		return trimexp(x.Text('e', -1))
	}
	return x.Text('f', -1)
}

// trimexp removes leading zeros from the exponent of a number in 'e' format.
// strconv and package big write at least two exponent digits.
func trimexp(s string) string {
	mant, exp, _ := strings.Cut(s, "e")
	digits := strings.TrimLeft(exp[1:], "0")
	return mant + "e" + exp[:1] + digits
}

// maxLocaleFraction is the number of fraction digits FormatLocale keeps.
const maxLocaleFraction = 10

// FormatLocale formats a result with the digit grouping and decimal
// separator of a language, e.g. 1,234.5 in English and 1.234,5 in German.
// Non-finite values are formatted as by Format.
func FormatLocale(x float64, tag language.Tag) string {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return Format(x)
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%v", number.Decimal(x, number.MaxFractionDigits(maxLocaleFraction)))
}

// Entry formats a history entry recording that expr evaluated to x.
func Entry(expr string, x float64) string {
	return expr + " = " + Format(x)
}
