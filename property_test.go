package calc_test

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/Knetic/govaluate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc"
)

// flatExpr generates an expression of literals and + - * / without parens.
func flatExpr(rng *rand.Rand, n int) ([]int64, []byte, string) {
	nums := make([]int64, n)
	ops := make([]byte, n-1)
	var b strings.Builder
	for i := range nums {
		if i > 0 {
			ops[i-1] = "+-*/"[rng.Intn(4)]
			b.WriteByte(' ')
			b.WriteByte(ops[i-1])
			b.WriteByte(' ')
		}
		nums[i] = rng.Int63n(20) + 1
		b.WriteString(strconv.FormatInt(nums[i], 10))
	}
	return nums, ops, b.String()
}

// refFlat evaluates a flat expression in decimal arithmetic by folding each
// run of * and / into a term, then summing the terms. The second result is
// the sum of the magnitudes of the terms, which bounds the rounding error of
// a float64 evaluation.
func refFlat(nums []int64, ops []byte) (decimal.Decimal, decimal.Decimal) {
	var terms []decimal.Decimal
	signs := []bool{false}
	term := decimal.NewFromInt(nums[0])
	for i, op := range ops {
		x := decimal.NewFromInt(nums[i+1])
		switch op {
		case '*':
			term = term.Mul(x)
		case '/':
			term = term.Div(x)
		case '+', '-':
			terms = append(terms, term)
			signs = append(signs, op == '-')
			term = x
		}
	}
	terms = append(terms, term)
	sum, mag := decimal.Zero, decimal.Zero
	for i, t := range terms {
		if signs[i] {
			sum = sum.Sub(t)
		} else {
			sum = sum.Add(t)
		}
		mag = mag.Add(t.Abs())
	}
	return sum, mag
}

func TestPropertyFlatPrecedence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		nums, ops, src := flatExpr(rng, rng.Intn(6)+1)
		want, mag := refFlat(nums, ops)
		got, err := calc.Eval(src)
		require.NoError(t, err, src)
		w, _ := want.Float64()
		m, _ := mag.Float64()
		assert.InDelta(t, w, got, 1e-9*(1+m), src)
	}
}

// nestedExpr generates an expression of small literals, + - * /, and parens.
func nestedExpr(rng *rand.Rand, depth int) string {
	if depth == 0 || rng.Intn(3) == 0 {
		return strconv.Itoa(rng.Intn(9) + 1)
	}
	l := nestedExpr(rng, depth-1)
	r := nestedExpr(rng, depth-1)
	s := l + " " + string("+-*/"[rng.Intn(4)]) + " " + r
	if rng.Intn(2) == 0 {
		s = "(" + s + ")"
	}
	return s
}

func TestPropertyAgreesWithGovaluate(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 300; i++ {
		src := nestedExpr(rng, 4)
		ge, err := govaluate.NewEvaluableExpression(src)
		require.NoError(t, err, src)
		want, err := ge.Evaluate(nil)
		require.NoError(t, err, src)
		w, ok := want.(float64)
		require.True(t, ok, "govaluate result %T for %s", want, src)
		got, err := calc.Eval(src)
		var dz *calc.DivisionByZeroError
		if errors.As(err, &dz) {
			// govaluate divides by zero in IEEE arithmetic, so there is
			// nothing to compare.
			continue
		}
		require.NoError(t, err, src)
		require.False(t, math.IsInf(w, 0) || math.IsNaN(w), "govaluate gave %g for %s", w, src)
		assert.InDelta(t, w, got, 1e-9*(1+math.Abs(w)), src)
	}
}

func TestPropertyRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	srcs := []string{
		"2 + 3 * 4",
		"1 / 3",
		"-1 / 3",
		"10 ^ 25",
		"10 ^ -9",
		"2 ^ 0.5",
		"fact(20)",
		"sin(1)",
		"1e21 - 1",
		"0 - 0",
		"-5",
	}
	for i := 0; i < 200; i++ {
		srcs = append(srcs, nestedExpr(rng, 4))
	}
	for _, src := range srcs {
		x, err := calc.Eval(src)
		if err != nil {
			continue
		}
		s := calc.Format(x)
		y, err := calc.Eval(s)
		require.NoError(t, err, "%s formatted as %s", src, s)
		assert.Equal(t, x, y, "%s formatted as %s", src, s)
	}
}

func TestPropertyLeftAssocPow(t *testing.T) {
	// a^b^c is (a^b)^c for every chain.
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		a, b, c := rng.Intn(4)+1, rng.Intn(4)+1, rng.Intn(3)+1
		src := strconv.Itoa(a) + " ^ " + strconv.Itoa(b) + " ^ " + strconv.Itoa(c)
		got, err := calc.Eval(src)
		require.NoError(t, err, src)
		assert.Equal(t, math.Pow(math.Pow(float64(a), float64(b)), float64(c)), got, src)
	}
}
