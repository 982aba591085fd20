package main

import (
	"math"

	"github.com/vollmerm/fungp"
)

// Quartic symbolic regression: recover x^4 + x^3 + x^2 + x from
// sampled (x, y) pairs using only +, -, *, the variable x and the
// constants 1 and 2 (see main.go's Numbers).
const (
	symX  fungp.Symbol = "x"
	opAdd fungp.Symbol = "+"
	opSub fungp.Symbol = "-"
	opMul fungp.Symbol = "*"
)

func target(x float64) float64 {
	return x*x*x*x + x*x*x + x*x + x
}

func samplePoints() []float64 {
	pts := make([]float64, 0, 21)
	for x := -1.0; x <= 1.0; x += 0.1 {
		pts = append(pts, x)
	}
	return pts
}

func functionSet() fungp.FunctionSet {
	return fungp.FunctionSet{
		{ID: opAdd, Arity: 2},
		{ID: opSub, Arity: 2},
		{ID: opMul, Arity: 2},
	}
}

// evalTree interprets a +/-/* expression tree over the variable x.
func evalTree(t *fungp.Tree, x float64) float64 {
	if t.IsNum() {
		return t.Num()
	}
	if t.IsVar() {
		return x
	}
	a := evalTree(t.Children[0], x)
	b := evalTree(t.Children[1], x)
	switch t.Op() {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	default:
		return math.NaN()
	}
}

// sumSquaredError is the fitness function: sum of squared residuals
// between the candidate and the target polynomial over samplePoints.
func sumSquaredError(points []float64) fungp.FitnessFunc {
	return func(m *fungp.Module) float64 {
		var sum float64
		for _, x := range points {
			d := evalTree(m.Result, x) - target(x)
			sum += d * d
		}
		return sum
	}
}
