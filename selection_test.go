package fungp

import (
	"math"
	"testing"
)

func TestScoreGenerationCachesPointerIdentity(t *testing.T) {
	calls := 0
	fitness := func(*Module) float64 {
		calls++
		return 1
	}
	m := &Module{Result: newVarLeaf("x")}
	pop := []*Module{m, m, m}
	scored := scoreGeneration(pop, fitness, nil, map[*Module]bool{})
	if calls != 1 {
		t.Fatalf("fitness called %d times, want 1 (cached by pointer identity)", calls)
	}
	if len(scored) != 3 {
		t.Fatalf("len(scored) = %d, want 3", len(scored))
	}
}

func TestEvalFitnessRecoversPanic(t *testing.T) {
	m := &Module{Result: newVarLeaf("x")}
	reported := map[*Module]bool{}
	var reportedFitness float64 = -1
	report := func(tree *Module, f float64) { reportedFitness = f }

	f := evalFitness(m, func(*Module) float64 { panic("boom") }, report, reported)
	if !math.IsInf(f, 1) {
		t.Fatalf("evalFitness after panic = %v, want +Inf", f)
	}
	if !math.IsInf(reportedFitness, 1) {
		t.Fatal("report callback was not invoked with +Inf")
	}
	if !reported[m] {
		t.Fatal("reported map not updated after panic")
	}
}

func TestEvalFitnessReportsPanicOnlyOnce(t *testing.T) {
	m := &Module{Result: newVarLeaf("x")}
	reported := map[*Module]bool{}
	count := 0
	report := func(*Module, float64) { count++ }

	evalFitness(m, func(*Module) float64 { panic("boom") }, report, reported)
	evalFitness(m, func(*Module) float64 { panic("boom") }, report, reported)
	if count != 1 {
		t.Fatalf("report invoked %d times for the same tree, want 1", count)
	}
}

func TestTournamentReturnsCrossoverOfTopTwo(t *testing.T) {
	rng := testRNG()
	scored := []scoredIndividual{
		{module: &Module{Result: newVarLeaf("x")}, fitness: 0},
		{module: &Module{Result: newNumLeaf(1)}, fitness: 1},
	}
	// k larger than the population is clamped.
	child := tournament(rng, scored, 10)
	if child == nil {
		t.Fatal("tournament returned nil")
	}
	// Both parents are single leaves, so the crossover's result is the
	// graft cut from the second-best parent: one of the sampled leaves.
	if child.Result != scored[0].module.Result && child.Result != scored[1].module.Result {
		t.Fatal("tournament result is not a crossover of sampled individuals")
	}
}

func TestTournamentSingleIndividual(t *testing.T) {
	rng := testRNG()
	scored := []scoredIndividual{{module: &Module{Result: newVarLeaf("x")}, fitness: 0}}
	child := tournament(rng, scored, 3)
	if child == nil {
		t.Fatal("tournament returned nil for a singleton population")
	}
}

// TestGenStepZeroFitnessExitsImmediately is scenario S1: a constant
// zero fitness function must make genStep report done=true with
// best_fitness = 0 after the first evaluation.
func TestGenStepZeroFitnessExitsImmediately(t *testing.T) {
	rng := testRNG()
	cfg := &effectiveGenConfig{
		terminals:     []Symbol{"x"},
		numbers:       []float64{1, 2},
		functions:     FunctionSet{{ID: "+", Arity: 2}, {ID: "*", Arity: 2}},
		maxDepth:      3,
		mutationDepth: 2,
	}
	pop, err := newPopulation(rng, cfg, 4)
	if err != nil {
		t.Fatalf("newPopulation: %v", err)
	}
	opts := baseValidOptions()
	opts.Fitness = func(*Module) float64 { return 0 }
	reported := map[*Module]bool{}

	_, best, bestFitness, done, err := genStep(rng, pop, opts, cfg, nil, 0, reported)
	if err != nil {
		t.Fatalf("genStep: %v", err)
	}
	if !done {
		t.Fatal("genStep did not report done on constant-zero fitness")
	}
	if bestFitness != 0 {
		t.Fatalf("bestFitness = %v, want 0", bestFitness)
	}
	if best == nil {
		t.Fatal("genStep returned nil best on done")
	}
}

// TestGenStepHeightFitnessBounded is scenario S2: fitness = height(t)
// must keep best_fitness within max_depth.
func TestGenStepHeightFitnessBounded(t *testing.T) {
	rng := testRNG()
	cfg := &effectiveGenConfig{
		terminals:     []Symbol{"x"},
		numbers:       []float64{1, 2},
		functions:     FunctionSet{{ID: "+", Arity: 2}, {ID: "*", Arity: 2}},
		maxDepth:      3,
		mutationDepth: 2,
	}
	pop, err := newPopulation(rng, cfg, 4)
	if err != nil {
		t.Fatalf("newPopulation: %v", err)
	}
	opts := baseValidOptions()
	opts.MaxDepth = 3
	opts.Fitness = func(m *Module) float64 { return float64(Height(m.Result)) }

	reported := map[*Module]bool{}
	_, _, bestFitness, _, err := genStep(rng, pop, opts, cfg, nil, 0, reported)
	if err != nil {
		t.Fatalf("genStep: %v", err)
	}
	if bestFitness > 3 {
		t.Fatalf("bestFitness = %v, want <= 3", bestFitness)
	}
}

func TestGenerationsMonotoneNonIncreasing(t *testing.T) {
	rng := testRNG()
	cfg := &effectiveGenConfig{
		terminals:     []Symbol{"x"},
		numbers:       []float64{1, 2, 3},
		functions:     FunctionSet{{ID: "+", Arity: 2}, {ID: "-", Arity: 2}, {ID: "*", Arity: 2}},
		maxDepth:      4,
		mutationDepth: 3,
	}
	pop, err := newPopulation(rng, cfg, 20)
	if err != nil {
		t.Fatalf("newPopulation: %v", err)
	}
	opts := baseValidOptions()
	opts.MaxDepth = 4
	opts.TournamentSize = 3
	opts.MutationProbability = 0.3
	opts.MutationDepth = 3
	opts.Fitness = func(m *Module) float64 { return math.Abs(evalArith(m.Result, 3) - 27) }

	seen := math.Inf(1)
	_, _, _, err = func() ([]*Module, *Module, float64, error) {
		var best *Module
		var bestFitness float64
		var cur = pop
		for i := 0; i < 8; i++ {
			next, genBest, genBestFitness, done, gErr := genStep(rng, cur, opts, cfg, best, bestFitness, map[*Module]bool{})
			if gErr != nil {
				return nil, nil, 0, gErr
			}
			cur = next
			if best == nil || genBestFitness < bestFitness {
				best, bestFitness = genBest, genBestFitness
			}
			if bestFitness > seen {
				t.Fatalf("best_fitness increased: %v -> %v", seen, bestFitness)
			}
			seen = bestFitness
			if done {
				break
			}
		}
		return cur, best, bestFitness, nil
	}()
	if err != nil {
		t.Fatalf("genStep loop: %v", err)
	}
}

// evalArith evaluates a tree built only from +, -, * over a single
// variable x bound to v; used only by tests to drive a real fitness
// landscape.
func evalArith(t *Tree, x float64) float64 {
	if t.IsNum() {
		return t.Num()
	}
	if t.IsVar() {
		return x
	}
	a := evalArith(t.Children[0], x)
	b := evalArith(t.Children[1], x)
	switch t.Op() {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	default:
		return 0
	}
}
