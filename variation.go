package fungp

import "math/rand/v2"

// mutationKind enumerates the three flavors mutateTree weighs equally.
type mutationKind int

const (
	mutateSubtreeGrow mutationKind = iota
	mutatePointToTerminal
	mutateLift
)

// mutateTree applies, with probability p, one of the three mutation
// kinds chosen uniformly; otherwise it returns t unchanged.
func mutateTree(rng *rand.Rand, t *Tree, p float64, dMut int, bs buildSet) (*Tree, error) {
	if rng.Float64() >= p {
		return t, nil
	}

	switch mutationKind(rng.IntN(3)) {
	case mutateSubtreeGrow:
		grown, err := buildTree(rng, dMut, dMut, bs, Grow)
		if err != nil {
			return nil, err
		}
		return replaceSubtree(rng, t, grown), nil
	case mutatePointToTerminal:
		return replaceSubtree(rng, t, randomTerminal(rng, bs)), nil
	default: // mutateLift
		return randSubtree(rng, t), nil
	}
}

// crossover is strictly asymmetric: the child inherits t1's skeleton
// with a graft cut from t2.
func crossover(rng *rand.Rand, t1, t2 *Tree) *Tree {
	return replaceSubtree(rng, t1, randSubtree(rng, t2))
}

// mutateModule is branch-preserving: with probability 1/2 (or always,
// if there are no branches) it mutates the result body; otherwise it
// mutates a uniformly chosen branch, leaving names, parameter vectors,
// and loop limits untouched.
func mutateModule(rng *rand.Rand, m *Module, p float64, dMut int, cfg *effectiveGenConfig) (*Module, error) {
	if len(m.Branches) == 0 || rng.Float64() < 0.5 {
		result, err := mutateTree(rng, m.Result, p, dMut, resultBuildSet(cfg))
		if err != nil {
			return nil, err
		}
		branches := make([]Branch, len(m.Branches))
		copy(branches, m.Branches)
		return &Module{Branches: branches, Result: result}, nil
	}

	idx := rng.IntN(len(m.Branches))
	branches := make([]Branch, len(m.Branches))
	copy(branches, m.Branches)
	b := branches[idx]

	switch b.Kind {
	case BranchADF:
		body, err := mutateTree(rng, b.Body, p, dMut, adfBuildSet(cfg, idx, branches))
		if err != nil {
			return nil, err
		}
		b.Body = body
	case BranchADL:
		for k := 0; k < 4; k++ {
			loop, err := mutateTree(rng, b.Loops[k], p, dMut, cfg.baseBuildSet())
			if err != nil {
				return nil, err
			}
			b.Loops[k] = loop
		}
	}
	branches[idx] = b

	return &Module{Branches: branches, Result: m.Result}, nil
}

// crossoverModule is branch-preserving: with probability 1/2 (or
// always, if there are no branches) it crosses the result body;
// otherwise it swaps a single, uniformly chosen branch slot. For an
// ADF branch the body trees are crossed; for an ADL branch each of the
// four body slots is crossed independently. The loop limit and branch
// identifier are retained from the first parent.
func crossoverModule(rng *rand.Rand, m1, m2 *Module) *Module {
	if len(m1.Branches) == 0 || rng.Float64() < 0.5 {
		result := crossover(rng, m1.Result, m2.Result)
		branches := make([]Branch, len(m1.Branches))
		copy(branches, m1.Branches)
		return &Module{Branches: branches, Result: result}
	}

	idx := rng.IntN(len(m1.Branches))
	branches := make([]Branch, len(m1.Branches))
	copy(branches, m1.Branches)
	b1, b2 := branches[idx], m2.Branches[idx]

	switch b1.Kind {
	case BranchADF:
		b1.Body = crossover(rng, b1.Body, b2.Body)
	case BranchADL:
		for k := 0; k < 4; k++ {
			b1.Loops[k] = crossover(rng, b1.Loops[k], b2.Loops[k])
		}
	}
	branches[idx] = b1

	return &Module{Branches: branches, Result: m1.Result}
}

// resultBuildSet recreates the augmented terminal/function sets the
// result body was originally grown over: original terminals plus ADL
// result symbols, original functions plus all ADF callables.
func resultBuildSet(cfg *effectiveGenConfig) buildSet {
	terminals := append([]Symbol{}, cfg.terminals...)
	functions := append(FunctionSet{}, cfg.functions...)
	for i := 0; i < cfg.adlCount; i++ {
		terminals = append(terminals, adlName(i))
	}
	for i := 0; i < cfg.adfCount; i++ {
		functions = append(functions, Operator{ID: adfName(i), Arity: cfg.adfArity})
	}
	return buildSet{terminals: terminals, numbers: cfg.numbers, functions: functions}
}

// adfBuildSet recreates branch idx's augmented terminal/function sets:
// the branch's own parameter vector plus callables to every
// lower-indexed ADF branch.
func adfBuildSet(cfg *effectiveGenConfig, idx int, branches []Branch) buildSet {
	terminals := append(append([]Symbol{}, cfg.terminals...), branches[idx].Params...)
	functions := append(FunctionSet{}, cfg.functions...)
	for j := 0; j < idx; j++ {
		if branches[j].Kind == BranchADF {
			functions = append(functions, Operator{ID: branches[j].Name, Arity: cfg.adfArity})
		}
	}
	return buildSet{terminals: terminals, numbers: cfg.numbers, functions: functions}
}
