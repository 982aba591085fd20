package fungp

import "math/rand/v2"

// BuildMode selects the tree-construction strategy.
type BuildMode int

const (
	// Grow may stop early at any level >= depthMin.
	Grow BuildMode = iota
	// Fill always reaches depthMax.
	Fill
)

// buildSet bundles the terminal/number/function sets a single build
// call draws from. It is rebuilt per ADF branch to add argument
// symbols and lower-indexed ADF callables.
type buildSet struct {
	terminals []Symbol
	numbers   []float64
	functions FunctionSet
}

// buildTree grows a random tree bounded by depthMax, never shallower
// than depthMin under Grow mode.
func buildTree(rng *rand.Rand, depthMax, depthMin int, bs buildSet, mode BuildMode) (*Tree, error) {
	if len(bs.functions) == 0 && depthMax > 0 {
		return nil, invalidConfig("function set empty with depth_max > 0")
	}
	if len(bs.terminals) == 0 && len(bs.numbers) == 0 {
		return nil, invalidConfig("terminals and numbers cannot both be empty")
	}

	if depthMax == 0 {
		return randomTerminal(rng, bs), nil
	}

	if mode == Grow && depthMin <= 0 {
		if rng.Float64() < 0.5 {
			return randomTerminal(rng, bs), nil
		}
	}

	op := bs.functions[rng.IntN(len(bs.functions))]
	children := make([]*Tree, op.Arity)
	for i := 0; i < op.Arity; i++ {
		child, err := buildTree(rng, depthMax-1, depthMin-1, bs, mode)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return newApp(op.ID, children), nil
}

// randomTerminal picks a random leaf: half the time a variable,
// otherwise a number if any are configured, falling back to a
// variable when the number list is empty (and vice versa).
func randomTerminal(rng *rand.Rand, bs buildSet) *Tree {
	if len(bs.terminals) == 0 {
		return newNumLeaf(bs.numbers[rng.IntN(len(bs.numbers))])
	}
	if len(bs.numbers) == 0 {
		return newVarLeaf(bs.terminals[rng.IntN(len(bs.terminals))])
	}
	if rng.Float64() < 0.5 {
		return newVarLeaf(bs.terminals[rng.IntN(len(bs.terminals))])
	}
	return newNumLeaf(bs.numbers[rng.IntN(len(bs.numbers))])
}

func argSymbol(i int) Symbol {
	const digits = "0123456789"
	if i < 10 {
		return Symbol("arg" + string(digits[i]))
	}
	return Symbol("arg" + itoa(i))
}

func adfName(i int) Symbol { return Symbol("adf" + itoa(i)) }
func adlName(i int) Symbol { return Symbol("adl" + itoa(i)) }

// itoa is a tiny non-negative-integer formatter so this file has no
// strconv dependency for what is, in practice, always a small index.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// createModuleTree builds the let-envelope around a freshly grown
// result body, synthesizing adfCount function branches (each callable
// only by lower-indexed ADFs, preventing recursion cycles) and
// adlCount loop branches.
func createModuleTree(rng *rand.Rand, cfg *effectiveGenConfig, d int, mode BuildMode) (*Module, error) {
	branches := make([]Branch, 0, cfg.adfCount+cfg.adlCount)

	// ADF branches: index i may call adf_0..adf_{i-1} only (DAG, no cycles).
	for i := 0; i < cfg.adfCount; i++ {
		params := make([]Symbol, cfg.adfArity)
		for p := range params {
			params[p] = argSymbol(p)
		}
		bodyTerminals := append(append([]Symbol{}, cfg.terminals...), params...)
		bodyFunctions := append(FunctionSet{}, cfg.functions...)
		for j := 0; j < i; j++ {
			bodyFunctions = append(bodyFunctions, Operator{ID: adfName(j), Arity: cfg.adfArity})
		}
		body, err := buildTree(rng, d, d, buildSet{terminals: bodyTerminals, numbers: cfg.numbers, functions: bodyFunctions}, mode)
		if err != nil {
			return nil, err
		}
		branches = append(branches, Branch{Kind: BranchADF, Name: adfName(i), Params: params, Body: body})
	}

	// ADL branches: four independent body trees plus a fixed iteration limit.
	for i := 0; i < cfg.adlCount; i++ {
		var loops [4]*Tree
		for k := 0; k < 4; k++ {
			body, err := buildTree(rng, d, d, buildSet{terminals: cfg.terminals, numbers: cfg.numbers, functions: cfg.functions}, mode)
			if err != nil {
				return nil, err
			}
			loops[k] = body
		}
		branches = append(branches, Branch{Kind: BranchADL, Name: adlName(i), Loops: loops, Limit: cfg.adlLimit})
	}

	// Result body: original terminals + ADL result symbols, original
	// functions + all ADF callable references.
	resultTerminals := append([]Symbol{}, cfg.terminals...)
	resultFunctions := append(FunctionSet{}, cfg.functions...)
	for i := 0; i < cfg.adlCount; i++ {
		resultTerminals = append(resultTerminals, adlName(i))
	}
	for i := 0; i < cfg.adfCount; i++ {
		resultFunctions = append(resultFunctions, Operator{ID: adfName(i), Arity: cfg.adfArity})
	}

	result, err := buildTree(rng, d, d, buildSet{terminals: resultTerminals, numbers: cfg.numbers, functions: resultFunctions}, mode)
	if err != nil {
		return nil, err
	}

	return &Module{Branches: branches, Result: result}, nil
}

// effectiveGenConfig is the subset of Options the builder/surgery/
// variation layers need, extracted once per Run so every island shares
// the same immutable view.
type effectiveGenConfig struct {
	terminals []Symbol
	numbers   []float64
	functions FunctionSet

	maxDepth      int
	mutationDepth int

	adfCount int
	adfArity int
	adlCount int
	adlLimit int
}

func newEffectiveGenConfig(o Options) *effectiveGenConfig {
	return &effectiveGenConfig{
		terminals:     o.Terminals,
		numbers:       o.Numbers,
		functions:     o.Functions,
		maxDepth:      o.MaxDepth,
		mutationDepth: o.MutationDepth,
		adfCount:      o.ADFCount,
		adfArity:      o.ADFArity,
		adlCount:      o.ADLCount,
		adlLimit:      o.ADLLimit,
	}
}

func (cfg *effectiveGenConfig) baseBuildSet() buildSet {
	return buildSet{terminals: cfg.terminals, numbers: cfg.numbers, functions: cfg.functions}
}

// newIndividual creates one ramped-half-and-half individual, wrapped
// in ADF/ADL branches when configured.
func newIndividual(rng *rand.Rand, cfg *effectiveGenConfig) (*Module, error) {
	d := 1 + rng.IntN(cfg.mutationDepth)
	mode := Grow
	if rng.Float64() < 0.5 {
		mode = Fill
	}

	if cfg.adfCount == 0 && cfg.adlCount == 0 {
		t, err := buildTree(rng, d, d, cfg.baseBuildSet(), mode)
		if err != nil {
			return nil, err
		}
		return &Module{Result: t}, nil
	}

	return createModuleTree(rng, cfg, d, mode)
}

// newPopulation creates a population of size P via ramped half-and-half.
func newPopulation(rng *rand.Rand, cfg *effectiveGenConfig, size int) ([]*Module, error) {
	pop := make([]*Module, size)
	for i := range pop {
		ind, err := newIndividual(rng, cfg)
		if err != nil {
			return nil, err
		}
		pop[i] = ind
	}
	return pop, nil
}
