package fungp

import (
	"math/rand/v2"
	"testing"
)

func TestCrossoverPreservesArities(t *testing.T) {
	rng := testRNG()
	fs := FunctionSet{{ID: "+", Arity: 2}, {ID: "-", Arity: 2}, {ID: "*", Arity: 2}}
	t1 := sampleTree()
	t2 := newApp("-", []*Tree{newVarLeaf("x"), newApp("*", []*Tree{newNumLeaf(3), newVarLeaf("x")})})
	for i := 0; i < 50; i++ {
		child := crossover(rng, t1, t2)
		checkArities(t, child, fs)
	}
}

// TestCrossoverDeterministic is scenario S5: the same seed and the same
// (t1, t2) pair must produce a bit-exact output across calls.
func TestCrossoverDeterministic(t *testing.T) {
	t1 := sampleTree()
	t2 := newApp("-", []*Tree{newVarLeaf("x"), newNumLeaf(5)})

	rngA := rand.New(rand.NewPCG(7, 9))
	rngB := rand.New(rand.NewPCG(7, 9))

	outA := crossover(rngA, t1, t2)
	outB := crossover(rngB, t1, t2)
	if !Equal(outA, outB) {
		t.Fatal("crossover is not deterministic for identical seed and inputs")
	}
}

// TestMutateTreeNullOp is scenario S6: mutation_probability = 0 must
// leave the tree structurally unchanged.
func TestMutateTreeNullOp(t *testing.T) {
	rng := testRNG()
	bs := buildSet{terminals: []Symbol{"x"}, numbers: []float64{1}, functions: FunctionSet{{ID: "+", Arity: 2}}}
	orig := sampleTree()
	out, err := mutateTree(rng, orig, 0, 2, bs)
	if err != nil {
		t.Fatalf("mutateTree: %v", err)
	}
	if !Equal(orig, out) {
		t.Fatal("mutateTree with p=0 altered the tree")
	}
}

func TestMutateModuleNullOp(t *testing.T) {
	rng := testRNG()
	cfg := &effectiveGenConfig{
		terminals: []Symbol{"x"},
		numbers:   []float64{1},
		functions: FunctionSet{{ID: "+", Arity: 2}},
		adfCount:  1,
		adfArity:  1,
	}
	m := &Module{
		Branches: []Branch{{Kind: BranchADF, Name: "adf0", Params: []Symbol{"arg0"}, Body: sampleTree()}},
		Result:   newApp("adf0", []*Tree{newVarLeaf("x")}),
	}
	out, err := mutateModule(rng, m, 0, 2, cfg)
	if err != nil {
		t.Fatalf("mutateModule: %v", err)
	}
	if !EqualModule(m, out) {
		t.Fatal("mutateModule with p=0 altered the module")
	}
}

func TestCrossoverModulePreservesBranchIdentity(t *testing.T) {
	rng := testRNG()
	m1 := &Module{
		Branches: []Branch{{Kind: BranchADF, Name: "adf0", Params: []Symbol{"arg0"}, Body: sampleTree()}},
		Result:   newApp("adf0", []*Tree{newVarLeaf("x")}),
	}
	m2 := &Module{
		Branches: []Branch{{Kind: BranchADF, Name: "adf0", Params: []Symbol{"arg0"}, Body: newVarLeaf("arg0")}},
		Result:   newApp("adf0", []*Tree{newNumLeaf(2)}),
	}
	for i := 0; i < 50; i++ {
		child := crossoverModule(rng, m1, m2)
		if len(child.Branches) != 1 || child.Branches[0].Name != "adf0" || child.Branches[0].Kind != BranchADF {
			t.Fatal("crossoverModule altered the branch envelope")
		}
		if len(child.Branches[0].Params) != 1 || child.Branches[0].Params[0] != "arg0" {
			t.Fatal("crossoverModule altered the parameter vector")
		}
	}
}

func TestADLMutationPreservesLimitAndName(t *testing.T) {
	rng := testRNG()
	cfg := &effectiveGenConfig{
		terminals: []Symbol{"x"},
		numbers:   []float64{1},
		functions: FunctionSet{{ID: "+", Arity: 2}},
		adlCount:  1,
		adlLimit:  25,
	}
	var loops [4]*Tree
	for i := range loops {
		loops[i] = newVarLeaf("x")
	}
	m := &Module{
		Branches: []Branch{{Kind: BranchADL, Name: "adl0", Loops: loops, Limit: 25}},
		Result:   newVarLeaf("adl0"),
	}
	out, err := mutateModule(rng, m, 1, 2, cfg)
	if err != nil {
		t.Fatalf("mutateModule: %v", err)
	}
	if out.Branches[0].Name != "adl0" || out.Branches[0].Limit != 25 {
		t.Fatal("mutateModule altered ADL branch name or limit")
	}
}
