package fungp

import "math/rand/v2"

// randSubtree picks a random descendant of t, drawing a depth budget n
// from uniform[0, height(t)] and walking that far down.
func randSubtree(rng *rand.Rand, t *Tree) *Tree {
	h := Height(t)
	n := 0
	if h > 0 {
		n = rng.IntN(h + 1)
	}
	return randSubtreeN(rng, t, n)
}

// randSubtreeN performs a random descending walk from t. It
// deliberately does not select uniformly over nodes: the walk stops at
// a leaf, at a node with no children, or once n reaches 0, otherwise it
// descends into one uniformly chosen child with a fresh n' drawn from
// uniform[0, n) — a bias toward shallow cuts (including the root)
// that keeps variation from always diving to the deepest fringe.
func randSubtreeN(rng *rand.Rand, t *Tree, n int) *Tree {
	if t.leaf || len(t.Children) == 0 || n == 0 {
		return t
	}
	child := t.Children[rng.IntN(len(t.Children))]
	nPrime := 0
	if n > 0 {
		nPrime = rng.IntN(n)
	}
	return randSubtreeN(rng, child, nPrime)
}

// replaceSubtree splices s into t at a random descendant position,
// mirroring randSubtree's depth-budget draw.
func replaceSubtree(rng *rand.Rand, t, s *Tree) *Tree {
	h := Height(t)
	n := 0
	if h > 0 {
		n = rng.IntN(h + 1)
	}
	return replaceSubtreeN(rng, t, s, n)
}

// replaceSubtreeN reconstructs t along the same random descending path
// rand_subtree would take, splicing s in at the stopping point.
func replaceSubtreeN(rng *rand.Rand, t, s *Tree, n int) *Tree {
	if t.leaf || len(t.Children) == 0 || n == 0 {
		return s
	}
	r := rng.IntN(len(t.Children))
	nPrime := 0
	if n > 0 {
		nPrime = rng.IntN(n)
	}
	newChildren := make([]*Tree, len(t.Children))
	copy(newChildren, t.Children)
	newChildren[r] = replaceSubtreeN(rng, t.Children[r], s, nPrime)
	return newApp(t.op, newChildren)
}

// maxTruncateIterations bounds truncate's retry loop; exceeding it can
// only happen if a leaf somehow reports height != 0, an invariant
// violation the core surfaces distinctly rather than looping forever.
const maxTruncateIterations = 10000

// truncate repeatedly replaces t with a random sub-tree of itself
// until its height no longer exceeds h.
func truncate(rng *rand.Rand, t *Tree, h int) (*Tree, error) {
	for i := 0; Height(t) > h; i++ {
		if i >= maxTruncateIterations {
			return nil, unreachable("truncate did not converge to height %d", h)
		}
		t = randSubtree(rng, t)
	}
	return t, nil
}

// truncateModule truncates each branch body and the result body
// independently, preserving the envelope (names, params, ADL limits
// untouched).
func truncateModule(rng *rand.Rand, m *Module, h int) (*Module, error) {
	branches := make([]Branch, len(m.Branches))
	for i, b := range m.Branches {
		nb := b
		switch b.Kind {
		case BranchADF:
			body, err := truncate(rng, b.Body, h)
			if err != nil {
				return nil, err
			}
			nb.Body = body
		case BranchADL:
			for k := 0; k < 4; k++ {
				loop, err := truncate(rng, b.Loops[k], h)
				if err != nil {
					return nil, err
				}
				nb.Loops[k] = loop
			}
		}
		branches[i] = nb
	}
	result, err := truncate(rng, m.Result, h)
	if err != nil {
		return nil, err
	}
	return &Module{Branches: branches, Result: result}, nil
}
