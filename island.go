package fungp

import (
	"math/rand/v2"
	"sync"
)

// island bundles one population with its own independent random
// source and the best individual it has carried forward across
// migration rounds.
type island struct {
	rng         *rand.Rand
	pop         []*Module
	bestTree    *Module
	bestFitness float64
}

func newIslandRNG(seed uint64, index int) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	// Island i is seeded from the master seed plus its index so a fixed
	// master seed reproduces the same N-island run.
	return rand.New(rand.NewPCG(seed, seed+uint64(index)+1))
}

// islandCrossover performs one migration round: each island loses one
// random individual and gains one from another island, population size
// preserved. One individual is drawn uniformly at random from each
// island, and island i receives the one drawn from island i+1 (the
// last island receives island 0's) — every island both contributes and
// receives exactly once, and never receives its own contribution (see
// DESIGN.md for the reasoning).
func islandCrossover(islands []*island) {
	n := len(islands)
	if n < 2 {
		return
	}

	picks := make([]*Module, n)
	for i, isl := range islands {
		picks[i] = isl.pop[isl.rng.IntN(len(isl.pop))]
	}

	for i, isl := range islands {
		incoming := picks[(i+1)%n]
		isl.rng.Shuffle(len(isl.pop), func(a, b int) { isl.pop[a], isl.pop[b] = isl.pop[b], isl.pop[a] })
		next := make([]*Module, 0, len(isl.pop))
		next = append(next, incoming)
		next = append(next, isl.pop[1:]...)
		isl.pop = next
	}
}

// Run is the engine's primary entry point: it validates Options,
// builds N island populations, and drives the island model until the
// migration/iteration budget is exhausted or a perfect individual is
// found.
func Run(opts Options) (finalIslands [][]*Module, bestTree *Module, bestFitness float64, err error) {
	eff, err := opts.Validate()
	if err != nil {
		return nil, nil, 0, err
	}
	cfg := newEffectiveGenConfig(eff)

	islands := make([]*island, eff.NumIslands)
	for i := range islands {
		rng := newIslandRNG(eff.Seed, i)
		pop, err := newPopulation(rng, cfg, eff.PopulationSize)
		if err != nil {
			return nil, nil, 0, err
		}
		islands[i] = &island{rng: rng, pop: pop}
	}

	for round := 0; round < eff.Migrations; round++ {
		if cancelled(eff.Cancel) {
			break
		}

		if len(islands) > 1 {
			islandCrossover(islands)
		}

		if err := runIslandsParallel(islands, eff, cfg); err != nil {
			return nil, nil, 0, err
		}

		for _, isl := range islands {
			if bestTree == nil || isl.bestFitness < bestFitness {
				bestTree, bestFitness = isl.bestTree, isl.bestFitness
			}
		}

		eff.Report(bestTree, bestFitness)

		if bestFitness == 0 {
			break
		}
	}

	finalIslands = make([][]*Module, len(islands))
	for i, isl := range islands {
		finalIslands[i] = isl.pop
	}
	return finalIslands, bestTree, bestFitness, nil
}

// runIslandsParallel runs generations(iterations, ...) on every island
// concurrently, each island executing a purely sequential generations
// loop. One goroutine per island is adequate here because the island
// count IS the unit of parallelism; no further gating is needed since
// NumIslands is caller-bounded.
func runIslandsParallel(islands []*island, opts Options, cfg *effectiveGenConfig) error {
	var wg sync.WaitGroup
	errs := make([]error, len(islands))

	for i, isl := range islands {
		wg.Add(1)
		go func(i int, isl *island) {
			defer wg.Done()
			pop, best, bestFitness, err := generations(isl.rng, opts.Iterations, isl.pop, opts, cfg, isl.bestTree, isl.bestFitness)
			if err != nil {
				errs[i] = err
				return
			}
			isl.pop = pop
			isl.bestTree = best
			isl.bestFitness = bestFitness
		}(i, isl)
	}
	wg.Wait()

	// Invariant violations inside a single island's loop (a
	// non-converging truncation) are implementation bugs;
	// surface the first one rather than silently discarding it.
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func cancelled(ch <-chan struct{}) bool {
	if ch == nil {
		return false
	}
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
