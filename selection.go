package fungp

import (
	"math"
	"math/rand/v2"
	"sort"
)

// scoredIndividual pairs a module with its evaluated fitness.
type scoredIndividual struct {
	module  *Module
	fitness float64
}

// scoreGeneration evaluates fitness once per distinct individual
// (pointer identity) in pop, caching nothing across generations. A
// panicking fitness callback is treated as +Inf for that tree and
// reported at most once per offending tree via reported, which the
// caller owns for the duration of one migration round.
func scoreGeneration(pop []*Module, fitness FitnessFunc, report ReportFunc, reported map[*Module]bool) []scoredIndividual {
	cache := make(map[*Module]float64, len(pop))
	scored := make([]scoredIndividual, len(pop))

	for i, ind := range pop {
		f, ok := cache[ind]
		if !ok {
			f = evalFitness(ind, fitness, report, reported)
			cache[ind] = f
		}
		scored[i] = scoredIndividual{module: ind, fitness: f}
	}
	return scored
}

func evalFitness(ind *Module, fitness FitnessFunc, report ReportFunc, reported map[*Module]bool) (f float64) {
	defer func() {
		if r := recover(); r != nil {
			f = math.Inf(1)
			if report != nil && !reported[ind] {
				reported[ind] = true
				report(ind, math.Inf(1))
			}
		}
	}()
	return fitness(ind)
}

// tournament samples k individuals uniformly with replacement, sorts
// ascending by fitness, and returns the crossover of the best and
// second-best.
func tournament(rng *rand.Rand, scored []scoredIndividual, k int) *Module {
	if k > len(scored) {
		k = len(scored)
	}
	if k < 1 {
		k = 1
	}

	sample := make([]scoredIndividual, k)
	for i := 0; i < k; i++ {
		sample[i] = scored[rng.IntN(len(scored))]
	}
	sort.Slice(sample, func(i, j int) bool { return sample[i].fitness < sample[j].fitness })

	best := sample[0]
	second := sample[0]
	if len(sample) > 1 {
		second = sample[1]
	}
	return crossoverModule(rng, best.module, second.module)
}

// genStep runs one generation: score, check for a perfect individual,
// then tournament-select, mutate, truncate, and elitize into the next
// population.
func genStep(rng *rand.Rand, pop []*Module, opts Options, cfg *effectiveGenConfig, inheritedBest *Module, inheritedBestFitness float64, reported map[*Module]bool) (newPop []*Module, bestTree *Module, bestFitness float64, done bool, err error) {
	scored := scoreGeneration(pop, opts.Fitness, opts.Report, reported)

	bestTree, bestFitness = scored[0].module, scored[0].fitness
	for _, s := range scored[1:] {
		if s.fitness < bestFitness {
			bestTree, bestFitness = s.module, s.fitness
		}
	}
	if bestFitness == 0 {
		return pop, bestTree, bestFitness, true, nil
	}

	next := make([]*Module, len(pop))
	for i := range next {
		child := tournament(rng, scored, opts.TournamentSize)
		child, err = mutateModule(rng, child, opts.MutationProbability, opts.MutationDepth, cfg)
		if err != nil {
			return nil, nil, 0, false, err
		}
		child, err = truncateModule(rng, child, opts.MaxDepth)
		if err != nil {
			return nil, nil, 0, false, err
		}
		next[i] = child
	}

	elite, eliteFitness := bestTree, bestFitness
	if inheritedBest != nil && inheritedBestFitness < eliteFitness {
		elite, eliteFitness = inheritedBest, inheritedBestFitness
	}
	next[0] = elite
	if eliteFitness < bestFitness {
		bestTree, bestFitness = elite, eliteFitness
	}

	return next, bestTree, bestFitness, false, nil
}

// generations repeats genStep up to n times, returning early the
// moment a zero-fitness individual is found.
func generations(rng *rand.Rand, n int, pop []*Module, opts Options, cfg *effectiveGenConfig, inheritedBest *Module, inheritedBestFitness float64) ([]*Module, *Module, float64, error) {
	reported := make(map[*Module]bool)

	bestTree, bestFitness := inheritedBest, inheritedBestFitness
	for i := 0; i < n; i++ {
		next, genBest, genBestFitness, done, err := genStep(rng, pop, opts, cfg, bestTree, bestFitness, reported)
		if err != nil {
			return nil, nil, 0, err
		}
		pop = next
		if bestTree == nil || genBestFitness < bestFitness {
			bestTree, bestFitness = genBest, genBestFitness
		}
		if done {
			break
		}
	}
	return pop, bestTree, bestFitness, nil
}
