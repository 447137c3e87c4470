package ga

import (
	"fmt"
	"sort"
)

// indexed pairs a chromosome with its fitness for sorting without losing
// the original Population ordering.
type indexed struct {
	chromosome *Chromosome
	fitness    FitnessResult
}

// Replace composes the next generation per spec §4.10: sort the current
// population under the hierarchical comparator, keep the top eliteCount,
// then fill the rest from offspring in order.
func Replace(population Population, fitnesses []FitnessResult, offspring Population, eliteCount, populationSize int) (Population, error) {
	if len(population) != len(fitnesses) {
		return nil, fmt.Errorf("ga: population/fitness length mismatch: %d vs %d", len(population), len(fitnesses))
	}

	ranked := make([]indexed, len(population))
	for i := range population {
		ranked[i] = indexed{chromosome: population[i], fitness: fitnesses[i]}
	}
	sortIndexedByFitness(ranked)

	next := make(Population, 0, populationSize)
	for i := 0; i < eliteCount && i < len(ranked); i++ {
		next = append(next, ranked[i].chromosome.Clone())
	}

	for i := 0; i < len(offspring) && len(next) < populationSize; i++ {
		next = append(next, offspring[i])
	}

	if len(next) < populationSize {
		return nil, fmt.Errorf("ga: replacement produced %d individuals, want %d (offspring too small)", len(next), populationSize)
	}
	return next, nil
}

// sortIndexedByFitness sorts ranked best-first under the hierarchical
// comparator, shared by Replace, Emigrants and AcceptImmigrants.
func sortIndexedByFitness(ranked []indexed) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return Better(ranked[i].fitness, ranked[j].fitness)
	})
}
