package ga

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTournamentSelectReturnsTheBestAmongSampled(t *testing.T) {
	fitnesses := []FitnessResult{
		{IsFeasible: true, SoftPenalty: 10, Total: 10},
		{IsFeasible: true, SoftPenalty: 1, Total: 1},
		{IsFeasible: false, Total: 1000},
	}
	rng := rand.New(rand.NewSource(1))

	winner := TournamentSelect(fitnesses, 3, rng)
	assert.Equal(t, 1, winner, "index 1 has the lowest soft penalty among feasible individuals")
}

func TestTournamentSelectClampsKToPopulationSize(t *testing.T) {
	fitnesses := []FitnessResult{
		{IsFeasible: true, Total: 1},
		{IsFeasible: true, Total: 2},
	}
	rng := rand.New(rand.NewSource(1))

	// k larger than the population must not panic or go out of range.
	winner := TournamentSelect(fitnesses, 10, rng)
	assert.Contains(t, []int{0, 1}, winner)
}

func TestSelectParentsReturnsRequestedCount(t *testing.T) {
	fitnesses := []FitnessResult{
		{IsFeasible: true, Total: 1},
		{IsFeasible: true, Total: 2},
		{IsFeasible: true, Total: 3},
	}
	rng := rand.New(rand.NewSource(4))

	parents := SelectParents(fitnesses, 2, 20, rng)
	assert.Len(t, parents, 20)
	for _, p := range parents {
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, len(fitnesses))
	}
}
