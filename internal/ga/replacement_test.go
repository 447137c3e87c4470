package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursetable/ga-engine/internal/domain"
)

// tagged builds a one-gene chromosome whose EventID is the given tag, so
// tests can identify individuals after Replace reorders them.
func tagged(tag string) *Chromosome {
	return &Chromosome{Genes: []Gene{{EventID: domain.EventID(tag)}}}
}

func TestReplaceKeepsTopEliteThenFillsFromOffspring(t *testing.T) {
	pop := Population{tagged("worst"), tagged("best"), tagged("middle")}
	fitnesses := []FitnessResult{
		{IsFeasible: true, Total: 3}, // worst
		{IsFeasible: true, Total: 1}, // best
		{IsFeasible: true, Total: 2}, // middle
	}
	offspring := Population{tagged("child1"), tagged("child2")}

	next, err := Replace(pop, fitnesses, offspring, 1, 3)
	require.NoError(t, err)
	require.Len(t, next, 3)

	assert.Equal(t, domain.EventID("best"), next[0].Genes[0].EventID, "the single elite slot must carry the best-ranked original individual")
	assert.Equal(t, domain.EventID("child1"), next[1].Genes[0].EventID)
	assert.Equal(t, domain.EventID("child2"), next[2].Genes[0].EventID)
}

func TestReplaceClonesElitesRatherThanAliasing(t *testing.T) {
	pop := Population{tagged("only")}
	fitnesses := []FitnessResult{{IsFeasible: true, Total: 1}}
	offspring := Population{}

	next, err := Replace(pop, fitnesses, offspring, 1, 1)
	require.NoError(t, err)
	require.Len(t, next, 1)

	next[0].Genes[0].EventID = "mutated"
	assert.Equal(t, domain.EventID("only"), pop[0].Genes[0].EventID, "Replace must clone elites, not alias the original population")
}

func TestReplaceErrorsWhenOffspringTooSmall(t *testing.T) {
	pop := Population{tagged("a"), tagged("b")}
	fitnesses := []FitnessResult{
		{IsFeasible: true, Total: 1},
		{IsFeasible: true, Total: 2},
	}
	offspring := Population{}

	_, err := Replace(pop, fitnesses, offspring, 0, 3)
	assert.Error(t, err)
}

func TestReplaceErrorsOnPopulationFitnessLengthMismatch(t *testing.T) {
	pop := Population{tagged("a"), tagged("b")}
	fitnesses := []FitnessResult{{IsFeasible: true, Total: 1}}

	_, err := Replace(pop, fitnesses, Population{}, 0, 2)
	assert.Error(t, err)
}
