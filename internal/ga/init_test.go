package ga

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomInitProducesValidChromosome(t *testing.T) {
	idx := buildTestIndex(t)
	rng := rand.New(rand.NewSource(11))
	c := RandomInit(idx, rng)
	require.NoError(t, c.ValidateInvariants(idx))
}

func TestRandomInitRespectsLockedSlots(t *testing.T) {
	idx := buildTestIndex(t)
	rng := rand.New(rand.NewSource(11))
	c := RandomInit(idx, rng)

	for _, g := range c.Genes {
		if g.EventID == "mathLec-evt0" {
			assert.True(t, g.IsLocked)
			assert.Equal(t, idx.LockedAssignments["mathLec-evt0"], g.StartSlotID)
		}
	}
}

func TestHeuristicInitProducesValidChromosome(t *testing.T) {
	idx := buildTestIndex(t)
	rng := rand.New(rand.NewSource(11))
	c := HeuristicInit(idx, rng)
	require.NoError(t, c.ValidateInvariants(idx))
}

func TestHeuristicInitPrefersConflictFreePlacement(t *testing.T) {
	idx := buildTestIndex(t)
	rng := rand.New(rand.NewSource(5))
	c := HeuristicInit(idx, rng)

	result := Evaluate(idx, c, DefaultConstraintWeights())
	assert.True(t, result.IsFeasible, "heuristic init on an uncontested 6-slot/4-event problem should find a feasible placement")
}

func TestInitializePopulationHonorsRatioAndSize(t *testing.T) {
	idx := buildTestIndex(t)
	rng := rand.New(rand.NewSource(2))
	cfg := testGAConfig()
	cfg.PopulationSize = 10
	cfg.HeuristicInitRatio = 0.3

	pop := InitializePopulation(idx, cfg, rng)
	assert.Len(t, pop, 10)
	for _, c := range pop {
		require.NoError(t, c.ValidateInvariants(idx))
	}
}
