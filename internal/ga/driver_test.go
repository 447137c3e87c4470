package ga

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDriverRejectsInvalidConfig(t *testing.T) {
	idx := buildTestIndex(t)
	cfg := testGAConfig()
	cfg.PopulationSize = 1 // below the minimum of 10

	_, err := NewDriver(idx, cfg, nil)
	assert.Error(t, err)
}

func TestDriverSeedPopulatesFitnessesAndBest(t *testing.T) {
	idx := buildTestIndex(t)
	d, err := NewDriver(idx, testGAConfig(), nil)
	require.NoError(t, err)

	d.Seed()
	assert.Len(t, d.population, d.cfg.PopulationSize)
	assert.Len(t, d.fitnesses, d.cfg.PopulationSize)
	assert.NotNil(t, d.BestChromosome())
}

func TestDriverRunStopsOnStagnation(t *testing.T) {
	idx := buildTestIndex(t)
	cfg := testGAConfig()
	cfg.MaxGenerations = 200
	cfg.MaxStagnantGenerations = 2
	cfg.StopOnFeasible = false
	cfg.TargetFitness = 1.0 // max allowed; only reachable with a perfect score

	d, err := NewDriver(idx, cfg, nil)
	require.NoError(t, err)

	result, err := d.Run(nil)
	require.NoError(t, err)
	assert.Less(t, d.Generation(), cfg.MaxGenerations)
	assert.False(t, result.Cancelled)
}

func TestDriverRunStopsOnFeasible(t *testing.T) {
	idx := buildTestIndex(t)
	cfg := testGAConfig()
	cfg.MaxGenerations = 200
	cfg.StopOnFeasible = true

	d, err := NewDriver(idx, cfg, nil)
	require.NoError(t, err)

	result, err := d.Run(nil)
	require.NoError(t, err)
	// This fixture problem (4 events, 6 slots) is easily satisfiable.
	assert.True(t, result.BestFitness.IsFeasible)
}

func TestDriverRunHonorsOnProgressCancellation(t *testing.T) {
	idx := buildTestIndex(t)
	cfg := testGAConfig()
	cfg.MaxGenerations = 200
	cfg.StopOnFeasible = false
	cfg.TargetFitness = 1.0

	d, err := NewDriver(idx, cfg, nil)
	require.NoError(t, err)

	calls := 0
	result, err := d.Run(func(GenerationStats) ProgressSignal {
		calls++
		return ProgressSignal{Cancel: calls >= 2}
	})
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.Equal(t, 2, calls)
}

func TestDriverRunRespectsMaxExecutionTime(t *testing.T) {
	idx := buildTestIndex(t)
	cfg := testGAConfig()
	cfg.MaxGenerations = 1_000_000
	cfg.StopOnFeasible = false
	cfg.TargetFitness = 1.0
	cfg.MaxStagnantGenerations = 1_000_000
	cfg.MaxExecutionTime = time.Second

	d, err := NewDriver(idx, cfg, nil)
	require.NoError(t, err)

	start := time.Now()
	_, err = d.Run(nil)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDriverEmigrantsReturnsBestRanked(t *testing.T) {
	idx := buildTestIndex(t)
	d, err := NewDriver(idx, testGAConfig(), nil)
	require.NoError(t, err)
	d.Seed()

	emigrants := d.Emigrants(2)
	require.Len(t, emigrants, 2)

	// Emigrants must be clones: mutating one must not affect the driver's
	// own population.
	originalSlot := d.population[0].Genes[0].StartSlotID
	emigrants[0].Genes[0].StartSlotID = "mutated"
	assert.Equal(t, originalSlot, d.population[0].Genes[0].StartSlotID)
}

func TestDriverAcceptImmigrantsReplacesWorstIndividuals(t *testing.T) {
	idx := buildTestIndex(t)
	d, err := NewDriver(idx, testGAConfig(), nil)
	require.NoError(t, err)
	d.Seed()

	before := len(d.population)
	immigrant := RandomInit(idx, d.rng)
	d.AcceptImmigrants(Population{immigrant})

	assert.Len(t, d.population, before)
	assert.Len(t, d.fitnesses, before)
	assert.Contains(t, d.population, immigrant)
}

func TestDriverRunIDIsStableAcrossGenerations(t *testing.T) {
	idx := buildTestIndex(t)
	d, err := NewDriver(idx, testGAConfig(), nil)
	require.NoError(t, err)

	result, err := d.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, d.RunID(), result.RunID)
	for _, stat := range result.Stats {
		assert.Equal(t, d.RunID(), stat.RunID)
	}
}
