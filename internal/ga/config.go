package ga

import (
	"fmt"
	"time"

	"github.com/coursetable/ga-engine/internal/gaerrors"
)

// MigrationStrategy tags how the island coordinator picks migrants. Only
// "best" is implemented; the others are reserved config (spec §4.12).
type MigrationStrategy string

const (
	MigrationBest    MigrationStrategy = "best"
	MigrationRandom  MigrationStrategy = "random"
	MigrationDiverse MigrationStrategy = "diverse"
)

// MultiThreadConfig configures the island-parallel driver (spec §4.12, §6).
type MultiThreadConfig struct {
	NumIslands        int
	MigrationInterval int
	MigrationSize     int
	MigrationStrategy MigrationStrategy
}

// ConstraintWeights carries the hard base weight, per-kind soft weights and
// the threshold/option fields referenced by the soft constraints (spec
// §4.3 Aggregation, §6).
type ConstraintWeights struct {
	HardBase float64

	Idle               float64
	ConsecutivePref    float64
	TeacherDaily       float64
	TeacherWeekly      float64
	ExcessiveDaily     float64
	EmptyDay           float64
	FilledDay          float64
	MultiLate          float64
	DeprioritizedDay   float64
	DeprioritizedSlot  float64
	DeprioritizedDaySlot float64
	Distribution       float64

	MinLecturesPerDay              int
	MaxLecturesPerDay              int
	MultiDurationPreferredFraction float64

	DeprioritizedDays        map[int]struct{}
	DeprioritizedSlotNumbers map[int]struct{}
	DeprioritizedDaySlots    map[[2]int]struct{}
}

// DefaultConstraintWeights returns the typical defaults listed in spec
// §4.3 Aggregation.
func DefaultConstraintWeights() ConstraintWeights {
	return ConstraintWeights{
		HardBase:             1000,
		Idle:                 5,
		ConsecutivePref:      8,
		TeacherDaily:         10,
		TeacherWeekly:        15,
		ExcessiveDaily:       6,
		EmptyDay:             4,
		FilledDay:            4,
		MultiLate:            5,
		DeprioritizedDay:     3,
		DeprioritizedSlot:    2,
		DeprioritizedDaySlot: 5,
		Distribution:         5,
		MinLecturesPerDay:    1,
		MaxLecturesPerDay:    0,
	}
}

// GAConfig is the full set of recognized engine options (spec §6).
type GAConfig struct {
	PopulationSize        int
	EliteCount            int
	HeuristicInitRatio    float64
	CrossoverProbability  float64
	MutationProbability   float64
	SwapMutationRatio     float64
	TournamentSize        int
	MaxGenerations        int
	MaxStagnantGenerations int
	TargetFitness         float64
	MaxExecutionTime      time.Duration
	EnableRepair          bool
	StopOnFeasible        bool
	RandomSeed            *int64

	ConstraintWeights ConstraintWeights
	MultiThread       MultiThreadConfig
}

// DefaultGAConfig returns a single-island configuration with the typical
// defaults from spec §4.3/§6.
func DefaultGAConfig() GAConfig {
	return GAConfig{
		PopulationSize:         100,
		EliteCount:             4,
		HeuristicInitRatio:     0.5,
		CrossoverProbability:   0.8,
		MutationProbability:    0.2,
		SwapMutationRatio:      0.5,
		TournamentSize:         5,
		MaxGenerations:         500,
		MaxStagnantGenerations: 50,
		TargetFitness:          1.0,
		MaxExecutionTime:       60 * time.Second,
		EnableRepair:           true,
		StopOnFeasible:         true,
		ConstraintWeights:      DefaultConstraintWeights(),
		MultiThread: MultiThreadConfig{
			NumIslands:        1,
			MigrationInterval: 10,
			MigrationSize:     2,
			MigrationStrategy: MigrationBest,
		},
	}
}

// Validate rejects any configuration value outside the bounds of spec §6,
// returning a gaerrors.InvalidConfig error.
func (c GAConfig) Validate() error {
	fail := func(format string, args ...any) error {
		return gaerrors.New(gaerrors.InvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.PopulationSize < 10 {
		return fail("population_size must be >= 10, got %d", c.PopulationSize)
	}
	if c.EliteCount < 0 || c.EliteCount >= c.PopulationSize {
		return fail("elite_count must be in [0, population_size), got %d", c.EliteCount)
	}
	if c.HeuristicInitRatio < 0 || c.HeuristicInitRatio > 1 {
		return fail("heuristic_init_ratio must be in [0, 1], got %f", c.HeuristicInitRatio)
	}
	if c.CrossoverProbability < 0 || c.CrossoverProbability > 1 {
		return fail("crossover_probability must be in [0, 1], got %f", c.CrossoverProbability)
	}
	if c.MutationProbability < 0 || c.MutationProbability > 1 {
		return fail("mutation_probability must be in [0, 1], got %f", c.MutationProbability)
	}
	if c.SwapMutationRatio < 0 || c.SwapMutationRatio > 1 {
		return fail("swap_mutation_ratio must be in [0, 1], got %f", c.SwapMutationRatio)
	}
	if c.TournamentSize < 2 {
		return fail("tournament_size must be >= 2, got %d", c.TournamentSize)
	}
	if c.TournamentSize > c.PopulationSize {
		return fail("tournament_size (%d) must be <= population_size (%d)", c.TournamentSize, c.PopulationSize)
	}
	if c.MaxGenerations < 1 {
		return fail("max_generations must be >= 1, got %d", c.MaxGenerations)
	}
	if c.MaxStagnantGenerations < 1 {
		return fail("max_stagnant_generations must be >= 1, got %d", c.MaxStagnantGenerations)
	}
	if c.TargetFitness < 0 || c.TargetFitness > 1 {
		return fail("target_fitness must be in [0, 1], got %f", c.TargetFitness)
	}
	if c.MaxExecutionTime < time.Second {
		return fail("max_execution_time_ms must be >= 1000, got %s", c.MaxExecutionTime)
	}
	if c.MultiThread.NumIslands < 1 {
		return fail("multi_thread_config.num_islands must be >= 1, got %d", c.MultiThread.NumIslands)
	}
	if c.MultiThread.MigrationInterval < 1 {
		return fail("multi_thread_config.migration_interval must be >= 1, got %d", c.MultiThread.MigrationInterval)
	}
	if c.MultiThread.MigrationSize < 1 {
		return fail("multi_thread_config.migration_size must be >= 1, got %d", c.MultiThread.MigrationSize)
	}
	switch c.MultiThread.MigrationStrategy {
	case MigrationBest, MigrationRandom, MigrationDiverse, "":
	default:
		return fail("multi_thread_config.migration_strategy %q is not recognized", c.MultiThread.MigrationStrategy)
	}
	return nil
}
