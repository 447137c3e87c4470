package ga

import (
	"time"

	"github.com/google/uuid"
)

// GenerationStats is emitted once per generation (spec §6). RunID
// correlates the batch with the GAResult it belongs to, for callers
// that stream stats to an external system (e.g. collaborators.ProgressSink).
type GenerationStats struct {
	RunID           uuid.UUID
	Generation      int
	BestFitness     float64
	BestHardPenalty float64
	BestSoftPenalty float64
	IsFeasible      bool
	AvgFitness      float64
	Stagnation      int
}

// ProgressSignal is returned by an on_progress callback. Cancel requests
// the driver stop and return the best-so-far (spec §4.11 step 6, §7
// Cancelled).
type ProgressSignal struct {
	Cancel bool
}

// ProgressFunc is the cooperative suspension point the driver calls once
// per generation, after replacement/evaluation and before termination
// checks (spec §5).
type ProgressFunc func(GenerationStats) ProgressSignal

// GAResult is the top-level output of a driver run (spec §6). RunID
// identifies this run for correlation with an external orchestration
// layer (spec §1 out-of-scope persistence).
type GAResult struct {
	RunID          uuid.UUID
	BestChromosome *Chromosome
	BestFitness    FitnessResult
	Stats          []GenerationStats
	TotalTime      time.Duration
	Cancelled      bool
}
