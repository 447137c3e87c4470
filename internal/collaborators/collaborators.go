// Package collaborators defines the boundary interfaces the engine is
// consumed through. Persistence and transport are out of scope for this
// module (spec §1); callers wire their own database, file, or RPC
// implementation behind these interfaces.
package collaborators

import (
	"context"

	"github.com/coursetable/ga-engine/internal/domain"
	"github.com/coursetable/ga-engine/internal/ga"
)

// InputLoader resolves a Snapshot for a scheduling run from wherever the
// caller's orchestration layer stores it (a database, a file, an
// upstream service).
type InputLoader interface {
	LoadSnapshot(ctx context.Context, runID string) (domain.Snapshot, error)
}

// ResultSink persists a completed run's result. Implementations decide
// how (and whether) to serialize the winning chromosome.
type ResultSink interface {
	StoreResult(ctx context.Context, runID string, result ga.GAResult) error
}

// ProgressSink receives GenerationStats as a run progresses, for
// implementations that stream progress to an external system (a
// websocket, a job queue, a metrics backend) instead of reading
// ga.ProgressFunc synchronously.
type ProgressSink interface {
	PushProgress(ctx context.Context, runID string, stats ga.GenerationStats) error
}
