package ga

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coursetable/ga-engine/internal/domain"
	"github.com/coursetable/ga-engine/internal/gaerrors"
)

// messageType tags the island worker protocol of spec §4.12.
type messageType string

const (
	msgInit      messageType = "init"
	msgEvolve    messageType = "evolve"
	msgGetBest   messageType = "get_best"
	msgMigrate   messageType = "migrate"
	msgTerminate messageType = "terminate"
)

// workerMessage is sent from the coordinator to a single island worker.
// Generations carries the evolve batch size (the migration_interval);
// EmigrantCount carries the requested migration_size for a get_best
// message; Immigrants carries incoming migrants for a migrate message.
type workerMessage struct {
	Type          messageType
	Generations   int
	EmigrantCount int
	Immigrants    Population
	Reply         chan workerReply
}

// workerReply is the worker's response to a workerMessage.
type workerReply struct {
	Stats      []GenerationStats
	Best       *Chromosome
	BestResult FitnessResult
	Emigrants  Population
	Done       bool
	Err        error
}

// islandWorker runs one population in its own goroutine, driven entirely
// by messages on inbox (spec §4.12's tagged worker protocol).
type islandWorker struct {
	id     int
	driver *Driver
	inbox  chan workerMessage
	logger *zap.Logger
}

func newIslandWorker(id int, idx *domain.InputData, cfg GAConfig, logger *zap.Logger) (*islandWorker, error) {
	d, err := NewDriver(idx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &islandWorker{
		id:     id,
		driver: d,
		inbox:  make(chan workerMessage),
		logger: logger,
	}, nil
}

// run is the worker's message loop. It exits when it processes a
// terminate message or the context is cancelled.
func (w *islandWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-w.inbox:
			if !ok {
				return
			}
			reply := w.handle(msg)
			if msg.Reply != nil {
				msg.Reply <- reply
			}
			if msg.Type == msgTerminate {
				return
			}
		}
	}
}

func (w *islandWorker) handle(msg workerMessage) workerReply {
	switch msg.Type {
	case msgInit:
		w.driver.Seed()
		return workerReply{
			Best:       w.driver.BestChromosome(),
			BestResult: w.driver.BestFitnessResult(),
		}

	case msgEvolve:
		var stats []GenerationStats
		for i := 0; i < msg.Generations; i++ {
			gen, err := w.driver.step()
			if err != nil {
				return workerReply{Err: gaerrors.Wrap(gaerrors.WorkerFailure, "island evolve failed", err)}
			}
			stats = append(stats, gen)
			w.driver.generation++
			if w.driver.shouldStop() {
				return workerReply{
					Stats:      stats,
					Best:       w.driver.BestChromosome(),
					BestResult: w.driver.BestFitnessResult(),
					Done:       true,
				}
			}
		}
		return workerReply{
			Stats:      stats,
			Best:       w.driver.BestChromosome(),
			BestResult: w.driver.BestFitnessResult(),
		}

	case msgGetBest:
		n := msg.EmigrantCount
		if n < 1 {
			n = 1
		}
		return workerReply{
			Best:       w.driver.BestChromosome(),
			BestResult: w.driver.BestFitnessResult(),
			Emigrants:  w.driver.Emigrants(n),
		}

	case msgMigrate:
		emigrants := w.driver.Emigrants(len(msg.Immigrants))
		w.driver.AcceptImmigrants(msg.Immigrants)
		return workerReply{
			Emigrants:  emigrants,
			Best:       w.driver.BestChromosome(),
			BestResult: w.driver.BestFitnessResult(),
		}

	case msgTerminate:
		return workerReply{
			Best:       w.driver.BestChromosome(),
			BestResult: w.driver.BestFitnessResult(),
		}

	default:
		return workerReply{Err: gaerrors.New(gaerrors.WorkerFailure, "unrecognized worker message type")}
	}
}

// IslandRunner coordinates MultiThread.NumIslands concurrent populations
// in a ring migration topology, per spec §4.12.
type IslandRunner struct {
	idx    *domain.InputData
	cfg    GAConfig
	logger *zap.Logger
}

// NewIslandRunner validates cfg and returns a ready IslandRunner.
func NewIslandRunner(idx *domain.InputData, cfg GAConfig, logger *zap.Logger) (*IslandRunner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IslandRunner{idx: idx, cfg: cfg, logger: logger}, nil
}

// Run launches NumIslands workers, steps them in MigrationInterval-sized
// batches, exchanges migrants on a ring topology between batches, and
// returns the best individual found across all islands (spec §4.12).
//
// Each island is seeded with its own derived random seed so runs stay
// reproducible when RandomSeed is set, while islands do not share an
// RNG stream.
func (r *IslandRunner) Run(ctx context.Context, onProgress ProgressFunc) (GAResult, error) {
	start := time.Now()
	n := r.cfg.MultiThread.NumIslands
	if n == 1 {
		d, err := NewDriver(r.idx, r.cfg, r.logger)
		if err != nil {
			return GAResult{}, err
		}
		return d.Run(onProgress)
	}

	runID := uuid.New()
	workers := make([]*islandWorker, n)
	for i := 0; i < n; i++ {
		islandCfg := r.cfg
		if r.cfg.RandomSeed != nil {
			seed := *r.cfg.RandomSeed + int64(i)
			islandCfg.RandomSeed = &seed
		}
		w, err := newIslandWorker(i, r.idx, islandCfg, r.logger.With(zap.Int("island", i)))
		if err != nil {
			return GAResult{}, err
		}
		w.driver.runID = runID
		workers[i] = w
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w := w
		group.Go(func() error {
			w.run(groupCtx)
			return nil
		})
	}
	defer group.Wait() //nolint:errcheck // workers never return an error; terminateAll/ctx cancellation always unblocks them

	send := func(w *islandWorker, msg workerMessage) (workerReply, error) {
		reply := make(chan workerReply, 1)
		msg.Reply = reply
		select {
		case w.inbox <- msg:
		case <-groupCtx.Done():
			return workerReply{}, groupCtx.Err()
		}
		select {
		case rep := <-reply:
			return rep, rep.Err
		case <-groupCtx.Done():
			return workerReply{}, groupCtx.Err()
		}
	}

	for _, w := range workers {
		if _, err := send(w, workerMessage{Type: msgInit}); err != nil {
			terminateAll(workers, send)
			return GAResult{}, err
		}
	}

	var allStats []GenerationStats
	done := false
	generationsRun := 0

	for generationsRun < r.cfg.MaxGenerations && !done {
		batch := r.cfg.MultiThread.MigrationInterval
		if generationsRun+batch > r.cfg.MaxGenerations {
			batch = r.cfg.MaxGenerations - generationsRun
		}

		anyDone := false
		for _, w := range workers {
			rep, err := send(w, workerMessage{Type: msgEvolve, Generations: batch})
			if err != nil {
				terminateAll(workers, send)
				return GAResult{}, err
			}
			allStats = append(allStats, rep.Stats...)
			if rep.Done {
				anyDone = true
			}
			if onProgress != nil {
				for _, gen := range rep.Stats {
					if signal := onProgress(gen); signal.Cancel {
						// bestOf sends terminate to every worker itself.
						return r.bestOf(workers, send, allStats, start, true)
					}
				}
			}
		}
		generationsRun += batch

		if anyDone {
			done = true
			break
		}

		migrateRing(workers, send, r.cfg.MultiThread.MigrationSize)
	}

	return r.bestOf(workers, send, allStats, start, false)
}

// migrateRing exchanges MigrationSize best individuals from island i to
// island (i+1)%n, implementing the ring topology of spec §4.12.
func migrateRing(workers []*islandWorker, send func(*islandWorker, workerMessage) (workerReply, error), size int) {
	n := len(workers)
	if n < 2 || size < 1 {
		return
	}

	emigrants := make([]Population, n)
	for i, w := range workers {
		rep, err := send(w, workerMessage{Type: msgGetBest, EmigrantCount: size})
		if err != nil || len(rep.Emigrants) == 0 {
			continue
		}
		emigrants[i] = rep.Emigrants
	}

	for i, w := range workers {
		from := (i - 1 + n) % n
		if emigrants[from] == nil {
			continue
		}
		_, _ = send(w, workerMessage{Type: msgMigrate, Immigrants: emigrants[from]})
	}
}

func terminateAll(workers []*islandWorker, send func(*islandWorker, workerMessage) (workerReply, error)) {
	for _, w := range workers {
		_, _ = send(w, workerMessage{Type: msgTerminate})
	}
}

func (r *IslandRunner) bestOf(workers []*islandWorker, send func(*islandWorker, workerMessage) (workerReply, error), stats []GenerationStats, start time.Time, cancelled bool) (GAResult, error) {
	var best *Chromosome
	var bestResult FitnessResult
	for _, w := range workers {
		rep, err := send(w, workerMessage{Type: msgTerminate})
		if err != nil {
			continue
		}
		if rep.Best == nil {
			continue
		}
		if best == nil || Better(rep.BestResult, bestResult) {
			best = rep.Best
			bestResult = rep.BestResult
		}
	}
	return GAResult{
		RunID:          workers[0].driver.RunID(),
		BestChromosome: best,
		BestFitness:    bestResult,
		Stats:          stats,
		TotalTime:      time.Since(start),
		Cancelled:      cancelled,
	}, nil
}
