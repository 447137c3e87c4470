package ga

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coursetable/ga-engine/internal/domain"
	"github.com/coursetable/ga-engine/internal/gaerrors"
)

// Driver runs the single-threaded generational loop of spec §4.11.
type Driver struct {
	idx    *domain.InputData
	cfg    GAConfig
	rng    *rand.Rand
	cache  *FitnessCache
	logger *zap.Logger
	runID  uuid.UUID

	population Population
	fitnesses  []FitnessResult
	generation int
	stagnation int

	bestChromosome *Chromosome
	bestFitness    FitnessResult
}

// NewDriver validates cfg and builds a Driver ready to Run. A nil logger is
// replaced with a no-op logger.
func NewDriver(idx *domain.InputData, cfg GAConfig, logger *zap.Logger) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := time.Now().UnixNano()
	if cfg.RandomSeed != nil {
		seed = *cfg.RandomSeed
	}
	rng := rand.New(rand.NewSource(seed))

	cacheCapacity := cfg.PopulationSize * 2
	return &Driver{
		idx:    idx,
		cfg:    cfg,
		rng:    rng,
		cache:  NewFitnessCache(cacheCapacity),
		logger: logger,
		runID:  uuid.New(),
	}, nil
}

// Seed initializes the population and its fitnesses. Run calls this
// automatically; island workers call it directly during the "init"
// protocol message (spec §4.12).
func (d *Driver) Seed() {
	d.population = InitializePopulation(d.idx, d.cfg, d.rng)
	d.fitnesses = d.evaluatePopulation(d.population)
	d.updateBest()
}

// Run executes the generational loop until termination, per spec §4.11
// step 6, and returns the accumulated GAResult.
func (d *Driver) Run(onProgress ProgressFunc) (GAResult, error) {
	start := time.Now()
	d.Seed()

	var stats []GenerationStats
	cancelled := false

	for d.generation = 0; d.generation < d.cfg.MaxGenerations; d.generation++ {
		if time.Since(start) > d.cfg.MaxExecutionTime {
			break
		}

		gen, err := d.step()
		if err != nil {
			return GAResult{}, err
		}
		stats = append(stats, gen)

		if onProgress != nil {
			if signal := onProgress(gen); signal.Cancel {
				cancelled = true
				break
			}
		}

		if d.shouldStop() {
			break
		}
	}

	return GAResult{
		RunID:          d.runID,
		BestChromosome: d.bestChromosome,
		BestFitness:    d.bestFitness,
		Stats:          stats,
		TotalTime:      time.Since(start),
		Cancelled:      cancelled,
	}, nil
}

// step runs exactly one generation: select, pair, crossover, mutate,
// replace, evaluate, update the running best, and emit GenerationStats
// (spec §4.11 steps 1-5). Callers decide termination separately via
// shouldStop so that island workers can run fixed-size batches between
// migration checkpoints.
func (d *Driver) step() (GenerationStats, error) {
	parentIdx := SelectParents(d.fitnesses, d.cfg.TournamentSize, d.cfg.PopulationSize, d.rng)

	offspring := make(Population, 0, d.cfg.PopulationSize)
	for i := 0; i < len(parentIdx); i += 2 {
		p1 := d.population[parentIdx[i]]
		var p2 *Chromosome
		if i+1 < len(parentIdx) {
			p2 = d.population[parentIdx[i+1]]
		} else {
			p2 = d.population[parentIdx[0]]
		}

		child1, child2, err := Crossover(d.idx, p1, p2, d.cfg.CrossoverProbability, d.cfg.EnableRepair, d.rng)
		if err != nil {
			return GenerationStats{}, gaerrors.Wrap(gaerrors.InvariantViolation, "crossover failed", err)
		}
		child1 = Mutate(d.idx, child1, d.cfg.MutationProbability, d.cfg.SwapMutationRatio, d.rng)
		child2 = Mutate(d.idx, child2, d.cfg.MutationProbability, d.cfg.SwapMutationRatio, d.rng)

		offspring = append(offspring, child1)
		if len(offspring) < d.cfg.PopulationSize {
			offspring = append(offspring, child2)
		}
	}
	if len(offspring) > d.cfg.PopulationSize {
		offspring = offspring[:d.cfg.PopulationSize]
	}

	next, err := Replace(d.population, d.fitnesses, offspring, d.cfg.EliteCount, d.cfg.PopulationSize)
	if err != nil {
		return GenerationStats{}, gaerrors.Wrap(gaerrors.InvariantViolation, "replacement failed", err)
	}
	d.population = next
	d.fitnesses = d.evaluatePopulation(d.population)

	improved := d.updateBest()
	if improved {
		d.stagnation = 0
	} else {
		d.stagnation++
	}

	gen := GenerationStats{
		RunID:           d.runID,
		Generation:      d.generation,
		BestFitness:     d.bestFitness.Fitness,
		BestHardPenalty: d.bestFitness.HardPenalty,
		BestSoftPenalty: d.bestFitness.SoftPenalty,
		IsFeasible:      d.bestFitness.IsFeasible,
		AvgFitness:      d.averageFitness(),
		Stagnation:      d.stagnation,
	}

	d.logger.Debug("generation complete",
		zap.Int("generation", d.generation),
		zap.Float64("best_fitness", gen.BestFitness),
		zap.Bool("feasible", gen.IsFeasible),
		zap.Int("stagnation", gen.Stagnation),
	)
	return gen, nil
}

// shouldStop reports whether the stagnation, stop-on-feasible or
// target-fitness termination conditions of spec §4.11 step 6 now hold.
func (d *Driver) shouldStop() bool {
	if d.stagnation >= d.cfg.MaxStagnantGenerations {
		d.logger.Info("stopping: stagnation limit reached", zap.Int("stagnation", d.stagnation))
		return true
	}
	if d.cfg.StopOnFeasible && d.bestFitness.IsFeasible {
		d.logger.Info("stopping: feasible solution found", zap.Int("generation", d.generation))
		return true
	}
	if d.bestFitness.Fitness >= d.cfg.TargetFitness {
		d.logger.Info("stopping: target fitness reached", zap.Float64("fitness", d.bestFitness.Fitness))
		return true
	}
	return false
}

// BestChromosome returns the running best individual found so far.
func (d *Driver) BestChromosome() *Chromosome { return d.bestChromosome }

// BestFitnessResult returns the fitness of BestChromosome.
func (d *Driver) BestFitnessResult() FitnessResult { return d.bestFitness }

// Generation returns the index of the last completed generation.
func (d *Driver) Generation() int { return d.generation }

// RunID returns this driver's run identifier.
func (d *Driver) RunID() uuid.UUID { return d.runID }

// CacheHitRate returns the fitness cache's current hit ratio.
func (d *Driver) CacheHitRate() float64 { return d.cache.HitRate() }

// Emigrants returns clones of the n best individuals in the current
// population, ranked by the hierarchical comparator (spec §4.12,
// migration_strategy "best").
func (d *Driver) Emigrants(n int) Population {
	ranked := make([]indexed, len(d.population))
	for i := range d.population {
		ranked[i] = indexed{chromosome: d.population[i], fitness: d.fitnesses[i]}
	}
	sortIndexedByFitness(ranked)

	if n > len(ranked) {
		n = len(ranked)
	}
	out := make(Population, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].chromosome.Clone()
	}
	return out
}

// AcceptImmigrants replaces the worst len(immigrants) individuals in the
// current population with immigrants, then re-evaluates, per the ring
// migration of spec §4.12. Locked genes in immigrants are unaffected;
// they arrive as ordinary chromosomes produced by another island.
func (d *Driver) AcceptImmigrants(immigrants Population) {
	if len(immigrants) == 0 {
		return
	}
	ranked := make([]indexed, len(d.population))
	for i := range d.population {
		ranked[i] = indexed{chromosome: d.population[i], fitness: d.fitnesses[i]}
	}
	sortIndexedByFitness(ranked)

	replaceFrom := len(ranked) - len(immigrants)
	if replaceFrom < 0 {
		replaceFrom = 0
	}
	newPopulation := make(Population, 0, len(d.population))
	for i := 0; i < replaceFrom; i++ {
		newPopulation = append(newPopulation, ranked[i].chromosome)
	}
	for _, imm := range immigrants {
		if len(newPopulation) >= len(d.population) {
			break
		}
		newPopulation = append(newPopulation, imm)
	}
	d.population = newPopulation
	d.fitnesses = d.evaluatePopulation(d.population)
	d.updateBest()
}

func (d *Driver) evaluatePopulation(pop Population) []FitnessResult {
	out := make([]FitnessResult, len(pop))
	for i, c := range pop {
		out[i] = EvaluateCached(d.idx, d.cache, d.cfg.ConstraintWeights, c)
	}
	return out
}

func (d *Driver) averageFitness() float64 {
	if len(d.fitnesses) == 0 {
		return 0
	}
	var sum float64
	for _, f := range d.fitnesses {
		sum += f.Fitness
	}
	return sum / float64(len(d.fitnesses))
}

// updateBest scans the current population for an individual strictly
// better than the running best, per the hierarchical comparator. Returns
// true if the running best was updated.
func (d *Driver) updateBest() bool {
	improved := false
	for i, f := range d.fitnesses {
		if d.bestChromosome == nil || Better(f, d.bestFitness) {
			d.bestChromosome = d.population[i].Clone()
			d.bestFitness = f
			improved = true
		}
	}
	return improved
}
