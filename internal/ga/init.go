package ga

import (
	"math/rand"
	"sort"

	"github.com/coursetable/ga-engine/internal/domain"
)

// InitializePopulation builds a Population of size cfg.PopulationSize, per
// spec §4.5: heuristic_init_ratio*P chromosomes via the greedy
// most-constrained-first heuristic, the remainder random, then the whole
// population is Fisher-Yates shuffled.
func InitializePopulation(idx *domain.InputData, cfg GAConfig, rng *rand.Rand) Population {
	total := cfg.PopulationSize
	heuristicCount := int(float64(total) * cfg.HeuristicInitRatio)
	if heuristicCount > total {
		heuristicCount = total
	}

	pop := make(Population, 0, total)
	for i := 0; i < heuristicCount; i++ {
		pop = append(pop, HeuristicInit(idx, rng))
	}
	for i := heuristicCount; i < total; i++ {
		pop = append(pop, RandomInit(idx, rng))
	}

	rng.Shuffle(len(pop), func(i, j int) { pop[i], pop[j] = pop[j], pop[i] })
	return pop
}

// RandomInit builds one chromosome by picking a uniformly random slot for
// every unlocked event and the locked slot for locked events, per spec
// §4.5 "Random construction".
func RandomInit(idx *domain.InputData, rng *rand.Rand) *Chromosome {
	c := NewChromosome(len(idx.EventIDs))
	posByEvent := make(map[domain.EventID]int, len(idx.EventIDs))
	for i, e := range idx.EventIDs {
		posByEvent[e] = i
	}
	slotIDs := allSlotIDs(idx)

	for _, lec := range idx.Snapshot.Lectures {
		for occurrence := 0; occurrence < lec.Count; occurrence++ {
			events := idx.OccurrenceEventsFor(lec.ID, occurrence)
			if lockedStart, isLocked := idx.LockedAssignments[events[0]]; isLocked {
				block, ok := idx.ConsecutiveBlock(lockedStart, lec.Duration)
				if !ok {
					block = []domain.SlotID{lockedStart}
					for len(block) < lec.Duration {
						block = append(block, lockedStart)
					}
				}
				for i, evt := range events {
					c.Genes[posByEvent[evt]] = Gene{
						EventID:     evt,
						LectureID:   lec.ID,
						StartSlotID: block[i],
						IsLocked:    true,
						Duration:    lec.Duration,
					}
				}
				continue
			}

			for _, evt := range events {
				start := slotIDs[rng.Intn(len(slotIDs))]
				c.Genes[posByEvent[evt]] = Gene{
					EventID:     evt,
					LectureID:   lec.ID,
					StartSlotID: start,
					IsLocked:    false,
					Duration:    lec.Duration,
				}
			}
		}
	}
	return c
}

func allSlotIDs(idx *domain.InputData) []domain.SlotID {
	ids := make([]domain.SlotID, 0, len(idx.Snapshot.Slots))
	for _, s := range idx.Snapshot.Slots {
		ids = append(ids, s.ID)
	}
	return ids
}

// rankedEvent is one event/occurrence ranked for the greedy heuristic.
type rankedEvent struct {
	lecture    domain.Lecture
	occurrence int
	locked     bool
}

// HeuristicInit builds one chromosome by the greedy most-constrained-first
// heuristic of spec §4.5: locked occurrences first, then longer durations
// first; each occurrence is placed via the OccupancyTracker's
// conflict-free block ranking, falling back to the first (possibly
// conflicting) block when none is conflict-free.
func HeuristicInit(idx *domain.InputData, rng *rand.Rand) *Chromosome {
	c := NewChromosome(len(idx.EventIDs))
	posByEvent := make(map[domain.EventID]int, len(idx.EventIDs))
	for i, e := range idx.EventIDs {
		posByEvent[e] = i
	}

	ranked := rankOccurrences(idx)
	tracker := domain.NewOccupancyTracker(idx)
	blocksByDuration := map[int][][]domain.SlotID{}

	for _, r := range ranked {
		lec := r.lecture
		events := idx.OccurrenceEventsFor(lec.ID, r.occurrence)

		var block []domain.SlotID
		placed := false

		if r.locked {
			headLocked := idx.LockedAssignments[events[0]]
			if candidate, ok := idx.ConsecutiveBlock(headLocked, lec.Duration); ok {
				report := tracker.CheckBlockConflicts(lec, candidate)
				_ = report // locked placement proceeds regardless of conflicts;
				// repair cannot move it later (HC9), so we place it as-is and
				// let the evaluator/repair deal with any other clash it causes.
				block = candidate
				placed = true
			}
			// If the locked slot can't even form a consecutive block (bad
			// input data), fall through to heuristic placement below so the
			// chromosome stays structurally valid; HC9 will flag the
			// resulting mismatch.
		}

		if !placed {
			allBlocks, ok := blocksByDuration[lec.Duration]
			if !ok {
				allBlocks = idx.AllBlocksOfLength(lec.Duration)
				blocksByDuration[lec.Duration] = allBlocks
			}
			valid := tracker.FindValidBlocks(lec, allBlocks)
			switch {
			case len(valid) > 0:
				block = valid[0].Slots
			case len(allBlocks) > 0:
				block = allBlocks[0]
			default:
				// No block of this duration exists at all; place every
				// event of the occurrence on one random slot and let
				// repair/evaluator report the resulting violations.
				block = []domain.SlotID{allSlotIDs(idx)[rng.Intn(len(allSlotIDs(idx)))]}
				for len(block) < lec.Duration {
					block = append(block, block[len(block)-1])
				}
			}
		}

		for i, evt := range events {
			start := block[0]
			if i < len(block) {
				start = block[i]
			}
			c.Genes[posByEvent[evt]] = Gene{
				EventID:     evt,
				LectureID:   lec.ID,
				StartSlotID: start,
				IsLocked:    r.locked,
				Duration:    lec.Duration,
			}
		}
		tracker.AddBlock(domain.GeneBlock{EventID: events[0], Lecture: lec, Slots: block})
	}

	return c
}

// rankOccurrences orders lecture occurrences per spec §4.5 step 1: locked
// ones first, then longer durations first.
func rankOccurrences(idx *domain.InputData) []rankedEvent {
	var out []rankedEvent
	for _, lec := range idx.Snapshot.Lectures {
		for occ := 0; occ < lec.Count; occ++ {
			_, locked := lec.LockedSlots[occ]
			out = append(out, rankedEvent{lecture: lec, occurrence: occ, locked: locked})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].locked != out[j].locked {
			return out[i].locked
		}
		return out[i].lecture.Duration > out[j].lecture.Duration
	})
	return out
}
