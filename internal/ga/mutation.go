package ga

import (
	"math/rand"

	"github.com/coursetable/ga-engine/internal/domain"
)

// maxUnlockedPositionTries bounds how many random positions Mutate probes
// before giving up and returning the chromosome unchanged (spec §4.8: "a
// small number of tries").
const maxUnlockedPositionTries = 10

// Mutate returns a deep copy of c, possibly mutated. With probability
// 1-mutationProbability it is skipped entirely. Otherwise, with
// probability swapMutationRatio it performs swap mutation (exchange two
// unlocked genes' start slots); else random-reset mutation (replace one
// unlocked gene's start slot with a uniformly random slot). Locked genes
// never change (spec §4.8).
func Mutate(idx *domain.InputData, c *Chromosome, mutationProbability, swapMutationRatio float64, rng *rand.Rand) *Chromosome {
	out := c.Clone()
	if rng.Float64() >= mutationProbability {
		return out
	}

	if rng.Float64() < swapMutationRatio {
		swapMutation(out, rng)
	} else {
		randomResetMutation(idx, out, rng)
	}
	return out
}

func swapMutation(c *Chromosome, rng *rand.Rand) {
	i, ok1 := randomUnlockedPosition(c, rng, -1)
	if !ok1 {
		return
	}
	j, ok2 := randomUnlockedPosition(c, rng, i)
	if !ok2 {
		return
	}
	c.Genes[i].StartSlotID, c.Genes[j].StartSlotID = c.Genes[j].StartSlotID, c.Genes[i].StartSlotID
}

func randomResetMutation(idx *domain.InputData, c *Chromosome, rng *rand.Rand) {
	i, ok := randomUnlockedPosition(c, rng, -1)
	if !ok {
		return
	}
	slots := idx.Snapshot.Slots
	c.Genes[i].StartSlotID = slots[rng.Intn(len(slots))].ID
}

// randomUnlockedPosition probes up to maxUnlockedPositionTries random
// positions (excluding exclude) for an unlocked gene. If every position
// happens to be locked (or tries are exhausted without finding one), it
// falls back to a single linear scan so a sparsely-locked chromosome still
// mutates deterministically rather than silently no-op'ing on bad luck.
func randomUnlockedPosition(c *Chromosome, rng *rand.Rand, exclude int) (int, bool) {
	n := c.Len()
	if n == 0 {
		return 0, false
	}
	for try := 0; try < maxUnlockedPositionTries; try++ {
		i := rng.Intn(n)
		if i == exclude {
			continue
		}
		if !c.Genes[i].IsLocked {
			return i, true
		}
	}
	for i := 0; i < n; i++ {
		if i == exclude {
			continue
		}
		if !c.Genes[i].IsLocked {
			return i, true
		}
	}
	return 0, false
}
