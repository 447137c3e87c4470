package ga

import (
	"fmt"
	"math/rand"

	"github.com/coursetable/ga-engine/internal/domain"
)

// UniformCrossover produces two offspring from equal-length parents. At
// each position, a locked gene (on either parent) is copied to both
// offspring; otherwise, with probability 0.5, offspring1 takes parent1's
// gene and offspring2 takes parent2's, else the two are swapped (spec §4.7).
func UniformCrossover(parent1, parent2 *Chromosome, rng *rand.Rand) (*Chromosome, *Chromosome, error) {
	if parent1.Len() != parent2.Len() {
		return nil, nil, fmt.Errorf("ga: uniform crossover requires equal-length parents, got %d and %d", parent1.Len(), parent2.Len())
	}

	n := parent1.Len()
	offspring1 := NewChromosome(n)
	offspring2 := NewChromosome(n)

	for i := 0; i < n; i++ {
		g1, g2 := parent1.Genes[i], parent2.Genes[i]
		if g1.IsLocked || g2.IsLocked {
			locked := g1
			if g2.IsLocked {
				locked = g2
			}
			offspring1.Genes[i] = locked
			offspring2.Genes[i] = locked
			continue
		}

		if rng.Float64() < 0.5 {
			offspring1.Genes[i] = g1
			offspring2.Genes[i] = g2
		} else {
			offspring1.Genes[i] = g2
			offspring2.Genes[i] = g1
		}
	}
	return offspring1, offspring2, nil
}

// Crossover is the top-level operator of spec §4.7: with probability
// 1-crossoverProbability it skips (returning independent copies of the
// parents); otherwise it runs UniformCrossover, then repair when
// enableRepair is set.
func Crossover(idx *domain.InputData, parent1, parent2 *Chromosome, crossoverProbability float64, enableRepair bool, rng *rand.Rand) (*Chromosome, *Chromosome, error) {
	if rng.Float64() >= crossoverProbability {
		return parent1.Clone(), parent2.Clone(), nil
	}

	offspring1, offspring2, err := UniformCrossover(parent1, parent2, rng)
	if err != nil {
		return nil, nil, err
	}

	if enableRepair {
		offspring1 = Repair(idx, offspring1, rng)
		offspring2 = Repair(idx, offspring2, rng)
	}
	return offspring1, offspring2, nil
}
