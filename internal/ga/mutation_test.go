package ga

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutateSkippedWhenProbabilityIsZero(t *testing.T) {
	idx := buildTestIndex(t)
	rng := rand.New(rand.NewSource(1))
	c := RandomInit(idx, rng)

	out := Mutate(idx, c, 0.0, 0.5, rng)
	assert.Equal(t, c.Genes, out.Genes)
}

func TestMutateNeverChangesLockedGenes(t *testing.T) {
	idx := buildTestIndex(t)
	rng := rand.New(rand.NewSource(1))
	c := RandomInit(idx, rng)

	for i := 0; i < 50; i++ {
		out := Mutate(idx, c, 1.0, 0.5, rng)
		for j, g := range out.Genes {
			if g.IsLocked {
				assert.Equal(t, c.Genes[j], g)
			}
		}
		c = out
	}
}

func TestMutatePreservesInvariants(t *testing.T) {
	idx := buildTestIndex(t)
	rng := rand.New(rand.NewSource(1))
	c := RandomInit(idx, rng)

	out := Mutate(idx, c, 1.0, 0.5, rng)
	require.NoError(t, out.ValidateInvariants(idx))
}

func TestMutateDoesNotMutateItsArgument(t *testing.T) {
	idx := buildTestIndex(t)
	rng := rand.New(rand.NewSource(1))
	c := RandomInit(idx, rng)
	before := c.Clone()

	Mutate(idx, c, 1.0, 0.5, rng)
	assert.Equal(t, before.Genes, c.Genes)
}
