// Package ga implements the timetabling genetic algorithm engine: the
// chromosome representation, constraint evaluator, fitness cache, genetic
// operators and the single-threaded and island-parallel drivers described
// in the system specification.
package ga

import (
	"fmt"
	"strings"

	"github.com/coursetable/ga-engine/internal/domain"
)

// Gene is the atomic assignment: one lecture event placed at a start slot.
// Classrooms are not part of a Gene because the combined classroom set is a
// property of the lecture, not the assignment (spec §3).
type Gene struct {
	EventID      domain.EventID
	LectureID    domain.LectureID
	StartSlotID  domain.SlotID
	IsLocked     bool
	Duration     int
}

// Chromosome is a fixed-length ordered sequence of genes, indexed so that
// position i always refers to InputData.EventIDs[i] (spec §3, invariant I1).
type Chromosome struct {
	Genes []Gene
}

// NewChromosome allocates a chromosome of length n with zero-value genes.
// Callers (initialization) are responsible for filling every position.
func NewChromosome(n int) *Chromosome {
	return &Chromosome{Genes: make([]Gene, n)}
}

// Clone deep-copies the chromosome. Every operator in this package takes a
// chromosome by pointer but returns a fresh copy rather than mutating the
// argument, so this is the only allocation path for "copy-on-write".
func (c *Chromosome) Clone() *Chromosome {
	out := &Chromosome{Genes: make([]Gene, len(c.Genes))}
	copy(out.Genes, c.Genes)
	return out
}

// Len returns the number of genes (== N in spec notation).
func (c *Chromosome) Len() int { return len(c.Genes) }

// Fingerprint is the stable join of (event_id:start_slot_id) pairs in
// chromosome order, used as the fitness cache key (spec §4.4). Classrooms
// are excluded because they are immutable per lecture and therefore add no
// information to the key.
func (c *Chromosome) Fingerprint() string {
	var b strings.Builder
	for i, g := range c.Genes {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(string(g.EventID))
		b.WriteByte(':')
		b.WriteString(string(g.StartSlotID))
	}
	return b.String()
}

// ValidateInvariants checks I1-I4 from spec §3 against idx. Neither the
// operators nor the driver call it; it is an explicit check for callers
// and tests.
func (c *Chromosome) ValidateInvariants(idx *domain.InputData) error {
	if len(c.Genes) != len(idx.EventIDs) {
		return fmt.Errorf("ga: chromosome length %d != expected %d", len(c.Genes), len(idx.EventIDs))
	}
	seen := make(map[domain.EventID]struct{}, len(c.Genes))
	for i, g := range c.Genes {
		if g.EventID != idx.EventIDs[i] {
			return fmt.Errorf("ga: gene at position %d has event id %s, want %s", i, g.EventID, idx.EventIDs[i])
		}
		if _, dup := seen[g.EventID]; dup {
			return fmt.Errorf("ga: duplicate event id %s in chromosome", g.EventID)
		}
		seen[g.EventID] = struct{}{}

		if locked, ok := idx.LockedAssignments[g.EventID]; ok {
			if !g.IsLocked || g.StartSlotID != locked {
				return fmt.Errorf("ga: locked event %s has start %s, want %s", g.EventID, g.StartSlotID, locked)
			}
		}

		wantDuration := idx.EventDuration[g.EventID]
		if g.Duration != wantDuration {
			return fmt.Errorf("ga: gene %s duration %d != lecture duration %d", g.EventID, g.Duration, wantDuration)
		}
	}
	return nil
}

// Population is a set of chromosomes. Ordering is operationally irrelevant
// but stable within a generation (spec §3).
type Population []*Chromosome

// Clone deep-copies every chromosome in the population.
func (p Population) Clone() Population {
	out := make(Population, len(p))
	for i, c := range p {
		out[i] = c.Clone()
	}
	return out
}
