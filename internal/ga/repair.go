package ga

import (
	"math/rand"

	"github.com/coursetable/ga-engine/internal/domain"
)

// MaxRepairAttempts bounds the repair loop of spec §4.9.
const MaxRepairAttempts = 50

// maxRepairSlotProbes bounds find_valid_slot_for_gene's random probing.
const maxRepairSlotProbes = 20

// Repair is a best-effort, bounded local search that attempts to remove
// hard-constraint violations from a deep copy of c, per spec §4.9. It does
// not attempt to satisfy HC8 (consecutive) or HC9 (locked).
func Repair(idx *domain.InputData, c *Chromosome, rng *rand.Rand) *Chromosome {
	out := c.Clone()
	posByEvent := make(map[domain.EventID]int, out.Len())
	for i, g := range out.Genes {
		posByEvent[g.EventID] = i
	}

	for attempt := 0; attempt < MaxRepairAttempts; attempt++ {
		violation, found := firstRepairableViolation(idx, out)
		if !found {
			return out
		}

		pos := posByEvent[violation]
		gene := out.Genes[pos]
		if gene.IsLocked {
			// Unresolvable by slot change; the caller's stage ordering
			// guarantees firstRepairableViolation already skipped over
			// locked genes, but guard defensively in case of a future
			// stage that doesn't.
			continue
		}

		if newSlot, ok := findValidSlotForGene(idx, out, pos, rng); ok {
			out.Genes[pos].StartSlotID = newSlot
		}
	}
	return out
}

// firstRepairableViolation walks the evaluator's hard-constraint stages in
// the order spec §4.9 prescribes (teacher clashes, subdivision clashes,
// room clashes, teacher unavailability, subdivision unavailability, room
// unavailability) and returns the event id of the first offending gene
// that is unlocked.
func firstRepairableViolation(idx *domain.InputData, c *Chromosome) (domain.EventID, bool) {
	occ := buildSlotOccupancy(idx, c)
	posByEvent := make(map[domain.EventID]int, c.Len())
	for i, g := range c.Genes {
		posByEvent[g.EventID] = i
	}

	stages := [][]HardViolation{
		evalTeacherClash(occ),
		evalSubdivisionClash(idx, occ),
		evalRoomClash(occ),
		evalTeacherUnavailable(idx, c),
		evalSubdivisionUnavailable(idx, c),
		evalRoomUnavailable(idx, c),
	}

	for _, violations := range stages {
		for _, v := range violations {
			for _, evt := range v.Events {
				if !c.Genes[posByEvent[evt]].IsLocked {
					return evt, true
				}
			}
		}
	}
	return "", false
}

// findValidSlotForGene probes up to maxRepairSlotProbes random slots,
// rejecting any that violate the gene's teacher/subdivision unavailability
// or would clash with any other gene already in the chromosome, per spec
// §4.9.
func findValidSlotForGene(idx *domain.InputData, c *Chromosome, pos int, rng *rand.Rand) (domain.SlotID, bool) {
	gene := c.Genes[pos]
	lec := idx.LectureByID[gene.LectureID]
	slots := idx.Snapshot.Slots

	for try := 0; try < maxRepairSlotProbes; try++ {
		candidate := slots[rng.Intn(len(slots))].ID

		if _, unavail := idx.TeacherUnavailable[lec.TeacherID][candidate]; unavail {
			continue
		}
		badSubdivision := false
		for _, sd := range lec.Subdivisions {
			if _, unavail := idx.SubdivisionUnavailable[sd][candidate]; unavail {
				badSubdivision = true
				break
			}
		}
		if badSubdivision {
			continue
		}

		if wouldClash(idx, c, pos, candidate) {
			continue
		}
		return candidate, true
	}
	return "", false
}

// wouldClash reports whether placing gene pos at candidate would cause a
// teacher or subdivision clash with any other gene currently in c.
func wouldClash(idx *domain.InputData, c *Chromosome, pos int, candidate domain.SlotID) bool {
	gene := c.Genes[pos]
	lec := idx.LectureByID[gene.LectureID]
	subdivisions := make(map[domain.SubdivisionID]struct{}, len(lec.Subdivisions))
	for _, sd := range lec.Subdivisions {
		subdivisions[sd] = struct{}{}
	}

	for i, other := range c.Genes {
		if i == pos {
			continue
		}
		if other.StartSlotID != candidate {
			continue
		}
		otherLec := idx.LectureByID[other.LectureID]
		if otherLec.TeacherID == lec.TeacherID {
			return true
		}
		for _, sd := range otherLec.Subdivisions {
			if _, attends := subdivisions[sd]; attends {
				return true
			}
		}
	}
	return false
}
