package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBetterFeasibleBeatsInfeasible(t *testing.T) {
	feasible := FitnessResult{IsFeasible: true, Total: 100}
	infeasible := FitnessResult{IsFeasible: false, Total: 1}
	assert.True(t, Better(feasible, infeasible))
	assert.False(t, Better(infeasible, feasible))
}

func TestBetterAmongFeasibleLowerSoftPenaltyWins(t *testing.T) {
	a := FitnessResult{IsFeasible: true, SoftPenalty: 3, Total: 3}
	b := FitnessResult{IsFeasible: true, SoftPenalty: 5, Total: 5}
	assert.True(t, Better(a, b))
	assert.False(t, Better(b, a))
}

func TestBetterAmongFeasibleTiesOnTotal(t *testing.T) {
	a := FitnessResult{IsFeasible: true, SoftPenalty: 3, Total: 3}
	b := FitnessResult{IsFeasible: true, SoftPenalty: 3, Total: 5}
	assert.True(t, Better(a, b))
}

func TestBetterAmongInfeasibleFewerHardViolationsWins(t *testing.T) {
	a := FitnessResult{
		IsFeasible:     false,
		HardViolations: []HardViolation{{Severity: 1}},
		Total:          1000,
	}
	b := FitnessResult{
		IsFeasible:     false,
		HardViolations: []HardViolation{{Severity: 1}, {Severity: 1}},
		Total:          500,
	}
	assert.True(t, Better(a, b), "fewer hard violations must win even with a higher total penalty")
}

func TestBetterAmongInfeasibleTiesOnTotal(t *testing.T) {
	a := FitnessResult{
		IsFeasible:     false,
		HardViolations: []HardViolation{{Severity: 2}},
		Total:          100,
	}
	b := FitnessResult{
		IsFeasible:     false,
		HardViolations: []HardViolation{{Severity: 2}},
		Total:          200,
	}
	assert.True(t, Better(a, b))
}

func TestEqualWhenNeitherIsBetter(t *testing.T) {
	a := FitnessResult{IsFeasible: true, SoftPenalty: 3, Total: 3}
	b := FitnessResult{IsFeasible: true, SoftPenalty: 3, Total: 3}
	assert.True(t, Equal(a, b))
}

func TestHardViolationCountSumsSeverity(t *testing.T) {
	f := FitnessResult{HardViolations: []HardViolation{{Severity: 2}, {Severity: 3}}}
	assert.Equal(t, 5, f.HardViolationCount())
}

func TestEvaluateFeasibleChromosomeHasNoHardViolations(t *testing.T) {
	idx := buildTestIndex(t)
	c := NewChromosome(len(idx.EventIDs))
	posByEvent := make(map[string]int)
	for i, e := range idx.EventIDs {
		posByEvent[string(e)] = i
	}
	c.Genes[posByEvent["mathLec-evt0"]] = Gene{EventID: "mathLec-evt0", LectureID: "mathLec", StartSlotID: "d1p1", IsLocked: true, Duration: 1}
	c.Genes[posByEvent["physicsLec-evt0"]] = Gene{EventID: "physicsLec-evt0", LectureID: "physicsLec", StartSlotID: "d1p1", IsLocked: false, Duration: 1}
	c.Genes[posByEvent["doubleLec-evt0"]] = Gene{EventID: "doubleLec-evt0", LectureID: "doubleLec", StartSlotID: "d2p1", IsLocked: false, Duration: 2}
	c.Genes[posByEvent["doubleLec-evt1"]] = Gene{EventID: "doubleLec-evt1", LectureID: "doubleLec", StartSlotID: "d2p2", IsLocked: false, Duration: 2}

	result := Evaluate(idx, c, DefaultConstraintWeights())
	assert.True(t, result.IsFeasible)
	assert.Empty(t, result.HardViolations)
	assert.Greater(t, result.Fitness, 0.0)
	assert.LessOrEqual(t, result.Fitness, 1.0)
}

func TestEvaluateDetectsTeacherClash(t *testing.T) {
	idx := buildTestIndex(t)
	c := NewChromosome(len(idx.EventIDs))
	posByEvent := make(map[string]int)
	for i, e := range idx.EventIDs {
		posByEvent[string(e)] = i
	}
	// doubleLec is taught by teacherB; place physicsLec (also teacherB) in
	// the same slot as doubleLec's start to force HC1.
	c.Genes[posByEvent["mathLec-evt0"]] = Gene{EventID: "mathLec-evt0", LectureID: "mathLec", StartSlotID: "d1p1", IsLocked: true, Duration: 1}
	c.Genes[posByEvent["physicsLec-evt0"]] = Gene{EventID: "physicsLec-evt0", LectureID: "physicsLec", StartSlotID: "d2p1", IsLocked: false, Duration: 1}
	c.Genes[posByEvent["doubleLec-evt0"]] = Gene{EventID: "doubleLec-evt0", LectureID: "doubleLec", StartSlotID: "d2p1", IsLocked: false, Duration: 2}
	c.Genes[posByEvent["doubleLec-evt1"]] = Gene{EventID: "doubleLec-evt1", LectureID: "doubleLec", StartSlotID: "d2p2", IsLocked: false, Duration: 2}

	result := Evaluate(idx, c, DefaultConstraintWeights())
	assert.False(t, result.IsFeasible)

	var found bool
	for _, v := range result.HardViolations {
		if v.Kind == HCTeacherClash {
			found = true
		}
	}
	assert.True(t, found, "expected a teacher clash violation")
}

func TestEvaluateDetectsLockedSlotViolation(t *testing.T) {
	idx := buildTestIndex(t)
	c := NewChromosome(len(idx.EventIDs))
	posByEvent := make(map[string]int)
	for i, e := range idx.EventIDs {
		posByEvent[string(e)] = i
	}
	c.Genes[posByEvent["mathLec-evt0"]] = Gene{EventID: "mathLec-evt0", LectureID: "mathLec", StartSlotID: "d2p1", IsLocked: false, Duration: 1}
	c.Genes[posByEvent["physicsLec-evt0"]] = Gene{EventID: "physicsLec-evt0", LectureID: "physicsLec", StartSlotID: "d1p1", IsLocked: false, Duration: 1}
	c.Genes[posByEvent["doubleLec-evt0"]] = Gene{EventID: "doubleLec-evt0", LectureID: "doubleLec", StartSlotID: "d2p2", IsLocked: false, Duration: 2}
	c.Genes[posByEvent["doubleLec-evt1"]] = Gene{EventID: "doubleLec-evt1", LectureID: "doubleLec", StartSlotID: "d2p3", IsLocked: false, Duration: 2}

	result := Evaluate(idx, c, DefaultConstraintWeights())
	var found bool
	for _, v := range result.HardViolations {
		if v.Kind == HCLockedSlot {
			found = true
		}
	}
	assert.True(t, found, "expected HC9 locked-slot violation when mathLec isn't placed at its locked slot")
}
