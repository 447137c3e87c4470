package ga

import "github.com/coursetable/ga-engine/internal/domain"

// HardKind tags a hard-constraint failure (spec §4.3 HC1-HC9).
type HardKind string

const (
	HCTeacherClash        HardKind = "teacher_clash"
	HCSubdivisionClash    HardKind = "subdivision_clash"
	HCRoomClash           HardKind = "room_clash"
	HCTeacherUnavailable  HardKind = "teacher_unavailable"
	HCSubdivisionUnavail  HardKind = "subdivision_unavailable"
	HCRoomUnavailable     HardKind = "room_unavailable"
	HCRoomCapacity        HardKind = "room_capacity"
	HCConsecutive         HardKind = "consecutive_slots"
	HCLockedSlot          HardKind = "locked_slot"
)

// SoftKind tags a soft-constraint penalty (spec §4.3 SC1-SC10).
type SoftKind string

const (
	SCIdleTime           SoftKind = "idle_time"
	SCConsecutivePref    SoftKind = "consecutive_preference"
	SCTeacherDaily       SoftKind = "teacher_daily_limit"
	SCTeacherWeekly      SoftKind = "teacher_weekly_limit"
	SCExcessiveDaily     SoftKind = "excessive_daily_lectures"
	SCEmptyDay           SoftKind = "excessively_empty_day"
	SCFilledDay          SoftKind = "excessively_filled_day"
	SCMultiLate          SoftKind = "multi_duration_late"
	SCDeprioritizedDay   SoftKind = "deprioritized_day"
	SCDeprioritizedSlot  SoftKind = "deprioritized_slot"
	SCDeprioritizedDaySlot SoftKind = "deprioritized_day_slot"
	SCDistribution       SoftKind = "daily_distribution"
)

// HardViolation is one occurrence of a hard-constraint failure.
type HardViolation struct {
	Kind     HardKind
	Severity int
	SlotID   domain.SlotID
	Detail   string
	Events   []domain.EventID
}

// SoftViolation is one occurrence of a soft-constraint penalty.
type SoftViolation struct {
	Kind    SoftKind
	Penalty float64
	Detail  string
	Events  []domain.EventID
}

// FitnessResult is the complete output of evaluating a chromosome (spec
// §4.3 Aggregation).
type FitnessResult struct {
	HardViolations []HardViolation
	SoftViolations []SoftViolation

	HardPenalty float64
	SoftPenalty float64
	Total       float64
	Fitness     float64
	IsFeasible  bool
}

// HardViolationCount sums violation severities, used by the hierarchical
// comparator's rule 3.
func (f FitnessResult) HardViolationCount() int {
	n := 0
	for _, v := range f.HardViolations {
		n += v.Severity
	}
	return n
}

// Better implements the hierarchical comparator from spec §4.3: a.Better(b)
// is true iff a beats b under the 4-rule ordering.
func Better(a, b FitnessResult) bool {
	if a.IsFeasible != b.IsFeasible {
		return a.IsFeasible
	}
	if a.IsFeasible {
		if a.SoftPenalty != b.SoftPenalty {
			return a.SoftPenalty < b.SoftPenalty
		}
		return a.Total < b.Total
	}
	ac, bc := a.HardViolationCount(), b.HardViolationCount()
	if ac != bc {
		return ac < bc
	}
	return a.Total < b.Total
}

// Equal reports whether a and b are indistinguishable under the
// hierarchical comparator (neither Better(a,b) nor Better(b,a)).
func Equal(a, b FitnessResult) bool {
	return !Better(a, b) && !Better(b, a)
}
