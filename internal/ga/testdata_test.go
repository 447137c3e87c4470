package ga

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coursetable/ga-engine/internal/domain"
)

// buildTestIndex returns a small, valid InputData: 2 days x 3 periods, two
// teachers, two disjoint subdivisions, two classrooms, two single-period
// lectures (one of them locked) and one 2-period lecture, with no
// unavailability, so that a feasible placement exists and heuristic init
// finds one.
func buildTestIndex(t *testing.T) *domain.InputData {
	t.Helper()

	slots := []domain.Slot{
		{ID: "d1p1", Day: 1, Period: 1},
		{ID: "d1p2", Day: 1, Period: 2},
		{ID: "d1p3", Day: 1, Period: 3},
		{ID: "d2p1", Day: 2, Period: 1},
		{ID: "d2p2", Day: 2, Period: 2},
		{ID: "d2p3", Day: 2, Period: 3},
	}

	snap := domain.Snapshot{
		Slots: slots,
		Teachers: []domain.Teacher{
			{ID: "teacherA", DailyMaxHours: 6, WeeklyMaxHours: 30, Unavailable: map[domain.SlotID]struct{}{}},
			{ID: "teacherB", DailyMaxHours: 6, WeeklyMaxHours: 30, Unavailable: map[domain.SlotID]struct{}{}},
		},
		Subdivisions: []domain.Subdivision{
			{ID: "classX", Unavailable: map[domain.SlotID]struct{}{}},
			{ID: "classY", Unavailable: map[domain.SlotID]struct{}{}},
		},
		Classrooms: []domain.Classroom{
			{ID: "room1", Capacity: 40, Unavailable: map[domain.SlotID]struct{}{}},
			{ID: "room2", Capacity: 40, Unavailable: map[domain.SlotID]struct{}{}},
		},
		Groups: []domain.Group{
			{ID: "core", AllowSimultaneous: false},
		},
		Subjects: []domain.Subject{
			{ID: "math", GroupID: "core"},
			{ID: "physics", GroupID: "core"},
		},
		Lectures: []domain.Lecture{
			{
				ID:                 "mathLec",
				TeacherID:          "teacherA",
				SubjectID:          "math",
				Count:              1,
				Duration:           1,
				Subdivisions:       []domain.SubdivisionID{"classX"},
				CombinedClassrooms: []domain.ClassroomID{"room1"},
				LockedSlots:        map[int]domain.SlotID{0: "d1p1"},
			},
			{
				ID:                 "physicsLec",
				TeacherID:          "teacherB",
				SubjectID:          "physics",
				Count:              1,
				Duration:           1,
				Subdivisions:       []domain.SubdivisionID{"classY"},
				CombinedClassrooms: []domain.ClassroomID{"room2"},
			},
			{
				ID:                 "doubleLec",
				TeacherID:          "teacherB",
				SubjectID:          "math",
				Count:              1,
				Duration:           2,
				Subdivisions:       []domain.SubdivisionID{"classX"},
				CombinedClassrooms: []domain.ClassroomID{"room1"},
			},
		},
	}

	idx, err := domain.NewInputData(snap)
	require.NoError(t, err)
	return idx
}

// testGAConfig returns a GAConfig sized for buildTestIndex's 4-gene problem.
func testGAConfig() GAConfig {
	cfg := DefaultGAConfig()
	cfg.PopulationSize = 12
	cfg.EliteCount = 2
	cfg.TournamentSize = 3
	cfg.MaxGenerations = 5
	cfg.MaxStagnantGenerations = 3
	seed := int64(42)
	cfg.RandomSeed = &seed
	return cfg
}
