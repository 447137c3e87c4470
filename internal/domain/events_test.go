package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Slots: []Slot{
			{ID: "d1p1", Day: 1, Period: 1},
			{ID: "d1p2", Day: 1, Period: 2},
			{ID: "d1p3", Day: 1, Period: 3},
			{ID: "d2p1", Day: 2, Period: 1},
		},
		Teachers: []Teacher{
			{ID: "t1", DailyMaxHours: 4, WeeklyMaxHours: 20, Unavailable: map[SlotID]struct{}{}},
		},
		Subdivisions: []Subdivision{
			{ID: "s1", Unavailable: map[SlotID]struct{}{}},
		},
		Classrooms: []Classroom{
			{ID: "c1", Capacity: 30, Unavailable: map[SlotID]struct{}{}},
		},
		Groups: []Group{
			{ID: "g1", AllowSimultaneous: false},
		},
		Subjects: []Subject{
			{ID: "sub1", GroupID: "g1"},
		},
		Lectures: []Lecture{
			{
				ID:                 "lec1",
				TeacherID:          "t1",
				SubjectID:          "sub1",
				Count:              2,
				Duration:           2,
				Subdivisions:       []SubdivisionID{"s1"},
				CombinedClassrooms: []ClassroomID{"c1"},
				LockedSlots:        map[int]SlotID{0: "d1p1"},
			},
		},
	}
}

func TestNewInputDataBuildsEventSchema(t *testing.T) {
	idx, err := NewInputData(sampleSnapshot())
	require.NoError(t, err)

	// Count=2, Duration=2 => 4 events total.
	assert.Len(t, idx.EventIDs, 4)
	assert.Equal(t, EventID("lec1-evt0"), idx.EventIDs[0])
	assert.Equal(t, EventID("lec1-evt3"), idx.EventIDs[3])

	assert.True(t, idx.EventIsOccurrenceHead["lec1-evt0"])
	assert.False(t, idx.EventIsOccurrenceHead["lec1-evt1"])
	assert.True(t, idx.EventIsOccurrenceHead["lec1-evt2"])

	assert.Equal(t, 0, idx.EventToOccurrence["lec1-evt0"])
	assert.Equal(t, 0, idx.EventToOccurrence["lec1-evt1"])
	assert.Equal(t, 1, idx.EventToOccurrence["lec1-evt2"])

	locked, ok := idx.LockedAssignments["lec1-evt0"]
	require.True(t, ok)
	assert.Equal(t, SlotID("d1p1"), locked)
	_, lockedOccurrence1 := idx.LockedAssignments["lec1-evt2"]
	assert.False(t, lockedOccurrence1)
}

func TestNewInputDataRejectsEmptyLecturesOrSlots(t *testing.T) {
	snap := sampleSnapshot()
	snap.Lectures = nil
	_, err := NewInputData(snap)
	assert.Error(t, err)

	snap2 := sampleSnapshot()
	snap2.Slots = nil
	_, err = NewInputData(snap2)
	assert.Error(t, err)
}

func TestNewInputDataRejectsUnknownCrossReference(t *testing.T) {
	snap := sampleSnapshot()
	snap.Lectures[0].TeacherID = "ghost"
	_, err := NewInputData(snap)
	assert.Error(t, err)
}

func TestConsecutiveBlockStopsAtDayBoundary(t *testing.T) {
	idx, err := NewInputData(sampleSnapshot())
	require.NoError(t, err)

	block, ok := idx.ConsecutiveBlock("d1p1", 3)
	require.True(t, ok)
	assert.Equal(t, []SlotID{"d1p1", "d1p2", "d1p3"}, block)

	_, ok = idx.ConsecutiveBlock("d1p3", 2)
	assert.False(t, ok, "day 1 only has 3 periods, so a 2-slot block starting at the last one must fail")

	_, ok = idx.ConsecutiveBlock("d2p1", 2)
	assert.False(t, ok, "day 2 has a single slot")
}

func TestAllBlocksOfLengthOnlyReturnsFittingBlocks(t *testing.T) {
	idx, err := NewInputData(sampleSnapshot())
	require.NoError(t, err)

	blocks := idx.AllBlocksOfLength(3)
	require.Len(t, blocks, 1)
	assert.Equal(t, []SlotID{"d1p1", "d1p2", "d1p3"}, blocks[0])

	blocks = idx.AllBlocksOfLength(5)
	assert.Empty(t, blocks)
}

func TestOccurrenceEventsForReturnsOrderedIDs(t *testing.T) {
	idx, err := NewInputData(sampleSnapshot())
	require.NoError(t, err)

	events := idx.OccurrenceEventsFor("lec1", 1)
	assert.Equal(t, []EventID{"lec1-evt2", "lec1-evt3"}, events)
}

func TestOccurrenceIndex(t *testing.T) {
	assert.Equal(t, 0, OccurrenceIndex(0, 2))
	assert.Equal(t, 0, OccurrenceIndex(1, 2))
	assert.Equal(t, 1, OccurrenceIndex(2, 2))
	assert.Equal(t, 3, OccurrenceIndex(3, 1))
}
