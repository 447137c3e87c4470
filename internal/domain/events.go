package domain

import (
	"fmt"
	"sort"
)

// EventID identifies one atomic scheduling unit: the expansion of a lecture
// by count x duration. See spec §3 "Lecture event".
type EventID string

// eventID builds the `{lecture_id}-evt{index}` convention from spec §3.
func eventID(lectureID LectureID, index int) EventID {
	return EventID(fmt.Sprintf("%s-evt%d", lectureID, index))
}

// OccurrenceIndex returns floor(index / duration) for an event position
// within its lecture's event block, i.e. which meeting this event belongs
// to.
func OccurrenceIndex(eventPosition, duration int) int {
	if duration <= 0 {
		return eventPosition
	}
	return eventPosition / duration
}

// InputData is the compact, immutable lookup index built once from a
// Snapshot (spec §4.1). All operators and the evaluator read from this
// structure; none of them mutate it.
type InputData struct {
	Snapshot Snapshot

	// EventIDs is the ordered chromosome schema: position i always refers
	// to EventIDs[i].
	EventIDs []EventID

	EventToLecture       map[EventID]LectureID
	EventToSubdivisions  map[EventID][]SubdivisionID
	EventToOccurrence    map[EventID]int // occurrence index within the event's lecture
	EventIsOccurrenceHead map[EventID]bool
	EventDuration        map[EventID]int

	LectureByID                map[LectureID]Lecture
	LectureCombinedClassrooms  map[LectureID][]ClassroomID
	SubjectByID                map[SubjectID]Subject
	GroupByID                  map[GroupID]Group
	TeacherByID                map[TeacherID]Teacher
	SubdivisionByID            map[SubdivisionID]Subdivision
	ClassroomByID              map[ClassroomID]Classroom

	TeacherUnavailable     map[TeacherID]map[SlotID]struct{}
	SubdivisionUnavailable map[SubdivisionID]map[SlotID]struct{}
	ClassroomUnavailable   map[ClassroomID]map[SlotID]struct{}

	SlotByID      map[SlotID]Slot
	NextSlotInDay map[SlotID]*SlotID

	// LockedAssignments maps event id -> locked start slot id, for every
	// event that is the head of a locked occurrence.
	LockedAssignments map[EventID]SlotID

	// OccurrenceEvents maps a (lectureID, occurrence) key to its ordered
	// event ids (length == lecture.Duration).
	OccurrenceEvents map[string][]EventID
}

// occurrenceKey builds a stable map key for (lectureID, occurrence index).
func occurrenceKey(lectureID LectureID, occurrence int) string {
	return fmt.Sprintf("%s#%d", lectureID, occurrence)
}

// NewInputData builds the lookup index for a domain snapshot, per spec
// §4.1. It returns an error if the snapshot is empty or contains unknown
// cross-references; callers that need a tagged gaerrors.InvalidInput wrap
// this error themselves, since domain stays independent of internal/ga.
func NewInputData(snap Snapshot) (*InputData, error) {
	if len(snap.Lectures) == 0 {
		return nil, fmt.Errorf("domain: empty lecture list")
	}
	if len(snap.Slots) == 0 {
		return nil, fmt.Errorf("domain: empty slot list")
	}

	idx := &InputData{
		Snapshot:               snap,
		EventToLecture:         map[EventID]LectureID{},
		EventToSubdivisions:    map[EventID][]SubdivisionID{},
		EventToOccurrence:      map[EventID]int{},
		EventIsOccurrenceHead:  map[EventID]bool{},
		EventDuration:          map[EventID]int{},
		LectureByID:            map[LectureID]Lecture{},
		LectureCombinedClassrooms: map[LectureID][]ClassroomID{},
		SubjectByID:            map[SubjectID]Subject{},
		GroupByID:              map[GroupID]Group{},
		TeacherByID:            map[TeacherID]Teacher{},
		SubdivisionByID:        map[SubdivisionID]Subdivision{},
		ClassroomByID:          map[ClassroomID]Classroom{},
		TeacherUnavailable:     map[TeacherID]map[SlotID]struct{}{},
		SubdivisionUnavailable: map[SubdivisionID]map[SlotID]struct{}{},
		ClassroomUnavailable:   map[ClassroomID]map[SlotID]struct{}{},
		SlotByID:               map[SlotID]Slot{},
		NextSlotInDay:          map[SlotID]*SlotID{},
		LockedAssignments:      map[EventID]SlotID{},
		OccurrenceEvents:       map[string][]EventID{},
	}

	for _, t := range snap.Teachers {
		idx.TeacherByID[t.ID] = t
		idx.TeacherUnavailable[t.ID] = t.Unavailable
	}
	for _, s := range snap.Subdivisions {
		idx.SubdivisionByID[s.ID] = s
		idx.SubdivisionUnavailable[s.ID] = s.Unavailable
	}
	for _, c := range snap.Classrooms {
		idx.ClassroomByID[c.ID] = c
		idx.ClassroomUnavailable[c.ID] = c.Unavailable
	}
	for _, g := range snap.Groups {
		idx.GroupByID[g.ID] = g
	}
	for _, s := range snap.Subjects {
		idx.SubjectByID[s.ID] = s
	}
	for _, sl := range snap.Slots {
		idx.SlotByID[sl.ID] = sl
	}

	if err := buildNextSlotInDay(idx); err != nil {
		return nil, err
	}

	for _, lec := range snap.Lectures {
		if err := validateLecture(idx, lec); err != nil {
			return nil, err
		}
		idx.LectureByID[lec.ID] = lec
		idx.LectureCombinedClassrooms[lec.ID] = lec.CombinedClassrooms

		for occurrence := 0; occurrence < lec.Count; occurrence++ {
			events := make([]EventID, 0, lec.Duration)
			for k := 0; k < lec.Duration; k++ {
				index := occurrence*lec.Duration + k
				id := eventID(lec.ID, index)
				idx.EventIDs = append(idx.EventIDs, id)
				idx.EventToLecture[id] = lec.ID
				idx.EventToSubdivisions[id] = lec.Subdivisions
				idx.EventToOccurrence[id] = occurrence
				idx.EventIsOccurrenceHead[id] = k == 0
				idx.EventDuration[id] = lec.Duration
				events = append(events, id)

				if k == 0 {
					if lockedStart, ok := lec.LockedSlots[occurrence]; ok {
						idx.LockedAssignments[id] = lockedStart
					}
				}
			}
			idx.OccurrenceEvents[occurrenceKey(lec.ID, occurrence)] = events
		}
	}

	return idx, nil
}

func validateLecture(idx *InputData, lec Lecture) error {
	if lec.Count <= 0 || lec.Duration <= 0 {
		return fmt.Errorf("domain: lecture %s has non-positive count/duration", lec.ID)
	}
	if _, ok := idx.TeacherByID[lec.TeacherID]; !ok {
		return fmt.Errorf("domain: lecture %s references unknown teacher %s", lec.ID, lec.TeacherID)
	}
	if _, ok := idx.SubjectByID[lec.SubjectID]; !ok {
		return fmt.Errorf("domain: lecture %s references unknown subject %s", lec.ID, lec.SubjectID)
	}
	if len(lec.Subdivisions) == 0 {
		return fmt.Errorf("domain: lecture %s has no attending subdivisions", lec.ID)
	}
	for _, sd := range lec.Subdivisions {
		if _, ok := idx.SubdivisionByID[sd]; !ok {
			return fmt.Errorf("domain: lecture %s references unknown subdivision %s", lec.ID, sd)
		}
	}
	for _, cr := range lec.CombinedClassrooms {
		if _, ok := idx.ClassroomByID[cr]; !ok {
			return fmt.Errorf("domain: lecture %s references unknown classroom %s", lec.ID, cr)
		}
	}
	return nil
}

// buildNextSlotInDay sorts slots by (day, period) and links adjacent pairs
// on the same day, per spec §4.1.
func buildNextSlotInDay(idx *InputData) error {
	sorted := make([]Slot, len(idx.Snapshot.Slots))
	copy(sorted, idx.Snapshot.Slots)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day < sorted[j].Day
		}
		return sorted[i].Period < sorted[j].Period
	})

	for i, s := range sorted {
		idx.NextSlotInDay[s.ID] = nil
		if i+1 < len(sorted) && sorted[i+1].Day == s.Day {
			next := sorted[i+1].ID
			idx.NextSlotInDay[s.ID] = &next
		}
	}
	return nil
}

// ConsecutiveBlock returns the duration consecutive slot ids starting at
// start, or ok=false if the day ends before duration slots are reached.
func (idx *InputData) ConsecutiveBlock(start SlotID, duration int) (block []SlotID, ok bool) {
	block = make([]SlotID, 0, duration)
	cur := start
	for i := 0; i < duration; i++ {
		if _, exists := idx.SlotByID[cur]; !exists {
			return nil, false
		}
		block = append(block, cur)
		if i == duration-1 {
			break
		}
		next := idx.NextSlotInDay[cur]
		if next == nil {
			return nil, false
		}
		cur = *next
	}
	return block, true
}

// AllBlocksOfLength precomputes every consecutive block of the given
// duration across all days, in the order slots were registered.
func (idx *InputData) AllBlocksOfLength(duration int) [][]SlotID {
	var out [][]SlotID
	for _, s := range idx.Snapshot.Slots {
		if block, ok := idx.ConsecutiveBlock(s.ID, duration); ok {
			out = append(out, block)
		}
	}
	return out
}

// OccurrenceEventsFor returns the ordered event ids belonging to the given
// lecture occurrence.
func (idx *InputData) OccurrenceEventsFor(lectureID LectureID, occurrence int) []EventID {
	return idx.OccurrenceEvents[occurrenceKey(lectureID, occurrence)]
}
