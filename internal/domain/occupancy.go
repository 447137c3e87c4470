package domain

import "sort"

// ConflictReport is the outcome of probing a candidate block against an
// OccupancyTracker, per spec §4.2.
type ConflictReport struct {
	TeacherClash     bool
	SubdivisionClash bool
	RoomClash        bool
	Unavailable      bool
	// ConflictCount is a weighted score used only to order candidate blocks:
	// 10 per hard entity clash/unavailability, 5 per room clash.
	ConflictCount int
}

func (c ConflictReport) hasConflict() bool {
	return c.TeacherClash || c.SubdivisionClash || c.RoomClash || c.Unavailable
}

// OccupancyTracker maintains a reversible incremental index of which
// teacher/subdivisions/classrooms occupy which slots, so initialization and
// repair can probe candidate blocks in O(1) per slot (spec §4.2).
type OccupancyTracker struct {
	idx *InputData

	teachersBySlot     map[SlotID]map[TeacherID]int
	subdivisionsBySlot map[SlotID]map[SubdivisionID]int
	classroomsBySlot   map[SlotID]map[ClassroomID]int

	slotsByTeacher     map[TeacherID]map[SlotID]int
	slotsBySubdivision map[SubdivisionID]map[SlotID]int
}

// NewOccupancyTracker returns an empty tracker bound to idx's lookups.
func NewOccupancyTracker(idx *InputData) *OccupancyTracker {
	return &OccupancyTracker{
		idx:                idx,
		teachersBySlot:     map[SlotID]map[TeacherID]int{},
		subdivisionsBySlot: map[SlotID]map[SubdivisionID]int{},
		classroomsBySlot:   map[SlotID]map[ClassroomID]int{},
		slotsByTeacher:     map[TeacherID]map[SlotID]int{},
		slotsBySubdivision: map[SubdivisionID]map[SlotID]int{},
	}
}

// GeneBlock is the minimal description of a placed gene the tracker needs:
// its lecture and the consecutive slots it occupies.
type GeneBlock struct {
	EventID  EventID
	Lecture  Lecture
	Slots    []SlotID
}

// AddBlock inserts the lecture's teacher, attending subdivisions and
// combined classrooms into every slot of block.
func (t *OccupancyTracker) AddBlock(b GeneBlock) {
	for _, slot := range b.Slots {
		t.bump(t.teachersBySlotMap(slot), b.Lecture.TeacherID, 1)
		for _, sd := range b.Lecture.Subdivisions {
			t.bumpSubdivision(t.subdivisionsBySlotMap(slot), sd, 1)
		}
		for _, cr := range b.Lecture.CombinedClassrooms {
			t.bumpClassroom(t.classroomsBySlotMap(slot), cr, 1)
		}

		t.bumpTS(t.slotsByTeacherMap(b.Lecture.TeacherID), slot, 1)
		for _, sd := range b.Lecture.Subdivisions {
			t.bumpSD(t.slotsBySubdivisionMap(sd), slot, 1)
		}
	}
}

// RemoveBlock is the exact inverse of AddBlock for the same gene/block.
func (t *OccupancyTracker) RemoveBlock(b GeneBlock) {
	for _, slot := range b.Slots {
		t.bump(t.teachersBySlotMap(slot), b.Lecture.TeacherID, -1)
		for _, sd := range b.Lecture.Subdivisions {
			t.bumpSubdivision(t.subdivisionsBySlotMap(slot), sd, -1)
		}
		for _, cr := range b.Lecture.CombinedClassrooms {
			t.bumpClassroom(t.classroomsBySlotMap(slot), cr, -1)
		}

		t.bumpTS(t.slotsByTeacherMap(b.Lecture.TeacherID), slot, -1)
		for _, sd := range b.Lecture.Subdivisions {
			t.bumpSD(t.slotsBySubdivisionMap(sd), slot, -1)
		}
	}
}

func (t *OccupancyTracker) teachersBySlotMap(s SlotID) map[TeacherID]int {
	m, ok := t.teachersBySlot[s]
	if !ok {
		m = map[TeacherID]int{}
		t.teachersBySlot[s] = m
	}
	return m
}

func (t *OccupancyTracker) subdivisionsBySlotMap(s SlotID) map[SubdivisionID]int {
	m, ok := t.subdivisionsBySlot[s]
	if !ok {
		m = map[SubdivisionID]int{}
		t.subdivisionsBySlot[s] = m
	}
	return m
}

func (t *OccupancyTracker) classroomsBySlotMap(s SlotID) map[ClassroomID]int {
	m, ok := t.classroomsBySlot[s]
	if !ok {
		m = map[ClassroomID]int{}
		t.classroomsBySlot[s] = m
	}
	return m
}

func (t *OccupancyTracker) slotsByTeacherMap(tid TeacherID) map[SlotID]int {
	m, ok := t.slotsByTeacher[tid]
	if !ok {
		m = map[SlotID]int{}
		t.slotsByTeacher[tid] = m
	}
	return m
}

func (t *OccupancyTracker) slotsBySubdivisionMap(sid SubdivisionID) map[SlotID]int {
	m, ok := t.slotsBySubdivision[sid]
	if !ok {
		m = map[SlotID]int{}
		t.slotsBySubdivision[sid] = m
	}
	return m
}

func (t *OccupancyTracker) bump(m map[TeacherID]int, key TeacherID, delta int) {
	m[key] += delta
	if m[key] <= 0 {
		delete(m, key)
	}
}

func (t *OccupancyTracker) bumpTS(m map[SlotID]int, key SlotID, delta int) {
	m[key] += delta
	if m[key] <= 0 {
		delete(m, key)
	}
}

func (t *OccupancyTracker) bumpSD(m map[SlotID]int, key SlotID, delta int) {
	m[key] += delta
	if m[key] <= 0 {
		delete(m, key)
	}
}

func (t *OccupancyTracker) bumpSubdivision(m map[SubdivisionID]int, key SubdivisionID, delta int) {
	m[key] += delta
	if m[key] <= 0 {
		delete(m, key)
	}
}

func (t *OccupancyTracker) bumpClassroom(m map[ClassroomID]int, key ClassroomID, delta int) {
	m[key] += delta
	if m[key] <= 0 {
		delete(m, key)
	}
}

// CheckBlockConflicts scans block and reports the first class of each
// conflict plus a weighted count, per spec §4.2. When lecture's subject
// group has AllowSimultaneous set, no subdivision overlap is reported at
// all; the tracker does not record which group placed an existing
// occupant, so overlaps with other groups' lectures are not reported
// either.
func (t *OccupancyTracker) CheckBlockConflicts(lecture Lecture, block []SlotID) ConflictReport {
	var report ConflictReport
	subject := t.idx.SubjectByID[lecture.SubjectID]
	group := t.idx.GroupByID[subject.GroupID]

	for _, slot := range block {
		if teachers, ok := t.teachersBySlot[slot]; ok {
			if _, clash := teachers[lecture.TeacherID]; clash {
				report.TeacherClash = true
				report.ConflictCount += 10
			}
		}
		if _, unavail := t.idx.TeacherUnavailable[lecture.TeacherID][slot]; unavail {
			report.Unavailable = true
			report.ConflictCount += 10
		}

		for _, sd := range lecture.Subdivisions {
			if existing, ok := t.subdivisionsBySlot[slot]; ok {
				if _, present := existing[sd]; present {
					if !group.AllowSimultaneous {
						report.SubdivisionClash = true
						report.ConflictCount += 10
					}
					// An elective lecture's overlap is not reported here,
					// whatever group the existing occupant belongs to;
					// group-aware clash detection lives in the evaluator
					// (HC2), which has full gene context the tracker
					// lacks during a bare probe.
				}
			}
			if _, unavail := t.idx.SubdivisionUnavailable[sd][slot]; unavail {
				report.Unavailable = true
				report.ConflictCount += 10
			}
		}

		for _, cr := range lecture.CombinedClassrooms {
			if existing, ok := t.classroomsBySlot[slot]; ok {
				if _, present := existing[cr]; present {
					report.RoomClash = true
					report.ConflictCount += 5
				}
			}
			if _, unavail := t.idx.ClassroomUnavailable[cr][slot]; unavail {
				report.Unavailable = true
				report.ConflictCount += 10
			}
		}
	}
	return report
}

// CandidateBlock pairs a block of slots with its conflict report, used by
// FindValidBlocks to return blocks ranked for initialization/repair.
type CandidateBlock struct {
	Slots  []SlotID
	Report ConflictReport
}

// FindValidBlocks returns every block in allBlocks with no hard conflict,
// sorted ascending by ConflictCount, per spec §4.2.
func (t *OccupancyTracker) FindValidBlocks(lecture Lecture, allBlocks [][]SlotID) []CandidateBlock {
	var valid []CandidateBlock
	for _, block := range allBlocks {
		report := t.CheckBlockConflicts(lecture, block)
		if !report.hasConflict() {
			valid = append(valid, CandidateBlock{Slots: block, Report: report})
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Report.ConflictCount < valid[j].Report.ConflictCount
	})
	return valid
}

// RankedBlocks returns every block in allBlocks sorted ascending by
// ConflictCount, hard-conflicting or not; used when no conflict-free block
// exists and the caller (heuristic init) must still pick something for
// repair to fix up later.
func (t *OccupancyTracker) RankedBlocks(lecture Lecture, allBlocks [][]SlotID) []CandidateBlock {
	all := make([]CandidateBlock, 0, len(allBlocks))
	for _, block := range allBlocks {
		all = append(all, CandidateBlock{Slots: block, Report: t.CheckBlockConflicts(lecture, block)})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Report.ConflictCount < all[j].Report.ConflictCount
	})
	return all
}
