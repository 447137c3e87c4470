package ga

import "github.com/coursetable/ga-engine/internal/domain"

// evalTeacherClash implements HC1: in any slot, any teacher appearing more
// than once contributes one violation with severity equal to the count of
// genes sharing that teacher in that slot.
func evalTeacherClash(occ slotOccupancy) []HardViolation {
	var out []HardViolation
	for slot, occupants := range occ {
		byTeacher := map[domain.TeacherID][]domain.EventID{}
		for _, o := range occupants {
			byTeacher[o.lecture.TeacherID] = append(byTeacher[o.lecture.TeacherID], o.gene.EventID)
		}
		for teacher, events := range byTeacher {
			if len(events) > 1 {
				out = append(out, HardViolation{
					Kind:     HCTeacherClash,
					Severity: len(events),
					SlotID:   slot,
					Detail:   string(teacher),
					Events:   events,
				})
			}
		}
	}
	return out
}

type subdivisionEntry struct {
	event     domain.EventID
	groupID   domain.GroupID
	elective  bool
}

// evalSubdivisionClash implements HC2: for each (slot, subdivision) pair,
// two+ non-elective lectures overlapping, a non-elective overlapping an
// elective, or electives from two+ distinct groups overlapping, are all
// clashes. Electives from the same group overlapping are allowed.
func evalSubdivisionClash(idx *domain.InputData, occ slotOccupancy) []HardViolation {
	var out []HardViolation
	for slot, occupants := range occ {
		bySubdivision := map[domain.SubdivisionID][]subdivisionEntry{}
		for _, o := range occupants {
			subject := idx.SubjectByID[o.lecture.SubjectID]
			group := idx.GroupByID[subject.GroupID]
			for _, sd := range o.lecture.Subdivisions {
				bySubdivision[sd] = append(bySubdivision[sd], subdivisionEntry{
					event:    o.gene.EventID,
					groupID:  group.ID,
					elective: group.AllowSimultaneous,
				})
			}
		}

		for sd, entries := range bySubdivision {
			if len(entries) < 2 {
				continue
			}
			nonElective := 0
			electiveGroups := map[domain.GroupID]struct{}{}
			var events []domain.EventID
			for _, e := range entries {
				events = append(events, e.event)
				if e.elective {
					electiveGroups[e.groupID] = struct{}{}
				} else {
					nonElective++
				}
			}
			clash := false
			switch {
			case nonElective >= 2:
				clash = true
			case nonElective >= 1 && len(electiveGroups) >= 1:
				clash = true
			case nonElective == 0 && len(electiveGroups) >= 2:
				clash = true
			}
			if clash {
				out = append(out, HardViolation{
					Kind:     HCSubdivisionClash,
					Severity: 1,
					SlotID:   slot,
					Detail:   string(sd),
					Events:   events,
				})
			}
		}
	}
	return out
}

// evalRoomClash implements HC3: any classroom id appearing in the
// combined_classrooms of two or more genes in a slot is a clash;
// gene indices (here, event ids) are deduplicated.
func evalRoomClash(occ slotOccupancy) []HardViolation {
	var out []HardViolation
	for slot, occupants := range occ {
		byRoom := map[domain.ClassroomID]map[domain.EventID]struct{}{}
		for _, o := range occupants {
			for _, cr := range o.lecture.CombinedClassrooms {
				set, ok := byRoom[cr]
				if !ok {
					set = map[domain.EventID]struct{}{}
					byRoom[cr] = set
				}
				set[o.gene.EventID] = struct{}{}
			}
		}
		for room, set := range byRoom {
			if len(set) > 1 {
				events := make([]domain.EventID, 0, len(set))
				for e := range set {
					events = append(events, e)
				}
				out = append(out, HardViolation{
					Kind:     HCRoomClash,
					Severity: 1,
					SlotID:   slot,
					Detail:   string(room),
					Events:   events,
				})
			}
		}
	}
	return out
}

// evalTeacherUnavailable implements HC4.
func evalTeacherUnavailable(idx *domain.InputData, c *Chromosome) []HardViolation {
	var out []HardViolation
	for _, g := range c.Genes {
		lec := idx.LectureByID[g.LectureID]
		if _, unavail := idx.TeacherUnavailable[lec.TeacherID][g.StartSlotID]; unavail {
			out = append(out, HardViolation{
				Kind:     HCTeacherUnavailable,
				Severity: 1,
				SlotID:   g.StartSlotID,
				Detail:   string(lec.TeacherID),
				Events:   []domain.EventID{g.EventID},
			})
		}
	}
	return out
}

// evalSubdivisionUnavailable implements HC5.
func evalSubdivisionUnavailable(idx *domain.InputData, c *Chromosome) []HardViolation {
	var out []HardViolation
	for _, g := range c.Genes {
		lec := idx.LectureByID[g.LectureID]
		for _, sd := range lec.Subdivisions {
			if _, unavail := idx.SubdivisionUnavailable[sd][g.StartSlotID]; unavail {
				out = append(out, HardViolation{
					Kind:     HCSubdivisionUnavail,
					Severity: 1,
					SlotID:   g.StartSlotID,
					Detail:   string(sd),
					Events:   []domain.EventID{g.EventID},
				})
			}
		}
	}
	return out
}

// evalRoomUnavailable implements HC6.
func evalRoomUnavailable(idx *domain.InputData, c *Chromosome) []HardViolation {
	var out []HardViolation
	for _, g := range c.Genes {
		lec := idx.LectureByID[g.LectureID]
		for _, cr := range lec.CombinedClassrooms {
			if _, unavail := idx.ClassroomUnavailable[cr][g.StartSlotID]; unavail {
				out = append(out, HardViolation{
					Kind:     HCRoomUnavailable,
					Severity: 1,
					SlotID:   g.StartSlotID,
					Detail:   string(cr),
					Events:   []domain.EventID{g.EventID},
				})
			}
		}
	}
	return out
}

// evalRoomCapacity implements HC7: when enrollment data is present and
// exceeds the sum of combined classroom capacities. Absent enrollment data
// (Enrollment == 0) produces no violations, per spec §9 open questions.
func evalRoomCapacity(idx *domain.InputData, c *Chromosome) []HardViolation {
	var out []HardViolation
	for _, g := range c.Genes {
		if !idx.EventIsOccurrenceHead[g.EventID] {
			continue
		}
		lec := idx.LectureByID[g.LectureID]
		if lec.Enrollment <= 0 {
			continue
		}
		capacity := 0
		for _, cr := range lec.CombinedClassrooms {
			capacity += idx.ClassroomByID[cr].Capacity
		}
		if lec.Enrollment > capacity {
			out = append(out, HardViolation{
				Kind:     HCRoomCapacity,
				Severity: 1,
				SlotID:   g.StartSlotID,
				Detail:   string(lec.ID),
				Events:   []domain.EventID{g.EventID},
			})
		}
	}
	return out
}

// evalConsecutive implements HC8: each occurrence's genes must form a
// strictly consecutive block on one day, with the first gene at the block
// start. Severity is proportional to duration.
func evalConsecutive(idx *domain.InputData, c *Chromosome) []HardViolation {
	var out []HardViolation
	posByEvent := make(map[domain.EventID]int, len(c.Genes))
	for i, g := range c.Genes {
		posByEvent[g.EventID] = i
	}

	seen := map[string]struct{}{}
	for _, g := range c.Genes {
		lec := idx.LectureByID[g.LectureID]
		if lec.Duration <= 1 {
			continue
		}
		occurrence := idx.EventToOccurrence[g.EventID]
		key := occurrenceSeenKey(lec.ID, occurrence)
		if _, done := seen[key]; done {
			continue
		}
		seen[key] = struct{}{}

		events := idx.OccurrenceEventsFor(lec.ID, occurrence)
		if len(events) == 0 {
			continue
		}
		headGene := c.Genes[posByEvent[events[0]]]
		expectedBlock, ok := idx.ConsecutiveBlock(headGene.StartSlotID, lec.Duration)
		violated := !ok
		if ok {
			for i, evt := range events {
				gp := c.Genes[posByEvent[evt]]
				if gp.StartSlotID != expectedBlock[i] {
					violated = true
					break
				}
			}
		}
		if violated {
			out = append(out, HardViolation{
				Kind:     HCConsecutive,
				Severity: lec.Duration,
				SlotID:   headGene.StartSlotID,
				Detail:   string(lec.ID),
				Events:   events,
			})
		}
	}
	return out
}

func occurrenceSeenKey(lectureID domain.LectureID, occurrence int) string {
	return string(lectureID) + "#" + itoa(occurrence)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// evalLockedSlot implements HC9.
func evalLockedSlot(idx *domain.InputData, c *Chromosome) []HardViolation {
	var out []HardViolation
	for _, g := range c.Genes {
		locked, ok := idx.LockedAssignments[g.EventID]
		if !ok {
			continue
		}
		if !g.IsLocked || g.StartSlotID != locked {
			out = append(out, HardViolation{
				Kind:     HCLockedSlot,
				Severity: 10,
				SlotID:   g.StartSlotID,
				Detail:   string(g.EventID),
				Events:   []domain.EventID{g.EventID},
			})
		}
	}
	return out
}
