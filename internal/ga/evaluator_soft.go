package ga

import "github.com/coursetable/ga-engine/internal/domain"

type dayPeriodSet map[int]map[int]struct{}

func (s dayPeriodSet) add(day, period int) {
	set, ok := s[day]
	if !ok {
		set = map[int]struct{}{}
		s[day] = set
	}
	set[period] = struct{}{}
}

// evalIdleTime implements SC1: per (subdivision, day),
// (last_period - first_period + 1) - attended_periods penalized one unit
// per idle period.
func evalIdleTime(idx *domain.InputData, c *Chromosome, w ConstraintWeights) []SoftViolation {
	bySubdivision := map[domain.SubdivisionID]dayPeriodSet{}
	for _, g := range c.Genes {
		lec := idx.LectureByID[g.LectureID]
		slot := idx.SlotByID[g.StartSlotID]
		for _, sd := range lec.Subdivisions {
			set, ok := bySubdivision[sd]
			if !ok {
				set = dayPeriodSet{}
				bySubdivision[sd] = set
			}
			set.add(slot.Day, slot.Period)
		}
	}

	var out []SoftViolation
	for sd, byDay := range bySubdivision {
		for day, periods := range byDay {
			first, last := minMaxKeys(periods)
			idle := (last - first + 1) - len(periods)
			if idle > 0 {
				out = append(out, SoftViolation{
					Kind:    SCIdleTime,
					Penalty: w.Idle * float64(idle),
					Detail:  detailKey(string(sd), day),
				})
			}
		}
	}
	return out
}

// evalConsecutivePreference implements SC2: per (teacher, day), longest run
// of consecutive periods > 3 is penalized (run - 3).
func evalConsecutivePreference(idx *domain.InputData, c *Chromosome, w ConstraintWeights) []SoftViolation {
	byTeacher := map[domain.TeacherID]dayPeriodSet{}
	for _, g := range c.Genes {
		lec := idx.LectureByID[g.LectureID]
		slot := idx.SlotByID[g.StartSlotID]
		set, ok := byTeacher[lec.TeacherID]
		if !ok {
			set = dayPeriodSet{}
			byTeacher[lec.TeacherID] = set
		}
		set.add(slot.Day, slot.Period)
	}

	var out []SoftViolation
	for teacher, byDay := range byTeacher {
		for day, periods := range byDay {
			run := longestRun(periods)
			if run > 3 {
				out = append(out, SoftViolation{
					Kind:    SCConsecutivePref,
					Penalty: w.ConsecutivePref * float64(run-3),
					Detail:  detailKey(string(teacher), day),
				})
			}
		}
	}
	return out
}

// evalTeacherDailyLimit implements SC3.
func evalTeacherDailyLimit(idx *domain.InputData, c *Chromosome, w ConstraintWeights) []SoftViolation {
	hours := teacherDayHours(idx, c)
	var out []SoftViolation
	for teacher, byDay := range hours {
		max := idx.TeacherByID[teacher].DailyMaxHours
		if max <= 0 {
			continue
		}
		for day, total := range byDay {
			if total > max {
				out = append(out, SoftViolation{
					Kind:    SCTeacherDaily,
					Penalty: w.TeacherDaily * float64(total-max),
					Detail:  detailKey(string(teacher), day),
				})
			}
		}
	}
	return out
}

// evalTeacherWeeklyLimit implements SC4.
func evalTeacherWeeklyLimit(idx *domain.InputData, c *Chromosome, w ConstraintWeights) []SoftViolation {
	hours := teacherDayHours(idx, c)
	var out []SoftViolation
	for teacher, byDay := range hours {
		max := idx.TeacherByID[teacher].WeeklyMaxHours
		if max <= 0 {
			continue
		}
		total := 0
		for _, h := range byDay {
			total += h
		}
		if total > max {
			out = append(out, SoftViolation{
				Kind:    SCTeacherWeekly,
				Penalty: w.TeacherWeekly * float64((total-max)*2),
				Detail:  string(teacher),
			})
		}
	}
	return out
}

func teacherDayHours(idx *domain.InputData, c *Chromosome) map[domain.TeacherID]map[int]int {
	out := map[domain.TeacherID]map[int]int{}
	for _, g := range c.Genes {
		if !idx.EventIsOccurrenceHead[g.EventID] {
			continue
		}
		lec := idx.LectureByID[g.LectureID]
		slot := idx.SlotByID[g.StartSlotID]
		byDay, ok := out[lec.TeacherID]
		if !ok {
			byDay = map[int]int{}
			out[lec.TeacherID] = byDay
		}
		byDay[slot.Day] += lec.Duration
	}
	return out
}

// evalExcessiveDaily implements SC5: per (subdivision, day, lecture), the
// number of scheduled occurrences exceeding the lecture's duration.
func evalExcessiveDaily(idx *domain.InputData, c *Chromosome, w ConstraintWeights) []SoftViolation {
	type key struct {
		sd  domain.SubdivisionID
		day int
		lec domain.LectureID
	}
	counts := map[key]int{}
	for _, g := range c.Genes {
		if !idx.EventIsOccurrenceHead[g.EventID] {
			continue
		}
		lec := idx.LectureByID[g.LectureID]
		slot := idx.SlotByID[g.StartSlotID]
		for _, sd := range lec.Subdivisions {
			counts[key{sd, slot.Day, lec.ID}]++
		}
	}

	var out []SoftViolation
	for k, count := range counts {
		lec := idx.LectureByID[k.lec]
		if count > lec.Duration {
			out = append(out, SoftViolation{
				Kind:    SCExcessiveDaily,
				Penalty: w.ExcessiveDaily * float64(count-lec.Duration),
				Detail:  detailKey(string(k.sd), k.day) + ":" + string(k.lec),
			})
		}
	}
	return out
}

// subdivisionDayCounts returns, per subdivision and day, the number of
// lecture occurrences (occurrence-head events) attended.
func subdivisionDayCounts(idx *domain.InputData, c *Chromosome) map[domain.SubdivisionID]map[int]int {
	out := map[domain.SubdivisionID]map[int]int{}
	for _, g := range c.Genes {
		if !idx.EventIsOccurrenceHead[g.EventID] {
			continue
		}
		lec := idx.LectureByID[g.LectureID]
		slot := idx.SlotByID[g.StartSlotID]
		for _, sd := range lec.Subdivisions {
			byDay, ok := out[sd]
			if !ok {
				byDay = map[int]int{}
				out[sd] = byDay
			}
			byDay[slot.Day]++
		}
	}
	return out
}

// evalEmptyDay implements SC6: 0 < count < min_per_day.
func evalEmptyDay(idx *domain.InputData, c *Chromosome, w ConstraintWeights) []SoftViolation {
	if w.MinLecturesPerDay <= 0 {
		return nil
	}
	counts := subdivisionDayCounts(idx, c)
	var out []SoftViolation
	for sd, byDay := range counts {
		for day, count := range byDay {
			if count > 0 && count < w.MinLecturesPerDay {
				out = append(out, SoftViolation{
					Kind:    SCEmptyDay,
					Penalty: w.EmptyDay * float64(w.MinLecturesPerDay-count),
					Detail:  detailKey(string(sd), day),
				})
			}
		}
	}
	return out
}

// evalFilledDay implements SC7: count > max_per_day (when configured).
func evalFilledDay(idx *domain.InputData, c *Chromosome, w ConstraintWeights) []SoftViolation {
	if w.MaxLecturesPerDay <= 0 {
		return nil
	}
	counts := subdivisionDayCounts(idx, c)
	var out []SoftViolation
	for sd, byDay := range counts {
		for day, count := range byDay {
			if count > w.MaxLecturesPerDay {
				out = append(out, SoftViolation{
					Kind:    SCFilledDay,
					Penalty: w.FilledDay * float64(count-w.MaxLecturesPerDay),
					Detail:  detailKey(string(sd), day),
				})
			}
		}
	}
	return out
}

// evalMultiDurationLate implements SC8: duration > 1 lecture starts in a
// slot whose period exceeds max_period - 2.
func evalMultiDurationLate(idx *domain.InputData, c *Chromosome, w ConstraintWeights) []SoftViolation {
	max := maxPeriod(idx)
	var out []SoftViolation
	for _, g := range c.Genes {
		if !idx.EventIsOccurrenceHead[g.EventID] {
			continue
		}
		lec := idx.LectureByID[g.LectureID]
		if lec.Duration <= 1 {
			continue
		}
		slot := idx.SlotByID[g.StartSlotID]
		if slot.Period > max-2 {
			out = append(out, SoftViolation{
				Kind:    SCMultiLate,
				Penalty: w.MultiLate,
				Detail:  string(g.EventID),
				Events:  []domain.EventID{g.EventID},
			})
		}
	}
	return out
}

// evalDeprioritized implements SC9: each assignment in a deprioritized
// day/slot/(day,slot) set contributes the respective penalty.
func evalDeprioritized(idx *domain.InputData, c *Chromosome, w ConstraintWeights) []SoftViolation {
	var out []SoftViolation
	for _, g := range c.Genes {
		if !idx.EventIsOccurrenceHead[g.EventID] {
			continue
		}
		slot := idx.SlotByID[g.StartSlotID]
		if w.DeprioritizedDays != nil {
			if _, bad := w.DeprioritizedDays[slot.Day]; bad {
				out = append(out, SoftViolation{Kind: SCDeprioritizedDay, Penalty: w.DeprioritizedDay, Detail: string(g.EventID)})
			}
		}
		if w.DeprioritizedSlotNumbers != nil {
			if _, bad := w.DeprioritizedSlotNumbers[slot.Period]; bad {
				out = append(out, SoftViolation{Kind: SCDeprioritizedSlot, Penalty: w.DeprioritizedSlot, Detail: string(g.EventID)})
			}
		}
		if w.DeprioritizedDaySlots != nil {
			if _, bad := w.DeprioritizedDaySlots[[2]int{slot.Day, slot.Period}]; bad {
				out = append(out, SoftViolation{Kind: SCDeprioritizedDaySlot, Penalty: w.DeprioritizedDaySlot, Detail: string(g.EventID)})
			}
		}
	}
	return out
}

// evalDailyDistribution implements SC10 (occurrence-based variant per spec
// §9): for lectures with count > 1, the population variance of occurrence
// counts across days, counting each occurrence on its start day. Penalized
// only when variance > 1.0.
func evalDailyDistribution(idx *domain.InputData, c *Chromosome, w ConstraintWeights) []SoftViolation {
	days := allDays(idx)
	if len(days) == 0 {
		return nil
	}

	counts := map[domain.LectureID]map[int]int{}
	for _, g := range c.Genes {
		if !idx.EventIsOccurrenceHead[g.EventID] {
			continue
		}
		lec := idx.LectureByID[g.LectureID]
		if lec.Count <= 1 {
			continue
		}
		slot := idx.SlotByID[g.StartSlotID]
		byDay, ok := counts[lec.ID]
		if !ok {
			byDay = map[int]int{}
			counts[lec.ID] = byDay
		}
		byDay[slot.Day]++
	}

	var out []SoftViolation
	for lecID, byDay := range counts {
		total := 0
		for _, d := range days {
			total += byDay[d]
		}
		mean := float64(total) / float64(len(days))
		var sumSq float64
		for _, d := range days {
			diff := float64(byDay[d]) - mean
			sumSq += diff * diff
		}
		variance := sumSq / float64(len(days))
		if variance > 1.0 {
			out = append(out, SoftViolation{
				Kind:    SCDistribution,
				Penalty: w.Distribution * variance,
				Detail:  string(lecID),
			})
		}
	}
	return out
}

func minMaxKeys(m map[int]struct{}) (min, max int) {
	first := true
	for k := range m {
		if first {
			min, max = k, k
			first = false
			continue
		}
		if k < min {
			min = k
		}
		if k > max {
			max = k
		}
	}
	return
}

func longestRun(periods map[int]struct{}) int {
	keys := make([]int, 0, len(periods))
	for k := range periods {
		keys = append(keys, k)
	}
	sortInts(keys)

	best, cur := 0, 0
	for i, k := range keys {
		if i == 0 || k != keys[i-1]+1 {
			cur = 1
		} else {
			cur++
		}
		if cur > best {
			best = cur
		}
	}
	return best
}

func detailKey(id string, day int) string {
	return id + ":" + itoa(day)
}
