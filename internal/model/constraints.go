package model

// The constraint engine is a registry of named scoring functions, each taking
// the indexed assignment state and returning a (hard, soft) contribution.
// Symmetric pairs are visited once through unordered-pair iteration, so no
// violation is ever double-counted.

type Constraint struct {
	Name string
	Eval func(state *constraintState) Score
}

// Constraints returns the full rule set in evaluation order: hard rules
// first, then soft preferences.
func Constraints() []Constraint {
	return []Constraint{
		{Name: "Teacher time overlap", Eval: teacherTimeOverlap},
		{Name: "Student group time overlap", Eval: studentGroupTimeOverlap},
		{Name: "Room time overlap", Eval: roomTimeOverlap},
		{Name: "Teacher max hours exceeded", Eval: teacherMaxHours},
		{Name: "Lab not in lab room", Eval: labInLabRoom},
		{Name: "Lecture in lab room", Eval: lectureInClassroom},
		{Name: "Room capacity exceeded", Eval: roomCapacity},
		{Name: "Lab not in valid time block", Eval: labInValidTimeBlock},
		{Name: "Lecture in lab time block", Eval: lectureInValidTimeBlock},
		{Name: "Lab parts not consecutive", Eval: consecutiveLabParts},
		{Name: "Lab parts in different rooms", Eval: sameRoomForLabParts},
		{Name: "Same room for different lab batches at same time", Eval: differentRoomsForLabBatches},
		{Name: "Incorrect scheduled hours", Eval: requiredHours},
		{Name: "6-hour lab incorrectly batched", Eval: noBatchingForSixHourLabs},
		{Name: "Unsplit 6-hour lab in undersized room", Eval: sixHourLabRoomCapacity},
		{Name: "Teacher shift violation", Eval: teacherShift},
		{Name: "Student group break violation", Eval: studentGroupBreak},

		{Name: "Teacher gap between classes", Eval: teacherGaps},
		{Name: "Student group gap between classes", Eval: studentGroupGaps},
		{Name: "Course room continuity", Eval: courseRoomContinuity},
		{Name: "Room not in preferred block", Eval: roomBlockPreference},
		{Name: "Lab batch overlap", Eval: labBatchOverlap},
	}
}

// Structural weights for the 6-hour-lab rules: effectively hard constraints
// that must dominate ordinary hard violations during search.
const (
	sixHourBatchWeight   = 100
	sixHourRoomCapWeight = 50
)

// constraintState indexes the session list by the grouping attributes the
// rules aggregate over. It is rebuilt per evaluation and must only be read.
type constraintState struct {
	problem   *Problem
	byTeacher map[uint64][]*Session
	byGroup   map[uint64][]*Session
	byRoom    map[uint64][]*Session // assigned sessions only
	byParent  map[string][]*Session
	byPairing map[[2]uint64][]*Session // (group, course)
}

func newConstraintState(problem *Problem) *constraintState {
	state := &constraintState{
		problem:   problem,
		byTeacher: make(map[uint64][]*Session),
		byGroup:   make(map[uint64][]*Session),
		byRoom:    make(map[uint64][]*Session),
		byParent:  make(map[string][]*Session),
		byPairing: make(map[[2]uint64][]*Session),
	}

	for _, session := range problem.Sessions {
		state.byTeacher[session.Teacher.Id] = append(state.byTeacher[session.Teacher.Id], session)
		state.byGroup[session.Group.Id] = append(state.byGroup[session.Group.Id], session)
		if session.Room != nil {
			state.byRoom[session.Room.Id] = append(state.byRoom[session.Room.Id], session)
		}
		if session.ParentLabId != "" {
			state.byParent[session.ParentLabId] = append(state.byParent[session.ParentLabId], session)
		}
		pairing := [2]uint64{session.Group.Id, session.Course.Id}
		state.byPairing[pairing] = append(state.byPairing[pairing], session)
	}

	return state
}

// gapBetweenSlots is the idle time between two same-day slots in whole
// periods: max(0, (later.start - earlier.end) / period).
func gapBetweenSlots(earlier, later *TimeSlot, periodMinutes int) int {
	if earlier == nil || later == nil || earlier.Day != later.Day {
		return 0
	}
	gap := later.Start - earlier.End
	if gap <= 0 {
		return 0
	}
	return gap / periodMinutes
}

func countOverlappingPairs(sessions []*Session) int {
	violations := 0
	for i := 0; i < len(sessions)-1; i++ {
		for j := i + 1; j < len(sessions); j++ {
			if sessions[i].Slot.Overlaps(sessions[j].Slot) {
				violations++
			}
		}
	}
	return violations
}

func teacherTimeOverlap(state *constraintState) Score {
	hard := 0
	for _, sessions := range state.byTeacher {
		hard += countOverlappingPairs(sessions)
	}
	return Score{Hard: hard}
}

func studentGroupTimeOverlap(state *constraintState) Score {
	hard := 0
	for _, sessions := range state.byGroup {
		hard += countOverlappingPairs(sessions)
	}
	return Score{Hard: hard}
}

func roomTimeOverlap(state *constraintState) Score {
	hard := 0
	for _, sessions := range state.byRoom {
		hard += countOverlappingPairs(sessions)
	}
	return Score{Hard: hard}
}

// teacherMaxHours penalizes by the excess over the weekly ceiling, not merely
// by a flag.
func teacherMaxHours(state *constraintState) Score {
	hard := 0
	for _, sessions := range state.byTeacher {
		total := 0
		for _, session := range sessions {
			if session.Slot != nil {
				total += session.DurationHours()
			}
		}
		if limit := sessions[0].Teacher.MaxHours; total > limit {
			hard += total - limit
		}
	}
	return Score{Hard: hard}
}

func labInLabRoom(state *constraintState) Score {
	hard := 0
	for _, session := range state.problem.Sessions {
		if session.IsLab() && session.Room != nil && !session.Room.IsLab {
			hard++
		}
	}
	return Score{Hard: hard}
}

func lectureInClassroom(state *constraintState) Score {
	hard := 0
	for _, session := range state.problem.Sessions {
		if !session.IsLab() && session.Room != nil && session.Room.IsLab {
			hard++
		}
	}
	return Score{Hard: hard}
}

func roomCapacity(state *constraintState) Score {
	hard := 0
	for _, session := range state.problem.Sessions {
		if session.Room != nil && session.RequiredCapacity() > session.Room.MaxCap {
			hard++
		}
	}
	return Score{Hard: hard}
}

func labInValidTimeBlock(state *constraintState) Score {
	hard := 0
	for _, session := range state.problem.Sessions {
		if session.IsLab() && session.Slot != nil && !session.Slot.IsLab {
			hard++
		}
	}
	return Score{Hard: hard}
}

func lectureInValidTimeBlock(state *constraintState) Score {
	hard := 0
	for _, session := range state.problem.Sessions {
		if !session.IsLab() && session.Slot != nil && session.Slot.IsLab {
			hard++
		}
	}
	return Score{Hard: hard}
}

// consecutiveLabParts requires the two atoms of a lab block to sit on the same
// day in adjacent, touching lab-grid slots. An unassigned partner counts as a
// violation too.
func consecutiveLabParts(state *constraintState) Score {
	hard := 0
	for _, parts := range state.byParent {
		if len(parts) != 2 {
			hard++
			continue
		}
		first, second := parts[0], parts[1]
		if first.Slot == nil || second.Slot == nil {
			hard++
			continue
		}
		if !first.Slot.AdjacentTo(second.Slot) {
			hard++
		}
	}
	return Score{Hard: hard}
}

func sameRoomForLabParts(state *constraintState) Score {
	hard := 0
	for _, parts := range state.byParent {
		if len(parts) != 2 {
			continue
		}
		first, second := parts[0], parts[1]
		if first.Room == nil || second.Room == nil {
			hard++
		} else if first.Room.Id != second.Room.Id {
			hard++
		}
	}
	return Score{Hard: hard}
}

func differentRoomsForLabBatches(state *constraintState) Score {
	hard := 0
	for _, sessions := range state.byPairing {
		for i := 0; i < len(sessions)-1; i++ {
			for j := i + 1; j < len(sessions); j++ {
				first, second := sessions[i], sessions[j]
				if !first.IsLab() || !second.IsLab() || first.Batch == second.Batch {
					continue
				}
				if first.Slot != nil && second.Slot != nil && first.Slot.Id == second.Slot.Id &&
					first.Room != nil && second.Room != nil && first.Room.Id == second.Room.Id {
					hard++
				}
			}
		}
	}
	return Score{Hard: hard}
}

// requiredHours checks the scheduled-hour accounting per (group, course):
// fully assigned lecture and tutorial atoms must match the declared hours, and
// lab atoms per batch must match the (even-rounded) practical hours. Sessions
// with an unset slot or room count as unscheduled.
func requiredHours(state *constraintState) Score {
	hard := 0
	for _, sessions := range state.byPairing {
		course := sessions[0].Course

		lectures, tutorials := 0, 0
		labCounts := make(map[LabBatch]int)
		labExpected := make(map[LabBatch]int)
		for _, session := range sessions {
			switch session.Type {
			case Lecture:
				if session.Assigned() {
					lectures++
				}
			case Tutorial:
				if session.Assigned() {
					tutorials++
				}
			case Lab:
				labExpected[session.Batch] = course.PracticalHours - course.PracticalHours%2
				if course.PracticalHours == 6 {
					labExpected[session.Batch] = 6
				}
				if session.Assigned() {
					labCounts[session.Batch]++
				}
			}
		}

		hard += abs(lectures - course.LectureHours)
		hard += abs(tutorials - course.TutorialHours)
		for batch, expected := range labExpected {
			hard += abs(labCounts[batch] - expected)
		}
	}
	return Score{Hard: hard}
}

func noBatchingForSixHourLabs(state *constraintState) Score {
	hard := 0
	for _, session := range state.problem.Sessions {
		if session.IsLab() && session.Course.PracticalHours == 6 && session.Batch != NoBatch {
			hard += sixHourBatchWeight
		}
	}
	return Score{Hard: hard}
}

func sixHourLabRoomCapacity(state *constraintState) Score {
	hard := 0
	for _, session := range state.problem.Sessions {
		if session.IsLab() && session.Course.PracticalHours == 6 && session.Batch == NoBatch &&
			session.Room != nil && session.Room.MaxCap < session.Group.Strength {
			hard += sixHourRoomCapWeight
		}
	}
	return Score{Hard: hard}
}

func teacherShift(state *constraintState) Score {
	hard := 0
	for _, session := range state.problem.Sessions {
		if session.Slot != nil && !session.Teacher.WithinShift(session.Slot) {
			hard++
		}
	}
	return Score{Hard: hard}
}

// studentGroupBreak rejects sessions on break slots and sessions intersecting
// the group's own lunch window.
func studentGroupBreak(state *constraintState) Score {
	hard := 0
	for _, session := range state.problem.Sessions {
		slot := session.Slot
		if slot == nil {
			continue
		}
		if slot.IsBreak {
			hard++
			continue
		}
		group := session.Group
		if group.BreakEnd > group.BreakStart && slot.Start < group.BreakEnd && slot.End > group.BreakStart {
			hard++
		}
	}
	return Score{Hard: hard}
}

func teacherGaps(state *constraintState) Score {
	soft := 0
	for _, sessions := range state.byTeacher {
		soft += sumDayGaps(sessions, state.problem.PeriodMinutes)
	}
	return Score{Soft: soft}
}

func studentGroupGaps(state *constraintState) Score {
	soft := 0
	for _, sessions := range state.byGroup {
		soft += sumDayGaps(sessions, state.problem.PeriodMinutes)
	}
	return Score{Soft: soft}
}

// sumDayGaps penalizes every ordered same-day pair (earlier start, later
// start) by the idle periods between them.
func sumDayGaps(sessions []*Session, periodMinutes int) int {
	total := 0
	for i := 0; i < len(sessions)-1; i++ {
		for j := i + 1; j < len(sessions); j++ {
			first, second := sessions[i].Slot, sessions[j].Slot
			if first == nil || second == nil || first.Day != second.Day || first.Start == second.Start {
				continue
			}
			if first.Start > second.Start {
				first, second = second, first
			}
			total += gapBetweenSlots(first, second, periodMinutes)
		}
	}
	return total
}

// courseRoomContinuity prefers one room across a group's non-lab sessions of
// the same course.
func courseRoomContinuity(state *constraintState) Score {
	soft := 0
	for _, sessions := range state.byPairing {
		rooms := make(map[uint64]bool)
		for _, session := range sessions {
			if !session.IsLab() && session.Room != nil {
				rooms[session.Room.Id] = true
			}
		}
		if len(rooms) > 1 {
			soft += len(rooms) - 1
		}
	}
	return Score{Soft: soft}
}

func roomBlockPreference(state *constraintState) Score {
	soft := 0
	for _, session := range state.problem.Sessions {
		if session.Room == nil {
			continue
		}
		preferred, ok := state.problem.PreferredBlocks[session.Course.Dept]
		if ok && session.Room.Block != preferred {
			soft++
		}
	}
	return Score{Soft: soft}
}

// labBatchOverlap discourages the two batches of one (group, course) pairing
// running at overlapping times; the hard overlap rules already dominate, this
// acts as a tie-break.
func labBatchOverlap(state *constraintState) Score {
	soft := 0
	for _, sessions := range state.byPairing {
		for i := 0; i < len(sessions)-1; i++ {
			for j := i + 1; j < len(sessions); j++ {
				first, second := sessions[i], sessions[j]
				if first.IsLab() && second.IsLab() && first.Batch != second.Batch && first.Slot.Overlaps(second.Slot) {
					soft++
				}
			}
		}
	}
	return Score{Soft: soft}
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
