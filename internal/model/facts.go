package model

import (
	"fmt"
	"math/rand"
)

const (
	// MaxTeacherHours is the default weekly teaching ceiling.
	MaxTeacherHours = 21
	// ClassStrength is the nominal student-group size.
	ClassStrength = 70
)

type Room struct {
	Id     uint64
	Number string
	Block  string
	IsLab  bool
	MinCap int
	MaxCap int
}

func (room *Room) String() string {
	kind := "Classroom"
	if room.IsLab {
		kind = "Lab"
	}
	return fmt.Sprintf("%v-%v (%v)", room.Block, room.Number, kind)
}

type Course struct {
	Id             uint64
	Code           string
	Name           string
	Type           string
	LectureHours   int
	PracticalHours int
	TutorialHours  int
	Credits        int
	Dept           string
}

func (course *Course) String() string {
	return fmt.Sprintf("%v - %v", course.Code, course.Name)
}

// lunchWindows is the small rotation of lunch-slot choices a group's daily
// break window is drawn from, keyed by group id modulo the rotation length.
var lunchWindows = [][2]string{
	{"11:00", "11:50"},
	{"11:50", "12:40"},
	{"12:40", "13:30"},
}

type StudentGroup struct {
	Id         uint64
	Name       string
	Department string
	Year       int
	Strength   int
	BreakStart int // minutes since midnight
	BreakEnd   int
}

// NewStudentGroup derives the group's lunch window deterministically from its
// id, so identical inputs always yield identical groups.
func NewStudentGroup(id uint64, name, department string, year, strength int) *StudentGroup {
	window := lunchWindows[id%uint64(len(lunchWindows))]
	start, _ := parseClock(window[0])
	end, _ := parseClock(window[1])
	return &StudentGroup{
		Id:         id,
		Name:       name,
		Department: department,
		Year:       year,
		Strength:   strength,
		BreakStart: start,
		BreakEnd:   end,
	}
}

func (group *StudentGroup) String() string {
	return group.Name
}

// BatchStrength is the per-batch capacity requirement of a split lab.
func (group *StudentGroup) BatchStrength() int {
	return (group.Strength + 1) / 2
}

type Shift int

const (
	ShiftMorning Shift = iota
	ShiftAfternoon
	ShiftEvening
)

func (shift Shift) String() string {
	switch shift {
	case ShiftMorning:
		return "MORNING"
	case ShiftAfternoon:
		return "AFTERNOON"
	case ShiftEvening:
		return "EVENING"
	}
	return "UNKNOWN"
}

// shiftWindows maps each named shift to its daily wall-clock window in minutes.
var shiftWindows = map[Shift][2]int{
	ShiftMorning:   {8 * 60, 15 * 60},
	ShiftAfternoon: {10 * 60, 17 * 60},
	ShiftEvening:   {12 * 60, 19 * 60},
}

type shiftAllotment struct {
	Shift Shift
	Days  int
}

// ShiftPatterns is the fixed catalog of weekly day-count patterns: 2-2-1,
// 2-1-2 and 1-2-2 spreads across the three shifts.
var ShiftPatterns = [][]shiftAllotment{
	{{ShiftMorning, 2}, {ShiftAfternoon, 2}, {ShiftEvening, 1}},
	{{ShiftMorning, 2}, {ShiftEvening, 2}, {ShiftAfternoon, 1}},
	{{ShiftAfternoon, 2}, {ShiftEvening, 2}, {ShiftMorning, 1}},
	{{ShiftMorning, 2}, {ShiftAfternoon, 1}, {ShiftEvening, 2}},
	{{ShiftMorning, 2}, {ShiftEvening, 1}, {ShiftAfternoon, 2}},
	{{ShiftAfternoon, 2}, {ShiftMorning, 1}, {ShiftEvening, 2}},
	{{ShiftMorning, 1}, {ShiftAfternoon, 2}, {ShiftEvening, 2}},
	{{ShiftMorning, 1}, {ShiftEvening, 2}, {ShiftAfternoon, 2}},
	{{ShiftAfternoon, 1}, {ShiftEvening, 2}, {ShiftMorning, 2}},
}

type Teacher struct {
	Id        uint64
	StaffCode string
	FullName  string
	Email     string
	MaxHours  int
	DayShifts map[int]Shift // nil means the teacher is unrestricted
}

func NewTeacher(id uint64, staffCode, firstName, lastName, email string) *Teacher {
	fullName := firstName
	if lastName != "" {
		fullName = firstName + " " + lastName
	}
	return &Teacher{
		Id:        id,
		StaffCode: staffCode,
		FullName:  fullName,
		Email:     email,
		MaxHours:  MaxTeacherHours,
	}
}

func (teacher *Teacher) String() string {
	return teacher.FullName
}

// AssignShiftPlan fixes the teacher's weekly day->shift mapping as a pure
// function of (teacher id, seed): no global RNG is involved, so identical
// inputs reproduce identical plans.
func (teacher *Teacher) AssignShiftPlan(seed int64, days int) {
	rng := rand.New(rand.NewSource(seed ^ int64(teacher.Id*0x9e3779b97f4a7c15)))
	pattern := ShiftPatterns[rng.Intn(len(ShiftPatterns))]
	order := rng.Perm(days)

	plan := make(map[int]Shift, days)
	current := 0
	for _, allotment := range pattern {
		for n := 0; n < allotment.Days; n++ {
			if current < len(order) {
				plan[order[current]] = allotment.Shift
				current++
			}
		}
	}
	teacher.DayShifts = plan
}

// WithinShift reports whether the slot lies fully inside the teacher's shift
// window for that day. Teachers without a shift plan are unrestricted.
func (teacher *Teacher) WithinShift(slot *TimeSlot) bool {
	if teacher.DayShifts == nil {
		return true
	}
	shift, ok := teacher.DayShifts[slot.Day]
	if !ok {
		return false
	}
	window := shiftWindows[shift]
	return window[0] <= slot.Start && slot.End <= window[1]
}
