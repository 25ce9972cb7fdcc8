package model

import (
	"fmt"
	"strconv"
	"strings"
)

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// TimeSlot is a (day, start, end) interval on one of the two weekly grids.
// SlotIndex is the slot's position within its own grid for that day; lab and
// theory grids are indexed independently.
type TimeSlot struct {
	Id        uint64
	Day       int // 0=Monday .. 4=Friday
	Start     int // minutes since midnight
	End       int
	IsLab     bool
	IsBreak   bool
	SlotIndex int
}

func (slot *TimeSlot) String() string {
	return fmt.Sprintf("%v %02d:%02d-%02d:%02d", dayNames[slot.Day], slot.Start/60, slot.Start%60, slot.End/60, slot.End%60)
}

// Overlaps uses interval overlap rather than identity, since lab and theory
// grids interleave over the same wall-clock range.
func (slot *TimeSlot) Overlaps(other *TimeSlot) bool {
	if slot == nil || other == nil || slot.Day != other.Day {
		return false
	}
	return slot.Start < other.End && other.Start < slot.End
}

// AdjacentTo reports whether two slots of the same grid form one contiguous
// physical block: same day, slot indices differing by exactly one and no
// wall-clock gap between them. Block validity is derived entirely from the
// grid structure.
func (slot *TimeSlot) AdjacentTo(other *TimeSlot) bool {
	if slot == nil || other == nil || slot.Day != other.Day || slot.IsLab != other.IsLab {
		return false
	}
	earlier, later := slot, other
	if earlier.Start > later.Start {
		earlier, later = later, earlier
	}
	return later.SlotIndex-earlier.SlotIndex == 1 && earlier.End == later.Start
}

// SlotTemplate is one grid entry in wall-clock notation, e.g. {"8:00", "8:50"}.
type SlotTemplate struct {
	Start string
	End   string
	Break bool
}

// GridTemplate describes the weekly slot layout. Theory slots host lecture and
// tutorial sessions; lab slots host lab atoms.
type GridTemplate struct {
	Days   int
	Theory []SlotTemplate
	Lab    []SlotTemplate
}

// DefaultGrid is the institutional weekly template: eleven 50-minute theory
// periods and twelve lab periods paired into six 2-period blocks per day.
func DefaultGrid() GridTemplate {
	return GridTemplate{
		Days: 5,
		Theory: []SlotTemplate{
			{Start: "8:00", End: "8:50"},
			{Start: "9:00", End: "9:50"},
			{Start: "10:00", End: "10:50"},
			{Start: "11:00", End: "11:50"},
			{Start: "12:00", End: "12:50"},
			{Start: "13:00", End: "13:50"},
			{Start: "14:00", End: "14:50"},
			{Start: "15:00", End: "15:50"},
			{Start: "16:00", End: "16:50"},
			{Start: "17:00", End: "17:50"},
			{Start: "18:00", End: "18:50"},
		},
		Lab: []SlotTemplate{
			{Start: "8:00", End: "8:50"},
			{Start: "8:50", End: "9:40"},
			{Start: "9:50", End: "10:40"},
			{Start: "10:40", End: "11:30"},
			{Start: "11:50", End: "12:40"},
			{Start: "12:40", End: "13:30"},
			{Start: "13:50", End: "14:40"},
			{Start: "14:40", End: "15:30"},
			{Start: "15:50", End: "16:40"},
			{Start: "16:40", End: "17:30"},
			{Start: "17:50", End: "18:40"},
			{Start: "18:40", End: "19:30"},
		},
	}
}

// BuildWeeklySlots materializes the grid template into immutable slots with
// strictly increasing ids: all theory slots first, then all lab slots.
func BuildWeeklySlots(template GridTemplate) ([]*TimeSlot, error) {
	if template.Days <= 0 || template.Days > len(dayNames) {
		return nil, fmt.Errorf("invalid number of days: %v", template.Days)
	}

	slots := make([]*TimeSlot, 0, template.Days*(len(template.Theory)+len(template.Lab)))
	var id uint64

	for day := 0; day < template.Days; day++ {
		for index, entry := range template.Theory {
			slot, err := buildSlot(id, day, index, entry, false)
			if err != nil {
				return nil, err
			}
			slots = append(slots, slot)
			id++
		}
	}
	for day := 0; day < template.Days; day++ {
		for index, entry := range template.Lab {
			slot, err := buildSlot(id, day, index, entry, true)
			if err != nil {
				return nil, err
			}
			slots = append(slots, slot)
			id++
		}
	}

	return slots, nil
}

// PeriodMinutes is the atomic period length, taken from the first theory slot.
func (template GridTemplate) PeriodMinutes() int {
	if len(template.Theory) == 0 {
		return 50
	}
	start, err1 := parseClock(template.Theory[0].Start)
	end, err2 := parseClock(template.Theory[0].End)
	if err1 != nil || err2 != nil || end <= start {
		return 50
	}
	return end - start
}

func buildSlot(id uint64, day, index int, entry SlotTemplate, isLab bool) (*TimeSlot, error) {
	start, err := parseClock(entry.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(entry.End)
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, fmt.Errorf("slot %v-%v must end after it starts", entry.Start, entry.End)
	}
	return &TimeSlot{
		Id:        id,
		Day:       day,
		Start:     start,
		End:       end,
		IsLab:     isLab,
		IsBreak:   entry.Break,
		SlotIndex: index,
	}, nil
}

func parseClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("cannot parse clock value %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("cannot parse clock value %q: %v", clock, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("cannot parse clock value %q: %v", clock, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock value %q out of range", clock)
	}
	return hour*60 + minute, nil
}
