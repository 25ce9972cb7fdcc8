package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestBuildWeeklySlots(t *testing.T) {
	// Arrange
	grid := DefaultGrid()

	// Act
	slots, err := BuildWeeklySlots(grid)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, slots, 5*(11+12))

	theory := lo.Filter(slots, func(slot *TimeSlot, _ int) bool { return !slot.IsLab })
	labs := lo.Filter(slots, func(slot *TimeSlot, _ int) bool { return slot.IsLab })
	assert.Len(t, theory, 5*11)
	assert.Len(t, labs, 5*12)

	for i, slot := range slots {
		assert.Equal(t, uint64(i), slot.Id)
	}
	// Theory slots come first
	assert.False(t, slots[0].IsLab)
	assert.True(t, slots[len(slots)-1].IsLab)
}

func TestBuildWeeklySlotsRejectsInvalidTemplates(t *testing.T) {
	t.Run("no days", func(t *testing.T) {
		_, err := BuildWeeklySlots(GridTemplate{Days: 0})
		assert.Error(t, err)
	})

	t.Run("inverted slot", func(t *testing.T) {
		grid := GridTemplate{Days: 1, Theory: []SlotTemplate{{Start: "9:00", End: "8:00"}}}
		_, err := BuildWeeklySlots(grid)
		assert.Error(t, err)
	})

	t.Run("malformed clock", func(t *testing.T) {
		grid := GridTemplate{Days: 1, Theory: []SlotTemplate{{Start: "nine", End: "9:50"}}}
		_, err := BuildWeeklySlots(grid)
		assert.Error(t, err)
	})
}

func TestOverlaps(t *testing.T) {
	// Arrange: a theory slot and a lab slot sharing wall-clock time
	theory := &TimeSlot{Day: 0, Start: 9 * 60, End: 9*60 + 50}
	lab := &TimeSlot{Day: 0, Start: 8*60 + 50, End: 9*60 + 40, IsLab: true}
	otherDay := &TimeSlot{Day: 1, Start: 9 * 60, End: 9*60 + 50}
	touching := &TimeSlot{Day: 0, Start: 9*60 + 50, End: 10*60 + 40}

	// Assert
	assert.True(t, theory.Overlaps(lab))
	assert.True(t, lab.Overlaps(theory))
	assert.False(t, theory.Overlaps(otherDay))
	assert.False(t, theory.Overlaps(touching))
	assert.False(t, theory.Overlaps(nil))
}

func TestAdjacentTo(t *testing.T) {
	// Arrange: the first three lab slots of one day from the default grid
	slots, err := BuildWeeklySlots(DefaultGrid())
	assert.NoError(t, err)
	labs := lo.Filter(slots, func(slot *TimeSlot, _ int) bool { return slot.IsLab && slot.Day == 0 })

	// Assert: consecutive indices with touching times form a block
	assert.True(t, labs[0].AdjacentTo(labs[1]))
	assert.True(t, labs[1].AdjacentTo(labs[0]))

	// A physical-block boundary (9:40 vs 9:50) is not adjacent
	assert.False(t, labs[1].AdjacentTo(labs[2]))
	assert.False(t, labs[0].AdjacentTo(labs[2]))

	// Different grids and different days never pair
	theory := lo.Filter(slots, func(slot *TimeSlot, _ int) bool { return !slot.IsLab && slot.Day == 0 })
	assert.False(t, labs[0].AdjacentTo(theory[0]))
	nextDay := lo.Filter(slots, func(slot *TimeSlot, _ int) bool { return slot.IsLab && slot.Day == 1 })
	assert.False(t, labs[0].AdjacentTo(nextDay[1]))
}

func TestPeriodMinutes(t *testing.T) {
	assert.Equal(t, 50, DefaultGrid().PeriodMinutes())
	assert.Equal(t, 50, GridTemplate{}.PeriodMinutes())
	assert.Equal(t, 60, GridTemplate{Theory: []SlotTemplate{{Start: "8:00", End: "9:00"}}}.PeriodMinutes())
}
