package model

import (
	"github.com/samber/lo"
)

// Problem is one scheduling instance: the immutable facts plus the session
// list whose Slot/Room fields the solver mutates. Evaluation is a pure
// function of the current assignment and is deterministic for a fixed state.
type Problem struct {
	Sessions []*Session
	Slots    []*TimeSlot
	Rooms    []*Room
	Teachers []*Teacher
	Groups   []*StudentGroup

	// PreferredBlocks maps a department to the building block its rooms
	// should preferably come from.
	PreferredBlocks map[string]string
	// PeriodMinutes is the atomic period length the gap penalties divide by.
	PeriodMinutes int

	constraints []Constraint
}

func NewProblem(sessions []*Session, slots []*TimeSlot, rooms []*Room, teachers []*Teacher, groups []*StudentGroup, preferredBlocks map[string]string, periodMinutes int) *Problem {
	if periodMinutes <= 0 {
		periodMinutes = 50
	}
	return &Problem{
		Sessions:        sessions,
		Slots:           slots,
		Rooms:           rooms,
		Teachers:        teachers,
		Groups:          groups,
		PreferredBlocks: preferredBlocks,
		PeriodMinutes:   periodMinutes,
		constraints:     Constraints(),
	}
}

// ConstraintScore is one named entry of the evaluation breakdown.
type ConstraintScore struct {
	Name  string
	Score Score
}

// Evaluation carries the total score plus the per-constraint breakdown, in
// registry order.
type Evaluation struct {
	Score     Score
	Breakdown []ConstraintScore
}

// Evaluate scores the current assignment against the full constraint
// registry.
func (problem *Problem) Evaluate() Evaluation {
	state := newConstraintState(problem)

	evaluation := Evaluation{Breakdown: make([]ConstraintScore, 0, len(problem.constraints))}
	for _, constraint := range problem.constraints {
		score := constraint.Eval(state)
		evaluation.Score = evaluation.Score.Add(score)
		evaluation.Breakdown = append(evaluation.Breakdown, ConstraintScore{Name: constraint.Name, Score: score})
	}
	return evaluation
}

// Score is a shorthand for Evaluate when the breakdown is not needed.
func (problem *Problem) Score() Score {
	return problem.Evaluate().Score
}

// Unassigned returns the sessions still missing a slot or a room.
func (problem *Problem) Unassigned() []*Session {
	return lo.Filter(problem.Sessions, func(session *Session, _ int) bool {
		return !session.Assigned()
	})
}

// TheorySlots returns the non-break theory-grid slots.
func (problem *Problem) TheorySlots() []*TimeSlot {
	return lo.Filter(problem.Slots, func(slot *TimeSlot, _ int) bool {
		return !slot.IsLab && !slot.IsBreak
	})
}

// LabSlots returns the lab-grid slots.
func (problem *Problem) LabSlots() []*TimeSlot {
	return lo.Filter(problem.Slots, func(slot *TimeSlot, _ int) bool {
		return slot.IsLab && !slot.IsBreak
	})
}

// Classrooms returns the non-lab rooms.
func (problem *Problem) Classrooms() []*Room {
	return lo.Filter(problem.Rooms, func(room *Room, _ int) bool {
		return !room.IsLab
	})
}

// LabRooms returns the lab rooms.
func (problem *Problem) LabRooms() []*Room {
	return lo.Filter(problem.Rooms, func(room *Room, _ int) bool {
		return room.IsLab
	})
}

// Clone deep-copies the session list so a solver worker can mutate its own
// candidate state; the immutable facts are shared.
func (problem *Problem) Clone() *Problem {
	sessions := make([]*Session, len(problem.Sessions))
	for i, session := range problem.Sessions {
		clone := *session
		sessions[i] = &clone
	}
	clone := *problem
	clone.Sessions = sessions
	return &clone
}
