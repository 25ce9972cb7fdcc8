package model

import "fmt"

type SessionType int

const (
	Lecture SessionType = iota
	Tutorial
	Lab
)

func (sessionType SessionType) String() string {
	switch sessionType {
	case Lecture:
		return "lecture"
	case Tutorial:
		return "tutorial"
	case Lab:
		return "lab"
	}
	return "unknown"
}

// LabBatch identifies one of the two halves of a split lab. NoBatch marks
// lecture/tutorial sessions and unsplit 6-hour labs.
type LabBatch uint8

const NoBatch LabBatch = 0

// Session is the planning entity: one atomic hour-unit of teaching obligation.
// Slot and Room are the only fields the solver mutates; everything else is
// read-only context fixed at generation time. Lab atoms are always paired: the
// two sessions sharing a ParentLabId must occupy one contiguous 2-period lab
// block in the same room.
type Session struct {
	Id          uint64
	Course      *Course
	Teacher     *Teacher
	Group       *StudentGroup
	Type        SessionType
	Batch       LabBatch
	ParentLabId string

	// Decision variables, unset until the solver assigns them.
	Slot *TimeSlot
	Room *Room
}

func (session *Session) IsLab() bool {
	return session.Type == Lab
}

func (session *Session) Assigned() bool {
	return session.Slot != nil && session.Room != nil
}

// DurationHours is 1 for every atom: a 2-hour lab is an emergent property of
// two consecutive assignments, not of one record.
func (session *Session) DurationHours() int {
	return 1
}

func (session *Session) RequiredCapacity() int {
	if session.Type == Lab && session.Batch != NoBatch {
		return session.Group.BatchStrength()
	}
	return session.Group.Strength
}

func (session *Session) BatchLabel() string {
	if session.Type != Lab {
		return ""
	}
	if session.Batch == NoBatch {
		return "Lab"
	}
	return fmt.Sprintf("Lab Batch %d", session.Batch)
}
