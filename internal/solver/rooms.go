package solver

import (
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/campus-scheduling/timetabler/internal/model"
)

type unassignableError struct{}

func (err unassignableError) Error() string {
	return "not all sessions can be assigned a distinct room"
}

// repairTheoryRooms rebuilds the room assignment of the lecture and tutorial
// sessions slot by slot through maximum bipartite matching, resolving room
// double-bookings the hill climb left behind. Lab rooms are excluded: lab
// atoms choose their room pairwise so both parts stay together.
func repairTheoryRooms(problem *model.Problem, logger *zap.Logger) {
	classrooms := problem.Classrooms()
	if len(classrooms) == 0 {
		return
	}

	bySlot := make(map[uint64][]*model.Session)
	for _, session := range problem.Sessions {
		if !session.IsLab() && session.Slot != nil {
			bySlot[session.Slot.Id] = append(bySlot[session.Slot.Id], session)
		}
	}

	current := problem.Score()
	for _, sessions := range bySlot {
		if !hasRoomConflict(sessions) {
			continue
		}

		matched, err := matchRooms(sessions, classrooms)
		if _, ok := err.(unassignableError); ok {
			logger.Warn("cannot rematch rooms for slot",
				zap.Stringer("slot", sessions[0].Slot),
				zap.Int("sessions", len(sessions)))
			continue
		} else if err != nil {
			logger.Warn("room matching failed", zap.Error(err))
			continue
		}

		previous := lo.Map(sessions, func(session *model.Session, _ int) *model.Room { return session.Room })
		for session, room := range matched {
			session.Room = room
		}

		// Keep the rematch only if it does not regress the overall score.
		repaired := problem.Score()
		if current.Better(repaired) {
			for i, session := range sessions {
				session.Room = previous[i]
			}
		} else {
			current = repaired
		}
	}
}

func hasRoomConflict(sessions []*model.Session) bool {
	seen := make(map[uint64]bool, len(sessions))
	for _, session := range sessions {
		if session.Room == nil {
			return true
		}
		if seen[session.Room.Id] {
			return true
		}
		seen[session.Room.Id] = true
	}
	return false
}

// matchRooms computes a maximum matching between sessions and feasible rooms;
// a matching smaller than the session count means the slot is over-subscribed.
func matchRooms(sessions []*model.Session, rooms []*model.Room) (map[*model.Session]*model.Room, error) {
	neighbors := func(sessionAny any, roomAny any) (bool, error) {
		session := sessionAny.(*model.Session)
		room := roomAny.(*model.Room)
		return session.RequiredCapacity() <= room.MaxCap, nil
	}

	sessionsAny := lo.Map(sessions, func(session *model.Session, _ int) any { return session })
	roomsAny := lo.Map(rooms, func(room *model.Room, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(sessionsAny, roomsAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()
	if len(matching) < len(sessions) {
		return nil, unassignableError{}
	}

	assignments := make(map[*model.Session]*model.Room, len(sessions))
	for _, edge := range matching {
		sessionIndex, roomIndex := edge.Node1, edge.Node2-len(sessions)
		assignments[sessions[sessionIndex]] = rooms[roomIndex]
	}
	return assignments, nil
}
