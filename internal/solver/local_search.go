package solver

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/campus-scheduling/timetabler/internal/model"
)

// ErrNoCandidate is returned when the search cannot produce any candidate at
// all, which is fatal for the run and distinct from "feasible but suboptimal".
var ErrNoCandidate = errors.New("search produced no candidate assignment")

// localSearch is a seeded greedy construction followed by random-restart hill
// climbing over (slot, room) moves. Workers mutate their own candidate copy;
// only the designated best state is shared back.
type localSearch struct {
	options Options
}

// assignment captures one session's decision fields.
type assignment struct {
	slot *model.TimeSlot
	room *model.Room
}

func capture(problem *model.Problem) []assignment {
	captured := make([]assignment, len(problem.Sessions))
	for i, session := range problem.Sessions {
		captured[i] = assignment{slot: session.Slot, room: session.Room}
	}
	return captured
}

func restore(problem *model.Problem, captured []assignment) {
	for i, session := range problem.Sessions {
		session.Slot = captured[i].slot
		session.Room = captured[i].room
	}
}

func (search *localSearch) Solve(ctx context.Context, problem *model.Problem) (*Result, error) {
	if len(problem.Sessions) == 0 {
		return nil, ErrNoCandidate
	}

	started := time.Now()
	deadline := started.Add(search.options.Budget)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	//** Construct the initial candidate
	construct(problem, rand.New(rand.NewSource(search.options.Seed)))

	best := &sharedBest{
		assignments: capture(problem),
		score:       problem.Score(),
	}
	search.options.Logger.Info("initial candidate constructed",
		zap.Stringer("score", best.score),
		zap.Int("unassigned", len(problem.Unassigned())))

	//** Improve: each worker climbs on its own candidate copy
	var iterations atomic.Uint64
	var waitGroup sync.WaitGroup
	for worker := 0; worker < search.options.Workers; worker++ {
		waitGroup.Add(1)
		go func(worker int) {
			defer waitGroup.Done()
			candidate := problem.Clone()
			rng := rand.New(rand.NewSource(search.options.Seed + int64(worker) + 1))
			search.climb(ctx, candidate, best, rng, &iterations)
		}(worker)
	}
	waitGroup.Wait()

	//** Adopt the best-found state and try a final room repair
	best.mutex.Lock()
	restore(problem, best.assignments)
	best.mutex.Unlock()
	repairTheoryRooms(problem, search.options.Logger)

	evaluation := problem.Evaluate()
	unassigned := len(problem.Unassigned())
	result := &Result{
		Score:      evaluation.Score,
		Assigned:   len(problem.Sessions) - unassigned,
		Unassigned: unassigned,
		Iterations: iterations.Load(),
		Elapsed:    time.Since(started),
	}
	search.options.Logger.Info("search terminated",
		zap.Stringer("score", result.Score),
		zap.Int("unassigned", result.Unassigned),
		zap.Uint64("iterations", result.Iterations),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

type sharedBest struct {
	mutex       sync.Mutex
	assignments []assignment
	score       model.Score
}

// publish installs the candidate as the shared best if it improves on it.
func (best *sharedBest) publish(candidate *model.Problem, score model.Score) bool {
	best.mutex.Lock()
	defer best.mutex.Unlock()
	if !score.Better(best.score) {
		return false
	}
	best.assignments = capture(candidate)
	best.score = score
	return true
}

// sync copies the shared best into the worker's candidate.
func (best *sharedBest) sync(candidate *model.Problem) model.Score {
	best.mutex.Lock()
	defer best.mutex.Unlock()
	restore(candidate, best.assignments)
	return best.score
}

const movesPerRound = 64

func (search *localSearch) climb(ctx context.Context, candidate *model.Problem, best *sharedBest, rng *rand.Rand, iterations *atomic.Uint64) {
	moves := newMoveSet(candidate)
	lastLogged := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		score := best.sync(candidate)
		improved := false
		for n := 0; n < movesPerRound; n++ {
			iterations.Add(1)
			undo := moves.random(candidate, rng)
			if undo == nil {
				continue
			}
			moved := candidate.Score()
			if moved.Better(score) || moved == score {
				improved = improved || moved.Better(score)
				score = moved
			} else {
				undo()
			}
		}

		if improved && best.publish(candidate, score) && time.Since(lastLogged) > 5*time.Second {
			lastLogged = time.Now()
			search.options.Logger.Info("improved best candidate", zap.Stringer("score", score))
		}
	}
}

// moveSet precomputes the move domains: adjacent lab-slot pairs per day, the
// theory slots, and the two room pools.
type moveSet struct {
	labPairs   [][2]*model.TimeSlot
	theory     []*model.TimeSlot
	labRooms   []*model.Room
	classrooms []*model.Room
	byParent   map[string][]*model.Session
}

func newMoveSet(problem *model.Problem) *moveSet {
	moves := &moveSet{
		labPairs:   adjacentLabPairs(problem),
		theory:     problem.TheorySlots(),
		labRooms:   problem.LabRooms(),
		classrooms: problem.Classrooms(),
		byParent:   make(map[string][]*model.Session),
	}
	for _, session := range problem.Sessions {
		if session.ParentLabId != "" {
			moves.byParent[session.ParentLabId] = append(moves.byParent[session.ParentLabId], session)
		}
	}
	return moves
}

// adjacentLabPairs derives every valid 2-period lab block from the grid's own
// slot-index structure.
func adjacentLabPairs(problem *model.Problem) [][2]*model.TimeSlot {
	labSlots := problem.LabSlots()
	pairs := make([][2]*model.TimeSlot, 0, len(labSlots))
	for _, first := range labSlots {
		for _, second := range labSlots {
			if second.SlotIndex == first.SlotIndex+1 && first.AdjacentTo(second) {
				pairs = append(pairs, [2]*model.TimeSlot{first, second})
			}
		}
	}
	return pairs
}

// random applies one random move and returns an undo closure, or nil when no
// move is possible.
func (moves *moveSet) random(problem *model.Problem, rng *rand.Rand) func() {
	session := problem.Sessions[rng.Intn(len(problem.Sessions))]

	if session.IsLab() {
		return moves.moveLabBlock(session, rng)
	}
	return moves.moveTheorySession(session, rng)
}

// moveLabBlock relocates both atoms of a lab block together, keeping them in
// one room on one adjacent slot pair.
func (moves *moveSet) moveLabBlock(session *model.Session, rng *rand.Rand) func() {
	if len(moves.labPairs) == 0 || len(moves.labRooms) == 0 {
		return nil
	}
	parts := moves.byParent[session.ParentLabId]
	if len(parts) != 2 {
		return nil
	}

	first, second := parts[0], parts[1]
	previous := [2]assignment{
		{slot: first.Slot, room: first.Room},
		{slot: second.Slot, room: second.Room},
	}

	pair := moves.labPairs[rng.Intn(len(moves.labPairs))]
	room := moves.labRooms[rng.Intn(len(moves.labRooms))]
	first.Slot, first.Room = pair[0], room
	second.Slot, second.Room = pair[1], room

	return func() {
		first.Slot, first.Room = previous[0].slot, previous[0].room
		second.Slot, second.Room = previous[1].slot, previous[1].room
	}
}

func (moves *moveSet) moveTheorySession(session *model.Session, rng *rand.Rand) func() {
	if len(moves.theory) == 0 || len(moves.classrooms) == 0 {
		return nil
	}
	previous := assignment{slot: session.Slot, room: session.Room}
	session.Slot = moves.theory[rng.Intn(len(moves.theory))]
	session.Room = moves.classrooms[rng.Intn(len(moves.classrooms))]
	return func() {
		session.Slot, session.Room = previous.slot, previous.room
	}
}

// construct greedily places every session, lab blocks first, against an
// interval-based occupancy tracker. Sessions with no feasible placement stay
// unassigned; the climb phase may still place them.
func construct(problem *model.Problem, rng *rand.Rand) {
	tracker := newOccupancy()
	moves := newMoveSet(problem)

	//** Place lab blocks
	placedParents := make(map[string]bool)
	for _, session := range problem.Sessions {
		if !session.IsLab() || placedParents[session.ParentLabId] {
			continue
		}
		placedParents[session.ParentLabId] = true
		parts := moves.byParent[session.ParentLabId]
		if len(parts) != 2 {
			continue
		}
		placeLabBlock(parts[0], parts[1], moves, tracker, rng)
	}

	//** Place theory sessions
	for _, session := range problem.Sessions {
		if session.IsLab() {
			continue
		}
		placeTheorySession(session, moves, tracker, rng)
	}
}

func placeLabBlock(first, second *model.Session, moves *moveSet, tracker *occupancy, rng *rand.Rand) {
	pairs := shuffled(moves.labPairs, rng)
	rooms := shuffled(moves.labRooms, rng)

	for _, pair := range pairs {
		if !slotFeasible(first, pair[0], tracker) || !slotFeasible(second, pair[1], tracker) {
			continue
		}
		for _, room := range rooms {
			if first.RequiredCapacity() > room.MaxCap {
				continue
			}
			if tracker.roomBusy(room, pair[0]) || tracker.roomBusy(room, pair[1]) {
				continue
			}
			first.Slot, first.Room = pair[0], room
			second.Slot, second.Room = pair[1], room
			tracker.occupy(first)
			tracker.occupy(second)
			return
		}
	}
}

// slotFeasible checks one atom against one candidate slot: teacher and group
// free, shift window honored, lunch window clear.
func slotFeasible(session *model.Session, slot *model.TimeSlot, tracker *occupancy) bool {
	if !session.Teacher.WithinShift(slot) {
		return false
	}
	group := session.Group
	if group.BreakEnd > group.BreakStart && slot.Start < group.BreakEnd && slot.End > group.BreakStart {
		return false
	}
	return !tracker.teacherBusy(session.Teacher, slot) && !tracker.groupBusy(group, slot)
}

func placeTheorySession(session *model.Session, moves *moveSet, tracker *occupancy, rng *rand.Rand) {
	slots := shuffled(moves.theory, rng)
	rooms := shuffled(moves.classrooms, rng)

	for _, slot := range slots {
		if !slotFeasible(session, slot, tracker) {
			continue
		}
		for _, room := range rooms {
			if session.RequiredCapacity() > room.MaxCap || tracker.roomBusy(room, slot) {
				continue
			}
			session.Slot, session.Room = slot, room
			tracker.occupy(session)
			return
		}
	}
}

func shuffled[T any](items []T, rng *rand.Rand) []T {
	copied := lo.Map(items, func(item T, _ int) T { return item })
	rng.Shuffle(len(copied), func(i, j int) {
		copied[i], copied[j] = copied[j], copied[i]
	})
	return copied
}

// occupancy tracks assigned intervals per teacher, group and room. Overlap is
// interval-based since the lab and theory grids interleave over the same
// wall-clock range.
type occupancy struct {
	teachers map[uint64][]*model.TimeSlot
	groups   map[uint64][]*model.TimeSlot
	rooms    map[uint64][]*model.TimeSlot
}

func newOccupancy() *occupancy {
	return &occupancy{
		teachers: make(map[uint64][]*model.TimeSlot),
		groups:   make(map[uint64][]*model.TimeSlot),
		rooms:    make(map[uint64][]*model.TimeSlot),
	}
}

func (tracker *occupancy) occupy(session *model.Session) {
	tracker.teachers[session.Teacher.Id] = append(tracker.teachers[session.Teacher.Id], session.Slot)
	tracker.groups[session.Group.Id] = append(tracker.groups[session.Group.Id], session.Slot)
	tracker.rooms[session.Room.Id] = append(tracker.rooms[session.Room.Id], session.Slot)
}

func (tracker *occupancy) teacherBusy(teacher *model.Teacher, slot *model.TimeSlot) bool {
	return anyOverlap(tracker.teachers[teacher.Id], slot)
}

func (tracker *occupancy) groupBusy(group *model.StudentGroup, slot *model.TimeSlot) bool {
	return anyOverlap(tracker.groups[group.Id], slot)
}

func (tracker *occupancy) roomBusy(room *model.Room, slot *model.TimeSlot) bool {
	return anyOverlap(tracker.rooms[room.Id], slot)
}

func anyOverlap(occupied []*model.TimeSlot, slot *model.TimeSlot) bool {
	return lo.SomeBy(occupied, func(other *model.TimeSlot) bool {
		return other.Overlaps(slot)
	})
}
