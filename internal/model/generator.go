package model

import (
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CourseOffering binds a course to the academic year it is offered in and the
// ordered list of teachers qualified to take it.
type CourseOffering struct {
	Course   *Course
	Year     int
	Teachers []*Teacher
}

// SessionGenerator expands per-course hour requirements into atomic Session
// records with lab linkage metadata, for every (student-group, course) pair
// the group's department and year include.
type SessionGenerator struct {
	logger *zap.Logger
}

func NewSessionGenerator(logger *zap.Logger) *SessionGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionGenerator{logger: logger}
}

// Generate emits sessions with strictly increasing ids in generation order.
// Offerings with no qualified teacher are skipped with a warning: a
// data-quality gap must not abort the run.
func (generator *SessionGenerator) Generate(offerings []CourseOffering, groups []*StudentGroup) []*Session {
	sessions := make([]*Session, 0)
	var id uint64

	for _, offering := range offerings {
		course := offering.Course

		targetGroups := lo.Filter(groups, func(group *StudentGroup, _ int) bool {
			return group.Department == course.Dept && group.Year == offering.Year
		})
		if len(targetGroups) == 0 {
			continue
		}
		if len(offering.Teachers) == 0 {
			generator.logger.Warn("no qualified teacher for course, skipping",
				zap.String("course", course.Code),
				zap.Int("year", offering.Year))
			continue
		}

		for _, group := range targetGroups {
			// Deterministic round-robin over the qualified teachers; spreads
			// load without explicit balancing.
			teacher := offering.Teachers[(group.Id-1)%uint64(len(offering.Teachers))]

			for n := 0; n < course.LectureHours; n++ {
				sessions = append(sessions, &Session{Id: id, Course: course, Teacher: teacher, Group: group, Type: Lecture})
				id++
			}
			for n := 0; n < course.TutorialHours; n++ {
				sessions = append(sessions, &Session{Id: id, Course: course, Teacher: teacher, Group: group, Type: Tutorial})
				id++
			}

			sessions = generator.emitLabSessions(sessions, &id, course, teacher, group)
		}
	}

	return sessions
}

// emitLabSessions expands practical hours into 2-atom lab blocks. A 6-hour
// practical stays unsplit: three whole-class blocks. Anything else is split
// into two batches of practicalHours/2 blocks each.
func (generator *SessionGenerator) emitLabSessions(sessions []*Session, id *uint64, course *Course, teacher *Teacher, group *StudentGroup) []*Session {
	practical := course.PracticalHours
	if practical <= 0 {
		return sessions
	}

	if practical == 6 {
		for block := 1; block <= 3; block++ {
			parent := fmt.Sprintf("Lab_%v_%v_P%d", course.Id, group.Id, block)
			for n := 0; n < 2; n++ {
				sessions = append(sessions, &Session{Id: *id, Course: course, Teacher: teacher, Group: group, Type: Lab, Batch: NoBatch, ParentLabId: parent})
				(*id)++
			}
		}
		return sessions
	}

	if practical%2 != 0 {
		generator.logger.Warn("odd practical hours, rounding down to an even batch split",
			zap.String("course", course.Code),
			zap.Int("practical_hours", practical))
		practical--
	}

	blocks := practical / 2
	for batch := LabBatch(1); batch <= 2; batch++ {
		for block := 1; block <= blocks; block++ {
			parent := fmt.Sprintf("Lab_%v_%v_B%d_P%d", course.Id, group.Id, batch, block)
			for n := 0; n < 2; n++ {
				sessions = append(sessions, &Session{Id: *id, Course: course, Teacher: teacher, Group: group, Type: Lab, Batch: batch, ParentLabId: parent})
				(*id)++
			}
		}
	}
	return sessions
}
