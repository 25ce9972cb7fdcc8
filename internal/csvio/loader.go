package csvio

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/campus-scheduling/timetabler/internal/model"
)

// RosterRow is one line of the teacher-course roster export: a teacher paired
// with one course they are qualified to deliver in a given academic year.
type RosterRow struct {
	TeacherId      uint64 `csv:"teacher_id"`
	StaffCode      string `csv:"staff_code"`
	FirstName      string `csv:"first_name"`
	LastName       string `csv:"last_name"`
	Email          string `csv:"teacher_email"`
	CourseId       uint64 `csv:"course_id"`
	CourseCode     string `csv:"course_code"`
	CourseName     string `csv:"course_name"`
	CourseType     string `csv:"course_type"`
	LectureHours   int    `csv:"lecture_hours"`
	PracticalHours int    `csv:"practical_hours"`
	TutorialHours  int    `csv:"tutorial_hours"`
	Credits        int    `csv:"credits"`
	Dept           string `csv:"course_dept"`
	Semester       int    `csv:"semester"`
	AcademicYear   int    `csv:"academic_year"`
}

type RoomRow struct {
	Id     uint64 `csv:"id"`
	Number string `csv:"room_number"`
	Block  string `csv:"block"`
	IsLab  bool   `csv:"is_lab"`
	MinCap int    `csv:"room_min_cap"`
	MaxCap int    `csv:"room_max_cap"`
}

// excludedSemesters lists the semesters whose courses are scheduled outside
// this timetable cycle and must be dropped from the roster.
var excludedSemesters = []int{1, 2, 4, 6}

// Roster is the parsed and deduplicated roster content.
type Roster struct {
	Teachers  []*model.Teacher
	Courses   []*model.Course
	Offerings []model.CourseOffering
}

// LoadRoster parses the roster csv and assembles one CourseOffering per
// (course, academic year) pair. Teachers keep their first-appearance order
// inside each offering, which the round-robin allotment depends on.
func LoadRoster(path string, logger *zap.Logger) (*Roster, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster file: %w", err)
	}
	defer file.Close()

	rows := []*RosterRow{}
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parse roster file %v: %w", path, err)
	}

	filtered := lo.Filter(rows, func(row *RosterRow, _ int) bool {
		return !lo.Contains(excludedSemesters, row.Semester)
	})
	if dropped := len(rows) - len(filtered); dropped > 0 {
		logger.Info("dropped roster rows from excluded semesters",
			zap.Int("dropped", dropped),
			zap.Ints("semesters", excludedSemesters))
	}

	roster := &Roster{}
	teachers := make(map[uint64]*model.Teacher)
	courses := make(map[uint64]*model.Course)
	offerings := make(map[[2]uint64]*model.CourseOffering)
	var order [][2]uint64

	for _, row := range filtered {
		teacher, seen := teachers[row.TeacherId]
		if !seen {
			teacher = model.NewTeacher(row.TeacherId, row.StaffCode, row.FirstName, row.LastName, row.Email)
			teachers[row.TeacherId] = teacher
			roster.Teachers = append(roster.Teachers, teacher)
		}

		course, seen := courses[row.CourseId]
		if !seen {
			course = &model.Course{
				Id:             row.CourseId,
				Code:           row.CourseCode,
				Name:           row.CourseName,
				Type:           row.CourseType,
				LectureHours:   row.LectureHours,
				PracticalHours: row.PracticalHours,
				TutorialHours:  row.TutorialHours,
				Credits:        row.Credits,
				Dept:           row.Dept,
			}
			courses[row.CourseId] = course
			roster.Courses = append(roster.Courses, course)
		} else if course.Code != row.CourseCode {
			logger.Warn("conflicting course code for id, keeping first",
				zap.Uint64("courseId", row.CourseId),
				zap.String("kept", course.Code),
				zap.String("ignored", row.CourseCode))
		}

		key := [2]uint64{row.CourseId, uint64(row.AcademicYear)}
		offering, seen := offerings[key]
		if !seen {
			offering = &model.CourseOffering{Course: course, Year: row.AcademicYear}
			offerings[key] = offering
			order = append(order, key)
		}
		if !lo.ContainsBy(offering.Teachers, func(candidate *model.Teacher) bool {
			return candidate.Id == teacher.Id
		}) {
			offering.Teachers = append(offering.Teachers, teacher)
		}
	}

	for _, key := range order {
		roster.Offerings = append(roster.Offerings, *offerings[key])
	}

	logger.Info("roster loaded",
		zap.Int("teachers", len(roster.Teachers)),
		zap.Int("courses", len(roster.Courses)),
		zap.Int("offerings", len(roster.Offerings)))
	return roster, nil
}

// LoadRooms parses the room inventory csv.
func LoadRooms(path string, logger *zap.Logger) ([]*model.Room, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rooms file: %w", err)
	}
	defer file.Close()

	rows := []*RoomRow{}
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parse rooms file %v: %w", path, err)
	}

	rooms := make([]*model.Room, 0, len(rows))
	seen := make(map[uint64]bool, len(rows))
	for _, row := range rows {
		if seen[row.Id] {
			logger.Warn("duplicate room id, keeping first", zap.Uint64("roomId", row.Id))
			continue
		}
		seen[row.Id] = true
		rooms = append(rooms, &model.Room{
			Id:     row.Id,
			Number: row.Number,
			Block:  row.Block,
			IsLab:  row.IsLab,
			MinCap: row.MinCap,
			MaxCap: row.MaxCap,
		})
	}

	logger.Info("rooms loaded", zap.Int("rooms", len(rooms)))
	return rooms, nil
}
