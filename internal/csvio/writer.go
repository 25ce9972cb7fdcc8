package csvio

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"github.com/campus-scheduling/timetabler/internal/model"
)

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ScheduleRow is one exported timetable entry.
type ScheduleRow struct {
	Group      string `csv:"student_group"`
	Day        string `csv:"day"`
	Start      string `csv:"start_time"`
	End        string `csv:"end_time"`
	CourseCode string `csv:"course_code"`
	CourseName string `csv:"course_name"`
	Type       string `csv:"session_type"`
	Batch      string `csv:"batch"`
	Teacher    string `csv:"teacher"`
	Room       string `csv:"room"`
	Block      string `csv:"block"`
}

// ExportSchedule writes every assigned session to the csv file at path,
// sorted by group, day and start time. Unassigned sessions are skipped: they
// are reported separately as hard violations, not silently exported.
func ExportSchedule(sessions []*model.Session, path string) error {
	rows := formatSchedule(sessions)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create schedule file: %w", err)
	}
	defer out.Close()

	if err := gocsv.MarshalFile(&rows, out); err != nil {
		return fmt.Errorf("write schedule file %v: %w", path, err)
	}
	return nil
}

// PrintSchedule prints the weekly timetable grouped by student group.
func PrintSchedule(sessions []*model.Session) {
	rows := formatSchedule(sessions)
	seen := make(map[string]bool)
	for _, row := range rows {
		if !seen[row.Group] {
			seen[row.Group] = true
			fmt.Printf("\n%s %s %s\n", strings.Repeat("-", 12), row.Group, strings.Repeat("-", 12))
		}
		label := row.CourseCode
		if row.Batch != "" {
			label = label + " (" + row.Batch + ")"
		}
		fmt.Printf("%-10s %s-%s  %-14s %-8s %s\n",
			row.Day, row.Start, row.End, label, row.Type, row.Room)
	}
	fmt.Printf("Printed rows: %d\n", len(rows))
}

func formatSchedule(sessions []*model.Session) []*ScheduleRow {
	assigned := lo.Filter(sessions, func(session *model.Session, _ int) bool {
		return session.Assigned()
	})

	rows := lo.Map(assigned, func(session *model.Session, _ int) *ScheduleRow {
		return &ScheduleRow{
			Group:      session.Group.Name,
			Day:        dayName(session.Slot.Day),
			Start:      clock(session.Slot.Start),
			End:        clock(session.Slot.End),
			CourseCode: session.Course.Code,
			CourseName: session.Course.Name,
			Type:       session.Type.String(),
			Batch:      session.BatchLabel(),
			Teacher:    session.Teacher.FullName,
			Room:       session.Room.Number,
			Block:      session.Room.Block,
		}
	})

	slices.SortFunc(rows, func(a, b *ScheduleRow) int {
		if group := strings.Compare(a.Group, b.Group); group != 0 {
			return group
		}
		if day := dayIndex(a.Day) - dayIndex(b.Day); day != 0 {
			return day
		}
		if start := strings.Compare(a.Start, b.Start); start != 0 {
			return start
		}
		return strings.Compare(a.CourseCode, b.CourseCode)
	})
	return rows
}

func dayName(day int) string {
	if day >= 0 && day < len(dayNames) {
		return dayNames[day]
	}
	return fmt.Sprintf("Day%d", day)
}

func dayIndex(name string) int {
	return slices.Index(dayNames, name)
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
