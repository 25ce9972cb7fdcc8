package csvio

import (
	"os"
	"path"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"

	"github.com/campus-scheduling/timetabler/internal/model"
)

func sampleSessions() []*model.Session {
	course := &model.Course{Id: 1, Code: "CS201", Name: "Data Structures", Dept: "CSE"}
	teacher := model.NewTeacher(1, "STF001", "Ada", "Lovelace", "")
	group := model.NewStudentGroup(1, "CSE-2A", "CSE", 2, model.ClassStrength)
	room := &model.Room{Id: 1, Number: "A101", Block: "A", MaxCap: 80}
	labRoom := &model.Room{Id: 2, Number: "L101", Block: "A", IsLab: true, MaxCap: 40}

	tuesday := &model.TimeSlot{Id: 2, Day: 1, Start: 9 * 60, End: 9*60 + 50}
	monday := &model.TimeSlot{Id: 1, Day: 0, Start: 10 * 60, End: 10*60 + 50}
	labSlot := &model.TimeSlot{Id: 3, Day: 0, Start: 8 * 60, End: 8*60 + 50, IsLab: true}

	return []*model.Session{
		{Id: 1, Course: course, Teacher: teacher, Group: group, Type: model.Lecture, Slot: tuesday, Room: room},
		{Id: 2, Course: course, Teacher: teacher, Group: group, Type: model.Lecture, Slot: monday, Room: room},
		{Id: 3, Course: course, Teacher: teacher, Group: group, Type: model.Lab, Batch: 1, ParentLabId: "p", Slot: labSlot, Room: labRoom},
		// Unassigned sessions must not be exported
		{Id: 4, Course: course, Teacher: teacher, Group: group, Type: model.Tutorial},
	}
}

func TestExportSchedule(t *testing.T) {
	// Arrange
	out := path.Join(t.TempDir(), "schedule.csv")

	// Act
	err := ExportSchedule(sampleSessions(), out)

	// Assert
	assert.NoError(t, err)
	file, err := os.Open(out)
	assert.NoError(t, err)
	defer file.Close()

	rows := []*ScheduleRow{}
	assert.NoError(t, gocsv.UnmarshalFile(file, &rows))
	assert.Len(t, rows, 3)

	// Rows come sorted by group, day and start time
	assert.Equal(t, "Monday", rows[0].Day)
	assert.Equal(t, "08:00", rows[0].Start)
	assert.Equal(t, "lab", rows[0].Type)
	assert.Equal(t, "Lab Batch 1", rows[0].Batch)
	assert.Equal(t, "Monday", rows[1].Day)
	assert.Equal(t, "10:00", rows[1].Start)
	assert.Equal(t, "Tuesday", rows[2].Day)

	assert.Equal(t, "CSE-2A", rows[0].Group)
	assert.Equal(t, "Ada Lovelace", rows[1].Teacher)
	assert.Equal(t, "A101", rows[1].Room)
	assert.Equal(t, "A", rows[1].Block)
}

func TestExportScheduleBadPath(t *testing.T) {
	err := ExportSchedule(sampleSessions(), path.Join(t.TempDir(), "missing", "schedule.csv"))
	assert.Error(t, err)
}

func TestFormatScheduleSkipsUnassigned(t *testing.T) {
	rows := formatSchedule(sampleSessions())
	assert.Len(t, rows, 3)
	for _, row := range rows {
		assert.NotEmpty(t, row.Room)
	}
}
