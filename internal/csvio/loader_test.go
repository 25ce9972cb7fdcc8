package csvio

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-scheduling/timetabler/internal/model"
)

func writeTempCsv(t *testing.T, name, content string) string {
	t.Helper()
	file := path.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

const rosterHeader = "teacher_id,staff_code,first_name,last_name,teacher_email,course_id,course_code,course_name,course_type,lecture_hours,practical_hours,tutorial_hours,credits,course_dept,semester,academic_year\n"

func TestLoadRoster(t *testing.T) {
	// Arrange: two teachers sharing one course plus a second course
	file := writeTempCsv(t, "roster.csv", rosterHeader+
		"1,STF001,Ada,Lovelace,ada@example.edu,10,CS201,Data Structures,CORE,3,2,1,4,CSE,3,2\n"+
		"2,STF002,Alan,Turing,alan@example.edu,10,CS201,Data Structures,CORE,3,2,1,4,CSE,3,2\n"+
		"1,STF001,Ada,Lovelace,ada@example.edu,11,CS305,Operating Systems,CORE,3,6,0,5,CSE,5,3\n")

	// Act
	roster, err := LoadRoster(file, nil)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, roster.Teachers, 2)
	assert.Len(t, roster.Courses, 2)
	assert.Len(t, roster.Offerings, 2)

	first := roster.Offerings[0]
	assert.Equal(t, "CS201", first.Course.Code)
	assert.Equal(t, 2, first.Year)
	// Teachers keep their first-appearance order
	assert.Len(t, first.Teachers, 2)
	assert.Equal(t, "Ada Lovelace", first.Teachers[0].FullName)
	assert.Equal(t, "Alan Turing", first.Teachers[1].FullName)

	second := roster.Offerings[1]
	assert.Equal(t, "CS305", second.Course.Code)
	assert.Equal(t, 6, second.Course.PracticalHours)
	assert.Len(t, second.Teachers, 1)
}

func TestLoadRosterFiltersExcludedSemesters(t *testing.T) {
	// Arrange: semesters 1, 2, 4 and 6 run in the other cycle
	file := writeTempCsv(t, "roster.csv", rosterHeader+
		"1,STF001,Ada,Lovelace,,10,CS101,Programming,CORE,3,0,0,3,CSE,1,1\n"+
		"1,STF001,Ada,Lovelace,,11,CS201,Data Structures,CORE,3,0,0,3,CSE,3,2\n"+
		"1,STF001,Ada,Lovelace,,12,CS202,Databases,CORE,3,0,0,3,CSE,4,2\n"+
		"1,STF001,Ada,Lovelace,,13,CS301,Networks,CORE,3,0,0,3,CSE,6,3\n")

	// Act
	roster, err := LoadRoster(file, nil)

	// Assert: only the semester-3 course survives
	assert.NoError(t, err)
	assert.Len(t, roster.Courses, 1)
	assert.Equal(t, "CS201", roster.Courses[0].Code)
}

func TestLoadRosterDeduplicatesWithinOffering(t *testing.T) {
	// Arrange: the same (teacher, course, year) row twice
	file := writeTempCsv(t, "roster.csv", rosterHeader+
		"1,STF001,Ada,Lovelace,,10,CS201,Data Structures,CORE,3,0,0,3,CSE,3,2\n"+
		"1,STF001,Ada,Lovelace,,10,CS201,Data Structures,CORE,3,0,0,3,CSE,3,2\n")

	// Act
	roster, err := LoadRoster(file, nil)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, roster.Teachers, 1)
	assert.Len(t, roster.Offerings, 1)
	assert.Len(t, roster.Offerings[0].Teachers, 1)
}

func TestLoadRosterMissingFile(t *testing.T) {
	_, err := LoadRoster(path.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

func TestLoadRooms(t *testing.T) {
	// Arrange
	file := writeTempCsv(t, "rooms.csv",
		"id,room_number,block,is_lab,room_min_cap,room_max_cap\n"+
			"1,A101,A,false,30,80\n"+
			"2,A102,A,true,20,40\n"+
			"2,A103,B,false,30,80\n")

	// Act
	rooms, err := LoadRooms(file, nil)

	// Assert: the duplicate id is dropped
	assert.NoError(t, err)
	assert.Len(t, rooms, 2)
	assert.Equal(t, &model.Room{Id: 1, Number: "A101", Block: "A", IsLab: false, MinCap: 30, MaxCap: 80}, rooms[0])
	assert.True(t, rooms[1].IsLab)
}

func TestLoadRoomsMalformed(t *testing.T) {
	file := writeTempCsv(t, "rooms.csv", "id,room_number\nnot-a-number,A101\n")
	_, err := LoadRooms(file, nil)
	assert.Error(t, err)
}
