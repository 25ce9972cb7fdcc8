package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/campus-scheduling/timetabler/internal/model"
	"github.com/campus-scheduling/timetabler/internal/solver"
)

// instance is a synthetic problem of controlled size: n departments, each with
// a fixed number of sections, courses and teachers.
type instance struct {
	Name        string
	Departments int
	Sections    int
	Courses     int
	Teachers    int
}

type benchmarkResult struct {
	Instance   instance
	Sessions   int
	Score      model.Score
	Assigned   int
	Unassigned int
	Iterations uint64
	Duration   time.Duration
}

func main() {
	budgetPtr := flag.Duration("budget", 30*time.Second, "Search budget per instance")
	workersPtr := flag.Int("workers", 4, "Parallel search workers")
	seedPtr := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	instances := []instance{
		{"tiny", 1, 2, 4, 6},
		{"small", 2, 3, 5, 10},
		{"medium", 4, 4, 6, 24},
		{"large", 8, 5, 6, 48},
	}

	results := make([]benchmarkResult, 0, len(instances))
	for _, inst := range instances {
		fmt.Printf("Benchmarking instance %q (%v departments, %v sections each)\n",
			inst.Name, inst.Departments, inst.Sections)

		problem := buildProblem(inst, *seedPtr)
		search := solver.NewLocalSearchSolver(solver.Options{
			Budget:  *budgetPtr,
			Seed:    *seedPtr,
			Workers: *workersPtr,
			Logger:  zap.NewNop(),
		})

		start := time.Now()
		result, err := search.Solve(context.Background(), problem)
		if err != nil {
			log.Fatalf("search failed on instance %q: %v", inst.Name, err)
		}

		results = append(results, benchmarkResult{
			Instance:   inst,
			Sessions:   len(problem.Sessions),
			Score:      result.Score,
			Assigned:   result.Assigned,
			Unassigned: result.Unassigned,
			Iterations: result.Iterations,
			Duration:   time.Since(start),
		})
	}

	toCsv(results)
}

// buildProblem materializes a synthetic instance. Every department gets the
// same course mix so instance size scales linearly with the department count.
func buildProblem(inst instance, seed int64) *model.Problem {
	config := model.DefaultConfig()
	config.Departments = make(map[string]map[int]int, inst.Departments)
	config.Blocks = make(map[string]string, inst.Departments)
	for d := 0; d < inst.Departments; d++ {
		dept := fmt.Sprintf("D%02d", d+1)
		config.Departments[dept] = map[int]int{2: inst.Sections}
		config.Blocks[dept] = string(rune('A' + d%4))
	}

	teachers := make([]*model.Teacher, 0, inst.Teachers)
	for t := 0; t < inst.Teachers; t++ {
		id := uint64(t + 1)
		teachers = append(teachers, model.NewTeacher(id,
			fmt.Sprintf("STF%03d", id), fmt.Sprintf("Teacher%v", id), "", ""))
	}
	for _, teacher := range teachers {
		teacher.AssignShiftPlan(seed, config.Grid.Days)
	}

	offerings := make([]model.CourseOffering, 0, inst.Departments*inst.Courses)
	var courseId uint64 = 1
	for d := 0; d < inst.Departments; d++ {
		dept := fmt.Sprintf("D%02d", d+1)
		for c := 0; c < inst.Courses; c++ {
			lectureHours, practicalHours := 3, 0
			if c%3 == 2 {
				lectureHours, practicalHours = 2, 2
			}
			course := &model.Course{
				Id:             courseId,
				Code:           fmt.Sprintf("%v-C%02d", dept, c+1),
				Name:           fmt.Sprintf("Course %v", courseId),
				Type:           "CORE",
				LectureHours:   lectureHours,
				PracticalHours: practicalHours,
				TutorialHours:  1,
				Credits:        4,
				Dept:           dept,
			}
			offerings = append(offerings, model.CourseOffering{
				Course:   course,
				Year:     2,
				Teachers: teachers,
			})
			courseId++
		}
	}

	rooms := make([]*model.Room, 0)
	var roomId uint64 = 1
	for r := 0; r < inst.Departments*inst.Sections+2; r++ {
		rooms = append(rooms, &model.Room{
			Id: roomId, Number: fmt.Sprintf("C%03d", r+1),
			Block: string(rune('A' + r%4)), MinCap: 30, MaxCap: model.ClassStrength + 10,
		})
		roomId++
		rooms = append(rooms, &model.Room{
			Id: roomId, Number: fmt.Sprintf("L%03d", r+1),
			Block: string(rune('A' + r%4)), IsLab: true, MinCap: 15, MaxCap: model.ClassStrength,
		})
		roomId++
	}

	slots, err := model.BuildWeeklySlots(config.Grid)
	if err != nil {
		log.Fatalf("cannot build weekly slots: %v", err)
	}
	groups := config.StudentGroups()
	sessions := model.NewSessionGenerator(nil).Generate(offerings, groups)
	return model.NewProblem(sessions, slots, rooms, teachers, groups, config.Blocks, config.Grid.PeriodMinutes())
}

func toCsv(results []benchmarkResult) {
	file, err := os.Create("benchmark_results.csv")
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Instance", "Departments", "Sections", "Courses", "Teachers", "Sessions", "Hard", "Soft", "Assigned", "Unassigned", "Moves", "Duration(ms)"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			result.Instance.Name,
			fmt.Sprintf("%d", result.Instance.Departments),
			fmt.Sprintf("%d", result.Instance.Sections),
			fmt.Sprintf("%d", result.Instance.Courses),
			fmt.Sprintf("%d", result.Instance.Teachers),
			fmt.Sprintf("%d", result.Sessions),
			fmt.Sprintf("%d", result.Score.Hard),
			fmt.Sprintf("%d", result.Score.Soft),
			fmt.Sprintf("%d", result.Assigned),
			fmt.Sprintf("%d", result.Unassigned),
			fmt.Sprintf("%d", result.Iterations),
			fmt.Sprintf("%d", result.Duration.Milliseconds()),
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}
