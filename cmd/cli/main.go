package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/campus-scheduling/timetabler/internal/csvio"
	"github.com/campus-scheduling/timetabler/internal/model"
	"github.com/campus-scheduling/timetabler/internal/solver"
)

func main() {
	// Define arguments
	rosterPtr := flag.String("roster", "", "Path to the teacher-course roster csv file")
	roomsPtr := flag.String("rooms", "", "Path to the room inventory csv file")
	configPtr := flag.String("config", "", "Path to the json configuration file; if empty, the built-in department table is used")
	outPtr := flag.String("out", "", "Path to the csv file where the timetable will be written; if empty, it'll be printed to the Standard Output")
	budgetPtr := flag.Duration("budget", 0, "Wall-clock search budget (e.g. 90s, 5m); overrides the configuration file")
	seedPtr := flag.Int64("seed", 0, "Random seed; overrides the configuration file")
	workersPtr := flag.Int("workers", 0, "Number of parallel search workers; overrides the configuration file")
	verbosePtr := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	// Validate arguments
	if *rosterPtr == "" {
		log.Fatal("a roster file must be specified")
	} else if *roomsPtr == "" {
		log.Fatal("a rooms file must be specified")
	}

	logger := buildLogger(*verbosePtr)
	defer logger.Sync()

	// Extract configuration
	config := model.DefaultConfig()
	if *configPtr != "" {
		var err error
		config, err = model.ConfigFromJson(*configPtr)
		if err != nil {
			log.Fatalf("cannot parse configuration file: %v", err)
		}
	}
	if *budgetPtr > 0 {
		config.Budget = *budgetPtr
	}
	if *seedPtr != 0 {
		config.Seed = *seedPtr
	}
	if *workersPtr > 0 {
		config.Workers = *workersPtr
	}

	// Extract input
	roster, err := csvio.LoadRoster(*rosterPtr, logger)
	if err != nil {
		log.Fatalf("cannot load roster: %v", err)
	}
	rooms, err := csvio.LoadRooms(*roomsPtr, logger)
	if err != nil {
		log.Fatalf("cannot load rooms: %v", err)
	}

	// Assemble the problem
	slots, err := model.BuildWeeklySlots(config.Grid)
	if err != nil {
		log.Fatalf("cannot build weekly slots: %v", err)
	}
	for _, teacher := range roster.Teachers {
		teacher.AssignShiftPlan(config.Seed, config.Grid.Days)
	}
	groups := config.StudentGroups()
	sessions := model.NewSessionGenerator(logger).Generate(roster.Offerings, groups)
	problem := model.NewProblem(sessions, slots, rooms, roster.Teachers, groups, config.Blocks, config.Grid.PeriodMinutes())

	logger.Info("problem assembled",
		zap.Int("sessions", len(sessions)),
		zap.Int("groups", len(groups)),
		zap.Int("rooms", len(rooms)),
		zap.Int("slots", len(slots)))

	// Search
	search := solver.NewLocalSearchSolver(solver.Options{
		Budget:  config.Budget,
		Seed:    config.Seed,
		Workers: config.Workers,
		Logger:  logger,
	})
	result, err := search.Solve(context.Background(), problem)
	if err != nil {
		log.Fatalf("an error occurred during the search: %v", err)
	}

	report(problem, result)

	// Write output
	if *outPtr == "" {
		csvio.PrintSchedule(problem.Sessions)
	} else if err := csvio.ExportSchedule(problem.Sessions, *outPtr); err != nil {
		log.Fatalf("cannot write timetable: %v", err)
	} else {
		fmt.Printf("Timetable written to %v\n", *outPtr)
	}

	if !result.Feasible() {
		os.Exit(1)
	}
}

func report(problem *model.Problem, result *solver.Result) {
	fmt.Printf("Score: %v (after %v, %v moves)\n", result.Score, result.Elapsed.Round(time.Millisecond), result.Iterations)

	if result.Feasible() {
		fmt.Println("All sessions fully scheduled.")
		return
	}

	if result.Unassigned > 0 {
		fmt.Printf("%v sessions could not be scheduled. The timetable is not usable as-is.\n", result.Unassigned)
	}

	// Per-constraint breakdown of the remaining violations
	evaluation := problem.Evaluate()
	for _, entry := range evaluation.Breakdown {
		if entry.Score.Hard != 0 || entry.Score.Soft != 0 {
			fmt.Printf("  %-45v %v\n", entry.Name, entry.Score)
		}
	}
}

func buildLogger(verbose bool) *zap.Logger {
	config := zap.NewDevelopmentConfig()
	if !verbose {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := config.Build()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	return logger
}
