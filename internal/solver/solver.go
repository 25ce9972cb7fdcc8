package solver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campus-scheduling/timetabler/internal/model"
)

// Solver drives a search procedure over a problem's assignment state within a
// wall-clock budget. The contract is "best found within budget": the returned
// result may still carry hard violations or unassigned sessions, and callers
// must check before treating it as usable.
type Solver interface {
	Solve(ctx context.Context, problem *model.Problem) (*Result, error)
}

// Result is the outcome of one solve run.
type Result struct {
	Score      model.Score
	Assigned   int
	Unassigned int
	Iterations uint64
	Elapsed    time.Duration
}

// Feasible reports whether the result can be used as-is.
func (result *Result) Feasible() bool {
	return result.Score.Feasible() && result.Unassigned == 0
}

// Options configure the local-search solver.
type Options struct {
	Budget  time.Duration
	Seed    int64
	Workers int
	Logger  *zap.Logger
}

func NewLocalSearchSolver(options Options) Solver {
	if options.Budget <= 0 {
		options.Budget = 5 * time.Minute
	}
	if options.Workers <= 0 {
		options.Workers = 1
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	return &localSearch{options: options}
}
