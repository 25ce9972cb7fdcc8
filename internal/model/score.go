package model

import "fmt"

// Score is a (hard-violation-count, soft-penalty-sum) pair. A solution is
// admissible only when Hard is zero; Soft is minimized among admissible
// solutions. Comparison is lexicographic.
type Score struct {
	Hard int
	Soft int
}

func (score Score) Add(other Score) Score {
	return Score{Hard: score.Hard + other.Hard, Soft: score.Soft + other.Soft}
}

func (score Score) Feasible() bool {
	return score.Hard == 0
}

// Better reports whether score is strictly preferable to other.
func (score Score) Better(other Score) bool {
	if score.Hard != other.Hard {
		return score.Hard < other.Hard
	}
	return score.Soft < other.Soft
}

func (score Score) String() string {
	return fmt.Sprintf("%dhard/%dsoft", score.Hard, score.Soft)
}
