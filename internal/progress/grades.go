package progress

import (
	"fmt"
	"math"
	"time"

	"github.com/dycedu/classroom-go/internal/models"
)

// GradeSummary accumulates graded score/total pairs. Graded distinguishes a
// genuine 0 from "no grade posted yet": a summary with Graded=false carries no
// information about performance.
type GradeSummary struct {
	Score  int
	Total  int
	Graded bool
}

// Aggregate sums every present grade pair in the submission list. Submissions
// without a grade contribute nothing.
func Aggregate(submissions []models.Submission) GradeSummary {
	var summary GradeSummary
	for _, submission := range submissions {
		if submission.Grade == nil {
			continue
		}
		summary.Score += submission.Grade.Score
		summary.Total += submission.Grade.Total
		summary.Graded = true
	}
	return summary
}

// Merge folds another summary into this one.
func (g GradeSummary) Merge(other GradeSummary) GradeSummary {
	return GradeSummary{
		Score:  g.Score + other.Score,
		Total:  g.Total + other.Total,
		Graded: g.Graded || other.Graded,
	}
}

// Percent returns the rounded overall percentage. ok is false when no graded
// pair with a positive total was seen, so callers can render "not graded yet"
// instead of a misleading 0%.
func (g GradeSummary) Percent() (percent int, ok bool) {
	if !g.Graded || g.Total <= 0 {
		return 0, false
	}
	return int(math.Round(100 * float64(g.Score) / float64(g.Total))), true
}

// Display renders "score/total" or an empty string when ungraded.
func (g GradeSummary) Display() string {
	if !g.Graded || g.Total <= 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", g.Score, g.Total)
}

// OverdueDeficit counts how many of a past-due module's questions the user has
// not answered. Modules that are not yet due, or are fully answered, report
// zero. The deficit feeds the per-student "overdue assignments" counter; it is
// display-only and never authoritative grading.
func OverdueDeficit(module models.Module, questions []models.Question, index Index, now time.Time) int {
	if !module.IsPastDue(now) {
		return 0
	}

	answered := 0
	for _, question := range questions {
		if index.Answered(question.ID) {
			answered++
		}
	}

	if deficit := len(questions) - answered; deficit > 0 {
		return deficit
	}
	return 0
}
