package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dycedu/classroom-go/internal/models"
)

func TestAggregateSumsGradePairs(t *testing.T) {
	submissions := []models.Submission{
		{ID: 1, Grade: &models.Grade{Score: 8, Total: 10}},
		{ID: 2, Grade: &models.Grade{Score: 5, Total: 10}},
		{ID: 3}, // ungraded, contributes nothing
	}

	summary := Aggregate(submissions)
	require.Equal(t, 13, summary.Score)
	require.Equal(t, 20, summary.Total)
	require.True(t, summary.Graded)

	percent, ok := summary.Percent()
	require.True(t, ok)
	require.Equal(t, 65, percent)
	require.Equal(t, "13/20", summary.Display())
}

func TestAggregateUngradedIsNotZeroPercent(t *testing.T) {
	summary := Aggregate([]models.Submission{{ID: 1}, {ID: 2}})
	require.False(t, summary.Graded)

	_, ok := summary.Percent()
	require.False(t, ok)
	require.Equal(t, "", summary.Display())
}

func TestAggregateGradedZeroIsDistinctFromUngraded(t *testing.T) {
	summary := Aggregate([]models.Submission{{ID: 1, Grade: &models.Grade{Score: 0, Total: 10}}})
	require.True(t, summary.Graded)

	percent, ok := summary.Percent()
	require.True(t, ok)
	require.Equal(t, 0, percent)
}

func TestGradeSummaryMerge(t *testing.T) {
	merged := GradeSummary{Score: 5, Total: 10, Graded: true}.Merge(GradeSummary{Score: 3, Total: 10, Graded: true})
	require.Equal(t, GradeSummary{Score: 8, Total: 20, Graded: true}, merged)

	merged = GradeSummary{}.Merge(GradeSummary{})
	require.False(t, merged.Graded)
}

func TestOverdueDeficit(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	questions := []models.Question{{ID: 1}, {ID: 2}, {ID: 3}}
	index := Index{1: models.Submission{QuestionID: 1}}

	overdue := models.Module{ID: 1, DueDate: &past}
	require.Equal(t, 2, OverdueDeficit(overdue, questions, index, now))

	notDue := models.Module{ID: 2, DueDate: &future}
	require.Equal(t, 0, OverdueDeficit(notDue, questions, index, now))

	noDueDate := models.Module{ID: 3}
	require.Equal(t, 0, OverdueDeficit(noDueDate, questions, index, now))

	complete := Index{
		1: models.Submission{QuestionID: 1},
		2: models.Submission{QuestionID: 2},
		3: models.Submission{QuestionID: 3},
	}
	require.Equal(t, 0, OverdueDeficit(overdue, questions, complete, now))
}
