package view

import (
	"context"
	"math"
	"sort"

	"github.com/dycedu/classroom-go/internal/api"
	"github.com/dycedu/classroom-go/internal/models"
	"github.com/dycedu/classroom-go/internal/progress"
)

// ModuleStats summarizes one module across the cohort.
type ModuleStats struct {
	Module            models.Module `json:"module"`
	StudentCount      int           `json:"student_count"`
	CompletedCount    int           `json:"completed_count"`
	CompletionPercent int           `json:"completion_percent"`
}

// StudentRow is one student's line in the teacher overview: overall grade
// across every module and how many past-due assignments they still owe.
type StudentRow struct {
	UserID       uint   `json:"user_id"`
	UserName     string `json:"user_name,omitempty"`
	Grade        string `json:"grade,omitempty"`
	Percent      *int   `json:"percent,omitempty"`
	OverdueCount int    `json:"overdue_count"`
}

// Overview is the teacher's course-wide read model.
type Overview struct {
	CourseID uint          `json:"course_id"`
	Modules  []ModuleStats `json:"modules"`
	Students []StudentRow  `json:"students"`
}

// TeacherOverview composes per-module completion rates and per-student grade
// and overdue counters for one course. The student set is every user with at
// least one submission in the course; students who have submitted nothing do
// not appear.
func (s *Service) TeacherOverview(ctx context.Context, courseID uint) (Overview, error) {
	modules, err := s.collaborator.CourseModules(ctx, courseID)
	if err != nil {
		return Overview{}, err
	}
	ordered := progress.SortModules(modules)

	now := s.now()

	type studentProgress struct {
		name    string
		summary progress.GradeSummary
		overdue int
	}
	students := make(map[uint]*studentProgress)

	overview := Overview{
		CourseID: courseID,
		Modules:  make([]ModuleStats, 0, len(ordered)),
	}

	for _, module := range ordered {
		questions, err := s.collaborator.ListQuestions(ctx, module.ID)
		if err != nil {
			return Overview{}, err
		}

		submissions, err := s.collaborator.ListSubmissions(ctx, api.SubmissionFilter{ModuleID: module.ID})
		if err != nil {
			return Overview{}, err
		}

		byUser := make(map[uint][]models.Submission)
		for _, submission := range submissions {
			byUser[submission.UserID] = append(byUser[submission.UserID], submission)
		}

		completed := 0
		for userID, userSubmissions := range byUser {
			row, ok := students[userID]
			if !ok {
				row = &studentProgress{}
				students[userID] = row
			}
			if row.name == "" {
				for _, submission := range userSubmissions {
					if submission.UserName != "" {
						row.name = submission.UserName
						break
					}
				}
			}

			index := progress.BuildIndex(userSubmissions, userID)
			if progress.IsComplete(questions, index) {
				completed++
			}

			row.summary = row.summary.Merge(progress.Aggregate(userSubmissions))
			row.overdue += progress.OverdueDeficit(module, questions, index, now)
		}

		stats := ModuleStats{
			Module:         module,
			StudentCount:   len(byUser),
			CompletedCount: completed,
		}
		if stats.StudentCount > 0 {
			stats.CompletionPercent = int(math.Round(100 * float64(completed) / float64(stats.StudentCount)))
		}
		overview.Modules = append(overview.Modules, stats)
	}

	overview.Students = make([]StudentRow, 0, len(students))
	for userID, row := range students {
		student := StudentRow{
			UserID:       userID,
			UserName:     row.name,
			Grade:        row.summary.Display(),
			OverdueCount: row.overdue,
		}
		if percent, ok := row.summary.Percent(); ok {
			student.Percent = &percent
		}
		overview.Students = append(overview.Students, student)
	}
	sort.Slice(overview.Students, func(i, j int) bool {
		return overview.Students[i].UserID < overview.Students[j].UserID
	})

	return overview, nil
}
