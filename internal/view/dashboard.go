package view

import (
	"context"

	"github.com/dycedu/classroom-go/internal/api"
	"github.com/dycedu/classroom-go/internal/models"
	"github.com/dycedu/classroom-go/internal/progress"
)

// ModuleCard is one dashboard row: the module, its derived accessibility
// state, and the user's grade string for it ("13/20", empty while ungraded).
type ModuleCard struct {
	Module models.Module  `json:"module"`
	State  progress.State `json:"state"`
	Grade  string         `json:"grade,omitempty"`
}

// Dashboard is the student landing view for their first enrolled course.
type Dashboard struct {
	Course   models.Course  `json:"course"`
	ZoomLink string         `json:"zoom_link,omitempty"`
	Modules  []ModuleCard   `json:"modules"`
	Upcoming *models.Module `json:"upcoming,omitempty"`
	Overall  string         `json:"overall_grade,omitempty"`
	Percent  *int           `json:"overall_percent,omitempty"`
}

// StudentDashboard composes the landing view: enrolled course, its modules in
// order with accessibility states and grades, the upcoming assignment, and
// the course zoom link. Nothing is cached; a reload recomputes everything
// from collaborator data.
func (s *Service) StudentDashboard(ctx context.Context, user models.User) (Dashboard, error) {
	courses, err := s.collaborator.EnrolledCourses(ctx, user.ID)
	if err != nil {
		return Dashboard{}, err
	}
	if len(courses) == 0 {
		return Dashboard{}, ErrNotEnrolled
	}
	course := courses[0]

	modules, err := s.collaborator.CourseModules(ctx, course.ID)
	if err != nil {
		return Dashboard{}, err
	}
	ordered := progress.SortModules(modules)

	complete := make(map[uint]bool, len(ordered))
	grades := make(map[uint]progress.GradeSummary, len(ordered))
	var overall progress.GradeSummary

	for _, module := range ordered {
		questions, err := s.collaborator.ListQuestions(ctx, module.ID)
		if err != nil {
			return Dashboard{}, err
		}

		submissions, err := s.collaborator.ListSubmissions(ctx, api.SubmissionFilter{ModuleID: module.ID})
		if err != nil {
			return Dashboard{}, err
		}

		index := progress.BuildIndex(submissions, user.ID)
		complete[module.ID] = progress.IsComplete(questions, index)

		summary := progress.Aggregate(indexSubmissions(index))
		grades[module.ID] = summary
		overall = overall.Merge(summary)
	}

	states := progress.Resolve(ordered, complete, user.IsStudent)

	dashboard := Dashboard{
		Course:   course,
		ZoomLink: course.ZoomLink,
		Modules:  make([]ModuleCard, 0, len(ordered)),
		Overall:  overall.Display(),
	}
	if percent, ok := overall.Percent(); ok {
		dashboard.Percent = &percent
	}

	for _, module := range ordered {
		dashboard.Modules = append(dashboard.Modules, ModuleCard{
			Module: module,
			State:  states[module.ID],
			Grade:  grades[module.ID].Display(),
		})

		// The upcoming assignment is the first posted module that is not
		// yet complete.
		if dashboard.Upcoming == nil && module.IsPosted && !complete[module.ID] {
			upcoming := module
			dashboard.Upcoming = &upcoming
		}
	}

	s.logger.Debug().
		Uint("user_id", user.ID).
		Uint("course_id", course.ID).
		Int("modules", len(ordered)).
		Msg("dashboard composed")

	return dashboard, nil
}

// indexSubmissions flattens the per-question index back to a slice for the
// grade aggregator, so only the current user's rows are counted.
func indexSubmissions(index progress.Index) []models.Submission {
	submissions := make([]models.Submission, 0, len(index))
	for _, submission := range index {
		submissions = append(submissions, submission)
	}
	return submissions
}
