package view

import (
	"context"
	"fmt"

	"github.com/dycedu/classroom-go/internal/api"
	"github.com/dycedu/classroom-go/internal/models"
	"github.com/dycedu/classroom-go/internal/progress"
	"github.com/dycedu/classroom-go/internal/submit"
)

// QuestionView is one question prepared for display: its lifecycle state and,
// when a submission exists, the stored response for re-display. Audio
// responses stay encoded; playback decodes them, not the view.
type QuestionView struct {
	Question     models.Question      `json:"question"`
	State        submit.QuestionState `json:"state"`
	Response     string               `json:"response,omitempty"`
	ResponseType string               `json:"response_type,omitempty"`
	Grade        *models.Grade        `json:"grade,omitempty"`
}

// HomeworkView is the homework page read model for one module.
type HomeworkView struct {
	Module     models.Module  `json:"module"`
	Questions  []QuestionView `json:"questions"`
	ReviewMode bool           `json:"review_mode"`
	Locked     bool           `json:"locked"`
	Grade      string         `json:"grade,omitempty"`
}

// Homework loads one module's questions with the user's submission state. For
// students the collaborator's accessibility verdict is checked first; a
// denial returns ErrModuleLocked with the server's reason, and the caller
// navigates away without rendering.
func (s *Service) Homework(ctx context.Context, user models.User, moduleID uint) (HomeworkView, error) {
	if user.IsStudent {
		accessibility, err := s.collaborator.CheckAccessibility(ctx, moduleID)
		if err != nil {
			return HomeworkView{}, err
		}
		if !accessibility.IsAccessible {
			if accessibility.Reason != "" {
				return HomeworkView{}, fmt.Errorf("%w: %s", ErrModuleLocked, accessibility.Reason)
			}
			return HomeworkView{}, ErrModuleLocked
		}
	}

	module, err := s.collaborator.GetModule(ctx, moduleID)
	if err != nil {
		return HomeworkView{}, err
	}

	questions, err := s.collaborator.ModuleQuestions(ctx, moduleID)
	if err != nil {
		if api.IsForbidden(err) {
			return HomeworkView{}, fmt.Errorf("%w: %s", ErrModuleLocked, err.Error())
		}
		return HomeworkView{}, err
	}

	submissions, err := s.collaborator.ListSubmissions(ctx, api.SubmissionFilter{ModuleID: moduleID})
	if err != nil {
		return HomeworkView{}, err
	}
	index := progress.BuildIndex(submissions, user.ID)

	view := HomeworkView{
		Module:     module,
		Questions:  make([]QuestionView, 0, len(questions)),
		ReviewMode: submit.ReviewMode(index),
		Locked:     submit.Locked(index, s.allowResubmission),
		Grade:      progress.Aggregate(indexSubmissions(index)).Display(),
	}

	for _, question := range sortQuestions(questions) {
		questionView := QuestionView{
			Question: question,
			State:    submit.StateOf(question.ID, index, s.allowResubmission),
		}
		if response, responseType, ok := index.Response(question.ID); ok {
			questionView.Response = response
			questionView.ResponseType = responseType
			if submission, ok := index[question.ID]; ok {
				questionView.Grade = submission.Grade
			}
		}
		view.Questions = append(view.Questions, questionView)
	}

	return view, nil
}
