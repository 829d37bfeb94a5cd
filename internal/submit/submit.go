package submit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dycedu/classroom-go/internal/api"
	"github.com/dycedu/classroom-go/internal/models"
	"github.com/dycedu/classroom-go/internal/progress"
)

// ErrAlreadySubmitted is the terminal rejection for a module already in
// review mode. No state changes after it is returned.
var ErrAlreadySubmitted = errors.New("assignment already submitted and cannot be resubmitted")

// Collaborator is the slice of the API client the workflow needs.
type Collaborator interface {
	Submit(ctx context.Context, request api.SubmitRequest) (models.Submission, error)
	UpdateSubmission(ctx context.Context, id uint, request api.SubmitRequest) (models.Submission, error)
}

// Answer pairs a question with the user's prepared response. ResponseType is
// the mode actually used: multiple_choice for MCQ questions, written or audio
// for everything else, video for field assignments.
type Answer struct {
	Question     models.Question
	ResponseType string
	Response     string
}

// ValidationError collects every locally detected problem. It is returned
// before any network call is made.
type ValidationError struct {
	Failures []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Failures, "\n")
}

// Result is the settled outcome of one question's submission attempt.
type Result struct {
	QuestionID uint
	Submission models.Submission
	Err        error
}

// Report aggregates per-question outcomes of a whole-module submit. Successes
// and failures coexist: nothing is rolled back when some questions fail.
type Report struct {
	Results []Result
}

// Failed returns the results that did not go through.
func (r Report) Failed() []Result {
	var failed []Result
	for _, result := range r.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}

// Err summarizes failures into one error, or nil when everything succeeded.
func (r Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}

	lines := make([]string, 0, len(failed))
	for _, result := range failed {
		lines = append(lines, fmt.Sprintf("question %d: %s", result.QuestionID, result.Err))
	}

	return fmt.Errorf("%d of %d submissions failed:\n%s", len(failed), len(r.Results), strings.Join(lines, "\n"))
}

// Service runs the submission workflow for a module.
type Service struct {
	collaborator      Collaborator
	allowResubmission bool
	logger            zerolog.Logger
}

// NewService constructs the workflow. allowResubmission selects the
// deployment-wide policy: false locks a module after its first submission,
// true updates existing submissions in place. The same flag governs both the
// module-level and per-question checks.
func NewService(collaborator Collaborator, allowResubmission bool, logger zerolog.Logger) *Service {
	return &Service{
		collaborator:      collaborator,
		allowResubmission: allowResubmission,
		logger:            logger.With().Str("component", "submit_service").Logger(),
	}
}

// SubmitModule validates every answer, then submits them all concurrently and
// collects every outcome after all requests settle. A module already in
// review mode is rejected up front with ErrAlreadySubmitted unless
// resubmission is allowed.
func (s *Service) SubmitModule(ctx context.Context, moduleID uint, answers []Answer, index progress.Index) (Report, error) {
	if ReviewMode(index) && !s.allowResubmission {
		return Report{}, ErrAlreadySubmitted
	}

	if err := validateAnswers(answers); err != nil {
		return Report{}, err
	}

	results := make([]Result, len(answers))

	var wg sync.WaitGroup
	for i, answer := range answers {
		wg.Add(1)
		go func(i int, answer Answer) {
			defer wg.Done()
			results[i] = s.submitOne(ctx, moduleID, answer, index)
		}(i, answer)
	}
	wg.Wait()

	report := Report{Results: results}

	if failed := report.Failed(); len(failed) > 0 {
		s.logger.Warn().
			Uint("module_id", moduleID).
			Int("failed", len(failed)).
			Int("total", len(answers)).
			Msg("module submitted with failures")
	} else {
		s.logger.Info().Uint("module_id", moduleID).Int("total", len(answers)).Msg("module submitted")
	}

	return report, nil
}

func (s *Service) submitOne(ctx context.Context, moduleID uint, answer Answer, index progress.Index) Result {
	result := Result{QuestionID: answer.Question.ID}

	request := api.SubmitRequest{
		QuestionID:     answer.Question.ID,
		ModuleID:       moduleID,
		SubmissionType: answer.ResponseType,
		Response:       answer.Response,
	}

	if existing, ok := index[answer.Question.ID]; ok {
		if !s.allowResubmission {
			result.Err = ErrAlreadySubmitted
			return result
		}
		result.Submission, result.Err = s.collaborator.UpdateSubmission(ctx, existing.ID, request)
		return result
	}

	result.Submission, result.Err = s.collaborator.Submit(ctx, request)
	return result
}

func validateAnswers(answers []Answer) error {
	var failures []string

	for i, answer := range answers {
		label := fmt.Sprintf("question %d", i+1)

		switch {
		case answer.Question.IsMultipleChoice():
			if answer.Response == "" {
				failures = append(failures, label+": please select an answer")
			}
		case answer.ResponseType == models.QuestionTypeWritten:
			if strings.TrimSpace(answer.Response) == "" {
				failures = append(failures, label+": please provide a written response")
			}
		case answer.ResponseType == models.QuestionTypeAudio:
			if answer.Response == "" {
				failures = append(failures, label+": please record an audio response")
			}
		case answer.ResponseType == models.QuestionTypeVideo:
			if answer.Response == "" {
				failures = append(failures, label+": please attach a video file")
			}
		default:
			failures = append(failures, fmt.Sprintf("%s: unsupported response type %q", label, answer.ResponseType))
		}
	}

	if len(failures) > 0 {
		return &ValidationError{Failures: failures}
	}

	return nil
}
