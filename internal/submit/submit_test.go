package submit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dycedu/classroom-go/internal/api"
	"github.com/dycedu/classroom-go/internal/models"
	"github.com/dycedu/classroom-go/internal/progress"
)

type fakeCollaborator struct {
	mu      sync.Mutex
	submits []api.SubmitRequest
	updates map[uint]api.SubmitRequest
	failFor map[uint]error
	nextID  uint
}

func newFakeCollaborator() *fakeCollaborator {
	return &fakeCollaborator{
		updates: make(map[uint]api.SubmitRequest),
		failFor: make(map[uint]error),
		nextID:  100,
	}
}

func (f *fakeCollaborator) Submit(_ context.Context, request api.SubmitRequest) (models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.failFor[request.QuestionID]; ok {
		return models.Submission{}, err
	}

	f.submits = append(f.submits, request)
	f.nextID++
	return models.Submission{
		ID:                 f.nextID,
		QuestionID:         request.QuestionID,
		ModuleID:           request.ModuleID,
		SubmissionType:     request.SubmissionType,
		SubmissionResponse: request.Response,
	}, nil
}

func (f *fakeCollaborator) UpdateSubmission(_ context.Context, id uint, request api.SubmitRequest) (models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates[id] = request
	return models.Submission{ID: id, QuestionID: request.QuestionID, SubmissionResponse: request.Response}, nil
}

func writtenAnswer(questionID uint, text string) Answer {
	return Answer{
		Question:     models.Question{ID: questionID, QuestionType: models.QuestionTypeWritten},
		ResponseType: models.QuestionTypeWritten,
		Response:     text,
	}
}

func TestSubmitModuleSubmitsEveryAnswer(t *testing.T) {
	collab := newFakeCollaborator()
	svc := NewService(collab, false, zerolog.Nop())

	answers := []Answer{
		writtenAnswer(1, "first response"),
		writtenAnswer(2, "second response"),
	}

	report, err := svc.SubmitModule(context.Background(), 10, answers, progress.Index{})
	require.NoError(t, err)
	require.NoError(t, report.Err())
	require.Len(t, report.Results, 2)
	require.Len(t, collab.submits, 2)

	for _, result := range report.Results {
		require.NoError(t, result.Err)
		require.NotZero(t, result.Submission.ID)
	}
}

func TestSubmitModuleRejectsReviewMode(t *testing.T) {
	collab := newFakeCollaborator()
	svc := NewService(collab, false, zerolog.Nop())

	// One existing submission puts the whole module in review.
	index := progress.Index{1: models.Submission{ID: 50, QuestionID: 1, UserID: 7}}

	_, err := svc.SubmitModule(context.Background(), 10, []Answer{writtenAnswer(2, "late answer")}, index)
	require.ErrorIs(t, err, ErrAlreadySubmitted)
	require.Empty(t, collab.submits, "terminal rejection produces no state change")
}

func TestSubmitModuleResubmissionUpdatesInPlace(t *testing.T) {
	collab := newFakeCollaborator()
	svc := NewService(collab, true, zerolog.Nop())

	index := progress.Index{1: models.Submission{ID: 50, QuestionID: 1, UserID: 7}}

	answers := []Answer{
		writtenAnswer(1, "revised response"),
		writtenAnswer(2, "new response"),
	}

	report, err := svc.SubmitModule(context.Background(), 10, answers, index)
	require.NoError(t, err)
	require.NoError(t, report.Err())

	require.Len(t, collab.updates, 1)
	require.Equal(t, "revised response", collab.updates[50].Response)
	require.Len(t, collab.submits, 1)
	require.Equal(t, uint(2), collab.submits[0].QuestionID)
}

func TestSubmitModuleValidatesBeforeNetwork(t *testing.T) {
	collab := newFakeCollaborator()
	svc := NewService(collab, false, zerolog.Nop())

	answers := []Answer{
		writtenAnswer(1, "   "),
		{
			Question:     models.Question{ID: 2, QuestionType: models.QuestionTypeMultipleChoice, MCQOptions: []string{"a", "b"}},
			ResponseType: models.QuestionTypeMultipleChoice,
			Response:     "",
		},
		{
			Question:     models.Question{ID: 3, QuestionType: models.QuestionTypeAudio},
			ResponseType: models.QuestionTypeAudio,
			Response:     "",
		},
	}

	_, err := svc.SubmitModule(context.Background(), 10, answers, progress.Index{})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Failures, 3)
	require.Contains(t, validationErr.Failures[0], "written response")
	require.Contains(t, validationErr.Failures[1], "select an answer")
	require.Contains(t, validationErr.Failures[2], "record an audio response")
	require.Empty(t, collab.submits, "validation failures never reach the network")
}

func TestSubmitModulePartialFailureIsAggregated(t *testing.T) {
	collab := newFakeCollaborator()
	collab.failFor[2] = errors.New("server error, please try again")
	svc := NewService(collab, false, zerolog.Nop())

	answers := []Answer{
		writtenAnswer(1, "ok"),
		writtenAnswer(2, "will fail"),
		writtenAnswer(3, "also ok"),
	}

	report, err := svc.SubmitModule(context.Background(), 10, answers, progress.Index{})
	require.NoError(t, err, "partial failure is reported through the report, not the call error")

	failed := report.Failed()
	require.Len(t, failed, 1)
	require.Equal(t, uint(2), failed[0].QuestionID)

	// The two successes are not rolled back.
	require.Len(t, collab.submits, 2)

	aggErr := report.Err()
	require.Error(t, aggErr)
	require.Contains(t, aggErr.Error(), "1 of 3 submissions failed")
	require.Contains(t, aggErr.Error(), "question 2")
}

func TestQuestionStates(t *testing.T) {
	empty := progress.Index{}
	require.Equal(t, StateUnanswered, StateOf(1, empty, false))
	require.False(t, ReviewMode(empty))
	require.False(t, Locked(empty, false))

	index := progress.Index{1: models.Submission{ID: 5, QuestionID: 1}}
	require.True(t, ReviewMode(index))
	require.True(t, Locked(index, false))
	require.Equal(t, StateReviewed, StateOf(1, index, false))
	require.Equal(t, StateUnanswered, StateOf(2, index, false))

	// With resubmission allowed the module never locks.
	require.False(t, Locked(index, true))
	require.Equal(t, StateAnswered, StateOf(1, index, true))
}
