package authoring

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dycedu/classroom-go/internal/api"
	"github.com/dycedu/classroom-go/internal/models"
)

type fakeCollaborator struct {
	modules   map[uint]models.Module
	questions map[uint][]models.Question

	moduleUpdates   int
	questionCreates int
	questionUpdates int
	questionDeletes int
}

func newFakeCollaborator() *fakeCollaborator {
	return &fakeCollaborator{
		modules:   make(map[uint]models.Module),
		questions: make(map[uint][]models.Question),
	}
}

func (f *fakeCollaborator) GetModule(_ context.Context, id uint) (models.Module, error) {
	return f.modules[id], nil
}

func (f *fakeCollaborator) UpdateModule(_ context.Context, id uint, request api.ModuleRequest) (models.Module, error) {
	f.moduleUpdates++
	module := f.modules[id]
	module.ModuleName = request.ModuleName
	module.IsPosted = request.IsPosted
	f.modules[id] = module
	return module, nil
}

func (f *fakeCollaborator) ModuleQuestions(_ context.Context, moduleID uint) ([]models.Question, error) {
	return f.questions[moduleID], nil
}

func (f *fakeCollaborator) CreateModuleQuestion(_ context.Context, moduleID uint, request api.QuestionRequest) (models.Question, error) {
	f.questionCreates++
	question := models.Question{
		ID:            uint(len(f.questions[moduleID]) + 1),
		ModuleID:      moduleID,
		QuestionText:  request.QuestionText,
		QuestionType:  request.QuestionType,
		QuestionOrder: request.QuestionOrder,
	}
	f.questions[moduleID] = append(f.questions[moduleID], question)
	return question, nil
}

func (f *fakeCollaborator) UpdateQuestion(_ context.Context, id uint, request api.QuestionRequest) (models.Question, error) {
	f.questionUpdates++
	return models.Question{ID: id, QuestionText: request.QuestionText}, nil
}

func (f *fakeCollaborator) DeleteQuestion(_ context.Context, _ uint) error {
	f.questionDeletes++
	return nil
}

func TestPostedModuleRejectsAllEdits(t *testing.T) {
	collab := newFakeCollaborator()
	collab.modules[1] = models.Module{ID: 1, ModuleName: "Greetings", IsPosted: true}
	svc := NewService(collab, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.UpdateModule(ctx, 1, api.ModuleRequest{ModuleName: "Renamed"})
	require.ErrorIs(t, err, ErrModulePosted)

	_, err = svc.AddQuestion(ctx, 1, api.QuestionRequest{QuestionText: "Say hello", QuestionType: models.QuestionTypeAudio})
	require.ErrorIs(t, err, ErrModulePosted)

	_, err = svc.UpdateQuestion(ctx, 1, 5, api.QuestionRequest{QuestionText: "edited"})
	require.ErrorIs(t, err, ErrModulePosted)

	require.ErrorIs(t, svc.DeleteQuestion(ctx, 1, 5), ErrModulePosted)

	require.Zero(t, collab.moduleUpdates)
	require.Zero(t, collab.questionCreates)
	require.Zero(t, collab.questionUpdates)
	require.Zero(t, collab.questionDeletes)
}

func TestPostModuleIsOneWay(t *testing.T) {
	collab := newFakeCollaborator()
	collab.modules[1] = models.Module{ID: 1, ModuleName: "Numbers", ModuleOrder: 2}
	svc := NewService(collab, zerolog.Nop())
	ctx := context.Background()

	posted, err := svc.PostModule(ctx, 1)
	require.NoError(t, err)
	require.True(t, posted.IsPosted)

	// A second post attempt hits the immutability guard.
	_, err = svc.PostModule(ctx, 1)
	require.ErrorIs(t, err, ErrModulePosted)
}

func TestAddQuestionAssignsNextOrder(t *testing.T) {
	collab := newFakeCollaborator()
	collab.modules[1] = models.Module{ID: 1}
	collab.questions[1] = []models.Question{
		{ID: 10, QuestionOrder: 1},
		{ID: 11, QuestionOrder: 3},
	}
	svc := NewService(collab, zerolog.Nop())

	question, err := svc.AddQuestion(context.Background(), 1, api.QuestionRequest{
		QuestionText: "Pick one",
		QuestionType: models.QuestionTypeMultipleChoice,
	})
	require.NoError(t, err)
	require.Equal(t, 4, question.QuestionOrder, "order continues past the highest slot, gaps included")
}

func TestNextQuestionOrder(t *testing.T) {
	require.Equal(t, 1, NextQuestionOrder(nil))
	require.Equal(t, 3, NextQuestionOrder([]models.Question{
		{QuestionOrder: 2},
		{QuestionOrder: 1},
	}))
}

func TestOptionsRemovePrunesCorrectAnswers(t *testing.T) {
	question := models.Question{
		QuestionType:   models.QuestionTypeMultipleChoice,
		MCQOptions:     []string{"kon'nichiwa", "sayonara", "arigatou"},
		CorrectAnswers: []string{"kon'nichiwa", "stale answer"},
	}

	options := NewOptions(question)
	require.Equal(t, []string{"kon'nichiwa"}, options.Correct(), "seeding drops answers outside the option list")

	require.NoError(t, options.MarkCorrect("arigatou"))
	options.Remove("kon'nichiwa")

	options.Apply(&question)
	require.Equal(t, []string{"sayonara", "arigatou"}, question.MCQOptions)
	require.Equal(t, []string{"arigatou"}, question.CorrectAnswers)
}

func TestOptionsRenameCarriesCorrectMark(t *testing.T) {
	options := NewOptions(models.Question{
		MCQOptions:     []string{"yes", "no"},
		CorrectAnswers: []string{"yes"},
	})

	require.NoError(t, options.Rename("yes", "hai"))
	require.Equal(t, []string{"hai", "no"}, options.Choices())
	require.Equal(t, []string{"hai"}, options.Correct())

	require.ErrorIs(t, options.Rename("missing", "x"), ErrUnknownOption)
	require.ErrorIs(t, options.Rename("hai", "no"), ErrDuplicateOption)
}

func TestOptionsAddValidation(t *testing.T) {
	options := NewOptions(models.Question{MCQOptions: []string{"a"}})

	require.ErrorIs(t, options.Add("  "), ErrEmptyOption)
	require.ErrorIs(t, options.Add("a"), ErrDuplicateOption)
	require.ErrorIs(t, options.MarkCorrect("b"), ErrUnknownOption)

	require.NoError(t, options.Add("b"))
	require.NoError(t, options.MarkCorrect("b"))
	options.UnmarkCorrect("b")
	require.Empty(t, options.Correct())
}
