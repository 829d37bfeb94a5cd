package authoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dycedu/classroom-go/internal/api"
	"github.com/dycedu/classroom-go/internal/models"
)

// ErrModulePosted rejects edits to a module after it has been posted.
// Posting is irreversible: students may already be working against the
// module, so its content and question set are frozen.
var ErrModulePosted = errors.New("module is posted and can no longer be edited")

// Collaborator is the slice of the API client the authoring flow needs.
type Collaborator interface {
	GetModule(ctx context.Context, id uint) (models.Module, error)
	UpdateModule(ctx context.Context, id uint, request api.ModuleRequest) (models.Module, error)
	ModuleQuestions(ctx context.Context, moduleID uint) ([]models.Question, error)
	CreateModuleQuestion(ctx context.Context, moduleID uint, request api.QuestionRequest) (models.Question, error)
	UpdateQuestion(ctx context.Context, id uint, request api.QuestionRequest) (models.Question, error)
	DeleteQuestion(ctx context.Context, id uint) error
}

// Service guards teacher-side edits with the posted-module policy before
// delegating to the collaborator. The server enforces the same policy; the
// guard here keeps a doomed edit from ever leaving the client.
type Service interface {
	UpdateModule(ctx context.Context, moduleID uint, request api.ModuleRequest) (models.Module, error)
	PostModule(ctx context.Context, moduleID uint) (models.Module, error)
	AddQuestion(ctx context.Context, moduleID uint, request api.QuestionRequest) (models.Question, error)
	UpdateQuestion(ctx context.Context, moduleID, questionID uint, request api.QuestionRequest) (models.Question, error)
	DeleteQuestion(ctx context.Context, moduleID, questionID uint) error
}

type service struct {
	collaborator Collaborator
	logger       zerolog.Logger
}

// NewService builds the authoring service.
func NewService(collaborator Collaborator, logger zerolog.Logger) Service {
	return &service{
		collaborator: collaborator,
		logger:       logger.With().Str("component", "authoring").Logger(),
	}
}

// EnsureEditable returns ErrModulePosted for posted modules.
func EnsureEditable(module models.Module) error {
	if module.IsPosted {
		return fmt.Errorf("module %d: %w", module.ID, ErrModulePosted)
	}
	return nil
}

// NextQuestionOrder returns the order slot for a question appended to the
// module: one past the highest existing order, starting at 1.
func NextQuestionOrder(questions []models.Question) int {
	next := 1
	for _, question := range questions {
		if question.QuestionOrder >= next {
			next = question.QuestionOrder + 1
		}
	}
	return next
}

func (s *service) editableModule(ctx context.Context, moduleID uint) (models.Module, error) {
	module, err := s.collaborator.GetModule(ctx, moduleID)
	if err != nil {
		return models.Module{}, err
	}
	if err := EnsureEditable(module); err != nil {
		return models.Module{}, err
	}
	return module, nil
}

func (s *service) UpdateModule(ctx context.Context, moduleID uint, request api.ModuleRequest) (models.Module, error) {
	if _, err := s.editableModule(ctx, moduleID); err != nil {
		return models.Module{}, err
	}
	return s.collaborator.UpdateModule(ctx, moduleID, request)
}

// PostModule flips the module to posted. This is the one mutation allowed to
// touch a draft's posted flag, and it only goes one way.
func (s *service) PostModule(ctx context.Context, moduleID uint) (models.Module, error) {
	module, err := s.editableModule(ctx, moduleID)
	if err != nil {
		return models.Module{}, err
	}

	request := api.ModuleRequest{
		CourseID:          module.CourseID,
		ModuleName:        module.ModuleName,
		ModuleDescription: module.ModuleDescription,
		YoutubeLink:       module.YoutubeLink,
		ModuleOrder:       module.ModuleOrder,
		ScoreTotal:        module.ScoreTotal,
		IsPosted:          true,
		DueDate:           module.DueDate,
	}

	posted, err := s.collaborator.UpdateModule(ctx, moduleID, request)
	if err != nil {
		return models.Module{}, err
	}

	s.logger.Info().Uint("module_id", moduleID).Msg("module posted")

	return posted, nil
}

// AddQuestion appends a question to a draft module, assigning the next free
// order slot when the request does not carry one.
func (s *service) AddQuestion(ctx context.Context, moduleID uint, request api.QuestionRequest) (models.Question, error) {
	if _, err := s.editableModule(ctx, moduleID); err != nil {
		return models.Question{}, err
	}

	if request.QuestionOrder == 0 {
		questions, err := s.collaborator.ModuleQuestions(ctx, moduleID)
		if err != nil {
			return models.Question{}, err
		}
		request.QuestionOrder = NextQuestionOrder(questions)
	}

	return s.collaborator.CreateModuleQuestion(ctx, moduleID, request)
}

func (s *service) UpdateQuestion(ctx context.Context, moduleID, questionID uint, request api.QuestionRequest) (models.Question, error) {
	if _, err := s.editableModule(ctx, moduleID); err != nil {
		return models.Question{}, err
	}
	return s.collaborator.UpdateQuestion(ctx, questionID, request)
}

func (s *service) DeleteQuestion(ctx context.Context, moduleID, questionID uint) error {
	if _, err := s.editableModule(ctx, moduleID); err != nil {
		return err
	}
	return s.collaborator.DeleteQuestion(ctx, questionID)
}
