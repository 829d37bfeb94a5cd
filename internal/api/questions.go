package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dycedu/classroom-go/internal/models"
)

// QuestionRequest is the authoring payload for creating or updating a question.
type QuestionRequest struct {
	ModuleID       uint     `json:"module_id,omitempty"`
	QuestionText   string   `json:"question_text" validate:"required"`
	QuestionType   string   `json:"question_type" validate:"required,oneof=multiple_choice audio written video"`
	MCQOptions     []string `json:"mcq_options"`
	CorrectAnswers []string `json:"correct_answers"`
	QuestionOrder  int      `json:"question_order" validate:"gte=1"`
	ScoreTotal     int      `json:"score_total" validate:"gte=0"`
}

// ListQuestions lists questions, optionally scoped to one module.
func (c *Client) ListQuestions(ctx context.Context, moduleID uint) ([]models.Question, error) {
	path := "/questions/"
	if moduleID != 0 {
		path = fmt.Sprintf("/questions/?module_id=%d", moduleID)
	}

	var questions []models.Question
	if err := c.do(ctx, http.MethodGet, path, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GetQuestion fetches one question within its module.
func (c *Client) GetQuestion(ctx context.Context, questionID, moduleID uint) (models.Question, error) {
	var question models.Question
	path := fmt.Sprintf("/questions/questionid=%d?module_id=%d", questionID, moduleID)
	if err := c.do(ctx, http.MethodGet, path, nil, &question); err != nil {
		return models.Question{}, err
	}
	return question, nil
}

// CreateQuestion creates a question.
func (c *Client) CreateQuestion(ctx context.Context, request QuestionRequest) (models.Question, error) {
	if err := c.validate.Struct(request); err != nil {
		return models.Question{}, err
	}

	var question models.Question
	if err := c.do(ctx, http.MethodPost, "/questions/", request, &question); err != nil {
		return models.Question{}, err
	}
	return question, nil
}

// UpdateQuestion replaces a question's fields.
func (c *Client) UpdateQuestion(ctx context.Context, id uint, request QuestionRequest) (models.Question, error) {
	if err := c.validate.Struct(request); err != nil {
		return models.Question{}, err
	}

	var question models.Question
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/questions/%d/", id), request, &question); err != nil {
		return models.Question{}, err
	}
	return question, nil
}

// DeleteQuestion removes a question.
func (c *Client) DeleteQuestion(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/questions/%d/", id), nil, nil)
}
