package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dycedu/classroom-go/internal/models"
)

// ModuleRequest is the authoring payload for creating or updating a module.
type ModuleRequest struct {
	CourseID          uint       `json:"course_id" validate:"required"`
	ModuleName        string     `json:"module_name" validate:"required"`
	ModuleDescription string     `json:"module_description"`
	YoutubeLink       string     `json:"youtube_link"`
	ModuleOrder       int        `json:"module_order" validate:"gte=1"`
	ScoreTotal        int        `json:"score_total" validate:"gte=0"`
	IsPosted          bool       `json:"is_posted"`
	DueDate           *time.Time `json:"due_date,omitempty"`
}

// Accessibility is the collaborator's answer to "may this user open the
// module right now". The client treats it as a hint only; the server enforces
// it again on every module-scoped request.
type Accessibility struct {
	IsAccessible bool   `json:"is_accessible"`
	Reason       string `json:"reason,omitempty"`
}

// ListModules lists modules, optionally scoped to one course.
func (c *Client) ListModules(ctx context.Context, courseID uint) ([]models.Module, error) {
	path := "/modules/"
	if courseID != 0 {
		path = fmt.Sprintf("/modules/?course_id=%d", courseID)
	}

	var modules []models.Module
	if err := c.do(ctx, http.MethodGet, path, nil, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

// GetModule fetches one module.
func (c *Client) GetModule(ctx context.Context, id uint) (models.Module, error) {
	var module models.Module
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/modules/%d/", id), nil, &module); err != nil {
		return models.Module{}, err
	}
	return module, nil
}

// CreateModule creates a module.
func (c *Client) CreateModule(ctx context.Context, request ModuleRequest) (models.Module, error) {
	if err := c.validate.Struct(request); err != nil {
		return models.Module{}, err
	}

	var module models.Module
	if err := c.do(ctx, http.MethodPost, "/modules/", request, &module); err != nil {
		return models.Module{}, err
	}
	return module, nil
}

// UpdateModule replaces a module's fields.
func (c *Client) UpdateModule(ctx context.Context, id uint, request ModuleRequest) (models.Module, error) {
	if err := c.validate.Struct(request); err != nil {
		return models.Module{}, err
	}

	var module models.Module
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/modules/%d/", id), request, &module); err != nil {
		return models.Module{}, err
	}
	return module, nil
}

// DeleteModule removes a module.
func (c *Client) DeleteModule(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/modules/%d/", id), nil, nil)
}

// ModuleQuestions lists a module's questions. The collaborator rejects the
// call with 403 when a student has not completed the prerequisite modules.
func (c *Client) ModuleQuestions(ctx context.Context, moduleID uint) ([]models.Question, error) {
	var questions []models.Question
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/modules/%d/questions", moduleID), nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// CreateModuleQuestion appends a question to a module.
func (c *Client) CreateModuleQuestion(ctx context.Context, moduleID uint, request QuestionRequest) (models.Question, error) {
	if err := c.validate.Struct(request); err != nil {
		return models.Question{}, err
	}

	var question models.Question
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/modules/%d/question", moduleID), request, &question); err != nil {
		return models.Question{}, err
	}
	return question, nil
}

// CheckAccessibility asks whether the caller may open the module.
func (c *Client) CheckAccessibility(ctx context.Context, moduleID uint) (Accessibility, error) {
	var accessibility Accessibility
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/modules/%d/accessibility", moduleID), nil, &accessibility); err != nil {
		return Accessibility{}, err
	}
	return accessibility, nil
}
